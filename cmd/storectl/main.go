// Command storectl is the operator tool for the store: it inspects the admin
// allow-list, prices carts offline, seeds the catalog and issues API tokens.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "storectl",
		Short:         "Operate the Novexa store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newAdminsCmd(),
		newCartTotalCmd(),
		newSeedCmd(),
		newTokenCmd(),
	)
	return root
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "storectl:", err)
		cancel()
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	lg, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return lg
}
