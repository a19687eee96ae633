package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xenking/novexa-store/internal/app"
	"github.com/xenking/novexa-store/internal/domain/access"
)

func newAdminsCmd() *cobra.Command {
	var (
		emails     string
		production bool
	)
	cmd := &cobra.Command{
		Use:   "admins [email...]",
		Short: "Print the admin allow-list and check addresses against it",
		Long: `Print the normalized admin allow-list the API server would use, read from
the same environment and config files, then report for every argument whether
it is an admin address. --emails and --production override the configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadGateConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("emails") {
				cfg.AdminEmails = access.ParseAdminEmails(emails)
			}
			if cmd.Flags().Changed("production") {
				cfg.Production = production
			}
			gate := access.NewGate(cfg, access.ContextProvider{}, nil)

			out := cmd.OutOrStdout()
			registry := gate.Registry()
			if registry.Len() == 0 {
				mode := "development: every address is an admin"
				if gate.Production() {
					mode = "production: no address is an admin"
				}
				fmt.Fprintf(out, "allow-list is empty (%s)\n", mode)
			}
			for _, e := range registry.Emails() {
				fmt.Fprintln(out, e)
			}

			for _, arg := range args {
				verdict := "not admin"
				if gate.IsAdminEmail(arg) {
					verdict = "admin"
				}
				fmt.Fprintf(out, "%s: %s\n", arg, verdict)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&emails, "emails", "", "comma-separated admin allow-list (overrides configuration)")
	cmd.Flags().BoolVar(&production, "production", false, "evaluate in production mode (overrides configuration)")
	return cmd
}
