package main

import (
	"fmt"
	"io"
	"os"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/xenking/novexa-store/internal/domain/pricing"
)

func newCartTotalCmd() *cobra.Command {
	var (
		file     string
		discount string
	)
	cmd := &cobra.Command{
		Use:   "cart-total",
		Short: "Price a cart read from a JSON file",
		Long: `Read a JSON array of line items ({"id", "price" in cents, "quantity"})
from --file ("-" for stdin) and print the subtotal and the total after the
--discount percentage.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pct, err := decimal.NewFromString(discount)
			if err != nil {
				return errors.Wrapf(err, "parse discount %q", discount)
			}

			var r io.Reader = cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return errors.Wrap(err, "open items file")
				}
				defer func() { _ = f.Close() }()
				r = f
			}
			data, err := io.ReadAll(r)
			if err != nil {
				return errors.Wrap(err, "read items")
			}
			items, err := decodeItems(data)
			if err != nil {
				return err
			}

			if err := pricing.Validate(items, pct); err != nil {
				return err
			}
			subtotal := pricing.Subtotal(items)
			total := pricing.ComputeCartTotal(items, pct)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "items:    %d\n", len(items))
			fmt.Fprintf(out, "subtotal: %s\n", decimal.New(subtotal, -2).StringFixed(2))
			fmt.Fprintf(out, "discount: %s%%\n", pct.String())
			fmt.Fprintf(out, "total:    %s\n", decimal.New(total, -2).StringFixed(2))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", `line items JSON file, "-" for stdin`)
	cmd.Flags().StringVar(&discount, "discount", "0", "discount percentage in [0, 100]")
	return cmd
}

func decodeItems(data []byte) ([]pricing.LineItem, error) {
	var items []pricing.LineItem
	err := jx.DecodeBytes(data).Arr(func(d *jx.Decoder) error {
		var it pricing.LineItem
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "id":
				it.ID, err = d.Str()
			case "name":
				it.Name, err = d.Str()
			case "price":
				it.Price, err = d.Int64()
			case "quantity":
				it.Quantity, err = d.Int64()
			default:
				err = d.Skip()
			}
			return err
		}); err != nil {
			return err
		}
		items = append(items, it)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode items")
	}
	return items, nil
}
