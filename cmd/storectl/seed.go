package main

import (
	"os"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xenking/novexa-store/internal/domain/coupon"
	"github.com/xenking/novexa-store/internal/domain/product"
	"github.com/xenking/novexa-store/internal/storage/postgres"
)

var seedCoupons = []coupon.Rule{
	{Code: "WELCOME10", Percent: decimal.NewFromInt(10), Description: "Welcome: 10% off your first order"},
	{Code: "BUNDLE15", Percent: decimal.NewFromInt(15), MinItems: 3, Description: "15% off orders of 3+ items"},
	{Code: "FLASH25", Percent: decimal.NewFromInt(25), MaxUses: 100, Description: "Flash sale: 25% off, first 100 orders"},
}

func newSeedCmd() *cobra.Command {
	var productsFile string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert the demo catalog and coupons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			lg := newLogger()
			defer func() { _ = lg.Sync() }()

			data, err := os.ReadFile(productsFile)
			if err != nil {
				return errors.Wrap(err, "read products file")
			}
			products, err := decodeProducts(data)
			if err != nil {
				return err
			}

			_, pool, err := openStore(ctx, lg)
			if err != nil {
				return err
			}
			defer pool.Close()

			productRepo := postgres.NewProductRepository(pool)
			for _, p := range products {
				if err := productRepo.Upsert(ctx, p); err != nil {
					return err
				}
				lg.Info("Upserted product", zap.String("id", p.ID), zap.String("name", p.Name))
			}

			couponRepo := postgres.NewCouponRepository(pool)
			for _, c := range seedCoupons {
				if err := couponRepo.Upsert(ctx, c); err != nil {
					return err
				}
				lg.Info("Upserted coupon", zap.String("code", c.Code), zap.String("description", c.Description))
			}

			lg.Info("Seed completed", zap.Int("products", len(products)), zap.Int("coupons", len(seedCoupons)))
			return nil
		},
	}
	cmd.Flags().StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	return cmd
}

func decodeProducts(data []byte) ([]product.Product, error) {
	var products []product.Product
	err := jx.DecodeBytes(data).Arr(func(d *jx.Decoder) error {
		p := product.Product{Status: product.StatusPublished}
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "id":
				p.ID, err = d.Str()
			case "name":
				p.Name, err = d.Str()
			case "description":
				p.Description, err = d.Str()
			case "price":
				p.Price, err = d.Int64()
			case "status":
				var s string
				s, err = d.Str()
				p.Status = product.Status(s)
			case "category":
				p.Category, err = d.Str()
			case "mainCategory":
				p.MainCategory, err = d.Str()
			case "stock":
				p.Stock, err = d.Int64()
			case "images":
				err = d.Arr(func(d *jx.Decoder) error {
					img, err := d.Str()
					p.Images = append(p.Images, img)
					return err
				})
			default:
				err = d.Skip()
			}
			return err
		}); err != nil {
			return err
		}
		if p.ID == "" || p.Name == "" {
			return errors.Errorf("product %d: id and name are required", len(products))
		}
		products = append(products, p)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "parse products JSON")
	}
	return products, nil
}
