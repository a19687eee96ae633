// Command api-server runs the store API.
package main

import (
	"context"

	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	appkg "github.com/xenking/novexa-store/internal/app"
)

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, m *app.Telemetry) error {
		cfg, err := appkg.LoadConfig()
		if err != nil {
			return err
		}
		if len(cfg.Admin.Emails) == 0 {
			if cfg.Production {
				lg.Warn("Admin allow-list is empty: no e-mail grants admin standing in production")
			} else {
				lg.Warn("Admin allow-list is empty: every signed-in e-mail is an admin outside production")
			}
		}
		return appkg.Run(ctx, lg, m, cfg)
	})
}
