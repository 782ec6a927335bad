package command

import (
	"log/slog"

	"github.com/urfave/cli/v2"
)

// MigrateCommand applies pending schema migrations and exits.
func MigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply database migrations and exit",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.Log, c.App.ErrWriter)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			store, err := openStore(c.Context, cfg.Database)
			if err != nil {
				return err
			}
			return store.Close()
		},
	}
}
