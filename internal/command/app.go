// Package command wires configuration, storage and services into the accountd
// command-line application.
package command

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// Build information, set via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

// App creates the CLI application. serve is the default command.
func App() *cli.App {
	return &cli.App{
		Name:           "accountd",
		Usage:          "user account registry with bearer-token authentication",
		Version:        fmt.Sprintf("%s (commit: %s)", Version, Commit),
		Flags:          globalFlags(),
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			ServeCommand(),
			MigrateCommand(),
			UserCommand(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to a YAML config file",
			EnvVars: []string{"ACCOUNTD_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "addr",
			Usage: "HTTP listen address (http.addr)",
		},
		&cli.StringFlag{
			Name:  "db-driver",
			Usage: "storage driver: sqlite or postgres (database.driver)",
		},
		&cli.StringFlag{
			Name:  "db-path",
			Usage: "SQLite database file (database.path)",
		},
		&cli.StringFlag{
			Name:  "db-dsn",
			Usage: "PostgreSQL connection string (database.dsn)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error (log.level)",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "text or json (log.format)",
		},
	}
}

// flagKeys maps global flags onto config keys.
var flagKeys = map[string]string{
	"addr":       "http.addr",
	"db-driver":  "database.driver",
	"db-path":    "database.path",
	"db-dsn":     "database.dsn",
	"log-level":  "log.level",
	"log-format": "log.format",
}
