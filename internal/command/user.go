package command

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

// UserCommand groups account administration from the terminal.
func UserCommand() *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "manage user accounts",
		Subcommands: []*cli.Command{
			userAddCommand(),
		},
	}
}

func userAddCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "register a user",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "username",
				Aliases:  []string{"u"},
				Usage:    "account username",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "password-stdin",
				Usage: "read the password from the first line of stdin",
			},
		},
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

			password, err := readPassword(c)
			if err != nil {
				return err
			}

			store, err := openStore(c.Context, cfg.Database)
			if err != nil {
				return err
			}
			defer store.Close()

			svc, err := newServices(store, cfg.Auth)
			if err != nil {
				return err
			}

			user, err := svc.auth.Register(c.Context, c.String("username"), password)
			if err != nil {
				return fmt.Errorf("register user: %w", err)
			}
			fmt.Fprintf(c.App.Writer, "created user %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}
}

// readPassword takes the password from stdin when --password-stdin is set,
// otherwise prompts twice on the terminal without echo.
func readPassword(c *cli.Context) (string, error) {
	if c.Bool("password-stdin") {
		line, err := bufio.NewReader(c.App.Reader).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal; use --password-stdin")
	}

	fmt.Fprint(c.App.ErrWriter, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(c.App.ErrWriter)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	fmt.Fprint(c.App.ErrWriter, "Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(c.App.ErrWriter)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
