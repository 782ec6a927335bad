package main

import (
	"log/slog"
	"os"

	"github.com/msomdec/accountd/internal/command"
)

func main() {
	if err := command.App().Run(os.Args); err != nil {
		slog.Error("accountd", "error", err)
		os.Exit(1)
	}
}
