package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/sprintboard/internal/cli"
	"github.com/alexanderramin/sprintboard/internal/cli/formatter"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, formatter.Error(cli.UserMessage(err)))
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}
	defer app.Close()

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}
