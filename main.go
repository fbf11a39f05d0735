package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/topwords/internal/count"
	"github.com/dtnitsch/topwords/pkg/help"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		slog.Error("topwords failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "topwords",
		Usage:     "Print the most frequent words across files and directories",
		UsageText: "topwords [flags] <top-n> <path> [path...]\n   topwords count [flags] <top-n> <path> [path...]",
		Flags:     count.Flags(),
		Action:    count.CountAction,
		Commands: []*cli.Command{
			{
				Name:      "count",
				Usage:     "Count words with a pool of workers and print the top N",
				ArgsUsage: "<top-n> <path> [path...]",
				Flags:     count.Flags(),
				Action:    count.CountAction,
			},
			{
				Name:  "coldstart",
				Usage: "Print a quick-start guide in YAML",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprint(c.App.Writer, help.ColdstartYAML)
					return err
				},
			},
		},
	}
}
