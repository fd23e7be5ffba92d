package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/exp/slog"

	"github.com/alovak/cardsynth/synth"
)

// Root returns the root CLI command.
func Root() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:  "cardsynth",
		Usage: "Generate Luhn-valid test card entries from a number prefix",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to YAML configuration file (defaults apply when unset)",
				Destination: &configPath,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := slog.LevelInfo
			if cmd.Bool("debug") {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(errWriter(cmd), &slog.HandlerOptions{Level: level}))

			cfg, err := synth.LoadConfig(configPath)
			if err != nil {
				return ctx, err
			}
			cmd.Metadata["config"] = cfg
			cmd.Metadata["logger"] = logger
			return ctx, nil
		},
		Commands: []*cli.Command{
			generateCommand(),
			checkCommand(),
			serveCommand(),
		},
		Metadata: map[string]any{},
	}
}

func configFrom(cmd *cli.Command) (*synth.Config, error) {
	cfg, ok := cmd.Root().Metadata["config"].(*synth.Config)
	if !ok {
		return nil, fmt.Errorf("config not found in command metadata")
	}
	return cfg, nil
}

func loggerFrom(cmd *cli.Command) *slog.Logger {
	if l, ok := cmd.Root().Metadata["logger"].(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// localService builds an in-process service reading "now" in the configured timezone.
func localService(cmd *cli.Command, cfg *synth.Config) (*synth.Service, error) {
	clock, err := cfg.Clock()
	if err != nil {
		return nil, err
	}
	return synth.NewService(synth.NewGenerator(nil, clock), cfg, loggerFrom(cmd)), nil
}

func outWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func errWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

func inReader(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}
