package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/exp/slog"

	"github.com/alovak/cardsynth/internal/synthclient"
	"github.com/alovak/cardsynth/synth"
)

var (
	errNoEntries      = errors.New("no entries found")
	errInvalidEntries = errors.New("invalid entries")
)

func generateCommand() *cli.Command {
	var (
		count  int
		unique bool
		server string
		asJSON bool
	)

	return &cli.Command{
		Name:      "generate",
		Usage:     "Generate entries from prefix|MM|YY|cvv",
		ArgsUsage: "<prefix[|MM|YY[|cvv]]>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "count",
				Aliases:     []string{"n"},
				Usage:       "Number of entries (config default_count when 0)",
				Destination: &count,
			},
			&cli.BoolFlag{
				Name:        "unique",
				Usage:       "Never repeat a number within the batch",
				Destination: &unique,
			},
			&cli.StringFlag{
				Name:        "server",
				Usage:       "Generate through a running synth API at this base URL",
				Destination: &server,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "Print the batch as JSON",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			input := strings.TrimSpace(cmd.Args().First())
			if input == "" {
				return errors.New("provide a prefix argument, e.g. 424242|12|30")
			}
			req := synth.GenerateRequest{Input: input, Count: count, Unique: unique}

			var resp *synth.BatchResponse
			if server != "" {
				resp, err = synthclient.New(server, nil).Generate(ctx, req)
				if err != nil {
					return err
				}
			} else {
				svc, err := localService(cmd, cfg)
				if err != nil {
					return err
				}
				batch, err := svc.Generate(req)
				if err != nil {
					return err
				}
				resp = &synth.BatchResponse{Batch: batch, Text: synth.FormatBatch(batch.Cards)}
			}

			out := outWriter(cmd)
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			_, err = fmt.Fprintln(out, resp.Text)
			return err
		},
	}
}

func checkCommand() *cli.Command {
	var server string

	return &cli.Command{
		Name:      "check",
		Usage:     "Check number|MM|YY|cvv entries from a file or stdin",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "server",
				Usage:       "Check through a running synth API at this base URL",
				Destination: &server,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}

			var r io.Reader = inReader(cmd)
			if path := cmd.Args().First(); path != "" && path != "-" {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("opening %s: %w", path, err)
				}
				defer f.Close()
				r = f
			}
			text, err := io.ReadAll(r)
			if err != nil {
				return fmt.Errorf("reading entries: %w", err)
			}

			var results []synth.CheckResult
			if server != "" {
				results, err = synthclient.New(server, nil).Check(ctx, string(text))
				if err != nil {
					return err
				}
			} else {
				svc, err := localService(cmd, cfg)
				if err != nil {
					return err
				}
				results = svc.Check(string(text))
			}

			out := outWriter(cmd)
			invalid := 0
			for _, res := range results {
				if res.Valid {
					fmt.Fprintf(out, "OK   %s\n", res.Entry)
					continue
				}
				invalid++
				fmt.Fprintf(out, "FAIL %s  %s\n", res.Entry, res.Error)
			}
			if len(results) == 0 {
				return errNoEntries
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d entries: %w", invalid, len(results), errInvalidEntries)
			}
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	var addr string

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the synth HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "Listen address (overrides config http_addr)",
				Destination: &addr,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}

			logger := loggerFrom(cmd)
			app := synth.NewApp(logger, cfg)
			if err := app.Start(); err != nil {
				return err
			}

			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			app.Shutdown(shutdownCtx)
			logger.Info("serve finished", slog.Any("cause", context.Cause(ctx)))
			return nil
		},
	}
}
