package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v3"

	"github.com/coderzclub/harness/api"
	"github.com/coderzclub/harness/internal/backend"
	"github.com/coderzclub/harness/internal/environment"
	"github.com/coderzclub/harness/internal/harness"
	"github.com/coderzclub/harness/internal/judge"
	"github.com/coderzclub/harness/internal/langs"
	"github.com/coderzclub/harness/internal/problemfile"
	"github.com/coderzclub/harness/internal/termgath"
)

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	})))

	problemFlag := &cli.StringFlag{
		Name:     "problem",
		Aliases:  []string{"p"},
		Usage:    "path to the problem definition file (.toml or .toml.zst)",
		Required: true,
	}
	codeFlag := &cli.StringFlag{
		Name:     "code",
		Aliases:  []string{"c"},
		Usage:    "path to the solution source file",
		Required: true,
	}
	langFlag := &cli.IntFlag{
		Name:    "lang",
		Aliases: []string{"l"},
		Usage:   "judge language id (see the languages command)",
		Value:   langs.Python,
	}

	cmd := &cli.Command{
		Name:  "harness",
		Usage: "run coding-practice submissions against the remote judge",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "execute all public test cases, regardless of failures",
				Flags: []cli.Flag{problemFlag, codeFlag, langFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					h, req, err := setup(c, false)
					if err != nil {
						return err
					}
					_, err = h.RunAll(ctx, termgath.New(), req)
					return err
				},
			},
			{
				Name:  "submit",
				Usage: "execute public then hidden cases, stopping at the first failure",
				Flags: []cli.Flag{problemFlag, codeFlag, langFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					h, req, err := setup(c, true)
					if err != nil {
						return err
					}
					_, err = h.Submit(ctx, termgath.New(), req)
					return err
				},
			},
			{
				Name:  "custom",
				Usage: "execute the solution once against custom stdin",
				Flags: []cli.Flag{
					problemFlag, codeFlag, langFlag,
					&cli.StringFlag{
						Name:    "stdin",
						Aliases: []string{"i"},
						Usage:   "input passed to the program",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					h, req, err := setup(c, false)
					if err != nil {
						return err
					}
					output, errDetail, err := h.RunCustom(ctx, req, c.String("stdin"))
					if err != nil {
						return err
					}
					if errDetail != nil {
						fmt.Printf("%s: %s\n", errDetail.Kind, errDetail.Message)
					}
					fmt.Println(output)
					return nil
				},
			},
			{
				Name:  "limits",
				Usage: "query the current submission quota for a problem",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "problem-id",
						Usage:    "problem identifier known to the backend",
						Required: true,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg := environment.ReadEnvConfig()
					if err := cfg.Validate(false, true); err != nil {
						return err
					}
					bk := backend.NewClient(cfg.BackendBaseUrl, cfg.BackendToken)
					state, err := bk.FetchLimits(ctx, c.String("problem-id"))
					if err != nil {
						return err
					}
					b, err := json.MarshalIndent(state, "", "  ")
					if err != nil {
						return err
					}
					fmt.Println(string(b))
					return nil
				},
			},
			{
				Name:  "languages",
				Usage: "list supported judge languages",
				Action: func(ctx context.Context, c *cli.Command) error {
					for _, id := range langs.IDs() {
						fmt.Printf("%3d  %s\n", id, langs.Name(id))
					}
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// setup builds a harness and run request from the command's flags. needBackend
// requires the backend env vars; without them run mode still works offline.
func setup(c *cli.Command, needBackend bool) (*harness.Harness, *api.RunReq, error) {
	cfg := environment.ReadEnvConfig()
	if err := cfg.Validate(true, needBackend); err != nil {
		return nil, nil, err
	}

	problem, err := problemfile.Load(c.String("problem"))
	if err != nil {
		return nil, nil, err
	}

	code, err := os.ReadFile(c.String("code"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read solution file: %w", err)
	}

	langId := int(c.Int("lang"))
	if _, ok := langs.ByID(langId); !ok {
		return nil, nil, fmt.Errorf("unsupported language id %d", langId)
	}

	var bk *backend.Client
	if cfg.BackendBaseUrl != "" {
		bk = backend.NewClient(cfg.BackendBaseUrl, cfg.BackendToken)
	}
	jc := judge.NewClient(cfg.JudgeBaseUrl, cfg.JudgeApiKey, cfg.JudgeApiHost)

	return harness.New(jc, bk), problem.ToRunReq(string(code), langId), nil
}
