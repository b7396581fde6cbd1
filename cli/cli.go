package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/perfgo/reportkeeper/report"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "reportkeeper"

type App struct {
	logger zerolog.Logger
	cli    *cli.App
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger: logger,
		cli: &cli.App{
			Name:  AppName,
			Usage: "Generate Allure reports, keeping their history and previous reports",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
				&cli.StringFlag{
					Name:    "config",
					Aliases: []string{"c"},
					Usage:   "YAML configuration file",
					EnvVars: []string{"REPORTKEEPER_CONFIG"},
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "Directory the report is rendered into",
					EnvVars: []string{"REPORTKEEPER_OUTPUT"},
				},
				&cli.StringFlag{
					Name:    "archive-dir",
					Usage:   "Directory previous reports are archived to (default: the output directory)",
					EnvVars: []string{"REPORTKEEPER_ARCHIVE_DIR"},
				},
				&cli.StringFlag{
					Name:  "artifact-name",
					Usage: fmt.Sprintf("Name of the report directory inside the output directory (default: %s)", report.DefaultArtifactName),
				},
				&cli.StringFlag{
					Name:  "renderer",
					Usage: fmt.Sprintf("Report renderer executable (default: %s)", report.DefaultRendererBinary),
				},
			},
			Before: func(ctx *cli.Context) error {
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
	}
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "generate",
		Usage:  "Render a report from a results directory",
		Action: app.generate,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "results",
				Aliases: []string{"r"},
				Usage:   "Directory with the raw test results",
				EnvVars: []string{"REPORTKEEPER_RESULTS"},
			},
			&cli.BoolFlag{
				Name:  "keep-history",
				Usage: "Carry the previous report's trend history into the new report",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "keep-reports",
				Usage: "Archive the previous report before it is overwritten",
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "Custom report title (default: the renderer's)",
			},
			&cli.StringSliceFlag{
				Name:    "env",
				Aliases: []string{"e"},
				Usage:   "Environment parameter KEY=VALUE shown in the report (can be specified multiple times)",
			},
			&cli.BoolFlag{
				Name:  "git-env",
				Usage: "Add the current git commit and branch as environment parameters",
			},
			&cli.StringFlag{
				Name:  "previous-report",
				Usage: "Report to take history from (default: the report in the output directory)",
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "list",
		Usage:  "List archived reports",
		Action: app.list,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Limit number of results (default: 20)",
				Value:   20,
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:            "view",
		Usage:           "Show the summary of an archived report",
		ArgsUsage:       "[INDEX|NAME]",
		Action:          app.view,
		SkipFlagParsing: true,
		Description: `Show the summary of an archived report.

Arguments:
  0           Newest archived report (default)
  -1          2nd newest archived report
  <name>      Archived report whose name or timestamp starts with <name>

Examples:
  reportkeeper -o out view               # newest archived report
  reportkeeper -o out view -1            # the one before
  reportkeeper -o out view 2024-01-01    # archived on 2024-01-01`,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:            "open",
		Usage:           "Open an archived report with the renderer",
		ArgsUsage:       "[INDEX|NAME] [-- RENDERER ARGS]",
		Action:          app.open,
		SkipFlagParsing: true,
		Description: `Serve an archived report with "<renderer> open".

Examples:
  reportkeeper -o out open                  # newest archived report
  reportkeeper -o out open -1 -- --port 8080`,
	})
	return app
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && commit != "" {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:min(8, len(commit))], date)
	}
}

// config loads the config file named by --config and applies the global
// location flags on top of it.
func (a *App) config(ctx *cli.Context) (*Config, error) {
	cfg, err := loadConfig(ctx.String("config"))
	if err != nil {
		return nil, err
	}
	cfg.Output = pick(ctx.String("output"), cfg.Output)
	cfg.ArchiveDir = pick(ctx.String("archive-dir"), cfg.ArchiveDir)
	cfg.ArtifactName = pick(ctx.String("artifact-name"), cfg.ArtifactName)
	cfg.Renderer = pick(ctx.String("renderer"), cfg.Renderer)
	if cfg.ArtifactName == "" {
		cfg.ArtifactName = report.DefaultArtifactName
	}
	return cfg, nil
}

// archiveRoot returns where archived reports of cfg live.
func (c *Config) archiveRoot() (string, error) {
	if c.ArchiveDir != "" {
		return c.ArchiveDir, nil
	}
	if c.Output != "" {
		return c.Output, nil
	}
	return "", fmt.Errorf("no archive location: set --archive-dir or --output")
}

func (a *App) generate(ctx *cli.Context) error {
	cfg, err := a.config(ctx)
	if err != nil {
		return err
	}

	opts := generateOptions{
		results:        ctx.String("results"),
		title:          ctx.String("title"),
		previousReport: ctx.String("previous-report"),
		env:            ctx.StringSlice("env"),
	}
	if ctx.IsSet("keep-history") {
		v := ctx.Bool("keep-history")
		opts.keepHistory = &v
	}
	if ctx.IsSet("keep-reports") {
		v := ctx.Bool("keep-reports")
		opts.keepReports = &v
	}

	req, err := cfg.request(opts)
	if err != nil {
		return err
	}

	if ctx.Bool("git-env") {
		if commit, branch, err := a.getGitInfo(); err != nil {
			a.logger.Warn().Err(err).Msg("Skipping git environment parameters")
		} else {
			if req.Environment == nil {
				req.Environment = map[string]string{}
			}
			setDefault(req.Environment, "GIT_COMMIT", commit)
			setDefault(req.Environment, "GIT_BRANCH", branch)
		}
	}

	logger := a.logger.With().Str("run", uuid.New().String()[:8]).Logger()
	if abs, err := filepath.Abs(req.OutputDir); err == nil {
		logger.Debug().Str("output", abs).Msg("Resolved output directory")
	}

	manager := report.NewManager(logger, report.NewCommandRenderer(logger, cfg.Renderer))
	if err := manager.Generate(req); err != nil {
		event := logger.Error().Err(err).Stringer("state", manager.State())
		var renderErr *report.RenderError
		if errors.As(err, &renderErr) {
			event.Str("renderer_output", renderErr.Output)
		}
		event.Msg("Report generation failed")
		return err
	}
	return nil
}

func setDefault(m map[string]string, key, value string) {
	if _, ok := m[key]; !ok {
		m[key] = value
	}
}
