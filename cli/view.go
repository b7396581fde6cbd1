package cli

// This file contains the view and open commands for archived reports.

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/perfgo/reportkeeper/model"
	"github.com/perfgo/reportkeeper/report"
	"github.com/perfgo/reportkeeper/snapshot"
	"github.com/urfave/cli/v2"
)

func removeFirstDashDash(in []string) []string {
	if len(in) > 0 && in[0] == "--" {
		return in[1:]
	}
	return in
}

func parseViewArgs(in []string) (idArg string, rendererArgs []string) {
	if len(in) == 0 {
		return "0", nil
	}

	// If first arg is "--", use default "0" and rest are renderer args
	if in[0] == "--" {
		return "0", in[1:]
	}

	// A negative index is "-" followed by only digits (e.g., "-1", "-2");
	// anything else starting with "-" is a renderer flag (e.g., "--port")
	if len(in[0]) > 1 && in[0][0] == '-' {
		if _, err := strconv.ParseInt(in[0], 10, 64); err != nil {
			return "0", in
		}
	}

	// First arg is the index/name, rest are renderer args (with optional "--" removed)
	return in[0], removeFirstDashDash(in[1:])
}

// findSnapshot resolves the index or name argument to an archived report.
func (a *App) findSnapshot(ctx *cli.Context, arg string) (*Config, *model.Snapshot, error) {
	cfg, err := a.config(ctx)
	if err != nil {
		return nil, nil, err
	}
	root, err := cfg.archiveRoot()
	if err != nil {
		return nil, nil, err
	}

	snapshots, err := snapshot.Load(a.logger, root, cfg.ArtifactName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load archived reports: %w", err)
	}

	s, err := snapshot.Find(snapshots, cfg.ArtifactName, arg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, s, nil
}

func (a *App) view(ctx *cli.Context) error {
	arg, _ := parseViewArgs(ctx.Args().Slice())

	_, s, err := a.findSnapshot(ctx, arg)
	if err != nil {
		return err
	}

	fmt.Printf("=== Archived report: %s ===\n", s.Name)
	fmt.Printf("Created: %s\n", s.CreatedAt.Format("2006-01-02 15:04:05"))
	if s.ReportName != "" {
		fmt.Printf("Title: %s\n", s.ReportName)
	}
	if s.Statistic != nil {
		fmt.Printf("Tests: %s\n", formatStatistic(s.Statistic))
	} else {
		fmt.Println("Tests: no summary found")
	}
	fmt.Printf("Path: %s\n", s.Path)
	return nil
}

func (a *App) open(ctx *cli.Context) error {
	arg, rendererArgs := parseViewArgs(ctx.Args().Slice())

	cfg, s, err := a.findSnapshot(ctx, arg)
	if err != nil {
		return err
	}

	binary := cfg.Renderer
	if binary == "" {
		binary = report.DefaultRendererBinary
	}

	args := []string{"open"}
	args = append(args, rendererArgs...)
	args = append(args, s.Path)

	a.logger.Info().Str("report", s.Path).Msg("Opening archived report")

	cmd := exec.Command(binary, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
