package cli

// This file contains the list command for displaying archived reports.

import (
	"fmt"

	"github.com/perfgo/reportkeeper/model"
	"github.com/perfgo/reportkeeper/snapshot"
	"github.com/urfave/cli/v2"
)

func (a *App) list(ctx *cli.Context) error {
	limit := ctx.Int("limit")

	cfg, err := a.config(ctx)
	if err != nil {
		return err
	}
	root, err := cfg.archiveRoot()
	if err != nil {
		return err
	}

	snapshots, err := snapshot.Load(a.logger, root, cfg.ArtifactName)
	if err != nil {
		return fmt.Errorf("failed to load archived reports: %w", err)
	}

	if len(snapshots) == 0 {
		fmt.Printf("No archived reports found in %s\n", root)
		return nil
	}

	// Apply limit
	displayed := snapshots
	if limit > 0 && limit < len(displayed) {
		displayed = displayed[:limit]
	}

	fmt.Printf("\n=== Archived reports (%d total) ===\n\n", len(snapshots))

	for i, s := range displayed {
		fmt.Printf("%s  [%d]  %s\n", statusIndicator(s.Statistic), -i, s.CreatedAt.Format("2006-01-02 15:04:05"))
		if s.ReportName != "" {
			fmt.Printf("   Title: %s\n", s.ReportName)
		}
		if s.Statistic != nil {
			fmt.Printf("   Tests: %s\n", formatStatistic(s.Statistic))
		}
		fmt.Printf("   %s\n", s.Path)
		fmt.Println()
	}

	fmt.Println("\nView summary: reportkeeper view <INDEX|NAME>")
	fmt.Println("Open report: reportkeeper open <INDEX|NAME>")

	return nil
}

func statusIndicator(stat *model.Statistic) string {
	switch {
	case stat == nil:
		return "?"
	case stat.Failed > 0 || stat.Broken > 0:
		return "✗"
	}
	return "✓"
}

func formatStatistic(stat *model.Statistic) string {
	return fmt.Sprintf("%d total, %d passed, %d failed, %d broken, %d skipped, %d unknown",
		stat.Total, stat.Passed, stat.Failed, stat.Broken, stat.Skipped, stat.Unknown)
}
