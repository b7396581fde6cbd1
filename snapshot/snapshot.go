package snapshot

// This file contains discovery of archived reports for listing and
// viewing them.

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/perfgo/reportkeeper/model"
	"github.com/perfgo/reportkeeper/report"
	"github.com/rs/zerolog"
)

// Load returns the snapshots of artifactName found directly under root,
// newest first. A missing root yields no snapshots.
func Load(logger zerolog.Logger, root, artifactName string) ([]model.Snapshot, error) {
	entries, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read archive directory: %w", err)
	}

	prefix := artifactName + "-"
	var snapshots []model.Snapshot
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		created, err := time.ParseInLocation(report.SnapshotTimeFormat, strings.TrimPrefix(entry.Name(), prefix), time.Local)
		if err != nil {
			logger.Debug().Str("dir", entry.Name()).Msg("Skipping directory without snapshot timestamp")
			continue
		}

		s := model.Snapshot{
			Name:      entry.Name(),
			Path:      filepath.Join(root, entry.Name()),
			CreatedAt: created,
		}
		summary, err := report.ReadSummary(report.SummaryPath(s.Path))
		if err != nil {
			logger.Warn().Err(err).Str("path", s.Path).Msg("Failed to read snapshot summary")
		} else {
			s.ReportName = summary.Name()
			s.Statistic = summary.Statistic
		}
		snapshots = append(snapshots, s)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].CreatedAt.After(snapshots[j].CreatedAt)
	})
	return snapshots, nil
}

// Find selects a snapshot from a newest-first list. arg is either an index
// counting back from the newest (0, -1, -2, ...) or a name prefix; the
// artifact name may be left out of the prefix (e.g. "2024-01-01").
func Find(snapshots []model.Snapshot, artifactName, arg string) (*model.Snapshot, error) {
	if len(snapshots) == 0 {
		return nil, errors.New("no archived reports found")
	}

	// positive numbers are treated as timestamp prefixes, e.g. "2024"
	if parsed, err := strconv.ParseInt(arg, 10, 64); err == nil && parsed <= 0 {
		if parsed <= -int64(len(snapshots)) {
			return nil, fmt.Errorf("index %s out of range (only %d archived reports)", arg, len(snapshots))
		}
		return &snapshots[-parsed], nil
	}

	for i := range snapshots {
		name := snapshots[i].Name
		if strings.HasPrefix(name, arg) || strings.HasPrefix(strings.TrimPrefix(name, artifactName+"-"), arg) {
			return &snapshots[i], nil
		}
	}
	return nil, fmt.Errorf("no archived report found matching: %s", arg)
}
