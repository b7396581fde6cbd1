package report

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeHistoryInto_MissingPreviousHistory(t *testing.T) {
	results := t.TempDir()
	writeTree(t, results, map[string]string{"history/existing.json": "keep"})

	err := MergeHistoryInto(filepath.Join(t.TempDir(), "allure-report", "history"), results)
	require.NoError(t, err)
	require.Equal(t, "keep", readFile(t, filepath.Join(results, "history", "existing.json")))
}

func TestMergeHistoryInto_MissingPreviousHistoryCreatesNothing(t *testing.T) {
	results := t.TempDir()

	require.NoError(t, MergeHistoryInto(filepath.Join(t.TempDir(), "history"), results))

	_, err := os.Stat(filepath.Join(results, "history"))
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMergeHistoryInto_EmptyPreviousHistory(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, dir string)
	}{
		{
			name:  "no entries",
			setup: func(t *testing.T, dir string) {},
		},
		{
			name: "only subdirectories",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			previous := filepath.Join(t.TempDir(), "history")
			require.NoError(t, os.MkdirAll(previous, 0755))
			tt.setup(t, previous)

			results := t.TempDir()
			writeTree(t, results, map[string]string{"history/existing.json": "keep"})

			err := MergeHistoryInto(previous, results)
			require.ErrorIs(t, err, ErrHistoryEmpty)
			require.NotErrorIs(t, err, ErrIO)
			require.Contains(t, err.Error(), previous)

			// the results history is left alone
			require.Equal(t, "keep", readFile(t, filepath.Join(results, "history", "existing.json")))
		})
	}
}

func TestMergeHistoryInto_ReplacesResultsHistory(t *testing.T) {
	previous := filepath.Join(t.TempDir(), "history")
	writeTree(t, previous, map[string]string{
		"history.json":        `{"a":1}`,
		"history-trend.json":  `[1]`,
		"duration-trend.json": `[2]`,
		"nested/ignored.json": "nested",
	})

	results := t.TempDir()
	writeTree(t, results, map[string]string{
		"history/stale.json": "stale",
		"result.json":        "result",
	})

	require.NoError(t, MergeHistoryInto(previous, results))

	entries, err := os.ReadDir(filepath.Join(results, "history"))
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.ElementsMatch(t, []string{"history.json", "history-trend.json", "duration-trend.json"}, names)
	require.Equal(t, `{"a":1}`, readFile(t, filepath.Join(results, "history", "history.json")))
	require.Equal(t, "result", readFile(t, filepath.Join(results, "result.json")))
}

func TestMergeHistoryInto_FollowsFileSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need extra privileges on windows")
	}
	store := t.TempDir()
	writeTree(t, store, map[string]string{"history.json": `{"uid":"1"}`})

	previous := filepath.Join(t.TempDir(), "history")
	require.NoError(t, os.MkdirAll(previous, 0755))
	require.NoError(t, os.Symlink(filepath.Join(store, "history.json"), filepath.Join(previous, "history.json")))

	results := t.TempDir()
	require.NoError(t, MergeHistoryInto(previous, results))

	copied := filepath.Join(results, "history", "history.json")
	info, err := os.Lstat(copied)
	require.NoError(t, err)
	require.True(t, info.Mode().IsRegular())
	require.Equal(t, `{"uid":"1"}`, readFile(t, copied))
}

func TestMergeHistoryInto_DanglingSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need extra privileges on windows")
	}
	previous := filepath.Join(t.TempDir(), "history")
	require.NoError(t, os.MkdirAll(previous, 0755))
	require.NoError(t, os.Symlink(filepath.Join(previous, "gone.json"), filepath.Join(previous, "history.json")))

	err := MergeHistoryInto(previous, t.TempDir())
	require.ErrorIs(t, err, ErrIO)
	require.ErrorIs(t, err, fs.ErrNotExist)
}
