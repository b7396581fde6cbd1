package report

// history.go contains the merge of a previous report's trend history into
// the results directory read by the renderer.

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// HistoryDirName is the trend history directory inside both a rendered report
// and a results directory.
const HistoryDirName = "history"

// MergeHistoryInto replaces resultsDir/history with the flat files of
// previousHistoryDir so the next render can draw trend graphs.
//
// A missing previousHistoryDir is not an error: there is no previous report
// to learn from. A present but empty one fails with ErrHistoryEmpty.
func MergeHistoryInto(previousHistoryDir, resultsDir string) error {
	entries, err := os.ReadDir(previousHistoryDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return ioError("read history", previousHistoryDir, err)
	}

	var historyFiles []string
	for _, entry := range entries {
		mode := entry.Type()
		if mode&fs.ModeSymlink != 0 {
			target, err := os.Stat(filepath.Join(previousHistoryDir, entry.Name()))
			if err != nil {
				return ioError("resolve symlink", filepath.Join(previousHistoryDir, entry.Name()), err)
			}
			mode = target.Mode().Type()
		}
		if mode.IsRegular() {
			historyFiles = append(historyFiles, entry.Name())
		}
	}
	if len(historyFiles) == 0 {
		return &Error{Kind: ErrHistoryEmpty, Op: "merge history", Path: previousHistoryDir}
	}

	resultsHistory := filepath.Join(resultsDir, HistoryDirName)
	if err := os.RemoveAll(resultsHistory); err != nil {
		return ioError("merge history", resultsHistory, err)
	}
	if err := os.MkdirAll(resultsHistory, 0755); err != nil {
		return ioError("merge history", resultsHistory, err)
	}

	for _, name := range historyFiles {
		src := filepath.Join(previousHistoryDir, name)
		dst := filepath.Join(resultsHistory, name)
		if err := CopyFile(src, dst, false); err != nil {
			return err
		}
	}
	return nil
}
