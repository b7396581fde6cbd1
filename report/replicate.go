package report

// replicate.go contains the recursive directory copy used to merge history
// and to archive previous reports.

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

const defaultCopyWorkers = 4

// Replicator copies directory trees without deleting anything at the
// destination.
type Replicator struct {
	// Overwrite allows existing destination files to be replaced.
	Overwrite bool
	// Workers bounds the number of files copied concurrently (default 4).
	Workers int
}

type copyPlan struct {
	dirs  []string
	files []fileCopy
}

type fileCopy struct {
	src, dst string
}

// Copy mirrors src into dst. All destination directories are created first,
// including empty ones; files are then copied in parallel. Without Overwrite
// the whole destination is checked for conflicts before anything is written,
// so a conflicting copy leaves dst as it was.
func (r Replicator) Copy(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return ioError("copy", src, err)
	}
	if !info.IsDir() {
		return ioError("copy", src, errors.New("not a directory"))
	}

	plan := &copyPlan{}
	if err := plan.walk(src, dst, nil); err != nil {
		return err
	}

	if !r.Overwrite {
		for _, f := range plan.files {
			if _, err := os.Lstat(f.dst); err == nil {
				return ioError("copy", f.dst, fs.ErrExist)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return ioError("copy", f.dst, err)
			}
		}
	}

	for _, dir := range plan.dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return ioError("create directory", dir, err)
		}
	}

	workers := r.Workers
	if workers <= 0 {
		workers = defaultCopyWorkers
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for _, f := range plan.files {
		f := f
		g.Go(func() error {
			return CopyFile(f.src, f.dst, r.Overwrite)
		})
	}
	return g.Wait()
}

// walk records srcDir's subtree into the plan. ancestors holds the resolved
// directories on the path from the copy root, used to detect symlink cycles.
func (p *copyPlan) walk(srcDir, dstDir string, ancestors []os.FileInfo) error {
	info, err := os.Stat(srcDir)
	if err != nil {
		return ioError("copy", srcDir, err)
	}
	for _, a := range ancestors {
		if os.SameFile(a, info) {
			return ioError("copy", srcDir, ErrSymlinkCycle)
		}
	}
	ancestors = append(ancestors[:len(ancestors):len(ancestors)], info)

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return ioError("read directory", srcDir, err)
	}
	p.dirs = append(p.dirs, dstDir)

	for _, entry := range entries {
		srcPath := filepath.Join(srcDir, entry.Name())
		dstPath := filepath.Join(dstDir, entry.Name())

		mode := entry.Type()
		if mode&fs.ModeSymlink != 0 {
			target, err := os.Stat(srcPath)
			if err != nil {
				return ioError("resolve symlink", srcPath, err)
			}
			mode = target.Mode().Type()
		}

		switch {
		case mode.IsDir():
			if err := p.walk(srcPath, dstPath, ancestors); err != nil {
				return err
			}
		case mode.IsRegular():
			p.files = append(p.files, fileCopy{src: srcPath, dst: dstPath})
		}
	}
	return nil
}

// CopyFile copies a single file and its permission bits. Without overwrite
// an existing dst is an error.
func CopyFile(src, dst string, overwrite bool) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return ioError("copy file", src, err)
	}
	defer sourceFile.Close()

	sourceInfo, err := sourceFile.Stat()
	if err != nil {
		return ioError("copy file", src, err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	destFile, err := os.OpenFile(dst, flags, sourceInfo.Mode().Perm())
	if err != nil {
		return ioError("copy file", dst, err)
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		destFile.Close()
		return ioError("copy file", dst, err)
	}
	if err := destFile.Close(); err != nil {
		return ioError("copy file", dst, err)
	}

	// OpenFile is subject to the umask
	if err := os.Chmod(dst, sourceInfo.Mode().Perm()); err != nil {
		return ioError("copy file", dst, fmt.Errorf("chmod: %w", err))
	}
	return nil
}
