package report

// archive.go contains the snapshotting of a previously rendered report
// before the renderer overwrites it.

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// SnapshotTimeFormat names archived reports, e.g. 2024-01-01_10-00-00.
const SnapshotTimeFormat = "2006-01-02_15-04-05"

// Archiver copies a rendered report to a directory named after the report's
// creation time.
type Archiver struct {
	logger     zerolog.Logger
	replicator Replicator

	// CreationTime returns the creation time of a directory. It defaults to
	// the filesystem birth time where the platform exposes one.
	CreationTime func(path string) (time.Time, error)
}

// NewArchiver creates an archiver that never overwrites an existing snapshot.
func NewArchiver(logger zerolog.Logger) *Archiver {
	return &Archiver{
		logger:       logger,
		replicator:   Replicator{},
		CreationTime: creationTime,
	}
}

// SnapshotName returns the directory name used to archive artifactName
// created at t.
func SnapshotName(artifactName string, t time.Time) string {
	return artifactName + "-" + t.Format(SnapshotTimeFormat)
}

// Archive copies currentArtifactDir to <archiveRoot>/<name>-<created> and
// returns the snapshot path. An empty archiveRoot places the snapshot next to
// currentArtifactDir. A missing currentArtifactDir means there is nothing to
// archive and returns an empty path.
//
// Two archives of the same report share a name, so the second one fails
// instead of overwriting the first.
func (a *Archiver) Archive(currentArtifactDir, archiveRoot string) (string, error) {
	info, err := os.Stat(currentArtifactDir)
	if errors.Is(err, fs.ErrNotExist) {
		a.logger.Debug().Str("dir", currentArtifactDir).Msg("No previous report to archive")
		return "", nil
	}
	if err != nil {
		return "", ioError("archive", currentArtifactDir, err)
	}
	if !info.IsDir() {
		return "", ioError("archive", currentArtifactDir, errors.New("not a directory"))
	}

	created, err := a.CreationTime(currentArtifactDir)
	if err != nil {
		return "", ioError("archive", currentArtifactDir, err)
	}

	if archiveRoot == "" {
		archiveRoot = filepath.Dir(filepath.Clean(currentArtifactDir))
	}
	dest := filepath.Join(archiveRoot, SnapshotName(filepath.Base(filepath.Clean(currentArtifactDir)), created))

	a.logger.Debug().
		Str("source", currentArtifactDir).
		Str("dest", dest).
		Time("created", created).
		Msg("Archiving previous report")

	if err := a.replicator.Copy(currentArtifactDir, dest); err != nil {
		return "", err
	}
	return dest, nil
}
