package restore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/backmey/backmey/internal/collect"
	"github.com/backmey/backmey/internal/logging"
	"github.com/backmey/backmey/internal/output"
)

// DefaultSnapshotRoot is where pre-restore snapshots accumulate when no
// explicit directory is given.
func DefaultSnapshotRoot(home string) string {
	return filepath.Join(home, ".backmey", "snapshots")
}

// SnapshotDir stamps a fresh snapshot directory under root.
func SnapshotDir(root string) string {
	return filepath.Join(root, time.Now().Format("20060102-150405"))
}

// Snapshot copies each conflicting home path into snapshotDir,
// preserving its home-relative layout so a snapshot restores by copying
// straight back. A path that fails to copy is reported and skipped; one
// bad file must not cost the rest of the snapshot.
func Snapshot(home string, conflicts []string, snapshotDir string) error {
	if err := os.MkdirAll(snapshotDir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	log := logging.Get("restore")
	for _, path := range conflicts {
		rel, err := filepath.Rel(home, path)
		if err != nil {
			output.Warn("Snapshot failed for %s: %v", path, err)
			continue
		}
		dest := filepath.Join(snapshotDir, rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			output.Warn("Snapshot failed for %s: %v", path, err)
			continue
		}
		if err := CopyPath(path, dest); err != nil {
			output.Warn("Snapshot failed for %s: %v", path, err)
			continue
		}
		log.Debug().Str("path", path).Str("dest", dest).Msg("snapshotted")
	}
	return nil
}

// Apply copies entries from the unpacked archive into home. Individual
// failures are reported and skipped so the rest of the restore
// proceeds.
func Apply(home string, entries []collect.Entry) {
	log := logging.Get("restore")
	bar := output.NewProgress(len(entries), "Restoring")
	for _, entry := range entries {
		bar.SetLabel("Restoring " + entry.RelPath)
		target := filepath.Join(home, entry.RelPath)
		err := os.MkdirAll(filepath.Dir(target), 0o755)
		if err == nil {
			err = CopyPath(entry.AbsPath, target)
		}
		bar.Increment()
		if err != nil {
			output.Warn("Failed to restore %s: %v", entry.RelPath, err)
			continue
		}
		log.Debug().Str("path", entry.RelPath).Msg("restored")
	}
	bar.Finish()
}
