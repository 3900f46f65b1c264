package collect

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/backmey/backmey/internal/logging"
	"github.com/backmey/backmey/internal/output"
)

// Entry is one captured filesystem path: the owning component tag, the
// path relative to home, and the absolute source path. Entries are
// immutable once created and reference the live filesystem read-only.
type Entry struct {
	Component string
	RelPath   string
	AbsPath   string
}

// Gather resolves the chosen component set to concrete entries under
// home. Store-app components (flatpak, snap) go through their dedicated
// collectors; everything else comes from the component path table.
// Missing paths are skipped. Store-app list files are staged under
// staging so the live home is never written; an empty staging skips
// list capture.
func Gather(home string, chosen map[string]bool, withBrowsers bool, staging string) []Entry {
	log := logging.Get("collect")

	selected := make(map[string]bool, len(chosen))
	for name := range chosen {
		selected[name] = true
	}
	if withBrowsers {
		selected["browsers"] = true
	}

	names := make([]string, 0, len(selected))
	for name := range selected {
		names = append(names, name)
	}
	sort.Strings(names)

	var entries []Entry
	for _, comp := range names {
		switch comp {
		case "flatpak":
			fc := NewFlatpakCollector(home, staging)
			if !fc.Available() {
				output.Warn("Flatpak not found, skipping.")
				continue
			}
			output.Info("  Collecting Flatpak data...")
			entries = append(entries, fc.Collect()...)
		case "snap":
			sc := NewSnapCollector(home, staging)
			if !sc.Available() {
				output.Warn("Snap not found, skipping.")
				continue
			}
			output.Info("  Collecting Snap data...")
			entries = append(entries, sc.Collect()...)
		default:
			for _, rel := range ComponentPaths[comp] {
				abs := filepath.Join(home, rel)
				if _, err := os.Stat(abs); err != nil {
					continue
				}
				entries = append(entries, Entry{Component: comp, RelPath: rel, AbsPath: abs})
				log.Debug().Str("component", comp).Str("path", rel).Msg("including")
			}
		}
	}
	return entries
}

// CustomEntry builds an entry for a user-supplied include path. The
// relative path is home-relative when the path lives under home, or the
// basename otherwise.
func CustomEntry(home, path string) Entry {
	rel, err := filepath.Rel(home, path)
	if err != nil || rel == "." || filepath.IsAbs(rel) || len(rel) >= 2 && rel[:2] == ".." {
		rel = filepath.Base(path)
	}
	return Entry{Component: "custom", RelPath: rel, AbsPath: path}
}
