package restore

import (
	"os"
	"path/filepath"

	"github.com/backmey/backmey/internal/collect"
)

// Conflicts returns the absolute home paths that already exist for the
// given entries, in entry order.
func Conflicts(home string, entries []collect.Entry) []string {
	var conflicts []string
	for _, entry := range entries {
		target := filepath.Join(home, entry.RelPath)
		if _, err := os.Lstat(target); err == nil {
			conflicts = append(conflicts, target)
		}
	}
	return conflicts
}

// Classify splits entries into those landing on fresh paths and those
// that would overwrite something under home.
func Classify(home string, entries []collect.Entry) (fresh, overwrite []collect.Entry) {
	for _, entry := range entries {
		if _, err := os.Lstat(filepath.Join(home, entry.RelPath)); err == nil {
			overwrite = append(overwrite, entry)
		} else {
			fresh = append(fresh, entry)
		}
	}
	return fresh, overwrite
}

// DropConflicting filters out entries whose target already exists.
func DropConflicting(home string, entries []collect.Entry) []collect.Entry {
	var kept []collect.Entry
	for _, entry := range entries {
		if _, err := os.Lstat(filepath.Join(home, entry.RelPath)); err != nil {
			kept = append(kept, entry)
		}
	}
	return kept
}
