package collect

import (
	"io/fs"
	"os"
	"path/filepath"
)

// PathSize measures a file or directory in bytes. Symlinks contribute
// nothing and are not followed; files that vanish mid-walk are skipped.
func PathSize(path string) int64 {
	info, err := os.Lstat(path)
	if err != nil {
		return 0
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return 0
	}
	if !info.IsDir() {
		return info.Size()
	}

	var total int64
	filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 || d.IsDir() {
			return nil
		}
		if fi, err := d.Info(); err == nil {
			total += fi.Size()
		}
		return nil
	})
	return total
}

// EntrySizes maps each entry's relative path to its byte size.
func EntrySizes(entries []Entry) map[string]int64 {
	sizes := make(map[string]int64, len(entries))
	for _, e := range entries {
		sizes[e.RelPath] = PathSize(e.AbsPath)
	}
	return sizes
}

// ComponentSizes aggregates entry sizes per component tag. When
// entrySizes is nil the sizes are measured directly.
func ComponentSizes(entries []Entry, entrySizes map[string]int64) map[string]int64 {
	sizes := make(map[string]int64)
	for _, e := range entries {
		size, ok := int64(0), false
		if entrySizes != nil {
			size, ok = entrySizes[e.RelPath]
		}
		if !ok {
			size = PathSize(e.AbsPath)
		}
		sizes[e.Component] += size
	}
	return sizes
}
