// Package archive assembles and unpacks backup archives by streaming a
// tar subprocess through an external compressor. The file layout inside
// every archive is fixed: manifest.json and optional dconf.ini at the
// root, captured paths under home/.
package archive

import (
	"os/exec"
	"strings"
)

// selectCompressor picks the compression command for a destination path.
// zstd is used for .zst outputs when installed; gzip outputs prefer pigz
// for parallelism and fall back to gzip. Level 1 keeps backups fast.
func selectCompressor(dest string, lookPath func(string) (string, error)) []string {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if strings.HasSuffix(dest, ".zst") {
		if _, err := lookPath("zstd"); err == nil {
			return []string{"zstd", "-T0", "-1"}
		}
	}
	if _, err := lookPath("pigz"); err == nil {
		return []string{"pigz", "-1"}
	}
	return []string{"gzip", "-1"}
}

// decompressFilter returns the tar -I argument for reading an archive,
// or "" to let tar auto-detect the format.
func decompressFilter(archive string, lookPath func(string) (string, error)) string {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	switch {
	case strings.HasSuffix(archive, ".zst"):
		if _, err := lookPath("zstd"); err == nil {
			return "zstd"
		}
	case strings.HasSuffix(archive, ".gz"):
		if _, err := lookPath("pigz"); err == nil {
			return "pigz"
		}
	}
	return ""
}
