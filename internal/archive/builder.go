package archive

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/backmey/backmey/internal/collect"
	"github.com/backmey/backmey/internal/logging"
	"github.com/backmey/backmey/internal/output"
)

// Builder streams captured paths into a compressed tar archive.
type Builder struct {
	// Excludes are tar --exclude patterns applied during assembly.
	Excludes []string

	lookPath func(string) (string, error)
}

// NewBuilder returns a Builder with the given exclude patterns.
func NewBuilder(excludes []string) *Builder {
	return &Builder{Excludes: excludes, lookPath: exec.LookPath}
}

// Build assembles the archive at dest. Entries are staged as a symlink
// forest under home/ so their archived paths are home-relative; extras
// (manifest, dconf dump) land at the archive root. The source tree is
// never copied: tar -h dereferences the staged links and streams file
// content straight into the compressor. A failed build leaves no
// partial file at dest.
func (b *Builder) Build(dest string, entries []collect.Entry, extras []string) error {
	staging := filepath.Join(os.TempDir(), "backmey-"+uuid.NewString())
	homeRoot := filepath.Join(staging, "home")
	if err := os.MkdirAll(homeRoot, 0o755); err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	for _, entry := range entries {
		link := filepath.Join(homeRoot, entry.RelPath)
		if err := os.MkdirAll(filepath.Dir(link), 0o755); err != nil {
			return fmt.Errorf("stage %s: %w", entry.RelPath, err)
		}
		if _, err := os.Lstat(link); err == nil {
			continue
		}
		if err := os.Symlink(entry.AbsPath, link); err != nil {
			return fmt.Errorf("stage %s: %w", entry.RelPath, err)
		}
	}

	sources := append(append([]string(nil), extras...), homeRoot)
	tarArgs := b.tarArgs(sources)
	compArgs := selectCompressor(dest, b.lookPath)

	log := logging.Get("archive")
	log.Debug().
		Str("tar", strings.Join(tarArgs, " ")).
		Str("compressor", strings.Join(compArgs, " ")).
		Str("dest", dest).
		Msg("running pipeline")

	if err := runPipeline(tarArgs, compArgs, dest); err != nil {
		os.Remove(dest)
		return err
	}
	return nil
}

// tarArgs builds the tar invocation writing to stdout. Missing sources
// are warned about and skipped.
func (b *Builder) tarArgs(sources []string) []string {
	args := []string{"tar", "-c", "-f", "-", "-h"}
	for _, ex := range b.Excludes {
		args = append(args, "--exclude", ex)
	}
	added := false
	for _, src := range sources {
		if _, err := os.Lstat(src); err != nil {
			output.Warn("Source not found: %s", src)
			continue
		}
		args = append(args, "-C", filepath.Dir(src), filepath.Base(src))
		added = true
	}
	if !added {
		output.Warn("No valid sources found, archive may be empty or invalid.")
	}
	return args
}

// runPipeline wires tar's stdout into the compressor's stdin and the
// compressor's stdout into dest. GNU tar exit 1 means files changed
// while reading; that is a warning, not a failure. Any other non-zero
// exit from either process fails the build.
func runPipeline(tarArgs, compArgs []string, dest string) error {
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer out.Close()

	tarCmd := exec.Command(tarArgs[0], tarArgs[1:]...)
	compCmd := exec.Command(compArgs[0], compArgs[1:]...)

	pipe, err := tarCmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("pipe tar: %w", err)
	}
	compCmd.Stdin = pipe
	compCmd.Stdout = out

	var tarErr, compErr bytes.Buffer
	tarCmd.Stderr = &tarErr
	compCmd.Stderr = &compErr

	if err := tarCmd.Start(); err != nil {
		return fmt.Errorf("start tar: %w", err)
	}
	if err := compCmd.Start(); err != nil {
		tarCmd.Process.Kill()
		tarCmd.Wait()
		return fmt.Errorf("start %s: %w", compArgs[0], err)
	}

	tarWait := tarCmd.Wait()
	compWait := compCmd.Wait()

	if tarWait != nil {
		var exitErr *exec.ExitError
		if errors.As(tarWait, &exitErr) && exitErr.ExitCode() == 1 {
			output.Warn("Tar warning (files changed?): %s", strings.TrimSpace(tarErr.String()))
		} else {
			return fmt.Errorf("tar failed: %w: %s", tarWait, strings.TrimSpace(tarErr.String()))
		}
	}
	if compWait != nil {
		return fmt.Errorf("%s failed: %w: %s", compArgs[0], compWait, strings.TrimSpace(compErr.String()))
	}
	return nil
}
