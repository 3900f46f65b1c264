// Package dconf wraps the dconf CLI to capture and replay desktop
// settings alongside file backups.
package dconf

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Filename is the settings dump stored at the archive root.
const Filename = "dconf.ini"

// Available reports whether the dconf binary is on PATH.
func Available() bool {
	_, err := exec.LookPath("dconf")
	return err == nil
}

// Dump writes `dconf dump /` to path. The file is removed again when
// the dump fails so a broken partial never ends up in an archive.
func Dump(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dconf dump: %w", err)
	}

	var stderr bytes.Buffer
	cmd := exec.Command("dconf", "dump", "/")
	cmd.Stdout = out
	cmd.Stderr = &stderr
	runErr := cmd.Run()
	closeErr := out.Close()
	if runErr != nil {
		os.Remove(path)
		return fmt.Errorf("dconf dump failed: %w: %s", runErr, strings.TrimSpace(stderr.String()))
	}
	return closeErr
}

// Load replays a settings dump with `dconf load /`.
func Load(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open dconf dump: %w", err)
	}
	defer in.Close()

	var stderr bytes.Buffer
	cmd := exec.Command("dconf", "load", "/")
	cmd.Stdin = in
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("dconf load failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
