package archive

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/backmey/backmey/internal/manifest"
)

// ErrManifestMissing marks an archive that unpacked without a
// manifest.json at its root.
var ErrManifestMissing = errors.New("archive missing manifest.json")

// PassphraseEnv names the variable holding the gpg passphrase for
// encrypted archives.
const PassphraseEnv = "BACKMEY_PASSPHRASE"

// Reader unpacks and inspects backup archives.
type Reader struct {
	lookPath func(string) (string, error)
}

// NewReader returns a Reader.
func NewReader() *Reader {
	return &Reader{lookPath: exec.LookPath}
}

// Extract unpacks archive into destDir. Compressed archives stream
// through pigz or zstd when available; otherwise tar auto-detects the
// format. A .gpg archive is decrypted in-stream, never written to disk
// in the clear.
func (r *Reader) Extract(archive, destDir string) error {
	if strings.HasSuffix(archive, ".gpg") {
		return r.throughGpg(archive, []string{"tar", "-x", "-f", "-", "-C", destDir}, nil)
	}

	args := []string{"tar", "-x", "-f", archive, "-C", destDir}
	if filter := decompressFilter(archive, r.lookPath); filter != "" {
		args = append(args, "-I", filter)
	}
	var stderr bytes.Buffer
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("extraction failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// InspectManifest streams only manifest.json out of the archive without
// unpacking the rest.
func (r *Reader) InspectManifest(archive string) (*manifest.Manifest, error) {
	var raw []byte
	if strings.HasSuffix(archive, ".gpg") {
		var out bytes.Buffer
		if err := r.throughGpg(archive, []string{"tar", "-xO", "-f", "-", manifest.Filename}, &out); err != nil {
			if memberMissing(err.Error()) {
				return nil, fmt.Errorf("%w: %v", ErrManifestMissing, err)
			}
			return nil, err
		}
		raw = out.Bytes()
	} else {
		args := []string{"tar", "-xO", "-f", archive, manifest.Filename}
		if filter := decompressFilter(archive, r.lookPath); filter != "" {
			args = append(args, "-I", filter)
		}
		var stdout, stderr bytes.Buffer
		cmd := exec.Command(args[0], args[1:]...)
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			msg := strings.TrimSpace(stderr.String())
			if memberMissing(msg) {
				return nil, fmt.Errorf("%w: %s", ErrManifestMissing, msg)
			}
			return nil, fmt.Errorf("inspect failed: %w: %s", err, msg)
		}
		raw = stdout.Bytes()
	}
	return manifest.Parse(raw)
}

// memberMissing tells apart tar's "member not in archive" complaint
// from a corrupt or unreadable archive, which reports differently.
func memberMissing(stderr string) bool {
	return strings.Contains(stderr, "Not found in archive")
}

// throughGpg decrypts archive with gpg and pipes the plaintext into
// tarArgs. The passphrase, when set in the environment, is fed on fd 0
// so it never appears in the process table.
func (r *Reader) throughGpg(archive string, tarArgs []string, stdout *bytes.Buffer) error {
	if _, err := r.lookPath("gpg"); err != nil {
		return errors.New("gpg is required for encrypted archives")
	}

	passphrase := os.Getenv(PassphraseEnv)
	gpgArgs := []string{"gpg", "--decrypt", "--batch", "--yes"}
	if passphrase != "" {
		gpgArgs = append(gpgArgs, "--passphrase-fd", "0")
	}
	gpgArgs = append(gpgArgs, archive)

	gpgCmd := exec.Command(gpgArgs[0], gpgArgs[1:]...)
	if passphrase != "" {
		gpgCmd.Stdin = strings.NewReader(passphrase)
	}
	pipe, err := gpgCmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("pipe gpg: %w", err)
	}

	tarCmd := exec.Command(tarArgs[0], tarArgs[1:]...)
	tarCmd.Stdin = pipe
	if stdout != nil {
		tarCmd.Stdout = stdout
	}
	var gpgErr, tarErr bytes.Buffer
	gpgCmd.Stderr = &gpgErr
	tarCmd.Stderr = &tarErr

	if err := gpgCmd.Start(); err != nil {
		return fmt.Errorf("start gpg: %w", err)
	}
	if err := tarCmd.Start(); err != nil {
		gpgCmd.Process.Kill()
		gpgCmd.Wait()
		return fmt.Errorf("start tar: %w", err)
	}

	gpgWait := gpgCmd.Wait()
	tarWait := tarCmd.Wait()

	if gpgWait != nil {
		return fmt.Errorf("gpg failed: %w: %s", gpgWait, strings.TrimSpace(gpgErr.String()))
	}
	if tarWait != nil {
		return fmt.Errorf("tar failed: %w: %s", tarWait, strings.TrimSpace(tarErr.String()))
	}
	return nil
}
