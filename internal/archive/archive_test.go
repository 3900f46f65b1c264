package archive

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/backmey/backmey/internal/collect"
	"github.com/backmey/backmey/internal/manifest"
)

// gzipOnly simulates a system without zstd or pigz.
func gzipOnly(bin string) (string, error) {
	if bin == "zstd" || bin == "pigz" {
		return "", errors.New("not found")
	}
	return "/usr/bin/" + bin, nil
}

func TestSelectCompressor(t *testing.T) {
	all := func(bin string) (string, error) { return "/usr/bin/" + bin, nil }

	tests := []struct {
		name     string
		dest     string
		lookPath func(string) (string, error)
		want     string
	}{
		{"zst with zstd", "a.tar.zst", all, "zstd"},
		{"zst without zstd falls back", "a.tar.zst", gzipOnly, "gzip"},
		{"gz with pigz", "a.tar.gz", all, "pigz"},
		{"gz plain", "a.tar.gz", gzipOnly, "gzip"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := selectCompressor(tt.dest, tt.lookPath); got[0] != tt.want {
				t.Errorf("selectCompressor(%q) = %v, want %q first", tt.dest, got, tt.want)
			}
		})
	}
}

func TestDecompressFilter(t *testing.T) {
	all := func(bin string) (string, error) { return "/usr/bin/" + bin, nil }
	if got := decompressFilter("a.tar.zst", all); got != "zstd" {
		t.Errorf("filter = %q, want zstd", got)
	}
	if got := decompressFilter("a.tar.gz", all); got != "pigz" {
		t.Errorf("filter = %q, want pigz", got)
	}
	if got := decompressFilter("a.tar.gz", gzipOnly); got != "" {
		t.Errorf("filter = %q, want auto-detect", got)
	}
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestBuildExtractRoundTrip(t *testing.T) {
	home := t.TempDir()
	writeTree(t, home, map[string]string{
		".config/app/config.ini": "value=1",
		".themes/cool/theme.txt": "theme-data",
	})

	entries := []collect.Entry{
		{Component: "configs", RelPath: ".config/app", AbsPath: filepath.Join(home, ".config/app")},
		{Component: "themes", RelPath: ".themes", AbsPath: filepath.Join(home, ".themes")},
	}

	work := t.TempDir()
	manifestPath := filepath.Join(work, manifest.Filename)
	m := &manifest.Manifest{
		Timestamp: time.Now().Unix(),
		Profile:   "laptop",
		Components: []manifest.ComponentRef{
			{Component: "configs", Path: ".config/app"},
			{Component: "themes", Path: ".themes"},
		},
	}
	if err := m.Write(manifestPath); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(t.TempDir(), "backup.tar.gz")
	builder := NewBuilder(nil)
	builder.lookPath = gzipOnly
	if err := builder.Build(dest, entries, []string{manifestPath}); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if info, err := os.Stat(dest); err != nil || info.Size() == 0 {
		t.Fatalf("archive not written: %v", err)
	}

	reader := NewReader()
	reader.lookPath = gzipOnly

	got, err := reader.InspectManifest(dest)
	if err != nil {
		t.Fatalf("InspectManifest: %v", err)
	}
	if got.Profile != "laptop" {
		t.Errorf("manifest profile = %q, want laptop", got.Profile)
	}

	unpacked := t.TempDir()
	if err := reader.Extract(dest, unpacked); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(unpacked, "home/.config/app/config.ini"))
	if err != nil {
		t.Fatalf("read extracted file: %v", err)
	}
	if string(content) != "value=1" {
		t.Errorf("content = %q, want value=1", content)
	}
	if _, err := os.ReadFile(filepath.Join(unpacked, "home/.themes/cool/theme.txt")); err != nil {
		t.Errorf("themes not in archive: %v", err)
	}

	// tar -h must dereference the staged symlinks into real files.
	fi, err := os.Lstat(filepath.Join(unpacked, "home/.config/app"))
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		t.Error("extracted entry is a symlink; expected dereferenced content")
	}
}

func TestBuildAppliesExcludes(t *testing.T) {
	home := t.TempDir()
	writeTree(t, home, map[string]string{
		"project/main.go":               "package main",
		"project/node_modules/dep/x.js": "junk",
		"project/.git/objects/aa/bb":    "junk",
		"project/__pycache__/mod.pyc":   "junk",
		"project/docs/readme.md":        "docs",
	})

	entries := []collect.Entry{
		{Component: "custom", RelPath: "project", AbsPath: filepath.Join(home, "project")},
	}

	dest := filepath.Join(t.TempDir(), "backup.tar.gz")
	builder := NewBuilder(collect.SmartExcludes)
	builder.lookPath = gzipOnly
	if err := builder.Build(dest, entries, nil); err != nil {
		t.Fatalf("Build: %v", err)
	}

	reader := NewReader()
	reader.lookPath = gzipOnly
	unpacked := t.TempDir()
	if err := reader.Extract(dest, unpacked); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if _, err := os.Stat(filepath.Join(unpacked, "home/project/main.go")); err != nil {
		t.Errorf("expected main.go in archive: %v", err)
	}
	if _, err := os.Stat(filepath.Join(unpacked, "home/project/node_modules")); !os.IsNotExist(err) {
		t.Error("node_modules should be excluded")
	}
	if _, err := os.Stat(filepath.Join(unpacked, "home/project/.git")); !os.IsNotExist(err) {
		t.Error(".git should be excluded")
	}
}

func TestBuildSkipsMissingSources(t *testing.T) {
	builder := NewBuilder(nil)
	builder.lookPath = gzipOnly

	missing := filepath.Join(t.TempDir(), "never-created")
	args := builder.tarArgs([]string{missing})
	for _, a := range args {
		if strings.Contains(a, "never-created") {
			t.Errorf("missing source leaked into tar args: %v", args)
		}
	}
}

func TestInspectManifestMissingMember(t *testing.T) {
	home := t.TempDir()
	writeTree(t, home, map[string]string{"file.txt": "data"})
	entries := []collect.Entry{
		{Component: "custom", RelPath: "file.txt", AbsPath: filepath.Join(home, "file.txt")},
	}

	dest := filepath.Join(t.TempDir(), "backup.tar.gz")
	builder := NewBuilder(nil)
	builder.lookPath = gzipOnly
	if err := builder.Build(dest, entries, nil); err != nil {
		t.Fatalf("Build: %v", err)
	}

	reader := NewReader()
	reader.lookPath = gzipOnly
	if _, err := reader.InspectManifest(dest); !errors.Is(err, ErrManifestMissing) {
		t.Errorf("err = %v, want ErrManifestMissing", err)
	}
}

func TestInspectManifestCorruptArchive(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.tar.gz")
	if err := os.WriteFile(bad, []byte("this is not an archive"), 0o644); err != nil {
		t.Fatal(err)
	}

	reader := NewReader()
	reader.lookPath = gzipOnly
	_, err := reader.InspectManifest(bad)
	if err == nil {
		t.Fatal("corrupt archive inspected without error")
	}
	if errors.Is(err, ErrManifestMissing) {
		t.Errorf("corrupt archive misreported as a missing manifest: %v", err)
	}
}

func TestExtractMissingArchive(t *testing.T) {
	reader := NewReader()
	reader.lookPath = gzipOnly
	err := reader.Extract(filepath.Join(t.TempDir(), "nope.tar.gz"), t.TempDir())
	if err == nil {
		t.Error("expected error for missing archive")
	}
}
