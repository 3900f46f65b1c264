package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"gaming-setup", "gaming-setup"},
		{"my profile!", "myprofile"},
		{"../../etc", "etc"},
		{"", "default"},
		{"???", "default"},
		{"work_2024", "work_2024"},
	}
	for _, tt := range tests {
		if got := SanitizeName(tt.in); got != tt.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildPathCreatesProfileDir(t *testing.T) {
	s := New(t.TempDir())
	path, err := s.BuildPath("laptop", "v1")
	if err != nil {
		t.Fatalf("BuildPath: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("profile directory not created: %v", err)
	}
	base := filepath.Base(path)
	if base != "v1"+ExtZst && base != "v1"+ExtGz {
		t.Errorf("unexpected archive name %q", base)
	}
}

func TestListSortsByFilename(t *testing.T) {
	root := t.TempDir()
	s := New(root)
	dir := filepath.Join(root, "laptop")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"20240102-000000.tar.gz", "20240101-000000.tar.gz", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	versions := backups["laptop"]
	if len(versions) != 2 {
		t.Fatalf("expected 2 archives, got %d: %v", len(versions), versions)
	}
	if filepath.Base(versions[0]) != "20240101-000000.tar.gz" {
		t.Errorf("archives not sorted by filename: %v", versions)
	}
}

func TestListMissingRoot(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nope"))
	backups, err := s.List()
	if err != nil {
		t.Fatalf("List on missing root: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected empty result, got %v", backups)
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	s := New(root)
	dir := filepath.Join(root, "laptop")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"v1.tar.gz", "v2.tar.gz"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		version string
		want    string
	}{
		{"", "v2.tar.gz"},
		{"latest", "v2.tar.gz"},
		{"v1", "v1.tar.gz"},
		{"v1.tar.gz", "v1.tar.gz"},
		{"missing", ""},
	}
	for _, tt := range tests {
		got, err := s.Find("laptop", tt.version)
		if err != nil {
			t.Fatalf("Find(%q): %v", tt.version, err)
		}
		if tt.want == "" {
			if got != "" {
				t.Errorf("Find(%q) = %q, want no match", tt.version, got)
			}
			continue
		}
		if filepath.Base(got) != tt.want {
			t.Errorf("Find(%q) = %q, want %q", tt.version, got, tt.want)
		}
	}
}

func TestVersionFromFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/store/p/20240101-000000.tar.gz", "20240101-000000"},
		{"/store/p/v3.tar.zst", "v3"},
	}
	for _, tt := range tests {
		if got := VersionFromFilename(tt.in); got != tt.want {
			t.Errorf("VersionFromFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTemplateRegistry(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "a.tar.gz")
	if err := os.WriteFile(archive, []byte("archive-bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	reg, err := NewTemplateRegistry(filepath.Join(t.TempDir(), "templates"))
	if err != nil {
		t.Fatalf("NewTemplateRegistry: %v", err)
	}

	dest, err := reg.Register("dev box", archive)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil || string(data) != "archive-bytes" {
		t.Errorf("registered template content mismatch: %q, %v", data, err)
	}

	if got := reg.PathFor("dev box"); got != dest {
		t.Errorf("PathFor = %q, want %q", got, dest)
	}
	if got := reg.PathFor("unknown"); got != "" {
		t.Errorf("PathFor(unknown) = %q, want empty", got)
	}

	templates, err := reg.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(templates) != 1 || TemplateName(templates[0]) != "devbox" {
		t.Errorf("List = %v", templates)
	}
}
