package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestInfoAndWarnPrefixes(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var out, errBuf bytes.Buffer
	origOut, origErr := Stdout, Stderr
	Stdout, Stderr = &out, &errBuf
	defer func() { Stdout, Stderr = origOut, origErr }()

	Info("backup %s done", "laptop")
	Warn("missing %d files", 3)

	if got := out.String(); got != "[+] backup laptop done\n" {
		t.Errorf("Info output = %q", got)
	}
	if got := errBuf.String(); got != "[!] missing 3 files\n" {
		t.Errorf("Warn output = %q", got)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{-5, "0 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.in); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderBackupTable(t *testing.T) {
	got := RenderBackupTable([]BackupRow{
		{Profile: "laptop", Versions: 2, Latest: "v2.tar.zst"},
		{Profile: "desktop", Versions: 1, Latest: "v1.tar.gz"},
	})
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + rule + 2 rows:\n%s", len(lines), got)
	}
	if !strings.HasPrefix(lines[0], "Profile") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "desktop") || !strings.HasPrefix(lines[3], "laptop") {
		t.Errorf("rows not sorted by profile:\n%s", got)
	}
	if !strings.Contains(lines[3], "v2.tar.zst") {
		t.Errorf("latest missing from row: %q", lines[3])
	}
}

func TestRenderBackupTableEmpty(t *testing.T) {
	if got := RenderBackupTable(nil); got != "No backups found.\n" {
		t.Errorf("empty table = %q", got)
	}
}

func TestRenderSizeReport(t *testing.T) {
	got := RenderSizeReport(map[string]int64{"themes": 2048, "configs": 1024}, 7)
	want := "  - configs: 1.0 KiB\n  - themes: 2.0 KiB\n  Total: 3.0 KiB across 7 paths\n"
	if got != want {
		t.Errorf("RenderSizeReport = %q, want %q", got, want)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 24); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("a-very-long-profile-name-indeed", 10); got != "a-very-..." {
		t.Errorf("truncate = %q", got)
	}
}

func TestProgressBarNonTTY(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgress(2, "Restoring")
	bar.SetWriter(&buf)
	bar.Increment()
	bar.Increment()
	bar.Finish()

	out := buf.String()
	if !strings.Contains(out, " 50% Restoring") {
		t.Errorf("missing 50%% redraw:\n%s", out)
	}
	if !strings.Contains(out, "100% Restoring") {
		t.Errorf("missing 100%% redraw:\n%s", out)
	}
	if strings.Contains(out, "\r") {
		t.Error("non-TTY writer should not receive carriage returns")
	}
}
