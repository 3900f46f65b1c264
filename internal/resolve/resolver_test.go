package resolve

import (
	"errors"
	"testing"

	"github.com/backmey/backmey/internal/pkgmgr"
)

func newTestResolver(t *testing.T, probe func(string) error, search func(string) (string, error)) *Resolver {
	t.Helper()
	r := New(pkgmgr.Apt)
	if probe != nil {
		r.probe = probe
	}
	if search != nil {
		r.search = search
	}
	return r
}

func TestResolveExactMatch(t *testing.T) {
	probes := 0
	r := newTestResolver(t,
		func(pkg string) error { probes++; return nil },
		func(pkg string) (string, error) { t.Fatal("search should not run"); return "", nil },
	)

	if got := r.Resolve("htop"); got != "htop" {
		t.Errorf("Resolve = %q, want htop", got)
	}
	if got := r.Resolve("htop"); got != "htop" {
		t.Errorf("Resolve = %q, want htop", got)
	}
	if probes != 1 {
		t.Errorf("probe ran %d times, want 1 (second call must hit cache)", probes)
	}
}

func TestResolveFuzzyRename(t *testing.T) {
	r := newTestResolver(t,
		func(pkg string) error { return errors.New("no such package") },
		func(pkg string) (string, error) {
			return "firefox-esr - Mozilla Firefox\nfirefox-loose-hit - unrelated\n", nil
		},
	)

	if got := r.Resolve("firefox"); got != "firefox-esr" {
		t.Errorf("Resolve = %q, want firefox-esr", got)
	}
}

func TestResolveRejectsLooseHits(t *testing.T) {
	r := newTestResolver(t,
		func(pkg string) error { return errors.New("no such package") },
		func(pkg string) (string, error) {
			return "firefox-l10n-de - language pack\nsomething-else - unrelated\n", nil
		},
	)

	if got := r.Resolve("firefox"); got != "firefox" {
		t.Errorf("Resolve = %q, want original name back", got)
	}
}

func TestResolveNoMatchCached(t *testing.T) {
	probes, searches := 0, 0
	r := newTestResolver(t,
		func(pkg string) error { probes++; return errors.New("missing") },
		func(pkg string) (string, error) { searches++; return "", nil },
	)

	if got := r.Resolve("ghost"); got != "ghost" {
		t.Errorf("Resolve = %q, want ghost", got)
	}
	if got := r.Resolve("ghost"); got != "ghost" {
		t.Errorf("Resolve = %q, want ghost", got)
	}
	if probes != 1 || searches != 1 {
		t.Errorf("probe=%d search=%d, want 1 each (sentinel must cache)", probes, searches)
	}
}

func TestResolveSwallowsSearchErrors(t *testing.T) {
	r := newTestResolver(t,
		func(pkg string) error { return errors.New("probe down") },
		func(pkg string) (string, error) { return "", errors.New("search down") },
	)

	if got := r.Resolve("htop"); got != "htop" {
		t.Errorf("Resolve = %q, want htop despite query failures", got)
	}
}

func TestAcceptCandidate(t *testing.T) {
	tests := []struct {
		pkg, candidate string
		want           bool
	}{
		{"firefox", "firefox-esr", true},
		{"code", "code-bin", true},
		{"neovim", "neovim-git", true},
		{"discord", "discord-stable", true},
		{"requests", "python3-requests", true},
		{"ssl", "libssl", true},
		{"firefox", "firefox-l10n-de", false},
		{"firefox", "firefox", false},
		{"vim", "neovim", false},
	}
	for _, tt := range tests {
		if got := acceptCandidate(tt.pkg, tt.candidate); got != tt.want {
			t.Errorf("acceptCandidate(%q, %q) = %v, want %v", tt.pkg, tt.candidate, got, tt.want)
		}
	}
}

func TestSetReusesResolvers(t *testing.T) {
	s := NewSet()
	a := s.For(pkgmgr.Apt)
	b := s.For(pkgmgr.Apt)
	if a != b {
		t.Error("expected the same resolver instance per manager")
	}
	if s.For(pkgmgr.Dnf) == a {
		t.Error("expected distinct resolvers for distinct managers")
	}
}
