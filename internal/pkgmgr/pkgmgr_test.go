package pkgmgr

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		in   string
		want Manager
		ok   bool
	}{
		{"pacman", Pacman, true},
		{"nix", NixEnv, true},
		{"nix-env", NixEnv, true},
		{"pip", Pip, true},
		{"brew", "", false},
	}
	for _, tt := range tests {
		got, ok := Canonical(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Canonical(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDetectAvailable(t *testing.T) {
	lookPath := func(bin string) (string, error) {
		if bin == "pacman" || bin == "flatpak" {
			return "/usr/bin/" + bin, nil
		}
		return "", errors.New("not found")
	}
	got := DetectAvailable(lookPath)
	want := map[Manager]bool{Pacman: true, Flatpak: true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DetectAvailable = %v, want %v", got, want)
	}
}

func TestInstallCommand(t *testing.T) {
	tests := []struct {
		name      string
		manager   Manager
		assumeYes bool
		want      []string
	}{
		{"pacman", Pacman, false, []string{"sudo", "pacman", "-S", "--needed", "htop"}},
		{"pacman yes", Pacman, true, []string{"sudo", "pacman", "-S", "--needed", "--noconfirm", "htop"}},
		{"apt yes", Apt, true, []string{"sudo", "apt", "install", "-y", "htop"}},
		{"snap ignores yes", Snap, true, []string{"sudo", "snap", "install", "htop"}},
		{"nix-env", NixEnv, false, []string{"nix-env", "-i", "htop"}},
		{"pip", Pip, false, []string{"pip", "install", "htop"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InstallCommand(tt.manager, []string{"htop"}, tt.assumeYes)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("InstallCommand = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInstallCommandUnknown(t *testing.T) {
	if got := InstallCommand(Manager("brew"), []string{"htop"}, false); got != nil {
		t.Errorf("expected nil for unknown manager, got %v", got)
	}
}

func TestParseOSRelease(t *testing.T) {
	text := "NAME=\"Ubuntu\"\nID=ubuntu\nID_LIKE=debian\nVERSION_ID=\"24.04\"\nnot a pair\n"
	rel := ParseOSRelease(text)
	if rel["id"] != "ubuntu" {
		t.Errorf("id = %q", rel["id"])
	}
	if rel["name"] != "Ubuntu" {
		t.Errorf("name = %q", rel["name"])
	}
	keys := rel.DistroKeys()
	if !reflect.DeepEqual(keys, []string{"ubuntu", "debian"}) {
		t.Errorf("DistroKeys = %v", keys)
	}
}

func TestDistroOrder(t *testing.T) {
	tests := []struct {
		name  string
		rel   OSRelease
		first Manager
	}{
		{"arch", OSRelease{"id": "arch"}, Pacman},
		{"endeavouros via id_like", OSRelease{"id": "endeavouros", "id_like": "arch"}, Pacman},
		{"ubuntu", OSRelease{"id": "ubuntu", "id_like": "debian"}, Apt},
		{"fedora", OSRelease{"id": "fedora"}, Dnf},
		{"opensuse", OSRelease{"id": "opensuse-tumbleweed", "id_like": "suse"}, Zypper},
		{"unknown", OSRelease{"id": "gentoo"}, Pacman},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := tt.rel.DistroOrder(nil)
			if order[0] != tt.first {
				t.Errorf("DistroOrder[0] = %q, want %q", order[0], tt.first)
			}
			for _, m := range order {
				if m == Pip {
					t.Error("pip should not appear when unavailable")
				}
			}
		})
	}
}

func TestDistroOrderPipLast(t *testing.T) {
	order := OSRelease{"id": "fedora"}.DistroOrder(map[Manager]bool{Pip: true})
	if order[len(order)-1] != Pip {
		t.Errorf("expected pip last, got %v", order)
	}
}

func TestInventoryUsesCannedOutput(t *testing.T) {
	lookPath := func(bin string) (string, error) {
		switch bin {
		case "pacman", "snap":
			return "/usr/bin/" + bin, nil
		}
		return "", errors.New("not found")
	}
	runLines := func(args []string) ([]string, error) {
		switch args[0] {
		case "pacman":
			return []string{"bash", "htop"}, nil
		case "snap":
			return []string{"Name  Version  Rev", "firefox  129.0  4793", "core22  20240111  1122"}, nil
		}
		return nil, errors.New("unexpected command " + strings.Join(args, " "))
	}

	got := Inventory(lookPath, runLines)
	want := map[string][]string{
		"pacman": {"bash", "htop"},
		"snap":   {"firefox", "core22"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Inventory = %v, want %v", got, want)
	}
}

func TestParseSearchOutput(t *testing.T) {
	tests := []struct {
		name    string
		manager Manager
		output  string
		want    []string
	}{
		{
			"apt",
			Apt,
			"firefox-esr - Mozilla Firefox web browser\nfirefox-esr-l10n-de - German language package\n",
			[]string{"firefox-esr", "firefox-esr-l10n-de"},
		},
		{
			"pacman",
			Pacman,
			"extra/firefox 129.0-1\n    Standalone web browser\ncommunity/firefox-i18n-de 129.0-1\n    German pack\n",
			[]string{"firefox", "firefox-i18n-de"},
		},
		{
			"dnf",
			Dnf,
			"firefox.x86_64 : Mozilla Firefox Web browser\nfirefox-langpacks.x86_64 : Langpacks\nno separator line\n",
			[]string{"firefox", "firefox-langpacks"},
		},
		{"zypper unparsed", Zypper, "S | Name | Summary\n--+------+--------\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSearchOutput(tt.manager, tt.output)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSearchOutput = %v, want %v", got, tt.want)
			}
		})
	}
}
