package detect

import "testing"

func TestSplitEnvList(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"ubuntu:GNOME", 2},
		{"GNOME", 1},
		{"", 0},
		{" : : ", 0},
	}
	for _, tt := range tests {
		if got := splitEnvList(tt.in); len(got) != tt.want {
			t.Errorf("splitEnvList(%q) = %v, want %d parts", tt.in, got, tt.want)
		}
	}
}

func TestChooseBest(t *testing.T) {
	tests := []struct {
		name     string
		desktops []string
		session  string
		hints    []string
		want     string
	}{
		{"env wins", []string{"ubuntu:GNOME", "GNOME"}, "", nil, "GNOME"},
		{"kde variants", []string{"KDE"}, "", nil, "KDE Plasma"},
		{"plasma session", nil, "plasmawayland", nil, "KDE Plasma"},
		{"hint fallback", nil, "", []string{"Hyprland"}, "Hyprland"},
		{"unknown passthrough", []string{"weirdwm"}, "", nil, "weirdwm"},
		{"nothing", nil, "", nil, ""},
		{"cosmic", []string{"COSMIC"}, "", nil, "Cosmic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := chooseBest(tt.desktops, tt.session, tt.hints); got != tt.want {
				t.Errorf("chooseBest = %q, want %q", got, tt.want)
			}
		})
	}
}
