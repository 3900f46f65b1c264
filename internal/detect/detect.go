// Package detect identifies the running desktop environment from session
// environment variables and process hints. Detection is best-effort: its
// output is recorded in the backup manifest, never acted on.
package detect

import (
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/backmey/backmey/internal/logging"
	"github.com/backmey/backmey/internal/manifest"
)

// processHints maps window-manager/session process names to desktop names.
var processHints = map[string]string{
	"gnome-shell":   "GNOME",
	"mutter":        "GNOME",
	"plasmashell":   "KDE Plasma",
	"kwin_x11":      "KDE Plasma",
	"kwin_wayland":  "KDE Plasma",
	"xfce4-session": "XFCE",
	"xfwm4":         "XFCE",
	"i3":            "i3",
	"sway":          "Sway",
	"cinnamon":      "Cinnamon",
	"lxqt-session":  "LXQt",
	"budgie-wm":     "Budgie",
	"budgie-panel":  "Budgie",
	"hyprland":      "Hyprland",
	"gala":          "Pantheon",
}

// knownDesktops are checked in order against every candidate string; the
// first substring hit wins.
var knownDesktops = []struct {
	needle string
	name   string
}{
	{"GNOME", "GNOME"},
	{"PLASMA", "KDE Plasma"},
	{"KDE", "KDE Plasma"},
	{"XFCE", "XFCE"},
	{"I3", "i3"},
	{"SWAY", "Sway"},
	{"CINNAMON", "Cinnamon"},
	{"LXQT", "LXQt"},
	{"LXQ", "LXQt"},
	{"BUDGIE", "Budgie"},
	{"HYPR", "Hyprland"},
	{"PANTHEON", "Pantheon"},
	{"GALA", "Pantheon"},
	{"COSMIC", "Cosmic"},
}

// Detect inspects the environment and process table and returns the
// detection snapshot recorded in manifests.
func Detect() manifest.Detection {
	log := logging.Get("detect")

	desktops := splitEnvList(os.Getenv("XDG_CURRENT_DESKTOP"))
	session := os.Getenv("DESKTOP_SESSION")
	if session == "" {
		session = os.Getenv("GDMSESSION")
	}
	hints := scanProcesses()

	display := "x11"
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		display = "wayland"
	}

	d := manifest.Detection{
		Desktop:       chooseBest(desktops, session, hints),
		EnvDesktops:   desktops,
		Session:       session,
		WMHints:       hints,
		DisplayServer: display,
	}
	log.Debug().Str("desktop", d.Desktop).Strs("hints", hints).Msg("detection result")
	return d
}

// splitEnvList splits a colon-separated env value, dropping blanks.
func splitEnvList(value string) []string {
	var parts []string
	for _, p := range strings.Split(value, ":") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// scanProcesses lists running command names and maps them to desktop
// hints. A failed scan returns no hints.
func scanProcesses() []string {
	out, err := exec.Command("ps", "-eo", "comm").Output()
	if err != nil {
		log := logging.Get("detect")
		log.Debug().Err(err).Msg("process scan failed")
		return nil
	}
	hits := make(map[string]bool)
	for _, line := range strings.Split(string(out), "\n") {
		name := strings.TrimSpace(line)
		if desktop, ok := processHints[name]; ok {
			hits[desktop] = true
		}
	}
	var hints []string
	for desktop := range hits {
		hints = append(hints, desktop)
	}
	sort.Strings(hints)
	return hints
}

// chooseBest picks the most plausible desktop from env desktops, process
// hints and the session name, preferring recognized desktop identifiers
// over raw values.
func chooseBest(desktops []string, session string, hints []string) string {
	ordered := append([]string{}, desktops...)
	ordered = append(ordered, hints...)
	if session != "" {
		ordered = append(ordered, session)
	}
	if len(ordered) == 0 {
		return ""
	}
	for _, candidate := range ordered {
		clean := strings.ToUpper(candidate)
		for _, known := range knownDesktops {
			if strings.Contains(clean, known.needle) {
				return known.name
			}
		}
	}
	return ordered[0]
}
