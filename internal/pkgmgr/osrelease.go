package pkgmgr

import (
	"os"
	"strings"
)

// OSReleasePath is the file read by LoadOSRelease. Overridable in tests.
var OSReleasePath = "/etc/os-release"

// OSRelease holds the parsed key/value pairs of /etc/os-release with
// lower-cased keys and unquoted values.
type OSRelease map[string]string

// LoadOSRelease parses OSReleasePath. A missing file yields an empty map
// and no error; the tool still works, it just cannot apply distro
// affinity.
func LoadOSRelease() (OSRelease, error) {
	data, err := os.ReadFile(OSReleasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return OSRelease{}, nil
		}
		return nil, err
	}
	return ParseOSRelease(string(data)), nil
}

// ParseOSRelease parses os-release text. Lines without "=" are skipped.
func ParseOSRelease(text string) OSRelease {
	rel := make(OSRelease)
	for _, line := range strings.Split(text, "\n") {
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		val = strings.Trim(val, `"`)
		rel[strings.ToLower(key)] = val
	}
	return rel
}

// DistroKeys returns the distro identifiers in priority order: id first,
// then each id_like entry.
func (r OSRelease) DistroKeys() []string {
	var keys []string
	if id := r["id"]; id != "" {
		keys = append(keys, strings.ToLower(id))
	}
	for _, part := range strings.Fields(r["id_like"]) {
		keys = append(keys, strings.ToLower(part))
	}
	return keys
}

// matchesAny reports whether id or id_like contains one of the needles
// as a substring.
func (r OSRelease) matchesAny(needles ...string) bool {
	ident := strings.ToLower(r["id"])
	like := strings.ToLower(r["id_like"])
	for _, n := range needles {
		if strings.Contains(ident, n) || strings.Contains(like, n) {
			return true
		}
	}
	return false
}

// DistroOrder returns the managers to try for installs, most-native
// first. pip, when present, always goes last.
func (r OSRelease) DistroOrder(available map[Manager]bool) []Manager {
	var preferred []Manager
	switch {
	case r.matchesAny("arch", "manjaro", "endeavouros"):
		preferred = []Manager{Pacman, Flatpak, Snap, NixEnv, Apt, Dnf, Zypper}
	case r.matchesAny("ubuntu", "debian"):
		preferred = []Manager{Apt, Flatpak, Snap, NixEnv, Dnf, Zypper, Pacman}
	case r.matchesAny("fedora", "rhel", "centos"):
		preferred = []Manager{Dnf, Flatpak, Snap, NixEnv, Apt, Zypper, Pacman}
	case r.matchesAny("suse"):
		preferred = []Manager{Zypper, Flatpak, Snap, NixEnv, Dnf, Apt, Pacman}
	default:
		preferred = []Manager{Pacman, Apt, Dnf, Zypper, Flatpak, Snap, NixEnv}
	}
	if available[Pip] {
		preferred = append(preferred, Pip)
	}
	return preferred
}
