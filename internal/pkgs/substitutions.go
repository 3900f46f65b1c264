package pkgs

// distroSubstitutions rewrites canonical names into the spelling a given
// distro actually ships. Keyed by os-release ID.
var distroSubstitutions = map[string]map[string]string{
	"debian": {
		"firefox": "firefox-esr",
		"steam":   "steam-installer",
	},
	"ubuntu": {
		"firefox-esr": "firefox",
	},
	"arch": {
		"steam": "steam-native-runtime",
	},
	"manjaro": {
		"steam": "steam-native-runtime",
	},
	"fedora": {
		"chromium": "chromium-browser",
	},
	"opensuse": {
		"chromium": "chromium",
	},
}

// Substitute maps a canonical name to the target distro's spelling. Keys
// are tried in order; the first table containing the name wins.
func Substitute(name string, distroKeys []string) string {
	for _, key := range distroKeys {
		if table, ok := distroSubstitutions[key]; ok {
			if sub, ok := table[name]; ok {
				return sub
			}
		}
	}
	return name
}
