package pkgs

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// defaultAliases maps canonical package names to the spellings different
// package managers report for them. Keys themselves count as aliases.
var defaultAliases = map[string][]string{
	"firefox":        {"firefox", "firefox-esr", "org.mozilla.firefox", "mozilla-firefox"},
	"chromium":       {"chromium", "chromium-browser", "org.chromium.Chromium"},
	"vlc":            {"vlc", "org.videolan.VLC"},
	"gimp":           {"gimp", "org.gimp.GIMP"},
	"libreoffice":    {"libreoffice", "libreoffice-fresh", "libreoffice-still", "org.libreoffice.LibreOffice"},
	"code":           {"code", "visual-studio-code-bin", "vscode", "com.visualstudio.code"},
	"steam":          {"steam", "steam-installer", "steam-native-runtime", "com.valvesoftware.Steam"},
	"discord":        {"discord", "com.discordapp.Discord"},
	"spotify":        {"spotify", "spotify-client", "com.spotify.Client"},
	"telegram":       {"telegram", "telegram-desktop", "org.telegram.desktop"},
	"obs-studio":     {"obs-studio", "obs", "com.obsproject.Studio"},
	"thunderbird":    {"thunderbird", "org.mozilla.Thunderbird"},
	"neovim":         {"neovim", "nvim"},
	"alacritty":      {"alacritty", "org.alacritty.Alacritty"},
	"signal-desktop": {"signal-desktop", "signal", "org.signal.Signal"},
}

// ConfigDir returns the backmey config directory, respecting
// XDG_CONFIG_HOME. Defaults to ~/.config/backmey.
func ConfigDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "backmey"), nil
}

// LoadAliases merges the built-in alias table with the user overrides at
// {dir}/aliases. Each override line is "alias = canonical"; blank lines
// and #-comments are skipped, as are malformed lines. A missing file is
// not an error. User entries win over built-ins for the same alias.
func LoadAliases(dir string) (map[string][]string, error) {
	merged := make(map[string][]string, len(defaultAliases))
	for canonical, names := range defaultAliases {
		merged[canonical] = append([]string(nil), names...)
	}

	path := filepath.Join(dir, "aliases")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return merged, nil
		}
		return merged, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}
		alias := strings.TrimSpace(line[:idx])
		canonical := strings.TrimSpace(line[idx+1:])
		if alias == "" || canonical == "" {
			continue
		}
		// Drop the alias from any built-in entry so the override is
		// unambiguous, then attach it to the user's canonical name.
		norm := NormalizeName(alias)
		for name, names := range merged {
			kept := names[:0]
			for _, a := range names {
				if NormalizeName(a) != norm {
					kept = append(kept, a)
				}
			}
			merged[name] = kept
		}
		merged[canonical] = append(merged[canonical], alias)
	}
	if err := scanner.Err(); err != nil {
		return merged, err
	}
	return merged, nil
}
