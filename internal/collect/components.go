// Package collect resolves named components to the concrete home-relative
// paths they own and measures their sizes. Collection is read-only: the
// live filesystem is referenced, never mutated.
package collect

import "sort"

// ComponentPaths maps each component tag to the home-relative paths it
// captures. Paths that do not exist on a given machine are skipped.
var ComponentPaths = map[string][]string{
	"configs": {".config"},
	"data":    {".local/share"},
	"bin":     {".local/bin", "bin"},
	"systemd": {".config/systemd"},
	"shells": {
		".bashrc",
		".zshrc",
		".config/fish",
		".config/fish/config.fish",
		".config/starship.toml",
		".oh-my-zsh",
	},
	"wm": {
		".config/i3",
		".config/sway",
		".config/hypr",
		".config/hyprland",
		".config/awesome",
		".config/qtile",
		".config/waybar",
		".config/river",
	},
	"terminal": {
		".config/alacritty",
		".config/kitty",
		".config/wezterm",
		".config/ghostty",
		".config/tilix",
		".config/gnome-terminal",
		".config/terminator",
	},
	"themes": {
		".themes",
		".local/share/themes",
	},
	"icons": {
		".icons",
		".local/share/icons",
	},
	"fonts": {
		".fonts",
		".local/share/fonts",
	},
	"wallpapers": {
		".local/share/backgrounds",
		"Pictures/Wallpapers",
		"Pictures/wallpapers",
		"Pictures/backgrounds",
	},
	"browsers": {
		".mozilla",
		".config/google-chrome",
		".config/chromium",
		".config/brave",
		".config/microsoft-edge-dev",
	},
	// Handled by the flatpak/snap collectors, not the path table.
	"flatpak": {},
	"snap":    {},
}

// DefaultComponents is the component set captured when none are requested.
var DefaultComponents = []string{
	"configs",
	"shells",
	"wm",
	"terminal",
	"themes",
	"icons",
	"fonts",
	"wallpapers",
}

// SmartExcludes are junk directories skipped under --smart-exclude.
var SmartExcludes = []string{
	"node_modules",
	"__pycache__",
	".git",
	".venv",
	"venv",
	".idea",
	".vscode",
	".mypy_cache",
	".pytest_cache",
	"target",
	"dist",
	"build",
	".cache",
	".local/share/Steam",
	".local/share/Trash",
	".local/share/containers",
	".local/share/docker",
	"Steam",
	"Trash",
}

// KnownComponents returns the sorted list of valid component tags.
func KnownComponents() []string {
	names := make([]string, 0, len(ComponentPaths))
	for name := range ComponentPaths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsKnownComponent reports whether name is a valid component tag.
func IsKnownComponent(name string) bool {
	_, ok := ComponentPaths[name]
	return ok
}
