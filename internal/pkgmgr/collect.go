package pkgmgr

import (
	"os/exec"
	"strings"

	"github.com/backmey/backmey/internal/logging"
)

// listCommands maps each manifest inventory key to the command whose
// output lists installed packages, one per line. The key doubles as the
// binary checked for availability; "apt" lists through dpkg-query and
// "dnf"/"zypper"/"rpm" all read the rpm database.
var listCommands = map[string][]string{
	"pacman":  {"pacman", "-Qq"},
	"apt":     {"dpkg-query", "-W", "-f=${Package}\n"},
	"dnf":     {"rpm", "-qa", "--qf", "%{NAME}\n"},
	"zypper":  {"rpm", "-qa", "--qf", "%{NAME}\n"},
	"rpm":     {"rpm", "-qa", "--qf", "%{NAME}\n"},
	"flatpak": {"flatpak", "list", "--app", "--columns=application"},
	"snap":    {"snap", "list"},
	"nix":     {"nix-env", "-q"},
	"pip":     {"pip", "freeze"},
}

// inventoryOrder fixes the iteration order of listCommands.
var inventoryOrder = []string{"pacman", "apt", "dnf", "zypper", "rpm", "flatpak", "snap", "nix", "pip"}

// Inventory captures installed-package lists from every manager present
// on the system, keyed by manager name. runLines may be nil; it exists
// so tests can substitute canned output.
func Inventory(lookPath func(string) (string, error), runLines func(args []string) ([]string, error)) map[string][]string {
	log := logging.Get("pkgmgr")
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if runLines == nil {
		runLines = runCommandLines
	}

	packages := make(map[string][]string)
	for _, key := range inventoryOrder {
		bin := key
		if key == "nix" {
			bin = "nix-env"
		}
		if _, err := lookPath(bin); err != nil {
			continue
		}
		lines, err := runLines(listCommands[key])
		if err != nil {
			log.Debug().Str("manager", key).Err(err).Msg("package list failed")
			continue
		}
		if key == "snap" {
			lines = parseSnapColumns(lines)
		}
		if len(lines) > 0 {
			packages[key] = lines
			log.Debug().Str("manager", key).Int("count", len(lines)).Msg("collected packages")
		}
	}
	return packages
}

// runCommandLines runs a command and returns its stdout split into
// non-empty trimmed lines.
func runCommandLines(args []string) ([]string, error) {
	out, err := exec.Command(args[0], args[1:]...).Output()
	if err != nil {
		return nil, err
	}
	return splitLines(string(out)), nil
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// parseSnapColumns reduces `snap list` table rows to the name column,
// dropping the header.
func parseSnapColumns(lines []string) []string {
	var names []string
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 || strings.EqualFold(fields[0], "name") {
			continue
		}
		names = append(names, fields[0])
	}
	return names
}
