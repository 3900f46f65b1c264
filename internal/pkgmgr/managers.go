// Package pkgmgr models the package managers backmey understands: which
// ones exist on the system, how to list what they have installed, and how
// to probe, search, and install through each one.
package pkgmgr

import (
	"os/exec"
)

// Manager identifies one supported package manager.
type Manager string

const (
	Pacman  Manager = "pacman"
	Apt     Manager = "apt"
	Dnf     Manager = "dnf"
	Zypper  Manager = "zypper"
	NixEnv  Manager = "nix-env"
	Flatpak Manager = "flatpak"
	Snap    Manager = "snap"
	Pip     Manager = "pip"
)

// NativeManagers are the distro-level managers whose package namespaces
// are fungible through canonicalization. Sandboxed stores (flatpak, snap)
// are not; their raw lists are kept per-manager.
var NativeManagers = map[Manager]bool{
	Pacman: true,
	Apt:    true,
	Dnf:    true,
	Zypper: true,
	NixEnv: true,
}

// ResolvableManagers support live repository probe and search queries.
var ResolvableManagers = map[Manager]bool{
	Pacman: true,
	Apt:    true,
	Dnf:    true,
	Zypper: true,
}

// AllManagers lists every manager backmey knows, in a stable order.
var AllManagers = []Manager{Pacman, Apt, Dnf, Zypper, NixEnv, Flatpak, Snap, Pip}

// Canonical maps loose user spellings to a Manager. ok is false for
// names backmey does not know.
func Canonical(name string) (Manager, bool) {
	switch name {
	case "pacman":
		return Pacman, true
	case "apt":
		return Apt, true
	case "dnf":
		return Dnf, true
	case "zypper":
		return Zypper, true
	case "nix", "nix-env":
		return NixEnv, true
	case "flatpak":
		return Flatpak, true
	case "snap":
		return Snap, true
	case "pip":
		return Pip, true
	}
	return "", false
}

// DetectAvailable returns the set of managers whose binary is on PATH.
// lookPath may be nil, in which case exec.LookPath is used.
func DetectAvailable(lookPath func(string) (string, error)) map[Manager]bool {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	available := make(map[Manager]bool)
	for _, m := range AllManagers {
		if _, err := lookPath(string(m)); err == nil {
			available[m] = true
		}
	}
	return available
}

// ProbeCommand returns the read-only exact-existence query for a package,
// or nil when the manager has no probe.
func ProbeCommand(m Manager, pkg string) []string {
	switch m {
	case Apt:
		return []string{"apt-cache", "show", pkg}
	case Pacman:
		return []string{"pacman", "-Si", pkg}
	case Dnf:
		return []string{"dnf", "info", "-q", pkg}
	case Zypper:
		return []string{"zypper", "info", pkg}
	}
	return nil
}

// SearchCommand returns the fuzzy repository search for a package, or nil
// when the manager has no usable search.
func SearchCommand(m Manager, pkg string) []string {
	switch m {
	case Apt:
		return []string{"apt-cache", "search", "--names-only", pkg}
	case Pacman:
		return []string{"pacman", "-Ss", pkg}
	case Dnf:
		return []string{"dnf", "search", "-q", pkg}
	}
	return nil
}

// InstallCommand builds the manager's non-interactive install invocation.
// Returns nil for unknown managers.
func InstallCommand(m Manager, packages []string, assumeYes bool) []string {
	var cmd []string
	switch m {
	case Pacman:
		cmd = []string{"sudo", "pacman", "-S", "--needed"}
		if assumeYes {
			cmd = append(cmd, "--noconfirm")
		}
	case Apt:
		cmd = []string{"sudo", "apt", "install"}
		if assumeYes {
			cmd = append(cmd, "-y")
		}
	case Dnf:
		cmd = []string{"sudo", "dnf", "install"}
		if assumeYes {
			cmd = append(cmd, "-y")
		}
	case Zypper:
		cmd = []string{"sudo", "zypper", "install"}
		if assumeYes {
			cmd = append(cmd, "-y")
		}
	case NixEnv:
		cmd = []string{"nix-env", "-i"}
	case Flatpak:
		cmd = []string{"flatpak", "install"}
		if assumeYes {
			cmd = append(cmd, "-y")
		}
	case Snap:
		cmd = []string{"sudo", "snap", "install"}
	case Pip:
		cmd = []string{"pip", "install"}
	default:
		return nil
	}
	return append(cmd, packages...)
}
