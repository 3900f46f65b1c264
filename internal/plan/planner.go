// Package plan turns captured package inventories into per-manager
// install steps and runs them.
package plan

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/backmey/backmey/internal/logging"
	"github.com/backmey/backmey/internal/output"
	"github.com/backmey/backmey/internal/pkgmgr"
	"github.com/backmey/backmey/internal/pkgs"
	"github.com/backmey/backmey/internal/resolve"
)

// Step is one manager's share of the install plan.
type Step struct {
	Manager  pkgmgr.Manager
	Packages []string
	Command  []string
}

// Planner assigns packages to available managers and builds their
// install commands.
type Planner struct {
	Available map[pkgmgr.Manager]bool
	Release   pkgmgr.OSRelease
	AssumeYes bool

	resolvers *resolve.Set
	// runStep executes one install command. Injectable for tests;
	// defaults to running the command with inherited stdio.
	runStep func(args []string) error
}

// NewPlanner detects available managers and loads the distro identity.
func NewPlanner(assumeYes bool) (*Planner, error) {
	rel, err := pkgmgr.LoadOSRelease()
	if err != nil {
		return nil, fmt.Errorf("read os-release: %w", err)
	}
	return &Planner{
		Available: pkgmgr.DetectAvailable(nil),
		Release:   rel,
		AssumeYes: assumeYes,
		resolvers: resolve.NewSet(),
		runStep:   runWithStdio,
	}, nil
}

// Order returns the managers to try. An explicit request overrides
// distro affinity; unknown names in the request are dropped.
func (p *Planner) Order(requested []string) []pkgmgr.Manager {
	if len(requested) == 0 {
		return p.Release.DistroOrder(p.Available)
	}
	var order []pkgmgr.Manager
	for _, name := range requested {
		m, ok := pkgmgr.Canonical(strings.ToLower(strings.TrimSpace(name)))
		if !ok {
			output.Warn("Unknown package manager %q requested; skipping.", name)
			continue
		}
		order = append(order, m)
	}
	return order
}

// BuildPlan assigns packages to each manager in order. Native managers
// prefer the canonical cross-manager list; flatpak and snap only ever
// install their own captured lists.
func (p *Planner) BuildPlan(manifestPackages map[string][]string, canonical []string, requested []string) []Step {
	log := logging.Get("plan")
	var steps []Step
	for _, manager := range p.Order(requested) {
		if !p.Available[manager] {
			log.Debug().Str("manager", string(manager)).Msg("not available, skipping")
			continue
		}

		var packages []string
		switch {
		case pkgmgr.NativeManagers[manager]:
			native := manifestPackages[string(manager)]
			if manager == pkgmgr.NixEnv && len(native) == 0 {
				native = manifestPackages["nix"]
			}
			packages = canonical
			if len(packages) == 0 {
				packages = native
			}
		case manager == pkgmgr.Flatpak:
			packages = manifestPackages["flatpak"]
		case manager == pkgmgr.Snap:
			packages = manifestPackages["snap"]
		}
		if len(packages) == 0 {
			continue
		}

		packages = p.resolvePackages(manager, packages)
		command := pkgmgr.InstallCommand(manager, packages, p.AssumeYes)
		if command == nil {
			continue
		}
		steps = append(steps, Step{Manager: manager, Packages: packages, Command: command})
	}
	return steps
}

// resolvePackages applies the static distro substitution first, then live
// resolution for managers that support it. The static table is
// authoritative and free; live queries only see its output.
func (p *Planner) resolvePackages(manager pkgmgr.Manager, packages []string) []string {
	keys := p.Release.DistroKeys()
	resolved := make([]string, 0, len(packages))
	for _, pkg := range packages {
		candidate := pkgs.Substitute(pkg, keys)
		if pkgmgr.ResolvableManagers[manager] {
			candidate = p.resolvers.For(manager).Resolve(candidate)
		}
		resolved = append(resolved, candidate)
	}
	return resolved
}

// Execute prints the plan, then runs each step unless dryRun is set. A
// failing manager is logged and the rest still run.
func (p *Planner) Execute(steps []Step, dryRun bool) {
	if len(steps) == 0 {
		output.Info("No install plan generated (no packages or managers available).")
		return
	}
	output.Info("Package install plan:")
	for _, step := range steps {
		output.Plain("  [%s] %d packages", step.Manager, len(step.Packages))
		output.Plain("    %s", strings.Join(step.Command, " "))
	}
	if dryRun {
		output.Info("Dry-run enabled; not executing install commands.")
		return
	}
	for _, step := range steps {
		output.Info("Installing via %s...", step.Manager)
		if err := p.runStep(step.Command); err != nil {
			output.Warn("%s install failed: %v", step.Manager, err)
		}
	}
}

func runWithStdio(args []string) error {
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
