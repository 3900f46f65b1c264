package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/backmey/backmey/internal/archive"
	"github.com/backmey/backmey/internal/collect"
	"github.com/backmey/backmey/internal/dconf"
	"github.com/backmey/backmey/internal/manifest"
	"github.com/backmey/backmey/internal/output"
	"github.com/backmey/backmey/internal/plan"
	"github.com/backmey/backmey/internal/restore"
)

var (
	restoreArchive       string
	restoreProfile       string
	restoreVersion       string
	restoreTemplate      string
	restoreComponents    string
	restoreYes           bool
	restoreSkipConflicts bool
	restoreDryRun        bool
	restoreNoSnapshot    bool
	restoreSnapshotDir   string
	installPackages      bool
	installManagers      string
	installDryRun        bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore from an archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		if restoreArchive != "" && (restoreProfile != "" || restoreTemplate != "") {
			return fmt.Errorf("use either --archive or --profile/--template, not both")
		}
		return runRestore()
	},
}

func init() {
	f := restoreCmd.Flags()
	f.StringVar(&restoreArchive, "archive", "", "backup archive path")
	f.StringVar(&restoreProfile, "profile", "", "profile name to restore from the versioned store")
	f.StringVar(&restoreVersion, "version", "", "version/tag to restore (default: latest)")
	f.StringVar(&restoreTemplate, "template", "", "restore from a registered template instead of a backup")
	f.StringVar(&restoreComponents, "components", "", "comma-separated components to restore (default: all in archive)")
	f.BoolVar(&restoreYes, "yes", false, "assume yes for prompts")
	f.BoolVar(&restoreSkipConflicts, "skip-conflicts", false, "skip restoring paths that already exist")
	f.BoolVar(&restoreDryRun, "dry-run", false, "show restore plan and conflicts without writing files")
	f.BoolVar(&restoreNoSnapshot, "no-snapshot", false, "do not snapshot existing files before overwrite")
	f.StringVar(&restoreSnapshotDir, "snapshot-dir", "", "custom snapshot root (default ~/.backmey/snapshots)")
	f.BoolVar(&installPackages, "install-packages", false, "execute the package install plan")
	f.StringVar(&installManagers, "install-managers", "", "comma-separated package managers to prefer (e.g. pacman,apt,flatpak)")
	f.BoolVar(&installDryRun, "install-dry-run", false, "preview install commands even with --install-packages")
}

func runRestore() error {
	chosen, err := parseComponents(restoreComponents)
	if err != nil {
		return err
	}
	archivePath, err := resolveRestoreArchive(restoreArchive, restoreTemplate, restoreProfile, restoreVersion)
	if err != nil {
		return err
	}
	home := homeDir()

	work := filepath.Join(os.TempDir(), "backmey-restore-"+uuid.NewString())
	if err := os.MkdirAll(work, 0o700); err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(work)

	reader := archive.NewReader()
	if err := reader.Extract(archivePath, work); err != nil {
		return err
	}

	manifestPath := filepath.Join(work, manifest.Filename)
	if _, err := os.Stat(manifestPath); err != nil {
		return archive.ErrManifestMissing
	}
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}

	// Package planning runs even when there is nothing to copy, so a
	// components-empty archive can still reinstall software.
	defer planInstall(m)

	if len(chosen) == 0 {
		chosen = m.ComponentSet()
	}
	var entries []collect.Entry
	for _, ref := range m.Components {
		if !chosen[ref.Component] {
			continue
		}
		src := filepath.Join(work, "home", ref.Path)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		entries = append(entries, collect.Entry{
			Component: ref.Component,
			RelPath:   ref.Path,
			AbsPath:   src,
		})
	}
	if len(entries) == 0 {
		output.Warn("No matching components to restore.")
		return nil
	}

	conflicts := restore.Conflicts(home, entries)
	if restoreSkipConflicts && len(conflicts) > 0 {
		output.Info("Skipping %d conflicting paths due to --skip-conflicts.", len(conflicts))
		entries = restore.DropConflicting(home, entries)
		conflicts = restore.Conflicts(home, entries)
	}
	if len(entries) == 0 {
		output.Warn("No components left to restore after applying filters.")
		return nil
	}

	fresh, overwrite := restore.Classify(home, entries)
	sizes := m.ComponentSizes
	if len(sizes) == 0 {
		sizes = collect.ComponentSizes(entries, nil)
	}

	if restoreDryRun {
		printRestoreDryRun(entries, fresh, overwrite, conflicts, sizes)
		return nil
	}

	if len(conflicts) > 0 && !restoreSkipConflicts {
		output.Warn("Conflicts detected; the following paths already exist:")
		for _, path := range conflicts {
			output.Plain("  - %s", path)
		}
		if !restoreYes && !confirm("Proceed and overwrite after snapshot?") {
			output.Warn("Restore aborted by user.")
			return nil
		}
	}

	switch {
	case len(conflicts) > 0 && restoreNoSnapshot:
		output.Warn("Snapshots disabled; existing files may be overwritten.")
	case len(conflicts) > 0:
		root := restore.DefaultSnapshotRoot(home)
		if restoreSnapshotDir != "" {
			root = expandUser(restoreSnapshotDir)
		}
		snapDir := restore.SnapshotDir(root)
		output.Info("Creating snapshot in %s", snapDir)
		if err := restore.Snapshot(home, conflicts, snapDir); err != nil {
			return err
		}
	}

	output.Info("Restoring components...")
	restore.Apply(home, entries)

	dconfPath := filepath.Join(work, dconf.Filename)
	if _, err := os.Stat(dconfPath); err == nil && dconf.Available() {
		output.Info("Restoring dconf settings...")
		if err := dconf.Load(dconfPath); err != nil {
			output.Warn("Failed to restore dconf settings: %v", err)
		}
	}

	output.Info("Restore complete.")
	return nil
}

// planInstall builds the package install plan from the manifest and
// prints or executes it per the install flags.
func planInstall(m *manifest.Manifest) {
	planner, err := plan.NewPlanner(restoreYes)
	if err != nil {
		output.Warn("Package planning unavailable: %v", err)
		return
	}
	steps := planner.BuildPlan(m.Packages, m.Canonical, parseCSV(installManagers))

	if restoreDryRun || installDryRun {
		planner.Execute(steps, true)
		return
	}
	if installPackages {
		planner.Execute(steps, false)
		return
	}
	printInstallPreview(steps, len(m.Canonical))
}

// printInstallPreview summarizes the install plan that would run with
// --install-packages, so a plain restore still surfaces what was
// captured.
func printInstallPreview(steps []plan.Step, canonical int) {
	if canonical == 0 {
		return
	}
	output.Info("Canonical packages captured: %d", canonical)
	if len(steps) == 0 {
		output.Info("No install plan generated; no compatible manager found.")
		return
	}
	output.Info("Install preview (not executed):")
	for _, s := range steps {
		output.Plain("  [%s] %d packages", s.Manager, len(s.Packages))
		output.Plain("    %s", strings.Join(s.Command, " "))
	}
}

func printRestoreDryRun(entries, fresh, overwrite []collect.Entry, conflicts []string, sizes map[string]int64) {
	components := make(map[string]bool)
	for _, e := range entries {
		components[e.Component] = true
	}
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	sort.Strings(names)

	var total int64
	for _, size := range sizes {
		total += size
	}

	output.Info("Restore dry-run summary:")
	output.Plain("  Components: %s", strings.Join(names, ", "))
	output.Plain("  New paths: %d", len(fresh))
	output.Plain("  Overwrite paths: %d", len(overwrite))
	if sample := samplePaths(fresh); sample != "" {
		output.Plain("  Sample new: %s", sample)
	}
	if sample := samplePaths(overwrite); sample != "" {
		output.Plain("  Sample overwrite: %s", sample)
	}
	output.Plain("  Total copy size: %s", output.FormatSize(total))
	output.Plain("  Size by component:")
	sized := make([]string, 0, len(sizes))
	for comp := range sizes {
		sized = append(sized, comp)
	}
	sort.Strings(sized)
	for _, comp := range sized {
		output.Plain("    - %s: %s", comp, output.FormatSize(sizes[comp]))
	}
	if len(conflicts) > 0 && !restoreSkipConflicts {
		output.Plain("  Conflicts detected: %d (would prompt)", len(conflicts))
	}
}

func samplePaths(entries []collect.Entry) string {
	var sample []string
	for i, e := range entries {
		if i == 5 {
			break
		}
		sample = append(sample, e.RelPath)
	}
	return strings.Join(sample, "; ")
}
