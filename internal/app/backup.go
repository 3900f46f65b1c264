package app

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/backmey/backmey/internal/archive"
	"github.com/backmey/backmey/internal/catalog"
	"github.com/backmey/backmey/internal/collect"
	"github.com/backmey/backmey/internal/dconf"
	"github.com/backmey/backmey/internal/detect"
	"github.com/backmey/backmey/internal/logging"
	"github.com/backmey/backmey/internal/manifest"
	"github.com/backmey/backmey/internal/output"
	"github.com/backmey/backmey/internal/pkgmgr"
	"github.com/backmey/backmey/internal/pkgs"
	"github.com/backmey/backmey/internal/store"
)

var (
	backupOutput       string
	backupProfile      string
	backupVersion      string
	backupComponents   string
	backupWithBrowsers bool
	backupNoPackages   bool
	backupReportSizes  bool
	backupDryRun       bool
	backupSyncCommand  string
	backupNotes        string
	backupSkipDconf    bool
	backupSmartExclude bool
	backupExcludes     []string
	backupIncludes     []string
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create a desktop backup archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBackup()
	},
}

func init() {
	f := backupCmd.Flags()
	f.StringVar(&backupOutput, "output", "", "explicit output archive path")
	f.StringVar(&backupProfile, "profile", "", "profile name for versioned backups (e.g. gaming-setup)")
	f.StringVar(&backupVersion, "version", "", "version/tag; defaults to a timestamp")
	f.StringVar(&backupComponents, "components", "", "comma-separated components to include")
	f.BoolVar(&backupWithBrowsers, "with-browser-profiles", false, "include browser profiles (can be large)")
	f.BoolVar(&backupNoPackages, "no-packages", false, "skip package inventory collection")
	f.BoolVar(&backupReportSizes, "report-sizes", false, "show size per component before archiving")
	f.BoolVar(&backupDryRun, "dry-run", false, "preview the backup without writing an archive")
	f.StringVar(&backupSyncCommand, "sync-command", "", "shell command to run after backup ({archive} placeholder)")
	f.StringVar(&backupNotes, "notes", "", "note to store in the manifest")
	f.BoolVar(&backupSkipDconf, "skip-dconf", false, "skip backing up dconf settings")
	f.BoolVar(&backupSmartExclude, "smart-exclude", false, "exclude common junk dirs (.git, node_modules, etc)")
	f.StringArrayVar(&backupExcludes, "exclude", nil, "custom exclude pattern (repeatable)")
	f.StringArrayVar(&backupIncludes, "include", nil, "include custom path (repeatable)")
}

func runBackup() error {
	start := time.Now()
	log := logging.Get("backup")
	step := func(name string) {
		log.Debug().Dur("elapsed", time.Since(start)).Str("step", name).Msg("starting step")
	}
	home := homeDir()

	step("desktop detection")
	detection := detect.Detect()

	step("gather components")
	chosen, err := parseComponents(backupComponents)
	if err != nil {
		return err
	}
	if len(chosen) == 0 {
		for _, c := range collect.DefaultComponents {
			chosen[c] = true
		}
	}

	// The work dir doubles as the staging area for store-app list
	// files, so gathering never writes into the live home. Dry runs
	// skip it entirely and stay write-free.
	var work string
	if !backupDryRun {
		work = filepath.Join(os.TempDir(), "backmey-manifest-"+uuid.NewString())
		if err := os.MkdirAll(work, 0o700); err != nil {
			return fmt.Errorf("create work dir: %w", err)
		}
		defer os.RemoveAll(work)
	}
	entries := collect.Gather(home, chosen, backupWithBrowsers, work)

	for _, inc := range backupIncludes {
		path := expandUser(inc)
		if _, err := os.Stat(path); err != nil {
			output.Warn("Custom path not found, skipping: %s", path)
			continue
		}
		entries = append(entries, collect.CustomEntry(home, path))
		output.Info("Including custom path: %s", path)
	}

	step("size calculation")
	entrySizes := collect.EntrySizes(entries)
	componentSizes := collect.ComponentSizes(entries, entrySizes)
	if backupReportSizes {
		output.Info("Component size report:")
		output.Plain("%s", output.RenderSizeReport(componentSizes, len(entries)))
	}

	step("package collection")
	var packages map[string][]string
	var canonical []string
	if !backupNoPackages {
		packages = pkgmgr.Inventory(nil, nil)
		if len(packages) > 0 {
			aliases, err := loadAliasTable()
			if err != nil {
				output.Warn("Failed to load package aliases: %v", err)
			}
			var all []string
			for _, list := range packages {
				all = append(all, list...)
			}
			canonical = pkgs.NewNormalizer(aliases).Canonicalize(all)
		}
	}

	dest, profile, version, err := resolveBackupOutput()
	if err != nil {
		return err
	}
	output.Info("Creating archive at %s", dest)

	if backupDryRun {
		step("dry-run summary")
		printBackupDryRun(dest, profile, version, entries, entrySizes, componentSizes)
		return nil
	}

	step("manifest creation")
	m := &manifest.Manifest{
		Timestamp:      time.Now().Unix(),
		Detection:      detection,
		Packages:       packages,
		Canonical:      canonical,
		ComponentSizes: componentSizes,
		Profile:        profile,
		Version:        version,
		StoreDir:       storeDir(),
		Notes:          backupNotes,
	}
	for _, entry := range entries {
		m.Components = append(m.Components, manifest.ComponentRef{
			Component: entry.Component,
			Path:      entry.RelPath,
		})
	}
	manifestPath := filepath.Join(work, manifest.Filename)
	if err := m.Write(manifestPath); err != nil {
		return err
	}
	extras := []string{manifestPath}

	if !backupSkipDconf && dconf.Available() {
		dconfPath := filepath.Join(work, dconf.Filename)
		if err := dconf.Dump(dconfPath); err != nil {
			output.Warn("Failed to dump dconf settings: %v", err)
		} else {
			extras = append(extras, dconfPath)
		}
	}

	step("archiving")
	excludes := append([]string(nil), backupExcludes...)
	if backupSmartExclude {
		excludes = append(excludes, collect.SmartExcludes...)
	}
	builder := archive.NewBuilder(excludes)
	if err := builder.Build(dest, entries, extras); err != nil {
		return err
	}

	recordBackup(dest, profile, version, entries, canonical)

	output.Info("Backup complete.")
	if len(packages) > 0 {
		output.Info("Canonical package count: %d", len(canonical))
	}
	if backupSyncCommand != "" {
		runSyncCommand(backupSyncCommand, dest)
	}
	return nil
}

// resolveBackupOutput decides where the archive goes: an explicit
// --output path, or a profile/version slot in the versioned store.
func resolveBackupOutput() (dest, profile, version string, err error) {
	profile = "default"
	if backupProfile != "" {
		profile = store.SanitizeName(backupProfile)
	}
	if backupOutput != "" {
		dest = expandUser(backupOutput)
		if mkErr := os.MkdirAll(filepath.Dir(dest), 0o755); mkErr != nil {
			return "", "", "", fmt.Errorf("create output directory: %w", mkErr)
		}
		version = backupVersion
		if version == "" {
			version = store.VersionFromFilename(dest)
		}
		return dest, profile, version, nil
	}
	dest, err = store.New(storeDir()).BuildPath(profile, backupVersion)
	if err != nil {
		return "", "", "", err
	}
	version = backupVersion
	if version == "" {
		version = store.VersionFromFilename(dest)
	}
	return dest, profile, version, nil
}

func printBackupDryRun(dest, profile, version string, entries []collect.Entry, entrySizes, componentSizes map[string]int64) {
	var total int64
	for _, size := range entrySizes {
		total += size
	}
	components := make(map[string]bool)
	for _, e := range entries {
		components[e.Component] = true
	}
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	sort.Strings(names)

	output.Info("Backup dry-run summary:")
	output.Plain("  Profile: %s  Version: %s", profile, version)
	output.Plain("  Target archive: %s", dest)
	output.Plain("  Components (%d): %s", len(names), strings.Join(names, ", "))
	output.Plain("  Paths: %d  Total size: %s", len(entries), output.FormatSize(total))
	output.Plain("  Size by component:")
	sized := make([]string, 0, len(componentSizes))
	for comp := range componentSizes {
		sized = append(sized, comp)
	}
	sort.Strings(sized)
	for _, comp := range sized {
		output.Plain("    - %s: %s", comp, output.FormatSize(componentSizes[comp]))
	}
	output.Plain("  Paths to include (first 50):")
	const maxList = 50
	for i, entry := range entries {
		if i == maxList {
			output.Plain("    ... and %d more", len(entries)-maxList)
			break
		}
		output.Plain("    - %s (%s)", entry.RelPath, output.FormatSize(entrySizes[entry.RelPath]))
	}
}

// recordBackup writes the finished archive into the history catalog.
// Catalog trouble never fails a backup that already exists on disk.
func recordBackup(dest, profile, version string, entries []collect.Entry, canonical []string) {
	cat, err := catalog.New(filepath.Join(homeDir(), ".backmey", "catalog.db"))
	if err != nil {
		log := logging.Get("backup")
		log.Warn().Err(err).Msg("catalog unavailable")
		return
	}
	defer cat.Close()

	var size int64
	if info, err := os.Stat(dest); err == nil {
		size = info.Size()
	}
	components := make(map[string]bool)
	for _, e := range entries {
		components[e.Component] = true
	}
	if _, err := cat.Insert(catalog.Record{
		CreatedAt:      time.Now(),
		Profile:        profile,
		Version:        version,
		ArchivePath:    dest,
		SizeBytes:      size,
		ComponentCount: len(components),
		PackageCount:   len(canonical),
		Notes:          backupNotes,
	}); err != nil {
		log := logging.Get("backup")
		log.Warn().Err(err).Msg("catalog insert failed")
	}
}

// loadAliasTable reads the merged alias table from the config dir.
func loadAliasTable() (map[string][]string, error) {
	dir, err := pkgs.ConfigDir()
	if err != nil {
		return pkgs.LoadAliases("")
	}
	return pkgs.LoadAliases(dir)
}

// runSyncCommand runs a user shell command after backup, substituting
// {archive} with the archive path. Sync failures are reported, not
// fatal; the backup itself already succeeded.
func runSyncCommand(command, archivePath string) {
	rendered := strings.ReplaceAll(command, "{archive}", archivePath)
	output.Info("Running sync command: %s", rendered)
	cmd := exec.Command("sh", "-c", rendered)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		output.Warn("Sync command failed: %v", err)
	}
}
