package app

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/backmey/backmey/internal/collect"
	"github.com/backmey/backmey/internal/output"
	"github.com/backmey/backmey/internal/watcher"
)

var (
	watchProfile    string
	watchComponents string
	watchDebounce   time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch components and refresh the backup on change",
	Long: `watch observes the files a backup would capture and re-runs the backup
after a quiet period whenever they change. Bursts of writes (an editor
saving a config, a theme switch rewriting files) collapse into a single
backup run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch()
	},
}

func init() {
	f := watchCmd.Flags()
	f.StringVar(&watchProfile, "profile", "default", "profile to back up on change")
	f.StringVar(&watchComponents, "components", "", "comma-separated components to watch")
	f.DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before a change triggers a backup")
}

func runWatch() error {
	home := homeDir()
	chosen, err := parseComponents(watchComponents)
	if err != nil {
		return err
	}
	if len(chosen) == 0 {
		for _, c := range collect.DefaultComponents {
			chosen[c] = true
		}
	}
	// Watch only needs the paths, not the staged store-app lists.
	entries := collect.Gather(home, chosen, false, "")

	w, err := watcher.New(watchDebounce, func() {
		output.Info("Changes settled; refreshing backup for profile %q", watchProfile)
		backupProfile = watchProfile
		backupComponents = watchComponents
		if err := runBackup(); err != nil {
			output.Warn("Auto-backup failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	watched := 0
	for _, entry := range entries {
		if err := w.Add(filepath.Join(home, entry.RelPath)); err != nil {
			output.Warn("Cannot watch %s: %v", entry.RelPath, err)
			continue
		}
		watched++
	}
	output.Info("Watching %d paths (debounce %s). Press Ctrl-C to stop.", watched, watchDebounce)
	w.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	output.Info("Stopping watch.")
	return w.Stop()
}
