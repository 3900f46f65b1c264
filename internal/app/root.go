// Package app wires the backmey CLI: flag parsing, command dispatch,
// and the glue between collection, archiving, restore, and package
// planning.
package app

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/backmey/backmey/internal/logging"
)

// HomeEnv overrides the home directory, mainly for tests and sandboxed
// runs.
const HomeEnv = "BACKMEY_HOME"

var (
	flagHome        string
	flagStoreDir    string
	flagTemplateDir string
	flagVerbose     int

	// RootCmd is the backmey entry point.
	RootCmd = &cobra.Command{
		Use:   "backmey",
		Short: "Universal Linux desktop backup and restore",
		Long: `backmey captures a Linux desktop setup - dotfiles, themes, desktop
settings, and installed package inventories - into a single portable
archive, and restores it on any distribution by remapping package
names onto whatever package managers the target machine has.

Quick Start:
  1. backmey backup --profile laptop
  2. Copy the archive to the new machine
  3. backmey restore --profile laptop --install-packages

Examples:
  # Preview what a backup would include
  backmey backup --dry-run --report-sizes

  # Versioned backup with junk directories excluded
  backmey backup --profile gaming-setup --smart-exclude

  # Restore only shell and terminal configs
  backmey restore --profile laptop --components shells,terminal

  # See what is inside an archive without unpacking it
  backmey inspect --archive backup.tar.zst`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(flagVerbose)
		},
	}
)

func init() {
	RootCmd.PersistentFlags().StringVar(&flagHome, "home", "", "home directory to operate on (default: $HOME)")
	RootCmd.PersistentFlags().StringVar(&flagStoreDir, "store-dir", "", "versioned backup directory (default: ~/.backmey/backups)")
	RootCmd.PersistentFlags().StringVar(&flagTemplateDir, "template-dir", "", "template directory (default: ~/.backmey/templates)")
	RootCmd.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "increase diagnostic output (-v, -vv)")

	RootCmd.SuggestionsMinimumDistance = 2

	RootCmd.AddCommand(backupCmd)
	RootCmd.AddCommand(restoreCmd)
	RootCmd.AddCommand(inspectCmd)
	RootCmd.AddCommand(listCmd)
	RootCmd.AddCommand(detectCmd)
	RootCmd.AddCommand(templatesCmd)
	RootCmd.AddCommand(watchCmd)
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

// homeDir resolves the target home: --home flag, then BACKMEY_HOME,
// then the real home.
func homeDir() string {
	if flagHome != "" {
		return expandUser(flagHome)
	}
	if env := os.Getenv(HomeEnv); env != "" {
		return expandUser(env)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func storeDir() string {
	if flagStoreDir != "" {
		return expandUser(flagStoreDir)
	}
	return filepath.Join(homeDir(), ".backmey", "backups")
}

func templateDir() string {
	if flagTemplateDir != "" {
		return expandUser(flagTemplateDir)
	}
	return filepath.Join(homeDir(), ".backmey", "templates")
}
