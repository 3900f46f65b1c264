package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/backmey/backmey/internal/archive"
	"github.com/backmey/backmey/internal/output"
)

var (
	inspectArchive string
	inspectProfile string
	inspectVersion string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect a backup archive",
	Long: `inspect streams the manifest out of an archive without unpacking it
and prints it as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect()
	},
}

func init() {
	f := inspectCmd.Flags()
	f.StringVar(&inspectArchive, "archive", "", "path to archive")
	f.StringVar(&inspectProfile, "profile", "", "profile name")
	f.StringVar(&inspectVersion, "version", "", "version/tag to inspect")
}

func runInspect() error {
	archivePath, err := resolveRestoreArchive(inspectArchive, "", inspectProfile, inspectVersion)
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(archivePath); statErr != nil && !strings.HasSuffix(archivePath, ".gpg") {
		// Fall back to an encrypted sibling before giving up.
		encrypted := archivePath + ".gpg"
		if _, encErr := os.Stat(encrypted); encErr == nil {
			archivePath = encrypted
		} else {
			return fmt.Errorf("archive not found: %s", archivePath)
		}
	}

	m, err := archive.NewReader().InspectManifest(archivePath)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	output.Plain("%s", data)
	return nil
}
