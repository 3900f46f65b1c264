package app

import (
	"encoding/json"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/backmey/backmey/internal/catalog"
	"github.com/backmey/backmey/internal/output"
	"github.com/backmey/backmey/internal/store"
)

var (
	listTemplates bool
	listJSON      bool
	listStats     bool
	listProfile   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List versioned backups and templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList()
	},
}

func init() {
	listCmd.Flags().BoolVar(&listTemplates, "templates", false, "list templates as well as backups")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output in JSON format")
	listCmd.Flags().BoolVar(&listStats, "stats", false, "show backup history from the catalog")
	listCmd.Flags().StringVar(&listProfile, "profile", "", "filter --stats history to one profile")
}

func runList() error {
	result := struct {
		Backups   map[string][]string `json:"backups"`
		Templates []string            `json:"templates"`
	}{
		Backups:   make(map[string][]string),
		Templates: []string{},
	}

	backups, err := store.New(storeDir()).List()
	if err != nil {
		return err
	}
	if len(backups) > 0 {
		var rows []output.BackupRow
		for profile, versions := range backups {
			names := make([]string, 0, len(versions))
			for _, v := range versions {
				names = append(names, filepath.Base(v))
			}
			result.Backups[profile] = names
			rows = append(rows, output.BackupRow{
				Profile:  profile,
				Versions: len(versions),
				Latest:   filepath.Base(versions[len(versions)-1]),
			})
		}
		if !listJSON {
			output.Info("Backups in %s:", storeDir())
			output.Plain("%s", output.RenderBackupTable(rows))
		}
	} else if !listJSON {
		output.Warn("No backups found in %s", storeDir())
	}

	if listTemplates {
		registry := &store.TemplateRegistry{Root: templateDir()}
		templates, err := registry.List()
		if err != nil {
			return err
		}
		if len(templates) > 0 {
			if !listJSON {
				output.Info("Templates in %s:", templateDir())
			}
			for _, tpl := range templates {
				result.Templates = append(result.Templates, store.TemplateName(tpl))
				if !listJSON {
					output.Plain("  - %s", store.TemplateName(tpl))
				}
			}
		} else if !listJSON {
			output.Warn("No templates found in %s", templateDir())
		}
	}

	if listStats && !listJSON {
		if err := printStats(); err != nil {
			output.Warn("Catalog unavailable: %v", err)
		}
	}

	if listJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		output.Plain("%s", data)
	}
	return nil
}

// printStats reads the backup history catalog and prints the most
// recent runs with their recorded sizes and package counts.
func printStats() error {
	cat, err := catalog.New(filepath.Join(homeDir(), ".backmey", "catalog.db"))
	if err != nil {
		return err
	}
	defer cat.Close()

	records, err := cat.List(listProfile)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		output.Warn("No backup history recorded yet.")
		return nil
	}
	output.Info("Backup history:")
	const maxRows = 20
	for i, rec := range records {
		if i == maxRows {
			output.Plain("  ... and %d more", len(records)-maxRows)
			break
		}
		output.Plain("  %s  %s/%s  %s  %d components  %d packages",
			rec.CreatedAt.Format("2006-01-02 15:04"),
			rec.Profile, rec.Version,
			output.FormatSize(rec.SizeBytes),
			rec.ComponentCount, rec.PackageCount)
	}

	latest, err := cat.Latest(listProfile)
	if err != nil {
		return err
	}
	if latest != nil {
		output.Info("Most recent: %s/%s, %s (%s)",
			latest.Profile, latest.Version,
			humanize.Time(latest.CreatedAt),
			output.FormatSize(latest.SizeBytes))
	}
	return nil
}
