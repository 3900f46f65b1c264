package collect

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/backmey/backmey/internal/logging"
)

// FlatpakCollector captures flatpak app data and the installed-app list.
type FlatpakCollector struct {
	home    string
	staging string
	tool    string
}

// NewFlatpakCollector looks up the flatpak binary. The installed-app
// list is written under staging, never into the live home; an empty
// staging skips list capture.
func NewFlatpakCollector(home, staging string) *FlatpakCollector {
	tool, _ := exec.LookPath("flatpak")
	return &FlatpakCollector{home: home, staging: staging, tool: tool}
}

// Available reports whether the flatpak binary is on PATH.
func (c *FlatpakCollector) Available() bool { return c.tool != "" }

// Collect stages the installed-app list and includes the per-app data
// directory. Both parts are best-effort.
func (c *FlatpakCollector) Collect() []Entry {
	if c.tool == "" {
		return nil
	}
	log := logging.Get("collect")
	var entries []Entry

	if c.staging != "" {
		out, err := exec.Command(c.tool, "list", "--app", "--columns=application").Output()
		if err != nil {
			log.Debug().Err(err).Msg("failed to list flatpaks")
		} else {
			listFile := filepath.Join(c.staging, ".backmey_flatpak_list")
			if err := os.WriteFile(listFile, out, 0644); err != nil {
				log.Debug().Err(err).Msg("failed to write flatpak list")
			} else {
				entries = append(entries, Entry{
					Component: "flatpak",
					RelPath:   ".backmey_flatpak_list",
					AbsPath:   listFile,
				})
			}
		}
	}

	dataDir := filepath.Join(c.home, ".var", "app")
	if _, err := os.Stat(dataDir); err == nil {
		entries = append(entries, Entry{
			Component: "flatpak",
			RelPath:   ".var/app",
			AbsPath:   dataDir,
		})
	}
	return entries
}

// SnapCollector captures snap app data and the installed-snap list.
type SnapCollector struct {
	home    string
	staging string
	tool    string
}

// NewSnapCollector looks up the snap binary. The installed-snap list
// is written under staging, never into the live home; an empty staging
// skips list capture.
func NewSnapCollector(home, staging string) *SnapCollector {
	tool, _ := exec.LookPath("snap")
	return &SnapCollector{home: home, staging: staging, tool: tool}
}

// Available reports whether the snap binary is on PATH.
func (c *SnapCollector) Available() bool { return c.tool != "" }

// Collect stages the installed-snap list and includes the snap data
// directory. Snap restore is channel-sensitive, so the list is captured
// for reference rather than automated reinstall.
func (c *SnapCollector) Collect() []Entry {
	if c.tool == "" {
		return nil
	}
	log := logging.Get("collect")
	var entries []Entry

	if c.staging != "" {
		out, err := exec.Command(c.tool, "list").Output()
		if err != nil {
			log.Debug().Err(err).Msg("failed to list snaps")
		} else {
			listFile := filepath.Join(c.staging, ".backmey_snap_list")
			if err := os.WriteFile(listFile, out, 0644); err != nil {
				log.Debug().Err(err).Msg("failed to write snap list")
			} else {
				entries = append(entries, Entry{
					Component: "snap",
					RelPath:   ".backmey_snap_list",
					AbsPath:   listFile,
				})
			}
		}
	}

	dataDir := filepath.Join(c.home, "snap")
	if _, err := os.Stat(dataDir); err == nil {
		entries = append(entries, Entry{
			Component: "snap",
			RelPath:   "snap",
			AbsPath:   dataDir,
		})
	}
	return entries
}

// ParseSnapList extracts snap names from `snap list` table output,
// skipping the header row.
func ParseSnapList(out string) []string {
	var names []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if strings.EqualFold(fields[0], "name") {
			continue
		}
		names = append(names, fields[0])
	}
	return names
}
