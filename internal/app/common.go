package app

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/backmey/backmey/internal/collect"
	"github.com/backmey/backmey/internal/store"
)

// expandUser resolves a leading ~ against the current user's home.
func expandUser(path string) string {
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// parseCSV splits a comma-separated flag value into trimmed non-empty
// fields.
func parseCSV(value string) []string {
	var fields []string
	for _, field := range strings.Split(value, ",") {
		field = strings.TrimSpace(field)
		if field != "" {
			fields = append(fields, field)
		}
	}
	return fields
}

// parseComponents turns a comma-separated component list into a set,
// rejecting tags the component table does not know about.
func parseComponents(value string) (map[string]bool, error) {
	set := make(map[string]bool)
	var unknown []string
	for _, name := range parseCSV(value) {
		if !collect.IsKnownComponent(name) {
			unknown = append(unknown, name)
			continue
		}
		set[name] = true
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown components: %s (valid: %s)",
			strings.Join(unknown, ", "), strings.Join(collect.KnownComponents(), ", "))
	}
	return set, nil
}

// confirm asks a yes/no question on stdin and defaults to no.
func confirm(question string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	reply, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	reply = strings.ToLower(strings.TrimSpace(reply))
	return reply == "y" || reply == "yes"
}

// resolveRestoreArchive picks the archive to read: an explicit path, a
// registered template, or a profile/version lookup in the store.
func resolveRestoreArchive(archive, template, profile, version string) (string, error) {
	if archive != "" {
		return expandUser(archive), nil
	}
	if template != "" {
		registry, err := store.NewTemplateRegistry(templateDir())
		if err != nil {
			return "", err
		}
		path := registry.PathFor(template)
		if path == "" {
			return "", fmt.Errorf("template not found: %s", template)
		}
		return path, nil
	}
	name := "default"
	if profile != "" {
		name = store.SanitizeName(profile)
	}
	found, err := store.New(storeDir()).Find(name, version)
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("no backup found for profile %q (version: %s)",
			name, versionOrLatest(version))
	}
	return found, nil
}

func versionOrLatest(version string) string {
	if version == "" {
		return "latest"
	}
	return version
}
