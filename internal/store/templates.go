package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// TemplateRegistry is a flat directory of named archives that can seed a
// restore on a fresh machine.
type TemplateRegistry struct {
	Root string
}

// NewTemplateRegistry returns a registry rooted at the given directory,
// creating it if needed.
func NewTemplateRegistry(root string) (*TemplateRegistry, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create template directory: %w", err)
	}
	return &TemplateRegistry{Root: root}, nil
}

// Register copies an archive into the registry under the given name and
// returns the destination path.
func (r *TemplateRegistry) Register(name, archive string) (string, error) {
	dest := filepath.Join(r.Root, SanitizeName(name)+ExtGz)

	src, err := os.Open(archive)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create template: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("failed to copy archive: %w", err)
	}
	return dest, nil
}

// PathFor returns the registered archive path for a template name, or ""
// when no such template exists.
func (r *TemplateRegistry) PathFor(name string) string {
	dest := filepath.Join(r.Root, SanitizeName(name)+ExtGz)
	if _, err := os.Stat(dest); err != nil {
		return ""
	}
	return dest
}

// List returns registered template archive paths sorted by name.
func (r *TemplateRegistry) List() ([]string, error) {
	entries, err := os.ReadDir(r.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read template directory: %w", err)
	}
	var templates []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ExtGz) {
			templates = append(templates, filepath.Join(r.Root, e.Name()))
		}
	}
	sort.Strings(templates)
	return templates, nil
}

// TemplateName recovers the template name from a registered archive path.
func TemplateName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ExtGz)
}
