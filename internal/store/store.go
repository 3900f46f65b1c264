// Package store manages the on-disk backup store and template registry.
//
// The store is a directory keyed by sanitized profile name; each profile
// directory holds versioned archive files. Archives are append-only: once
// written they are never modified, only listed and read back.
package store

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Archive extensions in preference order. zstd wins when available.
const (
	ExtZst = ".tar.zst"
	ExtGz  = ".tar.gz"
)

// BackupStore is a directory of versioned backup archives grouped by
// profile. Concurrent invocations against the same profile are unsafe;
// there is no locking.
type BackupStore struct {
	Root string
}

// New returns a BackupStore rooted at the given directory.
func New(root string) *BackupStore {
	return &BackupStore{Root: root}
}

// SanitizeName strips a profile or version name down to alphanumerics,
// hyphens and underscores. An empty result becomes "default".
func SanitizeName(value string) string {
	var sb strings.Builder
	for _, ch := range value {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			sb.WriteRune(ch)
		case ch == '-' || ch == '_':
			sb.WriteRune(ch)
		}
	}
	if sb.Len() == 0 {
		return "default"
	}
	return sb.String()
}

// PreferredExt returns the archive extension to use for new backups:
// .tar.zst when the zstd binary is present, .tar.gz otherwise.
func PreferredExt() string {
	if _, err := exec.LookPath("zstd"); err == nil {
		return ExtZst
	}
	return ExtGz
}

// BuildPath returns the destination path for a new archive and creates
// the profile directory. An empty versionName yields a timestamp version.
func (s *BackupStore) BuildPath(profile, versionName string) (string, error) {
	profileClean := SanitizeName(profile)
	version := time.Now().Format("20060102-150405")
	if versionName != "" {
		version = SanitizeName(versionName)
	}
	path := filepath.Join(s.Root, profileClean, version+PreferredExt())
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create store directory: %w", err)
	}
	return path, nil
}

// List enumerates profile directories and their archives, sorted by
// filename within each profile. Profiles with no archives are omitted.
func (s *BackupStore) List() (map[string][]string, error) {
	results := make(map[string][]string)
	dirs, err := os.ReadDir(s.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return results, nil
		}
		return nil, fmt.Errorf("failed to read store root: %w", err)
	}
	for _, dir := range dirs {
		if !dir.IsDir() {
			continue
		}
		profileDir := filepath.Join(s.Root, dir.Name())
		entries, err := os.ReadDir(profileDir)
		if err != nil {
			continue
		}
		var versions []string
		for _, e := range entries {
			name := e.Name()
			if strings.HasSuffix(name, ExtGz) || strings.HasSuffix(name, ExtZst) {
				versions = append(versions, filepath.Join(profileDir, name))
			}
		}
		sort.Strings(versions)
		if len(versions) > 0 {
			results[dir.Name()] = versions
		}
	}
	return results, nil
}

// Latest returns the newest archive for a profile, or "" when none exist.
func (s *BackupStore) Latest(profile string) (string, error) {
	backups, err := s.List()
	if err != nil {
		return "", err
	}
	versions := backups[SanitizeName(profile)]
	if len(versions) == 0 {
		return "", nil
	}
	return versions[len(versions)-1], nil
}

// Find resolves a profile plus version/tag to an archive path. The version
// may be empty or "latest" (newest archive), a version tag, or a full
// archive filename. Returns "" when nothing matches.
func (s *BackupStore) Find(profile, version string) (string, error) {
	profileClean := SanitizeName(profile)
	if version == "" || version == "latest" {
		return s.Latest(profileClean)
	}

	var candidates []string
	if strings.HasSuffix(version, ExtGz) || strings.HasSuffix(version, ExtZst) {
		candidates = append(candidates, filepath.Join(s.Root, profileClean, version))
	}
	vClean := SanitizeName(version)
	candidates = append(candidates,
		filepath.Join(s.Root, profileClean, vClean+ExtZst),
		filepath.Join(s.Root, profileClean, vClean+ExtGz),
	)
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", nil
}

// VersionFromFilename strips the archive extension from a path to recover
// its version tag.
func VersionFromFilename(path string) string {
	name := filepath.Base(path)
	if strings.HasSuffix(name, ExtGz) {
		return strings.TrimSuffix(name, ExtGz)
	}
	if strings.HasSuffix(name, ExtZst) {
		return strings.TrimSuffix(name, ExtZst)
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}
