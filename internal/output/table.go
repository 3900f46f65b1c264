package output

import (
	"fmt"
	"sort"
	"strings"
)

// BackupRow is one line of the backup listing table.
type BackupRow struct {
	Profile  string
	Versions int
	Latest   string
}

// RenderBackupTable renders the profile listing for the list command.
func RenderBackupTable(rows []BackupRow) string {
	if len(rows) == 0 {
		return "No backups found.\n"
	}

	sorted := make([]BackupRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Profile < sorted[j].Profile
	})

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-24s %-10s %s\n", "Profile", "Versions", "Latest"))
	sb.WriteString(strings.Repeat("─", 72))
	sb.WriteString("\n")
	for _, row := range sorted {
		sb.WriteString(fmt.Sprintf("%-24s %-10d %s\n",
			truncate(row.Profile, 24), row.Versions, row.Latest))
	}
	return sb.String()
}

// RenderSizeReport renders a per-component size breakdown sorted by
// component name, with a total line.
func RenderSizeReport(sizes map[string]int64, pathCount int) string {
	var sb strings.Builder
	names := make([]string, 0, len(sizes))
	var total int64
	for name, size := range sizes {
		names = append(names, name)
		total += size
	}
	sort.Strings(names)
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("  - %s: %s\n", name, FormatSize(sizes[name])))
	}
	sb.WriteString(fmt.Sprintf("  Total: %s across %d paths\n", FormatSize(total), pathCount))
	return sb.String()
}

// truncate truncates a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
