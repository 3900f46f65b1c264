package pkgmgr

import "strings"

// ParseSearchOutput extracts candidate package names from a manager's
// search output. Zypper's table format is not parsed; its searches
// return no candidates.
func ParseSearchOutput(m Manager, output string) []string {
	switch m {
	case Apt:
		return parseAptSearch(output)
	case Pacman:
		return parsePacmanSearch(output)
	case Dnf:
		return parseDnfSearch(output)
	}
	return nil
}

// apt-cache search --names-only: "name - description".
func parseAptSearch(output string) []string {
	var names []string
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 {
			names = append(names, fields[0])
		}
	}
	return names
}

// pacman -Ss: "repo/name version" header lines, indented description
// lines skipped.
func parsePacmanSearch(output string) []string {
	var names []string
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "/") {
			continue
		}
		rest := line[strings.Index(line, "/")+1:]
		fields := strings.Fields(rest)
		if len(fields) > 0 {
			names = append(names, fields[0])
		}
	}
	return names
}

// dnf search -q: "name.arch : summary"; the arch suffix is dropped.
func parseDnfSearch(output string) []string {
	var names []string
	for _, line := range strings.Split(output, "\n") {
		name, _, ok := strings.Cut(line, " : ")
		if !ok {
			continue
		}
		name = strings.TrimSpace(strings.SplitN(name, ".", 2)[0])
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}
