package generation

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// statusReport is the optional JSON line a generator may print on stdout.
type statusReport struct {
	Output     string `json:"output"`
	Title      string `json:"title"`
	SlideCount int    `json:"slide_count"`
}

// parseStdout extracts the last JSON status line and every "<label>: <path>" candidate, newest line first.
func parseStdout(stdout string) (statusReport, []string) {
	var (
		report     statusReport
		candidates []string
	)
	lines := strings.Split(stdout, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "{") && strings.HasSuffix(line, "}") {
			if report == (statusReport{}) {
				var parsed statusReport
				if err := json.Unmarshal([]byte(line), &parsed); err == nil {
					report = parsed
				}
			}
			continue
		}
		if idx := strings.LastIndex(line, ": "); idx >= 0 {
			if candidate := strings.TrimSpace(line[idx+2:]); candidate != "" {
				candidates = append(candidates, candidate)
			}
		}
	}
	return report, candidates
}

// resolveArtifact finds the file produced by one invocation. Only files directly inside outputDir qualify, and the
// directory fallback only considers names carrying this invocation's own base name.
func resolveArtifact(outputDir, base, ext, requested, stdout string) (string, statusReport, bool) {
	root, err := filepath.Abs(outputDir)
	if err != nil {
		return "", statusReport{}, false
	}
	report, labeled := parseStdout(stdout)

	candidates := make([]string, 0, len(labeled)+2)
	if report.Output != "" {
		candidates = append(candidates, report.Output)
	}
	candidates = append(candidates, labeled...)
	candidates = append(candidates, requested)

	for _, candidate := range candidates {
		if path, ok := withinDir(root, candidate); ok && isRegularFile(path) {
			return path, report, true
		}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return "", report, false
	}
	var matches []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.Type().IsRegular() && strings.HasPrefix(name, base) && strings.HasSuffix(name, ext) {
			matches = append(matches, name)
		}
	}
	if len(matches) == 0 {
		return "", report, false
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	return filepath.Join(root, matches[0]), report, true
}

// withinDir accepts only direct children of root: the output route serves /output/<basename> and nothing deeper.
func withinDir(root, candidate string) (string, bool) {
	path, err := filepath.Abs(candidate)
	if err != nil {
		return "", false
	}
	if filepath.Dir(path) != root {
		return "", false
	}
	return path, true
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
