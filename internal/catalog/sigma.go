package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	sigma "github.com/bradleyjkemp/sigma-go"
)

var techniqueTagRegex = regexp.MustCompile(`^attack\.t\d{4}(?:\.\d{3})?$`)

// SigmaLoadStats tracks the number of loaded and skipped rules.
type SigmaLoadStats struct {
	TotalFiles      int
	Loaded          int
	SkippedUntagged int
	SkippedInvalid  int
}

// LoadSigma reads Sigma rules from a file or directory and adds the title and
// level of every rule tagged with an ATT&CK technique. Techniques already in
// the catalog keep their existing fields.
func (c *Catalog) LoadSigma(path string) (SigmaLoadStats, error) {
	var stats SigmaLoadStats

	resolved, err := filepath.Abs(path)
	if err != nil {
		return stats, fmt.Errorf("resolve rule path: %w", err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return stats, fmt.Errorf("stat rule path: %w", err)
	}

	files := make([]string, 0, 64)
	if info.IsDir() {
		err = filepath.WalkDir(resolved, func(filePath string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if !entry.IsDir() && isYAMLFile(filePath) {
				files = append(files, filePath)
			}
			return nil
		})
		if err != nil {
			return stats, fmt.Errorf("walk rule directory: %w", err)
		}
	} else {
		if !isYAMLFile(resolved) {
			return stats, fmt.Errorf("rule file must end with .yml or .yaml: %s", resolved)
		}
		files = append(files, resolved)
	}

	stats.TotalFiles = len(files)
	for _, ruleFile := range files {
		rule, err := parseSigmaRuleFile(ruleFile)
		if err != nil {
			stats.SkippedInvalid++
			continue
		}
		techniques := parseTechniqueTags(rule.Tags)
		if len(techniques) == 0 {
			stats.SkippedUntagged++
			continue
		}
		entry := Entry{
			Label:    strings.TrimSpace(rule.Title),
			Severity: severityFromLevel(rule.Level),
		}
		for _, id := range techniques {
			c.merge(id, entry)
		}
		stats.Loaded++
	}
	return stats, nil
}

func parseSigmaRuleFile(path string) (sigma.Rule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return sigma.Rule{}, fmt.Errorf("read sigma rule %s: %w", path, err)
	}
	rule, err := sigma.ParseRule(raw)
	if err != nil {
		return sigma.Rule{}, fmt.Errorf("parse sigma rule %s: %w", path, err)
	}
	return rule, nil
}

func isYAMLFile(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".yml") || strings.HasSuffix(lower, ".yaml")
}

// parseTechniqueTags turns attack.t1059.001 into T1059.001.
func parseTechniqueTags(tags []string) []string {
	var out []string
	for _, raw := range tags {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if !techniqueTagRegex.MatchString(tag) {
			continue
		}
		out = append(out, strings.ToUpper(strings.TrimPrefix(tag, "attack.")))
	}
	return out
}

func severityFromLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	switch level {
	case "":
		return ""
	case "informational":
		return "INFO"
	default:
		return strings.ToUpper(level)
	}
}
