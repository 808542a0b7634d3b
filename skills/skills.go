package skills

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed bundle/*.md
var bundleFS embed.FS

const (
	// SkillFileName is the skill entry point with yaml frontmatter.
	SkillFileName = "SKILL.md"
	// GuideFileName is the style guide the skill refers to.
	GuideFileName = "code-review.md"
)

// BundledFiles lists the documents installed into every workspace, in
// install order.
var BundledFiles = []string{SkillFileName, GuideFileName}

// Skill is a bundled skill document with parsed frontmatter.
type Skill struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
	File        string `yaml:"-"`
	Body        string `yaml:"-"`
}

// Bundle returns the embedded skill documents rooted at the bundle
// directory, so callers address them by bare filename.
func Bundle() fs.FS {
	sub, err := fs.Sub(bundleFS, "bundle")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return sub
}

// Load parses every bundled document that carries yaml frontmatter and
// returns them sorted by name. Documents without frontmatter (companion
// guides) are skipped.
func Load() ([]Skill, error) {
	return LoadFrom(Bundle())
}

// LoadFrom parses skill documents from an arbitrary bundle file system.
func LoadFrom(bundle fs.FS) ([]Skill, error) {
	entries, err := fs.ReadDir(bundle, ".")
	if err != nil {
		return nil, fmt.Errorf("reading skill bundle: %w", err)
	}

	var out []Skill
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		data, err := fs.ReadFile(bundle, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading skill %s: %w", entry.Name(), err)
		}

		front, body, ok := splitFrontmatter(string(data))
		if !ok {
			continue
		}

		var skill Skill
		if err := yaml.Unmarshal([]byte(front), &skill); err != nil {
			return nil, fmt.Errorf("parsing frontmatter of %s: %w", entry.Name(), err)
		}

		skill.Name = strings.TrimSpace(skill.Name)
		skill.Description = strings.TrimSpace(skill.Description)
		if skill.Name == "" {
			return nil, fmt.Errorf("skill %s has no name in its frontmatter", entry.Name())
		}

		skill.File = entry.Name()
		skill.Body = body
		out = append(out, skill)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// splitFrontmatter separates a leading yaml frontmatter block from the
// markdown body. ok is false when the document has no frontmatter.
func splitFrontmatter(raw string) (front string, body string, ok bool) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	if !strings.HasPrefix(raw, "---\n") {
		return "", strings.TrimSpace(raw), false
	}

	lines := strings.Split(raw, "\n")
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end <= 0 {
		return "", strings.TrimSpace(raw), false
	}

	front = strings.Join(lines[1:end], "\n")
	if end+1 < len(lines) {
		body = strings.TrimSpace(strings.Join(lines[end+1:], "\n"))
	}
	return front, body, true
}
