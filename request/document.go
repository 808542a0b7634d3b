package request

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/reviewbridge/reviewbridge/skills"
)

// FileName is the request document every review command writes at the
// workspace root. Concurrent invocations share it, last writer wins.
const FileName = "code-review-request.md"

// Document is one review request before rendering. The ID correlates the
// on-disk file, the delivery attempt log, and bridge traffic.
type Document struct {
	ID        string
	Title     string
	Body      string
	Workspace string
}

func newDocument(title, body string) *Document {
	return &Document{
		ID:    uuid.NewString(),
		Title: title,
		Body:  body,
	}
}

// Path returns where the rendered document lives on disk.
func (d *Document) Path() string {
	return filepath.Join(d.Workspace, FileName)
}

// RenderOptions parameterize the reference block appended to every request:
// where the skill files live and which filters the reviewer must apply.
type RenderOptions struct {
	SkillDir   string
	RulesPath  string
	FocusAreas []string
	Severity   string
}

// Render emits the final markdown: a header comment carrying the request ID,
// the body, then the reference block pointing the reviewer at the skill
// files, optional team rules, focus areas, and the severity floor.
func (d *Document) Render(opts RenderOptions) string {
	doc := `<!-- reviewbridge:request ` + d.ID + ` -->

# Code review request: ` + d.Title + `

` + strings.TrimSpace(d.Body) + `

## How to review

- Follow the instructions in ` + "`" + filepath.Join(opts.SkillDir, skills.SkillFileName) + "`" + `.
- Apply the checklist in ` + "`" + filepath.Join(opts.SkillDir, skills.GuideFileName) + "`" + `.
`
	if opts.RulesPath != "" {
		doc += "- Team rules: `" + opts.RulesPath + "` (they override the checklist where they conflict).\n"
	}

	doc += `
Focus areas: ` + strings.Join(opts.FocusAreas, ", ") + `.

Report findings of severity ` + "`" + opts.Severity + "`" + ` or higher; omit weaker ones.
`
	return doc
}

// Prompt is the line handed to the AI panel. The document carries the
// details, so the prompt stays short enough for any chat input.
func Prompt(path string) string {
	return fmt.Sprintf("Please perform the code review described in %s. Read that file first; it names what to review and links the review skill to follow.", path)
}
