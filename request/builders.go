package request

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/reviewbridge/reviewbridge/editor"
	"github.com/reviewbridge/reviewbridge/git"
)

// Changes builds a full-diff request: everything between the resolved base
// reference and HEAD on the current branch. The user is asked for a one-line
// description of the change; dismissing the prompt aborts with
// editor.ErrCancelled and no document.
func Changes(client *git.Client, host editor.Host, baseBranch string) (*Document, error) {
	head, err := client.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}
	branch, err := client.CurrentBranch()
	if err != nil {
		return nil, fmt.Errorf("resolving current branch: %w", err)
	}
	base, err := client.ResolveBase(baseBranch)
	if err != nil {
		return nil, err
	}

	description, err := host.ShowInputBox(editor.InputBox{
		Title:       "Describe the change",
		Prompt:      "One or two sentences on what this change is meant to do",
		Placeholder: "e.g. move session lookups onto the new cache",
	})
	if err != nil {
		return nil, err
	}

	body := `Review all changes on branch ` + "`" + branch + "`" + `.

- Base: ` + "`" + base.Ref + "`" + `
- Head: ` + "`" + head + "`" + `

Author's intent: ` + strings.TrimSpace(description) + `

Gather the diff yourself, for example ` + "`git diff " + base.Ref + "..." + head + "`" + `.
`
	if base.SelfCompare {
		host.ShowInfo("No upstream or previous commit found; the diff base is HEAD itself.")
		body += `
Note: this branch has no upstream and no previous commit, so the base equals
HEAD and a ref-to-ref diff comes back empty. Review the work tree contents
instead.
`
	}

	return newDocument(fmt.Sprintf("All changes on %s", branch), body), nil
}

// ActiveFile builds a request around the document currently open in the
// editor. No git repository is required; the file text is embedded as it
// stands, saved or not.
func ActiveFile(host editor.Host) (*Document, error) {
	file, err := host.ActiveFile()
	if err != nil {
		return nil, err
	}

	name := filepath.Base(file.Path)
	fence := fenceFor(file.Text)
	body := `Review the file ` + "`" + file.Path + "`" + ` in its current editor state.

Contents of ` + name + `:

` + fence + `
` + strings.TrimRight(file.Text, "\n") + `
` + fence + `
`

	return newDocument(fmt.Sprintf("Active file %s", name), body), nil
}

// CommitRange builds a request for a commit SHA or range entered by the
// user. Cancelling the input box aborts with editor.ErrCancelled.
func CommitRange(host editor.Host) (*Document, error) {
	entered, err := host.ShowInputBox(editor.InputBox{
		Title:       "Commit or range",
		Prompt:      "A commit SHA, or a range like abc123..def456",
		Placeholder: "HEAD~3..HEAD",
	})
	if err != nil {
		return nil, err
	}
	return CommitRangeOf(entered)
}

// CommitRangeOf builds the commit request from an already-entered value. The
// text is carried literally; interpreting it is the reviewer's job. An empty
// value aborts with editor.ErrCancelled.
func CommitRangeOf(entered string) (*Document, error) {
	commitRange := strings.TrimSpace(entered)
	if commitRange == "" {
		return nil, editor.ErrCancelled
	}

	body := `Review the commits ` + "`" + commitRange + "`" + `.

The range is given exactly as entered. Interpret it with git yourself:
` + "`git show`" + ` for a single commit, ` + "`git diff`" + ` for a range.
`

	return newDocument(fmt.Sprintf("Commits %s", commitRange), body), nil
}

// Staged builds a request covering the staged index and any commits not yet
// pushed. It requires a repository but computes nothing itself; the reviewer
// inspects both.
func Staged(client *git.Client) (*Document, error) {
	if !client.IsRepository() {
		return nil, git.ErrNotRepository
	}
	branch, err := client.CurrentBranch()
	if err != nil {
		return nil, fmt.Errorf("resolving current branch: %w", err)
	}

	body := `Review the staged and unpushed work on branch ` + "`" + branch + "`" + `.

Inspect both yourself:

- Staged changes: ` + "`git diff --cached`" + `
- Unpushed commits: ` + "`git log @{upstream}..HEAD -p`" + ` (skip when no upstream exists)
`

	return newDocument(fmt.Sprintf("Staged and unpushed on %s", branch), body), nil
}

// fenceFor returns a code fence long enough to wrap text that may itself
// contain backtick fences.
func fenceFor(text string) string {
	fence := "```"
	for strings.Contains(text, fence) {
		fence += "`"
	}
	return fence
}
