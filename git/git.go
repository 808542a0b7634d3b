package git

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// AutoBase asks ResolveBase to pick the diff base itself, starting from the
// remote-tracking branch.
const AutoBase = "auto"

// ErrNotRepository reports that the runner's directory is not inside a git
// work tree.
var ErrNotRepository = errors.New("not a git repository")

// Runner defines an interface for running git commands
type Runner interface {
	Run(name string, args ...string) (string, error)
}

// Ensure DefaultRunner implements Runner interface
var _ Runner = (*DefaultRunner)(nil)

// DefaultRunner implements the Runner interface using exec.Command
type DefaultRunner struct {
	RepoPath string
}

// NewDefaultRunner creates a new instance of DefaultRunner
func NewDefaultRunner(repoPath string) *DefaultRunner {
	return &DefaultRunner{
		RepoPath: repoPath,
	}
}

// Run executes a git command and returns its output
func (r *DefaultRunner) Run(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	if r.RepoPath != "" {
		cmd.Dir = r.RepoPath
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return "", fmt.Errorf("error running command: %s\nstderr: %s", err, stderr.String())
	}

	return strings.TrimSpace(stdout.String()), nil
}

// Client provides the read-only git introspection review requests need.
// Output is never parsed beyond whitespace trimming; a non-zero exit from
// a resolution command means the reference does not exist.
type Client struct {
	runner Runner
}

// NewClient creates a new Git client
func NewClient(runner Runner) *Client {
	return &Client{
		runner: runner,
	}
}

// IsRepository reports whether the runner's directory sits inside a work tree.
func (c *Client) IsRepository() bool {
	out, err := c.runner.Run("git", "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// TopLevel returns the root directory of the current work tree.
func (c *Client) TopLevel() (string, error) {
	out, err := c.runner.Run("git", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotRepository, err)
	}
	return out, nil
}

// Head returns the SHA of the current commit.
func (c *Client) Head() (string, error) {
	return c.runner.Run("git", "rev-parse", "HEAD")
}

// CurrentBranch returns the short name of the checked-out branch, or "HEAD"
// when detached.
func (c *Client) CurrentBranch() (string, error) {
	return c.runner.Run("git", "rev-parse", "--abbrev-ref", "HEAD")
}

// Upstream returns the remote-tracking branch of the given branch. The error
// is the runner's when no upstream is configured.
func (c *Client) Upstream(branch string) (string, error) {
	if branch == "" {
		return "", errors.New("branch cannot be empty")
	}
	return c.runner.Run("git", "rev-parse", "--abbrev-ref", branch+"@{upstream}")
}

// PreviousCommit returns the SHA of the commit before HEAD. The error is the
// runner's when HEAD has no parent.
func (c *Client) PreviousCommit() (string, error) {
	return c.runner.Run("git", "rev-parse", "HEAD~1")
}

// RefExists reports whether the reference resolves to a commit.
func (c *Client) RefExists(ref string) bool {
	if ref == "" {
		return false
	}
	_, err := c.runner.Run("git", "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	return err == nil
}

// Base is a resolved diff base. SelfCompare is set when the fallback chain
// bottomed out at HEAD itself, which makes the eventual diff empty.
type Base struct {
	Ref         string
	SelfCompare bool
}

// ResolveBase picks the reference a review compares against. AutoBase (or an
// empty value) tries the remote-tracking branch of the current branch; an
// explicit reference is used when it resolves. Either way the chain then
// falls back to the previous commit and finally to HEAD itself.
func (c *Client) ResolveBase(configured string) (Base, error) {
	if configured == "" || configured == AutoBase {
		if branch, err := c.CurrentBranch(); err == nil {
			if upstream, err := c.Upstream(branch); err == nil {
				return Base{Ref: upstream}, nil
			}
		}
	} else if c.RefExists(configured) {
		return Base{Ref: configured}, nil
	}

	if prev, err := c.PreviousCommit(); err == nil {
		return Base{Ref: prev}, nil
	}

	head, err := c.Head()
	if err != nil {
		return Base{}, fmt.Errorf("error resolving fallback base: %w", err)
	}
	return Base{Ref: head, SelfCompare: true}, nil
}
