package request

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/reviewbridge/reviewbridge/editor"
	"github.com/reviewbridge/reviewbridge/git"
)

// stubRunner scripts git output per full command line.
type stubRunner struct {
	outputs map[string]string
	errs    map[string]error
}

func (s *stubRunner) Run(name string, args ...string) (string, error) {
	key := name + " " + strings.Join(args, " ")
	if err, ok := s.errs[key]; ok {
		return "", err
	}
	if out, ok := s.outputs[key]; ok {
		return out, nil
	}
	return "", fmt.Errorf("unexpected command: %s", key)
}

// stubHost answers the one input box and active-file lookup builders need.
type stubHost struct {
	inputValue string
	inputErr   error
	file       editor.File
	fileErr    error
	infos      []string
}

var _ editor.Host = (*stubHost)(nil)

func (s *stubHost) ExecuteCommand(id string, args ...interface{}) error { return nil }
func (s *stubHost) ShowInputBox(box editor.InputBox) (string, error)    { return s.inputValue, s.inputErr }
func (s *stubHost) ActiveFile() (editor.File, error)                    { return s.file, s.fileErr }
func (s *stubHost) OpenDocument(path string) error                      { return nil }
func (s *stubHost) CloseDocument(path string) error                     { return nil }
func (s *stubHost) ShowInfo(message string)                             { s.infos = append(s.infos, message) }
func (s *stubHost) ShowError(message string)                            {}
func (s *stubHost) AppendOutput(line string)                            {}
func (s *stubHost) RevealOutput()                                       {}
func (s *stubHost) WriteClipboard(text string) error                    { return nil }

func TestChanges(t *testing.T) {
	runner := &stubRunner{
		outputs: map[string]string{
			"git rev-parse HEAD":                             "abc1234",
			"git rev-parse --abbrev-ref HEAD":                "feature/cache",
			"git rev-parse --abbrev-ref feature/cache@{upstream}": "origin/feature/cache",
		},
	}
	host := &stubHost{inputValue: "move session lookups onto the cache"}

	doc, err := Changes(git.NewClient(runner), host, "auto")
	if err != nil {
		t.Fatalf("Changes failed: %v", err)
	}

	if doc.Title != "All changes on feature/cache" {
		t.Errorf("Unexpected title %q", doc.Title)
	}
	for _, want := range []string{"origin/feature/cache", "abc1234", "move session lookups onto the cache"} {
		if !strings.Contains(doc.Body, want) {
			t.Errorf("Body missing %q:\n%s", want, doc.Body)
		}
	}
	if strings.Contains(doc.Body, "base equals") {
		t.Error("Self-compare note must not appear when an upstream exists")
	}
	if doc.ID == "" {
		t.Error("Document should carry a request ID")
	}
}

func TestChangesCancelled(t *testing.T) {
	runner := &stubRunner{
		outputs: map[string]string{
			"git rev-parse HEAD":                        "abc1234",
			"git rev-parse --abbrev-ref HEAD":           "main",
			"git rev-parse --abbrev-ref main@{upstream}": "origin/main",
		},
	}
	host := &stubHost{inputErr: editor.ErrCancelled}

	doc, err := Changes(git.NewClient(runner), host, "auto")
	if !errors.Is(err, editor.ErrCancelled) {
		t.Errorf("Expected ErrCancelled, got %v", err)
	}
	if doc != nil {
		t.Error("No document should exist after a cancelled prompt")
	}
}

func TestChangesSelfCompareNotice(t *testing.T) {
	// Fresh repository: no upstream, no previous commit. The base falls back
	// to HEAD itself and the document must say so.
	runner := &stubRunner{
		outputs: map[string]string{
			"git rev-parse HEAD":              "abc1234",
			"git rev-parse --abbrev-ref HEAD": "main",
		},
		errs: map[string]error{
			"git rev-parse --abbrev-ref main@{upstream}": errors.New("no upstream"),
			"git rev-parse HEAD~1":                       errors.New("no parent"),
		},
	}
	host := &stubHost{inputValue: "initial import"}

	doc, err := Changes(git.NewClient(runner), host, "auto")
	if err != nil {
		t.Fatalf("Changes failed: %v", err)
	}

	if !strings.Contains(doc.Body, "Base: `abc1234`") {
		t.Errorf("Base should fall back to HEAD:\n%s", doc.Body)
	}
	if !strings.Contains(doc.Body, "base equals") {
		t.Errorf("Self-compare note missing:\n%s", doc.Body)
	}
	if len(host.infos) != 1 {
		t.Errorf("Expected one self-compare notification, got %v", host.infos)
	}
}

func TestChangesGitFailure(t *testing.T) {
	runner := &stubRunner{
		errs: map[string]error{
			"git rev-parse HEAD": errors.New("fatal: not a git repository"),
		},
	}

	_, err := Changes(git.NewClient(runner), &stubHost{}, "auto")
	if err == nil || !strings.Contains(err.Error(), "not a git repository") {
		t.Errorf("Git failure should surface with its message, got %v", err)
	}
}

func TestActiveFile(t *testing.T) {
	host := &stubHost{file: editor.File{
		Path: "/ws/internal/cache/cache.go",
		Text: "package cache\n\nfunc New() {}\n",
	}}

	doc, err := ActiveFile(host)
	if err != nil {
		t.Fatalf("ActiveFile failed: %v", err)
	}

	if doc.Title != "Active file cache.go" {
		t.Errorf("Unexpected title %q", doc.Title)
	}
	for _, want := range []string{"/ws/internal/cache/cache.go", "func New() {}"} {
		if !strings.Contains(doc.Body, want) {
			t.Errorf("Body missing %q:\n%s", want, doc.Body)
		}
	}
}

func TestActiveFileNoEditor(t *testing.T) {
	host := &stubHost{fileErr: editor.ErrNoActiveFile}

	doc, err := ActiveFile(host)
	if !errors.Is(err, editor.ErrNoActiveFile) {
		t.Errorf("Expected ErrNoActiveFile, got %v", err)
	}
	if doc != nil {
		t.Error("No document should exist without an active editor")
	}
}

func TestActiveFileFencesEmbeddedBackticks(t *testing.T) {
	host := &stubHost{file: editor.File{
		Path: "/ws/README.md",
		Text: "```go\ncode\n```\n",
	}}

	doc, err := ActiveFile(host)
	if err != nil {
		t.Fatalf("ActiveFile failed: %v", err)
	}
	if !strings.Contains(doc.Body, "````") {
		t.Errorf("Fence should grow past embedded backticks:\n%s", doc.Body)
	}
}

func TestCommitRange(t *testing.T) {
	host := &stubHost{inputValue: " abc123..def456 "}

	doc, err := CommitRange(host)
	if err != nil {
		t.Fatalf("CommitRange failed: %v", err)
	}
	if !strings.Contains(doc.Body, "`abc123..def456`") {
		t.Errorf("Body should carry the literal trimmed range:\n%s", doc.Body)
	}
}

func TestCommitRangeCancelled(t *testing.T) {
	host := &stubHost{inputErr: editor.ErrCancelled}

	if _, err := CommitRange(host); !errors.Is(err, editor.ErrCancelled) {
		t.Errorf("Expected ErrCancelled, got %v", err)
	}
}

func TestCommitRangeEmptyInput(t *testing.T) {
	host := &stubHost{inputValue: "   "}

	if _, err := CommitRange(host); !errors.Is(err, editor.ErrCancelled) {
		t.Errorf("Blank input should abort like a dismissal, got %v", err)
	}
}

func TestCommitRangeOf(t *testing.T) {
	doc, err := CommitRangeOf("abc123")
	if err != nil {
		t.Fatalf("CommitRangeOf failed: %v", err)
	}
	if doc.Title != "Commits abc123" {
		t.Errorf("Unexpected title %q", doc.Title)
	}
	if _, err := CommitRangeOf(""); !errors.Is(err, editor.ErrCancelled) {
		t.Errorf("Empty value should abort, got %v", err)
	}
}

func TestStaged(t *testing.T) {
	runner := &stubRunner{
		outputs: map[string]string{
			"git rev-parse --is-inside-work-tree": "true",
			"git rev-parse --abbrev-ref HEAD":     "feature/auth",
		},
	}

	doc, err := Staged(git.NewClient(runner))
	if err != nil {
		t.Fatalf("Staged failed: %v", err)
	}
	for _, want := range []string{"feature/auth", "git diff --cached", "@{upstream}..HEAD"} {
		if !strings.Contains(doc.Body, want) {
			t.Errorf("Body missing %q:\n%s", want, doc.Body)
		}
	}
}

func TestStagedRequiresRepository(t *testing.T) {
	runner := &stubRunner{
		errs: map[string]error{
			"git rev-parse --is-inside-work-tree": errors.New("exit status 128"),
		},
	}

	_, err := Staged(git.NewClient(runner))
	if !errors.Is(err, git.ErrNotRepository) {
		t.Errorf("Expected ErrNotRepository, got %v", err)
	}
}
