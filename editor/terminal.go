package editor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/huh"
	"github.com/reviewbridge/reviewbridge/logger"
)

// Ensure TerminalHost implements Host interface
var _ Host = (*TerminalHost)(nil)

// TerminalHost emulates the editor surface for direct CLI runs. There is no
// command registry and no tabs: ExecuteCommand always fails so the prober
// falls through to the clipboard, documents are announced by path, and input
// boxes become interactive prompts.
type TerminalHost struct {
	// ActiveFilePath stands in for the currently focused editor tab;
	// "review file" sets it from its positional argument.
	ActiveFilePath string

	out    io.Writer
	errOut io.Writer
}

// NewTerminalHost creates a host wired to the process's stdout and stderr.
func NewTerminalHost() *TerminalHost {
	return &TerminalHost{
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

// ExecuteCommand always fails: a terminal has no command registry.
func (h *TerminalHost) ExecuteCommand(id string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUnknownCommand, id)
}

// ShowInputBox prompts interactively for one line of text.
func (h *TerminalHost) ShowInputBox(box InputBox) (string, error) {
	var value string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(box.Title).
			Description(box.Prompt).
			Placeholder(box.Placeholder).
			Value(&value),
	))

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return value, nil
}

// ActiveFile reads the file standing in for the active editor tab.
func (h *TerminalHost) ActiveFile() (File, error) {
	if h.ActiveFilePath == "" {
		return File{}, ErrNoActiveFile
	}

	data, err := os.ReadFile(h.ActiveFilePath)
	if err != nil {
		return File{}, fmt.Errorf("reading %s: %w", h.ActiveFilePath, err)
	}

	path := h.ActiveFilePath
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return File{Path: path, Text: string(data)}, nil
}

// OpenDocument cannot open a tab; it tells the user where the file is.
func (h *TerminalHost) OpenDocument(path string) error {
	fmt.Fprintf(h.out, "Review request written to %s\n", path)
	return nil
}

// CloseDocument is a no-op; nothing was opened.
func (h *TerminalHost) CloseDocument(path string) error {
	return nil
}

// ShowInfo prints the notification to stdout.
func (h *TerminalHost) ShowInfo(message string) {
	fmt.Fprintln(h.out, message)
}

// ShowError prints the notification to stderr.
func (h *TerminalHost) ShowError(message string) {
	fmt.Fprintln(h.errOut, "Error:", message)
}

// AppendOutput routes diagnostic lines to the debug log; stderr already
// carries them when --log-level debug is set.
func (h *TerminalHost) AppendOutput(line string) {
	logger.Debug(line)
}

// RevealOutput is a no-op; the log is already on stderr.
func (h *TerminalHost) RevealOutput() {}

// WriteClipboard copies text to the system clipboard.
func (h *TerminalHost) WriteClipboard(text string) error {
	return clipboard.WriteAll(text)
}
