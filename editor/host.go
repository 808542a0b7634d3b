package editor

import "errors"

var (
	// ErrCancelled reports that the user dismissed an input prompt.
	ErrCancelled = errors.New("prompt cancelled")
	// ErrUnknownCommand reports that the host has no command with the
	// requested identifier.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrNoActiveFile reports that no editor tab is active.
	ErrNoActiveFile = errors.New("no active editor")
)

// InputBox describes a free-text question for the user.
type InputBox struct {
	Title       string
	Prompt      string
	Placeholder string
}

// File is the document currently active in the host editor.
type File struct {
	Path string
	Text string
}

// Host is the editor capability surface reviewbridge talks to. The bridge
// host forwards every call to the extension over stdio; the terminal host
// emulates what it can and fails the rest.
type Host interface {
	// ExecuteCommand invokes a host command by identifier.
	ExecuteCommand(id string, args ...interface{}) error

	// ShowInputBox asks the user for one line of text. Dismissing the box
	// returns ErrCancelled.
	ShowInputBox(box InputBox) (string, error)

	// ActiveFile returns the document active in the editor, or
	// ErrNoActiveFile.
	ActiveFile() (File, error)

	// OpenDocument opens the file at path in an editor tab.
	OpenDocument(path string) error

	// CloseDocument closes any tab showing the file at path.
	CloseDocument(path string) error

	// ShowInfo raises a user-facing notification.
	ShowInfo(message string)

	// ShowError raises a user-facing error notification.
	ShowError(message string)

	// AppendOutput writes one diagnostic line to the output channel.
	AppendOutput(line string)

	// RevealOutput brings the output channel into view.
	RevealOutput()

	// WriteClipboard replaces the clipboard contents.
	WriteClipboard(text string) error
}
