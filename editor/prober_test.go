package editor

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeHost scripts the editor surface for prober tests. Failing commands
// are listed in commandErrs; everything invoked, shown, and copied is
// recorded.
type fakeHost struct {
	commandErrs  map[string]error
	clipboardErr error

	executed  []string
	lastArgs  map[string][]interface{}
	output    []string
	infos     []string
	errs      []string
	clipboard []string
	revealed  int
}

var _ Host = (*fakeHost)(nil)

func (f *fakeHost) ExecuteCommand(id string, args ...interface{}) error {
	f.executed = append(f.executed, id)
	if f.lastArgs == nil {
		f.lastArgs = make(map[string][]interface{})
	}
	f.lastArgs[id] = args
	if err, ok := f.commandErrs[id]; ok {
		return err
	}
	return nil
}

func (f *fakeHost) ShowInputBox(box InputBox) (string, error) { return "", ErrCancelled }
func (f *fakeHost) ActiveFile() (File, error)                 { return File{}, ErrNoActiveFile }
func (f *fakeHost) OpenDocument(path string) error            { return nil }
func (f *fakeHost) CloseDocument(path string) error           { return nil }
func (f *fakeHost) ShowInfo(message string)                   { f.infos = append(f.infos, message) }
func (f *fakeHost) ShowError(message string)                  { f.errs = append(f.errs, message) }
func (f *fakeHost) AppendOutput(line string)                  { f.output = append(f.output, line) }
func (f *fakeHost) RevealOutput()                             { f.revealed++ }

func (f *fakeHost) WriteClipboard(text string) error {
	f.clipboard = append(f.clipboard, text)
	return f.clipboardErr
}

func testCandidates() []Candidate {
	return []Candidate{
		{Command: "panel.focus", Capability: CapOpensPanel},
		{Command: "chat.send", Capability: CapDeliversText, Args: func(p string) []interface{} {
			return []interface{}{p}
		}},
		{Command: "chat.sendAlt", Capability: CapDeliversText},
	}
}

func TestDeliverStopsAtFirstTextDelivery(t *testing.T) {
	host := &fakeHost{}
	prober := NewProber(host, WithCandidates(testCandidates()), WithOpenerWait(time.Millisecond))

	delivered, attempts := prober.Deliver(context.Background(), "review the diff")

	if !delivered {
		t.Fatal("Expected delivery to succeed")
	}
	if len(attempts) != 2 {
		t.Fatalf("Expected 2 attempts (opener, then deliverer), got %d", len(attempts))
	}
	if attempts[0].Outcome != OutcomeOpened {
		t.Errorf("First attempt should be an opener success, got %s", attempts[0].Outcome)
	}
	if attempts[1].Outcome != OutcomeDelivered {
		t.Errorf("Second attempt should deliver, got %s", attempts[1].Outcome)
	}
	if len(host.executed) != 2 {
		t.Errorf("Remaining candidates must not run after delivery, executed: %v", host.executed)
	}
	if len(host.infos) != 1 {
		t.Errorf("Expected exactly one success notification, got %v", host.infos)
	}
	if len(host.clipboard) != 0 {
		t.Errorf("Clipboard fallback must not run on success, got %v", host.clipboard)
	}
}

func TestDeliverLogsOutcomeForEveryAttempt(t *testing.T) {
	host := &fakeHost{commandErrs: map[string]error{
		"panel.focus": errors.New("no panel"),
	}}
	prober := NewProber(host, WithCandidates(testCandidates()), WithOpenerWait(0))

	_, attempts := prober.Deliver(context.Background(), "prompt")

	for i, attempt := range attempts {
		if attempt.Outcome == "" {
			t.Errorf("Attempt %d (%s) has no outcome", i, attempt.Command)
		}
	}
	if len(host.output) != len(attempts) {
		t.Errorf("Every attempt should land on the output channel: %d attempts, %d lines",
			len(attempts), len(host.output))
	}
}

func TestDeliverOpenerOnlySuccessIsFailure(t *testing.T) {
	host := &fakeHost{commandErrs: map[string]error{
		"chat.send":    errors.New("unknown command"),
		"chat.sendAlt": errors.New("unknown command"),
	}}
	prober := NewProber(host, WithCandidates(testCandidates()), WithOpenerWait(0))

	delivered, attempts := prober.Deliver(context.Background(), "paste me")

	if delivered {
		t.Fatal("Opener-only successes must not count as delivery")
	}
	if len(attempts) != 3 {
		t.Fatalf("Expected the whole list to be probed, got %d attempts", len(attempts))
	}
	if len(host.clipboard) != 1 {
		t.Fatalf("Prompt should be copied to the clipboard exactly once, got %d copies", len(host.clipboard))
	}
	if host.clipboard[0] != "paste me" {
		t.Errorf("Clipboard should hold the prompt, got %q", host.clipboard[0])
	}
	if host.revealed != 1 {
		t.Errorf("Attempt log should be revealed once on failure, got %d", host.revealed)
	}
	if len(host.errs) != 1 {
		t.Errorf("Expected one paste-manually notification, got %v", host.errs)
	}
}

func TestDeliverContinuesPastFailures(t *testing.T) {
	host := &fakeHost{commandErrs: map[string]error{
		"panel.focus": ErrUnknownCommand,
		"chat.send":   errors.New("panel rejected input"),
	}}
	prober := NewProber(host, WithCandidates(testCandidates()), WithOpenerWait(0))

	delivered, attempts := prober.Deliver(context.Background(), "prompt")

	if !delivered {
		t.Fatal("Later candidate should still deliver after earlier failures")
	}
	if len(attempts) != 3 {
		t.Fatalf("Expected 3 attempts, got %d", len(attempts))
	}
	if attempts[0].Outcome != OutcomeFailed || attempts[0].Err == nil {
		t.Errorf("Failed attempt should record its error, got %+v", attempts[0])
	}
	if attempts[2].Outcome != OutcomeDelivered {
		t.Errorf("Final attempt should deliver, got %s", attempts[2].Outcome)
	}
}

func TestDeliverPassesPromptToCandidateArgs(t *testing.T) {
	host := &fakeHost{}
	candidates := []Candidate{
		{Command: "chat.send", Capability: CapDeliversText, Args: func(p string) []interface{} {
			return []interface{}{p}
		}},
	}
	prober := NewProber(host, WithCandidates(candidates))

	prober.Deliver(context.Background(), "the prompt text")

	args := host.lastArgs["chat.send"]
	if len(args) != 1 || args[0] != "the prompt text" {
		t.Errorf("Candidate args should carry the prompt, got %v", args)
	}
}

func TestDeliverClipboardFailureStillNotifies(t *testing.T) {
	host := &fakeHost{
		commandErrs:  map[string]error{"panel.focus": errors.New("nope")},
		clipboardErr: errors.New("no clipboard"),
	}
	prober := NewProber(host, WithCandidates([]Candidate{
		{Command: "panel.focus", Capability: CapOpensPanel},
	}), WithOpenerWait(0))

	delivered, _ := prober.Deliver(context.Background(), "prompt")

	if delivered {
		t.Fatal("Expected failure")
	}
	if len(host.errs) != 1 {
		t.Errorf("User should still be notified when the clipboard fails, got %v", host.errs)
	}
}
