package editor

import (
	"context"
	"fmt"
	"time"

	"github.com/reviewbridge/reviewbridge/logger"
)

// Outcome classifies one delivery attempt for the diagnostic log.
type Outcome string

const (
	// OutcomeDelivered means the command accepted the prompt text.
	OutcomeDelivered Outcome = "delivered"
	// OutcomeOpened means the command succeeded but only revealed a panel.
	OutcomeOpened Outcome = "opened"
	// OutcomeFailed means the command errored or does not exist.
	OutcomeFailed Outcome = "failed"
)

// Attempt records one candidate invocation. The ordered attempt slice is the
// delivery log shown on the host output channel; it is never persisted.
type Attempt struct {
	Command string
	Args    []interface{}
	Outcome Outcome
	Err     error
}

// String renders the attempt as one diagnostic log line.
func (a Attempt) String() string {
	if a.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", a.Command, a.Outcome, a.Err)
	}
	return fmt.Sprintf("%s: %s", a.Command, a.Outcome)
}

// OptionType defines the type of prober option
type OptionType string

// Available option types
const (
	OpenerWaitOption OptionType = "opener_wait"
	CandidatesOption OptionType = "candidates"
)

// Option represents a generic configuration option for the prober
type Option struct {
	Type  OptionType
	Value any
}

// WithOpenerWait creates an option to set the pause after an opener success
func WithOpenerWait(d time.Duration) Option {
	return Option{
		Type:  OpenerWaitOption,
		Value: d,
	}
}

// WithCandidates creates an option to replace the probed command list
func WithCandidates(candidates []Candidate) Option {
	return Option{
		Type:  CandidatesOption,
		Value: candidates,
	}
}

// Prober hands a prompt to the host's AI panel by trying candidates in
// order until one that delivers text succeeds. It never gives up without a
// trace: exhausting the list reveals the attempt log and falls back to the
// clipboard.
type Prober struct {
	host       Host
	candidates []Candidate
	openerWait time.Duration
}

// NewProber creates a prober over the default candidate list.
func NewProber(host Host, opts ...Option) *Prober {
	p := &Prober{
		host:       host,
		candidates: DefaultCandidates(),
		openerWait: 750 * time.Millisecond, // Default pause after an opener
	}

	// Apply options
	for _, opt := range opts {
		switch opt.Type {
		case OpenerWaitOption:
			if d, ok := opt.Value.(time.Duration); ok {
				p.openerWait = d
			}
		case CandidatesOption:
			if candidates, ok := opt.Value.([]Candidate); ok {
				p.candidates = candidates
			}
		}
	}

	return p
}

// Deliver walks the candidate list with the given prompt. It reports true
// when a text-delivering command succeeded, false when the list was
// exhausted with only opener successes or none; the returned attempts cover
// every candidate tried, in order.
//
// An opener success reveals the panel but carries no text, so the prober
// pauses briefly and continues with the next candidate. On overall failure
// the prompt is copied to the clipboard exactly once and the user is told to
// paste it manually.
func (p *Prober) Deliver(ctx context.Context, prompt string) (bool, []Attempt) {
	attempts := make([]Attempt, 0, len(p.candidates))

	for _, candidate := range p.candidates {
		var args []interface{}
		if candidate.Args != nil {
			args = candidate.Args(prompt)
		}

		attempt := Attempt{Command: candidate.Command, Args: args}
		err := p.host.ExecuteCommand(candidate.Command, args...)
		switch {
		case err != nil:
			attempt.Outcome = OutcomeFailed
			attempt.Err = err
		case candidate.Capability == CapOpensPanel:
			attempt.Outcome = OutcomeOpened
		default:
			attempt.Outcome = OutcomeDelivered
		}

		attempts = append(attempts, attempt)
		p.host.AppendOutput(attempt.String())
		logger.Debugf("Delivery attempt %d/%d: %s", len(attempts), len(p.candidates), attempt)

		switch attempt.Outcome {
		case OutcomeDelivered:
			p.host.ShowInfo("Review request submitted to the AI panel. The request document will be removed automatically.")
			return true, attempts
		case OutcomeOpened:
			// The panel is up but empty; give the host a beat before the
			// next candidate tries to reach it.
			p.pause(ctx)
		}
	}

	p.host.RevealOutput()
	if err := p.host.WriteClipboard(prompt); err != nil {
		logger.Errorf("Clipboard fallback failed: %v", err)
		p.host.ShowError("Could not hand the review request to an AI panel. Copy the request document contents into the chat manually.")
	} else {
		p.host.ShowError("Could not hand the review request to an AI panel. The prompt is on the clipboard; paste it into the chat manually.")
	}
	return false, attempts
}

func (p *Prober) pause(ctx context.Context) {
	if p.openerWait <= 0 {
		return
	}
	timer := time.NewTimer(p.openerWait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
