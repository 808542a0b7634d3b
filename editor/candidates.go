package editor

// Capability declares what a successful invocation of a candidate achieves.
type Capability int

const (
	// CapOpensPanel marks commands that only reveal or focus an AI panel.
	// Success is not delivery; the prober pauses and keeps going.
	CapOpensPanel Capability = iota
	// CapDeliversText marks commands that accept the prompt text itself.
	// Success ends the probe.
	CapDeliversText
)

// String returns the capability name used in the attempt log.
func (c Capability) String() string {
	if c == CapDeliversText {
		return "delivers-text"
	}
	return "opens-panel"
}

// Candidate is one host command the prober may try. Args renders the
// invocation arguments for a prompt; nil means the command takes none.
type Candidate struct {
	Command    string
	Capability Capability
	Args       func(prompt string) []interface{}
}

// DefaultCandidates returns the probe order, strongest claims first. No
// editor ships all of these; the prober treats "unknown command" like any
// other failed attempt and moves on.
func DefaultCandidates() []Candidate {
	withQuery := func(prompt string) []interface{} {
		return []interface{}{map[string]interface{}{"query": prompt}}
	}
	asText := func(prompt string) []interface{} {
		return []interface{}{prompt}
	}

	return []Candidate{
		// Direct text injection: the prompt lands in the chat input in one
		// call. quickchat.toggle takes a query despite its opener-sounding
		// name, which is why capability is declared and not inferred.
		{Command: "workbench.action.chat.open", Capability: CapDeliversText, Args: withQuery},
		{Command: "workbench.action.quickchat.toggle", Capability: CapDeliversText, Args: withQuery},
		{Command: "continue.sendMainUserInput", Capability: CapDeliversText, Args: asText},

		// Panel openers: they reveal or focus the chat surface but swallow
		// no text.
		{Command: "workbench.panel.chat.view.copilot.focus", Capability: CapOpensPanel},
		{Command: "workbench.action.chat.openInSidebar", Capability: CapOpensPanel},
		{Command: "aichat.newchataction", Capability: CapOpensPanel},

		// Parameterized openers: generic view plumbing pointed at the chat
		// container.
		{Command: "workbench.action.openView", Capability: CapOpensPanel, Args: func(string) []interface{} {
			return []interface{}{"workbench.panel.chat"}
		}},

		// Generic workbench actions: the auxiliary bar is where most
		// editors dock their chat view.
		{Command: "workbench.action.toggleAuxiliaryBar", Capability: CapOpensPanel},

		// Agent-specific variants.
		{Command: "composer.newAgentChat", Capability: CapOpensPanel},
		{Command: "cline.focusChatInput", Capability: CapOpensPanel},
		{Command: "windsurf.prioritized.chat.open", Capability: CapOpensPanel},
	}
}
