package dialogue

import (
	"fmt"

	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/content"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/match"
)

// Mode is a named conversational flow within a persona (learn, quiz,
// order, status). Single-purpose personas have exactly one.
type Mode string

// Stage is a position in a mode's progression.
type Stage string

// FieldName names a slot a flow collects.
type FieldName string

// ValidateFunc checks and normalizes a raw slot value. The returned
// value is what gets stored; the error message is spoken back to the
// user before the prompt is repeated.
type ValidateFunc func(raw string) (any, error)

// RespondFunc produces the messages spoken after a content entry is
// resolved (the explanation in learn mode, the question in quiz mode).
type RespondFunc func(e content.Entry) []string

// BeginFunc produces extra messages when a mode is entered: reading a
// pending fraud case back, recalling yesterday's check-in. It may stash
// state in tc.Data for the mode's CompleteFunc.
type BeginFunc func(tc *TurnContext) []string

// CompleteFunc runs when a mode's slots are all filled. It performs the
// flow's side effect (record create/update) through tc.Records and
// returns the summary messages. Errors abort the turn without touching
// session state.
type CompleteFunc func(tc *TurnContext) ([]string, error)

// SlotSpec declares one field a mode collects, in order.
type SlotSpec struct {
	Name   FieldName
	Stage  Stage
	Prompt string

	// Validate, when set, gates the slot. Nil accepts any non-empty
	// utterance verbatim.
	Validate ValidateFunc

	// Ack, when set, is spoken after the slot fills, before the next
	// prompt.
	Ack func(value any) string

	// Repeat makes the slot accumulate values until a stop keyword
	// arrives ("checkout", "that's all").
	Repeat       bool
	StopKeywords []string
}

// LookupSpec declares a mode's content resolution step, which runs
// before any slots.
type LookupSpec struct {
	Stage   Stage
	Clarify string
	Respond RespondFunc
}

// ModeSpec is the declarative definition of one mode.
type ModeSpec struct {
	Name    Mode
	Welcome string

	// Voice is the TTS voice hint for the external speech pipeline,
	// carried opaquely in turn results.
	Voice string

	// Stages is the mode's ordered stage progression. The first entry
	// is the entry stage.
	Stages []Stage

	Lookup *LookupSpec
	Slots  []SlotSpec

	// Loop makes the mode return to its entry stage after completion
	// instead of reaching the flow's terminal stage.
	Loop bool

	Begin    BeginFunc
	Complete CompleteFunc
}

// Entry returns the mode's entry stage.
func (m *ModeSpec) Entry() Stage {
	return m.Stages[0]
}

// Flow is one persona's complete configuration: modes, keyword tables,
// slot schemas and prompt templates. Personas are data fed to one
// generic engine, not subclasses.
type Flow struct {
	Name    string
	Welcome string

	// DefaultMode, when set, is entered at session start. When empty
	// the user must pick a mode by keyword.
	DefaultMode      Mode
	ChooseModePrompt string

	// ModeKeywords maps utterance keywords to modes, in priority
	// order. Mode keywords win over slot answers even mid-flow.
	ModeKeywords []match.Keyword

	GoodbyeKeywords []string
	Goodbye         string

	// Fallback is the single generic utterance for unrecovered errors.
	Fallback string

	TerminalStage Stage

	// MaxRetries bounds re-prompting per stage before the fallback is
	// spoken. Zero means DefaultMaxRetries.
	MaxRetries int

	Modes []ModeSpec
}

// DefaultMaxRetries bounds per-stage re-prompting when a flow does not
// set its own limit.
const DefaultMaxRetries = 3

// Mode returns the ModeSpec for a name.
func (f *Flow) Mode(name Mode) (*ModeSpec, bool) {
	for i := range f.Modes {
		if f.Modes[i].Name == name {
			return &f.Modes[i], true
		}
	}
	return nil, false
}

func (f *Flow) maxRetries() int {
	if f.MaxRetries > 0 {
		return f.MaxRetries
	}
	return DefaultMaxRetries
}

// Validate checks the flow definition for internal consistency.
func (f *Flow) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("dialogue: flow has no name")
	}
	if len(f.Modes) == 0 {
		return fmt.Errorf("dialogue: flow %s has no modes", f.Name)
	}
	if f.TerminalStage == "" {
		return fmt.Errorf("dialogue: flow %s has no terminal stage", f.Name)
	}
	if f.DefaultMode != "" {
		if _, ok := f.Mode(f.DefaultMode); !ok {
			return fmt.Errorf("dialogue: flow %s default mode %q undeclared", f.Name, f.DefaultMode)
		}
	}
	if f.DefaultMode == "" && f.ChooseModePrompt == "" {
		return fmt.Errorf("dialogue: flow %s needs a choose-mode prompt", f.Name)
	}

	for i := range f.Modes {
		m := &f.Modes[i]
		if len(m.Stages) == 0 {
			return fmt.Errorf("dialogue: mode %s/%s has no stages", f.Name, m.Name)
		}
		if m.Lookup != nil && m.Lookup.Stage != m.Stages[0] {
			return fmt.Errorf("dialogue: mode %s/%s lookup stage must be the entry stage", f.Name, m.Name)
		}

		// Slot stages must appear in the declared stage order.
		stageIdx := make(map[Stage]int, len(m.Stages))
		for idx, st := range m.Stages {
			stageIdx[st] = idx
		}
		prev := -1
		for _, slot := range m.Slots {
			if slot.Name == "" {
				return fmt.Errorf("dialogue: mode %s/%s has an unnamed slot", f.Name, m.Name)
			}
			if slot.Prompt == "" {
				return fmt.Errorf("dialogue: slot %s/%s/%s has no prompt", f.Name, m.Name, slot.Name)
			}
			idx, ok := stageIdx[slot.Stage]
			if !ok {
				return fmt.Errorf("dialogue: slot %s/%s/%s stage %q not in stage order", f.Name, m.Name, slot.Name, slot.Stage)
			}
			if idx <= prev {
				return fmt.Errorf("dialogue: slot %s/%s/%s out of stage order", f.Name, m.Name, slot.Name)
			}
			prev = idx
			if slot.Repeat && len(slot.StopKeywords) == 0 {
				return fmt.Errorf("dialogue: repeating slot %s/%s/%s has no stop keywords", f.Name, m.Name, slot.Name)
			}
		}

		if len(m.Slots) > 0 && m.Complete == nil {
			return fmt.Errorf("dialogue: mode %s/%s collects slots but has no completion", f.Name, m.Name)
		}
	}
	return nil
}
