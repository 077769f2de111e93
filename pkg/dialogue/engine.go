// Package dialogue implements the turn-based slot-filling state machine
// shared by all agent personas: mode switching by keyword, ordered slot
// collection with re-prompting, content lookup, and durable record
// writes on completion.
package dialogue

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Harshal4257/ten-days-of-voice-agents-2025/internal/log"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/content"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/match"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/store"
)

// RecordStore is the persistence surface the engine and the flow hooks
// write through. *store.Registry satisfies it.
type RecordStore interface {
	Create(kind string, fields map[string]any) (*store.Record, error)
	Find(kind string, pred func(*store.Record) bool) (*store.Record, bool)
	Update(kind, id string, mutate func(*store.Record) error) error
	List(kind string) []*store.Record
}

// TurnContext is what flow hooks (Begin, Respond, Complete) see of the
// current turn.
type TurnContext struct {
	SessionID string
	Records   RecordStore
	Content   *content.Store

	// Subject is the resolved content entry, zero-valued when none.
	Subject content.Entry

	// Slots are the values collected so far in the active mode.
	Slots map[FieldName]any

	// Data is the session's cross-turn scratch state.
	Data map[string]string
}

// Slot returns a collected slot value as a string.
func (tc *TurnContext) Slot(name FieldName) string {
	s, _ := tc.Slots[name].(string)
	return s
}

// SlotList returns a collected repeating-slot value.
func (tc *TurnContext) SlotList(name FieldName) []string {
	l, _ := tc.Slots[name].([]string)
	return l
}

// Result is the outcome of one turn.
type Result struct {
	// Messages are spoken/displayed in order.
	Messages []string

	// Voice is a TTS voice hint for the external speech pipeline,
	// "" meaning unchanged.
	Voice string

	// Terminal reports that the session ended this turn.
	Terminal bool

	// RetriesExhausted reports that the current stage hit its retry
	// bound this turn, for the host to act on.
	RetriesExhausted bool
}

// Engine interprets one Flow over per-session state. It is stateless
// between calls; all conversation state lives in the Session.
type Engine struct {
	flow    *Flow
	content *content.Store
	records RecordStore
}

// New builds an engine for a validated flow. The content store handle
// is shared immutably across every session.
func New(flow *Flow, cs *content.Store, rs RecordStore) (*Engine, error) {
	if err := flow.Validate(); err != nil {
		return nil, err
	}
	if cs == nil {
		cs = content.New(nil)
	}
	return &Engine{flow: flow, content: cs, records: rs}, nil
}

// Flow returns the engine's flow definition.
func (e *Engine) Flow() *Flow {
	return e.flow
}

// NewSession creates a session positioned before any mode.
func (e *Engine) NewSession(id string) *Session {
	return NewSession(id)
}

// Start produces the flow's welcome messages and, for single-purpose
// flows, enters the default mode.
func (e *Engine) Start(s *Session) (Result, error) {
	if s.Ended {
		return Result{}, ErrSessionEnded
	}

	next := s.clone()
	res := Result{}
	if e.flow.Welcome != "" {
		res.Messages = append(res.Messages, e.flow.Welcome)
	}

	if e.flow.DefaultMode != "" {
		m, ok := e.flow.Mode(e.flow.DefaultMode)
		if !ok {
			return Result{}, fmt.Errorf("%w: %s", ErrUnknownMode, e.flow.DefaultMode)
		}
		e.enterMode(next, m, &res)
	}

	*s = *next
	return res, nil
}

// Advance consumes one user utterance and applies exactly one turn.
// Session state mutates only on success: a returned error leaves the
// session exactly as it was.
func (e *Engine) Advance(s *Session, utterance string) (Result, error) {
	if s.Ended {
		return Result{}, ErrSessionEnded
	}

	next := s.clone()
	res := Result{}
	norm := match.Normalize(utterance)

	// Mode keywords win over everything, discarding partial answers.
	if label, ok := match.ResolveIntent(norm, e.flow.ModeKeywords); ok {
		m, found := e.flow.Mode(Mode(label))
		if !found {
			return Result{}, fmt.Errorf("%w: %s", ErrUnknownMode, label)
		}
		next.resetMode()
		e.enterMode(next, m, &res)
		*s = *next
		return res, nil
	}

	if e.isGoodbye(norm) {
		if e.flow.Goodbye != "" {
			res.Messages = append(res.Messages, e.flow.Goodbye)
		}
		next.Stage = e.flow.TerminalStage
		next.Ended = true
		res.Terminal = true
		*s = *next
		return res, nil
	}

	// No slot processing without a mode.
	if next.Mode == "" {
		res.Messages = append(res.Messages, e.flow.ChooseModePrompt)
		e.bumpRetries(next, "", &res)
		*s = *next
		return res, nil
	}

	m, ok := e.flow.Mode(next.Mode)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownMode, next.Mode)
	}

	// Subject resolution. A failed resolve never advances the stage.
	if m.Lookup != nil && next.Subject == "" {
		entry, found := match.Resolve(norm, e.content)
		if !found {
			res.Messages = append(res.Messages, m.Lookup.Clarify)
			e.bumpRetries(next, next.Stage, &res)
			*s = *next
			return res, nil
		}

		next.Subject = entry.Key
		delete(next.Retries, next.Stage)
		if m.Lookup.Respond != nil {
			res.Messages = append(res.Messages, m.Lookup.Respond(entry)...)
		}

		if len(m.Slots) == 0 {
			// Subject-action mode (learn): act, then loop or finish.
			if err := e.complete(next, m, &res); err != nil {
				return Result{}, err
			}
			*s = *next
			return res, nil
		}

		next.Stage = m.Slots[0].Stage
		*s = *next
		return res, nil
	}

	if err := e.fillSlot(next, m, utterance, norm, &res); err != nil {
		return Result{}, err
	}
	*s = *next
	return res, nil
}

// enterMode resets the session into a mode and emits its welcome.
func (e *Engine) enterMode(next *Session, m *ModeSpec, res *Result) {
	next.Mode = m.Name
	next.Stage = m.Entry()
	if m.Voice != "" {
		res.Voice = m.Voice
	}
	if m.Welcome != "" {
		res.Messages = append(res.Messages, m.Welcome)
	}
	if m.Begin != nil {
		res.Messages = append(res.Messages, m.Begin(e.turnContext(next))...)
	}
}

// fillSlot assigns the utterance to the first unfilled slot, or runs
// completion when everything is collected.
func (e *Engine) fillSlot(next *Session, m *ModeSpec, utterance, norm string, res *Result) error {
	idx := next.firstUnfilled(m)
	if idx < 0 {
		// Slotless, lookup-free mode (order status, check-in recall):
		// every turn runs the completion hook.
		if m.Complete == nil {
			res.Messages = append(res.Messages, e.flow.Fallback)
			return nil
		}
		return e.complete(next, m, res)
	}

	slot := m.Slots[idx]
	next.Stage = slot.Stage
	raw := strings.TrimSpace(utterance)

	// Empty input means "no value provided", never a crash.
	if raw == "" {
		res.Messages = append(res.Messages, slot.Prompt)
		e.bumpRetries(next, slot.Stage, res)
		return nil
	}

	if slot.Repeat {
		return e.fillRepeating(next, m, idx, raw, norm, res)
	}

	value := any(raw)
	if slot.Validate != nil {
		v, err := slot.Validate(raw)
		if err != nil {
			if reason := e.spokenReason(err); reason != "" {
				res.Messages = append(res.Messages, reason)
			}
			res.Messages = append(res.Messages, slot.Prompt)
			e.bumpRetries(next, slot.Stage, res)
			return nil
		}
		value = v
	}

	next.Slots[slot.Name] = value
	delete(next.Retries, slot.Stage)
	if slot.Ack != nil {
		res.Messages = append(res.Messages, slot.Ack(value))
	}

	return e.afterFill(next, m, idx, res)
}

// fillRepeating accumulates values for a repeating slot until one of
// its stop keywords arrives.
func (e *Engine) fillRepeating(next *Session, m *ModeSpec, idx int, raw, norm string, res *Result) error {
	slot := m.Slots[idx]

	if containsAny(norm, slot.StopKeywords) {
		items := next.Partial[slot.Name]
		if len(items) == 0 {
			res.Messages = append(res.Messages, slot.Prompt)
			e.bumpRetries(next, slot.Stage, res)
			return nil
		}
		next.Slots[slot.Name] = items
		delete(next.Partial, slot.Name)
		delete(next.Retries, slot.Stage)
		return e.afterFill(next, m, idx, res)
	}

	value := raw
	if slot.Validate != nil {
		v, err := slot.Validate(raw)
		if err != nil {
			if reason := e.spokenReason(err); reason != "" {
				res.Messages = append(res.Messages, reason)
			}
			res.Messages = append(res.Messages, slot.Prompt)
			e.bumpRetries(next, slot.Stage, res)
			return nil
		}
		if s, ok := v.(string); ok {
			value = s
		}
	}

	next.Partial[slot.Name] = append(next.Partial[slot.Name], value)
	delete(next.Retries, slot.Stage)
	if slot.Ack != nil {
		res.Messages = append(res.Messages, slot.Ack(value))
	}
	return nil
}

// afterFill prompts for the next slot or runs completion.
func (e *Engine) afterFill(next *Session, m *ModeSpec, filled int, res *Result) error {
	for j := filled + 1; j < len(m.Slots); j++ {
		if _, ok := next.Slots[m.Slots[j].Name]; !ok {
			next.Stage = m.Slots[j].Stage
			res.Messages = append(res.Messages, m.Slots[j].Prompt)
			return nil
		}
	}
	return e.complete(next, m, res)
}

// complete runs the mode's completion hook. The record write inside the
// hook is durable before the summary messages are returned, matching
// the ordering guarantee to the host.
func (e *Engine) complete(next *Session, m *ModeSpec, res *Result) error {
	if m.Complete != nil {
		msgs, err := m.Complete(e.turnContext(next))
		if err != nil {
			log.Session(next.ID).Error("flow completion failed",
				"flow", e.flow.Name, "mode", string(m.Name), "error", err)
			return fmt.Errorf("dialogue: completing %s/%s: %w", e.flow.Name, m.Name, err)
		}
		res.Messages = append(res.Messages, msgs...)
	}

	if m.Loop {
		next.resetMode()
		next.Stage = m.Entry()
		return nil
	}

	// A non-looping mode is the whole conversation: completing it ends
	// the session. Anything said afterwards must not refill slots.
	next.resetMode()
	next.Stage = e.flow.TerminalStage
	next.Ended = true
	res.Terminal = true
	if e.flow.Goodbye != "" {
		res.Messages = append(res.Messages, e.flow.Goodbye)
	}
	return nil
}

// bumpRetries counts a failed attempt at a stage and, past the bound,
// adds the flow fallback and resets the count.
func (e *Engine) bumpRetries(next *Session, stage Stage, res *Result) {
	next.Retries[stage]++
	if next.Retries[stage] >= e.flow.maxRetries() {
		next.Retries[stage] = 0
		res.RetriesExhausted = true
		if e.flow.Fallback != "" {
			res.Messages = append([]string{e.flow.Fallback}, res.Messages...)
		}
	}
}

func (e *Engine) isGoodbye(norm string) bool {
	return containsAny(norm, e.flow.GoodbyeKeywords)
}

func (e *Engine) turnContext(next *Session) *TurnContext {
	tc := &TurnContext{
		SessionID: next.ID,
		Records:   e.records,
		Content:   e.content,
		Slots:     next.Slots,
		Data:      next.Data,
	}
	if next.Subject != "" {
		if entry, ok := e.content.Get(next.Subject); ok {
			tc.Subject = entry
		}
	}
	return tc
}

// spokenReason extracts the user-facing reason from a validation error.
// Errors without one get the flow fallback; raw error text is never
// spoken to the user.
func (e *Engine) spokenReason(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) && ve.Reason != "" {
		return ve.Reason
	}
	return e.flow.Fallback
}

func containsAny(norm string, keywords []string) bool {
	for _, kw := range keywords {
		k := strings.ToLower(strings.TrimSpace(kw))
		if k != "" && strings.Contains(norm, k) {
			return true
		}
	}
	return false
}
