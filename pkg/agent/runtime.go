// Package agent hosts dialogue sessions for an external transport. It
// enforces the session contract: turns for one session run strictly one
// at a time in arrival order, distinct sessions run concurrently, and a
// record write is durable before its confirmation is returned.
package agent

import (
	"errors"
	"sync"

	"github.com/Harshal4257/ten-days-of-voice-agents-2025/internal/log"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/dialogue"
)

// Reply is one outbound utterance plus the optional TTS voice hint the
// external speech pipeline may act on.
type Reply struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

// Runtime hosts all live sessions for one persona's engine.
type Runtime struct {
	engine *dialogue.Engine

	mu       sync.Mutex
	sessions map[string]*liveSession
}

type liveSession struct {
	mu    sync.Mutex
	state *dialogue.Session
}

// NewRuntime creates a runtime around a ready engine.
func NewRuntime(engine *dialogue.Engine) *Runtime {
	return &Runtime{
		engine:   engine,
		sessions: make(map[string]*liveSession),
	}
}

// StartSession creates the session and returns its welcome messages.
// Starting an existing id restarts it from scratch.
func (r *Runtime) StartSession(id string) []Reply {
	ls := &liveSession{state: r.engine.NewSession(id)}

	r.mu.Lock()
	r.sessions[id] = ls
	r.mu.Unlock()

	ls.mu.Lock()
	defer ls.mu.Unlock()

	res, err := r.engine.Start(ls.state)
	if err != nil {
		log.Session(id).Error("session start failed", "error", err)
		return []Reply{{Text: r.engine.Flow().Fallback}}
	}

	log.Session(id).Info("session started", "flow", r.engine.Flow().Name)
	return replies(res)
}

// HandleUtterance applies one user turn. The per-session lock means a
// turn's state mutation and persistence complete before the next turn
// for that session begins.
func (r *Runtime) HandleUtterance(id, text string) []Reply {
	r.mu.Lock()
	ls, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return r.StartSession(id)
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	res, err := r.engine.Advance(ls.state, text)
	if err != nil {
		return r.recover(id, ls, err)
	}

	if res.RetriesExhausted {
		log.Session(id).Warn("stage retry bound hit", "stage", string(ls.state.Stage))
	}
	if res.Terminal {
		log.Session(id).Info("session ended")
		r.drop(id)
	}
	return replies(res)
}

// Ended reports whether a session is gone or finished.
func (r *Runtime) Ended(id string) bool {
	r.mu.Lock()
	ls, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return true
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.state.Ended
}

// recover maps an engine error to the user-facing fallback. Invariant
// violations end the session with an apology; everything else keeps the
// session alive, since the failed turn left its state untouched.
func (r *Runtime) recover(id string, ls *liveSession, err error) []Reply {
	flow := r.engine.Flow()

	if errors.Is(err, dialogue.ErrSessionEnded) {
		return nil
	}

	if errors.Is(err, dialogue.ErrInconsistent) {
		log.Session(id).Error("session terminated", "error", err)
		ls.state.Ended = true
		r.drop(id)
		return []Reply{{Text: "I'm sorry, something went wrong on my end. Let's pick this up later."}}
	}

	// Persistence and other turn failures: apologize once and let the
	// user retry; never claim the write succeeded.
	log.Session(id).Error("turn failed", "error", err)
	return []Reply{{Text: flow.Fallback}}
}

func (r *Runtime) drop(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func replies(res dialogue.Result) []Reply {
	out := make([]Reply, 0, len(res.Messages))
	for i, msg := range res.Messages {
		reply := Reply{Text: msg}
		// The voice hint rides on the first message of the turn.
		if i == 0 {
			reply.Voice = res.Voice
		}
		out = append(out, reply)
	}
	return out
}
