package agent

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/content"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/dialogue"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/match"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/store"
)

type flakyStore struct {
	mu      sync.Mutex
	fail    bool
	created int
}

func (f *flakyStore) Create(kind string, fields map[string]any) (*store.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("disk full")
	}
	f.created++
	return &store.Record{ID: fmt.Sprintf("rec-%d", f.created), Fields: fields}, nil
}

func (f *flakyStore) Find(string, func(*store.Record) bool) (*store.Record, bool) {
	return nil, false
}

func (f *flakyStore) Update(string, string, func(*store.Record) error) error { return nil }

func (f *flakyStore) List(string) []*store.Record { return nil }

func testEngine(t *testing.T, fs *flakyStore) *dialogue.Engine {
	t.Helper()
	cs := content.New([]content.Entry{
		{Key: "loops", Name: "Loops", Payload: map[string]string{"summary": "Repeat a block."}},
	})
	flow := &dialogue.Flow{
		Name:             "host-test",
		Welcome:          "Welcome aboard.",
		DefaultMode:      "signup",
		ChooseModePrompt: "Say signup to begin.",
		ModeKeywords:     []match.Keyword{{Term: "signup", Label: "signup"}},
		GoodbyeKeywords:  []string{"goodbye"},
		Goodbye:          "Bye now.",
		Fallback:         "Sorry, let's try that again.",
		TerminalStage:    "done",
		Modes: []dialogue.ModeSpec{
			{
				Name:    "signup",
				Welcome: "What's your name?",
				Voice:   "Nikhil",
				Stages:  []dialogue.Stage{"collect_name"},
				Slots: []dialogue.SlotSpec{
					{Name: "name", Stage: "collect_name", Prompt: "What's your name?"},
				},
				Complete: func(tc *dialogue.TurnContext) ([]string, error) {
					if _, err := tc.Records.Create("signup", map[string]any{"name": tc.Slot("name")}); err != nil {
						return nil, err
					}
					return []string{"You're in, " + fmt.Sprint(tc.Slot("name")) + "."}, nil
				},
			},
		},
	}
	eng, err := dialogue.New(flow, cs, fs)
	if err != nil {
		t.Fatalf("dialogue.New: %v", err)
	}
	return eng
}

func texts(rs []Reply) string {
	parts := make([]string, 0, len(rs))
	for _, r := range rs {
		parts = append(parts, r.Text)
	}
	return strings.Join(parts, " | ")
}

func TestStartSessionWelcome(t *testing.T) {
	rt := NewRuntime(testEngine(t, &flakyStore{}))

	got := rt.StartSession("s1")
	if len(got) == 0 {
		t.Fatal("expected welcome replies")
	}
	if !strings.Contains(texts(got), "Welcome aboard.") {
		t.Errorf("welcome missing: %q", texts(got))
	}
	if got[0].Voice != "Nikhil" {
		t.Errorf("voice hint = %q, want Nikhil", got[0].Voice)
	}
	if rt.Ended("s1") {
		t.Error("fresh session reported ended")
	}
}

func TestHandleUtteranceUnknownSessionStarts(t *testing.T) {
	rt := NewRuntime(testEngine(t, &flakyStore{}))

	got := rt.HandleUtterance("ghost", "hello")
	if !strings.Contains(texts(got), "Welcome aboard.") {
		t.Errorf("unknown session should restart with welcome, got %q", texts(got))
	}
}

func TestPersistenceFailureKeepsSessionAlive(t *testing.T) {
	fs := &flakyStore{fail: true}
	rt := NewRuntime(testEngine(t, fs))
	rt.StartSession("s1")

	got := rt.HandleUtterance("s1", "Dana")
	if !strings.Contains(texts(got), "Sorry, let's try that again.") {
		t.Errorf("expected fallback apology, got %q", texts(got))
	}
	if rt.Ended("s1") {
		t.Fatal("session should survive a persistence failure")
	}

	// The failed turn committed nothing, so the same utterance retries
	// cleanly once the store recovers.
	fs.mu.Lock()
	fs.fail = false
	fs.mu.Unlock()

	got = rt.HandleUtterance("s1", "Dana")
	if !strings.Contains(texts(got), "You're in, Dana.") {
		t.Errorf("retry should complete, got %q", texts(got))
	}
	if fs.created != 1 {
		t.Errorf("created = %d, want 1", fs.created)
	}
	if !rt.Ended("s1") {
		t.Error("completing the signup should end the session")
	}
}

func TestGoodbyeEndsAndDropsSession(t *testing.T) {
	rt := NewRuntime(testEngine(t, &flakyStore{}))
	rt.StartSession("s1")

	got := rt.HandleUtterance("s1", "goodbye")
	if !strings.Contains(texts(got), "Bye now.") {
		t.Errorf("expected goodbye, got %q", texts(got))
	}
	if !rt.Ended("s1") {
		t.Error("session should be ended after goodbye")
	}
}

func TestInconsistencyEndsSession(t *testing.T) {
	cs := content.New(nil)
	flow := &dialogue.Flow{
		Name:            "broken",
		Welcome:         "Hello.",
		DefaultMode:     "verify",
		GoodbyeKeywords: []string{"goodbye"},
		Fallback:        "Sorry, let's try that again.",
		TerminalStage:   "done",
		Modes: []dialogue.ModeSpec{
			{
				Name:   "verify",
				Stages: []dialogue.Stage{"await_verdict"},
				Slots: []dialogue.SlotSpec{
					{Name: "verdict", Stage: "await_verdict", Prompt: "Yes or no?"},
				},
				Complete: func(tc *dialogue.TurnContext) ([]string, error) {
					return nil, fmt.Errorf("%w: case vanished", dialogue.ErrInconsistent)
				},
			},
		},
	}
	eng, err := dialogue.New(flow, cs, &flakyStore{})
	if err != nil {
		t.Fatalf("dialogue.New: %v", err)
	}
	rt := NewRuntime(eng)
	rt.StartSession("s1")

	got := rt.HandleUtterance("s1", "yes")
	if !strings.Contains(texts(got), "something went wrong") {
		t.Errorf("expected terminal apology, got %q", texts(got))
	}
	if !rt.Ended("s1") {
		t.Error("session should end on an internal inconsistency")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	fs := &flakyStore{}
	rt := NewRuntime(testEngine(t, fs))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("s%d", i)
		rt.StartSession(id)
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			rt.HandleUtterance(id, "Visitor "+id)
		}(id)
	}
	wg.Wait()

	if fs.created != 8 {
		t.Errorf("created = %d, want 8", fs.created)
	}
}
