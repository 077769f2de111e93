package match

import (
	"testing"

	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/content"
)

func conceptStore() *content.Store {
	return content.New([]content.Entry{
		{Key: "variables", Name: "Variables", Terms: []string{"vars"}},
		{Key: "loops", Name: "Loops", Terms: []string{"for loop", "while loop"}},
	})
}

func TestResolve(t *testing.T) {
	t.Run("matches key inside utterance", func(t *testing.T) {
		e, ok := Resolve("I want to learn about loops today", conceptStore())
		if !ok || e.Key != "loops" {
			t.Errorf("got %q ok=%v, want loops", e.Key, ok)
		}
	})

	t.Run("matches search term", func(t *testing.T) {
		e, ok := Resolve("quiz me on the for loop", conceptStore())
		if !ok || e.Key != "loops" {
			t.Errorf("got %q ok=%v, want loops", e.Key, ok)
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		e, ok := Resolve("VARIABLES please", conceptStore())
		if !ok || e.Key != "variables" {
			t.Errorf("got %q ok=%v, want variables", e.Key, ok)
		}
	})

	t.Run("short utterance reverse containment", func(t *testing.T) {
		e, ok := Resolve("vars", conceptStore())
		if !ok || e.Key != "variables" {
			t.Errorf("got %q ok=%v, want variables", e.Key, ok)
		}
	})

	t.Run("tiny utterances never reverse match", func(t *testing.T) {
		if _, ok := Resolve("va", conceptStore()); ok {
			t.Error("two-letter utterance should not match")
		}
	})

	t.Run("no match returns false", func(t *testing.T) {
		if _, ok := Resolve("tell me about quantum stuff", conceptStore()); ok {
			t.Error("expected no match for quantum stuff")
		}
	})

	t.Run("first declared entry wins on ties", func(t *testing.T) {
		store := content.New([]content.Entry{
			{Key: "latte", Name: "Latte"},
			{Key: "iced-latte", Name: "Iced Latte", Terms: []string{"latte"}},
		})
		e, ok := Resolve("an iced latte please", store)
		if !ok || e.Key != "latte" {
			t.Errorf("got %q ok=%v: declared order must win", e.Key, ok)
		}
	})

	t.Run("empty terms are skipped", func(t *testing.T) {
		store := content.New([]content.Entry{
			{Key: "x", Name: "X", Terms: []string{""}},
		})
		if _, ok := Resolve("something unrelated entirely here", store); ok {
			t.Error("empty search term must not match everything")
		}
	})
}

func TestResolveIntent(t *testing.T) {
	table := []Keyword{
		{Term: "learn", Label: "learn"},
		{Term: "quiz", Label: "quiz"},
		{Term: "teach", Label: "teach_back"},
	}

	t.Run("finds mode keyword", func(t *testing.T) {
		label, ok := ResolveIntent("actually let's learn", table)
		if !ok || label != "learn" {
			t.Errorf("got %q ok=%v, want learn", label, ok)
		}
	})

	t.Run("first table entry wins", func(t *testing.T) {
		label, ok := ResolveIntent("quiz me then teach me", table)
		if !ok || label != "quiz" {
			t.Errorf("got %q ok=%v, want quiz", label, ok)
		}
	})

	t.Run("no keyword returns false", func(t *testing.T) {
		if _, ok := ResolveIntent("what's the weather", table); ok {
			t.Error("expected no intent")
		}
	})

	t.Run("empty utterance returns false", func(t *testing.T) {
		if _, ok := ResolveIntent("   ", table); ok {
			t.Error("expected no intent for blank utterance")
		}
	})
}
