// Package match resolves free-text utterances to content entries and to
// mode/intent labels using case-insensitive keyword containment.
//
// Matching is deliberately naive: the first entry in declared order that
// matches wins, so the same utterance always resolves to the same entry.
package match

import (
	"strings"

	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/content"
)

// shortUtteranceMax is the longest utterance for which reverse
// containment applies ("loops?" should still match "Loops").
const shortUtteranceMax = 24

// minReverseLen guards reverse containment against one- and two-letter
// utterances matching half the store.
const minReverseLen = 3

// Keyword maps a trigger term to a label. Tables are ordered; the first
// contained term wins.
type Keyword struct {
	Term  string
	Label string
}

// Normalize lowercases and trims an utterance for matching. Stored slot
// values are never normalized through this; it exists purely for lookup.
func Normalize(utterance string) string {
	return strings.ToLower(strings.TrimSpace(utterance))
}

// Resolve finds the first content entry mentioned in the utterance.
// An entry matches when its key, display name, or any search term
// appears in the utterance, or, for short utterances, when the
// utterance appears inside one of those.
func Resolve(utterance string, store *content.Store) (content.Entry, bool) {
	u := Normalize(utterance)
	if u == "" {
		return content.Entry{}, false
	}

	for _, e := range store.Entries() {
		terms := make([]string, 0, len(e.Terms)+2)
		terms = append(terms, e.Key, e.Name)
		terms = append(terms, e.Terms...)

		for _, term := range terms {
			t := strings.ToLower(strings.TrimSpace(term))
			if t == "" {
				continue
			}
			if strings.Contains(u, t) {
				return e, true
			}
			if len(u) >= minReverseLen && len(u) <= shortUtteranceMax && strings.Contains(t, u) {
				return e, true
			}
		}
	}
	return content.Entry{}, false
}

// ResolveIntent finds the first keyword contained in the utterance and
// returns its label. Used for mode switching and goodbye detection.
func ResolveIntent(utterance string, table []Keyword) (string, bool) {
	u := Normalize(utterance)
	if u == "" {
		return "", false
	}

	for _, kw := range table {
		t := strings.ToLower(strings.TrimSpace(kw.Term))
		if t == "" {
			continue
		}
		if strings.Contains(u, t) {
			return kw.Label, true
		}
	}
	return "", false
}
