package persona

import (
	"strconv"
	"strings"

	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/content"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/dialogue"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/match"
)

// validEmail accepts anything shaped like user@host and lowercases it.
func validEmail(field dialogue.FieldName) dialogue.ValidateFunc {
	return func(raw string) (any, error) {
		v := strings.ToLower(strings.TrimSpace(raw))
		// Spoken emails often arrive as "dana at x dot com".
		v = strings.ReplaceAll(v, " at ", "@")
		v = strings.ReplaceAll(v, " dot ", ".")
		v = strings.ReplaceAll(v, " ", "")
		at := strings.Index(v, "@")
		if at < 1 || !strings.Contains(v[at:], ".") {
			return nil, dialogue.Invalid(field, "That doesn't sound like an email address.")
		}
		return v, nil
	}
}

// validYesNo maps yes/no phrasings to "yes" or "no".
func validYesNo(field dialogue.FieldName) dialogue.ValidateFunc {
	yes := []string{"yes", "yeah", "yep", "correct", "i did", "that was me"}
	no := []string{"no", "nope", "wasn't me", "was not me", "didn't", "did not"}
	return func(raw string) (any, error) {
		norm := match.Normalize(raw)
		// Check "no" first: "no I didn't" contains neither yes term,
		// but "not" phrasings must not fall through to "yes".
		for _, n := range no {
			if strings.Contains(norm, n) {
				return "no", nil
			}
		}
		for _, y := range yes {
			if strings.Contains(norm, y) {
				return "yes", nil
			}
		}
		return nil, dialogue.Invalid(field, "I just need a yes or a no.")
	}
}

// validNumber accepts a number somewhere in the utterance.
func validNumber(field dialogue.FieldName, reason string) dialogue.ValidateFunc {
	return func(raw string) (any, error) {
		for _, tok := range strings.Fields(raw) {
			tok = strings.Trim(tok, ".,!?")
			if n, err := strconv.ParseFloat(tok, 64); err == nil {
				return n, nil
			}
		}
		return nil, dialogue.Invalid(field, reason)
	}
}

// validOneOf accepts only the listed options, matched by containment.
func validOneOf(field dialogue.FieldName, reason string, options ...string) dialogue.ValidateFunc {
	return func(raw string) (any, error) {
		norm := match.Normalize(raw)
		for _, opt := range options {
			if strings.Contains(norm, strings.ToLower(opt)) {
				return opt, nil
			}
		}
		return nil, dialogue.Invalid(field, reason)
	}
}

// validCatalogItem resolves the utterance against store entries that
// carry the given payload field, storing the entry key.
func validCatalogItem(field dialogue.FieldName, cs *content.Store, payloadField, reason string) dialogue.ValidateFunc {
	return func(raw string) (any, error) {
		entry, ok := match.Resolve(raw, cs)
		if !ok || entry.Field(payloadField) == "" {
			return nil, dialogue.Invalid(field, reason)
		}
		return entry.Key, nil
	}
}
