package persona

import (
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/content"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/dialogue"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/store"
)

func init() {
	register(Persona{
		Name: "leads",
		Records: []store.KindSpec{
			{Kind: "lead", File: "leads.json"},
		},
		Build: buildLeads,
	})
}

func buildLeads(cs *content.Store) *dialogue.Flow {
	return &dialogue.Flow{
		Name:            "leads",
		Welcome:         "Hi, thanks for calling Brightstack! I can get someone from the team to reach out. Mind if I grab a few details? First, what's your name?",
		DefaultMode:     "capture",
		GoodbyeKeywords: []string{"goodbye", "bye", "hang up"},
		Goodbye:         "Thanks for calling Brightstack. Have a great day!",
		Fallback:        "Sorry, I didn't catch that.",
		TerminalStage:   "done",
		Modes: []dialogue.ModeSpec{
			{
				Name: "capture",
				Stages: []dialogue.Stage{
					"collect_name", "collect_company", "collect_email",
					"collect_role", "collect_interest",
				},
				Slots: []dialogue.SlotSpec{
					{
						Name: "name", Stage: "collect_name",
						Prompt: "What's your name?",
					},
					{
						Name: "company", Stage: "collect_company",
						Prompt: "Which company are you with?",
					},
					{
						Name: "email", Stage: "collect_email",
						Prompt:   "What's the best email to reach you at?",
						Validate: validEmail("email"),
					},
					{
						Name: "role", Stage: "collect_role",
						Prompt: "And what's your role there?",
					},
					{
						Name: "interest", Stage: "collect_interest",
						Prompt: "Got it. What are you hoping Brightstack can help with?",
					},
				},
				Complete: func(tc *dialogue.TurnContext) ([]string, error) {
					rec, err := tc.Records.Create("lead", map[string]any{
						"name":     tc.Slot("name"),
						"company":  tc.Slot("company"),
						"email":    tc.Slot("email"),
						"role":     tc.Slot("role"),
						"interest": tc.Slot("interest"),
					})
					if err != nil {
						return nil, err
					}
					return []string{
						"Perfect, " + tc.Slot("name") + " — I've passed your details to the team.",
						"Someone will reach out at " + tc.Slot("email") + " within a day. Your reference is " + shortID(rec.ID) + ".",
					}, nil
				},
			},
		},
	}
}

// shortID trims a uuid to its first group for speaking aloud.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
