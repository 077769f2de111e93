package persona

import (
	"fmt"

	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/content"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/dialogue"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/store"
)

func init() {
	register(Persona{
		Name: "wellness",
		Records: []store.KindSpec{
			{Kind: "checkin", File: "checkins.json"},
		},
		Build: buildWellness,
	})
}

func buildWellness(cs *content.Store) *dialogue.Flow {
	return &dialogue.Flow{
		Name:            "wellness",
		Welcome:         "Hi, it's your daily check-in. Nothing formal, just a minute for yourself.",
		DefaultMode:     "checkin",
		GoodbyeKeywords: []string{"goodbye", "bye", "talk tomorrow"},
		Goodbye:         "Take care of yourself. Talk tomorrow!",
		Fallback:        "Sorry, I didn't quite get that.",
		TerminalStage:   "done",
		Modes: []dialogue.ModeSpec{
			{
				Name:   "checkin",
				Stages: []dialogue.Stage{"collect_mood", "collect_sleep", "collect_energy", "collect_gratitude"},
				Begin:  wellnessRecall,
				Slots: []dialogue.SlotSpec{
					{
						Name: "mood", Stage: "collect_mood",
						Prompt: "How are you feeling today?",
					},
					{
						Name: "sleep_hours", Stage: "collect_sleep",
						Prompt:   "How many hours did you sleep last night?",
						Validate: validNumber("sleep_hours", "Just a rough number of hours is fine."),
					},
					{
						Name: "energy", Stage: "collect_energy",
						Prompt:   "How's your energy — low, medium, or high?",
						Validate: validOneOf("energy", "Low, medium, or high — whichever feels closest.", "low", "medium", "high"),
					},
					{
						Name: "gratitude", Stage: "collect_gratitude",
						Prompt: "And one thing you're grateful for today?",
					},
				},
				Complete: func(tc *dialogue.TurnContext) ([]string, error) {
					_, err := tc.Records.Create("checkin", map[string]any{
						"mood":        tc.Slot("mood"),
						"sleep_hours": tc.Slots["sleep_hours"],
						"energy":      tc.Slot("energy"),
						"gratitude":   tc.Slot("gratitude"),
					})
					if err != nil {
						return nil, err
					}
					return []string{
						fmt.Sprintf("Logged: feeling %s, %v hours of sleep, %s energy.",
							tc.Slot("mood"), tc.Slots["sleep_hours"], tc.Slot("energy")),
						"Thanks for checking in.",
					}, nil
				},
			},
		},
	}
}

// wellnessRecall reads the previous check-in back, when there is one.
func wellnessRecall(tc *dialogue.TurnContext) []string {
	checkins := tc.Records.List("checkin")
	msgs := []string{}
	if len(checkins) > 0 {
		last := checkins[len(checkins)-1]
		msgs = append(msgs, fmt.Sprintf(
			"Last time you were feeling %s and grateful for %s.",
			last.StringField("mood"), last.StringField("gratitude"),
		))
	}
	return append(msgs, "How are you feeling today?")
}
