package persona

import (
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/content"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/dialogue"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/match"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/store"
)

func init() {
	register(Persona{
		Name:        "gamemaster",
		ContentFile: "gm_scenes.json",
		ContentSeed: gmScenes(),
		Records: []store.KindSpec{
			{Kind: "character", File: "characters.json"},
		},
		Build: buildGameMaster,
	})
}

func gmScenes() []content.Entry {
	return []content.Entry{
		{
			Key: "forest", Name: "The Whispering Forest",
			Terms: []string{"woods", "trees"},
			Payload: map[string]string{
				"narration": "Mist curls between ancient trunks as the Whispering Forest closes around you. Somewhere ahead, branches snap.",
				"challenge": "A pack of shadow wolves circles your camp. Do you stand your ground, climb, or try to slip away?",
			},
		},
		{
			Key: "cave", Name: "The Echoing Cave",
			Terms: []string{"cavern", "underground"},
			Payload: map[string]string{
				"narration": "Your torchlight dances over wet stone. Deep in the Echoing Cave, something glitters beyond a narrow crevice.",
				"challenge": "The crevice is barely wide enough to squeeze through, and your torch is burning low. What do you do?",
			},
		},
		{
			Key: "village", Name: "Hollowbrook Village",
			Terms: []string{"town", "tavern"},
			Payload: map[string]string{
				"narration": "Hollowbrook's market square is strangely empty. Shutters creak, and an old woman beckons from the tavern doorway.",
				"challenge": "She claims the mayor has been replaced by an imposter, and offers proof for a price. Do you pay, press her, or walk away?",
			},
		},
		{
			Key: "tower", Name: "The Shattered Tower",
			Terms: []string{"ruin", "spire"},
			Payload: map[string]string{
				"narration": "Lightning arcs around the Shattered Tower's broken crown. The staircase spirals up into a humming violet glow.",
				"challenge": "Every step up, the humming grows louder and your gear grows heavier. Push on, or search the lower floors first?",
			},
		},
	}
}

func buildGameMaster(cs *content.Store) *dialogue.Flow {
	return &dialogue.Flow{
		Name:             "gamemaster",
		Welcome:          "🎲 Welcome, traveler! I'm your game master. Say create to forge a new hero, or play to begin an adventure.",
		ChooseModePrompt: "Say create to make a character, or play to start an adventure.",
		ModeKeywords: []match.Keyword{
			{Term: "create", Label: "create"},
			{Term: "new character", Label: "create"},
			{Term: "play", Label: "play"},
			{Term: "adventure", Label: "play"},
			{Term: "explore", Label: "play"},
		},
		GoodbyeKeywords: []string{"goodbye", "bye", "end session"},
		Goodbye:         "The tale pauses here. Until next time, adventurer!",
		Fallback:        "The dice clatter, but I didn't follow that.",
		TerminalStage:   "done",
		Modes: []dialogue.ModeSpec{
			{
				Name:    "create",
				Welcome: "A new hero! Let's write the first page. What is your hero's name?",
				Stages:  []dialogue.Stage{"collect_hero_name", "collect_class", "collect_trait"},
				// Looping keeps the table open so "play" works right
				// after the character sheet is done.
				Loop: true,
				Slots: []dialogue.SlotSpec{
					{
						Name: "hero_name", Stage: "collect_hero_name",
						Prompt: "What is your hero's name?",
					},
					{
						Name: "class", Stage: "collect_class",
						Prompt:   "And their calling — warrior, mage, rogue, or ranger?",
						Validate: validOneOf("class", "Choose warrior, mage, rogue, or ranger.", "warrior", "mage", "rogue", "ranger"),
					},
					{
						Name: "trait", Stage: "collect_trait",
						Prompt: "Give them one defining trait — brave, cunning, curious, anything.",
					},
				},
				Complete: func(tc *dialogue.TurnContext) ([]string, error) {
					_, err := tc.Records.Create("character", map[string]any{
						"name":  tc.Slot("hero_name"),
						"class": tc.Slot("class"),
						"trait": tc.Slot("trait"),
					})
					if err != nil {
						return nil, err
					}
					return []string{
						tc.Slot("hero_name") + " the " + tc.Slot("trait") + " " + tc.Slot("class") + " is ready.",
						"Say play when you want to begin the adventure!",
					}, nil
				},
			},
			{
				Name:    "play",
				Welcome: "The adventure begins. Where does your hero go — the forest, the cave, the village, or the tower?",
				Stages:  []dialogue.Stage{"choose_scene", "await_action"},
				Loop:    true,
				Lookup: &dialogue.LookupSpec{
					Stage:   "choose_scene",
					Clarify: "I don't know that place. Try the forest, the cave, the village, or the tower.",
					Respond: func(e content.Entry) []string {
						return []string{
							e.Field("narration"),
							e.Field("challenge"),
						}
					},
				},
				Slots: []dialogue.SlotSpec{
					{
						Name: "action", Stage: "await_action",
						Prompt: "Tell me what your hero does.",
					},
				},
				Complete: func(tc *dialogue.TurnContext) ([]string, error) {
					return []string{
						"Bold choice. " + tc.Slot("action") + " — it works, barely, and the path ahead opens.",
						"Where to next — the forest, the cave, the village, or the tower?",
					}, nil
				},
			},
		},
	}
}
