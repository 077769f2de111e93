package persona

import (
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/content"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/dialogue"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/match"
)

func init() {
	register(Persona{
		Name:        "tutor",
		ContentFile: "day4_tutor_content.json",
		ContentSeed: tutorConcepts(),
		Build:       buildTutor,
	})
}

func tutorConcepts() []content.Entry {
	return []content.Entry{
		{
			Key: "variables", Name: "Variables",
			Terms: []string{"variable", "vars"},
			Payload: map[string]string{
				"summary":         "A variable is a named box that stores a value your program can read and change later.",
				"sample_question": "What happens to the old value when you assign a new one to a variable?",
			},
		},
		{
			Key: "loops", Name: "Loops",
			Terms: []string{"loop", "for loop", "while loop"},
			Payload: map[string]string{
				"summary":         "A loop repeats a block of code until a condition tells it to stop.",
				"sample_question": "When does a while loop decide to stop running?",
			},
		},
		{
			Key: "functions", Name: "Functions",
			Terms: []string{"function", "method"},
			Payload: map[string]string{
				"summary":         "A function is a reusable named block of code that takes inputs and can return a result.",
				"sample_question": "Why would you pull repeated code into a function?",
			},
		},
		{
			Key: "conditionals", Name: "Conditionals",
			Terms: []string{"conditional", "if statement", "if else"},
			Payload: map[string]string{
				"summary":         "A conditional runs one branch of code or another depending on whether a test is true.",
				"sample_question": "What decides which branch of an if-else statement runs?",
			},
		},
		{
			Key: "recursion", Name: "Recursion",
			Terms: []string{"recursive"},
			Payload: map[string]string{
				"summary":         "Recursion is a function calling itself on a smaller piece of the problem until a base case stops it.",
				"sample_question": "What goes wrong if a recursive function has no base case?",
			},
		},
	}
}

func buildTutor(cs *content.Store) *dialogue.Flow {
	clarify := "I couldn't identify the concept. Try words like variables or loops."

	return &dialogue.Flow{
		Name:             "tutor",
		Welcome:          "👋 Welcome to Sage-the-Tutor! Which mode would you like — learn, quiz, or teach-back?",
		ChooseModePrompt: "Please choose a mode: learn, quiz, or teach-back.",
		ModeKeywords: []match.Keyword{
			{Term: "learn", Label: "learn"},
			{Term: "quiz", Label: "quiz"},
			{Term: "teach", Label: "teach_back"},
		},
		GoodbyeKeywords: []string{"goodbye", "bye", "see you", "that's all for today"},
		Goodbye:         "Great session! Come back any time you want to practice.",
		Fallback:        "Sorry, I didn't catch that. Let's try again.",
		TerminalStage:   "done",
		Modes: []dialogue.ModeSpec{
			{
				Name:    "learn",
				Welcome: "Great — which concept do you want to learn?",
				Voice:   "Nikhil",
				Stages:  []dialogue.Stage{"choose_concept"},
				Loop:    true,
				Lookup: &dialogue.LookupSpec{
					Stage:   "choose_concept",
					Clarify: clarify,
					Respond: func(e content.Entry) []string {
						return []string{
							e.Name + ": " + e.Field("summary"),
							"Would you like another concept or a different mode?",
						}
					},
				},
			},
			{
				Name:    "quiz",
				Welcome: "You got it — which concept should I quiz you on?",
				Voice:   "Tanushree",
				Stages:  []dialogue.Stage{"choose_concept", "await_answer"},
				Loop:    true,
				Lookup: &dialogue.LookupSpec{
					Stage:   "choose_concept",
					Clarify: clarify,
					Respond: func(e content.Entry) []string {
						return []string{
							e.Field("sample_question"),
							"I'll wait for your answer — or you can switch mode anytime.",
						}
					},
				},
				Slots: []dialogue.SlotSpec{
					{Name: "answer", Stage: "await_answer", Prompt: "Give it your best shot — what's your answer?"},
				},
				Complete: func(tc *dialogue.TurnContext) ([]string, error) {
					return []string{
						"Nice effort! Here's the key idea: " + tc.Subject.Field("summary"),
						"Want another question, or a different mode?",
					}, nil
				},
			},
			{
				Name:    "teach_back",
				Welcome: "Nice — which concept do you want to teach me back?",
				Voice:   "Priya",
				Stages:  []dialogue.Stage{"choose_concept", "await_explanation"},
				Loop:    true,
				Lookup: &dialogue.LookupSpec{
					Stage:   "choose_concept",
					Clarify: clarify,
					Respond: func(e content.Entry) []string {
						return []string{
							"Teach me: " + e.Field("sample_question"),
							"I'll listen — and you can switch modes anytime.",
						}
					},
				},
				Slots: []dialogue.SlotSpec{
					{Name: "explanation", Stage: "await_explanation", Prompt: "Go on, explain it to me in your own words."},
				},
				Complete: func(tc *dialogue.TurnContext) ([]string, error) {
					return []string{
						"That's a solid explanation! For reference: " + tc.Subject.Field("summary"),
						"Want to teach me another one?",
					}, nil
				},
			},
		},
	}
}
