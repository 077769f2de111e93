package persona

import (
	"errors"
	"fmt"
	"time"

	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/content"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/dialogue"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/lifecycle"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/store"
)

// fraudEscalation advances an unverified case the longer it sits
// waiting for the cardholder.
var fraudEscalation = []lifecycle.Threshold{
	lifecycle.Minutes("open", 0),
	lifecycle.Minutes("pending_review", 30),
	lifecycle.Minutes("escalated", 120),
}

func init() {
	register(Persona{
		Name: "fraud",
		Records: []store.KindSpec{
			{Kind: "fraud_case", File: "fraud_cases.json"},
		},
		RecordSeed: map[string][]map[string]any{
			"fraud_case": {
				{
					"merchant":   "TechWorld Online",
					"amount":     829.40,
					"card_last4": "4821",
					"verdict":    "",
				},
			},
		},
		Build: buildFraud,
	})
}

func buildFraud(cs *content.Store) *dialogue.Flow {
	return &dialogue.Flow{
		Name:            "fraud",
		Welcome:         "Hello, this is the security team at Meridian Bank calling about recent activity on your card.",
		DefaultMode:     "verify",
		GoodbyeKeywords: []string{"goodbye", "bye", "hang up"},
		Goodbye:         "Thank you for your time. Goodbye.",
		Fallback:        "I'm sorry, I didn't catch that.",
		TerminalStage:   "done",
		Modes: []dialogue.ModeSpec{
			{
				Name:   "verify",
				Stages: []dialogue.Stage{"await_verdict"},
				Begin:  fraudBegin,
				Slots: []dialogue.SlotSpec{
					{
						Name: "verdict", Stage: "await_verdict",
						Prompt:   "Did you make this purchase? Please answer yes or no.",
						Validate: validYesNo("verdict"),
					},
				},
				Complete: fraudComplete,
			},
		},
	}
}

// fraudBegin reads the oldest unverified case back to the caller and
// stashes its id for the verdict turn.
func fraudBegin(tc *dialogue.TurnContext) []string {
	rec, ok := tc.Records.Find("fraud_case", func(r *store.Record) bool {
		return r.StringField("verdict") == ""
	})
	if !ok {
		return []string{"Good news — there's no suspicious activity on your account right now."}
	}

	tc.Data["case_id"] = rec.ID

	status := rec.Status
	if derived, ok := lifecycle.Derive(rec.CreatedAt, time.Now(), fraudEscalation); ok {
		status = derived
	}

	msgs := []string{fmt.Sprintf(
		"We flagged a charge of $%.2f at %s on the card ending in %s.",
		rec.Field("amount"), rec.StringField("merchant"), rec.StringField("card_last4"),
	)}
	if status == "escalated" {
		msgs = append(msgs, "This case has been waiting a while, so it's been escalated to our review team.")
	}
	msgs = append(msgs, "Did you make this purchase? Please answer yes or no.")
	return msgs
}

func fraudComplete(tc *dialogue.TurnContext) ([]string, error) {
	caseID := tc.Data["case_id"]
	if caseID == "" {
		return []string{"You're all set. Thanks for checking in."}, nil
	}

	verdict := tc.Slot("verdict")
	status := "confirmed_legit"
	if verdict == "no" {
		status = "confirmed_fraud"
	}

	err := tc.Records.Update("fraud_case", caseID, func(r *store.Record) error {
		if verdict == "yes" {
			r.SetField("verdict", "legit")
		} else {
			r.SetField("verdict", "fraud")
		}
		r.Status = status
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: fraud case %s vanished before verdict", dialogue.ErrInconsistent, caseID)
		}
		return nil, err
	}

	if verdict == "yes" {
		return []string{"Thanks for confirming. I've cleared the charge and closed the case."}, nil
	}
	return []string{
		"Understood. I've blocked the card ending in " + fraudCardSuffix(tc) + " and flagged the charge as fraud.",
		"A replacement card is on its way and should arrive within five business days.",
	}, nil
}

func fraudCardSuffix(tc *dialogue.TurnContext) string {
	rec, ok := tc.Records.Find("fraud_case", func(r *store.Record) bool {
		return r.ID == tc.Data["case_id"]
	})
	if !ok {
		return "on file"
	}
	return rec.StringField("card_last4")
}
