package persona

import (
	"fmt"
	"strconv"

	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/content"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/dialogue"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/lifecycle"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/match"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/store"
)

// groceryLifecycle drives an order from received to delivered purely by
// elapsed time.
var groceryLifecycle = []lifecycle.Threshold{
	lifecycle.Minutes("received", 0),
	lifecycle.Minutes("confirmed", 2),
	lifecycle.Minutes("out_for_delivery", 15),
	lifecycle.Minutes("delivered", 40),
}

func init() {
	register(Persona{
		Name:        "grocery",
		ContentFile: "grocery_catalog.json",
		ContentSeed: groceryCatalog(),
		Records: []store.KindSpec{
			{Kind: "order", File: "grocery_orders.json", Thresholds: groceryLifecycle},
		},
		Build: buildGrocery,
	})
}

func groceryCatalog() []content.Entry {
	return []content.Entry{
		{Key: "milk", Name: "Milk", Terms: []string{"whole milk"}, Payload: map[string]string{"price": "3.49"}},
		{Key: "eggs", Name: "Eggs", Terms: []string{"dozen eggs"}, Payload: map[string]string{"price": "4.99"}},
		{Key: "bread", Name: "Bread", Terms: []string{"loaf"}, Payload: map[string]string{"price": "2.99"}},
		{Key: "apples", Name: "Apples", Terms: []string{"apple"}, Payload: map[string]string{"price": "3.99"}},
		{Key: "rice", Name: "Rice", Terms: []string{"basmati"}, Payload: map[string]string{"price": "8.99"}},
		{Key: "pasta", Name: "Pasta", Terms: []string{"spaghetti"}, Payload: map[string]string{"price": "2.49"}},
		{
			Key: "delivery-hours", Name: "Delivery hours",
			Terms:   []string{"delivery", "hours", "when do you deliver"},
			Payload: map[string]string{"answer": "We deliver every day between 8 AM and 9 PM."},
		},
		{
			Key: "returns", Name: "Returns",
			Terms:   []string{"return", "refund"},
			Payload: map[string]string{"answer": "Anything you're not happy with gets a full refund — just tell the driver or call us within 24 hours."},
		},
		{
			Key: "payment", Name: "Payment",
			Terms:   []string{"pay", "payment", "card", "cash"},
			Payload: map[string]string{"answer": "We take all major cards and cash on delivery."},
		},
	}
}

func buildGrocery(cs *content.Store) *dialogue.Flow {
	return &dialogue.Flow{
		Name:             "grocery",
		Welcome:          "Hi, welcome to GreenCart! I can take a new order, check on an existing one, or answer questions.",
		ChooseModePrompt: "Would you like to place an order, check your order status, or ask a question?",
		// "status of my order" must hit status, so it outranks "order".
		ModeKeywords: []match.Keyword{
			{Term: "status", Label: "status"},
			{Term: "where is", Label: "status"},
			{Term: "question", Label: "faq"},
			{Term: "help", Label: "faq"},
			{Term: "order", Label: "order"},
			{Term: "buy", Label: "order"},
		},
		GoodbyeKeywords: []string{"goodbye", "bye", "that's everything"},
		Goodbye:         "Thanks for shopping with GreenCart. Bye!",
		Fallback:        "Sorry, I didn't catch that.",
		TerminalStage:   "done",
		Modes: []dialogue.ModeSpec{
			{
				Name:    "order",
				Welcome: "Sure! What would you like to add? Say checkout when your basket is done.",
				Stages:  []dialogue.Stage{"collect_items", "collect_name"},
				// Looping keeps the call open for a status check or
				// another order after checkout.
				Loop: true,
				Slots: []dialogue.SlotSpec{
					{
						Name: "items", Stage: "collect_items",
						Prompt:       "Your basket is empty — what would you like to add?",
						Repeat:       true,
						StopKeywords: []string{"checkout", "that's all", "that is all", "done"},
						Validate:     validCatalogItem("items", cs, "price", "We don't carry that, sorry."),
						Ack: func(v any) string {
							key, _ := v.(string)
							if e, ok := cs.Get(key); ok {
								return fmt.Sprintf("Added %s at $%s. Anything else?", e.Name, e.Field("price"))
							}
							return fmt.Sprintf("Added %v. Anything else?", v)
						},
					},
					{
						Name: "name", Stage: "collect_name",
						Prompt: "Checking out! What name should the order be under?",
					},
				},
				Complete: groceryComplete(cs),
			},
			{
				Name:     "status",
				Welcome:  "Let me check on your latest order.",
				Stages:   []dialogue.Stage{"report_status"},
				Loop:     true,
				Begin:    groceryStatus,
				Complete: func(tc *dialogue.TurnContext) ([]string, error) { return groceryStatus(tc), nil },
			},
			{
				Name:    "faq",
				Welcome: "Happy to help — what would you like to know?",
				Stages:  []dialogue.Stage{"await_question"},
				Loop:    true,
				Lookup: &dialogue.LookupSpec{
					Stage:   "await_question",
					Clarify: "I'm not sure about that one. You can ask about delivery, returns, or payment.",
					Respond: func(e content.Entry) []string {
						return []string{e.Field("answer"), "Anything else?"}
					},
				},
			},
		},
	}
}

func groceryComplete(cs *content.Store) dialogue.CompleteFunc {
	return func(tc *dialogue.TurnContext) ([]string, error) {
		items := tc.SlotList("items")
		total := 0.0
		names := make([]string, 0, len(items))
		for _, key := range items {
			e, ok := cs.Get(key)
			if !ok {
				continue
			}
			if p, err := strconv.ParseFloat(e.Field("price"), 64); err == nil {
				total += p
			}
			names = append(names, e.Name)
		}

		rec, err := tc.Records.Create("order", map[string]any{
			"items":    items,
			"customer": tc.Slot("name"),
			"total":    total,
		})
		if err != nil {
			return nil, err
		}

		return []string{
			fmt.Sprintf("Order placed for %s: %s, coming to $%.2f.", tc.Slot("name"), joinSpoken(names), total),
			"Your order number is " + shortID(rec.ID) + ". Ask me for the status any time!",
		}, nil
	}
}

// groceryStatus reports the latest order's time-derived status.
func groceryStatus(tc *dialogue.TurnContext) []string {
	orders := tc.Records.List("order")
	if len(orders) == 0 {
		return []string{"I don't see any orders yet. Want to place one?"}
	}

	latest := orders[len(orders)-1]
	spoken := map[string]string{
		"received":         "received and waiting to be confirmed",
		"confirmed":        "confirmed and being packed",
		"out_for_delivery": "out for delivery",
		"delivered":        "delivered",
	}
	text, ok := spoken[latest.Status]
	if !ok {
		text = latest.Status
	}
	return []string{fmt.Sprintf(
		"Your order %s for %s is currently %s.",
		shortID(latest.ID), latest.StringField("customer"), text,
	)}
}

// joinSpoken joins names the way you'd say them aloud.
func joinSpoken(names []string) string {
	switch len(names) {
	case 0:
		return "nothing"
	case 1:
		return names[0]
	}
	out := ""
	for i, n := range names {
		switch {
		case i == 0:
			out = n
		case i == len(names)-1:
			out += " and " + n
		default:
			out += ", " + n
		}
	}
	return out
}
