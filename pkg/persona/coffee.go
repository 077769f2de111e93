package persona

import (
	"fmt"
	"strconv"

	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/content"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/dialogue"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/lifecycle"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/store"
)

// coffeeLifecycle moves an order to ready within a few minutes.
var coffeeLifecycle = []lifecycle.Threshold{
	lifecycle.Minutes("received", 0),
	lifecycle.Minutes("preparing", 1),
	lifecycle.Minutes("ready", 5),
}

func init() {
	register(Persona{
		Name:        "coffee",
		ContentFile: "coffee_menu.json",
		ContentSeed: coffeeMenu(),
		Records: []store.KindSpec{
			{Kind: "order", File: "coffee_orders.json", Thresholds: coffeeLifecycle},
		},
		Build: buildCoffee,
	})
}

func coffeeMenu() []content.Entry {
	return []content.Entry{
		{Key: "latte", Name: "Latte", Payload: map[string]string{"price": "4.50"}},
		{Key: "cappuccino", Name: "Cappuccino", Terms: []string{"capp"}, Payload: map[string]string{"price": "4.25"}},
		{Key: "espresso", Name: "Espresso", Terms: []string{"shot"}, Payload: map[string]string{"price": "3.00"}},
		{Key: "mocha", Name: "Mocha", Payload: map[string]string{"price": "4.75"}},
		{Key: "cold-brew", Name: "Cold Brew", Terms: []string{"cold brew", "iced coffee"}, Payload: map[string]string{"price": "4.00"}},
		{Key: "chai", Name: "Chai Latte", Terms: []string{"chai"}, Payload: map[string]string{"price": "4.25"}},
	}
}

func buildCoffee(cs *content.Store) *dialogue.Flow {
	return &dialogue.Flow{
		Name:            "coffee",
		Welcome:         "Hey there, welcome to Driftwood Coffee! What can I get started for you?",
		DefaultMode:     "order",
		GoodbyeKeywords: []string{"goodbye", "bye", "nothing else"},
		Goodbye:         "See you next time!",
		Fallback:        "Sorry, I missed that.",
		TerminalStage:   "done",
		Modes: []dialogue.ModeSpec{
			{
				Name:   "order",
				Stages: []dialogue.Stage{"collect_drink", "collect_size", "collect_milk", "collect_name"},
				Slots: []dialogue.SlotSpec{
					{
						Name: "drink", Stage: "collect_drink",
						Prompt:   "We've got lattes, cappuccinos, espresso, mochas, cold brew and chai. What sounds good?",
						Validate: validCatalogItem("drink", cs, "price", "Hmm, that's not on our menu."),
					},
					{
						Name: "size", Stage: "collect_size",
						Prompt:   "What size — small, medium, or large?",
						Validate: validOneOf("size", "We do small, medium, or large.", "small", "medium", "large"),
					},
					{
						Name: "milk", Stage: "collect_milk",
						Prompt:   "Any milk preference? Whole, oat, almond, skim, or none.",
						Validate: validOneOf("milk", "We have whole, oat, almond, skim, or none.", "whole", "oat", "almond", "skim", "none"),
					},
					{
						Name: "name", Stage: "collect_name",
						Prompt: "And a name for the cup?",
					},
				},
				Complete: coffeeComplete(cs),
			},
		},
	}
}

func coffeeComplete(cs *content.Store) dialogue.CompleteFunc {
	return func(tc *dialogue.TurnContext) ([]string, error) {
		drinkKey := tc.Slot("drink")
		drink, _ := cs.Get(drinkKey)
		price, _ := strconv.ParseFloat(drink.Field("price"), 64)

		rec, err := tc.Records.Create("order", map[string]any{
			"drink":    drinkKey,
			"size":     tc.Slot("size"),
			"milk":     tc.Slot("milk"),
			"customer": tc.Slot("name"),
			"total":    price,
		})
		if err != nil {
			return nil, err
		}

		milk := tc.Slot("milk") + " milk"
		if tc.Slot("milk") == "none" {
			milk = "no milk"
		}
		return []string{
			fmt.Sprintf("One %s %s with %s for %s — that's $%.2f.",
				tc.Slot("size"), drink.Name, milk, tc.Slot("name"), price),
			"Order " + shortID(rec.ID) + " is in. It'll be ready in about five minutes!",
		}, nil
	}
}
