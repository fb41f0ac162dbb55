package interpreter

import (
	"context"
	"fmt"
	"strings"

	"carmod-engine/internal/actions"
)

// Interpreter converts a user's customization request into an Action batch
// using an LLM client. It never applies anything itself.
type Interpreter struct {
	client   Client
	getModel func() string
}

// New returns an interpreter using the given client and model getter; the
// getter is consulted per request so the model can change at runtime.
func New(client Client, getModel func() string) *Interpreter {
	return &Interpreter{client: client, getModel: getModel}
}

// Interpret sends the prompt to the LLM together with the known part names
// and parses the reply into an ordered Action list. The list may be empty;
// actions with unknown types survive parsing and are skipped downstream.
func (i *Interpreter) Interpret(ctx context.Context, prompt string, knownParts []string) ([]actions.Action, error) {
	model := i.getModel()
	if model == "" {
		model = "gpt-4o-mini"
	}
	reply, err := i.client.Complete(ctx, model, systemPrompt(knownParts), prompt)
	if err != nil {
		return nil, err
	}
	batch, err := ParseActions(reply)
	if err != nil {
		return nil, fmt.Errorf("interpreter response invalid: %w", err)
	}
	return batch, nil
}

func systemPrompt(knownParts []string) string {
	cats := make([]string, 0, len(actions.Categories()))
	for _, c := range actions.Categories() {
		cats = append(cats, string(c))
	}
	b := &strings.Builder{}
	b.WriteString("You are a virtual car mechanic. The user describes a customization in natural language; " +
		"you reply with exactly one JSON object and nothing else. No markdown, no code block, no explanation.\n\n" +
		"Reply shape: {\"actions\":[...]}. Each action is one of:\n" +
		"- {\"type\":\"MATERIAL_EDIT\",\"target\":\"<category>\",\"parameters\":{\"color\":\"#rrggbb\",\"emissive\":\"#rrggbb\",\"metalness\":0..1,\"roughness\":0..1}}: restyle a part's surface; omit parameters you don't change.\n" +
		"- {\"type\":\"TOGGLE_PART\",\"target\":\"<category>\",\"visible\":true|false}: show or hide a part.\n" +
		"- {\"type\":\"ADD_UNDERGLOW\",\"parameters\":{\"color\":\"#rrggbb\",\"intensity\":2.2}}: add or restyle under-car lighting.\n" +
		"- {\"type\":\"SET_SUSPENSION\",\"parameters\":{\"lift\":0.1}}: raise the car; repeated actions stack.\n" +
		"- {\"type\":\"SWAP_PRESET\",\"parameters\":{\"preset\":\"sport_rims\"|\"offroad_rims\"|\"luxury_theme\"}}: apply a themed combo.\n\n")
	b.WriteString("Known target categories: " + strings.Join(cats, ", ") + ". ")
	b.WriteString("A target outside that list is matched against mesh names directly.\n")
	if len(knownParts) > 0 {
		b.WriteString("Mesh names in the current model: " + strings.Join(knownParts, ", ") + ".\n")
	}
	b.WriteString("\nRules:\n" +
		"- For \"make it look expensive\", \"luxury look\", \"VIP style\", use SWAP_PRESET luxury_theme.\n" +
		"- For \"darken the windows\", use MATERIAL_EDIT on window with a dark color.\n" +
		"- For \"neon\"/\"glow\" requests, use ADD_UNDERGLOW with the asked color.\n" +
		"- Order matters: actions apply first to last.\n" +
		"- Reply with only the JSON object.")
	return b.String()
}
