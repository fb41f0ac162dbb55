// Package actions applies declarative edit commands to the loaded model.
// Actions come from direct UI controls or from the natural-language
// interpreter; either way they are consumed exactly once and never persisted.
package actions

// Type names a kind of edit command. The set is closed; anything else is
// skipped by the pipeline.
type Type string

const (
	MaterialEdit  Type = "MATERIAL_EDIT"
	TogglePart    Type = "TOGGLE_PART"
	AddUnderglow  Type = "ADD_UNDERGLOW"
	SetSuspension Type = "SET_SUSPENSION"
	SwapPreset    Type = "SWAP_PRESET"
)

// Parameters is the type-dependent payload of an action. Pointer fields
// distinguish "absent" from zero.
type Parameters struct {
	Color     string   `json:"color,omitempty"`
	Emissive  string   `json:"emissive,omitempty"`
	Metalness *float64 `json:"metalness,omitempty"`
	Roughness *float64 `json:"roughness,omitempty"`
	Intensity *float64 `json:"intensity,omitempty"`
	Lift      *float64 `json:"lift,omitempty"`
	Preset    string   `json:"preset,omitempty"`
}

// Action is one declarative edit command. Target is a semantic part category
// (resolved through the alias table), not a literal node name.
type Action struct {
	Type       Type       `json:"type"`
	Target     string     `json:"target,omitempty"`
	Visible    bool       `json:"visible,omitempty"`
	Parameters Parameters `json:"parameters,omitempty"`
}

// Outcome classifies what the pipeline did with one action.
type Outcome string

const (
	Applied Outcome = "applied"
	Skipped Outcome = "skipped"
)

// Result reports the per-action outcome of a batch. A skipped action never
// aborts the rest of the batch; Reason says why it was skipped.
type Result struct {
	Action  Action
	Outcome Outcome
	Reason  string
}
