package actions

import "strings"

// Category is a semantic part grouping the interpreter is allowed to target.
// Targets outside this set fall back to the raw string as their only alias,
// so custom mesh names remain addressable.
type Category string

const (
	CatBody       Category = "body"
	CatRoof       Category = "roof"
	CatWindow     Category = "window"
	CatSpoiler    Category = "spoiler"
	CatGrille     Category = "grille"
	CatLightHead  Category = "light_head"
	CatLightTail  Category = "light_tail"
	CatMirror     Category = "mirror"
	CatHood       Category = "hood"
	CatTrunk      Category = "trunk"
	CatDiffuser   Category = "diffuser"
	CatSkirt      Category = "skirt"
	CatRimSport   Category = "rim_sport"
	CatRimOffroad Category = "rim_offroad"
	CatUnderglow  Category = "underglow"
)

// aliasTable maps each category to the authored-name substrings that
// identify it across the stock car assets.
var aliasTable = map[Category][]string{
	CatBody:       {"body", "car_body", "paint", "mesh_body"},
	CatRoof:       {"roof"},
	CatWindow:     {"glass", "window"},
	CatSpoiler:    {"spoiler", "wing"},
	CatGrille:     {"grille"},
	CatLightHead:  {"headlight", "front_light", "frontlight"},
	CatLightTail:  {"taillight", "rear_light", "rearlight"},
	CatMirror:     {"mirror"},
	CatHood:       {"hood", "bonnet"},
	CatTrunk:      {"trunk", "boot"},
	CatDiffuser:   {"diffuser"},
	CatSkirt:      {"skirt", "side_skirt", "sideskirt"},
	CatRimSport:   {"rim_sport", "sport_rim", "wheel_sport"},
	CatRimOffroad: {"rim_offroad", "offroad_rim", "wheel_offroad"},
	CatUnderglow:  {"underglow"},
}

// Aliases resolves a target string to its candidate name substrings. Unknown
// targets resolve to themselves.
func Aliases(target string) []string {
	t := Category(strings.ToLower(strings.TrimSpace(target)))
	if aliases, ok := aliasTable[t]; ok {
		return aliases
	}
	if t == "" {
		return nil
	}
	return []string{string(t)}
}

// Categories lists the known categories, for interpreter prompts and UI.
func Categories() []Category {
	out := make([]Category, 0, len(aliasTable))
	for c := range aliasTable {
		out = append(out, c)
	}
	return out
}
