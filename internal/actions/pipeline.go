package actions

import (
	"fmt"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"carmod-engine/internal/garage"
	"carmod-engine/internal/parts"
	"carmod-engine/internal/scenegraph"
)

// Underglow accessory geometry and defaults.
const (
	underglowRadius    = 2.8
	underglowSegments  = 48
	underglowHeight    = 0.01
	underglowOpacity   = 0.85
	defaultGlowColor   = "#00ffff"
	defaultGlowIntense = 2.2
	defaultLift        = 0.1
)

// Luxury preset material values.
const (
	luxuryBodyColor = "#202020"
	luxuryMetalness = 0.8
	luxuryRoughness = 0.25
	luxuryGlowColor = "#ffd6a0"
	luxuryGlowLevel = 1.6
)

// Applier runs Action batches against the garage's current scene. Procedural
// accessories it creates are tracked in a registry keyed by accessory kind,
// separate from the organic part registry, so repeated ADD_UNDERGLOW calls
// update the existing node instead of stacking duplicates. The accessory
// registry resets whenever the garage swaps models.
type Applier struct {
	garage *garage.Garage

	busy        atomic.Bool
	accessories map[string]*scenegraph.Node
	accessGen   uint64
}

// NewApplier returns an applier bound to g.
func NewApplier(g *garage.Garage) *Applier {
	return &Applier{
		garage:      g,
		accessories: make(map[string]*scenegraph.Node),
	}
}

// Busy reports whether a batch is currently being applied; the UI disables
// its affordances while true.
func (a *Applier) Busy() bool {
	return a.busy.Load()
}

// Apply runs the actions strictly in order against the current scene. With
// no scene loaded the whole batch is a no-op. Application is best-effort:
// a structurally invalid action (unknown type, empty resolution) is skipped
// and the rest of the batch continues. The returned results name each
// action's outcome; callers are free to ignore them.
func (a *Applier) Apply(batch []Action) []Result {
	a.busy.Store(true)
	defer a.busy.Store(false)

	root := a.garage.Root()
	if root == nil {
		return nil
	}
	a.resetAccessories()

	results := make([]Result, 0, len(batch))
	for _, act := range batch {
		results = append(results, a.applyOne(root, act))
	}
	return results
}

func (a *Applier) applyOne(root *scenegraph.Node, act Action) Result {
	switch act.Type {
	case MaterialEdit:
		return a.materialEdit(root, act)
	case TogglePart:
		return a.togglePart(root, act)
	case AddUnderglow:
		return a.addUnderglow(root, act.Parameters)
	case SetSuspension:
		return a.setSuspension(root, act)
	case SwapPreset:
		return a.swapPreset(root, act)
	default:
		return Result{Action: act, Outcome: Skipped, Reason: fmt.Sprintf("unknown action type %q", act.Type)}
	}
}

func (a *Applier) materialEdit(root *scenegraph.Node, act Action) Result {
	targets := parts.FindByAliases(root, Aliases(act.Target))
	if len(targets) == 0 {
		return Result{Action: act, Outcome: Skipped, Reason: "no parts matched target"}
	}
	p := act.Parameters
	edited := 0
	for _, leaf := range targets {
		if leaf.Material == nil {
			continue
		}
		m := leaf.Material.Clone()
		if p.Color != "" {
			if c, err := scenegraph.ParseHex(p.Color); err == nil {
				m.Base = c
			}
		}
		if p.Emissive != "" {
			if c, err := scenegraph.ParseHex(p.Emissive); err == nil {
				m.Emissive = c
			}
		}
		if p.Metalness != nil {
			m.Metalness = clamp01(float32(*p.Metalness))
		}
		if p.Roughness != nil {
			m.Roughness = clamp01(float32(*p.Roughness))
		}
		leaf.Material = m
		edited++
	}
	if edited == 0 {
		return Result{Action: act, Outcome: Skipped, Reason: "matched parts have no material"}
	}
	// Mirror base-color edits into the registry so the parts list stays true.
	if p.Color != "" {
		if c, err := scenegraph.ParseHex(p.Color); err == nil {
			for _, leaf := range targets {
				if part := a.garage.Parts().Find(leaf.Name); part != nil {
					part.Color = c.Hex()
				}
			}
		}
	}
	return Result{Action: act, Outcome: Applied}
}

func (a *Applier) togglePart(root *scenegraph.Node, act Action) Result {
	targets := parts.FindByAliases(root, Aliases(act.Target))
	if len(targets) == 0 {
		return Result{Action: act, Outcome: Skipped, Reason: "no parts matched target"}
	}
	for _, leaf := range targets {
		leaf.Visible = act.Visible
	}
	a.garage.Parts().SetVisibleWhereNameContains(act.Target, act.Visible)
	return Result{Action: act, Outcome: Applied}
}

// addUnderglow is an idempotent upsert: the first call creates the emissive
// disc under the vehicle, later calls restyle the existing one.
func (a *Applier) addUnderglow(root *scenegraph.Node, p Parameters) Result {
	color := scenegraph.MustParseHex(defaultGlowColor)
	if p.Color != "" {
		if c, err := scenegraph.ParseHex(p.Color); err == nil {
			color = c
		}
	}
	intensity := float32(defaultGlowIntense)
	if p.Intensity != nil {
		intensity = float32(*p.Intensity)
	}

	if glow, ok := a.accessories["underglow"]; ok && glow.Parent != nil {
		m := glow.Material.Clone()
		m.Emissive = color
		m.EmissiveIntensity = intensity
		glow.Material = m
		return Result{Action: Action{Type: AddUnderglow, Parameters: p}, Outcome: Applied}
	}

	glow := scenegraph.NewNode("underglow")
	glow.Mesh = scenegraph.Disc(underglowRadius, underglowSegments)
	glow.Material = &scenegraph.Material{
		Name:              "underglow",
		Base:              scenegraph.Color{},
		Emissive:          color,
		EmissiveIntensity: intensity,
		Roughness:         1,
		Opacity:           underglowOpacity,
	}
	glow.Local = mgl32.Translate3D(0, underglowHeight, 0)
	root.AddChild(glow)
	a.accessories["underglow"] = glow
	return Result{Action: Action{Type: AddUnderglow, Parameters: p}, Outcome: Applied}
}

// setSuspension lifts the whole model; repeated calls accumulate.
func (a *Applier) setSuspension(root *scenegraph.Node, act Action) Result {
	lift := float32(defaultLift)
	if act.Parameters.Lift != nil {
		lift = float32(*act.Parameters.Lift)
	}
	root.Local = mgl32.Translate3D(0, lift, 0).Mul4(root.Local)
	return Result{Action: act, Outcome: Applied}
}

// swapPreset expands a preset macro into the primitive actions above.
func (a *Applier) swapPreset(root *scenegraph.Node, act Action) Result {
	switch act.Parameters.Preset {
	case "sport_rims":
		a.togglePart(root, Action{Type: TogglePart, Target: string(CatRimOffroad), Visible: false})
		a.togglePart(root, Action{Type: TogglePart, Target: string(CatRimSport), Visible: true})
	case "offroad_rims":
		a.togglePart(root, Action{Type: TogglePart, Target: string(CatRimSport), Visible: false})
		a.togglePart(root, Action{Type: TogglePart, Target: string(CatRimOffroad), Visible: true})
	case "luxury_theme":
		metal, rough := luxuryMetalness, luxuryRoughness
		a.materialEdit(root, Action{
			Type:   MaterialEdit,
			Target: string(CatBody),
			Parameters: Parameters{
				Color:     luxuryBodyColor,
				Metalness: &metal,
				Roughness: &rough,
			},
		})
		level := luxuryGlowLevel
		a.addUnderglow(root, Parameters{Color: luxuryGlowColor, Intensity: &level})
	default:
		return Result{Action: act, Outcome: Skipped, Reason: fmt.Sprintf("unknown preset %q", act.Parameters.Preset)}
	}
	return Result{Action: act, Outcome: Applied}
}

// resetAccessories drops accessory bookkeeping left over from a previous
// model; the nodes themselves went away with the old root.
func (a *Applier) resetAccessories() {
	if gen := a.garage.Generation(); gen != a.accessGen {
		a.accessories = make(map[string]*scenegraph.Node)
		a.accessGen = gen
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
