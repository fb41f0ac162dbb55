package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"carmod-engine/internal/actions"
	"carmod-engine/internal/assets"
	"carmod-engine/internal/camera"
	"carmod-engine/internal/catalog"
	"carmod-engine/internal/config"
	"carmod-engine/internal/console"
	"carmod-engine/internal/env"
	"carmod-engine/internal/garage"
	"carmod-engine/internal/graphics"
	"carmod-engine/internal/interpreter"
	"carmod-engine/internal/logger"
	"carmod-engine/internal/render"
	"carmod-engine/internal/scenegraph"
)

const (
	carsPath      = "config/cars.yaml"
	loadTimeout   = 60 * time.Second
	promptTimeout = 30 * time.Second
	// raylib reports one wheel notch as 1.0; the zoom curve expects
	// pixel-scale deltas.
	wheelNotch = 100
)

// app ties the subsystems together. Loads and prompt interpretation run on
// goroutines; their results come back through channels and are folded into
// the scene on the frame loop, so every scene mutation happens on the main
// thread.
type app struct {
	log      *logger.Logger
	prefs    config.Prefs
	cat      *catalog.Catalog
	loader   *assets.Loader
	garage   *garage.Garage
	applier  *actions.Applier
	cam      *camera.Controller
	renderer *render.Renderer
	console  *console.Console
	interp   *interpreter.Interpreter

	carIdx  int
	carName string
	loadSeq atomic.Uint64
	loading atomic.Bool
	loaded  chan loadedModel
	pending chan []actions.Action
}

type loadedModel struct {
	root *scenegraph.Node
	file string
	seq  uint64
}

func main() {
	if err := env.Load(".env"); err != nil {
		println("env:", err.Error())
	}

	log := logger.New()
	prefs, err := config.Load()
	if err != nil {
		log.Log("config: %v, using defaults", err)
	}
	cat, err := catalog.Load(carsPath)
	if err != nil {
		log.Log("catalog: %v, using built-in list", err)
		cat = catalog.Default()
	}

	g := garage.New()
	a := &app{
		log:      log,
		prefs:    prefs,
		cat:      cat,
		loader:   assets.NewLoader(prefs.ModelsDir, cat),
		garage:   g,
		applier:  actions.NewApplier(g),
		cam:      camera.New(),
		renderer: render.New(),
		console:  console.New(log),
		loaded:   make(chan loadedModel, 1),
		pending:  make(chan []actions.Action, 4),
	}
	a.interp = newInterpreter(prefs, log)
	a.console.OnPrompt = a.handlePrompt
	a.carIdx = carIndex(cat, prefs.LastModel)
	a.requestLoad(cat.Cars[a.carIdx].File)

	graphics.Run(prefs.WindowW, prefs.WindowH, a.update, a.draw)

	if err := config.Save(a.prefs); err != nil {
		log.Log("config save: %v", err)
	}
}

// newInterpreter picks a chat backend from the environment. With no key set
// the console still works as a log viewer; prompts just report the problem.
func newInterpreter(prefs config.Prefs, log *logger.Logger) *interpreter.Interpreter {
	getModel := func() string { return prefs.AIModel }
	if key := os.Getenv(env.KeyOpenAI); key != "" {
		return interpreter.New(interpreter.NewOpenAI(key), getModel)
	}
	if key := os.Getenv(env.KeyGroq); key != "" {
		return interpreter.New(interpreter.NewGroq(key), getModel)
	}
	log.Log("no %s or %s set; prompts disabled", env.KeyOpenAI, env.KeyGroq)
	return nil
}

func carIndex(cat *catalog.Catalog, file string) int {
	for i, c := range cat.Cars {
		if c.File == file {
			return i
		}
	}
	return 0
}

// requestLoad starts an asynchronous model load. Only the newest request may
// publish; a slower earlier load that finishes late is discarded.
func (a *app) requestLoad(file string) {
	if car := a.cat.FindByFile(file); car != nil {
		a.carName = car.Name
	} else {
		a.carName = file
	}
	a.startLoad(file, func(ctx context.Context) (*scenegraph.Node, error) {
		return a.loader.Load(ctx, file)
	})
}

// requestDropped loads a model the user dragged onto the window. The file
// goes through the reader-based ingestion path with its size guard.
func (a *app) requestDropped(path string) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glb", ".gltf":
	default:
		a.log.Log("drop %s: not a .glb/.gltf model", filepath.Base(path))
		return
	}
	a.carName = filepath.Base(path)
	a.startLoad(path, func(_ context.Context) (*scenegraph.Node, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return a.loader.LoadFrom(f, filepath.Base(path))
	})
}

func (a *app) startLoad(file string, load func(context.Context) (*scenegraph.Node, error)) {
	seq := a.loadSeq.Add(1)
	a.loading.Store(true)
	a.log.Log("loading %s", filepath.Base(file))
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		root, err := load(ctx)
		if err != nil {
			a.log.Log("load %s: %v", filepath.Base(file), err)
			if seq == a.loadSeq.Load() {
				a.loading.Store(false)
			}
			return
		}
		if seq != a.loadSeq.Load() {
			return
		}
		a.loaded <- loadedModel{root: root, file: file, seq: seq}
	}()
}

// handlePrompt runs on its own goroutine per submitted line. The resulting
// actions are queued for the frame loop; they are never applied here.
func (a *app) handlePrompt(line string) {
	if a.interp == nil {
		a.log.Log("prompts disabled: no API key configured")
		return
	}
	if a.applier.Busy() {
		a.log.Log("still applying the previous request")
		return
	}
	var known []string
	for _, p := range a.garage.Parts().All() {
		known = append(known, p.Name)
	}
	ctx, cancel := context.WithTimeout(context.Background(), promptTimeout)
	defer cancel()
	acts, err := a.interp.Interpret(ctx, line, known)
	if err != nil {
		a.log.Log("interpret: %v", err)
		return
	}
	if len(acts) == 0 {
		a.log.Log("nothing to do")
		return
	}
	a.pending <- acts
}

func (a *app) update() {
	// Finished loads and interpreted actions fold in here, on the main
	// thread, before input is handled.
	select {
	case lm := <-a.loaded:
		if lm.seq == a.loadSeq.Load() {
			a.garage.Swap(lm.root)
			a.loading.Store(false)
			if a.cat.FindByFile(lm.file) != nil {
				a.prefs.LastModel = lm.file
			}
			a.log.Log("loaded %s, %d parts", filepath.Base(lm.file), a.garage.Parts().Len())
		}
	default:
	}
	if rl.IsFileDropped() {
		dropped := rl.LoadDroppedFiles()
		if len(dropped) > 0 {
			a.requestDropped(dropped[0])
		}
		rl.UnloadDroppedFiles()
	}
	select {
	case acts := <-a.pending:
		for _, res := range a.applier.Apply(acts) {
			if res.Outcome == actions.Applied {
				a.log.Log("applied %s %s", res.Action.Type, res.Action.Target)
			} else {
				a.log.Log("skipped %s %s: %s", res.Action.Type, res.Action.Target, res.Reason)
			}
		}
	default:
	}

	a.console.Update()
	a.updateCamera()
	if !a.console.IsOpen() {
		a.updateHotkeys()
	}
}

func (a *app) updateCamera() {
	pos := rl.GetMousePosition()
	switch {
	case rl.IsMouseButtonPressed(rl.MouseButtonLeft):
		a.cam.PointerDown(camera.ButtonPrimary, pos.X, pos.Y)
	case rl.IsMouseButtonPressed(rl.MouseButtonRight):
		a.cam.PointerDown(camera.ButtonSecondary, pos.X, pos.Y)
	case rl.IsMouseButtonPressed(rl.MouseButtonMiddle):
		a.cam.PointerDown(camera.ButtonAuxiliary, pos.X, pos.Y)
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) || rl.IsMouseButtonReleased(rl.MouseButtonRight) || rl.IsMouseButtonReleased(rl.MouseButtonMiddle) {
		a.cam.PointerUp()
	}
	if a.cam.Mode() != camera.Idle {
		a.cam.PointerMove(pos.X, pos.Y)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.cam.Wheel(wheel * wheelNotch)
	}
}

func (a *app) updateHotkeys() {
	if rl.IsKeyPressed(rl.KeyTab) && !a.loading.Load() {
		a.carIdx = (a.carIdx + 1) % len(a.cat.Cars)
		a.requestLoad(a.cat.Cars[a.carIdx].File)
	}
	if rl.IsKeyPressed(rl.KeyG) {
		a.prefs.GridVisible = !a.prefs.GridVisible
	}
	if rl.IsKeyPressed(rl.KeyE) {
		root := a.garage.Root()
		if root == nil {
			a.log.Log("nothing to export")
			return
		}
		path, err := assets.ExportFile(root, a.prefs.ExportDir)
		if err != nil {
			a.log.Log("export: %v", err)
			return
		}
		a.log.Log("exported %s", filepath.Base(path))
	}
}

func (a *app) draw() {
	a.renderer.Draw(a.garage.Root(), a.garage.Generation(), a.cam, a.prefs.GridVisible)
	a.drawHUD()
	a.console.Draw()
}

func (a *app) drawHUD() {
	status := a.carName
	if a.loading.Load() {
		status += "  (loading...)"
	}
	rl.DrawText(status, 12, 12, 20, rl.White)
	if last := a.log.Last(); last != "" && !a.console.IsOpen() {
		rl.DrawText(last, 12, int32(rl.GetScreenHeight())-28, 16, rl.Gray)
	}
	rl.DrawText("TAB car  G grid  E export  ESC console  drop a .glb to load it", 12, 40, 14, rl.Gray)
}
