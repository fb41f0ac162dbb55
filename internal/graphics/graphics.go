package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Run opens the viewer window and drives the continuous render loop. Each
// frame it calls update (input + pending scene swaps), then clears the
// screen and calls draw. The loop never suspends; loads and exports run on
// their own goroutines and publish results for update to pick up.
func Run(width, height int, update, draw func()) {
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(int32(width), int32(height), "CarMod Showdown")
	defer rl.CloseWindow()

	rl.SetExitKey(rl.KeyNull) // ESC toggles the console, not quit; close via window button
	rl.SetTargetFPS(60)

	for !rl.WindowShouldClose() {
		update()

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(11, 11, 15, 255))
		draw()
		rl.EndDrawing()
	}
}
