// Package console is the prompt bar at the bottom of the screen. It is
// shown/hidden with ESC. When open it captures typing and draws the recent
// event log above the input line; when closed nothing is drawn and the
// viewer's hotkeys stay live.
package console

import (
	"unicode/utf8"

	rl "github.com/gen2brain/raylib-go/raylib"

	"carmod-engine/internal/logger"
)

const (
	BarHeight = 40
	prompt    = "> "
	fontSize  = 20
	padding   = 8
	// Number of log lines drawn above the input bar when the console is open.
	maxLinesOnScreen = 12
	lineHeight       = fontSize + 4
)

var (
	barColor    = rl.NewColor(30, 30, 38, 255)
	lineColor   = rl.NewColor(70, 70, 90, 255)
	historyBg   = rl.NewColor(18, 18, 24, 240)
	historyText = rl.NewColor(180, 180, 190, 255)
)

// Console owns the input buffer. Submitted lines go to OnPrompt, which is
// called in a goroutine so a slow interpreter never stalls the frame loop.
type Console struct {
	log      *logger.Logger
	inputBuf string
	open     bool
	OnPrompt func(line string)
}

// New returns a closed console; press ESC to open it.
func New(log *logger.Logger) *Console {
	return &Console{log: log}
}

// IsOpen reports whether the console is visible and capturing keyboard input.
func (c *Console) IsOpen() bool {
	return c.open
}

// Update handles ESC (toggle), and when open: typing, paste, backspace,
// enter. Call once per frame before any hotkey handling.
func (c *Console) Update() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		c.open = !c.open
	}
	if !c.open {
		return
	}
	if rl.IsKeyPressed(rl.KeyV) && (rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) || rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)) {
		if pasted := rl.GetClipboardText(); pasted != "" {
			c.inputBuf += pasted
		}
	} else {
		for {
			ch := rl.GetCharPressed()
			if ch == 0 {
				break
			}
			c.inputBuf += string(rune(ch))
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) && len(c.inputBuf) > 0 {
		_, size := utf8.DecodeLastRuneInString(c.inputBuf)
		c.inputBuf = c.inputBuf[:len(c.inputBuf)-size]
	}
	if (rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter)) && c.inputBuf != "" {
		line := c.inputBuf
		c.inputBuf = ""
		c.log.Log("> %s", line)
		if c.OnPrompt != nil {
			go c.OnPrompt(line)
		}
	}
}

// Draw draws the input bar and the recent log lines above it when open.
func (c *Console) Draw() {
	if !c.open {
		return
	}
	screenW := int(rl.GetScreenWidth())
	screenH := int(rl.GetScreenHeight())
	barY := screenH - BarHeight

	historyHeight := maxLinesOnScreen * lineHeight
	historyY := barY - historyHeight
	if historyY < 0 {
		historyHeight = barY
		historyY = 0
	}
	if historyHeight > 0 {
		rl.DrawRectangle(0, int32(historyY), int32(screenW), int32(historyHeight), historyBg)
	}
	lines := c.log.Lines()
	start := 0
	if len(lines) > maxLinesOnScreen {
		start = len(lines) - maxLinesOnScreen
	}
	for i := start; i < len(lines); i++ {
		y := historyY + (i-start)*lineHeight + padding
		line := lines[i]
		if len(line) > 200 {
			line = line[:197] + "..."
		}
		rl.DrawText(line, int32(padding), int32(y), int32(fontSize), historyText)
	}

	rl.DrawRectangle(0, int32(barY), int32(screenW), int32(BarHeight), barColor)
	rl.DrawRectangle(0, int32(barY), int32(screenW), 1, lineColor)
	rl.DrawText(prompt+c.inputBuf+"|", int32(padding), int32(barY+padding), int32(fontSize), rl.White)
}
