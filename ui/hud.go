// Package ui renders the HUD and the flight tuning panel.
package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title          string
	Training       bool
	State          string
	Countdown      float64 // seconds until the match starts
	TimeLeft       float64 // match clock, seconds
	PlayerNectar   float32
	OpponentNectar float32
	PatchNectar    float32
	Episode        int
	EpisodeReward  float32
	Winner         string // game-over banner, empty otherwise
	Speed          int
	FPS            int32
	Paused         bool
	CameraMode     string
	ScreenWidth    int32
	ScreenHeight   int32
}

// HUD renders the main heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	// Title
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	// Simulation info
	rl.DrawText(
		fmt.Sprintf("%s | Speed: %dx | FPS: %d | Camera: %s", data.State, data.Speed, data.FPS, data.CameraMode),
		10, 35, 16, rl.LightGray,
	)

	if data.Training {
		rl.DrawText(
			fmt.Sprintf("Episode: %d | Reward: %.2f | Nectar: %.2f", data.Episode, data.EpisodeReward, data.PlayerNectar),
			10, 55, 16, rl.LightGray,
		)
	} else {
		rl.DrawText(
			fmt.Sprintf("You: %.2f | Opponent: %.2f | Flowers: %.2f", data.PlayerNectar, data.OpponentNectar, data.PatchNectar),
			10, 55, 16, rl.LightGray,
		)
		rl.DrawText(
			fmt.Sprintf("Time left: %s", clock(data.TimeLeft)),
			10, 75, 16, rl.LightGray,
		)
	}

	// Status
	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 95, 16, rl.Yellow)

	if data.Countdown > 0 {
		h.drawCountdown(data)
	}
	if data.Winner != "" {
		h.drawWinner(data)
	}
}

// drawCountdown paints the big pre-match number in the screen center.
func (h *HUD) drawCountdown(data HUDData) {
	text := fmt.Sprintf("%d", int(math.Ceil(data.Countdown)))
	const size = 96
	x := (data.ScreenWidth - rl.MeasureText(text, size)) / 2
	y := data.ScreenHeight/2 - size/2
	rl.DrawText(text, x, y, size, rl.White)
}

// drawWinner paints the game-over banner.
func (h *HUD) drawWinner(data HUDData) {
	const size = 48
	x := (data.ScreenWidth - rl.MeasureText(data.Winner, size)) / 2
	y := data.ScreenHeight/2 - size
	rl.DrawText(data.Winner, x, y, size, rl.Gold)

	hint := "Press R for a rematch"
	hx := (data.ScreenWidth - rl.MeasureText(hint, 20)) / 2
	rl.DrawText(hint, hx, y+size+12, 20, rl.LightGray)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// clock formats seconds as m:ss for the match timer.
func clock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	whole := int(seconds)
	return fmt.Sprintf("%d:%02d", whole/60, whole%60)
}
