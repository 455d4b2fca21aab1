package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// TuningValues are the flight parameters adjustable at runtime. They apply
// to every bird in the session.
type TuningValues struct {
	MoveForce  float32
	PitchSpeed float32
	YawSpeed   float32
}

const (
	panelWidth  = 260
	panelMargin = 10
)

// DrawTuningPanel draws the flight tuning sliders in the top right corner.
// Returns true when any value changed this frame.
func DrawTuningPanel(v *TuningValues, showLines *bool) bool {
	panelX := float32(rl.GetScreenWidth() - panelWidth - panelMargin)
	panelY := float32(panelMargin)
	changed := false

	rl.DrawRectangle(int32(panelX)-10, int32(panelY)-10, panelWidth+20, 230, rl.Color{R: 20, G: 25, B: 30, A: 200})

	rl.DrawText("Flight Tuning", int32(panelX), int32(panelY), 20, rl.White)
	panelY += 35

	// Thrust slider
	rl.DrawText("Move force", int32(panelX), int32(panelY), 14, rl.Gray)
	panelY += 18
	newForce := gui.SliderBar(
		rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 60, Height: 20},
		"0.5", "8.0",
		v.MoveForce, 0.5, 8.0,
	)
	rl.DrawText(fmt.Sprintf("%.1f", v.MoveForce), int32(panelX+panelWidth-50), int32(panelY+2), 16, rl.LightGray)
	if newForce != v.MoveForce {
		v.MoveForce = newForce
		changed = true
	}
	panelY += 35

	// Pitch rate slider
	rl.DrawText("Pitch speed (deg/s)", int32(panelX), int32(panelY), 14, rl.Gray)
	panelY += 18
	newPitch := gui.SliderBar(
		rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 60, Height: 20},
		"20", "300",
		v.PitchSpeed, 20, 300,
	)
	rl.DrawText(fmt.Sprintf("%.0f", v.PitchSpeed), int32(panelX+panelWidth-50), int32(panelY+2), 16, rl.LightGray)
	if newPitch != v.PitchSpeed {
		v.PitchSpeed = newPitch
		changed = true
	}
	panelY += 35

	// Yaw rate slider
	rl.DrawText("Yaw speed (deg/s)", int32(panelX), int32(panelY), 14, rl.Gray)
	panelY += 18
	newYaw := gui.SliderBar(
		rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 60, Height: 20},
		"20", "300",
		v.YawSpeed, 20, 300,
	)
	rl.DrawText(fmt.Sprintf("%.0f", v.YawSpeed), int32(panelX+panelWidth-50), int32(panelY+2), 16, rl.LightGray)
	if newYaw != v.YawSpeed {
		v.YawSpeed = newYaw
		changed = true
	}
	panelY += 35

	*showLines = gui.CheckBox(
		rl.Rectangle{X: panelX, Y: panelY, Width: 20, Height: 20},
		"Show target lines", *showLines,
	)

	return changed
}
