package game

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/Software-Cat/MLHummingbirds/agent"
	"github.com/Software-Cat/MLHummingbirds/camera"
	"github.com/Software-Cat/MLHummingbirds/config"
)

// Bindings maps the rebindable flight controls to raylib key codes.
type Bindings struct {
	Forward   int32
	Backward  int32
	Left      int32
	Right     int32
	Up        int32
	Down      int32
	PitchUp   int32
	PitchDown int32
	YawLeft   int32
	YawRight  int32
}

// NewBindings resolves the configured key names. Unknown names are an error
// rather than a silently dead control.
func NewBindings(cfg config.InputConfig) (Bindings, error) {
	var b Bindings
	for _, k := range []struct {
		name string
		key  *int32
	}{
		{cfg.Forward, &b.Forward},
		{cfg.Backward, &b.Backward},
		{cfg.Left, &b.Left},
		{cfg.Right, &b.Right},
		{cfg.Up, &b.Up},
		{cfg.Down, &b.Down},
		{cfg.PitchUp, &b.PitchUp},
		{cfg.PitchDown, &b.PitchDown},
		{cfg.YawLeft, &b.YawLeft},
		{cfg.YawRight, &b.YawRight},
	} {
		code, err := keyFromName(k.name)
		if err != nil {
			return Bindings{}, err
		}
		*k.key = code
	}
	return b, nil
}

// keyFromName turns a config key name into a raylib key code. Single letters
// and digits map directly; the rest are named specials.
func keyFromName(name string) (int32, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if len(upper) == 1 {
		c := upper[0]
		if c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			return int32(c), nil
		}
	}
	switch upper {
	case "UP":
		return rl.KeyUp, nil
	case "DOWN":
		return rl.KeyDown, nil
	case "LEFT":
		return rl.KeyLeft, nil
	case "RIGHT":
		return rl.KeyRight, nil
	case "SPACE":
		return rl.KeySpace, nil
	case "LSHIFT":
		return rl.KeyLeftShift, nil
	case "RSHIFT":
		return rl.KeyRightShift, nil
	case "LCTRL":
		return rl.KeyLeftControl, nil
	case "RCTRL":
		return rl.KeyRightControl, nil
	case "ENTER":
		return rl.KeyEnter, nil
	}
	return 0, fmt.Errorf("unknown input key name %q", name)
}

// ReadAxes samples the held flight keys into heuristic axes.
func (b Bindings) ReadAxes() agent.Axes {
	var axes agent.Axes
	axes.Forward = axisValue(b.Forward, b.Backward)
	axes.Right = axisValue(b.Right, b.Left)
	axes.Up = axisValue(b.Up, b.Down)
	axes.Pitch = axisValue(b.PitchUp, b.PitchDown)
	axes.Yaw = axisValue(b.YawRight, b.YawLeft)
	return axes
}

// axisValue folds an opposing key pair into [-1,1].
func axisValue(positive, negative int32) float32 {
	v := float32(0)
	if rl.IsKeyDown(positive) {
		v++
	}
	if rl.IsKeyDown(negative) {
		v--
	}
	return v
}

// Update runs one frame of the graphical loop: input, then the configured
// number of fixed steps.
func (s *Session) Update() error {
	s.handleInput()

	for i := 0; i < s.stepsPerUpdate; i++ {
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// handleInput processes keyboard and mouse input.
func (s *Session) handleInput() {
	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		s.paused = !s.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && s.stepsPerUpdate > 1 {
		s.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && s.stepsPerUpdate < 10 {
		s.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		s.showPanel = !s.showPanel
	}

	if rl.IsKeyPressed(rl.KeyI) {
		s.inspect.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyO) {
		s.inspect.CycleTarget(len(s.birds))
	}

	if rl.IsKeyPressed(rl.KeyC) {
		if s.cam.Mode == camera.ModeOrbit {
			s.cam.Mode = camera.ModeChase
		} else {
			s.cam.Mode = camera.ModeOrbit
		}
	}

	if !s.opts.Training && s.state == StateGameOver && rl.IsKeyPressed(rl.KeyR) {
		s.Restart()
	}

	if !s.opts.Training {
		s.playerAxes = s.bindings.ReadAxes()
	}

	s.handleCameraInput()
}

// handleCameraInput processes orbit, dolly, and reset controls.
func (s *Session) handleCameraInput() {
	if s.cam.Mode == camera.ModeOrbit {
		if rl.IsMouseButtonDown(rl.MouseRightButton) {
			delta := rl.GetMouseDelta()
			s.cam.Orbit(delta.X*0.25, delta.Y*0.25)
		}
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		s.cam.Dolly(1 - wheel*0.1)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		s.cam.Reset()
	}
}
