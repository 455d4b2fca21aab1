package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/Software-Cat/MLHummingbirds/camera"
	"github.com/Software-Cat/MLHummingbirds/geom"
	"github.com/Software-Cat/MLHummingbirds/ui"
)

const controlsLegend = "SPACE: Pause | < >: Speed | TAB: Tuning | I: Inspect | O: Next bird | C: Camera | HOME: Reset view | R: Rematch | F11: Fullscreen"

// Scene palette
var (
	skyColor    = rl.Color{R: 178, G: 216, B: 235, A: 255}
	grassLow    = rl.Color{R: 88, G: 124, B: 68, A: 255}
	grassHigh   = rl.Color{R: 148, G: 182, B: 104, A: 255}
	wallColor   = rl.Color{R: 120, G: 130, B: 140, A: 90}
	stemColor   = rl.Color{R: 58, G: 98, B: 52, A: 255}
	beakColor   = rl.Color{R: 45, G: 40, B: 38, A: 255}
	nectarColor = rl.Color{R: 255, G: 202, B: 44, A: 255}
	targetColor = rl.Color{R: 255, G: 255, B: 255, A: 120}
	birdColors  = [2]rl.Color{{R: 62, G: 178, B: 168, A: 255}, {R: 216, G: 118, B: 54, A: 255}}
)

func vec(v geom.Vec3) rl.Vector3 {
	return rl.Vector3{X: v.X, Y: v.Y, Z: v.Z}
}

// cacheTerrainGrid samples the heightfield once at the configured grid step.
// The terrain never changes after construction, so drawing reuses this.
func (s *Session) cacheTerrainGrid() {
	radius := s.cfg.Derived.AreaRadius32
	s.gridStep = float32(s.cfg.Terrain.GridStep)
	s.gridN = int(2*radius/s.gridStep) + 1
	s.heights = make([]float32, s.gridN*s.gridN)
	for ix := 0; ix < s.gridN; ix++ {
		x := -radius + float32(ix)*s.gridStep
		for iz := 0; iz < s.gridN; iz++ {
			z := -radius + float32(iz)*s.gridStep
			s.heights[ix*s.gridN+iz] = s.terrain.HeightAt(x, z)
		}
	}
}

// Draw renders one frame: the 3D arena, then the HUD on top.
func (s *Session) Draw() {
	s.perf.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(skyColor)

	if s.cam.Mode == camera.ModeChase {
		player := s.birds[BirdPlayer]
		pos := s.posMap.Get(player.Entity())
		rot := s.rotMap.Get(player.Entity())
		s.cam.Follow(pos.Vec3, rot.Yaw, rl.GetFrameTime())
	}

	rl.BeginMode3D(s.camera3D())
	s.drawTerrain()
	s.drawArenaShell()
	s.drawPlants()
	s.drawBirds()
	rl.EndMode3D()

	s.drawHUD()
	s.drawInspector()
	if s.showPanel {
		if ui.DrawTuningPanel(&s.tuning, &s.showLines) {
			s.applyTuning()
		}
	}

	rl.EndDrawing()
}

func (s *Session) camera3D() rl.Camera3D {
	return rl.Camera3D{
		Position:   vec(s.cam.Eye()),
		Target:     vec(s.cam.Focus),
		Up:         rl.Vector3{Y: 1},
		Fovy:       60,
		Projection: rl.CameraPerspective,
	}
}

// drawTerrain triangulates the cached height grid. Quads outside the arena
// circle are skipped, leaving a round island.
func (s *Session) drawTerrain() {
	radius := s.cfg.Derived.AreaRadius32
	maxH := s.terrain.MaxHeight()
	if maxH <= 0 {
		maxH = 1
	}

	for ix := 0; ix < s.gridN-1; ix++ {
		x := -radius + float32(ix)*s.gridStep
		for iz := 0; iz < s.gridN-1; iz++ {
			z := -radius + float32(iz)*s.gridStep

			cx := x + s.gridStep/2
			cz := z + s.gridStep/2
			if cx*cx+cz*cz > radius*radius {
				continue
			}

			h00 := s.heights[ix*s.gridN+iz]
			h10 := s.heights[(ix+1)*s.gridN+iz]
			h01 := s.heights[ix*s.gridN+iz+1]
			h11 := s.heights[(ix+1)*s.gridN+iz+1]

			v00 := rl.Vector3{X: x, Y: h00, Z: z}
			v10 := rl.Vector3{X: x + s.gridStep, Y: h10, Z: z}
			v01 := rl.Vector3{X: x, Y: h01, Z: z + s.gridStep}
			v11 := rl.Vector3{X: x + s.gridStep, Y: h11, Z: z + s.gridStep}

			t := (h00 + h10 + h01 + h11) / (4 * maxH)
			col := lerpColor(grassLow, grassHigh, geom.Clamp01(t))
			if (ix+iz)%2 == 0 {
				col = lerpColor(col, grassHigh, 0.12)
			}

			// Counterclockwise from above so the faces point up
			rl.DrawTriangle3D(v00, v01, v11, col)
			rl.DrawTriangle3D(v00, v11, v10, col)
		}
	}
}

// drawArenaShell draws the cylindrical wall the birds are confined to.
func (s *Session) drawArenaShell() {
	radius := s.cfg.Derived.AreaRadius32
	ceiling := float32(s.cfg.Arena.CeilingHeight)
	rl.DrawCylinderWires(rl.Vector3{}, radius, radius, ceiling, 48, wallColor)
}

// drawPlants draws stems, petals, and the nectar markers of full flowers.
func (s *Session) drawPlants() {
	petalRadius := float32(s.cfg.Flora.PetalRadius)
	nectarRadius := float32(s.cfg.Flora.NectarRadius)

	for i := 0; i < s.patch.PlantCount(); i++ {
		base, tip, radius := s.patch.Stem(i)
		rl.DrawCylinderEx(vec(base), vec(tip), radius, radius*0.7, 8, stemColor)
	}

	for _, flower := range s.patch.Flowers() {
		center := s.patch.FlowerCenter(flower)
		up := s.patch.FlowerUp(flower)
		c := s.patch.BlossomColor(flower)

		petalCenter := center.Sub(up.Scale(nectarRadius))
		rl.DrawSphere(vec(petalCenter), petalRadius*0.6, rl.Color{R: c.R, G: c.G, B: c.B, A: c.A})

		if s.patch.HasNectar(flower) {
			rl.DrawSphere(vec(center), nectarRadius, nectarColor)
		}
	}
}

// drawBirds draws each bird as a body sphere with a tapered beak, plus the
// optional line to its tracked flower.
func (s *Session) drawBirds() {
	bodyRadius := float32(s.cfg.Flight.BodyRadius)
	tipRadius := float32(s.cfg.Flight.BeakTipRadius)

	for _, b := range s.birds {
		pos := s.posMap.Get(b.Entity())
		tip := b.BeakTip()

		rl.DrawSphere(vec(pos.Vec3), bodyRadius, birdColors[b.ID%2])
		rl.DrawCylinderEx(vec(pos.Vec3), vec(tip), bodyRadius*0.35, tipRadius, 8, beakColor)

		if s.showLines {
			if flower, ok := b.NearestFlower(); ok {
				rl.DrawLine3D(vec(tip), vec(s.patch.FlowerCenter(flower)), targetColor)
			}
		}
	}
}

// drawInspector shows live component state for the selected bird.
func (s *Session) drawInspector() {
	if !s.inspect.Visible() {
		return
	}

	target := s.inspect.Target()
	if target >= len(s.birds) {
		target = 0
	}
	b := s.birds[target]
	e := b.Entity()

	title := "Player bird"
	if target == BirdOpponent {
		title = "Opponent bird"
	}

	s.inspect.Draw(title, []any{
		s.posMap.Get(e),
		s.velMap.Get(e),
		s.rotMap.Get(e),
		s.flightMap.Get(e),
		s.contactMap.Get(e),
	})
}

// drawHUD assembles the frame's HUD data and hands it to the ui package.
func (s *Session) drawHUD() {
	d := ui.HUDData{
		Title:        "Hummingbirds",
		Training:     s.opts.Training,
		PatchNectar:  s.patch.TotalNectar(),
		Speed:        s.stepsPerUpdate,
		FPS:          rl.GetFPS(),
		Paused:       s.paused,
		CameraMode:   s.cam.Mode.String(),
		ScreenWidth:  int32(rl.GetScreenWidth()),
		ScreenHeight: int32(rl.GetScreenHeight()),
	}

	if s.opts.Training {
		b := s.birds[0]
		d.State = "training"
		d.Episode = s.episode
		d.EpisodeReward = b.Reward
		d.PlayerNectar = b.NectarObtained
	} else {
		d.State = s.state.String()
		d.PlayerNectar = s.birds[BirdPlayer].NectarObtained
		d.OpponentNectar = s.birds[BirdOpponent].NectarObtained
		if s.state == StateCountdown {
			d.Countdown = s.CountdownSeconds()
		}
		if s.state == StatePlaying || s.state == StateGameOver {
			d.TimeLeft = s.MatchSecondsLeft()
		}
		if s.state == StateGameOver {
			switch s.winner {
			case BirdPlayer:
				d.Winner = "You win!"
			case BirdOpponent:
				d.Winner = "Opponent wins!"
			default:
				d.Winner = "Draw"
			}
		}
	}

	s.hud.Draw(d)
	s.hud.DrawControls(d.ScreenWidth, d.ScreenHeight, controlsLegend)
}

func lerpColor(a, b rl.Color, t float32) rl.Color {
	return rl.Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: uint8(float32(a.A) + (float32(b.A)-float32(a.A))*t),
	}
}
