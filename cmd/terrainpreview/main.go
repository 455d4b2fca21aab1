// Terrain preview tool - interactive island heightfield tuning with sliders.
//
// Usage: go run ./cmd/terrainpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/Software-Cat/MLHummingbirds/config"
	"github.com/Software-Cat/MLHummingbirds/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 256
)

// Height palette, shared stops with the in-game terrain colors.
var (
	seaColor  = rl.Color{R: 36, G: 74, B: 118, A: 255}
	grassLow  = rl.Color{R: 88, G: 124, B: 68, A: 255}
	grassHigh = rl.Color{R: 148, G: 182, B: 104, A: 255}
	rockColor = rl.Color{R: 196, G: 196, B: 186, A: 255}
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	seed := cfg.Terrain.Seed
	if seed == 0 {
		seed = 12345
	}
	// The slider drives the seed from here on.
	cfg.Terrain.Seed = 0

	rl.InitWindow(windowWidth, windowHeight, "Terrain Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	heights := make([]float32, gridSize*gridSize)
	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	sampleHeights(heights, gridSize, cfg, seed)
	updateTexture(texture, heights, gridSize, cfg.Terrain.Amplitude)
	needsRegen := false

	for !rl.WindowShouldClose() {
		if needsRegen {
			sampleHeights(heights, gridSize, cfg, seed)
			updateTexture(texture, heights, gridSize, cfg.Terrain.Amplitude)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Top-down island view
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(gridSize), Height: float32(gridSize)},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		// Height stats over the arena interior
		var minH, maxH, sum float32
		minH = float32(cfg.Terrain.Amplitude)
		count := 0
		for _, h := range heights {
			if h < 0 {
				continue // outside the arena circle
			}
			sum += h
			if h < minH {
				minH = h
			}
			if h > maxH {
				maxH = h
			}
			count++
		}
		var avgH float32
		if count > 0 {
			avgH = sum / float32(count)
		}

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Min: %.2f  Max: %.2f  Avg: %.2f", minH, maxH, avgH), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Arena radius: %.1f  Seed: %d", cfg.Derived.AreaRadius, seed), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Terrain Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		// Scale slider
		rl.DrawText("Scale (base noise frequency)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newScale := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.01", "0.50",
			float32(cfg.Terrain.Scale), 0.01, 0.5,
		)
		rl.DrawText(fmt.Sprintf("%.2f", cfg.Terrain.Scale), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newScale != float32(cfg.Terrain.Scale) {
			cfg.Terrain.Scale = float64(newScale)
			needsRegen = true
		}
		panelY += 35

		// Octaves slider
		rl.DrawText("Octaves (fractal detail level)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newOctaves := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", "6",
			float32(cfg.Terrain.Octaves), 1, 6,
		)
		rl.DrawText(fmt.Sprintf("%d", cfg.Terrain.Octaves), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(newOctaves) != cfg.Terrain.Octaves {
			cfg.Terrain.Octaves = int(newOctaves)
			needsRegen = true
		}
		panelY += 35

		// Lacunarity slider
		rl.DrawText("Lacunarity (frequency multiplier)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newLacunarity := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1.5", "4.0",
			float32(cfg.Terrain.Lacunarity), 1.5, 4.0,
		)
		rl.DrawText(fmt.Sprintf("%.2f", cfg.Terrain.Lacunarity), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newLacunarity != float32(cfg.Terrain.Lacunarity) {
			cfg.Terrain.Lacunarity = float64(newLacunarity)
			needsRegen = true
		}
		panelY += 35

		// Gain slider
		rl.DrawText("Gain (amplitude multiplier)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newGain := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.2", "0.9",
			float32(cfg.Terrain.Gain), 0.2, 0.9,
		)
		rl.DrawText(fmt.Sprintf("%.2f", cfg.Terrain.Gain), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newGain != float32(cfg.Terrain.Gain) {
			cfg.Terrain.Gain = float64(newGain)
			needsRegen = true
		}
		panelY += 35

		// Amplitude slider
		rl.DrawText("Amplitude (peak height)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newAmplitude := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.0", "3.0",
			float32(cfg.Terrain.Amplitude), 0, 3,
		)
		rl.DrawText(fmt.Sprintf("%.2f", cfg.Terrain.Amplitude), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newAmplitude != float32(cfg.Terrain.Amplitude) {
			cfg.Terrain.Amplitude = float64(newAmplitude)
			needsRegen = true
		}
		panelY += 35

		// Seed slider
		rl.DrawText("Seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "99999",
			float32(seed), 0, 99999,
		)
		rl.DrawText(fmt.Sprintf("%d", seed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int64(newSeed) != seed {
			seed = int64(newSeed)
			needsRegen = true
		}
		panelY += 45

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}

		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			defaults := config.MustLoad("")
			cfg.Terrain = defaults.Terrain
			cfg.Terrain.Seed = 0
			seed = 12345
			needsRegen = true
		}
		panelY += 55

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yamlLines := []string{
			"terrain:",
			fmt.Sprintf("  seed: %d", seed),
			fmt.Sprintf("  scale: %.2f", cfg.Terrain.Scale),
			fmt.Sprintf("  octaves: %d", cfg.Terrain.Octaves),
			fmt.Sprintf("  lacunarity: %.2f", cfg.Terrain.Lacunarity),
			fmt.Sprintf("  gain: %.2f", cfg.Terrain.Gain),
			fmt.Sprintf("  amplitude: %.2f", cfg.Terrain.Amplitude),
		}
		for _, line := range yamlLines {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		// Instructions
		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)

		// Copy to clipboard on C key
		if rl.IsKeyPressed(rl.KeyC) {
			yaml := fmt.Sprintf(`terrain:
  seed: %d
  scale: %.2f
  octaves: %d
  lacunarity: %.2f
  gain: %.2f
  amplitude: %.2f`,
				seed, cfg.Terrain.Scale, cfg.Terrain.Octaves,
				cfg.Terrain.Lacunarity, cfg.Terrain.Gain, cfg.Terrain.Amplitude)
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

// sampleHeights fills the grid from a freshly built terrain, top-down over the
// arena square. Samples outside the arena circle are marked with -1.
func sampleHeights(grid []float32, size int, cfg *config.Config, seed int64) {
	terrain := systems.NewTerrain(cfg, seed)
	radius := cfg.Derived.AreaRadius32

	for iz := 0; iz < size; iz++ {
		z := -radius + (float32(iz)+0.5)/float32(size)*2*radius
		for ix := 0; ix < size; ix++ {
			x := -radius + (float32(ix)+0.5)/float32(size)*2*radius

			if x*x+z*z > radius*radius {
				grid[iz*size+ix] = -1
				continue
			}
			grid[iz*size+ix] = terrain.HeightAt(x, z)
		}
	}
}

// updateTexture maps heights to a hypsometric gradient and uploads the result.
func updateTexture(texture rl.Texture2D, grid []float32, size int, amplitude float64) {
	maxH := float32(amplitude)
	if maxH <= 0 {
		maxH = 1
	}

	pixels := make([]color.RGBA, size*size)
	for i, h := range grid {
		var c rl.Color
		switch {
		case h < 0:
			// Outside the arena
			c = seaColor
		case h < maxH*0.6:
			// Low ground to mid slopes
			c = lerpColor(grassLow, grassHigh, h/(maxH*0.6))
		default:
			// Mid slopes to peaks
			c = lerpColor(grassHigh, rockColor, (h-maxH*0.6)/(maxH*0.4))
		}
		pixels[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
	}
	rl.UpdateTexture(texture, pixels)
}

func lerpColor(a, b rl.Color, t float32) rl.Color {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return rl.Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: 255,
	}
}
