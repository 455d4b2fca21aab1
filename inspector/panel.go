package inspector

import (
	"fmt"
	"math"
	"reflect"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/Software-Cat/MLHummingbirds/geom"
)

// Panel dimensions
const (
	panelWidth   = 260
	panelPadding = 10
	panelX       = int32(10)
	panelY       = int32(130)
)

// Panel colors
var (
	colorPanelBg   = rl.Color{R: 30, G: 30, B: 35, A: 240}
	colorPanelLine = rl.Color{R: 70, G: 70, B: 80, A: 255}
	colorSection   = rl.Color{R: 200, G: 200, B: 220, A: 255}
	colorText      = rl.Color{R: 220, G: 220, B: 220, A: 255}
	colorTextDim   = rl.Color{R: 150, G: 150, B: 150, A: 255}
	colorBarBg     = rl.Color{R: 40, G: 40, B: 40, A: 255}
	colorBarFill   = rl.Color{R: 100, G: 180, B: 100, A: 255}
	colorNeedle    = rl.Color{R: 255, G: 200, B: 100, A: 255}
	colorBoolOn    = rl.Color{R: 100, G: 200, B: 100, A: 255}
	colorBoolOff   = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

// Inspector tracks which bird the component panel is showing.
type Inspector struct {
	visible bool
	target  int
}

// NewInspector creates a hidden inspector pointed at the first bird.
func NewInspector() *Inspector {
	return &Inspector{}
}

// Toggle shows or hides the panel.
func (ins *Inspector) Toggle() { ins.visible = !ins.visible }

// Visible reports whether the panel is shown.
func (ins *Inspector) Visible() bool { return ins.visible }

// Target returns the index of the inspected bird.
func (ins *Inspector) Target() int { return ins.target }

// CycleTarget moves to the next of n birds.
func (ins *Inspector) CycleTarget(n int) {
	if n > 0 {
		ins.target = (ins.target + 1) % n
	}
}

// Draw renders the panel: a title, then one tagged section per component.
func (ins *Inspector) Draw(title string, components []any) {
	if !ins.visible {
		return
	}

	height := ins.measure(components)
	rl.DrawRectangle(panelX, panelY, panelWidth, height, colorPanelBg)
	rl.DrawRectangleLines(panelX, panelY, panelWidth, height, colorPanelLine)

	x := panelX + panelPadding
	y := panelY + panelPadding

	rl.DrawText(title, x, y, 18, rl.White)
	y += 26

	for _, comp := range components {
		y += drawSection(x, y, comp)
	}
}

// measure computes the panel height for the given components.
func (ins *Inspector) measure(components []any) int32 {
	h := int32(panelPadding)*2 + 26
	for _, comp := range components {
		h += 20 // section header
		for _, f := range extractFields(comp) {
			h += fieldHeight(f)
		}
		h += 6
	}
	return h
}

// drawSection renders one component's header and fields. Returns the height
// consumed.
func drawSection(x, y int32, comp any) int32 {
	t := reflect.TypeOf(comp)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	rl.DrawText(t.Name(), x, y, 14, colorSection)
	used := int32(20)

	for _, f := range extractFields(comp) {
		used += drawField(x+8, y+used, f)
	}
	return used + 6
}

// fieldHeight mirrors drawField's per-widget heights for measuring.
func fieldHeight(f field) int32 {
	if f.widget == widgetAngle {
		if _, ok := floatValue(f.value); ok {
			return 44
		}
	}
	return 18
}

// drawField renders a field with its widget. Returns the height consumed.
func drawField(x, y int32, f field) int32 {
	switch f.widget {
	case widgetBar:
		if v, ok := floatValue(f.value); ok {
			return drawBar(x, y, f.name, v, maxOption(f.options))
		}
		return drawLabel(x, y, f)

	case widgetAngle:
		if v, ok := floatValue(f.value); ok {
			return drawAngle(x, y, f.name, v)
		}
		return drawLabel(x, y, f)

	case widgetBool:
		if v, ok := f.value.(bool); ok {
			return drawBool(x, y, f.name, v)
		}
		return drawLabel(x, y, f)

	default:
		return drawLabel(x, y, f)
	}
}

// drawLabel renders a name: value line.
func drawLabel(x, y int32, f field) int32 {
	text := formatValue(f.value, f.options["fmt"])
	rl.DrawText(fmt.Sprintf("%s: %s", f.name, text), x, y, 14, colorText)
	return 18
}

// drawBar renders a horizontal fill bar scaled to the tag's max.
func drawBar(x, y int32, name string, value, maxVal float32) int32 {
	ratio := geom.Clamp01(value / maxVal)

	rl.DrawText(name, x, y, 14, colorTextDim)

	barX := x + 90
	barWidth := int32(100)
	barHeight := int32(14)
	rl.DrawRectangle(barX, y, barWidth, barHeight, colorBarBg)
	rl.DrawRectangle(barX, y, int32(float32(barWidth)*ratio), barHeight, colorBarFill)
	rl.DrawText(fmt.Sprintf("%.2f", value), barX+barWidth+5, y, 14, colorTextDim)

	return 18
}

// drawAngle renders a dial with a needle. The value is in degrees.
func drawAngle(x, y int32, name string, degrees float32) int32 {
	size := int32(36)
	centerX := x + 90 + size/2
	centerY := y + size/2

	rl.DrawText(name, x, y+size/2-7, 14, colorTextDim)

	rl.DrawCircle(centerX, centerY, float32(size/2), colorBarBg)
	rl.DrawCircleLines(centerX, centerY, float32(size/2), colorTextDim)

	rad := float64(degrees) * math.Pi / 180
	needleLen := float32(size/2 - 4)
	endX := float32(centerX) + needleLen*float32(math.Cos(rad))
	endY := float32(centerY) + needleLen*float32(math.Sin(rad))
	rl.DrawLineEx(
		rl.Vector2{X: float32(centerX), Y: float32(centerY)},
		rl.Vector2{X: endX, Y: endY},
		2,
		colorNeedle,
	)

	rl.DrawText(fmt.Sprintf("%.0f", degrees), centerX+size/2+8, y+size/2-7, 14, colorTextDim)

	return size + 8
}

// drawBool renders an on/off indicator.
func drawBool(x, y int32, name string, value bool) int32 {
	rl.DrawText(name, x, y, 14, colorTextDim)

	indicatorX := x + 90
	size := int32(14)
	color := colorBoolOff
	text := "OFF"
	if value {
		color = colorBoolOn
		text = "ON"
	}
	rl.DrawRectangle(indicatorX, y, size, size, color)
	rl.DrawText(text, indicatorX+size+5, y, 14, color)

	return 18
}
