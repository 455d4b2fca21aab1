// Package inspector renders a live component panel for a bird, driven by
// inspect struct tags instead of hard-coded field lists.
package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/Software-Cat/MLHummingbirds/geom"
)

// widget selects how a field is rendered.
type widget int

const (
	widgetAuto widget = iota
	widgetLabel
	widgetBar
	widgetAngle
	widgetBool
	widgetSkip
)

// field is one component value with rendering hints from its tag.
type field struct {
	name    string
	value   any
	widget  widget
	options map[string]string
}

// parseTag parses an inspect struct tag.
// Format: `inspect:"widget[,option:value...]"`
// Examples:
//
//	`inspect:"bar,max:10"`
//	`inspect:"angle"`
//	`inspect:"label,fmt:%.1f"`
//	`inspect:"skip"`
func parseTag(tag string) (widget, map[string]string) {
	options := make(map[string]string)
	if tag == "" {
		return widgetAuto, options
	}

	parts := strings.Split(tag, ",")
	var w widget
	switch strings.TrimSpace(parts[0]) {
	case "label":
		w = widgetLabel
	case "bar":
		w = widgetBar
	case "angle":
		w = widgetAngle
	case "bool":
		w = widgetBool
	case "skip":
		w = widgetSkip
	default:
		w = widgetAuto
	}

	for _, part := range parts[1:] {
		kv := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(kv) == 2 {
			options[kv[0]] = kv[1]
		}
	}
	return w, options
}

// extractFields walks a component struct and returns its renderable fields.
// Embedded structs are flattened the way Go promotes their fields.
func extractFields(component any) []field {
	v := reflect.ValueOf(component)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	var fields []field

	for i := 0; i < v.NumField(); i++ {
		sf := t.Field(i)
		fv := v.Field(i)

		if !sf.IsExported() {
			continue
		}

		if sf.Anonymous && fv.Kind() == reflect.Struct {
			fields = append(fields, extractFields(fv.Interface())...)
			continue
		}

		w, options := parseTag(sf.Tag.Get("inspect"))
		if w == widgetSkip {
			continue
		}
		if w == widgetAuto {
			w = autoWidget(fv)
		}

		fields = append(fields, field{
			name:    sf.Name,
			value:   fv.Interface(),
			widget:  w,
			options: options,
		})
	}
	return fields
}

// autoWidget chooses a widget for untagged fields.
func autoWidget(v reflect.Value) widget {
	if v.Kind() == reflect.Bool {
		return widgetBool
	}
	return widgetLabel
}

// formatValue formats a field value for display.
func formatValue(value any, fmtStr string) string {
	if vec, ok := value.(geom.Vec3); ok {
		return fmt.Sprintf("(%.2f, %.2f, %.2f)", vec.X, vec.Y, vec.Z)
	}
	if fmtStr == "" {
		switch v := value.(type) {
		case float32:
			return fmt.Sprintf("%.2f", v)
		case float64:
			return fmt.Sprintf("%.2f", v)
		default:
			return fmt.Sprintf("%v", value)
		}
	}
	return fmt.Sprintf(fmtStr, value)
}

// floatValue widens numeric field values for bars and dials.
func floatValue(value any) (float32, bool) {
	switch v := value.(type) {
	case float32:
		return v, true
	case float64:
		return float32(v), true
	case int:
		return float32(v), true
	case int32:
		return float32(v), true
	case int64:
		return float32(v), true
	case uint32:
		return float32(v), true
	default:
		return 0, false
	}
}

// maxOption returns the bar scale from options, defaulting to 1.
func maxOption(options map[string]string) float32 {
	if s, ok := options["max"]; ok {
		if m, err := strconv.ParseFloat(s, 32); err == nil {
			return float32(m)
		}
	}
	return 1
}
