package css

import (
	"strconv"
	"strings"
)

// Style is the computed inline style of one render node. Shorthands are
// expanded into longhands when set.
type Style struct {
	Properties map[string]string
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	val, ok := s.Properties[property]
	return val, ok
}

// Set stores a declaration. An empty value removes the property and, for a
// shorthand, every longhand it expands to.
func (s *Style) Set(property, value string) {
	property = strings.ToLower(strings.TrimSpace(property))
	value = strings.TrimSpace(value)
	if value == "" {
		s.Remove(property)
		return
	}
	expandShorthand(s, property, value)
}

// Remove deletes a property together with its longhands.
func (s *Style) Remove(property string) {
	delete(s.Properties, property)
	for _, long := range longhands(property) {
		delete(s.Properties, long)
	}
}

// Len returns the number of stored longhand declarations.
func (s *Style) Len() int { return len(s.Properties) }

func (s *Style) GetLength(property string) (float64, bool) {
	val, ok := s.Get(property)
	if !ok {
		return 0, false
	}
	return ParseLength(val)
}

// ParseLength parses a length value (e.g., "100px" or "100")
func ParseLength(val string) (float64, bool) {
	val = strings.TrimSpace(val)
	val = strings.TrimSuffix(val, "px")
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

// BoxEdge represents the four sides of a box (top, right, bottom, left)
type BoxEdge struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Horizontal returns Left + Right.
func (e BoxEdge) Horizontal() float64 { return e.Left + e.Right }

// Vertical returns Top + Bottom.
func (e BoxEdge) Vertical() float64 { return e.Top + e.Bottom }

func (s *Style) GetMargin() BoxEdge {
	return s.edge("margin-%s")
}

func (s *Style) GetPadding() BoxEdge {
	return s.edge("padding-%s")
}

func (s *Style) GetBorderWidth() BoxEdge {
	return s.edge("border-%s-width")
}

func (s *Style) edge(pattern string) BoxEdge {
	name := func(side string) string { return strings.Replace(pattern, "%s", side, 1) }
	return BoxEdge{
		Top:    s.getLengthOrZero(name("top")),
		Right:  s.getLengthOrZero(name("right")),
		Bottom: s.getLengthOrZero(name("bottom")),
		Left:   s.getLengthOrZero(name("left")),
	}
}

// getLengthOrZero returns the length value or 0 if not found
func (s *Style) getLengthOrZero(property string) float64 {
	val, ok := s.GetLength(property)
	if !ok {
		return 0
	}
	return val
}

func ParseInlineStyle(styleAttr string) *Style {
	style := NewStyle()
	for _, decl := range strings.Split(styleAttr, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		parts := strings.SplitN(decl, ":", 2)
		if len(parts) != 2 {
			continue
		}
		style.Set(parts[0], parts[1])
	}
	return style
}

var sides = []string{"top", "right", "bottom", "left"}

func longhands(property string) []string {
	switch property {
	case "margin", "padding":
		out := make([]string, len(sides))
		for i, side := range sides {
			out[i] = property + "-" + side
		}
		return out
	case "border", "border-width":
		out := []string{"border-width", "border-style", "border-color"}
		for _, side := range sides {
			out = append(out, "border-"+side+"-width")
		}
		return out
	}
	return nil
}

// expandShorthand expands shorthand CSS properties into individual properties
func expandShorthand(style *Style, property, value string) {
	switch property {
	case "margin", "padding":
		expandBoxProperty(style, property, value)
	case "border":
		expandBorderProperty(style, value)
	case "border-width":
		for _, side := range sides {
			style.Properties["border-"+side+"-width"] = value
		}
		style.Properties[property] = value
	default:
		style.Properties[property] = value
	}
}

// expandBoxProperty expands margin/padding shorthand
// Supports: "10px" (all), "10px 20px" (vertical horizontal),
// "10px 20px 30px" (top h bottom), "10px 20px 30px 40px" (t r b l)
func expandBoxProperty(style *Style, prefix, value string) {
	parts := strings.Fields(value)
	var t, r, b, l string
	switch len(parts) {
	case 1:
		t, r, b, l = parts[0], parts[0], parts[0], parts[0]
	case 2:
		t, r, b, l = parts[0], parts[1], parts[0], parts[1]
	case 3:
		t, r, b, l = parts[0], parts[1], parts[2], parts[1]
	case 4:
		t, r, b, l = parts[0], parts[1], parts[2], parts[3]
	default:
		return
	}
	style.Properties[prefix+"-top"] = t
	style.Properties[prefix+"-right"] = r
	style.Properties[prefix+"-bottom"] = b
	style.Properties[prefix+"-left"] = l
}

// expandBorderProperty expands border shorthand
// Format: "1px solid black" or "2px dotted #FF0000"
func expandBorderProperty(style *Style, value string) {
	for _, part := range strings.Fields(value) {
		switch {
		case strings.HasSuffix(part, "px"):
			style.Properties["border-width"] = part
			for _, side := range sides {
				style.Properties["border-"+side+"-width"] = part
			}
		case part == "solid" || part == "dotted" || part == "dashed" || part == "double" || part == "none":
			style.Properties["border-style"] = part
		default:
			style.Properties["border-color"] = part
		}
	}
}

type Color struct {
	R, G, B uint8
}

var namedColors = map[string]Color{
	"red":     {255, 0, 0},
	"green":   {0, 128, 0},
	"blue":    {0, 0, 255},
	"yellow":  {255, 255, 0},
	"cyan":    {0, 255, 255},
	"magenta": {255, 0, 255},
	"white":   {255, 255, 255},
	"black":   {0, 0, 0},
	"gray":    {128, 128, 128},
	"orange":  {255, 165, 0},
	"purple":  {128, 0, 128},
	"pink":    {255, 192, 203},
	"brown":   {165, 42, 42},
	"lime":    {0, 255, 0},
	"navy":    {0, 0, 128},
	"teal":    {0, 128, 128},
	"silver":  {192, 192, 192},
}

// ParseColor accepts named colors, #rgb, #rrggbb and rgb(r, g, b).
func ParseColor(colorStr string) (Color, bool) {
	colorStr = strings.ToLower(strings.TrimSpace(colorStr))
	if color, ok := namedColors[colorStr]; ok {
		return color, true
	}
	if strings.HasPrefix(colorStr, "#") {
		return parseHexColor(colorStr[1:])
	}
	if strings.HasPrefix(colorStr, "rgb(") && strings.HasSuffix(colorStr, ")") {
		parts := strings.Split(colorStr[4:len(colorStr)-1], ",")
		if len(parts) != 3 {
			return Color{}, false
		}
		var c [3]uint8
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || n < 0 || n > 255 {
				return Color{}, false
			}
			c[i] = uint8(n)
		}
		return Color{c[0], c[1], c[2]}, true
	}
	return Color{}, false
}

func parseHexColor(hex string) (Color, bool) {
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Color{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, false
	}
	return Color{uint8(v >> 16), uint8(v >> 8), uint8(v)}, true
}

// GetFontSize returns the font-size in pixels (default: 16px)
func (s *Style) GetFontSize() float64 {
	if size, ok := s.GetLength("font-size"); ok {
		return size
	}
	return 16.0
}

// GetColor returns the text color (default: black)
func (s *Style) GetColor() Color {
	if colorStr, ok := s.Get("color"); ok {
		if color, ok := ParseColor(colorStr); ok {
			return color
		}
	}
	return Color{0, 0, 0}
}

// GetBackgroundColor returns the background color, if any.
func (s *Style) GetBackgroundColor() (Color, bool) {
	for _, prop := range []string{"background-color", "background"} {
		if v, ok := s.Get(prop); ok {
			if c, ok := ParseColor(v); ok {
				return c, true
			}
		}
	}
	return Color{}, false
}

// GetBorderColor returns the border color (default: the text color).
func (s *Style) GetBorderColor() Color {
	if v, ok := s.Get("border-color"); ok {
		if c, ok := ParseColor(v); ok {
			return c
		}
	}
	return s.GetColor()
}

// DisplayType represents the display property value
type DisplayType string

const (
	DisplayBlock       DisplayType = "block"
	DisplayInline      DisplayType = "inline"
	DisplayInlineBlock DisplayType = "inline-block"
	DisplayNone        DisplayType = "none"
)

// GetDisplay returns the display value (default: block)
func (s *Style) GetDisplay() DisplayType {
	if display, ok := s.Get("display"); ok {
		switch display {
		case "inline":
			return DisplayInline
		case "inline-block":
			return DisplayInlineBlock
		case "none":
			return DisplayNone
		}
	}
	return DisplayBlock
}

// OverflowType represents the overflow property value
type OverflowType string

const (
	OverflowVisible OverflowType = "visible"
	OverflowHidden  OverflowType = "hidden"
	OverflowScroll  OverflowType = "scroll"
	OverflowAuto    OverflowType = "auto"
)

// GetOverflow returns the overflow value (default: visible)
func (s *Style) GetOverflow() OverflowType {
	if v, ok := s.Get("overflow"); ok {
		switch v {
		case "hidden":
			return OverflowHidden
		case "scroll":
			return OverflowScroll
		case "auto":
			return OverflowAuto
		}
	}
	return OverflowVisible
}

// GetLineHeight returns the line-height in pixels (default: 1.2 * font-size)
func (s *Style) GetLineHeight() float64 {
	if lh, ok := s.GetLength("line-height"); ok {
		return lh
	}
	return s.GetFontSize() * 1.2
}
