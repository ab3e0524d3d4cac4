package css

import "testing"

func TestParseInlineStyle_SingleProperty(t *testing.T) {
	style := ParseInlineStyle("color: red")
	value, ok := style.Get("color")
	if !ok || value != "red" {
		t.Error("expected color='red'")
	}
}

func TestParseInlineStyle_MultipleProperties(t *testing.T) {
	style := ParseInlineStyle("color: red; width: 100px")
	color, _ := style.Get("color")
	width, _ := style.Get("width")
	if color != "red" || width != "100px" {
		t.Error("expected both properties to parse")
	}
}

func TestGetLength_PixelValue(t *testing.T) {
	style := ParseInlineStyle("width: 100px")
	width, ok := style.GetLength("width")
	if !ok || width != 100.0 {
		t.Errorf("expected width=100.0, got %f", width)
	}
}

func TestParseLength_Invalid(t *testing.T) {
	for _, v := range []string{"", "auto", "10em", "px"} {
		if _, ok := ParseLength(v); ok {
			t.Errorf("ParseLength(%q) should fail", v)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := map[string]Color{
		"red":              {255, 0, 0},
		"Blue":             {0, 0, 255},
		"#0f0":             {0, 255, 0},
		"#102030":          {16, 32, 48},
		"rgb(1, 2, 3)":     {1, 2, 3},
		" rgb(10,20,30) ":  {10, 20, 30},
	}
	for name, expected := range tests {
		color, ok := ParseColor(name)
		if !ok || color != expected {
			t.Errorf("color %q: expected %+v, got %+v", name, expected, color)
		}
	}
	for _, bad := range []string{"#12", "#zzzzzz", "rgb(1,2)", "rgb(300,0,0)", "chartreuse-ish"} {
		if _, ok := ParseColor(bad); ok {
			t.Errorf("ParseColor(%q) should fail", bad)
		}
	}
}

func TestParseInlineStyle_MarginShorthand(t *testing.T) {
	tests := []struct {
		value string
		want  BoxEdge
	}{
		{"10px", BoxEdge{10, 10, 10, 10}},
		{"10px 20px", BoxEdge{10, 20, 10, 20}},
		{"1px 2px 3px", BoxEdge{1, 2, 3, 2}},
		{"1px 2px 3px 4px", BoxEdge{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		got := ParseInlineStyle("margin: " + tt.value).GetMargin()
		if got != tt.want {
			t.Errorf("margin: %s: got %+v, want %+v", tt.value, got, tt.want)
		}
	}
}

func TestBorderShorthand(t *testing.T) {
	style := ParseInlineStyle("border: 2px solid #ff0000")
	if got := style.GetBorderWidth(); got != (BoxEdge{2, 2, 2, 2}) {
		t.Errorf("border width: %+v", got)
	}
	if got := style.GetBorderColor(); got != (Color{255, 0, 0}) {
		t.Errorf("border color: %+v", got)
	}
}

func TestSetEmptyRemovesLonghands(t *testing.T) {
	style := NewStyle()
	style.Set("padding", "4px")
	style.Set("width", "10px")
	style.Set("padding", "")
	if got := style.GetPadding(); got != (BoxEdge{}) {
		t.Errorf("padding after clear: %+v", got)
	}
	if style.Len() != 1 {
		t.Errorf("Len() = %d, want 1", style.Len())
	}
}

func TestDefaults(t *testing.T) {
	style := NewStyle()
	if style.GetDisplay() != DisplayBlock {
		t.Error("default display")
	}
	if style.GetOverflow() != OverflowVisible {
		t.Error("default overflow")
	}
	if style.GetFontSize() != 16 || style.GetLineHeight() != 16*1.2 {
		t.Error("default font metrics")
	}
	if _, ok := style.GetBackgroundColor(); ok {
		t.Error("default background")
	}
	style.Set("background", "navy")
	if c, ok := style.GetBackgroundColor(); !ok || c != (Color{0, 0, 128}) {
		t.Errorf("background shorthand color: %+v", c)
	}
}
