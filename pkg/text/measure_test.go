package text

import (
	"reflect"
	"testing"
)

func TestMeasureTextScales(t *testing.T) {
	m := &Measurer{}
	w13, h13 := m.MeasureText("hello", 13)
	w26, h26 := m.MeasureText("hello", 26)
	if w13 <= 0 || h13 <= 0 {
		t.Fatalf("empty measurement: %v x %v", w13, h13)
	}
	if w26 != 2*w13 || h26 != 2*h13 {
		t.Errorf("scaling: %v x %v vs %v x %v", w13, h13, w26, h26)
	}
}

func TestBreakTextIntoLines(t *testing.T) {
	m := &Measurer{}
	charW, _ := m.MeasureText("a", 13)

	if got := m.BreakTextIntoLines("aa bb", 13, 100*charW); !reflect.DeepEqual(got, []string{"aa bb"}) {
		t.Errorf("fits: %v", got)
	}
	got := m.BreakTextIntoLines("aa bb cc", 13, 5*charW)
	if !reflect.DeepEqual(got, []string{"aa bb", "cc"}) {
		t.Errorf("wrap: %v", got)
	}
	got = m.BreakTextIntoLines("aaaaaaaa b", 13, 3*charW)
	if !reflect.DeepEqual(got, []string{"aaaaaaaa", "b"}) {
		t.Errorf("long word: %v", got)
	}
}

func TestMissingFontFallsBack(t *testing.T) {
	m := &Measurer{FontPath: "/nonexistent/font.ttf"}
	if w, _ := m.MeasureText("x", 13); w <= 0 {
		t.Errorf("fallback width: %v", w)
	}
}
