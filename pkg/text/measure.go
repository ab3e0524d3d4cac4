package text

import (
	"strings"
	"sync"

	"github.com/fogleman/gg"
)

// baseFontSize is the pixel size of the face text is measured with. Other
// sizes are scaled linearly.
const baseFontSize = 13.0

// Measurer measures strings with one font face. A zero FontPath uses the
// built-in bitmap face, which keeps layout deterministic across machines.
type Measurer struct {
	FontPath string

	once sync.Once
	mu   sync.Mutex
	dc   *gg.Context
}

func (m *Measurer) context() *gg.Context {
	m.once.Do(func() {
		dc := gg.NewContext(1, 1)
		if m.FontPath != "" {
			if err := dc.LoadFontFace(m.FontPath, baseFontSize); err != nil {
				// fall back to the built-in face
				dc = gg.NewContext(1, 1)
			}
		}
		m.dc = dc
	})
	return m.dc
}

// MeasureText returns the advance width and line height of text at fontSize.
func (m *Measurer) MeasureText(text string, fontSize float64) (width, height float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, h := m.context().MeasureString(text)
	scale := fontSize / baseFontSize
	return w * scale, h * scale
}

// BreakTextIntoLines breaks text into lines that fit within maxWidth. A word
// wider than maxWidth gets a line of its own.
func (m *Measurer) BreakTextIntoLines(text string, fontSize, maxWidth float64) []string {
	if w, _ := m.MeasureText(text, fontSize); w <= maxWidth {
		return []string{text}
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{text}
	}

	lines := make([]string, 0)
	currentLine := ""
	for _, word := range words {
		testLine := currentLine
		if testLine != "" {
			testLine += " "
		}
		testLine += word

		if lineWidth, _ := m.MeasureText(testLine, fontSize); lineWidth <= maxWidth {
			currentLine = testLine
			continue
		}
		if currentLine != "" {
			lines = append(lines, currentLine)
		}
		currentLine = word
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}
	return lines
}

var defaultMeasurer = &Measurer{}

// MeasureTextDefault measures text with the built-in face.
func MeasureTextDefault(text string, fontSize float64) (width, height float64) {
	return defaultMeasurer.MeasureText(text, fontSize)
}
