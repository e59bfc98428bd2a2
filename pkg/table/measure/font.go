package measure

import (
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/sheetgrid/pkg/table"
)

// FontFamily is the CSS family name matching the faces [Font] measures with.
const FontFamily = "Go, sans-serif"

type faceKey struct {
	size float64
	bold bool
}

// Font measures text with the glyph advances of the embedded Go fonts at
// 72 DPI, so one point equals one layout unit. The family named by the
// cell font is ignored; bold selects Go Bold.
//
// Faces are created lazily per size and weight. A Font is safe for
// concurrent use.
type Font struct {
	mu       sync.Mutex
	regular  *opentype.Font
	bold     *opentype.Font
	faces    map[faceKey]font.Face
	fallback Approx
}

// NewFont parses the embedded fonts. If parsing fails the measurer
// degrades to [Approx].
func NewFont() *Font {
	f := &Font{faces: make(map[faceKey]font.Face)}
	if reg, err := opentype.Parse(goregular.TTF); err == nil {
		f.regular = reg
	}
	if b, err := opentype.Parse(gobold.TTF); err == nil {
		f.bold = b
	}
	return f
}

// Measure implements [Measurer].
func (f *Font) Measure(text string, tf table.Font) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	face := f.face(faceKey{size: tf.PointSize(), bold: tf.Bold})
	if face == nil {
		return f.fallback.Measure(text, tf)
	}

	var widest float64
	for _, line := range strings.Split(text, "\n") {
		adv := font.MeasureString(face, line)
		widest = max(widest, float64(adv)/64)
	}
	return widest
}

// face returns the cached face for k, creating it on first use.
// Callers must hold f.mu.
func (f *Font) face(k faceKey) font.Face {
	if face, ok := f.faces[k]; ok {
		return face
	}
	src := f.regular
	if k.bold && f.bold != nil {
		src = f.bold
	}
	if src == nil {
		return nil
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    k.size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil
	}
	f.faces[k] = face
	return face
}

// Close releases the cached faces.
func (f *Font) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, face := range f.faces {
		_ = face.Close()
		delete(f.faces, k)
	}
	return nil
}
