package canvas

import (
	"os"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// Font candidates tried in order. The first one present on the system wins;
// when none is found, text drawing is skipped and the figure still renders.
var fontCandidates = []string{
	"DejaVuSans.ttf",
	"Arial.ttf",
	"LiberationSans-Regular.ttf",
	"Helvetica.ttc",
}

var (
	fontOnce   sync.Once
	fontParsed *truetype.Font
)

// loadFont finds and parses a usable TTF once per process.
func loadFont() *truetype.Font {
	fontOnce.Do(func() {
		for _, name := range fontCandidates {
			path, err := findfont.Find(name)
			if err != nil {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			f, err := truetype.Parse(data)
			if err != nil {
				continue
			}
			fontParsed = f
			return
		}
	})
	return fontParsed
}

// fontFace returns a face at the given point size, or nil when no system
// font could be located.
func fontFace(size float64) font.Face {
	f := loadFont()
	if f == nil {
		return nil
	}
	return truetype.NewFace(f, &truetype.Options{Size: size})
}
