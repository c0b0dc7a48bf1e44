package velum

import (
	"os"
	"runtime"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// uiFontPaths returns candidate UI font files for the current platform,
// in preference order. Only plain TTF files are listed; collections
// (.ttc) are skipped because the atlas builder parses a single face.
func uiFontPaths() []string {
	if runtime.GOOS == "darwin" {
		return []string{
			"/System/Library/Fonts/Supplemental/Arial.ttf",
			"/System/Library/Fonts/Supplemental/Verdana.ttf",
			"/System/Library/Fonts/Supplemental/Tahoma.ttf",
		}
	} else if runtime.GOOS == "windows" {
		return []string{
			"C:/Windows/Fonts/segoeui.ttf",
			"C:/Windows/Fonts/arial.ttf",
			"C:/Windows/Fonts/tahoma.ttf",
		}
	}
	return []string{
		"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/truetype/ubuntu/Ubuntu-R.ttf",
		"/usr/share/fonts/TTF/DejaVuSans.ttf",
	}
}

// LoadUIFont returns the raw bytes of the best available UI font. It
// tries the platform paths in order and keeps the first file that both
// reads and parses; if none works it returns the embedded Go Regular
// face, so the caller always gets a usable font.
func LoadUIFont() []byte {
	for _, path := range uiFontPaths() {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if _, err := opentype.Parse(data); err != nil {
			logger().Warn("skipping unparseable font", "path", path, "error", err)
			continue
		}
		logger().Debug("loaded platform font", "path", path)
		return data
	}
	logger().Info("no platform font found, using embedded fallback")
	return goregular.TTF
}
