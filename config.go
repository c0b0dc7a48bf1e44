package velum

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

const configFileName = "velum.toml"

// Config is the full TOML-backed configuration. Every field has a
// working default; a missing or partial file only overrides what it
// names.
type Config struct {
	General GeneralConfig `toml:"general"`
	Window  WindowConfig  `toml:"window"`
	Chrome  ChromeConfig  `toml:"chrome"`
	Search  SearchConfig  `toml:"search"`
}

type GeneralConfig struct {
	DefaultURL  string `toml:"default_url"`
	WindowTitle string `toml:"window_title"`
}

type WindowConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// ChromeConfig sizes and colors the browser chrome strip. Lengths are
// physical pixels, colors are RGBA in [0,1].
type ChromeConfig struct {
	Height      int          `toml:"height"`
	FontSize    float32      `toml:"font_size"`
	TextLeftPad float32      `toml:"text_left_pad"`
	BarMargin   float32      `toml:"bar_margin"`
	BarHPad     float32      `toml:"bar_h_pad"`
	Colors      ChromeColors `toml:"colors"`
}

type ChromeColors struct {
	Background        [4]float32 `toml:"background"`
	BackgroundFocused [4]float32 `toml:"background_focused"`
	Text              [4]float32 `toml:"text"`
	Cursor            [4]float32 `toml:"cursor"`
	BarBackground     [4]float32 `toml:"bar_background"`
	BarBorder         [4]float32 `toml:"bar_border"`
}

type SearchConfig struct {
	// EngineURL is the search prefix the address field appends the
	// percent-encoded query to.
	EngineURL string `toml:"engine_url"`
}

func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultURL:  "https://example.com",
			WindowTitle: "Velum",
		},
		Window: WindowConfig{
			Width:  1280,
			Height: 800,
		},
		Chrome: ChromeConfig{
			Height:      40,
			FontSize:    16,
			TextLeftPad: 12,
			BarMargin:   6,
			BarHPad:     8,
			Colors: ChromeColors{
				Background:        [4]float32{0.17, 0.17, 0.17, 1},
				BackgroundFocused: [4]float32{0.23, 0.23, 0.23, 1},
				Text:              [4]float32{0.93, 0.93, 0.93, 1},
				Cursor:            [4]float32{1, 1, 1, 1},
				BarBackground:     [4]float32{0.13, 0.13, 0.13, 1},
				BarBorder:         [4]float32{0.3, 0.3, 0.3, 1},
			},
		},
		Search: SearchConfig{
			EngineURL: "https://duckduckgo.com/?q=",
		},
	}
}

// LoadConfig finds and parses the configuration file. It never fails:
// no file means defaults, and an unreadable or malformed file falls
// back to defaults with a warning.
func LoadConfig() Config {
	cfg := DefaultConfig()
	path, ok := findConfigFile()
	if !ok {
		logger().Info("no config file found, using defaults")
		return cfg
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		logger().Warn("config file invalid, using defaults", "path", path, "error", err)
		return DefaultConfig()
	}
	logger().Info("config loaded", "path", path)
	return cfg
}

// findConfigFile checks, in order: $VELUM_CONFIG, the executable's
// directory, the platform config directory, and the working directory.
func findConfigFile() (string, bool) {
	var candidates []string
	if p := os.Getenv("VELUM_CONFIG"); p != "" {
		candidates = append(candidates, p)
	}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), configFileName))
	}
	if dir := platformConfigDir(); dir != "" {
		candidates = append(candidates, filepath.Join(dir, configFileName))
	}
	candidates = append(candidates, configFileName)

	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

func platformConfigDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Velum")
		}
		return ""
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "velum")
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", "velum")
	}
	return ""
}

// Save writes the configuration to the platform config directory,
// creating it if needed.
func (c Config) Save() error {
	dir := platformConfigDir()
	if dir == "" {
		return fmt.Errorf("no config directory available")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	path := filepath.Join(dir, configFileName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	logger().Info("config saved", "path", path)
	return nil
}
