// Package config loads and validates the user configuration and the
// screen-geometry assets (region rectangles and template images). Every
// component receives its already-validated slice of this data; nothing
// reads ambient global state.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// File is the on-disk user configuration.
type File struct {
	// Capture geometry. Regions and templates ship calibrated at the
	// reference resolution and are rescaled to the runtime one.
	ScreenX         int `json:"screen_x"`
	ScreenY         int `json:"screen_y"`
	ScreenWidth     int `json:"screen_width"`
	ScreenHeight    int `json:"screen_height"`
	ReferenceWidth  int `json:"reference_width"`
	ReferenceHeight int `json:"reference_height"`

	// GamePath points at the game installation; its Version.txt supplies
	// the patch tag attached to every submission.
	GamePath string `json:"game_path"`

	// DataDir holds regions.json, forms.json and the template images.
	DataDir string `json:"data_dir"`

	// User identifies submissions anonymously. Generated and persisted
	// on first run when left empty.
	User string `json:"user"`

	OverlayEnabled bool `json:"overlay_enabled"`

	// PollIntervalMS is the pause between capture iterations.
	PollIntervalMS int `json:"poll_interval_ms"`
}

// Config is the validated runtime configuration.
type Config struct {
	File

	// Path is where the config was loaded from (and is written back to
	// when a user id is generated).
	Path string

	// ScaleX and ScaleY map reference-resolution coordinates to the
	// runtime resolution. Computed once at load.
	ScaleX, ScaleY float64
}

// Load reads, validates and completes the configuration. A missing or
// malformed file is a fatal startup error. A generated user id is the
// only thing ever written back, atomically, before the capture loop
// starts.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	c := &Config{Path: path}
	if err := json.Unmarshal(data, &c.File); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	applyDefaults(&c.File)
	if err := validate(&c.File); err != nil {
		return nil, err
	}

	c.ScaleX = float64(c.ScreenWidth) / float64(c.ReferenceWidth)
	c.ScaleY = float64(c.ScreenHeight) / float64(c.ReferenceHeight)

	if c.User == "" {
		c.User = newUserID()
		if err := c.save(); err != nil {
			return nil, fmt.Errorf("config: persist user id: %w", err)
		}
	}

	return c, nil
}

func applyDefaults(f *File) {
	if f.ReferenceWidth == 0 {
		f.ReferenceWidth = 1920
	}
	if f.ReferenceHeight == 0 {
		f.ReferenceHeight = 1080
	}
	if f.DataDir == "" {
		f.DataDir = "./data"
	}
	if f.PollIntervalMS == 0 {
		f.PollIntervalMS = 1000
	}
}

func validate(f *File) error {
	if f.ScreenWidth <= 0 || f.ScreenHeight <= 0 {
		return fmt.Errorf("config: screen size %dx%d is not positive", f.ScreenWidth, f.ScreenHeight)
	}
	if f.ScreenX < 0 || f.ScreenY < 0 {
		return fmt.Errorf("config: capture offset (%d,%d) is negative", f.ScreenX, f.ScreenY)
	}
	if f.GamePath == "" {
		return fmt.Errorf("config: game_path is required")
	}
	return nil
}

// newUserID generates an anonymous submission identifier.
func newUserID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:20]
}

// save writes the configuration back as a single atomic whole-file
// replacement, so a crash mid-write cannot corrupt it.
func (c *Config) save() error {
	data, err := json.MarshalIndent(&c.File, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.Path)
	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.Path)
}
