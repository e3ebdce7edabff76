// Package settings holds the player-facing options block and its
// TOML persistence. The engine never reads these; hosts do.
package settings

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Resolution is one supported window size.
type Resolution struct {
	Width  int
	Height int
}

// Resolutions indexes the supported modes; ResolutionIndex points
// into it.
var Resolutions = []Resolution{
	{1280, 720},
	{1920, 1080},
	{2560, 1440},
	{3840, 2160},
}

// TutorialHints levels.
const (
	HintsOff     = 0
	HintsMinimal = 1
	HintsFull    = 2
)

// Settings is the full options block. Zero value is not valid; start
// from Defaults.
type Settings struct {
	SoundVolume  int  `toml:"sound_volume"`
	MusicVolume  int  `toml:"music_volume"`
	SoundEnabled bool `toml:"sound_enabled"`
	MusicEnabled bool `toml:"music_enabled"`

	ShowDamageNumbers   bool `toml:"show_damage_numbers"`
	AutoAdvanceDialogue bool `toml:"auto_advance_dialogue"`
	TutorialHints       int  `toml:"tutorial_hints"`
	ShowFPS             bool `toml:"show_fps"`
	ScreenShake         bool `toml:"screen_shake"`
	UIScale             int  `toml:"ui_scale"`

	Fullscreen      bool `toml:"fullscreen"`
	VSync           bool `toml:"vsync"`
	ResolutionIndex int  `toml:"resolution_index"`
}

// Defaults returns the out-of-box settings.
func Defaults() Settings {
	return Settings{
		SoundVolume:       50,
		MusicVolume:       50,
		SoundEnabled:      true,
		MusicEnabled:      true,
		ShowDamageNumbers: true,
		TutorialHints:     HintsFull,
		ScreenShake:       true,
		UIScale:           1,
		VSync:             true,
		ResolutionIndex:   1,
	}
}

// Validate clamps every field into range in place. It never fails;
// garbage on disk degrades to the nearest legal value.
func (s *Settings) Validate() {
	s.SoundVolume = clamp(s.SoundVolume, 0, 100)
	s.MusicVolume = clamp(s.MusicVolume, 0, 100)
	s.TutorialHints = clamp(s.TutorialHints, HintsOff, HintsFull)
	s.UIScale = clamp(s.UIScale, 0, 2)
	s.ResolutionIndex = clamp(s.ResolutionIndex, 0, len(Resolutions)-1)
}

// Resolution returns the selected window size.
func (s *Settings) Resolution() Resolution {
	idx := clamp(s.ResolutionIndex, 0, len(Resolutions)-1)
	return Resolutions[idx]
}

// Marshal renders the settings as TOML. Output is stable: marshaling
// an unmarshaled document yields identical bytes.
func (s *Settings) Marshal() ([]byte, error) {
	return toml.Marshal(s)
}

// Unmarshal parses TOML over the receiver, then clamps. Unknown keys
// are tolerated; missing keys keep their current values, so callers
// start from Defaults.
func (s *Settings) Unmarshal(data []byte) error {
	if err := toml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("parse settings: %w", err)
	}
	s.Validate()
	return nil
}

// Load reads a settings file, layering it over the defaults. A
// missing file is not an error; you get the defaults back.
func Load(path string) (Settings, error) {
	s := Defaults()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read settings file: %w", err)
	}
	if err := s.Unmarshal(data); err != nil {
		return Defaults(), err
	}
	return s, nil
}

// Save writes the settings file, creating it when absent.
func Save(path string, s Settings) error {
	s.Validate()
	data, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
