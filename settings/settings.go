package settings

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

const (
	InputDummy    = "dummy"
	InputKeyboard = "keyboard"
	InputGamepad  = "gamepad"
	InputJoystick = "joystick"

	VibroNone       = "none"
	VibroFreerunner = "freerunner"
)

var ErrInvalid = errors.New("settings: invalid value")

type Settings struct {
	Levelpack  string `yaml:"levelpack"`
	Level      int    `yaml:"level"`
	Fullscreen bool   `yaml:"fullscreen"`
	FrameDelay int    `yaml:"frame_delay"`
	LogLevel   string `yaml:"log_level"`
	ProgressDB string `yaml:"progress_db"`

	Input Input `yaml:"input"`
	Vibro Vibro `yaml:"vibro"`
	Hooks Hooks `yaml:"hooks"`
}

type Input struct {
	Type        string      `yaml:"type"`
	Calibration Calibration `yaml:"calibration"`
	Joystick    Joystick    `yaml:"joystick"`
}

type Calibration struct {
	SwapXY      bool    `yaml:"swap_xy"`
	InvertX     bool    `yaml:"invert_x"`
	InvertY     bool    `yaml:"invert_y"`
	CalX        float64 `yaml:"cal_x"`
	CalY        float64 `yaml:"cal_y"`
	Sensitivity float64 `yaml:"sensitivity"`
}

type Joystick struct {
	Fname    string  `yaml:"fname"`
	MaxAxis  float64 `yaml:"max_axis"`
	Interval int     `yaml:"interval"`
}

type Vibro struct {
	Type         string     `yaml:"type"`
	Force        int        `yaml:"force"`
	BumpMinSpeed float64    `yaml:"bump_min_speed"`
	BumpMaxSpeed float64    `yaml:"bump_max_speed"`
	Freerunner   Freerunner `yaml:"freerunner"`
}

type Freerunner struct {
	Duration int `yaml:"duration"`
}

// Hooks name tengo scripts run before the first level and after the last
// frame.
type Hooks struct {
	Init  string `yaml:"init"`
	Final string `yaml:"final"`
}

func Default() (*Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(defaultsYAML, &s); err != nil {
		return nil, fmt.Errorf("settings: unmarshal defaults: %w", err)
	}
	return &s, nil
}

// DefaultPath is ~/.tiltmaze/settings.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("settings: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, ".tiltmaze", "settings.yaml"), nil
}

// Load overlays the file at path on the defaults. A missing file yields the
// defaults.
func Load(path string) (*Settings, error) {
	s, err := Default()
	if err != nil {
		return nil, err
	}

	path, err = ExpandPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("settings: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("settings: unmarshal %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings: %s: %w", path, err)
	}
	return s, nil
}

func (s *Settings) Save(path string) error {
	path, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("settings: cannot create directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("settings: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("settings: save %s: %w", path, err)
	}
	return nil
}

func (s *Settings) Validate() error {
	switch s.Input.Type {
	case InputDummy, InputKeyboard, InputGamepad, InputJoystick:
	default:
		return fmt.Errorf("%w: input type %q", ErrInvalid, s.Input.Type)
	}
	switch s.Vibro.Type {
	case VibroNone, VibroFreerunner:
	default:
		return fmt.Errorf("%w: vibro type %q", ErrInvalid, s.Vibro.Type)
	}
	if s.Vibro.BumpMaxSpeed <= s.Vibro.BumpMinSpeed {
		return fmt.Errorf("%w: bump_max_speed %.1f must exceed bump_min_speed %.1f", ErrInvalid, s.Vibro.BumpMaxSpeed, s.Vibro.BumpMinSpeed)
	}
	if s.Input.Joystick.MaxAxis <= 0 {
		return fmt.Errorf("%w: joystick max_axis %.1f", ErrInvalid, s.Input.Joystick.MaxAxis)
	}
	if s.FrameDelay < 0 {
		return fmt.Errorf("%w: frame_delay %d", ErrInvalid, s.FrameDelay)
	}
	return nil
}

// StartLevel turns the stored 1-based level into a 0-based index within a
// pack of count levels.
func (s *Settings) StartLevel(count int) int {
	return clampLevel(s.Level-1, count)
}

// SetLevel stores a 0-based level index.
func (s *Settings) SetLevel(idx int) {
	s.Level = idx + 1
}

func clampLevel(idx, count int) int {
	if idx >= count {
		idx = count - 1
	}
	return max(idx, 0)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("settings: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
