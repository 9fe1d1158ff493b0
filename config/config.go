package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultLines   = 50
	DefaultColumns = 16
	DefaultMarker  = "#ERR"
	DefaultDigits  = 15
)

// Settings is the content of the settings.yaml file of the user.
type Settings struct {
	Lines   int `yaml:"lines"`
	Columns int `yaml:"columns"`
	// AutoRecalc defaults to true when missing.
	AutoRecalc   *bool  `yaml:"auto_recalc"`
	ErrorMarker  string `yaml:"error_marker"`
	Digits       int    `yaml:"digits"`
	NumberFormat string `yaml:"number_format"`
	LogLevel     string `yaml:"log_level"`

	LastFile      string `yaml:"last_file"`
	LastDirectory string `yaml:"last_dir"`
}

func Default() Settings {
	var s Settings
	s.applyDefaults()
	return s
}

func (s *Settings) Recalc() bool {
	if s.AutoRecalc == nil {
		return true
	}
	return *s.AutoRecalc
}

func (s *Settings) SetRecalc(on bool) {
	s.AutoRecalc = &on
}

// Remember records file as the last opened or saved document.
func (s *Settings) Remember(file string) {
	if abs, err := filepath.Abs(file); err == nil {
		file = abs
	}
	s.LastFile = file
	s.LastDirectory = filepath.Dir(file)
}

func (s *Settings) applyDefaults() {
	if s.Lines <= 0 {
		s.Lines = DefaultLines
	}
	if s.Columns <= 0 {
		s.Columns = DefaultColumns
	}
	if s.ErrorMarker == "" {
		s.ErrorMarker = DefaultMarker
	}
	if s.Digits <= 0 {
		s.Digits = DefaultDigits
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
}

// Path gives the location of the settings file of the user.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gridcalc", "settings.yaml"), nil
}

// Load reads the settings stored in file. A missing file gives the default
// settings.
func Load(file string) (Settings, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("reading settings file: %w", err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing settings file: %w", err)
	}
	s.applyDefaults()
	return s, nil
}

func Save(file string, s Settings) error {
	data, err := yaml.Marshal(&s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return err
	}
	return os.WriteFile(file, data, 0o644)
}
