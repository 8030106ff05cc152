// Package settings persists the appearance preferences as a dotenv-style
// key-value file.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"

	"budget/internal/log"
)

const (
	KeyTheme     = "THEME_MODE"
	KeyChartType = "CHART_TYPE"
)

type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

type ChartType string

const (
	ChartDefault ChartType = "Default"
	ChartBar     ChartType = "Bar"
	ChartPie     ChartType = "Pie"
)

// Settings are the user's appearance choices.
type Settings struct {
	Theme     Theme
	ChartType ChartType
}

// Defaults returns the settings used before anything is saved.
func Defaults() Settings {
	return Settings{Theme: ThemeSystem, ChartType: ChartDefault}
}

func (t Theme) valid() bool {
	switch t {
	case ThemeSystem, ThemeLight, ThemeDark:
		return true
	}
	return false
}

func (c ChartType) valid() bool {
	switch c {
	case ChartDefault, ChartBar, ChartPie:
		return true
	}
	return false
}

// fromMap reads known keys; unknown or malformed values keep their default.
func fromMap(m map[string]string) Settings {
	s := Defaults()
	if t := Theme(m[KeyTheme]); t.valid() {
		s.Theme = t
	}
	if c := ChartType(m[KeyChartType]); c.valid() {
		s.ChartType = c
	}
	return s
}

func (s Settings) toMap() map[string]string {
	return map[string]string{
		KeyTheme:     string(s.Theme),
		KeyChartType: string(s.ChartType),
	}
}

// Load reads settings from path. A missing file yields Defaults.
func Load(path string) (Settings, error) {
	m, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return Defaults(), fmt.Errorf("read settings %s: %w", path, err)
	}
	return fromMap(m), nil
}

// Save writes s to path, creating the parent directory when needed.
// Invalid values are stored as their defaults.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}
	if err := godotenv.Write(fromMap(s.toMap()).toMap(), path); err != nil {
		return fmt.Errorf("write settings %s: %w", path, err)
	}
	return nil
}

// Store keeps the current settings in memory and writes every change
// through to its file.
type Store struct {
	mu      sync.RWMutex
	path    string
	current Settings
	logger  *log.Logger
}

// Open loads the settings at path. A corrupt file is logged and replaced
// by defaults in memory; it is only overwritten on the next change.
func Open(path string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentSettings)

	s, err := Load(path)
	if err != nil {
		logger.Warn("Falling back to default settings", log.FieldError, err)
	}
	return &Store{path: path, current: s, logger: logger}
}

func (st *Store) Get() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current
}

// SetTheme changes the theme. Unknown themes fall back to ThemeSystem.
func (st *Store) SetTheme(t Theme) error {
	return st.update(func(s *Settings) { s.Theme = t })
}

// SetChartType changes the chart type. Unknown types fall back to ChartDefault.
func (st *Store) SetChartType(c ChartType) error {
	return st.update(func(s *Settings) { s.ChartType = c })
}

func (st *Store) update(apply func(*Settings)) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	next := st.current
	apply(&next)
	next = fromMap(next.toMap())

	if err := Save(st.path, next); err != nil {
		st.logger.Error("Failed to save settings", log.FieldError, err)
		return err
	}
	st.current = next
	return nil
}
