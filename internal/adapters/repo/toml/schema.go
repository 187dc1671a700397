package toml

import (
	"fmt"
	"math"
	"strings"

	"github.com/bnema/edc/internal/domain"
)

const currentSchemaVersion = 2

type fileSchema struct {
	Version    int               `toml:"version"`
	JournalDir string            `toml:"journal_dir"`
	LogLevel   string            `toml:"log_level"`
	Thresholds *thresholdsSchema `toml:"thresholds,omitempty"`

	// Schema 1 stored thresholds in 100k and million credit units.
	MinPlanetValue100k *float64 `toml:"min_planet_value_100k,omitempty"`
	ExoHighValueM      *float64 `toml:"exo_high_value_m,omitempty"`
}

type thresholdsSchema struct {
	ExplorationHighValue int64 `toml:"exploration_high_value"`
	ExobiologyHighValue  int64 `toml:"exobiology_high_value"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if s.Thresholds == nil {
		defaults := domain.DefaultThresholds()
		s.Thresholds = &thresholdsSchema{
			ExplorationHighValue: defaults.ExplorationHighValue,
			ExobiologyHighValue:  defaults.ExobiologyHighValue,
		}
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("%w %d (current %d)", domain.ErrUnsupportedSettingsVer, s.Version, currentSchemaVersion)
	}

	return nil
}

func (s fileSchema) legacy() bool {
	return s.Version == 1 || (s.Version == 0 && (s.MinPlanetValue100k != nil || s.ExoHighValueM != nil))
}

// migrate upgrades a schema 1 file in place and reports whether anything
// changed.
func (s *fileSchema) migrate() bool {
	if !s.legacy() {
		return false
	}

	defaults := domain.DefaultThresholds()
	thresholds := thresholdsSchema{
		ExplorationHighValue: defaults.ExplorationHighValue,
		ExobiologyHighValue:  defaults.ExobiologyHighValue,
	}
	if s.MinPlanetValue100k != nil && *s.MinPlanetValue100k >= 0 {
		thresholds.ExplorationHighValue = int64(math.Round(*s.MinPlanetValue100k * 100_000))
	}
	if s.ExoHighValueM != nil && *s.ExoHighValueM >= 0 {
		thresholds.ExobiologyHighValue = int64(math.Round(*s.ExoHighValueM * 1_000_000))
	}

	s.Thresholds = &thresholds
	s.MinPlanetValue100k = nil
	s.ExoHighValueM = nil
	s.Version = currentSchemaVersion
	return true
}

func toSchema(settings domain.Settings) fileSchema {
	return fileSchema{
		Version:    currentSchemaVersion,
		JournalDir: settings.JournalDir,
		LogLevel:   strings.ToLower(settings.LogLevel),
		Thresholds: &thresholdsSchema{
			ExplorationHighValue: settings.Thresholds.ExplorationHighValue,
			ExobiologyHighValue:  settings.Thresholds.ExobiologyHighValue,
		},
	}
}

func fromSchema(file fileSchema) domain.Settings {
	file.applyDefaults()
	return domain.Settings{
		JournalDir: file.JournalDir,
		LogLevel:   file.LogLevel,
		Thresholds: domain.Thresholds{
			ExplorationHighValue: file.Thresholds.ExplorationHighValue,
			ExobiologyHighValue:  file.Thresholds.ExobiologyHighValue,
		},
	}
}
