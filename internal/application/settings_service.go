package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/edc/internal/domain"
	"github.com/bnema/edc/internal/ports"
)

var ErrUnsupportedLogLevel = errors.New("unsupported log level")

type SettingsService struct {
	repo ports.SettingsRepository
}

func NewSettingsService(repo ports.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

func (s *SettingsService) Load(ctx context.Context) (domain.Settings, error) {
	settings, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSettingsNotFound) {
			return domain.DefaultSettings(), nil
		}
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return settings, nil
}

// SettingsUpdate holds optional changes; nil fields are left untouched.
type SettingsUpdate struct {
	JournalDir           *string
	LogLevel             *string
	ExplorationHighValue *int64
	ExobiologyHighValue  *int64
}

func (s *SettingsService) Update(ctx context.Context, update SettingsUpdate) (domain.Settings, error) {
	settings, err := s.Load(ctx)
	if err != nil {
		return domain.Settings{}, err
	}

	if update.JournalDir != nil {
		settings.JournalDir = strings.TrimSpace(*update.JournalDir)
	}
	if update.LogLevel != nil {
		level := strings.ToLower(strings.TrimSpace(*update.LogLevel))
		if !validLogLevel(level) {
			return domain.Settings{}, fmt.Errorf("%w: %q", ErrUnsupportedLogLevel, *update.LogLevel)
		}
		settings.LogLevel = level
	}
	if update.ExplorationHighValue != nil {
		settings.Thresholds.ExplorationHighValue = *update.ExplorationHighValue
	}
	if update.ExobiologyHighValue != nil {
		settings.Thresholds.ExobiologyHighValue = *update.ExobiologyHighValue
	}
	if err := settings.Thresholds.Validate(); err != nil {
		return domain.Settings{}, err
	}

	if err := s.repo.Save(ctx, settings); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return settings, nil
}

func (s *SettingsService) Path() string {
	return s.repo.Path()
}

func validLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
