package ports

import (
	"context"

	"github.com/bnema/edc/internal/domain"
)

type SettingsRepository interface {
	Load(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, settings domain.Settings) error
	Path() string
}
