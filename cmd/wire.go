package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/bnema/edc/internal/adapters/reference"
	"github.com/bnema/edc/internal/adapters/render/hud"
	tomlrepo "github.com/bnema/edc/internal/adapters/repo/toml"
	"github.com/bnema/edc/internal/application"
	"github.com/bnema/edc/internal/ports"
)

const (
	journalDirKey      = "journal_dir"
	planetValuesKey    = "reference.planets"
	exoValuesKey       = "reference.exo"
	defaultLogFileName = "edc.log"
)

type app struct {
	cfg       *viper.Viper
	fs        afero.Fs
	settings  *application.SettingsService
	reference ports.ReferenceLookup
	render    func(application.CurrentView, hud.RenderOptions) (string, error)
	runHUD    func(context.Context, hud.Source, io.Reader, io.Writer, hud.RenderOptions) error
	clock     ports.Clock
	now       func() time.Time
}

func wireApp() (*app, error) {
	cfg := viper.New()
	repo, err := tomlrepo.NewSettingsRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire settings repository: %w", err)
	}

	fsys := afero.NewOsFs()
	ref, err := loadReference(cfg, fsys)
	if err != nil {
		return nil, fmt.Errorf("wire reference tables: %w", err)
	}

	return &app{
		cfg:       cfg,
		fs:        fsys,
		settings:  application.NewSettingsService(repo),
		reference: ref,
		render:    hud.Render,
		runHUD:    hud.RunLive,
		clock:     ports.SystemClock{},
		now:       time.Now,
	}, nil
}

// loadReference prefers override tables named by EDC_REFERENCE_PLANETS and
// EDC_REFERENCE_EXO over the embedded copies.
func loadReference(cfg *viper.Viper, fsys afero.Fs) (*reference.Table, error) {
	planets := strings.TrimSpace(cfg.GetString(planetValuesKey))
	exo := strings.TrimSpace(cfg.GetString(exoValuesKey))
	if planets == "" && exo == "" {
		return reference.Default()
	}
	return reference.Load(fsys, planets, exo)
}

// resolveJournalDir picks the flag, then EDC_JOURNAL_DIR, then the saved
// setting, then the platform default.
func (a *app) resolveJournalDir(flag, saved string) string {
	for _, candidate := range []string{flag, a.cfg.GetString(journalDirKey), saved} {
		if dir := strings.TrimSpace(candidate); dir != "" {
			return dir
		}
	}
	return defaultJournalDir()
}

func defaultJournalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	if runtime.GOOS == "windows" {
		if profile := os.Getenv("USERPROFILE"); profile != "" {
			home = profile
		}
		return filepath.Join(home, "Saved Games", "Frontier Developments", "Elite Dangerous")
	}

	return filepath.Join(home, ".steam", "steam", "steamapps", "compatdata", "359320",
		"pfx", "drive_c", "users", "steamuser", "Saved Games", "Frontier Developments", "Elite Dangerous")
}

func (a *app) defaultLogFile() string {
	return filepath.Join(filepath.Dir(a.settings.Path()), defaultLogFileName)
}
