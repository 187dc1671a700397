package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/bnema/edc/internal/adapters/journal/tail"
	"github.com/bnema/edc/internal/adapters/render/hud"
	"github.com/bnema/edc/internal/application"
	"github.com/bnema/edc/internal/ports"
)

func newReplayCmd(app *app) *cobra.Command {
	var (
		dir           string
		asJSON        bool
		highValueOnly bool
	)

	cmd := &cobra.Command{
		Use:   "replay [journal files...]",
		Short: "Ingest journal files and print the resulting state",
		Long:  "replay feeds one or more journal files through the engine in order and prints the final snapshot for the current system. Without arguments the newest journal in the journal directory is used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := app.settings.Load(cmd.Context())
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), logLevel(cmd, settings))
			if err != nil {
				return err
			}

			files := args
			if len(files) == 0 {
				latest, err := tail.LatestJournal(app.fs, app.resolveJournalDir(dir, settings.JournalDir))
				if err != nil {
					return fmt.Errorf("find journal: %w", err)
				}
				files = []string{latest}
			}

			store := application.NewStore(application.NewSnapshot(settings.Thresholds, app.reference))
			engine := application.NewEngine(store, logger, ports.NopMetrics{}, app.clock)

			for _, file := range files {
				data, err := afero.ReadFile(app.fs, file)
				if err != nil {
					return fmt.Errorf("read journal %s: %w", filepath.Base(file), err)
				}
				engine.Ingest(data)
				engine.Flush()
				logger.Debug("replayed journal", "file", file, "bytes", len(data))
			}

			current := store.Snapshot().Current()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(current)
			}

			rendered, err := app.render(current, hud.RenderOptions{Now: app.now(), HighValueOnly: highValueOnly})
			if err != nil {
				return fmt.Errorf("render hud: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "journal directory (default EDC_JOURNAL_DIR, settings, then the platform default)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the current view as JSON")
	cmd.Flags().BoolVar(&highValueOnly, "high-value-only", false, "only list exploration bodies above the threshold")

	return cmd
}
