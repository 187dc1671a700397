package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/edc/internal/application"
	"github.com/bnema/edc/internal/domain"
)

func newConfigCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change persisted settings",
	}

	cmd.AddCommand(newConfigShowCmd(app), newConfigSetCmd(app))
	return cmd
}

func newConfigShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := app.settings.Load(cmd.Context())
			if err != nil {
				return err
			}
			return writeSettings(cmd, app, settings)
		},
	}
}

func newConfigSetCmd(app *app) *cobra.Command {
	var (
		journalDir  string
		logLevel    string
		exploration int64
		exobiology  int64
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update one or more settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var update application.SettingsUpdate
			flags := cmd.Flags()
			if flags.Changed("journal-dir") {
				update.JournalDir = &journalDir
			}
			if flags.Changed("log-level") {
				update.LogLevel = &logLevel
			}
			if flags.Changed("exploration-threshold") {
				update.ExplorationHighValue = &exploration
			}
			if flags.Changed("exobiology-threshold") {
				update.ExobiologyHighValue = &exobiology
			}
			if update == (application.SettingsUpdate{}) {
				return fmt.Errorf("nothing to set: pass at least one flag")
			}

			settings, err := app.settings.Update(cmd.Context(), update)
			if err != nil {
				return err
			}
			return writeSettings(cmd, app, settings)
		},
	}

	cmd.Flags().StringVar(&journalDir, "journal-dir", "", "journal directory to follow")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	cmd.Flags().Int64Var(&exploration, "exploration-threshold", domain.DefaultExplorationHighValue, "high-value body threshold in credits")
	cmd.Flags().Int64Var(&exobiology, "exobiology-threshold", domain.DefaultExobiologyHighValue, "high-value species threshold in credits")

	return cmd
}

func writeSettings(cmd *cobra.Command, app *app, settings domain.Settings) error {
	dir := settings.JournalDir
	if dir == "" {
		dir = "(default) " + app.resolveJournalDir("", "")
	}

	_, err := fmt.Fprintf(cmd.OutOrStdout(),
		"settings: %s\njournal_dir: %s\nlog_level: %s\nexploration_high_value: %d\nexobiology_high_value: %d\n",
		app.settings.Path(),
		dir,
		settings.LogLevel,
		settings.Thresholds.ExplorationHighValue,
		settings.Thresholds.ExobiologyHighValue,
	)
	return err
}
