package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(wireApp)
}

func buildRootCmd(wire func() (*app, error)) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "edc",
		Short:         "Elite Dangerous companion: live situational state from the game journal",
		Long:          "edc follows the Elite Dangerous journal, derives the commander's current system context and per-system exploration, exobiology, combat and powerplay state, and shows it as a terminal HUD.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error (default from settings)")

	app, err := wire()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newWatchCmd(app),
		newReplayCmd(app),
		newConfigCmd(app),
	)

	return rootCmd
}
