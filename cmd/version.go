package cmd

import (
	"fmt"
	"runtime"

	"github.com/bnema/edc/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the edc version and platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "edc %s %s/%s\n", version.Version, runtime.GOOS, runtime.GOARCH)
			return err
		},
	}
}
