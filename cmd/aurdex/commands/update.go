package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/aurdex/internal/app"
)

func (c *CLI) newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Refresh the package index from its sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			full, _ := cmd.Flags().GetBool("full")
			watch, _ := cmd.Flags().GetBool("watch")

			return c.app.Update(cmd.Context(), app.UpdateOptions{
				Full:  full,
				Watch: watch,
			})
		},
	}
	cmd.Flags().Bool("full", false, "Discard the cached AUR archive and rebuild from scratch")
	cmd.Flags().BoolP("watch", "w", false, "Keep running and re-read the sources when they change")
	return cmd
}
