package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/aurdex/internal/app"
)

func (c *CLI) newDeptreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deptree [packages...]",
		Short: "Resolve the dependency tree into an installation plan",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return nil
			}
			deep, _ := cmd.Flags().GetBool("deep")
			checkDepends, _ := cmd.Flags().GetBool("checkdepends")

			return c.app.Deptree(cmd.Context(), app.DeptreeOptions{
				Roots:               args,
				Deep:                deep,
				IncludeCheckDepends: checkDepends,
			})
		},
	}
	cmd.Flags().BoolP("deep", "d", false, "Expand the full transitive dependency closure")
	cmd.Flags().Bool("checkdepends", false, "Expand check-dependencies of to-be-built packages")
	return cmd
}
