package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/aurdex/internal/app"
	"go.trai.ch/aurdex/internal/engine/query"
)

func (c *CLI) newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [terms...]",
		Short: "Search the package index by name and description",
		Long: fmt.Sprintf(
			"Search the package index. A term containing regex metacharacters is "+
				"treated as a regular expression, anything else as a case-insensitive "+
				"substring.\n\nFilterable fields: %s.",
			strings.Join(query.Fields(), ", ")),
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, _ := cmd.Flags().GetStringArray("filter")
			limit, _ := cmd.Flags().GetInt("limit")

			if len(args) == 0 && len(filters) == 0 {
				_ = cmd.Help()
				return nil
			}
			return c.app.Search(cmd.Context(), app.SearchOptions{
				Terms:   args,
				Filters: filters,
				Limit:   limit,
			})
		},
	}
	cmd.Flags().StringArrayP("filter", "f", nil, "Filter by field=value (repeatable, ANDed)")
	cmd.Flags().IntP("limit", "l", 0, "Maximum number of results (negative for all)")
	return cmd
}
