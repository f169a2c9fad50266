package main

import (
	"fmt"

	"github.com/fekuna/omnipos-storefront/internal/catalog"
	"github.com/spf13/cobra"
)

func newHashCmd() *cobra.Command {
	var subcategory string
	cmd := &cobra.Command{
		Use:   "hash <category>...",
		Short: "Print the filter ids of category names",
		Example: `  catalogctl hash Fruit Dairy
  catalogctl hash Fruit --subcategory Fresh`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				category := catalog.CategoryName(name)
				if subcategory != "" {
					sub := catalog.SubcategoryName(subcategory)
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\n", category, sub, catalog.SubcategoryID(category, sub))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", category, catalog.StableID(category))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&subcategory, "subcategory", "", "print the id of this subcategory within each category")
	return cmd
}
