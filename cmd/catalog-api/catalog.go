package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"dp-catalog/internal/catalog"
	"dp-catalog/internal/config"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect a catalog document",
	}
	cmd.AddCommand(newValidateCmd(), newQueryCmd())
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Load a catalog and list the entries that would be dropped",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, path, err := loadCatalog(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			rejected := cat.Rejections()
			for _, rej := range rejected {
				fmt.Fprintf(out, "%s: %s\n", rej.Scope, rej.Reason)
			}
			fmt.Fprintf(out, "%s: %d categories, %d items, %d rejected\n",
				path, len(cat.Categories()), len(cat.Items()), len(rejected))
			if len(rejected) > 0 {
				return fmt.Errorf("catalog has %d invalid entries", len(rejected))
			}
			return nil
		},
	}
}

func newQueryCmd() *cobra.Command {
	var q catalog.Query
	var sortBy, order string

	cmd := &cobra.Command{
		Use:   "query [file]",
		Short: "Search, filter and sort the catalog and print the matching items as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, _, err := loadCatalog(args)
			if err != nil {
				return err
			}
			q.SortBy = catalog.ParseSortField(sortBy)
			q.Order = catalog.ParseSortOrder(order)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cat.Query(q))
		},
	}
	cmd.Flags().StringVarP(&q.Search, "q", "q", "", "case-insensitive search over name and description")
	cmd.Flags().StringVar(&q.Category, "category", catalog.AllCategories, "category id or \"all\"")
	cmd.Flags().StringVar(&sortBy, "sort", string(catalog.SortByName), "sort field: name or id")
	cmd.Flags().StringVar(&order, "order", string(catalog.Ascending), "sort order: asc or desc")
	return cmd
}

// loadCatalog reads the file named in args, or the configured catalog path.
func loadCatalog(args []string) (*catalog.Catalog, string, error) {
	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, "", err
		}
		path = cfg.Catalog.Path
	}
	cat, err := catalog.Load(path)
	return cat, path, err
}
