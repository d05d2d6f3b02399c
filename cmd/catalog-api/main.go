package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "catalog-api",
		Short: "DP Enterprises product catalog and enquiry service",
		Long: `catalog-api serves the pump distributor product catalog over HTTP and
relays contact and product enquiries to the business mailbox.

Run "catalog-api serve" to start the API.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML config file")

	root.AddCommand(newServeCmd())
	root.AddCommand(newCatalogCmd())
	root.AddCommand(newSenderCmd())
	root.AddCommand(newFailedCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
