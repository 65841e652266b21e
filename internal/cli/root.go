package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the studio command tree
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "studio",
		Short:         "Pilates studio site: class catalogue, cart and checkout",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(ordersCmd())

	return rootCmd
}
