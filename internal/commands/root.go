package commands

import "github.com/spf13/cobra"

// RootCmd assembles the free-rent command tree.
func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "free-rent",
		Short:         "Property management records for tenants, properties and units",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to a TOML config file (default $"+ConfigEnv+")")

	rootCmd.AddCommand(
		MigrateCmd(),
		ServeCmd(),
		TuiCmd(),
		ExportCmd(),
		HashPasswordCmd(),
	)
	return rootCmd
}
