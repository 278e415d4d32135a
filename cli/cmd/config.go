package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Prints the effective client configuration.",
	Long: `Prints the server address and protocol version after flags, environment
(ARENA_*) and the config file have been applied.`,
	Args: cobra.NoArgs,
	// no connection needed
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := uuid.Parse(protocolVersion); err != nil {
			return fmt.Errorf("protocol version %q is not a GUID: %w", protocolVersion, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Server: %s\n", grpcServerAddress)
		fmt.Fprintf(cmd.OutOrStdout(), "Protocol version: %s\n", protocolVersion)
		if file := viper.ConfigFileUsed(); file != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", file)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
