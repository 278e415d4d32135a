package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ponyo877/tankarena/pb"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var (
	cfgFile           string
	grpcServerAddress string
	protocolVersion   string
	arenaClient       pb.ArenaClient
	grpcConn          *grpc.ClientConn
)

const (
	grpcServerAddressKey = "grpc_server_address"
	protocolVersionKey   = "protocol_version"

	defaultProtocolVersion = "3ae33249-ecc6-4980-bc5d-7b0a999c0739"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "Client for the tank arena server",
	Long: `arena connects to an arenad server as a participant.

Use "arena play" to drive a tank from a command line and "arena watch" to
follow every tank in a live table.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		conn, err := grpc.NewClient(grpcServerAddress, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return fmt.Errorf("did not connect to gRPC server: %w", err)
		}
		grpcConn = conn
		arenaClient = pb.NewArenaClient(conn)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if grpcConn != nil {
			return grpcConn.Close()
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.arena.yaml)")
	rootCmd.PersistentFlags().String("grpc-server", "localhost:33334", "Address of the arena server")
	rootCmd.PersistentFlags().String("protocol-version", defaultProtocolVersion, "Protocol version GUID the server expects")

	viper.BindPFlag(grpcServerAddressKey, rootCmd.PersistentFlags().Lookup("grpc-server"))
	viper.BindPFlag(protocolVersionKey, rootCmd.PersistentFlags().Lookup("protocol-version"))
	viper.SetDefault(grpcServerAddressKey, "localhost:33334")
	viper.SetDefault(protocolVersionKey, defaultProtocolVersion)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".arena")
	}

	viper.SetEnvPrefix("ARENA")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "Error reading config file:", err)
		}
	}

	grpcServerAddress = viper.GetString(grpcServerAddressKey)
	protocolVersion = viper.GetString(protocolVersionKey)
}
