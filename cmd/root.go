package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"token-quest/config"
	"token-quest/pkg/api"
	"token-quest/pkg/chain"
	"token-quest/pkg/swap"
)

var rootCmd = &cobra.Command{
	Use:   "token-quest",
	Short: "Backend gateway for the Token Quest swap game",
	Long: `token-quest serves the Token Quest HTTP API: wallet validation, token
metadata, PancakeSwap V2 quotes and simulated swaps that award XP.

Configuration is read from the environment (and .env), or from a config file.

Examples:
  token-quest serve
  token-quest status
  token-quest tokens --onchain
  token-quest quote 1000000000000000000 WBNB BUSD`,
	Version: api.Version,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default: .token-quest.yaml in $HOME or the working directory)")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// connect dials the RPC endpoint and builds the swap service on top of it.
func connect(ctx context.Context, cfg *config.Config) (*chain.Client, *swap.Service, error) {
	client, err := chain.Dial(ctx, cfg.ProviderURL, cfg.RouterAddress)
	if err != nil {
		return nil, nil, err
	}
	svc := swap.NewService(client, swap.Options{
		Network: cfg.NetworkName,
		ChainID: cfg.ChainID,
	})
	return client, svc, nil
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}
