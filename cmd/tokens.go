package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"token-quest/pkg/swap"
	"token-quest/pkg/types"
)

var (
	filterSymbol string
	readOnChain  bool
)

var tokensCmd = &cobra.Command{
	Use:     "tokens",
	Aliases: []string{"list-tokens", "ls"},
	Short:   "List well-known tokens on the configured network",
	Long: `List the well-known tokens for the configured chain id.

With --onchain, each token's name, symbol and decimals are read from its contract.

Examples:
  token-quest tokens
  token-quest tokens --symbol busd
  token-quest tokens --onchain --json`,
	Args: cobra.NoArgs,
	Run:  runListTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVar(&filterSymbol, "symbol", "", "Filter by token symbol")
	tokensCmd.Flags().BoolVar(&readOnChain, "onchain", false, "Read token metadata from the chain")
}

func runListTokens(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	var filtered []types.Token
	for _, token := range swap.CommonTokens(cfg.ChainID) {
		if filterSymbol == "" || strings.Contains(strings.ToUpper(token.Symbol), strings.ToUpper(filterSymbol)) {
			filtered = append(filtered, token)
		}
	}

	if !readOnChain {
		if jsonOutput {
			jsonData, _ := json.MarshalIndent(filtered, "", "  ")
			fmt.Println(string(jsonData))
		} else {
			displayTokens(cfg.NetworkName, filtered, nil)
		}
		return
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Reading token contracts..."
		s.Start()
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RPCTimeout)
	defer cancel()

	client, svc, err := connect(ctx, cfg)
	if err != nil {
		if !jsonOutput {
			s.Stop()
		}
		printError(err)
		os.Exit(1)
	}
	defer client.Close()

	infos := make([]*types.TokenInfo, 0, len(filtered))
	for _, token := range filtered {
		info, err := svc.GetTokenInfo(ctx, token.Address)
		if err != nil {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				fmt.Fprintf(os.Stderr, "\nDebug: %s: %v\n", token.Symbol, err)
			}
		}
		infos = append(infos, info)
	}

	if !jsonOutput {
		s.Stop()
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(infos, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayTokens(cfg.NetworkName, filtered, infos)
	}
}

func displayTokens(network string, tokens []types.Token, infos []*types.TokenInfo) {
	if len(tokens) == 0 {
		fmt.Println("\nNo tokens found matching the criteria.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("                            KNOWN TOKENS")
	fmt.Println(strings.Repeat("=", 90))
	color.Cyan("\n%s", strings.ToUpper(network))
	fmt.Println(strings.Repeat("-", 90))

	for i, token := range tokens {
		line := fmt.Sprintf("  %-10s  %s", color.YellowString(token.Symbol), color.HiBlackString(token.Address))
		if infos != nil {
			if info := infos[i]; info != nil {
				line += fmt.Sprintf("  %s, %d decimals", info.Name, info.Decimals)
			} else {
				line += "  " + color.RedString("unreadable")
			}
		}
		fmt.Println(line)
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	fmt.Printf("\nTotal: %d tokens\n\n", len(tokens))
}
