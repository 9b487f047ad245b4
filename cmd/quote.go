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

	"token-quest/pkg/parser"
	"token-quest/pkg/swap"
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <token-in> <token-out>",
	Short: "Quote a swap against the router",
	Long: `Ask the router how much of token-out a swap of amount token-in returns.

Amounts are in the token's smallest unit. Tokens are addresses or well-known
symbols (see: token-quest tokens).

Examples:
  token-quest quote 1000000000000000000 WBNB BUSD
  token-quest quote 1e18 0xae13d989daC2f0dEbFf460aC112a837C89BAa7cd BUSD --json`,
	Args: cobra.ExactArgs(3),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := loadConfig(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	tokenIn := swap.ResolveToken(cfg.ChainID, args[1])
	tokenOut := swap.ResolveToken(cfg.ChainID, args[2])
	if verbose {
		fmt.Printf("\nDebug: %s -> %s, %s -> %s\n", args[1], tokenIn, args[2], tokenOut)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching quote..."
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

	quote, err := svc.GetSwapQuote(ctx, tokenIn, tokenOut, args[0])
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		if verbose {
			fmt.Printf("\nDebug: failure kind %s\n", swap.KindOf(err))
		}
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(quote, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        SWAP QUOTE")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Network:         %s\n", cfg.NetworkName)
	fmt.Printf("  Router:          %s\n", color.HiBlackString(cfg.RouterAddress.Hex()))
	fmt.Printf("  Path:            %s\n", color.CyanString(strings.Join(quote.Path, " -> ")))
	fmt.Printf("  Amount In:       %s\n", quote.AmountIn)
	fmt.Printf("  Amount Out:      %s\n", color.GreenString(quote.AmountOut))
	fmt.Printf("  Minimum (%.1f%%): %s\n", parser.DefaultSlippage, quote.MinimumReceived)
	fmt.Printf("  Price Impact:    %.1f%%\n", quote.PriceImpact)

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}
