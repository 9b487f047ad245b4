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

	"token-quest/config"
	"token-quest/pkg/chain"
)

type nodeStatus struct {
	ProviderURL   string `json:"provider_url"`
	Network       string `json:"network"`
	Connected     bool   `json:"connected"`
	BlockNumber   uint64 `json:"block_number,omitempty"`
	ChainID       int64  `json:"chain_id,omitempty"`
	ChainIDMatch  bool   `json:"chain_id_match"`
	Router        string `json:"router"`
	RouterHasCode bool   `json:"router_has_code"`
	Latency       string `json:"latency,omitempty"`
	Error         string `json:"error,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check connectivity to the configured node and router",
	Long: `Check that the RPC endpoint answers, that it serves the configured chain
and that the router address holds contract code.

Examples:
  token-quest status
  token-quest status --json
  WEB3_PROVIDER_URL=http://localhost:8545 token-quest status`,
	Args: cobra.NoArgs,
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Checking node..."
		s.Start()
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RPCTimeout)
	defer cancel()
	status := checkNode(ctx, cfg)

	if !jsonOutput {
		s.Stop()
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(status, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayStatus(status)
	}

	if !status.Connected {
		os.Exit(1)
	}
}

func checkNode(ctx context.Context, cfg *config.Config) *nodeStatus {
	status := &nodeStatus{
		ProviderURL: cfg.ProviderURL,
		Network:     cfg.NetworkName,
		Router:      cfg.RouterAddress.Hex(),
	}

	start := time.Now()
	client, err := chain.Dial(ctx, cfg.ProviderURL, cfg.RouterAddress)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	defer client.Close()

	block, err := client.BlockNumber(ctx)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Connected = true
	status.BlockNumber = block
	status.Latency = time.Since(start).Round(time.Millisecond).String()

	if chainID, err := client.ChainID(ctx); err == nil {
		status.ChainID = chainID.Int64()
		status.ChainIDMatch = status.ChainID == cfg.ChainID
	}
	if ok, err := client.HasCode(ctx, cfg.RouterAddress); err == nil {
		status.RouterHasCode = ok
	}
	return status
}

func displayStatus(status *nodeStatus) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        NODE STATUS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Provider:        %s\n", color.CyanString(status.ProviderURL))
	fmt.Printf("  Network:         %s\n", status.Network)

	if !status.Connected {
		fmt.Printf("  Connection:      %s\n", color.RedString("FAILED"))
		fmt.Printf("  Error:           %s\n", color.RedString(status.Error))
		fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
		return
	}

	fmt.Printf("  Connection:      %s (%s)\n", color.GreenString("OK"), status.Latency)
	fmt.Printf("  Latest Block:    %d\n", status.BlockNumber)
	fmt.Printf("  Chain ID:        %s\n", checkMark(fmt.Sprintf("%d", status.ChainID), status.ChainIDMatch))
	fmt.Printf("  Router:          %s\n", checkMark(status.Router, status.RouterHasCode))

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func checkMark(value string, ok bool) string {
	if ok {
		return color.GreenString(value)
	}
	return color.YellowString(value + " (unexpected)")
}
