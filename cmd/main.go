package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/marto32/goetherscan/config"
	"github.com/marto32/goetherscan/etherscan"
	logslog "github.com/marto32/goetherscan/internal/logging/slog"
)

const etherDecimals = 18

var (
	apiKeyFlag  string
	timeoutFlag time.Duration
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "goetherscan",
	Short: "Query the Etherscan API from the command line",
	Long: `goetherscan looks up balances, transactions, blocks, tokens and
contract metadata through the Etherscan API.

Without an API key it talks to the Ropsten test network using the public
test key. Provide a real key with --api-key, the ETHERSCAN_API_KEY
environment variable or ~/` + config.FileName + `.

Examples:
  goetherscan balance 0xde0b295669a9fd93d5f28d9ec85e40f4cb697bae
  goetherscan transactions 0xde0b295669a9fd93d5f28d9ec85e40f4cb697bae
  goetherscan block 2165403
  goetherscan token 0x57d90b64a1a57749b0f932f1a3395792e12e7055`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verboseFlag {
			level = slog.LevelDebug
		}

		slog.SetDefault(slog.New(logslog.NewHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "Etherscan API key")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 0, "per-request timeout (default 5s)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(transactionsCmd)
	rootCmd.AddCommand(blockCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(abiCmd)
	rootCmd.AddCommand(statusCmd)
}

// newEtherscanClient resolves configuration and builds the shared client.
// When no key is configured the user is prompted once, with the option of
// persisting the answer to the home-directory dotfile.
func newEtherscanClient(ctx context.Context) (*etherscan.Client, error) {
	cfg, err := config.Load(apiKeyFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configuration: %w", err)
	}

	if timeoutFlag > 0 {
		cfg.Timeout = timeoutFlag
	}

	if cfg.APIKey == etherscan.TestingAPIKey {
		promptedKey, err := promptForAPIKey()
		if err != nil {
			return nil, err
		}

		if promptedKey != "" {
			cfg.APIKey = promptedKey
			persistAPIKey(ctx, cfg)
		} else {
			slog.InfoContext(ctx, "No API key configured; using the public test key against the test network")
		}
	}

	return etherscan.NewClient(cfg.APIKey, cfg.Timeout)
}

func promptForAPIKey() (string, error) {
	keyPrompt := promptui.Prompt{
		Label: "Etherscan API key (leave empty to use the test network)",
	}

	key, err := keyPrompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return "", nil
		}

		return "", fmt.Errorf("API key prompt failed: %w", err)
	}

	return key, nil
}

func persistAPIKey(ctx context.Context, cfg *config.Config) {
	selector := promptui.Select{
		Label: "Save the API key to ~/" + config.FileName + "?",
		Items: []string{"Save", "Don't save"},
	}

	selIdx, _, err := selector.Run()
	if err != nil || selIdx != 0 {
		return
	}

	path, err := config.DefaultPath()
	if err == nil {
		err = config.Write(path, cfg)
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to save the API key", "error", err)
	}
}

// formatEther renders a wei quantity as a decimal ether string.
func formatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}

	return decimal.NewFromBigInt(wei, -etherDecimals).String()
}
