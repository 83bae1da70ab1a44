package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/marto32/goetherscan/ethereum"
)

var balanceContractFlag string

var balanceCmd = &cobra.Command{
	Use:   "balance <address>",
	Short: "Look up the ether (or token) balance of an address",
	Args:  cobra.ExactArgs(1),
	RunE:  runBalance,
}

func init() {
	balanceCmd.Flags().StringVar(&balanceContractFlag, "contract", "", "ERC-20 contract address to query instead of ether")
}

func runBalance(cmd *cobra.Command, args []string) error {
	client, err := newEtherscanClient(cmd.Context())
	if err != nil {
		return err
	}

	address, err := ethereum.NewAddress(client, args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	if balanceContractFlag != "" {
		balance, err := address.TokenBalance(ctx, balanceContractFlag)
		if err != nil {
			return fmt.Errorf("failed to fetch token balance: %w", err)
		}

		fmt.Printf("%s holds %s base units of %s\n", address.Hex(), color.GreenString(balance.String()), balanceContractFlag)

		return nil
	}

	balance, err := address.Balance(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch balance: %w", err)
	}

	fmt.Printf("%s: %s ETH (%s wei)\n", address.Hex(), color.GreenString(formatEther(balance)), balance.String())

	return nil
}
