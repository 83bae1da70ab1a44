package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marto32/goetherscan/ethereum"
)

var tokenHolderFlag string

var tokenCmd = &cobra.Command{
	Use:   "token <contract-address>",
	Short: "Show the total supply of an ERC-20 token",
	Args:  cobra.ExactArgs(1),
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenHolderFlag, "holder", "", "also show this account's balance of the token")
}

func runToken(cmd *cobra.Command, args []string) error {
	client, err := newEtherscanClient(cmd.Context())
	if err != nil {
		return err
	}

	token, err := ethereum.NewToken(client, args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	supply, err := token.Supply(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch token supply: %w", err)
	}

	fmt.Printf("%s total supply: %s base units\n", token.ContractAddress(), supply.String())

	if tokenHolderFlag != "" {
		balance, err := token.BalanceOf(ctx, tokenHolderFlag)
		if err != nil {
			return fmt.Errorf("failed to fetch token balance: %w", err)
		}

		fmt.Printf("%s holds %s base units\n", tokenHolderFlag, balance.String())
	}

	return nil
}
