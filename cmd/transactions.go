package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/marto32/goetherscan/ethereum"
)

var transactionsCmd = &cobra.Command{
	Use:   "transactions <address>",
	Short: "List the normal and internal transactions of an address",
	Args:  cobra.ExactArgs(1),
	RunE:  runTransactions,
}

func runTransactions(cmd *cobra.Command, args []string) error {
	client, err := newEtherscanClient(cmd.Context())
	if err != nil {
		return err
	}

	address, err := ethereum.NewAddress(client, args[0])
	if err != nil {
		return err
	}

	transactions, err := address.Transactions(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch transactions: %w", err)
	}

	if len(transactions) == 0 {
		fmt.Println("No transactions found")

		return nil
	}

	for _, txn := range transactions {
		value, err := txn.Value()
		if err != nil {
			return err
		}

		executedAt, err := txn.ExecutedAt()
		if err != nil {
			return err
		}

		line := fmt.Sprintf(
			"%s  %s  %s -> %s  %s ETH",
			executedAt.Format(time.RFC3339),
			txn.Hash(),
			txn.From(),
			txn.To(),
			formatEther(value),
		)

		if txn.IsError() {
			fmt.Println(color.RedString(line + "  (errored)"))
		} else {
			fmt.Println(line)
		}
	}

	fmt.Printf("%d transactions\n", len(transactions))

	return nil
}
