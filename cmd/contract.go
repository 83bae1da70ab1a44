package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var abiCmd = &cobra.Command{
	Use:   "abi <contract-address>",
	Short: "Print the ABI of a verified contract",
	Args:  cobra.ExactArgs(1),
	RunE:  runABI,
}

var statusCmd = &cobra.Command{
	Use:   "status <txhash>",
	Short: "Show the contract execution status of a transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func runABI(cmd *cobra.Command, args []string) error {
	client, err := newEtherscanClient(cmd.Context())
	if err != nil {
		return err
	}

	resp, err := client.GetContractABI(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch contract ABI: %w", err)
	}

	fmt.Println(resp.ABI)

	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := newEtherscanClient(cmd.Context())
	if err != nil {
		return err
	}

	resp, err := client.GetContractExecutionStatus(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch execution status: %w", err)
	}

	if resp.IsError {
		fmt.Println(color.RedString("execution errored: %s", resp.ErrDescription))
	} else {
		fmt.Println(color.GreenString("execution succeeded"))
	}

	return nil
}
