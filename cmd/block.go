package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/marto32/goetherscan/ethereum"
)

var blockCmd = &cobra.Command{
	Use:   "block <number>",
	Short: "Show the rewards, miner and uncles of a block",
	Args:  cobra.ExactArgs(1),
	RunE:  runBlock,
}

func runBlock(cmd *cobra.Command, args []string) error {
	number, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("block number must be an integer, got %q", args[0])
	}

	client, err := newEtherscanClient(cmd.Context())
	if err != nil {
		return err
	}

	block, err := ethereum.NewBlock(client, number)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	reward, err := block.Reward(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch block rewards: %w", err)
	}

	miner, err := block.Miner(ctx)
	if err != nil {
		return err
	}

	minedAt, err := block.MinedAt(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Block %d\n", block.Number())
	fmt.Printf("  mined at: %s\n", minedAt.Format(time.RFC3339))
	fmt.Printf("  miner:    %s\n", miner.Hex())
	fmt.Printf("  reward:   %s ETH\n", formatEther(reward))

	uncles, err := block.Uncles(ctx)
	if err != nil {
		return err
	}

	if len(uncles) > 0 {
		inclusionReward, err := block.UncleInclusionReward(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("  uncle inclusion reward: %s ETH\n", formatEther(inclusionReward))
		for _, uncle := range uncles {
			fmt.Printf("  uncle %d: %s (%s ETH)\n", uncle.Position, uncle.Miner.Hex(), formatEther(uncle.Reward))
		}
	}

	return nil
}
