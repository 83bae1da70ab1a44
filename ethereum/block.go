package ethereum

import (
	"context"
	"math/big"
	"time"

	"github.com/marto32/goetherscan/etherscan"
	esbig "github.com/marto32/goetherscan/internal/big"
)

// Uncle is one uncle of a block, with the miner wrapped as an Address entity.
type Uncle struct {
	Miner    *Address
	Reward   *big.Int // uncle block reward in wei
	Position int
}

// Block represents one block, identified by its number. All derived fields
// come from a single rewards call fetched on first access and cached.
type Block struct {
	client *etherscan.Client
	number int64

	rewards *etherscan.BlockRewardsRecord

	reward               *big.Int
	miner                *Address
	uncles               []Uncle
	unclesFetched        bool
	uncleInclusionReward *big.Int
	minedAt              *time.Time
}

// NewBlock builds a Block entity for the given block number.
func NewBlock(client *etherscan.Client, number int64) (*Block, error) {
	if client == nil {
		return nil, &etherscan.Error{Kind: etherscan.KindInitialization, Message: "a client must be supplied"}
	}

	if number < 0 {
		return nil, &etherscan.Error{Kind: etherscan.KindInitialization, Message: "block number must not be negative"}
	}

	return &Block{client: client, number: number}, nil
}

// Number returns the block number this entity was built from.
func (b *Block) Number() int64 {
	return b.number
}

// Reward returns the block reward in wei.
func (b *Block) Reward(ctx context.Context) (*big.Int, error) {
	if b.reward != nil {
		return b.reward, nil
	}

	rewards, err := b.ensureRewards(ctx)
	if err != nil {
		return nil, err
	}

	reward, err := b.parseWei(rewards.BlockReward, "blockReward")
	if err != nil {
		return nil, err
	}

	b.reward = reward

	return reward, nil
}

// Miner returns the block's miner as an Address entity.
func (b *Block) Miner(ctx context.Context) (*Address, error) {
	if b.miner != nil {
		return b.miner, nil
	}

	rewards, err := b.ensureRewards(ctx)
	if err != nil {
		return nil, err
	}

	miner, err := NewAddress(b.client, rewards.BlockMiner)
	if err != nil {
		return nil, err
	}

	b.miner = miner

	return miner, nil
}

// Uncles returns the block's uncles, with miners wrapped as Address entities.
func (b *Block) Uncles(ctx context.Context) ([]Uncle, error) {
	if b.unclesFetched {
		return b.uncles, nil
	}

	rewards, err := b.ensureRewards(ctx)
	if err != nil {
		return nil, err
	}

	uncles := make([]Uncle, 0, len(rewards.Uncles))
	for _, record := range rewards.Uncles {
		miner, err := NewAddress(b.client, record.Miner)
		if err != nil {
			return nil, err
		}

		reward, err := b.parseWei(record.BlockReward, "uncle blockreward")
		if err != nil {
			return nil, err
		}

		position := 0
		if record.UnclePosition != "" {
			parsed, err := esbig.Uint64FromString(record.UnclePosition)
			if err != nil {
				return nil, &etherscan.Error{
					Kind:    etherscan.KindBlock,
					Message: "failed to parse unclePosition '" + record.UnclePosition + "'",
					Err:     err,
				}
			}
			position = int(parsed)
		}

		uncles = append(uncles, Uncle{Miner: miner, Reward: reward, Position: position})
	}

	b.uncles = uncles
	b.unclesFetched = true

	return b.uncles, nil
}

// UncleInclusionReward returns the reward the miner received for including
// uncles, in wei.
func (b *Block) UncleInclusionReward(ctx context.Context) (*big.Int, error) {
	if b.uncleInclusionReward != nil {
		return b.uncleInclusionReward, nil
	}

	rewards, err := b.ensureRewards(ctx)
	if err != nil {
		return nil, err
	}

	reward, err := b.parseWei(rewards.UncleInclusionReward, "uncleInclusionReward")
	if err != nil {
		return nil, err
	}

	b.uncleInclusionReward = reward

	return reward, nil
}

// MinedAt returns the UTC time the block was mined.
func (b *Block) MinedAt(ctx context.Context) (time.Time, error) {
	if b.minedAt != nil {
		return *b.minedAt, nil
	}

	rewards, err := b.ensureRewards(ctx)
	if err != nil {
		return time.Time{}, err
	}

	timestamp, err := esbig.Uint64FromString(rewards.TimeStamp)
	if err != nil {
		return time.Time{}, &etherscan.Error{
			Kind:    etherscan.KindBlock,
			Message: "failed to parse block timestamp '" + rewards.TimeStamp + "'",
			Err:     err,
		}
	}

	minedAt := time.Unix(int64(timestamp), 0).UTC()
	b.minedAt = &minedAt

	return minedAt, nil
}

// ensureRewards fetches the combined block/uncle rewards record once.
func (b *Block) ensureRewards(ctx context.Context) (*etherscan.BlockRewardsRecord, error) {
	if b.rewards != nil {
		return b.rewards, nil
	}

	resp, err := b.client.GetBlockAndUncleRewardsByBlockNumber(ctx, b.number)
	if err != nil {
		return nil, err
	}

	b.rewards = &resp.Rewards

	return b.rewards, nil
}

func (b *Block) parseWei(raw string, field string) (*big.Int, error) {
	parsed, err := esbig.BigIntFromString(raw)
	if err != nil {
		return nil, &etherscan.Error{
			Kind:    etherscan.KindBlock,
			Message: "failed to parse " + field + " '" + raw + "'",
			Err:     err,
		}
	}

	return parsed, nil
}
