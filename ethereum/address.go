// Package ethereum wraps raw Etherscan API data into lazily populated domain
// entities. Each entity is immutable in its identifying key; derived fields
// are fetched on first access and cached, including zero or empty values, so
// no access triggers more than one API call. Entities are not safe for
// concurrent use.
package ethereum

import (
	"context"
	"math/big"
	"time"

	"github.com/marto32/goetherscan/etherscan"
	esbig "github.com/marto32/goetherscan/internal/big"
)

// MinedBlock is one block mined by an address.
type MinedBlock struct {
	Number  int64
	Reward  *big.Int // block reward in wei
	MinedAt time.Time
}

// Address represents an Ethereum account address.
type Address struct {
	client  *etherscan.Client
	address string

	balance *big.Int

	transactions        []*Transaction
	transactionsFetched bool

	minedBlocks        []MinedBlock
	minedBlocksFetched bool
}

// NewAddress builds an Address entity backed by the given client.
func NewAddress(client *etherscan.Client, address string) (*Address, error) {
	if client == nil {
		return nil, &etherscan.Error{Kind: etherscan.KindInitialization, Message: "a client must be supplied"}
	}

	if address == "" {
		return nil, &etherscan.Error{Kind: etherscan.KindInitialization, Message: "address must be a non-empty string"}
	}

	return &Address{client: client, address: address}, nil
}

// Hex returns the address string this entity was built from.
func (a *Address) Hex() string {
	return a.address
}

// Balance returns the address balance in wei, fetching it on first access.
func (a *Address) Balance(ctx context.Context) (*big.Int, error) {
	if a.balance != nil {
		return a.balance, nil
	}

	resp, err := a.client.GetSingleBalance(ctx, a.address)
	if err != nil {
		return nil, err
	}

	a.balance = resp.Balance

	return a.balance, nil
}

// Transactions returns the address's normal transactions followed by its
// internal transactions. Each sub-list keeps the order the API returned it
// in. The merged list is fetched once and cached, even when empty.
func (a *Address) Transactions(ctx context.Context) ([]*Transaction, error) {
	if a.transactionsFetched {
		return a.transactions, nil
	}

	normal, err := a.client.GetTransactionsByAddress(ctx, a.address, nil)
	if err != nil {
		return nil, err
	}

	internal, err := a.client.GetInternalTransactionsByAddress(ctx, a.address, nil)
	if err != nil {
		return nil, err
	}

	transactions := make([]*Transaction, 0, len(normal.Transactions)+len(internal.Transactions))
	for _, record := range append(normal.Transactions, internal.Transactions...) {
		transaction, err := NewTransaction(a.client, record)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}

	a.transactions = transactions
	a.transactionsFetched = true

	return a.transactions, nil
}

// MinedBlocks returns the blocks mined by this address, fetched once and
// cached.
func (a *Address) MinedBlocks(ctx context.Context) ([]MinedBlock, error) {
	if a.minedBlocksFetched {
		return a.minedBlocks, nil
	}

	resp, err := a.client.GetBlocksMinedByAddress(ctx, a.address, 0, 0)
	if err != nil {
		return nil, err
	}

	blocks := make([]MinedBlock, 0, len(resp.Blocks))
	for _, record := range resp.Blocks {
		block, err := minedBlockFromRecord(record)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	a.minedBlocks = blocks
	a.minedBlocksFetched = true

	return a.minedBlocks, nil
}

// TokenBalance returns this address's balance of the ERC-20 token at the
// given contract address. The result is never cached: token balances are
// per-contract and callers typically probe several contracts.
func (a *Address) TokenBalance(ctx context.Context, contractAddress string) (*big.Int, error) {
	resp, err := a.client.GetTokenBalanceByAddress(ctx, contractAddress, a.address)
	if err != nil {
		return nil, err
	}

	return resp.Balance, nil
}

func minedBlockFromRecord(record etherscan.MinedBlockRecord) (MinedBlock, error) {
	number, err := esbig.BigIntFromString(record.BlockNumber)
	if err != nil {
		return MinedBlock{}, &etherscan.Error{
			Kind:    etherscan.KindAddress,
			Message: "failed to parse mined block number '" + record.BlockNumber + "'",
			Err:     err,
		}
	}

	reward, err := esbig.BigIntFromString(record.BlockReward)
	if err != nil {
		return MinedBlock{}, &etherscan.Error{
			Kind:    etherscan.KindAddress,
			Message: "failed to parse mined block reward '" + record.BlockReward + "'",
			Err:     err,
		}
	}

	timestamp, err := esbig.Uint64FromString(record.TimeStamp)
	if err != nil {
		return MinedBlock{}, &etherscan.Error{
			Kind:    etherscan.KindAddress,
			Message: "failed to parse mined block timestamp '" + record.TimeStamp + "'",
			Err:     err,
		}
	}

	return MinedBlock{
		Number:  number.Int64(),
		Reward:  reward,
		MinedAt: time.Unix(int64(timestamp), 0).UTC(),
	}, nil
}
