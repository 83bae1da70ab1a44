package ethereum

import (
	"context"
	"math/big"

	"github.com/marto32/goetherscan/etherscan"
)

// Token represents an ERC-20 token, identified by its contract address.
type Token struct {
	client          *etherscan.Client
	contractAddress string

	supply *big.Int
}

// NewToken builds a Token entity for the given contract address.
func NewToken(client *etherscan.Client, contractAddress string) (*Token, error) {
	if client == nil {
		return nil, &etherscan.Error{Kind: etherscan.KindInitialization, Message: "a client must be supplied"}
	}

	if contractAddress == "" {
		return nil, &etherscan.Error{Kind: etherscan.KindInitialization, Message: "contract address must be a non-empty string"}
	}

	return &Token{client: client, contractAddress: contractAddress}, nil
}

// ContractAddress returns the contract address this entity was built from.
func (t *Token) ContractAddress() string {
	return t.contractAddress
}

// Supply returns the total supply in the token's base unit, fetched on first
// access and cached.
func (t *Token) Supply(ctx context.Context) (*big.Int, error) {
	if t.supply != nil {
		return t.supply, nil
	}

	resp, err := t.client.GetTokenSupplyByAddress(ctx, t.contractAddress)
	if err != nil {
		return nil, err
	}

	t.supply = resp.TotalSupply

	return t.supply, nil
}

// BalanceOf returns the given account's balance of this token. The result is
// never cached.
func (t *Token) BalanceOf(ctx context.Context, accountAddress string) (*big.Int, error) {
	resp, err := t.client.GetTokenBalanceByAddress(ctx, t.contractAddress, accountAddress)
	if err != nil {
		return nil, err
	}

	return resp.Balance, nil
}
