package ethereum

import (
	"math/big"
	"time"

	"github.com/marto32/goetherscan/etherscan"
	esbig "github.com/marto32/goetherscan/internal/big"
)

// Transaction wraps one already-fetched transaction record. Typed fields are
// derived from the record's string fields on first access and cached; since
// the record never changes, re-derivation is idempotent.
type Transaction struct {
	client *etherscan.Client
	record etherscan.TransactionRecord

	nonce             *uint64
	value             *big.Int
	gas               *uint64
	gasPrice          *big.Int
	gasUsed           *uint64
	cumulativeGasUsed *uint64
	confirmations     *uint64
	blockNumber       *int64
	executedAt        *time.Time
}

// NewTransaction builds a Transaction entity from a record returned by a
// transaction listing call.
func NewTransaction(client *etherscan.Client, record etherscan.TransactionRecord) (*Transaction, error) {
	if client == nil {
		return nil, &etherscan.Error{Kind: etherscan.KindInitialization, Message: "a client must be supplied"}
	}

	if record == (etherscan.TransactionRecord{}) {
		return nil, &etherscan.Error{Kind: etherscan.KindInitialization, Message: "transaction record must not be empty"}
	}

	return &Transaction{client: client, record: record}, nil
}

// Record returns the raw record this entity was built from.
func (t *Transaction) Record() etherscan.TransactionRecord {
	return t.record
}

func (t *Transaction) Hash() string            { return t.record.Hash }
func (t *Transaction) From() string            { return t.record.From }
func (t *Transaction) To() string              { return t.record.To }
func (t *Transaction) Input() string           { return t.record.Input }
func (t *Transaction) ContractAddress() string { return t.record.ContractAddress }

// IsError reports whether the transaction errored during execution.
func (t *Transaction) IsError() bool {
	return t.record.IsError == "1"
}

// Nonce returns the sender's transaction count at execution time. Internal
// transactions carry no nonce; accessing it on one is an error.
func (t *Transaction) Nonce() (uint64, error) {
	return t.cachedCounter(&t.nonce, t.record.Nonce, "nonce")
}

// Value returns the transferred amount in wei.
func (t *Transaction) Value() (*big.Int, error) {
	return t.cachedWei(&t.value, t.record.Value, "value")
}

// Gas returns the gas limit of the transaction.
func (t *Transaction) Gas() (uint64, error) {
	return t.cachedCounter(&t.gas, t.record.Gas, "gas")
}

// GasPrice returns the gas price in wei.
func (t *Transaction) GasPrice() (*big.Int, error) {
	return t.cachedWei(&t.gasPrice, t.record.GasPrice, "gasPrice")
}

// GasUsed returns the gas consumed by the transaction.
func (t *Transaction) GasUsed() (uint64, error) {
	return t.cachedCounter(&t.gasUsed, t.record.GasUsed, "gasUsed")
}

// CumulativeGasUsed returns the gas consumed in the block up to and including
// this transaction.
func (t *Transaction) CumulativeGasUsed() (uint64, error) {
	return t.cachedCounter(&t.cumulativeGasUsed, t.record.CumulativeGasUsed, "cumulativeGasUsed")
}

// Confirmations returns the number of blocks mined since this transaction.
func (t *Transaction) Confirmations() (uint64, error) {
	return t.cachedCounter(&t.confirmations, t.record.Confirmations, "confirmations")
}

// BlockNumber returns the number of the block the transaction was included in.
func (t *Transaction) BlockNumber() (int64, error) {
	if t.blockNumber != nil {
		return *t.blockNumber, nil
	}

	parsed, err := esbig.BigIntFromString(t.record.BlockNumber)
	if err != nil {
		return 0, &etherscan.Error{
			Kind:    etherscan.KindTransaction,
			Message: "failed to parse blockNumber '" + t.record.BlockNumber + "'",
			Err:     err,
		}
	}

	number := parsed.Int64()
	t.blockNumber = &number

	return number, nil
}

// Block derives a Block entity for the block this transaction belongs to.
func (t *Transaction) Block() (*Block, error) {
	number, err := t.BlockNumber()
	if err != nil {
		return nil, err
	}

	return NewBlock(t.client, number)
}

// ExecutedAt returns the UTC time the transaction was executed.
func (t *Transaction) ExecutedAt() (time.Time, error) {
	if t.executedAt != nil {
		return *t.executedAt, nil
	}

	timestamp, err := esbig.Uint64FromString(t.record.TimeStamp)
	if err != nil {
		return time.Time{}, &etherscan.Error{
			Kind:    etherscan.KindTransaction,
			Message: "failed to parse timeStamp '" + t.record.TimeStamp + "'",
			Err:     err,
		}
	}

	executedAt := time.Unix(int64(timestamp), 0).UTC()
	t.executedAt = &executedAt

	return executedAt, nil
}

func (t *Transaction) cachedCounter(cache **uint64, raw string, field string) (uint64, error) {
	if *cache != nil {
		return **cache, nil
	}

	parsed, err := esbig.Uint64FromString(raw)
	if err != nil {
		return 0, &etherscan.Error{
			Kind:    etherscan.KindTransaction,
			Message: "failed to parse " + field + " '" + raw + "'",
			Err:     err,
		}
	}

	*cache = &parsed

	return parsed, nil
}

func (t *Transaction) cachedWei(cache **big.Int, raw string, field string) (*big.Int, error) {
	if *cache != nil {
		return *cache, nil
	}

	parsed, err := esbig.BigIntFromString(raw)
	if err != nil {
		return nil, &etherscan.Error{
			Kind:    etherscan.KindTransaction,
			Message: "failed to parse " + field + " '" + raw + "'",
			Err:     err,
		}
	}

	*cache = parsed

	return parsed, nil
}
