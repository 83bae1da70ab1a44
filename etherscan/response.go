package etherscan

import (
	"encoding/json"
	"math/big"
	"net/http"

	esbig "github.com/marto32/goetherscan/internal/big"
	esio "github.com/marto32/goetherscan/internal/io"
)

// Envelope is the wrapper every Etherscan API response uses. Status is the
// API-level outcome ("1" for success), independent of the HTTP status code.
// Result is endpoint-specific: a scalar numeric string, a list of records or
// a single record.
type Envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// Response holds the decoded envelope of a successful API call alongside the
// HTTP status code it arrived with. Endpoint-specific response types embed it.
type Response struct {
	Envelope   Envelope
	HTTPStatus int
}

// decodeResponse validates the HTTP response and decodes the envelope.
//
// A 403 means the rate limit was hit; it is surfaced as a request error
// rather than absorbed, so callers stay in control of their request budget.
// An envelope whose status is not "1" is a data error: the transport worked,
// the API refused, and repeating the identical call will not change its mind.
func decodeResponse(resp *http.Response) (*Response, error) {
	if resp.StatusCode == http.StatusForbidden {
		return nil, newError(KindRequest, "rate limit reached")
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, newError(KindRequest, "unexpected HTTP status %d (%s)", resp.StatusCode, resp.Status)
	}

	var envelope Envelope
	if err := json.NewDecoder(esio.StripUTF8BOM(resp.Body)).Decode(&envelope); err != nil {
		return nil, wrapError(KindRequest, err, "failed to decode response body")
	}

	if envelope.Status != "1" {
		return nil, newError(KindData, "%s. result=%s", envelope.Message, string(envelope.Result))
	}

	return &Response{Envelope: envelope, HTTPStatus: resp.StatusCode}, nil
}

// TransactionRecord is one entry of a txlist or txlistinternal result. All
// fields arrive as strings; internal transactions leave the fields they do
// not carry (nonce, gasPrice, confirmations) empty.
type TransactionRecord struct {
	BlockNumber       string `json:"blockNumber"`
	TimeStamp         string `json:"timeStamp"`
	Hash              string `json:"hash"`
	Nonce             string `json:"nonce"`
	BlockHash         string `json:"blockHash"`
	TransactionIndex  string `json:"transactionIndex"`
	From              string `json:"from"`
	To                string `json:"to"`
	Value             string `json:"value"`
	Gas               string `json:"gas"`
	GasPrice          string `json:"gasPrice"`
	IsError           string `json:"isError"`
	Input             string `json:"input"`
	ContractAddress   string `json:"contractAddress"`
	CumulativeGasUsed string `json:"cumulativeGasUsed"`
	GasUsed           string `json:"gasUsed"`
	Confirmations     string `json:"confirmations"`
	Type              string `json:"type"`
	ErrCode           string `json:"errCode"`
}

// MinedBlockRecord is one entry of a getminedblocks result.
type MinedBlockRecord struct {
	BlockNumber string `json:"blockNumber"`
	TimeStamp   string `json:"timeStamp"`
	BlockReward string `json:"blockReward"`
}

// UncleRecord is one uncle entry of a getblockreward result. The API spells
// the uncle reward field in lowercase, unlike the top-level blockReward.
type UncleRecord struct {
	Miner         string `json:"miner"`
	UnclePosition string `json:"unclePosition"`
	BlockReward   string `json:"blockreward"`
}

// BlockRewardsRecord is the result object of a getblockreward call.
type BlockRewardsRecord struct {
	BlockNumber          string        `json:"blockNumber"`
	TimeStamp            string        `json:"timeStamp"`
	BlockMiner           string        `json:"blockMiner"`
	BlockReward          string        `json:"blockReward"`
	Uncles               []UncleRecord `json:"uncles"`
	UncleInclusionReward string        `json:"uncleInclusionReward"`
}

// SingleAddressBalanceResponse is the typed result of a balance call.
type SingleAddressBalanceResponse struct {
	Response

	Balance *big.Int // the balance of the address, in wei
}

func parseSingleAddressBalance(resp *Response) (*SingleAddressBalanceResponse, error) {
	var raw string
	if err := json.Unmarshal(resp.Envelope.Result, &raw); err != nil {
		return nil, wrapError(KindRequest, err, "balance result is not a string")
	}

	balance, err := esbig.BigIntFromString(raw)
	if err != nil {
		return nil, wrapError(KindRequest, err, "failed to parse balance %q", raw)
	}

	return &SingleAddressBalanceResponse{Response: *resp, Balance: balance}, nil
}

// MultiAddressBalanceResponse is the typed result of a balancemulti call.
type MultiAddressBalanceResponse struct {
	Response

	// Balances maps each requested account address to its balance in wei.
	Balances map[string]*big.Int
}

func parseMultiAddressBalance(resp *Response) (*MultiAddressBalanceResponse, error) {
	var pairs []struct {
		Account string `json:"account"`
		Balance string `json:"balance"`
	}
	if err := json.Unmarshal(resp.Envelope.Result, &pairs); err != nil {
		return nil, wrapError(KindRequest, err, "balancemulti result is not a list")
	}

	balances := make(map[string]*big.Int, len(pairs))
	for _, pair := range pairs {
		balance, err := esbig.BigIntFromString(pair.Balance)
		if err != nil {
			return nil, wrapError(KindRequest, err, "failed to parse balance %q for account '%s'", pair.Balance, pair.Account)
		}
		balances[pair.Account] = balance
	}

	return &MultiAddressBalanceResponse{Response: *resp, Balances: balances}, nil
}

// TransactionsByAddressResponse is the typed result of a txlist or
// txlistinternal call for an address.
type TransactionsByAddressResponse struct {
	Response

	Transactions []TransactionRecord
}

func parseTransactionsByAddress(resp *Response) (*TransactionsByAddressResponse, error) {
	var records []TransactionRecord
	if err := json.Unmarshal(resp.Envelope.Result, &records); err != nil {
		return nil, wrapError(KindRequest, err, "transaction list result is not a list")
	}

	return &TransactionsByAddressResponse{Response: *resp, Transactions: records}, nil
}

// TransactionsByHashResponse is the typed result of a txlistinternal call for
// a transaction hash. The API returns a single-element list; the element is
// extracted here.
type TransactionsByHashResponse struct {
	Response

	Transaction TransactionRecord
}

func parseTransactionsByHash(resp *Response) (*TransactionsByHashResponse, error) {
	var records []TransactionRecord
	if err := json.Unmarshal(resp.Envelope.Result, &records); err != nil {
		return nil, wrapError(KindRequest, err, "transaction result is not a list")
	}

	if len(records) == 0 {
		return nil, newError(KindData, "no transaction found for the given hash")
	}

	return &TransactionsByHashResponse{Response: *resp, Transaction: records[0]}, nil
}

// BlocksMinedByAddressResponse is the typed result of a getminedblocks call.
type BlocksMinedByAddressResponse struct {
	Response

	Blocks []MinedBlockRecord
}

func parseBlocksMinedByAddress(resp *Response) (*BlocksMinedByAddressResponse, error) {
	var records []MinedBlockRecord
	if err := json.Unmarshal(resp.Envelope.Result, &records); err != nil {
		return nil, wrapError(KindRequest, err, "mined block result is not a list")
	}

	return &BlocksMinedByAddressResponse{Response: *resp, Blocks: records}, nil
}

// ContractABIResponse is the typed result of a getabi call. The ABI arrives
// as a JSON document encoded inside the result string.
type ContractABIResponse struct {
	Response

	ABI string
}

func parseContractABI(resp *Response) (*ContractABIResponse, error) {
	var abi string
	if err := json.Unmarshal(resp.Envelope.Result, &abi); err != nil {
		return nil, wrapError(KindRequest, err, "ABI result is not a string")
	}

	return &ContractABIResponse{Response: *resp, ABI: abi}, nil
}

// ContractExecutionStatusResponse is the typed result of a getstatus call.
type ContractExecutionStatusResponse struct {
	Response

	IsError        bool
	ErrDescription string
}

func parseContractExecutionStatus(resp *Response) (*ContractExecutionStatusResponse, error) {
	var status struct {
		IsError        string `json:"isError"`
		ErrDescription string `json:"errDescription"`
	}
	if err := json.Unmarshal(resp.Envelope.Result, &status); err != nil {
		return nil, wrapError(KindRequest, err, "execution status result is not a record")
	}

	return &ContractExecutionStatusResponse{
		Response:       *resp,
		IsError:        status.IsError == "1",
		ErrDescription: status.ErrDescription,
	}, nil
}

// TokenSupplyResponse is the typed result of a tokensupply call.
type TokenSupplyResponse struct {
	Response

	TotalSupply *big.Int // total supply in the token's base unit
}

func parseTokenSupply(resp *Response) (*TokenSupplyResponse, error) {
	var raw string
	if err := json.Unmarshal(resp.Envelope.Result, &raw); err != nil {
		return nil, wrapError(KindRequest, err, "token supply result is not a string")
	}

	supply, err := esbig.BigIntFromString(raw)
	if err != nil {
		return nil, wrapError(KindRequest, err, "failed to parse token supply %q", raw)
	}

	return &TokenSupplyResponse{Response: *resp, TotalSupply: supply}, nil
}

// TokenBalanceResponse is the typed result of a tokenbalance call.
type TokenBalanceResponse struct {
	Response

	Balance *big.Int // account balance in the token's base unit
}

func parseTokenBalance(resp *Response) (*TokenBalanceResponse, error) {
	var raw string
	if err := json.Unmarshal(resp.Envelope.Result, &raw); err != nil {
		return nil, wrapError(KindRequest, err, "token balance result is not a string")
	}

	balance, err := esbig.BigIntFromString(raw)
	if err != nil {
		return nil, wrapError(KindRequest, err, "failed to parse token balance %q", raw)
	}

	return &TokenBalanceResponse{Response: *resp, Balance: balance}, nil
}

// BlockRewardsResponse is the typed result of a getblockreward call.
type BlockRewardsResponse struct {
	Response

	Rewards BlockRewardsRecord
}

func parseBlockRewards(resp *Response) (*BlockRewardsResponse, error) {
	var rewards BlockRewardsRecord
	if err := json.Unmarshal(resp.Envelope.Result, &rewards); err != nil {
		return nil, wrapError(KindRequest, err, "block reward result is not a record")
	}

	return &BlockRewardsResponse{Response: *resp, Rewards: rewards}, nil
}
