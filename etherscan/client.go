// Package etherscan implements a client for the Etherscan HTTP API: URL
// construction for a fixed set of endpoints, bounded retry of transient
// failures and decoding of the {status, message, result} envelope into typed
// responses.
package etherscan

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	eshttp "github.com/marto32/goetherscan/internal/http"
)

const (
	// DefaultBaseURL is the mainnet API host.
	DefaultBaseURL = "https://api.etherscan.io"

	// TestingBaseURL is the Ropsten test-network host used when no real API
	// key is configured.
	TestingBaseURL = "https://api-ropsten.etherscan.io"

	// TestingAPIKey is the placeholder key accepted by the test network.
	TestingAPIKey = "YourApiKeyToken"
)

// Etherscan API module names.
const (
	accountModule     = "account"
	contractModule    = "contract"
	transactionModule = "transaction"
	blockModule       = "block"
	statsModule       = "stats"
)

// maxMultiBalanceAddresses is the API's hard limit on a balancemulti call.
const maxMultiBalanceAddresses = 20

// RetryPolicy bounds the retry behavior of a Client. The wait between
// attempts doubles from InitialWait up to MaxWait.
type RetryPolicy struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
}

// DefaultRetryPolicy retries up to five attempts with waits of 1s, 2s, 4s, 8s.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 5,
	InitialWait: 1 * time.Second,
	MaxWait:     10 * time.Second,
}

// Client issues requests against the Etherscan API. It holds only read-only
// configuration, so a single instance may be shared across goroutines; the
// client itself never issues concurrent requests.
type Client struct {
	doer    eshttp.Doer
	apiKey  string
	timeout time.Duration
	baseURL string
	retry   RetryPolicy
}

// Option customizes a Client beyond its required configuration.
type Option func(*Client)

// WithBaseURL points the client at a different API host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient replaces the HTTP client used to execute requests. The
// caller becomes responsible for enforcing a timeout.
func WithHTTPClient(doer eshttp.Doer) Option {
	return func(c *Client) {
		c.doer = doer
	}
}

// WithRetryPolicy replaces the default retry policy.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client) {
		c.retry = policy
	}
}

// NewClient builds a Client for the given API key and per-request timeout.
// Keys equal to TestingAPIKey are directed at the test network host.
func NewClient(apiKey string, timeout time.Duration, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, newError(KindInitialization, "an API key must be supplied")
	}

	if timeout <= 0 {
		return nil, newError(KindInitialization, "timeout must be a positive duration")
	}

	client := &Client{
		apiKey:  apiKey,
		timeout: timeout,
		baseURL: DefaultBaseURL,
		retry:   DefaultRetryPolicy,
	}

	if apiKey == TestingAPIKey {
		client.baseURL = TestingBaseURL
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.doer == nil {
		client.doer = &http.Client{Timeout: timeout}
	}

	return client, nil
}

func (c *Client) String() string {
	return fmt.Sprintf("Client(apikey=<hidden>, timeout=%s)", c.timeout)
}

// TransactionsQuery carries the optional filters of a transaction listing
// call. A nil query means no filtering and ascending order.
type TransactionsQuery struct {
	StartBlock *int64 // first block to include; nil = from genesis
	EndBlock   *int64 // last block to include; nil = to latest
	Sort       string // "asc" (default) or "desc"
	Page       int    // 1-based page index; 0 = no paging
	Offset     int    // records per page; 0 = no paging
}

// GetSingleBalance retrieves the wei balance of a single address.
func (c *Client) GetSingleBalance(ctx context.Context, address string) (*SingleAddressBalanceResponse, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("tag", "latest")

	resp, err := c.get(ctx, accountModule, "balance", params)
	if err != nil {
		return nil, err
	}

	return parseSingleAddressBalance(resp)
}

// GetMultiBalance retrieves the wei balances of up to 20 addresses in one
// call. The limit is validated before any network traffic.
func (c *Client) GetMultiBalance(ctx context.Context, addresses []string) (*MultiAddressBalanceResponse, error) {
	if len(addresses) == 0 {
		return nil, newError(KindAddress, "at least one address must be supplied")
	}

	if len(addresses) > maxMultiBalanceAddresses {
		return nil, newError(
			KindAddress,
			"etherscan takes a maximum of %d addresses in a single call, got %d",
			maxMultiBalanceAddresses,
			len(addresses),
		)
	}

	params := url.Values{}
	params.Set("address", strings.Join(addresses, ","))
	params.Set("tag", "latest")

	resp, err := c.get(ctx, accountModule, "balancemulti", params)
	if err != nil {
		return nil, err
	}

	return parseMultiAddressBalance(resp)
}

// GetTransactionsByAddress retrieves the normal transactions of an address.
func (c *Client) GetTransactionsByAddress(ctx context.Context, address string, query *TransactionsQuery) (*TransactionsByAddressResponse, error) {
	return c.getTransactionList(ctx, "txlist", address, query)
}

// GetInternalTransactionsByAddress retrieves the internal (message call)
// transactions of an address.
func (c *Client) GetInternalTransactionsByAddress(ctx context.Context, address string, query *TransactionsQuery) (*TransactionsByAddressResponse, error) {
	return c.getTransactionList(ctx, "txlistinternal", address, query)
}

func (c *Client) getTransactionList(ctx context.Context, action string, address string, query *TransactionsQuery) (*TransactionsByAddressResponse, error) {
	params := url.Values{}
	params.Set("address", address)

	if err := applyTransactionsQuery(params, query); err != nil {
		return nil, err
	}

	resp, err := c.get(ctx, accountModule, action, params)
	if err != nil {
		return nil, err
	}

	return parseTransactionsByAddress(resp)
}

// GetTransactionByHash retrieves the internal transaction details for a
// single transaction hash.
func (c *Client) GetTransactionByHash(ctx context.Context, transactionHash string) (*TransactionsByHashResponse, error) {
	params := url.Values{}
	params.Set("txhash", transactionHash)

	resp, err := c.get(ctx, accountModule, "txlistinternal", params)
	if err != nil {
		return nil, err
	}

	return parseTransactionsByHash(resp)
}

// GetBlocksMinedByAddress retrieves the blocks mined by an address. Page and
// offset follow the both-or-neither rule; zero values mean no paging.
func (c *Client) GetBlocksMinedByAddress(ctx context.Context, address string, page int, offset int) (*BlocksMinedByAddressResponse, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("blocktype", "blocks")

	if err := applyPaging(params, page, offset); err != nil {
		return nil, err
	}

	resp, err := c.get(ctx, accountModule, "getminedblocks", params)
	if err != nil {
		return nil, err
	}

	return parseBlocksMinedByAddress(resp)
}

// GetContractABI retrieves the ABI of a verified contract.
func (c *Client) GetContractABI(ctx context.Context, address string) (*ContractABIResponse, error) {
	params := url.Values{}
	params.Set("address", address)

	resp, err := c.get(ctx, contractModule, "getabi", params)
	if err != nil {
		return nil, err
	}

	return parseContractABI(resp)
}

// GetContractExecutionStatus retrieves whether a contract execution errored.
func (c *Client) GetContractExecutionStatus(ctx context.Context, transactionHash string) (*ContractExecutionStatusResponse, error) {
	params := url.Values{}
	params.Set("txhash", transactionHash)

	resp, err := c.get(ctx, transactionModule, "getstatus", params)
	if err != nil {
		return nil, err
	}

	return parseContractExecutionStatus(resp)
}

// GetTokenSupplyByAddress retrieves the total supply of an ERC-20 token by
// its contract address.
func (c *Client) GetTokenSupplyByAddress(ctx context.Context, contractAddress string) (*TokenSupplyResponse, error) {
	params := url.Values{}
	params.Set("contractaddress", contractAddress)

	resp, err := c.get(ctx, statsModule, "tokensupply", params)
	if err != nil {
		return nil, err
	}

	return parseTokenSupply(resp)
}

// GetTokenBalanceByAddress retrieves an account's balance of an ERC-20 token.
func (c *Client) GetTokenBalanceByAddress(ctx context.Context, contractAddress string, accountAddress string) (*TokenBalanceResponse, error) {
	params := url.Values{}
	params.Set("contractaddress", contractAddress)
	params.Set("address", accountAddress)
	params.Set("tag", "latest")

	resp, err := c.get(ctx, accountModule, "tokenbalance", params)
	if err != nil {
		return nil, err
	}

	return parseTokenBalance(resp)
}

// GetBlockAndUncleRewardsByBlockNumber retrieves the block reward, miner and
// uncle rewards for a block.
func (c *Client) GetBlockAndUncleRewardsByBlockNumber(ctx context.Context, blockNumber int64) (*BlockRewardsResponse, error) {
	if blockNumber < 0 {
		return nil, newError(KindBlock, "block number must not be negative, got %d", blockNumber)
	}

	params := url.Values{}
	params.Set("blockno", strconv.FormatInt(blockNumber, 10))

	resp, err := c.get(ctx, blockModule, "getblockreward", params)
	if err != nil {
		return nil, err
	}

	return parseBlockRewards(resp)
}

func applyTransactionsQuery(params url.Values, query *TransactionsQuery) error {
	sort := "asc"

	if query != nil {
		if query.StartBlock != nil {
			params.Set("startblock", strconv.FormatInt(*query.StartBlock, 10))
		}
		if query.EndBlock != nil {
			params.Set("endblock", strconv.FormatInt(*query.EndBlock, 10))
		}
		if query.Sort != "" {
			sort = query.Sort
		}

		if err := applyPaging(params, query.Page, query.Offset); err != nil {
			return err
		}
	}

	params.Set("sort", sort)

	return nil
}

// applyPaging enforces the both-or-neither rule on page and offset.
func applyPaging(params url.Values, page int, offset int) error {
	if (page == 0) != (offset == 0) {
		return newError(KindTransaction, "if using page or offset, both must be set")
	}

	if page != 0 {
		params.Set("page", strconv.Itoa(page))
		params.Set("offset", strconv.Itoa(offset))
	}

	return nil
}

// endpointURL assembles the request URL for one module/action pair. The API
// key is appended last.
func (c *Client) endpointURL(module string, action string, params url.Values) string {
	query := url.Values{}
	query.Set("module", module)
	query.Set("action", action)
	for key, values := range params {
		query[key] = values
	}
	query.Set("apikey", c.apiKey)

	return c.baseURL + "/api?" + query.Encode()
}

func (c *Client) get(ctx context.Context, module string, action string, params url.Values) (*Response, error) {
	return c.Do(ctx, http.MethodGet, module, action, params)
}

// Do performs one API call under the retry policy and returns the decoded
// envelope. It is the escape hatch for endpoints without a typed method; the
// method is either GET or POST. Request and data errors return immediately;
// anything else retries with exponential backoff until the attempt budget is
// exhausted, after which the last error is surfaced unchanged.
func (c *Client) Do(ctx context.Context, method string, module string, action string, params url.Values) (*Response, error) {
	requestURL := c.endpointURL(module, action, params)

	wait := c.retry.InitialWait

	var lastErr error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			slog.DebugContext(
				ctx,
				"Retrying Etherscan request",
				"module", module,
				"action", action,
				"attempt", attempt,
				"wait", wait,
			)

			select {
			case <-ctx.Done():
				return nil, wrapError(KindConnection, ctx.Err(), "canceled while waiting to retry")
			case <-time.After(wait):
			}

			wait *= 2
			if wait > c.retry.MaxWait {
				wait = c.retry.MaxWait
			}
		}

		resp, err := c.attempt(ctx, method, requestURL)
		if err == nil {
			return resp, nil
		}

		if !retryable(err) {
			return nil, err
		}

		lastErr = err
	}

	return nil, lastErr
}

func (c *Client) attempt(ctx context.Context, method string, requestURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, requestURL, nil)
	if err != nil {
		return nil, wrapError(KindRequest, err, "failed to create request")
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, wrapError(KindConnection, err, "failed to execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	return decodeResponse(resp)
}
