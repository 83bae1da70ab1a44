package ethereum_test

import (
	"context"
	"net/http"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/marto32/goetherscan/etherscan"
	"github.com/marto32/goetherscan/ethereum"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const apiURL = "https://api.etherscan.io/api"

func newTestClient() *etherscan.Client {
	client, err := etherscan.NewClient("testkey", 5*time.Second, etherscan.WithRetryPolicy(etherscan.RetryPolicy{
		MaxAttempts: 1,
		InitialWait: time.Millisecond,
		MaxWait:     time.Millisecond,
	}))
	Expect(err).ToNot(HaveOccurred())

	return client
}

// respondByAction dispatches on the action query parameter so one responder
// can serve the several endpoints an entity touches.
func respondByAction(responses map[string]string) {
	httpmock.RegisterResponder(
		"GET",
		apiURL,
		func(req *http.Request) (*http.Response, error) {
			action := req.URL.Query().Get("action")
			body, found := responses[action]
			if !found {
				return httpmock.NewStringResponse(http.StatusNotFound, ""), nil
			}

			return httpmock.NewStringResponse(http.StatusOK, body), nil
		},
	)
}

var _ = Describe("NewAddress", func() {
	It("fails with an initialization error without a client", func() {
		_, err := ethereum.NewAddress(nil, "0xabc")
		Expect(etherscan.IsKind(err, etherscan.KindInitialization)).To(BeTrue())
	})

	It("fails with an initialization error on an empty address", func() {
		_, err := ethereum.NewAddress(newTestClient(), "")
		Expect(etherscan.IsKind(err, etherscan.KindInitialization)).To(BeTrue())
	})
})

var _ = Describe("Address", func() {
	BeforeEach(func() {
		httpmock.Reset()
	})

	Describe("Balance", func() {
		It("fetches once and serves later accesses from the cache", func() {
			respondByAction(map[string]string{
				"balance": `{"status":"1","message":"OK","result":"748997604382925139479303"}`,
			})

			address, err := ethereum.NewAddress(newTestClient(), "0xde0b295669a9fd93d5f28d9ec85e40f4cb697bae")
			Expect(err).ToNot(HaveOccurred())

			first, err := address.Balance(context.Background())
			Expect(err).ToNot(HaveOccurred())
			Expect(first.String()).To(Equal("748997604382925139479303"))

			second, err := address.Balance(context.Background())
			Expect(err).ToNot(HaveOccurred())
			Expect(second).To(Equal(first))
			Expect(httpmock.GetTotalCallCount()).To(Equal(1))
		})

		It("caches a zero balance instead of refetching it", func() {
			respondByAction(map[string]string{
				"balance": `{"status":"1","message":"OK","result":"0"}`,
			})

			address, err := ethereum.NewAddress(newTestClient(), "0xabc")
			Expect(err).ToNot(HaveOccurred())

			_, err = address.Balance(context.Background())
			Expect(err).ToNot(HaveOccurred())

			balance, err := address.Balance(context.Background())
			Expect(err).ToNot(HaveOccurred())
			Expect(balance.Sign()).To(BeZero())
			Expect(httpmock.GetTotalCallCount()).To(Equal(1))
		})
	})

	Describe("Transactions", func() {
		It("merges normal then internal transactions, preserving API order", func() {
			respondByAction(map[string]string{
				"txlist": `{"status":"1","message":"OK","result":[
					{"hash":"0xaaa","blockNumber":"1","timeStamp":"1439048640","value":"1","isError":"0"},
					{"hash":"0xbbb","blockNumber":"2","timeStamp":"1439048641","value":"2","isError":"0"}
				]}`,
				"txlistinternal": `{"status":"1","message":"OK","result":[
					{"hash":"0xccc","blockNumber":"3","timeStamp":"1439048642","value":"3","isError":"0"}
				]}`,
			})

			address, err := ethereum.NewAddress(newTestClient(), "0xabc")
			Expect(err).ToNot(HaveOccurred())

			transactions, err := address.Transactions(context.Background())
			Expect(err).ToNot(HaveOccurred())
			Expect(transactions).To(HaveLen(3))
			Expect(transactions[0].Hash()).To(Equal("0xaaa"))
			Expect(transactions[1].Hash()).To(Equal("0xbbb"))
			Expect(transactions[2].Hash()).To(Equal("0xccc"))

			// two calls total (txlist + txlistinternal), then cached
			_, err = address.Transactions(context.Background())
			Expect(err).ToNot(HaveOccurred())
			Expect(httpmock.GetTotalCallCount()).To(Equal(2))
		})

		It("caches an empty merged list", func() {
			respondByAction(map[string]string{
				"txlist":         `{"status":"1","message":"OK","result":[]}`,
				"txlistinternal": `{"status":"1","message":"OK","result":[]}`,
			})

			address, err := ethereum.NewAddress(newTestClient(), "0xabc")
			Expect(err).ToNot(HaveOccurred())

			transactions, err := address.Transactions(context.Background())
			Expect(err).ToNot(HaveOccurred())
			Expect(transactions).To(BeEmpty())

			_, err = address.Transactions(context.Background())
			Expect(err).ToNot(HaveOccurred())
			Expect(httpmock.GetTotalCallCount()).To(Equal(2))
		})
	})

	Describe("MinedBlocks", func() {
		It("parses and caches the mined block list", func() {
			respondByAction(map[string]string{
				"getminedblocks": `{"status":"1","message":"OK","result":[
					{"blockNumber":"3462296","timeStamp":"1491118514","blockReward":"5194770940000000000"}
				]}`,
			})

			address, err := ethereum.NewAddress(newTestClient(), "0x9dd134d14d1e65f84b706d6f205cd5b1cd03a46b")
			Expect(err).ToNot(HaveOccurred())

			blocks, err := address.MinedBlocks(context.Background())
			Expect(err).ToNot(HaveOccurred())
			Expect(blocks).To(HaveLen(1))
			Expect(blocks[0].Number).To(Equal(int64(3462296)))
			Expect(blocks[0].Reward.String()).To(Equal("5194770940000000000"))
			Expect(blocks[0].MinedAt).To(Equal(time.Unix(1491118514, 0).UTC()))

			_, err = address.MinedBlocks(context.Background())
			Expect(err).ToNot(HaveOccurred())
			Expect(httpmock.GetTotalCallCount()).To(Equal(1))
		})
	})

	Describe("TokenBalance", func() {
		It("issues one call per access without caching", func() {
			respondByAction(map[string]string{
				"tokenbalance": `{"status":"1","message":"OK","result":"135499"}`,
			})

			address, err := ethereum.NewAddress(newTestClient(), "0xabc")
			Expect(err).ToNot(HaveOccurred())

			for range 2 {
				balance, err := address.TokenBalance(context.Background(), "0x57d90b64a1a57749b0f932f1a3395792e12e7055")
				Expect(err).ToNot(HaveOccurred())
				Expect(balance.String()).To(Equal("135499"))
			}

			Expect(httpmock.GetTotalCallCount()).To(Equal(2))
		})
	})
})
