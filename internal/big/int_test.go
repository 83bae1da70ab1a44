package big_test

import (
	esbig "github.com/marto32/goetherscan/internal/big"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BigIntFromString", func() {
	It("parses wei quantities beyond int64 range", func() {
		b, err := esbig.BigIntFromString("748997604382925139479303")
		Expect(err).ToNot(HaveOccurred())
		Expect(b.String()).To(Equal("748997604382925139479303"))
	})

	It("parses numbers with commas, spaces and underscores", func() {
		cases := []struct {
			in  string
			exp string
		}{
			{"4,157", "4157"},
			{"-1,234", "-1234"},
			{"1 234", "1234"},
			{"1_234", "1234"},
		}

		for _, c := range cases {
			b, err := esbig.BigIntFromString(c.in)
			Expect(err).ToNot(HaveOccurred())
			Expect(b.String()).To(Equal(c.exp))
		}
	})

	It("rejects non-numeric strings", func() {
		_, err := esbig.BigIntFromString("Error!")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("BigIntFromHexString", func() {
	It("parses values with and without the 0x prefix", func() {
		b, err := esbig.BigIntFromHexString("0x10d4f")
		Expect(err).ToNot(HaveOccurred())
		Expect(b.Int64()).To(Equal(int64(68943)))

		b, err = esbig.BigIntFromHexString("ff")
		Expect(err).ToNot(HaveOccurred())
		Expect(b.Int64()).To(Equal(int64(255)))
	})
})

var _ = Describe("Uint64FromString", func() {
	It("parses counter fields", func() {
		n, err := esbig.Uint64FromString("1436963")
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(uint64(1436963)))
	})

	It("rejects values that overflow", func() {
		_, err := esbig.Uint64FromString("748997604382925139479303")
		Expect(err).To(HaveOccurred())
	})

	It("rejects negative values", func() {
		_, err := esbig.Uint64FromString("-1")
		Expect(err).To(HaveOccurred())
	})
})
