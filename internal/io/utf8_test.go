package io_test

import (
	"io"
	"strings"

	esio "github.com/marto32/goetherscan/internal/io"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("StripUTF8BOM", func() {
	It("removes a leading BOM", func() {
		r := esio.StripUTF8BOM(strings.NewReader("\ufeff{\"status\":\"1\"}"))
		read, err := io.ReadAll(r)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(read)).To(Equal(`{"status":"1"}`))
	})

	It("leaves BOM-less content untouched", func() {
		r := esio.StripUTF8BOM(strings.NewReader(`{"status":"1"}`))
		read, err := io.ReadAll(r)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(read)).To(Equal(`{"status":"1"}`))
	})

	It("handles content shorter than a BOM", func() {
		r := esio.StripUTF8BOM(strings.NewReader("a"))
		read, err := io.ReadAll(r)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(read)).To(Equal("a"))
	})
})
