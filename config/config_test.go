package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/marto32/goetherscan/config"
	"github.com/marto32/goetherscan/etherscan"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Load", func() {
	var homeDir string

	BeforeEach(func() {
		// isolate resolution from the real home directory and environment
		homeDir = GinkgoT().TempDir()
		GinkgoT().Setenv("HOME", homeDir)
		GinkgoT().Setenv(config.EnvVar, "")
	})

	It("prefers an explicit key over every other source", func() {
		GinkgoT().Setenv(config.EnvVar, "envkey")

		cfg, err := config.Load("explicitkey")
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.APIKey).To(Equal("explicitkey"))
		Expect(cfg.Timeout).To(Equal(config.DefaultTimeout))
	})

	It("reads the home-directory dotfile ahead of the environment", func() {
		GinkgoT().Setenv(config.EnvVar, "envkey")

		path := filepath.Join(homeDir, config.FileName)
		Expect(os.WriteFile(path, []byte("api_key: filekey\ntimeout_seconds: 10\n"), 0o600)).To(Succeed())

		cfg, err := config.Load("")
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.APIKey).To(Equal("filekey"))
		Expect(cfg.Timeout).To(Equal(10 * time.Second))
	})

	It("falls back to the environment variable", func() {
		GinkgoT().Setenv(config.EnvVar, "envkey")

		cfg, err := config.Load("")
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.APIKey).To(Equal("envkey"))
	})

	It("defaults to the public test key when nothing is configured", func() {
		cfg, err := config.Load("")
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.APIKey).To(Equal(etherscan.TestingAPIKey))
	})
})

var _ = Describe("YAML round trip", func() {
	It("encodes and decodes a config", func() {
		cfg := &config.Config{APIKey: "roundtrip", Timeout: 7 * time.Second}

		var sb strings.Builder
		Expect(config.ToYAML(cfg, &sb)).To(Succeed())

		decoded, err := config.FromYAML(strings.NewReader(sb.String()))
		Expect(err).ToNot(HaveOccurred())
		Expect(decoded).To(Equal(cfg))
	})
})

var _ = Describe("Write", func() {
	It("persists a config readable only by the owner", func() {
		path := filepath.Join(GinkgoT().TempDir(), config.FileName)

		Expect(config.Write(path, &config.Config{APIKey: "persisted", Timeout: 5 * time.Second})).To(Succeed())

		info, err := os.Stat(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))

		file, err := os.Open(path)
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = file.Close() }()

		decoded, err := config.FromYAML(file)
		Expect(err).ToNot(HaveOccurred())
		Expect(decoded.APIKey).To(Equal("persisted"))
	})
})
