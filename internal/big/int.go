package big

import (
	"fmt"
	"math/big"
	"strings"
)

const (
	base10 = 10
	base16 = 16
)

// BigIntFromString converts a base-10 string, such as a wei quantity returned
// by the Etherscan API, to a *big.Int.
func BigIntFromString(s string) (*big.Int, error) {
	// allow common thousands separators (commas, underscores and spaces)
	sanitized := strings.ReplaceAll(s, ",", "")
	sanitized = strings.ReplaceAll(sanitized, "_", "")
	sanitized = strings.ReplaceAll(sanitized, " ", "")

	bigInt, isValid := new(big.Int).SetString(sanitized, base10)
	if !isValid {
		return nil, fmt.Errorf("invalid integer string: %s", s)
	}

	return bigInt, nil
}

// BigIntFromHexString converts a hex string, with or without a leading 0x,
// to a *big.Int.
func BigIntFromHexString(s string) (*big.Int, error) {
	sanitized := strings.TrimPrefix(strings.TrimSpace(s), "0x")

	bigInt, isValid := new(big.Int).SetString(sanitized, base16)
	if !isValid {
		return nil, fmt.Errorf("invalid hex string: %s", s)
	}

	return bigInt, nil
}

// Uint64FromString converts a base-10 string to a uint64, rejecting values
// that overflow. Counter-like fields (nonce, gas, confirmations) use this.
func Uint64FromString(s string) (uint64, error) {
	parsed, err := BigIntFromString(s)
	if err != nil {
		return 0, err
	}

	if !parsed.IsUint64() {
		return 0, fmt.Errorf("value does not fit in a uint64: %s", s)
	}

	return parsed.Uint64(), nil
}
