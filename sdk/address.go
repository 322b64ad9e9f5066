package sdk

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Address is a 20 byte account identifier, shared with go-ethereum so keccak leaves and
// ABI arguments need no conversion.
type Address = common.Address

// ZeroAddress is the null identifier ("no upline", "unset token").
var ZeroAddress = Address{}

// ParseAddress accepts 0x-prefixed or bare hex and rejects anything that is not 20 bytes.
// Example payload: sdk.ParseAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	if !common.IsHexAddress(s) {
		return ZeroAddress, &AddressError{Input: s}
	}
	return common.HexToAddress(s), nil
}

// MustAddress is ParseAddress for constants and tests.
func MustAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// IsZero tells if the address is the null identifier.
func IsZero(a Address) bool {
	return a == ZeroAddress
}

// AddressError reports an unparsable address.
type AddressError struct {
	Input string
}

func (e *AddressError) Error() string {
	return "invalid address " + e.Input
}
