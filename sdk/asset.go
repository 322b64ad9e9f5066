package sdk

import "github.com/holiman/uint256"

// NativeToken is the pseudo token address under which the ledger books the native
// currency (the one attached to calls as Env.Value).
var NativeToken = MustAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

// IsNative tells if the token address points at the native currency.
// Example payload: sdk.IsNative(sdk.NativeToken)
func IsNative(token Address) bool {
	return token == NativeToken
}

// Zero returns a fresh zero amount, callers mutate it freely.
func Zero() *uint256.Int {
	return new(uint256.Int)
}

// Amount is a shorthand for uint256.NewInt used all over tests and defaults.
// Example payload: sdk.Amount(1000)
func Amount(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

// ParseAmount reads a decimal string into a 256-bit amount.
// Example payload: sdk.ParseAmount("10000000000000")
func ParseAmount(s string) (*uint256.Int, error) {
	return uint256.FromDecimal(s)
}

// Gwei scales v by 1e9, handy for the price increment.
func Gwei(v uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(v), uint256.NewInt(1_000_000_000))
}

// Ether scales v by 1e18.
func Ether(v uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(v), uint256.NewInt(1_000_000_000_000_000_000))
}
