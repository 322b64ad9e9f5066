package contract

import (
	"strconv"

	"acdm_platform/sdk"
)

// getCount reads the decimal counter under key and defaults to zero.
func getCount(st sdk.State, key string) uint64 {
	ptr := st.Get(key)
	if ptr == nil || *ptr == "" {
		return 0
	}
	n, _ := strconv.ParseUint(*ptr, 10, 64)
	return n
}

// setCount stores uint64 counters back as decimal strings.
func setCount(st sdk.State, key string, n uint64) {
	st.Set(key, strconv.FormatUint(n, 10))
}

// nextCount bumps the counter and returns the value before the bump.
func nextCount(st sdk.State, key string) uint64 {
	n := getCount(st, key)
	setCount(st, key, n+1)
	return n
}
