package contract

import (
	"fmt"

	"acdm_platform/sdk"
)

// loadAccount returns the registered account, ok=false when addr never registered.
func loadAccount(st sdk.State, addr sdk.Address) (*Account, bool, error) {
	ptr := st.Get(accountKey(addr))
	if ptr == nil || *ptr == "" {
		return nil, false, nil
	}
	acc, err := decodeAccount([]byte(*ptr))
	if err != nil {
		return nil, false, fmt.Errorf("decode account %s: %w", addr.Hex(), err)
	}
	return acc, true, nil
}

func saveAccount(st sdk.State, addr sdk.Address, acc *Account) {
	st.Set(accountKey(addr), string(encodeAccount(acc)))
}

// loadDeposit returns a zero deposit for addresses that never staked.
func loadDeposit(st sdk.State, addr sdk.Address) (*Deposit, error) {
	ptr := st.Get(depositKey(addr))
	if ptr == nil || *ptr == "" {
		return newDeposit(), nil
	}
	d, err := decodeDeposit([]byte(*ptr))
	if err != nil {
		return nil, fmt.Errorf("decode deposit %s: %w", addr.Hex(), err)
	}
	return d, nil
}

func saveDeposit(st sdk.State, addr sdk.Address, d *Deposit) {
	st.Set(depositKey(addr), string(encodeDeposit(d)))
}

// loadListing returns the listing, ok=false if the slot was never written.
func loadListing(st sdk.State, seller sdk.Address, id uint64) (*Listing, bool, error) {
	ptr := st.Get(listingKey(seller, id))
	if ptr == nil || *ptr == "" {
		return nil, false, nil
	}
	l, err := decodeListing([]byte(*ptr))
	if err != nil {
		return nil, false, fmt.Errorf("decode listing %s/%d: %w", seller.Hex(), id, err)
	}
	return l, true, nil
}

func saveListing(st sdk.State, seller sdk.Address, id uint64, l *Listing) {
	st.Set(listingKey(seller, id), string(encodeListing(l)))
}

// getListingCounter is the number of listings seller ever created.
func getListingCounter(st sdk.State, seller sdk.Address) uint64 {
	return getCount(st, listingCounterKey(seller))
}
