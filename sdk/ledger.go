package sdk

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

const (
	kBalance byte = 0x60
	kSupply  byte = 0x61
)

var (
	// ErrInsufficientBalance is returned by Transfer and Burn when from holds too little.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrSupplyOverflow guards Mint against wrapping the 256-bit supply.
	ErrSupplyOverflow = errors.New("supply overflow")
)

// Ledger books fungible balances (native currency included) inside a State, so every
// movement shares the atomicity of the call that makes it.
type Ledger struct {
	st State
}

// NewLedger binds a ledger view to st.
func NewLedger(st State) *Ledger {
	return &Ledger{st: st}
}

func balanceKey(token, holder Address) string {
	var buf [41]byte
	buf[0] = kBalance
	copy(buf[1:21], token[:])
	copy(buf[21:], holder[:])
	return string(buf[:])
}

func supplyKey(token Address) string {
	var buf [21]byte
	buf[0] = kSupply
	copy(buf[1:], token[:])
	return string(buf[:])
}

func (l *Ledger) read(key string) *uint256.Int {
	ptr := l.st.Get(key)
	if ptr == nil || *ptr == "" {
		return Zero()
	}
	return new(uint256.Int).SetBytes([]byte(*ptr))
}

func (l *Ledger) write(key string, v *uint256.Int) {
	if v.IsZero() {
		l.st.Delete(key)
		return
	}
	b := v.Bytes32()
	l.st.Set(key, string(b[:]))
}

// BalanceOf returns a copy, never nil.
// Example payload: l.BalanceOf(sdk.NativeToken, alice)
func (l *Ledger) BalanceOf(token, holder Address) *uint256.Int {
	return l.read(balanceKey(token, holder))
}

// TotalSupply tracks minted minus burned for token.
func (l *Ledger) TotalSupply(token Address) *uint256.Int {
	return l.read(supplyKey(token))
}

// Transfer moves amount of token between holders. Zero amounts and self transfers are
// no-ops that still check the balance.
func (l *Ledger) Transfer(token, from, to Address, amount *uint256.Int) error {
	fromBal := l.BalanceOf(token, from)
	if fromBal.Lt(amount) {
		return fmt.Errorf("%w: %s holds %s of %s, needs %s", ErrInsufficientBalance, from.Hex(), fromBal.Dec(), token.Hex(), amount.Dec())
	}
	if amount.IsZero() || from == to {
		return nil
	}
	l.write(balanceKey(token, from), new(uint256.Int).Sub(fromBal, amount))
	toBal := l.BalanceOf(token, to)
	l.write(balanceKey(token, to), toBal.Add(toBal, amount))
	return nil
}

// Mint creates amount of token in to's balance.
func (l *Ledger) Mint(token, to Address, amount *uint256.Int) error {
	supply, overflow := new(uint256.Int).AddOverflow(l.TotalSupply(token), amount)
	if overflow {
		return ErrSupplyOverflow
	}
	l.write(supplyKey(token), supply)
	bal := l.BalanceOf(token, to)
	l.write(balanceKey(token, to), bal.Add(bal, amount))
	return nil
}

// Burn destroys amount of token held by from.
func (l *Ledger) Burn(token, from Address, amount *uint256.Int) error {
	bal := l.BalanceOf(token, from)
	if bal.Lt(amount) {
		return fmt.Errorf("%w: burn %s of %s from %s", ErrInsufficientBalance, amount.Dec(), token.Hex(), from.Hex())
	}
	l.write(balanceKey(token, from), new(uint256.Int).Sub(bal, amount))
	supply := l.TotalSupply(token)
	if supply.Lt(amount) {
		supply.Clear()
	} else {
		supply.Sub(supply, amount)
	}
	l.write(supplyKey(token), supply)
	return nil
}
