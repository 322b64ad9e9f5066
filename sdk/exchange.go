package sdk

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

var (
	ErrExpired               = errors.New("exchange: expired")
	ErrInsufficientLiquidity = errors.New("exchange: insufficient liquidity")
	ErrInsufficientOutput    = errors.New("exchange: insufficient output amount")
)

// Exchange swaps native currency held by h.Env().Sender for token, delivering the output
// to `to`. Implementations move funds through h.Ledger() only.
type Exchange interface {
	SwapExactNativeForTokens(h Host, token Address, amountIn *uint256.Int, to Address, deadline int64) (*uint256.Int, error)
}

// ConstantProductPool is a single pair x*y=k pool with a 0.3% fee. Its reserves are
// just the ledger balances of its own address, good enough for tests and local runs.
type ConstantProductPool struct {
	Address Address
	Token   Address
}

var _ Exchange = (*ConstantProductPool)(nil)

// NewConstantProductPool sets up a pool living at addr trading native for token.
func NewConstantProductPool(addr, token Address) *ConstantProductPool {
	return &ConstantProductPool{Address: addr, Token: token}
}

// AddLiquidity moves both legs from provider into the pool.
// Example payload: pool.AddLiquidity(l, owner, sdk.Ether(10), sdk.Amount(1_000_000))
func (p *ConstantProductPool) AddLiquidity(l *Ledger, provider Address, native, tokens *uint256.Int) error {
	if err := l.Transfer(NativeToken, provider, p.Address, native); err != nil {
		return err
	}
	return l.Transfer(p.Token, provider, p.Address, tokens)
}

// Reserves returns (native, token) held by the pool.
func (p *ConstantProductPool) Reserves(l *Ledger) (*uint256.Int, *uint256.Int) {
	return l.BalanceOf(NativeToken, p.Address), l.BalanceOf(p.Token, p.Address)
}

// QuoteOut applies the usual amountIn*997*rOut / (rIn*1000 + amountIn*997).
func QuoteOut(amountIn, reserveIn, reserveOut *uint256.Int) (*uint256.Int, error) {
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return nil, ErrInsufficientLiquidity
	}
	inWithFee, overflow := new(uint256.Int).MulOverflow(amountIn, uint256.NewInt(997))
	if overflow {
		return nil, fmt.Errorf("quote: amount in too large")
	}
	num, overflow := new(uint256.Int).MulOverflow(inWithFee, reserveOut)
	if overflow {
		return nil, fmt.Errorf("quote: numerator overflow")
	}
	den, overflow := new(uint256.Int).MulOverflow(reserveIn, uint256.NewInt(1000))
	if overflow {
		return nil, fmt.Errorf("quote: denominator overflow")
	}
	den.Add(den, inWithFee)
	return num.Div(num, den), nil
}

func (p *ConstantProductPool) SwapExactNativeForTokens(h Host, token Address, amountIn *uint256.Int, to Address, deadline int64) (*uint256.Int, error) {
	if h.Env().Timestamp > deadline {
		return nil, ErrExpired
	}
	if token != p.Token {
		return nil, fmt.Errorf("exchange: pool trades %s, not %s", p.Token.Hex(), token.Hex())
	}
	l := h.Ledger()
	rNative, rToken := p.Reserves(l)
	out, err := QuoteOut(amountIn, rNative, rToken)
	if err != nil {
		return nil, err
	}
	if out.IsZero() {
		return nil, ErrInsufficientOutput
	}
	if err := l.Transfer(NativeToken, h.Env().Sender, p.Address, amountIn); err != nil {
		return nil, err
	}
	if err := l.Transfer(p.Token, p.Address, to, out); err != nil {
		return nil, err
	}
	return out, nil
}
