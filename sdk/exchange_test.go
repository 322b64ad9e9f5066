package sdk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testHost struct {
	env    Env
	ledger *Ledger
}

func (h testHost) Env() Env        { return h.env }
func (h testHost) Ledger() *Ledger { return h.ledger }

func newPoolFixture(t *testing.T) (*ConstantProductPool, *Ledger) {
	t.Helper()
	l := NewLedger(NewMemStore().Begin())
	pool := NewConstantProductPool(carol, token)
	require.NoError(t, l.Mint(NativeToken, bob, Amount(10_000)))
	require.NoError(t, l.Mint(token, bob, Amount(1_000_000)))
	require.NoError(t, pool.AddLiquidity(l, bob, Amount(10_000), Amount(1_000_000)))
	require.NoError(t, l.Mint(NativeToken, alice, Amount(1_000)))
	return pool, l
}

func TestPoolSwap(t *testing.T) {
	pool, l := newPoolFixture(t)
	h := testHost{env: NewEnv(alice, 100), ledger: l}

	want, err := QuoteOut(Amount(1_000), Amount(10_000), Amount(1_000_000))
	require.NoError(t, err)

	out, err := pool.SwapExactNativeForTokens(h, token, Amount(1_000), alice, 200)
	require.NoError(t, err)
	assert.Equal(t, want, out)
	// 1000*997*1e6 / (10000*1000 + 1000*997)
	assert.Equal(t, Amount(90_661), out)
	assert.Equal(t, out, l.BalanceOf(token, alice))
	assert.True(t, l.BalanceOf(NativeToken, alice).IsZero())

	rNative, rToken := pool.Reserves(l)
	assert.Equal(t, Amount(11_000), rNative)
	assert.Equal(t, Amount(1_000_000-90_661), rToken)
}

func TestPoolSwapExpired(t *testing.T) {
	pool, l := newPoolFixture(t)
	h := testHost{env: NewEnv(alice, 300), ledger: l}
	_, err := pool.SwapExactNativeForTokens(h, token, Amount(1_000), alice, 200)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestPoolSwapWithoutLiquidity(t *testing.T) {
	l := NewLedger(NewMemStore().Begin())
	require.NoError(t, l.Mint(NativeToken, alice, Amount(10)))
	pool := NewConstantProductPool(carol, token)
	h := testHost{env: NewEnv(alice, 1), ledger: l}
	_, err := pool.SwapExactNativeForTokens(h, token, Amount(10), alice, 10)
	assert.ErrorIs(t, err, ErrInsufficientLiquidity)
}
