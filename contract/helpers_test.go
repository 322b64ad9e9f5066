package contract_test

import (
	"testing"

	"acdm_platform/contract"
	"acdm_platform/sdk"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

const startTime = int64(1_756_857_600) // 2025-09-03T00:00:00Z

const (
	day  = int64(24 * 60 * 60)
	week = 7 * day
)

var (
	admin = sdk.MustAddress("0x00000000000000000000000000000000000000ad")
	alice = sdk.MustAddress("0x000000000000000000000000000000000000a11c")
	bob   = sdk.MustAddress("0x0000000000000000000000000000000000000b0b")
	carol = sdk.MustAddress("0x00000000000000000000000000000000000ca201")
	dave  = sdk.MustAddress("0x000000000000000000000000000000000000da7e")
	eve   = sdk.MustAddress("0x0000000000000000000000000000000000000e7e")

	acdmToken = sdk.MustAddress("0x1000000000000000000000000000000000000001")
	xxxToken  = sdk.MustAddress("0x1000000000000000000000000000000000000002")
	lpToken   = sdk.MustAddress("0x1000000000000000000000000000000000000003")

	poolAddr     = sdk.MustAddress("0x2000000000000000000000000000000000000001")
	liquidityBob = sdk.MustAddress("0x2000000000000000000000000000000000000002")

	// everyone but eve may stake
	whitelisted = []sdk.Address{admin, alice, bob, carol, dave}
)

// harness is a platform on an in-memory store with funded accounts, a whitelist
// and a reward token pool.
type harness struct {
	t      *testing.T
	store  *sdk.Store
	p      *contract.Platform
	tree   *sdk.MerkleTree
	pool   *sdk.ConstantProductPool
	now    int64
	events []contract.Event
}

// newHarness sets up a fresh platform with the default genesis at startTime.
func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:     t,
		store: sdk.NewMemStore(),
		tree:  sdk.NewWhitelistTree(whitelisted),
		pool:  sdk.NewConstantProductPool(poolAddr, xxxToken),
		now:   startTime,
	}
	h.p = contract.New(h.store, contract.WithEventSink(contract.EventSinkFunc(func(ev contract.Event) {
		h.events = append(h.events, ev)
	})))

	g := contract.DefaultGenesis(admin, acdmToken, xxxToken, lpToken)
	g.WhitelistRoot = h.tree.Root()
	require.NoError(t, h.p.Init(h.env(admin), g))

	for _, who := range []sdk.Address{admin, alice, bob, carol, dave, eve} {
		h.fund(sdk.NativeToken, who, sdk.Ether(1_000))
		h.fund(lpToken, who, sdk.Amount(1_000_000))
	}
	// reward tokens the platform pays stakers with
	h.fund(xxxToken, h.p.Address(), sdk.Ether(1_000_000))

	h.withLedger(func(l *sdk.Ledger) {
		require.NoError(t, l.Mint(sdk.NativeToken, liquidityBob, sdk.Ether(100)))
		require.NoError(t, l.Mint(xxxToken, liquidityBob, sdk.Ether(10_000)))
		require.NoError(t, h.pool.AddLiquidity(l, liquidityBob, sdk.Ether(100), sdk.Ether(10_000)))
	})
	h.p.RegisterExchange(poolAddr, h.pool)
	h.events = nil
	return h
}

func (h *harness) env(who sdk.Address) sdk.Env {
	return sdk.NewEnv(who, h.now)
}

func (h *harness) pay(who sdk.Address, value *uint256.Int) sdk.Env {
	return h.env(who).WithValue(value)
}

func (h *harness) advance(seconds int64) {
	h.now += seconds
}

// withLedger runs fn on a committed ledger transaction outside of any platform call.
func (h *harness) withLedger(fn func(l *sdk.Ledger)) {
	h.t.Helper()
	tx := h.store.Begin()
	fn(sdk.NewLedger(tx))
	require.NoError(h.t, tx.Commit())
}

func (h *harness) fund(token, who sdk.Address, amount *uint256.Int) {
	h.t.Helper()
	h.withLedger(func(l *sdk.Ledger) {
		require.NoError(h.t, l.Mint(token, who, amount))
	})
}

func (h *harness) balance(token, who sdk.Address) *uint256.Int {
	return sdk.NewLedger(h.store.Begin()).BalanceOf(token, who)
}

func (h *harness) native(who sdk.Address) *uint256.Int {
	return h.balance(sdk.NativeToken, who)
}

func (h *harness) proof(who sdk.Address) []sdk.Hash {
	h.t.Helper()
	proof, err := h.tree.Proof(sdk.LeafOf(who))
	require.NoError(h.t, err)
	return proof
}

func (h *harness) register(who, referral sdk.Address) {
	h.t.Helper()
	require.NoError(h.t, h.p.Register(h.env(who), referral))
}

func (h *harness) stake(who sdk.Address, amount uint64) {
	h.t.Helper()
	require.NoError(h.t, h.p.Stake(h.env(who), sdk.Amount(amount), h.proof(who)))
}

// price returns the price of the active round.
func (h *harness) price() *uint256.Int {
	h.t.Helper()
	price, err := h.p.SaleRoundPrice()
	require.NoError(h.t, err)
	return price
}

// buy purchases amount in the Sale round paying the exact cost.
func (h *harness) buy(who sdk.Address, amount uint64) {
	h.t.Helper()
	cost := mul(sdk.Amount(amount), h.price())
	require.NoError(h.t, h.p.Buy(h.pay(who, cost), sdk.Amount(amount)))
}

// toTrade lets the Sale round run out and switches to Trade.
func (h *harness) toTrade() {
	h.t.Helper()
	rd, err := h.p.Round()
	require.NoError(h.t, err)
	require.Equal(h.t, contract.RoundSale, rd.Type)
	h.now = rd.EndsAt()
	require.NoError(h.t, h.p.FinishRound(h.env(admin)))
}

// toSale lets the Trade round run out and switches to Sale.
func (h *harness) toSale() {
	h.t.Helper()
	rd, err := h.p.Round()
	require.NoError(h.t, err)
	require.Equal(h.t, contract.RoundTrade, rd.Type)
	h.now = rd.EndsAt()
	require.NoError(h.t, h.p.FinishRound(h.env(admin)))
}

// eventsNamed filters the recorded events.
func (h *harness) eventsNamed(name string) []contract.Event {
	var out []contract.Event
	for _, ev := range h.events {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}

func (h *harness) addProposal(recipient sdk.Address, payload []byte) uint64 {
	h.t.Helper()
	id, err := h.p.AddProposal(h.env(admin), recipient, payload, "test proposal")
	require.NoError(h.t, err)
	return id
}

func mul(a, b *uint256.Int) *uint256.Int {
	return new(uint256.Int).Mul(a, b)
}

func add(a, b *uint256.Int) *uint256.Int {
	return new(uint256.Int).Add(a, b)
}

func sub(a, b *uint256.Int) *uint256.Int {
	return new(uint256.Int).Sub(a, b)
}

// bps is amount*points/10000.
func bps(amount *uint256.Int, points uint64) *uint256.Int {
	out := mul(amount, sdk.Amount(points))
	return out.Div(out, sdk.Amount(10_000))
}
