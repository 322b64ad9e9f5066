////////////////////////////////////////////////////////////////////////////////
// ACDM platform: sale/trade rounds, referrals, staking and governance
////////////////////////////////////////////////////////////////////////////////

package contract

import (
	"sync"

	"acdm_platform/sdk"

	"github.com/holiman/uint256"
)

// Platform is the state machine. Every exported mutating method is one atomic call:
// it runs on a fresh overlay of the store, commits as a single batch on success and
// leaves no trace on failure. Calls are serialized.
type Platform struct {
	mtx sync.Mutex

	store   *sdk.Store
	addr    sdk.Address
	logger  sdk.Logger
	metrics *Metrics
	sink    EventSink

	recipients map[sdk.Address]sdk.Recipient
	exchanges  map[sdk.Address]sdk.Exchange
}

// Option tweaks a Platform at construction.
type Option func(*Platform)

// WithAddress sets the custody address for a fresh store. A store that was
// initialized before keeps its recorded address.
func WithAddress(a sdk.Address) Option {
	return func(p *Platform) { p.addr = a }
}

func WithLogger(l sdk.Logger) Option {
	return func(p *Platform) { p.logger = l }
}

func WithMetrics(m *Metrics) Option {
	return func(p *Platform) { p.metrics = m }
}

// WithEventSink receives every event of every committed call.
func WithEventSink(s EventSink) Option {
	return func(p *Platform) { p.sink = s }
}

// New wires a platform on top of store. Init must run once per store before anything else.
func New(store *sdk.Store, opts ...Option) *Platform {
	p := &Platform{
		store:      store,
		addr:       DefaultAddress,
		logger:     sdk.NewNopLogger(),
		metrics:    NopMetrics(),
		recipients: map[sdk.Address]sdk.Recipient{},
		exchanges:  map[sdk.Address]sdk.Exchange{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if cfg, err := loadConfig(store.Begin()); err == nil {
		p.addr = cfg.Self
	}
	p.logger = p.logger.With("module", "platform")
	p.recipients[p.addr] = selfRecipient{}
	return p
}

// Address is where the platform holds custody of tokens and currency.
func (p *Platform) Address() sdk.Address {
	return p.addr
}

// RegisterRecipient makes a governance target reachable under addr.
func (p *Platform) RegisterRecipient(addr sdk.Address, r sdk.Recipient) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.recipients[addr] = r
}

// RegisterExchange makes an exchange usable by convertAndBurn under addr.
func (p *Platform) RegisterExchange(addr sdk.Address, ex sdk.Exchange) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.exchanges[addr] = ex
}

// Init writes the configuration, opens the first Sale round with its supply minted
// into custody and hands out the initial roles.
func (p *Platform) Init(env sdk.Env, g Genesis) error {
	return p.exec("init", env, false, func(c *callCtx) error {
		if isInitialized(c.st) {
			return ErrAlreadyInitialized
		}
		if err := validateGenesis(g); err != nil {
			return err
		}
		cfg := &Config{
			Self:             p.addr,
			PlatformToken:    g.PlatformToken,
			RewardToken:      g.RewardToken,
			StakingToken:     g.StakingToken,
			WhitelistRoot:    g.WhitelistRoot,
			RoundDuration:    g.RoundDuration,
			PriceIncrement:   g.PriceIncrement.Clone(),
			RewardPercentage: g.RewardPercentage,
			RewardDelay:      g.RewardDelay,
			UnstakeDelay:     g.UnstakeDelay,
			VotingDuration:   g.VotingDuration,
		}
		cfg.ReferralBps[roundIndex(false)] = g.SaleReferralBps
		cfg.ReferralBps[roundIndex(true)] = g.TradeReferralBps
		saveConfig(c.st, cfg)

		rd := &Round{
			Type:              RoundSale,
			StartTime:         c.now(),
			Duration:          g.RoundDuration,
			Price:             g.InitialPrice.Clone(),
			RemainingAmount:   g.InitialSaleAmount.Clone(),
			AccumulatedVolume: sdk.Zero(),
		}
		if err := c.ledger.Mint(cfg.PlatformToken, c.self(), rd.RemainingAmount); err != nil {
			return ErrOverflow.wrap(err)
		}
		saveRound(c.st, rd)

		grantRole(c, g.Admin, RoleAdmin|RoleConfigurator|RoleChairperson)
		grantRole(c, c.self(), RoleConfigurator)
		emitRoundFinished(c, rd)
		return nil
	})
}

func validateGenesis(g Genesis) error {
	switch {
	case sdk.IsZero(g.Admin):
		return ErrInvalidAddress.with(" (admin)")
	case sdk.IsZero(g.PlatformToken):
		return ErrInvalidAddress.with(" (platform token)")
	case g.InitialPrice == nil || g.InitialPrice.IsZero():
		return ErrZeroAmount.with(" (initial price)")
	case g.InitialSaleAmount == nil || g.PriceIncrement == nil:
		return ErrZeroAmount.with(" (sale amount or increment)")
	case g.RoundDuration <= 0 || g.RewardDelay <= 0 || g.UnstakeDelay < 0 || g.VotingDuration <= 0:
		return ErrInvalidDuration
	}
	for _, bps := range [][2]uint64{g.SaleReferralBps, g.TradeReferralBps} {
		if bps[0]+bps[1] > BpsDenominator {
			return ErrInvalidPercent
		}
	}
	return nil
}

// exec runs fn as one atomic call.
func (p *Platform) exec(method string, env sdk.Env, payable bool, fn func(c *callCtx) error) error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	env = env.Normalize()
	tx := p.store.Begin()
	c := newCallCtx(p, env, tx)

	err := p.run(c, method, payable, fn)
	if err == nil {
		err = tx.Err()
	}
	if err == nil {
		err = tx.Commit()
	}
	if err != nil {
		tx.Discard()
		p.metrics.Calls.With("method", method, "outcome", "error").Add(1)
		p.logger.Debug("call rejected", "method", method, "tx", env.TxID, "sender", env.Sender.Hex(), "reason", ReasonOf(err), "err", err)
		return err
	}

	p.metrics.Calls.With("method", method, "outcome", "ok").Add(1)
	p.publish(*c.events)
	return nil
}

// run checks the call preconditions shared by every method and takes the attached
// value into custody before fn sees it.
func (p *Platform) run(c *callCtx, method string, payable bool, fn func(c *callCtx) error) error {
	if method != "init" && !isInitialized(c.st) {
		return ErrNotInitialized
	}
	if !c.env.Value.IsZero() {
		if !payable {
			return ErrNonPayable
		}
		if err := c.ledger.Transfer(sdk.NativeToken, c.sender(), c.self(), c.env.Value); err != nil {
			return ErrInsufficientFunds.wrap(err)
		}
	}
	return fn(c)
}

// settle charges cost out of the attached value and refunds the rest to the sender.
func (c *callCtx) settle(cost *uint256.Int) error {
	if c.env.Value.Lt(cost) {
		return ErrNotEnoughEtherProvided
	}
	change := new(uint256.Int).Sub(c.env.Value, cost)
	if change.IsZero() {
		return nil
	}
	if err := c.ledger.Transfer(sdk.NativeToken, c.self(), c.sender(), change); err != nil {
		return ErrInsufficientFunds.wrap(err)
	}
	return nil
}

// pay moves token out of custody, a shortfall aborts the call.
func (c *callCtx) pay(token, to sdk.Address, amount *uint256.Int) error {
	if err := c.ledger.Transfer(token, c.self(), to, amount); err != nil {
		return ErrInsufficientFunds.wrap(err)
	}
	return nil
}

// collect moves token from the sender into custody.
func (c *callCtx) collect(token sdk.Address, amount *uint256.Int) error {
	if err := c.ledger.Transfer(token, c.sender(), c.self(), amount); err != nil {
		return ErrInsufficientFunds.wrap(err)
	}
	return nil
}

func (p *Platform) publish(events []Event) {
	for _, ev := range events {
		p.logger.Info(ev.Name, "event", ev.Line(), "tx", ev.TxID)
		p.metrics.observe(ev)
		if p.sink != nil {
			p.sink.Publish(ev)
		}
	}
	if len(events) > 0 {
		p.metrics.PlatformBonus.Set(getBonus(p.store.Begin()).Float64())
	}
}

// view runs a read-only function against the committed state.
func (p *Platform) view(fn func(st sdk.State) error) error {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	tx := p.store.Begin()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Err()
}

// mulChecked is a*b with overflow reported as ErrOverflow.
func mulChecked(a, b *uint256.Int) (*uint256.Int, error) {
	out, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return out, nil
}

// addChecked is a+b with overflow reported as ErrOverflow.
func addChecked(a, b *uint256.Int) (*uint256.Int, error) {
	out, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return out, nil
}

// mulDiv is a*b/d with a 512-bit intermediate.
func mulDiv(a, b, d *uint256.Int) (*uint256.Int, error) {
	out, overflow := new(uint256.Int).MulDivOverflow(a, b, d)
	if overflow {
		return nil, ErrOverflow
	}
	return out, nil
}
