package contract

import (
	"acdm_platform/sdk"
)

// callCtx is the snapshot one call works on: the env it was made with, its write
// overlay and the events it produced so far. Nested self calls share everything
// except the env.
type callCtx struct {
	p      *Platform
	env    sdk.Env
	st     sdk.State
	ledger *sdk.Ledger
	events *[]Event
}

var _ sdk.Host = (*callCtx)(nil)

func newCallCtx(p *Platform, env sdk.Env, st sdk.State) *callCtx {
	var events []Event
	return &callCtx{
		p:      p,
		env:    env,
		st:     st,
		ledger: sdk.NewLedger(st),
		events: &events,
	}
}

func (c *callCtx) Env() sdk.Env { return c.env }
func (c *callCtx) Ledger() *sdk.Ledger { return c.ledger }
func (c *callCtx) sender() sdk.Address { return c.env.Sender }
func (c *callCtx) now() int64 { return c.env.Timestamp }
func (c *callCtx) self() sdk.Address { return c.p.addr }
func (c *callCtx) isSelf(a sdk.Address) bool { return a == c.p.addr }

// asPlatform is the same call seen with the platform itself as the sender and no
// attached value, used for governance actions targeting the platform.
func (c *callCtx) asPlatform() *callCtx {
	cp := *c
	cp.env = c.env.WithSender(c.p.addr).WithValue(sdk.Zero())
	return &cp
}
