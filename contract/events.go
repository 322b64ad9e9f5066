package contract

import (
	"io"
	"strconv"
	"strings"
	"sync"

	"acdm_platform/sdk"

	"github.com/CosmWasm/tinyjson/jwriter"
	"github.com/holiman/uint256"
)

// Field is one key/value of an event. Values are string, bool, uint64, int64,
// *uint256.Int or sdk.Address.
type Field struct {
	Key   string
	Value interface{}
}

// Event is a notification produced by a committed call.
type Event struct {
	Name   string
	Code   string
	TxID   string
	Fields []Field
}

// EventSink receives events after their call committed, in emission order.
type EventSink interface {
	Publish(ev Event)
}

// EventSinkFunc adapts a plain func to EventSink.
type EventSinkFunc func(ev Event)

func (f EventSinkFunc) Publish(ev Event) { f(ev) }

// Get returns the raw value stored under key.
func (e Event) Get(key string) (interface{}, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Amount is Get for uint256 fields, nil when missing.
func (e Event) Amount(key string) *uint256.Int {
	v, ok := e.Get(key)
	if !ok {
		return nil
	}
	a, _ := v.(*uint256.Int)
	return a
}

func fieldString(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case uint64:
		return strconv.FormatUint(x, 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case *uint256.Int:
		return x.Dec()
	case sdk.Address:
		return x.Hex()
	case sdk.Hash:
		return x.Hex()
	default:
		return ""
	}
}

// Line renders the terse pipe form, e.g. "rb|by:0x..|am:100|pr:10000000000000".
func (e Event) Line() string {
	var sb strings.Builder
	sb.WriteString(e.Code)
	for _, f := range e.Fields {
		sb.WriteByte('|')
		sb.WriteString(f.Key)
		sb.WriteByte(':')
		sb.WriteString(fieldString(f.Value))
	}
	return sb.String()
}

// JSON renders the event as a flat object. Amounts go out as decimal strings so no
// consumer loses precision.
func (e Event) JSON() ([]byte, error) {
	w := jwriter.Writer{}
	w.RawByte('{')
	w.RawString(`"event":`)
	w.String(e.Name)
	w.RawString(`,"tx":`)
	w.String(e.TxID)
	for _, f := range e.Fields {
		w.RawByte(',')
		w.String(f.Key)
		w.RawByte(':')
		switch x := f.Value.(type) {
		case bool:
			w.Bool(x)
		case uint64:
			w.Uint64(x)
		case int64:
			w.Int64(x)
		default:
			w.String(fieldString(x))
		}
	}
	w.RawByte('}')
	return w.BuildBytes()
}

// JSONSink writes every event as one line of JSON to w. Write errors are kept and
// returned by Err, later events are dropped.
func JSONSink(w io.Writer) *JSONEventSink {
	return &JSONEventSink{w: w}
}

// JSONEventSink is the EventSink built by JSONSink.
type JSONEventSink struct {
	mtx sync.Mutex
	w   io.Writer
	err error
}

var _ EventSink = (*JSONEventSink)(nil)

func (s *JSONEventSink) Publish(ev Event) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.err != nil {
		return
	}
	raw, err := ev.JSON()
	if err != nil {
		s.err = err
		return
	}
	_, s.err = s.w.Write(append(raw, '\n'))
}

// Err is the first render or write failure.
func (s *JSONEventSink) Err() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.err
}

// emit snapshots amounts, callers keep mutating their records afterwards.
func (c *callCtx) emit(name, code string, fields ...Field) {
	for i := range fields {
		if a, ok := fields[i].Value.(*uint256.Int); ok {
			if a == nil {
				fields[i].Value = sdk.Zero()
			} else {
				fields[i].Value = a.Clone()
			}
		}
	}
	*c.events = append(*c.events, Event{Name: name, Code: code, TxID: c.env.TxID, Fields: fields})
}

func fld(key string, v interface{}) Field { return Field{Key: key, Value: v} }

// emitRegistered tells indexers a new account joined, ref is zero for no upline.
func emitRegistered(c *callCtx, by, ref sdk.Address) {
	c.emit("Registered", "ar", fld("by", by), fld("ref", ref))
}

func emitBought(c *callCtx, by sdk.Address, amount, price, cost *uint256.Int) {
	c.emit("Bought", "rb", fld("by", by), fld("am", amount), fld("pr", price), fld("cost", cost))
}

func emitListed(c *callCtx, seller sdk.Address, id uint64, amount, price *uint256.Int) {
	c.emit("Listed", "ll", fld("by", seller), fld("id", id), fld("am", amount), fld("pr", price))
}

func emitUnlisted(c *callCtx, seller sdk.Address, id uint64, amount *uint256.Int) {
	c.emit("Unlisted", "lu", fld("by", seller), fld("id", id), fld("am", amount))
}

func emitBoughtListed(c *callCtx, buyer, seller sdk.Address, id uint64, amount, cost *uint256.Int) {
	c.emit("BoughtListed", "lb", fld("by", buyer), fld("seller", seller), fld("id", id), fld("am", amount), fld("cost", cost))
}

// emitRoundFinished carries the state of the round that just started.
func emitRoundFinished(c *callCtx, rd *Round) {
	amount := rd.RemainingAmount
	if rd.Type == RoundTrade {
		amount = rd.AccumulatedVolume
	}
	c.emit("RoundFinished", "rf",
		fld("t", rd.Type.String()),
		fld("pr", rd.Price),
		fld("am", amount),
		fld("st", rd.StartTime),
		fld("du", rd.Duration),
	)
}

func emitReferralPaid(c *callCtx, to sdk.Address, level uint64, amount *uint256.Int) {
	c.emit("ReferralPaid", "rp", fld("to", to), fld("lvl", level), fld("am", amount))
}

// emitBonusAccrued logs commission that had no recipient and went to the bonus.
func emitBonusAccrued(c *callCtx, amount, total *uint256.Int) {
	c.emit("BonusAccrued", "bn", fld("am", amount), fld("total", total))
}

func emitConvertedAndBurned(c *callCtx, exchange, token sdk.Address, in, out *uint256.Int) {
	c.emit("ConvertedAndBurned", "cb", fld("ex", exchange), fld("tok", token), fld("in", in), fld("out", out), fld("by", c.env.Sender))
}

func emitWithdrawn(c *callCtx, to sdk.Address, amount *uint256.Int) {
	c.emit("Withdrawn", "wd", fld("to", to), fld("am", amount))
}

// emitConfigChanged is the one line for every setter, name is e.g. "RewardDelay".
func emitConfigChanged(c *callCtx, name string, value interface{}) {
	c.emit(name+"Changed", "cc", fld("f", name), fld("v", value), fld("by", c.env.Sender))
}

func emitRewardRateChanged(c *callCtx, pct uint64) {
	c.emit("RewardRateChanged", "cc", fld("f", "RewardRate"), fld("v", pct), fld("by", c.env.Sender))
}

func emitReferralPercentChanged(c *callCtx, isTrade, isLevel1 bool, bps uint64) {
	c.emit("ReferralPercentChanged", "cc",
		fld("f", "ReferralPercent"), fld("trade", isTrade), fld("l1", isLevel1), fld("v", bps), fld("by", c.env.Sender))
}

func emitStaked(c *callCtx, by sdk.Address, amount *uint256.Int) {
	c.emit("Staked", "ss", fld("by", by), fld("am", amount))
}

func emitClaimed(c *callCtx, by sdk.Address, reward *uint256.Int) {
	c.emit("Claimed", "sc", fld("by", by), fld("rw", reward))
}

func emitUnstaked(c *callCtx, by sdk.Address, amount, reward *uint256.Int) {
	c.emit("Unstaked", "su", fld("by", by), fld("am", amount), fld("rw", reward))
}

func emitProposalAdded(c *callCtx, p *Proposal) {
	c.emit("ProposalAdded", "pc", fld("id", p.ID), fld("by", c.env.Sender), fld("to", p.Recipient), fld("d", p.Description))
}

func emitVoted(c *callCtx, id uint64, voter sdk.Address, support bool, weight *uint256.Int) {
	c.emit("Voted", "v", fld("id", id), fld("by", voter), fld("sup", support), fld("w", weight))
}

func emitDelegated(c *callCtx, id uint64, from, to sdk.Address) {
	c.emit("Delegated", "dl", fld("id", id), fld("by", from), fld("to", to))
}

// emitProposalFinished flips the proposal to its terminal state for watchers.
func emitProposalFinished(c *callCtx, id uint64, status ProposalStatus) {
	c.emit("ProposalFinished", "ps", fld("id", id), fld("s", uint64(status)), fld("sn", status.String()))
}

func emitRoleChanged(c *callCtx, granted bool, who sdk.Address, role Role) {
	name, code := "RoleRevoked", "rr"
	if granted {
		name, code = "RoleGranted", "rg"
	}
	c.emit(name, code, fld("to", who), fld("role", role.String()), fld("by", c.env.Sender))
}
