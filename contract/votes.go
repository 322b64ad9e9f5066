package contract

import (
	"acdm_platform/sdk"

	"github.com/holiman/uint256"
)

// -----------------------------------------------------------------------------
// Voting
// -----------------------------------------------------------------------------

// Vote casts the caller's stake plus the stake of everyone who delegated to them on
// this proposal. Voting freezes the caller's deposit until the proposal is finished.
func (p *Platform) Vote(env sdk.Env, id uint64, support bool) error {
	return p.exec("vote", env, false, func(c *callCtx) error {
		prpsl, err := loadProposal(c.st, id)
		if err != nil {
			return err
		}
		voter := c.sender()
		d, err := loadDeposit(c.st, voter)
		if err != nil {
			return err
		}
		if d.StakedAmount.IsZero() {
			return ErrNoDeposit
		}
		if getParticipation(c.st, id, voter) != participationNone {
			return ErrVotedAlready
		}
		cfg, err := loadConfig(c.st)
		if err != nil {
			return err
		}
		if c.now() >= prpsl.StartTime+cfg.VotingDuration {
			return ErrVotingPeriodEnded
		}

		weight, err := voteWeight(c.st, id, voter, d.StakedAmount)
		if err != nil {
			return err
		}
		if support {
			prpsl.VotesFor, err = addChecked(prpsl.VotesFor, weight)
		} else {
			prpsl.VotesAgainst, err = addChecked(prpsl.VotesAgainst, weight)
		}
		if err != nil {
			return err
		}
		saveProposal(c.st, prpsl)
		if err := participate(c.st, id, voter, participationVoted); err != nil {
			return err
		}
		emitVoted(c, id, voter, support, weight)
		return nil
	})
}

// voteWeight adds the current stake of every delegator of voter to own.
func voteWeight(st sdk.State, id uint64, voter sdk.Address, own *uint256.Int) (*uint256.Int, error) {
	delegators, err := loadAddressList(st, delegatorsKey(id, voter))
	if err != nil {
		return nil, err
	}
	weight := own.Clone()
	for _, from := range delegators {
		d, err := loadDeposit(st, from)
		if err != nil {
			return nil, err
		}
		if weight, err = addChecked(weight, d.StakedAmount); err != nil {
			return nil, err
		}
	}
	return weight, nil
}

// participate marks addr on proposal id and freezes its deposit until finish.
func participate(st sdk.State, id uint64, addr sdk.Address, mark byte) error {
	setParticipation(st, id, addr, mark)
	if err := appendAddress(st, participantsKey(id), addr); err != nil {
		return err
	}
	incrementFreeze(st, addr)
	return nil
}

// Delegate hands the caller's weight on proposal id to `to`. It counts only once `to`
// votes, so `to` must not have voted yet.
func (p *Platform) Delegate(env sdk.Env, to sdk.Address, id uint64) error {
	return p.exec("delegate", env, false, func(c *callCtx) error {
		prpsl, err := loadProposal(c.st, id)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(c.st)
		if err != nil {
			return err
		}
		if c.now() >= prpsl.StartTime+cfg.VotingDuration {
			return ErrVotingPeriodEnded
		}
		from := c.sender()
		if from == to {
			return ErrSelfDelegation
		}
		d, err := loadDeposit(c.st, from)
		if err != nil {
			return err
		}
		if d.StakedAmount.IsZero() {
			return ErrNoDeposit
		}
		if getParticipation(c.st, id, from) != participationNone {
			return ErrVotedAlready
		}
		if getParticipation(c.st, id, to) == participationVoted {
			return ErrDelegateVotedAlready
		}

		setDelegate(c.st, id, from, to)
		if err := appendAddress(c.st, delegatorsKey(id, to), from); err != nil {
			return err
		}
		if err := participate(c.st, id, from, participationDelegated); err != nil {
			return err
		}
		emitDelegated(c, id, from, to)
		return nil
	})
}

// Participation tells whether addr voted (1), delegated (2) or did nothing (0) on id.
func (p *Platform) Participation(id uint64, addr sdk.Address) (byte, error) {
	var mark byte
	err := p.view(func(st sdk.State) error {
		if _, err := loadProposal(st, id); err != nil {
			return err
		}
		mark = getParticipation(st, id, addr)
		return nil
	})
	return mark, err
}

// DelegateOf returns who addr delegated to on proposal id.
func (p *Platform) DelegateOf(id uint64, addr sdk.Address) (sdk.Address, bool, error) {
	var (
		to sdk.Address
		ok bool
	)
	err := p.view(func(st sdk.State) error {
		to, ok = getDelegate(st, id, addr)
		return nil
	})
	return to, ok, err
}

// FreezeCount is how many in-progress proposals keep addr from unstaking.
func (p *Platform) FreezeCount(addr sdk.Address) (uint64, error) {
	var n uint64
	err := p.view(func(st sdk.State) error {
		n = getFreezeCount(st, addr)
		return nil
	})
	return n, err
}
