package contract

import (
	"acdm_platform/sdk"
)

// -----------------------------------------------------------------------------
// Proposals
// -----------------------------------------------------------------------------

// AddProposal opens a vote on calling recipient with payload. Chairperson only.
// Example payload: AddProposal(env, p.Address(), calldata, "burn the bonus")
func (p *Platform) AddProposal(env sdk.Env, recipient sdk.Address, payload []byte, description string) (uint64, error) {
	var id uint64
	err := p.exec("addProposal", env, false, func(c *callCtx) error {
		if err := c.requireRole(RoleChairperson); err != nil {
			return err
		}
		id = nextCount(c.st, ProposalsCount) + 1
		prpsl := &Proposal{
			ID:           id,
			Recipient:    recipient,
			Payload:      append([]byte(nil), payload...),
			Description:  description,
			StartTime:    c.now(),
			VotesFor:     sdk.Zero(),
			VotesAgainst: sdk.Zero(),
			Status:       StatusInProgress,
		}
		saveProposal(c.st, prpsl)
		emitProposalAdded(c, prpsl)
		return nil
	})
	return id, err
}

// Finish settles a proposal after its voting period. A winning proposal runs its
// recipient action inside the same call; if that fails nothing changes and Finish can
// be retried.
func (p *Platform) Finish(env sdk.Env, id uint64) error {
	return p.exec("finish", env, false, func(c *callCtx) error {
		prpsl, err := loadProposal(c.st, id)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(c.st)
		if err != nil {
			return err
		}
		if c.now() < prpsl.StartTime+cfg.VotingDuration {
			return ErrVotingInProcess
		}
		if prpsl.Status.Terminal() {
			return ErrHandledAlready
		}

		switch {
		case prpsl.VotesFor.IsZero() && prpsl.VotesAgainst.IsZero():
			prpsl.Status = StatusCancelled
		case prpsl.VotesFor.Gt(prpsl.VotesAgainst):
			if err := callRecipient(c, prpsl); err != nil {
				return err
			}
			prpsl.Status = StatusFinished
		default:
			prpsl.Status = StatusRejected
		}
		saveProposal(c.st, prpsl)
		if err := releaseParticipants(c.st, prpsl.ID); err != nil {
			return err
		}
		emitProposalFinished(c, prpsl.ID, prpsl.Status)
		return nil
	})
}

// callRecipient hands the payload to the registered recipient with the platform as
// the caller.
func callRecipient(c *callCtx, prpsl *Proposal) error {
	r, ok := c.p.recipients[prpsl.Recipient]
	if !ok {
		return ErrRecipientCall.wrap(ErrUnknownRecipient.with(" %s", prpsl.Recipient.Hex()))
	}
	if err := r.Receive(c.asPlatform(), prpsl.Payload); err != nil {
		return ErrRecipientCall.wrap(err)
	}
	return nil
}

func setVotingDuration(c *callCtx, d int64) error {
	return setDuration(c, "VotingDuration", d, 1, func(cfg *Config) { cfg.VotingDuration = d })
}

// SetVotingDuration applies to every proposal still in progress as well.
func (p *Platform) SetVotingDuration(env sdk.Env, d int64) error {
	return p.exec("setVotingDuration", env, false, func(c *callCtx) error {
		return setVotingDuration(c, d)
	})
}

// Proposal returns proposal id, ErrNoSuchVoting when it does not exist.
func (p *Platform) Proposal(id uint64) (Proposal, error) {
	var out Proposal
	err := p.view(func(st sdk.State) error {
		prpsl, err := loadProposal(st, id)
		if err != nil {
			return err
		}
		out = *prpsl
		return nil
	})
	return out, err
}

// ProposalCount is the last issued proposal id.
func (p *Platform) ProposalCount() (uint64, error) {
	var n uint64
	err := p.view(func(st sdk.State) error {
		n = getCount(st, ProposalsCount)
		return nil
	})
	return n, err
}

func (p *Platform) VotingDuration() (int64, error) {
	cfg, err := p.config()
	return cfg.VotingDuration, err
}
