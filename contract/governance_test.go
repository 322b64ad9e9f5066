package contract_test

import (
	"errors"
	"math/big"
	"testing"

	"acdm_platform/contract"
	"acdm_platform/sdk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Proposal Tests
// =============================================================================

// TestAddProposal tests sequential ids and the stored fields.
func TestAddProposal(t *testing.T) {
	h := newHarness(t)
	first := h.addProposal(bob, []byte{1, 2, 3})
	h.advance(5)
	second := h.addProposal(carol, nil)
	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second)

	n, err := h.p.ProposalCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	prpsl, err := h.p.Proposal(first)
	require.NoError(t, err)
	assert.Equal(t, bob, prpsl.Recipient)
	assert.Equal(t, []byte{1, 2, 3}, prpsl.Payload)
	assert.Equal(t, "test proposal", prpsl.Description)
	assert.Equal(t, startTime, prpsl.StartTime)
	assert.Equal(t, contract.StatusInProgress, prpsl.Status)

	_, err = h.p.Proposal(3)
	assert.ErrorIs(t, err, contract.ErrNoSuchVoting)
	_, err = h.p.Proposal(0)
	assert.ErrorIs(t, err, contract.ErrNoSuchVoting)
}

// =============================================================================
// Voting Tests
// =============================================================================

// TestVoteChecks tests the vote error paths in order.
func TestVoteChecks(t *testing.T) {
	h := newHarness(t)
	id := h.addProposal(bob, nil)
	h.stake(alice, 100)

	assert.ErrorIs(t, h.p.Vote(h.env(alice), 0, true), contract.ErrNoSuchVoting)
	assert.ErrorIs(t, h.p.Vote(h.env(alice), id+1, true), contract.ErrNoSuchVoting)
	assert.ErrorIs(t, h.p.Vote(h.env(carol), id, true), contract.ErrNoDeposit)

	require.NoError(t, h.p.Vote(h.env(alice), id, true))
	assert.ErrorIs(t, h.p.Vote(h.env(alice), id, false), contract.ErrVotedAlready)

	h.stake(bob, 100)
	h.advance(contract.DefaultVotingDuration)
	err := h.p.Vote(h.env(bob), id, true)
	assert.ErrorIs(t, err, contract.ErrVotingPeriodEnded)
	assert.Equal(t, contract.KindTiming, contract.KindOf(err))

	prpsl, err := h.p.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, sdk.Amount(100), prpsl.VotesFor)
	assert.True(t, prpsl.VotesAgainst.IsZero())
}

// TestDelegatedWeight tests that the delegate's vote carries the delegator's stake.
func TestDelegatedWeight(t *testing.T) {
	h := newHarness(t)
	id := h.addProposal(bob, nil)
	h.stake(alice, 1_000)
	h.stake(bob, 500)
	h.stake(carol, 250)

	require.NoError(t, h.p.Delegate(h.env(bob), alice, id))
	require.NoError(t, h.p.Delegate(h.env(carol), alice, id))

	to, ok, err := h.p.DelegateOf(id, bob)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, alice, to)

	// delegation alone adds nothing
	prpsl, err := h.p.Proposal(id)
	require.NoError(t, err)
	assert.True(t, prpsl.VotesFor.IsZero())

	require.NoError(t, h.p.Vote(h.env(alice), id, false))
	prpsl, err = h.p.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, sdk.Amount(1_750), prpsl.VotesAgainst)

	mark, err := h.p.Participation(id, alice)
	require.NoError(t, err)
	assert.Equal(t, byte(1), mark)
	mark, err = h.p.Participation(id, bob)
	require.NoError(t, err)
	assert.Equal(t, byte(2), mark)

	evs := h.eventsNamed("Voted")
	require.Len(t, evs, 1)
	assert.Equal(t, sdk.Amount(1_750), evs[0].Amount("w"))
}

// TestDelegateChecks tests the delegate error paths.
func TestDelegateChecks(t *testing.T) {
	h := newHarness(t)
	id := h.addProposal(bob, nil)
	h.stake(alice, 100)
	h.stake(bob, 100)

	assert.ErrorIs(t, h.p.Delegate(h.env(bob), alice, id+1), contract.ErrNoSuchVoting)
	assert.ErrorIs(t, h.p.Delegate(h.env(bob), bob, id), contract.ErrSelfDelegation)
	assert.ErrorIs(t, h.p.Delegate(h.env(carol), alice, id), contract.ErrNoDeposit)

	require.NoError(t, h.p.Vote(h.env(alice), id, true))
	assert.ErrorIs(t, h.p.Delegate(h.env(bob), alice, id), contract.ErrDelegateVotedAlready)
	assert.ErrorIs(t, h.p.Delegate(h.env(alice), bob, id), contract.ErrVotedAlready)

	require.NoError(t, h.p.Delegate(h.env(bob), dave, id))
	assert.ErrorIs(t, h.p.Delegate(h.env(bob), carol, id), contract.ErrVotedAlready)
	assert.ErrorIs(t, h.p.Vote(h.env(bob), id, true), contract.ErrVotedAlready)

	h.advance(contract.DefaultVotingDuration)
	h.stake(carol, 100)
	assert.ErrorIs(t, h.p.Delegate(h.env(carol), alice, id), contract.ErrVotingPeriodEnded)
}

// =============================================================================
// Finish Tests
// =============================================================================

// TestFinishOutcomes tests cancelled, rejected and finished proposals.
func TestFinishOutcomes(t *testing.T) {
	h := newHarness(t)
	calls := 0
	target := sdk.MustAddress("0x3000000000000000000000000000000000000001")
	h.p.RegisterRecipient(target, sdk.RecipientFunc(func(host sdk.Host, payload []byte) error {
		calls++
		assert.Equal(t, h.p.Address(), host.Env().Sender)
		assert.Equal(t, []byte("ping"), payload)
		return nil
	}))
	h.stake(alice, 300)
	h.stake(bob, 200)

	cancelled := h.addProposal(target, []byte("ping"))
	rejected := h.addProposal(target, []byte("ping"))
	finished := h.addProposal(target, []byte("ping"))

	require.NoError(t, h.p.Vote(h.env(alice), rejected, false))
	require.NoError(t, h.p.Vote(h.env(bob), rejected, true))
	require.NoError(t, h.p.Vote(h.env(alice), finished, true))
	require.NoError(t, h.p.Vote(h.env(bob), finished, false))

	assert.ErrorIs(t, h.p.Finish(h.env(carol), finished), contract.ErrVotingInProcess)
	h.advance(contract.DefaultVotingDuration)

	want := map[uint64]contract.ProposalStatus{
		cancelled: contract.StatusCancelled,
		rejected:  contract.StatusRejected,
		finished:  contract.StatusFinished,
	}
	for id, status := range want {
		require.NoError(t, h.p.Finish(h.env(carol), id))
		prpsl, err := h.p.Proposal(id)
		require.NoError(t, err)
		assert.Equal(t, status, prpsl.Status)
		assert.ErrorIs(t, h.p.Finish(h.env(carol), id), contract.ErrHandledAlready)
	}
	assert.Equal(t, 1, calls)
	assert.Len(t, h.eventsNamed("ProposalFinished"), 3)
	assert.ErrorIs(t, h.p.Finish(h.env(carol), 4), contract.ErrNoSuchVoting)
}

// TestFinishTieIsRejected tests that equal votes do not pass.
func TestFinishTieIsRejected(t *testing.T) {
	h := newHarness(t)
	h.stake(alice, 100)
	h.stake(bob, 100)
	id := h.addProposal(eve, nil)
	require.NoError(t, h.p.Vote(h.env(alice), id, true))
	require.NoError(t, h.p.Vote(h.env(bob), id, false))
	h.advance(contract.DefaultVotingDuration)
	require.NoError(t, h.p.Finish(h.env(carol), id))

	prpsl, err := h.p.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, contract.StatusRejected, prpsl.Status)
}

// TestRecipientFailureIsAtomic tests that a failing action leaves nothing behind.
func TestRecipientFailureIsAtomic(t *testing.T) {
	h := newHarness(t)
	target := sdk.MustAddress("0x3000000000000000000000000000000000000002")
	fail := true
	h.p.RegisterRecipient(target, sdk.RecipientFunc(func(host sdk.Host, payload []byte) error {
		// moves funds before failing, the move must not survive
		if err := host.Ledger().Mint(sdk.NativeToken, eve, sdk.Ether(1)); err != nil {
			return err
		}
		if fail {
			return errors.New("boom")
		}
		return nil
	}))
	h.stake(alice, 100)
	id := h.addProposal(target, nil)
	require.NoError(t, h.p.Vote(h.env(alice), id, true))
	h.advance(contract.DefaultVotingDuration)

	eveBefore := h.native(eve)
	err := h.p.Finish(h.env(carol), id)
	assert.ErrorIs(t, err, contract.ErrRecipientCall)
	assert.Equal(t, contract.KindExternalCall, contract.KindOf(err))
	assert.Contains(t, err.Error(), "boom")

	assert.Equal(t, eveBefore, h.native(eve))
	prpsl, err := h.p.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, contract.StatusInProgress, prpsl.Status)
	n, err := h.p.FreezeCount(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	// retry once the recipient works
	fail = false
	require.NoError(t, h.p.Finish(h.env(carol), id))
	assert.Equal(t, add(eveBefore, sdk.Ether(1)), h.native(eve))
}

// TestUnknownRecipient tests that a proposal to nobody cannot pass.
func TestUnknownRecipient(t *testing.T) {
	h := newHarness(t)
	h.stake(alice, 100)
	id := h.addProposal(eve, nil)
	require.NoError(t, h.p.Vote(h.env(alice), id, true))
	h.advance(contract.DefaultVotingDuration)

	err := h.p.Finish(h.env(carol), id)
	assert.ErrorIs(t, err, contract.ErrRecipientCall)
	assert.ErrorIs(t, err, contract.ErrUnknownRecipient)
}

// =============================================================================
// Freeze Tests
// =============================================================================

// TestFrozenUntilFinish tests that voters and delegators unstake only after every
// proposal they took part in is finished.
func TestFrozenUntilFinish(t *testing.T) {
	h := newHarness(t)
	h.stake(alice, 100)
	h.stake(bob, 100)
	first := h.addProposal(eve, nil)
	second := h.addProposal(eve, nil)

	require.NoError(t, h.p.Vote(h.env(alice), first, false))
	require.NoError(t, h.p.Vote(h.env(alice), second, false))
	require.NoError(t, h.p.Delegate(h.env(bob), alice, first))

	n, err := h.p.FreezeCount(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	h.advance(contract.DefaultUnstakeDelay)
	assert.ErrorIs(t, h.p.Unstake(h.env(alice)), contract.ErrTokensFrozen)
	assert.ErrorIs(t, h.p.Unstake(h.env(bob)), contract.ErrTokensFrozen)

	require.NoError(t, h.p.Finish(h.env(carol), first))
	require.NoError(t, h.p.Unstake(h.env(bob)))
	assert.ErrorIs(t, h.p.Unstake(h.env(alice)), contract.ErrTokensFrozen)

	require.NoError(t, h.p.Finish(h.env(carol), second))
	require.NoError(t, h.p.Unstake(h.env(alice)))

	n, err = h.p.FreezeCount(alice)
	require.NoError(t, err)
	assert.Zero(t, n)
}

// =============================================================================
// Self Call Tests
// =============================================================================

// TestProposalConvertAndBurn tests the bonus burn voted through governance.
func TestProposalConvertAndBurn(t *testing.T) {
	h := newHarness(t)
	h.buy(alice, 100)
	h.toTrade()
	listID, err := h.p.List(h.env(alice), sdk.Amount(100), sdk.Gwei(10_000))
	require.NoError(t, err)
	require.NoError(t, h.p.BuyListed(h.pay(bob, sdk.Gwei(1_000_000)), alice, listID, sdk.Amount(100)))

	bonus, err := h.p.PlatformBonus()
	require.NoError(t, err)
	require.False(t, bonus.IsZero())
	supply := sdk.NewLedger(h.store.Begin()).TotalSupply(xxxToken)

	payload, err := contract.EncodeCall("convertAndBurn", poolAddr, xxxToken, big.NewInt(3600))
	require.NoError(t, err)
	h.stake(carol, 100)
	id := h.addProposal(h.p.Address(), payload)
	require.NoError(t, h.p.Vote(h.env(carol), id, true))
	h.advance(contract.DefaultVotingDuration)
	require.NoError(t, h.p.Finish(h.env(dave), id))

	bonus, err = h.p.PlatformBonus()
	require.NoError(t, err)
	assert.True(t, bonus.IsZero())
	assert.True(t, sdk.NewLedger(h.store.Begin()).TotalSupply(xxxToken).Lt(supply))

	evs := h.eventsNamed("ConvertedAndBurned")
	require.Len(t, evs, 1)
	by, _ := evs[0].Get("by")
	assert.Equal(t, h.p.Address(), by)
}

// TestProposalSelfCallFailure tests that a failing self call fails the finish.
func TestProposalSelfCallFailure(t *testing.T) {
	h := newHarness(t)
	payload, err := contract.EncodeCall("convertAndBurn", poolAddr, xxxToken, big.NewInt(3600))
	require.NoError(t, err)
	h.stake(carol, 100)
	id := h.addProposal(h.p.Address(), payload)
	require.NoError(t, h.p.Vote(h.env(carol), id, true))
	h.advance(contract.DefaultVotingDuration)

	err = h.p.Finish(h.env(dave), id)
	assert.ErrorIs(t, err, contract.ErrRecipientCall)
	assert.ErrorIs(t, err, contract.ErrNothingToConvert)
}

// TestProposalSetters tests configuration changes carried by proposals.
func TestProposalSetters(t *testing.T) {
	h := newHarness(t)
	h.stake(carol, 100)

	calls := []struct {
		method string
		args   []interface{}
	}{
		{"setRewardPercentage", []interface{}{big.NewInt(7)}},
		{"setRewardDelay", []interface{}{big.NewInt(day)}},
		{"setUnstakeDelay", []interface{}{big.NewInt(2 * day)}},
		{"setRoundDuration", []interface{}{big.NewInt(5 * day)}},
		{"setVotingDuration", []interface{}{big.NewInt(day)}},
		{"setReferralPercent", []interface{}{true, false, big.NewInt(600)}},
	}
	var ids []uint64
	for _, call := range calls {
		payload, err := contract.EncodeCall(call.method, call.args...)
		require.NoError(t, err, call.method)
		id := h.addProposal(h.p.Address(), payload)
		require.NoError(t, h.p.Vote(h.env(carol), id, true))
		ids = append(ids, id)
	}
	h.advance(contract.DefaultVotingDuration)
	for _, id := range ids {
		require.NoError(t, h.p.Finish(h.env(dave), id))
	}

	cfg, err := h.p.Config()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), cfg.RewardPercentage)
	assert.Equal(t, day, cfg.RewardDelay)
	assert.Equal(t, 2*day, cfg.UnstakeDelay)
	assert.Equal(t, 5*day, cfg.RoundDuration)
	assert.Equal(t, day, cfg.VotingDuration)
	assert.Equal(t, uint64(600), cfg.ReferralBps[1][1])

	_, err = contract.EncodeCall("withdraw")
	assert.ErrorIs(t, err, contract.ErrUnknownMethod)
}

// TestProposalGarbagePayload tests that undecodable calldata fails the finish.
func TestProposalGarbagePayload(t *testing.T) {
	h := newHarness(t)
	h.stake(carol, 100)
	id := h.addProposal(h.p.Address(), []byte{0xde, 0xad})
	require.NoError(t, h.p.Vote(h.env(carol), id, true))
	h.advance(contract.DefaultVotingDuration)

	err := h.p.Finish(h.env(dave), id)
	assert.ErrorIs(t, err, contract.ErrRecipientCall)
	assert.ErrorIs(t, err, contract.ErrUnknownMethod)
}
