package contract_test

import (
	"testing"

	"acdm_platform/contract"
	"acdm_platform/sdk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Stake Tests
// =============================================================================

// TestStakeRequiresWhitelist tests that only whitelisted addresses with a valid proof stake.
func TestStakeRequiresWhitelist(t *testing.T) {
	h := newHarness(t)

	err := h.p.Stake(h.env(eve), sdk.Amount(100), h.proof(alice))
	assert.ErrorIs(t, err, contract.ErrNoAccess)
	err = h.p.Stake(h.env(alice), sdk.Amount(100), nil)
	assert.ErrorIs(t, err, contract.ErrNoAccess)
	err = h.p.Stake(h.env(alice), sdk.Zero(), h.proof(alice))
	assert.ErrorIs(t, err, contract.ErrZeroAmount)

	h.stake(alice, 100)
	d, err := h.p.Deposit(alice)
	require.NoError(t, err)
	assert.Equal(t, sdk.Amount(100), d.StakedAmount)
	assert.Equal(t, startTime, d.LastStakeTime)
	assert.Equal(t, startTime, d.LastRewardTime)
	assert.Equal(t, sdk.Amount(100), h.balance(lpToken, h.p.Address()))
}

// TestSetWhitelist tests that a new root locks out addresses left off it.
func TestSetWhitelist(t *testing.T) {
	h := newHarness(t)
	oldProof := h.proof(alice)

	tree := sdk.NewWhitelistTree([]sdk.Address{bob, eve})
	require.NoError(t, h.p.SetWhitelist(h.env(admin), tree.Root()))

	root, err := h.p.WhitelistRoot()
	require.NoError(t, err)
	assert.Equal(t, tree.Root(), root)

	assert.ErrorIs(t, h.p.Stake(h.env(alice), sdk.Amount(1), oldProof), contract.ErrNoAccess)
	proof, err := tree.Proof(sdk.LeafOf(eve))
	require.NoError(t, err)
	require.NoError(t, h.p.Stake(h.env(eve), sdk.Amount(1), proof))
}

// TestRewardAccrual tests whole periods and the carry over of the partial one.
func TestRewardAccrual(t *testing.T) {
	h := newHarness(t)
	h.stake(alice, 1_000)

	h.advance(3*week + day)
	require.NoError(t, h.p.Claim(h.env(alice)))
	// 1000 * 3 periods * 3%
	assert.Equal(t, sdk.Amount(90), h.balance(xxxToken, alice))

	d, err := h.p.Deposit(alice)
	require.NoError(t, err)
	assert.Equal(t, startTime+3*week, d.LastRewardTime)
	assert.True(t, d.SavedReward.IsZero())

	// the day left over counts towards the next period
	h.advance(6 * day)
	require.NoError(t, h.p.Claim(h.env(alice)))
	assert.Equal(t, sdk.Amount(120), h.balance(xxxToken, alice))

	evs := h.eventsNamed("Claimed")
	require.Len(t, evs, 2)
	assert.Equal(t, sdk.Amount(30), evs[1].Amount("rw"))
}

// TestStakeTwiceWithinPeriod tests that a period is only booked once.
func TestStakeTwiceWithinPeriod(t *testing.T) {
	h := newHarness(t)
	h.stake(alice, 1_000)
	h.advance(3 * day)
	h.stake(alice, 1_000)

	d, err := h.p.Deposit(alice)
	require.NoError(t, err)
	assert.True(t, d.SavedReward.IsZero())
	assert.Equal(t, startTime, d.LastRewardTime)
	assert.Equal(t, startTime+3*day, d.LastStakeTime)

	h.advance(4 * day)
	require.NoError(t, h.p.Claim(h.env(alice)))
	// one period on the 2000 held when it was booked
	assert.Equal(t, sdk.Amount(60), h.balance(xxxToken, alice))
}

// TestStakeAccruesBeforeTopUp tests that elapsed periods use the stake held during them.
func TestStakeAccruesBeforeTopUp(t *testing.T) {
	h := newHarness(t)
	h.stake(alice, 1_000)
	h.advance(2 * week)
	h.stake(alice, 9_000)

	d, err := h.p.Deposit(alice)
	require.NoError(t, err)
	assert.Equal(t, sdk.Amount(60), d.SavedReward)
	assert.Equal(t, sdk.Amount(10_000), d.StakedAmount)
}

// TestClaimNothing tests claims before the first period ends.
func TestClaimNothing(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, h.p.Claim(h.env(alice)), contract.ErrNothingToClaim)

	h.stake(alice, 1_000)
	h.advance(week - 1)
	assert.ErrorIs(t, h.p.Claim(h.env(alice)), contract.ErrNothingToClaim)
}

// TestUnstake tests the delay and the payout of stake plus reward.
func TestUnstake(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, h.p.Unstake(h.env(alice)), contract.ErrCannotUnstakeYet)

	lpBefore := h.balance(lpToken, alice)
	h.stake(alice, 1_000)
	h.advance(week - 1)
	assert.ErrorIs(t, h.p.Unstake(h.env(alice)), contract.ErrCannotUnstakeYet)

	h.advance(week + 1)
	require.NoError(t, h.p.Unstake(h.env(alice)))
	assert.Equal(t, lpBefore, h.balance(lpToken, alice))
	assert.Equal(t, sdk.Amount(60), h.balance(xxxToken, alice))

	d, err := h.p.Deposit(alice)
	require.NoError(t, err)
	assert.True(t, d.StakedAmount.IsZero())
	assert.True(t, d.SavedReward.IsZero())

	assert.ErrorIs(t, h.p.Unstake(h.env(alice)), contract.ErrCannotUnstakeYet)
}

// TestZeroUnstakeDelay tests that a zero delay set at runtime behaves like one from genesis.
func TestZeroUnstakeDelay(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.p.SetUnstakeDelay(h.env(admin), 0))
	delay, err := h.p.UnstakeDelay()
	require.NoError(t, err)
	assert.Zero(t, delay)

	lpBefore := h.balance(lpToken, alice)
	h.stake(alice, 1_000)
	require.NoError(t, h.p.Unstake(h.env(alice)))
	assert.Equal(t, lpBefore, h.balance(lpToken, alice))
}

// TestStakingSetters tests the configurator setters and their queries.
func TestStakingSetters(t *testing.T) {
	h := newHarness(t)
	env := h.env(admin)

	require.NoError(t, h.p.SetRewardPercentage(env, 10))
	evs := h.eventsNamed("RewardRateChanged")
	require.Len(t, evs, 1)
	assert.Equal(t, "cc|f:RewardRate|v:10|by:"+admin.Hex(), evs[0].Line())
	require.NoError(t, h.p.SetRewardDelay(env, day))
	require.NoError(t, h.p.SetUnstakeDelay(env, 2*day))
	require.NoError(t, h.p.SetRewardToken(env, acdmToken))
	require.NoError(t, h.p.SetStakingToken(env, xxxToken))

	assert.ErrorIs(t, h.p.SetRewardDelay(env, 0), contract.ErrInvalidDuration)
	assert.ErrorIs(t, h.p.SetUnstakeDelay(env, -1), contract.ErrInvalidDuration)
	assert.ErrorIs(t, h.p.SetRewardToken(env, sdk.ZeroAddress), contract.ErrInvalidAddress)

	pct, err := h.p.RewardPercentage()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), pct)
	delay, err := h.p.RewardDelay()
	require.NoError(t, err)
	assert.Equal(t, day, delay)
	unstake, err := h.p.UnstakeDelay()
	require.NoError(t, err)
	assert.Equal(t, 2*day, unstake)
	reward, err := h.p.RewardToken()
	require.NoError(t, err)
	assert.Equal(t, acdmToken, reward)
	staking, err := h.p.StakingToken()
	require.NoError(t, err)
	assert.Equal(t, xxxToken, staking)

	evs = h.eventsNamed("RewardDelayChanged")
	require.Len(t, evs, 1)
	assert.Equal(t, "cc|f:RewardDelay|v:86400|by:"+admin.Hex(), evs[0].Line())
}

// TestRewardPercentageApplies tests that accrual picks up the configured percentage.
func TestRewardPercentageApplies(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.p.SetRewardPercentage(h.env(admin), 10))
	require.NoError(t, h.p.SetRewardDelay(h.env(admin), day))
	h.stake(bob, 500)
	h.advance(2 * day)
	require.NoError(t, h.p.Claim(h.env(bob)))
	assert.Equal(t, sdk.Amount(100), h.balance(xxxToken, bob))
}
