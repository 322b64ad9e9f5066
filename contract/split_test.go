package contract

import (
	"testing"

	"acdm_platform/sdk"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestSplitReferralAddsUp tests reward1 + reward2 + remainder == total for any table.
func TestSplitReferralAddsUp(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := uint256.NewInt(rapid.Uint64().Draw(t, "total").(uint64))
		total.Mul(total, uint256.NewInt(rapid.Uint64Range(1, 1_000_000).Draw(t, "scale").(uint64)))
		l1 := rapid.Uint64Range(0, BpsDenominator).Draw(t, "l1").(uint64)
		l2 := rapid.Uint64Range(0, BpsDenominator-l1).Draw(t, "l2").(uint64)
		has1 := rapid.Bool().Draw(t, "has1").(bool)
		has2 := rapid.Bool().Draw(t, "has2").(bool)

		s, err := splitReferral(total, [2]uint64{l1, l2}, has1, has2)
		if err != nil {
			t.Fatalf("split: %v", err)
		}
		sum := new(uint256.Int).Add(s.Reward1, s.Reward2)
		sum.Add(sum, s.Remainder)
		if !sum.Eq(total) {
			t.Fatalf("%s + %s + %s != %s", s.Reward1, s.Reward2, s.Remainder, total)
		}
		if s.Missing.Gt(s.Remainder) {
			t.Fatalf("missing %s exceeds remainder %s", s.Missing, s.Remainder)
		}
		if !has1 && !s.Reward1.IsZero() || !has2 && !s.Reward2.IsZero() {
			t.Fatalf("absent level was paid")
		}
	})
}

// TestSplitReferralLevels tests the shares of one concrete payment.
func TestSplitReferralLevels(t *testing.T) {
	total := sdk.Amount(1_000_000)
	bps := [2]uint64{250, 400}

	s, err := splitReferral(total, bps, true, false)
	require.NoError(t, err)
	assert.Equal(t, sdk.Amount(25_000), s.Reward1)
	assert.True(t, s.Reward2.IsZero())
	assert.Equal(t, sdk.Amount(40_000), s.Missing)
	assert.Equal(t, sdk.Amount(975_000), s.Remainder)

	s, err = splitReferral(total, bps, false, false)
	require.NoError(t, err)
	assert.Equal(t, sdk.Amount(65_000), s.Missing)
	assert.Equal(t, total, s.Remainder)
}

// TestNextSalePrice tests the bump against the integer formula.
func TestNextSalePrice(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		price := rapid.Uint64Range(1, 1<<60).Draw(t, "price").(uint64)
		inc := rapid.Uint64Range(0, 1<<60).Draw(t, "inc").(uint64)
		got, err := nextSalePrice(uint256.NewInt(price), uint256.NewInt(inc))
		if err != nil {
			t.Fatalf("bump: %v", err)
		}
		want := new(uint256.Int).Mul(uint256.NewInt(price), uint256.NewInt(103))
		want.Div(want, uint256.NewInt(100))
		want.Add(want, uint256.NewInt(inc))
		if !got.Eq(want) {
			t.Fatalf("got %s want %s", got, want)
		}
		if got.Lt(uint256.NewInt(price)) {
			t.Fatalf("price went down")
		}
	})
}

// TestNextSaleAmount tests the floor division and the zero price guard.
func TestNextSaleAmount(t *testing.T) {
	assert.Equal(t, sdk.Amount(3), nextSaleAmount(sdk.Amount(10), sdk.Amount(3)))
	assert.True(t, nextSaleAmount(sdk.Amount(2), sdk.Amount(3)).IsZero())
	assert.True(t, nextSaleAmount(sdk.Amount(10), sdk.Zero()).IsZero())
}

// TestAccrueWholePeriods tests S*n*pct/100 for constant stake over n periods.
func TestAccrueWholePeriods(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		stake := rapid.Uint64Range(1, 1<<40).Draw(t, "stake").(uint64)
		n := rapid.Int64Range(0, 200).Draw(t, "periods").(int64)
		extra := rapid.Int64Range(0, DefaultRewardDelay-1).Draw(t, "extra").(int64)
		cfg := &Config{RewardPercentage: DefaultRewardPercentage, RewardDelay: DefaultRewardDelay}

		d := newDeposit()
		d.StakedAmount = uint256.NewInt(stake)
		d.LastRewardTime = 1_000
		now := d.LastRewardTime + n*DefaultRewardDelay + extra
		if err := accrue(d, cfg, now); err != nil {
			t.Fatalf("accrue: %v", err)
		}

		want := uint256.NewInt(stake)
		want.Mul(want, uint256.NewInt(uint64(n)*DefaultRewardPercentage))
		want.Div(want, uint256.NewInt(100))
		if !d.SavedReward.Eq(want) {
			t.Fatalf("reward %s want %s", d.SavedReward, want)
		}
		if d.LastRewardTime != 1_000+n*DefaultRewardDelay {
			t.Fatalf("lastRewardTime %d", d.LastRewardTime)
		}
	})
}

// TestAccrueIsIdempotent tests that accruing twice at the same time books nothing new.
func TestAccrueIsIdempotent(t *testing.T) {
	cfg := &Config{RewardPercentage: 3, RewardDelay: 10}
	d := newDeposit()
	d.StakedAmount = sdk.Amount(1_000)

	require.NoError(t, accrue(d, cfg, 25))
	assert.Equal(t, sdk.Amount(60), d.SavedReward)
	assert.Equal(t, int64(20), d.LastRewardTime)

	require.NoError(t, accrue(d, cfg, 25))
	assert.Equal(t, sdk.Amount(60), d.SavedReward)
}
