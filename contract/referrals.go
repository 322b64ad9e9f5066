package contract

import (
	"fmt"

	"acdm_platform/sdk"

	"github.com/holiman/uint256"
)

// referralSplit is how one payment divides between the two upline levels.
// Reward1+Reward2+Remainder == Total always holds; Missing is the part of Remainder
// that belongs to absent levels.
type referralSplit struct {
	Total     *uint256.Int
	Reward1   *uint256.Int
	Reward2   *uint256.Int
	Remainder *uint256.Int
	Missing   *uint256.Int
}

// splitReferral computes the shares for bps=[level1, level2] given which levels exist.
func splitReferral(total *uint256.Int, bps [2]uint64, hasL1, hasL2 bool) (referralSplit, error) {
	den := uint256.NewInt(BpsDenominator)
	share1, err := mulDiv(total, uint256.NewInt(bps[0]), den)
	if err != nil {
		return referralSplit{}, err
	}
	share2, err := mulDiv(total, uint256.NewInt(bps[1]), den)
	if err != nil {
		return referralSplit{}, err
	}
	s := referralSplit{
		Total:   total.Clone(),
		Reward1: sdk.Zero(),
		Reward2: sdk.Zero(),
		Missing: sdk.Zero(),
	}
	if hasL1 {
		s.Reward1 = share1
	} else {
		s.Missing.Add(s.Missing, share1)
	}
	if hasL2 {
		s.Reward2 = share2
	} else {
		s.Missing.Add(s.Missing, share2)
	}
	s.Remainder = new(uint256.Int).Sub(total, s.Reward1)
	s.Remainder.Sub(s.Remainder, s.Reward2)
	return s, nil
}

// distribute pays the upline of root out of custody and returns the split. Sale
// purchases pass the buyer as root, Trade purchases the seller.
func distribute(c *callCtx, total *uint256.Int, root sdk.Address, isTrade bool) (referralSplit, error) {
	cfg, err := loadConfig(c.st)
	if err != nil {
		return referralSplit{}, err
	}
	l1, l2, err := referralChain(c.st, root)
	if err != nil {
		return referralSplit{}, err
	}
	hasL1, hasL2 := !sdk.IsZero(l1), !sdk.IsZero(l2)
	s, err := splitReferral(total, cfg.ReferralBps[roundIndex(isTrade)], hasL1, hasL2)
	if err != nil {
		return referralSplit{}, err
	}
	if hasL1 && !s.Reward1.IsZero() {
		if err := c.pay(sdk.NativeToken, l1, s.Reward1); err != nil {
			return referralSplit{}, err
		}
		emitReferralPaid(c, l1, 1, s.Reward1)
	}
	if hasL2 && !s.Reward2.IsZero() {
		if err := c.pay(sdk.NativeToken, l2, s.Reward2); err != nil {
			return referralSplit{}, err
		}
		emitReferralPaid(c, l2, 2, s.Reward2)
	}
	return s, nil
}

// accrueBonus adds commission without a recipient to the platform bonus.
func accrueBonus(c *callCtx, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	total, err := addChecked(getBonus(c.st), amount)
	if err != nil {
		return err
	}
	setBonus(c.st, total)
	emitBonusAccrued(c, amount, total)
	return nil
}

func setReferralPercent(c *callCtx, isTrade, isLevel1 bool, bps uint64) error {
	if err := c.requireRole(RoleConfigurator); err != nil {
		return err
	}
	err := updateConfig(c.st, func(cfg *Config) error {
		row := cfg.ReferralBps[roundIndex(isTrade)]
		row[levelIndex(isLevel1)] = bps
		if bps > BpsDenominator || row[0]+row[1] > BpsDenominator {
			return ErrInvalidPercent.with(" (%d bps)", bps)
		}
		cfg.ReferralBps[roundIndex(isTrade)] = row
		return nil
	})
	if err != nil {
		return err
	}
	emitReferralPercentChanged(c, isTrade, isLevel1, bps)
	return nil
}

// SetReferralPercent sets the commission in basis points for one round type and level.
func (p *Platform) SetReferralPercent(env sdk.Env, isTrade, isLevel1 bool, bps uint64) error {
	return p.exec("setReferralPercent", env, false, func(c *callCtx) error {
		return setReferralPercent(c, isTrade, isLevel1, bps)
	})
}

func convertAndBurn(c *callCtx, exchange, rewardToken sdk.Address, deadlineOffset int64) error {
	if err := c.requireRole(RoleConfigurator); err != nil {
		return err
	}
	bonus := getBonus(c.st)
	if bonus.IsZero() {
		return ErrNothingToConvert
	}
	ex, ok := c.p.exchanges[exchange]
	if !ok {
		return ErrUnknownExchange.with(" %s", exchange.Hex())
	}
	host := c.asPlatform()
	out, err := ex.SwapExactNativeForTokens(host, rewardToken, bonus, c.self(), c.now()+deadlineOffset)
	if err != nil {
		return fmt.Errorf("swap %s for %s: %w", bonus.Dec(), rewardToken.Hex(), err)
	}
	if err := c.ledger.Burn(rewardToken, c.self(), out); err != nil {
		return ErrInsufficientFunds.wrap(err)
	}
	setBonus(c.st, sdk.Zero())
	emitConvertedAndBurned(c, exchange, rewardToken, bonus, out)
	return nil
}

// ConvertAndBurn swaps the whole platform bonus for rewardToken through the exchange
// registered at exchange and burns what comes back.
func (p *Platform) ConvertAndBurn(env sdk.Env, exchange, rewardToken sdk.Address, deadlineOffset int64) error {
	return p.exec("convertAndBurn", env, false, func(c *callCtx) error {
		return convertAndBurn(c, exchange, rewardToken, deadlineOffset)
	})
}

// Withdraw sends the protocol revenue (custody balance minus bonus) to the admin calling it.
func (p *Platform) Withdraw(env sdk.Env) error {
	return p.exec("withdraw", env, false, func(c *callCtx) error {
		if err := c.requireRole(RoleAdmin); err != nil {
			return err
		}
		balance := c.ledger.BalanceOf(sdk.NativeToken, c.self())
		bonus := getBonus(c.st)
		if !balance.Gt(bonus) {
			return ErrNothingToWithdraw
		}
		amount := new(uint256.Int).Sub(balance, bonus)
		if err := c.pay(sdk.NativeToken, c.sender(), amount); err != nil {
			return err
		}
		emitWithdrawn(c, c.sender(), amount)
		return nil
	})
}

// ReferralPercent returns the configured basis points for a round type and level.
func (p *Platform) ReferralPercent(isTrade, isLevel1 bool) (uint64, error) {
	var bps uint64
	err := p.view(func(st sdk.State) error {
		cfg, err := loadConfig(st)
		if err != nil {
			return err
		}
		bps = cfg.ReferralBps[roundIndex(isTrade)][levelIndex(isLevel1)]
		return nil
	})
	return bps, err
}

// PlatformBonus is the currency accumulated from under-referred Trade purchases.
func (p *Platform) PlatformBonus() (*uint256.Int, error) {
	var bonus *uint256.Int
	err := p.view(func(st sdk.State) error {
		bonus = getBonus(st)
		return nil
	})
	return bonus, err
}
