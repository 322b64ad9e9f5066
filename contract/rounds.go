package contract

import (
	"acdm_platform/sdk"

	"github.com/holiman/uint256"
)

// nextSalePrice is price*103/100 + increment.
func nextSalePrice(price, increment *uint256.Int) (*uint256.Int, error) {
	bumped, err := mulDiv(price, uint256.NewInt(PriceBumpNumerator), uint256.NewInt(PriceBumpDenominator))
	if err != nil {
		return nil, err
	}
	return addChecked(bumped, increment)
}

// nextSaleAmount is floor(volume/price). A zero price never happens after Init.
func nextSaleAmount(volume, price *uint256.Int) *uint256.Int {
	if price.IsZero() {
		return sdk.Zero()
	}
	return new(uint256.Int).Div(volume, price)
}

// Buy purchases amount platform tokens from custody at the Sale round price. The
// attached value must cover amount*price, the rest is refunded.
// Example payload: Buy(env.WithValue(cost), sdk.Amount(100))
func (p *Platform) Buy(env sdk.Env, amount *uint256.Int) error {
	return p.exec("buy", env, true, func(c *callCtx) error {
		rd, err := loadRound(c.st)
		if err != nil {
			return err
		}
		if rd.Type != RoundSale {
			return ErrItIsNotSaleRound
		}
		if amount == nil || amount.IsZero() {
			return ErrZeroAmount
		}
		if amount.Gt(rd.RemainingAmount) {
			return ErrRequestedAmountExceedsListedAmount
		}
		cost, err := mulChecked(amount, rd.Price)
		if err != nil {
			return err
		}
		if err := c.settle(cost); err != nil {
			return err
		}
		cfg, err := loadConfig(c.st)
		if err != nil {
			return err
		}

		rd.RemainingAmount = new(uint256.Int).Sub(rd.RemainingAmount, amount)
		saveRound(c.st, rd)
		if err := c.pay(cfg.PlatformToken, c.sender(), amount); err != nil {
			return err
		}
		// buyer's upline, the remainder stays in custody as protocol revenue
		if _, err := distribute(c, cost, c.sender(), false); err != nil {
			return err
		}
		emitBought(c, c.sender(), amount, rd.Price, cost)
		return nil
	})
}

// FinishRound switches to the other round type once the current one has run its
// duration. Sale to Trade burns the unsold supply and bumps the price, Trade to Sale
// mints what the traded volume buys at that price.
func (p *Platform) FinishRound(env sdk.Env) error {
	return p.exec("finishRound", env, false, func(c *callCtx) error {
		rd, err := loadRound(c.st)
		if err != nil {
			return err
		}
		if c.now() < rd.EndsAt() {
			return ErrTooEarly
		}
		cfg, err := loadConfig(c.st)
		if err != nil {
			return err
		}

		next := &Round{
			StartTime:         c.now(),
			Duration:          cfg.RoundDuration,
			RemainingAmount:   sdk.Zero(),
			AccumulatedVolume: sdk.Zero(),
		}
		switch rd.Type {
		case RoundSale:
			if !rd.RemainingAmount.IsZero() {
				if err := c.ledger.Burn(cfg.PlatformToken, c.self(), rd.RemainingAmount); err != nil {
					return ErrInsufficientFunds.wrap(err)
				}
			}
			price, err := nextSalePrice(rd.Price, cfg.PriceIncrement)
			if err != nil {
				return err
			}
			next.Type = RoundTrade
			next.Price = price
		default:
			next.Type = RoundSale
			next.Price = rd.Price.Clone()
			next.RemainingAmount = nextSaleAmount(rd.AccumulatedVolume, rd.Price)
			if !next.RemainingAmount.IsZero() {
				if err := c.ledger.Mint(cfg.PlatformToken, c.self(), next.RemainingAmount); err != nil {
					return ErrOverflow.wrap(err)
				}
			}
		}
		saveRound(c.st, next)
		emitRoundFinished(c, next)
		return nil
	})
}

func setRoundDuration(c *callCtx, d int64) error {
	if err := c.requireRole(RoleConfigurator); err != nil {
		return err
	}
	if d <= 0 {
		return ErrInvalidDuration
	}
	if err := updateConfig(c.st, func(cfg *Config) error {
		cfg.RoundDuration = d
		return nil
	}); err != nil {
		return err
	}
	emitConfigChanged(c, "RoundDuration", d)
	return nil
}

// SetRoundDuration changes the duration of rounds started from now on.
func (p *Platform) SetRoundDuration(env sdk.Env, d int64) error {
	return p.exec("setRoundDuration", env, false, func(c *callCtx) error {
		return setRoundDuration(c, d)
	})
}

// Round returns a copy of the active round.
func (p *Platform) Round() (Round, error) {
	var out Round
	err := p.view(func(st sdk.State) error {
		rd, err := loadRound(st)
		if err != nil {
			return err
		}
		out = *rd
		return nil
	})
	return out, err
}

// SaleRoundPrice is the price of the active round. In a Trade round it is the price
// the next Sale round will use.
func (p *Platform) SaleRoundPrice() (*uint256.Int, error) {
	rd, err := p.Round()
	if err != nil {
		return nil, err
	}
	return rd.Price, nil
}

// SaleRoundAmount is what is left to buy in the active Sale round, zero in Trade rounds.
func (p *Platform) SaleRoundAmount() (*uint256.Int, error) {
	rd, err := p.Round()
	if err != nil {
		return nil, err
	}
	return rd.RemainingAmount, nil
}

// RoundDuration is the configured duration for new rounds.
func (p *Platform) RoundDuration() (int64, error) {
	var d int64
	err := p.view(func(st sdk.State) error {
		cfg, err := loadConfig(st)
		if err != nil {
			return err
		}
		d = cfg.RoundDuration
		return nil
	})
	return d, err
}
