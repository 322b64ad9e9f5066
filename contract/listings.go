package contract

import (
	"acdm_platform/sdk"

	"github.com/holiman/uint256"
)

// requireTrade loads the round and fails unless it is a Trade round.
func requireTrade(c *callCtx) (*Round, error) {
	rd, err := loadRound(c.st)
	if err != nil {
		return nil, err
	}
	if rd.Type != RoundTrade {
		return nil, ErrItIsNotTradeRound
	}
	return rd, nil
}

// mustListing resolves (seller, id), NoSuchListing when id was never issued.
func mustListing(st sdk.State, seller sdk.Address, id uint64) (*Listing, error) {
	if id >= getListingCounter(st, seller) {
		return nil, ErrNoSuchListing.with("(%s,%d)", seller.Hex(), id)
	}
	l, ok, err := loadListing(st, seller, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoSuchListing.with("(%s,%d)", seller.Hex(), id)
	}
	return l, nil
}

// List escrows amount platform tokens from the caller at price per unit and returns
// the new listing id.
// Example payload: List(env, sdk.Amount(100), sdk.Gwei(20_000))
func (p *Platform) List(env sdk.Env, amount, price *uint256.Int) (uint64, error) {
	var id uint64
	err := p.exec("list", env, false, func(c *callCtx) error {
		if _, err := requireTrade(c); err != nil {
			return err
		}
		if amount == nil || amount.IsZero() {
			return ErrZeroAmount
		}
		if price == nil {
			price = sdk.Zero()
		}
		cfg, err := loadConfig(c.st)
		if err != nil {
			return err
		}
		if err := c.collect(cfg.PlatformToken, amount); err != nil {
			return err
		}
		id = nextCount(c.st, listingCounterKey(c.sender()))
		saveListing(c.st, c.sender(), id, &Listing{Amount: amount.Clone(), Price: price.Clone()})
		emitListed(c, c.sender(), id, amount, price)
		return nil
	})
	return id, err
}

// Unlist returns what is left of the listing to its seller. The price stays recorded.
func (p *Platform) Unlist(env sdk.Env, id uint64) error {
	return p.exec("unlist", env, false, func(c *callCtx) error {
		if _, err := requireTrade(c); err != nil {
			return err
		}
		l, err := mustListing(c.st, c.sender(), id)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(c.st)
		if err != nil {
			return err
		}
		returned := l.Amount
		if err := c.pay(cfg.PlatformToken, c.sender(), returned); err != nil {
			return err
		}
		l.Amount = sdk.Zero()
		saveListing(c.st, c.sender(), id, l)
		emitUnlisted(c, c.sender(), id, returned)
		return nil
	})
}

// BuyListed buys amount from seller's listing id. Commission follows the seller's
// upline; the seller gets the rest minus the shares of missing levels, which go to
// the platform bonus.
func (p *Platform) BuyListed(env sdk.Env, seller sdk.Address, id uint64, amount *uint256.Int) error {
	return p.exec("buyListed", env, true, func(c *callCtx) error {
		rd, err := requireTrade(c)
		if err != nil {
			return err
		}
		if amount == nil || amount.IsZero() {
			return ErrZeroAmount
		}
		l, err := mustListing(c.st, seller, id)
		if err != nil {
			return err
		}
		if amount.Gt(l.Amount) {
			return ErrRequestedAmountExceedsListedAmount
		}
		cost, err := mulChecked(amount, l.Price)
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

		l.Amount = new(uint256.Int).Sub(l.Amount, amount)
		saveListing(c.st, seller, id, l)
		if err := c.pay(cfg.PlatformToken, c.sender(), amount); err != nil {
			return err
		}
		if rd.AccumulatedVolume, err = addChecked(rd.AccumulatedVolume, cost); err != nil {
			return err
		}
		saveRound(c.st, rd)

		split, err := distribute(c, cost, seller, true)
		if err != nil {
			return err
		}
		toSeller := new(uint256.Int).Sub(split.Remainder, split.Missing)
		if err := c.pay(sdk.NativeToken, seller, toSeller); err != nil {
			return err
		}
		if err := accrueBonus(c, split.Missing); err != nil {
			return err
		}
		emitBoughtListed(c, c.sender(), seller, id, amount, cost)
		return nil
	})
}

// Listing returns the listing (seller, id).
func (p *Platform) Listing(seller sdk.Address, id uint64) (Listing, error) {
	var out Listing
	err := p.view(func(st sdk.State) error {
		l, err := mustListing(st, seller, id)
		if err != nil {
			return err
		}
		out = *l
		return nil
	})
	return out, err
}

// ListingCounter is the number of listings seller ever created, i.e. the next id.
func (p *Platform) ListingCounter(seller sdk.Address) (uint64, error) {
	var n uint64
	err := p.view(func(st sdk.State) error {
		n = getListingCounter(st, seller)
		return nil
	})
	return n, err
}
