package contract

import (
	"acdm_platform/sdk"
)

// Register records the caller once, with referral as upline. The zero address means
// no upline; any other referral must be registered already.
func (p *Platform) Register(env sdk.Env, referral sdk.Address) error {
	return p.exec("register", env, false, func(c *callCtx) error {
		_, registered, err := loadAccount(c.st, c.sender())
		if err != nil {
			return err
		}
		if registered {
			return ErrRegisteredAlready
		}
		if !sdk.IsZero(referral) {
			_, ok, err := loadAccount(c.st, referral)
			if err != nil {
				return err
			}
			if !ok {
				return ErrReferralIsNotRegistered
			}
		}
		saveAccount(c.st, c.sender(), &Account{RegDate: c.now(), Referral: referral})
		emitRegistered(c, c.sender(), referral)
		return nil
	})
}

// Account returns the registration of addr, ok=false when it never registered.
func (p *Platform) Account(addr sdk.Address) (acc Account, ok bool, err error) {
	err = p.view(func(st sdk.State) error {
		a, found, err := loadAccount(st, addr)
		if err != nil || !found {
			return err
		}
		acc, ok = *a, true
		return nil
	})
	return acc, ok, err
}

// referralChain resolves (level1, level2) for root. Missing levels are the zero address.
func referralChain(st sdk.State, root sdk.Address) (l1, l2 sdk.Address, err error) {
	acc, ok, err := loadAccount(st, root)
	if err != nil || !ok || sdk.IsZero(acc.Referral) {
		return sdk.ZeroAddress, sdk.ZeroAddress, err
	}
	l1 = acc.Referral
	up, ok, err := loadAccount(st, l1)
	if err != nil || !ok {
		return l1, sdk.ZeroAddress, err
	}
	return l1, up.Referral, nil
}
