package contract

import (
	"acdm_platform/sdk"

	"github.com/holiman/uint256"
)

// accrue books the whole reward periods elapsed since LastRewardTime into SavedReward,
// using the stake held during those periods. The partial period carries over.
func accrue(d *Deposit, cfg *Config, now int64) error {
	if cfg.RewardDelay <= 0 || now <= d.LastRewardTime {
		return nil
	}
	periods := (now - d.LastRewardTime) / cfg.RewardDelay
	if periods < 1 {
		return nil
	}
	if !d.StakedAmount.IsZero() {
		weighted, err := mulChecked(d.StakedAmount, uint256.NewInt(uint64(periods)))
		if err != nil {
			return err
		}
		reward, err := mulDiv(weighted, uint256.NewInt(cfg.RewardPercentage), uint256.NewInt(100))
		if err != nil {
			return err
		}
		if d.SavedReward, err = addChecked(d.SavedReward, reward); err != nil {
			return err
		}
	}
	d.LastRewardTime += periods * cfg.RewardDelay
	return nil
}

// Stake locks amount staking tokens in custody. The caller proves whitelist membership
// with proof.
func (p *Platform) Stake(env sdk.Env, amount *uint256.Int, proof []sdk.Hash) error {
	return p.exec("stake", env, false, func(c *callCtx) error {
		if amount == nil || amount.IsZero() {
			return ErrZeroAmount
		}
		cfg, err := loadConfig(c.st)
		if err != nil {
			return err
		}
		if !isWhitelisted(cfg, c.sender(), proof) {
			return ErrNoAccess
		}
		d, err := loadDeposit(c.st, c.sender())
		if err != nil {
			return err
		}
		if d.StakedAmount.IsZero() {
			// periods count from the moment there is something staked
			d.LastRewardTime = c.now()
		} else if err := accrue(d, cfg, c.now()); err != nil {
			return err
		}
		if err := c.collect(cfg.StakingToken, amount); err != nil {
			return err
		}
		if d.StakedAmount, err = addChecked(d.StakedAmount, amount); err != nil {
			return err
		}
		d.LastStakeTime = c.now()
		saveDeposit(c.st, c.sender(), d)
		emitStaked(c, c.sender(), amount)
		return nil
	})
}

// Claim pays out the accrued reward in reward tokens.
func (p *Platform) Claim(env sdk.Env) error {
	return p.exec("claim", env, false, func(c *callCtx) error {
		cfg, err := loadConfig(c.st)
		if err != nil {
			return err
		}
		d, err := loadDeposit(c.st, c.sender())
		if err != nil {
			return err
		}
		if err := accrue(d, cfg, c.now()); err != nil {
			return err
		}
		if d.SavedReward.IsZero() {
			return ErrNothingToClaim
		}
		reward := d.SavedReward
		if err := c.pay(cfg.RewardToken, c.sender(), reward); err != nil {
			return err
		}
		d.SavedReward = sdk.Zero()
		saveDeposit(c.st, c.sender(), d)
		emitClaimed(c, c.sender(), reward)
		return nil
	})
}

// Unstake returns the whole stake plus any reward. It fails while the caller takes part
// in a proposal that is still in progress.
func (p *Platform) Unstake(env sdk.Env) error {
	return p.exec("unstake", env, false, func(c *callCtx) error {
		cfg, err := loadConfig(c.st)
		if err != nil {
			return err
		}
		d, err := loadDeposit(c.st, c.sender())
		if err != nil {
			return err
		}
		if d.StakedAmount.IsZero() || c.now() < d.LastStakeTime+cfg.UnstakeDelay {
			return ErrCannotUnstakeYet
		}
		if getFreezeCount(c.st, c.sender()) > 0 {
			return ErrTokensFrozen
		}
		if err := accrue(d, cfg, c.now()); err != nil {
			return err
		}
		staked, reward := d.StakedAmount, d.SavedReward
		if err := c.pay(cfg.StakingToken, c.sender(), staked); err != nil {
			return err
		}
		if !reward.IsZero() {
			if err := c.pay(cfg.RewardToken, c.sender(), reward); err != nil {
				return err
			}
		}
		d.StakedAmount = sdk.Zero()
		d.SavedReward = sdk.Zero()
		saveDeposit(c.st, c.sender(), d)
		emitUnstaked(c, c.sender(), staked, reward)
		return nil
	})
}

func setRewardPercentage(c *callCtx, pct uint64) error {
	if err := c.requireRole(RoleConfigurator); err != nil {
		return err
	}
	if err := updateConfig(c.st, func(cfg *Config) error {
		cfg.RewardPercentage = pct
		return nil
	}); err != nil {
		return err
	}
	emitRewardRateChanged(c, pct)
	return nil
}

// setDuration is the shared body of the delay setters, d must not be below least.
func setDuration(c *callCtx, name string, d, least int64, apply func(cfg *Config)) error {
	if err := c.requireRole(RoleConfigurator); err != nil {
		return err
	}
	if d < least {
		return ErrInvalidDuration.with(" (%s)", name)
	}
	if err := updateConfig(c.st, func(cfg *Config) error {
		apply(cfg)
		return nil
	}); err != nil {
		return err
	}
	emitConfigChanged(c, name, d)
	return nil
}

func setRewardDelay(c *callCtx, d int64) error {
	return setDuration(c, "RewardDelay", d, 1, func(cfg *Config) { cfg.RewardDelay = d })
}

func setUnstakeDelay(c *callCtx, d int64) error {
	// zero lets stakes leave right away, same as genesis
	return setDuration(c, "UnstakeDelay", d, 0, func(cfg *Config) { cfg.UnstakeDelay = d })
}

func setToken(c *callCtx, name string, token sdk.Address, apply func(cfg *Config)) error {
	if err := c.requireRole(RoleConfigurator); err != nil {
		return err
	}
	if sdk.IsZero(token) {
		return ErrInvalidAddress.with(" (%s)", name)
	}
	if err := updateConfig(c.st, func(cfg *Config) error {
		apply(cfg)
		return nil
	}); err != nil {
		return err
	}
	emitConfigChanged(c, name, token)
	return nil
}

// SetRewardPercentage sets the percent of the stake paid per reward period.
func (p *Platform) SetRewardPercentage(env sdk.Env, pct uint64) error {
	return p.exec("setRewardPercentage", env, false, func(c *callCtx) error {
		return setRewardPercentage(c, pct)
	})
}

// SetRewardDelay sets the reward period length in seconds.
func (p *Platform) SetRewardDelay(env sdk.Env, d int64) error {
	return p.exec("setRewardDelay", env, false, func(c *callCtx) error {
		return setRewardDelay(c, d)
	})
}

// SetUnstakeDelay sets how long after the last stake an unstake is possible.
func (p *Platform) SetUnstakeDelay(env sdk.Env, d int64) error {
	return p.exec("setUnstakeDelay", env, false, func(c *callCtx) error {
		return setUnstakeDelay(c, d)
	})
}

func (p *Platform) SetRewardToken(env sdk.Env, token sdk.Address) error {
	return p.exec("setRewardToken", env, false, func(c *callCtx) error {
		return setToken(c, "RewardToken", token, func(cfg *Config) { cfg.RewardToken = token })
	})
}

func (p *Platform) SetStakingToken(env sdk.Env, token sdk.Address) error {
	return p.exec("setStakingToken", env, false, func(c *callCtx) error {
		return setToken(c, "StakingToken", token, func(cfg *Config) { cfg.StakingToken = token })
	})
}

// Deposit returns addr's deposit, a zero one if it never staked.
func (p *Platform) Deposit(addr sdk.Address) (Deposit, error) {
	var out Deposit
	err := p.view(func(st sdk.State) error {
		d, err := loadDeposit(st, addr)
		if err != nil {
			return err
		}
		out = *d
		return nil
	})
	return out, err
}

// config snapshots the configuration record.
func (p *Platform) config() (Config, error) {
	var out Config
	err := p.view(func(st sdk.State) error {
		cfg, err := loadConfig(st)
		if err != nil {
			return err
		}
		out = *cfg
		return nil
	})
	return out, err
}

// Config returns a copy of the runtime configuration.
func (p *Platform) Config() (Config, error) { return p.config() }

func (p *Platform) RewardPercentage() (uint64, error) {
	cfg, err := p.config()
	return cfg.RewardPercentage, err
}

func (p *Platform) RewardDelay() (int64, error) {
	cfg, err := p.config()
	return cfg.RewardDelay, err
}

func (p *Platform) UnstakeDelay() (int64, error) {
	cfg, err := p.config()
	return cfg.UnstakeDelay, err
}

func (p *Platform) RewardToken() (sdk.Address, error) {
	cfg, err := p.config()
	return cfg.RewardToken, err
}

func (p *Platform) StakingToken() (sdk.Address, error) {
	cfg, err := p.config()
	return cfg.StakingToken, err
}
