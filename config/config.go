package config

import (
	"fmt"
	"strings"
	"time"

	"acdm_platform/contract"
	"acdm_platform/sdk"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. ACDM_ROUNDS_DURATION.
const EnvPrefix = "ACDM"

// Config represents the complete platform configuration
type Config struct {
	Platform   PlatformConfig   `mapstructure:"platform"`
	Rounds     RoundsConfig     `mapstructure:"rounds"`
	Referral   ReferralConfig   `mapstructure:"referral"`
	Staking    StakingConfig    `mapstructure:"staking"`
	Governance GovernanceConfig `mapstructure:"governance"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// PlatformConfig names the accounts and tokens the platform works with
type PlatformConfig struct {
	Address       string `mapstructure:"address"`
	Admin         string `mapstructure:"admin"`
	PlatformToken string `mapstructure:"platform_token"`
	RewardToken   string `mapstructure:"reward_token"`
	StakingToken  string `mapstructure:"staking_token"`
}

// RoundsConfig holds the Sale/Trade round parameters. Amounts are decimal strings.
type RoundsConfig struct {
	InitialPrice      string        `mapstructure:"initial_price"`
	InitialSaleAmount string        `mapstructure:"initial_sale_amount"`
	PriceIncrement    string        `mapstructure:"price_increment"`
	Duration          time.Duration `mapstructure:"duration"`
}

// ReferralConfig holds commissions in basis points
type ReferralConfig struct {
	SaleLevel1Bps  uint64 `mapstructure:"sale_level1_bps"`
	SaleLevel2Bps  uint64 `mapstructure:"sale_level2_bps"`
	TradeLevel1Bps uint64 `mapstructure:"trade_level1_bps"`
	TradeLevel2Bps uint64 `mapstructure:"trade_level2_bps"`
}

// StakingConfig holds reward and whitelist settings. Whitelist wins over WhitelistRoot
// when both are set.
type StakingConfig struct {
	RewardPercentage uint64        `mapstructure:"reward_percentage"`
	RewardDelay      time.Duration `mapstructure:"reward_delay"`
	UnstakeDelay     time.Duration `mapstructure:"unstake_delay"`
	WhitelistRoot    string        `mapstructure:"whitelist_root"`
	Whitelist        []string      `mapstructure:"whitelist"`
}

// GovernanceConfig holds proposal settings
type GovernanceConfig struct {
	VotingDuration time.Duration `mapstructure:"voting_duration"`
}

// StorageConfig says where the state database lives
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Name    string `mapstructure:"name"`
	DataDir string `mapstructure:"data_dir"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from file and environment variables. An empty path
// means defaults plus environment only.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// WriteDefault writes the defaults plus overrides to path. It refuses to overwrite.
func WriteDefault(path string, overrides map[string]interface{}) error {
	v := newViper()
	for k, val := range overrides {
		v.Set(k, val)
	}
	if err := v.SafeWriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Platform defaults
	v.SetDefault("platform.address", contract.DefaultAddress.Hex())
	v.SetDefault("platform.admin", "")
	v.SetDefault("platform.platform_token", "")
	v.SetDefault("platform.reward_token", "")
	v.SetDefault("platform.staking_token", "")

	// Round defaults
	v.SetDefault("rounds.initial_price", contract.DefaultInitialPrice.Dec())
	v.SetDefault("rounds.initial_sale_amount", contract.DefaultInitialSaleAmount.Dec())
	v.SetDefault("rounds.price_increment", contract.DefaultPriceIncrement.Dec())
	v.SetDefault("rounds.duration", "72h")

	// Referral defaults
	v.SetDefault("referral.sale_level1_bps", contract.DefaultSaleReferralL1Bps)
	v.SetDefault("referral.sale_level2_bps", contract.DefaultSaleReferralL2Bps)
	v.SetDefault("referral.trade_level1_bps", contract.DefaultTradeReferralL1Bps)
	v.SetDefault("referral.trade_level2_bps", contract.DefaultTradeReferralL2Bps)

	// Staking defaults
	v.SetDefault("staking.reward_percentage", contract.DefaultRewardPercentage)
	v.SetDefault("staking.reward_delay", "168h")
	v.SetDefault("staking.unstake_delay", "168h")
	v.SetDefault("staking.whitelist_root", "")
	v.SetDefault("staking.whitelist", []string{})

	// Governance defaults
	v.SetDefault("governance.voting_duration", "72h")

	// Storage defaults
	v.SetDefault("storage.backend", "goleveldb")
	v.SetDefault("storage.name", "acdm")
	v.SetDefault("storage.data_dir", "./data")

	// Logging defaults
	v.SetDefault("logging.level", sdk.LogLevelInfo)
	v.SetDefault("logging.format", sdk.LogFormatPlain)
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate Platform config
	for name, s := range map[string]string{
		"platform.admin":          c.Platform.Admin,
		"platform.platform_token": c.Platform.PlatformToken,
		"platform.reward_token":   c.Platform.RewardToken,
		"platform.staking_token":  c.Platform.StakingToken,
	} {
		if s == "" {
			return fmt.Errorf("%s is required", name)
		}
		if _, err := sdk.ParseAddress(s); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if c.Platform.Address != "" {
		if _, err := sdk.ParseAddress(c.Platform.Address); err != nil {
			return fmt.Errorf("platform.address: %w", err)
		}
	}

	// Validate Rounds config
	price, err := sdk.ParseAmount(c.Rounds.InitialPrice)
	if err != nil {
		return fmt.Errorf("rounds.initial_price: %w", err)
	}
	if price.IsZero() {
		return fmt.Errorf("rounds.initial_price must be positive")
	}
	if _, err := sdk.ParseAmount(c.Rounds.InitialSaleAmount); err != nil {
		return fmt.Errorf("rounds.initial_sale_amount: %w", err)
	}
	if _, err := sdk.ParseAmount(c.Rounds.PriceIncrement); err != nil {
		return fmt.Errorf("rounds.price_increment: %w", err)
	}
	if c.Rounds.Duration < time.Second {
		return fmt.Errorf("rounds.duration must be at least 1s")
	}

	// Validate Referral config
	if c.Referral.SaleLevel1Bps+c.Referral.SaleLevel2Bps > contract.BpsDenominator {
		return fmt.Errorf("referral.sale_level1_bps + referral.sale_level2_bps must not exceed %d", contract.BpsDenominator)
	}
	if c.Referral.TradeLevel1Bps+c.Referral.TradeLevel2Bps > contract.BpsDenominator {
		return fmt.Errorf("referral.trade_level1_bps + referral.trade_level2_bps must not exceed %d", contract.BpsDenominator)
	}

	// Validate Staking config
	if c.Staking.RewardDelay < time.Second {
		return fmt.Errorf("staking.reward_delay must be at least 1s")
	}
	if c.Staking.UnstakeDelay < 0 {
		return fmt.Errorf("staking.unstake_delay must not be negative")
	}
	for _, s := range c.Staking.Whitelist {
		if _, err := sdk.ParseAddress(s); err != nil {
			return fmt.Errorf("staking.whitelist: %w", err)
		}
	}
	if c.Staking.WhitelistRoot != "" && len(common.FromHex(c.Staking.WhitelistRoot)) != common.HashLength {
		return fmt.Errorf("staking.whitelist_root must be a 32 byte hex hash")
	}

	// Validate Governance config
	if c.Governance.VotingDuration < time.Second {
		return fmt.Errorf("governance.voting_duration must be at least 1s")
	}

	// Validate Storage config
	if c.Storage.Name == "" {
		return fmt.Errorf("storage.name is required")
	}

	// Validate Logging config
	validLogLevels := map[string]bool{sdk.LogLevelDebug: true, sdk.LogLevelInfo: true, sdk.LogLevelError: true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, error")
	}
	validFormats := map[string]bool{sdk.LogFormatJSON: true, sdk.LogFormatPlain: true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, plain")
	}

	return nil
}

// PlatformAddress is the custody address, the package default when unset.
func (c *Config) PlatformAddress() (sdk.Address, error) {
	if c.Platform.Address == "" {
		return contract.DefaultAddress, nil
	}
	return sdk.ParseAddress(c.Platform.Address)
}

// WhitelistRoot derives the root from the address list, or reads the configured hash.
func (c *Config) WhitelistRoot() (sdk.Hash, error) {
	if len(c.Staking.Whitelist) > 0 {
		addrs := make([]sdk.Address, 0, len(c.Staking.Whitelist))
		for _, s := range c.Staking.Whitelist {
			a, err := sdk.ParseAddress(s)
			if err != nil {
				return sdk.Hash{}, err
			}
			addrs = append(addrs, a)
		}
		return sdk.NewWhitelistTree(addrs).Root(), nil
	}
	return common.HexToHash(c.Staking.WhitelistRoot), nil
}

// Genesis converts the validated file config into what Platform.Init takes.
func (c *Config) Genesis() (contract.Genesis, error) {
	if err := c.Validate(); err != nil {
		return contract.Genesis{}, err
	}
	var (
		g   contract.Genesis
		err error
	)
	if g.Admin, err = sdk.ParseAddress(c.Platform.Admin); err != nil {
		return g, err
	}
	if g.PlatformToken, err = sdk.ParseAddress(c.Platform.PlatformToken); err != nil {
		return g, err
	}
	if g.RewardToken, err = sdk.ParseAddress(c.Platform.RewardToken); err != nil {
		return g, err
	}
	if g.StakingToken, err = sdk.ParseAddress(c.Platform.StakingToken); err != nil {
		return g, err
	}
	if g.WhitelistRoot, err = c.WhitelistRoot(); err != nil {
		return g, err
	}
	if g.InitialPrice, err = sdk.ParseAmount(c.Rounds.InitialPrice); err != nil {
		return g, err
	}
	if g.InitialSaleAmount, err = sdk.ParseAmount(c.Rounds.InitialSaleAmount); err != nil {
		return g, err
	}
	if g.PriceIncrement, err = sdk.ParseAmount(c.Rounds.PriceIncrement); err != nil {
		return g, err
	}
	g.RoundDuration = seconds(c.Rounds.Duration)
	g.SaleReferralBps = [2]uint64{c.Referral.SaleLevel1Bps, c.Referral.SaleLevel2Bps}
	g.TradeReferralBps = [2]uint64{c.Referral.TradeLevel1Bps, c.Referral.TradeLevel2Bps}
	g.RewardPercentage = c.Staking.RewardPercentage
	g.RewardDelay = seconds(c.Staking.RewardDelay)
	g.UnstakeDelay = seconds(c.Staking.UnstakeDelay)
	g.VotingDuration = seconds(c.Governance.VotingDuration)
	return g, nil
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
