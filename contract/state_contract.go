package contract

import (
	"fmt"

	"acdm_platform/sdk"

	"github.com/holiman/uint256"
)

// -----------------------------------------------------------------------------
// Platform configuration
// -----------------------------------------------------------------------------

// isInitialized returns true once Init committed a config record.
func isInitialized(st sdk.State) bool {
	ptr := st.Get(configKey())
	return ptr != nil && *ptr != ""
}

// loadConfig reads the config record, ErrNotInitialized when there is none.
func loadConfig(st sdk.State) (*Config, error) {
	ptr := st.Get(configKey())
	if ptr == nil || *ptr == "" {
		return nil, ErrNotInitialized
	}
	cfg, err := decodeConfig([]byte(*ptr))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func saveConfig(st sdk.State, cfg *Config) {
	st.Set(configKey(), string(encodeConfig(cfg)))
}

// updateConfig is load, mutate, save for the setters.
func updateConfig(st sdk.State, fn func(cfg *Config) error) error {
	cfg, err := loadConfig(st)
	if err != nil {
		return err
	}
	if err := fn(cfg); err != nil {
		return err
	}
	saveConfig(st, cfg)
	return nil
}

// -----------------------------------------------------------------------------
// Round
// -----------------------------------------------------------------------------

func loadRound(st sdk.State) (*Round, error) {
	ptr := st.Get(roundKey())
	if ptr == nil || *ptr == "" {
		return nil, ErrNotInitialized
	}
	rd, err := decodeRound([]byte(*ptr))
	if err != nil {
		return nil, fmt.Errorf("decode round: %w", err)
	}
	return rd, nil
}

func saveRound(st sdk.State, rd *Round) {
	st.Set(roundKey(), string(encodeRound(rd)))
}

// -----------------------------------------------------------------------------
// Platform bonus
// -----------------------------------------------------------------------------

func getBonus(st sdk.State) *uint256.Int {
	ptr := st.Get(bonusKey())
	if ptr == nil || *ptr == "" {
		return sdk.Zero()
	}
	return new(uint256.Int).SetBytes([]byte(*ptr))
}

func setBonus(st sdk.State, v *uint256.Int) {
	if v.IsZero() {
		st.Delete(bonusKey())
		return
	}
	b := v.Bytes32()
	st.Set(bonusKey(), string(b[:]))
}
