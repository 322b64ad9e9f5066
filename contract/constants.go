package contract

import (
	"acdm_platform/sdk"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// -----------------------------------------------------------------------------
// Round defaults
// -----------------------------------------------------------------------------

var (
	// DefaultInitialPrice is the first Sale round price, 0.00001 native per unit.
	DefaultInitialPrice = uint256.NewInt(10_000_000_000_000)
	// DefaultInitialSaleAmount is what the first Sale round offers.
	DefaultInitialSaleAmount = uint256.NewInt(100_000)
	// DefaultPriceIncrement is the fixed part of the price bump, 4000 gwei.
	DefaultPriceIncrement = sdk.Gwei(4000)
)

const (
	day = int64(24 * 60 * 60)

	DefaultRoundDuration = 3 * day

	// price bump is price*PriceBumpNumerator/PriceBumpDenominator + increment
	PriceBumpNumerator   = 103
	PriceBumpDenominator = 100
)

// -----------------------------------------------------------------------------
// Referral defaults (basis points)
// -----------------------------------------------------------------------------

const (
	BpsDenominator = 10_000

	DefaultSaleReferralL1Bps  = 500
	DefaultSaleReferralL2Bps  = 300
	DefaultTradeReferralL1Bps = 250
	DefaultTradeReferralL2Bps = 250
)

// -----------------------------------------------------------------------------
// Staking & governance defaults
// -----------------------------------------------------------------------------

const (
	// DefaultRewardPercentage is paid per whole reward period, in percent of the stake.
	DefaultRewardPercentage = 3
	DefaultRewardDelay      = 7 * day
	DefaultUnstakeDelay     = 7 * day
	DefaultVotingDuration   = 3 * day
)

// DefaultAddress is where the platform keeps custody when no address is configured.
var DefaultAddress = common.BytesToAddress(crypto.Keccak256([]byte("acdm.platform"))[12:])

// -----------------------------------------------------------------------------
// Counter keys
// -----------------------------------------------------------------------------

const (
	// ProposalsCount holds the last issued proposal id.
	ProposalsCount = "count:props"
)
