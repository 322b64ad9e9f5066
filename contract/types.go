package contract

import (
	"strconv"

	"acdm_platform/sdk"

	"github.com/holiman/uint256"
)

// RoundType is the phase the platform is in.
type RoundType uint8

const (
	RoundSale  RoundType = 0
	RoundTrade RoundType = 1
)

// String keeps the short form used in event lines.
func (t RoundType) String() string {
	switch t {
	case RoundSale:
		return "sale"
	case RoundTrade:
		return "trade"
	default:
		return "unknown"
	}
}

// ProposalStatus captures a proposal's lifecycle. Only InProgress is non-terminal.
type ProposalStatus uint8

const (
	StatusInProgress ProposalStatus = 0
	StatusFinished   ProposalStatus = 1
	StatusRejected   ProposalStatus = 2
	StatusCancelled  ProposalStatus = 3
)

func (s ProposalStatus) String() string {
	switch s {
	case StatusInProgress:
		return "in_progress"
	case StatusFinished:
		return "finished"
	case StatusRejected:
		return "rejected"
	case StatusCancelled:
		return "cancelled"
	default:
		return strconv.Itoa(int(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s ProposalStatus) Terminal() bool {
	return s != StatusInProgress
}

// Round is the single active round. RemainingAmount matters in Sale rounds,
// AccumulatedVolume in Trade rounds; both are kept so the record has one shape.
type Round struct {
	Type              RoundType
	StartTime         int64
	Duration          int64
	Price             *uint256.Int
	RemainingAmount   *uint256.Int
	AccumulatedVolume *uint256.Int
}

// EndsAt is the earliest time finishRound may succeed.
func (r *Round) EndsAt() int64 {
	return r.StartTime + r.Duration
}

// Listing is one escrowed offer. It is never deleted, only zeroed.
type Listing struct {
	Amount *uint256.Int
	Price  *uint256.Int
}

// Account is a registered participant. Referral is the zero address when there is no upline.
type Account struct {
	RegDate  int64
	Referral sdk.Address
}

// Deposit is shared by staking and governance.
type Deposit struct {
	StakedAmount   *uint256.Int
	SavedReward    *uint256.Int
	LastStakeTime  int64
	LastRewardTime int64
}

func newDeposit() *Deposit {
	return &Deposit{StakedAmount: sdk.Zero(), SavedReward: sdk.Zero()}
}

// Proposal is a governance item. Payload is handed verbatim to the recipient on success.
type Proposal struct {
	ID           uint64
	Recipient    sdk.Address
	Payload      []byte
	Description  string
	StartTime    int64
	VotesFor     *uint256.Int
	VotesAgainst *uint256.Int
	Status       ProposalStatus
}

// Config is the runtime configuration record. It only changes through role gated setters.
type Config struct {
	Self          sdk.Address
	PlatformToken sdk.Address
	RewardToken   sdk.Address
	StakingToken  sdk.Address
	WhitelistRoot sdk.Hash
	// ReferralBps is indexed [isTrade][level-1].
	ReferralBps      [2][2]uint64
	RoundDuration    int64
	PriceIncrement   *uint256.Int
	RewardPercentage uint64
	RewardDelay      int64
	UnstakeDelay     int64
	VotingDuration   int64
}

func roundIndex(isTrade bool) int {
	if isTrade {
		return 1
	}
	return 0
}

func levelIndex(isLevel1 bool) int {
	if isLevel1 {
		return 0
	}
	return 1
}

// Genesis is everything Init needs to bring up a fresh platform.
type Genesis struct {
	Admin             sdk.Address
	PlatformToken     sdk.Address
	RewardToken       sdk.Address
	StakingToken      sdk.Address
	WhitelistRoot     sdk.Hash
	InitialPrice      *uint256.Int
	InitialSaleAmount *uint256.Int
	PriceIncrement    *uint256.Int
	RoundDuration     int64
	SaleReferralBps   [2]uint64
	TradeReferralBps  [2]uint64
	RewardPercentage  uint64
	RewardDelay       int64
	UnstakeDelay      int64
	VotingDuration    int64
}

// DefaultGenesis fills the platform constants around the given admin and tokens.
// Example payload: DefaultGenesis(admin, acdm, xxx, lp)
func DefaultGenesis(admin, platformToken, rewardToken, stakingToken sdk.Address) Genesis {
	return Genesis{
		Admin:             admin,
		PlatformToken:     platformToken,
		RewardToken:       rewardToken,
		StakingToken:      stakingToken,
		InitialPrice:      new(uint256.Int).Set(DefaultInitialPrice),
		InitialSaleAmount: new(uint256.Int).Set(DefaultInitialSaleAmount),
		PriceIncrement:    new(uint256.Int).Set(DefaultPriceIncrement),
		RoundDuration:     DefaultRoundDuration,
		SaleReferralBps:   [2]uint64{DefaultSaleReferralL1Bps, DefaultSaleReferralL2Bps},
		TradeReferralBps:  [2]uint64{DefaultTradeReferralL1Bps, DefaultTradeReferralL2Bps},
		RewardPercentage:  DefaultRewardPercentage,
		RewardDelay:       DefaultRewardDelay,
		UnstakeDelay:      DefaultUnstakeDelay,
		VotingDuration:    DefaultVotingDuration,
	}
}
