package contract

import (
	"fmt"
	"math/big"
	"strings"

	"acdm_platform/sdk"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// platformABI lists the platform methods a proposal may call on the platform itself.
const platformABI = `[
  {"type":"function","name":"convertAndBurn","inputs":[
    {"name":"exchange","type":"address"},{"name":"rewardToken","type":"address"},{"name":"deadlineOffset","type":"uint256"}]},
  {"type":"function","name":"setReferralPercent","inputs":[
    {"name":"isTrade","type":"bool"},{"name":"isLevel1","type":"bool"},{"name":"bps","type":"uint256"}]},
  {"type":"function","name":"setRewardPercentage","inputs":[{"name":"pct","type":"uint256"}]},
  {"type":"function","name":"setRewardDelay","inputs":[{"name":"delay","type":"uint256"}]},
  {"type":"function","name":"setUnstakeDelay","inputs":[{"name":"delay","type":"uint256"}]},
  {"type":"function","name":"setRoundDuration","inputs":[{"name":"duration","type":"uint256"}]},
  {"type":"function","name":"setVotingDuration","inputs":[{"name":"duration","type":"uint256"}]}
]`

var platformMethods = mustParseABI(platformABI)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(fmt.Sprintf("platform abi: %v", err))
	}
	return parsed
}

// EncodeCall builds proposal calldata for one of the platform's own methods.
// uint256 arguments are passed as *big.Int.
// Example payload: EncodeCall("convertAndBurn", pool, xxx, big.NewInt(3600))
func EncodeCall(method string, args ...interface{}) ([]byte, error) {
	if _, ok := platformMethods.Methods[method]; !ok {
		return nil, ErrUnknownMethod.with(" %q", method)
	}
	return platformMethods.Pack(method, args...)
}

// selfRecipient executes calldata against the platform with the platform as sender,
// inside the call that finished the proposal.
type selfRecipient struct{}

func (selfRecipient) Receive(h sdk.Host, payload []byte) error {
	c, ok := h.(*callCtx)
	if !ok {
		return fmt.Errorf("platform recipient needs a platform host, got %T", h)
	}
	if len(payload) < 4 {
		return ErrUnknownMethod.with(" (short calldata)")
	}
	method, err := platformMethods.MethodById(payload[:4])
	if err != nil {
		return ErrUnknownMethod.wrap(err)
	}
	args, err := method.Inputs.Unpack(payload[4:])
	if err != nil {
		return fmt.Errorf("unpack %s: %w", method.Name, err)
	}
	c = c.asPlatform()

	switch method.Name {
	case "convertAndBurn":
		offset, err := int64Arg(args[2])
		if err != nil {
			return err
		}
		return convertAndBurn(c, args[0].(common.Address), args[1].(common.Address), offset)
	case "setReferralPercent":
		bps, err := uint64Arg(args[2])
		if err != nil {
			return err
		}
		return setReferralPercent(c, args[0].(bool), args[1].(bool), bps)
	case "setRewardPercentage":
		pct, err := uint64Arg(args[0])
		if err != nil {
			return err
		}
		return setRewardPercentage(c, pct)
	}

	d, err := int64Arg(args[0])
	if err != nil {
		return err
	}
	switch method.Name {
	case "setRewardDelay":
		return setRewardDelay(c, d)
	case "setUnstakeDelay":
		return setUnstakeDelay(c, d)
	case "setRoundDuration":
		return setRoundDuration(c, d)
	case "setVotingDuration":
		return setVotingDuration(c, d)
	}
	return ErrUnknownMethod.with(" %q", method.Name)
}

func uint64Arg(v interface{}) (uint64, error) {
	b, ok := v.(*big.Int)
	if !ok || !b.IsUint64() {
		return 0, ErrOverflow.with(" (%v)", v)
	}
	return b.Uint64(), nil
}

func int64Arg(v interface{}) (int64, error) {
	b, ok := v.(*big.Int)
	if !ok || !b.IsInt64() {
		return 0, ErrOverflow.with(" (%v)", v)
	}
	return b.Int64(), nil
}
