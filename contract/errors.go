package contract

import (
	"errors"
	"fmt"
)

// Kind groups failures by what went wrong, independent of the exact reason text.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindUnauthorized
	KindState
	KindTiming
	KindInsufficient
	KindNotFound
	KindDuplicate
	KindExternalCall
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindState:
		return "state"
	case KindTiming:
		return "timing"
	case KindInsufficient:
		return "insufficient"
	case KindNotFound:
		return "not_found"
	case KindDuplicate:
		return "duplicate"
	case KindExternalCall:
		return "external_call"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Error is a rejected call. Reason is the stable revert string callers match on,
// Detail and Cause only add context.
type Error struct {
	Kind   Kind
	Reason string
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	msg := e.Reason
	if e.Detail != "" {
		msg += e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches on kind and reason so formatted errors still hit their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Reason == e.Reason
}

func newError(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

// with returns a copy of the sentinel carrying detail text.
func (e *Error) with(format string, args ...interface{}) *Error {
	out := *e
	out.Detail = fmt.Sprintf(format, args...)
	return &out
}

// wrap returns a copy of the sentinel carrying cause.
func (e *Error) wrap(cause error) *Error {
	out := *e
	out.Cause = cause
	return &out
}

// KindOf digs the Kind out of err, KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// ReasonOf returns the revert reason, or err.Error() for foreign errors.
func ReasonOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return err.Error()
}

var (
	// platform
	ErrUnauthorized       = newError(KindUnauthorized, "AccessControl: missing role")
	ErrAlreadyInitialized = newError(KindState, "already initialized")
	ErrNotInitialized     = newError(KindState, "not initialized")
	ErrNonPayable         = newError(KindInvalid, "non-payable")
	ErrInsufficientFunds  = newError(KindInsufficient, "insufficient funds")
	ErrOverflow           = newError(KindInvalid, "amount overflow")
	ErrZeroAmount         = newError(KindInvalid, "zero amount")
	ErrInvalidPercent     = newError(KindInvalid, "percent out of range")
	ErrInvalidDuration    = newError(KindInvalid, "duration must be positive")
	ErrInvalidAddress     = newError(KindInvalid, "zero address")

	// accounts & rounds
	ErrRegisteredAlready                  = newError(KindDuplicate, "RegisteredAlready")
	ErrReferralIsNotRegistered            = newError(KindNotFound, "ReferralIsNotRegistered")
	ErrItIsNotSaleRound                   = newError(KindState, "ItIsNotSaleRound")
	ErrItIsNotTradeRound                  = newError(KindState, "ItIsNotTradeRound")
	ErrRequestedAmountExceedsListedAmount = newError(KindInsufficient, "RequestedAmountExceedsListedAmount")
	ErrNotEnoughEtherProvided             = newError(KindInsufficient, "NotEnoughEtherProvided")
	ErrTooEarly                           = newError(KindTiming, "TooEarly")
	ErrNoSuchListing                      = newError(KindNotFound, "NoSuchListing")

	// referral treasury
	ErrNothingToWithdraw = newError(KindInsufficient, "NothingToWithdraw")
	ErrNothingToConvert  = newError(KindInsufficient, "No ETH to convert and burn")
	ErrUnknownExchange   = newError(KindNotFound, "unknown exchange")

	// staking
	ErrNoAccess         = newError(KindUnauthorized, "Whitelist: no access")
	ErrNothingToClaim   = newError(KindInsufficient, "Nothing to claim yet")
	ErrCannotUnstakeYet = newError(KindInsufficient, "Cannot unstake yet")
	ErrTokensFrozen     = newError(KindState, "DAO: tokens are frozen")

	// governance
	ErrNoSuchVoting         = newError(KindNotFound, "DAO: no such voting")
	ErrNoDeposit            = newError(KindInsufficient, "DAO: no deposit")
	ErrVotedAlready         = newError(KindDuplicate, "DAO: voted already")
	ErrDelegateVotedAlready = newError(KindDuplicate, "DAO: delegate voted already")
	ErrSelfDelegation       = newError(KindInvalid, "DAO: cannot delegate to self")
	ErrVotingPeriodEnded    = newError(KindTiming, "DAO: voting period ended")
	ErrVotingInProcess      = newError(KindState, "DAO: voting is in process")
	ErrHandledAlready       = newError(KindState, "DAO: handled already")
	ErrRecipientCall        = newError(KindExternalCall, "DAO: recipient call error")
	ErrUnknownMethod        = newError(KindInvalid, "unknown method")
	ErrUnknownRecipient     = newError(KindNotFound, "unknown recipient")
)
