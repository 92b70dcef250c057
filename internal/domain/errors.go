package domain

import (
	"errors"
	"fmt"
)

// Kind sentinels. Every error returned by the core wraps exactly one of these.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrPermission = errors.New("permission denied")
	ErrConflict   = errors.New("conflict")
	ErrNetwork    = errors.New("transaction store unreachable")
	ErrTimeout    = errors.New("transaction store timed out")
)

var (
	// Split errors
	ErrNoParticipants          = fmt.Errorf("%w: participant list is empty", ErrValidation)
	ErrDuplicateParticipant    = fmt.Errorf("%w: participant listed more than once", ErrValidation)
	ErrInvalidAmount           = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrInvalidPrecision        = fmt.Errorf("%w: amount must have at most two fractional digits", ErrValidation)
	ErrNegativeShare           = fmt.Errorf("%w: share must not be negative", ErrValidation)
	ErrExactSumExceedsTotal    = fmt.Errorf("%w: exact amounts exceed total", ErrValidation)
	ErrPercentageSum           = fmt.Errorf("%w: percentages must sum to 100", ErrValidation)
	ErrNoItems                 = fmt.Errorf("%w: itemized split requires at least one item", ErrValidation)
	ErrInvalidItem             = fmt.Errorf("%w: invalid item", ErrValidation)
	ErrUnknownSplitMethod      = fmt.Errorf("%w: unknown split method", ErrValidation)
	ErrUnknownParticipant      = fmt.Errorf("%w: user is not a participant", ErrValidation)
	ErrPayerRequired           = fmt.Errorf("%w: payer is required", ErrValidation)
	ErrShareSumMismatch        = fmt.Errorf("%w: shares do not sum to amount", ErrValidation)
	ErrInvalidDescription      = fmt.Errorf("%w: invalid description", ErrValidation)
	ErrAmountTooLarge          = fmt.Errorf("%w: amount exceeds maximum allowed", ErrValidation)
	ErrItemsNotAllowed         = fmt.Errorf("%w: items are only allowed for itemized splits", ErrValidation)
	ErrItemSumMismatch         = fmt.Errorf("%w: items do not sum to amount", ErrValidation)
	ErrReopenNotSupported      = fmt.Errorf("%w: a paid share cannot be reopened", ErrValidation)
	ErrParticipantNotGroupUser = fmt.Errorf("%w: participant is not a member of the group", ErrValidation)
	ErrInvalidName             = fmt.Errorf("%w: invalid name", ErrValidation)
	ErrUserExists              = fmt.Errorf("%w: user already exists", ErrValidation)

	// Lookup errors
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrParticipantNotFound = fmt.Errorf("participant %w", ErrNotFound)
	ErrGroupNotFound       = fmt.Errorf("group %w", ErrNotFound)
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)

	// Authorization errors
	ErrActorRequired = fmt.Errorf("%w: caller identity is required", ErrPermission)
	ErrNotPayer      = fmt.Errorf("%w: only the payer may perform this action", ErrPermission)
	ErrNotParty      = fmt.Errorf("%w: caller is neither the payer nor the named participant", ErrPermission)
	ErrNotInvolved   = fmt.Errorf("%w: caller is not a party to the transaction", ErrPermission)
	ErrNotSelf       = fmt.Errorf("%w: callers may only access their own records", ErrPermission)
	ErrNotMember     = fmt.Errorf("%w: caller is not a member of the group", ErrPermission)

	// Concurrency errors
	ErrVersionMismatch = fmt.Errorf("%w: transaction was modified concurrently", ErrConflict)
)

// Kind classifies an error for callers that render it.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindPermission Kind = "permission"
	KindConflict   Kind = "conflict"
	KindNetwork    Kind = "network"
	KindTimeout    Kind = "timeout"
	KindInternal   Kind = "internal"
)

// KindOf returns the kind of err. Unclassified errors are KindInternal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrPermission):
		return KindPermission
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	default:
		return KindInternal
	}
}

// Retryable reports whether the caller may retry the operation unchanged
// (after re-reading state, for conflicts).
func (k Kind) Retryable() bool {
	return k == KindNetwork || k == KindTimeout || k == KindConflict
}
