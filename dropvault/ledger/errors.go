package ledger

import (
	"errors"
	"fmt"
)

// Every entry point either fully applies its effect or returns exactly one of
// these. Callers match with errors.Is and own the user-facing translation.
var (
	ErrNotFound             = errors.New("not found")
	ErrAlreadyExists        = errors.New("already exists")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrItemNotFound         = errors.New("item not found")
	ErrStaleOffer           = errors.New("offer no longer valid")
	ErrNotAuthorized        = errors.New("not authorized")
	ErrNotPending           = errors.New("offer is not pending")
	ErrAlreadyRedeemed      = errors.New("code already redeemed")
	ErrRedemptionsExhausted = errors.New("code redemptions exhausted")
	ErrCodeInactive         = errors.New("code inactive")
	ErrCodeNotFound         = errors.New("code not found")
	ErrValidation           = errors.New("validation failed")
)

// Specializations of ErrValidation; errors.Is(err, ErrValidation) holds for
// all of them.
var (
	ErrAccountBanned = fmt.Errorf("account is banned: %w", ErrValidation)
	ErrSelfTarget    = fmt.Errorf("cannot target own account: %w", ErrValidation)
	ErrDailyClaimed  = fmt.Errorf("daily reward already claimed: %w", ErrValidation)
)
