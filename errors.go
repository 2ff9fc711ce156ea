package economy

import "errors"

// Error taxonomy of the account core. Every operation that can fail
// wraps one of these sentinels, so callers can classify failures with
// errors.Is without parsing messages. None of them is fatal: a failed
// operation leaves no partial state behind.
var (
	// ErrInvalidID rejects account IDs that parse as a number, are empty,
	// or belong to another player's display name.
	ErrInvalidID = errors.New("invalid account ID")

	// ErrDuplicateID rejects creation of an account whose ID is taken.
	ErrDuplicateID = errors.New("account already exists")

	// ErrQuotaExceeded rejects creation beyond the per-user maximum of
	// non-personal accounts.
	ErrQuotaExceeded = errors.New("account creation quota exceeded")

	// ErrAccessDenied marks operations by users outside an account's
	// authorized list, and structural operations reserved to owners/ops.
	ErrAccessDenied = errors.New("access denied")

	// ErrInsufficientFunds marks a balance too low for a withdrawal or a
	// transfer, fee included.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNotFound marks lookups of unknown accounts or recipients.
	ErrNotFound = errors.New("account not found")

	// ErrInvalidAmount rejects negative transfer amounts.
	ErrInvalidAmount = errors.New("invalid amount")
)
