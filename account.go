package economy

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// AdminAccountID is the ID of the distinguished administrator account.
// It always exists, carries an infinite balance, and has no authorized
// users of its own; server operators reach it through the op override.
const AdminAccountID = "$admin$"

// Account is a single money account: a balance plus an ordered list of
// authorized users. The first authorized user is the owner. An account
// with no authorized users is inaccessible to everyone.
//
// Balances are float64: the administrator account is legitimately
// infinite, and NaN inputs are guarded at every boundary (treated as
// no-ops or normalized to zero), so a balance itself is never NaN.
type Account struct {
	id  string
	reg *Registry

	mu      sync.Mutex // serializes ordinary mutations of balance and users
	balance float64
	users   []uuid.UUID
}

// NewAccount constructs an account and, when id is non-empty and a
// registry is given, registers it for lookup and persistence. An
// account with an empty ID is transient: fully usable, but never
// reachable by lookup and never saved.
//
// NewAccount performs none of MakeAccount's validation and bypasses
// the mutation coordinator; it is part of the trusted surface
// alongside ForceSetBalance.
func NewAccount(reg *Registry, id string, balance float64, users ...uuid.UUID) *Account {
	if math.IsNaN(balance) {
		balance = 0
	}
	a := &Account{id: id, reg: reg, balance: balance, users: slices.Clone(users)}
	if reg != nil && id != "" {
		reg.register(a)
	}
	return a
}

// ID returns the account's registry key, or "" for transient accounts.
func (a *Account) ID() string { return a.id }

// Balance returns the current balance.
func (a *Account) Balance() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Owner returns the first authorized user, or uuid.Nil for an
// ownerless account.
func (a *Account) Owner() uuid.UUID {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.users) == 0 {
		return uuid.Nil
	}
	return a.users[0]
}

// Users returns a copy of the authorized user list, owner first.
func (a *Account) Users() []uuid.UUID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.users)
}

// HasAccess reports whether user is in the authorized list. An account
// with no authorized users grants nobody access, and uuid.Nil is never
// authorized.
func (a *Account) HasAccess(user uuid.UUID) bool {
	if user == uuid.Nil {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Contains(a.users, user)
}

// Deposit adds amount to the balance. Zero and NaN amounts are no-ops.
// Deposit does not validate sign or available funds; callers
// pre-validate.
func (a *Account) Deposit(amount float64) {
	a.beginMutation()
	defer a.endMutation()
	a.credit(amount)
}

// Withdraw removes amount from the balance. Zero and NaN amounts are
// no-ops. Withdraw does not itself verify sufficient funds; callers
// pre-validate.
func (a *Account) Withdraw(amount float64) {
	a.beginMutation()
	defer a.endMutation()
	a.credit(-amount)
}

// ForceSetBalance overwrites the balance unconditionally (NaN is
// ignored). It is an administrative correction path and deliberately
// bypasses both the mutation coordinator and the account mutex: it is
// trusted to run while nothing else touches this account.
func (a *Account) ForceSetBalance(amount float64) {
	if math.IsNaN(amount) {
		return
	}
	a.balance = amount
	a.markDirty()
}

// GrantAccess adds target to the authorized list. The requester must
// already have access, except that uuid.Nil requesters are internal
// system calls and always allowed. Granting an already-authorized user
// is a no-op; the returned bool reports whether anything changed.
func (a *Account) GrantAccess(requester, target uuid.UUID) (bool, error) {
	if target == uuid.Nil {
		return false, fmt.Errorf("%w: no such player", ErrNotFound)
	}
	if requester != uuid.Nil && !a.HasAccess(requester) {
		return false, fmt.Errorf("%w: %s may not manage this account", ErrAccessDenied, requester)
	}
	a.beginMutation()
	defer a.endMutation()
	a.mu.Lock()
	granted := !slices.Contains(a.users, target)
	if granted {
		a.users = append(a.users, target)
	}
	a.mu.Unlock()
	if granted {
		a.markDirty()
	}
	return granted, nil
}

// RevokeAccess removes target from the authorized list, with the same
// requester rule as GrantAccess. Revoking a user without access is a
// no-op. If the revoked user had this account as their default, the
// mapping is cleared.
func (a *Account) RevokeAccess(requester, target uuid.UUID) (bool, error) {
	if target == uuid.Nil {
		return false, fmt.Errorf("%w: no such player", ErrNotFound)
	}
	if requester != uuid.Nil && !a.HasAccess(requester) {
		return false, fmt.Errorf("%w: %s may not manage this account", ErrAccessDenied, requester)
	}
	a.beginMutation()
	defer a.endMutation()
	a.mu.Lock()
	i := slices.Index(a.users, target)
	revoked := i >= 0
	if revoked {
		a.users = slices.Delete(a.users, i, i+1)
	}
	a.mu.Unlock()
	if revoked {
		a.markDirty()
		if a.reg != nil {
			a.reg.clearDefaultFor(target, a)
		}
	}
	return revoked, nil
}

// Check prints the account's formatted balance to the requesting user.
func (a *Account) Check(caller uuid.UUID) error {
	if a.reg == nil {
		return fmt.Errorf("%w: account is not registered", ErrNotFound)
	}
	if !a.reg.canAccess(a, caller) {
		return fmt.Errorf("%w: %s may not view this account", ErrAccessDenied, caller)
	}
	label := a.id
	if label == "" {
		label = "account"
	}
	a.reg.ui.PrintToUser(caller, fmt.Sprintf("%s: %s",
		label, FormatAmount(a.Balance(), a.reg.settings.CurrencyCode)))
	return nil
}

// credit adjusts the balance without touching the coordinator; callers
// already hold the reader side. Zero and NaN are no-ops.
func (a *Account) credit(amount float64) {
	if amount == 0 || math.IsNaN(amount) {
		return
	}
	a.mu.Lock()
	a.balance += amount
	a.mu.Unlock()
	a.markDirty()
}

func (a *Account) beginMutation() {
	if a.reg != nil {
		a.reg.coord.beginMutation()
	}
}

func (a *Account) endMutation() {
	if a.reg != nil {
		a.reg.coord.endMutation()
	}
}

func (a *Account) markDirty() {
	if a.reg != nil && a.id != "" {
		a.reg.persist.markDirty(a)
	}
}
