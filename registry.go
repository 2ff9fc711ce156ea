package economy

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"math"
	"slices"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/robfig/cron"
)

// Registry owns every registered account, the per-user creation
// counters, and the default-account mappings. It is an explicit store:
// construct one per economy (or per test fixture) rather than sharing
// hidden process state.
type Registry struct {
	coord    mutationCoordinator
	ui       UserInterface
	settings *Settings
	persist  *persistState
	sched    *cron.Cron // periodic interest, see interest.go

	mu       sync.Mutex // guards the three maps below
	accounts map[string]*Account
	created  map[uuid.UUID]int   // permanent quota charges, never decremented
	defaults map[uuid.UUID]*Account
}

// NewRegistry creates an empty registry and its administrator account.
// A nil settings pointer uses DefaultSettings; a nil ui is replaced by
// a silent implementation that knows no players.
func NewRegistry(settings *Settings, ui UserInterface) *Registry {
	if settings == nil {
		settings = DefaultSettings()
	}
	if ui == nil {
		ui = nopUI{}
	}
	r := &Registry{
		ui:       ui,
		settings: settings,
		persist:  newPersistState(),
		accounts: make(map[string]*Account),
		created:  make(map[uuid.UUID]int),
		defaults: make(map[uuid.UUID]*Account),
	}
	NewAccount(r, AdminAccountID, math.Inf(1))
	return r
}

// Settings returns the read-only settings this registry was built with.
func (r *Registry) Settings() *Settings { return r.settings }

// MakeAccount creates a new account owned by owner with the given
// starting balance (NaN normalizes to zero). The ID must not be empty,
// must not parse as a number, and must not be another player's display
// name. Personal accounts (ID equal to the owner's own display name)
// bypass the creation quota; every other account charges the owner's
// counter permanently, deletion included, to deter recreate-and-delete
// quota evasion.
func (r *Registry) MakeAccount(id string, owner uuid.UUID, startingBalance float64) (*Account, error) {
	r.coord.beginMutation()
	defer r.coord.endMutation()
	return r.makeAccount(id, owner, startingBalance)
}

func (r *Registry) makeAccount(id string, owner uuid.UUID, startingBalance float64) (*Account, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: account ID is empty", ErrInvalidID)
	}
	if _, err := strconv.ParseFloat(id, 64); err == nil {
		return nil, fmt.Errorf("%w: %q is a number", ErrInvalidID, id)
	}
	if math.IsNaN(startingBalance) {
		startingBalance = 0
	}
	personal := owner != uuid.Nil && id == r.ui.GetDisplayName(owner)
	if !personal && r.ui.DoesPlayerExist(id) {
		return nil, fmt.Errorf("%w: %q is another player's name", ErrInvalidID, id)
	}
	if existing := r.getAccount(id); existing != nil {
		if !personal || existing.Owner() == owner {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, id)
		}
		// A player is claiming their personal name back from a legacy
		// non-personal account: hand its funds to its true owner and
		// make room.
		r.reclaim(existing)
	}
	if !personal {
		max := r.settings.MaxAccountsPerUser
		r.mu.Lock()
		if max >= 0 && r.created[owner] >= max {
			r.mu.Unlock()
			return nil, fmt.Errorf("%w: at most %d accounts may be created", ErrQuotaExceeded, max)
		}
		r.created[owner]++
		r.mu.Unlock()
		r.persist.markCountsDirty()
	}
	var users []uuid.UUID
	if owner != uuid.Nil {
		users = []uuid.UUID{owner}
	}
	return NewAccount(r, id, startingBalance, users...), nil
}

// DeleteAccount removes an account. Only the account's owner or a
// server operator may delete it; personal accounts and the
// administrator account are never deletable. A positive residual
// balance is forwarded to the owner's personal account (opened if
// absent) before removal, and every default-account mapping pointing
// at the deleted account is cleared. The owner's creation counter is
// not refunded.
func (r *Registry) DeleteAccount(id string, requester uuid.UUID) error {
	r.coord.beginMutation()
	defer r.coord.endMutation()
	a := r.getAccount(id)
	if a == nil {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if id == AdminAccountID {
		return fmt.Errorf("%w: the administrator account cannot be deleted", ErrAccessDenied)
	}
	owner := a.Owner()
	if requester != owner && !(requester != uuid.Nil && r.ui.IsAnOp(requester)) {
		return fmt.Errorf("%w: only the owner or an operator may delete %q", ErrAccessDenied, id)
	}
	if owner != uuid.Nil && id == r.ui.GetDisplayName(owner) {
		return fmt.Errorf("%w: personal accounts cannot be deleted", ErrAccessDenied)
	}
	if bal := a.Balance(); bal > 0 && owner != uuid.Nil {
		if personal := r.personalAccount(owner); personal != nil {
			personal.credit(bal)
		}
	}
	r.unregister(a)
	return nil
}

// ResolveAccount resolves an account ID on behalf of a caller. An
// empty ID, or the caller's own display name, resolves to the caller's
// default account if one is mapped, falling back to their personal
// account (created with the configured starting balance if absent).
// "No account specified" never means "fail"; it always means "my
// account". Any other ID is a direct lookup; nil when unknown.
func (r *Registry) ResolveAccount(id string, caller uuid.UUID) *Account {
	r.coord.beginMutation()
	defer r.coord.endMutation()
	return r.resolveAccount(id, caller)
}

func (r *Registry) resolveAccount(id string, caller uuid.UUID) *Account {
	name := r.ui.GetDisplayName(caller)
	if id == "" || (name != "" && id == name) {
		r.mu.Lock()
		d := r.defaults[caller]
		r.mu.Unlock()
		if d != nil {
			if r.getAccount(d.id) == d && d.HasAccess(caller) {
				return d
			}
			// Stale mapping: the account was deleted or access revoked.
			r.mu.Lock()
			delete(r.defaults, caller)
			r.mu.Unlock()
			r.persist.markDefaultsDirty()
			r.ui.PrintErrorToUser(caller, "your default account is no longer available; using your personal account")
		}
		return r.personalAccount(caller)
	}
	return r.getAccount(id)
}

// ResolveAndAuthorize wraps ResolveAccount with an access check and an
// optional minimum-funds check. The funds check is skipped when
// minimumFunds is NaN.
func (r *Registry) ResolveAndAuthorize(id string, caller uuid.UUID, minimumFunds float64) (*Account, error) {
	r.coord.beginMutation()
	defer r.coord.endMutation()
	return r.resolveAndAuthorize(id, caller, minimumFunds)
}

func (r *Registry) resolveAndAuthorize(id string, caller uuid.UUID, minimumFunds float64) (*Account, error) {
	a := r.resolveAccount(id, caller)
	if a == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if !r.canAccess(a, caller) {
		return nil, fmt.Errorf("%w: %s may not use account %q", ErrAccessDenied, caller, a.id)
	}
	if !math.IsNaN(minimumFunds) && a.Balance() < minimumFunds {
		return nil, fmt.Errorf("%w: account %q holds less than %s", ErrInsufficientFunds,
			a.id, FormatAmount(minimumFunds, r.settings.CurrencyCode))
	}
	return a, nil
}

// SetDefaultAccount maps the caller's "no account specified" fallback
// to the given account, which the caller must be authorized to use.
// Selecting the caller's own personal account clears the mapping
// instead: the personal account is the implicit fallback already, so
// storing it would be redundant.
func (r *Registry) SetDefaultAccount(caller uuid.UUID, accountID string) error {
	r.coord.beginMutation()
	defer r.coord.endMutation()
	name := r.ui.GetDisplayName(caller)
	if name != "" && accountID == name {
		// The caller named their personal account explicitly. Resolving
		// it would follow the current default mapping instead, so clear
		// the mapping before any resolution happens.
		r.mu.Lock()
		delete(r.defaults, caller)
		r.mu.Unlock()
		r.persist.markDefaultsDirty()
		return nil
	}
	a, err := r.resolveAndAuthorize(accountID, caller, math.NaN())
	if err != nil {
		return err
	}
	r.mu.Lock()
	if a.id == name {
		delete(r.defaults, caller)
	} else {
		r.defaults[caller] = a
	}
	r.mu.Unlock()
	r.persist.markDefaultsDirty()
	return nil
}

// AllAccountNames returns every registered account ID in sorted order.
func (r *Registry) AllAccountNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := slices.Collect(maps.Keys(r.accounts))
	slices.Sort(names)
	return names
}

// AccountNamesFor returns the sorted IDs of every account the user is
// authorized to use.
func (r *Registry) AccountNamesFor(user uuid.UUID) []string {
	var names []string
	for a := range r.AllAccounts() {
		if a.HasAccess(user) {
			names = append(names, a.id)
		}
	}
	return names
}

// AllAccounts iterates over registered accounts in ID order. The
// iteration works on a snapshot of the registry, so accounts may be
// created or deleted concurrently without invalidating it.
func (r *Registry) AllAccounts() iter.Seq[*Account] {
	return func(yield func(*Account) bool) {
		r.mu.Lock()
		snapshot := maps.Clone(r.accounts)
		r.mu.Unlock()
		names := slices.Collect(maps.Keys(snapshot))
		slices.Sort(names)
		for _, name := range names {
			if !yield(snapshot[name]) {
				return
			}
		}
	}
}

// canAccess is the access rule for every guarded operation: membership
// in the authorized list, except that server operators may always
// reach the administrator account.
func (r *Registry) canAccess(a *Account, user uuid.UUID) bool {
	if a.HasAccess(user) {
		return true
	}
	return a.id == AdminAccountID && user != uuid.Nil && r.ui.IsAnOp(user)
}

// personalAccount returns the caller's personal account, creating it
// with the configured starting balance when absent. An account under
// the caller's name but owned by someone else is a legacy squatter,
// not the personal account: creation runs anyway and reclaims it. It
// returns nil for unknown players.
func (r *Registry) personalAccount(owner uuid.UUID) *Account {
	name := r.ui.GetDisplayName(owner)
	if name == "" {
		return nil
	}
	if a := r.getAccount(name); a != nil && a.Owner() == owner {
		return a
	}
	a, err := r.makeAccount(name, owner, r.settings.StartingBalance)
	if err != nil {
		log.Printf("could not open personal account %q: %v", name, err)
		return nil
	}
	return a
}

// reclaim removes a legacy non-personal account occupying a player's
// name, forwarding any positive balance to its true owner's personal
// account (opened on the spot if needed).
func (r *Registry) reclaim(legacy *Account) {
	owner := legacy.Owner()
	if bal := legacy.Balance(); bal > 0 && owner != uuid.Nil {
		if personal := r.personalAccount(owner); personal != nil && personal != legacy {
			personal.credit(bal)
			r.ui.PrintToUser(owner, fmt.Sprintf("account %q was reclaimed; %s was moved to your personal account",
				legacy.id, FormatAmount(bal, r.settings.CurrencyCode)))
		}
	}
	r.unregister(legacy)
}

func (r *Registry) register(a *Account) {
	r.mu.Lock()
	r.accounts[a.id] = a
	r.mu.Unlock()
	r.persist.markDirty(a)
}

func (r *Registry) unregister(a *Account) {
	r.mu.Lock()
	delete(r.accounts, a.id)
	for user, d := range r.defaults {
		if d == a {
			delete(r.defaults, user)
			r.persist.markDefaultsDirty()
		}
	}
	r.mu.Unlock()
	r.persist.forget(a.id)
}

func (r *Registry) getAccount(id string) *Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accounts[id]
}

// clearDefaultFor drops the user's default-account mapping when it
// points at the given account.
func (r *Registry) clearDefaultFor(user uuid.UUID, a *Account) {
	r.mu.Lock()
	cleared := r.defaults[user] == a
	if cleared {
		delete(r.defaults, user)
	}
	r.mu.Unlock()
	if cleared {
		r.persist.markDefaultsDirty()
	}
}

// nopUI is the fallback UserInterface: no players, silent output.
type nopUI struct{}

func (nopUI) PrintToUser(uuid.UUID, string)      {}
func (nopUI) PrintErrorToUser(uuid.UUID, string) {}
func (nopUI) GetDisplayName(uuid.UUID) string    { return "" }
func (nopUI) GetPlayerID(string) uuid.UUID       { return uuid.Nil }
func (nopUI) DoesPlayerExist(string) bool        { return false }
func (nopUI) IsAnOp(uuid.UUID) bool              { return false }
