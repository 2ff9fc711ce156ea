package economy

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const (
	ledgerHeader     = "// This file is regenerated by the server; manual edits may be overwritten at any time."
	quarantineHeader = "// The following lines could not be parsed and are preserved verbatim for repair:"
)

// persistState tracks what must be re-serialized on the next save.
// Unchanged accounts reuse their cached line; only accounts dirtied
// since the last save are serialized again, and the creation-count and
// default-account blocks are regenerated only when flagged.
type persistState struct {
	mu            sync.Mutex
	lineCache     map[string]string // account ID -> "balance,user,..."
	dirty         map[string]*Account
	rewrite       bool // the file no longer matches the caches; the next save must write
	countsBlock   []string
	countsDirty   bool
	defaultsBlock []string
	defaultsDirty bool
	quarantine    []string // unparsable input lines, carried forward verbatim
}

func newPersistState() *persistState {
	return &persistState{
		lineCache: make(map[string]string),
		dirty:     make(map[string]*Account),
	}
}

func (ps *persistState) markDirty(a *Account) {
	ps.mu.Lock()
	ps.dirty[a.id] = a
	ps.mu.Unlock()
}

func (ps *persistState) markCountsDirty() {
	ps.mu.Lock()
	ps.countsDirty = true
	ps.mu.Unlock()
}

func (ps *persistState) markDefaultsDirty() {
	ps.mu.Lock()
	ps.defaultsDirty = true
	ps.mu.Unlock()
}

// forget drops every trace of an account that left the registry.
func (ps *persistState) forget(id string) {
	ps.mu.Lock()
	delete(ps.lineCache, id)
	delete(ps.dirty, id)
	ps.rewrite = true
	ps.mu.Unlock()
}

// serializeSuffix renders the cached part of an account line: the
// balance followed by the authorized users, owner first. The balance
// uses the shortest exact float form, so saved values round-trip.
func (a *Account) serializeSuffix() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	var b strings.Builder
	b.WriteString(strconv.FormatFloat(a.balance, 'g', -1, 64))
	for _, u := range a.users {
		b.WriteByte(',')
		b.WriteString(u.String())
	}
	return b.String()
}

// QuarantinedLines returns the ledger lines that failed to parse on
// the last load, verbatim, pending operator repair.
func (r *Registry) QuarantinedLines() []string {
	ps := r.persist
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return slices.Clone(ps.quarantine)
}

// LoadAccounts reads the ledger file from the configured path,
// replacing all in-memory registry state. It is a structural
// operation: every ordinary mutation is excluded while it runs.
//
// The administrator account is recreated unconditionally before the
// file is read. A line that fails to parse never aborts the load: it
// is quarantined verbatim and re-emitted at the end of the next save. A default-account mapping whose player lost access to the
// account is skipped, not an error. A missing file starts an empty
// ledger; any other I/O error aborts the load and leaves prior
// in-memory state intact.
func (r *Registry) LoadAccounts() error {
	r.coord.beginStructural()
	defer r.coord.endStructural()
	path := r.settings.LedgerFile

	// Everything is staged; nothing is committed until the whole file
	// has been read.
	accounts := map[string]*Account{
		AdminAccountID: {id: AdminAccountID, reg: r, balance: math.Inf(1)},
	}
	created := make(map[uuid.UUID]int)
	var pending []defaultAccountRecord
	var quarantine []string

	fileMissing := false
	f, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("ledger file %q does not exist yet; starting empty", path)
		fileMissing = true
	case err != nil:
		return fmt.Errorf("could not open ledger file %q: %w", path, err)
	default:
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			switch rec := parseRecord(scanner.Text()).(type) {
			case commentRecord:
			case accountRecord:
				accounts[rec.id] = &Account{id: rec.id, reg: r, balance: rec.balance, users: rec.users}
			case creationCountRecord:
				created[rec.owner] = rec.count
			case defaultAccountRecord:
				pending = append(pending, rec)
			case malformedRecord:
				log.Printf("quarantining unparsable ledger line: %v", rec.err)
				quarantine = append(quarantine, rec.line)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("error reading ledger file %q: %w", path, err)
		}
	}

	defaults := make(map[uuid.UUID]*Account)
	for _, p := range pending {
		a := accounts[p.accountID]
		if a == nil || !a.HasAccess(p.player) {
			log.Printf("dropping default-account mapping %s -> %q: account missing or access revoked", p.player, p.accountID)
			continue
		}
		defaults[p.player] = a
	}

	ps := newPersistState()
	for id, a := range accounts {
		ps.lineCache[id] = a.serializeSuffix()
	}
	ps.countsBlock = countsBlock(created)
	ps.defaultsBlock = defaultsBlock(defaults)
	ps.quarantine = quarantine
	// A fresh install has caches but no file yet; the first save must
	// materialize it even if nothing gets dirtied in between.
	ps.rewrite = fileMissing

	r.mu.Lock()
	r.accounts, r.created, r.defaults = accounts, created, defaults
	r.mu.Unlock()
	r.persist = ps
	return nil
}

// SaveAccounts rewrites the ledger file from the serialization caches,
// re-serializing only accounts dirtied since the last save. A save
// with nothing dirty and no pending block regeneration skips the write
// entirely. A failed save leaves all dirty marks in place, so the next
// save retries from current in-memory truth.
func (r *Registry) SaveAccounts() error {
	r.coord.beginMutation()
	defer r.coord.endMutation()
	ps := r.persist
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if len(ps.dirty) == 0 && !ps.countsDirty && !ps.defaultsDirty && !ps.rewrite {
		return nil
	}

	for id, a := range ps.dirty {
		ps.lineCache[id] = a.serializeSuffix()
	}
	if ps.countsDirty {
		r.mu.Lock()
		created := maps.Clone(r.created)
		r.mu.Unlock()
		ps.countsBlock = countsBlock(created)
	}
	if ps.defaultsDirty {
		r.mu.Lock()
		defaults := maps.Clone(r.defaults)
		r.mu.Unlock()
		ps.defaultsBlock = defaultsBlock(defaults)
	}

	path := r.settings.LedgerFile
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("could not create ledger directory %q: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not open ledger file %q for writing: %w", path, err)
	}
	w := bufio.NewWriter(f)
	fmt.Fprintln(w, ledgerHeader)
	ids := slices.Collect(maps.Keys(ps.lineCache))
	slices.Sort(ids)
	for _, id := range ids {
		fmt.Fprintf(w, "%s,%s\n", id, ps.lineCache[id])
	}
	for _, line := range ps.countsBlock {
		fmt.Fprintln(w, line)
	}
	for _, line := range ps.defaultsBlock {
		fmt.Fprintln(w, line)
	}
	if len(ps.quarantine) > 0 {
		fmt.Fprintln(w, quarantineHeader)
		for _, line := range ps.quarantine {
			fmt.Fprintln(w, line)
		}
	}
	if err := errors.Join(w.Flush(), f.Close()); err != nil {
		return fmt.Errorf("could not write ledger file %q: %w", path, err)
	}

	ps.dirty = make(map[string]*Account)
	ps.countsDirty, ps.defaultsDirty, ps.rewrite = false, false, false
	return nil
}

// countsBlock renders the creation-count records, one per user who has
// created at least one non-personal account, in stable owner order.
func countsBlock(created map[uuid.UUID]int) []string {
	owners := slices.Collect(maps.Keys(created))
	slices.SortFunc(owners, func(a, b uuid.UUID) int {
		return strings.Compare(a.String(), b.String())
	})
	var lines []string
	for _, o := range owners {
		if created[o] <= 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("#,%s,%d", o, created[o]))
	}
	return lines
}

// defaultsBlock renders the default-account records in stable player
// order, using each account's own ID rather than a reverse scan of the
// registry.
func defaultsBlock(defaults map[uuid.UUID]*Account) []string {
	players := slices.Collect(maps.Keys(defaults))
	slices.SortFunc(players, func(a, b uuid.UUID) int {
		return strings.Compare(a.String(), b.String())
	})
	var lines []string
	for _, p := range players {
		lines = append(lines, fmt.Sprintf("*,%s,%s", p, defaults[p].id))
	}
	return lines
}
