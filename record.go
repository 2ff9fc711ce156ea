package economy

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// A record is one parsed line of the ledger file. Each line is
// classified into a tagged variant before interpretation; the loader
// (persist.go) decides what each variant means for registry state.
type record interface{ isRecord() }

// accountRecord restores an account: `id,balance,owner,user...`.
// The two-field form (no users at all) is an inaccessible account.
type accountRecord struct {
	id      string
	balance float64
	users   []uuid.UUID
}

// creationCountRecord restores a per-user creation counter: `#,owner,count`.
type creationCountRecord struct {
	owner uuid.UUID
	count int
}

// defaultAccountRecord restores a default-account mapping: `*,player,accountID`.
type defaultAccountRecord struct {
	player    uuid.UUID
	accountID string
}

// commentRecord is a skipped `//` comment or blank line.
type commentRecord struct{}

// malformedRecord preserves a line that failed to parse, verbatim, so
// it can be quarantined rather than silently lost.
type malformedRecord struct {
	line string
	err  error
}

func (accountRecord) isRecord()        {}
func (creationCountRecord) isRecord()  {}
func (defaultAccountRecord) isRecord() {}
func (commentRecord) isRecord()        {}
func (malformedRecord) isRecord()      {}

// parseRecord classifies and parses a single ledger line. It never
// fails: unparsable input becomes a malformedRecord carrying the line
// verbatim.
func parseRecord(line string) record {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "//") {
		return commentRecord{}
	}
	fields := strings.Split(line, ",")
	switch fields[0] {
	case "#":
		return parseCreationCount(line, fields)
	case "*":
		return parseDefaultAccount(line, fields)
	default:
		return parseAccount(line, fields)
	}
}

func parseCreationCount(line string, fields []string) record {
	if len(fields) != 3 {
		return malformedRecord{line, fmt.Errorf("creation-count record needs 3 fields, got %d", len(fields))}
	}
	owner, err := uuid.Parse(fields[1])
	if err != nil {
		return malformedRecord{line, fmt.Errorf("bad owner ID %q: %w", fields[1], err)}
	}
	count, err := strconv.Atoi(fields[2])
	if err != nil || count < 0 {
		return malformedRecord{line, fmt.Errorf("bad creation count %q", fields[2])}
	}
	return creationCountRecord{owner: owner, count: count}
}

func parseDefaultAccount(line string, fields []string) record {
	if len(fields) != 3 || fields[2] == "" {
		return malformedRecord{line, fmt.Errorf("default-account record needs a player and an account ID")}
	}
	player, err := uuid.Parse(fields[1])
	if err != nil {
		return malformedRecord{line, fmt.Errorf("bad player ID %q: %w", fields[1], err)}
	}
	return defaultAccountRecord{player: player, accountID: fields[2]}
}

func parseAccount(line string, fields []string) record {
	if len(fields) < 2 || fields[0] == "" {
		return malformedRecord{line, fmt.Errorf("account record needs an ID and a balance")}
	}
	balance, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return malformedRecord{line, fmt.Errorf("bad balance %q: %w", fields[1], err)}
	}
	if math.IsNaN(balance) {
		balance = 0 // balances are never NaN
	}
	users := make([]uuid.UUID, 0, len(fields)-2)
	for _, f := range fields[2:] {
		u, err := uuid.Parse(f)
		if err != nil {
			return malformedRecord{line, fmt.Errorf("bad user ID %q: %w", f, err)}
		}
		users = append(users, u)
	}
	return accountRecord{id: fields[0], balance: balance, users: users}
}
