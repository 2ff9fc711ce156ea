package cmd

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type auditCmd struct{}

func (*auditCmd) Name() string     { return "audit" }
func (*auditCmd) Synopsis() string { return "sum ledger balances per owner and system-wide" }
func (*auditCmd) Usage() string {
	return `cmdeco audit

  Loads the ledger file and prints the exact total balance held by each
  owner and across the whole ledger. Sums are computed with decimal
  arithmetic so large ledgers do not accumulate float rounding error.
  Accounts with infinite balances (the administrator account) are
  skipped and counted separately.
`
}

func (*auditCmd) SetFlags(*flag.FlagSet) {}

func (*auditCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	reg, err := loadRegistry()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	totals := make(map[uuid.UUID]decimal.Decimal)
	grand := decimal.Zero
	infinite := 0
	for a := range reg.AllAccounts() {
		bal := a.Balance()
		if math.IsInf(bal, 0) {
			infinite++
			continue
		}
		d := decimal.NewFromFloat(bal)
		grand = grand.Add(d)
		owner := a.Owner()
		totals[owner] = totals[owner].Add(d)
	}

	owners := make([]uuid.UUID, 0, len(totals))
	for o := range totals {
		owners = append(owners, o)
	}
	slices.SortFunc(owners, func(a, b uuid.UUID) int {
		return strings.Compare(a.String(), b.String())
	})
	for _, o := range owners {
		label := o.String()
		if o == uuid.Nil {
			label = "(ownerless)"
		}
		fmt.Printf("%-40s %s\n", label, totals[o].String())
	}
	fmt.Printf("total: %s (%d infinite balance(s) skipped)\n", grand.String(), infinite)
	return subcommands.ExitSuccess
}
