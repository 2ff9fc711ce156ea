package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	economy "github.com/danielvanorman/commandeconomy-sub004"
	"github.com/google/subcommands"
)

type accountsCmd struct{}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list every account in the ledger file" }
func (*accountsCmd) Usage() string {
	return `cmdeco accounts

  Loads the ledger file and prints every account with its balance and
  number of authorized users, in ID order.
`
}

func (*accountsCmd) SetFlags(*flag.FlagSet) {}

func (*accountsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	reg, err := loadRegistry()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	cur := reg.Settings().CurrencyCode
	for a := range reg.AllAccounts() {
		fmt.Printf("%-32s %16s  %d user(s)\n", a.ID(), economy.FormatAmount(a.Balance(), cur), len(a.Users()))
	}
	return subcommands.ExitSuccess
}
