package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type quarantineCmd struct{}

func (*quarantineCmd) Name() string     { return "quarantine" }
func (*quarantineCmd) Synopsis() string { return "show ledger lines that failed to parse" }
func (*quarantineCmd) Usage() string {
	return `cmdeco quarantine

  Loads the ledger file and prints the lines that could not be parsed,
  exactly as they appear in the file. Fix them in place (or delete
  them) and they will leave the quarantine block on the next save.
`
}

func (*quarantineCmd) SetFlags(*flag.FlagSet) {}

func (*quarantineCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	reg, err := loadRegistry()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	lines := reg.QuarantinedLines()
	if len(lines) == 0 {
		fmt.Println("no quarantined lines")
		return subcommands.ExitSuccess
	}
	for _, line := range lines {
		fmt.Println(line)
	}
	return subcommands.ExitSuccess
}
