// Package cmd implements the offline operator CLI for account ledger
// files: listing accounts, auditing balances, and reviewing
// quarantined lines pending repair.
package cmd

import (
	"flag"
	"fmt"
	"os"

	economy "github.com/danielvanorman/commandeconomy-sub004"
	"github.com/google/subcommands"
	"github.com/google/uuid"
)

// Commands lists the operator subcommands. A main package registers
// them and executes the user-selected one.
var Commands = []subcommands.Command{
	&accountsCmd{},
	&auditCmd{},
	&quarantineCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var settingsFile = flag.String("settings", "config/economy.yaml", "Path to the YAML settings file")
var ledgerFile = flag.String("ledger-file", "", "Path to the ledger file (overrides the settings file)")

// loadRegistry loads the configured ledger into a fresh registry with
// no player platform behind it.
func loadRegistry() (*economy.Registry, error) {
	settings, err := economy.LoadSettings(*settingsFile)
	if err != nil {
		return nil, err
	}
	if *ledgerFile != "" {
		settings.LedgerFile = *ledgerFile
	}
	reg := economy.NewRegistry(settings, offlineUI{})
	if err := reg.LoadAccounts(); err != nil {
		return nil, err
	}
	return reg, nil
}

// offlineUI satisfies the core's UserInterface capability for offline
// inspection: no players exist and messages go to the terminal.
type offlineUI struct{}

func (offlineUI) PrintToUser(_ uuid.UUID, text string)      { fmt.Println(text) }
func (offlineUI) PrintErrorToUser(_ uuid.UUID, text string) { fmt.Fprintln(os.Stderr, text) }
func (offlineUI) GetDisplayName(uuid.UUID) string           { return "" }
func (offlineUI) GetPlayerID(string) uuid.UUID              { return uuid.Nil }
func (offlineUI) DoesPlayerExist(string) bool               { return false }
func (offlineUI) IsAnOp(uuid.UUID) bool                     { return false }
