package economy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the read-only configuration of the account core. It is
// loaded once and never mutated; every Registry holds a pointer to the
// Settings it was built with.
type Settings struct {
	// StartingBalance is the balance given to newly created accounts
	// when no explicit amount is supplied (e.g. implicit personal
	// account creation).
	StartingBalance float64 `yaml:"startingBalance"`

	// MaxAccountsPerUser caps how many non-personal accounts a single
	// user may ever create. Deleting an account does not refund the
	// charge. A negative value means unlimited.
	MaxAccountsPerUser int `yaml:"maxAccountsPerUser"`

	// ChargeTransferFees enables fee computation on transfers.
	ChargeTransferFees bool `yaml:"chargeTransferFees"`

	// TransferFeeRate is the sending fee: a flat amount, or a multiplier
	// of the transferred amount when TransferFeeIsMultiplier is set.
	// Negative rates pay the sender instead of charging them.
	TransferFeeRate float64 `yaml:"transferFeeRate"`

	// TransferFeeIsMultiplier interprets TransferFeeRate as a fraction
	// of the transferred amount rather than a flat charge.
	TransferFeeIsMultiplier bool `yaml:"transferFeeIsMultiplier"`

	// CollectFees routes settled fees into the fee-collection account.
	// When false, fees are simply debited from (or credited to) the
	// sender with no counterpart account.
	CollectFees bool `yaml:"collectFees"`

	// FeeCollectionAccount is the ID of the well-known account that
	// accumulates fees. It is created lazily and has no authorized users.
	FeeCollectionAccount string `yaml:"feeCollectionAccount"`

	// InterestRate is the percentage applied to every finite account
	// balance per interest period. Zero disables periodic interest.
	InterestRate float64 `yaml:"interestRate"`

	// InterestIntervalMinutes is the length of an interest period.
	InterestIntervalMinutes int `yaml:"interestIntervalMinutes"`

	// CurrencyCode selects the currency used to format balances in
	// user-facing messages (ISO 4217).
	CurrencyCode string `yaml:"currencyCode"`

	// LedgerFile is the path of the account ledger file.
	LedgerFile string `yaml:"ledgerFile"`
}

// DefaultSettings mirrors a fresh install.
func DefaultSettings() *Settings {
	return &Settings{
		StartingBalance:         100,
		MaxAccountsPerUser:      3,
		ChargeTransferFees:      false,
		TransferFeeRate:         0,
		TransferFeeIsMultiplier: false,
		CollectFees:             true,
		FeeCollectionAccount:    "cumulativeTransactionFees",
		InterestRate:            0,
		InterestIntervalMinutes: 30,
		CurrencyCode:            "USD",
		LedgerFile:              "config/accounts.txt",
	}
}

// LoadSettings reads settings from a YAML file. A missing file is not
// an error: defaults are returned so a fresh install works untouched.
// A malformed file is an error, to avoid silently running a live
// economy on half-read configuration.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read settings file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("could not parse settings file %q: %w", path, err)
	}
	return s, nil
}
