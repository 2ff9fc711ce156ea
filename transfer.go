package economy

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Transfer sends amount from this account to another account or
// player. The caller must be authorized on the source account and the
// amount must not be negative; a zero or NaN amount is silently
// accepted as a no-op.
//
// If fee charging is enabled, the configured sending fee (flat, or a
// multiple of the amount) is added to what the source pays and settled
// into the fee-collection account. A negative fee is a payout to the
// sender; if the fee-collection account cannot afford the payout it is
// treated as zero, so the sender is never blocked by the bank's
// insolvency.
//
// The recipient is resolved with the same default/personal-account
// indirection as ResolveAccount: a player name reaches that player's
// default (or personal) account, anything else is a direct lookup.
// Self-transfers are legal and net to the fee charge only. The
// recipient's owner is notified with the sender's label, falling back
// to "anonymous" when none is supplied.
//
// Every failure is reported before any balance moves; a failed
// transfer changes nothing.
func (a *Account) Transfer(caller uuid.UUID, amount float64, senderLabel, recipientID string) error {
	r := a.reg
	if r == nil {
		return fmt.Errorf("%w: account is not registered", ErrNotFound)
	}
	r.coord.beginMutation()
	defer r.coord.endMutation()

	if !r.canAccess(a, caller) {
		return fmt.Errorf("%w: %s may not send from account %q", ErrAccessDenied, caller, a.id)
	}
	if amount == 0 || math.IsNaN(amount) {
		return nil
	}
	if amount < 0 {
		return fmt.Errorf("%w: cannot send a negative amount", ErrInvalidAmount)
	}
	if recipientID == "" {
		return fmt.Errorf("%w: no recipient account specified", ErrInvalidID)
	}

	fee := r.transferFee(amount)
	var feeAccount *Account
	if fee != 0 && r.settings.CollectFees {
		feeAccount = r.feeCollectionAccount()
		if fee < 0 && feeAccount.Balance() < -fee {
			// The bank's insolvency never blocks the sender: an
			// unaffordable payout is skipped, not forced negative.
			fee = 0
			feeAccount = nil
		}
	}
	if a.Balance() < amount+fee {
		return fmt.Errorf("%w: %s needed to send %s", ErrInsufficientFunds,
			FormatAmount(amount+fee, r.settings.CurrencyCode),
			FormatAmount(amount, r.settings.CurrencyCode))
	}

	to := r.resolveRecipient(recipientID)
	if to == nil {
		return fmt.Errorf("%w: %q", ErrNotFound, recipientID)
	}

	a.credit(-amount)
	to.credit(amount)
	a.credit(-fee)
	if feeAccount != nil {
		feeAccount.credit(fee)
	}

	if owner := to.Owner(); owner != uuid.Nil {
		sender := senderLabel
		if sender == "" {
			sender = "anonymous"
		}
		r.ui.PrintToUser(owner, fmt.Sprintf("%s received %s from %s",
			to.id, FormatAmount(amount, r.settings.CurrencyCode), sender))
	}
	return nil
}

// transferFee computes the sending fee for amount. A multiplicative
// fee keeps the sign of the configured rate: a positive rate never
// turns into a payout and a negative rate never turns into a charge.
func (r *Registry) transferFee(amount float64) float64 {
	if !r.settings.ChargeTransferFees {
		return 0
	}
	rate := r.settings.TransferFeeRate
	if rate == 0 || math.IsNaN(rate) {
		return 0
	}
	if !r.settings.TransferFeeIsMultiplier {
		return rate
	}
	fee := rate * amount
	if fee != 0 && (fee > 0) != (rate > 0) {
		fee = -fee
	}
	return fee
}

// feeCollectionAccount returns the well-known fee sink, creating it on
// first use. It is ownerless: collected fees cannot be spent through
// ordinary account operations.
func (r *Registry) feeCollectionAccount() *Account {
	id := r.settings.FeeCollectionAccount
	if id == "" {
		id = DefaultSettings().FeeCollectionAccount
	}
	if a := r.getAccount(id); a != nil {
		return a
	}
	return NewAccount(r, id, 0)
}

// resolveRecipient applies the default/personal indirection to the
// recipient side of a transfer.
func (r *Registry) resolveRecipient(id string) *Account {
	if r.ui.DoesPlayerExist(id) {
		return r.resolveAccount("", r.ui.GetPlayerID(id))
	}
	return r.getAccount(id)
}
