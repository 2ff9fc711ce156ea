// Package economy implements the account and ledger core of a
// virtual-economy engine. It owns every financial account used by a
// multi-user marketplace, enforces access control over who may view or
// spend an account's funds, computes and settles transaction fees, and
// persists the ledger to durable storage with crash-tolerant partial
// recovery.
//
// The core functionalities include:
//   - Account Registry: Named, shareable money accounts with an ordered
//     list of authorized users, per-user creation quotas, and
//     default-account indirection ("no account specified" always means
//     "my account", never "fail").
//   - Transfers and Fees: A transfer pipeline with flat or multiplicative
//     sending fees, sign normalization, and a fee-collection account that
//     can never block a sender through its own insolvency.
//   - Persistence: A line-oriented, human-repairable text format with
//     incremental dirty tracking and verbatim quarantine of malformed
//     records so no operator data is silently lost.
//   - Periodic Interest: An optional scheduler that compounds interest on
//     every finite account balance at a configured interval.
//
// The presentation layer (chat commands, prompts) is not part of this
// package; it is consumed only through the UserInterface capability.
// This package serves as the foundational logic for the `cmdeco`
// operator command-line tool.
package economy
