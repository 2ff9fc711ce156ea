package economy

import "sync"

// mutationCoordinator guards the registry with an asymmetric
// discipline. Structural operations (full ledger load, bulk reload)
// take the writer side and exclude everything else. Ordinary mutations
// (deposit, withdraw, transfer, access changes) take the reader side:
// they exclude structural operations but deliberately not each other.
// Per-account serialization comes from each account's own mutex, and
// registry map updates from the registry's map mutex, so concurrent
// ordinary mutations interleave safely without being mutually ordered.
//
// ForceSetBalance and raw account construction stay entirely outside
// this discipline. They are a narrow, trusted API surface for
// administrative correction and loading.
type mutationCoordinator struct {
	structural sync.RWMutex
}

// beginStructural blocks until every in-flight operation has drained,
// then holds exclusive access until endStructural.
func (c *mutationCoordinator) beginStructural() { c.structural.Lock() }
func (c *mutationCoordinator) endStructural()   { c.structural.Unlock() }

// beginMutation waits for any structural operation to finish but does
// not exclude other ordinary mutations.
func (c *mutationCoordinator) beginMutation() { c.structural.RLock() }
func (c *mutationCoordinator) endMutation()   { c.structural.RUnlock() }
