package economy

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_DepositWithdraw(t *testing.T) {
	testCases := []struct {
		name    string
		deposit float64
		want    float64
	}{
		{name: "positive deposit", deposit: 25, want: 35},
		{name: "zero is a no-op", deposit: 0, want: 10},
		{name: "NaN is a no-op", deposit: math.NaN(), want: 10},
		{name: "negative deposit is a debit", deposit: -4, want: 6},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newTestRegistry(t)
			a := NewAccount(r, "vault", 10)
			a.Deposit(tc.deposit)
			if got := a.Balance(); got != tc.want {
				t.Errorf("balance = %v, want %v", got, tc.want)
			}
		})
	}

	t.Run("withdraw", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		a := NewAccount(r, "vault", 10)
		a.Withdraw(3)
		assert.Equal(t, 7.0, a.Balance())
		a.Withdraw(math.NaN())
		assert.Equal(t, 7.0, a.Balance())
		// No funds check: overdraft is the caller's responsibility.
		a.Withdraw(100)
		assert.Equal(t, -93.0, a.Balance())
	})
}

func TestAccount_ForceSetBalance(t *testing.T) {
	r, _ := newTestRegistry(t)
	a := NewAccount(r, "vault", 10)
	a.ForceSetBalance(1234.5)
	assert.Equal(t, 1234.5, a.Balance())
	a.ForceSetBalance(math.NaN())
	assert.Equal(t, 1234.5, a.Balance(), "NaN must be ignored")
	a.ForceSetBalance(math.Inf(1))
	assert.True(t, math.IsInf(a.Balance(), 1))
}

func TestAccount_Access(t *testing.T) {
	r, ui := newTestRegistry(t)
	alice := ui.addPlayer("Alice")
	bob := ui.addPlayer("Bob")
	carol := ui.addPlayer("Carol")
	a := NewAccount(r, "shared", 0, alice)

	t.Run("empty user list grants nobody access", func(t *testing.T) {
		empty := NewAccount(r, "lost", 0)
		assert.False(t, empty.HasAccess(alice))
		assert.Equal(t, uuid.Nil, empty.Owner())
	})

	t.Run("nil user is never authorized", func(t *testing.T) {
		assert.False(t, a.HasAccess(uuid.Nil))
	})

	t.Run("grant requires requester access", func(t *testing.T) {
		_, err := a.GrantAccess(bob, carol)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("grant and regrant", func(t *testing.T) {
		changed, err := a.GrantAccess(alice, bob)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.True(t, a.HasAccess(bob))

		changed, err = a.GrantAccess(alice, bob)
		require.NoError(t, err)
		assert.False(t, changed, "regrant is a no-op")
		assert.Equal(t, []uuid.UUID{alice, bob}, a.Users(), "no duplicate entries")
	})

	t.Run("internal grant with nil requester", func(t *testing.T) {
		changed, err := a.GrantAccess(uuid.Nil, carol)
		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("owner is the first authorized user", func(t *testing.T) {
		assert.Equal(t, alice, a.Owner())
	})

	t.Run("revoke and re-revoke", func(t *testing.T) {
		changed, err := a.RevokeAccess(alice, carol)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.False(t, a.HasAccess(carol))

		changed, err = a.RevokeAccess(alice, carol)
		require.NoError(t, err)
		assert.False(t, changed, "re-revoke is a no-op")
	})

	t.Run("revoking unknown target", func(t *testing.T) {
		_, err := a.RevokeAccess(alice, uuid.Nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAccount_RevokeClearsDefaultMapping(t *testing.T) {
	r, ui := newTestRegistry(t)
	alice := ui.addPlayer("Alice")
	bob := ui.addPlayer("Bob")

	shared, err := r.MakeAccount("shared", alice, 0)
	require.NoError(t, err)
	_, err = shared.GrantAccess(alice, bob)
	require.NoError(t, err)
	require.NoError(t, r.SetDefaultAccount(bob, "shared"))
	require.Same(t, shared, r.ResolveAccount("", bob))

	_, err = shared.RevokeAccess(alice, bob)
	require.NoError(t, err)

	// Bob's default mapping is gone; resolution falls back to his
	// personal account.
	personal := r.ResolveAccount("", bob)
	require.NotNil(t, personal)
	assert.Equal(t, "Bob", personal.ID())
}

func TestAccount_Check(t *testing.T) {
	r, ui := newTestRegistry(t)
	alice := ui.addPlayer("Alice")
	bob := ui.addPlayer("Bob")
	a := NewAccount(r, "vault", 1234.5, alice)

	require.NoError(t, a.Check(alice))
	assert.Equal(t, "vault: $1,234.50", ui.lastMessage())

	err := a.Check(bob)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestAccount_TransientIsNeverRegistered(t *testing.T) {
	r, _ := newTestRegistry(t)
	a := NewAccount(r, "", 50)
	a.Deposit(10)
	assert.Equal(t, 60.0, a.Balance(), "transient accounts are fully usable")
	assert.False(t, slices.Contains(r.AllAccountNames(), ""),
		"an account with no ID is never reachable by lookup")
}

func TestAccount_TransferUnregistered(t *testing.T) {
	a := NewAccount(nil, "", 50)
	err := a.Transfer(uuid.New(), 10, "", "anyone")
	assert.True(t, errors.Is(err, ErrNotFound))
}
