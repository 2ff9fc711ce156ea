package economy

import "github.com/google/uuid"

// UserInterface is the capability the core consumes from the excluded
// presentation layer. The core never parses user input or formats
// command output; it only pushes notifications and resolves player
// identities through this interface.
//
// A uuid.Nil player ID always means "nobody": implementations must
// treat it as an unknown player.
type UserInterface interface {
	// PrintToUser delivers an informational message to a player, if they
	// are reachable. Implementations may drop messages for offline players.
	PrintToUser(id uuid.UUID, text string)

	// PrintErrorToUser delivers a warning or error message to a player.
	PrintErrorToUser(id uuid.UUID, text string)

	// GetDisplayName returns the player's display name, or "" if unknown.
	GetDisplayName(id uuid.UUID) string

	// GetPlayerID returns the ID of the player with the given display
	// name, or uuid.Nil if no such player exists.
	GetPlayerID(name string) uuid.UUID

	// DoesPlayerExist reports whether a player with this display name is
	// known to the platform.
	DoesPlayerExist(name string) bool

	// IsAnOp reports whether the player is a server operator.
	IsAnOp(id uuid.UUID) bool
}
