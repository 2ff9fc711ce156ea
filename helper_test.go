package economy

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
)

// fakeUI is a scripted platform for tests: a fixed set of players with
// display names, an op set, and captured messages.
type fakeUI struct {
	mu       sync.Mutex
	names    map[uuid.UUID]string
	ids      map[string]uuid.UUID
	ops      map[uuid.UUID]bool
	messages []string
	warnings []string
}

func newFakeUI() *fakeUI {
	return &fakeUI{
		names: make(map[uuid.UUID]string),
		ids:   make(map[string]uuid.UUID),
		ops:   make(map[uuid.UUID]bool),
	}
}

func (ui *fakeUI) addPlayer(name string) uuid.UUID {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	id := uuid.New()
	ui.names[id] = name
	ui.ids[name] = id
	return id
}

func (ui *fakeUI) addOp(name string) uuid.UUID {
	id := ui.addPlayer(name)
	ui.mu.Lock()
	defer ui.mu.Unlock()
	ui.ops[id] = true
	return id
}

func (ui *fakeUI) lastMessage() string {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	if len(ui.messages) == 0 {
		return ""
	}
	return ui.messages[len(ui.messages)-1]
}

func (ui *fakeUI) PrintToUser(_ uuid.UUID, text string) {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	ui.messages = append(ui.messages, text)
}

func (ui *fakeUI) PrintErrorToUser(_ uuid.UUID, text string) {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	ui.warnings = append(ui.warnings, text)
}

func (ui *fakeUI) GetDisplayName(id uuid.UUID) string {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	return ui.names[id]
}

func (ui *fakeUI) GetPlayerID(name string) uuid.UUID {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	return ui.ids[name]
}

func (ui *fakeUI) DoesPlayerExist(name string) bool {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	_, ok := ui.ids[name]
	return ok
}

func (ui *fakeUI) IsAnOp(id uuid.UUID) bool {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	return ui.ops[id]
}

// newTestRegistry builds a registry over a temp ledger file with fee
// charging off and a small starting balance.
func newTestRegistry(t *testing.T) (*Registry, *fakeUI) {
	t.Helper()
	s := DefaultSettings()
	s.LedgerFile = filepath.Join(t.TempDir(), "accounts.txt")
	s.StartingBalance = 100
	s.ChargeTransferFees = false
	ui := newFakeUI()
	return NewRegistry(s, ui), ui
}
