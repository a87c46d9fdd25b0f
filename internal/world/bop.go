package world

import "sync"

// BopLedger is the aggregate per-car ballast/restrictor table, promoted to a
// first-class type so the Bops broadcast can be built without re-walking
// every client's embedded copy (§3 [ADD]).
type BopLedger struct {
	mu      sync.RWMutex
	entries map[uint8]Bop
}

func NewBopLedger() *BopLedger {
	return &BopLedger{entries: make(map[uint8]Bop)}
}

// Set assigns the BoP pair for a car id.
func (b *BopLedger) Set(carID uint8, bop Bop) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[carID] = bop
}

// Clear removes a car's BoP entry, e.g. on disconnect.
func (b *BopLedger) Clear(carID uint8) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, carID)
}

// Snapshot returns every (carID, Bop) pair, in no particular order.
func (b *BopLedger) Snapshot() map[uint8]Bop {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[uint8]Bop, len(b.entries))
	for k, v := range b.entries {
		out[k] = v
	}
	return out
}
