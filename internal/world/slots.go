package world

import "sync"

// CarSlot is a fixed configuration entry. At most one driver may occupy it.
type CarSlot struct {
	Model  string
	Skin   string
	Driver *Driver // nil when free
}

// SlotTable is the fixed-size set of configured car entries. It is created
// at startup from config and never resized.
type SlotTable struct {
	mu    sync.Mutex
	slots []CarSlot
}

// NewSlotTable builds a table from (model, skin) pairs, in config order.
// A slot's index in this slice is its stable car_id.
func NewSlotTable(models, skins []string) *SlotTable {
	n := len(models)
	slots := make([]CarSlot, n)
	for i := 0; i < n; i++ {
		slots[i].Model = models[i]
		if i < len(skins) {
			slots[i].Skin = skins[i]
		}
	}
	return &SlotTable{slots: slots}
}

// Len is the slot count, i.e. the max client count.
func (t *SlotTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.slots)
}

// TryAdd reserves the first free slot whose model matches and assigns it
// driver. Returns the slot index and true on success.
func (t *SlotTable) TryAdd(model string, driver Driver) (uint8, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.slots {
		if t.slots[i].Model == model && t.slots[i].Driver == nil {
			d := driver
			t.slots[i].Driver = &d
			return uint8(i), true
		}
	}
	return 0, false
}

// Remove clears the driver occupying slot, if any.
func (t *SlotTable) Remove(slot uint8) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(slot) < len(t.slots) {
		t.slots[slot].Driver = nil
	}
}

// Get returns a copy of the slot at index, or false if out of range.
func (t *SlotTable) Get(slot uint8) (CarSlot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(slot) >= len(t.slots) {
		return CarSlot{}, false
	}
	return t.slots[slot], true
}

// Snapshot returns a copy of every configured slot, in index order.
func (t *SlotTable) Snapshot() []CarSlot {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]CarSlot, len(t.slots))
	copy(out, t.slots)
	return out
}

// Occupied counts slots with an assigned driver.
func (t *SlotTable) Occupied() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, s := range t.slots {
		if s.Driver != nil {
			n++
		}
	}
	return n
}
