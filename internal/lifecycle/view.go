package lifecycle

import (
	"sync"
	"time"

	"zapp/models"
)

// View is a locally materialized set of orders, as a client screen would hold
// them. Store snapshots win over local edits unless they are older than the
// last snapshot the view already applied.
type View struct {
	mu      sync.RWMutex
	entries map[string]*viewEntry
}

type viewEntry struct {
	order      models.Order
	seenServer time.Time
	dirty      bool
}

func NewView(orders ...models.Order) *View {
	v := &View{entries: map[string]*viewEntry{}}
	for _, o := range orders {
		v.ApplySnapshot(o)
	}
	return v
}

// ApplySnapshot records a store snapshot and reports whether it replaced the
// local entry. Snapshots older than the last applied one are ignored.
func (v *View) ApplySnapshot(o models.Order) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	e, ok := v.entries[o.ID]
	if ok && !e.seenServer.IsZero() && o.UpdatedAt.Before(e.seenServer) {
		return false
	}
	v.entries[o.ID] = &viewEntry{order: o, seenServer: o.UpdatedAt}
	return true
}

// ApplyLocal records an optimistic local edit. It lasts until the next
// snapshot for the same order is applied.
func (v *View) ApplyLocal(o models.Order) {
	v.mu.Lock()
	defer v.mu.Unlock()
	e, ok := v.entries[o.ID]
	if !ok {
		e = &viewEntry{}
		v.entries[o.ID] = e
	}
	e.order = o
	e.dirty = true
}

// Reset replaces the whole view with a full fetch.
func (v *View) Reset(orders []models.Order) {
	v.mu.Lock()
	v.entries = make(map[string]*viewEntry, len(orders))
	v.mu.Unlock()
	for _, o := range orders {
		v.ApplySnapshot(o)
	}
}

func (v *View) Remove(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.entries, id)
}

func (v *View) Get(id string) (models.Order, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	e, ok := v.entries[id]
	if !ok {
		return models.Order{}, false
	}
	return e.order, true
}

// Dirty reports whether the entry for id carries an unconfirmed local edit.
func (v *View) Dirty(id string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	e, ok := v.entries[id]
	return ok && e.dirty
}

func (v *View) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.entries)
}

// Select returns copies of the matching orders, newest first.
func (v *View) Select(filters ...Filter) []models.Order {
	v.mu.RLock()
	all := make([]models.Order, 0, len(v.entries))
	for _, e := range v.entries {
		all = append(all, e.order)
	}
	v.mu.RUnlock()
	out := Apply(all, filters...)
	SortNewestFirst(out)
	return out
}
