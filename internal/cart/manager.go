package cart

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/jafarshop/cartapi/internal/domain"
	"github.com/jafarshop/cartapi/internal/kv"
)

const storeKeyPrefix = "cart:"

// Manager owns one shopper's product-id -> quantity mapping. All
// mutations go through it; every mutation writes the new mapping through
// to the persistent store. Invariant: the mapping never holds an entry
// with quantity <= 0.
//
// The write-through always writes the in-memory mapping verbatim. The
// persisted value is never merged back in, so a removed line cannot be
// resurrected by a stale persisted entry. Concurrent sessions remain
// last-write-wins.
type Manager struct {
	store   kv.Store
	ownerID string
	logger  *zap.Logger

	mu    sync.Mutex
	lines domain.CartLines
}

// NewManager creates a manager for one owner's cart. Call Hydrate before
// the first read or mutation.
func NewManager(store kv.Store, ownerID string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:   store,
		ownerID: ownerID,
		logger:  logger,
		lines:   make(domain.CartLines),
	}
}

// Hydrate loads the persisted mapping. An absent key, an unreadable
// store or a corrupt value all degrade to an empty cart; corruption is
// logged but never surfaced to the shopper.
func (m *Manager) Hydrate(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lines = make(domain.CartLines)

	raw, ok, err := m.store.Get(ctx, m.key())
	if err != nil {
		m.logger.Warn("Failed to read persisted cart, starting empty",
			zap.String("owner_id", m.ownerID),
			zap.Error(err))
		return
	}
	if !ok {
		return
	}

	var persisted map[string]int
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		m.logger.Warn("Persisted cart is corrupt, starting empty",
			zap.String("owner_id", m.ownerID),
			zap.Error(err))
		return
	}

	for key, qty := range persisted {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil || qty <= 0 {
			// drop malformed or non-positive entries
			continue
		}
		m.lines[id] = qty
	}
}

// Lines returns a copy of the current mapping.
func (m *Manager) Lines() domain.CartLines {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.lines.Clone()
}

// AddItem increments the quantity for productID by one, inserting the
// line at quantity 1 if absent.
func (m *Manager) AddItem(ctx context.Context, productID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lines[productID]++
	m.persist(ctx)
}

// SetQuantity sets the line to exactly quantity. A quantity <= 0 removes
// the line entirely; a zero-quantity entry is never left behind.
func (m *Manager) SetQuantity(ctx context.Context, productID int64, quantity int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if quantity <= 0 {
		delete(m.lines, productID)
	} else {
		m.lines[productID] = quantity
	}
	m.persist(ctx)
}

// RemoveItem deletes the line if present; removing an absent line is a
// no-op, not an error.
func (m *Manager) RemoveItem(ctx context.Context, productID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.lines, productID)
	m.persist(ctx)
}

// Clear empties the mapping and the persisted record together.
func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lines = make(domain.CartLines)
	if err := m.store.Delete(ctx, m.key()); err != nil {
		m.logger.Warn("Failed to delete persisted cart",
			zap.String("owner_id", m.ownerID),
			zap.Error(err))
	}
}

// persist writes the current mapping through to the store. A failed
// write is logged and the in-memory cart stays usable; there are no
// fatal errors in this path. Caller must hold m.mu.
func (m *Manager) persist(ctx context.Context) {
	persisted := make(map[string]int, len(m.lines))
	for id, qty := range m.lines {
		persisted[strconv.FormatInt(id, 10)] = qty
	}

	raw, err := json.Marshal(persisted)
	if err != nil {
		m.logger.Error("Failed to marshal cart", zap.String("owner_id", m.ownerID), zap.Error(err))
		return
	}

	if err := m.store.Set(ctx, m.key(), string(raw)); err != nil {
		m.logger.Warn("Failed to persist cart",
			zap.String("owner_id", m.ownerID),
			zap.Error(err))
	}
}

func (m *Manager) key() string {
	return storeKeyPrefix + m.ownerID
}
