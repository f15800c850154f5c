// Package shadow keeps a local mirror of cart and wishlist intent for clients
// that cannot reach the backend, and replays it once a durable owner exists.
package shadow

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// CartEntry is a locally buffered add-to-cart.
type CartEntry struct {
	VariantID uuid.UUID `json:"variant_id"`
	Quantity  int       `json:"quantity"`
}

// WishEntry is a locally buffered like.
type WishEntry struct {
	ProductID uuid.UUID  `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
}

type wishKey struct {
	productID uuid.UUID
	variantID uuid.UUID
}

// Store accumulates offline mutations. All methods are safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	cart   map[uuid.UUID]int
	wishes map[wishKey]WishEntry
}

// NewStore returns an empty shadow store.
func NewStore() *Store {
	return &Store{
		cart:   make(map[uuid.UUID]int),
		wishes: make(map[wishKey]WishEntry),
	}
}

// Add buffers an add-to-cart, summing with any buffered quantity for the same
// variant. Non-positive quantities are ignored.
func (s *Store) Add(variantID uuid.UUID, quantity int) {
	if variantID == uuid.Nil || quantity <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart[variantID] += quantity
}

// Like buffers a wishlist entry. Duplicate likes collapse to one.
func (s *Store) Like(productID uuid.UUID, variantID *uuid.UUID) {
	if productID == uuid.Nil {
		return
	}
	key := wishKey{productID: productID}
	entry := WishEntry{ProductID: productID}
	if variantID != nil && *variantID != uuid.Nil {
		key.variantID = *variantID
		id := *variantID
		entry.VariantID = &id
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wishes[key] = entry
}

// Snapshot returns the buffered state in a stable order.
func (s *Store) Snapshot() ([]CartEntry, []WishEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := make([]CartEntry, 0, len(s.cart))
	for variantID, quantity := range s.cart {
		cart = append(cart, CartEntry{VariantID: variantID, Quantity: quantity})
	}
	sort.Slice(cart, func(i, j int) bool {
		return cart[i].VariantID.String() < cart[j].VariantID.String()
	})

	wishes := make([]WishEntry, 0, len(s.wishes))
	for _, entry := range s.wishes {
		wishes = append(wishes, entry)
	}
	sort.Slice(wishes, func(i, j int) bool {
		if wishes[i].ProductID != wishes[j].ProductID {
			return wishes[i].ProductID.String() < wishes[j].ProductID.String()
		}
		return variantKey(wishes[i].VariantID) < variantKey(wishes[j].VariantID)
	})

	return cart, wishes
}

// Len reports how many distinct entries are buffered.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cart) + len(s.wishes)
}

// Clear drops all buffered entries.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = make(map[uuid.UUID]int)
	s.wishes = make(map[wishKey]WishEntry)
}

func variantKey(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
