// Package store provides record-collection access on top of the keyed slot
// storage. Each collection lives in a single slot as a JSON-encoded sequence
// and is loaded and saved wholesale, last writer wins.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"inkwell/internal/storage"
)

// Slot is a durable record collection bound to one storage key. An absent
// slot is not an error: the first Load writes the seed sequence and returns
// it. Load and Save are serialized in-process so a first-use seed write
// cannot interleave with a concurrent save and drop its records.
type Slot[T any] struct {
	mu   sync.Mutex
	kv   storage.Store
	key  string
	seed func() []T
}

// NewSlot binds a collection to a storage key. seed may be nil, in which
// case an absent slot loads as an empty sequence (and is persisted as such).
func NewSlot[T any](kv storage.Store, key string, seed func() []T) *Slot[T] {
	return &Slot[T]{kv: kv, key: key, seed: seed}
}

// Load returns the persisted sequence, seeding the slot first if it has
// never been written.
func (s *Slot[T]) Load(ctx context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Save replaces the persisted sequence wholesale.
func (s *Slot[T]) Save(ctx context.Context, records []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, records)
}

func (s *Slot[T]) load(ctx context.Context) ([]T, error) {
	data, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		var records []T
		if s.seed != nil {
			records = s.seed()
		}
		if records == nil {
			records = []T{}
		}
		if err := s.save(ctx, records); err != nil {
			return nil, fmt.Errorf("store: seed %q: %w", s.key, err)
		}
		return records, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: load %q: %w", s.key, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("store: decode %q: %w", s.key, err)
	}
	return records, nil
}

func (s *Slot[T]) save(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("store: encode %q: %w", s.key, err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("store: save %q: %w", s.key, err)
	}
	return nil
}
