package repository

import (
	"context"
	"sync"

	"github.com/taskmaster/todo/internal/domain/entities"
)

// MemorySlot keeps slot values in process memory. Nothing survives a restart.
type MemorySlot struct {
	mu     sync.RWMutex
	values map[string][]byte
	closed bool
}

// NewMemorySlot creates an empty in-memory slot store
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: map[string][]byte{}}
}

func (s *MemorySlot) Read(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, entities.ErrSlotClosed
	}
	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *MemorySlot) Write(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return entities.ErrSlotClosed
	}
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemorySlot) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
