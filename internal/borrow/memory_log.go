package borrow

import (
	"context"
	"slices"
	"sync"
)

// MemoryLog keeps events for the lifetime of the process.
type MemoryLog struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryLog(seed ...Event) *MemoryLog {
	return &MemoryLog{events: slices.Clone(seed)}
}

func (m *MemoryLog) Append(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

func (m *MemoryLog) Load(ctx context.Context) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.events), nil
}
