package authstore

import (
	"context"
	"sync"

	"github.com/dmarkhas/lingobot/internal/chat"
)

// Memory is the process-local Store. Contents are lost on restart.
type Memory struct {
	mu      sync.RWMutex
	classes map[chat.Class]map[int64]struct{}
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	classes := make(map[chat.Class]map[int64]struct{}, len(chat.Classes()))
	for _, c := range chat.Classes() {
		classes[c] = make(map[int64]struct{})
	}
	return &Memory{classes: classes}
}

// Authorize registers the chat under its class.
func (m *Memory) Authorize(_ context.Context, ref chat.Ref) (Result, error) {
	class := chat.Classify(ref)

	m.mu.Lock()
	defer m.mu.Unlock()

	set := m.classes[class]
	_, already := set[ref.ID]
	if !already {
		set[ref.ID] = struct{}{}
	}
	return Result{AlreadyAuthorized: already, Class: class}, nil
}

// IsAuthorized reports whether the chat is registered under its class.
func (m *Memory) IsAuthorized(_ context.Context, ref chat.Ref) (bool, error) {
	class := chat.Classify(ref)

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.classes[class][ref.ID]
	return ok, nil
}

// Snapshot returns all registered ids grouped by class.
func (m *Memory) Snapshot(_ context.Context) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := emptySnapshot()
	for class, set := range m.classes {
		ids := snap[class]
		for id := range set {
			ids = append(ids, id)
		}
		snap[class] = ids
	}
	return snap, nil
}
