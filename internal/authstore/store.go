// Package authstore keeps the registry of chats that have been activated.
// A record is a (chat id, chat class) pair; its existence means the chat is
// authorized. Records are created once and never mutated or deleted.
package authstore

import (
	"context"

	"github.com/dmarkhas/lingobot/internal/chat"
)

// Result is the outcome of an Authorize call.
type Result struct {
	// AlreadyAuthorized is true when the identity was registered before
	// this call.
	AlreadyAuthorized bool
	// Class is the class the identity was registered under.
	Class chat.Class
}

// Snapshot lists authorized chat ids per class. Every class is present as
// a key; the order of ids within a class is not guaranteed.
type Snapshot map[chat.Class][]int64

// Store is the authorization registry contract. Implementations must be
// safe for concurrent use; persistent backends may block on I/O, which is
// why every method takes a context.
type Store interface {
	// Authorize registers the chat under its class. Idempotent: repeated
	// calls for the same identity report AlreadyAuthorized and write
	// nothing. Concurrent calls for one identity result in exactly one
	// stored record.
	Authorize(ctx context.Context, ref chat.Ref) (Result, error)

	// IsAuthorized reports whether the chat is registered under its
	// class. Read-only.
	IsAuthorized(ctx context.Context, ref chat.Ref) (bool, error)

	// Snapshot enumerates all records grouped by class. Read-only and
	// only eventually consistent with concurrent Authorize calls.
	Snapshot(ctx context.Context) (Snapshot, error)
}

func emptySnapshot() Snapshot {
	s := make(Snapshot, len(chat.Classes()))
	for _, c := range chat.Classes() {
		s[c] = []int64{}
	}
	return s
}
