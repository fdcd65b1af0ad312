package authstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarkhas/lingobot/internal/chat"
)

func TestMemoryAuthorizeIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	ref := chat.Ref{ID: 100, Type: "group"}

	first, err := store.Authorize(ctx, ref)
	require.NoError(t, err)
	assert.False(t, first.AlreadyAuthorized)
	assert.Equal(t, chat.ClassGroup, first.Class)

	second, err := store.Authorize(ctx, ref)
	require.NoError(t, err)
	assert.True(t, second.AlreadyAuthorized)
	assert.Equal(t, chat.ClassGroup, second.Class)

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{100}, snap[chat.ClassGroup])
	assert.Empty(t, snap[chat.ClassChat])
	assert.Empty(t, snap[chat.ClassChannel])
}

func TestMemoryCrossClassIndependence(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_, err := store.Authorize(ctx, chat.Ref{ID: 42, Type: "private"})
	require.NoError(t, err)

	asGroup, err := store.IsAuthorized(ctx, chat.Ref{ID: 42, Type: "group"})
	require.NoError(t, err)
	assert.False(t, asGroup)

	asChat, err := store.IsAuthorized(ctx, chat.Ref{ID: 42, Type: "private"})
	require.NoError(t, err)
	assert.True(t, asChat)
}

func TestMemoryConcurrentAuthorizeSameIdentity(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	ref := chat.Ref{ID: -1001, Type: "supergroup"}

	const callers = 32
	results := make([]Result, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := store.Authorize(ctx, ref)
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	fresh := 0
	for _, res := range results {
		if !res.AlreadyAuthorized {
			fresh++
		}
	}
	assert.Equal(t, 1, fresh, "exactly one caller should observe the insert")

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{-1001}, snap[chat.ClassGroup])
}
