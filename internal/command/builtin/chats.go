package builtin

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dmarkhas/lingobot/internal/authstore"
	"github.com/dmarkhas/lingobot/internal/chat"
	pkgcmd "github.com/dmarkhas/lingobot/pkg/command"
)

// ChatsCommand shows the authorization registry snapshot, grouped by
// chat class. Diagnostic only; it never mutates the registry.
type ChatsCommand struct {
	store authstore.Store
}

// NewChatsCommand creates a chats command.
func NewChatsCommand(store authstore.Store) *ChatsCommand {
	return &ChatsCommand{store: store}
}

// Name returns "chats".
func (c *ChatsCommand) Name() string {
	return "chats"
}

// Description returns the chats description.
func (c *ChatsCommand) Description() string {
	return "Show authorized chats per class"
}

// Execute replies with the per-class lists of authorized chat ids.
func (c *ChatsCommand) Execute(ctx context.Context, req pkgcmd.Request, reply pkgcmd.Responder) error {
	snap, err := c.store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("read authorization snapshot: %w", err)
	}

	var b strings.Builder
	b.WriteString("Authorized chats:\n")
	for _, class := range chat.Classes() {
		ids := append([]int64(nil), snap[class]...)
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		fmt.Fprintf(&b, "\n%s (%d):", class, len(ids))
		if len(ids) == 0 {
			b.WriteString(" -")
			continue
		}
		for _, id := range ids {
			fmt.Fprintf(&b, " %d", id)
		}
	}
	return reply.Reply(b.String())
}
