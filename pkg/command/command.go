// Package command defines the interface for bot commands.
// Implement this interface to create commands invocable from a chat.
package command

import "context"

// Request carries the inbound command invocation.
type Request struct {
	ChatID   int64  // chat the command came from
	ChatType string // raw transport chat type ("private", "group", ...)
	Sender   string // display name of the sender, may be empty
	Args     string // raw text after the command name
}

// Responder sends replies back to the originating chat.
type Responder interface {
	// Reply sends a plain text message to the chat.
	Reply(text string) error
}

// Command defines the contract for all bot commands.
type Command interface {
	// Name returns the command name without the leading slash (e.g., "help").
	Name() string

	// Description returns a human-readable description for /help output.
	Description() string

	// Execute runs the command and replies through the responder.
	// The context carries cancellation signals for shutdown.
	Execute(ctx context.Context, req Request, reply Responder) error
}

// Ungated marks commands that must be reachable from chats that have not
// been authorized yet. The activation command is the canonical case: a
// locked chat could never unlock itself otherwise.
type Ungated interface {
	Command
	Ungated() bool
}

// BypassesGate reports whether cmd is exempt from the authorization gate.
func BypassesGate(cmd Command) bool {
	u, ok := cmd.(Ungated)
	return ok && u.Ungated()
}
