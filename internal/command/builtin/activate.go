// Package builtin provides the bot's built-in commands.
package builtin

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dmarkhas/lingobot/internal/authstore"
	"github.com/dmarkhas/lingobot/internal/chat"
	pkgcmd "github.com/dmarkhas/lingobot/pkg/command"
)

// Replies for each distinct activation failure, so the submitter learns
// the actual reason instead of a generic error.
const (
	replyUsage        = "Usage: /activate <code>"
	replyNoServerCode = "Server has no activation code configured."
	replyWrongCode    = "❌ Invalid code."
	replyNoChat       = "Cannot read chat id here."
	replyStoreFailure = "Activation failed, please try again later."
	replyAlready      = "✅ Already activated for this chat."
	replyActivated    = "✅ Activated for this chat. You're good to go."
)

// ActivateCommand grants the originating chat permanent access when the
// submitted code matches the configured one. It is the only writer to the
// authorization store.
type ActivateCommand struct {
	store authstore.Store
	code  string
	log   zerolog.Logger
}

// NewActivateCommand creates the activation command. code is the shared
// secret; empty means activation is impossible server-side.
func NewActivateCommand(store authstore.Store, code string, log zerolog.Logger) *ActivateCommand {
	return &ActivateCommand{store: store, code: code, log: log}
}

// Name returns "activate".
func (a *ActivateCommand) Name() string {
	return "activate"
}

// Description returns the activate description.
func (a *ActivateCommand) Description() string {
	return "Unlock the bot for this chat with the activation code"
}

// Ungated marks the command reachable from not-yet-authorized chats.
func (a *ActivateCommand) Ungated() bool {
	return true
}

// Execute validates the submitted code and registers the chat. Each
// failure mode gets its own reply; the store is only written after every
// check passed.
func (a *ActivateCommand) Execute(ctx context.Context, req pkgcmd.Request, reply pkgcmd.Responder) error {
	submitted := strings.TrimSpace(req.Args)
	if submitted == "" {
		return reply.Reply(replyUsage)
	}
	if a.code == "" {
		return reply.Reply(replyNoServerCode)
	}
	if submitted != a.code {
		return reply.Reply(replyWrongCode)
	}
	// Telegram chat ids are never zero; zero means the update carried no
	// resolvable chat identity.
	if req.ChatID == 0 {
		return reply.Reply(replyNoChat)
	}

	res, err := a.store.Authorize(ctx, chat.Ref{ID: req.ChatID, Type: req.ChatType})
	if err != nil {
		a.log.Error().Err(err).Int64("chat_id", req.ChatID).Msg("activation write failed")
		return reply.Reply(replyStoreFailure)
	}
	if res.AlreadyAuthorized {
		return reply.Reply(replyAlready)
	}

	a.log.Info().
		Int64("chat_id", req.ChatID).
		Str("chat_class", string(res.Class)).
		Msg("activated chat")
	return reply.Reply(replyActivated)
}
