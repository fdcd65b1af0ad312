// Package gate decides, per inbound update, whether processing may
// continue based on the authorization registry.
package gate

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dmarkhas/lingobot/internal/authstore"
	"github.com/dmarkhas/lingobot/internal/chat"
)

// Gate is the request-time enforcement point. It reads the store through
// IsAuthorized only; the activation handler is the sole writer.
type Gate struct {
	store authstore.Store
	code  string
	log   zerolog.Logger
}

// New creates a gate. An empty activation code disables enforcement
// entirely (every update passes).
func New(store authstore.Store, activationCode string, log zerolog.Logger) *Gate {
	return &Gate{store: store, code: activationCode, log: log}
}

// Required reports whether authorization is enforced at all.
func (g *Gate) Required() bool {
	return g.code != ""
}

// Admit reports whether the update may proceed. Terminal branches, in
// order: enforcement disabled; activation command (its handler performs
// the code check itself); no resolvable chat identity (nothing to
// authorize against); store verdict. A store I/O error denies the update:
// granting access on ambiguity is worse than a dropped message.
func (g *Gate) Admit(ctx context.Context, ref *chat.Ref, activation bool) bool {
	if !g.Required() || activation {
		return true
	}
	if ref == nil {
		return true
	}

	ok, err := g.store.IsAuthorized(ctx, *ref)
	if err != nil {
		g.log.Error().Err(err).
			Int64("chat_id", ref.ID).
			Str("chat_class", string(chat.Classify(*ref))).
			Msg("authorization check failed, rejecting update")
		return false
	}
	if !ok {
		g.log.Warn().
			Int64("chat_id", ref.ID).
			Str("chat_class", string(chat.Classify(*ref))).
			Msg("blocking update from unauthorized chat")
		return false
	}
	return true
}
