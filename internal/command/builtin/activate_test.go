package builtin

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarkhas/lingobot/internal/authstore"
	"github.com/dmarkhas/lingobot/internal/chat"
	"github.com/dmarkhas/lingobot/internal/gate"
	pkgcmd "github.com/dmarkhas/lingobot/pkg/command"
)

// recorder captures replies sent by a command.
type recorder struct {
	replies []string
}

func (r *recorder) Reply(text string) error {
	r.replies = append(r.replies, text)
	return nil
}

type brokenStore struct{}

func (brokenStore) Authorize(context.Context, chat.Ref) (authstore.Result, error) {
	return authstore.Result{}, errors.New("backend unavailable")
}

func (brokenStore) IsAuthorized(context.Context, chat.Ref) (bool, error) {
	return false, errors.New("backend unavailable")
}

func (brokenStore) Snapshot(context.Context) (authstore.Snapshot, error) {
	return nil, errors.New("backend unavailable")
}

func groupRequest(args string) pkgcmd.Request {
	return pkgcmd.Request{ChatID: 100, ChatType: "group", Args: args}
}

func TestActivateGrantsAccessOnce(t *testing.T) {
	ctx := context.Background()
	store := authstore.NewMemory()
	cmd := NewActivateCommand(store, "s3cr3t", zerolog.Nop())

	rec := &recorder{}
	require.NoError(t, cmd.Execute(ctx, groupRequest("s3cr3t"), rec))
	require.Equal(t, []string{replyActivated}, rec.replies)

	ok, err := store.IsAuthorized(ctx, chat.Ref{ID: 100, Type: "group"})
	require.NoError(t, err)
	assert.True(t, ok)

	rec = &recorder{}
	require.NoError(t, cmd.Execute(ctx, groupRequest("s3cr3t"), rec))
	assert.Equal(t, []string{replyAlready}, rec.replies)
}

func TestActivateFailureReplies(t *testing.T) {
	tests := []struct {
		name  string
		code  string // configured server-side
		req   pkgcmd.Request
		reply string
	}{
		{name: "no code submitted", code: "s3cr3t", req: groupRequest("  "), reply: replyUsage},
		{name: "no code configured", code: "", req: groupRequest("anything"), reply: replyNoServerCode},
		{name: "wrong code", code: "s3cr3t", req: groupRequest("letmein"), reply: replyWrongCode},
		{
			name:  "unresolvable chat",
			code:  "s3cr3t",
			req:   pkgcmd.Request{ChatID: 0, Args: "s3cr3t"},
			reply: replyNoChat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := authstore.NewMemory()
			cmd := NewActivateCommand(store, tt.code, zerolog.Nop())

			rec := &recorder{}
			require.NoError(t, cmd.Execute(ctx, tt.req, rec))
			assert.Equal(t, []string{tt.reply}, rec.replies)

			// No failure path may write to the registry.
			snap, err := store.Snapshot(ctx)
			require.NoError(t, err)
			for _, class := range chat.Classes() {
				assert.Empty(t, snap[class])
			}
		})
	}
}

// Full activation round trip: chat 100 submits the right code and passes
// the gate afterwards, chat 200 stays locked out.
func TestActivationUnlocksGate(t *testing.T) {
	ctx := context.Background()
	store := authstore.NewMemory()
	g := gate.New(store, "s3cr3t", zerolog.Nop())
	cmd := NewActivateCommand(store, "s3cr3t", zerolog.Nop())

	locked := &chat.Ref{ID: 100, Type: "group"}
	assert.False(t, g.Admit(ctx, locked, false))
	// The activation command itself must get through.
	assert.True(t, g.Admit(ctx, locked, true))

	rec := &recorder{}
	require.NoError(t, cmd.Execute(ctx, groupRequest("s3cr3t"), rec))
	require.Equal(t, []string{replyActivated}, rec.replies)

	assert.True(t, g.Admit(ctx, locked, false))
	assert.False(t, g.Admit(ctx, &chat.Ref{ID: 200, Type: "group"}, false))
}

func TestActivateReportsStoreFailure(t *testing.T) {
	cmd := NewActivateCommand(brokenStore{}, "s3cr3t", zerolog.Nop())

	rec := &recorder{}
	require.NoError(t, cmd.Execute(context.Background(), groupRequest("s3cr3t"), rec))
	assert.Equal(t, []string{replyStoreFailure}, rec.replies)
}
