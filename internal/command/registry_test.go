package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	pkgcmd "github.com/dmarkhas/lingobot/pkg/command"
)

type fakeCommand struct {
	name    string
	ungated bool
}

func (f *fakeCommand) Name() string        { return f.name }
func (f *fakeCommand) Description() string { return "fake" }
func (f *fakeCommand) Execute(context.Context, pkgcmd.Request, pkgcmd.Responder) error {
	return nil
}
func (f *fakeCommand) Ungated() bool { return f.ungated }

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("missing"))

	cmd := &fakeCommand{name: "activate"}
	r.Register(cmd)
	assert.Same(t, cmd, r.Get("activate"))
}

func TestRegistryAllSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeCommand{name: "status"})
	r.Register(&fakeCommand{name: "activate"})
	r.Register(&fakeCommand{name: "help"})

	var names []string
	for _, cmd := range r.All() {
		names = append(names, cmd.Name())
	}
	assert.Equal(t, []string{"activate", "help", "status"}, names)
}

func TestBypassesGate(t *testing.T) {
	assert.True(t, pkgcmd.BypassesGate(&fakeCommand{name: "activate", ungated: true}))
	assert.False(t, pkgcmd.BypassesGate(&fakeCommand{name: "help", ungated: false}))
}
