package builtin

import (
	"context"
	"fmt"
	"strings"

	pkgcmd "github.com/dmarkhas/lingobot/pkg/command"
)

// CommandLister returns all available commands.
type CommandLister interface {
	All() []pkgcmd.Command
}

// HelpCommand lists all available commands.
type HelpCommand struct {
	lister CommandLister
}

// NewHelpCommand creates a help command.
func NewHelpCommand(lister CommandLister) *HelpCommand {
	return &HelpCommand{lister: lister}
}

// Name returns "help".
func (h *HelpCommand) Name() string {
	return "help"
}

// Description returns the help description.
func (h *HelpCommand) Description() string {
	return "List available commands"
}

// Execute replies with the list of commands.
func (h *HelpCommand) Execute(ctx context.Context, req pkgcmd.Request, reply pkgcmd.Responder) error {
	var b strings.Builder
	b.WriteString("Available commands:\n\n")
	for _, cmd := range h.lister.All() {
		fmt.Fprintf(&b, "/%s - %s\n", cmd.Name(), cmd.Description())
	}
	return reply.Reply(b.String())
}
