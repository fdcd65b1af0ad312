package builtin

import (
	"context"
	"fmt"

	"github.com/dmarkhas/lingobot/internal/version"
	pkgcmd "github.com/dmarkhas/lingobot/pkg/command"
)

// VersionCommand shows the current bot version.
type VersionCommand struct{}

// NewVersionCommand creates a version command.
func NewVersionCommand() *VersionCommand {
	return &VersionCommand{}
}

// Name returns "version".
func (v *VersionCommand) Name() string {
	return "version"
}

// Description returns the version command description.
func (v *VersionCommand) Description() string {
	return "Show current bot version"
}

// Execute replies with the version information.
func (v *VersionCommand) Execute(ctx context.Context, req pkgcmd.Request, reply pkgcmd.Responder) error {
	text := fmt.Sprintf("Version:    %s\nCommit:     %s\nBuild Date: %s",
		version.Version, version.Commit, version.BuildDate)
	return reply.Reply(text)
}
