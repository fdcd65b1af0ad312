package builtin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmarkhas/lingobot/internal/authstore"
	"github.com/dmarkhas/lingobot/internal/chat"
	"github.com/dmarkhas/lingobot/internal/status"
	pkgcmd "github.com/dmarkhas/lingobot/pkg/command"
)

// StatusCommand shows host resource usage and registry counters.
type StatusCommand struct {
	collector status.Collector
	store     authstore.Store
}

// NewStatusCommand creates a status command.
func NewStatusCommand(collector status.Collector, store authstore.Store) *StatusCommand {
	return &StatusCommand{collector: collector, store: store}
}

// Name returns "status".
func (s *StatusCommand) Name() string {
	return "status"
}

// Description returns the status description.
func (s *StatusCommand) Description() string {
	return "Show host and bot status"
}

// Execute collects and replies with system metrics and authorized chat
// counts per class.
func (s *StatusCommand) Execute(ctx context.Context, req pkgcmd.Request, reply pkgcmd.Responder) error {
	metrics, err := s.collector.Collect(ctx)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("Bot Status\n──────────\n\n")
	fmt.Fprintf(&b, "CPU:    %5.1f%%\n", metrics.CPUPercent)
	fmt.Fprintf(&b, "Memory: %5.1f%% (%s / %s)\n",
		metrics.MemoryPercent,
		formatBytes(metrics.MemoryUsed),
		formatBytes(metrics.MemoryTotal),
	)
	fmt.Fprintf(&b, "Uptime: %s\n", (time.Duration(metrics.UptimeSeconds) * time.Second).String())

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("read authorization snapshot: %w", err)
	}
	b.WriteString("\nAuthorized chats:\n")
	for _, class := range chat.Classes() {
		fmt.Fprintf(&b, "  %-8s %d\n", class+":", len(snap[class]))
	}

	return reply.Reply(b.String())
}

// formatBytes converts bytes to human-readable format.
func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
