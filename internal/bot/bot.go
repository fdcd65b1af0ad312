// Package bot handles Telegram updates, enforces the authorization gate,
// and routes commands and review traffic.
package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/dmarkhas/lingobot/internal/chat"
	"github.com/dmarkhas/lingobot/internal/command"
	"github.com/dmarkhas/lingobot/internal/gate"
	"github.com/dmarkhas/lingobot/internal/review"
	pkgcmd "github.com/dmarkhas/lingobot/pkg/command"
)

// denialNotice is the fixed reply for unauthorized chats. Deliberately
// non-specific: it leaks neither the registry state nor the code.
const denialNotice = "🔐 This bot is locked. Ask an admin to run /activate <code>."

// fallbackUserName addresses senders that expose no usable name.
const fallbackUserName = "Usuario"

// Evaluator reviews a single chat message.
type Evaluator interface {
	Evaluate(ctx context.Context, userName, text string) (*review.Evaluation, error)
}

// Config holds dependencies for Bot construction.
type Config struct {
	Token       string
	PollTimeout int
	MarkAsReply bool
	Gate        *gate.Gate
	Registry    *command.Registry
	Reviewer    Evaluator
	Logger      zerolog.Logger
}

// Bot handles Telegram updates and routes them through the gate.
type Bot struct {
	api         *tgbotapi.BotAPI
	gate        *gate.Gate
	registry    *command.Registry
	reviewer    Evaluator
	markAsReply bool
	pollTimeout int
	log         zerolog.Logger
}

// New creates a Bot with the given dependencies.
func New(cfg Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	cfg.Logger.Info().Str("username", api.Self.UserName).Msg("authorized on telegram")

	registry := cfg.Registry
	if registry == nil {
		registry = command.NewRegistry()
	}

	return &Bot{
		api:         api,
		gate:        cfg.Gate,
		registry:    registry,
		reviewer:    cfg.Reviewer,
		markAsReply: cfg.MarkAsReply,
		pollTimeout: cfg.PollTimeout,
		log:         cfg.Logger,
	}, nil
}

// Run starts the bot's update loop. Blocks until context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info().Msg("bot stopped")
			return nil

		case update := <-updates:
			msg := update.Message
			if msg == nil {
				msg = update.ChannelPost
			}
			// Updates with no message carry no chat identity and
			// nothing to act on.
			if msg == nil {
				continue
			}

			if msg.IsCommand() {
				go b.handleCommand(ctx, msg)
				continue
			}
			if msg.Text != "" {
				go b.handleText(ctx, msg)
			}
		}
	}
}

// handleCommand gates and dispatches a single command message.
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	name := msg.Command()
	ref := chat.FromTelegram(msg.Chat)
	logger := b.log.With().Int64("chat_id", msg.Chat.ID).Str("command", name).Logger()

	cmd := b.registry.Get(name)
	bypass := cmd != nil && pkgcmd.BypassesGate(cmd)

	if !b.gate.Admit(ctx, ref, bypass) {
		b.sendText(msg.Chat.ID, denialNotice)
		return
	}

	if cmd == nil {
		logger.Debug().Msg("unknown command")
		b.sendText(msg.Chat.ID, fmt.Sprintf("Unknown command: /%s\nUse /help to see available commands.", name))
		return
	}

	req := pkgcmd.Request{
		ChatID:   msg.Chat.ID,
		ChatType: msg.Chat.Type,
		Sender:   displayName(msg.From),
		Args:     msg.CommandArguments(),
	}

	logger.Info().Msg("executing command")
	if err := cmd.Execute(ctx, req, b.responder(msg.Chat.ID)); err != nil {
		logger.Error().Err(err).Msg("command execution failed")
		b.sendText(msg.Chat.ID, fmt.Sprintf("Error: %v", err))
	}
}

// handleText gates a plain text message and runs it through the reviewer.
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	ref := chat.FromTelegram(msg.Chat)
	logger := b.log.With().Int64("chat_id", msg.Chat.ID).Int("message_id", msg.MessageID).Logger()

	if !b.gate.Admit(ctx, ref, false) {
		b.sendText(msg.Chat.ID, denialNotice)
		return
	}

	if b.reviewer == nil {
		return
	}

	ev, err := b.reviewer.Evaluate(ctx, displayName(msg.From), msg.Text)
	if err != nil {
		logger.Error().Err(err).Msg("message review failed")
		return
	}

	switch ev.Decision {
	case review.DecisionCorrection:
		reply := tgbotapi.NewMessage(msg.Chat.ID, ev.Correction.Message)
		reply.ParseMode = tgbotapi.ModeMarkdown
		if b.markAsReply {
			reply.ReplyToMessageID = msg.MessageID
		}
		if _, err := b.api.Send(reply); err != nil {
			logger.Error().Err(err).Msg("failed to send correction")
		}
	case review.DecisionIgnore:
		logger.Debug().Msg("model chose to ignore message")
	case review.DecisionNoIssues:
	}
}

// responder binds replies to the originating chat.
func (b *Bot) responder(chatID int64) pkgcmd.Responder {
	return &chatResponder{api: b.api, chatID: chatID}
}

type chatResponder struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func (r *chatResponder) Reply(text string) error {
	if _, err := r.api.Send(tgbotapi.NewMessage(r.chatID, text)); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// sendText sends a simple text message.
func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
	}
}

// displayName builds the name the reviewer addresses the sender by.
func displayName(from *tgbotapi.User) string {
	if from == nil {
		return fallbackUserName
	}
	full := strings.TrimSpace(strings.TrimSpace(from.FirstName) + " " + strings.TrimSpace(from.LastName))
	if full != "" {
		return full
	}
	if from.UserName != "" {
		return from.UserName
	}
	return fallbackUserName
}
