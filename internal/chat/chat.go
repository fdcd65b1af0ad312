// Package chat classifies Telegram chats into the three classes the
// authorization registry is keyed by.
package chat

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Class is the authorization class of a conversation surface.
type Class string

const (
	// ClassChat is a 1:1 (private) conversation.
	ClassChat Class = "chat"
	// ClassGroup covers Telegram groups and supergroups.
	ClassGroup Class = "group"
	// ClassChannel is a broadcast channel.
	ClassChannel Class = "channel"
)

// Classes lists all classes in a stable order.
func Classes() []Class {
	return []Class{ClassChat, ClassGroup, ClassChannel}
}

// Ref identifies a chat as reported by the transport. ID is an opaque
// signed 64-bit identifier (negative for groups and channels). Type is the
// raw transport type string and may be empty.
type Ref struct {
	ID   int64
	Type string
}

// Classify maps a chat ref to its class. Total: unknown or empty type
// strings classify as ClassChat.
func Classify(ref Ref) Class {
	switch ref.Type {
	case "group", "supergroup":
		return ClassGroup
	case "channel":
		return ClassChannel
	default:
		return ClassChat
	}
}

// FromTelegram extracts a Ref from a Telegram chat. Returns nil when the
// update carries no chat, so callers can treat "no identity" explicitly.
func FromTelegram(c *tgbotapi.Chat) *Ref {
	if c == nil {
		return nil
	}
	return &Ref{ID: c.ID, Type: c.Type}
}
