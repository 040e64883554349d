package server

import (
	"time"

	"github.com/google/uuid"
)

// MessageKind distinguishes ordinary chat lines from server announcements and
// "/me" emotes.
type MessageKind int

const (
	KindNormal MessageKind = iota
	KindSystem
	KindAction
)

// Message is an immutable chat event. It is created once, by a session or by
// the room itself, and never mutated afterwards; it lives only in the history
// buffer and transient delivery queues.
type Message struct {
	ID        uuid.UUID
	From      string
	Body      string
	Timestamp time.Time
	Kind      MessageKind
}

// NewMessage stamps a message with a fresh ID and the current time.
func NewMessage(from, body string, kind MessageKind) Message {
	return Message{
		ID:        uuid.New(),
		From:      from,
		Body:      body,
		Timestamp: time.Now(),
		Kind:      kind,
	}
}

func systemMessage(body string) Message {
	return NewMessage(reservedNickname, body, KindSystem)
}
