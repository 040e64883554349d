// Package ui renders chat events as terminal-ready text. Every formatter
// method is a pure function of its inputs and produces either a plain-text or
// an ANSI-decorated variant depending on configuration.
package ui

import (
	"fmt"
	"strings"
)

// Formatter renders messages and structural events (welcome, user list, help,
// title) for one client. PlainText disables all ANSI decoration.
type Formatter struct {
	PlainText bool
}

// NewFormatter returns a Formatter for the given output mode.
func NewFormatter(plainText bool) *Formatter {
	return &Formatter{PlainText: plainText}
}

// userColor picks a stable color for a username so the same user is rendered
// with the same color on every client.
func userColor(username string) string {
	hash := 0
	i := 0
	for _, c := range username {
		hash += int(c) * (i*7 + 13)
		i++
	}
	return userColors[hash%len(userColors)]
}

// SystemMessage renders a server-originated announcement.
func (f *Formatter) SystemMessage(message string) string {
	if f.PlainText {
		return fmt.Sprintf("[System] %s", message)
	}
	return fmt.Sprintf("%s%s[System]%s %s%s%s", systemColor, bold, reset, systemColor, message, reset)
}

// UserMessage renders an ordinary chat line with its timestamp.
func (f *Formatter) UserMessage(username, message, timestamp string) string {
	if f.PlainText {
		return fmt.Sprintf("[%s] %s: %s", timestamp, username, message)
	}
	color := userColor(username)
	return fmt.Sprintf("%s[%s]%s %s%s%s:%s %s", dim, timestamp, reset, color, bold, username, reset, message)
}

// ActionMessage renders a "/me" style emote.
func (f *Formatter) ActionMessage(username, action string) string {
	if f.PlainText {
		return fmt.Sprintf("* %s %s", username, action)
	}
	color := userColor(username)
	return fmt.Sprintf("%s%s* %s %s%s", color, italic, username, action, reset)
}

// Title renders a section heading.
func (f *Formatter) Title(title string) string {
	if f.PlainText {
		return fmt.Sprintf("=== %s ===", title)
	}
	return fmt.Sprintf("%s%s=== %s ===%s", accentColor, bold, title, reset)
}

// FormatBanner renders the ASCII banner.
func (f *Formatter) FormatBanner(banner string) string {
	if f.PlainText {
		return banner
	}
	return fmt.Sprintf("%s%s%s%s", systemColor, bold, banner, reset)
}

// WelcomeMessage renders the greeting shown after a successful join.
func (f *Formatter) WelcomeMessage(roomName, nickname string) string {
	if f.PlainText {
		return fmt.Sprintf("Welcome to %s, %s!\n\nType a message and press Enter to send. Use /help to see available commands.", roomName, nickname)
	}
	return fmt.Sprintf("%s%sWelcome to %s%s%s, %s!%s\n\nType a message and press Enter to send. Use /help to see available commands.",
		accentColor, bold, infoColor, roomName, accentColor, nickname, reset)
}

// Help renders the static command summary.
func (f *Formatter) Help() string {
	if f.PlainText {
		return strings.Join([]string{
			"Available Commands:",
			"/who - Show all users in the room",
			"/me <action> - Perform an action",
			"/help - Show this help message",
			"/quit - Leave the chat",
		}, "\n")
	}
	return strings.Join([]string{
		accentColor + bold + "Available Commands:" + reset,
		infoColor + bold + "/who" + reset + " - Show all users in the room",
		infoColor + bold + "/me <action>" + reset + " - Perform an action",
		infoColor + bold + "/help" + reset + " - Show this help message",
		infoColor + bold + "/quit" + reset + " - Leave the chat",
	}, "\n")
}

// UserList renders the "/who" output: room name, member count, capacity, and
// one line per member.
func (f *Formatter) UserList(roomName string, users []string, maxUsers int) string {
	var b strings.Builder
	if f.PlainText {
		fmt.Fprintf(&b, "Users in %s (%d/%d):\n", roomName, len(users), maxUsers)
		for _, user := range users {
			fmt.Fprintf(&b, "- %s\n", user)
		}
		return strings.TrimRight(b.String(), "\n")
	}
	fmt.Fprintf(&b, "%s%sUsers in %s %s(%d/%d):%s\n", accentColor, bold, roomName, infoColor, len(users), maxUsers, reset)
	for _, user := range users {
		fmt.Fprintf(&b, "%s- %s%s%s%s%s\n", dim, reset, userColor(user), bold, user, reset)
	}
	return strings.TrimRight(b.String(), "\n")
}
