package ui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tyrowin/meshchat/internal/ui"
)

func TestPlainTextVariants(t *testing.T) {
	f := ui.NewFormatter(true)

	assert.Equal(t, "[System] Alice has joined the room", f.SystemMessage("Alice has joined the room"))
	assert.Equal(t, "[12:30:45] Alice: hello", f.UserMessage("Alice", "hello", "12:30:45"))
	assert.Equal(t, "* Alice waves", f.ActionMessage("Alice", "waves"))
	assert.Equal(t, "=== Welcome to MeshChat ===", f.Title("Welcome to MeshChat"))
	assert.Equal(t, ui.Banner, f.FormatBanner(ui.Banner))
}

func TestPlainTextWelcome(t *testing.T) {
	f := ui.NewFormatter(true)

	welcome := f.WelcomeMessage("Chat Room", "Alice")
	assert.Contains(t, welcome, "Welcome to Chat Room, Alice!")
	assert.Contains(t, welcome, "/help")
}

func TestPlainTextUserList(t *testing.T) {
	f := ui.NewFormatter(true)

	list := f.UserList("Chat Room", []string{"Alice", "Bob"}, 10)
	assert.Equal(t, "Users in Chat Room (2/10):\n- Alice\n- Bob", list)
}

func TestPlainTextHelp(t *testing.T) {
	f := ui.NewFormatter(true)

	help := f.Help()
	for _, cmd := range []string{"/who", "/me <action>", "/help", "/quit"} {
		assert.Contains(t, help, cmd)
	}
	assert.NotContains(t, help, "\033[")
}

// TestDecoratedVariantsCarryEscapes checks that the decorated mode wraps
// output in ANSI sequences and still contains the payload text.
func TestDecoratedVariantsCarryEscapes(t *testing.T) {
	f := ui.NewFormatter(false)

	tests := []struct {
		name    string
		line    string
		payload string
	}{
		{name: "system", line: f.SystemMessage("server restarting"), payload: "server restarting"},
		{name: "user", line: f.UserMessage("Alice", "hello", "12:30:45"), payload: "hello"},
		{name: "action", line: f.ActionMessage("Alice", "waves"), payload: "* Alice waves"},
		{name: "title", line: f.Title("Welcome"), payload: "=== Welcome ==="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.line, "\033[")
			assert.Contains(t, tt.line, "\033[0m")
			assert.Contains(t, tt.line, tt.payload)
		})
	}
}

// TestUserColorIsStable checks that the same username always renders with the
// same color, and that coloring varies across users.
func TestUserColorIsStable(t *testing.T) {
	f := ui.NewFormatter(false)

	first := f.UserMessage("Alice", "hi", "12:00:00")
	second := f.UserMessage("Alice", "hi", "12:00:00")
	assert.Equal(t, first, second)
}
