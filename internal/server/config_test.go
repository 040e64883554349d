package server_test

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tyrowin/meshchat/internal/server"
)

func TestDefaultConfig(t *testing.T) {
	cfg := server.DefaultConfig()

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 2323, cfg.Port)
	assert.Equal(t, "Chat Room", cfg.RoomName)
	assert.Equal(t, 10, cfg.MaxUsers)
	assert.False(t, cfg.EnableHistory)
	assert.Equal(t, 50, cfg.HistorySize)
	assert.False(t, cfg.PlainText)
	assert.Equal(t, 1000, cfg.MaxMessageLength)
	assert.Equal(t, 5, cfg.RateLimitMaxMessages)
	assert.Equal(t, 5*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, 2, cfg.NicknameMinLen)
	assert.Equal(t, 20, cfg.NicknameMaxLen)
}

func TestConfigAddr(t *testing.T) {
	cfg := server.DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 4000

	assert.Equal(t, "127.0.0.1:4000", cfg.Addr())
}

// TestFromViperUsesDefaults verifies that an untouched viper instance
// resolves to the default configuration.
func TestFromViperUsesDefaults(t *testing.T) {
	v := viper.New()
	server.SetDefaults(v)

	assert.Equal(t, server.DefaultConfig(), server.FromViper(v))
}

// TestFromViperOverrides verifies that explicitly set keys flow into the
// resulting config.
func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	server.SetDefaults(v)
	v.Set("room-name", "Ops")
	v.Set("max-users", 3)
	v.Set("history", true)
	v.Set("rate-limit-window-seconds", 2)

	cfg := server.FromViper(v)
	assert.Equal(t, "Ops", cfg.RoomName)
	assert.Equal(t, 3, cfg.MaxUsers)
	assert.True(t, cfg.EnableHistory)
	assert.Equal(t, 2*time.Second, cfg.RateLimitWindow)
}

// TestFromViperEnvOverride verifies the MESHCHAT_ environment variable path.
func TestFromViperEnvOverride(t *testing.T) {
	t.Setenv("MESHCHAT_MAX_USERS", "25")
	t.Setenv("MESHCHAT_ROOM_NAME", "Lobby")

	v := viper.New()
	v.SetEnvPrefix("meshchat")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	server.SetDefaults(v)

	cfg := server.FromViper(v)
	assert.Equal(t, 25, cfg.MaxUsers)
	assert.Equal(t, "Lobby", cfg.RoomName)
}

// TestFromViperSanitizesBadValues verifies that unusable values are clamped
// back to defaults rather than producing a broken server.
func TestFromViperSanitizesBadValues(t *testing.T) {
	v := viper.New()
	server.SetDefaults(v)
	v.Set("port", -1)
	v.Set("max-users", 0)
	v.Set("history-size", -10)
	v.Set("max-message-length", 0)
	v.Set("rate-limit-max-messages", -1)
	v.Set("rate-limit-window-seconds", 0)
	v.Set("nickname-min-len", 0)
	v.Set("nickname-max-len", -3)

	def := server.DefaultConfig()
	cfg := server.FromViper(v)
	require.Equal(t, def.Port, cfg.Port)
	assert.Equal(t, def.MaxUsers, cfg.MaxUsers)
	assert.Equal(t, def.HistorySize, cfg.HistorySize)
	assert.Equal(t, def.MaxMessageLength, cfg.MaxMessageLength)
	assert.Equal(t, def.RateLimitMaxMessages, cfg.RateLimitMaxMessages)
	assert.Equal(t, def.RateLimitWindow, cfg.RateLimitWindow)
	assert.Equal(t, def.NicknameMinLen, cfg.NicknameMinLen)
	assert.Equal(t, def.NicknameMaxLen, cfg.NicknameMaxLen)
}

// TestFromViperLiftsMaxLenToMinLen verifies that raising the nickname minimum
// above the default maximum lifts the maximum with it, so valid nicknames
// still exist.
func TestFromViperLiftsMaxLenToMinLen(t *testing.T) {
	v := viper.New()
	server.SetDefaults(v)
	v.Set("nickname-min-len", 30)

	cfg := server.FromViper(v)
	assert.Equal(t, 30, cfg.NicknameMinLen)
	assert.Equal(t, 30, cfg.NicknameMaxLen)
}
