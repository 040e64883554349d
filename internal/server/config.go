package server

import (
	"net"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config holds the runtime settings for the chat service: where to listen,
// room identity and capacity, history, output mode, and the policy limits
// applied to each session.
type Config struct {
	Host     string
	Port     int
	RoomName string

	MaxUsers      int
	EnableHistory bool
	HistorySize   int
	PlainText     bool

	MaxMessageLength     int
	RateLimitMaxMessages int
	RateLimitWindow      time.Duration
	NicknameMinLen       int
	NicknameMaxLen       int
}

// DefaultConfig returns the configuration used when no overrides are given.
func DefaultConfig() Config {
	return Config{
		Host:                 "0.0.0.0",
		Port:                 2323,
		RoomName:             "Chat Room",
		MaxUsers:             10,
		EnableHistory:        false,
		HistorySize:          50,
		PlainText:            false,
		MaxMessageLength:     1000,
		RateLimitMaxMessages: 5,
		RateLimitWindow:      5 * time.Second,
		NicknameMinLen:       2,
		NicknameMaxLen:       20,
	}
}

// SetDefaults registers every configuration key with its default value so
// environment variables and flags can selectively override them.
func SetDefaults(v *viper.Viper) {
	def := DefaultConfig()

	v.SetDefault("host", def.Host)
	v.SetDefault("port", def.Port)
	v.SetDefault("room-name", def.RoomName)
	v.SetDefault("max-users", def.MaxUsers)
	v.SetDefault("history", def.EnableHistory)
	v.SetDefault("history-size", def.HistorySize)
	v.SetDefault("plain-text", def.PlainText)
	v.SetDefault("log-level", "info")
	v.SetDefault("max-message-length", def.MaxMessageLength)
	v.SetDefault("rate-limit-max-messages", def.RateLimitMaxMessages)
	v.SetDefault("rate-limit-window-seconds", int(def.RateLimitWindow/time.Second))
	v.SetDefault("nickname-min-len", def.NicknameMinLen)
	v.SetDefault("nickname-max-len", def.NicknameMaxLen)
}

// FromViper builds a Config from the resolved viper state (defaults, then
// environment, then explicitly set flags) and sanitizes it.
func FromViper(v *viper.Viper) Config {
	cfg := Config{
		Host:                 v.GetString("host"),
		Port:                 v.GetInt("port"),
		RoomName:             v.GetString("room-name"),
		MaxUsers:             v.GetInt("max-users"),
		EnableHistory:        v.GetBool("history"),
		HistorySize:          v.GetInt("history-size"),
		PlainText:            v.GetBool("plain-text"),
		MaxMessageLength:     v.GetInt("max-message-length"),
		RateLimitMaxMessages: v.GetInt("rate-limit-max-messages"),
		RateLimitWindow:      time.Duration(v.GetInt("rate-limit-window-seconds")) * time.Second,
		NicknameMinLen:       v.GetInt("nickname-min-len"),
		NicknameMaxLen:       v.GetInt("nickname-max-len"),
	}
	return sanitizeConfig(cfg)
}

// sanitizeConfig clamps unusable values back to their defaults so a bad
// environment variable cannot produce a server that rejects everything.
func sanitizeConfig(cfg Config) Config {
	def := DefaultConfig()

	if cfg.Port <= 0 || cfg.Port > 65535 {
		cfg.Port = def.Port
	}
	if cfg.RoomName == "" {
		cfg.RoomName = def.RoomName
	}
	if cfg.MaxUsers <= 0 {
		cfg.MaxUsers = def.MaxUsers
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = def.HistorySize
	}
	if cfg.MaxMessageLength <= 0 {
		cfg.MaxMessageLength = def.MaxMessageLength
	}
	if cfg.RateLimitMaxMessages <= 0 {
		cfg.RateLimitMaxMessages = def.RateLimitMaxMessages
	}
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = def.RateLimitWindow
	}
	if cfg.NicknameMinLen <= 0 {
		cfg.NicknameMinLen = def.NicknameMinLen
	}
	if cfg.NicknameMaxLen <= 0 {
		cfg.NicknameMaxLen = def.NicknameMaxLen
	}
	// A raised min must lift the max with it, or every nickname would be
	// rejected as both too short and too long.
	if cfg.NicknameMaxLen < cfg.NicknameMinLen {
		cfg.NicknameMaxLen = cfg.NicknameMinLen
	}
	return cfg
}

// Addr returns the host:port string the listener binds to.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
