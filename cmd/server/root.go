package main

import (
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Tyrowin/meshchat/internal/server"
)

// shutdownTimeout bounds how long graceful shutdown waits for sessions to
// finish before giving up.
const shutdownTimeout = 10 * time.Second

var rootCmd = &cobra.Command{
	Use:   "meshchat-server",
	Short: "Multi-user line-oriented chat server with a single broadcast room",
	Long: `MeshChat is a telnet-style chat service: clients connect over raw TCP,
pick a nickname, and exchange newline-delimited messages broadcast to
everyone in the room. Connect with: nc <host> <port>`,
	Args: cobra.NoArgs,
	RunE: runServer,
}

func init() {
	def := server.DefaultConfig()

	flags := rootCmd.Flags()
	flags.String("host", def.Host, "host to bind to")
	flags.Int("port", def.Port, "TCP port to listen on")
	flags.String("room-name", def.RoomName, "chat room name")
	flags.Int("max-users", def.MaxUsers, "maximum concurrent users")
	flags.Bool("history", def.EnableHistory, "enable message history")
	flags.Int("history-size", def.HistorySize, "number of messages kept in history")
	flags.Bool("plain-text", def.PlainText, "disable ANSI formatting")
	flags.String("log-level", "info", "logging level (debug, info, warn, error)")

	// Env vars override defaults, explicitly set flags override env:
	// MESHCHAT_MAX_USERS=25 maps to the max-users key.
	viper.SetEnvPrefix("meshchat")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	server.SetDefaults(viper.GetViper())
	cobra.CheckErr(viper.BindPFlags(flags))
}

func runServer(_ *cobra.Command, _ []string) error {
	configureLogging(viper.GetString("log-level"))
	cfg := server.FromViper(viper.GetViper())

	listener := server.NewListener(cfg)
	if err := listener.Start(); err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	slog.Info("received shutdown signal")

	return listener.Shutdown(shutdownTimeout)
}

func configureLogging(level string) {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}
