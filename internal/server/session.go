package server

import (
	"bufio"
	"errors"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Tyrowin/meshchat/internal/ui"
)

// readTimeout bounds each wait for client input. On expiry the session simply
// re-arms the read; it is a liveness bound, not a disconnect mechanism.
const readTimeout = 30 * time.Second

// sessionSendBuffer is the per-session outbound queue drained by the write
// goroutine. A session that cannot keep up has broadcasts dropped rather than
// stalling the room's consumer.
const sessionSendBuffer = 64

// Session owns one connection's read/write lifecycle: the nickname handshake,
// command interpretation, rate limiting, and the serialized write path. It
// moves through Connecting -> AwaitingNickname -> Active -> Closed and always
// leaves the room before releasing its socket.
type Session struct {
	conn   net.Conn
	reader *bufio.Reader
	room   *Room
	cfg    Config
	format *ui.Formatter
	addr   string

	nickname    string
	limiter     *rateWindow
	readTimeout time.Duration
	partial     string

	writeMu   sync.Mutex
	send      chan Message
	done      chan struct{}
	closeOnce sync.Once
}

// NewSession wraps an accepted connection. The session does nothing until Run
// is called.
func NewSession(conn net.Conn, room *Room, cfg Config) *Session {
	return &Session{
		conn:        conn,
		reader:      bufio.NewReader(conn),
		room:        room,
		cfg:         cfg,
		format:      ui.NewFormatter(cfg.PlainText),
		addr:        conn.RemoteAddr().String(),
		limiter:     newRateWindow(cfg.RateLimitMaxMessages, cfg.RateLimitWindow),
		readTimeout: readTimeout,
		send:        make(chan Message, sessionSendBuffer),
		done:        make(chan struct{}),
	}
}

// Nickname returns the name the session joined under, or "" before admission.
func (s *Session) Nickname() string { return s.nickname }

// Run drives the session to completion: handshake, active loop, teardown.
// It returns once the connection is closed and the room has been left.
func (s *Session) Run() {
	defer s.Close()
	go s.writeLoop()

	if !s.handshake() {
		return
	}
	s.readLoop()
}

// Close releases the session: leave the room first, then the socket, in that
// order, regardless of what triggered closure. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.room.Leave(s)
		close(s.done)
		if err := s.conn.Close(); err != nil && !isExpectedCloseError(err) {
			slog.Debug("error closing connection", "addr", s.addr, "error", err)
		}
	})
}

// handshake prompts for a nickname until one validates and wins the
// reservation race, then attempts room admission. It returns false when the
// session should close without entering the active loop.
func (s *Session) handshake() bool {
	s.write(s.format.Title("Welcome to MeshChat") + "\r\n\r\n")

	for {
		if err := s.write("Please enter your nickname: "); err != nil {
			return false
		}

		line, err := s.readLine(false)
		if err != nil {
			return false
		}
		nickname := strings.TrimSpace(line)

		if err := ValidateNickname(nickname, s.cfg); err != nil {
			s.write(err.Error() + "\r\n")
			continue
		}
		if !s.room.Reserve(nickname) {
			s.write((&NicknameTakenError{Nickname: nickname}).Error() + "\r\n")
			continue
		}

		s.nickname = nickname
		break
	}

	if err := s.room.Join(s); err != nil {
		// The reservation was already rolled back; the client never became
		// a member, so no leave announcement will follow.
		s.write(err.Error() + "\r\n")
		return false
	}

	s.sendWelcome()
	s.sendHistory()
	return true
}

func (s *Session) sendWelcome() {
	s.write(s.format.FormatBanner(ui.Banner) + "\r\n")
	s.write(s.format.WelcomeMessage(s.room.Name(), s.nickname) + "\r\n\r\n")
}

// sendHistory replays the room's buffered messages to a new joiner, bracketed
// by header and footer lines. Nothing is written when history is empty.
func (s *Session) sendHistory() {
	history := s.room.History()
	if len(history) == 0 {
		return
	}

	s.write(s.format.SystemMessage("--- Recent messages ---") + "\r\n")
	for _, msg := range history {
		s.write(s.renderMessage(msg) + "\r\n")
	}
	s.write(s.format.SystemMessage("--- End of history ---") + "\r\n\r\n")
}

// readLoop is the Active state: each line is an empty reprompt, an over-length
// rejection, a command, or an ordinary broadcast, with rate limiting applied
// to everything except /quit.
func (s *Session) readLoop() {
	s.write(ui.InputPrompt)

	for {
		line, err := s.readLine(true)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if !isExpectedCloseError(err) {
				slog.Warn("read error", "addr", s.addr, "nickname", s.nickname, "error", err)
			}
			return
		}

		message := strings.TrimSpace(strings.ToValidUTF8(line, ""))
		s.clearInputLine()

		if message == "" {
			s.write(ui.InputPrompt)
			continue
		}

		if utf8.RuneCountInString(message) > s.cfg.MaxMessageLength {
			s.sendSystemLine((&MessageTooLongError{Max: s.cfg.MaxMessageLength}).Error())
			s.write(ui.InputPrompt)
			continue
		}

		if !strings.HasPrefix(message, "/quit") && !s.limiter.allow() {
			s.sendSystemLine(ErrRateLimited.Error())
			s.write(ui.InputPrompt)
			continue
		}

		if strings.HasPrefix(message, "/") {
			if s.handleCommand(message) {
				return
			}
		} else {
			s.room.Broadcast(NewMessage(s.nickname, message, KindNormal))
		}

		s.write(ui.InputPrompt)
	}
}

// handleCommand dispatches a /-prefixed line. It returns true when the
// session should close (/quit).
func (s *Session) handleCommand(cmd string) bool {
	parts := strings.SplitN(cmd, " ", 2)
	command := strings.ToLower(parts[0])

	switch command {
	case "/who":
		names := s.room.MemberNames()
		s.write(s.format.UserList(s.room.Name(), names, s.room.MaxUsers()) + "\r\n")
	case "/me":
		if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
			s.sendSystemLine("Usage: /me <action>")
		} else {
			s.room.Broadcast(NewMessage(s.nickname, parts[1], KindAction))
		}
	case "/help":
		s.write(s.format.Help() + "\r\n")
	case "/quit":
		s.sendSystemLine("Goodbye!")
		return true
	default:
		s.sendSystemLine("Unknown command. Type /help for available commands.")
	}
	return false
}

// readLine reads one newline-terminated line. With timed set, the wait is
// bounded by the session's read timeout and a timeout error is returned for
// the caller to re-arm; bytes already received when the timeout fires are
// retained and prepended to the next read, so a line typed slowly across
// expiries arrives intact. Without timed, the read blocks until input or
// connection closure.
func (s *Session) readLine(timed bool) (string, error) {
	deadline := time.Time{}
	if timed {
		deadline = time.Now().Add(s.readTimeout)
	}
	if err := s.conn.SetReadDeadline(deadline); err != nil {
		return "", err
	}

	line, err := s.reader.ReadString('\n')
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			s.partial += line
		}
		return "", err
	}
	line = s.partial + line
	s.partial = ""
	return line, nil
}

// clearInputLine erases the echo of the client's just-typed line so the
// rendered message replaces it.
func (s *Session) clearInputLine() {
	if s.cfg.PlainText {
		return
	}
	s.write(ui.CursorUp + ui.ClearLine + ui.CursorToStart)
}

// sendSystemLine writes a server notice to this client only, without going
// through the room.
func (s *Session) sendSystemLine(content string) {
	s.write(s.format.SystemMessage(content) + "\r\n")
}

// enqueue hands a broadcast message to the session's write goroutine. It
// never blocks; it reports false when the session is closed or its buffer is
// full.
func (s *Session) enqueue(msg Message) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.send <- msg:
		return true
	default:
		return false
	}
}

// writeLoop drains the outbound queue onto the socket. A normal broadcast
// delivery and a local command reply can race on the same connection, so both
// funnel through write's mutex.
func (s *Session) writeLoop() {
	for {
		select {
		case <-s.done:
			return
		case msg := <-s.send:
			if err := s.write(s.renderMessage(msg) + "\r\n"); err != nil {
				if !isExpectedCloseError(err) {
					slog.Warn("write error", "addr", s.addr, "nickname", s.nickname, "error", err)
				}
				// Unblock the read loop so the session tears down promptly.
				_ = s.conn.Close()
				return
			}
		}
	}
}

func (s *Session) renderMessage(msg Message) string {
	switch msg.Kind {
	case KindSystem:
		return s.format.SystemMessage(msg.Body)
	case KindAction:
		return s.format.ActionMessage(msg.From, msg.Body)
	default:
		return s.format.UserMessage(msg.From, msg.Body, msg.Timestamp.Format("15:04:05"))
	}
}

// write serializes all output to the connection behind one mutex.
func (s *Session) write(text string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.conn.Write([]byte(text))
	return err
}
