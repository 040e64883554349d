package server

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// broadcastQueueSize bounds the pending-delivery queue. Producers enqueue
// without waiting on recipients; a single consumer drains in FIFO order.
const broadcastQueueSize = 256

// Room is the single source of truth for membership, ordered broadcast, and
// message history. The members map holds a nil session for a nickname that is
// reserved but not yet fully joined, and the live session once joined. All
// membership reads and writes happen under one mutex.
type Room struct {
	name          string
	maxUsers      int
	enableHistory bool
	historySize   int

	mu      sync.Mutex
	members map[string]*Session
	history []Message

	queue  chan Message
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRoom creates a room configured by cfg. The broadcast consumer does not
// run until Start is called.
func NewRoom(cfg Config) *Room {
	ctx, cancel := context.WithCancel(context.Background())
	return &Room{
		name:          cfg.RoomName,
		maxUsers:      cfg.MaxUsers,
		enableHistory: cfg.EnableHistory,
		historySize:   cfg.HistorySize,
		members:       make(map[string]*Session),
		queue:         make(chan Message, broadcastQueueSize),
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
	}
}

// Name returns the room's display name.
func (r *Room) Name() string { return r.name }

// MaxUsers returns the room's configured capacity.
func (r *Room) MaxUsers() int { return r.maxUsers }

// Start launches the broadcast consumer goroutine.
func (r *Room) Start() {
	go r.run()
}

// Stop cancels the broadcast consumer and waits for it to exit. Messages
// still queued at that point are discarded.
func (r *Room) Stop() {
	r.cancel()
	<-r.done
}

// run drains the broadcast queue strictly in FIFO order. Having exactly one
// consumer is what guarantees that every member observes broadcasts in the
// same relative order.
func (r *Room) run() {
	defer close(r.done)
	for {
		select {
		case <-r.ctx.Done():
			return
		case msg := <-r.queue:
			r.deliver(msg)
		}
	}
}

// Reserve atomically claims a nickname with no session attached. It returns
// false without side effects if the name is already present, so two
// concurrent claims on the same name resolve to exactly one winner.
func (r *Room) Reserve(nickname string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.members[nickname]; exists {
		return false
	}
	r.members[nickname] = nil
	return true
}

// Join promotes the session's reserved nickname to a live membership. If the
// room is already at capacity the reservation is removed and ErrRoomFull is
// returned; the caller must not treat the client as a member afterwards. The
// capacity check and the mutation happen under one lock so concurrent joins
// cannot overshoot the limit.
func (r *Room) Join(s *Session) error {
	r.mu.Lock()
	live := 0
	for _, member := range r.members {
		if member != nil {
			live++
		}
	}
	if live >= r.maxUsers {
		delete(r.members, s.nickname)
		r.mu.Unlock()
		return ErrRoomFull
	}
	r.members[s.nickname] = s
	r.mu.Unlock()

	r.Broadcast(systemMessage(fmt.Sprintf("%s has joined the room", s.nickname)))
	return nil
}

// Leave removes the session's membership and announces the departure. It is
// idempotent: only the call that actually removes the entry broadcasts, and
// an entry claimed since by a different session is left untouched.
func (r *Room) Leave(s *Session) {
	r.mu.Lock()
	member, present := r.members[s.nickname]
	removed := present && member == s
	if removed {
		delete(r.members, s.nickname)
	}
	r.mu.Unlock()

	if removed {
		r.Broadcast(systemMessage(fmt.Sprintf("%s has left the room", s.nickname)))
	}
}

// Broadcast enqueues a message for ordered delivery to all members. It never
// waits on individual recipients; after Stop, messages are dropped.
func (r *Room) Broadcast(msg Message) {
	select {
	case r.queue <- msg:
	case <-r.ctx.Done():
	}
}

// deliver appends one message to history and fans it out to a snapshot of the
// currently live sessions. A recipient whose outbound buffer is full is
// skipped and logged; the rest of the batch is unaffected.
func (r *Room) deliver(msg Message) {
	r.mu.Lock()
	if r.enableHistory {
		r.history = append(r.history, msg)
		if len(r.history) > r.historySize {
			r.history = r.history[len(r.history)-r.historySize:]
		}
	}
	sessions := make([]*Session, 0, len(r.members))
	for _, member := range r.members {
		if member != nil {
			sessions = append(sessions, member)
		}
	}
	r.mu.Unlock()

	for _, s := range sessions {
		if !s.enqueue(msg) {
			slog.Warn("dropping broadcast for unresponsive client",
				"id", msg.ID, "from", msg.From, "addr", s.addr, "nickname", s.nickname)
		}
	}
}

// History returns a point-in-time copy of the history buffer, oldest first.
func (r *Room) History() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Message, len(r.history))
	copy(out, r.history)
	return out
}

// MemberNames returns a sorted snapshot of all reserved and joined nicknames.
func (r *Room) MemberNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.members))
	for name := range r.members {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
