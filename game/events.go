package game

import (
	"fmt"
	"sync"
	"time"
)

type EventType string

const (
	EventHint  EventType = "hint"
	EventGuess EventType = "guess"
	EventPass  EventType = "pass"
	EventChat  EventType = "chat"
)

// Event is one immutable ledger record. Exactly one payload field is set,
// matching Type.
type Event struct {
	Type    EventType   `json:"type"`
	Team    TeamColor   `json:"team"`
	Role    PlayerRole  `json:"role"`
	Actor   Actor       `json:"actor"`
	At      time.Time   `json:"at"`
	Hint    *GivenHint  `json:"hint,omitempty"`
	Guess   *GivenGuess `json:"guess,omitempty"`
	Message string      `json:"message,omitempty"`
}

func (e Event) String() string {
	switch e.Type {
	case EventHint:
		return fmt.Sprintf("[%s] %s hint: %s", e.Team, e.Actor, e.Hint)
	case EventGuess:
		return fmt.Sprintf("[%s] %s guess: %s", e.Team, e.Actor, e.Guess)
	case EventPass:
		return fmt.Sprintf("[%s] %s passed turn", e.Team, e.Actor)
	case EventChat:
		return fmt.Sprintf("[%s] %s (%s): %s", e.Team, e.Actor, e.Role, e.Message)
	}
	return fmt.Sprintf("[%s] %s %s", e.Team, e.Actor, e.Type)
}

// TeamHistory keeps one team's events, fanned out by kind plus the team's
// own chronological stream. Slices only ever grow.
type TeamHistory struct {
	Team    TeamColor `json:"team"`
	Hints   []Event   `json:"hints"`
	Guesses []Event   `json:"guesses"`
	Chats   []Event   `json:"chats"`
	Passes  []Event   `json:"passes"`
	All     []Event   `json:"all"`
}

func (h *TeamHistory) add(e Event) {
	switch e.Type {
	case EventHint:
		h.Hints = append(h.Hints, e)
	case EventGuess:
		h.Guesses = append(h.Guesses, e)
	case EventChat:
		h.Chats = append(h.Chats, e)
	case EventPass:
		h.Passes = append(h.Passes, e)
	}
	h.All = append(h.All, e)
}

// History is the append-only event ledger: per-team buckets plus a merged
// global timeline, all preserving insertion order. Records are never
// rewritten or removed; this is the sole audit trail for replay,
// spectating and summaries.
//
// Appends additionally fan out to subscribers (see Subscribe); a slow
// subscriber loses events rather than stalling the writer.
type History struct {
	mu     sync.RWMutex
	blue   TeamHistory
	red    TeamHistory
	global []Event
	subs   map[chan Event]struct{}
}

func NewHistory() *History {
	return &History{
		blue: TeamHistory{Team: Blue},
		red:  TeamHistory{Team: Red},
		subs: make(map[chan Event]struct{}),
	}
}

// Record appends an event to its team bucket and the global timeline.
// A zero timestamp is stamped with the current time.
func (h *History) Record(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	h.mu.Lock()
	if e.Team == Blue {
		h.blue.add(e)
	} else {
		h.red.add(e)
	}
	h.global = append(h.global, e)
	for sub := range h.subs {
		select {
		case sub <- e:
		default:
			// Subscriber buffer full, drop instead of blocking the game.
		}
	}
	h.mu.Unlock()
}

// All returns a copy of the global timeline in insertion order.
func (h *History) All() []Event {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Event, len(h.global))
	copy(out, h.global)
	return out
}

// Recent returns the last n global events, oldest first.
func (h *History) Recent(n int) []Event {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if n > len(h.global) {
		n = len(h.global)
	}
	out := make([]Event, n)
	copy(out, h.global[len(h.global)-n:])
	return out
}

// Team returns a copy of one team's history.
func (h *History) Team(team TeamColor) TeamHistory {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if team == Blue {
		return copyTeamHistory(h.blue)
	}
	return copyTeamHistory(h.red)
}

// TeamChat returns one team's chat messages in chronological order.
func (h *History) TeamChat(team TeamColor) []Event {
	h.mu.RLock()
	defer h.mu.RUnlock()
	src := h.blue.Chats
	if team == Red {
		src = h.red.Chats
	}
	out := make([]Event, len(src))
	copy(out, src)
	return out
}

// Len reports the length of the global timeline.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.global)
}

// Subscribe registers a spectator channel that receives every event
// recorded from now on. The returned cancel func removes the subscription
// and closes the channel. Events are dropped, never buffered by the
// ledger, when the channel is full.
func (h *History) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func copyTeamHistory(t TeamHistory) TeamHistory {
	out := TeamHistory{Team: t.Team}
	out.Hints = append(out.Hints, t.Hints...)
	out.Guesses = append(out.Guesses, t.Guesses...)
	out.Chats = append(out.Chats, t.Chats...)
	out.Passes = append(out.Passes, t.Passes...)
	out.All = append(out.All, t.All...)
	return out
}
