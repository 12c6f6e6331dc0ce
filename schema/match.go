package schema

import (
	"time"

	"gorm.io/gorm"
)

// Match is the durable record of one finished game.
type Match struct {
	gorm.Model
	MatchID      string `gorm:"uniqueIndex"`
	HostID       uint
	BoardSize    int
	WinnerTeam   string
	WinnerReason string
	Events       []MatchEvent
}

// MatchEvent is one replayed ledger entry. Seq preserves the global
// timeline order; Payload carries the event serialized verbatim as JSON.
type MatchEvent struct {
	gorm.Model
	MatchID    uint `gorm:"index"`
	Seq        int
	Type       string
	Team       string
	Role       string
	ActorKind  string
	ActorName  string
	ActorModel string
	At         time.Time
	Payload    string
}
