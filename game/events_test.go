package game

import (
	"fmt"
	"testing"
)

func chatEvent(team TeamColor, message string) Event {
	return Event{
		Type:    EventChat,
		Team:    team,
		Role:    Guesser,
		Actor:   HumanActor("ana"),
		Message: message,
	}
}

func TestHistory_RecordKeepsOrder(t *testing.T) {
	history := NewHistory()
	for i := 0; i < 5; i++ {
		history.Record(chatEvent(Blue, fmt.Sprintf("message %d", i)))
	}
	events := history.All()
	if len(events) != 5 {
		t.Fatalf("expected 5 events, got %d", len(events))
	}
	for i, e := range events {
		if e.Message != fmt.Sprintf("message %d", i) {
			t.Errorf("event %d out of order: %q", i, e.Message)
		}
	}
}

func TestHistory_TeamBuckets(t *testing.T) {
	history := NewHistory()
	history.Record(chatEvent(Blue, "blue talk"))
	history.Record(chatEvent(Red, "red talk"))
	history.Record(Event{Type: EventPass, Team: Blue, Actor: HumanActor("ana")})

	blue := history.Team(Blue)
	if len(blue.Chats) != 1 || len(blue.Passes) != 1 || len(blue.All) != 2 {
		t.Errorf("unexpected blue bucket sizes: chats=%d passes=%d all=%d",
			len(blue.Chats), len(blue.Passes), len(blue.All))
	}
	red := history.Team(Red)
	if len(red.All) != 1 || red.All[0].Message != "red talk" {
		t.Errorf("unexpected red bucket: %v", red.All)
	}
	if history.Len() != 3 {
		t.Errorf("expected global length 3, got %d", history.Len())
	}
}

func TestHistory_TeamChat(t *testing.T) {
	history := NewHistory()
	history.Record(chatEvent(Blue, "first"))
	history.Record(chatEvent(Red, "other team"))
	history.Record(chatEvent(Blue, "second"))

	chats := history.TeamChat(Blue)
	if len(chats) != 2 || chats[0].Message != "first" || chats[1].Message != "second" {
		t.Errorf("unexpected blue chats: %v", chats)
	}
}

func TestHistory_Recent(t *testing.T) {
	history := NewHistory()
	for i := 0; i < 4; i++ {
		history.Record(chatEvent(Blue, fmt.Sprintf("message %d", i)))
	}
	recent := history.Recent(2)
	if len(recent) != 2 || recent[0].Message != "message 2" || recent[1].Message != "message 3" {
		t.Errorf("unexpected recent events: %v", recent)
	}
	if got := len(history.Recent(10)); got != 4 {
		t.Errorf("recent should cap at the ledger length, got %d", got)
	}
}

func TestHistory_RecordStampsTime(t *testing.T) {
	history := NewHistory()
	history.Record(chatEvent(Blue, "hello"))
	if history.All()[0].At.IsZero() {
		t.Errorf("recorded events should carry a timestamp")
	}
}

func TestHistory_SubscribeReceivesEvents(t *testing.T) {
	history := NewHistory()
	events, cancel := history.Subscribe(4)
	defer cancel()

	history.Record(chatEvent(Blue, "hello"))
	select {
	case e := <-events:
		if e.Message != "hello" {
			t.Errorf("unexpected event: %q", e.Message)
		}
	default:
		t.Errorf("subscriber should have received the event")
	}
}

func TestHistory_SubscribeDropsWhenFull(t *testing.T) {
	history := NewHistory()
	events, cancel := history.Subscribe(1)
	defer cancel()

	history.Record(chatEvent(Blue, "kept"))
	history.Record(chatEvent(Blue, "dropped"))

	e := <-events
	if e.Message != "kept" {
		t.Errorf("expected the first event, got %q", e.Message)
	}
	select {
	case e := <-events:
		t.Errorf("the second event should have been dropped, got %q", e.Message)
	default:
	}
	if history.Len() != 2 {
		t.Errorf("the ledger itself should keep every event, got %d", history.Len())
	}
}

func TestHistory_CancelIsIdempotent(t *testing.T) {
	history := NewHistory()
	_, cancel := history.Subscribe(1)
	cancel()
	cancel()
	history.Record(chatEvent(Blue, "after cancel"))
}
