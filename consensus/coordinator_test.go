package consensus

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/clueloop/codenames/game"
)

// scriptedGuesser replays a fixed list of actions and passes once the
// script runs out.
type scriptedGuesser struct {
	name    string
	actions []Action
	next    int
}

func (g *scriptedGuesser) Actor() game.Actor {
	return game.AgentActor(g.name, "scripted")
}

func (g *scriptedGuesser) Decide(ctx context.Context, prompt GuessPrompt) (Action, error) {
	if g.next >= len(g.actions) {
		return Action{Kind: ActionPass}, nil
	}
	action := g.actions[g.next]
	g.next++
	return action, nil
}

func vote(word string) Action    { return Action{Kind: ActionVote, Word: word} }
func talk(message string) Action { return Action{Kind: ActionTalk, Message: message} }
func pass() Action               { return Action{Kind: ActionPass} }

// guessingState builds a four card board (blue: ocean, river; red: mars;
// assassin: code) with a blue hint already accepted, so it is the blue
// guessers' move.
func guessingState(t *testing.T) *game.State {
	t.Helper()
	board, err := game.NewBoard([]game.Card{
		{Word: "ocean", Color: game.CardBlue},
		{Word: "river", Color: game.CardBlue},
		{Word: "mars", Color: game.CardRed},
		{Word: "code", Color: game.CardAssassin},
	})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	state, err := game.NewState(board)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if _, err := state.GiveHint(game.Hint{Word: "water", CardAmount: 2}, game.HumanActor("ana")); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	return state
}

func newTestCoordinator(state *game.State, maxRounds int, guessers ...Guesser) *Coordinator {
	return NewCoordinator(state, game.Blue, guessers, maxRounds, zerolog.Nop())
}

func TestGuesserTurn_MajorityGuess(t *testing.T) {
	state := guessingState(t)
	c := newTestCoordinator(state, 10,
		&scriptedGuesser{name: "a", actions: []Action{vote("ocean")}},
		&scriptedGuesser{name: "b", actions: []Action{vote(" OCEAN ")}},
		&scriptedGuesser{name: "c", actions: []Action{talk("I like river")}},
	)
	if err := c.GuesserTurn(context.Background()); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	guesses := state.Guesses()
	if len(guesses) == 0 || guesses[0].GuessedCard.Word != "ocean" {
		t.Fatalf("two of three votes should submit the guess, got %v", guesses)
	}
	if !guesses[0].Correct() {
		t.Errorf("ocean should be a correct blue guess")
	}
	// The scripts then run out, everyone passes and the turn ends.
	turn := state.Turn()
	if turn.Team != game.Red || turn.Role != game.Hinter {
		t.Errorf("the turn should be over, got %+v", turn)
	}
}

func TestGuesserTurn_TwoOfFourIsNoMajority(t *testing.T) {
	state := guessingState(t)
	c := newTestCoordinator(state, 1,
		&scriptedGuesser{name: "a", actions: []Action{vote("ocean")}},
		&scriptedGuesser{name: "b", actions: []Action{vote("ocean")}},
		&scriptedGuesser{name: "c", actions: []Action{vote("river")}},
		&scriptedGuesser{name: "d", actions: []Action{vote("river")}},
	)
	if err := c.GuesserTurn(context.Background()); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(state.Guesses()) != 0 {
		t.Errorf("a split 2-2 vote must not submit a guess, got %v", state.Guesses())
	}
	// The round budget ran out, the coordinator passed for the team.
	if state.Turn().Team != game.Red {
		t.Errorf("the deadlocked turn should end in a pass, got %+v", state.Turn())
	}
	joined := strings.Join(c.Transcript(), "\n")
	if !strings.Contains(joined, "no majority") {
		t.Errorf("the transcript should note the deadlock pass:\n%s", joined)
	}
}

func TestGuesserTurn_InvalidVoteRejected(t *testing.T) {
	state := guessingState(t)
	c := newTestCoordinator(state, 10,
		&scriptedGuesser{name: "a", actions: []Action{vote("pluto"), vote("mars")}},
	)
	if err := c.GuesserTurn(context.Background()); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	joined := strings.Join(c.Transcript(), "\n")
	if !strings.Contains(joined, "pluto") {
		t.Errorf("the rejected vote should leave a corrective notice:\n%s", joined)
	}
	guesses := state.Guesses()
	if len(guesses) != 1 || guesses[0].GuessedCard.Word != "mars" {
		t.Fatalf("only the corrected vote should be submitted, got %v", guesses)
	}
	// Mars is red, the wrong guess ends the turn.
	if state.Turn().Team != game.Red {
		t.Errorf("a wrong guess should end the turn, got %+v", state.Turn())
	}
}

func TestGuesserTurn_VoteOverwrite(t *testing.T) {
	state := guessingState(t)
	c := newTestCoordinator(state, 10,
		&scriptedGuesser{name: "a", actions: []Action{vote("ocean"), vote("river")}},
		&scriptedGuesser{name: "b", actions: []Action{talk("river instead"), vote("river")}},
	)
	if err := c.GuesserTurn(context.Background()); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	guesses := state.Guesses()
	if len(guesses) == 0 || guesses[0].GuessedCard.Word != "river" {
		t.Fatalf("the overwritten vote should count for river, got %v", guesses)
	}
}

func TestGuesserTurn_PassMajority(t *testing.T) {
	state := guessingState(t)
	c := newTestCoordinator(state, 10,
		&scriptedGuesser{name: "a", actions: []Action{pass()}},
		&scriptedGuesser{name: "b", actions: []Action{pass()}},
		&scriptedGuesser{name: "c", actions: []Action{vote("ocean")}},
	)
	if err := c.GuesserTurn(context.Background()); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(state.Guesses()) != 0 {
		t.Errorf("a pass majority must not guess, got %v", state.Guesses())
	}
	if state.Turn().Team != game.Red {
		t.Errorf("the turn should be passed, got %+v", state.Turn())
	}
}

func TestGuesserTurn_TalkIsRecorded(t *testing.T) {
	state := guessingState(t)
	c := newTestCoordinator(state, 1,
		&scriptedGuesser{name: "a", actions: []Action{talk("ocean matches water")}},
	)
	if err := c.GuesserTurn(context.Background()); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	chats := state.History().TeamChat(game.Blue)
	if len(chats) != 1 || chats[0].Message != "ocean matches water" {
		t.Errorf("discussion should land in the team chat, got %v", chats)
	}
	joined := strings.Join(c.Transcript(), "\n")
	if !strings.Contains(joined, "a: ocean matches water") {
		t.Errorf("discussion should land in the transcript:\n%s", joined)
	}
}

func TestGuesserTurn_NotOurTurn(t *testing.T) {
	board, _ := game.NewBoard([]game.Card{
		{Word: "ocean", Color: game.CardBlue},
		{Word: "mars", Color: game.CardRed},
	})
	state, err := game.NewState(board)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	guesser := &scriptedGuesser{name: "a", actions: []Action{vote("ocean")}}
	c := newTestCoordinator(state, 10, guesser)
	if err := c.GuesserTurn(context.Background()); err != nil {
		t.Fatalf("a foreign turn should be a no-op, got %s", err)
	}
	if guesser.next != 0 {
		t.Errorf("no agent should be polled outside the team's guessing turn")
	}
}

func TestGuesserTurn_NoGuessers(t *testing.T) {
	state := guessingState(t)
	c := newTestCoordinator(state, 10)
	if err := c.GuesserTurn(context.Background()); err == nil {
		t.Errorf("a team without guessers should be an error")
	}
}

func TestMajority_StrictRule(t *testing.T) {
	cases := []struct {
		votes    map[string]string
		voters   int
		expected string
		ok       bool
	}{
		{map[string]string{"a": "ocean", "b": "Ocean"}, 3, "ocean", true},
		{map[string]string{"a": "ocean", "b": "river", "c": "pass"}, 3, "", false},
		{map[string]string{"a": "ocean", "b": "ocean"}, 4, "", false},
		{map[string]string{"a": "ocean"}, 1, "ocean", true},
		{map[string]string{"a": "ocean", "b": "river"}, 2, "", false},
		{map[string]string{}, 3, "", false},
	}
	for i, c := range cases {
		choice, ok := majority(c.votes, c.voters)
		if ok != c.ok || choice != c.expected {
			t.Errorf("case %d: expected (%q, %v), got (%q, %v)", i, c.expected, c.ok, choice, ok)
		}
	}
}
