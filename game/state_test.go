package game

import (
	"errors"
	"testing"
)

// smallBoard has two blue cards, one red card and one assassin, so blue
// moves first.
func smallBoard(t *testing.T) *Board {
	t.Helper()
	board, err := NewBoard([]Card{
		{Word: "ocean", Color: CardBlue},
		{Word: "river", Color: CardBlue},
		{Word: "mars", Color: CardRed},
		{Word: "code", Color: CardAssassin},
	})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	return board
}

func smallState(t *testing.T) *State {
	t.Helper()
	state, err := NewState(smallBoard(t))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	return state
}

func TestNewState_FirstTeamHasMoreCards(t *testing.T) {
	state := smallState(t)
	turn := state.Turn()
	if turn.Team != Blue || turn.Role != Hinter {
		t.Errorf("expected blue hinter to start, got %s %s", turn.Team, turn.Role)
	}
	board, _ := NewBoard([]Card{
		{Word: "ocean", Color: CardBlue},
		{Word: "mars", Color: CardRed},
		{Word: "pluto", Color: CardRed},
	})
	state, err := NewState(board)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if state.Turn().Team != Red {
		t.Errorf("red has more cards and should start, got %s", state.Turn().Team)
	}
}

func TestNewState_BlueWinsTie(t *testing.T) {
	board, _ := NewBoard([]Card{
		{Word: "ocean", Color: CardBlue},
		{Word: "mars", Color: CardRed},
	})
	state, err := NewState(board)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if state.Turn().Team != Blue {
		t.Errorf("blue should start on a tie, got %s", state.Turn().Team)
	}
}

func TestNewState_RejectsRevealedCards(t *testing.T) {
	board := &Board{Cards: []Card{{Word: "ocean", Color: CardBlue, Revealed: true}}}
	if _, err := NewState(board); err == nil {
		t.Errorf("a board with revealed cards should be rejected")
	}
}

func TestGiveHint_SetsLeftGuesses(t *testing.T) {
	state := smallState(t)
	given, err := state.GiveHint(Hint{Word: "water", CardAmount: 2}, HumanActor("ana"))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if given.Word != "water" || given.Team != Blue {
		t.Errorf("unexpected given hint: %+v", given)
	}
	turn := state.Turn()
	if turn.Role != Guesser || turn.LeftGuesses != 3 {
		t.Errorf("expected guesser turn with 3 guesses, got %s with %d", turn.Role, turn.LeftGuesses)
	}
}

func TestGiveHint_WrongRole(t *testing.T) {
	state := smallState(t)
	if _, err := state.GiveHint(Hint{Word: "water", CardAmount: 1}, HumanActor("ana")); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	_, err := state.GiveHint(Hint{Word: "planet", CardAmount: 1}, HumanActor("ana"))
	if !errors.Is(err, ErrInvalidTurn) {
		t.Errorf("expected ErrInvalidTurn, got %v", err)
	}
}

func TestGiveHint_RejectsBoardWord(t *testing.T) {
	state := smallState(t)
	_, err := state.GiveHint(Hint{Word: "Ocean", CardAmount: 1}, HumanActor("ana"))
	if !errors.Is(err, ErrInvalidHint) {
		t.Errorf("expected ErrInvalidHint for a board word, got %v", err)
	}
}

func TestGiveHint_RejectsReusedHintWord(t *testing.T) {
	state := smallState(t)
	if _, err := state.GiveHint(Hint{Word: "water", CardAmount: 2}, HumanActor("ana")); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := state.PassTurn(HumanActor("ben")); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	_, err := state.GiveHint(Hint{Word: " WATER ", CardAmount: 1}, HumanActor("rita"))
	if !errors.Is(err, ErrInvalidHint) {
		t.Errorf("expected ErrInvalidHint for a reused hint word, got %v", err)
	}
}

func TestGiveHint_RejectsNegativeAmount(t *testing.T) {
	state := smallState(t)
	_, err := state.GiveHint(Hint{Word: "water", CardAmount: -1}, HumanActor("ana"))
	if !errors.Is(err, ErrInvalidHint) {
		t.Errorf("expected ErrInvalidHint, got %v", err)
	}
}

func TestMakeGuess_CorrectConsumesGuess(t *testing.T) {
	state := smallState(t)
	if _, err := state.GiveHint(Hint{Word: "water", CardAmount: 2}, HumanActor("ana")); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	guess, err := state.MakeGuess("OCEAN", HumanActor("ben"))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !guess.Correct() {
		t.Errorf("ocean is a blue card, the guess should be correct")
	}
	turn := state.Turn()
	if turn.Team != Blue || turn.LeftGuesses != 2 {
		t.Errorf("blue should keep guessing with 2 left, got %s with %d", turn.Team, turn.LeftGuesses)
	}
	if state.Score().Blue.Revealed != 1 {
		t.Errorf("blue revealed count should be 1, got %d", state.Score().Blue.Revealed)
	}
}

func TestMakeGuess_WrongCardEndsTurn(t *testing.T) {
	state := smallState(t)
	if _, err := state.GiveHint(Hint{Word: "water", CardAmount: 2}, HumanActor("ana")); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	guess, err := state.MakeGuess("mars", HumanActor("ben"))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if guess.Correct() {
		t.Errorf("mars is a red card, the guess should be wrong")
	}
	if state.Score().Red.Revealed != 1 {
		t.Errorf("a wrong guess still scores for the card's team")
	}
	turn := state.Turn()
	if turn.Team != Red || turn.Role != Hinter || turn.LeftGuesses != 0 {
		t.Errorf("turn should pass to the red hinter, got %+v", turn)
	}
}

func TestMakeGuess_AssassinEndsGame(t *testing.T) {
	state := smallState(t)
	if _, err := state.GiveHint(Hint{Word: "water", CardAmount: 2}, HumanActor("ana")); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if _, err := state.MakeGuess("code", HumanActor("ben")); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	winner, ok := state.Winner()
	if !ok {
		t.Fatalf("hitting the assassin should end the game")
	}
	if winner.Team != Red || winner.Reason != OpponentHitAssassin {
		t.Errorf("expected red to win by assassin, got %s", winner)
	}
}

func TestMakeGuess_AfterGameOver(t *testing.T) {
	state := smallState(t)
	if _, err := state.GiveHint(Hint{Word: "water", CardAmount: 2}, HumanActor("ana")); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if _, err := state.MakeGuess("code", HumanActor("ben")); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if _, err := state.MakeGuess("ocean", HumanActor("ben")); !errors.Is(err, ErrGameOver) {
		t.Errorf("expected ErrGameOver, got %v", err)
	}
	if _, err := state.GiveHint(Hint{Word: "planet", CardAmount: 1}, HumanActor("rita")); !errors.Is(err, ErrGameOver) {
		t.Errorf("expected ErrGameOver, got %v", err)
	}
}

func TestPassTurn_FlipsTeam(t *testing.T) {
	state := smallState(t)
	if _, err := state.GiveHint(Hint{Word: "water", CardAmount: 2}, HumanActor("ana")); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := state.PassTurn(HumanActor("ben")); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	turn := state.Turn()
	if turn.Team != Red || turn.Role != Hinter || turn.LeftGuesses != 0 {
		t.Errorf("pass should hand the turn to the red hinter, got %+v", turn)
	}
}

func TestPassTurn_HinterCannotPass(t *testing.T) {
	state := smallState(t)
	if err := state.PassTurn(HumanActor("ana")); !errors.Is(err, ErrInvalidTurn) {
		t.Errorf("expected ErrInvalidTurn, got %v", err)
	}
}

func TestResign_OpponentWins(t *testing.T) {
	state := smallState(t)
	if err := state.Resign(Blue, HumanActor("ana")); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	winner, ok := state.Winner()
	if !ok || winner.Team != Red || winner.Reason != OpponentQuit {
		t.Errorf("expected red to win by resignation, got %v %v", winner, ok)
	}
	if err := state.Resign(Red, HumanActor("rita")); !errors.Is(err, ErrGameOver) {
		t.Errorf("expected ErrGameOver on a second resignation, got %v", err)
	}
}

// TestFullMatch walks blue through revealing both of its cards and checks
// the winner and the recorded ledger.
func TestFullMatch(t *testing.T) {
	state := smallState(t)
	if _, err := state.GiveHint(Hint{Word: "water", CardAmount: 2}, HumanActor("ana")); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	for _, word := range []string{"ocean", "river"} {
		guess, err := state.MakeGuess(word, HumanActor("ben"))
		if err != nil {
			t.Fatalf("unexpected error guessing %q: %s", word, err)
		}
		if !guess.Correct() {
			t.Fatalf("%q should be a correct guess", word)
		}
	}
	winner, ok := state.Winner()
	if !ok || winner.Team != Blue || winner.Reason != TargetScoreReached {
		t.Errorf("expected blue to win on score, got %v %v", winner, ok)
	}
	events := state.History().All()
	if len(events) != 3 {
		t.Fatalf("expected 3 ledger events, got %d", len(events))
	}
	if events[0].Type != EventHint || events[1].Type != EventGuess || events[2].Type != EventGuess {
		t.Errorf("unexpected ledger order: %v %v %v", events[0].Type, events[1].Type, events[2].Type)
	}
	if events[1].Guess.Hint.Word != "water" {
		t.Errorf("guesses should carry the hint they answered, got %q", events[1].Guess.Hint.Word)
	}
}

func TestGuesserView_HidesColors(t *testing.T) {
	state := smallState(t)
	for _, card := range state.GuesserView().Board.Cards {
		if card.Color != "" {
			t.Errorf("guesser view leaked color %q for %q", card.Color, card.Word)
		}
	}
	for _, card := range state.HinterView().Board.Cards {
		if card.Color == "" {
			t.Errorf("hinter view should keep the color for %q", card.Word)
		}
	}
}
