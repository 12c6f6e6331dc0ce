package game

import (
	"errors"
	"fmt"
)

// Turn says whose move it is and how many guesses remain.
type Turn struct {
	Team        TeamColor  `json:"team"`
	Role        PlayerRole `json:"role"`
	LeftGuesses int        `json:"left_guesses"`
}

// State is the authoritative rules engine for one match. It owns the board
// and score, validates every hint/guess/pass against the current turn,
// appends to the ledger and derives the winner.
//
// State is not safe for concurrent writers; submissions for a match must
// be serialized by the caller.
type State struct {
	board        *Board
	score        Score
	turn         Turn
	rawHints     []Hint
	givenHints   []GivenHint
	givenGuesses []GivenGuess
	winner       *Winner
	history      *History
}

// NewState builds the starting state for a board. The team with more cards
// moves first; blue wins the tie.
func NewState(board *Board) (*State, error) {
	if board == nil || len(board.Cards) == 0 {
		return nil, errors.New("board is empty")
	}
	for i := range board.Cards {
		if board.Cards[i].Revealed {
			return nil, fmt.Errorf("board card %q is already revealed", board.Cards[i].Word)
		}
	}
	score := BuildScore(board)
	first := Blue
	if score.Red.Total > score.Blue.Total {
		first = Red
	}
	return &State{
		board:   board,
		score:   score,
		turn:    Turn{Team: first, Role: Hinter},
		history: NewHistory(),
	}, nil
}

func (s *State) Turn() Turn { return s.turn }

func (s *State) Score() Score { return s.score }

func (s *State) History() *History { return s.history }

func (s *State) BoardSize() int { return len(s.board.Cards) }

func (s *State) IsGameOver() bool { return s.winner != nil }

// Winner returns the winner once the game is over.
func (s *State) Winner() (Winner, bool) {
	if s.winner == nil {
		return Winner{}, false
	}
	return *s.winner, true
}

// Hints returns every accepted hint in order.
func (s *State) Hints() []GivenHint {
	out := make([]GivenHint, len(s.givenHints))
	copy(out, s.givenHints)
	return out
}

// Guesses returns every resolved guess in order.
func (s *State) Guesses() []GivenGuess {
	out := make([]GivenGuess, len(s.givenGuesses))
	copy(out, s.givenGuesses)
	return out
}

// LastHint returns the most recent hint, if any hint was given.
func (s *State) LastHint() (GivenHint, bool) {
	if len(s.givenHints) == 0 {
		return GivenHint{}, false
	}
	return s.givenHints[len(s.givenHints)-1], true
}

// View is a read-only projection of the state for one role. It is computed
// on demand from the authoritative state and can never drift from it.
type View struct {
	Board   *Board      `json:"board"`
	Score   Score       `json:"score"`
	Turn    Turn        `json:"turn"`
	Hints   []GivenHint `json:"hints"`
	Winner  *Winner     `json:"winner,omitempty"`
}

// HinterView exposes the full board, colors included.
func (s *State) HinterView() View {
	return s.view(s.board)
}

// GuesserView exposes the censored board projection.
func (s *State) GuesserView() View {
	return s.view(s.board.Censored())
}

func (s *State) view(board *Board) View {
	v := View{
		Board: board,
		Score: s.score,
		Turn:  s.turn,
		Hints: s.Hints(),
	}
	if s.winner != nil {
		w := *s.winner
		v.Winner = &w
	}
	return v
}

// GiveHint validates and applies a hint. The canonical hint word must not
// be on the board and must not repeat any earlier hint of the match. On
// success the turn moves to the same team's guesser with amount+1 guesses.
func (s *State) GiveHint(hint Hint, actor Actor) (GivenHint, error) {
	if s.IsGameOver() {
		return GivenHint{}, ErrGameOver
	}
	if s.turn.Role != Hinter {
		return GivenHint{}, fmt.Errorf("%w: it is not the hinter's turn", ErrInvalidTurn)
	}
	if hint.CardAmount < 0 {
		return GivenHint{}, fmt.Errorf("%w: card amount must not be negative", ErrInvalidHint)
	}
	s.rawHints = append(s.rawHints, hint)
	word, err := Sanitize(hint.Word)
	if err != nil {
		return GivenHint{}, fmt.Errorf("%w: %s", ErrInvalidHint, err)
	}
	if s.isIllegalHintWord(word) {
		return GivenHint{}, fmt.Errorf("%w: word %q is on the board or was already used", ErrInvalidHint, word)
	}

	given := GivenHint{Word: word, CardAmount: hint.CardAmount, Team: s.turn.Team}
	s.givenHints = append(s.givenHints, given)
	s.history.Record(Event{
		Type:  EventHint,
		Team:  s.turn.Team,
		Role:  s.turn.Role,
		Actor: actor,
		Hint:  &given,
	})
	s.turn.LeftGuesses = given.CardAmount + 1
	s.turn.Role = Guesser
	return given, nil
}

// MakeGuess resolves a word to an unrevealed card, reveals it, scores it
// and advances the turn. A wrong-color or neutral card ends the turn; a
// correct card consumes one remaining guess.
func (s *State) MakeGuess(word string, actor Actor) (GivenGuess, error) {
	if s.IsGameOver() {
		return GivenGuess{}, ErrGameOver
	}
	if s.turn.Role != Guesser {
		return GivenGuess{}, fmt.Errorf("%w: it is not the guesser's turn", ErrInvalidTurn)
	}
	sanitized, err := Sanitize(word)
	if err != nil {
		return GivenGuess{}, fmt.Errorf("%w: %s", ErrInvalidGuess, err)
	}
	index, err := s.board.FindIndex(sanitized)
	if err != nil {
		return GivenGuess{}, err
	}
	card, err := s.board.Reveal(index)
	if err != nil {
		return GivenGuess{}, err
	}

	lastHint, _ := s.LastHint()
	given := GivenGuess{Hint: lastHint, GuessedCard: card, Team: s.turn.Team}
	s.givenGuesses = append(s.givenGuesses, given)
	s.history.Record(Event{
		Type:  EventGuess,
		Team:  s.turn.Team,
		Role:  s.turn.Role,
		Actor: actor,
		Guess: &given,
	})

	s.updateScore(given)
	if s.IsGameOver() {
		s.endTurn()
		return given, nil
	}
	if !given.Correct() {
		s.endTurn()
		return given, nil
	}
	s.turn.LeftGuesses--
	if s.turn.LeftGuesses == 0 {
		s.endTurn()
	}
	return given, nil
}

// PassTurn ends the guessing team's turn regardless of remaining guesses.
func (s *State) PassTurn(actor Actor) error {
	if s.IsGameOver() {
		return ErrGameOver
	}
	if s.turn.Role != Guesser {
		return fmt.Errorf("%w: it is not the guesser's turn", ErrInvalidTurn)
	}
	s.history.Record(Event{
		Type:  EventPass,
		Team:  s.turn.Team,
		Role:  s.turn.Role,
		Actor: actor,
	})
	s.endTurn()
	return nil
}

// Resign concedes the match for a team; the opponent wins.
func (s *State) Resign(team TeamColor, actor Actor) error {
	if s.IsGameOver() {
		return ErrGameOver
	}
	s.history.Record(Event{
		Type:    EventChat,
		Team:    team,
		Role:    s.turn.Role,
		Actor:   actor,
		Message: "resigned the match",
	})
	s.winner = &Winner{Team: team.Opponent(), Reason: OpponentQuit}
	return nil
}

// RecordChat appends a discussion message to the ledger without touching
// the turn or the board.
func (s *State) RecordChat(actor Actor, team TeamColor, role PlayerRole, message string) {
	s.history.Record(Event{
		Type:    EventChat,
		Team:    team,
		Role:    role,
		Actor:   actor,
		Message: message,
	})
}

func (s *State) isIllegalHintWord(word string) bool {
	for _, w := range s.board.Words() {
		if w == word {
			return true
		}
	}
	for _, h := range s.givenHints {
		if h.Word == word {
			return true
		}
	}
	return false
}

func (s *State) endTurn() {
	s.turn.LeftGuesses = 0
	s.turn.Team = s.turn.Team.Opponent()
	s.turn.Role = Hinter
}

func (s *State) updateScore(guess GivenGuess) {
	color := guess.GuessedCard.Color
	if color == CardNeutral {
		return
	}
	if color == CardAssassin {
		s.winner = &Winner{Team: guess.Team.Opponent(), Reason: OpponentHitAssassin}
		return
	}
	// A guess on the opponent's card still helps the opponent.
	team, _ := color.Team()
	if s.score.addPoint(team) {
		s.winner = &Winner{Team: team, Reason: TargetScoreReached}
	}
}
