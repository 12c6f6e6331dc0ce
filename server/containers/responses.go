package containers

import "github.com/clueloop/codenames/game"

// CardWithIndex pairs a card with its board position for API clients.
type CardWithIndex struct {
	Index    int    `json:"index"`
	Word     string `json:"word"`
	Color    string `json:"color,omitempty"`
	Revealed bool   `json:"revealed"`
}

// MatchState is the full game state response. Board colors are censored
// unless the caller asked for the hinter view.
type MatchState struct {
	MatchID     string           `json:"match_id"`
	Board       []CardWithIndex  `json:"board"`
	Score       game.Score       `json:"score"`
	CurrentTurn game.Turn        `json:"current_turn"`
	Hints       []game.GivenHint `json:"hints"`
	LastHint    *game.GivenHint  `json:"last_hint,omitempty"`
	IsGameOver  bool             `json:"is_game_over"`
	Winner      *game.Winner     `json:"winner,omitempty"`
	BoardSize   int              `json:"board_size"`
	History     *MatchHistory    `json:"history,omitempty"`
}

type MatchHistory struct {
	Blue   []game.Event `json:"blue"`
	Red    []game.Event `json:"red"`
	Global []game.Event `json:"global"`
}

// NewMatchState projects a game state into the API shape.
func NewMatchState(matchID string, state *game.State, showColors, includeHistory bool) MatchState {
	view := state.GuesserView()
	if showColors {
		view = state.HinterView()
	}
	board := make([]CardWithIndex, len(view.Board.Cards))
	for i, c := range view.Board.Cards {
		board[i] = CardWithIndex{
			Index:    i,
			Word:     c.Word,
			Color:    string(c.Color),
			Revealed: c.Revealed,
		}
	}
	resp := MatchState{
		MatchID:     matchID,
		Board:       board,
		Score:       view.Score,
		CurrentTurn: view.Turn,
		Hints:       view.Hints,
		IsGameOver:  state.IsGameOver(),
		Winner:      view.Winner,
		BoardSize:   len(board),
	}
	if hint, ok := state.LastHint(); ok {
		resp.LastHint = &hint
	}
	if includeHistory {
		history := state.History()
		resp.History = &MatchHistory{
			Blue:   history.Team(game.Blue).All,
			Red:    history.Team(game.Red).All,
			Global: history.All(),
		}
	}
	return resp
}

type HintResult struct {
	Success     bool           `json:"success"`
	Hint        game.GivenHint `json:"hint"`
	LeftGuesses int            `json:"left_guesses"`
}

type GuessResult struct {
	Success     bool         `json:"success"`
	GuessedCard game.Card    `json:"guessed_card"`
	Correct     bool         `json:"correct"`
	LeftGuesses int          `json:"left_guesses"`
	IsGameOver  bool         `json:"is_game_over"`
	Winner      *game.Winner `json:"winner,omitempty"`
}

type PassResult struct {
	Success  bool           `json:"success"`
	Action   string         `json:"action"`
	NextTeam game.TeamColor `json:"next_team"`
}

// TurnResult summarizes an AI-driven consensus turn.
type TurnResult struct {
	CurrentTurn game.Turn    `json:"current_turn"`
	IsGameOver  bool         `json:"is_game_over"`
	Winner      *game.Winner `json:"winner,omitempty"`
	Transcript  []string     `json:"transcript"`
}
