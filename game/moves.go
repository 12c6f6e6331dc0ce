package game

import "fmt"

// Hint is the raw clue submitted by the hinting role.
type Hint struct {
	Word       string `json:"word"`
	CardAmount int    `json:"card_amount"`
}

// GivenHint is a hint that passed validation, word in canonical form.
type GivenHint struct {
	Word       string    `json:"word"`
	CardAmount int       `json:"card_amount"`
	Team       TeamColor `json:"team"`
}

func (h GivenHint) String() string {
	return fmt.Sprintf("%s %d", h.Word, h.CardAmount)
}

// GivenGuess records a resolved guess together with the hint it answered.
type GivenGuess struct {
	Hint        GivenHint `json:"hint"`
	GuessedCard Card      `json:"guessed_card"`
	Team        TeamColor `json:"team"`
}

// Correct reports whether the revealed card belongs to the guessing team.
func (g GivenGuess) Correct() bool {
	return g.GuessedCard.Color == CardColorFor(g.Team)
}

func (g GivenGuess) String() string {
	outcome := "wrong"
	if g.Correct() {
		outcome = "correct"
	}
	return fmt.Sprintf("%s (%s, %s)", g.GuessedCard.Word, g.GuessedCard.Color, outcome)
}
