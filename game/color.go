package game

import "fmt"

// TeamColor identifies one of the two playing teams.
type TeamColor string

const (
	Blue TeamColor = "blue"
	Red  TeamColor = "red"
)

func (t TeamColor) Opponent() TeamColor {
	if t == Blue {
		return Red
	}
	return Blue
}

// CardColor is the hidden affiliation of a board card.
type CardColor string

const (
	CardBlue     CardColor = "blue"
	CardRed      CardColor = "red"
	CardNeutral  CardColor = "neutral"
	CardAssassin CardColor = "assassin"
)

// Team returns the team a card belongs to, if any.
func (c CardColor) Team() (TeamColor, bool) {
	switch c {
	case CardBlue:
		return Blue, true
	case CardRed:
		return Red, true
	}
	return "", false
}

func (c CardColor) String() string {
	return string(c)
}

// CardColorFor maps a team to its card color.
func CardColorFor(t TeamColor) CardColor {
	if t == Blue {
		return CardBlue
	}
	return CardRed
}

// PlayerRole is the role acting within a turn.
type PlayerRole string

const (
	Hinter  PlayerRole = "hinter"
	Guesser PlayerRole = "guesser"
)

func (r PlayerRole) Other() PlayerRole {
	if r == Hinter {
		return Guesser
	}
	return Hinter
}

func (r PlayerRole) String() string {
	return string(r)
}

func (t TeamColor) String() string {
	return string(t)
}

// ParseTeamColor converts a wire value to a TeamColor.
func ParseTeamColor(s string) (TeamColor, error) {
	switch TeamColor(s) {
	case Blue, Red:
		return TeamColor(s), nil
	}
	return "", fmt.Errorf("unknown team color %q", s)
}
