package game

// TeamScore tracks one team's progress. Total is fixed at game start;
// Revealed only ever grows and never exceeds Total.
type TeamScore struct {
	Total    int `json:"total"`
	Revealed int `json:"revealed"`
}

func (s TeamScore) Unrevealed() int {
	return s.Total - s.Revealed
}

func (s TeamScore) Done() bool {
	return s.Revealed == s.Total
}

// Score holds both team scores.
type Score struct {
	Blue TeamScore `json:"blue"`
	Red  TeamScore `json:"red"`
}

// BuildScore derives the starting score from a board.
func BuildScore(b *Board) Score {
	return Score{
		Blue: TeamScore{Total: b.CountColor(CardBlue), Revealed: b.countRevealed(CardBlue)},
		Red:  TeamScore{Total: b.CountColor(CardRed), Revealed: b.countRevealed(CardRed)},
	}
}

// Team returns the score entry for a team.
func (s Score) Team(t TeamColor) TeamScore {
	if t == Blue {
		return s.Blue
	}
	return s.Red
}

// addPoint increments a team's revealed count and reports whether that
// team just revealed its last card.
func (s *Score) addPoint(t TeamColor) bool {
	if t == Blue {
		s.Blue.Revealed++
		return s.Blue.Done()
	}
	s.Red.Revealed++
	return s.Red.Done()
}
