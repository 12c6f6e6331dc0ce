package game

import "fmt"

// Card is a single board entry. Color is fixed when the board is built;
// Revealed flips exactly once, from false to true.
type Card struct {
	Word     string    `json:"word"`
	Color    CardColor `json:"color,omitempty"`
	Revealed bool      `json:"revealed"`
}

// Board is an ordered sequence of cards with canonically unique words.
// A Board is owned by exactly one game state; concurrent mutation is the
// caller's problem.
type Board struct {
	Cards []Card `json:"cards"`
}

// NewBoard validates word uniqueness and builds a board. All cards start
// unrevealed.
func NewBoard(cards []Card) (*Board, error) {
	seen := make(map[string]struct{}, len(cards))
	for i := range cards {
		w := Canonical(cards[i].Word)
		if w == "" {
			return nil, fmt.Errorf("card %d has an empty word", i)
		}
		if _, ok := seen[w]; ok {
			return nil, fmt.Errorf("duplicate board word %q", w)
		}
		seen[w] = struct{}{}
		cards[i].Word = w
		cards[i].Revealed = false
	}
	return &Board{Cards: cards}, nil
}

// FindIndex resolves a word to its board index using canonical comparison.
func (b *Board) FindIndex(word string) (int, error) {
	w := Canonical(word)
	for i := range b.Cards {
		if b.Cards[i].Word == w {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q is not on the board", ErrCardNotFound, word)
}

// Reveal flips a card face up. It fails if the index is out of range or
// the card is already revealed.
func (b *Board) Reveal(index int) (Card, error) {
	if index < 0 || index >= len(b.Cards) {
		return Card{}, fmt.Errorf("%w: card index %d is out of range", ErrInvalidGuess, index)
	}
	if b.Cards[index].Revealed {
		return Card{}, fmt.Errorf("%w: card %q is already revealed", ErrInvalidGuess, b.Cards[index].Word)
	}
	b.Cards[index].Revealed = true
	return b.Cards[index], nil
}

// Censored returns the public projection of the board: the same card list
// with the color hidden for every unrevealed card. The receiver is not
// modified.
func (b *Board) Censored() *Board {
	cards := make([]Card, len(b.Cards))
	for i, c := range b.Cards {
		if !c.Revealed {
			c.Color = ""
		}
		cards[i] = c
	}
	return &Board{Cards: cards}
}

// Words lists every board word in order, canonical form.
func (b *Board) Words() []string {
	words := make([]string, len(b.Cards))
	for i := range b.Cards {
		words[i] = b.Cards[i].Word
	}
	return words
}

// Unrevealed returns the words still face down.
func (b *Board) Unrevealed() []string {
	words := make([]string, 0, len(b.Cards))
	for i := range b.Cards {
		if !b.Cards[i].Revealed {
			words = append(words, b.Cards[i].Word)
		}
	}
	return words
}

// CountColor counts cards of the given color, revealed or not.
func (b *Board) CountColor(color CardColor) int {
	n := 0
	for i := range b.Cards {
		if b.Cards[i].Color == color {
			n++
		}
	}
	return n
}

func (b *Board) countRevealed(color CardColor) int {
	n := 0
	for i := range b.Cards {
		if b.Cards[i].Color == color && b.Cards[i].Revealed {
			n++
		}
	}
	return n
}
