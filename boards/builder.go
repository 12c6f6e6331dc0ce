// Package boards generates game boards from stock vocabularies.
package boards

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/clueloop/codenames/game"
)

type Language string

const (
	English Language = "english"
)

// Generate builds a board of boardSize canonically unique cards from the
// vocabulary for the given language. It is deterministic for a given seed.
// The first team (blue) receives one extra card; the remainder after both
// teams and the assassins is neutral.
//
// Failing to produce a board (unknown language, vocabulary too small, bad
// sizes) is fatal for the match being constructed.
func Generate(language Language, boardSize, assassinAmount int, seed uint64) (*game.Board, error) {
	var vocabulary []string
	switch language {
	case English:
		vocabulary = EnglishWords
	default:
		return nil, fmt.Errorf("unknown language %q", language)
	}
	return FromVocabulary(vocabulary, boardSize, assassinAmount, seed)
}

// FromVocabulary samples boardSize distinct words from the vocabulary and
// deals out colors. Exposed separately so callers can bring their own word
// lists.
func FromVocabulary(vocabulary []string, boardSize, assassinAmount int, seed uint64) (*game.Board, error) {
	if boardSize <= 0 {
		return nil, fmt.Errorf("board size must be positive, got %d", boardSize)
	}
	if assassinAmount < 0 || assassinAmount >= boardSize {
		return nil, fmt.Errorf("assassin amount %d does not fit a board of %d", assassinAmount, boardSize)
	}
	words, err := distinctWords(vocabulary)
	if err != nil {
		return nil, err
	}
	if len(words) < boardSize {
		return nil, fmt.Errorf("vocabulary has %d unique words, need %d", len(words), boardSize)
	}

	rng := rand.New(rand.NewSource(seed))

	// Sample board words without replacement, then deal the color layout
	// with the same seeded source so the whole board is reproducible.
	indices := make([]int, boardSize)
	sampleuv.WithoutReplacement(indices, len(words), rng)

	colors := colorLayout(boardSize, assassinAmount)
	rng.Shuffle(len(colors), func(i, j int) {
		colors[i], colors[j] = colors[j], colors[i]
	})

	cards := make([]game.Card, boardSize)
	for i, wi := range indices {
		cards[i] = game.Card{Word: words[wi], Color: colors[i]}
	}
	return game.NewBoard(cards)
}

// colorLayout deals the unshuffled color multiset: blue gets one card more
// than red, the rest is neutral.
func colorLayout(boardSize, assassinAmount int) []game.CardColor {
	teamSize := (boardSize - assassinAmount) / 3
	colors := make([]game.CardColor, 0, boardSize)
	for i := 0; i < teamSize+1; i++ {
		colors = append(colors, game.CardBlue)
	}
	for i := 0; i < teamSize; i++ {
		colors = append(colors, game.CardRed)
	}
	for i := 0; i < assassinAmount; i++ {
		colors = append(colors, game.CardAssassin)
	}
	for len(colors) < boardSize {
		colors = append(colors, game.CardNeutral)
	}
	return colors
}

func distinctWords(vocabulary []string) ([]string, error) {
	seen := make(map[string]struct{}, len(vocabulary))
	words := make([]string, 0, len(vocabulary))
	for _, w := range vocabulary {
		cw := game.Canonical(w)
		if cw == "" {
			return nil, fmt.Errorf("vocabulary contains an empty word")
		}
		if _, ok := seen[cw]; ok {
			continue
		}
		seen[cw] = struct{}{}
		words = append(words, cw)
	}
	return words, nil
}
