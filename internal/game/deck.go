package game

import (
	"math/rand/v2"

	"github.com/scythe504/tabu-backend/internal"
)

// DrawNextCard removes one card chosen uniformly at random by intn and returns
// it with the remaining cards in a new slice; deck itself is not modified.
// An empty deck yields a nil card, which ends the round.
func DrawNextCard(deck []internal.Card, intn func(n int) int) (*internal.Card, []internal.Card) {
	if len(deck) == 0 {
		return nil, []internal.Card{}
	}
	if intn == nil {
		intn = rand.IntN
	}

	idx := intn(len(deck))
	card := deck[idx]

	rest := make([]internal.Card, 0, len(deck)-1)
	rest = append(rest, deck[:idx]...)
	rest = append(rest, deck[idx+1:]...)

	return &card, rest
}

// newDeck copies cards so the round can consume them, normalizing missing
// taboo lists to empty ones.
func newDeck(cards []internal.Card) []internal.Card {
	deck := make([]internal.Card, 0, len(cards))
	for _, c := range cards {
		if c.Word == "" {
			continue
		}
		if c.Taboo == nil {
			c.Taboo = []string{}
		}
		deck = append(deck, c)
	}
	return deck
}
