package deck

import rand "math/rand/v2"

// Deck represents an ordered pile of playing cards. Cards are drawn from the
// top (the end of the slice) and never re-inserted during a hand.
type Deck struct {
	cards []Card
}

// NewShuffled builds the 52-card universe and applies a uniform Fisher-Yates
// permutation using the provided RNG. This is the only place randomness
// enters the engine.
func NewShuffled(rng *rand.Rand) *Deck {
	cards := make([]Card, 0, 52)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, NewCard(suit, rank))
		}
	}

	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}

	return &Deck{cards: cards}
}

// Draw removes and returns the top card. The engine only ever draws a fixed
// number of cards per hand (2 per player, then 3+1+1), so drawing from an
// empty deck is a programming error.
func (d *Deck) Draw() Card {
	if len(d.cards) == 0 {
		panic("deck: draw from empty deck")
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card
}

// DrawN draws n cards from the top of the deck.
func (d *Deck) DrawN(n int) []Card {
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = d.Draw()
	}
	return cards
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards in draw pile order.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
