package poker

import (
	crypto_rand "crypto/rand"
	"encoding/binary"
	"math/rand"

	"github.com/pkg/errors"
)

// ErrDeckExhausted is returned when a card is dealt from an empty deck.
// A full deck covers 9 players and the board (23 cards), so hitting this
// during a hand is an invariant violation.
var ErrDeckExhausted = errors.New("deck is exhausted")

var fullDeck []Card

func init() {
	fullDeck = initializeFullCards()
}

// Deck is an owned, mutable ordered sequence of cards.
type Deck struct {
	cards []Card
}

func newSeed() rand.Source {
	var b [8]byte
	_, err := crypto_rand.Read(b[:])
	if err != nil {
		panic("cannot seed math/rand package with cryptographically secure random number generator")
	}
	return rand.NewSource(int64(binary.LittleEndian.Uint64(b[:])))
}

// NewDeck returns a shuffled 52-card deck.
func NewDeck() *Deck {
	deck := &Deck{}
	deck.cards = make([]Card, len(fullDeck))
	copy(deck.cards, fullDeck)
	deck.Shuffle()
	return deck
}

// NewDeckNoShuffle returns the 52 cards in their canonical order.
func NewDeckNoShuffle() *Deck {
	deck := &Deck{}
	deck.cards = make([]Card, len(fullDeck))
	copy(deck.cards, fullDeck)
	return deck
}

// NewDeckExcluding returns a shuffled deck with the given cards removed.
// Used when dealing community cards so that cards already in play can
// never be dealt twice within one hand.
func NewDeckExcluding(inPlay []Card) *Deck {
	deck := &Deck{}
	deck.cards = make([]Card, 0, len(fullDeck))
	for _, card := range fullDeck {
		excluded := false
		for _, used := range inPlay {
			if card == used {
				excluded = true
				break
			}
		}
		if !excluded {
			deck.cards = append(deck.cards, card)
		}
	}
	deck.Shuffle()
	return deck
}

// Shuffle randomly permutes the remaining cards in place.
func (deck *Deck) Shuffle() *Deck {
	randGen := rand.New(newSeed())
	n := len(deck.cards)
	for i := range deck.cards {
		loc := randGen.Intn(n)
		deck.cards[i], deck.cards[loc] = deck.cards[loc], deck.cards[i]
	}
	return deck
}

// Deal removes and returns the top card.
func (deck *Deck) Deal() (Card, error) {
	if len(deck.cards) == 0 {
		return Card{}, ErrDeckExhausted
	}
	card := deck.cards[len(deck.cards)-1]
	deck.cards = deck.cards[:len(deck.cards)-1]
	return card, nil
}

// Remaining returns the number of undealt cards.
func (deck *Deck) Remaining() int {
	return len(deck.cards)
}

func (deck *Deck) PrettyPrint() string {
	return CardsToString(deck.cards)
}

func initializeFullCards() []Card {
	var cards []Card
	for suit := range suitToChar {
		for rank := range rankToSymbol {
			cards = append(cards, Card{Rank: rank, Suit: suit})
		}
	}
	return cards
}
