package poker

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Suit of a card.
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// Rank of a card. Two is the lowest rank, ace is the highest.
type Rank int

const (
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

var (
	rankToSymbol = map[Rank]string{
		Two: "2", Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7",
		Eight: "8", Nine: "9", Ten: "T", Jack: "J", Queen: "Q", King: "K", Ace: "A",
	}
	symbolToRank = map[uint8]Rank{
		'2': Two, '3': Three, '4': Four, '5': Five, '6': Six, '7': Seven,
		'8': Eight, '9': Nine, 'T': Ten, 'J': Jack, 'Q': Queen, 'K': King, 'A': Ace,
	}
	rankToOrdinal = map[Rank]int{
		Two: 2, Three: 3, Four: 4, Five: 5, Six: 6, Seven: 7, Eight: 8,
		Nine: 9, Ten: 10, Jack: 11, Queen: 12, King: 13, Ace: 14,
	}

	suitToChar = map[Suit]string{
		Hearts: "h", Diamonds: "d", Clubs: "c", Spades: "s",
	}
	charToSuit = map[uint8]Suit{
		'h': Hearts, 'd': Diamonds, 'c': Clubs, 's': Spades,
	}
	prettySuits = map[Suit]string{
		Hearts:   "❤",
		Diamonds: "♦",
		Clubs:    "♣",
		Spades:   "♠",
	}
)

// Ordinal returns the numeric value used for ordering and tiebreak encoding.
// Ranks are never compared through raw integer casts of the enum.
func (r Rank) Ordinal() int {
	return rankToOrdinal[r]
}

// Symbol returns the single character rank notation.
func (r Rank) Symbol() string {
	return rankToSymbol[r]
}

// Symbol returns the unicode suit symbol.
func (s Suit) Symbol() string {
	return prettySuits[s]
}

// Card is an immutable rank/suit pair. Two cards are equal when both
// rank and suit match.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard parses the two character card notation, e.g. "Kh", "Td", "As".
func NewCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, errors.Errorf("invalid card notation [%s]", s)
	}
	rank, ok := symbolToRank[s[0]]
	if !ok {
		return Card{}, errors.Errorf("invalid card rank [%c]", s[0])
	}
	suit, ok := charToSuit[s[1]]
	if !ok {
		return Card{}, errors.Errorf("invalid card suit [%c]", s[1])
	}
	return Card{Rank: rank, Suit: suit}, nil
}

func (c Card) String() string {
	return rankToSymbol[c.Rank] + suitToChar[c.Suit]
}

// PrettyString returns the card with a unicode suit symbol, e.g. "K♠".
func (c Card) PrettyString() string {
	return rankToSymbol[c.Rank] + prettySuits[c.Suit]
}

func (c Card) MarshalJSON() ([]byte, error) {
	return []byte("\"" + c.String() + "\""), nil
}

func (c *Card) UnmarshalJSON(b []byte) error {
	if len(b) != 4 || b[0] != '"' || b[3] != '"' {
		return errors.Errorf("invalid card json %s", string(b))
	}
	card, err := NewCard(string(b[1:3]))
	if err != nil {
		return err
	}
	*c = card
	return nil
}

// CardsToString pretty prints a set of cards, e.g. [ K♠  Q♦ ].
func CardsToString(cards []Card) string {
	var b strings.Builder
	b.Grow(32)
	fmt.Fprintf(&b, "[")
	for _, c := range cards {
		fmt.Fprintf(&b, " %s ", c.PrettyString())
	}
	fmt.Fprintf(&b, "]")
	return b.String()
}
