package poker

import (
	"sort"

	"github.com/pkg/errors"
)

// ErrInsufficientCards is returned when a best-hand search is given
// fewer than five cards.
var ErrInsufficientCards = errors.New("at least 5 cards are needed to evaluate a hand")

// HandRank is the hand category. Higher values beat lower values.
type HandRank int32

const (
	HighCard HandRank = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var handRankName = map[HandRank]string{
	HighCard:      "High Card",
	OnePair:       "Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

func (r HandRank) String() string {
	return handRankName[r]
}

// HandValue is a totally ordered hand score. Category is compared first,
// then the tiebreak values lexicographically, most significant first.
type HandValue struct {
	Rank     HandRank `json:"rank"`
	Tiebreak []int    `json:"tiebreak"`
}

// Compare returns a negative number if h loses to other, zero when the
// hands are of equal strength, and a positive number if h wins.
func (h HandValue) Compare(other HandValue) int {
	if h.Rank != other.Rank {
		return int(h.Rank) - int(other.Rank)
	}
	for i := 0; i < len(h.Tiebreak) && i < len(other.Tiebreak); i++ {
		if h.Tiebreak[i] != other.Tiebreak[i] {
			return h.Tiebreak[i] - other.Tiebreak[i]
		}
	}
	return len(h.Tiebreak) - len(other.Tiebreak)
}

type rankGroup struct {
	rank  Rank
	count int
}

// Evaluate scores exactly five cards. It is a total function: every
// five-card input maps to a hand value.
func Evaluate(cards []Card) HandValue {
	sorted := make([]Card, len(cards))
	copy(sorted, cards)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Rank.Ordinal() > sorted[j].Rank.Ordinal()
	})

	isFlush := true
	for _, c := range sorted {
		if c.Suit != sorted[0].Suit {
			isFlush = false
			break
		}
	}

	straightHigh, isStraight := straightHighCard(sorted)
	groups := groupByRank(sorted)

	if isFlush && isStraight && sorted[0].Rank == Ace && straightHigh == Ace.Ordinal() {
		return HandValue{Rank: RoyalFlush, Tiebreak: []int{Ace.Ordinal()}}
	}

	if isFlush && isStraight {
		return HandValue{Rank: StraightFlush, Tiebreak: []int{straightHigh}}
	}

	if groups[0].count == 4 {
		return HandValue{
			Rank:     FourOfAKind,
			Tiebreak: []int{groups[0].rank.Ordinal(), groups[1].rank.Ordinal()},
		}
	}

	if groups[0].count == 3 && groups[1].count == 2 {
		return HandValue{
			Rank:     FullHouse,
			Tiebreak: []int{groups[0].rank.Ordinal(), groups[1].rank.Ordinal()},
		}
	}

	if isFlush {
		return HandValue{Rank: Flush, Tiebreak: descendingOrdinals(sorted)}
	}

	if isStraight {
		return HandValue{Rank: Straight, Tiebreak: []int{straightHigh}}
	}

	if groups[0].count == 3 {
		return HandValue{Rank: ThreeOfAKind, Tiebreak: groupOrdinals(groups)}
	}

	if groups[0].count == 2 && groups[1].count == 2 {
		return HandValue{
			Rank: TwoPair,
			Tiebreak: []int{
				groups[0].rank.Ordinal(),
				groups[1].rank.Ordinal(),
				groups[2].rank.Ordinal(),
			},
		}
	}

	if groups[0].count == 2 {
		return HandValue{Rank: OnePair, Tiebreak: groupOrdinals(groups)}
	}

	return HandValue{Rank: HighCard, Tiebreak: descendingOrdinals(sorted)}
}

// FindBestHand exhaustively evaluates every five-card subset of the input
// and returns the best one. With seven cards that is C(7,5) = 21
// evaluations, a negligible cost at showdown. Ties keep the first subset
// encountered.
func FindBestHand(cards []Card) ([]Card, HandValue, error) {
	if len(cards) < 5 {
		return nil, HandValue{}, ErrInsufficientCards
	}

	var bestHand []Card
	bestValue := HandValue{}
	n := len(cards)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				for l := k + 1; l < n; l++ {
					for m := l + 1; m < n; m++ {
						hand := []Card{cards[i], cards[j], cards[k], cards[l], cards[m]}
						value := Evaluate(hand)
						if value.Compare(bestValue) > 0 {
							bestValue = value
							bestHand = hand
						}
					}
				}
			}
		}
	}

	return bestHand, bestValue, nil
}

// straightHighCard expects cards sorted by rank descending. The wheel
// (A-5-4-3-2) counts as a straight valued at the five, not the ace.
func straightHighCard(sorted []Card) (int, bool) {
	if len(sorted) < 5 {
		return 0, false
	}

	if sorted[0].Rank == Ace &&
		sorted[1].Rank == Five &&
		sorted[2].Rank == Four &&
		sorted[3].Rank == Three &&
		sorted[4].Rank == Two {
		return Five.Ordinal(), true
	}

	for i := 0; i < len(sorted)-1; i++ {
		if sorted[i].Rank.Ordinal() != sorted[i+1].Rank.Ordinal()+1 {
			return 0, false
		}
	}
	return sorted[0].Rank.Ordinal(), true
}

// groupByRank returns (rank, count) pairs sorted by count descending,
// then by rank descending.
func groupByRank(cards []Card) []rankGroup {
	counts := make(map[Rank]int)
	for _, c := range cards {
		counts[c.Rank]++
	}

	groups := make([]rankGroup, 0, len(counts))
	for rank, count := range counts {
		groups = append(groups, rankGroup{rank: rank, count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank.Ordinal() > groups[j].rank.Ordinal()
	})
	return groups
}

func descendingOrdinals(sorted []Card) []int {
	values := make([]int, len(sorted))
	for i, c := range sorted {
		values[i] = c.Rank.Ordinal()
	}
	return values
}

func groupOrdinals(groups []rankGroup) []int {
	values := make([]int, len(groups))
	for i, g := range groups {
		values[i] = g.rank.Ordinal()
	}
	return values
}
