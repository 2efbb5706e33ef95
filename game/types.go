package game

import (
	"github.com/pkg/errors"

	"cardroom.com/server/poker"
)

// GamePhase is the betting state machine phase. Waiting and Showdown are
// transient administrative states; the four streets share one betting
// sub-protocol.
type GamePhase int32

const (
	GamePhase_WAITING GamePhase = iota
	GamePhase_PREFLOP
	GamePhase_FLOP
	GamePhase_TURN
	GamePhase_RIVER
	GamePhase_SHOWDOWN
)

var GamePhase_name = map[GamePhase]string{
	GamePhase_WAITING:  "WAITING",
	GamePhase_PREFLOP:  "PREFLOP",
	GamePhase_FLOP:     "FLOP",
	GamePhase_TURN:     "TURN",
	GamePhase_RIVER:    "RIVER",
	GamePhase_SHOWDOWN: "SHOWDOWN",
}

var GamePhase_value = map[string]GamePhase{
	"WAITING":  GamePhase_WAITING,
	"PREFLOP":  GamePhase_PREFLOP,
	"FLOP":     GamePhase_FLOP,
	"TURN":     GamePhase_TURN,
	"RIVER":    GamePhase_RIVER,
	"SHOWDOWN": GamePhase_SHOWDOWN,
}

func (p GamePhase) String() string {
	return GamePhase_name[p]
}

// isBettingPhase reports whether players act in this phase.
func (p GamePhase) isBettingPhase() bool {
	switch p {
	case GamePhase_PREFLOP, GamePhase_FLOP, GamePhase_TURN, GamePhase_RIVER:
		return true
	}
	return false
}

func (p GamePhase) MarshalJSON() ([]byte, error) {
	return []byte("\"" + GamePhase_name[p] + "\""), nil
}

func (p *GamePhase) UnmarshalJSON(b []byte) error {
	if len(b) < 2 {
		return errors.Errorf("invalid game phase json %s", string(b))
	}
	phase, ok := GamePhase_value[string(b[1:len(b)-1])]
	if !ok {
		return errors.Errorf("unknown game phase %s", string(b))
	}
	*p = phase
	return nil
}

// Player is a seated player. Hand, Bet and Folded are per-hand state and
// are reset when a new hand starts and again when the table returns to
// WAITING. Chips persist across hands and change only through bet
// contributions and pot awards.
//
// Active turns false when the player's connection drops in the middle of
// a hand; the seat is folded immediately and pruned at the end of the
// hand so that the turn and dealer pointers stay on real seats.
type Player struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Chips  int          `json:"chips"`
	Hand   []poker.Card `json:"hand"`
	Bet    int          `json:"bet"`
	Folded bool         `json:"folded"`
	Active bool         `json:"active"`
}

// TableState is the single shared aggregate. It is owned by Table and
// must only be touched while holding the table lock; broadcasts operate
// on a snapshot copy.
type TableState struct {
	Players          []*Player    `json:"players"`
	CommunityCards   []poker.Card `json:"community_cards"`
	Pot              int          `json:"pot"`
	CurrentBet       int          `json:"current_bet"`
	Phase            GamePhase    `json:"phase"`
	CurrentPlayerIdx int          `json:"current_player_idx"`
	DealerIdx        int          `json:"dealer_idx"`
}

// GameConfig carries the table parameters.
type GameConfig struct {
	SmallBlind    int `yaml:"small-blind"`
	BigBlind      int `yaml:"big-blind"`
	StartingChips int `yaml:"starting-chips"`
	MinPlayers    int `yaml:"min-players"`
	MaxPlayers    int `yaml:"max-players"`
}

// DefaultGameConfig returns the 5/10 blind table used when no config
// file is given.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		SmallBlind:    5,
		BigBlind:      10,
		StartingChips: 1000,
		MinPlayers:    2,
		MaxPlayers:    9,
	}
}
