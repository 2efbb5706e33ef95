package game

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"cardroom.com/server/logging"
	"cardroom.com/server/poker"
)

var tableLogger = log.With().Str("logger_name", "game::table").Logger()

// Table owns the shared table state. Every mutation runs its
// read-modify-snapshot sequence under one lock; outbound messages are
// collected while locked and delivered after the lock is released so
// that a slow client can never stall the table.
type Table struct {
	config   GameConfig
	receiver MessageReceiver
	state    TableState
	handNum  uint32

	// tests inject a scripted deck here
	testDeck *poker.Deck

	lock sync.Mutex
}

// outbound is a message queued while the table lock is held.
type outbound struct {
	playerID  string // non-empty for unicast
	excludeID string
	message   *ServerMessage
}

type pendingMessages []outbound

func (p *pendingMessages) broadcast(message *ServerMessage) {
	*p = append(*p, outbound{message: message})
}

func (p *pendingMessages) unicast(playerID string, message *ServerMessage) {
	*p = append(*p, outbound{playerID: playerID, message: message})
}

func (p pendingMessages) flush(receiver MessageReceiver) {
	for _, out := range p {
		if out.playerID != "" {
			receiver.SendMessageToPlayer(out.playerID, out.message)
		} else {
			receiver.BroadcastMessage(out.message, out.excludeID)
		}
	}
}

// NewTable creates the single table for the server's lifetime.
func NewTable(config GameConfig, receiver MessageReceiver) *Table {
	return &Table{
		config: config,
		state: TableState{
			Players:        make([]*Player, 0, config.MaxPlayers),
			CommunityCards: make([]poker.Card, 0, 5),
			Phase:          GamePhase_WAITING,
		},
		receiver: receiver,
	}
}

// Join seats a new player. A player joining while a hand is in progress
// is seated folded and plays from the next hand.
func (t *Table) Join(playerID string, name string) {
	t.lock.Lock()
	var pending pendingMessages

	if t.playerIndexLocked(playerID) >= 0 {
		pending.unicast(playerID, errorMessage("Already seated"))
		t.lock.Unlock()
		pending.flush(t.receiver)
		return
	}

	if len(t.state.Players) >= t.config.MaxPlayers {
		pending.unicast(playerID, errorMessage("Table is full"))
		t.lock.Unlock()
		pending.flush(t.receiver)
		return
	}

	player := &Player{
		ID:     playerID,
		Name:   name,
		Chips:  t.config.StartingChips,
		Active: true,
	}
	if t.state.Phase != GamePhase_WAITING {
		// sits out the hand already underway
		player.Folded = true
	}
	t.state.Players = append(t.state.Players, player)

	pending.unicast(playerID, welcomeMessage(playerID, player.Chips))
	pending.broadcast(gameStateMessage(t.snapshotLocked()))
	t.lock.Unlock()

	tableLogger.Info().
		Str(logging.PlayerIDKey, playerID).
		Str(logging.PlayerNameKey, name).
		Msg(fmt.Sprintf("Player joined. %d players seated", t.PlayerCount()))
	pending.flush(t.receiver)
}

// StartHand moves the table from WAITING to PREFLOP: fresh shuffled
// deck, two hole cards per seat, blinds posted, small blind first to
// act. A request with fewer than the minimum seated players is a no-op.
func (t *Table) StartHand() {
	t.lock.Lock()
	var pending pendingMessages

	if t.state.Phase != GamePhase_WAITING || len(t.state.Players) < t.config.MinPlayers {
		t.lock.Unlock()
		return
	}

	deck := t.testDeck
	if deck == nil {
		deck = poker.NewDeck()
	}

	t.handNum++
	t.state.CommunityCards = t.state.CommunityCards[:0]
	for _, player := range t.state.Players {
		player.Hand = player.Hand[:0]
		player.Bet = 0
		player.Folded = false
	}

	// two hole cards per player in seating order
	for _, player := range t.state.Players {
		for i := 0; i < 2; i++ {
			card, err := deck.Deal()
			if err != nil {
				t.abortHandLocked(err)
				t.lock.Unlock()
				return
			}
			player.Hand = append(player.Hand, card)
		}
	}

	numPlayers := len(t.state.Players)
	smallBlindIdx := (t.state.DealerIdx + 1) % numPlayers
	bigBlindIdx := (t.state.DealerIdx + 2) % numPlayers

	t.state.Players[smallBlindIdx].Chips -= t.config.SmallBlind
	t.state.Players[smallBlindIdx].Bet = t.config.SmallBlind
	t.state.Players[bigBlindIdx].Chips -= t.config.BigBlind
	t.state.Players[bigBlindIdx].Bet = t.config.BigBlind
	t.state.Pot = t.config.SmallBlind + t.config.BigBlind
	t.state.CurrentBet = t.config.BigBlind
	t.state.Phase = GamePhase_PREFLOP
	t.state.CurrentPlayerIdx = smallBlindIdx

	// hole cards are immutable once dealt, so unicasting them after the
	// lock is released still shows each player a consistent view
	for _, player := range t.state.Players {
		cards := make([]poker.Card, len(player.Hand))
		copy(cards, player.Hand)
		pending.unicast(player.ID, dealCardsMessage(cards))
	}
	pending.broadcast(gameStateMessage(t.snapshotLocked()))

	handNum := t.handNum
	t.lock.Unlock()

	tableLogger.Info().
		Uint32(logging.HandNumKey, handNum).
		Int("players", numPlayers).
		Msg("New hand dealt. Good luck every one")
	pending.flush(t.receiver)
}

// HandleAction applies one betting action from a client. Illegal actions
// and turn violations are reported only to the actor and leave the
// table unchanged.
func (t *Table) HandleAction(playerID string, message *ClientMessage) {
	t.lock.Lock()
	var pending pendingMessages

	playerIdx := t.playerIndexLocked(playerID)
	if playerIdx < 0 {
		t.lock.Unlock()
		return
	}

	if !t.state.Phase.isBettingPhase() {
		pending.unicast(playerID, errorMessage("No hand is in progress"))
		t.lock.Unlock()
		pending.flush(t.receiver)
		return
	}

	if playerIdx != t.state.CurrentPlayerIdx {
		pending.unicast(playerID, errorMessage("It is not your turn"))
		t.lock.Unlock()
		pending.flush(t.receiver)
		return
	}

	player := t.state.Players[playerIdx]
	var actionStr string
	switch message.Type {
	case ClientFold:
		player.Folded = true
		actionStr = "fold"

	case ClientCheck:
		if player.Bet < t.state.CurrentBet {
			pending.unicast(playerID, errorMessage("Cannot check, there is a bet to call"))
			t.lock.Unlock()
			pending.flush(t.receiver)
			return
		}
		actionStr = "check"

	case ClientCall:
		callAmount := t.state.CurrentBet - player.Bet
		if callAmount > player.Chips {
			pending.unicast(playerID, errorMessage("Not enough chips to call"))
			t.lock.Unlock()
			pending.flush(t.receiver)
			return
		}
		player.Chips -= callAmount
		player.Bet = t.state.CurrentBet
		t.state.Pot += callAmount
		actionStr = "call"

	case ClientRaise:
		if message.Amount <= 0 {
			pending.unicast(playerID, errorMessage("Raise amount must be positive"))
			t.lock.Unlock()
			pending.flush(t.receiver)
			return
		}
		totalBet := t.state.CurrentBet + message.Amount
		raiseAmount := totalBet - player.Bet
		if raiseAmount > player.Chips {
			pending.unicast(playerID, errorMessage("Not enough chips to raise"))
			t.lock.Unlock()
			pending.flush(t.receiver)
			return
		}
		player.Chips -= raiseAmount
		player.Bet = totalBet
		t.state.CurrentBet = totalBet
		t.state.Pot += raiseAmount
		actionStr = fmt.Sprintf("raise %d", message.Amount)

	default:
		t.lock.Unlock()
		return
	}

	tableLogger.Info().
		Uint32(logging.HandNumKey, t.handNum).
		Str(logging.PlayerNameKey, player.Name).
		Str(logging.PhaseKey, t.state.Phase.String()).
		Msg(fmt.Sprintf("Action: %s. Pot: %d", actionStr, t.state.Pot))

	pending.broadcast(playerActionMessage(playerID, actionStr))
	t.advanceAfterActionLocked(&pending)
	t.lock.Unlock()
	pending.flush(t.receiver)
}

// RemovePlayer handles a dropped connection. During a hand the seat is
// folded and deactivated so the turn and dealer pointers stay valid; the
// seat is pruned when the hand ends. In WAITING the seat is removed
// immediately.
func (t *Table) RemovePlayer(playerID string) {
	t.lock.Lock()
	var pending pendingMessages

	playerIdx := t.playerIndexLocked(playerID)
	if playerIdx < 0 {
		t.lock.Unlock()
		return
	}
	player := t.state.Players[playerIdx]

	tableLogger.Info().
		Str(logging.PlayerIDKey, playerID).
		Str(logging.PlayerNameKey, player.Name).
		Str(logging.PhaseKey, t.state.Phase.String()).
		Msg("Player left the table")

	if t.state.Phase == GamePhase_WAITING {
		t.state.Players = append(t.state.Players[:playerIdx], t.state.Players[playerIdx+1:]...)
		if len(t.state.Players) > 0 {
			if t.state.DealerIdx >= playerIdx && t.state.DealerIdx > 0 {
				t.state.DealerIdx--
			}
			t.state.DealerIdx = t.state.DealerIdx % len(t.state.Players)
		} else {
			t.state.DealerIdx = 0
		}
		t.state.CurrentPlayerIdx = 0
		pending.broadcast(gameStateMessage(t.snapshotLocked()))
		t.lock.Unlock()
		pending.flush(t.receiver)
		return
	}

	wasFolded := player.Folded
	player.Folded = true
	player.Active = false
	pending.broadcast(playerActionMessage(playerID, "disconnected"))

	if wasFolded {
		// the seat was already out of the hand; nothing moves
		pending.broadcast(gameStateMessage(t.snapshotLocked()))
		t.lock.Unlock()
		pending.flush(t.receiver)
		return
	}

	if playerIdx == t.state.CurrentPlayerIdx {
		t.advanceAfterActionLocked(&pending)
	} else {
		// the departing seat may have been the only one holding up the
		// street, so run the same end-of-hand and end-of-street checks
		if !t.checkHandOverLocked(&pending) {
			pending.broadcast(gameStateMessage(t.snapshotLocked()))
		}
	}
	t.lock.Unlock()
	pending.flush(t.receiver)
}

// Snapshot returns a deep copy of the table state with every player's
// hole cards redacted. Hole cards travel only via the DealCards unicast.
func (t *Table) Snapshot() *TableState {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.snapshotLocked()
}

// PlayerCount returns the number of seated players.
func (t *Table) PlayerCount() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return len(t.state.Players)
}

func (t *Table) playerIndexLocked(playerID string) int {
	for i, player := range t.state.Players {
		if player.ID == playerID {
			return i
		}
	}
	return -1
}

func (t *Table) snapshotLocked() *TableState {
	players := make([]*Player, len(t.state.Players))
	for i, p := range t.state.Players {
		copied := *p
		copied.Hand = nil
		players[i] = &copied
	}
	community := make([]poker.Card, len(t.state.CommunityCards))
	copy(community, t.state.CommunityCards)
	return &TableState{
		Players:          players,
		CommunityCards:   community,
		Pot:              t.state.Pot,
		CurrentBet:       t.state.CurrentBet,
		Phase:            t.state.Phase,
		CurrentPlayerIdx: t.state.CurrentPlayerIdx,
		DealerIdx:        t.state.DealerIdx,
	}
}

// advanceAfterActionLocked moves the turn pointer past the acting seat,
// then runs the end-of-hand and end-of-street checks.
func (t *Table) advanceAfterActionLocked(pending *pendingMessages) {
	t.advanceTurnLocked()
	if t.checkHandOverLocked(pending) {
		return
	}
	if t.allBetsEqualLocked() {
		t.advanceStreetLocked(pending)
		return
	}
	pending.broadcast(gameStateMessage(t.snapshotLocked()))
}

// advanceTurnLocked moves the turn pointer cyclically to the next
// non-folded seat.
func (t *Table) advanceTurnLocked() {
	numPlayers := len(t.state.Players)
	for i := 0; i < numPlayers; i++ {
		t.state.CurrentPlayerIdx = (t.state.CurrentPlayerIdx + 1) % numPlayers
		if !t.state.Players[t.state.CurrentPlayerIdx].Folded {
			return
		}
	}
}

func (t *Table) activePlayersLocked() []*Player {
	active := make([]*Player, 0, len(t.state.Players))
	for _, player := range t.state.Players {
		if !player.Folded {
			active = append(active, player)
		}
	}
	return active
}

// checkHandOverLocked awards the pot when only one seat remains in the
// hand and resets the table. Returns true when the hand ended.
func (t *Table) checkHandOverLocked(pending *pendingMessages) bool {
	active := t.activePlayersLocked()
	if len(active) != 1 {
		return false
	}
	winner := active[0]
	amount := t.state.Pot
	winner.Chips += amount

	tableLogger.Info().
		Uint32(logging.HandNumKey, t.handNum).
		Str(logging.PlayerNameKey, winner.Name).
		Msg(fmt.Sprintf("Hand won by attrition. Pot: %d", amount))

	pending.broadcast(gameOverMessage(winner.ID, amount))
	t.resetHandLocked()
	return true
}

func (t *Table) allBetsEqualLocked() bool {
	for _, player := range t.state.Players {
		if player.Folded {
			continue
		}
		if player.Bet != t.state.CurrentBet {
			return false
		}
	}
	return true
}

// advanceStreetLocked deals the next community cards from a fresh deck
// with all cards already in play excluded, so no card is ever dealt
// twice in one hand.
func (t *Table) advanceStreetLocked(pending *pendingMessages) {
	deck := t.testDeck
	if deck == nil {
		inPlay := make([]poker.Card, 0, len(t.state.Players)*2+len(t.state.CommunityCards))
		for _, player := range t.state.Players {
			inPlay = append(inPlay, player.Hand...)
		}
		inPlay = append(inPlay, t.state.CommunityCards...)
		deck = poker.NewDeckExcluding(inPlay)
	}

	var dealCount int
	switch t.state.Phase {
	case GamePhase_PREFLOP:
		dealCount = 3
		t.state.Phase = GamePhase_FLOP
	case GamePhase_FLOP:
		dealCount = 1
		t.state.Phase = GamePhase_TURN
	case GamePhase_TURN:
		dealCount = 1
		t.state.Phase = GamePhase_RIVER
	case GamePhase_RIVER:
		t.state.Phase = GamePhase_SHOWDOWN
		t.showdownLocked(pending)
		return
	default:
		return
	}

	for i := 0; i < dealCount; i++ {
		card, err := deck.Deal()
		if err != nil {
			t.abortHandLocked(err)
			return
		}
		t.state.CommunityCards = append(t.state.CommunityCards, card)
	}

	for _, player := range t.state.Players {
		player.Bet = 0
	}
	t.state.CurrentBet = 0
	t.state.CurrentPlayerIdx = t.firstActiveFromLocked(t.state.DealerIdx + 1)

	tableLogger.Info().
		Uint32(logging.HandNumKey, t.handNum).
		Str(logging.PhaseKey, t.state.Phase.String()).
		Msg(fmt.Sprintf("Street dealt. Board: %s", poker.CardsToString(t.state.CommunityCards)))

	pending.broadcast(gameStateMessage(t.snapshotLocked()))
}

// firstActiveFromLocked returns the first non-folded seat at or after
// the given index.
func (t *Table) firstActiveFromLocked(idx int) int {
	numPlayers := len(t.state.Players)
	for i := 0; i < numPlayers; i++ {
		candidate := (idx + i) % numPlayers
		if !t.state.Players[candidate].Folded {
			return candidate
		}
	}
	return idx % numPlayers
}

// showdownLocked evaluates every remaining seat's best seven-card hand.
// Equal-maximal hands split the pot; the remainder chip goes to the
// tied winner seated closest after the dealer.
func (t *Table) showdownLocked(pending *pendingMessages) {
	var best poker.HandValue
	winners := make([]*Player, 0, 1)

	numPlayers := len(t.state.Players)
	for i := 0; i < numPlayers; i++ {
		// scan from the seat after the dealer so the first tied winner
		// is the one owed the remainder
		player := t.state.Players[(t.state.DealerIdx+1+i)%numPlayers]
		if player.Folded {
			continue
		}

		allCards := make([]poker.Card, 0, 7)
		allCards = append(allCards, player.Hand...)
		allCards = append(allCards, t.state.CommunityCards...)
		bestCards, value, err := poker.FindBestHand(allCards)
		if err != nil {
			tableLogger.Error().
				Uint32(logging.HandNumKey, t.handNum).
				Str(logging.PlayerNameKey, player.Name).
				Msg(fmt.Sprintf("Cannot evaluate hand: %v", err))
			continue
		}

		tableLogger.Info().
			Uint32(logging.HandNumKey, t.handNum).
			Str(logging.PlayerNameKey, player.Name).
			Msg(fmt.Sprintf("Showdown: %s %s", value.Rank, poker.CardsToString(bestCards)))

		cmp := value.Compare(best)
		if len(winners) == 0 || cmp > 0 {
			best = value
			winners = winners[:0]
			winners = append(winners, player)
		} else if cmp == 0 {
			winners = append(winners, player)
		}
	}

	if len(winners) == 0 {
		// no evaluable hands; nothing to award
		t.resetHandLocked()
		return
	}

	share := t.state.Pot / len(winners)
	remainder := t.state.Pot % len(winners)
	for i, winner := range winners {
		amount := share
		if i == 0 {
			amount += remainder
		}
		winner.Chips += amount
		pending.broadcast(gameOverMessage(winner.ID, amount))

		tableLogger.Info().
			Uint32(logging.HandNumKey, t.handNum).
			Str(logging.PlayerNameKey, winner.Name).
			Msg(fmt.Sprintf("Winner: %s. Amount: %d", best.Rank, amount))
	}

	t.resetHandLocked()
}

// resetHandLocked returns the table to WAITING: per-hand fields cleared,
// disconnected seats pruned, dealer button advanced.
func (t *Table) resetHandLocked() {
	remaining := make([]*Player, 0, len(t.state.Players))
	for _, player := range t.state.Players {
		if player.Active {
			remaining = append(remaining, player)
		}
	}
	t.state.Players = remaining

	for _, player := range t.state.Players {
		player.Hand = nil
		player.Bet = 0
		player.Folded = false
	}
	t.state.CommunityCards = t.state.CommunityCards[:0]
	t.state.Pot = 0
	t.state.CurrentBet = 0
	t.state.Phase = GamePhase_WAITING
	t.state.CurrentPlayerIdx = 0
	if len(t.state.Players) > 0 {
		t.state.DealerIdx = (t.state.DealerIdx + 1) % len(t.state.Players)
	} else {
		t.state.DealerIdx = 0
	}
}

// abortHandLocked handles a deck invariant violation: the hand cannot
// continue, so the table is reset.
func (t *Table) abortHandLocked(err error) {
	tableLogger.Error().
		Uint32(logging.HandNumKey, t.handNum).
		Str(logging.PhaseKey, t.state.Phase.String()).
		Msg(fmt.Sprintf("Aborting hand, deck invariant violated: %v", err))
	t.resetHandLocked()
}
