package game

import (
	"cardroom.com/server/poker"
)

// Client messages
// These messages are sent by a connected client, one per line.
const (
	ClientJoin  string = "JOIN"
	ClientReady string = "READY"
	ClientFold  string = "FOLD"
	ClientCheck string = "CHECK"
	ClientCall  string = "CALL"
	ClientRaise string = "RAISE"
)

// Server messages
const (
	ServerWelcome      string = "WELCOME"
	ServerGameState    string = "GAME_STATE"
	ServerDealCards    string = "DEAL_CARDS"
	ServerPlayerAction string = "PLAYER_ACTED"
	ServerGameOver     string = "GAME_OVER"
	ServerError        string = "ERROR"
)

// ClientMessage is the tagged union decoded from a client line. The
// Type field selects which of the remaining fields are meaningful.
type ClientMessage struct {
	Type   string `json:"type"`
	Name   string `json:"name,omitempty"`
	Amount int    `json:"amount,omitempty"`
}

// ServerMessage is the tagged union sent to clients.
type ServerMessage struct {
	Type     string       `json:"type"`
	PlayerID string       `json:"player_id,omitempty"`
	Chips    int          `json:"chips,omitempty"`
	State    *TableState  `json:"state,omitempty"`
	Cards    []poker.Card `json:"cards,omitempty"`
	Action   string       `json:"action,omitempty"`
	WinnerID string       `json:"winner_id,omitempty"`
	Amount   int          `json:"amount,omitempty"`
	Message  string       `json:"message,omitempty"`
}

func welcomeMessage(playerID string, chips int) *ServerMessage {
	return &ServerMessage{Type: ServerWelcome, PlayerID: playerID, Chips: chips}
}

func gameStateMessage(state *TableState) *ServerMessage {
	return &ServerMessage{Type: ServerGameState, State: state}
}

func dealCardsMessage(cards []poker.Card) *ServerMessage {
	return &ServerMessage{Type: ServerDealCards, Cards: cards}
}

func playerActionMessage(playerID string, action string) *ServerMessage {
	return &ServerMessage{Type: ServerPlayerAction, PlayerID: playerID, Action: action}
}

func gameOverMessage(winnerID string, amount int) *ServerMessage {
	return &ServerMessage{Type: ServerGameOver, WinnerID: winnerID, Amount: amount}
}

func errorMessage(message string) *ServerMessage {
	return &ServerMessage{Type: ServerError, Message: message}
}

// MessageReceiver fans server messages out to connected clients.
// Both operations are best effort and must not block the game on a
// slow consumer.
type MessageReceiver interface {
	BroadcastMessage(message *ServerMessage, excludeID string)
	SendMessageToPlayer(playerID string, message *ServerMessage)
}
