package apiserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardroom.com/server/game"
)

type nullReceiver struct{}

func (nullReceiver) BroadcastMessage(message *game.ServerMessage, excludeID string) {}
func (nullReceiver) SendMessageToPlayer(playerID string, message *game.ServerMessage) {
}

func TestHealthEndpoint(t *testing.T) {
	table := game.NewTable(game.DefaultGameConfig(), nullReceiver{})
	api := NewAPIServer("127.0.0.1:0", table)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	api.router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestTableEndpointReturnsRedactedSnapshot(t *testing.T) {
	table := game.NewTable(game.DefaultGameConfig(), nullReceiver{})
	table.Join("p1", "alice")
	table.Join("p2", "bob")
	table.StartHand()

	api := NewAPIServer("127.0.0.1:0", table)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/table", nil)
	api.router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var state game.TableState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, game.GamePhase_PREFLOP, state.Phase)
	assert.Equal(t, 15, state.Pot)
	require.Len(t, state.Players, 2)
	for _, player := range state.Players {
		assert.Empty(t, player.Hand)
	}
}
