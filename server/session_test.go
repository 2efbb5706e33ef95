package server

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardroom.com/server/game"
)

type sessionClient struct {
	conn   net.Conn
	reader *bufio.Reader
}

// startSession runs a real session loop against an in-memory pipe.
func startSession(t *testing.T, s *Server) *sessionClient {
	t.Helper()
	serverSide, clientSide := net.Pipe()
	go s.handleSession(serverSide)
	t.Cleanup(func() { clientSide.Close() })
	return &sessionClient{conn: clientSide, reader: bufio.NewReader(clientSide)}
}

func (c *sessionClient) sendLine(t *testing.T, line string) {
	t.Helper()
	require.NoError(t, c.conn.SetWriteDeadline(time.Now().Add(time.Second)))
	_, err := c.conn.Write([]byte(line + "\n"))
	require.NoError(t, err)
}

func (c *sessionClient) readMessage(t *testing.T) *game.ServerMessage {
	t.Helper()
	require.NoError(t, c.conn.SetReadDeadline(time.Now().Add(time.Second)))
	line, err := c.reader.ReadBytes('\n')
	require.NoError(t, err)
	var message game.ServerMessage
	require.NoError(t, json.Unmarshal(line, &message))
	return &message
}

func TestSessionJoinFlow(t *testing.T) {
	s := NewServer("127.0.0.1:0", game.DefaultGameConfig())
	alice := startSession(t, s)

	alice.sendLine(t, `{"type":"JOIN","name":"alice"}`)

	welcome := alice.readMessage(t)
	assert.Equal(t, game.ServerWelcome, welcome.Type)
	assert.NotEmpty(t, welcome.PlayerID)
	assert.Equal(t, 1000, welcome.Chips)

	state := alice.readMessage(t)
	require.Equal(t, game.ServerGameState, state.Type)
	require.Len(t, state.State.Players, 1)
	assert.Equal(t, "alice", state.State.Players[0].Name)
	assert.Equal(t, game.GamePhase_WAITING, state.State.Phase)
}

func TestSessionMalformedLinesAreDropped(t *testing.T) {
	s := NewServer("127.0.0.1:0", game.DefaultGameConfig())
	alice := startSession(t, s)

	alice.sendLine(t, "this is not json")
	alice.sendLine(t, `{"type":"NOPE"}`)
	alice.sendLine(t, `{"type":"JOIN","name":"alice"}`)

	// the connection survived the garbage and the join went through
	welcome := alice.readMessage(t)
	assert.Equal(t, game.ServerWelcome, welcome.Type)
}

func TestSessionReadyDealsHand(t *testing.T) {
	s := NewServer("127.0.0.1:0", game.DefaultGameConfig())
	alice := startSession(t, s)
	bob := startSession(t, s)

	alice.sendLine(t, `{"type":"JOIN","name":"alice"}`)
	require.Equal(t, game.ServerWelcome, alice.readMessage(t).Type)
	require.Equal(t, game.ServerGameState, alice.readMessage(t).Type)

	bob.sendLine(t, `{"type":"JOIN","name":"bob"}`)
	require.Equal(t, game.ServerWelcome, bob.readMessage(t).Type)
	// both see the snapshot for bob's join
	require.Equal(t, game.ServerGameState, alice.readMessage(t).Type)
	require.Equal(t, game.ServerGameState, bob.readMessage(t).Type)

	alice.sendLine(t, `{"type":"READY"}`)

	aliceDeal := alice.readMessage(t)
	require.Equal(t, game.ServerDealCards, aliceDeal.Type)
	assert.Len(t, aliceDeal.Cards, 2)

	bobDeal := bob.readMessage(t)
	require.Equal(t, game.ServerDealCards, bobDeal.Type)
	assert.Len(t, bobDeal.Cards, 2)

	aliceState := alice.readMessage(t)
	require.Equal(t, game.ServerGameState, aliceState.Type)
	assert.Equal(t, game.GamePhase_PREFLOP, aliceState.State.Phase)
	assert.Equal(t, 15, aliceState.State.Pot)
}

func TestSessionDisconnectRemovesPlayer(t *testing.T) {
	s := NewServer("127.0.0.1:0", game.DefaultGameConfig())
	alice := startSession(t, s)

	alice.sendLine(t, `{"type":"JOIN","name":"alice"}`)
	require.Equal(t, game.ServerWelcome, alice.readMessage(t).Type)
	require.Equal(t, 1, s.table.PlayerCount())

	alice.conn.Close()

	assert.Eventually(t, func() bool {
		return s.table.PlayerCount() == 0 && s.registry.Count() == 0
	}, time.Second, 10*time.Millisecond)
}
