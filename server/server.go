package server

import (
	"net"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"cardroom.com/server/game"
)

var serverLogger = log.With().Str("logger_name", "server::server").Logger()

// Server accepts TCP connections and runs one session goroutine per
// connection. It implements game.MessageReceiver, bridging the table
// to the connection registry.
type Server struct {
	addr     string
	registry *Registry
	table    *game.Table
}

// NewServer wires the table to a fresh registry. The table's messages
// flow back through this server into the registry.
func NewServer(addr string, gameConfig game.GameConfig) *Server {
	server := &Server{
		addr:     addr,
		registry: NewRegistry(),
	}
	server.table = game.NewTable(gameConfig, server)
	return server
}

// Table exposes the shared table, e.g. for the REST status surface.
func (s *Server) Table() *game.Table {
	return s.table
}

// Serve binds the listener and accepts connections until the listener
// fails. Binding errors are fatal to startup and returned to main.
func (s *Server) Serve() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrapf(err, "cannot listen on %s", s.addr)
	}
	serverLogger.Info().Msgf("Holdem server listening on %s", s.addr)

	for {
		conn, err := listener.Accept()
		if err != nil {
			return errors.Wrap(err, "accept failed")
		}
		go s.handleSession(conn)
	}
}

// BroadcastMessage implements game.MessageReceiver.
func (s *Server) BroadcastMessage(message *game.ServerMessage, excludeID string) {
	data, err := encodeMessage(message)
	if err != nil {
		serverLogger.Error().Msgf("Cannot encode broadcast message: %v", err)
		return
	}
	s.registry.Broadcast(data, excludeID)
}

// SendMessageToPlayer implements game.MessageReceiver.
func (s *Server) SendMessageToPlayer(playerID string, message *game.ServerMessage) {
	data, err := encodeMessage(message)
	if err != nil {
		serverLogger.Error().Msgf("Cannot encode message for player %s: %v", playerID, err)
		return
	}
	s.registry.Unicast(playerID, data)
}
