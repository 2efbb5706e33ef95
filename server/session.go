package server

import (
	"bufio"
	"net"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"cardroom.com/server/game"
	"cardroom.com/server/logging"
)

var sessionLogger = log.With().Str("logger_name", "server::session").Logger()

// handleSession owns one client connection for its lifetime: assign an
// identity, register, loop over incoming lines, and clean up on
// disconnect. Malformed lines are dropped without closing the
// connection.
func (s *Server) handleSession(conn net.Conn) {
	playerID := uuid.New().String()
	s.registry.Register(playerID, conn)

	sessionLogger.Info().
		Str(logging.PlayerIDKey, playerID).
		Msgf("New connection from %s", conn.RemoteAddr())

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		message, err := decodeClientMessage(line)
		if err != nil {
			sessionLogger.Debug().
				Str(logging.PlayerIDKey, playerID).
				Msgf("Dropping undecodable line: %v", err)
			continue
		}

		switch message.Type {
		case game.ClientJoin:
			s.table.Join(playerID, message.Name)
		case game.ClientReady:
			s.table.StartHand()
		default:
			s.table.HandleAction(playerID, message)
		}
	}

	if err := scanner.Err(); err != nil {
		sessionLogger.Debug().
			Str(logging.PlayerIDKey, playerID).
			Msgf("Connection read failed: %v", err)
	}

	s.registry.Deregister(playerID)
	s.table.RemovePlayer(playerID)

	sessionLogger.Info().
		Str(logging.PlayerIDKey, playerID).
		Msg("Connection closed")
}
