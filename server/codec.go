package server

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"cardroom.com/server/game"
)

// The wire protocol is one self-describing JSON message per line.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

var clientMessageTypes = map[string]bool{
	game.ClientJoin:  true,
	game.ClientReady: true,
	game.ClientFold:  true,
	game.ClientCheck: true,
	game.ClientCall:  true,
	game.ClientRaise: true,
}

// encodeMessage serializes a server message and appends the line frame.
func encodeMessage(message *game.ServerMessage) ([]byte, error) {
	data, err := json.Marshal(message)
	if err != nil {
		return nil, errors.Wrap(err, "cannot encode server message")
	}
	return append(data, '\n'), nil
}

// decodeClientMessage parses one line from a client. Unknown message
// types are an error; the session silently drops such lines.
func decodeClientMessage(line []byte) (*game.ClientMessage, error) {
	var message game.ClientMessage
	if err := json.Unmarshal(line, &message); err != nil {
		return nil, errors.Wrap(err, "cannot decode client message")
	}
	if !clientMessageTypes[message.Type] {
		return nil, errors.Errorf("unknown client message type [%s]", message.Type)
	}
	return &message, nil
}
