package entity

import (
	"fmt"

	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/consts"
	"github.com/Dynat/alpha-core/engine/gwlog"
	"github.com/Dynat/alpha-core/engine/proto"
)

// GameClient represents the game client of a player
//
// A player has at most one GameClient, sending to a nil GameClient is a no-op
type GameClient struct {
	conn      common.ConnID
	transport Transport
}

// MakeGameClient creates a GameClient sending to conn through transport
func MakeGameClient(conn common.ConnID, transport Transport) *GameClient {
	return &GameClient{
		conn:      conn,
		transport: transport,
	}
}

func (client *GameClient) String() string {
	if client == nil {
		return "GameClient<nil>"
	}
	return fmt.Sprintf("GameClient<%d>", client.conn)
}

// ConnID returns the connection of the client
func (client *GameClient) ConnID() common.ConnID {
	return client.conn
}

// SendPacket frames the payload with the opcode and sends it
func (client *GameClient) SendPacket(opcode proto.Opcode, payload []byte) error {
	if client == nil {
		return nil
	}
	if consts.DEBUG_PACKETS {
		gwlog.Debugf("%s.SendPacket: %s, %d bytes", client, opcode, len(payload))
	}
	return client.send(proto.MakePacket(opcode, payload))
}

func (client *GameClient) send(data []byte) error {
	if client == nil {
		return nil
	}
	return client.transport.Send(client.conn, data)
}
