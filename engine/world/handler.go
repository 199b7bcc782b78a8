package world

import (
	"strings"

	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/entity"
	"github.com/Dynat/alpha-core/engine/gwlog"
	"github.com/Dynat/alpha-core/engine/netutil"
	"github.com/Dynat/alpha-core/engine/proto"
	"github.com/Dynat/alpha-core/engine/session"
)

// OnSessionOpen is called when a client connects
func (w *World) OnSessionOpen(s *session.Session) {
	gwlog.Debugf("%s: %s connected", w, s)
}

// OnSessionClose logs out the player of the session
func (w *World) OnSessionClose(s *session.Session) {
	if player := w.players[s.ID]; player != nil {
		if err := w.LogoutPlayer(player.GUID); err != nil {
			logSendError(err)
		}
	}
}

// OnSessionPacket handles a packet sent by the client
func (w *World) OnSessionPacket(s *session.Session, opcode proto.Opcode, payload []byte) {
	w.handlePacket(s.ID, opcode, payload)
}

func (w *World) isConnected(conn common.ConnID) bool {
	return w.hub == nil || w.hub.Session(conn) != nil
}

func (w *World) handlePacket(conn common.ConnID, opcode proto.Opcode, payload []byte) {
	if opcode == proto.CMSG_PLAYER_LOGIN {
		w.handlePlayerLogin(conn, payload)
		return
	}

	player := w.players[conn]
	if player == nil {
		gwlog.Warnf("connection %d sent %s before login", conn, opcode)
		return
	}

	var err error
	switch opcode {
	case proto.CMSG_LOGOUT_REQUEST:
		err = w.LogoutPlayer(player.GUID)
		if sendErr := w.transport.Send(conn, proto.MakePacket(proto.SMSG_LOGOUT_COMPLETE, nil)); err == nil {
			err = sendErr
		}
	case proto.MSG_MOVE_TELEPORT_ACK, proto.MSG_MOVE_WORLDPORT_ACK:
		err = w.Entities.CompleteTeleport(player)
	case proto.CMSG_GUILD_INVITE:
		err = w.Guilds.InviteByName(player, readName(payload))
	case proto.CMSG_GUILD_ACCEPT:
		err = w.Guilds.AcceptInvite(player)
	case proto.CMSG_GUILD_PROMOTE:
		err = w.Guilds.Promote(player, strings.TrimSpace(readName(payload)))
	case proto.CMSG_REPOP_REQUEST:
		err = w.ReleaseSpirit(player)
	default:
		gwlog.Debugf("%s: unhandled %s", player, opcode)
	}
	if err != nil {
		logSendError(err)
	}
}

func readName(payload []byte) string {
	if len(payload) == 0 {
		return ""
	}
	return netutil.NewPacketFrom(payload).ReadCString()
}

func (w *World) handlePlayerLogin(conn common.ConnID, payload []byte) {
	if w.players[conn] != nil || len(payload) < 8 {
		gwlog.Warnf("connection %d: bad login request", conn)
		return
	}
	guid := common.GUID(netutil.NewPacketFrom(payload).ReadUint64())
	w.storage.Load(guid, func(data map[string]interface{}, err error) {
		if err != nil || data == nil {
			gwlog.Warnf("connection %d: load character %s failed: %v", conn, guid, err)
			return
		}
		if !w.isConnected(conn) {
			return
		}
		info, err := entity.LoadPlayerInfo(data)
		if err != nil {
			gwlog.Errorf("connection %d: bad character %s: %s", conn, guid, err)
			return
		}
		if _, err := w.LoginPlayer(info, conn); err != nil {
			logSendError(err)
		}
	})
}
