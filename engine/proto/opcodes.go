package proto

import "fmt"

// Opcode identifies the type of a world packet
type Opcode uint32

// Server to client opcodes used by the world
const (
	SMSG_NEW_WORLD                 Opcode = 0x03E
	SMSG_TRANSFER_PENDING          Opcode = 0x03F
	SMSG_NAME_QUERY_RESPONSE       Opcode = 0x051
	SMSG_GAMEOBJECT_QUERY_RESPONSE Opcode = 0x05F
	SMSG_CREATURE_QUERY_RESPONSE   Opcode = 0x061
	SMSG_GUILD_INVITE              Opcode = 0x083
	SMSG_GUILD_EVENT               Opcode = 0x092
	SMSG_GUILD_COMMAND_RESULT      Opcode = 0x093
	SMSG_UPDATE_OBJECT             Opcode = 0x0A9
	SMSG_DESTROY_OBJECT            Opcode = 0x0AA
	MSG_MOVE_TELEPORT_ACK          Opcode = 0x0C7
	MSG_MOVE_SET_WALK_SPEED        Opcode = 0x0D1
	MSG_MOVE_SET_TURN_RATE_CHEAT   Opcode = 0x0D7
	SMSG_FORCE_RUN_SPEED_CHANGE    Opcode = 0x0E2
	SMSG_FORCE_SWIM_SPEED_CHANGE   Opcode = 0x0E6
	SMSG_LOG_XPGAIN                Opcode = 0x1D0
	SMSG_LEVELUP_INFO              Opcode = 0x1D4
	SMSG_COMPRESSED_UPDATE_OBJECT  Opcode = 0x1F6
	SMSG_LOGOUT_COMPLETE           Opcode = 0x04D
)

// Client to server opcodes handled by the world
const (
	CMSG_PLAYER_LOGIN      Opcode = 0x03D
	CMSG_LOGOUT_REQUEST    Opcode = 0x04B
	CMSG_GUILD_INVITE      Opcode = 0x082
	CMSG_GUILD_ACCEPT      Opcode = 0x084
	CMSG_GUILD_PROMOTE     Opcode = 0x08B
	MSG_MOVE_WORLDPORT_ACK Opcode = 0x0DC
	CMSG_REPOP_REQUEST     Opcode = 0x15A
)

var opcodeNames = map[Opcode]string{
	SMSG_NEW_WORLD:                 "SMSG_NEW_WORLD",
	SMSG_TRANSFER_PENDING:          "SMSG_TRANSFER_PENDING",
	SMSG_NAME_QUERY_RESPONSE:       "SMSG_NAME_QUERY_RESPONSE",
	SMSG_GAMEOBJECT_QUERY_RESPONSE: "SMSG_GAMEOBJECT_QUERY_RESPONSE",
	SMSG_CREATURE_QUERY_RESPONSE:   "SMSG_CREATURE_QUERY_RESPONSE",
	SMSG_GUILD_INVITE:              "SMSG_GUILD_INVITE",
	SMSG_GUILD_EVENT:               "SMSG_GUILD_EVENT",
	SMSG_GUILD_COMMAND_RESULT:      "SMSG_GUILD_COMMAND_RESULT",
	SMSG_UPDATE_OBJECT:             "SMSG_UPDATE_OBJECT",
	SMSG_DESTROY_OBJECT:            "SMSG_DESTROY_OBJECT",
	MSG_MOVE_TELEPORT_ACK:          "MSG_MOVE_TELEPORT_ACK",
	MSG_MOVE_SET_WALK_SPEED:        "MSG_MOVE_SET_WALK_SPEED",
	MSG_MOVE_SET_TURN_RATE_CHEAT:   "MSG_MOVE_SET_TURN_RATE_CHEAT",
	SMSG_FORCE_RUN_SPEED_CHANGE:    "SMSG_FORCE_RUN_SPEED_CHANGE",
	SMSG_FORCE_SWIM_SPEED_CHANGE:   "SMSG_FORCE_SWIM_SPEED_CHANGE",
	SMSG_LOG_XPGAIN:                "SMSG_LOG_XPGAIN",
	SMSG_LEVELUP_INFO:              "SMSG_LEVELUP_INFO",
	SMSG_COMPRESSED_UPDATE_OBJECT:  "SMSG_COMPRESSED_UPDATE_OBJECT",
	SMSG_LOGOUT_COMPLETE:           "SMSG_LOGOUT_COMPLETE",
	CMSG_PLAYER_LOGIN:              "CMSG_PLAYER_LOGIN",
	CMSG_LOGOUT_REQUEST:            "CMSG_LOGOUT_REQUEST",
	CMSG_GUILD_INVITE:              "CMSG_GUILD_INVITE",
	CMSG_GUILD_ACCEPT:              "CMSG_GUILD_ACCEPT",
	CMSG_GUILD_PROMOTE:             "CMSG_GUILD_PROMOTE",
	MSG_MOVE_WORLDPORT_ACK:         "MSG_MOVE_WORLDPORT_ACK",
	CMSG_REPOP_REQUEST:             "CMSG_REPOP_REQUEST",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Opcode<0x%03X>", uint32(op))
}
