package entity

import (
	"github.com/Dynat/alpha-core/engine/netutil"
	"github.com/Dynat/alpha-core/engine/proto"
	uf "github.com/Dynat/alpha-core/engine/updatefields"
)

// DefaultQueryInfo answers the query a client would send after an entity is created:
// the name query for players, the creature or game object query for the others
type DefaultQueryInfo struct{}

// QueryDetails returns the framed query response of e, nil if e has none
func (DefaultQueryInfo) QueryDetails(e *Entity) []byte {
	switch {
	case e.IsPlayer():
		return NameQueryResponse(e)
	case e.IsUnit():
		return creatureQueryResponse(e)
	case e.IsGameObject():
		return gameObjectQueryResponse(e)
	}
	return nil
}

// NameQueryResponse builds SMSG_NAME_QUERY_RESPONSE of a player
func NameQueryResponse(e *Entity) []byte {
	p := netutil.NewPacket()
	p.AppendUint64(uint64(e.GUID))
	p.AppendCString(e.Name)
	p.AppendUint32(uint32(e.Player.Race))
	p.AppendUint32(uint32(e.Player.Gender))
	p.AppendUint32(uint32(e.Player.Class))
	return proto.MakePacket(proto.SMSG_NAME_QUERY_RESPONSE, finishPayload(p))
}

func creatureQueryResponse(e *Entity) []byte {
	p := netutil.NewPacket()
	p.AppendUint32(e.Entry)
	p.AppendCString(e.Name)
	p.AppendCString("")
	p.AppendCString("")
	p.AppendCString("")
	p.AppendCString("") // sub name
	p.AppendUint32(0)   // type flags
	p.AppendUint32(0)   // creature type
	p.AppendUint32(0)   // family
	p.AppendUint32(0)   // rank
	p.AppendUint32(0)
	p.AppendUint32(e.DisplayID())
	return proto.MakePacket(proto.SMSG_CREATURE_QUERY_RESPONSE, finishPayload(p))
}

func gameObjectQueryResponse(e *Entity) []byte {
	p := netutil.NewPacket()
	p.AppendUint32(e.Entry)
	p.AppendUint32(e.GameObject.Type)
	p.AppendUint32(e.Fields.Uint32(uf.GAMEOBJECT_DISPLAYID))
	p.AppendCString(e.Name)
	p.AppendCString("")
	p.AppendCString("")
	p.AppendCString("")
	for i := 0; i < 10; i++ {
		p.AppendUint32(0)
	}
	return proto.MakePacket(proto.SMSG_GAMEOBJECT_QUERY_RESPONSE, finishPayload(p))
}
