package world

import (
	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/entity"
	"github.com/Dynat/alpha-core/engine/gwlog"
	"github.com/pkg/errors"
)

// LoginPlayer puts the player into the world on the connection and makes it visible
func (w *World) LoginPlayer(info entity.PlayerInfo, conn common.ConnID) (*entity.Entity, error) {
	if p := w.Entities.Get(info.GUID); p != nil {
		return nil, errors.Errorf("%s is already in world", p)
	}
	if p := w.players[conn]; p != nil {
		return nil, errors.Errorf("connection %d is already used by %s", conn, p)
	}
	if !w.cfg.Maps.IsValidMap(info.MapID) {
		return nil, errors.Errorf("player %s: invalid map %d", info.Name, info.MapID)
	}

	w.applyUnitDefaults(&info.UnitInfo)
	if info.GuildID != 0 {
		rank, ok := uint32(0), false
		if g := w.Guilds.Guild(info.GuildID); g != nil {
			rank, ok = g.Rank(info.GUID)
		}
		if ok {
			info.GuildRank = rank
		} else {
			info.GuildID, info.GuildRank = 0, 0
		}
	}

	player := entity.NewPlayer(info)
	player.SetClient(w.Entities.MakeClient(conn))
	w.players[conn] = player
	w.bindPoints[player.GUID] = bindPoint{mapID: info.MapID, location: info.Location}
	err := w.Entities.CompleteLogin(player)
	gwlog.Infof("%s logged in on connection %d", player, conn)
	return player, err
}

// LogoutPlayer saves the player and takes it out of the world
func (w *World) LogoutPlayer(guid common.GUID) error {
	player := w.Entities.Get(guid)
	if player == nil || !player.IsPlayer() {
		return errors.Errorf("player %s is not in world", guid)
	}

	w.Guilds.Forget(guid)
	w.cancelTimer(guid)
	w.save(player)
	err := w.Entities.Remove(player)
	if conn := player.Client().ConnID(); w.players[conn] == player {
		delete(w.players, conn)
	}
	delete(w.bindPoints, guid)
	gwlog.Infof("%s logged out", player)
	return err
}

// PlayerOf returns the player logged in on the connection, nil if none
func (w *World) PlayerOf(conn common.ConnID) *entity.Entity {
	return w.players[conn]
}

// TeleportPlayer starts teleporting the player, it returns false if the map is not valid
func (w *World) TeleportPlayer(guid common.GUID, mapID uint32, loc entity.Vector) (bool, error) {
	player := w.Entities.Get(guid)
	if player == nil || !player.IsPlayer() {
		return false, errors.Errorf("player %s is not in world", guid)
	}
	return w.Entities.Teleport(player, mapID, loc)
}

// KillUnit kills the unit. Creature corpses decay after a while, dead players
// release their spirit automatically if they do not ask for it.
func (w *World) KillUnit(e *entity.Entity) bool {
	if !e.Die() {
		return false
	}
	guid := e.GUID
	if e.IsPlayer() {
		w.setTimer(guid, w.spiritRelease, func() {
			if player := w.Entities.Get(guid); player != nil {
				if err := w.ReleaseSpirit(player); err != nil {
					logSendError(err)
				}
			}
		})
	} else if e.IsCreature() {
		w.setTimer(guid, w.corpseDecay, func() {
			if err := w.Despawn(guid); err != nil {
				gwlog.Warnf("corpse decay of %s: %s", guid, err)
			}
		})
	}
	gwlog.Debugf("%s died", e)
	return true
}

// ReleaseSpirit revives a dead player at its bind point with half health, mana, focus and energy
func (w *World) ReleaseSpirit(player *entity.Entity) error {
	if player.IsAlive() {
		return nil
	}
	w.cancelTimer(player.GUID)
	player.ReviveAtHalf()

	bp, ok := w.bindPoints[player.GUID]
	if !ok {
		return nil
	}
	_, err := w.Entities.Teleport(player, bp.mapID, bp.location)
	return err
}
