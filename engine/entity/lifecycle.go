package entity

import (
	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/consts"
	"github.com/Dynat/alpha-core/engine/gwlog"
	"github.com/Dynat/alpha-core/engine/netutil"
	"github.com/Dynat/alpha-core/engine/opmon"
	"github.com/Dynat/alpha-core/engine/proto"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

func (m *EntityManager) activate(e *Entity) {
	e.state = stateActive
	m.entities.Add(e)
	m.grid.Register(e)
	gwlog.Debugf("%s activated at map %d %s", e, e.MapID, e.Location)
}

// broadcastCreate creates e on every nearby player that does not hold it yet
func (m *EntityManager) broadcastCreate(e *Entity) error {
	var errs error
	around := m.grid.Surrounding(e)
	for _, player := range around.Players {
		if player == e || !player.IsActive() || player.teleporting || player.visible.Contains(e.GUID) {
			continue
		}
		errs = multierr.Append(errs, m.reveal(player, e))
	}
	return errs
}

// Spawn activates a creature or a game object and creates it on the nearby players
func (m *EntityManager) Spawn(e *Entity) error {
	if e.IsPlayer() {
		gwlog.Panicf("%s: players enter the world with CompleteLogin", e)
	}
	if e.state != stateInactive {
		return nil
	}
	if other := m.entities.Get(e.GUID); other != nil {
		return errors.Errorf("spawn %s: guid is used by %s", e, other)
	}
	m.activate(e)
	return m.broadcastCreate(e)
}

// CompleteLogin activates a player: the client gets its own create packet,
// nearby players get the player, and the player gets what is around it
func (m *EntityManager) CompleteLogin(player *Entity) error {
	if !player.IsPlayer() {
		gwlog.Panicf("%s: CompleteLogin requires a player", player)
	}
	if player.state != stateInactive {
		return nil
	}
	if other := m.entities.Get(player.GUID); other != nil {
		return errors.Errorf("login %s: guid is used by %s", player, other)
	}
	player.Player.Online = true
	m.activate(player)

	var errs error
	data, err := m.packer.pack(BuildCreatePayload(player, true))
	if err != nil {
		return err
	}
	if err := player.client.send(data); err != nil {
		errs = multierr.Append(errs, errors.Wrapf(err, "create %s on itself", player))
	}
	if details := m.queryInfo.QueryDetails(player); len(details) > 0 {
		if err := player.client.send(details); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "query details of %s to itself", player))
		}
	}
	errs = multierr.Append(errs, m.broadcastCreate(player))
	errs = multierr.Append(errs, m.SyncVisibility(player))
	return errs
}

// MarkDirty makes the next flush send a partial update even if no field was written
func (m *EntityManager) MarkDirty(e *Entity) {
	e.forceDirty = true
}

// FlushIfDirty sends the fields written since the last flush to the entity's own client
// and to every player holding the entity, then repositions it in the grid.
//
// The dirty mask is cleared only if every send succeeded, so a failed flush is retried
// by the next one. It returns whether a partial update was built.
func (m *EntityManager) FlushIfDirty(e *Entity) (bool, error) {
	if !e.IsActive() || e.teleporting || !e.IsDirty() {
		return false, nil
	}

	op := opmon.StartOperation("FlushIfDirty")
	defer op.Finish(consts.ENTITY_FLUSH_WARN_THRESHOLD)

	data, err := m.packer.pack(BuildPartialPayload(e))
	if err != nil {
		return false, err
	}

	var errs error
	if err := e.client.send(data); err != nil {
		errs = multierr.Append(errs, errors.Wrapf(err, "flush %s to itself", e))
	}
	for _, observer := range e.observers() {
		if err := observer.client.send(data); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "flush %s to %s", e, observer))
		}
	}
	m.grid.Update(e)

	if errs != nil {
		return true, errs
	}
	e.Fields.ClearDirty()
	e.forceDirty = false
	return true, nil
}

// Remove destroys the entity on every player holding it and takes it out of the world.
//
// Operations on a removed entity are no-ops.
func (m *EntityManager) Remove(e *Entity) error {
	switch e.state {
	case stateRemoved:
		return nil
	case stateInactive:
		e.state = stateRemoved
		return nil
	}

	var errs error
	for _, observer := range e.observers() {
		if _, err := m.destroyNear(observer, e.GUID); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	e.visible.reset()
	m.grid.Deregister(e)
	m.entities.Del(e.GUID)
	e.state = stateRemoved
	if e.Player != nil {
		e.Player.Online = false
	}
	gwlog.Debugf("%s removed", e)
	return errs
}

// Teleport starts moving a player to the location of a map.
//
// It returns false and changes nothing if the map does not exist. Otherwise the player
// disappears from every nearby client and stays invisible until CompleteTeleport.
func (m *EntityManager) Teleport(player *Entity, mapID uint32, loc Vector) (bool, error) {
	if !player.IsPlayer() {
		gwlog.Panicf("%s: Teleport requires a player", player)
	}
	if !player.IsActive() || !m.maps.IsValidMap(mapID) {
		return false, nil
	}

	player.teleporting = true

	var errs error
	handled := common.GUIDSet{}
	for _, observer := range player.observers() {
		handled.Add(observer.GUID)
		if _, err := m.destroyNear(observer, player.GUID); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	// clients that may hold the player without being tracked get a direct destroy
	around := m.grid.Surrounding(player)
	for _, other := range around.Players {
		if other == player || handled.Contains(other.GUID) || !other.IsActive() {
			continue
		}
		if err := other.client.send(buildDestroyPacket(player.GUID)); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "destroy %s on %s", player, other))
		}
	}

	if player.MapID == mapID && mapID <= 1 {
		p := netutil.NewPacket()
		p.AppendUint64(uint64(player.TransportGUID))
		writeVector(p, player.TransportOffset)
		writeVector(p, loc)
		p.AppendFloat32(0) // pitch
		p.AppendUint32(0)  // movement flags
		if err := player.client.SendPacket(proto.MSG_MOVE_TELEPORT_ACK, finishPayload(p)); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "teleport ack to %s", player))
		}
	} else {
		if err := player.client.SendPacket(proto.SMSG_TRANSFER_PENDING, nil); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "transfer pending to %s", player))
		}
		p := netutil.NewPacket()
		p.AppendByte(uint8(mapID))
		writeVector(p, loc)
		if err := player.client.SendPacket(proto.SMSG_NEW_WORLD, finishPayload(p)); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "new world to %s", player))
		}
		player.newWorld = true
	}

	player.MapID = mapID
	player.Location = loc
	gwlog.Infof("%s teleporting to map %d %s", player, mapID, loc)
	return true, errs
}

// CompleteTeleport makes the player visible again at its destination
func (m *EntityManager) CompleteTeleport(player *Entity) error {
	if !player.IsActive() || !player.teleporting {
		return nil
	}
	player.teleporting = false
	m.grid.Update(player)

	var errs error
	if player.newWorld {
		// the client dropped every object while loading the new world
		player.newWorld = false
		player.visible.reset()
		data, err := m.packer.pack(BuildCreatePayload(player, true))
		if err != nil {
			return err
		}
		if err := player.client.send(data); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "create %s on itself", player))
		}
	}
	errs = multierr.Append(errs, m.broadcastCreate(player))
	errs = multierr.Append(errs, m.SyncVisibility(player))
	return errs
}
