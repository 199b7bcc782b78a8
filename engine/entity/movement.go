package entity

import (
	"github.com/Dynat/alpha-core/engine/consts"
	"github.com/Dynat/alpha-core/engine/gwutils"
	"github.com/Dynat/alpha-core/engine/netutil"
	"github.com/Dynat/alpha-core/engine/proto"
	uf "github.com/Dynat/alpha-core/engine/updatefields"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// sendToObservers sends the framed packet to every player holding e
func (m *EntityManager) sendToObservers(e *Entity, data []byte) error {
	var errs error
	for _, observer := range e.observers() {
		if err := observer.client.send(data); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "send to %s", observer))
		}
	}
	return errs
}

// Move relocates an active entity inside its map and tells the players holding it
func (m *EntityManager) Move(e *Entity, loc Vector, movementFlags uint32) error {
	if !e.IsActive() || e.teleporting {
		return nil
	}
	e.Location = loc
	e.MovementFlags = movementFlags
	if e.GameObject != nil {
		e.Fields.SetFloat32(uf.GAMEOBJECT_POS_X, loc.X)
		e.Fields.SetFloat32(uf.GAMEOBJECT_POS_Y, loc.Y)
		e.Fields.SetFloat32(uf.GAMEOBJECT_POS_Z, loc.Z)
		e.Fields.SetFloat32(uf.GAMEOBJECT_FACING, loc.O)
	}
	m.grid.Update(e)
	data, err := m.packer.pack(BuildMovementPayload(e))
	if err != nil {
		return err
	}
	return m.sendToObservers(e, data)
}

type speedKind int

const (
	speedRun speedKind = iota
	speedSwim
	speedWalk
	speedTurn
)

func (m *EntityManager) changeSpeed(e *Entity, kind speedKind, speed float32) error {
	if e.Unit == nil {
		return nil
	}
	defaults := DefaultSpeeds()
	var target *float32
	var fallback float32
	var opcode proto.Opcode
	switch kind {
	case speedRun:
		target, fallback, opcode = &e.Speeds.Run, defaults.Run, proto.SMSG_FORCE_RUN_SPEED_CHANGE
	case speedSwim:
		target, fallback, opcode = &e.Speeds.Swim, defaults.Swim, proto.SMSG_FORCE_SWIM_SPEED_CHANGE
	case speedWalk:
		target, fallback, opcode = &e.Speeds.Walk, defaults.Walk, proto.MSG_MOVE_SET_WALK_SPEED
	case speedTurn:
		target, fallback, opcode = &e.Speeds.TurnRate, defaults.TurnRate, proto.MSG_MOVE_SET_TURN_RATE_CHEAT
	}
	if speed <= 0 {
		speed = fallback
	}
	if kind == speedTurn {
		*target = speed
	} else {
		*target = gwutils.ClampFloat32(speed, 0, consts.MAX_MOVEMENT_SPEED)
	}

	var errs error
	p := netutil.NewPacket()
	p.AppendFloat32(*target)
	if err := e.client.SendPacket(opcode, finishPayload(p)); err != nil {
		errs = multierr.Append(errs, errors.Wrapf(err, "%s to %s", opcode, e))
	}
	if !e.IsActive() {
		return errs
	}
	data, err := m.packer.pack(BuildMovementPayload(e))
	if err != nil {
		return multierr.Append(errs, err)
	}
	return multierr.Append(errs, m.sendToObservers(e, data))
}

// ChangeSpeed sets the run speed, a non-positive speed restores the default and speeds are capped at 56
func (m *EntityManager) ChangeSpeed(e *Entity, speed float32) error {
	return m.changeSpeed(e, speedRun, speed)
}

// ChangeSwimSpeed sets the swim speed like ChangeSpeed
func (m *EntityManager) ChangeSwimSpeed(e *Entity, speed float32) error {
	return m.changeSpeed(e, speedSwim, speed)
}

// ChangeWalkSpeed sets the walk speed like ChangeSpeed
func (m *EntityManager) ChangeWalkSpeed(e *Entity, speed float32) error {
	return m.changeSpeed(e, speedWalk, speed)
}

// ChangeTurnRate sets the turn rate, a non-positive rate restores the default. Turn rates are not capped.
func (m *EntityManager) ChangeTurnRate(e *Entity, rate float32) error {
	return m.changeSpeed(e, speedTurn, rate)
}
