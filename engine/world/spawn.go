package world

import (
	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/entity"
	"github.com/pkg/errors"
)

// SpawnCreature creates the creature and shows it to nearby players, a zero GUID is allocated
func (w *World) SpawnCreature(info entity.CreatureInfo) (*entity.Entity, error) {
	if !w.cfg.Maps.IsValidMap(info.MapID) {
		return nil, errors.Errorf("creature %s: invalid map %d", info.Name, info.MapID)
	}
	if info.GUID == 0 {
		info.GUID = w.allocGUID(common.HighGuidUnit)
	} else if w.Entities.Get(info.GUID) != nil {
		return nil, errors.Errorf("creature %s already exists", info.GUID)
	} else {
		w.reserveGUID(info.GUID)
	}
	w.applyUnitDefaults(&info.UnitInfo)
	creature := entity.NewCreature(info)
	return creature, w.Entities.Spawn(creature)
}

// SpawnGameObject creates the game object and shows it to nearby players, a zero GUID is allocated
func (w *World) SpawnGameObject(info entity.GameObjectInfo) (*entity.Entity, error) {
	if !w.cfg.Maps.IsValidMap(info.MapID) {
		return nil, errors.Errorf("game object %s: invalid map %d", info.Name, info.MapID)
	}
	if info.GUID == 0 {
		info.GUID = w.allocGUID(common.HighGuidGameObject)
	} else if w.Entities.Get(info.GUID) != nil {
		return nil, errors.Errorf("game object %s already exists", info.GUID)
	} else {
		w.reserveGUID(info.GUID)
	}
	gameObject := entity.NewGameObject(info)
	return gameObject, w.Entities.Spawn(gameObject)
}

// Despawn removes a creature or game object from the world
func (w *World) Despawn(guid common.GUID) error {
	e := w.Entities.Get(guid)
	if e == nil {
		return errors.Errorf("%s is not in world", guid)
	}
	if e.IsPlayer() {
		return errors.Errorf("%s is a player, log it out instead", e)
	}
	w.cancelTimer(guid)
	return w.Entities.Remove(e)
}
