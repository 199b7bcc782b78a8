package entity

import (
	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/consts"
	"github.com/Dynat/alpha-core/engine/gwlog"
	"github.com/Dynat/alpha-core/engine/opmon"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// VisibilitySet holds the entities created on the client of a player.
//
// An entity is in the set iff the client holds a live representation of it. The owner never contains itself.
type VisibilitySet struct {
	owner   *Entity
	entries map[common.GUID]*Entity
}

func newVisibilitySet(owner *Entity) *VisibilitySet {
	return &VisibilitySet{
		owner:   owner,
		entries: map[common.GUID]*Entity{},
	}
}

// Contains returns if the entity is created on the client
func (vs *VisibilitySet) Contains(guid common.GUID) bool {
	if vs == nil {
		return false
	}
	_, ok := vs.entries[guid]
	return ok
}

// Get returns the created entity, nil if absent
func (vs *VisibilitySet) Get(guid common.GUID) *Entity {
	if vs == nil {
		return nil
	}
	return vs.entries[guid]
}

// Len returns the number of created entities
func (vs *VisibilitySet) Len() int {
	if vs == nil {
		return 0
	}
	return len(vs.entries)
}

// GUIDs returns the sorted guids of the created entities
func (vs *VisibilitySet) GUIDs() []common.GUID {
	if vs == nil {
		return nil
	}
	gs := make(common.GUIDSet, len(vs.entries))
	for guid := range vs.entries {
		gs.Add(guid)
	}
	return gs.ToList()
}

func (vs *VisibilitySet) add(target *Entity) {
	if target == vs.owner {
		gwlog.Panicf("%s: can not add itself to its visibility set", vs.owner)
	}
	vs.entries[target.GUID] = target
	target.observedBy[vs.owner.GUID] = vs.owner
}

func (vs *VisibilitySet) remove(guid common.GUID) {
	target, ok := vs.entries[guid]
	if !ok {
		return
	}
	delete(vs.entries, guid)
	if target.observedBy[vs.owner.GUID] == vs.owner {
		delete(target.observedBy, vs.owner.GUID)
	}
}

func (vs *VisibilitySet) reset() {
	for guid := range vs.entries {
		vs.remove(guid)
	}
}

// observers returns the players holding e on their clients, ordered by guid
func (e *Entity) observers() []*Entity {
	gs := make(common.GUIDSet, len(e.observedBy))
	for guid := range e.observedBy {
		gs.Add(guid)
	}
	list := make([]*Entity, 0, len(gs))
	for _, guid := range gs.ToList() {
		list = append(list, e.observedBy[guid])
	}
	return list
}

// reveal creates target on the client of observer, then sends the query details of target.
//
// target enters the visibility set only after the create packet is sent.
func (m *EntityManager) reveal(observer *Entity, target *Entity) error {
	data, err := m.packer.pack(BuildCreatePayload(target, false))
	if err != nil {
		return err
	}
	if err := observer.client.send(data); err != nil {
		return errors.Wrapf(err, "create %s on %s", target, observer)
	}
	observer.visible.add(target)
	if consts.DEBUG_VISIBILITY {
		gwlog.Debugf("%s: created %s", observer, target)
	}
	if details := m.queryInfo.QueryDetails(target); len(details) > 0 {
		if err := observer.client.send(details); err != nil {
			return errors.Wrapf(err, "query details of %s to %s", target, observer)
		}
	}
	return nil
}

// destroyNear destroys the entity on the client of observer if the client holds it.
//
// The entry stays in the visibility set when the destroy packet can not be sent.
func (m *EntityManager) destroyNear(observer *Entity, guid common.GUID) (bool, error) {
	if !observer.visible.Contains(guid) {
		return false, nil
	}
	if err := observer.client.send(buildDestroyPacket(guid)); err != nil {
		return true, errors.Wrapf(err, "destroy %s on %s", guid, observer)
	}
	observer.visible.remove(guid)
	if consts.DEBUG_VISIBILITY {
		gwlog.Debugf("%s: destroyed %s", observer, guid)
	}
	return true, nil
}

// DestroyNearObject destroys the entity on the client of observer.
//
// It returns false without sending anything if the client does not hold the entity.
func (m *EntityManager) DestroyNearObject(observer *Entity, guid common.GUID) (bool, error) {
	return m.destroyNear(observer, guid)
}

// SyncVisibility reconciles the visibility set of a player with its surroundings.
//
// Every active entity around the player that the client does not hold yet is created,
// and every held entity that is no longer around is destroyed. Failed sends are
// retried by the next pass.
func (m *EntityManager) SyncVisibility(observer *Entity) error {
	if !observer.IsPlayer() || !observer.IsActive() || observer.teleporting {
		return nil
	}

	op := opmon.StartOperation("SyncVisibility")
	defer op.Finish(consts.ENTITY_FLUSH_WARN_THRESHOLD)

	var errs error
	synced := common.GUIDSet{}
	around := m.grid.Surrounding(observer)
	around.ForEach(func(target *Entity) {
		if target == observer || !target.IsActive() || target.teleporting {
			return
		}
		if !observer.visible.Contains(target.GUID) {
			errs = multierr.Append(errs, m.reveal(observer, target))
		}
		if observer.visible.Contains(target.GUID) {
			synced.Add(target.GUID)
		}
	})

	for _, guid := range observer.visible.GUIDs() {
		if synced.Contains(guid) {
			continue
		}
		if _, err := m.destroyNear(observer, guid); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
