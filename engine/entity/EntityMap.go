package entity

import "github.com/Dynat/alpha-core/engine/common"

// EntityMap is the data structure for maintaining entity GUID to Entity pointer mapping
type EntityMap map[common.GUID]*Entity

// Add adds a new entity to EntityMap
func (em EntityMap) Add(entity *Entity) {
	em[entity.GUID] = entity
}

// Del deletes an entity from EntityMap
func (em EntityMap) Del(guid common.GUID) {
	delete(em, guid)
}

// Get returns the Entity of specified entity GUID in EntityMap
func (em EntityMap) Get(guid common.GUID) *Entity {
	return em[guid]
}

// Keys returns the sorted GUIDs of all entities in EntityMap
func (em EntityMap) Keys() []common.GUID {
	gs := make(common.GUIDSet, len(em))
	for guid := range em {
		gs.Add(guid)
	}
	return gs.ToList()
}

// Values returns all entities in EntityMap ordered by GUID
func (em EntityMap) Values() []*Entity {
	keys := em.Keys()
	list := make([]*Entity, len(keys))
	for i, guid := range keys {
		list[i] = em[guid]
	}
	return list
}
