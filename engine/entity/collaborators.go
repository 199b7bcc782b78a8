package entity

import "github.com/Dynat/alpha-core/engine/common"

// Surrounding is the result of a spatial query around an entity, it may include the entity itself
type Surrounding struct {
	Players     []*Entity
	Units       []*Entity
	GameObjects []*Entity
}

// ForEach calls f on every entity of the surrounding
func (s *Surrounding) ForEach(f func(e *Entity)) {
	for _, e := range s.Players {
		f(e)
	}
	for _, e := range s.Units {
		f(e)
	}
	for _, e := range s.GameObjects {
		f(e)
	}
}

// Grid is the spatial index of active entities
type Grid interface {
	Register(e *Entity)
	Deregister(e *Entity)
	// Update repositions the entity after it moved or changed map
	Update(e *Entity)
	Surrounding(e *Entity) Surrounding
}

// Transport delivers framed packets to client connections
type Transport interface {
	Send(conn common.ConnID, data []byte) error
}

// QueryInfoProvider gives the query response a client needs right after an entity is created on it
type QueryInfoProvider interface {
	QueryDetails(e *Entity) []byte
}

// MapValidator tells if a map id exists
type MapValidator interface {
	IsValidMap(mapID uint32) bool
}
