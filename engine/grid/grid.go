// Package grid is the spatial index of the world: one XZ-list AOI manager per map.
package grid

import (
	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/entity"
	"github.com/Dynat/alpha-core/engine/gwlog"
	"github.com/xiaonanln/go-aoi"
)

// DefaultDistance is the AOI distance used when none is configured
const DefaultDistance = 100

type node struct {
	aoi       aoi.AOI
	entity    *entity.Entity
	mapID     uint32
	neighbors entity.EntityMap
}

func (n *node) OnEnterAOI(other *aoi.AOI) {
	o := other.Data.(*node)
	n.neighbors.Add(o.entity)
}

func (n *node) OnLeaveAOI(other *aoi.AOI) {
	o := other.Data.(*node)
	n.neighbors.Del(o.entity.GUID)
}

// Grid implements entity.Grid on top of go-aoi.
//
// The horizontal plane of the world is X/Y, it is mapped to the X/Z plane of the AOI managers.
type Grid struct {
	distance aoi.Coord
	maps     map[uint32]aoi.AOIManager
	nodes    map[common.GUID]*node
}

// New creates a Grid whose entities see each other within distance on both axes
func New(distance float32) *Grid {
	if distance <= 0 {
		distance = DefaultDistance
	}
	return &Grid{
		distance: aoi.Coord(distance),
		maps:     map[uint32]aoi.AOIManager{},
		nodes:    map[common.GUID]*node{},
	}
}

func (g *Grid) manager(mapID uint32) aoi.AOIManager {
	mgr, ok := g.maps[mapID]
	if !ok {
		mgr = aoi.NewXZListAOIManager(g.distance)
		g.maps[mapID] = mgr
		gwlog.Debugf("grid: AOI manager of map %d created", mapID)
	}
	return mgr
}

func (g *Grid) enter(n *node) {
	loc := n.entity.Location
	n.mapID = n.entity.MapID
	g.manager(n.mapID).Enter(&n.aoi, aoi.Coord(loc.X), aoi.Coord(loc.Y))
}

func (g *Grid) leave(n *node) {
	g.manager(n.mapID).Leave(&n.aoi)
	// clear both directions
	for guid, neighbor := range n.neighbors {
		if nn := g.nodes[neighbor.GUID]; nn != nil {
			nn.neighbors.Del(n.entity.GUID)
		}
		n.neighbors.Del(guid)
	}
}

// Register puts the entity into the AOI manager of its map
func (g *Grid) Register(e *entity.Entity) {
	if _, ok := g.nodes[e.GUID]; ok {
		gwlog.Warnf("grid: %s registered twice", e)
		g.Update(e)
		return
	}
	n := &node{
		entity:    e,
		neighbors: entity.EntityMap{},
	}
	aoi.InitAOI(&n.aoi, g.distance, n, n)
	g.nodes[e.GUID] = n
	g.enter(n)
}

// Deregister takes the entity out of the grid
func (g *Grid) Deregister(e *entity.Entity) {
	n, ok := g.nodes[e.GUID]
	if !ok {
		return
	}
	g.leave(n)
	delete(g.nodes, e.GUID)
}

// Update moves the entity to its current location, switching AOI managers when the map changed
func (g *Grid) Update(e *entity.Entity) {
	n, ok := g.nodes[e.GUID]
	if !ok {
		return
	}
	if n.mapID != e.MapID {
		g.leave(n)
		g.enter(n)
		return
	}
	g.manager(n.mapID).Moved(&n.aoi, aoi.Coord(e.Location.X), aoi.Coord(e.Location.Y))
}

// Surrounding returns the entities within the AOI distance, the entity itself excluded, ordered by GUID
func (g *Grid) Surrounding(e *entity.Entity) entity.Surrounding {
	var s entity.Surrounding
	n, ok := g.nodes[e.GUID]
	if !ok {
		return s
	}
	for _, other := range n.neighbors.Values() {
		switch {
		case other == e:
		case other.IsPlayer():
			s.Players = append(s.Players, other)
		case other.IsUnit():
			s.Units = append(s.Units, other)
		case other.IsGameObject():
			s.GameObjects = append(s.GameObjects, other)
		}
	}
	return s
}

// Count returns the number of registered entities
func (g *Grid) Count() int {
	return len(g.nodes)
}
