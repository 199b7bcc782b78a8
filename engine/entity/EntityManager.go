package entity

import (
	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/consts"
	"github.com/Dynat/alpha-core/engine/gwlog"
)

// Deps are the collaborators of EntityManager
type Deps struct {
	Grid      Grid
	Transport Transport
	QueryInfo QueryInfoProvider
	Maps      MapValidator
}

// Options tune EntityManager
type Options struct {
	MaxLevel uint32
	XPRate   float32

	// updates with a larger payload are compressed, negative disables compression
	CompressThreshold int
}

// DefaultOptions returns the options used when a zero value is given
func DefaultOptions() Options {
	return Options{
		MaxLevel:          25,
		XPRate:            1,
		CompressThreshold: consts.UPDATE_PACKET_COMPRESS_THRESHOLD,
	}
}

// EntityManager owns every entity of the world and drives their lifecycle and updates.
//
// It is not safe for concurrent use, all calls happen on the logic goroutine.
type EntityManager struct {
	entities  EntityMap
	grid      Grid
	transport Transport
	queryInfo QueryInfoProvider
	maps      MapValidator
	packer    *updatePacker
	opts      Options
}

// NewEntityManager creates an EntityManager
func NewEntityManager(deps Deps, opts Options) *EntityManager {
	if deps.Grid == nil || deps.Transport == nil || deps.Maps == nil {
		gwlog.Panicf("NewEntityManager: grid, transport and map validator are required")
	}
	defaults := DefaultOptions()
	if opts.MaxLevel == 0 {
		opts.MaxLevel = defaults.MaxLevel
	}
	if opts.XPRate <= 0 {
		opts.XPRate = defaults.XPRate
	}
	if opts.CompressThreshold == 0 {
		opts.CompressThreshold = defaults.CompressThreshold
	}
	if deps.QueryInfo == nil {
		deps.QueryInfo = DefaultQueryInfo{}
	}
	return &EntityManager{
		entities:  EntityMap{},
		grid:      deps.Grid,
		transport: deps.Transport,
		queryInfo: deps.QueryInfo,
		maps:      deps.Maps,
		packer:    newUpdatePacker(opts.CompressThreshold),
		opts:      opts,
	}
}

// Options returns the options in use
func (m *EntityManager) Options() Options {
	return m.opts
}

// Transport returns the transport that game clients send through
func (m *EntityManager) Transport() Transport {
	return m.transport
}

// MakeClient creates a game client bound to the transport of the manager
func (m *EntityManager) MakeClient(conn common.ConnID) *GameClient {
	return MakeGameClient(conn, m.transport)
}

// Get returns the active entity, nil if not found
func (m *EntityManager) Get(guid common.GUID) *Entity {
	return m.entities.Get(guid)
}

// Count returns the number of active entities
func (m *EntityManager) Count() int {
	return len(m.entities)
}

// Entities returns all active entities ordered by GUID
func (m *EntityManager) Entities() []*Entity {
	return m.entities.Values()
}

// OnlinePlayers returns the online players ordered by GUID
func (m *EntityManager) OnlinePlayers() []*Entity {
	var players []*Entity
	for _, e := range m.entities.Values() {
		if e.IsOnline() {
			players = append(players, e)
		}
	}
	return players
}

// FindPlayerByName returns the online player with the name, nil if not found
func (m *EntityManager) FindPlayerByName(name string) *Entity {
	for _, e := range m.entities {
		if e.IsOnline() && e.Name == name {
			return e
		}
	}
	return nil
}
