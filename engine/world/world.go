// Package world runs the logic goroutine of the server.
//
// World owns the entity manager with its grid and transport, the guilds and the character
// storage. Every tick it fires the timers, runs the posted callbacks, flushes dirty entities
// and syncs the visible sets of the online players.
package world

import (
	"fmt"
	"sync"
	"time"

	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/config"
	"github.com/Dynat/alpha-core/engine/consts"
	"github.com/Dynat/alpha-core/engine/entity"
	"github.com/Dynat/alpha-core/engine/grid"
	"github.com/Dynat/alpha-core/engine/guild"
	"github.com/Dynat/alpha-core/engine/gwlog"
	"github.com/Dynat/alpha-core/engine/gwvar"
	"github.com/Dynat/alpha-core/engine/netutil"
	"github.com/Dynat/alpha-core/engine/opmon"
	"github.com/Dynat/alpha-core/engine/post"
	"github.com/Dynat/alpha-core/engine/session"
	"github.com/Dynat/alpha-core/engine/storage"
	"github.com/pkg/errors"
	timer "github.com/xiaonanln/goTimer"
	"go.uber.org/multierr"
)

// Storage persists character snapshots, callbacks run on the logic goroutine
type Storage interface {
	Save(guid common.GUID, data map[string]interface{}, callback storage.SaveCallbackFunc)
	Load(guid common.GUID, callback storage.LoadCallbackFunc)
}

type asyncStorage struct{}

func (asyncStorage) Save(guid common.GUID, data map[string]interface{}, callback storage.SaveCallbackFunc) {
	storage.Save(guid, data, callback)
}

func (asyncStorage) Load(guid common.GUID, callback storage.LoadCallbackFunc) {
	storage.Load(guid, callback)
}

// Deps override the collaborators World creates by default
type Deps struct {
	// Transport defaults to a session hub listening on the configured ports
	Transport entity.Transport
	// Storage defaults to package storage, which must be initialized
	Storage Storage
}

type bindPoint struct {
	mapID    uint32
	location entity.Vector
}

// World is the game world, all methods must be called on the logic goroutine
type World struct {
	Entities *entity.EntityManager
	Grid     *grid.Grid
	Guilds   *guild.Manager

	cfg         *config.AlphaCoreConfig
	hub         *session.Hub
	transport   entity.Transport
	storage     Storage
	players     map[common.ConnID]*entity.Entity
	bindPoints  map[common.GUID]bindPoint
	timers      map[common.GUID]*timer.Timer
	saveTimer   *timer.Timer
	nextLowGUID map[common.HighGuid]uint32

	corpseDecay   time.Duration
	spiritRelease time.Duration
	terminateOnce sync.Once
	terminating   chan struct{}
}

// New creates the world from the config
func New(cfg *config.AlphaCoreConfig, deps Deps) *World {
	w := &World{
		cfg:           cfg,
		transport:     deps.Transport,
		storage:       deps.Storage,
		players:       map[common.ConnID]*entity.Entity{},
		bindPoints:    map[common.GUID]bindPoint{},
		timers:        map[common.GUID]*timer.Timer{},
		nextLowGUID:   map[common.HighGuid]uint32{},
		corpseDecay:   consts.CREATURE_CORPSE_DECAY,
		spiritRelease: consts.PLAYER_SPIRIT_RELEASE_TIMEOUT,
		terminating:   make(chan struct{}),
	}
	if w.transport == nil {
		w.hub = session.NewHub(w)
		w.transport = w.hub
	}
	if w.storage == nil {
		w.storage = asyncStorage{}
	}

	ud := cfg.UnitDefaults
	entity.SetDefaultSpeeds(entity.MovementSpeeds{
		Walk:     ud.WalkSpeed,
		Run:      ud.RunSpeed,
		Swim:     ud.SwimSpeed,
		TurnRate: ud.TurnRate,
	})
	w.Grid = grid.New(cfg.World.AOIDistance)
	w.Entities = entity.NewEntityManager(entity.Deps{
		Grid:      w.Grid,
		Transport: w.transport,
		Maps:      &cfg.Maps,
	}, entity.Options{
		MaxLevel:          cfg.World.MaxLevel,
		XPRate:            cfg.World.XPRate,
		CompressThreshold: cfg.World.CompressThreshold,
	})
	w.Guilds = guild.NewManager(w.Entities)
	return w
}

func (w *World) String() string {
	return fmt.Sprintf("World<%d entities, %d players>", w.Entities.Count(), len(w.players))
}

// Hub returns the session hub, nil if another transport is used
func (w *World) Hub() *session.Hub {
	return w.hub
}

// Start listens for clients and schedules the periodic save
func (w *World) Start() error {
	wc := w.cfg.World
	if w.hub != nil {
		if _, err := w.hub.ListenTCP(fmt.Sprintf("%s:%d", wc.BindIp, wc.Port)); err != nil {
			return err
		}
		if wc.WebSocketPort > 0 {
			if _, err := w.hub.ListenWebSocket(fmt.Sprintf("%s:%d", wc.BindIp, wc.WebSocketPort)); err != nil {
				return err
			}
		}
	}
	if wc.SaveInterval > 0 {
		w.saveTimer = timer.AddTimer(wc.SaveInterval, w.SaveAll)
	}
	gwvar.IsWorldReady.Set(true)
	gwlog.Infof("%s started, maps %v", w, w.cfg.Maps.MapIDs())
	return nil
}

// Run ticks the world until Terminate is called, then stops it
func (w *World) Run() {
	ticker := time.NewTicker(w.cfg.World.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.Tick()
		case <-w.terminating:
			w.Stop()
			return
		}
	}
}

// Terminate makes Run stop the world, it can be called from any goroutine
func (w *World) Terminate() {
	w.terminateOnce.Do(func() {
		close(w.terminating)
	})
}

// Tick advances the world by one step
func (w *World) Tick() {
	op := opmon.StartOperation("World.Tick")
	defer op.Finish(consts.WORLD_TICK_WARN_THRESHOLD)

	timer.Tick()
	post.Tick()

	for _, e := range w.Entities.Entities() {
		if _, err := w.Entities.FlushIfDirty(e); err != nil {
			logSendError(err)
		}
	}
	for _, player := range w.Entities.OnlinePlayers() {
		if err := w.Entities.SyncVisibility(player); err != nil {
			logSendError(err)
		}
	}
	gwvar.EntityCount.Set(int64(w.Entities.Count()))
	gwvar.OnlinePlayers.Set(int64(len(w.players)))
}

// Stop logs out every player, cancels the timers and closes the sessions
func (w *World) Stop() {
	gwvar.IsWorldReady.Set(false)
	if w.saveTimer != nil {
		w.saveTimer.Cancel()
		w.saveTimer = nil
	}
	for _, player := range w.Entities.OnlinePlayers() {
		if err := w.LogoutPlayer(player.GUID); err != nil {
			logSendError(err)
		}
	}
	for _, e := range w.Entities.Entities() {
		w.cancelTimer(e.GUID)
		if err := w.Entities.Remove(e); err != nil {
			logSendError(err)
		}
	}
	w.Guilds.Clear()
	post.Tick()
	if w.hub != nil {
		w.hub.Shutdown()
	}
	gwlog.Infof("%s stopped", w)
}

// SaveAll saves the snapshot of every online player
func (w *World) SaveAll() {
	players := w.Entities.OnlinePlayers()
	for _, player := range players {
		w.save(player)
	}
	if len(players) > 0 {
		gwlog.Infof("%s: saving %d players", w, len(players))
	}
}

func (w *World) save(player *entity.Entity) {
	guid := player.GUID
	w.storage.Save(guid, player.PersistentData(), func() {
		if consts.DEBUG_SAVE_LOAD {
			gwlog.Debugf("player %s saved", guid)
		}
	})
}

func (w *World) setTimer(guid common.GUID, d time.Duration, callback func()) {
	w.cancelTimer(guid)
	w.timers[guid] = timer.AddCallback(d, func() {
		delete(w.timers, guid)
		callback()
	})
}

func (w *World) cancelTimer(guid common.GUID) {
	if t, ok := w.timers[guid]; ok {
		t.Cancel()
		delete(w.timers, guid)
	}
}

// allocGUID returns the next GUID of the high prefix that no live entity uses
func (w *World) allocGUID(high common.HighGuid) common.GUID {
	for {
		w.nextLowGUID[high]++
		guid := common.MakeGUID(high, w.nextLowGUID[high])
		if w.Entities.Get(guid) == nil {
			return guid
		}
	}
}

// reserveGUID keeps allocGUID from handing out an explicitly spawned GUID later
func (w *World) reserveGUID(guid common.GUID) {
	if high, low := guid.High(), guid.Low(); low > w.nextLowGUID[high] {
		w.nextLowGUID[high] = low
	}
}

func (w *World) applyUnitDefaults(info *entity.UnitInfo) {
	if info.BoundingRadius == 0 {
		info.BoundingRadius = w.cfg.UnitDefaults.BoundingRadius
	}
	if info.CombatReach == 0 {
		info.CombatReach = w.cfg.UnitDefaults.CombatReach
	}
}

func logSendError(err error) {
	for _, e := range multierr.Errors(err) {
		if netutil.IsConnectionError(errors.Cause(e)) {
			gwlog.Debugf("send failed: %s", e)
		} else {
			gwlog.Warnf("send failed: %s", e)
		}
	}
}
