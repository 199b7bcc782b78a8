// Package gwvar publishes the state of the world with expvar, served at /debug/vars by the pprof server
package gwvar

import "expvar"

// Bool is a boolean expvar
type Bool struct {
	val *expvar.Int
}

// NewBool publishes a new Bool with name
func NewBool(name string) *Bool {
	return &Bool{
		val: expvar.NewInt(name),
	}
}

func (b *Bool) Value() bool {
	return b.val.Value() > 0
}

func (b *Bool) Set(v bool) {
	if v {
		b.val.Set(1)
	} else {
		b.val.Set(0)
	}
}

var (
	// IsWorldReady is true between World.Start and World.Stop
	IsWorldReady = NewBool("IsWorldReady")
	// OnlinePlayers is the number of logged in players, updated every tick
	OnlinePlayers = expvar.NewInt("OnlinePlayers")
	// EntityCount is the number of active entities, updated every tick
	EntityCount = expvar.NewInt("EntityCount")
)
