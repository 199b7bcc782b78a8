package opmon

import (
	"sort"
	"sync"
	"time"

	"github.com/Dynat/alpha-core/engine/consts"
	"github.com/Dynat/alpha-core/engine/gwlog"
)

var (
	operationAllocPool = sync.Pool{
		New: func() interface{} {
			return &Operation{}
		},
	}

	monitor = newMonitor()
)

func init() {
	if consts.OPMON_DUMP_INTERVAL > 0 {
		go func() {
			for {
				time.Sleep(consts.OPMON_DUMP_INTERVAL)
				Dump()
			}
		}()
	}
}

// OpStats is the accumulated statistics of one operation name
type OpStats struct {
	Count         uint64
	TotalDuration time.Duration
	MaxDuration   time.Duration
}

type _Monitor struct {
	sync.Mutex
	opStats map[string]*OpStats
}

func newMonitor() *_Monitor {
	return &_Monitor{
		opStats: map[string]*OpStats{},
	}
}

func (monitor *_Monitor) record(opname string, duration time.Duration) {
	monitor.Lock()
	stats := monitor.opStats[opname]
	if stats == nil {
		stats = &OpStats{}
		monitor.opStats[opname] = stats
	}
	stats.Count += 1
	stats.TotalDuration += duration
	if duration > stats.MaxDuration {
		stats.MaxDuration = duration
	}
	monitor.Unlock()
}

// Stats returns a copy of the statistics recorded for the operation since the last Dump
func Stats(opname string) (OpStats, bool) {
	monitor.Lock()
	defer monitor.Unlock()
	stats := monitor.opStats[opname]
	if stats == nil {
		return OpStats{}, false
	}
	return *stats, true
}

// Dump logs all operation statistics and resets them
func Dump() {
	monitor.Lock()
	opStats := monitor.opStats
	monitor.opStats = map[string]*OpStats{} // clear to be empty
	monitor.Unlock()

	names := make([]string, 0, len(opStats))
	for name := range opStats {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		stats := opStats[name]
		gwlog.Infof("opmon: %-30sx%-10d AVG %-10s MAX %-10s", name, stats.Count, stats.TotalDuration/time.Duration(stats.Count), stats.MaxDuration)
	}
}

// Operation is the type of operation to be monitored
type Operation struct {
	name      string
	startTime time.Time
}

// StartOperation creates a new operation
func StartOperation(operationName string) *Operation {
	op := operationAllocPool.Get().(*Operation)
	op.name = operationName
	op.startTime = time.Now()
	return op
}

// Finish finishes the operation and records the duration of operation
func (op *Operation) Finish(warnThreshold time.Duration) {
	takeTime := time.Since(op.startTime)
	monitor.record(op.name, takeTime)
	if takeTime >= warnThreshold {
		gwlog.Warnf("opmon: operation %s takes %s > %s", op.name, takeTime, warnThreshold)
	}
	operationAllocPool.Put(op)
}
