package post

import (
	"sync"

	"github.com/Dynat/alpha-core/engine/gwutils"
)

// Callback is the type of functions to be posted
type Callback func()

// Queue collects callbacks posted from any goroutine and runs them on the goroutine calling Tick
type Queue struct {
	lock      sync.Mutex
	callbacks []Callback
}

// NewQueue creates an empty post queue
func NewQueue() *Queue {
	return &Queue{}
}

// Post a callback which will be executed when the owner of the queue ticks
//
// Post might be called from other goroutine, so we use a lock to protect the data
func (q *Queue) Post(f Callback) {
	q.lock.Lock()
	q.callbacks = append(q.callbacks, f)
	q.lock.Unlock()
}

// Len returns the number of callbacks waiting to run
func (q *Queue) Len() int {
	q.lock.Lock()
	n := len(q.callbacks)
	q.lock.Unlock()
	return n
}

// Tick runs all posted callbacks, including the ones posted by the callbacks themselves.
// It returns the number of callbacks executed.
func (q *Queue) Tick() (n int) {
	for {
		q.lock.Lock()
		if len(q.callbacks) == 0 {
			q.lock.Unlock()
			return
		}
		// switch callbacks in locked section
		callbacksCopy := q.callbacks
		q.callbacks = make([]Callback, 0, len(callbacksCopy))
		q.lock.Unlock()

		for _, f := range callbacksCopy {
			gwutils.RunPanicless(f)
		}
		n += len(callbacksCopy)
	}
}

var defaultQueue = NewQueue()

// Post posts the callback to the default queue, which is ticked by the world logic routine
func Post(f Callback) {
	defaultQueue.Post(f)
}

// Tick runs all callbacks of the default queue
func Tick() int {
	return defaultQueue.Tick()
}
