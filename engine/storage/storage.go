// Package storage persists character snapshots asynchronously.
//
// Operations are queued and executed one by one by the storage routine; their callbacks
// are posted back to the world logic goroutine through package post.
package storage

import (
	"strconv"
	"time"

	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/consts"
	"github.com/Dynat/alpha-core/engine/gwlog"
	"github.com/Dynat/alpha-core/engine/gwutils"
	"github.com/Dynat/alpha-core/engine/opmon"
	"github.com/Dynat/alpha-core/engine/post"
	"github.com/Dynat/alpha-core/engine/storage/backend/filesystem"
	"github.com/Dynat/alpha-core/engine/storage/backend/mongodb"
	"github.com/Dynat/alpha-core/engine/storage/backend/redis"
	"github.com/Dynat/alpha-core/engine/storage/storage_common"
	"github.com/pkg/errors"
	"github.com/xiaonanln/go-xnsyncutil/xnsyncutil"
)

// Opener opens the storage backend, it is called again after the backend reports EOF
type Opener func() (storagecommon.CharacterStorage, error)

var (
	openStorage              Opener
	storageEngine            storagecommon.CharacterStorage
	operationQueue           *xnsyncutil.SyncQueue
	storageRoutineTerminated *xnsyncutil.OneTimeCond
	retryInterval            = time.Second
)

type saveRequest struct {
	GUID     common.GUID
	Data     map[string]interface{}
	Callback SaveCallbackFunc
}

type loadRequest struct {
	GUID     common.GUID
	Callback LoadCallbackFunc
}

type existsRequest struct {
	GUID     common.GUID
	Callback ExistsCallbackFunc
}

type listRequest struct {
	Callback ListCallbackFunc
}

// SaveCallbackFunc is the callback type of storage Save
type SaveCallbackFunc func()

// LoadCallbackFunc is the callback type of storage Load, data is nil if the character is not stored
type LoadCallbackFunc func(data map[string]interface{}, err error)

// ExistsCallbackFunc is the callback type of storage Exists
type ExistsCallbackFunc func(exists bool, err error)

// ListCallbackFunc is the callback type of storage List
type ListCallbackFunc func([]common.GUID, error)

// BackendOpener returns the opener of the configured backend type
func BackendOpener(storageType string, directory string, url string, db string) (Opener, error) {
	switch storageType {
	case "filesystem", "":
		return func() (storagecommon.CharacterStorage, error) {
			return characterstoragefilesystem.OpenDirectory(directory)
		}, nil
	case "redis":
		dbindex := 0
		if db != "" {
			var err error
			if dbindex, err = strconv.Atoi(db); err != nil {
				return nil, errors.Wrapf(err, "bad redis db index %q", db)
			}
		}
		return func() (storagecommon.CharacterStorage, error) {
			return characterstorageredis.OpenRedis(url, dbindex)
		}, nil
	case "mongodb":
		return func() (storagecommon.CharacterStorage, error) {
			return characterstoragemongodb.OpenMongoDB(url, db)
		}, nil
	}
	return nil, errors.Errorf("unknown storage type: %s", storageType)
}

// Save saves the character snapshot, failed writes are retried until they succeed
func Save(guid common.GUID, data map[string]interface{}, callback SaveCallbackFunc) {
	operationQueue.Push(saveRequest{
		GUID:     guid,
		Data:     data,
		Callback: callback,
	})
	checkOperationQueueLen()
}

// Load loads the character snapshot
func Load(guid common.GUID, callback LoadCallbackFunc) {
	operationQueue.Push(loadRequest{
		GUID:     guid,
		Callback: callback,
	})
	checkOperationQueueLen()
}

// Exists checks if the character is stored
func Exists(guid common.GUID, callback ExistsCallbackFunc) {
	operationQueue.Push(existsRequest{
		GUID:     guid,
		Callback: callback,
	})
	checkOperationQueueLen()
}

// List returns the guids of all stored characters
func List(callback ListCallbackFunc) {
	operationQueue.Push(listRequest{
		Callback: callback,
	})
	checkOperationQueueLen()
}

var recentWarnedQueueLen = 0

func checkOperationQueueLen() {
	qlen := operationQueue.Len()
	if qlen > consts.STORAGE_QUEUE_WARN_LEN && qlen%consts.STORAGE_QUEUE_WARN_LEN == 0 && recentWarnedQueueLen != qlen {
		gwlog.Warnf("Storage operation queue length = %d", qlen)
		recentWarnedQueueLen = qlen
	}
}

// Shutdown waits for the queued operations to finish and closes the backend
func Shutdown() {
	operationQueue.Close()
	storageRoutineTerminated.Wait()
}

// Initialize opens the backend and starts the storage routine
func Initialize(open Opener) error {
	openStorage = open
	storageEngine = nil
	if err := assureStorageEngineReady(); err != nil {
		return errors.Wrap(err, "storage engine is not ready")
	}
	operationQueue = xnsyncutil.NewSyncQueue()
	storageRoutineTerminated = xnsyncutil.NewOneTimeCond()
	go runStorageRoutine()
	return nil
}

func assureStorageEngineReady() (err error) {
	if storageEngine != nil {
		return
	}
	storageEngine, err = openStorage()
	return
}

// waitStorageEngineReady blocks until the backend is open again
func waitStorageEngineReady() {
	for {
		err := assureStorageEngineReady()
		if err == nil {
			return
		}
		gwlog.Errorf("Storage engine is not ready: %s", err)
		time.Sleep(retryInterval)
	}
}

// checkEOF drops the backend after a connection loss so that the next operation reopens it
func checkEOF(err error) {
	if err != nil && storageEngine.IsEOF(err) {
		storageEngine.Close()
		storageEngine = nil
	}
}

// runStorageRoutine restarts the storage routine after panics until the queue is closed
func runStorageRoutine() {
	gwutils.RepeatUntilPanicless(storageRoutine)
	if storageEngine != nil {
		storageEngine.Close()
		storageEngine = nil
	}
	storageRoutineTerminated.Signal()
}

func storageRoutine() {
	for {
		op := operationQueue.Pop()
		if op == nil { // queue closed
			break
		}
		waitStorageEngineReady()

		switch req := op.(type) {
		case saveRequest:
			handleSave(req)
		case loadRequest:
			monop := opmon.StartOperation("storage.load")
			if consts.DEBUG_SAVE_LOAD {
				gwlog.Debugf("storage: LOADING %s ...", req.GUID)
			}
			data, err := storageEngine.Read(req.GUID)
			if err != nil {
				gwlog.TraceError("storage: load %s failed: %s", req.GUID, err)
				data = nil
			}
			monop.Finish(consts.STORAGE_OPERATION_WARN_THRESHOLD)
			if req.Callback != nil {
				post.Post(func() {
					req.Callback(data, err)
				})
			}
			checkEOF(err)
		case existsRequest:
			monop := opmon.StartOperation("storage.exists")
			exists, err := storageEngine.Exists(req.GUID)
			monop.Finish(consts.STORAGE_OPERATION_WARN_THRESHOLD)
			if req.Callback != nil {
				post.Post(func() {
					req.Callback(exists, err)
				})
			}
			checkEOF(err)
		case listRequest:
			monop := opmon.StartOperation("storage.list")
			guids, err := storageEngine.List()
			if err != nil {
				gwlog.TraceError("storage: list failed: %s", err)
			}
			monop.Finish(consts.STORAGE_OPERATION_WARN_THRESHOLD * 10)
			if req.Callback != nil {
				post.Post(func() {
					req.Callback(guids, err)
				})
			}
			checkEOF(err)
		default:
			gwlog.Panicf("storage: unknown operation: %v", op)
		}
	}
}

func handleSave(req saveRequest) {
	monop := opmon.StartOperation("storage.save")
	for {
		if consts.DEBUG_SAVE_LOAD {
			gwlog.Debugf("storage: SAVING %s ...", req.GUID)
		}
		waitStorageEngineReady()

		err := storageEngine.Write(req.GUID, req.Data)
		if err == nil {
			break
		}
		gwlog.Errorf("storage: save %s failed: %s", req.GUID, err)
		if storageEngine.IsEOF(err) {
			checkEOF(err)
		} else {
			time.Sleep(retryInterval)
		}
	}
	monop.Finish(consts.STORAGE_OPERATION_WARN_THRESHOLD)
	if req.Callback != nil {
		post.Post(func() {
			req.Callback()
		})
	}
}
