package consts

import "time"

// Tunable Options
const (
	// For Underlying Networking
	// BUFFERED_READ_BUFFSIZE is the read buffer size for session connections
	BUFFERED_READ_BUFFSIZE = 16384
	// BUFFERED_WRITE_BUFFSIZE is the write buffer size for session connections
	BUFFERED_WRITE_BUFFSIZE = 16384
	// SESSION_SEND_QUEUE_SIZE is the max number of pending outgoing packets per session
	SESSION_SEND_QUEUE_SIZE = 1024
	// SESSION_SHUTDOWN_FLUSH_PARALLEL is the number of sessions flushed in parallel on shutdown
	SESSION_SHUTDOWN_FLUSH_PARALLEL = 16
	// WEBSOCKET_MAX_READ_SIZE limits the size of one websocket message from clients
	WEBSOCKET_MAX_READ_SIZE = 1024 * 100

	// For Update Packets
	// UPDATE_PACKET_COMPRESS_THRESHOLD is the minimal update payload length that should be compressed
	UPDATE_PACKET_COMPRESS_THRESHOLD = 100

	// For World
	// WORLD_TICK_INTERVAL is the interval between two world ticks
	WORLD_TICK_INTERVAL = time.Millisecond * 100
	// WORLD_TIMER_TICK_INTERVAL is the resolution of the world timers
	WORLD_TIMER_TICK_INTERVAL = time.Millisecond * 10
	// WORLD_TICK_WARN_THRESHOLD is the tick duration that triggers a warning
	WORLD_TICK_WARN_THRESHOLD = time.Millisecond * 50
	// ENTITY_FLUSH_WARN_THRESHOLD is the per entity flush duration that triggers a warning
	ENTITY_FLUSH_WARN_THRESHOLD = time.Millisecond * 5

	// For Units
	// MAX_MOVEMENT_SPEED is the upper bound of every movement speed
	MAX_MOVEMENT_SPEED = 56.0
	// CREATURE_CORPSE_DECAY is how long a dead creature stays before it is removed
	CREATURE_CORPSE_DECAY = time.Minute
	// PLAYER_SPIRIT_RELEASE_TIMEOUT is how long a dead player may wait before the spirit is released
	PLAYER_SPIRIT_RELEASE_TIMEOUT = time.Minute * 5

	// For Storage
	// STORAGE_QUEUE_WARN_LEN is the operation queue length that starts queue length warnings
	STORAGE_QUEUE_WARN_LEN = 100
	// STORAGE_OPERATION_WARN_THRESHOLD is the storage operation duration that triggers a warning
	STORAGE_OPERATION_WARN_THRESHOLD = time.Millisecond * 100

	// For Operation Monitor
	// OPMON_DUMP_INTERVAL is the interval to print opmon infos to output
	OPMON_DUMP_INTERVAL = 0
)

// Debug Options
const (
	// DEBUG_PACKETS prints packet send debug logs
	DEBUG_PACKETS = false
	// DEBUG_VISIBILITY prints create & destroy decisions of visibility sync
	DEBUG_VISIBILITY = false
	// DEBUG_SAVE_LOAD prints save & load debug logs
	DEBUG_SAVE_LOAD = false
	// DEBUG_SESSIONS prints session operation debug logs
	DEBUG_SESSIONS = false
)
