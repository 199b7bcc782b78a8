// Package config reads the alphacore.ini config file.
//
// The file has the sections [world], [unit_defaults], [maps] and [storage]. Unknown sections are
// reported, unknown keys are fatal. The map list can be extended by a TOML map catalog.
package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Dynat/alpha-core/engine/consts"
	"github.com/Dynat/alpha-core/engine/gwlog"
	"github.com/go-ini/ini"
	"github.com/pkg/errors"
)

const (
	_DEFAULT_CONFIG_FILE       = "alphacore.ini"
	_DEFAULT_SAVE_INTERVAL     = time.Minute * 5
	_DEFAULT_LOG_LEVEL         = "debug"
	_DEFAULT_BIND_IP           = "0.0.0.0"
	_DEFAULT_PORT              = 8100
	_DEFAULT_AOI_DISTANCE      = 100
	_DEFAULT_MAX_LEVEL         = 25
	_DEFAULT_STORAGE_DIRECTORY = "_character_storage"
	_DEFAULT_STORAGE_DB        = "alphacore"
)

var (
	configFilePath  = _DEFAULT_CONFIG_FILE
	alphaCoreConfig *AlphaCoreConfig
	configLock      sync.Mutex
)

// WorldConfig defines fields of the [world] section
type WorldConfig struct {
	TickInterval      time.Duration
	LogLevel          string
	LogFile           string
	LogStderr         bool
	AOIDistance       float32
	XPRate            float32
	MaxLevel          uint32
	CompressThreshold int
	SaveInterval      time.Duration
	BindIp            string
	Port              int
	WebSocketPort     int
}

// UnitDefaultsConfig defines fields of the [unit_defaults] section
type UnitDefaultsConfig struct {
	WalkSpeed      float32
	RunSpeed       float32
	SwimSpeed      float32
	TurnRate       float32
	BoundingRadius float32
	CombatReach    float32
}

// MapInfo is one entry of the map catalog
type MapInfo struct {
	ID       uint32 `toml:"id"`
	Name     string `toml:"name"`
	Instance bool   `toml:"instance"`
}

// MapsConfig defines fields of the [maps] section
type MapsConfig struct {
	Catalog string
	Maps    map[uint32]MapInfo
}

// StorageConfig defines fields of storage config
type StorageConfig struct {
	Type      string // Type of storage (filesystem, mongodb, redis)
	Directory string // Directory of filesystem storage (filesystem)
	Url       string // Connection URL (mongodb, redis)
	DB        string // Database name (mongodb) or index (redis)
}

// AlphaCoreConfig defines the total config file structure
type AlphaCoreConfig struct {
	World        WorldConfig
	UnitDefaults UnitDefaultsConfig
	Maps         MapsConfig
	Storage      StorageConfig
}

type mapCatalog struct {
	Maps []MapInfo `toml:"map"`
}

// IsValidMap tells if the map is configured
func (mc *MapsConfig) IsValidMap(mapID uint32) bool {
	_, ok := mc.Maps[mapID]
	return ok
}

// MapIDs returns the configured map ids in ascending order
func (mc *MapsConfig) MapIDs() []uint32 {
	ids := make([]uint32, 0, len(mc.Maps))
	for id := range mc.Maps {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})
	return ids
}

// SetConfigFile sets the config file path (alphacore.ini by default)
func SetConfigFile(f string) {
	configFilePath = f
}

// GetConfigFilePath returns the config file path
func GetConfigFilePath() string {
	return configFilePath
}

// Get returns the total config, reading the config file the first time
func Get() *AlphaCoreConfig {
	configLock.Lock()
	defer configLock.Unlock()
	if alphaCoreConfig == nil {
		alphaCoreConfig = readAlphaCoreConfig()
	}
	return alphaCoreConfig
}

// Reload forces the config file to be read again
func Reload() *AlphaCoreConfig {
	configLock.Lock()
	alphaCoreConfig = nil
	configLock.Unlock()

	return Get()
}

// GetWorld returns the world config
func GetWorld() *WorldConfig {
	return &Get().World
}

// GetStorage returns the storage config
func GetStorage() *StorageConfig {
	return &Get().Storage
}

// DumpPretty format config to string in pretty format
func DumpPretty(cfg interface{}) string {
	s, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return err.Error()
	}
	return string(s)
}

func readAlphaCoreConfig() *AlphaCoreConfig {
	config := AlphaCoreConfig{}
	gwlog.Infof("Using config file: %s", configFilePath)
	iniFile, err := ini.Load(configFilePath)
	checkConfigError(err, "")

	readWorldConfig(iniFile.Section("world"), &config.World)
	readUnitDefaultsConfig(iniFile.Section("unit_defaults"), &config.UnitDefaults)
	readMapsConfig(iniFile.Section("maps"), &config.Maps)
	readStorageConfig(iniFile.Section("storage"), &config.Storage)

	for _, sec := range iniFile.Sections() {
		switch strings.ToLower(sec.Name()) {
		case "default", "world", "unit_defaults", "maps", "storage":
		default:
			gwlog.Errorf("unknown section: %s", sec.Name())
		}
	}
	return &config
}

func readWorldConfig(sec *ini.Section, wc *WorldConfig) {
	wc.TickInterval = consts.WORLD_TICK_INTERVAL
	wc.LogLevel = _DEFAULT_LOG_LEVEL
	wc.LogFile = "alphacore.log"
	wc.LogStderr = true
	wc.AOIDistance = _DEFAULT_AOI_DISTANCE
	wc.XPRate = 1
	wc.MaxLevel = _DEFAULT_MAX_LEVEL
	wc.CompressThreshold = consts.UPDATE_PACKET_COMPRESS_THRESHOLD
	wc.SaveInterval = _DEFAULT_SAVE_INTERVAL
	wc.BindIp = _DEFAULT_BIND_IP
	wc.Port = _DEFAULT_PORT
	wc.WebSocketPort = 0 // websocket not enabled by default

	for _, key := range sec.Keys() {
		name := strings.ToLower(key.Name())
		if name == "tick_interval_ms" {
			wc.TickInterval = time.Millisecond * time.Duration(key.MustInt(int(wc.TickInterval/time.Millisecond)))
		} else if name == "log_level" {
			wc.LogLevel = key.MustString(wc.LogLevel)
		} else if name == "log_file" {
			wc.LogFile = key.MustString(wc.LogFile)
		} else if name == "log_stderr" {
			wc.LogStderr = key.MustBool(wc.LogStderr)
		} else if name == "aoi_distance" {
			wc.AOIDistance = float32(key.MustFloat64(float64(wc.AOIDistance)))
		} else if name == "xp_rate" {
			wc.XPRate = float32(key.MustFloat64(float64(wc.XPRate)))
		} else if name == "max_level" {
			wc.MaxLevel = uint32(key.MustUint(uint(wc.MaxLevel)))
		} else if name == "compress_threshold" {
			wc.CompressThreshold = key.MustInt(wc.CompressThreshold)
		} else if name == "save_interval" {
			wc.SaveInterval = time.Second * time.Duration(key.MustInt(int(_DEFAULT_SAVE_INTERVAL/time.Second)))
		} else if name == "bind_ip" {
			wc.BindIp = key.MustString(wc.BindIp)
		} else if name == "port" {
			wc.Port = key.MustInt(wc.Port)
		} else if name == "websocket_port" {
			wc.WebSocketPort = key.MustInt(wc.WebSocketPort)
		} else {
			gwlog.Panicf("section %s has unknown key: %s", sec.Name(), key.Name())
		}
	}

	if wc.TickInterval <= 0 {
		gwlog.Panicf("tick_interval_ms must be positive")
	}
	if wc.MaxLevel == 0 {
		gwlog.Panicf("max_level must be positive")
	}
}

func readUnitDefaultsConfig(sec *ini.Section, uc *UnitDefaultsConfig) {
	uc.WalkSpeed = 2.5
	uc.RunSpeed = 7.0
	uc.SwimSpeed = 4.72
	uc.TurnRate = 3.141594
	uc.BoundingRadius = 0.388999998569489
	uc.CombatReach = 1.5

	for _, key := range sec.Keys() {
		var field *float32
		switch strings.ToLower(key.Name()) {
		case "walk_speed":
			field = &uc.WalkSpeed
		case "run_speed":
			field = &uc.RunSpeed
		case "swim_speed":
			field = &uc.SwimSpeed
		case "turn_rate":
			field = &uc.TurnRate
		case "bounding_radius":
			field = &uc.BoundingRadius
		case "combat_reach":
			field = &uc.CombatReach
		default:
			gwlog.Panicf("section %s has unknown key: %s", sec.Name(), key.Name())
		}
		*field = float32(key.MustFloat64(float64(*field)))
		if *field <= 0 || *field > consts.MAX_MOVEMENT_SPEED {
			gwlog.Panicf("%s.%s out of range: %v", sec.Name(), key.Name(), *field)
		}
	}
}

func readMapsConfig(sec *ini.Section, mc *MapsConfig) {
	mc.Maps = map[uint32]MapInfo{}
	validMaps := "0,1"

	for _, key := range sec.Keys() {
		name := strings.ToLower(key.Name())
		if name == "valid_maps" {
			validMaps = key.MustString(validMaps)
		} else if name == "catalog" {
			mc.Catalog = key.MustString("")
		} else {
			gwlog.Panicf("section %s has unknown key: %s", sec.Name(), key.Name())
		}
	}

	for _, s := range strings.Split(validMaps, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := strconv.ParseUint(s, 10, 32)
		checkConfigError(err, fmt.Sprintf("invalid map id: %s", s))
		mc.Maps[uint32(id)] = MapInfo{ID: uint32(id)}
	}

	if mc.Catalog != "" {
		catalogPath := mc.Catalog
		if !filepath.IsAbs(catalogPath) {
			catalogPath = filepath.Join(filepath.Dir(configFilePath), catalogPath)
		}
		maps, err := readMapCatalog(catalogPath)
		checkConfigError(err, "")
		for _, info := range maps {
			mc.Maps[info.ID] = info
		}
	}

	if len(mc.Maps) == 0 {
		gwlog.Panicf("no valid map configured")
	}
}

func readMapCatalog(path string) ([]MapInfo, error) {
	var catalog mapCatalog
	meta, err := toml.DecodeFile(path, &catalog)
	if err != nil {
		return nil, errors.Wrapf(err, "read map catalog %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("map catalog %s has unknown keys: %v", path, undecoded)
	}
	return catalog.Maps, nil
}

func readStorageConfig(sec *ini.Section, config *StorageConfig) {
	config.Type = "filesystem"
	config.Directory = _DEFAULT_STORAGE_DIRECTORY
	config.DB = _DEFAULT_STORAGE_DB
	config.Url = ""

	for _, key := range sec.Keys() {
		name := strings.ToLower(key.Name())
		if name == "type" {
			config.Type = key.MustString(config.Type)
		} else if name == "directory" {
			config.Directory = key.MustString(config.Directory)
		} else if name == "url" {
			config.Url = key.MustString(config.Url)
		} else if name == "db" {
			config.DB = key.MustString(config.DB)
		} else {
			gwlog.Panicf("section %s has unknown key: %s", sec.Name(), key.Name())
		}
	}

	if config.Type == "redis" && !sec.HasKey("db") {
		config.DB = "0"
	}
	validateStorageConfig(config)
}

func checkConfigError(err error, msg string) {
	if err != nil {
		if msg == "" {
			msg = err.Error()
		}
		gwlog.Panicf("read config error: %s", msg)
	}
}

func validateStorageConfig(config *StorageConfig) {
	if config.Type == "filesystem" {
		if config.Directory == "" {
			gwlog.Panicf("directory is not set in %s storage config", config.Type)
		}
	} else if config.Type == "mongodb" {
		if config.Url == "" {
			gwlog.Panicf("url is not set in %s storage config", config.Type)
		}
	} else if config.Type == "redis" {
		if config.Url == "" {
			gwlog.Panicf("redis url is not set")
		}
		if _, err := strconv.Atoi(config.DB); err != nil {
			gwlog.Panicf("redis db must be integer: %s", config.DB)
		}
	} else {
		gwlog.Panicf("unknown storage type: %s", config.Type)
	}
}
