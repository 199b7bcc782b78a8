package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Dynat/alpha-core/engine/gwlog"
	"github.com/bmizerany/assert"
)

const testConfig = `
[world]
tick_interval_ms = 50
log_level = info
aoi_distance = 80
xp_rate = 2
max_level = 60
compress_threshold = -1
save_interval = 30
port = 9100
websocket_port = 9101

[unit_defaults]
run_speed = 8

[maps]
valid_maps = 0, 1
catalog = maps.toml

[storage]
type = redis
url = redis://127.0.0.1:6379
`

const testCatalog = `
[[map]]
id = 30
name = "PVPZone01"
instance = true

[[map]]
id = 0
name = "Azeroth"
`

func writeConfig(t *testing.T, ini string, catalog string) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "alphacore.ini"), []byte(ini), 0644); err != nil {
		t.Fatal(err)
	}
	if catalog != "" {
		if err := os.WriteFile(filepath.Join(dir, "maps.toml"), []byte(catalog), 0644); err != nil {
			t.Fatal(err)
		}
	}
	SetConfigFile(filepath.Join(dir, "alphacore.ini"))
}

func TestLoad(t *testing.T) {
	writeConfig(t, testConfig, testCatalog)
	config := Reload()
	gwlog.Debugf("alphacore config: \n%s", DumpPretty(config))

	wc := GetWorld()
	assert.Equal(t, 50*time.Millisecond, wc.TickInterval)
	assert.Equal(t, "info", wc.LogLevel)
	assert.Equal(t, float32(80), wc.AOIDistance)
	assert.Equal(t, float32(2), wc.XPRate)
	assert.Equal(t, uint32(60), wc.MaxLevel)
	assert.Equal(t, -1, wc.CompressThreshold)
	assert.Equal(t, 30*time.Second, wc.SaveInterval)
	assert.Equal(t, "0.0.0.0", wc.BindIp)
	assert.Equal(t, 9100, wc.Port)
	assert.Equal(t, 9101, wc.WebSocketPort)

	assert.Equal(t, float32(8), config.UnitDefaults.RunSpeed)
	assert.Equal(t, float32(2.5), config.UnitDefaults.WalkSpeed)

	assert.Equal(t, []uint32{0, 1, 30}, config.Maps.MapIDs())
	assert.T(t, config.Maps.IsValidMap(30))
	assert.T(t, !config.Maps.IsValidMap(2))
	assert.Equal(t, "Azeroth", config.Maps.Maps[0].Name)
	assert.T(t, config.Maps.Maps[30].Instance)

	storage := GetStorage()
	assert.Equal(t, "redis", storage.Type)
	assert.Equal(t, "0", storage.DB)
}

func TestDefaults(t *testing.T) {
	writeConfig(t, "[world]\n", "")
	config := Reload()
	assert.Equal(t, 25, int(config.World.MaxLevel))
	assert.Equal(t, 100, config.World.CompressThreshold)
	assert.Equal(t, []uint32{0, 1}, config.Maps.MapIDs())
	assert.Equal(t, "filesystem", config.Storage.Type)
	assert.Equal(t, "_character_storage", config.Storage.Directory)
}

func TestReload(t *testing.T) {
	writeConfig(t, "[world]\nmax_level = 10\n", "")
	assert.Equal(t, uint32(10), Reload().World.MaxLevel)
	assert.T(t, Get() == Get())

	writeConfig(t, "[world]\nmax_level = 20\n", "")
	assert.Equal(t, uint32(10), Get().World.MaxLevel)
	assert.Equal(t, uint32(20), Reload().World.MaxLevel)
}

func assertPanics(t *testing.T, f func()) {
	defer func() {
		if recover() == nil {
			t.Errorf("should panic")
		}
	}()
	f()
}

func TestBadConfig(t *testing.T) {
	writeConfig(t, "[world]\nboot_entity = Account\n", "")
	assertPanics(t, func() { Reload() })

	writeConfig(t, "[storage]\ntype = mysql\n", "")
	assertPanics(t, func() { Reload() })

	writeConfig(t, "[maps]\nvalid_maps = 0,x\n", "")
	assertPanics(t, func() { Reload() })

	writeConfig(t, "[maps]\ncatalog = maps.toml\n", "[[map]]\nid = 1\nsize = 3\n")
	assertPanics(t, func() { Reload() })

	writeConfig(t, "[unit_defaults]\nrun_speed = 100\n", "")
	assertPanics(t, func() { Reload() })
}
