package characterstoragefilesystem

import (
	"testing"

	"github.com/Dynat/alpha-core/engine/common"
	"github.com/bmizerany/assert"
)

func TestFileSystemCharacterStorage(t *testing.T) {
	es, err := OpenDirectory(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer es.Close()

	guid := common.MakeGUID(common.HighGuidPlayer, 42)
	data, err := es.Read(guid)
	if data != nil || err != nil {
		t.Errorf("should be nil, got %v, %v", data, err)
	}
	exists, err := es.Exists(guid)
	assert.Equal(t, nil, err)
	assert.T(t, !exists)

	testData := map[string]interface{}{
		"a": 1,
		"b": "2",
		"c": true,
		"d": 1.11,
	}
	if err := es.Write(guid, testData); err != nil {
		t.Fatal(err)
	}

	verifyData, err := es.Read(guid)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, float64(1), verifyData["a"])
	assert.Equal(t, "2", verifyData["b"])
	assert.Equal(t, true, verifyData["c"])
	assert.Equal(t, 1.11, verifyData["d"])

	exists, err = es.Exists(guid)
	assert.Equal(t, nil, err)
	assert.T(t, exists)

	if err := es.Write(7, map[string]interface{}{"name": "Other"}); err != nil {
		t.Fatal(err)
	}
	guids, err := es.List()
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 2, len(guids))
	seen := common.GUIDSet{}
	for _, g := range guids {
		seen.Add(g)
	}
	assert.Equal(t, []common.GUID{7, 42}, seen.ToList())
}
