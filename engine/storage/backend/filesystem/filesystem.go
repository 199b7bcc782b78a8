package characterstoragefilesystem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/consts"
	"github.com/Dynat/alpha-core/engine/gwlog"
	"github.com/Dynat/alpha-core/engine/storage/storage_common"
	"github.com/pkg/errors"
)

const fileSuffix = ".json"

type fileSystemCharacterStorage struct {
	directory string
}

func getFileName(guid common.GUID) string {
	return fmt.Sprintf("character$%d%s", uint64(guid), fileSuffix)
}

func (es *fileSystemCharacterStorage) getFilePath(guid common.GUID) string {
	return filepath.Join(es.directory, getFileName(guid))
}

func (es *fileSystemCharacterStorage) Write(guid common.GUID, data map[string]interface{}) error {
	saveFile := es.getFilePath(guid)
	dataBytes, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return errors.Wrapf(err, "marshal character %s", guid)
	}

	if consts.DEBUG_SAVE_LOAD {
		gwlog.Debugf("Saving to file %s: %s", saveFile, string(dataBytes))
	}
	return os.WriteFile(saveFile, dataBytes, 0644)
}

func (es *fileSystemCharacterStorage) Read(guid common.GUID) (map[string]interface{}, error) {
	dataBytes, err := os.ReadFile(es.getFilePath(guid))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var data map[string]interface{}
	if err = json.Unmarshal(dataBytes, &data); err != nil {
		return nil, errors.Wrapf(err, "unmarshal character %s", guid)
	}
	return data, nil
}

func (es *fileSystemCharacterStorage) Exists(guid common.GUID) (bool, error) {
	_, err := os.Stat(es.getFilePath(guid))
	if err == nil {
		return true, nil
	} else if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (es *fileSystemCharacterStorage) List() ([]common.GUID, error) {
	const prefix = "character$"
	files, err := filepath.Glob(filepath.Join(es.directory, prefix+"*"+fileSuffix))
	if err != nil {
		return nil, err
	}
	res := make([]common.GUID, 0, len(files))
	for _, fpath := range files {
		_, fn := filepath.Split(fpath)
		id, err := strconv.ParseUint(strings.TrimSuffix(fn[len(prefix):], fileSuffix), 10, 64)
		if err != nil {
			gwlog.TraceError("fail to parse file %s", fpath)
			continue
		}
		res = append(res, common.GUID(id))
	}
	return res, nil
}

func (es *fileSystemCharacterStorage) Close() {
}

func (es *fileSystemCharacterStorage) IsEOF(err error) bool {
	return false
}

// OpenDirectory opens the directory as character storage, creating it if needed
func OpenDirectory(directory string) (storagecommon.CharacterStorage, error) {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return nil, errors.Wrapf(err, "create storage directory %s", directory)
	}

	return &fileSystemCharacterStorage{
		directory: directory,
	}, nil
}
