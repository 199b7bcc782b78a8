package storagecommon

import "github.com/Dynat/alpha-core/engine/common"

// CharacterStorage defines the interface of character storage backends
//
// Read returns nil data without error when the character is not stored.
type CharacterStorage interface {
	List() ([]common.GUID, error)
	Write(guid common.GUID, data map[string]interface{}) error
	Read(guid common.GUID) (map[string]interface{}, error)
	Exists(guid common.GUID) (bool, error)
	Close()
	IsEOF(err error) bool
}
