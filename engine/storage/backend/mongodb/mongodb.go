package characterstoragemongodb

import (
	"io"

	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/gwlog"
	"github.com/Dynat/alpha-core/engine/storage/storage_common"
	"github.com/pkg/errors"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

const (
	_DEFAULT_DB_NAME      = "alphacore"
	_CHARACTER_COLLECTION = "characters"
)

type mongoDBCharacterStorage struct {
	db *mgo.Database
}

// OpenMongoDB opens mongodb as character storage
func OpenMongoDB(url string, dbname string) (storagecommon.CharacterStorage, error) {
	gwlog.Debugf("Connecting MongoDB ...")
	session, err := mgo.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "mongodb dial failed")
	}

	session.SetMode(mgo.Monotonic, true)
	if dbname == "" {
		dbname = _DEFAULT_DB_NAME
	}
	return &mongoDBCharacterStorage{
		db: session.DB(dbname),
	}, nil
}

// bson has no unsigned 64 bit integer, guids are stored as int64
func docID(guid common.GUID) int64 {
	return int64(guid)
}

func (es *mongoDBCharacterStorage) collection() *mgo.Collection {
	return es.db.C(_CHARACTER_COLLECTION)
}

func (es *mongoDBCharacterStorage) Write(guid common.GUID, data map[string]interface{}) error {
	_, err := es.collection().UpsertId(docID(guid), bson.M{
		"data": data,
	})
	return err
}

func (es *mongoDBCharacterStorage) Read(guid common.GUID) (map[string]interface{}, error) {
	var doc bson.M
	err := es.collection().FindId(docID(guid)).One(&doc)
	if err == mgo.ErrNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	data, ok := doc["data"].(bson.M)
	if !ok {
		return nil, errors.Errorf("character %s: bad document %v", guid, doc)
	}
	return convertM2Map(data), nil
}

func convertM2Map(m bson.M) map[string]interface{} {
	ma := map[string]interface{}(m)
	for k, v := range ma {
		if im, ok := v.(bson.M); ok {
			ma[k] = convertM2Map(im)
		}
	}
	return ma
}

func (es *mongoDBCharacterStorage) List() ([]common.GUID, error) {
	var docs []bson.M
	err := es.collection().Find(nil).Select(bson.M{"_id": 1}).All(&docs)
	if err != nil {
		return nil, err
	}

	guids := make([]common.GUID, 0, len(docs))
	for _, doc := range docs {
		id, ok := doc["_id"].(int64)
		if !ok {
			gwlog.Warnf("mongodb: skip document with _id %v", doc["_id"])
			continue
		}
		guids = append(guids, common.GUID(id))
	}
	return guids, nil
}

func (es *mongoDBCharacterStorage) Exists(guid common.GUID) (bool, error) {
	n, err := es.collection().FindId(docID(guid)).Count()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (es *mongoDBCharacterStorage) Close() {
	es.db.Session.Close()
}

func (es *mongoDBCharacterStorage) IsEOF(err error) bool {
	return err == io.EOF || err == io.ErrUnexpectedEOF
}
