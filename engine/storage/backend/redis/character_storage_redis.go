package characterstorageredis

import (
	"io"
	"strconv"

	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/storage/storage_common"
	"github.com/garyburd/redigo/redis"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack"
)

const keyPrefix = "character$"

type redisCharacterStorage struct {
	c redis.Conn
}

// OpenRedis opens redis as character storage
func OpenRedis(url string, dbindex int) (storagecommon.CharacterStorage, error) {
	c, err := redis.DialURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "redis dail failed")
	}

	if _, err := c.Do("SELECT", dbindex); err != nil {
		c.Close()
		return nil, errors.Wrap(err, "redis select db failed")
	}

	return &redisCharacterStorage{
		c: c,
	}, nil
}

func characterKey(guid common.GUID) string {
	return keyPrefix + strconv.FormatUint(uint64(guid), 10)
}

func (es *redisCharacterStorage) List() ([]common.GUID, error) {
	keyMatch := keyPrefix + "*"
	var guids []common.GUID
	cursor := "0"
	for {
		r, err := redis.Values(es.c.Do("SCAN", cursor, "MATCH", keyMatch, "COUNT", 10000))
		if err != nil {
			return nil, err
		}
		cursor, err = redis.String(r[0], nil)
		if err != nil {
			return nil, err
		}
		keys, err := redis.Strings(r[1], nil)
		if err != nil {
			return nil, err
		}

		for _, key := range keys {
			id, err := strconv.ParseUint(key[len(keyPrefix):], 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "bad character key %s", key)
			}
			guids = append(guids, common.GUID(id))
		}

		if cursor == "0" {
			break
		}
	}
	return guids, nil
}

func (es *redisCharacterStorage) Write(guid common.GUID, data map[string]interface{}) error {
	b, err := msgpack.Marshal(data)
	if err != nil {
		return errors.Wrapf(err, "pack character %s", guid)
	}

	_, err = es.c.Do("SET", characterKey(guid), b)
	return err
}

func (es *redisCharacterStorage) Read(guid common.GUID) (map[string]interface{}, error) {
	b, err := redis.Bytes(es.c.Do("GET", characterKey(guid)))
	if err == redis.ErrNil {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	var data map[string]interface{}
	if err = msgpack.Unmarshal(b, &data); err != nil {
		return nil, errors.Wrapf(err, "unpack character %s", guid)
	}
	return data, nil
}

func (es *redisCharacterStorage) Exists(guid common.GUID) (bool, error) {
	return redis.Bool(es.c.Do("EXISTS", characterKey(guid)))
}

func (es *redisCharacterStorage) Close() {
	es.c.Close()
}

func (es *redisCharacterStorage) IsEOF(err error) bool {
	return errors.Cause(err) == io.EOF || errors.Cause(err) == io.ErrUnexpectedEOF
}
