package badger

import (
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/vitae/core"
)

// readIDs returns the ID list stored at key, or nil when the key is absent.
func readIDs(tx *badger.Txn, key []byte) ([]core.ID, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var ids []core.ID
	err = item.Value(func(val []byte) error {
		var decodeErr error
		ids, decodeErr = decodeIDs(val)
		return decodeErr
	})
	return ids, err
}

// writeIDs stores ids at key, removing the key once the list is empty.
func writeIDs(tx *badger.Txn, key []byte, ids []core.ID) error {
	if len(ids) == 0 {
		return tx.Delete(key)
	}
	return tx.Set(key, encodeIDs(ids))
}

func addToIndex(tx *badger.Txn, key []byte, id core.ID) error {
	ids, err := readIDs(tx, key)
	if err != nil {
		return err
	}
	return writeIDs(tx, key, insertID(ids, id))
}

func removeFromIndex(tx *badger.Txn, key []byte, id core.ID) error {
	ids, err := readIDs(tx, key)
	if err != nil {
		return err
	}
	return writeIDs(tx, key, removeID(ids, id))
}

// bumpCounter increments the counter at key and returns the new value.
// Reading the counter makes concurrent bumps conflict, so each value is
// handed out once.
func bumpCounter(tx *badger.Txn, key []byte) (int, error) {
	var current uint64
	item, err := tx.Get(key)
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
	case err != nil:
		return 0, err
	default:
		err = item.Value(func(val []byte) error {
			id, _, decodeErr := core.IDMUS.Unmarshal(val)
			current = uint64(id)
			return decodeErr
		})
		if err != nil {
			return 0, err
		}
	}
	current++
	buf := make([]byte, core.IDMUS.Size(core.ID(current)))
	core.IDMUS.Marshal(core.ID(current), buf)
	if err := tx.Set(key, buf); err != nil {
		return 0, err
	}
	return int(current), nil
}
