// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package selection

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore keeps selections in an embedded badger database:
// key = "sel:<key>" (JSON), with entry TTL when the policy has one.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) a store at path. An empty path keeps
// the database in memory.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db}, nil
}

func badgerKey(key string) []byte { return []byte("sel:" + key) }

func (s *BadgerStore) Load(_ context.Context, key string) (Selection, bool, error) {
	var sel Selection
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sel)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Selection{}, false, nil
	}
	if err != nil {
		return Selection{}, false, err
	}
	return sel, true, nil
}

func (s *BadgerStore) Save(_ context.Context, key string, sel Selection, ttl time.Duration) error {
	buf, err := json.Marshal(sel)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(badgerKey(key), buf)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

func (s *BadgerStore) Delete(_ context.Context, key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerKey(key))
	})
}

func (s *BadgerStore) Close() error { return s.db.Close() }
