// Package secretstore persists short-lived credentials (the broker's 24h
// access token) across process restarts in a local Badger store.
package secretstore

import (
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// Store is a small KV wrapper over Badger. Values may carry a TTL so an
// expired access token never outlives its server-side validity.
type Store struct {
	db *badger.DB
}

type OpenOptions struct {
	Path     string
	ReadOnly bool
}

func Open(opts OpenOptions) (*Store, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, errors.New("secretstore: path is required")
	}
	bopts := badger.DefaultOptions(opts.Path).
		WithLogger(nil).
		WithReadOnly(opts.ReadOnly)
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, errors.Wrap(err, "secretstore: open")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// GetString returns the value for key; ok is false when absent or expired.
func (s *Store) GetString(key string) (value string, ok bool, err error) {
	if s == nil || s.db == nil {
		return "", false, errors.New("secretstore: not opened")
	}
	err = s.db.View(func(txn *badger.Txn) error {
		it, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return it.Value(func(v []byte) error {
			value = string(v)
			ok = true
			return nil
		})
	})
	return value, ok, err
}

// SetString stores key=value, evicted automatically after ttl when ttl > 0.
func (s *Store) SetString(key, value string, ttl time.Duration) error {
	if s == nil || s.db == nil {
		return errors.New("secretstore: not opened")
	}
	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), []byte(value))
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// Delete removes key; deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	if s == nil || s.db == nil {
		return errors.New("secretstore: not opened")
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}
