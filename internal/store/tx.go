package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Tx is one transaction over the store. Entity methods hang off it so a
// multi-entity cascade (delete a list, its items, every subscription and
// every subscriber record) runs against one Badger transaction and commits
// atomically. Obtain one via Store.Tx or Store.View; never retain it past
// the closure.
type Tx struct {
	txn *badger.Txn
	ctx context.Context
}

// Context returns the context the transaction was started with.
func (t *Tx) Context() context.Context {
	return t.ctx
}

// get retrieves and unmarshals a value by key.
// Returns badger.ErrKeyNotFound if absent.
func (t *Tx) get(key []byte, dest any) error {
	item, err := t.txn.Get(key)
	if err != nil {
		return err
	}

	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dest)
	})
}

// set marshals and stores a value by key.
func (t *Tx) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return t.txn.Set(key, data)
}

// delete removes a key.
func (t *Tx) delete(key []byte) error {
	return t.txn.Delete(key)
}

// exists checks if a key exists.
func (t *Tx) exists(key []byte) (bool, error) {
	_, err := t.txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// iterate walks all values under prefix, decoding each into a fresh T and
// handing it to fn. fn returning false stops the walk early. Index-free
// prefix scans are the query strategy of this store; entity counts are
// per-list and small so a linear pass stays cheap.
func iterate[T any](t *Tx, prefix string, fn func(*T) bool) error {
	if err := t.ctx.Err(); err != nil {
		return err
	}

	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)

	it := t.txn.NewIterator(opts)
	defer it.Close()

	for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
		if err := t.ctx.Err(); err != nil {
			return err
		}

		var entity T
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &entity)
		})
		if err != nil {
			return fmt.Errorf("failed to unmarshal entity at %s: %w", it.Item().Key(), err)
		}

		if !fn(&entity) {
			return nil
		}
	}

	return nil
}
