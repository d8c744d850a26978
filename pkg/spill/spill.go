// Package spill persists a write-behind audit mirror of recorded
// memoized outputs to an embedded BadgerDB.
//
// Unlike a typical second-level cache, a spilled entry here is never
// read back to satisfy a Memoize call directly: Memoize's correctness
// depends on
// replaying a full recorded call sequence against live tracked state
// (see pkg/memo.Memoize), and a call sequence has no stable on-disk
// encoding worth round-tripping across process restarts when the
// tracked argument types themselves are only known to the caller. What
// Store does provide is a durable record of "what did this memoized
// function return the last time key K recorded a fresh branch", keyed
// by the same digest the in-memory call tree uses, for offline
// inspection and for callers that want to warm
// a dashboard, audit log, or cache-miss alert off of process restarts
// without re-deriving it from the call tree.
//
// © 2025 memotrack authors. MIT License.
package spill

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/voskan/memotrack/internal/digest"
)

// Store wraps an embedded BadgerDB used as a write-behind mirror for
// memoized outputs.
type Store struct {
	db *badger.DB
}

// Open opens (creating if absent) a BadgerDB at dir. Badger's own
// logger is silenced; memotrack surfaces errors through its own
// telemetry.Logger instead.
func Open(dir string) (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("spill: open %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying BadgerDB.
func (s *Store) Close() error {
	return s.db.Close()
}

// record is the gob-encoded envelope stored per key.
type record struct {
	Output []byte
}

func entryKey(fn string, key digest.D128) []byte {
	var buf bytes.Buffer
	buf.WriteString(fn)
	buf.WriteByte(0)
	fmt.Fprintf(&buf, "%x", key.Bytes())
	return buf.Bytes()
}

// Record durably writes output (already caller-encoded, typically via
// encoding/gob) for fn's cache entry keyed by key. Call this after a
// successful Insert into the call tree; it is a best-effort mirror, not
// part of the cache's correctness, so callers should log rather than
// fail a request on error.
func (s *Store) Record(fn string, key digest.D128, output []byte) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(record{Output: output}); err != nil {
		return fmt.Errorf("spill: encode %s: %w", fn, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entryKey(fn, key), buf.Bytes())
	})
}

// Lookup reads back the most recently recorded output for fn's cache
// entry keyed by key.
func (s *Store) Lookup(fn string, key digest.D128) ([]byte, bool, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(entryKey(fn, key))
		if err != nil {
			return err
		}
		return item.Value(func(b []byte) error {
			var r record
			if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&r); err != nil {
				return err
			}
			out = r.Output
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// Len reports the number of entries currently mirrored for fn, by
// prefix-scanning fn's key namespace. A diagnostic helper, not a
// hot-path call.
func (s *Store) Len(fn string) (int, error) {
	prefix := append([]byte(fn), 0)
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}
