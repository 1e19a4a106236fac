package storage

import (
	"github.com/cockroachdb/errors"
	"github.com/dgraph-io/badger/v4"

	"github.com/wbrown/janus-minicon/datalog/preference"
)

// BadgerStore implements preference.Store using BadgerDB
type BadgerStore struct {
	db *badger.DB
}

var _ preference.Store = (*BadgerStore)(nil)

// Open opens or creates a BadgerDB-backed preference store at path
func Open(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable BadgerDB logs

	// Preference sets are tiny; keep the footprint small
	opts.MemTableSize = 16 << 20
	opts.BlockCacheSize = 8 << 20
	opts.IndexCacheSize = 4 << 20
	opts.NumCompactors = 2
	opts.ValueThreshold = 1 << 10 // ranks live in the LSM tree

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open badger at %s", path)
	}
	return &BadgerStore{db: db}, nil
}

// PutTable replaces the set t.ID with the ranks of t in one transaction
func (s *BadgerStore) PutTable(t *preference.Table) error {
	if err := checkSetID(t.ID); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := deletePrefix(txn, setPrefix(t.ID)); err != nil {
			return err
		}
		for _, view := range t.Views() {
			rank, _ := t.Rank(view)
			if err := txn.Set(encodeKey(t.ID, view), encodeRank(rank)); err != nil {
				return errors.Wrapf(err, "failed to write rank of %s", view)
			}
		}
		return nil
	})
}

// Table loads the ranks of one set
func (s *BadgerStore) Table(id string) (*preference.Table, error) {
	if err := checkSetID(id); err != nil {
		return nil, err
	}
	t := preference.NewTable(id)

	err := s.db.View(func(txn *badger.Txn) error {
		prefix := setPrefix(id)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			_, view, err := decodeKey(item.Key())
			if err != nil {
				return err
			}
			err = item.Value(func(val []byte) error {
				rank, err := decodeRank(val)
				if err != nil {
					return errors.Wrapf(err, "view %s", view)
				}
				t.Put(view, rank)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		return nil, errors.Wrapf(preference.ErrNoPreferenceSet, "%s", id)
	}
	return t, nil
}

// Sets lists the stored set ids. Keys are sorted, so ids come out sorted
// and each id's keys are contiguous.
func (s *BadgerStore) Sets() ([]string, error) {
	var sets []string
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(keyPrefix)
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false // keys only
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			set, _, err := decodeKey(it.Item().Key())
			if err != nil {
				return err
			}
			if len(sets) == 0 || sets[len(sets)-1] != set {
				sets = append(sets, set)
			}
		}
		return nil
	})
	return sets, err
}

// DeleteSet removes every rank of a set. Deleting a missing set is not an error.
func (s *BadgerStore) DeleteSet(id string) error {
	if err := checkSetID(id); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return deletePrefix(txn, setPrefix(id))
	})
}

// Close closes the store
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// deletePrefix removes every key with the prefix inside txn
func deletePrefix(txn *badger.Txn, prefix []byte) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, key := range keys {
		if err := txn.Delete(key); err != nil && err != badger.ErrKeyNotFound {
			return errors.Wrapf(err, "failed to delete %s", key)
		}
	}
	return nil
}
