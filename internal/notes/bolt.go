package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const boltBucket = "kv" // key: storage key -> raw value

// BoltBackend stores values in a bbolt database.
type BoltBackend struct {
	db *bbolt.DB
}

// OpenBolt opens or creates the database at path.
func OpenBolt(path string) (*BoltBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create notes directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open notes database: %w", err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltBackend{db: db}, nil
}

func (b *BoltBackend) Get(key string) ([]byte, error) {
	var value []byte

	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(boltBucket)).Get([]byte(key))
		if v != nil {
			// v is only valid for the life of the transaction
			value = append([]byte(nil), v...)
		}
		return nil
	})

	return value, err
}

func (b *BoltBackend) Put(key string, value []byte) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Put([]byte(key), value)
	})
}

// Close releases the database file lock.
func (b *BoltBackend) Close() error {
	return b.db.Close()
}
