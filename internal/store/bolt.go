package store

import (
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// Bucket and key names for the bolt backend
var (
	recordBucket = []byte("record")
	recordKey    = []byte("document")
)

// boltBackend keeps the record document in a bbolt database. The
// document bytes are identical to the file backend's; bbolt adds ACID
// writes and file locking across processes.
type boltBackend struct {
	db *bolt.DB
}

func newBoltBackend(path string) (*boltBackend, error) {
	db, err := bolt.Open(path, FilePermSecure, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(recordBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create record bucket: %w", err)
	}

	return &boltBackend{db: db}, nil
}

func (b *boltBackend) Load() ([]byte, bool, error) {
	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(recordBucket)
		if bucket == nil {
			return nil
		}
		if v := bucket.Get(recordKey); v != nil {
			// Copy: the slice is only valid during the transaction.
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to read record from database: %w", err)
	}
	return data, data != nil, nil
}

func (b *boltBackend) Save(data []byte) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(recordBucket)
		if err != nil {
			return err
		}
		return bucket.Put(recordKey, data)
	})
	if err != nil {
		return fmt.Errorf("failed to write record to database: %w", err)
	}
	return nil
}

func (b *boltBackend) Description() string {
	return fmt.Sprintf("bolt %s", b.db.Path())
}

func (b *boltBackend) Close() error {
	return b.db.Close()
}
