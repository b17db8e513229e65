package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	verrors "github.com/rickylabs/scriptvault/internal/errors"
)

const (
	// scriptsBucket stores scripts as JSON keyed by id.
	scriptsBucket = "scripts"
	// nameIndexBucket maps lowercased name to id.
	nameIndexBucket = "name_index"
)

// BoltCatalog implements Catalog using BoltDB. Cross-process exclusion
// comes from bbolt's own file lock; transactions give the
// all-or-nothing mutation guarantee the JSON driver gets from the
// atomic rename.
type BoltCatalog struct {
	db *bolt.DB
}

// NewBoltCatalog opens (or creates) a BoltDB-backed catalog at path.
func NewBoltCatalog(path string) (Catalog, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, verrors.Wrap(verrors.EPersistenceFailure,
			fmt.Sprintf("open catalog db at %s", path), err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(scriptsBucket)); err != nil {
			return fmt.Errorf("create scripts bucket: %w", err)
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(nameIndexBucket)); err != nil {
			return fmt.Errorf("create name index bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, verrors.Wrap(verrors.EPersistenceFailure, "initialize catalog db", err)
	}

	return &BoltCatalog{db: db}, nil
}

// Put upserts a script by name inside a single transaction.
func (c *BoltCatalog) Put(script Script) (string, error) {
	var id string
	err := c.db.Update(func(tx *bolt.Tx) error {
		scripts := tx.Bucket([]byte(scriptsBucket))
		index := tx.Bucket([]byte(nameIndexBucket))

		var existing *Script
		if existingID := index.Get([]byte(strings.ToLower(script.Name))); existingID != nil {
			data := scripts.Get(existingID)
			if data != nil {
				var s Script
				if err := json.Unmarshal(data, &s); err != nil {
					return verrors.Wrap(verrors.ECatalogCorrupt, "unmarshal stored script", err)
				}
				existing = &s
			}
		}

		stored := applyPut(existing, script, time.Now().UTC())
		data, err := json.Marshal(stored)
		if err != nil {
			return verrors.Wrap(verrors.EPersistenceFailure, "marshal script", err)
		}
		if err := scripts.Put([]byte(stored.ID), data); err != nil {
			return verrors.Wrap(verrors.EPersistenceFailure, "put script", err)
		}
		if err := index.Put([]byte(strings.ToLower(stored.Name)), []byte(stored.ID)); err != nil {
			return verrors.Wrap(verrors.EPersistenceFailure, "put name index", err)
		}
		id = stored.ID
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Get resolves a reference against the full catalog. Resolution needs
// prefix/substring semantics, so it loads all scripts like the JSON
// driver rather than special-casing the index.
func (c *BoltCatalog) Get(ref string) (Script, error) {
	scripts, err := c.List()
	if err != nil {
		return Script{}, err
	}
	return resolve(scripts, ref)
}

// List returns all scripts ordered by name.
func (c *BoltCatalog) List() ([]Script, error) {
	var scripts []Script
	err := c.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(scriptsBucket)).ForEach(func(k, v []byte) error {
			var s Script
			if err := json.Unmarshal(v, &s); err != nil {
				return verrors.Wrap(verrors.ECatalogCorrupt,
					fmt.Sprintf("unmarshal script %s", string(k)), err)
			}
			scripts = append(scripts, s)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortByName(scripts)
	return scripts, nil
}

// Delete removes a script and its name index entry.
func (c *BoltCatalog) Delete(ref string) error {
	target, err := c.Get(ref)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(scriptsBucket)).Delete([]byte(target.ID)); err != nil {
			return verrors.Wrap(verrors.EPersistenceFailure, "delete script", err)
		}
		if err := tx.Bucket([]byte(nameIndexBucket)).Delete([]byte(strings.ToLower(target.Name))); err != nil {
			return verrors.Wrap(verrors.EPersistenceFailure, "delete name index", err)
		}
		return nil
	})
}

// Close releases the database handle.
func (c *BoltCatalog) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
