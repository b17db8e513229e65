package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	verrors "github.com/rickylabs/scriptvault/internal/errors"
	"github.com/rickylabs/scriptvault/internal/lock"
)

// JSONCatalog implements Catalog over a single JSON document.
//
// Nothing is cached between calls: every invocation of the CLI is an
// independent process, so each operation loads the current file.
// Readers go straight to the last fully-swapped file; mutators hold an
// exclusive advisory lock for the whole read-modify-write-swap so
// concurrent invocations serialize without readers ever observing a
// half-written catalog.
type JSONCatalog struct {
	path string
}

// jsonPersistence is the on-disk document shape.
type jsonPersistence struct {
	Scripts []Script `json:"scripts"`
}

// NewJSONCatalog creates a JSON file-backed catalog at the given path.
// The file is created lazily on the first mutation.
func NewJSONCatalog(path string) (Catalog, error) {
	if path == "" {
		return nil, verrors.New(verrors.EPersistenceFailure, "catalog path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, verrors.Wrap(verrors.EPersistenceFailure, "create catalog directory", err)
	}
	return &JSONCatalog{path: path}, nil
}

// load reads and parses the catalog file. A missing file is an empty
// catalog. Unknown fields are rejected so schema drift fails loudly
// instead of silently dropping data on the next write.
func (c *JSONCatalog) load() ([]Script, error) {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, verrors.Wrap(verrors.EPersistenceFailure, "read catalog file", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var persist jsonPersistence
	if err := dec.Decode(&persist); err != nil {
		return nil, verrors.Wrap(verrors.ECatalogCorrupt,
			fmt.Sprintf("parse catalog file %s", c.path), err)
	}
	return persist.Scripts, nil
}

// save writes the complete catalog to a temp file in the same
// directory and renames it over the previous file. A failed write
// leaves the previous catalog intact.
func (c *JSONCatalog) save(scripts []Script) error {
	sortByName(scripts)
	data, err := json.MarshalIndent(jsonPersistence{Scripts: scripts}, "", "  ")
	if err != nil {
		return verrors.Wrap(verrors.EPersistenceFailure, "marshal catalog", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".scripts-*.json.tmp")
	if err != nil {
		return verrors.Wrap(verrors.EPersistenceFailure, "create catalog temp file", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return verrors.Wrap(verrors.EPersistenceFailure, "write catalog temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return verrors.Wrap(verrors.EPersistenceFailure, "sync catalog temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return verrors.Wrap(verrors.EPersistenceFailure, "close catalog temp file", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return verrors.Wrap(verrors.EPersistenceFailure, "replace catalog file", err)
	}
	return nil
}

// Put upserts a script by name under the catalog lock.
func (c *JSONCatalog) Put(script Script) (string, error) {
	fl, err := lock.Acquire(c.path)
	if err != nil {
		return "", verrors.Wrap(verrors.EVaultLocked, "lock catalog", err)
	}
	defer fl.Release()

	scripts, err := c.load()
	if err != nil {
		return "", err
	}

	idx := indexByName(scripts, script.Name)
	var existing *Script
	if idx >= 0 {
		existing = &scripts[idx]
	}

	stored := applyPut(existing, script, time.Now().UTC())
	if idx >= 0 {
		scripts[idx] = stored
	} else {
		scripts = append(scripts, stored)
	}

	if err := c.save(scripts); err != nil {
		return "", err
	}
	return stored.ID, nil
}

// Get resolves a reference against the current catalog. Read-only, no
// lock needed.
func (c *JSONCatalog) Get(ref string) (Script, error) {
	scripts, err := c.load()
	if err != nil {
		return Script{}, err
	}
	return resolve(scripts, ref)
}

// List returns all scripts ordered by name.
func (c *JSONCatalog) List() ([]Script, error) {
	scripts, err := c.load()
	if err != nil {
		return nil, err
	}
	sortByName(scripts)
	return scripts, nil
}

// Delete removes a script, including its version history.
func (c *JSONCatalog) Delete(ref string) error {
	fl, err := lock.Acquire(c.path)
	if err != nil {
		return verrors.Wrap(verrors.EVaultLocked, "lock catalog", err)
	}
	defer fl.Release()

	scripts, err := c.load()
	if err != nil {
		return err
	}

	target, err := resolve(scripts, ref)
	if err != nil {
		return err
	}

	kept := scripts[:0]
	for _, s := range scripts {
		if s.ID != target.ID {
			kept = append(kept, s)
		}
	}
	return c.save(kept)
}

// Close is a no-op; the JSON catalog holds no open handles.
func (c *JSONCatalog) Close() error { return nil }

// indexByName finds a script by case-insensitive name, or -1.
func indexByName(scripts []Script, name string) int {
	for i, s := range scripts {
		if strings.EqualFold(s.Name, name) {
			return i
		}
	}
	return -1
}
