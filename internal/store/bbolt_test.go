package store

import (
	"path/filepath"
	"testing"

	verrors "github.com/rickylabs/scriptvault/internal/errors"
	"github.com/rickylabs/scriptvault/internal/lang"
)

func newBoltCatalog(t *testing.T) Catalog {
	t.Helper()
	c, err := NewBoltCatalog(filepath.Join(t.TempDir(), "scripts.db"))
	if err != nil {
		t.Fatalf("NewBoltCatalog() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestBoltCatalog_PutAndGet(t *testing.T) {
	c := newBoltCatalog(t)

	id, err := c.Put(Script{
		Name:     "deploy",
		Content:  "#!/bin/bash\necho deploy",
		Language: lang.Bash,
		Tags:     []string{"ops"},
	})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := c.Get(id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "deploy" || got.Language != lang.Bash {
		t.Errorf("Get() = %+v", got)
	}
}

func TestBoltCatalog_UpdatePushesVersion(t *testing.T) {
	c := newBoltCatalog(t)

	id1, _ := c.Put(Script{Name: "backup", Content: "v1"})
	id2, err := c.Put(Script{Name: "backup", Content: "v2"})
	if err != nil {
		t.Fatalf("Put() update error = %v", err)
	}
	if id1 != id2 {
		t.Errorf("id changed on update: %v -> %v", id1, id2)
	}

	got, _ := c.Get(id1)
	if got.Content != "v2" {
		t.Errorf("Content = %v, want v2", got.Content)
	}
	if len(got.Versions) != 1 || got.Versions[0].Content != "v1" {
		t.Errorf("Versions = %+v, want single v1 entry", got.Versions)
	}
}

func TestBoltCatalog_UpdateNameCaseInsensitive(t *testing.T) {
	c := newBoltCatalog(t)

	id1, _ := c.Put(Script{Name: "Deploy", Content: "v1"})
	id2, _ := c.Put(Script{Name: "deploy", Content: "v2"})
	if id1 != id2 {
		t.Error("differently-cased name created a second script")
	}

	scripts, _ := c.List()
	if len(scripts) != 1 {
		t.Errorf("List() = %d scripts, want 1", len(scripts))
	}
}

func TestBoltCatalog_ResolutionAndDelete(t *testing.T) {
	c := newBoltCatalog(t)

	c.Put(Script{Name: "deploy-prod", Content: "x"})
	c.Put(Script{Name: "deploy-staging", Content: "y"})

	if _, err := c.Get("deploy"); !verrors.IsCode(err, verrors.EAmbiguousReference) {
		t.Errorf("Get(deploy) error = %v, want ambiguous", err)
	}

	got, err := c.Get("prod")
	if err != nil {
		t.Fatalf("Get(prod) error = %v", err)
	}
	if got.Name != "deploy-prod" {
		t.Errorf("Get(prod) = %v, want deploy-prod", got.Name)
	}

	if err := c.Delete("deploy-prod"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := c.Get("deploy-prod"); !verrors.IsCode(err, verrors.ENotFound) {
		t.Errorf("Get() after delete error = %v, want not found", err)
	}

	// The freed name can be reused and gets a new id.
	id, err := c.Put(Script{Name: "deploy-prod", Content: "fresh"})
	if err != nil {
		t.Fatalf("Put() after delete error = %v", err)
	}
	fresh, _ := c.Get(id)
	if len(fresh.Versions) != 0 {
		t.Errorf("reused name inherited %d versions", len(fresh.Versions))
	}
}

func TestBoltCatalog_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scripts.db")

	c, err := NewBoltCatalog(path)
	if err != nil {
		t.Fatalf("NewBoltCatalog() error = %v", err)
	}
	id, _ := c.Put(Script{Name: "survivor", Content: "x"})
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	c2, err := NewBoltCatalog(path)
	if err != nil {
		t.Fatalf("NewBoltCatalog() reopen error = %v", err)
	}
	defer c2.Close()

	got, err := c2.Get(id)
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if got.Name != "survivor" {
		t.Errorf("Get() = %v, want survivor", got.Name)
	}
}
