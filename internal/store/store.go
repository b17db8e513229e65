// Package store persists the script catalog.
package store

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	verrors "github.com/rickylabs/scriptvault/internal/errors"
	"github.com/rickylabs/scriptvault/internal/lang"
	"github.com/rickylabs/scriptvault/internal/snapshot"
)

// Catalog defines the interface for persisting and retrieving scripts.
// The whole catalog is the unit of durability: every mutation leaves
// the on-disk state either untouched or fully applied.
type Catalog interface {
	// Put upserts a script by name and returns its id. Saving an
	// existing name with different content pushes the previous
	// content onto the version history; the id never changes.
	Put(script Script) (string, error)

	// Get resolves a script by id, exact name (case-insensitive), or
	// unique name prefix/substring.
	Get(ref string) (Script, error)

	// List returns all scripts ordered by name.
	List() ([]Script, error)

	// Delete removes a script and its version history.
	Delete(ref string) error

	// Close releases any resources held by the catalog.
	Close() error
}

// Script is a saved, runnable unit.
type Script struct {
	// ID is assigned at creation and immutable across versions.
	ID string `json:"id"`

	// Name is unique among scripts, case-insensitively.
	Name string `json:"name"`

	// Content is the verbatim script text, interpreter line included.
	Content string `json:"content"`

	// Language picks the interpreter. Advisory, never enforced.
	Language lang.Language `json:"language"`

	Tags        []string `json:"tags,omitempty"`
	Description string   `json:"description,omitempty"`

	// CreatedContext is the environment fingerprint captured when the
	// script was first saved. Immutable thereafter.
	CreatedContext snapshot.Snapshot `json:"created_context"`

	// Versions holds prior content states, oldest first.
	Versions []Version `json:"versions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Version is one superseded content state.
type Version struct {
	Content string    `json:"content"`
	SavedAt time.Time `json:"saved_at"`
}

// NotFound builds the error for an unresolvable reference.
func NotFound(ref string) error {
	return verrors.Newf(verrors.ENotFound, "script not found: %q", ref)
}

// Ambiguous builds the error for a reference matching several scripts,
// naming the candidates so the user can disambiguate.
func Ambiguous(ref string, candidates []string) error {
	sort.Strings(candidates)
	return verrors.NewWithDetails(verrors.EAmbiguousReference,
		fmt.Sprintf("ambiguous script reference %q matches: %s", ref, strings.Join(candidates, ", ")),
		map[string]string{"candidates": strings.Join(candidates, ",")})
}

// normalizeTags deduplicates and sorts a tag set. Insertion order is
// irrelevant per the data model, so sorting keeps serialization stable.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	var out []string
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// applyPut merges an incoming save into the existing script (nil for a
// brand-new name) and returns the stored state. This is the single
// implementation of the upsert invariants shared by all drivers:
// differing content pushes a version, identical content only touches
// metadata, and id/created_at/created_context survive updates.
func applyPut(existing *Script, incoming Script, now time.Time) Script {
	incoming.Tags = normalizeTags(incoming.Tags)

	if existing == nil {
		if incoming.ID == "" {
			incoming.ID = uuid.New().String()
		}
		incoming.CreatedAt = now
		incoming.UpdatedAt = now
		incoming.Versions = nil
		return incoming
	}

	merged := *existing
	if existing.Content != incoming.Content {
		merged.Versions = append(merged.Versions, Version{
			Content: existing.Content,
			SavedAt: existing.UpdatedAt,
		})
		merged.Content = incoming.Content
		if incoming.Language != "" && incoming.Language != lang.Unknown {
			merged.Language = incoming.Language
		}
	}
	if incoming.Tags != nil {
		merged.Tags = incoming.Tags
	}
	if incoming.Description != "" {
		merged.Description = incoming.Description
	}
	merged.UpdatedAt = now
	return merged
}

// resolve implements the reference-resolution order over a loaded
// catalog: id match first, then exact name (case-insensitive), then a
// unique prefix match, then a unique substring match.
func resolve(scripts []Script, ref string) (Script, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Script{}, NotFound(ref)
	}

	for _, s := range scripts {
		if s.ID == ref {
			return s, nil
		}
	}

	lower := strings.ToLower(ref)
	for _, s := range scripts {
		if strings.ToLower(s.Name) == lower {
			return s, nil
		}
	}

	var prefix []Script
	for _, s := range scripts {
		if strings.HasPrefix(strings.ToLower(s.Name), lower) {
			prefix = append(prefix, s)
		}
	}
	switch len(prefix) {
	case 1:
		return prefix[0], nil
	case 0:
		// fall through to substring matching
	default:
		return Script{}, Ambiguous(ref, names(prefix))
	}

	var substr []Script
	for _, s := range scripts {
		if strings.Contains(strings.ToLower(s.Name), lower) {
			substr = append(substr, s)
		}
	}
	switch len(substr) {
	case 1:
		return substr[0], nil
	case 0:
		return Script{}, NotFound(ref)
	default:
		return Script{}, Ambiguous(ref, names(substr))
	}
}

func names(scripts []Script) []string {
	out := make([]string, len(scripts))
	for i, s := range scripts {
		out[i] = s.Name
	}
	return out
}

// sortByName orders a catalog listing stably.
func sortByName(scripts []Script) {
	sort.Slice(scripts, func(i, j int) bool {
		return strings.ToLower(scripts[i].Name) < strings.ToLower(scripts[j].Name)
	})
}
