// Package search ranks catalog scripts against a query.
//
// The index is derived, not persisted: every call recomputes the
// ranking over the scripts it is handed, since the catalog may have
// changed between invocations.
package search

import (
	"sort"
	"strings"

	"github.com/rickylabs/scriptvault/internal/lang"
	"github.com/rickylabs/scriptvault/internal/snapshot"
	"github.com/rickylabs/scriptvault/internal/store"
)

// Query restricts and orders a catalog listing. Zero-value fields are
// ignored; all set fields must match.
type Query struct {
	// Text is matched case-insensitively against name, description,
	// and content.
	Text string

	// Tag requires exact set membership.
	Tag string

	// Language filters by interpreter family.
	Language lang.Language

	// Here orders results by context similarity to this snapshot:
	// identical first, then same repo, same directory, unrelated.
	Here *snapshot.Snapshot
}

// Rank filters scripts by the query and returns them in relevance
// order: context-match rank when Here is set, ties (and the no-context
// case) broken by most recent update.
func Rank(scripts []store.Script, q Query) []store.Script {
	var matched []store.Script
	for _, s := range scripts {
		if matches(s, q) {
			matched = append(matched, s)
		}
	}

	rank := func(s store.Script) snapshot.MatchKind {
		if q.Here == nil {
			return snapshot.Unrelated
		}
		return snapshot.Compare(s.CreatedContext, *q.Here)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		ri, rj := rank(matched[i]), rank(matched[j])
		if ri != rj {
			return ri < rj
		}
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})

	return matched
}

func matches(s store.Script, q Query) bool {
	if q.Text != "" {
		needle := strings.ToLower(q.Text)
		if !strings.Contains(strings.ToLower(s.Name), needle) &&
			!strings.Contains(strings.ToLower(s.Description), needle) &&
			!strings.Contains(strings.ToLower(s.Content), needle) {
			return false
		}
	}

	if q.Tag != "" {
		found := false
		for _, t := range s.Tags {
			if t == q.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if q.Language != "" && q.Language != s.Language {
		return false
	}

	return true
}
