package search

import (
	"testing"
	"time"

	"github.com/rickylabs/scriptvault/internal/lang"
	"github.com/rickylabs/scriptvault/internal/snapshot"
	"github.com/rickylabs/scriptvault/internal/store"
)

func testScripts() []store.Script {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []store.Script{
		{
			ID:        "id-hello",
			Name:      "hello",
			Content:   "echo hello",
			Language:  lang.Bash,
			Tags:      []string{"demo", "greeting"},
			UpdatedAt: base.Add(2 * time.Hour),
		},
		{
			ID:          "id-git-sync",
			Name:        "git-sync",
			Content:     "git pull --rebase",
			Language:    lang.Shell,
			Tags:        []string{"demo", "git"},
			Description: "Sync current branch",
			UpdatedAt:   base.Add(1 * time.Hour),
		},
		{
			ID:        "id-cleanup",
			Name:      "cleanup",
			Content:   "find /tmp -mtime +7 -delete",
			Language:  lang.Bash,
			Tags:      []string{"system"},
			UpdatedAt: base,
		},
	}
}

func namesOf(scripts []store.Script) []string {
	out := make([]string, len(scripts))
	for i, s := range scripts {
		out[i] = s.Name
	}
	return out
}

func TestRank_TagFilter(t *testing.T) {
	got := Rank(testScripts(), Query{Tag: "demo"})
	if len(got) != 2 {
		t.Fatalf("Rank(tag=demo) = %v, want 2 scripts", namesOf(got))
	}
	// Ties with no context break by most recent update.
	if got[0].Name != "hello" || got[1].Name != "git-sync" {
		t.Errorf("Rank(tag=demo) = %v, want [hello git-sync]", namesOf(got))
	}
}

func TestRank_TagIsExactMembership(t *testing.T) {
	got := Rank(testScripts(), Query{Tag: "gre"})
	if len(got) != 0 {
		t.Errorf("Rank(tag=gre) = %v, want no partial tag matches", namesOf(got))
	}
}

func TestRank_TextSearchesNameDescriptionContent(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"HELLO", "hello"},     // name, case-insensitive
		{"branch", "git-sync"}, // description
		{"-mtime", "cleanup"},  // content
	}
	for _, tt := range tests {
		got := Rank(testScripts(), Query{Text: tt.text})
		if len(got) != 1 || got[0].Name != tt.want {
			t.Errorf("Rank(text=%q) = %v, want [%s]", tt.text, namesOf(got), tt.want)
		}
	}
}

func TestRank_LanguageFilter(t *testing.T) {
	got := Rank(testScripts(), Query{Language: lang.Shell})
	if len(got) != 1 || got[0].Name != "git-sync" {
		t.Errorf("Rank(language=shell) = %v, want [git-sync]", namesOf(got))
	}
}

func TestRank_CombinedFilters(t *testing.T) {
	got := Rank(testScripts(), Query{Tag: "demo", Language: lang.Bash})
	if len(got) != 1 || got[0].Name != "hello" {
		t.Errorf("Rank(tag=demo,language=bash) = %v, want [hello]", namesOf(got))
	}
}

func TestRank_NoFiltersReturnsAllByRecency(t *testing.T) {
	got := Rank(testScripts(), Query{})
	want := []string{"hello", "git-sync", "cleanup"}
	if len(got) != len(want) {
		t.Fatalf("Rank() = %v, want %v", namesOf(got), want)
	}
	for i := range want {
		if got[i].Name != want[i] {
			t.Errorf("Rank()[%d] = %v, want %v", i, got[i].Name, want[i])
		}
	}
}

func TestRank_ContextOrdering(t *testing.T) {
	here := snapshot.Snapshot{
		Directory: "/home/u/proj",
		GitRemote: "github.com/u/proj",
		GitBranch: "main",
	}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	scripts := []store.Script{
		{
			Name:      "elsewhere",
			Content:   "x",
			UpdatedAt: base.Add(3 * time.Hour), // most recent, but unrelated
			CreatedContext: snapshot.Snapshot{
				Directory: "/srv/other", GitRemote: "github.com/x/y",
			},
		},
		{
			Name:      "same-repo",
			Content:   "x",
			UpdatedAt: base,
			CreatedContext: snapshot.Snapshot{
				Directory: "/tmp/clone", GitRemote: "github.com/u/proj", GitBranch: "dev",
			},
		},
		{
			Name:           "exact",
			Content:        "x",
			UpdatedAt:      base.Add(1 * time.Hour),
			CreatedContext: here,
		},
	}

	got := Rank(scripts, Query{Here: &here})
	want := []string{"exact", "same-repo", "elsewhere"}
	for i := range want {
		if got[i].Name != want[i] {
			t.Fatalf("Rank(here) = %v, want %v", namesOf(got), want)
		}
	}
}

func TestRank_ContextTiesBreakByRecency(t *testing.T) {
	here := snapshot.Snapshot{Directory: "/home/u/proj", GitRemote: "github.com/u/proj"}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	scripts := []store.Script{
		{Name: "older", Content: "x", UpdatedAt: base, CreatedContext: here},
		{Name: "newer", Content: "x", UpdatedAt: base.Add(time.Hour), CreatedContext: here},
	}

	got := Rank(scripts, Query{Here: &here})
	if got[0].Name != "newer" || got[1].Name != "older" {
		t.Errorf("Rank() = %v, want [newer older]", namesOf(got))
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	scripts := testScripts()
	firstBefore := scripts[0].Name
	Rank(scripts, Query{})
	if scripts[0].Name != firstBefore {
		t.Error("Rank() reordered the caller's slice")
	}
}
