package snapshot

import (
	"context"
	"os"
	"testing"
)

func TestNormalizeRemote(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"ssh form", "git@github.com:user/repo.git", "github.com/user/repo"},
		{"https form", "https://github.com/user/repo.git", "github.com/user/repo"},
		{"https no suffix", "https://github.com/user/repo", "github.com/user/repo"},
		{"http form", "http://gitlab.example.com/team/repo.git", "gitlab.example.com/team/repo"},
		{"ssh scheme", "ssh://git@github.com/user/repo.git", "github.com/user/repo"},
		{"git scheme", "git://github.com/user/repo.git", "github.com/user/repo"},
		{"trailing slash", "https://github.com/user/repo/", "github.com/user/repo"},
		{"nested path", "git@gitlab.com:group/sub/repo.git", "gitlab.com/group/sub/repo"},
		{"whitespace", "  git@github.com:user/repo.git\n", "github.com/user/repo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeRemote(tt.raw); got != tt.want {
				t.Errorf("NormalizeRemote(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeRemote_SSHAndHTTPSEqual(t *testing.T) {
	ssh := NormalizeRemote("git@github.com:user/repo.git")
	https := NormalizeRemote("https://github.com/user/repo")
	if ssh != https {
		t.Errorf("ssh (%q) and https (%q) forms of the same repo differ", ssh, https)
	}
}

func TestCompare(t *testing.T) {
	repoA := Snapshot{Directory: "/home/u/proj", GitRemote: "github.com/u/proj", GitBranch: "main"}

	tests := []struct {
		name string
		a, b Snapshot
		want MatchKind
	}{
		{
			"all equal",
			repoA,
			Snapshot{Directory: "/home/u/proj", GitRemote: "github.com/u/proj", GitBranch: "main"},
			Identical,
		},
		{
			"same dir no repos",
			Snapshot{Directory: "/home/u/notes"},
			Snapshot{Directory: "/home/u/notes"},
			Identical,
		},
		{
			"same repo different branch",
			repoA,
			Snapshot{Directory: "/home/u/proj", GitRemote: "github.com/u/proj", GitBranch: "feature"},
			SameRepo,
		},
		{
			"same repo different checkout dir",
			repoA,
			Snapshot{Directory: "/tmp/proj-clone", GitRemote: "github.com/u/proj", GitBranch: "main"},
			SameRepo,
		},
		{
			"same dir different repo",
			repoA,
			Snapshot{Directory: "/home/u/proj", GitRemote: "github.com/u/other", GitBranch: "main"},
			SameDirectory,
		},
		{
			"same dir one repo missing",
			repoA,
			Snapshot{Directory: "/home/u/proj"},
			SameDirectory,
		},
		{
			"nothing in common",
			repoA,
			Snapshot{Directory: "/srv/app", GitRemote: "github.com/x/y", GitBranch: "dev"},
			Unrelated,
		},
		{
			"empty snapshots",
			Snapshot{},
			Snapshot{},
			Unrelated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("Compare() = %v, want %v", got, tt.want)
			}
			// Comparison is symmetric.
			if got := Compare(tt.b, tt.a); got != tt.want {
				t.Errorf("Compare() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchKind_Ordering(t *testing.T) {
	// Relevance ranking relies on the numeric order of the kinds.
	if !(Identical < SameRepo && SameRepo < SameDirectory && SameDirectory < Unrelated) {
		t.Error("MatchKind values are not ordered by relevance")
	}
}

func TestMatchKind_String(t *testing.T) {
	tests := []struct {
		kind MatchKind
		want string
	}{
		{Identical, "identical"},
		{SameRepo, "same-repo"},
		{SameDirectory, "same-directory"},
		{Unrelated, "unrelated"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestCapture_IsTotal(t *testing.T) {
	// Capturing from a plain directory must not fail, git or no git.
	tmpDir := t.TempDir()
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(oldWd)

	snap := Capture(context.Background())
	if snap.Directory == "" {
		t.Error("Capture() did not record the working directory")
	}
	if snap.GitRemote != "" {
		t.Errorf("Capture() outside a repo recorded remote %q", snap.GitRemote)
	}
}

func TestCapture_TwiceInSameDirIdentical(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(oldWd)

	a := Capture(context.Background())
	b := Capture(context.Background())
	if got := Compare(a, b); got != Identical {
		t.Errorf("Compare(a, b) = %v, want identical for back-to-back captures", got)
	}
}

func TestCapture_EnvAllowListOnly(t *testing.T) {
	t.Setenv("SHELL", "/bin/bash")
	t.Setenv("SCRIPTVAULT_SECRET_PROBE", "must-not-appear")

	snap := Capture(context.Background())
	if _, ok := snap.EnvSubset["SCRIPTVAULT_SECRET_PROBE"]; ok {
		t.Error("non-allow-listed variable captured")
	}
	if got := snap.EnvSubset["SHELL"]; got != "/bin/bash" {
		t.Errorf("EnvSubset[SHELL] = %q, want /bin/bash", got)
	}
}
