// Package snapshot captures and compares environment fingerprints.
//
// A Snapshot records where a script was saved or run: the working
// directory, the enclosing git repository (if any), and a small
// allow-listed subset of environment variables. Snapshots are
// immutable once attached to a script or execution record; relevance
// is derived by structural comparison, never by mutation.
package snapshot

import (
	"context"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Snapshot is an environment fingerprint. Absent fields mean the
// information was unavailable at capture time, not an error.
type Snapshot struct {
	Directory string            `json:"directory"`
	GitRemote string            `json:"git_remote,omitempty"`
	GitBranch string            `json:"git_branch,omitempty"`
	EnvSubset map[string]string `json:"env_subset,omitempty"`
}

// envAllowList names the only environment variables a snapshot may
// carry. Nothing else is captured; secrets never enter the vault.
var envAllowList = []string{"SHELL", "USER", "OS"}

// MatchKind classifies how closely two snapshots relate.
type MatchKind int

const (
	// Identical: directory, remote, and branch all equal.
	Identical MatchKind = iota
	// SameRepo: remote equal, directory or branch differ.
	SameRepo
	// SameDirectory: directory equal, regardless of repository.
	SameDirectory
	// Unrelated: nothing lines up.
	Unrelated
)

func (k MatchKind) String() string {
	switch k {
	case Identical:
		return "identical"
	case SameRepo:
		return "same-repo"
	case SameDirectory:
		return "same-directory"
	default:
		return "unrelated"
	}
}

// Capture produces a snapshot of the current environment. It is total:
// a missing git repository or empty allow-listed variables yield
// absent fields, never an error.
func Capture(ctx context.Context) Snapshot {
	snap := Snapshot{}

	if dir, err := os.Getwd(); err == nil {
		snap.Directory = dir
	}

	// The two git queries are independent child processes; run them
	// concurrently. Failures leave the fields absent.
	var remote, branch string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		remote = gitOutput(gctx, snap.Directory, "remote", "get-url", "origin")
		return nil
	})
	g.Go(func() error {
		branch = gitOutput(gctx, snap.Directory, "rev-parse", "--abbrev-ref", "HEAD")
		return nil
	})
	_ = g.Wait()

	if remote != "" {
		snap.GitRemote = NormalizeRemote(remote)
	}
	if branch != "" && branch != "HEAD" {
		snap.GitBranch = branch
	}

	env := make(map[string]string)
	for _, key := range envAllowList {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			env[key] = v
		}
	}
	if len(env) > 0 {
		snap.EnvSubset = env
	}

	return snap
}

// gitOutput runs a git query against dir and returns trimmed stdout,
// or "" on any failure.
func gitOutput(ctx context.Context, dir string, args ...string) string {
	full := append([]string{"-C", dir}, args...)
	out, err := exec.CommandContext(ctx, "git", full...).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

var sshRemoteRe = regexp.MustCompile(`^[\w.-]+@([\w.-]+):(.+)$`)

// NormalizeRemote canonicalizes a git remote URL so that ssh and https
// forms of the same repository compare equal:
// git@github.com:user/repo.git and https://github.com/user/repo both
// become github.com/user/repo.
func NormalizeRemote(raw string) string {
	s := strings.TrimSpace(raw)

	if m := sshRemoteRe.FindStringSubmatch(s); m != nil {
		s = m[1] + "/" + m[2]
	} else {
		for _, prefix := range []string{"https://", "http://", "ssh://", "git://"} {
			s = strings.TrimPrefix(s, prefix)
		}
		s = strings.TrimPrefix(s, "git@")
		s = strings.Replace(s, ":", "/", 1)
	}

	s = strings.TrimSuffix(s, ".git")
	s = strings.TrimSuffix(s, "/")
	return s
}

// Compare classifies the relationship between two snapshots. The
// comparison is symmetric and total; empty fields never match.
func Compare(a, b Snapshot) MatchKind {
	sameDir := a.Directory != "" && a.Directory == b.Directory
	sameRemote := a.GitRemote != "" && a.GitRemote == b.GitRemote
	sameBranch := a.GitBranch == b.GitBranch

	switch {
	case sameDir && sameRemote && sameBranch:
		return Identical
	case sameDir && a.GitRemote == "" && b.GitRemote == "" && sameBranch:
		return Identical
	case sameRemote:
		return SameRepo
	case sameDir:
		return SameDirectory
	default:
		return Unrelated
	}
}
