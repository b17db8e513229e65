// Package history is the append-only execution ledger.
//
// Every execution attempt — real, dry-run, or aborted — becomes one
// self-contained JSON line in history.jsonl. Records are never edited
// or removed; the ledger is the source of truth for what actually
// happened, independent of whether the invoking process survived.
package history

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	verrors "github.com/rickylabs/scriptvault/internal/errors"
	"github.com/rickylabs/scriptvault/internal/lock"
	"github.com/rickylabs/scriptvault/internal/snapshot"
)

// Outcome classifies an execution attempt. Dry runs carry no outcome.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	// OutcomeAborted means the user declined a safety confirmation.
	// It is an outcome, not an error.
	OutcomeAborted Outcome = "aborted"
)

// Record is one execution attempt.
type Record struct {
	ID string `json:"id"`

	ScriptID string `json:"script_id"`
	// ScriptName is denormalized: names can change after the fact.
	ScriptName string `json:"script_name_at_run"`

	Timestamp  time.Time `json:"timestamp"`
	DurationMS int64     `json:"duration_ms"`

	RunContext snapshot.Snapshot `json:"run_context"`

	Args   []string `json:"args,omitempty"`
	DryRun bool     `json:"dry_run,omitempty"`

	// ExitCode is present for real runs only.
	ExitCode *int `json:"exit_code,omitempty"`

	Outcome Outcome `json:"outcome,omitempty"`
}

// Filter restricts a ledger query. Zero-value fields are ignored.
type Filter struct {
	ScriptID   string
	ScriptName string
	Outcome    Outcome
	Since      time.Time
	Until      time.Time

	// Reverse yields newest-first instead of append order.
	Reverse bool
	// Limit caps the number of records returned after ordering.
	// Zero means no limit.
	Limit int
}

// Ledger reads and appends execution records.
type Ledger struct {
	path string
}

// Open returns a ledger over the given history file. The file is
// created lazily on the first append.
func Open(path string) (*Ledger, error) {
	if path == "" {
		return nil, verrors.New(verrors.EPersistenceFailure, "ledger path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, verrors.Wrap(verrors.EPersistenceFailure, "create ledger directory", err)
	}
	return &Ledger{path: path}, nil
}

// Append durably writes one record as a single JSON line. Appends are
// serialized with an exclusive advisory lock so concurrent invocations
// never interleave partial lines; readers are never blocked.
func (l *Ledger) Append(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return verrors.Wrap(verrors.EPersistenceFailure, "marshal execution record", err)
	}
	data = append(data, '\n')

	fl, err := lock.Acquire(l.path)
	if err != nil {
		return verrors.Wrap(verrors.EVaultLocked, "lock ledger", err)
	}
	defer fl.Release()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return verrors.Wrap(verrors.EPersistenceFailure, "open ledger", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return verrors.Wrap(verrors.EPersistenceFailure, "append execution record", err)
	}
	if err := f.Sync(); err != nil {
		return verrors.Wrap(verrors.EPersistenceFailure, "sync ledger", err)
	}
	return nil
}

// Query returns matching records in append order, or newest-first when
// the filter asks for it. The traversal is recomputed from the file on
// every call. Lines that fail to parse — a record torn by a killed
// writer — are skipped without poisoning later records.
func (l *Ledger) Query(filter Filter) ([]Record, error) {
	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, verrors.Wrap(verrors.EPersistenceFailure, "open ledger", err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		if filter.match(rec) {
			records = append(records, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, verrors.Wrap(verrors.EPersistenceFailure, "read ledger", err)
	}

	if filter.Reverse {
		for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
			records[i], records[j] = records[j], records[i]
		}
	}
	if filter.Limit > 0 && len(records) > filter.Limit {
		records = records[:filter.Limit]
	}
	return records, nil
}

func (f Filter) match(rec Record) bool {
	if f.ScriptID != "" && rec.ScriptID != f.ScriptID {
		return false
	}
	if f.ScriptName != "" && rec.ScriptName != f.ScriptName {
		return false
	}
	if f.Outcome != "" && rec.Outcome != f.Outcome {
		return false
	}
	if !f.Since.IsZero() && rec.Timestamp.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && rec.Timestamp.After(f.Until) {
		return false
	}
	return true
}
