// Package engine orchestrates script execution: safety check,
// confirmation, child process (or dry run), and the ledger append.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	verrors "github.com/rickylabs/scriptvault/internal/errors"
	"github.com/rickylabs/scriptvault/internal/history"
	"github.com/rickylabs/scriptvault/internal/safety"
	"github.com/rickylabs/scriptvault/internal/snapshot"
	"github.com/rickylabs/scriptvault/internal/store"
)

// ConfirmFunc asks the user whether a risky script should run. Any
// non-affirmative answer (including an error) counts as decline.
type ConfirmFunc func(script store.Script, verdict safety.Verdict) (bool, error)

// Options control a single run.
type Options struct {
	// DryRun reports the execution plan without spawning a process.
	DryRun bool
	// ConfirmIfRisky gates risky scripts behind the confirm callback.
	ConfirmIfRisky bool
	// AutoYes skips the confirmation even for risky scripts.
	AutoYes bool
}

// Result is everything a caller needs to report a run: the appended
// record plus the advisory signals that never block execution.
type Result struct {
	Script  store.Script
	Record  history.Record
	Verdict safety.Verdict
	// ContextMatch compares the run context against the script's
	// creation context. Advisory only.
	ContextMatch snapshot.MatchKind
}

// Engine depends on the catalog for lookup, the ledger for recording,
// and a caller-supplied confirmation collaborator.
type Engine struct {
	catalog store.Catalog
	ledger  *history.Ledger
	confirm ConfirmFunc
	logger  *slog.Logger
}

// New creates an execution engine. confirm may be nil, in which case
// risky scripts are declined whenever confirmation would be required.
func New(catalog store.Catalog, ledger *history.Ledger, confirm ConfirmFunc, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{catalog: catalog, ledger: ledger, confirm: confirm, logger: logger}
}

// Run resolves, scans, optionally confirms, executes (or dry-runs) a
// script and appends the resulting record to the ledger. The record is
// appended on every path: success, failure, abort, and dry run.
func (e *Engine) Run(ctx context.Context, ref string, args []string, opts Options) (*Result, error) {
	script, err := e.catalog.Get(ref)
	if err != nil {
		return nil, err
	}

	verdict := safety.Scan(script.Content)
	runCtx := snapshot.Capture(ctx)

	res := &Result{
		Script:       script,
		Verdict:      verdict,
		ContextMatch: snapshot.Compare(script.CreatedContext, runCtx),
		Record: history.Record{
			ID:         uuid.New().String(),
			ScriptID:   script.ID,
			ScriptName: script.Name,
			Timestamp:  time.Now().UTC(),
			RunContext: runCtx,
			Args:       args,
			DryRun:     opts.DryRun,
		},
	}

	if verdict.Risky && opts.ConfirmIfRisky && !opts.AutoYes {
		ok := false
		if e.confirm != nil {
			ok, err = e.confirm(script, verdict)
			if err != nil {
				ok = false
			}
		}
		if !ok {
			e.logger.Info("execution aborted by user",
				"script", script.Name, "script_id", script.ID)
			res.Record.Outcome = history.OutcomeAborted
			if err := e.ledger.Append(res.Record); err != nil {
				return res, err
			}
			return res, nil
		}
	}

	if opts.DryRun {
		// Nothing executes; the record documents the plan. Outcome is
		// left empty: a dry run neither succeeds nor fails.
		if err := e.ledger.Append(res.Record); err != nil {
			return res, err
		}
		return res, nil
	}

	start := time.Now()
	exitCode, execErr := e.execute(ctx, script, args)
	res.Record.DurationMS = time.Since(start).Milliseconds()

	if execErr != nil {
		// Spawn failure: no exit code exists, but the attempt is
		// still recorded for auditability.
		e.logger.Error("failed to launch script",
			"script", script.Name, "script_id", script.ID, "error", execErr)
		res.Record.Outcome = history.OutcomeFailure
		if err := e.ledger.Append(res.Record); err != nil {
			return res, err
		}
		return res, verrors.Wrap(verrors.ELaunchFailure,
			fmt.Sprintf("launch script %q", script.Name), execErr)
	}

	res.Record.ExitCode = &exitCode
	if exitCode == 0 {
		res.Record.Outcome = history.OutcomeSuccess
	} else {
		res.Record.Outcome = history.OutcomeFailure
	}

	e.logger.Info("script execution finished",
		"script", script.Name,
		"script_id", script.ID,
		"exit_code", exitCode,
		"duration_ms", res.Record.DurationMS)

	if err := e.ledger.Append(res.Record); err != nil {
		return res, err
	}
	return res, nil
}

// execute writes the script content to a private temp file and runs it
// through its interpreter with the user's args appended, inheriting
// the invoking terminal's stdio. The returned error is non-nil only
// for spawn failures; a non-zero exit is reported via the exit code.
func (e *Engine) execute(ctx context.Context, script store.Script, args []string) (int, error) {
	dir := filepath.Join(os.TempDir(), "scriptvault")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return 0, fmt.Errorf("create temp dir: %w", err)
	}

	f, err := os.CreateTemp(dir, script.Name+"-*."+script.Language.Extension())
	if err != nil {
		return 0, fmt.Errorf("create temp script: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(script.Content); err != nil {
		f.Close()
		return 0, fmt.Errorf("write temp script: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close temp script: %w", err)
	}
	if err := os.Chmod(path, 0o700); err != nil {
		return 0, fmt.Errorf("chmod temp script: %w", err)
	}

	cmdArgs := append([]string{path}, args...)
	cmd := exec.CommandContext(ctx, script.Language.Interpreter(), cmdArgs...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	// Forward termination to the child instead of killing it outright,
	// then give it a moment to exit before the hard kill.
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = 5 * time.Second

	err = cmd.Run()
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	return 0, err
}
