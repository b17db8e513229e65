// Package safety scans script content for dangerous constructs.
//
// The scan is a warning gate, not a security boundary: it matches a
// declarative table of dangerous-command signatures over the raw text.
// False positives only cost the user a confirmation prompt; false
// negatives for known-dangerous constructs are defects, so the table
// and its tests evolve together.
package safety

import "regexp"

// Pattern is one dangerous-construct signature.
type Pattern struct {
	// ID is a stable identifier surfaced in verdicts and prompts.
	ID string
	// Expr matches the construct in raw script text.
	Expr *regexp.Regexp
	// Explanation tells the user what the construct does.
	Explanation string
}

// patterns is the fixed scan table. Order determines match order in
// verdicts; IDs are stable once released.
var patterns = []Pattern{
	{
		ID:          "rm-root",
		Expr:        regexp.MustCompile(`rm\s+(-[a-zA-Z]*r[a-zA-Z]*f|-[a-zA-Z]*f[a-zA-Z]*r)\s+(/|/\*|~|\$HOME)(\s|$|/\*)`),
		Explanation: "recursive force-delete of a root-like path",
	},
	{
		ID:          "pipe-to-shell",
		Expr:        regexp.MustCompile(`(curl|wget)[^|;&]*\|\s*(sudo\s+)?(ba)?sh`),
		Explanation: "pipes remote content directly into a shell",
	},
	{
		ID:          "block-device-write",
		Expr:        regexp.MustCompile(`(dd\s+[^;|&]*of=/dev/(sd|hd|nvme|vd)|>\s*/dev/(sd|hd|nvme|vd))`),
		Explanation: "overwrites a block device",
	},
	{
		ID:          "mkfs",
		Expr:        regexp.MustCompile(`\bmkfs(\.\w+)?\b`),
		Explanation: "formats a filesystem",
	},
	{
		ID:          "fork-bomb",
		Expr:        regexp.MustCompile(`:\(\)\s*\{\s*:\s*\|\s*:\s*&\s*\}\s*;\s*:`),
		Explanation: "fork bomb",
	},
	{
		ID:          "chmod-root",
		Expr:        regexp.MustCompile(`chmod\s+(-[a-zA-Z]*R[a-zA-Z]*\s+)?777\s+/(\s|$)`),
		Explanation: "makes the filesystem root world-writable",
	},
	{
		ID:          "sudo-rm",
		Expr:        regexp.MustCompile(`sudo\s+rm\s+-[a-zA-Z]*r`),
		Explanation: "privileged recursive delete",
	},
	{
		ID:          "chown-root",
		Expr:        regexp.MustCompile(`chown\s+-[a-zA-Z]*R[a-zA-Z]*\s+\S+\s+/(\s|$)`),
		Explanation: "recursively changes ownership of the filesystem root",
	},
}

// Match is one pattern hit in a verdict.
type Match struct {
	PatternID   string
	Explanation string
}

// Verdict is the scan result: Safe, or Risky with the matched patterns.
type Verdict struct {
	Risky   bool
	Matches []Match
}

// Scan inspects content against the pattern table. Pure and
// deterministic: the same content always yields the same verdict.
func Scan(content string) Verdict {
	var v Verdict
	for _, p := range patterns {
		if p.Expr.MatchString(content) {
			v.Risky = true
			v.Matches = append(v.Matches, Match{PatternID: p.ID, Explanation: p.Explanation})
		}
	}
	return v
}

// Patterns returns the scan table for display and tests.
func Patterns() []Pattern {
	out := make([]Pattern, len(patterns))
	copy(out, patterns)
	return out
}
