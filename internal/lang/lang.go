// Package lang infers script languages and maps them to interpreters.
// The language on a script is advisory: it picks the interpreter used
// to launch the child process but is never validated against content.
package lang

import (
	"path/filepath"
	"strings"
)

// Language identifies a script interpreter family.
type Language string

const (
	Bash       Language = "bash"
	Shell      Language = "shell"
	Python     Language = "python"
	JavaScript Language = "javascript"
	Ruby       Language = "ruby"
	Perl       Language = "perl"
	Unknown    Language = "unknown"
)

var byExtension = map[string]Language{
	".sh":   Shell,
	".bash": Bash,
	".py":   Python,
	".js":   JavaScript,
	".rb":   Ruby,
	".pl":   Perl,
}

var byShebang = map[string]Language{
	"bash":   Bash,
	"sh":     Shell,
	"python": Python,
	"node":   JavaScript,
	"ruby":   Ruby,
	"perl":   Perl,
}

// interpreters maps a language to the command that runs it. Unknown
// falls back to bash, matching how saved snippets are usually shell.
var interpreters = map[Language]string{
	Bash:       "bash",
	Shell:      "sh",
	Python:     "python3",
	JavaScript: "node",
	Ruby:       "ruby",
	Perl:       "perl",
	Unknown:    "bash",
}

var extensions = map[Language]string{
	Bash:       "sh",
	Shell:      "sh",
	Python:     "py",
	JavaScript: "js",
	Ruby:       "rb",
	Perl:       "pl",
	Unknown:    "sh",
}

// Parse normalizes a declared language string.
func Parse(s string) Language {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bash":
		return Bash
	case "shell", "sh":
		return Shell
	case "python", "python3", "py":
		return Python
	case "javascript", "js", "node":
		return JavaScript
	case "ruby", "rb":
		return Ruby
	case "perl", "pl":
		return Perl
	default:
		return Unknown
	}
}

// Detect infers a language from the file name extension, falling back
// to the shebang line of the content.
func Detect(filename, content string) Language {
	if l, ok := byExtension[strings.ToLower(filepath.Ext(filename))]; ok {
		return l
	}
	return fromShebang(content)
}

// fromShebang inspects the first line of content for an interpreter.
func fromShebang(content string) Language {
	line, _, _ := strings.Cut(content, "\n")
	if !strings.HasPrefix(line, "#!") {
		return Unknown
	}
	line = strings.TrimSpace(line[2:])
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Unknown
	}
	prog := filepath.Base(fields[0])
	// "#!/usr/bin/env python3" puts the interpreter in the second field.
	if prog == "env" && len(fields) > 1 {
		prog = filepath.Base(fields[1])
	}
	prog = strings.TrimRight(prog, "0123456789.")
	if l, ok := byShebang[prog]; ok {
		return l
	}
	return Unknown
}

// Interpreter returns the command used to execute scripts of l.
func (l Language) Interpreter() string {
	if cmd, ok := interpreters[l]; ok {
		return cmd
	}
	return interpreters[Unknown]
}

// Extension returns the file extension (without dot) for temp files.
func (l Language) Extension() string {
	if ext, ok := extensions[l]; ok {
		return ext
	}
	return extensions[Unknown]
}

func (l Language) String() string { return string(l) }
