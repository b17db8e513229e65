package lang

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Language
	}{
		{"bash", Bash},
		{"BASH", Bash},
		{" sh ", Shell},
		{"shell", Shell},
		{"python", Python},
		{"python3", Python},
		{"py", Python},
		{"javascript", JavaScript},
		{"js", JavaScript},
		{"node", JavaScript},
		{"ruby", Ruby},
		{"rb", Ruby},
		{"perl", Perl},
		{"pl", Perl},
		{"", Unknown},
		{"cobol", Unknown},
	}

	for _, tt := range tests {
		if got := Parse(tt.in); got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDetect_ByExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     Language
	}{
		{"deploy.sh", Shell},
		{"deploy.bash", Bash},
		{"script.py", Python},
		{"tool.js", JavaScript},
		{"task.rb", Ruby},
		{"legacy.pl", Perl},
		{"UPPER.SH", Shell},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename, ""); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetect_ByShebang(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Language
	}{
		{"bash", "#!/bin/bash\necho hi", Bash},
		{"sh", "#!/bin/sh\necho hi", Shell},
		{"env python3", "#!/usr/bin/env python3\nprint('hi')", Python},
		{"env node", "#!/usr/bin/env node\nconsole.log('hi')", JavaScript},
		{"ruby", "#!/usr/bin/ruby\nputs 'hi'", Ruby},
		{"perl", "#!/usr/bin/perl\nprint", Perl},
		{"versioned python", "#!/usr/bin/python3.12\nprint('hi')", Python},
		{"no shebang", "echo hi", Unknown},
		{"empty", "", Unknown},
		{"unknown interpreter", "#!/usr/bin/fish\necho hi", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect("script", tt.content); got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetect_ExtensionWinsOverShebang(t *testing.T) {
	if got := Detect("script.py", "#!/bin/bash\necho hi"); got != Python {
		t.Errorf("Detect() = %v, want extension to win", got)
	}
}

func TestInterpreter(t *testing.T) {
	tests := []struct {
		lang Language
		want string
	}{
		{Bash, "bash"},
		{Shell, "sh"},
		{Python, "python3"},
		{JavaScript, "node"},
		{Ruby, "ruby"},
		{Perl, "perl"},
		{Unknown, "bash"},
		{Language("made-up"), "bash"},
	}

	for _, tt := range tests {
		if got := tt.lang.Interpreter(); got != tt.want {
			t.Errorf("%v.Interpreter() = %v, want %v", tt.lang, got, tt.want)
		}
	}
}

func TestExtension(t *testing.T) {
	tests := []struct {
		lang Language
		want string
	}{
		{Bash, "sh"},
		{Python, "py"},
		{JavaScript, "js"},
		{Unknown, "sh"},
		{Language("made-up"), "sh"},
	}

	for _, tt := range tests {
		if got := tt.lang.Extension(); got != tt.want {
			t.Errorf("%v.Extension() = %v, want %v", tt.lang, got, tt.want)
		}
	}
}
