package executor

import (
	"strings"
	"testing"
)

func TestComposeOutput_StdoutOnly(t *testing.T) {
	out := ComposeOutput("", "hello\n", "", 0, true)
	if out != "Output:\nhello\n" {
		t.Errorf("out = %q", out)
	}
}

func TestComposeOutput_CompileError(t *testing.T) {
	out := ComposeOutput("Main.c:1: error: expected ';'", "", "", 1, true)
	if !strings.HasPrefix(out, "Compilation Errors:\n") {
		t.Errorf("out = %q, want compilation errors first", out)
	}
	if !strings.Contains(out, "Exit code: 1") {
		t.Errorf("out = %q, want exit code notice", out)
	}
}

func TestComposeOutput_Order(t *testing.T) {
	out := ComposeOutput("warn", "data", "boom", 2, true)
	ci := strings.Index(out, "Compilation Errors:")
	oi := strings.Index(out, "Output:")
	ri := strings.Index(out, "Runtime Errors:")
	ei := strings.Index(out, "Exit code: 2")
	if !(ci < oi && oi < ri && ri < ei) {
		t.Errorf("sections out of order: %q", out)
	}
}

func TestComposeOutput_Silent(t *testing.T) {
	out := ComposeOutput("", "", "", 0, true)
	if out != "Program executed successfully (no output)" {
		t.Errorf("out = %q", out)
	}
}

func TestComposeOutput_UnknownExitCode(t *testing.T) {
	// Exit code unknown (backend reported null): no exit code notice, and a
	// fully empty result degrades to the fallback message.
	out := ComposeOutput("", "", "", 0, false)
	if out != "No output generated" {
		t.Errorf("out = %q", out)
	}
}

func TestHasError(t *testing.T) {
	tests := []struct {
		name          string
		compileStderr string
		stderr        string
		exitCode      int
		exitKnown     bool
		want          bool
	}{
		{"clean run", "", "", 0, true, false},
		{"stderr output", "", "traceback", 0, true, true},
		{"compile failure", "syntax error", "", 0, true, true},
		{"nonzero exit", "", "", 3, true, true},
		{"unknown exit, no streams", "", "", 1, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HasError(tt.compileStderr, tt.stderr, tt.exitCode, tt.exitKnown)
			if got != tt.want {
				t.Errorf("HasError() = %v, want %v", got, tt.want)
			}
		})
	}
}
