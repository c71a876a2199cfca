package piston

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sakif/code-editor/internal/executor"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func execReq(lang, code, stdin string) executor.Request {
	return executor.Request{Code: code, Language: lang, Stdin: stdin}
}

func TestExecute_Success(t *testing.T) {
	var gotBody pistonRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		code := 0
		json.NewEncoder(w).Encode(pistonResponse{
			Run: &pistonStage{Stdout: "42\n", Code: &code, Memory: 1024},
		})
	}))
	defer ts.Close()

	e := New(ts.URL, testLogger())
	res, err := e.Execute(context.Background(), execReq("python", "print(42)", "stdin-data"))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	// The remote request carries the registry's provider identifiers and the
	// fixed stage budgets.
	if gotBody.Language != "python" || gotBody.Version != "3.10.0" {
		t.Errorf("request language/version = %s/%s", gotBody.Language, gotBody.Version)
	}
	if gotBody.CompileTimeout != 10000 || gotBody.RunTimeout != 3000 {
		t.Errorf("timeouts = %d/%d, want 10000/3000", gotBody.CompileTimeout, gotBody.RunTimeout)
	}
	if len(gotBody.Files) != 1 || gotBody.Files[0].Name != "Main.py" {
		t.Errorf("files = %+v, want one Main.py", gotBody.Files)
	}
	if gotBody.Stdin != "stdin-data" {
		t.Errorf("stdin = %q", gotBody.Stdin)
	}

	if res.HasError {
		t.Error("HasError = true for clean run")
	}
	if res.Stdout != "42\n" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if res.Output != "Output:\n42\n" {
		t.Errorf("Output = %q", res.Output)
	}
	if res.Memory != 1024 {
		t.Errorf("Memory = %d", res.Memory)
	}
}

func TestExecute_CompileError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		code := 1
		json.NewEncoder(w).Encode(pistonResponse{
			Compile: &pistonStage{Stderr: "Main.cpp:1: error: expected ';'", Code: &code},
			Run:     &pistonStage{},
		})
	}))
	defer ts.Close()

	e := New(ts.URL, testLogger())
	res, err := e.Execute(context.Background(), execReq("cpp", "int main( {}", ""))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !res.HasError {
		t.Error("HasError = false for compile failure")
	}
	if res.Message != "Compilation Error" {
		t.Errorf("Message = %q", res.Message)
	}
	if res.Stderr == "" {
		t.Error("Stderr empty, want compile diagnostics carried over")
	}
	if !strings.Contains(res.Output, "Compilation Errors:") {
		t.Errorf("Output = %q", res.Output)
	}
}

func TestExecute_NullExitCode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(pistonResponse{
			Run: &pistonStage{Stderr: "killed", Code: nil},
		})
	}))
	defer ts.Close()

	e := New(ts.URL, testLogger())
	res, err := e.Execute(context.Background(), execReq("python", "while True: pass", ""))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !res.HasError {
		t.Error("HasError = false, stderr should mark the run failed")
	}
	if strings.Contains(res.Output, "Exit code:") {
		t.Errorf("Output = %q, exit notice printed for unknown code", res.Output)
	}
}

func TestExecute_UnsupportedLanguage(t *testing.T) {
	e := New("http://unused.invalid", testLogger())

	if _, err := e.Execute(context.Background(), execReq("brainfuck", "+", "")); err == nil {
		t.Fatal("expected error for unknown language")
	}
	// html is storable but has no remote runtime.
	if _, err := e.Execute(context.Background(), execReq("html", "<p>", "")); err == nil {
		t.Fatal("expected error for language without remote runtime")
	}
}

func TestExecute_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(pistonResponse{Message: "runtime is unknown"})
	}))
	defer ts.Close()

	e := New(ts.URL, testLogger())
	_, err := e.Execute(context.Background(), execReq("python", "print(1)", ""))
	if err == nil {
		t.Fatal("expected error for non-200 API response")
	}
	if !strings.Contains(err.Error(), "runtime is unknown") {
		t.Errorf("error = %v, want API message included", err)
	}
}
