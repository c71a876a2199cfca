package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sakif/code-editor/internal/apperror"
	"github.com/sakif/code-editor/internal/executor"
)

type mockExecutor struct {
	captured  executor.Request
	returnRes *executor.Result
	returnErr error
	calls     int
}

func (m *mockExecutor) Execute(_ context.Context, req executor.Request) (*executor.Result, error) {
	m.calls++
	m.captured = req
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	return m.returnRes, nil
}

func TestExecute(t *testing.T) {
	mock := &mockExecutor{returnRes: &executor.Result{Stdout: "hi\n", Output: "Output:\nhi\n"}}
	svc := NewExecutionService(mock, testLogger())

	res, err := svc.Execute(context.Background(), executor.Request{
		Code: "print('hi')", Language: "python", Stdin: "data",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Stdout != "hi\n" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if mock.captured.Stdin != "data" {
		t.Errorf("Stdin = %q, want passed through", mock.captured.Stdin)
	}
}

func TestExecute_Validation(t *testing.T) {
	mock := &mockExecutor{}
	svc := NewExecutionService(mock, testLogger())

	tests := []struct {
		name     string
		req      executor.Request
		sentinel error
	}{
		{"empty code", executor.Request{Language: "python"}, apperror.ErrValidation},
		{"oversized code", executor.Request{Code: strings.Repeat("x", MaxExecuteCode+1), Language: "python"}, apperror.ErrTooLarge},
		{"unknown language", executor.Request{Code: "x", Language: "cobol"}, apperror.ErrUnsupported},
		{"markup language", executor.Request{Code: "<p>", Language: "html"}, apperror.ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Execute(context.Background(), tt.req)
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("error = %v, want %v", err, tt.sentinel)
			}
		})
	}

	if mock.calls != 0 {
		t.Errorf("backend calls = %d, invalid requests must not reach it", mock.calls)
	}
}

func TestExecute_SizeLimitMessage(t *testing.T) {
	svc := NewExecutionService(&mockExecutor{}, testLogger())

	_, err := svc.Execute(context.Background(), executor.Request{
		Code: strings.Repeat("x", MaxExecuteCode+1), Language: "python",
	})
	if err == nil || err.Error() != "Code is too long. Maximum 10,000 characters allowed." {
		t.Errorf("message = %v", err)
	}
}

func TestLanguages(t *testing.T) {
	svc := NewExecutionService(&mockExecutor{}, testLogger())

	langs := svc.Languages()
	if len(langs) != 15 {
		t.Fatalf("len = %d, want 15", len(langs))
	}

	byID := make(map[string]LanguageInfo, len(langs))
	for _, l := range langs {
		byID[l.ID] = l
	}
	if !byID["python"].Runnable || byID["python"].Version != "3.10.0" {
		t.Errorf("python = %+v", byID["python"])
	}
	if byID["html"].Runnable {
		t.Error("html marked runnable")
	}
}
