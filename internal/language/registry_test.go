package language

import (
	"errors"
	"testing"

	"github.com/sakif/code-editor/internal/apperror"
)

func TestLookup(t *testing.T) {
	c, err := Lookup("python")
	if err != nil {
		t.Fatalf("Lookup(python) error = %v", err)
	}
	if c.ID != "python" {
		t.Errorf("ID = %q, want python", c.ID)
	}
	if c.Local == nil || c.Local.Image != "python:3.10-alpine" {
		t.Errorf("Local spec = %+v, want python:3.10-alpine image", c.Local)
	}
	if c.Remote == nil || c.Remote.Version != "3.10.0" {
		t.Errorf("Remote spec = %+v, want version 3.10.0", c.Remote)
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("cobol")
	if err == nil {
		t.Fatal("Lookup(cobol) expected error, got nil")
	}
	if !errors.Is(err, apperror.ErrUnsupported) {
		t.Errorf("error = %v, want ErrUnsupported", err)
	}
	if got := err.Error(); got != "Unsupported language: cobol" {
		t.Errorf("message = %q", got)
	}
}

func TestRunnable(t *testing.T) {
	tests := []struct {
		id       string
		runnable bool
	}{
		{"python", true},     // both backends
		{"typescript", true}, // remote only
		{"html", false},      // markup, storable but never runnable
		{"json", false},
		{"xml", false},
		{"css", false},
	}
	for _, tt := range tests {
		c, err := Lookup(tt.id)
		if err != nil {
			t.Fatalf("Lookup(%s) error = %v", tt.id, err)
		}
		if c.Runnable() != tt.runnable {
			t.Errorf("Runnable(%s) = %v, want %v", tt.id, c.Runnable(), tt.runnable)
		}
	}
}

func TestFilename(t *testing.T) {
	c, _ := Lookup("java")
	if got := c.Filename(); got != "Main.java" {
		t.Errorf("Filename() = %q, want Main.java", got)
	}
}

func TestAll(t *testing.T) {
	all := All()
	if len(all) != 15 {
		t.Fatalf("All() returned %d entries, want 15", len(all))
	}
	// Client-facing order starts with javascript.
	if all[0].ID != "javascript" {
		t.Errorf("first entry = %q, want javascript", all[0].ID)
	}
	for _, c := range all {
		if !IsValid(c.ID) {
			t.Errorf("IsValid(%s) = false for registry entry", c.ID)
		}
	}
}
