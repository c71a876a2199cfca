// Package language is the static capability registry for every language the
// editor knows about.
//
// One table serves three consumers:
//   - the snippet store, which accepts the full ID set (including markup
//     languages that can be saved but never run)
//   - the local Docker backend, which needs an image plus compile/run commands
//   - the remote Piston backend, which needs the provider's language/version
//     identifiers
//
// Keeping a single table parameterized by backend stops the per-backend
// enumerations drifting apart.
package language

import "github.com/sakif/code-editor/internal/apperror"

// LocalSpec describes how to run a language in a disposable local container.
// Compile is empty for interpreted languages. Commands are run with `sh -c`
// in the mounted working directory.
type LocalSpec struct {
	Image   string
	Compile string
	Run     string
}

// RemoteSpec carries the identifiers the Piston execution API expects.
type RemoteSpec struct {
	Language string
	Version  string
}

// Capability is one registry entry.
type Capability struct {
	ID          string
	DisplayName string
	Extension   string
	Local       *LocalSpec
	Remote      *RemoteSpec
}

// Runnable reports whether at least one execution backend supports the language.
func (c Capability) Runnable() bool {
	return c.Local != nil || c.Remote != nil
}

// Source files are always written as Main.<ext>; Java requires the class file
// name to match, and using the same convention everywhere keeps the run
// commands static.
const BaseFilename = "Main"

// registry lists every public language ID, in the order exposed to clients.
var registry = []Capability{
	{
		ID: "javascript", DisplayName: "Javascript", Extension: "js",
		Local:  &LocalSpec{Image: "node:18-alpine", Run: "node Main.js"},
		Remote: &RemoteSpec{Language: "javascript", Version: "18.15.0"},
	},
	{
		ID: "python", DisplayName: "Python", Extension: "py",
		Local:  &LocalSpec{Image: "python:3.10-alpine", Run: "python3 Main.py"},
		Remote: &RemoteSpec{Language: "python", Version: "3.10.0"},
	},
	{
		ID: "java", DisplayName: "Java", Extension: "java",
		Local:  &LocalSpec{Image: "openjdk:17", Compile: "javac Main.java", Run: "java Main"},
		Remote: &RemoteSpec{Language: "java", Version: "15.0.2"},
	},
	{
		ID: "cpp", DisplayName: "Cpp", Extension: "cpp",
		Local:  &LocalSpec{Image: "gcc:12-alpine", Compile: "g++ Main.cpp -o a.out", Run: "./a.out"},
		Remote: &RemoteSpec{Language: "c++", Version: "10.2.0"},
	},
	{
		ID: "c", DisplayName: "C", Extension: "c",
		Local:  &LocalSpec{Image: "gcc:12-alpine", Compile: "gcc Main.c -o a.out", Run: "./a.out"},
		Remote: &RemoteSpec{Language: "c", Version: "10.2.0"},
	},
	{ID: "html", DisplayName: "Html", Extension: "html"},
	{ID: "css", DisplayName: "Css", Extension: "css"},
	{
		ID: "typescript", DisplayName: "Typescript", Extension: "ts",
		Remote: &RemoteSpec{Language: "typescript", Version: "5.0.3"},
	},
	{
		ID: "php", DisplayName: "Php", Extension: "php",
		Remote: &RemoteSpec{Language: "php", Version: "8.2.3"},
	},
	{
		ID: "ruby", DisplayName: "Ruby", Extension: "rb",
		Remote: &RemoteSpec{Language: "ruby", Version: "3.0.1"},
	},
	{
		ID: "go", DisplayName: "Go", Extension: "go",
		Remote: &RemoteSpec{Language: "go", Version: "1.16.2"},
	},
	{
		ID: "rust", DisplayName: "Rust", Extension: "rs",
		Remote: &RemoteSpec{Language: "rust", Version: "1.68.2"},
	},
	{
		ID: "sql", DisplayName: "Sql", Extension: "sql",
		Remote: &RemoteSpec{Language: "sqlite3", Version: "3.36.0"},
	},
	{ID: "json", DisplayName: "Json", Extension: "json"},
	{ID: "xml", DisplayName: "Xml", Extension: "xml"},
}

var byID = func() map[string]Capability {
	m := make(map[string]Capability, len(registry))
	for _, c := range registry {
		m[c.ID] = c
	}
	return m
}()

// Lookup returns the capability entry for a public language ID.
// Unknown IDs yield apperror.ErrUnsupported.
func Lookup(id string) (Capability, error) {
	c, ok := byID[id]
	if !ok {
		return Capability{}, apperror.UnsupportedLanguage(id)
	}
	return c, nil
}

// IsValid reports whether id is one of the persisted language enum values.
func IsValid(id string) bool {
	_, ok := byID[id]
	return ok
}

// All returns every registry entry in client-facing order.
func All() []Capability {
	out := make([]Capability, len(registry))
	copy(out, registry)
	return out
}

// Filename returns the source file name for a capability (e.g. "Main.py").
func (c Capability) Filename() string {
	return BaseFilename + "." + c.Extension
}
