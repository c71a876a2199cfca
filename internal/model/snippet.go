// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Categories accepted by the snippet store. "snippet" is the default.
var Categories = []string{
	"algorithm", "function", "class", "component",
	"utility", "template", "snippet", "project", "other",
}

// Snippet represents a saved code snippet with metadata and version history.
//
// The live Code field is always the current version. The Versions list holds
// only superseded code bodies — the current code is never duplicated into it
// until an update replaces it.
type Snippet struct {
	ID          string       `json:"id"`
	UserID      string       `json:"userId"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Code        string       `json:"code"`
	Language    string       `json:"language"`
	Tags        []string     `json:"tags"`
	Category    string       `json:"category"`
	IsPublic    bool         `json:"isPublic"`
	Metadata    Metadata     `json:"metadata"`
	AIAnalysis  *AIAnalysis  `json:"aiAnalysis,omitempty"`
	Versions    []Version    `json:"versions,omitempty"`
	Stats       SnippetStats `json:"stats"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Metadata is recomputed server-side whenever Code changes.
type Metadata struct {
	LinesOfCode int    `json:"linesOfCode"`
	FileSize    int    `json:"fileSize"` // byte length of Code (UTF-8)
	Complexity  string `json:"complexity"`
}

// AIAnalysis caches the latest AI feedback on a snippet.
type AIAnalysis struct {
	Suggestions  []string  `json:"suggestions,omitempty"`
	Complexity   string    `json:"complexity,omitempty"`  // beginner|intermediate|advanced
	Performance  string    `json:"performance,omitempty"` // poor|good|excellent
	LastAnalyzed time.Time `json:"lastAnalyzed,omitempty"`
}

// Version is an immutable snapshot of a snippet's code body at the moment it
// was superseded by an update.
type Version struct {
	Version   int       `json:"version"`
	Code      string    `json:"code"`
	Changes   string    `json:"changes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// SnippetStats holds per-snippet usage counters.
type SnippetStats struct {
	Views int `json:"views"`
	Forks int `json:"forks"`
	Likes int `json:"likes"`
}

// ComputeMetadata derives the metadata fields from a code body.
//
// Lines of code is the number of '\n'-separated segments (an empty body still
// counts as one segment, matching how editors number lines). Complexity tiers:
// under 10 lines low, under 50 medium, otherwise high.
func ComputeMetadata(code string) Metadata {
	lines := 1
	for i := 0; i < len(code); i++ {
		if code[i] == '\n' {
			lines++
		}
	}

	complexity := "high"
	switch {
	case lines < 10:
		complexity = "low"
	case lines < 50:
		complexity = "medium"
	}

	return Metadata{
		LinesOfCode: lines,
		FileSize:    len(code),
		Complexity:  complexity,
	}
}
