// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// WHY PasswordHash with json:"-"?
// The bcrypt hash must never leave the server. The "-" tag tells encoding/json
// to skip the field entirely, so a User can be written straight into a response
// body without leaking credentials.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	GitHubID     int64     `json:"githubId,omitempty"` // 0 unless the account was linked via GitHub OAuth
	Profile      Profile   `json:"profile"`
	Settings     Settings  `json:"settings"`
	Stats        UserStats `json:"stats"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile holds the user-editable presentation fields.
type Profile struct {
	FirstName          string   `json:"firstName,omitempty"`
	LastName           string   `json:"lastName,omitempty"`
	Bio                string   `json:"bio,omitempty"`
	PreferredLanguages []string `json:"preferredLanguages,omitempty"`
	Theme              string   `json:"theme"` // light|dark|auto
}

// Settings holds editor preferences.
type Settings struct {
	AIAssistance bool `json:"aiAssistance"`
	AutoSave     bool `json:"autoSave"`
	FontSize     int  `json:"fontSize"`
}

// UserStats are running counters maintained solely through atomic increments
// issued by the snippet and AI services — never recomputed by scanning.
type UserStats struct {
	TotalCodes       int `json:"totalCodes"`
	TotalLinesOfCode int `json:"totalLinesOfCode"`
	AIQueriesUsed    int `json:"aiQueriesUsed"`
}

// DefaultSettings are applied at registration.
func DefaultSettings() Settings {
	return Settings{
		AIAssistance: true,
		AutoSave:     true,
		FontSize:     14,
	}
}
