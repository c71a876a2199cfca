package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func authProbe(t *testing.T) (http.Handler, *string) {
	t.Helper()
	var seenUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := UserIDFromContext(r.Context())
		seenUserID = id
		w.WriteHeader(http.StatusOK)
	})
	s := newTestTokenService(t)
	return RequireAuth(s)(next), &seenUserID
}

func TestRequireAuth_BearerHeader(t *testing.T) {
	h, seen := authProbe(t)
	s := newTestTokenService(t)
	token, _ := s.Generate("user-1")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if *seen != "user-1" {
		t.Errorf("userID in context = %q, want user-1", *seen)
	}
}

func TestRequireAuth_Cookie(t *testing.T) {
	h, seen := authProbe(t)
	s := newTestTokenService(t)
	token, _ := s.Generate("user-2")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if *seen != "user-2" {
		t.Errorf("userID in context = %q, want user-2", *seen)
	}
}

func TestRequireAuth_Rejections(t *testing.T) {
	h, _ := authProbe(t)
	s := newTestTokenService(t)
	expired, _ := s.GenerateWithDuration("user-3", -time.Minute)

	tests := []struct {
		name  string
		setup func(*http.Request)
	}{
		{"no credentials", func(*http.Request) {}},
		{"garbage header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }},
		{"expired token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+expired) }},
		{"garbage cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: "nope"}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rr.Code)
			}
		})
	}
}
