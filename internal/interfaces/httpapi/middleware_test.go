package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gfmartins/bolao-brasileirao/internal/usecase"
)

type fakeVerifier struct {
	subject string
	err     error
}

func (v fakeVerifier) Verify(ctx context.Context, token string) (string, error) {
	return v.subject, v.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		verifier   fakeVerifier
		wantStatus int
	}{
		{"missing header", "", fakeVerifier{}, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", fakeVerifier{}, http.StatusUnauthorized},
		{"empty token", "Bearer ", fakeVerifier{}, http.StatusUnauthorized},
		{"rejected token", "Bearer bad", fakeVerifier{err: usecase.ErrUnauthorized}, http.StatusUnauthorized},
		{"valid token", "Bearer good", fakeVerifier{subject: "admin"}, http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			RequireAuth(tc.verifier, okHandler()).ServeHTTP(rec, req)
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestRequireAuthInjectsSubject(t *testing.T) {
	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = subjectFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer good")
	RequireAuth(fakeVerifier{subject: "admin"}, next).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "admin", got)
}

func TestRequireCronToken(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		query      string
		wantStatus int
	}{
		{"valid token", "s3cret", "?token=s3cret", http.StatusOK},
		{"wrong token", "s3cret", "?token=nope", http.StatusForbidden},
		{"missing token", "s3cret", "", http.StatusForbidden},
		{"unconfigured secret rejects everything", "", "?token=", http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/cron/sync"+tc.query, nil)
			rec := httptest.NewRecorder()

			RequireCronToken(tc.secret, okHandler()).ServeHTTP(rec, req)
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestCORS(t *testing.T) {
	handler := CORS([]string{"http://localhost:5173"}, okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/ranking", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/ranking", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	// Preflight short-circuits with 204.
	req = httptest.NewRequest(http.MethodOptions, "/api/ranking", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
