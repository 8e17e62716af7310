package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookcatalog/internal/platform/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	issuer := crypto.NewTokenIssuer("secret", "bookcatalog", "bookcatalog-clients", time.Hour)

	var gotUser, gotRole string
	handler := AuthMiddleware(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotRole = UserIDFrom(r), RoleFrom(r)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer nope")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, _, err := issuer.Generate("alice@example.com", "User")
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice@example.com", gotUser)
		assert.Equal(t, "User", gotRole)
	})
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(RoleAdmin)(okHandler())

	tests := []struct {
		name       string
		user, role string
		want       int
	}{
		{"anonymous", "", "", http.StatusUnauthorized},
		{"plain user", "bob", "User", http.StatusForbidden},
		{"admin", "root", "Admin", http.StatusOK},
		{"admin any case", "root", "ADMIN", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/books", nil)
			if tt.user != "" {
				r = r.WithContext(ContextWithUser(r.Context(), tt.user, tt.role))
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestIsSelfOrAdmin(t *testing.T) {
	tests := []struct {
		name       string
		user, role string
		pathUser   string
		want       bool
	}{
		{"self exact", "alice", "User", "alice", true},
		{"self different case", "Alice", "User", "aLiCe", true},
		{"other user", "bob", "User", "alice", false},
		{"admin", "root", "Admin", "alice", true},
		{"anonymous", "", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r = r.WithContext(ContextWithUser(r.Context(), tt.user, tt.role))
			assert.Equal(t, tt.want, IsSelfOrAdmin(r, tt.pathUser))
		})
	}
}
