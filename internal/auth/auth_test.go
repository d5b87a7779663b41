package auth

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeflix/internal/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewService(store, "test-secret", time.Hour)
}

func TestService_LoginRoundtrip(t *testing.T) {
	svc := newTestService(t)

	u, err := svc.CreateUser("tom", "tom@example.com", "hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	assert.NotEqual(t, "hunter2", u.PasswordHash)

	token, logged, err := svc.Login("tom", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Subject)
	assert.Equal(t, "tom", claims.Username)
}

func TestService_LoginWrongPassword(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateUser("tom", "tom@example.com", "hunter2")
	require.NoError(t, err)

	_, _, err = svc.Login("tom", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_LoginUnknownUser(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Login("nobody", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_VerifyGarbageToken(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.VerifyToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_VerifyTokenFromOtherSecret(t *testing.T) {
	signer := newTestService(t)

	_, err := signer.CreateUser("tom", "tom@example.com", "hunter2")
	require.NoError(t, err)
	token, _, err := signer.Login("tom", "hunter2")
	require.NoError(t, err)

	verifier := newTestService(t)
	verifier.secret = []byte("different-secret")

	_, err = verifier.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	svc := newTestService(t)

	u, err := svc.CreateUser("tom", "tom@example.com", "hunter2")
	require.NoError(t, err)
	token, _, err := svc.Login("tom", "hunter2")
	require.NoError(t, err)

	var gotUserID string
	handler := Middleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", token, http.StatusUnauthorized},
		{"invalid token", "Bearer garbage", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUserID = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, u.ID, gotUserID)
			}
		})
	}
}
