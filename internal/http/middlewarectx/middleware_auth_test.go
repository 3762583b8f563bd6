package middlewarectx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naluwan/wsa-backend/internal/lib/jwt"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestJWTMiddleware(t *testing.T) {
	maker := jwt.NewMaker("test-secret", time.Hour)
	validToken, err := maker.GenerateToken("user-1", "alice")
	require.NoError(t, err)

	expiredMaker := jwt.NewMaker("test-secret", -time.Hour)
	expiredToken, err := expiredMaker.GenerateToken("user-1", "alice")
	require.NoError(t, err)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedUID    string
		expectedUser   string
	}{
		{
			name:           "success - valid token",
			authHeader:     "Bearer " + validToken,
			expectedStatus: http.StatusOK,
			expectedUID:    "user-1",
			expectedUser:   "alice",
		},
		{
			name:           "missing authorization header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid authorization header format",
			authHeader:     "InvalidFormat token123",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "garbage token",
			authHeader:     "Bearer not-a-token",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired token",
			authHeader:     "Bearer " + expiredToken,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUID, gotUser string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUID, _ = r.Context().Value(UserUID).(string)
				gotUser, _ = r.Context().Value(User).(string)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			JWTMiddleware(maker, newNoopLogger())(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedUID, gotUID)
				assert.Equal(t, tt.expectedUser, gotUser)
			}
		})
	}
}

func TestOptionalJWTMiddleware(t *testing.T) {
	maker := jwt.NewMaker("test-secret", time.Hour)
	validToken, err := maker.GenerateToken("user-1", "alice")
	require.NoError(t, err)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedUID    string
	}{
		{
			name:           "anonymous request passes through",
			authHeader:     "",
			expectedStatus: http.StatusOK,
			expectedUID:    "",
		},
		{
			name:           "valid token fills context",
			authHeader:     "Bearer " + validToken,
			expectedStatus: http.StatusOK,
			expectedUID:    "user-1",
		},
		{
			name:           "presented invalid token is rejected",
			authHeader:     "Bearer not-a-token",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUID = UserUIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			OptionalJWTMiddleware(maker, newNoopLogger())(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedUID, gotUID)
			}
		})
	}
}
