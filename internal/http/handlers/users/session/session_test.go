package session

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VidhitSikri/BUDDY-FI/internal/models"
	"github.com/VidhitSikri/BUDDY-FI/internal/storage/memstore"
	userservice "github.com/VidhitSikri/BUDDY-FI/internal/services/user"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

// Хендлер ходит через настоящий memstore, заполненный как при входе.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	sessions := memstore.New()
	sessions.Set("uid-1", &models.User{UID: "uid-1", Email: "alice@example.com"})

	svc := userservice.NewUserService(nil, sessions, nil, nil, newNoopLogger())

	router := chi.NewRouter()
	router.Get("/user/{userId}", New(newNoopLogger(), svc).ServeHTTP)
	return router
}

func TestSessionHandler_ServeHTTP(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name           string
		url            string
		wantStatusCode int
		wantMessage    string
		wantStatus     string
	}{
		{
			name:           "user present in store",
			url:            "/user/uid-1",
			wantStatusCode: http.StatusOK,
			wantStatus:     "success",
		},
		{
			name:           "user absent from store",
			url:            "/user/uid-404",
			wantStatusCode: http.StatusNotFound,
			wantMessage:    "user not found in store",
			wantStatus:     "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, got["message"])
			}

			if tt.wantStatusCode == http.StatusOK {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				user, ok := data["user"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, "uid-1", user["uid"])
			}
		})
	}
}
