package update

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/VidhitSikri/BUDDY-FI/internal/models"
	"github.com/VidhitSikri/BUDDY-FI/internal/storage/repository"
)

// Мок сервиса пользователей с методом UpdateLocation
type UserServiceMock struct {
	mock.Mock
}

func (m *UserServiceMock) UpdateLocation(ctx context.Context, email string, longitude, latitude float64) (*models.Location, error) {
	args := m.Called(ctx, email, longitude, latitude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Location), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func ptr(v float64) *float64 { return &v }

func TestUpdateHandler_ServeHTTP(t *testing.T) {
	svcMock := new(UserServiceMock)
	logger := newNoopLogger()

	handler := New(logger, svcMock)

	tests := []struct {
		name           string
		requestBody    interface{}
		mockLocation   *models.Location
		mockErr        error
		mockCalled     bool
		wantStatusCode int
		wantMessage    string
		wantStatus     string
	}{
		{
			name: "valid update",
			requestBody: Request{
				Email:     "alice@example.com",
				Longitude: ptr(24.7536),
				Latitude:  ptr(59.4370),
			},
			mockLocation:   &models.Location{Longitude: 24.7536, Latitude: 59.4370},
			mockCalled:     true,
			wantStatusCode: http.StatusOK,
			wantStatus:     "success",
		},
		{
			name: "zero coordinates are valid",
			requestBody: Request{
				Email:     "alice@example.com",
				Longitude: ptr(0),
				Latitude:  ptr(0),
			},
			mockLocation:   &models.Location{Longitude: 0, Latitude: 0},
			mockCalled:     true,
			wantStatusCode: http.StatusOK,
			wantStatus:     "success",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "invalid request body",
			wantStatus:     "error",
		},
		{
			name: "validation error - missing latitude",
			requestBody: Request{
				Email:     "alice@example.com",
				Longitude: ptr(24.7536),
			},
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "field Latitude is a required field",
			wantStatus:     "error",
		},
		{
			name: "unknown user",
			requestBody: Request{
				Email:     "ghost@example.com",
				Longitude: ptr(24.7536),
				Latitude:  ptr(59.4370),
			},
			mockErr:        repository.ErrUserNotFound,
			mockCalled:     true,
			wantStatusCode: http.StatusNotFound,
			wantMessage:    "user not found",
			wantStatus:     "error",
		},
		{
			name: "storage error",
			requestBody: Request{
				Email:     "alice@example.com",
				Longitude: ptr(24.7536),
				Latitude:  ptr(59.4370),
			},
			mockErr:        errors.New("db error"),
			mockCalled:     true,
			wantStatusCode: http.StatusInternalServerError,
			wantMessage:    "failed to update location",
			wantStatus:     "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcMock.ExpectedCalls = nil
			svcMock.Calls = nil

			if tt.mockCalled {
				svcMock.On("UpdateLocation", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(tt.mockLocation, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/update-location", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantMessage != "" {
				msg, ok := got["message"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantMessage, msg)
			}

			if tt.wantStatusCode == http.StatusOK {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				location, ok := data["location"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, tt.mockLocation.Longitude, location["longitude"])
				assert.Equal(t, tt.mockLocation.Latitude, location["latitude"])
			}

			svcMock.AssertExpectations(t)
		})
	}
}
