package register

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
	userservice "github.com/VidhitSikri/BUDDY-FI/internal/services/user"
)

// Мок сервиса пользователей с методом Register
type UserServiceMock struct {
	mock.Mock
}

func (m *UserServiceMock) Register(ctx context.Context, data userservice.RegisterData) (*models.User, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func validRequest() Request {
	return Request{
		Name:            "Alice",
		Email:           "alice@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
		Age:             25,
		Gender:          "F",
	}
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	svcMock := new(UserServiceMock)
	logger := newNoopLogger()

	handler := New(logger, svcMock)

	tests := []struct {
		name           string
		requestBody    interface{}
		mockUser       *models.User
		mockErr        error
		mockCalled     bool
		wantStatusCode int
		wantMessage    string
		wantStatus     string
	}{
		{
			name:        "valid registration",
			requestBody: validRequest(),
			mockUser: &models.User{
				UID:    "uid-1",
				Name:   "Alice",
				Email:  "alice@example.com",
				Age:    25,
				Gender: "F",
			},
			mockCalled:     true,
			wantStatusCode: http.StatusCreated,
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
			name: "validation error - missing email",
			requestBody: func() Request {
				r := validRequest()
				r.Email = ""
				return r
			}(),
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "field Email is a required field",
			wantStatus:     "error",
		},
		{
			name: "validation error - short password",
			requestBody: func() Request {
				r := validRequest()
				r.Password = "short"
				r.ConfirmPassword = "short"
				return r
			}(),
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "field Password is shorter than the allowed minimum",
			wantStatus:     "error",
		},
		{
			name: "passwords do not match",
			requestBody: func() Request {
				r := validRequest()
				r.ConfirmPassword = "different123"
				return r
			}(),
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "passwords do not match",
			wantStatus:     "error",
		},
		{
			name:           "email already taken",
			requestBody:    validRequest(),
			mockErr:        repository.ErrEmailTaken,
			mockCalled:     true,
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "email already exists",
			wantStatus:     "error",
		},
		{
			name:           "storage error",
			requestBody:    validRequest(),
			mockErr:        errors.New("db error"),
			mockCalled:     true,
			wantStatusCode: http.StatusInternalServerError,
			wantMessage:    "failed to register user",
			wantStatus:     "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcMock.ExpectedCalls = nil
			svcMock.Calls = nil

			if tt.mockCalled {
				svcMock.On("Register", mock.Anything, mock.Anything).
					Return(tt.mockUser, tt.mockErr).Once()
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

			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(bodyBytes))
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

			if tt.wantStatusCode == http.StatusCreated {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				user, ok := data["user"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, "alice@example.com", user["email"])
				// Хэш пароля не попадает в ответ
				_, leaked := user["password"]
				assert.False(t, leaked)
			}

			svcMock.AssertExpectations(t)
		})
	}
}
