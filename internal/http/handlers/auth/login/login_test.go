package login

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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/nutriscan/internal/http/response"
	"github.com/magabrotheeeer/nutriscan/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, email, rawPassword string) (string, error) {
	args := m.Called(ctx, email, rawPassword)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		mockToken      string
		mockErr        error
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "успешный вход",
			requestBody:    Request{Email: "user@example.com", Password: "password123"},
			mockToken:      "tok",
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "некорректный json",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "отсутствует пароль",
			requestBody:    Request{Email: "user@example.com"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Password is a required field",
		},
		{
			name:           "неверные учетные данные",
			requestBody:    Request{Email: "user@example.com", Password: "password123"},
			mockErr:        auth.ErrInvalidCredentials,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "invalid email or password",
		},
		{
			name:           "учетная запись отключена",
			requestBody:    Request{Email: "user@example.com", Password: "password123"},
			mockErr:        auth.ErrAccountDeactivated,
			wantStatusCode: http.StatusForbidden,
			wantError:      "account is deactivated",
		},
		{
			name:           "режим обслуживания",
			requestBody:    Request{Email: "user@example.com", Password: "password123"},
			mockErr:        auth.ErrMaintenanceMode,
			wantStatusCode: http.StatusForbidden,
			wantError:      "system is currently in maintenance mode",
		},
		{
			name:           "внутренняя ошибка",
			requestBody:    Request{Email: "user@example.com", Password: "password123"},
			mockErr:        errors.New("db down"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "could not log in",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(AuthServiceMock)
			if req, ok := tt.requestBody.(Request); ok && req.Password != "" {
				serviceMock.On("Login", mock.Anything, req.Email, req.Password).
					Return(tt.mockToken, tt.mockErr).Once()
			}

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(bodyBytes))
			rec := httptest.NewRecorder()

			New(newNoopLogger(), serviceMock).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var resp response.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			if tt.wantError != "" {
				assert.Equal(t, response.StatusError, resp.Status)
				assert.Contains(t, resp.Error, tt.wantError)
			} else {
				assert.Equal(t, response.StatusOK, resp.Status)
				data, ok := resp.Data.(map[string]any)
				require.True(t, ok)
				assert.Equal(t, tt.mockToken, data["token"])
			}
		})
	}
}
