package create_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/retail-auth/internal/http/handlers/users/create"
	userservice "github.com/magabrotheeeer/retail-auth/internal/services/user"
)

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger { return slog.New(discardHandler{}) }

type mockCreater struct {
	CreateFunc func(ctx context.Context, params userservice.CreateUserParams) (string, error)
}

func (m *mockCreater) Create(ctx context.Context, params userservice.CreateUserParams) (string, error) {
	return m.CreateFunc(ctx, params)
}

func newFormRequest(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/users/create", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func validForm() url.Values {
	return url.Values{
		"firstName":   {"Juan"},
		"lastName":    {"Dela Cruz"},
		"username":    {"juan"},
		"password":    {"p@ss1"},
		"email":       {"juan@example.com"},
		"phoneNumber": {"09170000000"},
		"userRole":    {"cashier"},
		"system":      {"POS"},
	}
}

func TestCreateHandler(t *testing.T) {
	t.Run("success capitalizes role in message", func(t *testing.T) {
		mock := &mockCreater{
			CreateFunc: func(_ context.Context, params userservice.CreateUserParams) (string, error) {
				require.Equal(t, "juan", params.Username)
				require.Equal(t, "cashier", params.Role)
				require.Equal(t, "POS", params.System)
				return params.Role, nil
			},
		}

		w := httptest.NewRecorder()
		create.New(makeLogger(), mock).ServeHTTP(w, newFormRequest(validForm()))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Cashier created successfully!")
	})

	t.Run("missing required fields", func(t *testing.T) {
		mock := &mockCreater{
			CreateFunc: func(_ context.Context, _ userservice.CreateUserParams) (string, error) {
				t.Fatal("Create should not be called")
				return "", nil
			},
		}

		form := validForm()
		form.Del("email")
		w := httptest.NewRecorder()
		create.New(makeLogger(), mock).ServeHTTP(w, newFormRequest(form))

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "is a required field")
	})

	t.Run("invalid role", func(t *testing.T) {
		mock := &mockCreater{
			CreateFunc: func(_ context.Context, _ userservice.CreateUserParams) (string, error) {
				return "", userservice.ErrInvalidRole
			},
		}

		w := httptest.NewRecorder()
		create.New(makeLogger(), mock).ServeHTTP(w, newFormRequest(validForm()))

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid role")
	})

	t.Run("email taken", func(t *testing.T) {
		mock := &mockCreater{
			CreateFunc: func(_ context.Context, _ userservice.CreateUserParams) (string, error) {
				return "", userservice.ErrEmailTaken
			},
		}

		w := httptest.NewRecorder()
		create.New(makeLogger(), mock).ServeHTTP(w, newFormRequest(validForm()))

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Email is already used")
	})

	t.Run("username taken names the username", func(t *testing.T) {
		mock := &mockCreater{
			CreateFunc: func(_ context.Context, _ userservice.CreateUserParams) (string, error) {
				return "", userservice.ErrUsernameTaken
			},
		}

		w := httptest.NewRecorder()
		create.New(makeLogger(), mock).ServeHTTP(w, newFormRequest(validForm()))

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Username 'juan' is already taken.")
	})

	t.Run("service error", func(t *testing.T) {
		mock := &mockCreater{
			CreateFunc: func(_ context.Context, _ userservice.CreateUserParams) (string, error) {
				return "", errors.New("db down")
			},
		}

		w := httptest.NewRecorder()
		create.New(makeLogger(), mock).ServeHTTP(w, newFormRequest(validForm()))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
