package token_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/retail-auth/internal/http/handlers/auth/token"
	authservice "github.com/magabrotheeeer/retail-auth/internal/services/auth"
)

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger { return slog.New(discardHandler{}) }

type mockLoginer struct {
	LoginFunc func(ctx context.Context, username, rawPassword string) (string, error)
}

func (m *mockLoginer) Login(ctx context.Context, username, rawPassword string) (string, error) {
	return m.LoginFunc(ctx, username, rawPassword)
}

func newFormRequest(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestTokenHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mock := &mockLoginer{
			LoginFunc: func(_ context.Context, username, rawPassword string) (string, error) {
				require.Equal(t, "alice", username)
				require.Equal(t, "p@ss1", rawPassword)
				return "signed-token", nil
			},
		}

		req := newFormRequest(url.Values{"username": {"alice"}, "password": {"p@ss1"}})
		w := httptest.NewRecorder()

		token.New(makeLogger(), mock).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp token.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "signed-token", resp.AccessToken)
		assert.Equal(t, "bearer", resp.TokenType)
	})

	t.Run("missing fields", func(t *testing.T) {
		mock := &mockLoginer{
			LoginFunc: func(_ context.Context, _, _ string) (string, error) {
				t.Fatal("Login should not be called on validation error")
				return "", nil
			},
		}

		req := newFormRequest(url.Values{"username": {"alice"}})
		w := httptest.NewRecorder()

		token.New(makeLogger(), mock).ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "is a required field")
	})

	t.Run("invalid credentials", func(t *testing.T) {
		mock := &mockLoginer{
			LoginFunc: func(_ context.Context, _, _ string) (string, error) {
				return "", authservice.ErrInvalidCredentials
			},
		}

		req := newFormRequest(url.Values{"username": {"alice"}, "password": {"wrong"}})
		w := httptest.NewRecorder()

		token.New(makeLogger(), mock).ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
		assert.Contains(t, w.Body.String(), "Incorrect username or password")
	})

	t.Run("service error", func(t *testing.T) {
		mock := &mockLoginer{
			LoginFunc: func(_ context.Context, _, _ string) (string, error) {
				return "", errors.New("db down")
			},
		}

		req := newFormRequest(url.Values{"username": {"alice"}, "password": {"p@ss1"}})
		w := httptest.NewRecorder()

		token.New(makeLogger(), mock).ServeHTTP(w, req)

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "internal server error")
	})
}
