package translate

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/polyphonyapp/polyphony-server/internal/errors"
	"github.com/polyphonyapp/polyphony-server/internal/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Writer: &strings.Builder{}, Level: logger.ParseLevel("error")})
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestDeepLClient_TranslateBatch(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "DeepL-Auth-Key test-key", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, []string{"hola", "adiós"}, r.Form["text"])
		assert.Equal(t, "EN", r.Form.Get("target_lang"))
		assert.Equal(t, "ES", r.Form.Get("source_lang"))

		fmt.Fprint(w, `{"translations":[{"text":"hello"},{"text":"goodbye"}]}`)
	})

	client := NewDeepLClient("test-key", testLogger().Logger, WithBaseURL(srv.URL))

	got, err := client.TranslateBatch(context.Background(), []string{"hola", "adiós"}, "es", "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "goodbye"}, got)
}

func TestDeepLClient_OmitsAutoSourceLang(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.False(t, r.Form.Has("source_lang"))
		fmt.Fprint(w, `{"translations":[{"text":"hello"}]}`)
	})

	client := NewDeepLClient("test-key", testLogger().Logger, WithBaseURL(srv.URL))

	_, err := client.TranslateBatch(context.Background(), []string{"hola"}, "auto", "en")
	require.NoError(t, err)
}

func TestDeepLClient_TranslationCountMismatch(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"translations":[{"text":"only one"}]}`)
	})

	client := NewDeepLClient("test-key", testLogger().Logger, WithBaseURL(srv.URL))

	_, err := client.TranslateBatch(context.Background(), []string{"uno", "dos"}, "es", "en")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrTranslationService))
}

func TestDeepLClient_APIError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	client := NewDeepLClient("test-key", testLogger().Logger, WithBaseURL(srv.URL))

	_, err := client.TranslateBatch(context.Background(), []string{"hola"}, "es", "en")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrTranslationService))
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestDeepLClient_MissingAPIKey(t *testing.T) {
	client := NewDeepLClient("", testLogger().Logger)

	_, err := client.TranslateBatch(context.Background(), []string{"hola"}, "es", "en")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrTranslationService))
}

func TestDeepLClient_EmptyInput(t *testing.T) {
	client := NewDeepLClient("test-key", testLogger().Logger)

	got, err := client.TranslateBatch(context.Background(), nil, "es", "en")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDeepLClient_TranslateWord(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"translations":[{"text":"shirt"}]}`)
	})

	client := NewDeepLClient("test-key", testLogger().Logger, WithBaseURL(srv.URL))

	got, err := client.TranslateWord(context.Background(), "camisa", "es", "en")
	require.NoError(t, err)
	assert.Equal(t, "shirt", got)
}
