package poster

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewXPoster(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		p := NewXPoster(XConfig{
			ConsumerKey:    "ck",
			ConsumerSecret: "cs",
			AccessToken:    "at",
			AccessSecret:   "as",
		})

		assert.Equal(t, "https://api.x.com", p.baseURL)
		assert.Equal(t, 30*time.Second, p.oauthClient.Timeout)
		assert.Equal(t, 30*time.Second, p.bearerClient.Timeout)
	})

	t.Run("honors overrides", func(t *testing.T) {
		p := NewXPoster(XConfig{
			ConsumerKey:    "ck",
			ConsumerSecret: "cs",
			AccessToken:    "at",
			AccessSecret:   "as",
			BaseURL:        "http://localhost:8080/",
			Timeout:        5 * time.Second,
		})

		assert.Equal(t, "http://localhost:8080", p.baseURL)
		assert.Equal(t, 5*time.Second, p.oauthClient.Timeout)
	})
}

func TestXPoster_Platform(t *testing.T) {
	p := NewXPoster(XConfig{})
	assert.Equal(t, "x", p.Platform())
}

func TestXPoster_Post(t *testing.T) {
	t.Run("successful post", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "/2/tweets", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			auth := r.Header.Get("Authorization")
			assert.True(t, strings.HasPrefix(auth, "OAuth "), "expected OAuth signature, got %q", auth)
			assert.Contains(t, auth, `oauth_consumer_key="ck"`)

			var req createTweetRequest
			json.NewDecoder(r.Body).Decode(&req)
			assert.Equal(t, "hello from the window", req.Text)

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"data":{"id":"1845674231683280001","text":"hello from the window"}}`))
		}))
		defer server.Close()

		p := NewXPoster(XConfig{
			ConsumerKey:    "ck",
			ConsumerSecret: "cs",
			AccessToken:    "at",
			AccessSecret:   "as",
			BaseURL:        server.URL,
		})

		result, err := p.Post(context.Background(), PostContent{Text: "hello from the window"})
		require.NoError(t, err)

		assert.Equal(t, "1845674231683280001", result.PostID)
		assert.Equal(t, "https://x.com/i/web/status/1845674231683280001", result.PostURL)
	})

	t.Run("API rejection becomes APIError", func(t *testing.T) {
		attempts := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"title":"Forbidden","detail":"Your account is not permitted to create posts.","status":403}`))
		}))
		defer server.Close()

		p := NewXPoster(XConfig{BaseURL: server.URL})

		result, err := p.Post(context.Background(), PostContent{Text: "hi"})
		require.Error(t, err)
		assert.Nil(t, result)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
		assert.Equal(t, "Forbidden", apiErr.Title)
		assert.Equal(t, "Your account is not permitted to create posts.", apiErr.Detail)
		assert.Equal(t, 1, attempts, "a rejected post must not be retried")
	})

	t.Run("200 response rejected, create must answer 201", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":{"id":"1845674231683280001","text":"hi"}}`))
		}))
		defer server.Close()

		p := NewXPoster(XConfig{BaseURL: server.URL})

		_, err := p.Post(context.Background(), PostContent{Text: "hi"})
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusOK, apiErr.StatusCode)
	})

	t.Run("non-JSON error body kept as detail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("upstream exploded\n"))
		}))
		defer server.Close()

		p := NewXPoster(XConfig{BaseURL: server.URL})

		_, err := p.Post(context.Background(), PostContent{Text: "hi"})
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Empty(t, apiErr.Title)
		assert.Equal(t, "upstream exploded", apiErr.Detail)
	})

	t.Run("malformed success body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte("not json"))
		}))
		defer server.Close()

		p := NewXPoster(XConfig{BaseURL: server.URL})

		_, err := p.Post(context.Background(), PostContent{Text: "hi"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse response")
	})

	t.Run("success body without post ID", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"data":{}}`))
		}))
		defer server.Close()

		p := NewXPoster(XConfig{BaseURL: server.URL})

		_, err := p.Post(context.Background(), PostContent{Text: "hi"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no post ID")
	})

	t.Run("unreachable server", func(t *testing.T) {
		p := NewXPoster(XConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})

		_, err := p.Post(context.Background(), PostContent{Text: "hi"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "send request")
	})
}

func TestXPoster_ValidateCredentials(t *testing.T) {
	userBody := `{"data":{"id":"42","name":"Tester","username":"tester"}}`

	t.Run("valid user context and bearer token", func(t *testing.T) {
		var bearerAuth string
		bearerHits := 0

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/2/users/me":
				w.Write([]byte(userBody))
			case "/2/users/by/username/tester":
				bearerHits++
				bearerAuth = r.Header.Get("Authorization")
				w.Write([]byte(userBody))
			default:
				t.Errorf("unexpected request to %s", r.URL.Path)
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		p := NewXPoster(XConfig{
			BearerToken:    "bearer-123",
			ConsumerKey:    "ck",
			ConsumerSecret: "cs",
			AccessToken:    "at",
			AccessSecret:   "as",
			BaseURL:        server.URL,
		})

		require.NoError(t, p.ValidateCredentials(context.Background()))
		assert.Equal(t, 1, bearerHits)
		assert.Equal(t, "Bearer bearer-123", bearerAuth)
	})

	t.Run("bearer check skipped without token", func(t *testing.T) {
		bearerHits := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/2/users/me" {
				bearerHits++
			}
			w.Write([]byte(userBody))
		}))
		defer server.Close()

		p := NewXPoster(XConfig{
			ConsumerKey:    "ck",
			ConsumerSecret: "cs",
			AccessToken:    "at",
			AccessSecret:   "as",
			BaseURL:        server.URL,
		})

		require.NoError(t, p.ValidateCredentials(context.Background()))
		assert.Zero(t, bearerHits)
	})

	t.Run("rejected user context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"title":"Unauthorized","detail":"Unauthorized","status":401}`))
		}))
		defer server.Close()

		p := NewXPoster(XConfig{BaseURL: server.URL})

		err := p.ValidateCredentials(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "user-context credentials")

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	})

	t.Run("rejected bearer token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/2/users/me" {
				w.Write([]byte(userBody))
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"title":"Unauthorized","detail":"Unauthorized","status":401}`))
		}))
		defer server.Close()

		p := NewXPoster(XConfig{
			BearerToken: "stale-bearer",
			BaseURL:     server.URL,
		})

		err := p.ValidateCredentials(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bearer token")
	})
}

func TestParseAPIError(t *testing.T) {
	t.Run("problem details payload", func(t *testing.T) {
		err := parseAPIError(401, []byte(`{"title":"Unauthorized","detail":"Bad credentials","status":401}`))
		assert.Equal(t, 401, err.StatusCode)
		assert.Equal(t, "Unauthorized", err.Title)
		assert.Equal(t, "Bad credentials", err.Detail)
		assert.Equal(t, "API error (status 401): Unauthorized: Bad credentials", err.Error())
	})

	t.Run("duplicate title and detail collapse", func(t *testing.T) {
		err := parseAPIError(401, []byte(`{"title":"Unauthorized","detail":"Unauthorized","status":401}`))
		assert.Equal(t, "API error (status 401): Unauthorized", err.Error())
	})

	t.Run("raw body fallback", func(t *testing.T) {
		err := parseAPIError(502, []byte("  bad gateway  "))
		assert.Empty(t, err.Title)
		assert.Equal(t, "bad gateway", err.Detail)
		assert.Equal(t, "API error (status 502): bad gateway", err.Error())
	})

	t.Run("empty body", func(t *testing.T) {
		err := parseAPIError(500, nil)
		assert.Equal(t, "API error (status 500)", err.Error())
	})
}
