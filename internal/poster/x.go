package poster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
)

const xDefaultBaseURL = "https://api.x.com"

// XPoster publishes status updates to X through the v2 API. Write
// requests are signed with OAuth 1.0a user context; the optional bearer
// token is only exercised by app-only credential checks.
type XPoster struct {
	oauthClient  *http.Client // signs requests with OAuth 1.0a user context
	bearerClient *http.Client // plain client for app-only bearer requests
	bearerToken  string
	baseURL      string
}

// XConfig holds the credentials and client options for the X poster.
type XConfig struct {
	BearerToken    string
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string

	// BaseURL overrides the API host; tests point it at a local server.
	BaseURL string
	// Timeout bounds each request. Defaults to 30 seconds.
	Timeout time.Duration
}

// NewXPoster creates a new X poster.
func NewXPoster(cfg XConfig) *XPoster {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = xDefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	oauthCfg := oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret)
	token := oauth1.NewToken(cfg.AccessToken, cfg.AccessSecret)
	oauthClient := oauthCfg.Client(oauth1.NoContext, token)
	oauthClient.Timeout = timeout

	return &XPoster{
		oauthClient:  oauthClient,
		bearerClient: &http.Client{Timeout: timeout},
		bearerToken:  cfg.BearerToken,
		baseURL:      baseURL,
	}
}

// Platform returns the platform name.
func (x *XPoster) Platform() string {
	return "x"
}

// createTweetRequest is the request body for creating a post.
type createTweetRequest struct {
	Text string `json:"text"`
}

// createTweetResponse is the response from creating a post.
type createTweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// apiErrorResponse is the v2 problem-details error envelope.
type apiErrorResponse struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
}

// usersResponse is the response from a user lookup.
type usersResponse struct {
	Data struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Username string `json:"username"`
	} `json:"data"`
}

// Post publishes content to X in a single attempt.
func (x *XPoster) Post(ctx context.Context, content PostContent) (*PostResult, error) {
	body, err := json.Marshal(createTweetRequest{Text: content.Text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := x.baseURL + "/2/tweets"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := x.oauthClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	// The v2 create endpoint answers 201; anything else is a rejection.
	if resp.StatusCode != http.StatusCreated {
		return nil, parseAPIError(resp.StatusCode, respBody)
	}

	var createResp createTweetResponse
	if err := json.Unmarshal(respBody, &createResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if createResp.Data.ID == "" {
		return nil, fmt.Errorf("response carries no post ID: %s", string(respBody))
	}

	postURL := fmt.Sprintf("https://x.com/i/web/status/%s", createResp.Data.ID)

	slog.Info("posted to X", "post_id", createResp.Data.ID, "url", postURL)

	return &PostResult{
		PostID:  createResp.Data.ID,
		PostURL: postURL,
	}, nil
}

// ValidateCredentials verifies the OAuth 1.0a user context by looking up
// the authenticated account, then exercises the bearer token (when one is
// configured) with an app-only lookup of the same account.
func (x *XPoster) ValidateCredentials(ctx context.Context) error {
	me, err := x.fetchAuthenticatedUser(ctx)
	if err != nil {
		return fmt.Errorf("user-context credentials: %w", err)
	}

	slog.Debug("authenticated with X", "username", me.Data.Username, "user_id", me.Data.ID)

	if x.bearerToken == "" {
		return nil
	}
	if err := x.checkBearerToken(ctx, me.Data.Username); err != nil {
		return fmt.Errorf("bearer token: %w", err)
	}
	return nil
}

func (x *XPoster) fetchAuthenticatedUser(ctx context.Context) (*usersResponse, error) {
	url := x.baseURL + "/2/users/me"
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := x.oauthClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseAPIError(resp.StatusCode, respBody)
	}

	var me usersResponse
	if err := json.Unmarshal(respBody, &me); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &me, nil
}

// checkBearerToken hits a public endpoint with only the bearer token, so
// an invalid token is caught here instead of surfacing later. It uses the
// plain client: the OAuth transport would overwrite the Authorization
// header.
func (x *XPoster) checkBearerToken(ctx context.Context, username string) error {
	url := fmt.Sprintf("%s/2/users/by/username/%s", x.baseURL, username)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+x.bearerToken)

	resp, err := x.bearerClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return parseAPIError(resp.StatusCode, body)
	}
	return nil
}

// parseAPIError folds an error response into an *APIError. X v2 errors
// are problem-details objects; anything else keeps the raw body as detail.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var payload apiErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil && payload.Title != "" {
		apiErr.Title = payload.Title
		apiErr.Detail = payload.Detail
	} else {
		apiErr.Detail = strings.TrimSpace(string(body))
	}
	return apiErr
}
