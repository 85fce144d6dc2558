// Package webhook registers and lists repository webhooks on GitHub or GitLab
// so repository events can trigger external automation.
//
// Each call is a single HTTP request with no retry.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	PlatformGitHub = "github"
	PlatformGitLab = "gitlab"

	userAgent = "featgen-webhook-setup"
)

var defaultAPIBase = map[string]string{
	PlatformGitHub: "https://api.github.com",
	PlatformGitLab: "https://gitlab.com/api/v4",
}

var ErrMissingToken = errors.New("access token is required (set GIT_PLATFORM_TOKEN)")

// GitHubEvents are the events subscribed to on GitHub.
var GitHubEvents = []string{"push", "pull_request", "pull_request_review", "create", "delete"}

type Config struct {
	URL      string
	Platform string
	Owner    string
	Repo     string
	Token    string
	Secret   string
	// APIBase overrides the platform API root, e.g. for GitHub Enterprise or
	// self-hosted GitLab.
	APIBase string
}

func (c Config) Validate() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	if _, ok := defaultAPIBase[c.platform()]; !ok {
		return fmt.Errorf("unsupported platform %q (want github or gitlab)", c.Platform)
	}
	if c.Owner == "" || c.Repo == "" {
		return fmt.Errorf("repository owner and name are required")
	}
	return nil
}

func (c Config) platform() string {
	if c.Platform == "" {
		return PlatformGitHub
	}
	return strings.ToLower(c.Platform)
}

// HooksURL is the collection endpoint for the repository's hooks.
func (c Config) HooksURL() string {
	base := c.APIBase
	if base == "" {
		base = defaultAPIBase[c.platform()]
	}
	base = strings.TrimRight(base, "/")

	if c.platform() == PlatformGitLab {
		project := url.PathEscape(c.Owner + "/" + c.Repo)
		return fmt.Sprintf("%s/projects/%s/hooks", base, project)
	}
	return fmt.Sprintf("%s/repos/%s/%s/hooks", base, c.Owner, c.Repo)
}

type githubHookConfig struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	InsecureSSL string `json:"insecure_ssl"`
	Secret      string `json:"secret,omitempty"`
}

type githubHook struct {
	Name   string           `json:"name"`
	Active bool             `json:"active"`
	Events []string         `json:"events"`
	Config githubHookConfig `json:"config"`
}

type gitlabHook struct {
	URL                   string `json:"url"`
	PushEvents            bool   `json:"push_events"`
	MergeRequestsEvents   bool   `json:"merge_requests_events"`
	TagPushEvents         bool   `json:"tag_push_events"`
	Token                 string `json:"token,omitempty"`
	EnableSSLVerification bool   `json:"enable_ssl_verification"`
}

// Payload builds the platform specific request body for creating a hook.
func (c Config) Payload() any {
	if c.platform() == PlatformGitLab {
		return gitlabHook{
			URL:                   c.URL,
			PushEvents:            true,
			MergeRequestsEvents:   true,
			TagPushEvents:         true,
			Token:                 c.Secret,
			EnableSSLVerification: true,
		}
	}
	return githubHook{
		Name:   "web",
		Active: true,
		Events: GitHubEvents,
		Config: githubHookConfig{
			URL:         c.URL,
			ContentType: "json",
			InsecureSSL: "0",
			Secret:      c.Secret,
		},
	}
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, strings.TrimSpace(e.Body))
}

type Client struct {
	config     Config
	httpClient *http.Client
}

func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{config: cfg, httpClient: httpClient}, nil
}

// Create registers the webhook and returns the platform's JSON response.
func (c *Client) Create(ctx context.Context) (json.RawMessage, error) {
	if c.config.URL == "" {
		return nil, fmt.Errorf("webhook target URL is required (set N8N_WEBHOOK_URL)")
	}
	body, err := json.Marshal(c.config.Payload())
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return c.do(ctx, http.MethodPost, bytes.NewReader(body))
}

// List returns the hooks already registered on the repository.
func (c *Client) List(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, nil)
}

func (c *Client) do(ctx context.Context, method string, body io.Reader) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.config.HooksURL(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(data)}
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("response is not valid JSON")
	}
	return json.RawMessage(data), nil
}
