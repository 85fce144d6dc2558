package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(platform, apiBase string) Config {
	return Config{
		URL:      "https://n8n.example.com/webhook/abc",
		Platform: platform,
		Owner:    "acme",
		Repo:     "shop",
		Token:    "tok",
		Secret:   "s3cret",
		APIBase:  apiBase,
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid github", func(c *Config) {}, false},
		{"valid gitlab", func(c *Config) { c.Platform = "GitLab" }, false},
		{"default platform", func(c *Config) { c.Platform = "" }, false},
		{"missing token", func(c *Config) { c.Token = "" }, true},
		{"unknown platform", func(c *Config) { c.Platform = "bitbucket" }, true},
		{"missing owner", func(c *Config) { c.Owner = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig("github", "")
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	cfg := testConfig("github", "")
	cfg.Token = ""
	assert.ErrorIs(t, cfg.Validate(), ErrMissingToken)
}

func TestHooksURL(t *testing.T) {
	assert.Equal(t, "https://api.github.com/repos/acme/shop/hooks", testConfig("github", "").HooksURL())
	assert.Equal(t, "https://gitlab.com/api/v4/projects/acme%2Fshop/hooks", testConfig("gitlab", "").HooksURL())
	assert.Equal(t, "https://ghe.local/api/v3/repos/acme/shop/hooks", testConfig("github", "https://ghe.local/api/v3/").HooksURL())
}

func TestPayload(t *testing.T) {
	gh, err := json.Marshal(testConfig("github", "").Payload())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "web",
		"active": true,
		"events": ["push", "pull_request", "pull_request_review", "create", "delete"],
		"config": {
			"url": "https://n8n.example.com/webhook/abc",
			"content_type": "json",
			"insecure_ssl": "0",
			"secret": "s3cret"
		}
	}`, string(gh))

	gl, err := json.Marshal(testConfig("gitlab", "").Payload())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"url": "https://n8n.example.com/webhook/abc",
		"push_events": true,
		"merge_requests_events": true,
		"tag_push_events": true,
		"token": "s3cret",
		"enable_ssl_verification": true
	}`, string(gl))
}

func TestClientCreate(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/acme/shop/hooks", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "featgen-webhook-setup", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":42,"active":true}`))
	}))
	defer srv.Close()

	client, err := NewClient(testConfig("github", srv.URL), srv.Client())
	require.NoError(t, err)

	resp, err := client.Create(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":42,"active":true}`, string(resp))
	assert.Equal(t, "web", gotBody["name"])
}

func TestClientListGitLab(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/projects/acme%2Fshop/hooks", r.URL.EscapedPath())
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.Write([]byte(`[{"id":1,"url":"https://n8n.example.com/webhook/abc"}]`))
	}))
	defer srv.Close()

	client, err := NewClient(testConfig("gitlab", srv.URL), srv.Client())
	require.NoError(t, err)

	resp, err := client.List(context.Background())
	require.NoError(t, err)

	var hooks []map[string]any
	require.NoError(t, json.Unmarshal(resp, &hooks))
	assert.Len(t, hooks, 1)
}

func TestClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Hook already exists"}`))
	}))
	defer srv.Close()

	client, err := NewClient(testConfig("github", srv.URL), srv.Client())
	require.NoError(t, err)

	_, err = client.Create(context.Background())
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.Code)
	assert.Contains(t, statusErr.Error(), "Hook already exists")
}

func TestClientCreateRequiresURL(t *testing.T) {
	cfg := testConfig("github", "http://127.0.0.1:1")
	cfg.URL = ""
	client, err := NewClient(cfg, nil)
	require.NoError(t, err)

	_, err = client.Create(context.Background())
	assert.Error(t, err)
}

func TestNewClientValidates(t *testing.T) {
	cfg := testConfig("github", "")
	cfg.Token = ""
	_, err := NewClient(cfg, nil)
	assert.ErrorIs(t, err, ErrMissingToken)
}
