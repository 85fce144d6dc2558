package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brattlof/featgen/internal/scaffold"
)

type failSecondWriteFs struct {
	afero.Fs
	writes int
}

func (f *failSecondWriteFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&os.O_WRONLY != 0 {
		f.writes++
		if f.writes == 2 {
			return nil, &os.PathError{Op: "open", Path: name, Err: syscall.ENOSPC}
		}
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func newTestServer(t *testing.T, fs afero.Fs) (*Server, *httptest.Server) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := scaffold.New(scaffold.WithFs(fs), scaffold.WithLogger(logger))
	s := New(engine, "out", logger)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func postGenerate(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url+"/api/generate", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, afero.NewMemMapFs())

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestIndexPage(t *testing.T) {
	_, ts := newTestServer(t, afero.NewMemMapFs())

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "<h2>api</h2>")
	assert.Contains(t, string(body), "<code>src/components/{Name}/{Name}.jsx</code>")
}

func TestListTypes(t *testing.T) {
	_, ts := newTestServer(t, afero.NewMemMapFs())

	resp, err := http.Get(ts.URL + "/api/types")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Types []typeResponse `json:"types"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Types, 3)
	assert.Equal(t, "api", body.Types[0].Key)
	assert.Equal(t, "src/routes/{name}.js", body.Types[0].Files[0])
}

func TestGenerate(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, ts := newTestServer(t, fs)

	resp, body := postGenerate(t, ts.URL, `{"type":"api","name":"User","ticket_id":"PROJ-1"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(4), body["count"])

	content, err := afero.ReadFile(fs, filepath.Join("out", "src/routes/user.js"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "// PROJ-1: user\n"))
}

func TestGenerateSubdirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, ts := newTestServer(t, fs)

	resp, _ := postGenerate(t, ts.URL, `{"type":"ui","name":"card","ticket_id":"T-1","output_dir":"web"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	exists, _ := afero.Exists(fs, filepath.Join("out", "web", "src/components/Card/Card.jsx"))
	assert.True(t, exists)
}

func TestGenerateBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"type":`, http.StatusBadRequest},
		{"unknown field", `{"type":"api","name":"a","ticket_id":"T","extra":1}`, http.StatusBadRequest},
		{"missing ticket", `{"type":"api","name":"a"}`, http.StatusBadRequest},
		{"absolute output", `{"type":"api","name":"a","ticket_id":"T","output_dir":"/etc"}`, http.StatusBadRequest},
		{"escaping output", `{"type":"api","name":"a","ticket_id":"T","output_dir":"../x"}`, http.StatusBadRequest},
		{"escaping name", `{"type":"api","name":"../../../x","ticket_id":"T"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			_, ts := newTestServer(t, fs)

			resp, body := postGenerate(t, ts.URL, tt.body)
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.NotEmpty(t, body["error"])

			exists, _ := afero.DirExists(fs, "out")
			assert.False(t, exists)
		})
	}
}

func TestGenerateUnknownType(t *testing.T) {
	_, ts := newTestServer(t, afero.NewMemMapFs())

	resp, body := postGenerate(t, ts.URL, `{"type":"cli","name":"a","ticket_id":"T"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, []any{"api", "rest", "ui"}, body["available"])
}

func TestGeneratePartialFailure(t *testing.T) {
	_, ts := newTestServer(t, &failSecondWriteFs{Fs: afero.NewMemMapFs()})

	resp, body := postGenerate(t, ts.URL, `{"type":"api","name":"user","ticket_id":"T"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, []any{filepath.Join("out", "src/routes/user.js")}, body["files"])
	assert.Contains(t, body["error"], "userController.js")
}

func TestSetOutputRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, ts := newTestServer(t, fs)

	s.SetOutputRoot("elsewhere")
	assert.Equal(t, "elsewhere", s.OutputRoot())

	resp, _ := postGenerate(t, ts.URL, `{"type":"rest","name":"order","ticket_id":"T"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	exists, _ := afero.Exists(fs, filepath.Join("elsewhere", "src/routes/order.js"))
	assert.True(t, exists)
}

func TestNotFound(t *testing.T) {
	_, ts := newTestServer(t, afero.NewMemMapFs())

	resp, err := http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
