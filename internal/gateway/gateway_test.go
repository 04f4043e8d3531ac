package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echo struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Query  string `json:"query"`
	Body   string `json:"body"`
	Host   string `json:"host"`
	Header string `json:"header"`
}

func echoBackend(t *testing.T) *httptest.Server {
	t.Helper()
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(echo{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   string(body),
			Host:   r.Host,
			Header: r.Header.Get("X-Test"),
		})
	}))
	t.Cleanup(backend.Close)
	return backend
}

func TestGateway_StripsPrefixAndForwards(t *testing.T) {
	backend := echoBackend(t)
	gw, err := New(Config{Target: backend.URL, StripPrefix: "/api"})
	require.NoError(t, err)
	front := httptest.NewServer(gw)
	defer front.Close()

	req, err := http.NewRequest(http.MethodPost, front.URL+"/api/metrics/metrics_data?debug=1", strings.NewReader(`{"input_smile":"CCO"}`))
	require.NoError(t, err)
	req.Header.Set("X-Test", "kept")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var got echo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/metrics/metrics_data", got.Path)
	assert.Equal(t, "debug=1", got.Query)
	assert.Equal(t, `{"input_smile":"CCO"}`, got.Body)
	assert.Equal(t, strings.TrimPrefix(backend.URL, "http://"), got.Host)
	assert.Equal(t, "kept", got.Header)
}

func TestGateway_TargetBasePath(t *testing.T) {
	backend := echoBackend(t)
	gw, err := New(Config{Target: backend.URL + "/v1", StripPrefix: "/api"})
	require.NoError(t, err)
	front := httptest.NewServer(gw)
	defer front.Close()

	resp, err := http.Get(front.URL + "/api/get_discorvery_results")
	require.NoError(t, err)
	defer resp.Body.Close()

	var got echo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "/v1/get_discorvery_results", got.Path)
}

func TestGateway_MethodNotAllowed(t *testing.T) {
	backend := echoBackend(t)
	gw, err := New(Config{Target: backend.URL, Methods: []string{"post"}})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	gw.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/drug_discovery", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "POST", w.Header().Get("Allow"))
	assert.JSONEq(t, `{"error":"Method Not Allowed"}`, w.Body.String())
}

func TestGateway_BackendDown(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	target := backend.URL
	backend.Close()

	gw, err := New(Config{Target: target})
	require.NoError(t, err)
	front := httptest.NewServer(gw)
	defer front.Close()

	resp, err := http.Post(front.URL+"/api/drug_discovery", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Proxy failed", body["error"])
	assert.NotEmpty(t, body["message"])
}

func TestRewritePath(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		in, want string
	}{
		{name: "strip", cfg: Config{StripPrefix: "/api"}, in: "/api/drug_discovery", want: "/drug_discovery"},
		{name: "strip exact", cfg: Config{StripPrefix: "/api"}, in: "/api", want: "/"},
		{name: "strip needs segment boundary", cfg: Config{StripPrefix: "/api"}, in: "/apis/x", want: "/apis/x"},
		{name: "keep prefix", cfg: Config{}, in: "/api/drug_discovery", want: "/api/drug_discovery"},
		{name: "strip and add", cfg: Config{StripPrefix: "/api/", AddPrefix: "/backend/"}, in: "/api/x", want: "/backend/x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.Target = "http://backend.internal"
			gw, err := New(cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, gw.RewritePath(tt.in))
		})
	}
}

func TestNew_InvalidTarget(t *testing.T) {
	for _, target := range []string{"", "backend:8000", "ftp://host", "://bad"} {
		_, err := New(Config{Target: target})
		require.Error(t, err, target)
		var cfgErr *ConfigError
		assert.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "target", cfgErr.Field)
	}
}
