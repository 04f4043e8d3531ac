// Package gateway forwards browser API calls to the compute backend. One
// configured instance replaces the per-environment proxy functions: a target
// base URL plus a path rewrite rule.
package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"slices"
	"strings"

	"github.com/rs/zerolog"
)

// Config describes where and how requests are forwarded.
type Config struct {
	Target      string   // backend base URL, e.g. https://api.example.com
	StripPrefix string   // removed from the inbound path when present, e.g. /api
	AddPrefix   string   // prepended after stripping
	Methods     []string // allowed methods; empty allows all
}

// ConfigError represents an unusable gateway configuration.
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("gateway config error in %s: %s: %v", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("gateway config error in %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Gateway is an http.Handler forwarding to the configured target.
type Gateway struct {
	cfg    Config
	target *url.URL
	proxy  *httputil.ReverseProxy
}

// New validates cfg and builds a Gateway.
func New(cfg Config) (*Gateway, error) {
	target, err := url.Parse(cfg.Target)
	if err != nil {
		return nil, &ConfigError{Field: "target", Message: "invalid URL", Cause: err}
	}
	if target.Scheme != "http" && target.Scheme != "https" || target.Host == "" {
		return nil, &ConfigError{Field: "target", Message: fmt.Sprintf("not an absolute http(s) URL: %q", cfg.Target)}
	}
	methods := make([]string, 0, len(cfg.Methods))
	for _, m := range cfg.Methods {
		methods = append(methods, strings.ToUpper(m))
	}
	cfg.Methods = methods

	g := &Gateway{cfg: cfg, target: target}
	g.proxy = &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.Out.URL.Path = g.RewritePath(pr.In.URL.Path)
			pr.Out.URL.RawPath = ""
			pr.SetURL(g.target)
			pr.SetXForwarded()
		},
		ErrorHandler: g.handleError,
	}
	return g, nil
}

// RewritePath maps an inbound path to the backend path.
func (g *Gateway) RewritePath(path string) string {
	if g.cfg.StripPrefix != "" {
		prefix := strings.TrimSuffix(g.cfg.StripPrefix, "/")
		if path == prefix {
			path = "/"
		} else if strings.HasPrefix(path, prefix+"/") {
			path = strings.TrimPrefix(path, prefix)
		}
	}
	if g.cfg.AddPrefix != "" {
		path = strings.TrimSuffix(g.cfg.AddPrefix, "/") + path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// ServeHTTP forwards the request, rejecting methods not configured.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if len(g.cfg.Methods) > 0 && !slices.Contains(g.cfg.Methods, r.Method) {
		w.Header().Set("Allow", strings.Join(g.cfg.Methods, ", "))
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method Not Allowed"})
		return
	}
	g.proxy.ServeHTTP(w, r)
}

func (g *Gateway) handleError(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).
		Str("target", g.target.String()).
		Str("path", r.URL.Path).
		Msg("Proxy request failed")
	writeJSON(w, http.StatusBadGateway, map[string]string{
		"error":   "Proxy failed",
		"message": err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
