package chain

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"
)

// DefaultFilterRegistry returns a registry with the built-in filters:
// respond, deny, header, and proxy.
func DefaultFilterRegistry() *FilterRegistry {
	r := NewFilterRegistry()
	_ = r.Register("respond", newRespondFilter)
	_ = r.Register("deny", newDenyFilter)
	_ = r.Register("header", newHeaderFilter)
	_ = r.Register("proxy", newProxyFilter)
	return r
}

// newRespondFilter terminates the chain with a fixed response.
// Params: "status" (default 200), "body" (optional), "content-type"
// (optional).
func newRespondFilter(params map[string]string) (Filter, error) {
	status := http.StatusOK
	if raw, ok := params["status"]; ok {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 100 || parsed > 599 {
			return nil, fmt.Errorf("respond filter: invalid status %q", raw)
		}
		status = parsed
	}
	body := params["body"]
	contentType := params["content-type"]

	return FilterFunc(func(w http.ResponseWriter, r *http.Request, next Handler) error {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		if body != "" {
			if _, err := w.Write([]byte(body)); err != nil {
				return fmt.Errorf("respond filter: %w", err)
			}
		}
		return nil
	}), nil
}

// newDenyFilter rejects every request. Params: "status" (default 403).
func newDenyFilter(params map[string]string) (Filter, error) {
	status := http.StatusForbidden
	if raw, ok := params["status"]; ok {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 400 || parsed > 599 {
			return nil, fmt.Errorf("deny filter: invalid status %q", raw)
		}
		status = parsed
	}

	return FilterFunc(func(w http.ResponseWriter, r *http.Request, next Handler) error {
		http.Error(w, http.StatusText(status), status)
		return nil
	}), nil
}

// newHeaderFilter sets response headers and continues down the chain.
// Every param becomes one header; keys are used verbatim.
func newHeaderFilter(params map[string]string) (Filter, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("header filter: at least one header required")
	}
	headers := make(map[string]string, len(params))
	for k, v := range params {
		headers[k] = v
	}

	return FilterFunc(func(w http.ResponseWriter, r *http.Request, next Handler) error {
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		if next == nil {
			return nil
		}
		return next(w, r)
	}), nil
}

// newProxyFilter forwards the request to an upstream service and terminates
// the chain. Params: "target" (required, absolute URL), "strip-prefix"
// (optional path prefix removed before forwarding).
func newProxyFilter(params map[string]string) (Filter, error) {
	raw, ok := params["target"]
	if !ok || raw == "" {
		return nil, fmt.Errorf("proxy filter: target is required")
	}
	target, err := url.Parse(raw)
	if err != nil || !target.IsAbs() {
		return nil, fmt.Errorf("proxy filter: invalid target %q", raw)
	}
	strip := params["strip-prefix"]

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
	}

	return FilterFunc(func(w http.ResponseWriter, r *http.Request, next Handler) error {
		if strip != "" {
			r = r.Clone(r.Context())
			r.URL.Path = "/" + strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, strip), "/")
		}
		proxy.ServeHTTP(w, r)
		return nil
	}), nil
}
