package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/voyago/travelbook/pkg/logger"
	"github.com/voyago/travelbook/services/gateway/internal/proxy"
)

// Forward returns a handler that relays the request to serviceProxy,
// preserving method, path, query, body, and the headers the filter has
// already stamped.
func Forward(serviceProxy *proxy.ServiceProxy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		headers := make(http.Header)
		for key, values := range r.Header {
			if shouldCopyHeader(key) {
				headers[key] = values
			}
		}

		path := r.URL.Path
		if r.URL.RawQuery != "" {
			path += "?" + r.URL.RawQuery
		}

		resp, err := serviceProxy.Do(r.Context(), r.Method, path, body, headers)
		if err != nil {
			logger.ErrorContext(r.Context(), "Service proxy error", "error", err, "path", path)
			http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
			return
		}
		defer resp.Body.Close()

		for key, values := range resp.Header {
			for _, value := range values {
				w.Header().Add(key, value)
			}
		}
		w.WriteHeader(resp.StatusCode)

		if _, err := io.Copy(w, resp.Body); err != nil {
			logger.ErrorContext(r.Context(), "Failed to copy response body", "error", err)
		}
	}
}

// Hop-by-hop headers stay on this side of the proxy.
var skipHeaders = map[string]bool{
	"host":                true,
	"connection":          true,
	"upgrade":             true,
	"proxy-connection":    true,
	"proxy-authenticate":  true,
	"proxy-authorization": true,
	"te":                  true,
	"trailers":            true,
	"transfer-encoding":   true,
}

func shouldCopyHeader(key string) bool {
	return !skipHeaders[strings.ToLower(key)]
}
