// Package proxy forwards the browser's /api calls to the catalog API so the
// UI can be served from one origin.
package proxy

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewReverseProxy proxies to target, stripping prefixToStrip from the incoming
// path and joining the rest onto the target's own path. The caller's
// Authorization header is dropped; token, when set, is sent instead.
func NewReverseProxy(target, prefixToStrip, token string, log *logrus.Logger) (*httputil.ReverseProxy, error) {
	targetURL, err := url.Parse(target)
	if err != nil {
		log.Errorf("Failed to parse target URL '%s': %v", target, err)
		return nil, fmt.Errorf("invalid target URL: %w", err)
	}
	if targetURL.Scheme == "" || targetURL.Host == "" {
		return nil, fmt.Errorf("invalid target URL %q: scheme and host are required", target)
	}

	proxy := httputil.NewSingleHostReverseProxy(targetURL)

	originalDirector := proxy.Director
	proxy.Director = func(req *http.Request) {
		if prefixToStrip != "" && strings.HasPrefix(req.URL.Path, prefixToStrip) {
			req.URL.Path = ensureLeadingSlash(strings.TrimPrefix(req.URL.Path, prefixToStrip))
			if req.URL.RawPath != "" {
				req.URL.RawPath = ensureLeadingSlash(strings.TrimPrefix(req.URL.RawPath, prefixToStrip))
			}
			log.Debugf("Proxy Director: Stripped prefix '%s'. New path: %s", prefixToStrip, req.URL.Path)
		}

		originalDirector(req)

		req.Host = targetURL.Host
		req.Header.Del("Authorization")
		req.Header.Del("Cookie")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		log.Debugf("Proxy Director: Final request URL being sent: %s", req.URL.String())
	}

	proxy.ErrorHandler = func(rw http.ResponseWriter, req *http.Request, err error) {
		log.Errorf("Reverse proxy error to target '%s' for path '%s': %v", target, req.URL.Path, err)
		http.Error(rw, "Bad Gateway", http.StatusBadGateway)
	}

	log.Infof("Reverse proxy created for target: %s (will strip prefix: '%s')", target, prefixToStrip)
	return proxy, nil
}

func ensureLeadingSlash(p string) string {
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}

func ProxyHandler(p *httputil.ReverseProxy, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log.Debugf("ProxyHandler: Forwarding %s %s", c.Request.Method, c.Request.URL.Path)
		p.ServeHTTP(c.Writer, c.Request)
	}
}
