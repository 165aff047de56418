package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger writes one entry per finished request. The level follows the
// outcome; requests to quietPaths (health checks) are logged at Debug
// unless they fail.
func RequestLogger(logger *logrus.Logger, quietPaths ...string) gin.HandlerFunc {
	quiet := make(map[string]struct{}, len(quietPaths))
	for _, p := range quietPaths {
		quiet[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		fields := logrus.Fields{
			"method":     c.Request.Method,
			"route":      route,
			"path":       c.Request.URL.Path,
			"status":     status,
			"bytes":      c.Writer.Size(),
			"latency_ms": time.Since(start).Milliseconds(),
			"remote_ip":  c.ClientIP(),
		}
		if reqID := GetRequestID(c); reqID != "" {
			fields["request_id"] = reqID
		}
		if user := c.GetString(CtxKeyAdminUser); user != "" {
			fields["admin_user"] = user
		}
		if status == http.StatusSeeOther || status == http.StatusFound {
			fields["location"] = c.Writer.Header().Get("Location")
		}
		entry := logger.WithFields(fields)
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		_, isQuiet := quiet[c.Request.URL.Path]
		switch {
		case status >= http.StatusInternalServerError || len(c.Errors) > 0:
			entry.Error("Request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("Request rejected")
		case isQuiet:
			entry.Debug("Request served")
		default:
			entry.Info("Request served")
		}
	}
}
