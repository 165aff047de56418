package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const CtxKeyAdminUser = "adminUser"

// AdminAuth guards the manager UI with HTTP basic auth. It is only mounted
// when both credentials are configured.
func AdminAuth(user, password string, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		gotUser, gotPassword, ok := c.Request.BasicAuth()
		if !ok {
			log.Warn("Middleware: Authorization header is missing")
			unauthorized(c)
			return
		}

		userOK := subtle.ConstantTimeCompare([]byte(gotUser), []byte(user)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(gotPassword), []byte(password)) == 1
		if !userOK || !passOK {
			log.Warnf("Middleware: Invalid credentials for user '%s'", gotUser)
			unauthorized(c)
			return
		}

		c.Set(CtxKeyAdminUser, gotUser)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", `Basic realm="product manager", charset="UTF-8"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
}
