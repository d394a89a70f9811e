package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/devconnector/internal/auth"
)

// TokenHeader carries the raw token, no scheme prefix.
const TokenHeader = "x-auth-token"

const (
	msgNoToken      = "No token, authorization denied"
	msgInvalidToken = "Token is not valid"
)

type TokenDecoder interface {
	Decode(raw string) (auth.Identity, error)
}

// TokenAuth rejects requests without a valid token and stores the caller id
// under "user_id" for the handlers.
func TokenAuth(codec TokenDecoder, l *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(TokenHeader))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": msgNoToken})
			return
		}

		id, err := codec.Decode(raw)
		if err != nil {
			kind := "invalid"
			if errors.Is(err, auth.ErrMalformedToken) {
				kind = "malformed"
			}
			l.WithFields(logrus.Fields{
				"path": c.FullPath(),
				"ip":   c.ClientIP(),
				"kind": kind,
			}).WithError(err).Warn("token rejected")

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": msgInvalidToken})
			return
		}

		c.Set("user_id", id.ID)
		c.Next()
	}
}
