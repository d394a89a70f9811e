package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/devconnector/internal/utils"
)

const RequestIDHeader = "X-Request-Id"

// quietPaths are only logged when they fail.
var quietPaths = map[string]bool{"/ping": true}

// RequestLogger logs one entry per request. Errors attached with c.Error are
// reported with the AppError code and operation of the last one.
func RequestLogger(l *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(RequestIDHeader, reqID)
		c.Set("request_id", reqID)

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if quietPaths[route] && status < http.StatusBadRequest {
			return
		}

		fields := logrus.Fields{
			"request_id": reqID,
			"method":     c.Request.Method,
			"route":      route,
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"bytes":      c.Writer.Size(),
			"ip":         c.ClientIP(),
		}
		if route == "" {
			fields["route"] = "unmatched"
			fields["path"] = c.Request.URL.Path
		}
		if userID := c.GetString("user_id"); userID != "" {
			fields["user_id"] = userID
		}

		var last error
		if len(c.Errors) > 0 {
			last = c.Errors.Last().Err
			fields["errors"] = c.Errors.String()
			var ae *utils.AppError
			if errors.As(last, &ae) {
				fields["code"] = ae.Code
				fields["op"] = ae.Op
			}
		}

		entry := l.WithFields(fields)
		if last != nil {
			entry = entry.WithError(last)
		}
		level, msg := levelFor(status, last)
		entry.Log(level, msg)
	}
}

// levelFor maps the outcome to a level. Validation failures log at info.
func levelFor(status int, err error) (logrus.Level, string) {
	switch {
	case status >= http.StatusInternalServerError:
		return logrus.ErrorLevel, "request failed"
	case utils.IsCode(err, utils.CodeInvalidArgument):
		return logrus.InfoLevel, "request rejected"
	case status >= http.StatusBadRequest:
		return logrus.WarnLevel, "request rejected"
	default:
		return logrus.InfoLevel, "request"
	}
}
