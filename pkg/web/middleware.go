package web

import (
	"github.com/gin-gonic/gin"

	"github.com/gnana997/appportal/pkg/accesslog"
)

// logRequests logs every request at debug level and appends it to the
// access log when one is configured.
func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := accesslog.Now()
		c.Next()

		status := c.Writer.Status()
		size := c.Writer.Size()
		if size < 0 {
			size = 0
		}
		sessionID := c.GetString(sessionContextKey)
		if sessionID == "" {
			sessionID, _ = c.Cookie(SessionCookie)
		}

		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"bytes", size,
			"session", sessionID,
		)

		var params map[string]any
		if q := c.Request.URL.Query(); len(q) > 0 {
			params = make(map[string]any, len(q))
			for k := range q {
				params[k] = q.Get(k)
			}
		}
		var err error
		if last := c.Errors.Last(); last != nil {
			err = last
		}
		s.access.RecordSession(sessionID, accesslog.KindHTTP, c.Request.Method+" "+c.Request.URL.Path, start, params, status, size, err)
	}
}
