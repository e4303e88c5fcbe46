package middleware

import (
	"fmt"
	"time"

	"github.com/ariebrainware/alert-board/util"
	"github.com/gin-gonic/gin"
)

// EndpointCallLogger logs each HTTP request as an ENDPOINT_CALL security
// event. Persistence to security_logs depends on util.SetSecurityLoggerDB
// having been called during startup.
func EndpointCallLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		userID, _ := GetUserID(c)

		details := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"raw_path":    c.Request.URL.Path,
			"status":      status,
			"duration_ms": duration.Milliseconds(),
			"query":       c.Request.URL.RawQuery,
		}
		event := util.SecurityEvent{
			EventType: util.EventEndpointCall,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Message:   fmt.Sprintf("%s %s -> %d", c.Request.Method, c.Request.URL.Path, status),
			Details:   details,
		}
		if userID != 0 {
			details["user_id"] = userID
			event.UserID = fmt.Sprintf("%d", userID)
			event.Username = util.GetUsername(GetDB(c), userID)
		}

		util.LogSecurityEvent(event)
	}
}
