package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"os"

	"github.com/ariebrainware/alert-board/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	// DBKey holds the *gorm.DB in the gin context.
	DBKey = "db"
	// UserIDKey holds the authenticated user's ID (uint) in the gin context.
	UserIDKey = "user_id"
	// SessionTokenKey holds the raw session token of an authenticated request.
	SessionTokenKey = "session_token"

	// SessionTokenHeader carries the session token for API clients.
	SessionTokenHeader = "session-token"
	// SessionCookie carries the session token for browsers.
	SessionCookie = "session_token"
)

func setCorsHeaders(c *gin.Context) {
	h := c.Writer.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE, PATCH")
	h.Set("Access-Control-Allow-Headers", "X-Requested-With, Content-Type, Authorization, session-token")
	h.Set("Access-Control-Max-Age", "86400")
	h.Set("Access-Control-Allow-Credentials", "true")
}

// CORSMiddleware configures CORS headers for incoming requests.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		setCorsHeaders(c)

		// For preflight requests, respond with 204 and abort further processing.
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// DatabaseMiddleware makes db available to handlers through GetDB.
func DatabaseMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(DBKey, db)
		c.Next()
	}
}

// GetDB returns the request's database handle, or nil when none was injected.
func GetDB(c *gin.Context) *gorm.DB {
	v, ok := c.Get(DBKey)
	if !ok {
		return nil
	}
	db, _ := v.(*gorm.DB)
	return db
}

// GetUserID returns the authenticated user's ID.
func GetUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// SessionTokenFrom reads the session token from the header, then the cookie.
func SessionTokenFrom(c *gin.Context) string {
	if tok := c.GetHeader(SessionTokenHeader); tok != "" {
		return tok
	}
	if tok, err := c.Cookie(SessionCookie); err == nil {
		return tok
	}
	return ""
}

// tokenValidator accepts OPTIONS requests and requests whose Authorization
// header equals expected. Anything else is answered with 401.
func tokenValidator(c *gin.Context, expected string) bool {
	if c.Request.Method == http.MethodOptions {
		return true
	}
	got := c.GetHeader("Authorization")
	if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) == 1 {
		return true
	}
	util.CallUserNotAuthorized(c, util.APIErrorParams{
		Msg: "Invalid or missing API token",
		Err: errors.New("unauthorized"),
	})
	return false
}

// RequireBearerToken protects operational endpoints with a static bearer
// token read from envKey. An empty variable denies every request, except
// under APPENV=test where the route is left open.
func RequireBearerToken(envKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := os.Getenv(envKey)
		if secret == "" {
			if os.Getenv("APPENV") == "test" {
				c.Next()
				return
			}
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: envKey + " is not configured",
				Err: errors.New("bearer token not configured"),
			})
			return
		}
		if !tokenValidator(c, "Bearer "+secret) {
			return
		}
		c.Next()
	}
}
