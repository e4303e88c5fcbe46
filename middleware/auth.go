package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/ariebrainware/alert-board/model"
	"github.com/ariebrainware/alert-board/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LoginURL is where anonymous browsers are sent.
const LoginURL = "/accounts/login/"

var (
	errNoSession      = errors.New("authentication credentials were not provided")
	errInvalidSession = errors.New("session is invalid or expired")
	errNoDatabase     = errors.New("database not available")
)

// resolveSession maps the request's session token to a user ID, using the
// Redis session cache first and the sessions table as fallback.
func resolveSession(c *gin.Context) (uint, string, error) {
	token := SessionTokenFrom(c)
	if token == "" {
		return 0, "", errNoSession
	}
	db := GetDB(c)
	if db == nil {
		return 0, token, errNoDatabase
	}
	if uid, ok := util.CachedSessionUser(c.Request.Context(), token); ok {
		return uid, token, nil
	}
	s, err := model.FindActiveSession(db.WithContext(c.Request.Context()), token, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, token, errInvalidSession
		}
		return 0, token, err
	}
	return s.UserID, token, nil
}

// ValidateLoginToken authenticates API requests. Anonymous or expired
// sessions get 403 with the JSON envelope.
func ValidateLoginToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, token, err := resolveSession(c)
		switch {
		case errors.Is(err, errNoDatabase):
			util.CallServerError(c, util.APIErrorParams{Msg: "Database connection not available", Err: err})
			return
		case errors.Is(err, errNoSession), errors.Is(err, errInvalidSession):
			util.LogUnauthorizedAccess(util.UnauthorizedAccessParams{
				IP:       c.ClientIP(),
				Resource: c.Request.URL.Path,
				Reason:   err.Error(),
			})
			util.CallForbidden(c, util.APIErrorParams{Msg: "Authentication required", Err: err})
			return
		case err != nil:
			util.CallServerError(c, util.APIErrorParams{Msg: "Failed to validate session", Err: err})
			return
		}
		c.Set(UserIDKey, uid)
		c.Set(SessionTokenKey, token)
		c.Next()
	}
}

// RequireWebLogin authenticates page requests from the session cookie.
// Anonymous visitors are redirected to the login form with ?next= set.
func RequireWebLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, token, err := resolveSession(c)
		if err != nil {
			if errors.Is(err, errNoDatabase) {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Redirect(http.StatusFound, LoginURL+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Set(UserIDKey, uid)
		c.Set(SessionTokenKey, token)
		c.Next()
	}
}
