package endpoint

import (
	"time"

	"github.com/ariebrainware/alert-board/middleware"
	"github.com/ariebrainware/alert-board/model"
	"github.com/ariebrainware/alert-board/util"
	"github.com/gin-gonic/gin"
)

// TokenInfo describes a live session.
type TokenInfo struct {
	UserID    uint      `json:"user_id" example:"1"`
	Username  string    `json:"username" example:"alice"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ValidateToken godoc
// @Summary      Validate session token
// @Description  Check that the session token is known and not expired
// @Tags         Authentication
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=TokenInfo} "Valid session token"
// @Failure      401 {object} util.APIResponse "Invalid or expired session token"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /token/validate [get]
func ValidateToken(c *gin.Context) {
	token := middleware.SessionTokenFrom(c)
	if token == "" {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Invalid session token", Err: errInvalidCredentials})
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	session, err := model.FindActiveSession(db.WithContext(c.Request.Context()), token, time.Now())
	if err != nil {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Session not found", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Valid session token",
		Data: TokenInfo{
			UserID:    session.UserID,
			Username:  util.GetUsername(db, session.UserID),
			ExpiresAt: session.ExpiresAt,
		},
	})
}
