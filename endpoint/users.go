package endpoint

import (
	"errors"
	"fmt"
	"time"

	"github.com/ariebrainware/alert-board/middleware"
	"github.com/ariebrainware/alert-board/model"
	"github.com/ariebrainware/alert-board/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrUserEmailAlreadyExists is returned when another account uses the email.
var ErrUserEmailAlreadyExists = errors.New("email already exists")

type UpdateUserRequest struct {
	Email    string `json:"email" binding:"omitempty,email" example:"alice@example.com"`
	Password string `json:"password" binding:"omitempty,min=8" example:"newpassword123"`
}

func emailExists(db *gorm.DB, email string, excludeID uint) (bool, error) {
	var count int64
	if err := db.Model(&model.User{}).Where("email = ? AND id != ?", email, excludeID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// updateUserFields applies req to user and reports whether the password changed.
func updateUserFields(db *gorm.DB, user *model.User, req UpdateUserRequest) (bool, error) {
	if req.Email != "" && req.Email != user.Email {
		exists, err := emailExists(db, req.Email, user.ID)
		if err != nil {
			return false, fmt.Errorf("failed to validate email uniqueness: %w", err)
		}
		if exists {
			return false, ErrUserEmailAlreadyExists
		}
		user.Email = req.Email
	}
	if req.Password == "" {
		return false, nil
	}
	salt, err := util.GenerateSalt()
	if err != nil {
		return false, fmt.Errorf("failed to generate password salt: %w", err)
	}
	user.Password = util.HashPasswordArgon2(req.Password, salt)
	user.PasswordSalt = salt
	return true, nil
}

// invalidateOtherSessions logs the user out everywhere except keep.
func invalidateOtherSessions(c *gin.Context, db *gorm.DB, userID uint, keep string) {
	_ = db.Where("user_id = ? AND session_token <> ?", userID, keep).Delete(&model.Session{}).Error
	_ = util.InvalidateUserSessions(c.Request.Context(), userID)
	if keep != "" {
		var current model.Session
		if err := db.Where("session_token = ?", keep).First(&current).Error; err == nil {
			_ = util.CacheSession(c.Request.Context(), keep, userID, time.Until(current.ExpiresAt))
		}
	}
}

func currentUserOrRespond(c *gin.Context, db *gorm.DB) (model.User, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		util.CallForbidden(c, util.APIErrorParams{Msg: "Authentication required", Err: fmt.Errorf("user id not found in context")})
		return model.User{}, false
	}
	var user model.User
	if err := db.First(&user, userID).Error; err != nil {
		respondLookupError(c, "User", err)
		return model.User{}, false
	}
	return user, true
}

// GetCurrentUser godoc
// @Summary      Current user
// @Tags         Authentication
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=model.User} "User retrieved"
// @Failure      403 {object} util.APIResponse "Authentication required"
// @Router       /user [get]
func GetCurrentUser(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	user, ok := currentUserOrRespond(c, db)
	if !ok {
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "User retrieved", Data: user})
}

// UpdateUser godoc
// @Summary      Update current user
// @Description  Change email and/or password. A password change ends every other session.
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body UpdateUserRequest true "Update details"
// @Success      200 {object} util.APIResponse{data=model.User} "Update successful"
// @Failure      400 {object} util.APIResponse "Invalid request or email already exists"
// @Failure      403 {object} util.APIResponse "Authentication required"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /user [patch]
func UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	if req.Email == "" && req.Password == "" {
		util.CallUserError(c, util.APIErrorParams{Msg: "At least one field must be provided", Err: fmt.Errorf("empty update")})
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	user, ok := currentUserOrRespond(c, db)
	if !ok {
		return
	}

	passwordChanged, err := updateUserFields(db, &user, req)
	if err != nil {
		if errors.Is(err, ErrUserEmailAlreadyExists) {
			util.CallUserError(c, util.APIErrorParams{Msg: "Email already exists", Err: err})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update user fields", Err: err})
		return
	}
	if err := db.Save(&user).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update user", Err: err})
		return
	}
	if passwordChanged {
		invalidateOtherSessions(c, db, user.ID, c.GetString(middleware.SessionTokenKey))
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "User updated successfully", Data: user})
}
