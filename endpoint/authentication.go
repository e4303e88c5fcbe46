package endpoint

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ariebrainware/alert-board/middleware"
	"github.com/ariebrainware/alert-board/model"
	"github.com/ariebrainware/alert-board/util"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	sessionTTL       = 24 * time.Hour
	maxLoginFailures = 5
	lockoutDuration  = 15 * time.Minute
)

var (
	errInvalidCredentials = errors.New("invalid username or password")
	errAccountLocked      = errors.New("account locked")
)

type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required" example:"alice"`
	Password string `json:"password" form:"password" binding:"required" example:"password123"`
}

type LoginResponse struct {
	Token     string    `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	UserID    uint      `json:"user_id" example:"1"`
	Username  string    `json:"username" example:"alice"`
	ExpiresAt time.Time `json:"expires_at"`
}

// lockedError carries the time a locked account opens again.
type lockedError struct {
	Until time.Time
}

func (e *lockedError) Error() string {
	return fmt.Sprintf("Account is locked until %s due to multiple failed login attempts", e.Until.Format(time.RFC3339))
}

func (e *lockedError) Is(target error) bool { return target == errAccountLocked }

// Login godoc
// @Summary      User login
// @Description  Authenticate with username and password; the token is also set as the session_token cookie
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} util.APIResponse{data=LoginResponse} "Login successful"
// @Failure      400 {object} util.APIResponse "Invalid credentials or locked account"
// @Failure      429 {object} util.APIResponse "Too many attempts"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /login [post]
func Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	ci := clientInfoFrom(c)
	user, err := authenticate(db, req.Username, req.Password, ci)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	session, err := issueSession(c, db, user, ci)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to record session", Err: err})
		return
	}
	setSessionCookie(c, session)

	util.LogLoginSuccess(util.LoginParams{UserID: user.ID, Username: user.Username, IP: ci.IP, UserAgent: ci.Agent})
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Login successful",
		Data: LoginResponse{Token: session.SessionToken, UserID: user.ID, Username: user.Username, ExpiresAt: session.ExpiresAt},
	})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errAccountLocked):
		util.CallUserError(c, util.APIErrorParams{Msg: err.Error(), Err: errAccountLocked})
	case errors.Is(err, errInvalidCredentials):
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid username or password", Err: err})
	default:
		util.CallServerError(c, util.APIErrorParams{Msg: "Database error", Err: err})
	}
}

// authenticate checks the credentials and maintains the failed-attempt
// counter. After maxLoginFailures the account is locked for lockoutDuration.
func authenticate(db *gorm.DB, username, password string, ci clientInfo) (model.User, error) {
	username = strings.TrimSpace(username)
	fail := func(reason string) {
		util.LogLoginFailure(util.LoginParams{Username: username, IP: ci.IP, UserAgent: ci.Agent, Reason: reason})
	}

	var user model.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail("user not found")
			return model.User{}, errInvalidCredentials
		}
		fail("database error")
		return model.User{}, err
	}

	if user.LockedUntil != nil && *user.LockedUntil > time.Now().Unix() {
		fail("account locked")
		return model.User{}, &lockedError{Until: time.Unix(*user.LockedUntil, 0)}
	}

	if !util.VerifyPassword(password, user.Password, user.PasswordSalt) {
		incrementFailedAttempts(db, &user, ci)
		fail("invalid password")
		return model.User{}, errInvalidCredentials
	}

	if user.FailedAttempts > 0 || user.LockedUntil != nil {
		user.FailedAttempts = 0
		user.LockedUntil = nil
		if err := db.Model(&user).Select("FailedAttempts", "LockedUntil").Updates(&user).Error; err != nil {
			return model.User{}, err
		}
	}
	return user, nil
}

func incrementFailedAttempts(db *gorm.DB, user *model.User, ci clientInfo) {
	user.FailedAttempts++
	if user.FailedAttempts >= maxLoginFailures {
		lockUntil := time.Now().Add(lockoutDuration).Unix()
		user.LockedUntil = &lockUntil
		util.LogAccountLocked(util.AccountLockParams{UserID: user.ID, Username: user.Username, IP: ci.IP, Reason: "too many failed login attempts"})
	}
	if err := db.Model(user).Select("FailedAttempts", "LockedUntil").Updates(user).Error; err != nil {
		util.LogLoginFailure(util.LoginParams{UserID: user.ID, Username: user.Username, IP: ci.IP, UserAgent: ci.Agent, Reason: "failed to update failed attempts"})
	}
}

func createJWTToken(user model.User, expires time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   strconv.FormatUint(uint64(user.ID), 10),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	return token.SignedString(util.GetJWTSecretByte())
}

// issueSession signs a token, records it in the sessions table and caches
// it in Redis when available.
func issueSession(c *gin.Context, db *gorm.DB, user model.User, ci clientInfo) (model.Session, error) {
	expires := time.Now().Add(sessionTTL)
	token, err := createJWTToken(user, expires)
	if err != nil {
		return model.Session{}, err
	}
	session := model.Session{
		UserID:       user.ID,
		SessionToken: token,
		ExpiresAt:    expires,
		ClientIP:     ci.IP,
		Browser:      ci.Agent,
	}
	if err := db.Create(&session).Error; err != nil {
		return model.Session{}, err
	}
	if err := util.CacheSession(c.Request.Context(), token, user.ID, sessionTTL); err != nil {
		util.LogSecurityEvent(util.SecurityEvent{
			EventType: util.EventLoginSuccess,
			UserID:    strconv.FormatUint(uint64(user.ID), 10),
			Username:  user.Username,
			IP:        ci.IP,
			Message:   fmt.Sprintf("Failed to cache session: %v", err),
		})
	}
	util.UsernameCacheSet(user.ID, user.Username)
	return session, nil
}

func setSessionCookie(c *gin.Context, session model.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, session.SessionToken, int(time.Until(session.ExpiresAt).Seconds()), "/", "", c.Request.TLS != nil, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", c.Request.TLS != nil, true)
}

// endSession deletes the session row and its Redis entries.
func endSession(c *gin.Context, db *gorm.DB, token string) (model.Session, error) {
	var session model.Session
	if err := db.Where("session_token = ?", token).First(&session).Error; err != nil {
		return model.Session{}, err
	}
	if err := db.Delete(&session).Error; err != nil {
		return model.Session{}, err
	}
	_ = util.ForgetSession(c.Request.Context(), session.UserID, token)
	return session, nil
}

// Logout godoc
// @Summary      User logout
// @Description  Invalidate the current session token
// @Tags         Authentication
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse "Logout successful"
// @Failure      403 {object} util.APIResponse "Authentication required"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /logout [delete]
func Logout(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	token := c.GetString(middleware.SessionTokenKey)
	session, err := endSession(c, db, token)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete session", Err: err})
		return
	}
	clearSessionCookie(c)

	util.LogLogout(util.LoginParams{
		UserID:    session.UserID,
		Username:  util.GetUsername(db, session.UserID),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Logout successful"})
}

type SignupRequest struct {
	Username string `json:"username" binding:"required,max=150" example:"alice"`
	Email    string `json:"email" binding:"omitempty,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"password123"`
}

type SignupResponse struct {
	UserID    uint   `json:"user_id" example:"1"`
	Username  string `json:"username" example:"alice"`
	ProfileID uint   `json:"profile_id" example:"1"`
}

func ensureUsernameAvailable(c *gin.Context, db *gorm.DB, username string) bool {
	var existing model.User
	err := db.First(&existing, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true
	}
	if err == nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Username already exists", Err: fmt.Errorf("username already exists")})
		return false
	}
	util.CallServerError(c, util.APIErrorParams{Msg: "Database error", Err: err})
	return false
}

func hashPasswordForSignup(c *gin.Context, plain string) (string, string, bool) {
	salt, err := util.GenerateSalt()
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to generate password salt", Err: err})
		return "", "", false
	}
	return util.HashPasswordArgon2(plain, salt), salt, true
}

// Signup godoc
// @Summary      User signup
// @Description  Register a new account together with its profile
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Signup details"
// @Success      201 {object} util.APIResponse{data=SignupResponse} "Signup successful"
// @Failure      400 {object} util.APIResponse "Invalid request or username already exists"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /signup [post]
func Signup(c *gin.Context) {
	var req SignupRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		util.CallUserError(c, util.APIErrorParams{Msg: "Username cannot be blank", Err: fmt.Errorf("blank username")})
		return
	}
	if !ensureUsernameAvailable(c, db, username) {
		return
	}
	hashed, salt, ok := hashPasswordForSignup(c, req.Password)
	if !ok {
		return
	}

	user := model.User{Username: username, Email: req.Email, Password: hashed, PasswordSalt: salt}
	profile, err := model.CreateUserWithProfile(db, &user)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create new user", Err: err})
		return
	}

	util.LogSignup(util.LoginParams{UserID: user.ID, Username: user.Username, IP: c.ClientIP(), UserAgent: c.Request.UserAgent()})
	util.CallSuccessCreated(c, util.APISuccessParams{
		Msg:  "Signup successful",
		Data: SignupResponse{UserID: user.ID, Username: user.Username, ProfileID: profile.ID},
	})
}
