package endpoint_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/ariebrainware/alert-board/endpoint"
	"github.com/ariebrainware/alert-board/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func login(t *testing.T, ts testServer, username, password string) *httpResult {
	t.Helper()
	rr := doJSON(t, ts.r, http.MethodPost, "/login", "", map[string]string{"username": username, "password": password})
	return &httpResult{code: rr.Code, resp: ParseAPIResp(t, rr), cookies: rr.Result().Cookies()}
}

type httpResult struct {
	code    int
	resp    apiResp
	cookies []*http.Cookie
}

func TestSignup(t *testing.T) {
	ts := SetupTestServer(t)

	rr := doJSON(t, ts.r, http.MethodPost, "/signup", "", map[string]string{
		"username": "  carol ", "email": "carol@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var data endpoint.SignupResponse
	require.NoError(t, json.Unmarshal(ParseAPIResp(t, rr).Data, &data))
	assert.Equal(t, "carol", data.Username)
	assert.NotZero(t, data.UserID)
	assert.NotZero(t, data.ProfileID)

	var stored model.User
	require.NoError(t, ts.db.First(&stored, data.UserID).Error)
	assert.NotEqual(t, "password123", stored.Password)
	assert.NotEmpty(t, stored.PasswordSalt)

	var profile model.Profile
	require.NoError(t, ts.db.Where("user_id = ?", data.UserID).First(&profile).Error)
	assert.Equal(t, data.ProfileID, profile.ID)
}

func TestSignup_Rejects(t *testing.T) {
	ts := SetupTestServer(t)
	CreateAndLoginUser(t, ts.r, SignupCreds{Username: "carol"})

	cases := []struct {
		name string
		body map[string]string
		msg  string
	}{
		{"duplicate username", map[string]string{"username": "carol", "password": "password123"}, "Username already exists"},
		{"short password", map[string]string{"username": "dan", "password": "short"}, "Invalid request payload"},
		{"missing username", map[string]string{"password": "password123"}, "Invalid request payload"},
		{"blank username", map[string]string{"username": "   ", "password": "password123"}, "Username cannot be blank"},
		{"bad email", map[string]string{"username": "dan", "email": "nope", "password": "password123"}, "Invalid request payload"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := doJSON(t, ts.r, http.MethodPost, "/signup", "", tc.body)
			require.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tc.msg, ParseAPIResp(t, rr).Msg)
		})
	}

	var count int64
	ts.db.Model(&model.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	ts := SetupTestServer(t)
	CreateAndLoginUser(t, ts.r, SignupCreds{Username: "carol"})

	res := login(t, ts, "carol", "password123")
	require.Equal(t, http.StatusOK, res.code)
	var data endpoint.LoginResponse
	require.NoError(t, json.Unmarshal(res.resp.Data, &data))
	assert.NotEmpty(t, data.Token)
	assert.Equal(t, "carol", data.Username)

	var cookie *http.Cookie
	for _, c := range res.cookies {
		if c.Name == "session_token" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, data.Token, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	var session model.Session
	require.NoError(t, ts.db.Where("session_token = ?", data.Token).First(&session).Error)
	assert.Equal(t, data.UserID, session.UserID)
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := SetupTestServer(t)
	CreateAndLoginUser(t, ts.r, SignupCreds{Username: "carol"})

	res := login(t, ts, "carol", "wrong-password")
	assert.Equal(t, http.StatusBadRequest, res.code)
	assert.Equal(t, "Invalid username or password", res.resp.Msg)

	res = login(t, ts, "nobody", "password123")
	assert.Equal(t, http.StatusBadRequest, res.code)
	assert.Equal(t, "Invalid username or password", res.resp.Msg)

	var user model.User
	require.NoError(t, ts.db.Where("username = ?", "carol").First(&user).Error)
	assert.Equal(t, 1, user.FailedAttempts)

	require.Equal(t, http.StatusOK, login(t, ts, "carol", "password123").code)
	require.NoError(t, ts.db.First(&user, user.ID).Error)
	assert.Zero(t, user.FailedAttempts)
}

func TestLogin_LockoutAfterRepeatedFailures(t *testing.T) {
	ts := SetupTestServer(t)
	CreateAndLoginUser(t, ts.r, SignupCreds{Username: "carol"})

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusBadRequest, login(t, ts, "carol", "wrong-password").code)
	}

	res := login(t, ts, "carol", "password123")
	assert.Equal(t, http.StatusBadRequest, res.code)
	assert.True(t, strings.HasPrefix(res.resp.Msg, "Account is locked until"), res.resp.Msg)

	var user model.User
	require.NoError(t, ts.db.Where("username = ?", "carol").First(&user).Error)
	require.NotNil(t, user.LockedUntil)
}

func TestLogout_InvalidatesToken(t *testing.T) {
	ts, token, _ := SetupServerWithUser(t)

	rr := doJSON(t, ts.r, http.MethodGet, "/api/alerts/", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, ts.r, http.MethodDelete, "/logout", token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doJSON(t, ts.r, http.MethodGet, "/api/alerts/", token, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	rr = doJSON(t, ts.r, http.MethodDelete, "/logout", token, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestValidateToken(t *testing.T) {
	ts, token, userID := SetupServerWithUser(t)

	rr := doJSON(t, ts.r, http.MethodGet, "/token/validate", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var info endpoint.TokenInfo
	require.NoError(t, json.Unmarshal(ParseAPIResp(t, rr).Data, &info))
	assert.Equal(t, userID, info.UserID)
	assert.Equal(t, "alice", info.Username)

	rr = doJSON(t, ts.r, http.MethodGet, "/token/validate", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	rr = doJSON(t, ts.r, http.MethodGet, "/token/validate", "bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCurrentUser(t *testing.T) {
	ts, token, userID := SetupServerWithUser(t)

	rr := doJSON(t, ts.r, http.MethodGet, "/user", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := ParseAPIResp(t, rr)
	var user map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Data, &user))
	assert.Equal(t, "alice", user["username"])
	assert.EqualValues(t, userID, user["ID"])
	assert.NotContains(t, user, "password")
}

func TestUpdateUser_Email(t *testing.T) {
	ts, token, _ := SetupServerWithUser(t)
	CreateAndLoginUser(t, ts.r, SignupCreds{Username: "bob", Email: "bob@example.com"})

	rr := doJSON(t, ts.r, http.MethodPatch, "/user", token, map[string]string{"email": "bob@example.com"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Email already exists", ParseAPIResp(t, rr).Msg)

	rr = doJSON(t, ts.r, http.MethodPatch, "/user", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, ts.r, http.MethodPatch, "/user", token, map[string]string{"email": "alice@new.example.com"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var stored model.User
	require.NoError(t, ts.db.Where("username = ?", "alice").First(&stored).Error)
	assert.Equal(t, "alice@new.example.com", stored.Email)
}

func TestUpdateUser_PasswordChangeEndsOtherSessions(t *testing.T) {
	ts, token, _ := SetupServerWithUser(t)

	other := login(t, ts, "alice", "password123")
	require.Equal(t, http.StatusOK, other.code)
	var otherData endpoint.LoginResponse
	require.NoError(t, json.Unmarshal(other.resp.Data, &otherData))

	rr := doJSON(t, ts.r, http.MethodPatch, "/user", token, map[string]string{"password": "new-password-1"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	assert.Equal(t, http.StatusOK, doJSON(t, ts.r, http.MethodGet, "/user", token, nil).Code)
	assert.Equal(t, http.StatusForbidden, doJSON(t, ts.r, http.MethodGet, "/user", otherData.Token, nil).Code)

	assert.Equal(t, http.StatusBadRequest, login(t, ts, "alice", "password123").code)
	assert.Equal(t, http.StatusOK, login(t, ts, "alice", "new-password-1").code)
}
