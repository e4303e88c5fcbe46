package endpoint_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/ariebrainware/alert-board/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPages_AnonymousRedirectsToLogin(t *testing.T) {
	ts := SetupTestServer(t)

	for _, path := range []string{"/alerts/", "/alerts/1/", "/locations/", "/locations/1/"} {
		rr := getPage(ts.r, path, "")
		require.Equal(t, http.StatusFound, rr.Code, path)
		assert.Equal(t, "/accounts/login/?next="+url.QueryEscape(path), rr.Header().Get("Location"))
	}

	rr := getPage(ts.r, "/", "")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/alerts/", rr.Header().Get("Location"))
}

func TestLoginPage_Renders(t *testing.T) {
	ts := SetupTestServer(t)

	rr := getPage(ts.r, "/accounts/login/?next=/locations/", "")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `name="username"`)
	assert.Contains(t, body, `value="/locations/"`)

	rr = getPage(ts.r, "/accounts/login/?next=https://evil.example.com/", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `value="/alerts/"`)
}

func TestLoginSubmit(t *testing.T) {
	ts := SetupTestServer(t)
	CreateAndLoginUser(t, ts.r, SignupCreds{Username: "carol"})

	t.Run("bad credentials re-render the form", func(t *testing.T) {
		rr := postForm(ts.r, "/accounts/login/", url.Values{"username": {"carol"}, "password": {"nope-nope"}, "next": {"/locations/"}}, "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Please enter a correct username and password.")
		assert.Contains(t, rr.Body.String(), `value="carol"`)
		assert.Empty(t, rr.Result().Cookies())
	})

	t.Run("missing fields re-render the form", func(t *testing.T) {
		rr := postForm(ts.r, "/accounts/login/", url.Values{"username": {"carol"}}, "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Please enter a username and password.")
	})

	t.Run("success redirects to next with a cookie", func(t *testing.T) {
		rr := postForm(ts.r, "/accounts/login/", url.Values{"username": {"carol"}, "password": {"password123"}, "next": {"/locations/"}}, "")
		require.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/locations/", rr.Header().Get("Location"))

		var cookie *http.Cookie
		for _, c := range rr.Result().Cookies() {
			if c.Name == "session_token" {
				cookie = c
			}
		}
		require.NotNil(t, cookie)
		assert.Equal(t, http.StatusOK, getPage(ts.r, "/locations/", cookie.Value).Code)
	})

	t.Run("offsite next falls back to alerts", func(t *testing.T) {
		rr := postForm(ts.r, "/accounts/login/", url.Values{"username": {"carol"}, "password": {"password123"}, "next": {"//evil.example.com"}}, "")
		require.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/alerts/", rr.Header().Get("Location"))
	})
}

func TestAlertsPage(t *testing.T) {
	ts, token, _ := SetupServerWithUser(t)
	paris := seedLocation(t, ts.db, "Paris", nil, nil)
	for i := 0; i < 12; i++ {
		seedAlert(t, ts.db, fmt.Sprintf("alert-%02d", i), model.SeverityWarning, true, 100-i, &paris)
	}
	seedAlert(t, ts.db, "<b>escaped</b>", model.SeverityError, false, 0)

	rr := getPage(ts.r, "/alerts/", token)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "&lt;b&gt;escaped&lt;/b&gt;")
	assert.Contains(t, body, "alert-11")
	assert.NotContains(t, body, "alert-02")
	assert.Contains(t, body, "Paris")
	assert.Contains(t, body, "?page=2")
	assert.Contains(t, body, "alice")

	rr = getPage(ts.r, "/alerts/?page=2", token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "alert-00")

	rr = getPage(ts.r, "/alerts/?page=9", token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid page.")
}

func TestAlertDetailPage(t *testing.T) {
	ts, token, _ := SetupServerWithUser(t)
	oslo := seedLocation(t, ts.db, "Oslo", nil, nil)
	a := seedAlert(t, ts.db, "Avalanche risk", model.SeverityError, true, 1, &oslo)

	rr := getPage(ts.r, fmt.Sprintf("/alerts/%d/", a.ID), token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Avalanche risk")
	assert.Contains(t, rr.Body.String(), "Oslo")

	rr = getPage(ts.r, "/alerts/999/", token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "No alert found matching the query.")
}

func TestLocationPages(t *testing.T) {
	ts, token, _ := SetupServerWithUser(t)
	oslo := seedLocation(t, ts.db, "Oslo", fptr(59.9139), fptr(10.7522))
	seedLocation(t, ts.db, "Bergen", nil, nil)
	seedAlert(t, ts.db, "Icy roads", model.SeverityWarning, true, 1, &oslo)

	rr := getPage(ts.r, "/locations/", token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Bergen")
	assert.Contains(t, rr.Body.String(), "Oslo")

	rr = getPage(ts.r, fmt.Sprintf("/locations/%d/", oslo.ID), token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Icy roads")
	assert.Contains(t, rr.Body.String(), "59.913900")

	rr = getPage(ts.r, "/locations/999/", token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLogoutSubmit(t *testing.T) {
	ts, token, _ := SetupServerWithUser(t)

	rr := postForm(ts.r, "/accounts/logout/", url.Values{}, token)
	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/accounts/login/", rr.Header().Get("Location"))

	rr = getPage(ts.r, "/alerts/", token)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, http.StatusForbidden, doJSON(t, ts.r, http.MethodGet, "/api/alerts/", token, nil).Code)
}

func TestNoRoute(t *testing.T) {
	ts := SetupTestServer(t)

	rr := getPage(ts.r, "/api/nothing-here/", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.False(t, ParseAPIResp(t, rr).Success)

	rr = getPage(ts.r, "/nothing-here/", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "The page you requested does not exist.")
}
