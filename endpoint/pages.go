package endpoint

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ariebrainware/alert-board/middleware"
	"github.com/ariebrainware/alert-board/model"
	"github.com/ariebrainware/alert-board/query"
	"github.com/ariebrainware/alert-board/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const defaultLoginRedirect = "/alerts/"

// renderPage adds the signed-in username and renders the named template.
func renderPage(c *gin.Context, status int, name string, data gin.H) {
	if userID, ok := middleware.GetUserID(c); ok {
		data["Username"] = util.GetUsername(middleware.GetDB(c), userID)
	}
	c.HTML(status, name, data)
}

func renderNotFound(c *gin.Context, message string) {
	renderPage(c, http.StatusNotFound, "not_found.html", gin.H{"Title": "Not found", "Message": message})
	c.Abort()
}

func renderServerError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatus(http.StatusInternalServerError)
}

func pageDB(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		renderServerError(c, errors.New("db is nil"))
		return nil, false
	}
	return db, true
}

func listingData[T any](c *gin.Context, title string, w pageWindow[T]) gin.H {
	data := gin.H{"Title": title, "Page": w}
	if w.HasPrevious() {
		data["PrevQuery"] = pageQuery(c, w.PrevNumber())
	}
	if w.HasNext() {
		data["NextQuery"] = pageQuery(c, w.NextNumber())
	}
	return data
}

// AlertsPage renders /alerts/: every alert, newest first, 10 per page.
func AlertsPage(c *gin.Context) {
	db, ok := pageDB(c)
	if !ok {
		return
	}
	w, err := loadPage(c, query.Alerts(db).Page)
	if err != nil {
		if errors.Is(err, errInvalidPage) {
			renderNotFound(c, "Invalid page.")
			return
		}
		renderServerError(c, err)
		return
	}
	renderPage(c, http.StatusOK, "alert_list.html", listingData(c, "Alerts", w))
}

// AlertDetailPage renders /alerts/:id/.
func AlertDetailPage(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		renderNotFound(c, "No alert found matching the query.")
		return
	}
	db, ok := pageDB(c)
	if !ok {
		return
	}
	alert, err := fetchAlertByID(db.WithContext(c.Request.Context()), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			renderNotFound(c, "No alert found matching the query.")
			return
		}
		renderServerError(c, err)
		return
	}
	renderPage(c, http.StatusOK, "alert_detail.html", gin.H{"Title": alert.Title, "Alert": alert})
}

// LocationsPage renders /locations/ alphabetically, 10 per page.
func LocationsPage(c *gin.Context) {
	db, ok := pageDB(c)
	if !ok {
		return
	}
	w, err := loadPage(c, func(ctx context.Context, page, size int) ([]model.Location, int64, error) {
		return query.LocationPage(ctx, db, page, size)
	})
	if err != nil {
		if errors.Is(err, errInvalidPage) {
			renderNotFound(c, "Invalid page.")
			return
		}
		renderServerError(c, err)
		return
	}
	renderPage(c, http.StatusOK, "location_list.html", listingData(c, "Locations", w))
}

// LocationDetailPage renders /locations/:id/ with the location's alerts.
func LocationDetailPage(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		renderNotFound(c, "No location found matching the query.")
		return
	}
	db, ok := pageDB(c)
	if !ok {
		return
	}
	loc, err := fetchLocationByID(db.WithContext(c.Request.Context()), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			renderNotFound(c, "No location found matching the query.")
			return
		}
		renderServerError(c, err)
		return
	}
	alerts, err := query.FilterByLocation(db, loc).Find(c.Request.Context())
	if err != nil {
		renderServerError(c, err)
		return
	}
	renderPage(c, http.StatusOK, "location_detail.html", gin.H{"Title": loc.Name, "Location": loc, "Alerts": alerts})
}

// safeNext keeps redirects on this site: only local absolute paths pass.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return defaultLoginRedirect
	}
	return next
}

// LoginPage renders the login form.
func LoginPage(c *gin.Context) {
	renderPage(c, http.StatusOK, "login.html", gin.H{"Title": "Log in", "Next": safeNext(c.Query("next")), "Form": LoginRequest{}})
}

// LoginSubmit handles the login form. Bad credentials re-render the form;
// success sets the session cookie and redirects to next.
func LoginSubmit(c *gin.Context) {
	next := safeNext(c.PostForm("next"))
	var form LoginRequest
	if err := c.ShouldBind(&form); err != nil {
		renderPage(c, http.StatusOK, "login.html", gin.H{"Title": "Log in", "Next": next, "Form": form, "Error": "Please enter a username and password."})
		return
	}
	db, ok := pageDB(c)
	if !ok {
		return
	}

	ci := clientInfoFrom(c)
	user, err := authenticate(db, form.Username, form.Password, ci)
	if err != nil {
		if errors.Is(err, errInvalidCredentials) || errors.Is(err, errAccountLocked) {
			msg := "Please enter a correct username and password."
			if errors.Is(err, errAccountLocked) {
				msg = err.Error()
			}
			renderPage(c, http.StatusOK, "login.html", gin.H{"Title": "Log in", "Next": next, "Form": form, "Error": msg})
			return
		}
		renderServerError(c, err)
		return
	}

	session, err := issueSession(c, db, user, ci)
	if err != nil {
		renderServerError(c, err)
		return
	}
	setSessionCookie(c, session)
	util.LogLoginSuccess(util.LoginParams{UserID: user.ID, Username: user.Username, IP: ci.IP, UserAgent: ci.Agent})
	c.Redirect(http.StatusFound, next)
}

// LogoutSubmit ends the browser session and returns to the login form.
func LogoutSubmit(c *gin.Context) {
	if token, err := c.Cookie(middleware.SessionCookie); err == nil && token != "" {
		if db := middleware.GetDB(c); db != nil {
			if session, err := endSession(c, db, token); err == nil {
				util.LogLogout(util.LoginParams{UserID: session.UserID, IP: c.ClientIP(), UserAgent: c.Request.UserAgent()})
			}
		}
	}
	clearSessionCookie(c)
	c.Redirect(http.StatusFound, middleware.LoginURL)
}

// NotFound answers unmatched routes: JSON under /api/, the HTML page elsewhere.
func NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Not found", Err: errors.New("no route")})
		return
	}
	renderNotFound(c, "")
}
