package endpoint_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ariebrainware/alert-board/endpoint"
	"github.com/ariebrainware/alert-board/model"
	"github.com/ariebrainware/alert-board/observability"
	"github.com/ariebrainware/alert-board/realtime"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type apiResp struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Msg     string          `json:"msg"`
	Data    json.RawMessage `json:"data"`
}

type alertPage struct {
	Count    int64         `json:"count"`
	Next     *string       `json:"next"`
	Previous *string       `json:"previous"`
	Results  []model.Alert `json:"results"`
}

// requestParams groups HTTP request parameters to reduce function arguments
type requestParams struct {
	method  string
	path    string
	body    []byte
	headers map[string]string
}

// doRequest executes an HTTP request with the given parameters and returns the response recorder
func doRequest(r http.Handler, params requestParams) *httptest.ResponseRecorder {
	req := httptest.NewRequest(params.method, params.path, bytes.NewBuffer(params.body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range params.headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var b []byte
	if body != nil {
		var err error
		b, err = json.Marshal(body)
		require.NoError(t, err)
	}
	headers := map[string]string{}
	if token != "" {
		headers["session-token"] = token
	}
	return doRequest(r, requestParams{method: method, path: path, body: b, headers: headers})
}

// postForm submits an urlencoded form, optionally with the session cookie.
func postForm(r http.Handler, path string, form url.Values, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "session_token", Value: cookie})
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

// getPage requests a web page, optionally with the session cookie.
func getPage(r http.Handler, path, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "session_token", Value: cookie})
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

// setupTestDB opens a private in-memory database with every model migrated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb_endpoint_%d?mode=memory&cache=shared&_fk=1", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect test DB: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Session{}, &model.Location{}, &model.Alert{}, &model.Profile{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

type testServer struct {
	r       *gin.Engine
	db      *gorm.DB
	hub     *realtime.Hub
	metrics *observability.Metrics
}

// SetupTestServer builds the full router over a fresh database.
func SetupTestServer(t *testing.T) testServer {
	t.Helper()
	db := setupTestDB(t)
	m := observability.NewMetricsForTesting()
	hub := realtime.NewHub(m)
	r, err := endpoint.NewRouter(db, endpoint.RouterOptions{Hub: hub, Metrics: m, DisableRequestLog: true})
	require.NoError(t, err)
	return testServer{r: r, db: db, hub: hub, metrics: m}
}

// SignupCreds groups the fields of a signup request.
type SignupCreds struct {
	Username string
	Email    string
	Password string
}

// CreateAndLoginUser signs up and logs in a user, returning session token and user id.
func CreateAndLoginUser(t *testing.T, r http.Handler, creds SignupCreds) (string, uint) {
	t.Helper()
	if creds.Password == "" {
		creds.Password = "password123"
	}
	rr := doJSON(t, r, http.MethodPost, "/signup", "", map[string]string{
		"username": creds.Username, "email": creds.Email, "password": creds.Password,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("signup %s returned %d: %s", creds.Username, rr.Code, rr.Body.String())
	}

	rr = doJSON(t, r, http.MethodPost, "/login", "", map[string]string{
		"username": creds.Username, "password": creds.Password,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("login %s returned %d: %s", creds.Username, rr.Code, rr.Body.String())
	}
	resp := ParseAPIResp(t, rr)
	var data endpoint.LoginResponse
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("parse login data failed: %v", err)
	}
	return data.Token, data.UserID
}

// SetupServerWithUser initializes the server and returns a logged-in user session.
func SetupServerWithUser(t *testing.T) (testServer, string, uint) {
	t.Helper()
	ts := SetupTestServer(t)
	token, userID := CreateAndLoginUser(t, ts.r, SignupCreds{Username: "alice", Email: "alice@example.com"})
	return ts, token, userID
}

// ParseAPIResp decodes a standard API response from a ResponseRecorder.
func ParseAPIResp(t *testing.T, rr *httptest.ResponseRecorder) apiResp {
	t.Helper()
	var resp apiResp
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v; body: %s", err, rr.Body.String())
	}
	return resp
}

func parseAlertPage(t *testing.T, rr *httptest.ResponseRecorder) alertPage {
	t.Helper()
	var p alertPage
	if err := json.Unmarshal(rr.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode page failed: %v; body: %s", err, rr.Body.String())
	}
	return p
}

func fptr(f float64) *float64 { return &f }

// seedAlert stores an alert directly, created minutesAgo minutes ago.
func seedAlert(t *testing.T, db *gorm.DB, title string, sev model.Severity, active bool, minutesAgo int, locs ...*model.Location) model.Alert {
	t.Helper()
	a := model.NewAlert(title, "message for "+title, sev)
	a.SetActive(active)
	a.CreatedAt = time.Now().Add(-time.Duration(minutesAgo) * time.Minute)
	require.NoError(t, db.Create(&a).Error)
	for _, l := range locs {
		require.NoError(t, model.AttachAlerts(db, l, &a))
	}
	return a
}

func seedLocation(t *testing.T, db *gorm.DB, name string, lat, lon *float64) model.Location {
	t.Helper()
	l := model.Location{Name: name, Latitude: lat, Longitude: lon}
	require.NoError(t, db.Create(&l).Error)
	return l
}

func alertTitles(alerts []model.Alert) []string {
	out := make([]string, len(alerts))
	for i, a := range alerts {
		out[i] = a.Title
	}
	return out
}
