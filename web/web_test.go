package web

import (
	"bytes"
	"testing"
	"time"

	"github.com/ariebrainware/alert-board/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPage struct {
	Number   int
	Total    int64
	Items    []model.Alert
	numPages int
}

func (p testPage) NumPages() int     { return p.numPages }
func (p testPage) HasNext() bool     { return p.Number < p.numPages }
func (p testPage) HasPrevious() bool { return p.Number > 1 }

func TestTemplates_Parse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)
	for _, name := range []string{
		"alert_list.html", "alert_detail.html", "location_list.html",
		"location_detail.html", "login.html", "not_found.html",
	} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestAlertList_Renders(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	a := model.NewAlert("Heat <wave>", "Stay indoors", model.SeverityWarning)
	a.ID = 7
	a.CreatedAt = time.Date(2024, 7, 1, 12, 30, 0, 0, time.UTC)
	a.Locations = []model.Location{{Name: "Paris"}, {Name: "Lyon"}}

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "alert_list.html", map[string]interface{}{
		"Title":     "Alerts",
		"Username":  "alice",
		"Page":      testPage{Number: 1, Total: 11, Items: []model.Alert{a}, numPages: 2},
		"NextQuery": "?page=2",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `href="/alerts/7/"`)
	assert.Contains(t, out, "Heat &lt;wave&gt;")
	assert.Contains(t, out, "Warning")
	assert.Contains(t, out, "Paris, Lyon")
	assert.Contains(t, out, "2024-07-01 12:30")
	assert.Contains(t, out, "Page 1 of 2")
	assert.Contains(t, out, `href="?page=2"`)
	assert.Contains(t, out, "Signed in as alice")
}

func TestFuncMap_Coord(t *testing.T) {
	coord := FuncMap()["coord"].(func(*float64) string)
	v := 48.8566
	assert.Equal(t, "48.856600", coord(&v))
	assert.Equal(t, "-", coord(nil))
}
