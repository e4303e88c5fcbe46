// Package web holds the HTML templates of the board's pages.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/ariebrainware/alert-board/model"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// FuncMap is available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"coord": func(v *float64) string {
			if v == nil {
				return "-"
			}
			return fmt.Sprintf("%.6f", *v)
		},
		"locationNames": func(locs []model.Location) string {
			if len(locs) == 0 {
				return "-"
			}
			names := make([]string, len(locs))
			for i, l := range locs {
				names[i] = l.Name
			}
			return strings.Join(names, ", ")
		},
	}
}

// Templates parses every embedded page. Pages are addressed by file name,
// e.g. "alert_list.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}

// Install makes the pages available to c.HTML on r.
func Install(r *gin.Engine) error {
	t, err := Templates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(t)
	return nil
}
