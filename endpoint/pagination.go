package endpoint

import (
	"context"
	"errors"
	"strconv"

	"github.com/ariebrainware/alert-board/util"
	"github.com/gin-gonic/gin"
)

// PageSize is the number of items on every listing page, web and API.
const PageSize = 10

var errInvalidPage = errors.New("invalid page")

// Page is the listing envelope of the JSON API.
type Page[T any] struct {
	Count    int64   `json:"count" example:"15"`
	Next     *string `json:"next" example:"http://localhost:8080/api/alerts/?page=2"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// pageWindow is one loaded page before it is rendered as JSON or HTML.
type pageWindow[T any] struct {
	Number int
	Total  int64
	Items  []T
}

func (w pageWindow[T]) NumPages() int {
	if w.Total == 0 {
		return 1
	}
	return int((w.Total + PageSize - 1) / PageSize)
}

func (w pageWindow[T]) HasNext() bool     { return w.Number < w.NumPages() }
func (w pageWindow[T]) HasPrevious() bool { return w.Number > 1 }
func (w pageWindow[T]) NextNumber() int   { return w.Number + 1 }
func (w pageWindow[T]) PrevNumber() int   { return w.Number - 1 }

// pageParam reads ?page=. Missing means 1; anything but a positive integer is invalid.
func pageParam(c *gin.Context) (int, error) {
	raw := c.Query("page")
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errInvalidPage
	}
	return n, nil
}

// loadPage reads ?page= and calls fetch with it. Pages past the end are
// invalid, except that page 1 of an empty listing is allowed.
func loadPage[T any](c *gin.Context, fetch func(ctx context.Context, page, size int) ([]T, int64, error)) (pageWindow[T], error) {
	n, err := pageParam(c)
	if err != nil {
		return pageWindow[T]{}, err
	}
	items, total, err := fetch(c.Request.Context(), n, PageSize)
	if err != nil {
		return pageWindow[T]{}, err
	}
	if n > 1 && len(items) == 0 {
		return pageWindow[T]{}, errInvalidPage
	}
	if items == nil {
		items = []T{}
	}
	return pageWindow[T]{Number: n, Total: total, Items: items}, nil
}

// toPage renders w with absolute next/previous links built from the request.
func toPage[T any](c *gin.Context, w pageWindow[T]) Page[T] {
	p := Page[T]{Count: w.Total, Results: w.Items}
	if w.HasNext() {
		p.Next = pageURL(c, w.NextNumber())
	}
	if w.HasPrevious() {
		p.Previous = pageURL(c, w.PrevNumber())
	}
	return p
}

// pageURL is the current request URL with page replaced; page 1 drops the
// parameter.
func pageURL(c *gin.Context, page int) *string {
	u := *c.Request.URL
	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	u.Scheme = requestScheme(c)
	u.Host = c.Request.Host
	s := u.String()
	return &s
}

func requestScheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}

// pageQuery is the query string for page n of the current listing, for
// links in templates.
func pageQuery(c *gin.Context, n int) string {
	q := c.Request.URL.Query()
	q.Set("page", strconv.Itoa(n))
	return "?" + q.Encode()
}

// respondPageError answers listing failures; invalid pages are 404.
func respondPageError(c *gin.Context, what string, err error) {
	if errors.Is(err, errInvalidPage) {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Invalid page.", Err: err})
		return
	}
	util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve " + what, Err: err})
}
