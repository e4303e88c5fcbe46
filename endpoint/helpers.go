package endpoint

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ariebrainware/alert-board/middleware"
	"github.com/ariebrainware/alert-board/model"
	"github.com/ariebrainware/alert-board/query"
	"github.com/ariebrainware/alert-board/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errInvalidID = errors.New("id must be a positive integer")

type clientInfo struct {
	IP    string
	Agent string
}

func clientInfoFrom(c *gin.Context) clientInfo {
	return clientInfo{IP: c.ClientIP(), Agent: c.Request.UserAgent()}
}

func bindJSONOrRespond(c *gin.Context, dst interface{}, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
		return false
	}
	return true
}

func getDBOrRespond(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Database connection not available", Err: fmt.Errorf("db is nil")})
		return nil, false
	}
	return db, true
}

// parseIDParam parses the "id" path parameter into a positive uint.
func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}

// getIDOrRespond answers 404 for ids that cannot name a record.
func getIDOrRespond(c *gin.Context, what string) (uint, bool) {
	id, err := parseIDParam(c)
	if err != nil {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: what + " not found", Err: err})
		return 0, false
	}
	return id, true
}

// respondLookupError maps a failed First into 404 or 500.
func respondLookupError(c *gin.Context, what string, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: what + " not found", Err: err})
		return
	}
	util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve " + what, Err: err})
}

// respondSaveError maps a failed write into 400 for validation failures and 500 otherwise.
func respondSaveError(c *gin.Context, msg string, err error) {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		util.CallUserError(c, util.APIErrorParams{Msg: ve.Message, Err: err})
		return
	}
	util.CallServerError(c, util.APIErrorParams{Msg: msg, Err: err})
}

// alertFilterParams narrows q by the severity and active query parameters.
func alertFilterParams(c *gin.Context, q *query.AlertQuery) (*query.AlertQuery, error) {
	severities, err := query.ParseSeverities(c.QueryArray("severity"))
	if err != nil {
		return nil, err
	}
	q = q.WithSeverities(severities...)

	if raw, ok := c.GetQuery("active"); ok && raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("active must be true or false, got %q", raw)
		}
		q = q.WithActive(active)
	}
	return q, nil
}

// fetchAlertByID loads one alert with its locations in display order.
func fetchAlertByID(db *gorm.DB, id uint) (model.Alert, error) {
	var a model.Alert
	err := db.Preload("Locations", func(tx *gorm.DB) *gorm.DB {
		return tx.Order(model.LocationDefaultOrder)
	}).First(&a, id).Error
	return a, err
}

func fetchLocationByID(db *gorm.DB, id uint) (model.Location, error) {
	var l model.Location
	err := db.First(&l, id).Error
	return l, err
}

// withEmptyLocations makes alerts render "locations": [] instead of null.
func withEmptyLocations(alerts []model.Alert) []model.Alert {
	if alerts == nil {
		return []model.Alert{}
	}
	for i := range alerts {
		if alerts[i].Locations == nil {
			alerts[i].Locations = []model.Location{}
		}
	}
	return alerts
}
