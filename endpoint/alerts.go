package endpoint

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/ariebrainware/alert-board/model"
	"github.com/ariebrainware/alert-board/observability"
	"github.com/ariebrainware/alert-board/query"
	"github.com/ariebrainware/alert-board/realtime"
	"github.com/ariebrainware/alert-board/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errUnknownLocation = errors.New("unknown location id")

// ListAlerts godoc
// @Summary      List alerts
// @Description  Paginated alerts, newest first, 10 per page
// @Tags         Alert
// @Produce      json
// @Security     SessionToken
// @Param        page query int false "1-based page number"
// @Param        location query int false "Only alerts linked to this location id"
// @Param        severity query string false "Comma separated severities (info,warning,error); repeatable"
// @Param        active query bool false "Filter by active flag"
// @Success      200 {object} Page[model.Alert] "Alerts page"
// @Failure      400 {object} util.APIResponse "Invalid filter"
// @Failure      403 {object} util.APIResponse "Authentication required"
// @Failure      404 {object} util.APIResponse "Invalid page"
// @Router       /api/alerts/ [get]
func ListAlerts(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	q := query.Alerts(db)
	if raw := c.Query("location"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			util.CallUserError(c, util.APIErrorParams{Msg: "Invalid location filter", Err: err})
			return
		}
		q = q.AtLocation(query.LocationID(id))
	}
	q, err := alertFilterParams(c, q)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid alert filter", Err: err})
		return
	}

	respondAlertPage(c, q)
}

func respondAlertPage(c *gin.Context, q *query.AlertQuery) {
	w, err := loadPage(c, q.Page)
	if err != nil {
		respondPageError(c, "alerts", err)
		return
	}
	w.Items = withEmptyLocations(w.Items)
	c.JSON(http.StatusOK, toPage(c, w))
}

// CreateAlertRequest is the body of POST /api/alerts/.
type CreateAlertRequest struct {
	Title       string         `json:"title" example:"Flood warning"`
	Message     string         `json:"message" example:"River levels are rising"`
	Severity    model.Severity `json:"severity" example:"warning"`
	IsActive    *bool          `json:"is_active" example:"true"`
	LocationIDs []uint         `json:"location_ids" example:"1,2"`
}

// createAlertWithLocations stores the alert and its location links in one
// transaction.
func createAlertWithLocations(ctx context.Context, db *gorm.DB, alert *model.Alert, locationIDs []uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locations, err := loadLocations(tx, locationIDs)
		if err != nil {
			return err
		}
		if err := tx.Create(alert).Error; err != nil {
			return err
		}
		for i := range locations {
			if err := model.AttachAlerts(tx, &locations[i], alert); err != nil {
				return err
			}
		}
		return nil
	})
}

// loadLocations resolves every id or fails with errUnknownLocation.
func loadLocations(tx *gorm.DB, ids []uint) ([]model.Location, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	var locations []model.Location
	if err := tx.Where("id IN ?", unique).Find(&locations).Error; err != nil {
		return nil, err
	}
	if len(locations) != len(unique) {
		return nil, errUnknownLocation
	}
	return locations, nil
}

// CreateAlert godoc
// @Summary      Create alert
// @Description  Store a new alert, optionally linked to locations
// @Tags         Alert
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body CreateAlertRequest true "Alert fields"
// @Success      201 {object} model.Alert "Created alert"
// @Failure      400 {object} util.APIResponse "Validation failure"
// @Failure      403 {object} util.APIResponse "Authentication required"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/alerts/ [post]
func CreateAlert(hub *realtime.Hub, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateAlertRequest
		if !bindJSONOrRespond(c, &req, "Invalid request payload") {
			return
		}
		db, ok := getDBOrRespond(c)
		if !ok {
			return
		}

		alert := model.NewAlert(req.Title, req.Message, req.Severity)
		if req.IsActive != nil {
			alert.SetActive(*req.IsActive)
		}

		if err := createAlertWithLocations(c.Request.Context(), db, &alert, req.LocationIDs); err != nil {
			if errors.Is(err, errUnknownLocation) {
				util.CallUserError(c, util.APIErrorParams{Msg: "One or more locations do not exist", Err: err})
				return
			}
			respondSaveError(c, "Failed to create alert", err)
			return
		}

		created, err := fetchAlertByID(db.WithContext(c.Request.Context()), alert.ID)
		if err != nil {
			util.CallServerError(c, util.APIErrorParams{Msg: "Failed to reload alert", Err: err})
			return
		}
		if created.Locations == nil {
			created.Locations = []model.Location{}
		}

		if metrics != nil {
			metrics.AlertsCreated.Inc()
		}
		hub.AlertCreated(&created)

		c.JSON(http.StatusCreated, created)
	}
}

// GetAlert godoc
// @Summary      Get alert
// @Description  Single alert with its locations
// @Tags         Alert
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Alert ID"
// @Success      200 {object} model.Alert "Alert"
// @Failure      403 {object} util.APIResponse "Authentication required"
// @Failure      404 {object} util.APIResponse "Alert not found"
// @Router       /api/alerts/{id}/ [get]
func GetAlert(c *gin.Context) {
	id, ok := getIDOrRespond(c, "Alert")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	alert, err := fetchAlertByID(db.WithContext(c.Request.Context()), id)
	if err != nil {
		respondLookupError(c, "Alert", err)
		return
	}
	if alert.Locations == nil {
		alert.Locations = []model.Location{}
	}
	c.JSON(http.StatusOK, alert)
}
