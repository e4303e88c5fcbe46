package endpoint

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/ariebrainware/alert-board/model"
	"github.com/ariebrainware/alert-board/query"
	"github.com/ariebrainware/alert-board/util"
	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"gorm.io/gorm"
)

const (
	defaultNearbyRadiusKm = 10.0
	maxNearbyRadiusKm     = 1000.0
)

// ListLocations godoc
// @Summary      List locations
// @Description  Every location, alphabetically
// @Tags         Location
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=[]model.Location} "Locations retrieved"
// @Failure      403 {object} util.APIResponse "Authentication required"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/locations/ [get]
func ListLocations(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	locations, err := query.Locations(c.Request.Context(), db)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve locations", Err: err})
		return
	}
	if locations == nil {
		locations = []model.Location{}
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Locations retrieved", Data: locations})
}

// CreateLocationRequest is the body of POST /api/locations/.
type CreateLocationRequest struct {
	Name      string   `json:"name" example:"New York"`
	Address   string   `json:"address" example:"Manhattan, NY"`
	Latitude  *float64 `json:"latitude" example:"40.7128"`
	Longitude *float64 `json:"longitude" example:"-74.006"`
}

func locationNameTaken(db *gorm.DB, name string) (bool, error) {
	var count int64
	if err := db.Model(&model.Location{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateLocation godoc
// @Summary      Create location
// @Description  Store a new named location
// @Tags         Location
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body CreateLocationRequest true "Location fields"
// @Success      201 {object} util.APIResponse{data=model.Location} "Location created"
// @Failure      400 {object} util.APIResponse "Validation failure or duplicate name"
// @Failure      403 {object} util.APIResponse "Authentication required"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/locations/ [post]
func CreateLocation(c *gin.Context) {
	var req CreateLocationRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	db = db.WithContext(c.Request.Context())

	loc := model.Location{
		Name:      util.NormalizeName(req.Name),
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if err := loc.Validate(); err != nil {
		respondSaveError(c, "Failed to create location", err)
		return
	}

	taken, err := locationNameTaken(db, loc.Name)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Database error", Err: err})
		return
	}
	if taken {
		util.CallUserError(c, util.APIErrorParams{Msg: "Location name already exists", Err: fmt.Errorf("location %q already exists", loc.Name)})
		return
	}

	if err := db.Create(&loc).Error; err != nil {
		respondSaveError(c, "Failed to create location", err)
		return
	}
	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Location created", Data: loc})
}

// GetLocation godoc
// @Summary      Get location
// @Tags         Location
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Location ID"
// @Success      200 {object} util.APIResponse{data=model.Location} "Location retrieved"
// @Failure      403 {object} util.APIResponse "Authentication required"
// @Failure      404 {object} util.APIResponse "Location not found"
// @Router       /api/locations/{id}/ [get]
func GetLocation(c *gin.Context) {
	id, ok := getIDOrRespond(c, "Location")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	loc, err := fetchLocationByID(db.WithContext(c.Request.Context()), id)
	if err != nil {
		respondLookupError(c, "Location", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Location retrieved", Data: loc})
}

// ListLocationAlerts godoc
// @Summary      Alerts at a location
// @Description  Paginated alerts linked to the location, newest first
// @Tags         Location
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Location ID"
// @Param        page query int false "1-based page number"
// @Param        severity query string false "Comma separated severities; repeatable"
// @Param        active query bool false "Filter by active flag"
// @Success      200 {object} Page[model.Alert] "Alerts page"
// @Failure      400 {object} util.APIResponse "Invalid filter"
// @Failure      403 {object} util.APIResponse "Authentication required"
// @Failure      404 {object} util.APIResponse "Location not found"
// @Router       /api/locations/{id}/alerts/ [get]
func ListLocationAlerts(c *gin.Context) {
	id, ok := getIDOrRespond(c, "Location")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	loc, err := fetchLocationByID(db.WithContext(c.Request.Context()), id)
	if err != nil {
		respondLookupError(c, "Location", err)
		return
	}

	q, err := alertFilterParams(c, query.FilterByLocation(db, loc))
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid alert filter", Err: err})
		return
	}
	respondAlertPage(c, q)
}

// parseCoordinate reads a required float query parameter within [-limit, limit].
func parseCoordinate(c *gin.Context, name string, limit float64) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	if v < -limit || v > limit {
		return 0, fmt.Errorf("%s must be between %g and %g", name, -limit, limit)
	}
	return v, nil
}

func parseRadius(c *gin.Context) (float64, error) {
	raw := c.Query("radius_km")
	if raw == "" {
		return defaultNearbyRadiusKm, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || v <= 0 || v > maxNearbyRadiusKm {
		return 0, errors.New("radius_km must be a number in (0, 1000]")
	}
	return v, nil
}

// NearbyLocations godoc
// @Summary      Locations near a point
// @Description  Locations with coordinates within radius_km of (lat, lon), closest first
// @Tags         Location
// @Produce      json
// @Security     SessionToken
// @Param        lat query number true "Latitude"
// @Param        lon query number true "Longitude"
// @Param        radius_km query number false "Search radius in km (default 10)"
// @Success      200 {object} util.APIResponse{data=[]query.NearbyLocation} "Nearby locations"
// @Failure      400 {object} util.APIResponse "Invalid coordinates"
// @Failure      403 {object} util.APIResponse "Authentication required"
// @Router       /api/locations/nearby/ [get]
func NearbyLocations(c *gin.Context) {
	lat, err := parseCoordinate(c, "lat", 90)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid coordinates", Err: err})
		return
	}
	lon, err := parseCoordinate(c, "lon", 180)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid coordinates", Err: err})
		return
	}
	radius, err := parseRadius(c)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid radius", Err: err})
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	near, err := query.Nearby(c.Request.Context(), db, orb.Point{lon, lat}, radius)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to search locations", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Nearby locations", Data: near})
}
