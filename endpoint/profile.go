package endpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ariebrainware/alert-board/middleware"
	"github.com/ariebrainware/alert-board/model"
	"github.com/ariebrainware/alert-board/query"
	"github.com/ariebrainware/alert-board/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProfileResponse is the profile of the signed-in user.
type ProfileResponse struct {
	ID          uint            `json:"id" example:"1"`
	Username    string          `json:"username" example:"alice"`
	DisplayName string          `json:"display_name" example:"alice's profile"`
	LocationID  *uint           `json:"location_id" example:"3"`
	Location    *model.Location `json:"location"`
}

func newProfileResponse(p model.Profile) ProfileResponse {
	r := ProfileResponse{
		ID:          p.ID,
		DisplayName: p.DisplayName(),
		LocationID:  p.LocationID,
		Location:    p.Location,
	}
	if p.User != nil {
		r.Username = p.User.Username
	}
	return r
}

// loadProfileOrRespond loads the signed-in user's profile with user and location.
func loadProfileOrRespond(c *gin.Context) (*gorm.DB, model.Profile, bool) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return nil, model.Profile{}, false
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		util.CallForbidden(c, util.APIErrorParams{Msg: "Authentication required", Err: fmt.Errorf("user id not found in context")})
		return nil, model.Profile{}, false
	}
	db = db.WithContext(c.Request.Context())

	var profile model.Profile
	err := db.Preload("User").Preload("Location").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		respondLookupError(c, "Profile", err)
		return nil, model.Profile{}, false
	}
	return db, profile, true
}

// GetProfile godoc
// @Summary      Current user's profile
// @Tags         Profile
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=ProfileResponse} "Profile retrieved"
// @Failure      403 {object} util.APIResponse "Authentication required"
// @Failure      404 {object} util.APIResponse "Profile not found"
// @Router       /api/profile/ [get]
func GetProfile(c *gin.Context) {
	_, profile, ok := loadProfileOrRespond(c)
	if !ok {
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Profile retrieved", Data: newProfileResponse(profile)})
}

// UpdateProfileRequest sets or clears the profile's location.
type UpdateProfileRequest struct {
	LocationID *uint `json:"location_id" example:"3"`
}

// UpdateProfile godoc
// @Summary      Set the profile's location
// @Description  location_id is required; null clears it
// @Tags         Profile
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body UpdateProfileRequest true "Location to follow"
// @Success      200 {object} util.APIResponse{data=ProfileResponse} "Profile updated"
// @Failure      400 {object} util.APIResponse "Invalid request or unknown location"
// @Failure      403 {object} util.APIResponse "Authentication required"
// @Router       /api/profile/ [patch]
func UpdateProfile(c *gin.Context) {
	var raw map[string]json.RawMessage
	if !bindJSONOrRespond(c, &raw, "Invalid request payload") {
		return
	}
	field, present := raw["location_id"]
	if !present {
		util.CallUserError(c, util.APIErrorParams{Msg: "location_id is required", Err: errors.New("missing location_id")})
		return
	}
	var req UpdateProfileRequest
	if err := json.Unmarshal(field, &req.LocationID); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "location_id must be an id or null", Err: err})
		return
	}

	db, profile, ok := loadProfileOrRespond(c)
	if !ok {
		return
	}
	if err := model.SetProfileLocation(db, &profile, req.LocationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.CallUserError(c, util.APIErrorParams{Msg: "Location does not exist", Err: err})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update profile", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Profile updated", Data: newProfileResponse(profile)})
}

// ProfileAlerts godoc
// @Summary      Active alerts at the profile's location
// @Description  Empty page when the profile has no location
// @Tags         Profile
// @Produce      json
// @Security     SessionToken
// @Param        page query int false "1-based page number"
// @Success      200 {object} Page[model.Alert] "Alerts page"
// @Failure      403 {object} util.APIResponse "Authentication required"
// @Router       /api/profile/alerts/ [get]
func ProfileAlerts(c *gin.Context) {
	db, profile, ok := loadProfileOrRespond(c)
	if !ok {
		return
	}
	if profile.LocationID == nil {
		w, err := loadPage(c, func(_ context.Context, _, _ int) ([]model.Alert, int64, error) {
			return nil, 0, nil
		})
		if err != nil {
			respondPageError(c, "alerts", err)
			return
		}
		c.JSON(http.StatusOK, toPage(c, w))
		return
	}
	respondAlertPage(c, query.ActiveForLocation(db, query.LocationID(*profile.LocationID)))
}
