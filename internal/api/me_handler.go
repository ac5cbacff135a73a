package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"simplefit/internal/domain"
	"simplefit/internal/service"
)

// MeHandler serves the authenticated user's own profile, statistics and favorites.
type MeHandler struct {
	userService       service.UserService
	statisticsService service.StatisticsService
}

func NewMeHandler(userService service.UserService, statisticsService service.StatisticsService) *MeHandler {
	return &MeHandler{userService: userService, statisticsService: statisticsService}
}

type ProfileImageRequest struct {
	FileName string `json:"fileName" binding:"required"`
}

// UpdateProfileRequest carries the fields to change; omitted fields keep their value.
type UpdateProfileRequest struct {
	Name   *string  `json:"name"`
	Gender *string  `json:"gender"`
	Age    *int     `json:"age" binding:"omitempty,gte=0,lte=150"`
	Weight *float64 `json:"weight" binding:"omitempty,gte=0"`
	Height *float64 `json:"height" binding:"omitempty,gte=0"`
}

type FavoriteResponse struct {
	ExerciseID string `json:"exerciseId"`
	Favorite   bool   `json:"favorite"`
}

// GetProfile godoc
// @Summary Get my profile
// @Tags Me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /me [get]
func (h *MeHandler) GetProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	imageURL, err := h.userService.ProfileImageURL(c.Request.Context(), user)
	if err != nil {
		log.Printf("WARN: [MeHandler] profile image URL for %s: %v", userID, err)
		imageURL = ""
	}
	c.JSON(http.StatusOK, MapUserToResponse(user, imageURL))
}

// UpdateProfile godoc
// @Summary Update my name and body metrics
// @Tags Me
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "Fields to change (weight in kg, height in cm)"
// @Success 200 {object} UserResponse
// @Failure 400 {object} gin.H "Validation error"
// @Router /me [patch]
func (h *MeHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, domain.ProfileUpdate{
		Name:   req.Name,
		Gender: req.Gender,
		Age:    req.Age,
		Weight: req.Weight,
		Height: req.Height,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	imageURL, err := h.userService.ProfileImageURL(c.Request.Context(), user)
	if err != nil {
		log.Printf("WARN: [MeHandler] profile image URL for %s: %v", userID, err)
		imageURL = ""
	}
	c.JSON(http.StatusOK, MapUserToResponse(user, imageURL))
}

// GetStatistics godoc
// @Summary Get my lifetime statistics
// @Tags Me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.WorkoutStatistics
// @Router /me/statistics [get]
func (h *MeHandler) GetStatistics(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	stats, err := h.statisticsService.GetStatistics(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RecomputeStatistics godoc
// @Summary Rebuild my statistics from the workout history
// @Tags Me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.WorkoutStatistics
// @Router /me/statistics/recompute [post]
func (h *MeHandler) RecomputeStatistics(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	stats, err := h.statisticsService.Recompute(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetFavorites godoc
// @Summary List my favorite exercises
// @Tags Me
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ExerciseResponse
// @Router /me/favorites [get]
func (h *MeHandler) GetFavorites(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	exercises, err := h.userService.Favorites(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// ToggleFavorite godoc
// @Summary Add or remove a favorite exercise
// @Tags Me
// @Produce json
// @Security BearerAuth
// @Param exerciseId path string true "Exercise ID"
// @Success 200 {object} FavoriteResponse
// @Failure 404 {object} gin.H "Exercise not found"
// @Failure 409 {object} gin.H "Concurrent update, retry"
// @Router /me/favorites/{exerciseId} [post]
func (h *MeHandler) ToggleFavorite(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	exerciseID := c.Param("exerciseId")
	favorite, err := h.userService.ToggleFavorite(c.Request.Context(), userID, exerciseID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, FavoriteResponse{ExerciseID: exerciseID, Favorite: favorite})
}

// RequestProfileImageUpload godoc
// @Summary Get an upload URL for a new profile picture
// @Description Returns a presigned PUT URL. The previous picture is removed.
// @Tags Me
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ProfileImageRequest true "File name (jpg, jpeg, png, webp)"
// @Success 200 {object} service.ProfileImageUpload
// @Failure 400 {object} gin.H "Unsupported file"
// @Failure 502 {object} gin.H "Media storage unavailable"
// @Router /me/profile-image [post]
func (h *MeHandler) RequestProfileImageUpload(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req ProfileImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	upload, err := h.userService.ProfileImageUploadURL(c.Request.Context(), userID, req.FileName)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}
