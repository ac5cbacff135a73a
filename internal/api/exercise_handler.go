package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"simplefit/internal/domain"
	"simplefit/internal/repository"
	"simplefit/internal/service"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs for API (Data Transfer Objects) ---

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Description           string    `json:"description,omitempty"`
	MuscleGroups          []string  `json:"muscleGroups"`
	PrimaryMuscleGroup    string    `json:"primaryMuscleGroup,omitempty"`
	SecondaryMuscleGroups []string  `json:"secondaryMuscleGroups"`
	Equipment             string    `json:"equipment,omitempty"`
	FormattedEquipment    string    `json:"formattedEquipment"`
	Difficulty            string    `json:"difficulty,omitempty"`
	FormattedDifficulty   string    `json:"formattedDifficulty"`
	IsCompound            bool      `json:"compound"`
	Category              string    `json:"category,omitempty"`
	Instructions          string    `json:"instructions,omitempty"`
	InstructionURL        string    `json:"instructionUrl,omitempty"`
	VideoThumbnailURL     string    `json:"videoThumbnailUrl,omitempty"`
	ImageURL              string    `json:"imageUrl,omitempty"`
	CreatedAt             time.Time `json:"createdAt"`
}

// BatchExercisesRequest asks for several catalog entries at once.
type BatchExercisesRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise, imageURL string) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	groups := ex.MuscleGroups
	if groups == nil {
		groups = []string{}
	}
	return ExerciseResponse{
		ID:                    ex.ID,
		Name:                  ex.Name,
		Description:           ex.Description,
		MuscleGroups:          groups,
		PrimaryMuscleGroup:    ex.PrimaryMuscleGroup,
		SecondaryMuscleGroups: ex.SecondaryMuscleGroups(),
		Equipment:             ex.Equipment,
		FormattedEquipment:    ex.FormattedEquipment(),
		Difficulty:            string(ex.Difficulty),
		FormattedDifficulty:   ex.FormattedDifficulty(),
		IsCompound:            ex.IsCompound,
		Category:              ex.Category,
		Instructions:          ex.Instructions,
		InstructionURL:        ex.InstructionURL,
		VideoThumbnailURL:     ex.VideoThumbnailURL(),
		ImageURL:              imageURL,
		CreatedAt:             ex.CreatedAt,
	}
}

// MapExercisesToResponse converts a slice of domain.Exercise to a slice of ExerciseResponse DTO.
// List responses carry no presigned image URLs.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i], "")
	}
	return responses
}

// --- Handler Methods ---

// ListExercises godoc
// @Summary Browse the exercise catalog
// @Description Lists catalog exercises, optionally narrowed by a name search and filters.
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param q query string false "Case-insensitive name search"
// @Param muscleGroup query string false "Muscle group"
// @Param equipment query string false "Equipment type"
// @Param difficulty query string false "beginner, intermediate or advanced"
// @Param compound query bool false "Compound movements only (true) or isolation only (false)"
// @Success 200 {array} ExerciseResponse "List of exercises"
// @Failure 400 {object} gin.H "Invalid filter"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 504 {object} gin.H "Catalog timed out"
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	query := service.ExerciseQuery{
		Search: c.Query("q"),
		Filter: repository.ExerciseFilter{
			MuscleGroup: c.Query("muscleGroup"),
			Equipment:   c.Query("equipment"),
			Difficulty:  domain.Difficulty(c.Query("difficulty")),
		},
	}
	if raw := c.Query("compound"); raw != "" {
		compound, err := strconv.ParseBool(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "compound must be true or false")
			return
		}
		query.Filter.Compound = &compound
	}

	exercises, err := h.exerciseService.ListExercises(c.Request.Context(), query)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// GetExercise godoc
// @Summary Get one catalog exercise
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/{id} [get]
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exercise, err := h.exerciseService.GetExercise(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	imageURL, err := h.exerciseService.ImageURL(c.Request.Context(), exercise)
	if err != nil {
		// The exercise is still useful without its picture.
		log.Printf("WARN: [ExerciseHandler] image URL for %s: %v", exercise.ID, err)
		imageURL = ""
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise, imageURL))
}

// GetExercisesBatch godoc
// @Summary Get several catalog exercises
// @Description Returns the requested exercises in request order; unknown ids are skipped.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ids body BatchExercisesRequest true "Exercise IDs"
// @Success 200 {array} ExerciseResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /exercises/batch [post]
func (h *ExerciseHandler) GetExercisesBatch(c *gin.Context) {
	var req BatchExercisesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercises, err := h.exerciseService.GetExercisesByIDs(c.Request.Context(), req.IDs)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// GetEquipmentTypes godoc
// @Summary List equipment types used by the catalog
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string
// @Router /exercises/equipment [get]
func (h *ExerciseHandler) GetEquipmentTypes(c *gin.Context) {
	types, err := h.exerciseService.EquipmentTypes(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if types == nil {
		types = []string{}
	}
	c.JSON(http.StatusOK, types)
}

// GetDifficultyLevels godoc
// @Summary List difficulty levels, easiest first
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string
// @Router /exercises/difficulties [get]
func (h *ExerciseHandler) GetDifficultyLevels(c *gin.Context) {
	c.JSON(http.StatusOK, h.exerciseService.DifficultyLevels())
}

// GetMuscleGroups godoc
// @Summary List the reference muscle groups
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param side query string false "front or back"
// @Success 200 {array} domain.MuscleGroup
// @Failure 400 {object} gin.H "Unknown side"
// @Router /muscle-groups [get]
func (h *ExerciseHandler) GetMuscleGroups(c *gin.Context) {
	groups, err := h.exerciseService.MuscleGroups(c.Query("side"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if groups == nil {
		groups = []domain.MuscleGroup{}
	}
	c.JSON(http.StatusOK, groups)
}

// GetMuscleGroup godoc
// @Summary Get a muscle group by ID or name
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path string true "Muscle group ID or display name"
// @Success 200 {object} domain.MuscleGroup
// @Failure 404 {object} gin.H "Muscle group not found"
// @Router /muscle-groups/{id} [get]
func (h *ExerciseHandler) GetMuscleGroup(c *gin.Context) {
	group, err := h.exerciseService.GetMuscleGroup(c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// ClearCache godoc
// @Summary Drop the in-memory catalog cache
// @Tags Exercises
// @Security BearerAuth
// @Success 204
// @Router /exercises/cache/clear [post]
func (h *ExerciseHandler) ClearCache(c *gin.Context) {
	h.exerciseService.ClearCache()
	c.Status(http.StatusNoContent)
}
