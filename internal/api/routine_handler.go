package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"simplefit/internal/domain"
	"simplefit/internal/service"
)

// RoutineHandler serves the authenticated user's routine templates.
type RoutineHandler struct {
	routineService service.RoutineService
}

func NewRoutineHandler(routineService service.RoutineService) *RoutineHandler {
	return &RoutineHandler{routineService: routineService}
}

// --- DTOs ---

type RoutineExerciseRequest struct {
	ExerciseID    string  `json:"exerciseId" binding:"required"`
	Sets          int     `json:"sets" binding:"min=0"`
	RepsPerSet    int     `json:"repsPerSet" binding:"min=0"`
	Weight        float64 `json:"weight" binding:"min=0"`
	Note          string  `json:"note"`
	RestSeconds   int     `json:"restSeconds" binding:"min=0"`
	UseBodyweight bool    `json:"useBodyweight"`
	MuscleGroupID string  `json:"muscleGroupId"`
}

// RoutineRequest is the body for creating or replacing a routine.
type RoutineRequest struct {
	Name              string                   `json:"name" binding:"required"`
	Description       string                   `json:"description"`
	Difficulty        string                   `json:"difficulty"`
	EstimatedDuration int                      `json:"estimatedDuration" binding:"min=0"`
	TargetMuscleGroup string                   `json:"targetMuscleGroup"`
	Category          string                   `json:"category"`
	Exercises         []RoutineExerciseRequest `json:"exercises" binding:"dive"`
}

type CopyRoutineRequest struct {
	Name string `json:"name"`
}

type AddRoutineExercisesRequest struct {
	Exercises []RoutineExerciseRequest `json:"exercises" binding:"required,min=1,dive"`
}

type MoveRoutineExerciseRequest struct {
	To *int `json:"to" binding:"required,min=0"`
}

// RoutineResponse adds the derived fields clients display next to a routine.
type RoutineResponse struct {
	*domain.Routine
	ExerciseCount   int `json:"exerciseCount"`
	TotalSets       int `json:"totalSets"`
	DifficultyLevel int `json:"difficultyLevel"`
}

func (r RoutineExerciseRequest) toDomain() domain.RoutineExercise {
	return domain.RoutineExercise{
		ExerciseID:    r.ExerciseID,
		Sets:          r.Sets,
		RepsPerSet:    r.RepsPerSet,
		Weight:        r.Weight,
		Note:          r.Note,
		RestSeconds:   r.RestSeconds,
		UseBodyweight: r.UseBodyweight,
		MuscleGroupID: r.MuscleGroupID,
	}
}

func routineExercisesToDomain(reqs []RoutineExerciseRequest) []domain.RoutineExercise {
	out := make([]domain.RoutineExercise, len(reqs))
	for i, r := range reqs {
		out[i] = r.toDomain()
	}
	return out
}

func (r RoutineRequest) toDomain() *domain.Routine {
	return &domain.Routine{
		Name:              r.Name,
		Description:       r.Description,
		Difficulty:        domain.Difficulty(r.Difficulty),
		EstimatedDuration: r.EstimatedDuration,
		TargetMuscleGroup: r.TargetMuscleGroup,
		Category:          r.Category,
		Exercises:         routineExercisesToDomain(r.Exercises),
	}
}

func MapRoutineToResponse(routine *domain.Routine) RoutineResponse {
	if routine.Exercises == nil {
		routine.Exercises = []domain.RoutineExercise{}
	}
	if routine.AllMuscleGroups == nil {
		routine.AllMuscleGroups = []string{}
	}
	return RoutineResponse{
		Routine:         routine,
		ExerciseCount:   routine.ExerciseCount(),
		TotalSets:       routine.TotalSets(),
		DifficultyLevel: routine.Difficulty.Level(),
	}
}

func MapRoutinesToResponse(routines []domain.Routine) []RoutineResponse {
	responses := make([]RoutineResponse, len(routines))
	for i := range routines {
		responses[i] = MapRoutineToResponse(&routines[i])
	}
	return responses
}

// --- Handler Methods ---

// ListRoutines godoc
// @Summary List my routines
// @Description Lists the user's routines. muscleGroup takes precedence over difficulty.
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Param muscleGroup query string false "Only routines that work this muscle group"
// @Param difficulty query string false "Only routines with this difficulty"
// @Success 200 {array} RoutineResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /routines [get]
func (h *RoutineHandler) ListRoutines(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	filter := service.RoutineFilter{
		MuscleGroup: c.Query("muscleGroup"),
		Difficulty:  domain.Difficulty(c.Query("difficulty")),
	}

	routines, err := h.routineService.ListRoutines(c.Request.Context(), userID, filter)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapRoutinesToResponse(routines))
}

// CreateRoutine godoc
// @Summary Create a routine
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param routine body RoutineRequest true "Routine"
// @Success 201 {object} RoutineResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /routines [post]
func (h *RoutineHandler) CreateRoutine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req RoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	routine, err := h.routineService.CreateRoutine(c.Request.Context(), userID, req.toDomain())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapRoutineToResponse(routine))
}

// GetRoutine godoc
// @Summary Get a routine
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Param id path string true "Routine ID"
// @Success 200 {object} RoutineResponse
// @Failure 404 {object} gin.H "Routine not found"
// @Router /routines/{id} [get]
func (h *RoutineHandler) GetRoutine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	routine, err := h.routineService.GetRoutine(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapRoutineToResponse(routine))
}

// UpdateRoutine godoc
// @Summary Replace a routine
// @Description Replaces the editable fields; the completion counter is kept.
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Routine ID"
// @Param routine body RoutineRequest true "Routine"
// @Success 200 {object} RoutineResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Routine not found"
// @Router /routines/{id} [put]
func (h *RoutineHandler) UpdateRoutine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req RoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	routine := req.toDomain()
	routine.ID = c.Param("id")

	updated, err := h.routineService.UpdateRoutine(c.Request.Context(), userID, routine)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapRoutineToResponse(updated))
}

// DeleteRoutine godoc
// @Summary Delete a routine
// @Tags Routines
// @Security BearerAuth
// @Param id path string true "Routine ID"
// @Success 204
// @Failure 404 {object} gin.H "Routine not found"
// @Router /routines/{id} [delete]
func (h *RoutineHandler) DeleteRoutine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.routineService.DeleteRoutine(c.Request.Context(), userID, c.Param("id")); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CopyRoutine godoc
// @Summary Duplicate a routine
// @Description Copies the routine; an empty name becomes "<name> (Copy)".
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Routine ID"
// @Param body body CopyRoutineRequest false "New name"
// @Success 201 {object} RoutineResponse
// @Failure 404 {object} gin.H "Routine not found"
// @Router /routines/{id}/copy [post]
func (h *RoutineHandler) CopyRoutine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req CopyRoutineRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return
		}
	}

	routine, err := h.routineService.CopyRoutine(c.Request.Context(), userID, c.Param("id"), req.Name)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapRoutineToResponse(routine))
}

// AddExercises godoc
// @Summary Append exercises to a routine
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Routine ID"
// @Param body body AddRoutineExercisesRequest true "Exercises to append"
// @Success 200 {object} RoutineResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Routine or exercise not found"
// @Router /routines/{id}/exercises [post]
func (h *RoutineHandler) AddExercises(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req AddRoutineExercisesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	routine, err := h.routineService.AddExercises(c.Request.Context(), userID, c.Param("id"), routineExercisesToDomain(req.Exercises))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapRoutineToResponse(routine))
}

// RemoveExercise godoc
// @Summary Remove the exercise at a position
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Param id path string true "Routine ID"
// @Param ex path int true "0-based exercise position"
// @Success 200 {object} RoutineResponse
// @Failure 400 {object} gin.H "Position out of range"
// @Failure 404 {object} gin.H "Routine not found"
// @Router /routines/{id}/exercises/{ex} [delete]
func (h *RoutineHandler) RemoveExercise(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	pos, _, ok := parsePositions(c, false)
	if !ok {
		return
	}
	routine, err := h.routineService.RemoveExercise(c.Request.Context(), userID, c.Param("id"), pos)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapRoutineToResponse(routine))
}

// UpdateExercise godoc
// @Summary Replace the plan for the exercise at a position
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Routine ID"
// @Param ex path int true "0-based exercise position"
// @Param body body RoutineExerciseRequest true "New plan"
// @Success 200 {object} RoutineResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Routine or exercise not found"
// @Router /routines/{id}/exercises/{ex} [put]
func (h *RoutineHandler) UpdateExercise(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	pos, _, ok := parsePositions(c, false)
	if !ok {
		return
	}
	var req RoutineExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	routine, err := h.routineService.UpdateExercise(c.Request.Context(), userID, c.Param("id"), pos, req.toDomain())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapRoutineToResponse(routine))
}

// MoveExercise godoc
// @Summary Move an exercise to another position
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Routine ID"
// @Param ex path int true "0-based position of the exercise to move"
// @Param body body MoveRoutineExerciseRequest true "Target position"
// @Success 200 {object} RoutineResponse
// @Failure 400 {object} gin.H "Position out of range"
// @Router /routines/{id}/exercises/{ex}/move [post]
func (h *RoutineHandler) MoveExercise(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	from, _, ok := parsePositions(c, false)
	if !ok {
		return
	}
	var req MoveRoutineExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	routine, err := h.routineService.MoveExercise(c.Request.Context(), userID, c.Param("id"), from, *req.To)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapRoutineToResponse(routine))
}
