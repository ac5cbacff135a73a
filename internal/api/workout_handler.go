package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"simplefit/internal/domain"
	"simplefit/internal/service"
)

// WorkoutHandler serves workout sessions and their set editing.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

// UpdateSetRequest is a partial set edit; absent fields are left unchanged.
type UpdateSetRequest struct {
	Reps       *int     `json:"reps" binding:"omitempty,min=0"`
	Weight     *float64 `json:"weight" binding:"omitempty,min=0"`
	Completed  *bool    `json:"completed"`
	DropSet    *bool    `json:"dropSet"`
	FailureSet *bool    `json:"failureSet"`
	Note       *string  `json:"note"`
}

type UpdateWorkoutRequest struct {
	Note   *string `json:"note"`
	Rating *int    `json:"rating" binding:"omitempty,min=0,max=5"`
}

type LoggedSetRequest struct {
	TargetReps         int     `json:"targetReps" binding:"min=0"`
	Reps               int     `json:"reps" binding:"min=0"`
	Weight             float64 `json:"weight" binding:"min=0"`
	Completed          bool    `json:"completed"`
	DropSet            bool    `json:"dropSet"`
	FailureSet         bool    `json:"failureSet"`
	CompletedTimestamp int64   `json:"completedTimestamp"`
	Note               string  `json:"note"`
}

type LoggedExerciseRequest struct {
	ExerciseID   string             `json:"exerciseId" binding:"required"`
	ExerciseName string             `json:"exerciseName"`
	Note         string             `json:"note"`
	RestSeconds  int                `json:"restSeconds" binding:"min=0"`
	Sets         []LoggedSetRequest `json:"sets" binding:"dive"`
}

// LogWorkoutRequest records a session that was not started from a routine.
type LogWorkoutRequest struct {
	Date            time.Time               `json:"date"`
	DurationMinutes int                     `json:"durationMinutes" binding:"min=0"`
	Note            string                  `json:"note"`
	Rating          int                     `json:"rating" binding:"min=0,max=5"`
	Completed       bool                    `json:"completed"`
	Exercises       []LoggedExerciseRequest `json:"exercises" binding:"required,min=1,dive"`
}

// WorkoutResponse adds the derived progress fields to a workout.
type WorkoutResponse struct {
	*domain.Workout
	CompletedSets        int    `json:"completedSets"`
	PlannedSets          int    `json:"plannedSets"`
	CompletionPercentage int    `json:"completionPercentage"`
	FormattedDuration    string `json:"formattedDuration"`
	InProgress           bool   `json:"inProgress"`
}

func (r LogWorkoutRequest) toDomain() *domain.Workout {
	w := domain.NewWorkout("", "", "", r.Date)
	w.DurationMinutes = r.DurationMinutes
	w.Note = r.Note
	w.Rating = r.Rating
	w.Completed = r.Completed
	for i, ex := range r.Exercises {
		we := domain.WorkoutExercise{
			ExerciseID:   ex.ExerciseID,
			ExerciseName: ex.ExerciseName,
			Note:         ex.Note,
			Order:        i,
			RestSeconds:  ex.RestSeconds,
			Sets:         make([]domain.WorkoutSet, 0, len(ex.Sets)),
		}
		for _, s := range ex.Sets {
			we.Sets = append(we.Sets, domain.WorkoutSet{
				TargetReps:         s.TargetReps,
				Reps:               s.Reps,
				Weight:             s.Weight,
				Completed:          s.Completed,
				DropSet:            s.DropSet,
				FailureSet:         s.FailureSet,
				CompletedTimestamp: s.CompletedTimestamp,
				Note:               s.Note,
			})
		}
		w.AddExercise(we)
	}
	return w
}

func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	if w.Exercises == nil {
		w.Exercises = []domain.WorkoutExercise{}
	}
	if w.MuscleGroupsWorked == nil {
		w.MuscleGroupsWorked = []string{}
	}
	return WorkoutResponse{
		Workout:              w,
		CompletedSets:        w.CompletedSetsCount(),
		PlannedSets:          w.PlannedSetsCount(),
		CompletionPercentage: w.CompletionPercentage(),
		FormattedDuration:    w.FormattedDuration(),
		InProgress:           w.IsInProgress(),
	}
}

func MapWorkoutsToResponse(workouts []domain.Workout) []WorkoutResponse {
	responses := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		responses[i] = MapWorkoutToResponse(&workouts[i])
	}
	return responses
}

// parsePositions reads the :ex (0-based) and :set (1-based set number) path params
// and returns both as 0-based positions. withSet=false skips :set.
func parsePositions(c *gin.Context, withSet bool) (exPos, setPos int, ok bool) {
	exPos, err := strconv.Atoi(c.Param("ex"))
	if err != nil || exPos < 0 {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise position.")
		return 0, 0, false
	}
	if !withSet {
		return exPos, 0, true
	}
	setNumber, err := strconv.Atoi(c.Param("set"))
	if err != nil || setNumber < 1 {
		abortWithError(c, http.StatusBadRequest, "Invalid set number.")
		return 0, 0, false
	}
	return exPos, setNumber - 1, true
}

func parseTimeQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, name+" must be an RFC3339 timestamp")
		return time.Time{}, false
	}
	return t, true
}

// --- Handler Methods ---

// StartWorkout godoc
// @Summary Start a workout from a routine
// @Description Materializes a new workout with planned sets seeded from the routine and the last session.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Routine ID"
// @Success 201 {object} WorkoutResponse
// @Failure 404 {object} gin.H "Routine not found"
// @Router /routines/{id}/workouts [post]
func (h *WorkoutHandler) StartWorkout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	workout, err := h.workoutService.StartWorkout(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout))
}

// LogWorkout godoc
// @Summary Log an ad-hoc workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body LogWorkoutRequest true "Workout"
// @Success 201 {object} WorkoutResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /workouts [post]
func (h *WorkoutHandler) LogWorkout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req LogWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	workout, err := h.workoutService.LogWorkout(c.Request.Context(), userID, req.toDomain())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout))
}

// ListWorkouts godoc
// @Summary Workout history
// @Description Newest first. Either bound may be omitted.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param from query string false "RFC3339 lower bound"
// @Param to query string false "RFC3339 upper bound"
// @Success 200 {array} WorkoutResponse
// @Failure 400 {object} gin.H "Invalid range"
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	from, ok := parseTimeQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseTimeQuery(c, "to")
	if !ok {
		return
	}

	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), userID, from, to)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutsToResponse(workouts))
}

// GetWorkout godoc
// @Summary Get a workout
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {object} WorkoutResponse
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id} [get]
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	workout, err := h.workoutService.GetWorkout(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// GetSummary godoc
// @Summary Workout summary
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {object} domain.Summary
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id}/summary [get]
func (h *WorkoutHandler) GetSummary(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	summary, err := h.workoutService.Summary(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// UpdateWorkout godoc
// @Summary Edit a workout's note or rating
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param body body UpdateWorkoutRequest true "Fields to change"
// @Success 200 {object} WorkoutResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id} [patch]
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	workout, err := h.workoutService.UpdateDetails(c.Request.Context(), userID, c.Param("id"), service.WorkoutDetails{
		Note:   req.Note,
		Rating: req.Rating,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// CompleteWorkout godoc
// @Summary Finish a workout
// @Description Marks the workout completed now. Repeating it recomputes duration and totals.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {object} WorkoutResponse
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id}/complete [post]
func (h *WorkoutHandler) CompleteWorkout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	workout, err := h.workoutService.CompleteWorkout(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// DeleteWorkout godoc
// @Summary Delete a workout
// @Tags Workouts
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 204
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id} [delete]
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.workoutService.DeleteWorkout(c.Request.Context(), userID, c.Param("id")); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddSet godoc
// @Summary Append a set to an exercise
// @Description The new set copies weight and target reps from the last set.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param ex path int true "Exercise position (0-based)"
// @Success 200 {object} WorkoutResponse
// @Failure 400 {object} gin.H "Position out of range"
// @Router /workouts/{id}/exercises/{ex}/sets [post]
func (h *WorkoutHandler) AddSet(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	exPos, _, ok := parsePositions(c, false)
	if !ok {
		return
	}
	workout, err := h.workoutService.AddSet(c.Request.Context(), userID, c.Param("id"), exPos)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// UpdateSet godoc
// @Summary Edit or complete a set
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param ex path int true "Exercise position (0-based)"
// @Param set path int true "Set number (1-based)"
// @Param body body UpdateSetRequest true "Fields to change"
// @Success 200 {object} WorkoutResponse
// @Failure 400 {object} gin.H "Invalid input or position"
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id}/exercises/{ex}/sets/{set} [patch]
func (h *WorkoutHandler) UpdateSet(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	exPos, setPos, ok := parsePositions(c, true)
	if !ok {
		return
	}
	var req UpdateSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	workout, err := h.workoutService.UpdateSet(c.Request.Context(), userID, c.Param("id"), exPos, setPos, service.SetUpdate{
		Reps:       req.Reps,
		Weight:     req.Weight,
		Completed:  req.Completed,
		DropSet:    req.DropSet,
		FailureSet: req.FailureSet,
		Note:       req.Note,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// RemoveSet godoc
// @Summary Remove a set
// @Description Following sets are renumbered.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param ex path int true "Exercise position (0-based)"
// @Param set path int true "Set number (1-based)"
// @Success 200 {object} WorkoutResponse
// @Failure 400 {object} gin.H "Position out of range"
// @Router /workouts/{id}/exercises/{ex}/sets/{set} [delete]
func (h *WorkoutHandler) RemoveSet(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	exPos, setPos, ok := parsePositions(c, true)
	if !ok {
		return
	}
	workout, err := h.workoutService.RemoveSet(c.Request.Context(), userID, c.Param("id"), exPos, setPos)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}
