package domain

import (
	"time"
)

// Workout is a dated training session. It owns its exercises, which own their
// sets; nothing in the tree points back up, and nothing is written back to the
// routine it came from.
type Workout struct {
	ID                 string            `bson:"_id,omitempty" json:"id"`
	UserID             string            `bson:"userId" json:"userId"`
	RoutineID          string            `bson:"routineId,omitempty" json:"routineId,omitempty"` // empty for ad-hoc workouts
	RoutineName        string            `bson:"routineName,omitempty" json:"routineName,omitempty"`
	Date               time.Time         `bson:"date" json:"date"`
	Exercises          []WorkoutExercise `bson:"exercises" json:"exercises"`
	DurationMinutes    int               `bson:"durationMinutes" json:"durationMinutes"`
	Note               string            `bson:"note,omitempty" json:"note,omitempty"`
	Rating             int               `bson:"rating" json:"rating"` // 0 = unrated
	TotalVolume        float64           `bson:"totalVolume" json:"totalVolume"`
	TotalReps          int               `bson:"totalReps" json:"totalReps"`
	Completed          bool              `bson:"completed" json:"completed"`
	MuscleGroupsWorked []string          `bson:"muscleGroupsWorked" json:"muscleGroupsWorked"`
	CreatedAt          time.Time         `bson:"createdAt" json:"createdAt"`
}

// NewWorkout returns an empty, not yet completed workout shell.
func NewWorkout(userID, routineID, routineName string, date time.Time) *Workout {
	return &Workout{
		UserID:             userID,
		RoutineID:          routineID,
		RoutineName:        routineName,
		Date:               date,
		Exercises:          []WorkoutExercise{},
		MuscleGroupsWorked: []string{},
	}
}

func (w *Workout) AddExercise(ex WorkoutExercise) {
	w.Exercises = append(w.Exercises, ex)
}

// Exercise returns the exercise at position for in-place mutation.
func (w *Workout) Exercise(position int) (*WorkoutExercise, error) {
	if position < 0 || position >= len(w.Exercises) {
		return nil, ErrPositionOutOfRange
	}
	return &w.Exercises[position], nil
}

// AddMuscleGroupWorked records a muscle group once; repeated tags are ignored.
func (w *Workout) AddMuscleGroupWorked(group string) {
	w.MuscleGroupsWorked = appendIfAbsent(w.MuscleGroupsWorked, group)
}

// SetRating accepts 1..5, or 0 to clear the rating.
func (w *Workout) SetRating(rating int) error {
	if rating < 0 || rating > 5 {
		return ErrInvalidRating
	}
	w.Rating = rating
	return nil
}

func (w *Workout) ExerciseCount() int {
	return len(w.Exercises)
}

func (w *Workout) ExerciseIDs() []string {
	ids := make([]string, 0, len(w.Exercises))
	for _, ex := range w.Exercises {
		ids = append(ids, ex.ExerciseID)
	}
	return ids
}

// CompletedSetsCount counts completed sets across all exercises.
func (w *Workout) CompletedSetsCount() int {
	n := 0
	for i := range w.Exercises {
		n += w.Exercises[i].CompletedSets()
	}
	return n
}

// PlannedSetsCount counts every set regardless of state.
func (w *Workout) PlannedSetsCount() int {
	n := 0
	for _, ex := range w.Exercises {
		n += len(ex.Sets)
	}
	return n
}

// CompletionPercentage is completed/planned*100 rounded half up, and 0 with no planned sets.
func (w *Workout) CompletionPercentage() int {
	return percentage(w.CompletedSetsCount(), w.PlannedSetsCount())
}

// Volume sums reps*weight over completed sets. Unlike TotalVolume it is never stale.
func (w *Workout) Volume() float64 {
	var v float64
	for i := range w.Exercises {
		v += w.Exercises[i].Volume()
	}
	return v
}

// Reps sums reps over completed sets.
func (w *Workout) Reps() int {
	n := 0
	for i := range w.Exercises {
		n += w.Exercises[i].TotalReps()
	}
	return n
}

// CalculateTotals overwrites TotalVolume and TotalReps from the current set data.
func (w *Workout) CalculateTotals() {
	w.TotalVolume = w.Volume()
	w.TotalReps = w.Reps()
}

// MarkCompleted completes the workout as of now. Calling it again recomputes
// duration and totals instead of accumulating them.
func (w *Workout) MarkCompleted(now time.Time) {
	w.Completed = true
	elapsed := now.Sub(w.Date)
	if elapsed < 0 {
		elapsed = 0
	}
	w.DurationMinutes = int(elapsed / time.Minute)
	for i := range w.Exercises {
		w.Exercises[i].UpdateCompletionStatus()
	}
	w.CalculateTotals()
}

// IsInProgress is true once a set is completed but the workout is not.
func (w *Workout) IsInProgress() bool {
	return !w.Completed && w.CompletedSetsCount() > 0
}

func (w *Workout) FormattedDuration() string {
	return formatMinutes(w.DurationMinutes)
}

// Clone returns a deep copy of the workout tree.
func (w *Workout) Clone() *Workout {
	cp := *w
	cp.Exercises = make([]WorkoutExercise, len(w.Exercises))
	for i, ex := range w.Exercises {
		ex.Sets = append([]WorkoutSet(nil), ex.Sets...)
		cp.Exercises[i] = ex
	}
	cp.MuscleGroupsWorked = append([]string(nil), w.MuscleGroupsWorked...)
	return &cp
}

// Summary is a read-only snapshot of everything derivable from a workout tree.
type Summary struct {
	CompletedSets        int      `json:"completedSets"`
	PlannedSets          int      `json:"plannedSets"`
	CompletionPercentage int      `json:"completionPercentage"`
	TotalVolume          float64  `json:"totalVolume"`
	TotalReps            int      `json:"totalReps"`
	DurationMinutes      int      `json:"durationMinutes"`
	FormattedDuration    string   `json:"formattedDuration"`
	MuscleGroupsWorked   []string `json:"muscleGroupsWorked"`
	InProgress           bool     `json:"inProgress"`
}

func (w *Workout) Summarize() Summary {
	groups := append([]string{}, w.MuscleGroupsWorked...)
	return Summary{
		CompletedSets:        w.CompletedSetsCount(),
		PlannedSets:          w.PlannedSetsCount(),
		CompletionPercentage: w.CompletionPercentage(),
		TotalVolume:          w.Volume(),
		TotalReps:            w.Reps(),
		DurationMinutes:      w.DurationMinutes,
		FormattedDuration:    w.FormattedDuration(),
		MuscleGroupsWorked:   groups,
		InProgress:           w.IsInProgress(),
	}
}

// percentage computes part/whole*100 rounded half up; 0 when whole is 0.
func percentage(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return (part*200 + whole) / (2 * whole)
}
