// internal/domain/routine.go
package domain

import (
	"fmt"
	"time"
)

// DefaultRestSeconds is used when a routine exercise is created without a rest period.
const DefaultRestSeconds = 60

// RoutineExercise is one target exercise inside a routine template.
// Within a routine it is identified by (ExerciseID, Order).
type RoutineExercise struct {
	ExerciseID    string  `bson:"exerciseId" json:"exerciseId"`
	Sets          int     `bson:"sets" json:"sets"`
	RepsPerSet    int     `bson:"repsPerSet" json:"repsPerSet"`
	Weight        float64 `bson:"weight" json:"weight"`
	Note          string  `bson:"note,omitempty" json:"note,omitempty"`
	RestSeconds   int     `bson:"restSeconds" json:"restSeconds"`
	UseBodyweight bool    `bson:"useBodyweight" json:"useBodyweight"`
	Order         int     `bson:"order" json:"order"`
	MuscleGroupID string  `bson:"muscleGroupId,omitempty" json:"muscleGroupId,omitempty"` // overrides the catalog muscle groups
}

// NewRoutineExercise returns a routine exercise with the default rest period.
func NewRoutineExercise(exerciseID string, sets, repsPerSet int) RoutineExercise {
	return RoutineExercise{
		ExerciseID:  exerciseID,
		Sets:        sets,
		RepsPerSet:  repsPerSet,
		RestSeconds: DefaultRestSeconds,
	}
}

func (re *RoutineExercise) Validate() error {
	if re.ExerciseID == "" {
		return ErrExerciseIDRequired
	}
	if re.Sets < 0 {
		return ErrNegativeSets
	}
	if re.RepsPerSet < 0 {
		return ErrNegativeReps
	}
	if re.Weight < 0 {
		return ErrNegativeWeight
	}
	return nil
}

// SetsAndReps renders "3 x 8".
func (re *RoutineExercise) SetsAndReps() string {
	return fmt.Sprintf("%d x %d", re.Sets, re.RepsPerSet)
}

func (re *RoutineExercise) FormattedRestTime() string {
	return formatClock(re.RestSeconds)
}

func (re *RoutineExercise) FormattedWeight(useKg bool) string {
	if re.UseBodyweight {
		return "Body weight"
	}
	if re.Weight <= 0 {
		return "-"
	}
	return formatWeight(re.Weight, useKg)
}

// Routine is a reusable workout template. Workouts materialized from it never
// observe later edits.
type Routine struct {
	ID                string            `bson:"_id,omitempty" json:"id"`
	UserID            string            `bson:"userId" json:"userId"`
	Name              string            `bson:"name" json:"name"`
	Description       string            `bson:"description,omitempty" json:"description,omitempty"`
	Difficulty        Difficulty        `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	EstimatedDuration int               `bson:"estimatedDuration" json:"estimatedDuration"` // minutes
	TargetMuscleGroup string            `bson:"targetMuscleGroup,omitempty" json:"targetMuscleGroup,omitempty"`
	Category          string            `bson:"category,omitempty" json:"category,omitempty"`
	Exercises         []RoutineExercise `bson:"exercises" json:"exercises"`
	AllMuscleGroups   []string          `bson:"allMuscleGroups" json:"allMuscleGroups"`
	TimesCompleted    int               `bson:"timesCompleted" json:"timesCompleted"`
	CreatedAt         time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// Validate checks the routine and every exercise in it.
func (r *Routine) Validate() error {
	if r.Name == "" {
		return ErrRoutineNameRequired
	}
	if !r.Difficulty.Valid() {
		return ErrInvalidDifficulty
	}
	for i := range r.Exercises {
		if err := r.Exercises[i].Validate(); err != nil {
			return fmt.Errorf("exercise %d: %w", i, err)
		}
	}
	return nil
}

// AddExercise appends ex at the end, assigning the next order value.
func (r *Routine) AddExercise(ex RoutineExercise) {
	ex.Order = len(r.Exercises)
	r.Exercises = append(r.Exercises, ex)
}

// RemoveExercise removes the exercise at position and renumbers the rest.
func (r *Routine) RemoveExercise(position int) (RoutineExercise, error) {
	if position < 0 || position >= len(r.Exercises) {
		return RoutineExercise{}, ErrPositionOutOfRange
	}
	removed := r.Exercises[position]
	r.Exercises = append(r.Exercises[:position:position], r.Exercises[position+1:]...)
	r.renumber()
	return removed, nil
}

// MoveExercise moves the exercise at from to position to and renumbers.
func (r *Routine) MoveExercise(from, to int) error {
	n := len(r.Exercises)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrPositionOutOfRange
	}
	ex := r.Exercises[from]
	rest := append(r.Exercises[:from:from], r.Exercises[from+1:]...)
	moved := make([]RoutineExercise, 0, n)
	moved = append(moved, rest[:to]...)
	moved = append(moved, ex)
	moved = append(moved, rest[to:]...)
	r.Exercises = moved
	r.renumber()
	return nil
}

// UpdateExercise replaces the exercise at position, keeping its order value.
func (r *Routine) UpdateExercise(position int, ex RoutineExercise) error {
	if position < 0 || position >= len(r.Exercises) {
		return ErrPositionOutOfRange
	}
	ex.Order = r.Exercises[position].Order
	r.Exercises[position] = ex
	return nil
}

func (r *Routine) renumber() {
	for i := range r.Exercises {
		r.Exercises[i].Order = i
	}
}

func (r *Routine) ExerciseCount() int {
	return len(r.Exercises)
}

// TotalSets is the number of planned sets across all exercises; non-positive set counts add nothing.
func (r *Routine) TotalSets() int {
	total := 0
	for _, ex := range r.Exercises {
		if ex.Sets > 0 {
			total += ex.Sets
		}
	}
	return total
}

// ExerciseIDs lists exercise ids in routine order, without duplicates.
func (r *Routine) ExerciseIDs() []string {
	seen := make(map[string]struct{}, len(r.Exercises))
	ids := make([]string, 0, len(r.Exercises))
	for _, ex := range r.Exercises {
		if _, ok := seen[ex.ExerciseID]; ok {
			continue
		}
		seen[ex.ExerciseID] = struct{}{}
		ids = append(ids, ex.ExerciseID)
	}
	return ids
}

func (r *Routine) IncrementTimesCompleted() {
	r.TimesCompleted++
}

// RefreshMuscleGroups rebuilds the denormalized AllMuscleGroups list from the
// exercise overrides and the supplied catalog details.
func (r *Routine) RefreshMuscleGroups(details map[string]Exercise) {
	groups := []string{}
	for _, ex := range r.Exercises {
		for _, g := range muscleGroupsFor(ex, details) {
			groups = appendIfAbsent(groups, g)
		}
	}
	r.AllMuscleGroups = groups
}

// Copy returns a deep copy owned by userID. The copy is never completed and has no id.
func (r *Routine) Copy(userID, name string) *Routine {
	if name == "" {
		name = r.Name + " (Copy)"
	}
	cp := &Routine{
		UserID:            userID,
		Name:              name,
		Description:       r.Description,
		Difficulty:        r.Difficulty,
		EstimatedDuration: r.EstimatedDuration,
		TargetMuscleGroup: r.TargetMuscleGroup,
		Category:          r.Category,
		Exercises:         make([]RoutineExercise, len(r.Exercises)),
		AllMuscleGroups:   make([]string, len(r.AllMuscleGroups)),
	}
	copy(cp.Exercises, r.Exercises)
	copy(cp.AllMuscleGroups, r.AllMuscleGroups)
	return cp
}

// muscleGroupsFor resolves what a routine exercise trains: the explicit override
// wins, then the catalog record.
func muscleGroupsFor(ex RoutineExercise, details map[string]Exercise) []string {
	if ex.MuscleGroupID != "" {
		return []string{ex.MuscleGroupID}
	}
	if d, ok := details[ex.ExerciseID]; ok {
		return d.TargetMuscleGroups()
	}
	return nil
}

func appendIfAbsent(list []string, v string) []string {
	if v == "" {
		return list
	}
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
