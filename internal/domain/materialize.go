package domain

import (
	"sort"
	"time"
)

const unknownExerciseName = "Unknown Exercise"

// WorkoutShell carries the identity of the workout being started.
type WorkoutShell struct {
	UserID      string
	RoutineID   string
	RoutineName string
	Date        time.Time
}

// MaterializeOptions decorates the produced workout.
type MaterializeOptions struct {
	// Details supplies catalog names and muscle groups keyed by exercise id.
	Details map[string]Exercise
	// Previous is an earlier workout of the same routine. Its completed weights
	// seed the new sets.
	Previous *Workout
}

// Materialize turns a routine template into a fresh, independently mutable
// workout. The routine is not modified; calling it twice yields two unrelated
// workouts.
func Materialize(r *Routine, shell WorkoutShell, opts MaterializeOptions) *Workout {
	w := NewWorkout(shell.UserID, shell.RoutineID, shell.RoutineName, shell.Date)

	ordered := make([]RoutineExercise, len(r.Exercises))
	copy(ordered, r.Exercises)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	previous := previousWeights(opts.Previous)
	for _, re := range ordered {
		we := WorkoutExercise{
			ExerciseID:   re.ExerciseID,
			ExerciseName: unknownExerciseName,
			Sets:         make([]WorkoutSet, 0, max(re.Sets, 0)),
			Note:         re.Note,
			Order:        re.Order,
			RestSeconds:  re.RestSeconds,
		}
		if d, ok := opts.Details[re.ExerciseID]; ok && d.Name != "" {
			we.ExerciseName = d.Name
		}
		for i := 1; i <= re.Sets; i++ {
			set := WorkoutSet{SetNumber: i, TargetReps: re.RepsPerSet}
			if !re.UseBodyweight {
				set.Weight = re.Weight
				if wgt, ok := previous[setKey{re.ExerciseID, i}]; ok {
					set.Weight = wgt
				}
			}
			we.Sets = append(we.Sets, set)
		}
		w.AddExercise(we)
		for _, g := range muscleGroupsFor(re, opts.Details) {
			w.AddMuscleGroupWorked(g)
		}
	}
	return w
}

type setKey struct {
	exerciseID string
	setNumber  int
}

func previousWeights(prev *Workout) map[setKey]float64 {
	weights := map[setKey]float64{}
	if prev == nil {
		return weights
	}
	for _, ex := range prev.Exercises {
		for _, s := range ex.Sets {
			if s.Completed && s.Weight > 0 {
				weights[setKey{ex.ExerciseID, s.SetNumber}] = s.Weight
			}
		}
	}
	return weights
}
