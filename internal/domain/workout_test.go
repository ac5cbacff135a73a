package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 3, 4, 18, 0, 0, 0, time.UTC)

func newTestRoutine(exercises ...RoutineExercise) *Routine {
	r := &Routine{ID: "r1", UserID: "u1", Name: "Push Day"}
	for _, ex := range exercises {
		r.AddExercise(ex)
	}
	return r
}

func shellFor(r *Routine) WorkoutShell {
	return WorkoutShell{UserID: r.UserID, RoutineID: r.ID, RoutineName: r.Name, Date: start}
}

func TestMaterialize_Fidelity(t *testing.T) {
	r := newTestRoutine(
		RoutineExercise{ExerciseID: "e1", Sets: 3, RepsPerSet: 10, Weight: 40, Note: "slow", RestSeconds: 90},
		RoutineExercise{ExerciseID: "e2", Sets: 0, RepsPerSet: 12},
	)

	w := Materialize(r, shellFor(r), MaterializeOptions{})

	require.Len(t, w.Exercises, 2)
	first := w.Exercises[0]
	require.Len(t, first.Sets, 3)
	for i, s := range first.Sets {
		assert.Equal(t, i+1, s.SetNumber)
		assert.False(t, s.Completed)
		assert.Zero(t, s.CompletedTimestamp)
		assert.Equal(t, 10, s.TargetReps)
		assert.Equal(t, 40.0, s.Weight)
	}
	assert.Equal(t, "slow", first.Note)
	assert.Equal(t, 90, first.RestSeconds)
	assert.Equal(t, 0, first.Order)
	assert.Equal(t, unknownExerciseName, first.ExerciseName)

	assert.Empty(t, w.Exercises[1].Sets)
	assert.Equal(t, 3, w.PlannedSetsCount())
	assert.Equal(t, "u1", w.UserID)
	assert.Equal(t, "r1", w.RoutineID)
	assert.Equal(t, "Push Day", w.RoutineName)
	assert.Equal(t, start, w.Date)
	assert.False(t, w.Completed)
}

func TestMaterialize_BodyweightStartsAtZero(t *testing.T) {
	r := newTestRoutine(RoutineExercise{ExerciseID: "pullup", Sets: 2, RepsPerSet: 5, Weight: 15, UseBodyweight: true})

	w := Materialize(r, shellFor(r), MaterializeOptions{})

	for _, s := range w.Exercises[0].Sets {
		assert.Zero(t, s.Weight)
	}
}

func TestMaterialize_NegativeSetsYieldEmptyList(t *testing.T) {
	r := &Routine{Exercises: []RoutineExercise{{ExerciseID: "e1", Sets: -2}}}

	w := Materialize(r, WorkoutShell{UserID: "u1"}, MaterializeOptions{})

	require.Len(t, w.Exercises, 1)
	assert.Empty(t, w.Exercises[0].Sets)
	assert.Equal(t, 0, w.CompletionPercentage())
}

func TestMaterialize_OrdersByOrderThenPosition(t *testing.T) {
	r := &Routine{Exercises: []RoutineExercise{
		{ExerciseID: "c", Order: 2, Sets: 1},
		{ExerciseID: "a", Order: 0, Sets: 1},
		{ExerciseID: "b1", Order: 1, Sets: 1},
		{ExerciseID: "b2", Order: 1, Sets: 1},
	}}

	w := Materialize(r, WorkoutShell{}, MaterializeOptions{})

	assert.Equal(t, []string{"a", "b1", "b2", "c"}, w.ExerciseIDs())
	// the template keeps its own order
	assert.Equal(t, "c", r.Exercises[0].ExerciseID)
}

func TestMaterialize_IndependentInstances(t *testing.T) {
	r := newTestRoutine(RoutineExercise{ExerciseID: "bench", Sets: 3, RepsPerSet: 8, Weight: 60})
	before := *r
	before.Exercises = append([]RoutineExercise(nil), r.Exercises...)

	w1 := Materialize(r, shellFor(r), MaterializeOptions{})
	w2 := Materialize(r, shellFor(r), MaterializeOptions{})
	w1.Exercises[0].Sets[0].Complete(8, 70, start)

	assert.False(t, w2.Exercises[0].Sets[0].Completed)
	assert.Equal(t, 60.0, w2.Exercises[0].Sets[0].Weight)
	if diff := cmp.Diff(before, *r); diff != "" {
		t.Errorf("routine mutated by materialization (-want +got):\n%s", diff)
	}

	r.Exercises[0].Sets = 5
	assert.Len(t, w2.Exercises[0].Sets, 3)
}

func TestMaterialize_DecoratesFromCatalogAndHistory(t *testing.T) {
	r := newTestRoutine(
		RoutineExercise{ExerciseID: "bench", Sets: 2, RepsPerSet: 8, Weight: 60},
		RoutineExercise{ExerciseID: "dip", Sets: 1, RepsPerSet: 10, UseBodyweight: true, MuscleGroupID: "triceps"},
	)
	details := map[string]Exercise{
		"bench": {ID: "bench", Name: "Bench Press", MuscleGroups: []string{"chest", "triceps"}, PrimaryMuscleGroup: "chest"},
		"dip":   {ID: "dip", Name: "Dip", MuscleGroups: []string{"chest", "triceps"}},
	}
	previous := &Workout{Exercises: []WorkoutExercise{
		{ExerciseID: "bench", Sets: []WorkoutSet{
			{SetNumber: 1, Weight: 65, Completed: true, CompletedTimestamp: 1},
			{SetNumber: 2, Weight: 70},
		}},
		{ExerciseID: "dip", Sets: []WorkoutSet{{SetNumber: 1, Weight: 10, Completed: true, CompletedTimestamp: 1}}},
	}}

	w := Materialize(r, shellFor(r), MaterializeOptions{Details: details, Previous: previous})

	assert.Equal(t, "Bench Press", w.Exercises[0].ExerciseName)
	assert.Equal(t, "Dip", w.Exercises[1].ExerciseName)
	assert.Equal(t, 65.0, w.Exercises[0].Sets[0].Weight)
	assert.Equal(t, 60.0, w.Exercises[0].Sets[1].Weight, "incomplete history set must not seed")
	assert.Zero(t, w.Exercises[1].Sets[0].Weight, "bodyweight ignores history")
	assert.Equal(t, 8, w.Exercises[0].Sets[0].TargetReps)
	assert.Equal(t, []string{"chest", "triceps"}, w.MuscleGroupsWorked)
}

func TestWorkoutSet_StateInvariant(t *testing.T) {
	var s WorkoutSet
	check := func() {
		t.Helper()
		assert.Equal(t, s.Completed, s.CompletedTimestamp != 0)
	}

	check()
	s.SetCompleted(true, start)
	check()
	assert.Equal(t, start.UnixMilli(), s.CompletedTimestamp)
	s.SetCompleted(false, start)
	check()
	s.Complete(8, 60, start.Add(time.Minute))
	check()
	s.SetCompleted(false, start)
	check()
	assert.Equal(t, 8, s.Reps, "un-completing keeps recorded reps")
	assert.Equal(t, 60.0, s.Weight, "un-completing keeps recorded weight")
	assert.True(t, s.CompletedAt().IsZero())
}

func TestWorkoutSet_RecompletionKeepsTimestamp(t *testing.T) {
	var s WorkoutSet
	s.Complete(8, 60, start)
	first := s.CompletedTimestamp

	s.Complete(8, 60, start.Add(10*time.Minute))
	assert.Equal(t, first, s.CompletedTimestamp)

	s.SetCompleted(true, start.Add(20*time.Minute))
	assert.Equal(t, first, s.CompletedTimestamp)
	assert.Equal(t, start.UnixMilli(), s.CompletedAt().UnixMilli())
}

func TestWorkoutSet_IsTargetReached(t *testing.T) {
	tests := []struct {
		name string
		set  WorkoutSet
		want bool
	}{
		{"planned", WorkoutSet{TargetReps: 8, Reps: 10}, false},
		{"below target", WorkoutSet{TargetReps: 8, Reps: 7, Completed: true, CompletedTimestamp: 1}, false},
		{"at target", WorkoutSet{TargetReps: 8, Reps: 8, Completed: true, CompletedTimestamp: 1}, true},
		{"above target", WorkoutSet{TargetReps: 8, Reps: 12, Completed: true, CompletedTimestamp: 1}, true},
		{"no target", WorkoutSet{Reps: 12, Completed: true, CompletedTimestamp: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.set.IsTargetReached())
		})
	}
}

func TestWorkoutSet_DisplayString(t *testing.T) {
	s := WorkoutSet{SetNumber: 2, TargetReps: 8}
	assert.Equal(t, "Set 2: planned 8 reps at --", s.DisplayString(true))

	s.Complete(6, 62.5, start)
	s.FailureSet = true
	assert.Equal(t, "Set 2: 6 reps at 62.5 kg (failure)", s.DisplayString(true))
}

func TestWorkout_CompletionPercentage(t *testing.T) {
	empty := NewWorkout("u1", "", "", start)
	assert.Equal(t, 0, empty.CompletionPercentage())

	empty.AddExercise(WorkoutExercise{ExerciseID: "e1"})
	assert.Equal(t, 0, empty.CompletionPercentage())

	w := NewWorkout("u1", "", "", start)
	w.AddExercise(WorkoutExercise{ExerciseID: "e1", Sets: make([]WorkoutSet, 4)})
	for i := 0; i < 3; i++ {
		w.Exercises[0].Sets[i].Complete(5, 10, start)
	}
	assert.Equal(t, 3, w.CompletedSetsCount())
	assert.Equal(t, 4, w.PlannedSetsCount())
	assert.Equal(t, 75, w.CompletionPercentage())
}

func TestPercentage_RoundsHalfUp(t *testing.T) {
	assert.Equal(t, 67, percentage(2, 3))
	assert.Equal(t, 33, percentage(1, 3))
	assert.Equal(t, 13, percentage(1, 8)) // 12.5
	assert.Equal(t, 100, percentage(5, 5))
}

func TestWorkout_VolumeAndReps(t *testing.T) {
	w := NewWorkout("u1", "", "", start)
	w.AddExercise(WorkoutExercise{ExerciseID: "e1", Sets: []WorkoutSet{{}, {}}})
	w.AddExercise(WorkoutExercise{ExerciseID: "e2", Sets: []WorkoutSet{{Reps: 5, Weight: 100}}})
	w.Exercises[0].Sets[0].Complete(10, 20, start)
	w.Exercises[0].Sets[1].Complete(8, 25, start)

	assert.Equal(t, 400.0, w.Volume())
	assert.Equal(t, 18, w.Reps())

	w.CalculateTotals()
	assert.Equal(t, 400.0, w.TotalVolume)
	assert.Equal(t, 18, w.TotalReps)
}

func TestWorkout_MarkCompletedOverwrites(t *testing.T) {
	w := NewWorkout("u1", "", "", start)
	w.AddExercise(WorkoutExercise{ExerciseID: "e1", Sets: []WorkoutSet{{}, {}}})
	w.Exercises[0].Sets[0].Complete(10, 20, start)

	w.MarkCompleted(start.Add(45*time.Minute + 59*time.Second))
	assert.True(t, w.Completed)
	assert.Equal(t, 45, w.DurationMinutes)
	assert.Equal(t, 200.0, w.TotalVolume)
	assert.False(t, w.Exercises[0].Completed)

	w.Exercises[0].Sets[1].Complete(10, 20, start)
	w.MarkCompleted(start.Add(50 * time.Minute))
	assert.Equal(t, 50, w.DurationMinutes)
	assert.Equal(t, 400.0, w.TotalVolume)
	assert.Equal(t, 20, w.TotalReps)
	assert.True(t, w.Exercises[0].Completed)

	w.MarkCompleted(start.Add(-time.Minute))
	assert.Equal(t, 0, w.DurationMinutes)
}

func TestWorkout_MuscleGroupsAddIfAbsent(t *testing.T) {
	w := NewWorkout("u1", "", "", start)
	w.AddMuscleGroupWorked("chest")
	w.AddMuscleGroupWorked("back")
	w.AddMuscleGroupWorked("chest")
	w.AddMuscleGroupWorked("")

	assert.Equal(t, []string{"chest", "back"}, w.MuscleGroupsWorked)
}

func TestWorkout_FormattedDuration(t *testing.T) {
	for minutes, want := range map[int]string{0: "0m", 45: "45m", 60: "1h", 65: "1h 5m", 125: "2h 5m"} {
		w := Workout{DurationMinutes: minutes}
		assert.Equal(t, want, w.FormattedDuration())
	}
}

func TestWorkout_SetRating(t *testing.T) {
	var w Workout
	require.NoError(t, w.SetRating(5))
	require.NoError(t, w.SetRating(0))
	assert.ErrorIs(t, w.SetRating(6), ErrInvalidRating)
	assert.ErrorIs(t, w.SetRating(-1), ErrInvalidRating)
}

func TestWorkout_CloneIsDeep(t *testing.T) {
	w := NewWorkout("u1", "", "", start)
	w.AddExercise(WorkoutExercise{ExerciseID: "e1", Sets: []WorkoutSet{{}}})
	w.AddMuscleGroupWorked("chest")

	cp := w.Clone()
	cp.Exercises[0].Sets[0].Complete(1, 1, start)
	cp.AddMuscleGroupWorked("legs")

	assert.False(t, w.Exercises[0].Sets[0].Completed)
	assert.Equal(t, []string{"chest"}, w.MuscleGroupsWorked)
}

func TestWorkoutExercise_SetEditing(t *testing.T) {
	we := WorkoutExercise{ExerciseID: "e1"}
	we.AddSet(WorkoutSet{TargetReps: 8, Weight: 50})
	we.AddEmptySet()
	we.AddEmptySet()

	require.Len(t, we.Sets, 3)
	assert.Equal(t, 3, we.Sets[2].SetNumber)
	assert.Equal(t, 50.0, we.Sets[2].Weight)
	assert.Equal(t, 8, we.Sets[2].TargetReps)

	removed, err := we.RemoveSet(0)
	require.NoError(t, err)
	assert.Equal(t, 1, removed.SetNumber)
	assert.Equal(t, []int{1, 2}, []int{we.Sets[0].SetNumber, we.Sets[1].SetNumber})

	_, err = we.RemoveSet(5)
	assert.ErrorIs(t, err, ErrPositionOutOfRange)

	for i := range we.Sets {
		we.Sets[i].Complete(8, 50, start)
	}
	we.UpdateCompletionStatus()
	assert.True(t, we.Completed)
	assert.Equal(t, 100, we.CompletionPercentage())
	assert.Equal(t, "1:00", (&WorkoutExercise{RestSeconds: 60}).FormattedRestTime())
}

func TestEndToEnd_PushDay(t *testing.T) {
	r := &Routine{ID: "r1", UserID: "u1", Name: "Push Day"}
	r.AddExercise(RoutineExercise{ExerciseID: "bench", Sets: 3, RepsPerSet: 8, Weight: 60})

	w := Materialize(r, shellFor(r), MaterializeOptions{})
	for i := range w.Exercises[0].Sets {
		w.Exercises[0].Sets[i].Complete(8, 60, start.Add(time.Duration(i)*time.Minute))
	}
	w.MarkCompleted(start.Add(30 * time.Minute))

	assert.Equal(t, 1440.0, w.TotalVolume)
	assert.Equal(t, 24, w.TotalReps)
	assert.Equal(t, 100, w.CompletionPercentage())
	assert.True(t, w.Completed)
	assert.True(t, w.Exercises[0].Completed)
	assert.Equal(t, 30, w.DurationMinutes)
}
