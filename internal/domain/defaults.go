package domain

type templateExercise struct {
	exerciseID  string
	sets, reps  int
	muscleGroup string
}

var defaultTemplates = []struct {
	name      string
	exercises []templateExercise
}{
	{"Upper Body", []templateExercise{
		{"bench_press", 3, 8, "chest"},
		{"pull_ups", 3, 8, "back"},
		{"shoulder_press", 3, 10, "shoulders"},
		{"bicep_curls", 3, 12, "arms"},
		{"tricep_extensions", 3, 12, "arms"},
	}},
	{"Lower Body", []templateExercise{
		{"squats", 4, 8, "legs"},
		{"deadlifts", 3, 6, "back"},
		{"leg_press", 3, 10, "legs"},
		{"leg_curls", 3, 12, "legs"},
		{"calf_raises", 4, 15, "legs"},
	}},
	{"Full Body", []templateExercise{
		{"squats", 3, 8, "legs"},
		{"bench_press", 3, 8, "chest"},
		{"rows", 3, 10, "back"},
		{"shoulder_press", 3, 10, "shoulders"},
		{"leg_curls", 3, 12, "legs"},
	}},
}

// DefaultRoutines are the starter routines every new account receives.
func DefaultRoutines(userID string) []Routine {
	routines := make([]Routine, 0, len(defaultTemplates))
	for _, tpl := range defaultTemplates {
		r := Routine{UserID: userID, Name: tpl.name}
		for _, ex := range tpl.exercises {
			re := NewRoutineExercise(ex.exerciseID, ex.sets, ex.reps)
			re.MuscleGroupID = ex.muscleGroup
			r.AddExercise(re)
		}
		r.RefreshMuscleGroups(nil)
		routines = append(routines, r)
	}
	return routines
}
