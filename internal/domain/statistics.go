package domain

// WorkoutStatistics is the account-level rollup. It is never authoritative:
// Recompute over the workout history always reproduces it.
type WorkoutStatistics struct {
	TotalWorkouts int     `bson:"totalWorkouts" json:"totalWorkouts"`
	TotalMinutes  int     `bson:"totalMinutes" json:"totalMinutes"`
	TotalSets     int     `bson:"totalSets" json:"totalSets"`
	TotalWeight   float64 `bson:"totalWeight" json:"totalWeight"`
}

// Contribution is what one workout adds to the rollup. Workouts that are not
// completed contribute nothing.
//
// Both the full recomputation and the incremental path are built on this
// function, which keeps them equal.
func Contribution(w *Workout) WorkoutStatistics {
	if w == nil || !w.Completed {
		return WorkoutStatistics{}
	}
	return WorkoutStatistics{
		TotalWorkouts: 1,
		TotalMinutes:  w.DurationMinutes,
		TotalSets:     w.CompletedSetsCount(),
		TotalWeight:   w.TotalVolume,
	}
}

// Delta is the change to the rollup when a workout goes from before to after.
// Pass nil for before on creation and nil for after on deletion.
func Delta(before, after *Workout) WorkoutStatistics {
	return Contribution(after).Sub(Contribution(before))
}

// Recompute folds the contributions of every workout in history.
func Recompute(history []Workout) WorkoutStatistics {
	var total WorkoutStatistics
	for i := range history {
		total = total.Add(Contribution(&history[i]))
	}
	return total
}

func (s WorkoutStatistics) Add(o WorkoutStatistics) WorkoutStatistics {
	return WorkoutStatistics{
		TotalWorkouts: s.TotalWorkouts + o.TotalWorkouts,
		TotalMinutes:  s.TotalMinutes + o.TotalMinutes,
		TotalSets:     s.TotalSets + o.TotalSets,
		TotalWeight:   s.TotalWeight + o.TotalWeight,
	}
}

func (s WorkoutStatistics) Sub(o WorkoutStatistics) WorkoutStatistics {
	return WorkoutStatistics{
		TotalWorkouts: s.TotalWorkouts - o.TotalWorkouts,
		TotalMinutes:  s.TotalMinutes - o.TotalMinutes,
		TotalSets:     s.TotalSets - o.TotalSets,
		TotalWeight:   s.TotalWeight - o.TotalWeight,
	}
}

func (s WorkoutStatistics) IsZero() bool {
	return s == WorkoutStatistics{}
}

// IncrementWorkoutCount is the single-field delta for one more completed workout.
func IncrementWorkoutCount() WorkoutStatistics {
	return WorkoutStatistics{TotalWorkouts: 1}
}

// AddWorkoutMinutes is the single-field delta for minutes trained.
func AddWorkoutMinutes(minutes int) WorkoutStatistics {
	return WorkoutStatistics{TotalMinutes: minutes}
}
