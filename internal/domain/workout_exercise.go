package domain

// WorkoutExercise owns its sets. SetNumber is 1-based and dense.
type WorkoutExercise struct {
	ExerciseID   string       `bson:"exerciseId" json:"exerciseId"`
	ExerciseName string       `bson:"exerciseName" json:"exerciseName"`
	Sets         []WorkoutSet `bson:"sets" json:"sets"`
	Completed    bool         `bson:"completed" json:"completed"`
	Note         string       `bson:"note,omitempty" json:"note,omitempty"`
	Order        int          `bson:"order" json:"order"`
	RestSeconds  int          `bson:"restSeconds" json:"restSeconds"`
}

// AddSet appends set, renumbering it to the next set number.
func (we *WorkoutExercise) AddSet(set WorkoutSet) *WorkoutSet {
	set.SetNumber = len(we.Sets) + 1
	we.Sets = append(we.Sets, set)
	we.UpdateCompletionStatus()
	return &we.Sets[len(we.Sets)-1]
}

// AddEmptySet appends a planned set that inherits weight and target reps from the last set.
func (we *WorkoutExercise) AddEmptySet() *WorkoutSet {
	var set WorkoutSet
	if n := len(we.Sets); n > 0 {
		set.Weight = we.Sets[n-1].Weight
		set.TargetReps = we.Sets[n-1].TargetReps
	}
	return we.AddSet(set)
}

// RemoveSet deletes the set at position and renumbers the following sets.
func (we *WorkoutExercise) RemoveSet(position int) (WorkoutSet, error) {
	if position < 0 || position >= len(we.Sets) {
		return WorkoutSet{}, ErrPositionOutOfRange
	}
	removed := we.Sets[position]
	we.Sets = append(we.Sets[:position:position], we.Sets[position+1:]...)
	for i := position; i < len(we.Sets); i++ {
		we.Sets[i].SetNumber = i + 1
	}
	we.UpdateCompletionStatus()
	return removed, nil
}

// Set returns the set at position for in-place mutation.
func (we *WorkoutExercise) Set(position int) (*WorkoutSet, error) {
	if position < 0 || position >= len(we.Sets) {
		return nil, ErrPositionOutOfRange
	}
	return &we.Sets[position], nil
}

func (we *WorkoutExercise) CompletedSets() int {
	n := 0
	for _, s := range we.Sets {
		if s.Completed {
			n++
		}
	}
	return n
}

// AllSetsCompleted is false for an exercise without sets.
func (we *WorkoutExercise) AllSetsCompleted() bool {
	if len(we.Sets) == 0 {
		return false
	}
	for _, s := range we.Sets {
		if !s.Completed {
			return false
		}
	}
	return true
}

func (we *WorkoutExercise) UpdateCompletionStatus() {
	we.Completed = we.AllSetsCompleted()
}

// Volume sums reps*weight over completed sets.
func (we *WorkoutExercise) Volume() float64 {
	var v float64
	for _, s := range we.Sets {
		if s.Completed {
			v += s.Volume()
		}
	}
	return v
}

func (we *WorkoutExercise) TotalReps() int {
	reps := 0
	for _, s := range we.Sets {
		if s.Completed {
			reps += s.Reps
		}
	}
	return reps
}

func (we *WorkoutExercise) CompletionPercentage() int {
	return percentage(we.CompletedSets(), len(we.Sets))
}

func (we *WorkoutExercise) FormattedRestTime() string {
	return formatClock(we.RestSeconds)
}
