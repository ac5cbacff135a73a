package domain

// ValidationError marks structurally invalid input to a domain operation.
type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

var (
	ErrRoutineNameRequired   = ValidationError("routine name is required")
	ErrExerciseIDRequired    = ValidationError("exercise ID is required")
	ErrNegativeSets          = ValidationError("set count cannot be negative")
	ErrNegativeReps          = ValidationError("reps cannot be negative")
	ErrNegativeWeight        = ValidationError("weight cannot be negative")
	ErrInvalidDifficulty     = ValidationError("difficulty must be beginner, intermediate or advanced")
	ErrInvalidRating         = ValidationError("rating must be between 0 (unrated) and 5")
	ErrPositionOutOfRange    = ValidationError("position is out of range")
	ErrWorkoutUserIDRequired = ValidationError("workout user ID is required")
	ErrNameRequired          = ValidationError("name is required")
	ErrInvalidGender         = ValidationError("gender must be male, female or other")
	ErrInvalidAge            = ValidationError("age must be between 0 and 150")
	ErrNegativeHeight        = ValidationError("height cannot be negative")
)
