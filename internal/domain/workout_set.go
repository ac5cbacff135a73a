package domain

import (
	"strconv"
	"strings"
	"time"
)

// WorkoutSet is one planned or performed set.
//
// A set is either planned or completed. CompletedTimestamp (Unix milliseconds) is
// non-zero exactly when Completed is true; use Complete and SetCompleted rather
// than writing the fields directly.
type WorkoutSet struct {
	SetNumber          int     `bson:"setNumber" json:"setNumber"`
	TargetReps         int     `bson:"targetReps" json:"targetReps"`
	Reps               int     `bson:"reps" json:"reps"`
	Weight             float64 `bson:"weight" json:"weight"`
	Completed          bool    `bson:"completed" json:"completed"`
	DropSet            bool    `bson:"dropSet" json:"dropSet"`
	FailureSet         bool    `bson:"failureSet" json:"failureSet"`
	CompletedTimestamp int64   `bson:"completedTimestamp" json:"completedTimestamp"`
	Note               string  `bson:"note,omitempty" json:"note,omitempty"`
}

// Complete records the final reps and weight and moves the set to completed.
// An already-completed set keeps its original timestamp.
func (s *WorkoutSet) Complete(reps int, weight float64, now time.Time) {
	s.Reps = reps
	s.Weight = weight
	s.SetCompleted(true, now)
}

// SetCompleted toggles completion using whatever reps/weight are staged.
// Un-completing clears the timestamp and keeps the recorded reps and weight.
func (s *WorkoutSet) SetCompleted(completed bool, now time.Time) {
	s.Completed = completed
	switch {
	case completed && s.CompletedTimestamp == 0:
		s.CompletedTimestamp = now.UnixMilli()
	case !completed:
		s.CompletedTimestamp = 0
	}
}

// CompletedAt returns the completion time, or the zero time for a planned set.
func (s *WorkoutSet) CompletedAt() time.Time {
	if s.CompletedTimestamp == 0 {
		return time.Time{}
	}
	return time.UnixMilli(s.CompletedTimestamp)
}

// IsTargetReached is true when the set is completed with at least the target reps.
func (s *WorkoutSet) IsTargetReached() bool {
	return s.Completed && s.TargetReps > 0 && s.Reps >= s.TargetReps
}

func (s *WorkoutSet) Volume() float64 {
	return float64(s.Reps) * s.Weight
}

// DisplayString renders e.g. "Set 2: 8 reps at 60 kg (failure)" or "Set 3: planned 8 reps at --".
func (s *WorkoutSet) DisplayString(useKg bool) string {
	var b strings.Builder
	b.WriteString("Set " + strconv.Itoa(s.SetNumber) + ": ")
	if s.Completed {
		b.WriteString(strconv.Itoa(s.Reps) + " reps at " + formatWeight(s.Weight, useKg))
		if s.FailureSet {
			b.WriteString(" (failure)")
		}
		if s.DropSet {
			b.WriteString(" (drop set)")
		}
		return b.String()
	}
	b.WriteString("planned " + strconv.Itoa(s.TargetReps) + " reps at ")
	if s.Weight > 0 {
		b.WriteString(formatWeight(s.Weight, useKg))
	} else {
		b.WriteString("--")
	}
	return b.String()
}
