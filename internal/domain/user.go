package domain

import (
	"slices"
	"strings"
	"time"
)

// User is the account document. Its id is the identity used by every
// user-scoped operation.
type User struct {
	ID                string            `bson:"_id,omitempty" json:"id"`
	Name              string            `bson:"name" json:"name"`
	Email             string            `bson:"email" json:"email"`    // unique
	PasswordHash      string            `bson:"passwordHash" json:"-"` // never exposed
	Gender            string            `bson:"gender,omitempty" json:"gender,omitempty"`
	Age               int               `bson:"age,omitempty" json:"age,omitempty"`
	Weight            float64           `bson:"weight,omitempty" json:"weight,omitempty"` // kg
	Height            float64           `bson:"height,omitempty" json:"height,omitempty"` // cm
	FavoriteExercises []string          `bson:"favoriteExercises" json:"favoriteExercises"`
	RoutineIDs        []string          `bson:"routineIds" json:"routineIds"`
	WorkoutHistory    []string          `bson:"workoutHistory" json:"workoutHistory"`
	Stats             WorkoutStatistics `bson:"stats" json:"stats"`
	ProfileImageKey   string            `bson:"profileImageKey,omitempty" json:"-"`
	CreatedAt         time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time         `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsFavorite(exerciseID string) bool {
	return slices.Contains(u.FavoriteExercises, exerciseID)
}

// BMI is weight over height squared, or 0 when height is unknown.
func (u *User) BMI() float64 {
	if u.Height <= 0 {
		return 0
	}
	m := u.Height / 100
	return u.Weight / (m * m)
}

func (u *User) BMICategory() string {
	bmi := u.BMI()
	switch {
	case bmi <= 0:
		return "Unknown"
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}

var genders = []string{"male", "female", "other"}

// ProfileUpdate carries the editable profile fields; nil fields are left alone.
type ProfileUpdate struct {
	Name   *string
	Gender *string
	Age    *int
	Weight *float64
	Height *float64
}

func (p ProfileUpdate) IsEmpty() bool {
	return p.Name == nil && p.Gender == nil && p.Age == nil && p.Weight == nil && p.Height == nil
}

// Validate normalizes the name and gender in place and checks the ranges.
func (p *ProfileUpdate) Validate() error {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return ErrNameRequired
		}
		p.Name = &name
	}
	if p.Gender != nil {
		g := strings.ToLower(strings.TrimSpace(*p.Gender))
		if g != "" && !slices.Contains(genders, g) {
			return ErrInvalidGender
		}
		p.Gender = &g
	}
	if p.Age != nil && (*p.Age < 0 || *p.Age > 150) {
		return ErrInvalidAge
	}
	if p.Weight != nil && *p.Weight < 0 {
		return ErrNegativeWeight
	}
	if p.Height != nil && *p.Height < 0 {
		return ErrNegativeHeight
	}
	return nil
}

// Apply copies the set fields onto u.
func (p ProfileUpdate) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Gender != nil {
		u.Gender = *p.Gender
	}
	if p.Age != nil {
		u.Age = *p.Age
	}
	if p.Weight != nil {
		u.Weight = *p.Weight
	}
	if p.Height != nil {
		u.Height = *p.Height
	}
}
