package domain

import "strings"

// MuscleGroup is a fixed reference entry. Exercises and routines tag muscle
// groups by ID.
type MuscleGroup struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	RelatedMuscles []string `json:"relatedMuscles"`
	// Side is "front" or "back", the view the group is drawn on.
	Side string `json:"side,omitempty"`
}

const (
	MuscleChest      = "chest"
	MuscleBack       = "back"
	MuscleShoulders  = "shoulders"
	MuscleBiceps     = "biceps"
	MuscleTriceps    = "triceps"
	MuscleForearms   = "forearms"
	MuscleAbs        = "abs"
	MuscleQuads      = "quads"
	MuscleHamstrings = "hamstrings"
	MuscleGlutes     = "glutes"
	MuscleCalves     = "calves"
	MuscleTraps      = "traps"
	MuscleLats       = "lats"
)

var muscleGroups = []MuscleGroup{
	{MuscleChest, "Chest", "The pectoralis major and minor muscles, located on the front of the upper body.", []string{MuscleShoulders, MuscleTriceps}, "front"},
	{MuscleBack, "Back", "The large group of muscles on the posterior of the torso, including the latissimus dorsi.", []string{MuscleTraps, MuscleLats, MuscleBiceps}, "back"},
	{MuscleShoulders, "Shoulders", "The deltoid muscles that wrap around the shoulder joint.", []string{MuscleChest, MuscleTriceps, MuscleTraps}, "front"},
	{MuscleBiceps, "Biceps", "The biceps brachii muscle located on the front of the upper arm.", []string{MuscleForearms, MuscleBack}, "front"},
	{MuscleTriceps, "Triceps", "The triceps brachii muscle located on the back of the upper arm.", []string{MuscleShoulders, MuscleChest}, "back"},
	{MuscleForearms, "Forearms", "The muscles of the lower arm, responsible for wrist and finger movements.", []string{MuscleBiceps, MuscleTriceps}, ""},
	{MuscleAbs, "Abs", "The rectus abdominis and other core muscles located on the front of the torso.", []string{}, "front"},
	{MuscleQuads, "Quadriceps", "The quadriceps femoris muscle group located on the front of the thigh.", []string{MuscleHamstrings, MuscleGlutes}, "front"},
	{MuscleHamstrings, "Hamstrings", "The hamstring muscles located on the back of the thigh.", []string{MuscleQuads, MuscleGlutes}, "back"},
	{MuscleGlutes, "Glutes", "The gluteal muscles, comprising the buttocks.", []string{MuscleHamstrings, MuscleQuads}, "back"},
	{MuscleCalves, "Calves", "The gastrocnemius and soleus muscles located on the back of the lower leg.", []string{}, "back"},
	{MuscleTraps, "Trapezius", "The trapezius muscle that extends over the back of the neck and shoulders.", []string{MuscleShoulders, MuscleBack}, "back"},
	{MuscleLats, "Latissimus Dorsi", "The large, flat muscles on the back that give the V-shape to the torso.", []string{MuscleBack, MuscleBiceps}, "back"},
}

// MuscleGroups returns a copy of the reference list in display order.
func MuscleGroups() []MuscleGroup {
	out := make([]MuscleGroup, len(muscleGroups))
	for i, g := range muscleGroups {
		g.RelatedMuscles = append([]string{}, g.RelatedMuscles...)
		out[i] = g
	}
	return out
}

// MuscleGroupsOnSide returns the groups drawn on the given side ("front" or "back").
func MuscleGroupsOnSide(side string) []MuscleGroup {
	var out []MuscleGroup
	for _, g := range MuscleGroups() {
		if g.Side == side {
			out = append(out, g)
		}
	}
	return out
}

// LookupMuscleGroup finds a group by ID, or by display name ignoring case.
func LookupMuscleGroup(idOrName string) (MuscleGroup, bool) {
	for _, g := range MuscleGroups() {
		if g.ID == idOrName || strings.EqualFold(g.Name, idOrName) {
			return g, true
		}
	}
	return MuscleGroup{}, false
}

// MuscleGroupName is the display name for id, or id itself when unknown.
func MuscleGroupName(id string) string {
	if g, ok := LookupMuscleGroup(id); ok {
		return g.Name
	}
	return id
}

// DifficultyLevels lists the known difficulty tags from easiest to hardest.
func DifficultyLevels() []Difficulty {
	return []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}
}
