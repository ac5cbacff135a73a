// internal/domain/exercise.go
package domain

import (
	"strings"
	"time"
)

// Difficulty tags shared by exercises and routines.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Level maps a difficulty tag to 1..3, or 0 when the tag is unknown.
func (d Difficulty) Level() int {
	switch Difficulty(strings.ToLower(string(d))) {
	case DifficultyBeginner:
		return 1
	case DifficultyIntermediate:
		return 2
	case DifficultyAdvanced:
		return 3
	default:
		return 0
	}
}

// Valid reports whether d is empty (untagged) or one of the known tags.
func (d Difficulty) Valid() bool {
	return d == "" || d.Level() > 0
}

// Exercise is a catalog entry. Records are read-only once loaded; the catalog cache owns them.
type Exercise struct {
	ID                 string     `bson:"_id,omitempty" json:"id"`
	Name               string     `bson:"name" json:"name"`
	Description        string     `bson:"description,omitempty" json:"description,omitempty"`
	MuscleGroups       []string   `bson:"muscleGroups" json:"muscleGroups"`
	PrimaryMuscleGroup string     `bson:"primaryMuscleGroup,omitempty" json:"primaryMuscleGroup,omitempty"`
	Equipment          string     `bson:"equipment,omitempty" json:"equipment,omitempty"` // e.g. "barbell", "resistance_band"
	Difficulty         Difficulty `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	IsCompound         bool       `bson:"compound" json:"compound"`
	Category           string     `bson:"category,omitempty" json:"category,omitempty"` // strength, cardio, flexibility
	ImageKey           string     `bson:"imageKey,omitempty" json:"imageKey,omitempty"` // object key in media storage
	Instructions       string     `bson:"instructions,omitempty" json:"instructions,omitempty"`
	InstructionURL     string     `bson:"instructionUrl,omitempty" json:"instructionUrl,omitempty"`
	CreatedAt          time.Time  `bson:"createdAt" json:"createdAt"`
}

// SecondaryMuscleGroups returns every muscle group except the primary one.
func (e *Exercise) SecondaryMuscleGroups() []string {
	secondary := []string{}
	if e.PrimaryMuscleGroup == "" {
		return secondary
	}
	for _, m := range e.MuscleGroups {
		if m != e.PrimaryMuscleGroup {
			secondary = append(secondary, m)
		}
	}
	return secondary
}

// TargetMuscleGroups is what a workout records as "worked" for this exercise:
// the primary group when set, otherwise the full list.
func (e *Exercise) TargetMuscleGroups() []string {
	if e.PrimaryMuscleGroup != "" {
		return []string{e.PrimaryMuscleGroup}
	}
	return e.MuscleGroups
}

func (e *Exercise) FormattedDifficulty() string {
	if e.Difficulty == "" {
		return "Intermediate"
	}
	d := string(e.Difficulty)
	return strings.ToUpper(d[:1]) + d[1:]
}

// FormattedEquipment turns "resistance_band" into "Resistance Band".
func (e *Exercise) FormattedEquipment() string {
	if e.Equipment == "" {
		return "None"
	}
	words := strings.Split(e.Equipment, "_")
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		out = append(out, strings.ToUpper(w[:1])+w[1:])
	}
	return strings.Join(out, " ")
}

func (e *Exercise) HasImage() bool {
	return e.ImageKey != ""
}

func (e *Exercise) HasInstructions() bool {
	return e.Instructions != ""
}

// VideoThumbnailURL returns the YouTube thumbnail for the instruction video, or "".
func (e *Exercise) VideoThumbnailURL() string {
	id := youtubeVideoID(e.InstructionURL)
	if id == "" {
		return ""
	}
	return "https://img.youtube.com/vi/" + id + "/0.jpg"
}

func youtubeVideoID(url string) string {
	var id string
	switch {
	case strings.Contains(url, "youtu.be/"):
		id = url[strings.Index(url, "youtu.be/")+len("youtu.be/"):]
	case strings.Contains(url, "youtube.com") && strings.Contains(url, "v="):
		id = url[strings.Index(url, "v=")+len("v="):]
	default:
		return ""
	}
	if i := strings.IndexAny(id, "&?"); i >= 0 {
		id = id[:i]
	}
	return id
}
