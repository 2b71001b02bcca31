// internal/domain/exercise.go
package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseFields holds the optional numeric fields of a logged exercise.
// Which of them must be set depends on the movement type, see ValidateExercise.
type ExerciseFields struct {
	Weight         *float64 `bson:"weight,omitempty" json:"weight,omitempty"`
	Sets           *int     `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps           *int     `bson:"reps,omitempty" json:"reps,omitempty"`
	Distance       *float64 `bson:"distance,omitempty" json:"distance,omitempty"`
	Minutes        *float64 `bson:"minutes,omitempty" json:"minutes,omitempty"`
	CaloriesBurned *float64 `bson:"caloriesBurned,omitempty" json:"caloriesBurned,omitempty"`
}

// Exercise is one logged instance of a movement, embedded in a Workout or a
// Favorite. Favorites additionally carry an inlined Movement snapshot.
type Exercise struct {
	MovementID     primitive.ObjectID `bson:"movementId" json:"movementId"`
	Movement       *MovementSnapshot  `bson:"movement,omitempty" json:"movement,omitempty"`
	ExerciseFields `bson:",inline"`
}

// ExerciseEntry pairs an exercise with its resolved movement. It is the
// flattened workouts -> exercises -> movements join used for statistics.
type ExerciseEntry struct {
	Exercise Exercise `bson:"exercise"`
	Movement Movement `bson:"movement"`
}

// DistinctMovementIDs returns the movement references of exercises in
// first-seen order, without repeats.
func DistinctMovementIDs(exercises []Exercise) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(exercises))
	ids := make([]primitive.ObjectID, 0, len(exercises))
	for _, ex := range exercises {
		if _, ok := seen[ex.MovementID]; ok {
			continue
		}
		seen[ex.MovementID] = struct{}{}
		ids = append(ids, ex.MovementID)
	}
	return ids
}
