// Package stats derives training statistics from a user's workout history.
package stats

import (
	"math"

	"fittrack/fitness-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MovementVolume is the reduction of every exercise logged for one movement.
type MovementVolume struct {
	MovementID    primitive.ObjectID `json:"movementId"`
	Name          string             `json:"name"`
	Volume        float64            `json:"volume"` // sum of sets*reps, weighted only
	Minutes       float64            `json:"minutes"`
	Calories      float64            `json:"calories"`
	MusclesWorked []string           `json:"musclesWorked"`
}

// CardioStats are the cardio totals across all movements.
type CardioStats struct {
	TotalMinutes  float64 `json:"totalMinutes"`
	TotalCalories float64 `json:"totalCalories"`
}

// VolumeAggregate is computed fresh for every profile view and never stored.
type VolumeAggregate struct {
	Movements     []MovementVolume   `json:"movements"`     // first-seen order
	MusclePercent map[string]float64 `json:"musclePercent"` // empty when no weighted volume
	CardioStats   CardioStats        `json:"cardioStats"`
}

// Aggregate reduces the flattened exercise history of one user. It returns
// nil when entries is empty so callers can skip rendering entirely.
//
// Volume is sets*reps; weight does not take part in it.
func Aggregate(entries []domain.ExerciseEntry) *VolumeAggregate {
	if len(entries) == 0 {
		return nil
	}

	index := make(map[primitive.ObjectID]int)
	groups := make([]MovementVolume, 0)
	for _, e := range entries {
		i, ok := index[e.Movement.ID]
		if !ok {
			i = len(groups)
			index[e.Movement.ID] = i
			groups = append(groups, MovementVolume{
				MovementID:    e.Movement.ID,
				Name:          e.Movement.Name,
				MusclesWorked: e.Movement.MusclesWorked,
			})
		}

		g := &groups[i]
		f := e.Exercise.ExerciseFields
		switch e.Movement.Type {
		case domain.MovementWeighted:
			g.Volume += float64(intValue(f.Sets)) * float64(intValue(f.Reps))
		case domain.MovementCardio:
			g.Minutes += floatValue(f.Minutes)
			g.Calories += floatValue(f.CaloriesBurned)
		}
	}

	agg := &VolumeAggregate{
		Movements:     groups,
		MusclePercent: musclePercent(groups),
	}
	for _, g := range groups {
		agg.CardioStats.TotalMinutes += g.Minutes
		agg.CardioStats.TotalCalories += g.Calories
	}
	return agg
}

// musclePercent spreads each movement's volume evenly over its muscles and
// expresses every muscle's share of the total volume as a percentage with
// one decimal.
func musclePercent(groups []MovementVolume) map[string]float64 {
	percent := make(map[string]float64)

	var total float64
	for _, g := range groups {
		total += g.Volume
	}
	if total == 0 {
		return percent
	}

	perMuscle := make(map[string]float64)
	for _, g := range groups {
		if len(g.MusclesWorked) == 0 {
			continue
		}
		share := g.Volume / float64(len(g.MusclesWorked))
		for _, m := range g.MusclesWorked {
			perMuscle[m] += share
		}
	}

	for m, v := range perMuscle {
		percent[m] = math.Round(v/total*1000) / 10
	}
	return percent
}

func intValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func floatValue(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
