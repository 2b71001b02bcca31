package stats_test

import (
	"math"
	"testing"

	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func weightedEntry(m domain.Movement, sets, reps int) domain.ExerciseEntry {
	return domain.ExerciseEntry{
		Exercise: domain.Exercise{
			MovementID: m.ID,
			ExerciseFields: domain.ExerciseFields{
				Weight: floatPtr(100),
				Sets:   intPtr(sets),
				Reps:   intPtr(reps),
			},
		},
		Movement: m,
	}
}

func cardioEntry(m domain.Movement, minutes, calories float64) domain.ExerciseEntry {
	return domain.ExerciseEntry{
		Exercise: domain.Exercise{
			MovementID: m.ID,
			ExerciseFields: domain.ExerciseFields{
				Distance:       floatPtr(3),
				Minutes:        floatPtr(minutes),
				CaloriesBurned: floatPtr(calories),
			},
		},
		Movement: m,
	}
}

var (
	benchPress = domain.Movement{
		ID:            primitive.NewObjectID(),
		Name:          "Bench Press",
		Type:          domain.MovementWeighted,
		MusclesWorked: []string{"Chest", "Triceps"},
	}
	running = domain.Movement{
		ID:            primitive.NewObjectID(),
		Name:          "Running",
		Type:          domain.MovementCardio,
		MusclesWorked: []string{},
	}
)

func TestAggregate_Empty(t *testing.T) {
	assert.Nil(t, stats.Aggregate(nil))
	assert.Nil(t, stats.Aggregate([]domain.ExerciseEntry{}))
}

func TestAggregate_WeightedAndCardio(t *testing.T) {
	agg := stats.Aggregate([]domain.ExerciseEntry{
		weightedEntry(benchPress, 5, 5),
		cardioEntry(running, 30, 300),
	})
	require.NotNil(t, agg)

	assert.Equal(t, map[string]float64{"Chest": 50.0, "Triceps": 50.0}, agg.MusclePercent)
	assert.Equal(t, stats.CardioStats{TotalMinutes: 30, TotalCalories: 300}, agg.CardioStats)
	require.Len(t, agg.Movements, 2)
	assert.Equal(t, 25.0, agg.Movements[0].Volume)
	assert.Equal(t, benchPress.ID, agg.Movements[0].MovementID)
	assert.Equal(t, 30.0, agg.Movements[1].Minutes)
}

func TestAggregate_SameMovementIsOneGroup(t *testing.T) {
	agg := stats.Aggregate([]domain.ExerciseEntry{
		weightedEntry(benchPress, 5, 5),
		weightedEntry(benchPress, 2, 3),
	})
	require.NotNil(t, agg)
	require.Len(t, agg.Movements, 1)
	assert.Equal(t, 31.0, agg.Movements[0].Volume)
}

func TestAggregate_GroupsByIdentityNotName(t *testing.T) {
	other := benchPress
	other.ID = primitive.NewObjectID()
	other.MusclesWorked = []string{"Shoulders"}

	agg := stats.Aggregate([]domain.ExerciseEntry{
		weightedEntry(benchPress, 3, 10), // 30
		weightedEntry(other, 1, 10),      // 10
	})
	require.NotNil(t, agg)
	require.Len(t, agg.Movements, 2)
	assert.Equal(t, map[string]float64{
		"Chest":     37.5,
		"Triceps":   37.5,
		"Shoulders": 25.0,
	}, agg.MusclePercent)
}

func TestAggregate_WeightIsIgnored(t *testing.T) {
	light := weightedEntry(benchPress, 5, 5)
	light.Exercise.Weight = floatPtr(10)
	heavy := weightedEntry(benchPress, 5, 5)
	heavy.Exercise.Weight = floatPtr(200)

	agg := stats.Aggregate([]domain.ExerciseEntry{light, heavy})
	require.NotNil(t, agg)
	assert.Equal(t, 50.0, agg.Movements[0].Volume)
}

func TestAggregate_FirstMuscleSetWins(t *testing.T) {
	changed := benchPress
	changed.MusclesWorked = []string{"Back"}

	agg := stats.Aggregate([]domain.ExerciseEntry{
		weightedEntry(benchPress, 1, 1),
		weightedEntry(changed, 1, 1),
	})
	require.NotNil(t, agg)
	assert.Equal(t, map[string]float64{"Chest": 50.0, "Triceps": 50.0}, agg.MusclePercent)
}

func TestAggregate_CardioOnly(t *testing.T) {
	agg := stats.Aggregate([]domain.ExerciseEntry{
		cardioEntry(running, 20, 200),
		cardioEntry(running, 40, 350),
	})
	require.NotNil(t, agg)
	assert.Empty(t, agg.MusclePercent)
	assert.Equal(t, stats.CardioStats{TotalMinutes: 60, TotalCalories: 550}, agg.CardioStats)
}

func TestAggregate_RoundsToOneDecimal(t *testing.T) {
	squat := domain.Movement{
		ID:            primitive.NewObjectID(),
		Type:          domain.MovementWeighted,
		MusclesWorked: []string{"Quads", "Glutes", "Hamstrings"},
	}
	agg := stats.Aggregate([]domain.ExerciseEntry{weightedEntry(squat, 1, 1)})
	require.NotNil(t, agg)
	for _, m := range squat.MusclesWorked {
		assert.Equal(t, 33.3, agg.MusclePercent[m])
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	entries := []domain.ExerciseEntry{
		weightedEntry(benchPress, 4, 7),
		cardioEntry(running, 12, 99),
		weightedEntry(benchPress, 3, 9),
	}
	first := stats.Aggregate(entries)
	second := stats.Aggregate(entries)
	assert.Equal(t, first, second)
}

func TestAggregate_LargeCountsDoNotOverflow(t *testing.T) {
	entries := []domain.ExerciseEntry{
		weightedEntry(benchPress, math.MaxInt, 2),
	}
	agg := stats.Aggregate(entries)
	require.NotNil(t, agg)
	require.Len(t, agg.Movements, 1)
	assert.Greater(t, agg.Movements[0].Volume, 0.0)
	assert.Equal(t, map[string]float64{"Chest": 50, "Triceps": 50}, agg.MusclePercent)
}
