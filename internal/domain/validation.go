package domain

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidExercise     = errors.New("invalid exercise")
	ErrInvalidMovementType = errors.New("movement type must be cardio or weighted")
	ErrMusclesRequired     = errors.New("weighted movements require at least one muscle worked")
)

// ValidationCategory names the exercise field rule that was violated.
type ValidationCategory string

const (
	CategoryCardioMissing   ValidationCategory = "cardio-missing"
	CategoryCardioExtra     ValidationCategory = "cardio-extra"
	CategoryWeightedMissing ValidationCategory = "weighted-missing"
	CategoryWeightedExtra   ValidationCategory = "weighted-extra"
)

var categoryMessages = map[ValidationCategory]string{
	CategoryCardioMissing:   "cardio exercises require distance, minutes and calories burned",
	CategoryCardioExtra:     "cardio exercises cannot have weight, sets or reps",
	CategoryWeightedMissing: "weighted exercises require weight, sets and reps",
	CategoryWeightedExtra:   "weighted exercises cannot have distance, minutes or calories burned",
}

// Message returns the user facing text for the category.
func (c ValidationCategory) Message() string {
	if msg, ok := categoryMessages[c]; ok {
		return msg
	}
	return string(c)
}

// ExerciseValidationError reports which field rule an exercise broke.
// Index is the position of the exercise in its containing list.
type ExerciseValidationError struct {
	Index    int
	Category ValidationCategory
}

func (e *ExerciseValidationError) Error() string {
	return fmt.Sprintf("exercise %d: %s", e.Index+1, e.Category.Message())
}

func (e *ExerciseValidationError) Unwrap() error {
	return ErrInvalidExercise
}

// FieldRangeError reports a numeric field below its minimum or not finite.
type FieldRangeError struct {
	Index     int
	Field     string
	Min       float64
	NotFinite bool // NaN or infinity
}

func (e *FieldRangeError) Error() string {
	if e.NotFinite {
		return fmt.Sprintf("exercise %d: %s must be a finite number", e.Index+1, e.Field)
	}
	return fmt.Sprintf("exercise %d: %s must be at least %g", e.Index+1, e.Field, e.Min)
}

func (e *FieldRangeError) Unwrap() error {
	return ErrInvalidExercise
}

// ValidateExercise checks that exactly the fields required by the movement
// type are present. Missing fields are reported before extra ones. Types
// other than cardio and weighted are not validated.
func ValidateExercise(f ExerciseFields, t MovementType) error {
	weighted := []bool{f.Weight != nil, f.Sets != nil, f.Reps != nil}
	cardio := []bool{f.Distance != nil, f.Minutes != nil, f.CaloriesBurned != nil}

	switch t {
	case MovementCardio:
		if !allPresent(cardio) {
			return &ExerciseValidationError{Category: CategoryCardioMissing}
		}
		if anyPresent(weighted) {
			return &ExerciseValidationError{Category: CategoryCardioExtra}
		}
	case MovementWeighted:
		if !allPresent(weighted) {
			return &ExerciseValidationError{Category: CategoryWeightedMissing}
		}
		if anyPresent(cardio) {
			return &ExerciseValidationError{Category: CategoryWeightedExtra}
		}
	}
	return nil
}

// CheckMinimums enforces the lower bounds of the fields that are present:
// weight >= 0, everything else >= 1. NaN and infinite values never pass.
func CheckMinimums(f ExerciseFields) error {
	floats := []struct {
		field string
		value *float64
		min   float64
	}{
		{"weight", f.Weight, 0},
		{"distance", f.Distance, 1},
		{"minutes", f.Minutes, 1},
		{"caloriesBurned", f.CaloriesBurned, 1},
	}
	for _, c := range floats {
		if c.value == nil {
			continue
		}
		if math.IsNaN(*c.value) || math.IsInf(*c.value, 0) {
			return &FieldRangeError{Field: c.field, Min: c.min, NotFinite: true}
		}
		if !(*c.value >= c.min) {
			return &FieldRangeError{Field: c.field, Min: c.min}
		}
	}
	if f.Sets != nil && *f.Sets < 1 {
		return &FieldRangeError{Field: "sets", Min: 1}
	}
	if f.Reps != nil && *f.Reps < 1 {
		return &FieldRangeError{Field: "reps", Min: 1}
	}
	return nil
}

// ValidateExercises runs ValidateExercise and CheckMinimums over a list and
// stops at the first failure. typeOf resolves each exercise's movement type;
// the lookup itself happens before this call.
func ValidateExercises(exercises []Exercise, typeOf func(Exercise) MovementType) error {
	for i, ex := range exercises {
		if err := ValidateExercise(ex.ExerciseFields, typeOf(ex)); err != nil {
			var vErr *ExerciseValidationError
			if errors.As(err, &vErr) {
				vErr.Index = i
			}
			return err
		}
		if err := CheckMinimums(ex.ExerciseFields); err != nil {
			var rErr *FieldRangeError
			if errors.As(err, &rErr) {
				rErr.Index = i
			}
			return err
		}
	}
	return nil
}

func allPresent(present []bool) bool {
	for _, p := range present {
		if !p {
			return false
		}
	}
	return true
}

func anyPresent(present []bool) bool {
	for _, p := range present {
		if p {
			return true
		}
	}
	return false
}
