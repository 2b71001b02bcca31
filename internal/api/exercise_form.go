package api

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"fittrack/fitness-app/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseRequest is one exercise of a workout or favorite body. Which of
// the numeric fields must be set depends on the movement type.
type ExerciseRequest struct {
	MovementID     string   `json:"movementId" binding:"required"`
	Weight         *float64 `json:"weight"`
	Sets           *int     `json:"sets"`
	Reps           *int     `json:"reps"`
	Distance       *float64 `json:"distance"`
	Minutes        *float64 `json:"minutes"`
	CaloriesBurned *float64 `json:"caloriesBurned"`
}

func (r ExerciseRequest) toDomain(index int) (domain.Exercise, error) {
	movementID, err := primitive.ObjectIDFromHex(r.MovementID)
	if err != nil {
		return domain.Exercise{}, fmt.Errorf("exercise %d: invalid movement ID", index+1)
	}
	return domain.Exercise{
		MovementID: movementID,
		ExerciseFields: domain.ExerciseFields{
			Weight:         r.Weight,
			Sets:           r.Sets,
			Reps:           r.Reps,
			Distance:       r.Distance,
			Minutes:        r.Minutes,
			CaloriesBurned: r.CaloriesBurned,
		},
	}, nil
}

func exercisesToDomain(reqs []ExerciseRequest) ([]domain.Exercise, error) {
	exercises := make([]domain.Exercise, len(reqs))
	for i, r := range reqs {
		ex, err := r.toDomain(i)
		if err != nil {
			return nil, err
		}
		exercises[i] = ex
	}
	return exercises, nil
}

// isFormRequest reports whether the body is an HTML form submission.
func isFormRequest(c *gin.Context) bool {
	ct := c.ContentType()
	return ct == binding.MIMEPOSTForm || ct == binding.MIMEMultipartPOSTForm
}

// formArray reads a repeated form field sent either as "name[]" or "name".
func formArray(c *gin.Context, name string) []string {
	if values := c.PostFormArray(name + "[]"); len(values) > 0 {
		return values
	}
	return c.PostFormArray(name)
}

// pivotExerciseForm turns the parallel per-field arrays of a form into one
// record per exercise. Position i of every array belongs to exercise i and
// an empty string, or a missing position, is an absent value.
func pivotExerciseForm(c *gin.Context) ([]ExerciseRequest, error) {
	movements := formArray(c, "movement")
	weights := formArray(c, "weight")
	sets := formArray(c, "sets")
	reps := formArray(c, "reps")
	distances := formArray(c, "distance")
	minutes := formArray(c, "minutes")
	calories := formArray(c, "caloriesBurned")

	reqs := make([]ExerciseRequest, 0, len(movements))
	for i, movement := range movements {
		movement = strings.TrimSpace(movement)
		if movement == "" {
			continue
		}
		req := ExerciseRequest{MovementID: movement}

		var err error
		if req.Weight, err = formFloat(weights, i, "weight"); err != nil {
			return nil, err
		}
		if req.Sets, err = formInt(sets, i, "sets"); err != nil {
			return nil, err
		}
		if req.Reps, err = formInt(reps, i, "reps"); err != nil {
			return nil, err
		}
		if req.Distance, err = formFloat(distances, i, "distance"); err != nil {
			return nil, err
		}
		if req.Minutes, err = formFloat(minutes, i, "minutes"); err != nil {
			return nil, err
		}
		if req.CaloriesBurned, err = formFloat(calories, i, "caloriesBurned"); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func formValue(values []string, i int) string {
	if i >= len(values) {
		return ""
	}
	return strings.TrimSpace(values[i])
}

func formFloat(values []string, i int, field string) (*float64, error) {
	raw := formValue(values, i)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	// ParseFloat accepts "NaN" and "Inf", which are not measurements.
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("exercise %d: %s must be a number", i+1, field)
	}
	return &v, nil
}

func formInt(values []string, i int, field string) (*int, error) {
	raw := formValue(values, i)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("exercise %d: %s must be a whole number", i+1, field)
	}
	return &v, nil
}

// formBool accepts the values browsers send for checkboxes.
func formBool(c *gin.Context, name string) bool {
	switch strings.ToLower(c.PostForm(name)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
