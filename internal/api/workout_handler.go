package api

import (
	"fittrack/fitness-app/internal/service"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// WorkoutRequest is the JSON body for creating or replacing a workout.
// Form submissions carry the same data as day, completed and the parallel
// exercise arrays.
type WorkoutRequest struct {
	Day       string            `json:"day" binding:"required"` // YYYY-MM-DD
	Completed bool              `json:"completed"`
	Exercises []ExerciseRequest `json:"exercises" binding:"dive"`
}

type SetCompletedRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

type StartFromFavoriteRequest struct {
	Day string `json:"day"` // YYYY-MM-DD, defaults to today
}

func parseDay(raw string) (time.Time, error) {
	return time.Parse(time.DateOnly, strings.TrimSpace(raw))
}

func pageQuery(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// bindWorkout reads a workout from either a JSON body or a form post.
func bindWorkout(c *gin.Context) (WorkoutRequest, bool) {
	var req WorkoutRequest
	if isFormRequest(c) {
		exercises, err := pivotExerciseForm(c)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return req, false
		}
		req = WorkoutRequest{
			Day:       c.PostForm("day"),
			Completed: formBool(c, "completed"),
			Exercises: exercises,
		}
		if req.Day == "" {
			abortWithError(c, http.StatusBadRequest, "Validation error: day is required")
			return req, false
		}
		return req, true
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return req, false
	}
	return req, true
}

// CreateWorkout godoc
// @Summary Log a workout
// @Description Accepts JSON or a form post with parallel exercise arrays.
// @Tags Workouts
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Success 201 {object} domain.Workout
// @Failure 400 {object} gin.H "Invalid input, with category for exercise field errors"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	req, ok := bindWorkout(c)
	if !ok {
		return
	}
	day, err := parseDay(req.Day)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid day, expected YYYY-MM-DD.")
		return
	}
	exercises, err := exercisesToDomain(req.Exercises)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), userID, day, req.Completed, exercises)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, workout)
}

func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "workoutId")
	if !ok {
		return
	}
	req, ok := bindWorkout(c)
	if !ok {
		return
	}
	day, err := parseDay(req.Day)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid day, expected YYYY-MM-DD.")
		return
	}
	exercises, err := exercisesToDomain(req.Exercises)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	workout, err := h.workoutService.UpdateWorkout(c.Request.Context(), userID, workoutID, day, req.Completed, exercises)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "workoutId")
	if !ok {
		return
	}
	workout, err := h.workoutService.GetWorkout(c.Request.Context(), userID, workoutID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

// GetMyWorkouts lists the caller's workouts, newest day first.
func (h *WorkoutHandler) GetMyWorkouts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	h.listWorkouts(c, userID, userID)
}

// GetUserWorkouts lists another user's workouts for one of their friends.
func (h *WorkoutHandler) GetUserWorkouts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	ownerID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	h.listWorkouts(c, userID, ownerID)
}

func (h *WorkoutHandler) listWorkouts(c *gin.Context, viewerID, ownerID primitive.ObjectID) {
	page, err := h.workoutService.ListWorkouts(c.Request.Context(), viewerID, ownerID, pageQuery(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *WorkoutHandler) SetCompleted(c *gin.Context) {
	var req SetCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "workoutId")
	if !ok {
		return
	}

	workout, err := h.workoutService.SetCompleted(c.Request.Context(), userID, workoutID, *req.Completed)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "workoutId")
	if !ok {
		return
	}
	if err := h.workoutService.DeleteWorkout(c.Request.Context(), userID, workoutID); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// StartFromFavorite copies a favorite into a new workout.
func (h *WorkoutHandler) StartFromFavorite(c *gin.Context) {
	var req StartFromFavoriteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return
		}
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	favoriteID, ok := pathID(c, "favoriteId")
	if !ok {
		return
	}

	day := time.Now().UTC()
	if req.Day != "" {
		var err error
		if day, err = parseDay(req.Day); err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid day, expected YYYY-MM-DD.")
			return
		}
	}

	workout, err := h.workoutService.StartFromFavorite(c.Request.Context(), userID, favoriteID, day)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, workout)
}
