package api

import (
	"errors"
	"net/http"

	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

var (
	badRequestErrors = []error{
		service.ErrValidationFailed,
		service.ErrNoExercises,
		service.ErrInvalidRegistration,
		service.ErrSelfFriendRequest,
		service.ErrNotFriends,
		service.ErrUnsupportedImageType,
		service.ErrInvalidObjectKey,
		service.ErrUploadNotFound,
		domain.ErrInvalidMovementType,
		domain.ErrMusclesRequired,
	}
	notFoundErrors = []error{
		service.ErrMovementNotFound,
		service.ErrWorkoutNotFound,
		service.ErrFavoriteNotFound,
		service.ErrUserNotFound,
		service.ErrFriendRequestNotFound,
		service.ErrNoProfilePicture,
	}
	forbiddenErrors = []error{
		service.ErrMovementAccessDenied,
		service.ErrWorkoutAccessDenied,
		service.ErrFavoriteAccessDenied,
	}
	conflictErrors = []error{
		service.ErrUserAlreadyExists,
		service.ErrAlreadyFriends,
		service.ErrFriendRequestExists,
	}
)

// abortWithServiceError maps a service error to a status code. Exercise
// validation failures also carry the violated category and the position
// of the offending exercise.
func abortWithServiceError(c *gin.Context, err error) {
	var vErr *domain.ExerciseValidationError
	if errors.As(err, &vErr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":    vErr.Error(),
			"category": vErr.Category,
			"index":    vErr.Index,
		})
		return
	}
	var rErr *domain.FieldRangeError
	if errors.As(err, &rErr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": rErr.Error(),
			"field": rErr.Field,
			"index": rErr.Index,
		})
		return
	}

	switch {
	case isAny(err, badRequestErrors):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case isAny(err, notFoundErrors):
		abortWithError(c, http.StatusNotFound, err.Error())
	case isAny(err, forbiddenErrors):
		abortWithError(c, http.StatusForbidden, err.Error())
	case isAny(err, conflictErrors):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrAuthenticationFailed):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	default:
		log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
