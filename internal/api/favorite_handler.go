package api

import (
	"fittrack/fitness-app/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// FavoriteHandler holds the favorite service dependency.
type FavoriteHandler struct {
	favoriteService service.FavoriteService
}

// NewFavoriteHandler creates a new FavoriteHandler.
func NewFavoriteHandler(favoriteService service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

type CreateFavoriteRequest struct {
	Name      string            `json:"name" binding:"required,max=100"`
	Public    bool              `json:"public"`
	Exercises []ExerciseRequest `json:"exercises" binding:"dive"`
}

type UpdateFavoriteRequest struct {
	Name   string `json:"name" binding:"required,max=100"`
	Public bool   `json:"public"`
}

// CreateFavorite godoc
// @Summary Save an exercise combination as a favorite
// @Tags Favorites
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Success 201 {object} domain.Favorite
// @Router /favorites [post]
func (h *FavoriteHandler) CreateFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateFavoriteRequest
	if isFormRequest(c) {
		exercises, err := pivotExerciseForm(c)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		req = CreateFavoriteRequest{
			Name:      c.PostForm("name"),
			Public:    formBool(c, "public"),
			Exercises: exercises,
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercises, err := exercisesToDomain(req.Exercises)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	favorite, err := h.favoriteService.CreateFavorite(c.Request.Context(), userID, req.Name, req.Public, exercises)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, favorite)
}

func (h *FavoriteHandler) GetMyFavorites(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	favorites, err := h.favoriteService.ListMyFavorites(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, favorites)
}

// GetUserFavorites lists the public favorites of another user.
func (h *FavoriteHandler) GetUserFavorites(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	ownerID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	favorites, err := h.favoriteService.ListUserFavorites(c.Request.Context(), userID, ownerID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, favorites)
}

func (h *FavoriteHandler) GetFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	favoriteID, ok := pathID(c, "favoriteId")
	if !ok {
		return
	}
	favorite, err := h.favoriteService.GetFavorite(c.Request.Context(), userID, favoriteID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, favorite)
}

func (h *FavoriteHandler) UpdateFavorite(c *gin.Context) {
	var req UpdateFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	favoriteID, ok := pathID(c, "favoriteId")
	if !ok {
		return
	}

	favorite, err := h.favoriteService.UpdateFavorite(c.Request.Context(), userID, favoriteID, req.Name, req.Public)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, favorite)
}

func (h *FavoriteHandler) DeleteFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	favoriteID, ok := pathID(c, "favoriteId")
	if !ok {
		return
	}
	if err := h.favoriteService.DeleteFavorite(c.Request.Context(), userID, favoriteID); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
