package api

import (
	"fittrack/fitness-app/internal/service"
	"fittrack/fitness-app/internal/stats"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler serves profiles, search, friendships and profile pictures.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type UpdateBioRequest struct {
	Bio string `json:"bio" binding:"max=500"`
}

type UploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmUploadRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

// ProfileResponse is a user as seen by the caller.
type ProfileResponse struct {
	User            UserResponse           `json:"user"`
	IsSelf          bool                   `json:"isSelf"`
	IsFriend        bool                   `json:"isFriend"`
	RequestSent     bool                   `json:"requestSent"`
	RequestReceived bool                   `json:"requestReceived"`
	CanViewDetails  bool                   `json:"canViewDetails"`
	Volume          *stats.VolumeAggregate `json:"volume"` // null without history or access
}

type UserPageResponse struct {
	Items      []UserResponse `json:"items"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	Total      int64          `json:"total"`
	TotalPages int            `json:"totalPages"`
}

func MapProfileToResponse(p *service.Profile) ProfileResponse {
	return ProfileResponse{
		User:            MapUserToResponse(p.User),
		IsSelf:          p.IsSelf,
		IsFriend:        p.IsFriend,
		RequestSent:     p.RequestSent,
		RequestReceived: p.RequestReceived,
		CanViewDetails:  p.CanViewDetails,
		Volume:          p.Volume,
	}
}

// GetMe returns the caller's own profile.
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	h.profile(c, userID, userID)
}

// GetProfile godoc
// @Summary Get a user's profile
// @Description Includes the volume breakdown for the user themself and their friends.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} ProfileResponse
// @Failure 404 {object} gin.H "User not found"
// @Router /users/{userId} [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	viewerID, ok := currentUserID(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	h.profile(c, viewerID, userID)
}

func (h *UserHandler) profile(c *gin.Context, viewerID, userID primitive.ObjectID) {
	profile, err := h.userService.GetProfile(c.Request.Context(), viewerID, userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProfileToResponse(profile))
}

func (h *UserHandler) UpdateBio(c *gin.Context) {
	var req UpdateBioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := h.userService.UpdateBio(c.Request.Context(), userID, req.Bio)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// SearchUsers godoc
// @Summary Search users by username
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param q query string true "Part of a username, matched literally and case-insensitively"
// @Param page query int false "Page number, starting at 1"
// @Success 200 {object} UserPageResponse
// @Router /users/search [get]
func (h *UserHandler) SearchUsers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, err := h.userService.SearchUsers(c.Request.Context(), userID, c.Query("q"), pageQuery(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, UserPageResponse{
		Items:      MapUsersToResponse(page.Items),
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	})
}

// --- Friendships ---

func (h *UserHandler) SendFriendRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	if err := h.userService.SendFriendRequest(c.Request.Context(), userID, targetID); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) GetFriendRequests(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	users, err := h.userService.ListFriendRequests(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUsersToResponse(users))
}

func (h *UserHandler) AcceptFriendRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fromID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	if err := h.userService.AcceptFriendRequest(c.Request.Context(), userID, fromID); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) DeclineFriendRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fromID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	if err := h.userService.DeclineFriendRequest(c.Request.Context(), userID, fromID); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) GetFriends(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	users, err := h.userService.ListFriends(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUsersToResponse(users))
}

func (h *UserHandler) RemoveFriend(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	friendID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	if err := h.userService.RemoveFriend(c.Request.Context(), userID, friendID); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Profile picture ---

// RequestPictureUploadURL godoc
// @Summary Get a presigned URL to upload a profile picture
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UploadURLRequest true "Content type of the image"
// @Success 200 {object} service.UploadURLResponse
// @Router /me/picture/upload-url [post]
func (h *UserHandler) RequestPictureUploadURL(c *gin.Context) {
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	resp, err := h.userService.RequestProfilePictureUpload(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) ConfirmPictureUpload(c *gin.Context) {
	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := h.userService.ConfirmProfilePicture(c.Request.Context(), userID, req.ObjectKey)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// GetPictureURL returns a presigned URL to view a user's profile picture.
func (h *UserHandler) GetPictureURL(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	url, err := h.userService.ProfilePictureURL(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
