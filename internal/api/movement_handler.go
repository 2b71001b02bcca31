package api

import (
	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// MovementHandler holds the movement service dependency.
type MovementHandler struct {
	movementService service.MovementService
}

// NewMovementHandler creates a new MovementHandler.
func NewMovementHandler(movementService service.MovementService) *MovementHandler {
	return &MovementHandler{movementService: movementService}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreateMovementRequest defines the expected JSON for creating a movement.
type CreateMovementRequest struct {
	Name          string   `json:"name" binding:"required,max=100"`
	Type          string   `json:"type" binding:"required,oneof=cardio weighted"`
	MusclesWorked []string `json:"musclesWorked"` // required for weighted, ignored for cardio
}

// UpdateMovementRequest omits the type, which never changes.
type UpdateMovementRequest struct {
	Name          string   `json:"name" binding:"required,max=100"`
	MusclesWorked []string `json:"musclesWorked"`
}

// MovementResponse is the DTO for returning movement details.
type MovementResponse struct {
	ID            string    `json:"id"`
	CreatorID     string    `json:"creatorId,omitempty"` // empty for library movements
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	MusclesWorked []string  `json:"musclesWorked"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// MapMovementToResponse converts a domain.Movement to MovementResponse DTO.
func MapMovementToResponse(m *domain.Movement) MovementResponse {
	if m == nil {
		return MovementResponse{}
	}
	resp := MovementResponse{
		ID:            m.ID.Hex(),
		Name:          m.Name,
		Type:          string(m.Type),
		MusclesWorked: m.MusclesWorked,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if resp.MusclesWorked == nil {
		resp.MusclesWorked = []string{}
	}
	if m.CreatorID != nil {
		resp.CreatorID = m.CreatorID.Hex()
	}
	return resp
}

// MapMovementsToResponse converts a slice of domain.Movement to a slice of MovementResponse DTO.
func MapMovementsToResponse(movements []domain.Movement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = MapMovementToResponse(&movements[i])
	}
	return responses
}

// --- Handler Methods ---

// CreateMovement godoc
// @Summary Create a new movement
// @Tags Movements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param movement body CreateMovementRequest true "Movement details"
// @Success 201 {object} MovementResponse "Movement created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Router /movements [post]
func (h *MovementHandler) CreateMovement(c *gin.Context) {
	var req CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	movement, err := h.movementService.CreateMovement(c.Request.Context(), userID, req.Name, domain.MovementType(req.Type), req.MusclesWorked)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapMovementToResponse(movement))
}

// GetMovements godoc
// @Summary List library movements plus the caller's own
// @Tags Movements
// @Produce json
// @Security BearerAuth
// @Success 200 {array} MovementResponse "List of movements"
// @Router /movements [get]
func (h *MovementHandler) GetMovements(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	movements, err := h.movementService.ListMovements(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapMovementsToResponse(movements))
}

func (h *MovementHandler) GetMovement(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	movementID, ok := pathID(c, "movementId")
	if !ok {
		return
	}
	movement, err := h.movementService.GetMovement(c.Request.Context(), userID, movementID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapMovementToResponse(movement))
}

func (h *MovementHandler) UpdateMovement(c *gin.Context) {
	var req UpdateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	movementID, ok := pathID(c, "movementId")
	if !ok {
		return
	}

	movement, err := h.movementService.UpdateMovement(c.Request.Context(), userID, movementID, req.Name, req.MusclesWorked)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapMovementToResponse(movement))
}

func (h *MovementHandler) DeleteMovement(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	movementID, ok := pathID(c, "movementId")
	if !ok {
		return
	}
	if err := h.movementService.DeleteMovement(c.Request.Context(), userID, movementID); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
