package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fairway/backend/internal/auth"
)

// FollowResponse reports the caller's follow state towards a user.
type FollowResponse struct {
	UserID    string `json:"user_id"`
	Following bool   `json:"following"`
}

// Follow godoc
// @Summary      Follow a user
// @Description  Following someone you already follow is a no-op.
// @Tags         relations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  FollowResponse
// @Failure      400  {object}  ErrorResponse "Cannot follow self"
// @Failure      404  {object}  ErrorResponse "User not found"
// @Router       /users/{id}/follow [post]
func (h *Handler) Follow(c *gin.Context) {
	targetID := c.Param("id")
	if err := h.Follows.Follow(c.Request.Context(), auth.UserID(c), targetID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, FollowResponse{UserID: targetID, Following: true})
}

// Unfollow godoc
// @Summary      Unfollow a user
// @Tags         relations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  FollowResponse
// @Router       /users/{id}/follow [delete]
func (h *Handler) Unfollow(c *gin.Context) {
	targetID := c.Param("id")
	if err := h.Follows.Unfollow(c.Request.Context(), auth.UserID(c), targetID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, FollowResponse{UserID: targetID, Following: false})
}

// GetFollowStatus godoc
// @Summary      Get follow state
// @Description  Lookup failures report "not following".
// @Tags         relations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  FollowResponse
// @Router       /users/{id}/follow [get]
func (h *Handler) GetFollowStatus(c *gin.Context) {
	targetID := c.Param("id")
	c.JSON(http.StatusOK, FollowResponse{
		UserID:    targetID,
		Following: h.Follows.IsFollowing(c.Request.Context(), auth.UserID(c), targetID),
	})
}
