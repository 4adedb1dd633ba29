package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fairway/backend/internal/auth"
	"fairway/backend/internal/models"
	"fairway/backend/internal/service"
)

// region --- DTOs ---

// UpdateProfileRequest carries the editable profile fields; omitted fields are left unchanged.
type UpdateProfileRequest struct {
	Username *string  `json:"username" binding:"omitempty,min=3,max=64" example:"birdie-hunter"`
	FullName *string  `json:"full_name" binding:"omitempty,max=255" example:"Jamie Doe"`
	Bio      *string  `json:"bio" binding:"omitempty,max=500"`
	Location *string  `json:"location" binding:"omitempty,max=255" example:"Monterey, CA"`
	Handicap *float64 `json:"handicap" example:"12.4"`
}

// MeResponse is the authenticated user's own profile.
type MeResponse struct {
	models.Profile
	Role    string `json:"role" example:"user"`
	IsAdmin bool   `json:"is_admin"`
}

func newMeResponse(p *models.Profile) MeResponse {
	return MeResponse{Profile: *p, Role: p.Role, IsAdmin: p.Role == models.RoleAdmin}
}

// endregion

// GetMe godoc
// @Summary      Get current user's profile
// @Description  Gets the profile of the currently authenticated user, creating it on first use.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  MeResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /me [get]
func (h *Handler) GetMe(c *gin.Context) {
	c.JSON(http.StatusOK, newMeResponse(auth.Profile(c)))
}

// UpdateMe godoc
// @Summary      Update current user's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body UpdateProfileRequest true "Profile fields"
// @Success      200  {object}  MeResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /me [put]
func (h *Handler) UpdateMe(c *gin.Context) {
	var input UpdateProfileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.Profiles.Update(c.Request.Context(), auth.UserID(c), service.UpdateProfileInput{
		Username: input.Username,
		FullName: input.FullName,
		Bio:      input.Bio,
		Location: input.Location,
		Handicap: input.Handicap,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newMeResponse(p))
}

// UploadAvatar godoc
// @Summary      Upload an avatar
// @Description  Compresses and stores a new avatar, replacing the previous one.
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar formData file true "Image file"
// @Success      200  {object}  MeResponse
// @Failure      400  {object}  ErrorResponse "Missing, unreadable or oversized image"
// @Router       /me/avatar [post]
func (h *Handler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}
	data, err := h.readUpload(fh)
	if err != nil {
		respondError(c, err)
		return
	}

	p, err := h.Profiles.SetAvatar(c.Request.Context(), auth.UserID(c), data, fh.Filename)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newMeResponse(p))
}

// DeleteAvatar godoc
// @Summary      Remove the avatar
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        confirm query bool true "Must be true"
// @Success      200  {object}  MessageResponse
// @Failure      428  {object}  ErrorResponse "Confirmation required"
// @Router       /me/avatar [delete]
func (h *Handler) DeleteAvatar(c *gin.Context) {
	if !confirmed(c) {
		return
	}
	if err := h.Profiles.RemoveAvatar(c.Request.Context(), auth.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Avatar removed"})
}

// SearchUsers godoc
// @Summary      Search for users
// @Description  Searches users by username or name, with pagination.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q      query     string  false  "Search query"
// @Param        page   query     int     false  "Page number" default(1)
// @Param        limit  query     int     false  "Items per page" default(10)
// @Success      200    {object}  PaginatedResponse[models.Profile]
// @Router       /users [get]
func (h *Handler) SearchUsers(c *gin.Context) {
	page, limit, offset := pageParams(c)

	users, total, err := h.Profiles.Search(c.Request.Context(), c.Query("q"), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(users, total, page, limit))
}

// GetUserByID godoc
// @Summary      Get a user's public profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  service.PublicProfile
// @Failure      404  {object}  ErrorResponse "User not found"
// @Router       /users/{id} [get]
func (h *Handler) GetUserByID(c *gin.Context) {
	p, err := h.Profiles.Public(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GetUserRounds godoc
// @Summary      List a user's rounds
// @Description  Newest first, normalized with reactions, comments and follow state.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id      path   string  true   "User ID"
// @Param        offset  query  int     false  "Offset" default(0)
// @Param        limit   query  int     false  "Items" default(20)
// @Success      200  {array}  feed.RoundView
// @Router       /users/{id}/rounds [get]
func (h *Handler) GetUserRounds(c *gin.Context) {
	offset, limit := offsetParams(c)
	if limit == 0 || limit > maxPageSize {
		limit = 20
	}

	rounds, err := h.Rounds.ListByUser(c.Request.Context(), auth.UserID(c), c.Param("id"), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rounds)
}
