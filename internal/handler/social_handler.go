package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fairway/backend/internal/auth"
	"fairway/backend/internal/models"
)

// CommentInput is a new comment on a round.
type CommentInput struct {
	Content string `json:"content" binding:"required" example:"Great up and down on 18!"`
}

// ToggleReaction godoc
// @Summary      Toggle a reaction
// @Description  Adds the reaction if the caller has not reacted with this type yet, removes it otherwise.
// @Tags         social
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Round ID"
// @Param        type  path      string  true  "Reaction type" Enums(fire, clap, dart, goat, vomit, clown, skull, laugh)
// @Success      200   {object}  service.ReactionResult
// @Failure      400   {object}  ErrorResponse "Unknown reaction type"
// @Failure      404   {object}  ErrorResponse "Round not found"
// @Router       /rounds/{id}/reactions/{type} [post]
func (h *Handler) ToggleReaction(c *gin.Context) {
	res, err := h.Social.ToggleReaction(c.Request.Context(), auth.UserID(c), c.Param("id"), models.ReactionType(c.Param("type")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListComments godoc
// @Summary      List comments on a round
// @Description  Oldest first.
// @Tags         social
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string  true  "Round ID"
// @Success      200  {array}  feed.CommentView
// @Failure      404  {object} ErrorResponse "Round not found"
// @Router       /rounds/{id}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	comments, err := h.Social.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// AddComment godoc
// @Summary      Comment on a round
// @Tags         social
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string        true  "Round ID"
// @Param        input  body      CommentInput  true  "Comment"
// @Success      201    {object}  feed.CommentView
// @Failure      400    {object}  ErrorResponse "Empty or too long"
// @Failure      404    {object}  ErrorResponse "Round not found"
// @Router       /rounds/{id}/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	comment, err := h.Social.AddComment(c.Request.Context(), auth.UserID(c), c.Param("id"), input.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// DeleteComment godoc
// @Summary      Delete a comment (author only)
// @Tags         social
// @Produce      json
// @Security     BearerAuth
// @Param        id       path   string  true  "Comment ID"
// @Param        confirm  query  bool    true  "Must be true"
// @Success      200  {object}  MessageResponse
// @Failure      403  {object}  ErrorResponse "Only the author can delete the comment"
// @Failure      404  {object}  ErrorResponse "Comment not found"
// @Failure      428  {object}  ErrorResponse "Confirmation required"
// @Router       /comments/{id} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	if !confirmed(c) {
		return
	}
	if err := h.Social.DeleteComment(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Comment deleted"})
}
