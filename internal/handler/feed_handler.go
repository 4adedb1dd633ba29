package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fairway/backend/internal/auth"
)

// GetFeed godoc
// @Summary      Get the feed
// @Description  One page of followed and discovered rounds, ranked by the feed settings.
// @Description  Request pages with increasing offsets; has_more is false on the last page.
// @Tags         feed
// @Produce      json
// @Security     BearerAuth
// @Param        offset  query     int  false  "Offset" default(0)
// @Param        limit   query     int  false  "Page size; 0 uses the configured feed limit" default(0)
// @Success      200     {object}  service.FeedPage
// @Failure      500     {object}  ErrorResponse
// @Router       /feed [get]
func (h *Handler) GetFeed(c *gin.Context) {
	offset, limit := offsetParams(c)
	page, err := h.Feed.Page(c.Request.Context(), auth.UserID(c), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
