package handler

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fairway/backend/internal/repository"
	"fairway/backend/internal/settings"
)

const defaultMetricDays = 30

// GetDashboard godoc
// @Summary      Dashboard overview
// @Description  Headline counts for the admin dashboard.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Router       /admin/dashboard [get]
func (h *Handler) GetDashboard(c *gin.Context) {
	row, err := h.Admin.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func parseDay(s string, fallback time.Time) (time.Time, bool) {
	if s == "" {
		return fallback, true
	}
	t, err := time.Parse(time.DateOnly, s)
	return t, err == nil
}

// GetMetrics godoc
// @Summary      Per-day metrics
// @Description  Rows for each day in [start, end]. Defaults to the last 30 days.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        metric  path   string  true   "Metric" Enums(activity, growth, engagement)
// @Param        start   query  string  false  "Start date (YYYY-MM-DD)"
// @Param        end     query  string  false  "End date (YYYY-MM-DD)"
// @Success      200  {array}   map[string]interface{}
// @Failure      400  {object}  ErrorResponse "Invalid range or metric"
// @Router       /admin/metrics/{metric} [get]
func (h *Handler) GetMetrics(c *gin.Context) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	end, ok := parseDay(c.Query("end"), today)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be YYYY-MM-DD"})
		return
	}
	start, ok := parseDay(c.Query("start"), end.AddDate(0, 0, -defaultMetricDays))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be YYYY-MM-DD"})
		return
	}

	rows, err := h.Admin.Metrics(c.Request.Context(), repository.Metric(c.Param("metric")), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	if rows == nil {
		rows = []repository.Row{}
	}
	c.JSON(http.StatusOK, rows)
}

// AdminList godoc
// @Summary      Moderation list
// @Description  Paged users, comments or rounds with the total count.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        search  query  string  false  "Search"
// @Param        limit   query  int     false  "Items" default(25)
// @Param        offset  query  int     false  "Offset" default(0)
// @Param        sort    query  string  false  "Sort" Enums(newest, oldest, name, activity)
// @Success      200  {object}  service.AdminList
// @Failure      400  {object}  ErrorResponse "Unknown sort"
// @Router       /admin/users [get]
// @Router       /admin/comments [get]
// @Router       /admin/rounds [get]
func (h *Handler) AdminList(kind repository.ListKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

		list, err := h.Admin.List(c.Request.Context(), kind, repository.ListQuery{
			Search: c.Query("search"),
			Limit:  limit,
			Offset: offset,
			Sort:   c.Query("sort"),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// AdminDelete godoc
// @Summary      Delete a user, comment or round
// @Description  Reports how many dependent rows were removed with it.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id       path   string  true  "ID"
// @Param        confirm  query  bool    true  "Must be true"
// @Success      200  {object}  map[string]interface{}
// @Failure      428  {object}  ErrorResponse "Confirmation required"
// @Router       /admin/users/{id} [delete]
// @Router       /admin/comments/{id} [delete]
// @Router       /admin/rounds/{id} [delete]
func (h *Handler) AdminDelete(kind repository.ListKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !confirmed(c) {
			return
		}
		res, err := h.Admin.Delete(c.Request.Context(), kind, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// BanUser godoc
// @Summary      Ban a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id       path   string  true  "User ID"
// @Param        confirm  query  bool    true  "Must be true"
// @Success      200  {object}  map[string]interface{}
// @Failure      428  {object}  ErrorResponse "Confirmation required"
// @Router       /admin/users/{id}/ban [post]
func (h *Handler) BanUser(c *gin.Context) {
	if !confirmed(c) {
		return
	}
	res, err := h.Admin.Ban(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetFeedSettings godoc
// @Summary      Get feed settings
// @Tags         admin-settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  settings.FeedSettings
// @Router       /admin/settings/feed [get]
func (h *Handler) GetFeedSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.Settings.Current(c.Request.Context()))
}

// ReplaceFeedSettings godoc
// @Summary      Replace feed settings
// @Tags         admin-settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body settings.FeedSettings true "Settings"
// @Success      200  {object}  settings.FeedSettings
// @Failure      400  {object}  ErrorResponse
// @Router       /admin/settings/feed [put]
func (h *Handler) ReplaceFeedSettings(c *gin.Context) {
	var input settings.FeedSettings
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, err := h.Settings.Replace(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// PatchFeedSettings godoc
// @Summary      Update some feed settings
// @Description  Applies a JSON merge patch to the current settings.
// @Tags         admin-settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body object true "Merge patch, e.g. {\"discoveryRatio\":0.5}"
// @Success      200  {object}  settings.FeedSettings
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /admin/settings/feed [patch]
func (h *Handler) PatchFeedSettings(c *gin.Context) {
	patch, err := io.ReadAll(io.LimitReader(c.Request.Body, 64<<10))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}
	s, err := h.Settings.Patch(c.Request.Context(), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}
