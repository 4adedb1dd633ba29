package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fairway/backend/internal/repository"
)

// Middlewares are the guards Register puts in front of the routes.
type Middlewares struct {
	Auth      gin.HandlerFunc
	Admin     gin.HandlerFunc
	RateLimit gin.HandlerFunc
}

// limited puts the rate limiter, if any, in front of a write handler.
func (mw Middlewares) limited(handler gin.HandlerFunc) []gin.HandlerFunc {
	if mw.RateLimit == nil {
		return []gin.HandlerFunc{handler}
	}
	return []gin.HandlerFunc{mw.RateLimit, handler}
}

// Register mounts the API routes on apiV1.
func (h *Handler) Register(apiV1 *gin.RouterGroup, mw Middlewares) {
	// Own profile
	me := apiV1.Group("/me", mw.Auth)
	{
		me.GET("", h.GetMe)
		me.PUT("", h.UpdateMe)
		me.POST("/avatar", mw.limited(h.UploadAvatar)...)
		me.DELETE("/avatar", h.DeleteAvatar)
	}

	userRoutes := apiV1.Group("/users", mw.Auth)
	{
		userRoutes.GET("", h.SearchUsers)
		userRoutes.GET("/:id", h.GetUserByID)
		userRoutes.GET("/:id/rounds", h.GetUserRounds)
		userRoutes.GET("/:id/follow", h.GetFollowStatus)
		userRoutes.POST("/:id/follow", mw.limited(h.Follow)...)
		userRoutes.DELETE("/:id/follow", h.Unfollow)
	}

	apiV1.GET("/feed", mw.Auth, h.GetFeed)

	roundRoutes := apiV1.Group("/rounds", mw.Auth)
	{
		roundRoutes.POST("", mw.limited(h.CreateRound)...)
		roundRoutes.GET("/:id", h.GetRound)
		roundRoutes.DELETE("/:id", h.DeleteRound)
		roundRoutes.GET("/:id/events", h.RoundEvents)
		roundRoutes.POST("/:id/reactions/:type", mw.limited(h.ToggleReaction)...)
		roundRoutes.GET("/:id/comments", h.ListComments)
		roundRoutes.POST("/:id/comments", mw.limited(h.AddComment)...)
	}
	apiV1.DELETE("/comments/:id", mw.Auth, h.DeleteComment)

	courseRoutes := apiV1.Group("/courses", mw.Auth)
	{
		courseRoutes.GET("", h.SearchCourses)
		courseRoutes.GET("/:id", h.GetCourseByID)
	}

	// Admin routes (protected by auth and admin check)
	adminRoutes := apiV1.Group("/admin", mw.Auth, mw.Admin)
	{
		adminRoutes.GET("/dashboard", h.GetDashboard)
		adminRoutes.GET("/metrics/:metric", h.GetMetrics)

		for _, kind := range []repository.ListKind{repository.ListUsers, repository.ListComments, repository.ListRounds} {
			adminRoutes.GET("/"+string(kind), h.AdminList(kind))
			adminRoutes.DELETE("/"+string(kind)+"/:id", h.AdminDelete(kind))
		}
		adminRoutes.POST("/users/:id/ban", h.BanUser)

		feedSettings := adminRoutes.Group("/settings/feed")
		{
			feedSettings.GET("", h.GetFeedSettings)
			feedSettings.PUT("", h.ReplaceFeedSettings)
			feedSettings.PATCH("", h.PatchFeedSettings)
		}

		adminCourseRoutes := adminRoutes.Group("/courses")
		{
			adminCourseRoutes.POST("", h.CreateCourse)
			adminCourseRoutes.PUT("/:id", h.UpdateCourse)
			adminCourseRoutes.DELETE("/:id", h.DeleteCourse)
		}
	}
}

// Ping godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  MessageResponse
// @Router       /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, MessageResponse{Message: "pong"})
}
