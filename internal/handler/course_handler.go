package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fairway/backend/internal/service"
)

// region --- DTOs ---

// CourseRequest is a catalog entry. Hole pars, when given, must cover all 18 holes.
type CourseRequest struct {
	CourseName string `json:"course_name" binding:"required,max=255" example:"Ocean Course"`
	ClubName   string `json:"club_name" binding:"max=255" example:"Kiawah Island Golf Resort"`
	City       string `json:"city" binding:"max=120"`
	State      string `json:"state" binding:"max=60"`
	Par        *int   `json:"par" binding:"omitempty,min=27,max=90" example:"72"`
	CoursePars []int  `json:"course_pars"`
}

func (r CourseRequest) toService() service.CourseInput {
	return service.CourseInput{
		CourseName: r.CourseName,
		ClubName:   r.ClubName,
		City:       r.City,
		State:      r.State,
		Par:        r.Par,
		CoursePars: r.CoursePars,
	}
}

// endregion

// region --- Public Handlers ---

// SearchCourses godoc
// @Summary      Search courses
// @Description  Matches every word against course, club and city. Results carry a display name.
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        q      query     string  false  "Search query"
// @Param        page   query     int     false  "Page number" default(1)
// @Param        limit  query     int     false  "Items per page" default(10)
// @Success      200    {object}  PaginatedResponse[service.CourseView]
// @Router       /courses [get]
func (h *Handler) SearchCourses(c *gin.Context) {
	page, limit, offset := pageParams(c)

	res, err := h.Courses.Search(c.Request.Context(), c.Query("q"), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(res.Items, res.Total, page, limit))
}

// GetCourseByID godoc
// @Summary      Get a course
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Course ID"
// @Success      200  {object}  service.CourseView
// @Failure      404  {object}  ErrorResponse "Course not found"
// @Router       /courses/{id} [get]
func (h *Handler) GetCourseByID(c *gin.Context) {
	course, err := h.Courses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// endregion

// region --- Admin Handlers ---

// CreateCourse godoc
// @Summary      Create a course
// @Tags         admin-courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body CourseRequest true "Course"
// @Success      201  {object}  service.CourseView
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Router       /admin/courses [post]
func (h *Handler) CreateCourse(c *gin.Context) {
	var input CourseRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	course, err := h.Courses.Create(c.Request.Context(), input.toService())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

// UpdateCourse godoc
// @Summary      Update a course
// @Tags         admin-courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Course ID"
// @Param        input body      CourseRequest  true  "Course"
// @Success      200  {object}  service.CourseView
// @Failure      404  {object}  ErrorResponse "Course not found"
// @Router       /admin/courses/{id} [put]
func (h *Handler) UpdateCourse(c *gin.Context) {
	var input CourseRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	course, err := h.Courses.Update(c.Request.Context(), c.Param("id"), input.toService())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// DeleteCourse godoc
// @Summary      Delete a course
// @Description  Rounds keep their copied course details.
// @Tags         admin-courses
// @Produce      json
// @Security     BearerAuth
// @Param        id       path   string  true  "Course ID"
// @Param        confirm  query  bool    true  "Must be true"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  ErrorResponse "Course not found"
// @Failure      428  {object}  ErrorResponse "Confirmation required"
// @Router       /admin/courses/{id} [delete]
func (h *Handler) DeleteCourse(c *gin.Context) {
	if !confirmed(c) {
		return
	}
	if err := h.Courses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Course deleted successfully"})
}

// endregion
