package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"fairway/backend/internal/auth"
	"fairway/backend/internal/hub"
	"fairway/backend/internal/service"
)

// region --- DTOs ---

// RoundInput is a submitted score card. Send it as the JSON body, or as the "round" field
// of a multipart form when attaching a "photo".
type RoundInput struct {
	CourseID     *string         `json:"course_id"`
	CourseName   string          `json:"course_name" binding:"max=255" example:"Pebble Beach Golf Links"`
	ClubName     string          `json:"club_name" binding:"max=255"`
	City         string          `json:"city" binding:"max=120"`
	State        string          `json:"state" binding:"max=60"`
	PlayedAt     string          `json:"played_at" example:"2024-06-01"`
	Front9       *int            `json:"front9" binding:"omitempty,min=1"`
	Back9        *int            `json:"back9" binding:"omitempty,min=1"`
	TotalScore   int             `json:"total_score" binding:"min=0"`
	ScoresByHole []*int          `json:"scores_by_hole" binding:"max=18"`
	Par          *int            `json:"par" binding:"omitempty,min=1"`
	CoursePars   []int           `json:"course_pars" binding:"max=18"`
	TeeData      json.RawMessage `json:"tee_data" swaggertype:"object"`
	Caption      *string         `json:"caption" binding:"omitempty,max=500"`
}

func parsePlayedAt(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, true
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func (in RoundInput) toService() (service.CreateRoundInput, bool) {
	playedAt, ok := parsePlayedAt(in.PlayedAt)
	if !ok {
		return service.CreateRoundInput{}, false
	}
	return service.CreateRoundInput{
		CourseID:     in.CourseID,
		CourseName:   in.CourseName,
		ClubName:     in.ClubName,
		City:         in.City,
		State:        in.State,
		PlayedAt:     playedAt,
		Front9:       in.Front9,
		Back9:        in.Back9,
		TotalScore:   in.TotalScore,
		ScoresByHole: in.ScoresByHole,
		Par:          in.Par,
		CoursePars:   in.CoursePars,
		TeeData:      in.TeeData,
		Caption:      in.Caption,
	}, true
}

// endregion

// CreateRound godoc
// @Summary      Post a round
// @Description  Stores a score card. Nine and total scores are derived from hole scores when present.
// @Description  A photo is compressed before upload.
// @Tags         rounds
// @Accept       json,multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        input  body      RoundInput  false  "Score card (JSON body)"
// @Param        round  formData  string      false  "Score card as JSON (multipart)"
// @Param        photo  formData  file        false  "Round photo (multipart)"
// @Success      201    {object}  feed.RoundView
// @Failure      400    {object}  ErrorResponse
// @Router       /rounds [post]
func (h *Handler) CreateRound(c *gin.Context) {
	var input RoundInput
	var photo []byte
	var photoName string

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := json.Unmarshal([]byte(c.PostForm("round")), &input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "round must be a JSON score card"})
			return
		}
		if err := binding.Validator.ValidateStruct(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if fh, err := c.FormFile("photo"); err == nil {
			data, err := h.readUpload(fh)
			if err != nil {
				respondError(c, err)
				return
			}
			photo, photoName = data, fh.Filename
		}
	} else if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in, ok := input.toService()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "played_at must be a date (YYYY-MM-DD) or RFC 3339 time"})
		return
	}
	in.Photo, in.PhotoName = photo, photoName

	round, err := h.Rounds.Create(c.Request.Context(), auth.UserID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, round)
}

// GetRound godoc
// @Summary      Get a round
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Round ID"
// @Success      200  {object}  feed.RoundView
// @Failure      404  {object}  ErrorResponse "Round not found"
// @Router       /rounds/{id} [get]
func (h *Handler) GetRound(c *gin.Context) {
	round, err := h.Rounds.Get(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, round)
}

// DeleteRound godoc
// @Summary      Delete a round (owner only)
// @Description  Removes the round with its reactions, comments and photo.
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Param        id       path   string  true  "Round ID"
// @Param        confirm  query  bool    true  "Must be true"
// @Success      200  {object}  MessageResponse
// @Failure      403  {object}  ErrorResponse "Only the owner can delete the round"
// @Failure      404  {object}  ErrorResponse "Round not found"
// @Failure      428  {object}  ErrorResponse "Confirmation required"
// @Router       /rounds/{id} [delete]
func (h *Handler) DeleteRound(c *gin.Context) {
	if !confirmed(c) {
		return
	}
	if err := h.Rounds.Delete(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Round deleted"})
}

// RoundEvents godoc
// @Summary      Stream round events
// @Description  Server-sent events for reactions and comments on a round.
// @Tags         rounds
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        id   path  string  true  "Round ID"
// @Success      200  {string}  string  "event stream"
// @Router       /rounds/{id}/events [get]
func (h *Handler) RoundEvents(c *gin.Context) {
	roundID := c.Param("id")

	client := make(hub.Client, 16)
	h.Hub.Subscribe(roundID, client)
	defer h.Hub.Unsubscribe(roundID, client)

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("message", string(msg))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
