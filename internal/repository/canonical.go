package repository

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"

	"fairway/backend/internal/models"
	"fairway/backend/internal/scoring"
)

// rawRound is a round row as returned by the server-side functions. Different functions
// name the same column differently; canonicalRound resolves them into models.Round.
type rawRound struct {
	ID         string         `gorm:"column:id"`
	UserID     string         `gorm:"column:user_id"`
	CourseID   *string        `gorm:"column:course_id"`
	CourseName *string        `gorm:"column:course_name"`
	ClubName   *string        `gorm:"column:club_name"`
	City       *string        `gorm:"column:city"`
	State      *string        `gorm:"column:state"`
	PlayedAt   *time.Time     `gorm:"column:played_at"`
	CreatedAt  *time.Time     `gorm:"column:created_at"`
	Caption    *string        `gorm:"column:caption"`
	PhotoURL   *string        `gorm:"column:photo_url"`
	TeeData    datatypes.JSON `gorm:"column:tee_data"`

	Front9    *int `gorm:"column:front9"`
	FrontNine *int `gorm:"column:front_nine"`
	Back9     *int `gorm:"column:back9"`
	BackNine  *int `gorm:"column:back_nine"`

	TotalScore *int `gorm:"column:total_score"`
	Total      *int `gorm:"column:total"`

	ScoresByHole datatypes.JSON `gorm:"column:scores_by_hole"`
	Holes        datatypes.JSON `gorm:"column:holes"`

	Par        *int           `gorm:"column:par"`
	CoursePar  *int           `gorm:"column:course_par"`
	CoursePars datatypes.JSON `gorm:"column:course_pars"`

	Username  *string `gorm:"column:username"`
	FullName  *string `gorm:"column:full_name"`
	AvatarURL *string `gorm:"column:avatar_url"`

	Source *string `gorm:"column:source"`
	Reason *string `gorm:"column:reason"`
}

// FeedEntry is one ranked feed row.
type FeedEntry struct {
	Round  models.Round
	Source string
	Reason string
}

func firstInt(vals ...*int) *int {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstJSON(vals ...datatypes.JSON) datatypes.JSON {
	for _, v := range vals {
		if len(v) > 0 && string(v) != "null" {
			return v
		}
	}
	return nil
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// canonicalRound is the single place alternate column names are resolved.
func canonicalRound(raw rawRound) models.Round {
	r := models.Round{
		ID:         raw.ID,
		UserID:     raw.UserID,
		CourseID:   raw.CourseID,
		CourseName: str(raw.CourseName),
		ClubName:   str(raw.ClubName),
		City:       str(raw.City),
		State:      str(raw.State),
		Front9:     firstInt(raw.Front9, raw.FrontNine),
		Back9:      firstInt(raw.Back9, raw.BackNine),
		Par:        firstInt(raw.Par, raw.CoursePar),
		TeeData:    raw.TeeData,
		Caption:    raw.Caption,
		PhotoURL:   raw.PhotoURL,
	}
	if raw.PlayedAt != nil {
		r.PlayedAt = *raw.PlayedAt
	}
	if raw.CreatedAt != nil {
		r.CreatedAt = *raw.CreatedAt
	}
	if total := firstInt(raw.TotalScore, raw.Total); total != nil {
		r.TotalScore = *total
	}
	if holes := decodeHoles(firstJSON(raw.ScoresByHole, raw.Holes)); holes != nil {
		r.ScoresByHole = holes
		if front, back, total, ok := scoring.Totals(holes); ok {
			r.Front9, r.Back9, r.TotalScore = front, back, total
		}
	}
	if pars := decodePars(firstJSON(raw.CoursePars)); pars != nil {
		r.CoursePars = pars
	}
	if raw.Username != nil {
		r.Author = &models.Profile{
			ID:        raw.UserID,
			Username:  *raw.Username,
			FullName:  raw.FullName,
			AvatarURL: raw.AvatarURL,
		}
	}
	return r
}

// decodeHoles reads an 18-hole score array whose entries may be numbers, numeric strings,
// empty strings or nulls. Anything that is not a positive number counts as not played.
func decodeHoles(raw datatypes.JSON) []*int {
	var vals []any
	if len(raw) == 0 || json.Unmarshal(raw, &vals) != nil {
		return nil
	}
	holes := make([]*int, models.HolesPerRound)
	for i, v := range vals {
		if i >= models.HolesPerRound {
			break
		}
		if n, ok := toInt(v); ok && n > 0 {
			holes[i] = &n
		}
	}
	return holes
}

// decodePars reads a course par array; unusable entries become 0, which scoring treats as
// the default par.
func decodePars(raw datatypes.JSON) []int {
	var vals []any
	if len(raw) == 0 || json.Unmarshal(raw, &vals) != nil || len(vals) == 0 {
		return nil
	}
	pars := make([]int, models.HolesPerRound)
	for i, v := range vals {
		if i >= models.HolesPerRound {
			break
		}
		if n, ok := toInt(v); ok && n > 0 {
			pars[i] = n
		}
	}
	return pars
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case []byte:
		i, _ := strconv.ParseInt(string(n), 10, 64)
		return i
	case float32:
		return int64(n)
	}
	i, _ := toInt(v)
	return int64(i)
}
