package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"fairway/backend/internal/models"
	"fairway/backend/internal/scoring"
)

func intp(v int) *int       { return &v }
func strp(s string) *string { return &s }

func TestCanonicalRound_ResolvesAliases(t *testing.T) {
	raw := rawRound{
		ID:         "r1",
		UserID:     "u1",
		CourseName: strp("Ocean Course"),
		Total:      intp(41),
		CoursePar:  intp(72),
		FrontNine:  intp(41),
		Holes:      datatypes.JSON(`[4, "5", "", null, 3, 4, 5, 6, 4, "", "", "", "", "", "", "", "", ""]`),
		CoursePars: datatypes.JSON(`[4, 4, 4, 4, 3, 4, 5, 4, 4, 4, "x", 4, 4, 4, 3, 4, 5, 4]`),
		Username:   strp("annika"),
		Source:     strp("following"),
	}

	r := canonicalRound(raw)
	assert.Equal(t, "Ocean Course", r.CourseName)
	require.NotNil(t, r.Par)
	assert.Equal(t, 72, *r.Par)

	require.Len(t, r.ScoresByHole, models.HolesPerRound)
	assert.Equal(t, 4, *r.ScoresByHole[0])
	assert.Equal(t, 5, *r.ScoresByHole[1])
	assert.Nil(t, r.ScoresByHole[2])
	assert.Nil(t, r.ScoresByHole[3])

	require.NotNil(t, r.Front9)
	assert.Equal(t, 31, *r.Front9, "totals are derived from the played holes")
	assert.Nil(t, r.Back9)
	assert.Equal(t, 31, r.TotalScore)

	assert.Equal(t, 0, r.CoursePars[10], "unusable par entries fall back to the default later")
	require.NotNil(t, r.Author)
	assert.Equal(t, "annika", r.Author.Username)
}

func TestCanonicalRound_PrefersCanonicalNames(t *testing.T) {
	r := canonicalRound(rawRound{
		ID:         "r1",
		TotalScore: intp(80),
		Total:      intp(1),
		Par:        intp(71),
		CoursePar:  intp(1),
		Front9:     intp(40),
		FrontNine:  intp(1),
		Back9:      intp(40),
		BackNine:   intp(1),
	})
	assert.Equal(t, 80, r.TotalScore)
	assert.Equal(t, 71, *r.Par)
	assert.Equal(t, 40, *r.Front9)
	assert.Equal(t, 40, *r.Back9)
	assert.Nil(t, r.ScoresByHole)
	assert.Nil(t, r.Author)
}

func TestCanonicalRound_EmptyHoleArrayKeepsTotals(t *testing.T) {
	r := canonicalRound(rawRound{ID: "r1", TotalScore: intp(77), ScoresByHole: datatypes.JSON(`["", "", null]`)})
	assert.Equal(t, 77, r.TotalScore)
	assert.Len(t, r.ScoresByHole, models.HolesPerRound)
}

func TestCanonicalRound_NullCourseParsStayAbsent(t *testing.T) {
	var scanned datatypes.JSON
	require.NoError(t, scanned.Scan(nil))

	for name, pars := range map[string]datatypes.JSON{
		"scanned null": scanned,
		"null literal": datatypes.JSON("null"),
		"empty array":  datatypes.JSON("[]"),
	} {
		t.Run(name, func(t *testing.T) {
			r := canonicalRound(rawRound{ID: "r1", TotalScore: intp(80), CoursePars: pars})
			assert.Nil(t, r.CoursePars)
			assert.Nil(t, r.Par)

			_, ok := scoring.VsPar(r)
			assert.False(t, ok, "no par and no course pars")
		})
	}
}

func TestToInt64(t *testing.T) {
	assert.EqualValues(t, 12, toInt64(int64(12)))
	assert.EqualValues(t, 7, toInt64(float64(7)))
	assert.EqualValues(t, 42, toInt64([]byte("42")))
	assert.EqualValues(t, 0, toInt64(nil))
}
