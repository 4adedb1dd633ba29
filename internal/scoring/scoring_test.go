package scoring

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairway/backend/internal/models"
)

func intp(v int) *int { return &v }

func fours() []int {
	pars := make([]int, models.HolesPerRound)
	for i := range pars {
		pars[i] = 4
	}
	return pars
}

func TestVsPar_TotalsOnly(t *testing.T) {
	got, ok := VsPar(models.Round{TotalScore: 82, Par: intp(72)})
	require.True(t, ok)
	assert.Equal(t, "+10", got)

	got, ok = VsPar(models.Round{TotalScore: 72, Par: intp(72)})
	require.True(t, ok)
	assert.Equal(t, "E", got)

	got, ok = VsPar(models.Round{TotalScore: 69, Par: intp(72)})
	require.True(t, ok)
	assert.Equal(t, "-3", got)
}

func TestVsPar_FrontNineOnly(t *testing.T) {
	r := models.Round{Front9: intp(34), TotalScore: 34, CoursePars: fours()}
	got, ok := VsPar(r)
	require.True(t, ok)
	assert.Equal(t, "-2", got, "34 against 36 for the first nine")
}

func TestVsPar_BackNineWithoutHolePars(t *testing.T) {
	r := models.Round{Back9: intp(40), TotalScore: 40, Par: intp(71)}
	got, ok := VsPar(r)
	require.True(t, ok)
	assert.Equal(t, "+4", got, "half of 71 rounds to 36")
}

func TestVsPar_NineTotalWithoutTotalScore(t *testing.T) {
	r := models.Round{Front9: intp(38), Par: intp(72)}
	got, ok := VsPar(r)
	require.True(t, ok)
	assert.Equal(t, "+2", got)
}

func TestVsPar_HoleLevel(t *testing.T) {
	pars := fours()
	pars[0] = 5
	pars[1] = 3
	holes := make([]*int, models.HolesPerRound)
	holes[0] = intp(5)
	holes[1] = intp(4)
	holes[2] = intp(6)

	got, ok := VsPar(models.Round{ScoresByHole: holes, CoursePars: pars, Par: intp(72), TotalScore: 99})
	require.True(t, ok)
	assert.Equal(t, "+3", got, "15 strokes against 12 on the played holes; stored total is ignored")
}

func TestVsPar_MissingHoleParsDefaultToFour(t *testing.T) {
	holes := make([]*int, models.HolesPerRound)
	holes[10] = intp(3)
	holes[11] = intp(5)

	got, ok := VsPar(models.Round{ScoresByHole: holes, CoursePars: []int{4, 4, 0}})
	require.True(t, ok)
	assert.Equal(t, "E", got)
}

func TestVsPar_FullCardWithoutHoleParsUsesPar(t *testing.T) {
	holes := make([]*int, models.HolesPerRound)
	for i := range holes {
		holes[i] = intp(4)
	}
	got, ok := VsPar(models.Round{ScoresByHole: holes, Par: intp(71)})
	require.True(t, ok)
	assert.Equal(t, "+1", got)
}

func TestVsPar_InsufficientData(t *testing.T) {
	_, ok := VsPar(models.Round{TotalScore: 80})
	assert.False(t, ok, "no par and no course pars")

	_, ok = VsPar(models.Round{Par: intp(72)})
	assert.False(t, ok, "no strokes recorded")
}

func TestVsPar_SignMatchesPlayedHoleDifference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for n := 0; n < 500; n++ {
		pars := make([]int, models.HolesPerRound)
		holes := make([]*int, models.HolesPerRound)
		strokes, par, played := 0, 0, 0
		for i := range pars {
			pars[i] = 3 + rng.Intn(3)
			if rng.Intn(3) > 0 {
				s := 2 + rng.Intn(6)
				holes[i] = intp(s)
				strokes += s
				par += pars[i]
				played++
			}
		}
		if played == 0 {
			continue
		}

		got, ok := VsPar(models.Round{ScoresByHole: holes, CoursePars: pars})
		require.True(t, ok)

		diff := strokes - par
		switch {
		case diff == 0:
			assert.Equal(t, "E", got)
		case diff > 0:
			assert.Equal(t, byte('+'), got[0])
		default:
			assert.Equal(t, byte('-'), got[0])
		}
	}
}

func TestTotals(t *testing.T) {
	holes := make([]*int, models.HolesPerRound)
	holes[0] = intp(4)
	holes[8] = intp(5)

	front, back, total, ok := Totals(holes)
	require.True(t, ok)
	require.NotNil(t, front)
	assert.Equal(t, 9, *front)
	assert.Nil(t, back)
	assert.Equal(t, 9, total)

	_, _, _, ok = Totals(make([]*int, models.HolesPerRound))
	assert.False(t, ok)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "E", Format(0))
	assert.Equal(t, "+1", Format(1))
	assert.Equal(t, "-12", Format(-12))
}
