// Package scoring derives score-relative-to-par figures from rounds, including partial
// rounds where only some holes or only one nine was recorded.
package scoring

import (
	"math"
	"strconv"

	"fairway/backend/internal/models"
)

// DefaultHolePar is used for any hole whose par is missing or unusable.
const DefaultHolePar = 4

const nine = models.HolesPerRound / 2

// PlayedHoles returns the indices of holes that have a score.
func PlayedHoles(holes []*int) []int {
	played := make([]int, 0, len(holes))
	for i, s := range holes {
		if i >= models.HolesPerRound {
			break
		}
		if s != nil {
			played = append(played, i)
		}
	}
	return played
}

// Totals sums the played holes of each nine. front9 or back9 is nil when no hole of that
// nine was played; ok is false when no hole was played at all.
func Totals(holes []*int) (front9, back9 *int, total int, ok bool) {
	var front, back, nFront, nBack int
	for _, i := range PlayedHoles(holes) {
		if i < nine {
			front += *holes[i]
			nFront++
		} else {
			back += *holes[i]
			nBack++
		}
	}
	if nFront > 0 {
		front9 = &front
	}
	if nBack > 0 {
		back9 = &back
	}
	return front9, back9, front + back, nFront+nBack > 0
}

// HolePar returns the par of hole i, defaulting to DefaultHolePar.
func HolePar(coursePars []int, i int) int {
	if i < 0 || i >= len(coursePars) || coursePars[i] <= 0 {
		return DefaultHolePar
	}
	return coursePars[i]
}

// ParForHoles sums the par of the given hole indices.
func ParForHoles(coursePars []int, holes []int) int {
	sum := 0
	for _, i := range holes {
		sum += HolePar(coursePars, i)
	}
	return sum
}

// VsPar returns the round's score relative to the par of the holes actually played:
// "E" for even, "+N" over, "-N" under. ok is false when there is not enough data.
func VsPar(r models.Round) (string, bool) {
	diff, ok := Diff(r)
	if !ok {
		return "", false
	}
	return Format(diff), true
}

// Diff is VsPar before formatting.
func Diff(r models.Round) (int, bool) {
	if r.Par == nil && len(r.CoursePars) == 0 {
		return 0, false
	}

	if played := PlayedHoles(r.ScoresByHole); len(played) > 0 {
		_, _, total, _ := Totals(r.ScoresByHole)
		par := ParForHoles(r.CoursePars, played)
		if len(r.CoursePars) == 0 && r.Par != nil && len(played) == models.HolesPerRound {
			par = *r.Par
		}
		return total - par, true
	}

	total, ok := strokes(r)
	if !ok {
		return 0, false
	}

	switch {
	case r.Front9 != nil && r.Back9 == nil:
		return total - ninePar(r, 0), true
	case r.Back9 != nil && r.Front9 == nil:
		return total - ninePar(r, nine), true
	default:
		return total - fullPar(r), true
	}
}

// Format renders a par difference.
func Format(diff int) string {
	switch {
	case diff == 0:
		return "E"
	case diff > 0:
		return "+" + strconv.Itoa(diff)
	default:
		return strconv.Itoa(diff)
	}
}

func strokes(r models.Round) (int, bool) {
	if r.TotalScore > 0 {
		return r.TotalScore, true
	}
	if r.Front9 == nil && r.Back9 == nil {
		return 0, false
	}
	total := 0
	if r.Front9 != nil {
		total += *r.Front9
	}
	if r.Back9 != nil {
		total += *r.Back9
	}
	return total, true
}

func ninePar(r models.Round, start int) int {
	if len(r.CoursePars) == 0 {
		return int(math.Round(float64(*r.Par) / 2))
	}
	holes := make([]int, nine)
	for i := range holes {
		holes[i] = start + i
	}
	return ParForHoles(r.CoursePars, holes)
}

func fullPar(r models.Round) int {
	if r.Par != nil {
		return *r.Par
	}
	holes := make([]int, models.HolesPerRound)
	for i := range holes {
		holes[i] = i
	}
	return ParForHoles(r.CoursePars, holes)
}
