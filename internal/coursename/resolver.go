// Package coursename decides how a round's course and club are labelled.
package coursename

import (
	"strings"
	"unicode"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SingleCourseThreshold is the share of course-name tokens that must appear in the club
// name for the course to be treated as the club's only course.
const SingleCourseThreshold = 0.7

// Sentinels are placeholder course names that carry no information.
var Sentinels = []string{"Unknown Course", "Course Name N/A"}

// genericWords are facility words that say nothing about which course is meant.
var genericWords = map[string]bool{
	"golf": true, "club": true, "country": true, "cc": true,
	"course": true, "resort": true, "links": true,
}

// DefaultAmbiguousWords are single-word course names that read better as "<word> Course".
var DefaultAmbiguousWords = []string{"Old", "Championship"}

// Resolver builds display labels. The zero value has no ambiguous words.
type Resolver struct {
	ambiguous map[string]bool
}

// NewResolver returns a resolver that appends "Course" to the given single-word names.
func NewResolver(ambiguousWords []string) *Resolver {
	r := &Resolver{ambiguous: make(map[string]bool, len(ambiguousWords))}
	for _, w := range ambiguousWords {
		r.ambiguous[strings.ToLower(strings.TrimSpace(w))] = true
	}
	return r
}

// DisplayName returns the club name alone when the course is the club's only course,
// "<course> @ <club>" otherwise.
func (r *Resolver) DisplayName(courseName, clubName string) string {
	course := r.properCase(strings.TrimSpace(courseName))
	club := r.properCase(strings.TrimSpace(clubName))

	if course == "" || isSentinel(course) {
		if club != "" {
			return club
		}
		if course != "" {
			return course
		}
		return Sentinels[0]
	}
	if club == "" {
		return course
	}

	if r.ambiguous[strings.ToLower(course)] {
		course += " Course"
	}

	if Overlap(course, club) >= SingleCourseThreshold {
		return club
	}
	return course + " @ " + club
}

// Overlap is the fraction of course tokens that substring-match some club token.
// A course name made only of generic words counts as full overlap.
func Overlap(courseName, clubName string) float64 {
	courseTokens := Tokens(courseName)
	if len(courseTokens) == 0 {
		return 1
	}
	clubTokens := Tokens(clubName)

	matched := 0
	for _, ct := range courseTokens {
		for _, kt := range clubTokens {
			if strings.Contains(kt, ct) || strings.Contains(ct, kt) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(courseTokens))
}

// Tokens lowercases and transliterates a name, drops punctuation and generic facility
// words, and keeps the words longer than two characters.
func Tokens(name string) []string {
	ascii := strings.ToLower(unidecode.Unidecode(name))
	words := strings.FieldsFunc(ascii, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) <= 2 || genericWords[w] {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// properCase title-cases names written entirely in capitals. A Caser keeps state, so
// each call gets its own.
func (r *Resolver) properCase(s string) string {
	if s == "" || !isAllCaps(s) {
		return s
	}
	return cases.Title(language.English).String(strings.ToLower(s))
}

func isAllCaps(s string) bool {
	hasLetter := false
	for _, c := range s {
		if unicode.IsLower(c) {
			return false
		}
		if unicode.IsLetter(c) {
			hasLetter = true
		}
	}
	return hasLetter
}

func isSentinel(s string) bool {
	for _, sentinel := range Sentinels {
		if strings.EqualFold(s, sentinel) {
			return true
		}
	}
	return false
}
