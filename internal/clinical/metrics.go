// Package clinical holds the pure derivation functions shared by the report
// and summary pipelines. Nothing here touches storage or the network.
package clinical

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/nutrivo/practice-api/internal/model"
)

// diagnosisKeywords are the clinically relevant terms scanned for in patient
// tags and notes. Matching is case-insensitive substring containment.
var diagnosisKeywords = []string{
	"diabetes",
	"hipertensão",
	"obesidade",
	"dislipidemia",
	"anemia",
	"intolerância",
	"alergia",
}

// Age returns whole calendar years between birthDate and today, decrementing
// when today's (month, day) still precedes the birthday in the current year.
func Age(birthDate, today time.Time) int {
	years := today.Year() - birthDate.Year()
	if today.Month() < birthDate.Month() ||
		(today.Month() == birthDate.Month() && today.Day() < birthDate.Day()) {
		years--
	}
	return years
}

// ExtractDiagnoses scans tags for diagnosis keywords and returns the matching
// tags verbatim. Notes are a fallback only: when no tag matches, each keyword
// found in the notes text is emitted as a capitalized label. The two sources
// are never combined.
func ExtractDiagnoses(tags []string, notes *string) []string {
	diagnoses := []string{}
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		for _, kw := range diagnosisKeywords {
			if strings.Contains(lower, kw) {
				diagnoses = append(diagnoses, tag)
				break
			}
		}
	}
	if len(diagnoses) > 0 || notes == nil {
		return diagnoses
	}

	lower := strings.ToLower(*notes)
	for _, kw := range diagnosisKeywords {
		if strings.Contains(lower, kw) {
			diagnoses = append(diagnoses, capitalize(kw))
		}
	}
	return diagnoses
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Variation describes the change between two measurements.
type Variation struct {
	Magnitude  float64 `json:"magnitude"`
	IsIncrease bool    `json:"is_increase"`
}

// Variation compares current against previous; nil when either side is
// missing. A zero delta counts as an increase.
func ComputeVariation(current, previous *float64) *Variation {
	if current == nil || previous == nil {
		return nil
	}
	diff := *current - *previous
	return &Variation{
		Magnitude:  math.Abs(diff),
		IsIncrease: diff >= 0,
	}
}

// AttendanceRate is attendances over participants × meetings, in [0, 1].
// A zero denominator yields 0 rather than an error.
func AttendanceRate(records []model.MeetingRecord, participantCount, meetingCount int) float64 {
	denominator := participantCount * meetingCount
	if denominator == 0 {
		return 0
	}
	present := 0
	for _, r := range records {
		if r.Present {
			present++
		}
	}
	return float64(present) / float64(denominator)
}

// HalvesDelta is mean(second half) − mean(first half) of the series, split at
// floor(len/2) with the remainder going to the second half. Nil when fewer
// than two points exist.
func HalvesDelta(series []float64) *float64 {
	if len(series) < 2 {
		return nil
	}
	mid := len(series) / 2
	delta := mean(series[mid:]) - mean(series[:mid])
	return &delta
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
