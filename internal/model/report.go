package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReportSection is a titled block of newline-delimited text. Sections with no
// underlying data are never emitted.
type ReportSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type PatientReport struct {
	PatientID   uuid.UUID       `json:"patient_id"`
	PatientName string          `json:"patient_name"`
	GeneratedAt time.Time       `json:"generated_at"`
	Sections    []ReportSection `json:"sections"`
}

// Render flattens the report into plain text for email delivery.
func (r *PatientReport) Render() string {
	var b strings.Builder
	for i, s := range r.Sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(s.Title)
		b.WriteString("\n")
		b.WriteString(s.Content)
	}
	return b.String()
}
