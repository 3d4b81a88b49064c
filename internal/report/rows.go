// Package report exports graded submissions as spreadsheets.
package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"iga/internal/domain"
)

// Columns is the header row shared by every export format.
var Columns = []string{
	"Submission ID",
	"Name",
	"Email",
	"File Type",
	"Status",
	"Grade",
	"Feedback",
	"Error",
	"Created At",
	"Graded At",
}

// submissionToRow converts one submission to a row matching Columns. Failed
// submissions leave the grade blank.
func submissionToRow(sub *domain.Submission) []string {
	row := make([]string, len(Columns))
	row[0] = sub.ID.String()
	row[1] = sub.Name
	row[2] = sub.Email
	row[3] = string(sub.FileType)
	row[4] = string(sub.Status)
	if sub.Status == domain.SubmissionStatusGraded {
		row[5] = strconv.Itoa(sub.Grade)
	}
	row[6] = sub.Feedback
	row[7] = sub.Error
	row[8] = sub.CreatedAt.UTC().Format(time.RFC3339)
	row[9] = formatTime(sub.GradedAt)
	return row
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a label for use in Content-Disposition. Runs of
// characters other than letters, digits, hyphen and underscore become a single
// underscore, and the result is truncated to 100 bytes.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "grades"
	}
	return s
}

// BuildFilename returns {label}_{YYYY-MM-DD}.{ext}.
func BuildFilename(label, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(label), now.Format("2006-01-02"), ext)
}
