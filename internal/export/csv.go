package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lucaslondon8/jobhunterGPT/internal/pipeline"
)

// ApplicationStatusPending is stamped on every exported row. Application
// trackers own the transitions from there; the pipeline never writes a
// terminal status.
const ApplicationStatusPending = "pending"

// Columns is the export schema, one row per matched posting.
var Columns = []string{
	"title", "company", "location", "salary", "description", "tags",
	"posted_date", "url", "contact_email", "source", "scraped_date",
	"application_status", "match_score", "combined_score", "score",
	"match_reason", "cover_letter", "generation_method",
}

// Write renders the matches as CSV onto w, header first, in rank order.
func Write(w io.Writer, matches []*pipeline.Match) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, m := range matches {
		if err := cw.Write(record(m)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes the matches to path, creating parent directories as
// needed. An existing file is overwritten.
func WriteFile(path string, matches []*pipeline.Match) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := Write(f, matches); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func record(m *pipeline.Match) []string {
	posting := m.Posting

	letterText, method := "", ""
	if m.Letter != nil {
		letterText = m.Letter.Text
		method = m.Letter.Method
	}

	// The score column mirrors combined_score; older consumers sort on it.
	return []string{
		posting.Title,
		posting.Company,
		posting.Location,
		posting.Salary,
		posting.Description,
		strings.Join(posting.Tags, ", "),
		formatDate(posting.PostedAt),
		posting.URL,
		posting.ContactEmail,
		posting.Source,
		formatTimestamp(posting.ScrapedAt),
		ApplicationStatusPending,
		formatScore(m.MatchScore),
		formatScore(m.CombinedScore),
		formatScore(m.CombinedScore),
		m.Reason,
		letterText,
		method,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 2, 64)
}
