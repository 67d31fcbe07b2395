package jobs

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/lucaslondon8/jobhunterGPT/internal/nlp"
)

// SalaryNotSpecified is stored when a source carries no salary information.
const SalaryNotSpecified = "not specified"

var (
	emailRe  = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	salaryRe = regexp.MustCompile(`[$£€]\s*\d{1,3}[,\d]*\s*[-–]\s*[$£€]?\s*\d{1,3}[,\d]*\s*[kK]?|\d{1,3}[,\d]*\s*[-–]\s*\d{1,3}[,\d]*\s*[kK]|[$£€]\s*\d{1,3}[,\d]*[kK]?`)
)

// Posting is one normalized job record produced by a source adapter.
type Posting struct {
	Source       string    `json:"source"`
	NativeID     string    `json:"native_id,omitempty"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location,omitempty"`
	Salary       string    `json:"salary,omitempty"`
	Description  string    `json:"description,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	URL          string    `json:"url,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	PostedAt     time.Time `json:"posted_at,omitempty"`
	ScrapedAt    time.Time `json:"scraped_at,omitempty"`
}

// Key returns the identity key used for first-seen-wins dedup within a run:
// the source plus its native id when one exists, otherwise the normalized
// title, company and location.
func (p *Posting) Key() string {
	if p.NativeID != "" {
		return p.Source + "|" + p.NativeID
	}
	return nlp.Normalize(p.Title) + "|" + nlp.Normalize(p.Company) + "|" + nlp.Normalize(p.Location)
}

// ExtractEmail returns the first email address found in the text, or an
// empty string when none is present.
func ExtractEmail(text string) string {
	return emailRe.FindString(text)
}

// ExtractSalary returns the first salary-looking figure found in the text,
// or the SalaryNotSpecified sentinel. Used for sources that carry salary
// only inside the free-text description.
func ExtractSalary(text string) string {
	if m := strings.TrimSpace(salaryRe.FindString(text)); m != "" {
		return m
	}
	return SalaryNotSpecified
}

// FormatSalary renders a from/to range into a single display string, falling
// back to the SalaryNotSpecified sentinel when no bound is known.
func FormatSalary(from, to int, currency string) string {
	currency = strings.TrimSpace(currency)

	switch {
	case from > 0 && to > 0:
		return appendCurrency(fmt.Sprintf("%d - %d", from, to), currency)
	case from > 0:
		return appendCurrency(fmt.Sprintf("from %d", from), currency)
	case to > 0:
		return appendCurrency(fmt.Sprintf("up to %d", to), currency)
	default:
		return SalaryNotSpecified
	}
}

func appendCurrency(s, currency string) string {
	if currency == "" {
		return s
	}
	return s + " " + currency
}
