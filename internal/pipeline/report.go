package pipeline

import (
	"time"

	"github.com/lucaslondon8/jobhunterGPT/internal/letter"
	"github.com/lucaslondon8/jobhunterGPT/internal/match"
	"github.com/lucaslondon8/jobhunterGPT/internal/profile"
	"github.com/lucaslondon8/jobhunterGPT/internal/scrape"
)

// Match pairs one ranked scoring result with its generated cover letter.
type Match struct {
	*match.Result
	Letter *letter.Result
}

// Report is the full outcome of one pipeline run: the profile that drove
// it, the surviving matches with letters attached, and per-stage metadata
// showing how the run degraded if it did.
type Report struct {
	RunID            string
	Profile          *profile.Profile
	Matches          []*Match
	Scored           int
	Steps            []match.Step
	SourceStatus     []scrape.SourceStatus
	Duplicates       int
	AllSourcesFailed bool
	StartedAt        time.Time
	FinishedAt       time.Time
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// LetterCounts reports how many letters came from the external service and
// how many from the template fallback.
func (r *Report) LetterCounts() (api, template int) {
	for _, m := range r.Matches {
		if m.Letter == nil {
			continue
		}
		switch m.Letter.Method {
		case letter.MethodAPI:
			api++
		case letter.MethodTemplate:
			template++
		}
	}
	return api, template
}
