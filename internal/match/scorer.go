package match

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lucaslondon8/jobhunterGPT/internal/jobs"
	"github.com/lucaslondon8/jobhunterGPT/internal/nlp"
	"github.com/lucaslondon8/jobhunterGPT/internal/profile"
)

// Config holds the scoring weights. Values at or below zero fall back to
// the defaults, so a zero Config scores the same as DefaultConfig.
type Config struct {
	// SkillWeight scales the skill-overlap component.
	SkillWeight float64
	// SeniorityBonus is added once when the posting title carries the
	// profile's explicit seniority level.
	SeniorityBonus float64
	// RecencyWindowDays is how long a posting keeps its full score.
	RecencyWindowDays int
	// MinRecencyFactor is the multiplier floor for old postings; recency
	// reduces a score but never zeroes it.
	MinRecencyFactor float64
	// EmailBonus is added to the combined score when the posting carries
	// a contact email. It is a fixed cap, not a scaled component.
	EmailBonus float64
}

func DefaultConfig() Config {
	return Config{
		SkillWeight:       0.7,
		SeniorityBonus:    0.15,
		RecencyWindowDays: 30,
		MinRecencyFactor:  0.3,
		EmailBonus:        0.05,
	}
}

// Result is one scored posting. Instances are never mutated after Rank has
// assigned positions; a re-run produces new ones.
type Result struct {
	Posting       *jobs.Posting
	MatchScore    float64
	CombinedScore float64
	MatchedSkills []string
	Reason        string
	Rank          int
}

// Scorer scores postings against one profile. Scoring is a pure function
// of its inputs: no I/O, no clock reads, safe for concurrent use.
type Scorer struct {
	cfg Config
}

func NewScorer(cfg Config) *Scorer {
	def := DefaultConfig()
	if cfg.SkillWeight <= 0 {
		cfg.SkillWeight = def.SkillWeight
	}
	if cfg.SeniorityBonus <= 0 {
		cfg.SeniorityBonus = def.SeniorityBonus
	}
	if cfg.RecencyWindowDays <= 0 {
		cfg.RecencyWindowDays = def.RecencyWindowDays
	}
	if cfg.MinRecencyFactor <= 0 {
		cfg.MinRecencyFactor = def.MinRecencyFactor
	}
	if cfg.EmailBonus <= 0 {
		cfg.EmailBonus = def.EmailBonus
	}
	return &Scorer{cfg: cfg}
}

// Score computes the match between one profile and one posting at the
// given reference time. The match score is the weighted skill overlap plus
// the seniority alignment bonus, scaled by the recency factor; the
// combined score adds the capped contact-email bonus on top.
func (s *Scorer) Score(prof *profile.Profile, posting *jobs.Posting, now time.Time) *Result {
	haystack := nlp.Normalize(posting.Title + " " + posting.Description + " " + strings.Join(posting.Tags, " "))

	var matched []string
	for _, skill := range prof.Skills {
		if nlp.ContainsPhrase(haystack, skill) {
			matched = append(matched, skill)
		}
	}

	overlap := 0.0
	if len(prof.Skills) > 0 {
		overlap = float64(len(matched)) / float64(len(prof.Skills))
	}

	base := overlap * s.cfg.SkillWeight

	seniorityAligned := false
	if level, explicit := profile.DetectSeniority(posting.Title); explicit && level == prof.Seniority {
		seniorityAligned = true
		base += s.cfg.SeniorityBonus
	}

	recency := s.recencyFactor(posting.PostedAt, now)
	matchScore := clamp01(base * recency)

	combined := matchScore
	if posting.ContactEmail != "" {
		combined = clamp01(combined + s.cfg.EmailBonus)
	}

	return &Result{
		Posting:       posting,
		MatchScore:    matchScore,
		CombinedScore: combined,
		MatchedSkills: matched,
		Reason:        buildReason(matchScore, matched, len(prof.Skills), seniorityAligned, recency, posting.ContactEmail != ""),
	}
}

// recencyFactor is 1.0 inside the window, then decays linearly to the
// floor over a second window length. Unknown posted dates get the floor:
// age reduces a score but never disqualifies a posting.
func (s *Scorer) recencyFactor(postedAt, now time.Time) float64 {
	if postedAt.IsZero() {
		return s.cfg.MinRecencyFactor
	}

	window := float64(s.cfg.RecencyWindowDays)
	ageDays := now.Sub(postedAt).Hours() / 24

	switch {
	case ageDays <= window:
		return 1.0
	case ageDays >= 2*window:
		return s.cfg.MinRecencyFactor
	default:
		frac := (ageDays - window) / window
		return 1.0 - frac*(1.0-s.cfg.MinRecencyFactor)
	}
}

// Rank orders results best first and assigns 1-based rank numbers. Ties
// break by most recent posted date, then by source priority, then by the
// posting identity key so the order is total.
func Rank(results []*Result, sourcePriority map[string]int) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.CombinedScore != b.CombinedScore {
			return a.CombinedScore > b.CombinedScore
		}
		if !a.Posting.PostedAt.Equal(b.Posting.PostedAt) {
			return a.Posting.PostedAt.After(b.Posting.PostedAt)
		}
		if pa, pb := priorityOf(sourcePriority, a), priorityOf(sourcePriority, b); pa != pb {
			return pa < pb
		}
		return a.Posting.Key() < b.Posting.Key()
	})

	for i, r := range results {
		r.Rank = i + 1
	}
}

func priorityOf(priority map[string]int, r *Result) int {
	if p, ok := priority[r.Posting.Source]; ok {
		return p
	}
	return len(priority)
}

// Strength buckets a score into the label ladder used in reports.
func Strength(score float64) string {
	switch {
	case score >= 0.8:
		return "Excellent"
	case score >= 0.6:
		return "Strong"
	case score >= 0.4:
		return "Good"
	case score >= 0.2:
		return "Fair"
	default:
		return "Weak"
	}
}

func buildReason(score float64, matched []string, totalSkills int, seniorityAligned bool, recency float64, hasEmail bool) string {
	note := fmt.Sprintf("%s match: %d of %d skills", Strength(score), len(matched), totalSkills)
	if len(matched) > 0 {
		preview := matched
		if len(preview) > 3 {
			preview = preview[:3]
		}
		note += fmt.Sprintf(" (%s)", strings.Join(preview, ", "))
	}

	parts := []string{note}
	if seniorityAligned {
		parts = append(parts, "seniority aligned")
	}
	if recency < 1 {
		parts = append(parts, "older posting")
	}
	if hasEmail {
		parts = append(parts, "contact email available")
	}
	return strings.Join(parts, "; ")
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
