package profile

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/lucaslondon8/jobhunterGPT/internal/nlp"

	"go.uber.org/zap"
)

// ErrEmptyText is returned when the résumé text contains nothing to analyze.
var ErrEmptyText = errors.New("cv text is empty")

const (
	defaultMaxLength  = 20000
	defaultKeywordCap = 10
	minKeywordLength  = 3

	// skillSaturation is the number of matched skills at which the skill
	// component of the confidence score reaches 1.0.
	skillSaturation = 10.0

	// confidenceFloor keeps confidence above zero for any non-empty input.
	confidenceFloor = 0.05
)

// Extractor turns raw résumé text into a Profile using fixed vocabulary
// tables. It holds no per-call state and is safe for concurrent use.
type Extractor struct {
	maxLength  int
	keywordCap int
	logger     *zap.Logger
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithMaxLength overrides the analyzed text length cap in runes.
func WithMaxLength(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxLength = n
		}
	}
}

// WithKeywordCap overrides the number of free-form keywords collected.
func WithKeywordCap(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.keywordCap = n
		}
	}
}

func New(logger *zap.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Extractor{
		maxLength:  defaultMaxLength,
		keywordCap: defaultKeywordCap,
		logger:     logger,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Extract analyzes the résumé text and returns its profile. Text longer
// than the configured cap is head-truncated before analysis, which is
// recorded in the profile provenance. Unmatched vocabulary is not an error:
// the result is an empty skill set with low but nonzero confidence.
func (e *Extractor) Extract(text string) (*Profile, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	runes := []rune(text)
	sourceLength := len(runes)
	truncated := false
	if sourceLength > e.maxLength {
		runes = runes[:e.maxLength]
		truncated = true
	}

	norm := nlp.Normalize(string(runes))

	skills := scanSkills(norm)
	seniority, _ := DetectSeniority(norm)
	industry, industryFraction := detectIndustry(norm)
	keywords := collectKeywords(norm, skills, e.keywordCap)

	skillFraction := float64(len(skills)) / skillSaturation
	if skillFraction > 1 {
		skillFraction = 1
	}
	confidence := (skillFraction + industryFraction) / 2
	if confidence < confidenceFloor {
		confidence = confidenceFloor
	}

	profile := &Profile{
		Skills:     skills,
		Seniority:  seniority,
		Industry:   industry,
		Keywords:   keywords,
		Confidence: confidence,
		Provenance: Provenance{
			ExtractedAt:    time.Now().UTC(),
			Truncated:      truncated,
			SourceLength:   sourceLength,
			AnalyzedLength: len(runes),
		},
	}

	e.logger.Debug("extracted profile",
		zap.Int("skills", len(skills)),
		zap.String("seniority", string(seniority)),
		zap.String("industry", industry),
		zap.Float64("confidence", confidence),
		zap.Bool("truncated", truncated),
	)

	return profile, nil
}

// DetectSeniority evaluates the seniority ladder against the text: senior
// markers win over junior markers, and "mid" is the default. The boolean
// reports whether any explicit marker was found.
func DetectSeniority(text string) (Seniority, bool) {
	for _, marker := range seniorMarkers {
		if nlp.ContainsPhrase(text, marker) {
			return SenioritySenior, true
		}
	}
	for _, marker := range juniorMarkers {
		if nlp.ContainsPhrase(text, marker) {
			return SeniorityJunior, true
		}
	}
	return SeniorityMid, false
}

func scanSkills(norm string) []string {
	var skills []string
	for _, term := range skillVocabulary {
		if nlp.ContainsPhrase(norm, term) {
			skills = append(skills, term)
		}
	}
	return skills
}

func detectIndustry(norm string) (string, float64) {
	best := defaultIndustry
	bestFraction := 0.0

	for _, rule := range industryRules {
		hits := 0
		for _, term := range rule.terms {
			if nlp.ContainsPhrase(norm, term) {
				hits++
			}
		}
		fraction := float64(hits) / float64(len(rule.terms))
		if hits > 0 && fraction > bestFraction {
			best = rule.name
			bestFraction = fraction
		}
	}

	return best, bestFraction
}

// collectKeywords picks the most frequent tokens that are neither stopwords
// nor part of an already matched skill. Order is deterministic: count
// descending, then alphabetical.
func collectKeywords(norm string, skills []string, limit int) []string {
	skillTokens := make(map[string]struct{})
	for _, skill := range skills {
		for _, tok := range nlp.Tokens(skill) {
			skillTokens[tok] = struct{}{}
		}
	}

	counts := make(map[string]int)
	for _, tok := range strings.Fields(norm) {
		if len(tok) < minKeywordLength {
			continue
		}
		if _, ok := stopwords[tok]; ok {
			continue
		}
		if _, ok := skillTokens[tok]; ok {
			continue
		}
		counts[tok]++
	}

	keywords := make([]string, 0, len(counts))
	for tok := range counts {
		keywords = append(keywords, tok)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if counts[keywords[i]] != counts[keywords[j]] {
			return counts[keywords[i]] > counts[keywords[j]]
		}
		return keywords[i] < keywords[j]
	})

	if len(keywords) > limit {
		keywords = keywords[:limit]
	}
	return keywords
}
