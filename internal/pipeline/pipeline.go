package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lucaslondon8/jobhunterGPT/internal/jobs"
	"github.com/lucaslondon8/jobhunterGPT/internal/letter"
	"github.com/lucaslondon8/jobhunterGPT/internal/logger"
	"github.com/lucaslondon8/jobhunterGPT/internal/match"
	"github.com/lucaslondon8/jobhunterGPT/internal/profile"
	"github.com/lucaslondon8/jobhunterGPT/internal/scrape"
	"go.uber.org/zap"
)

const defaultConfidenceFloor = 0.1

// Extractor turns raw résumé text into a structured profile.
type Extractor interface {
	Extract(text string) (*profile.Profile, error)
}

// Discoverer runs the source adapters and returns the merged posting set.
type Discoverer interface {
	Discover(ctx context.Context, prof *profile.Profile, req scrape.Request) (*scrape.Result, error)
}

// LetterWriter produces a cover letter for one posting. It must not fail;
// degraded outcomes are carried inside the result.
type LetterWriter interface {
	Generate(ctx context.Context, prof *profile.Profile, posting *jobs.Posting) *letter.Result
}

// Deps are the collaborating stages of one pipeline.
type Deps struct {
	Extractor  Extractor
	Discoverer Discoverer
	Scorer     *match.Scorer
	Letters    LetterWriter
	Logger     *zap.Logger
}

// Config controls the gates between stages.
type Config struct {
	// ConfidenceFloor aborts the run before discovery when the profile
	// confidence falls below it.
	ConfidenceFloor float64
	// TopN bounds how many ranked matches receive a cover letter.
	TopN int
	// MinScore drops matches below the combined-score floor.
	MinScore float64
	// ExcludeCompanies drops postings from the named companies.
	ExcludeCompanies []string
}

// Request is the caller's input for one full run.
type Request struct {
	CVText    string
	Discovery scrape.Request
}

// LowConfidenceError aborts a run whose profile cannot support discovery.
type LowConfidenceError struct {
	Confidence float64
	Floor      float64
}

func (e *LowConfidenceError) Error() string {
	return fmt.Sprintf("cv profile confidence %.2f is below the %.2f floor", e.Confidence, e.Floor)
}

// Pipeline sequences extraction, discovery, scoring and letter generation.
// Scoring always covers the full deduplicated set before the first
// generation call, and only matches surviving selection get a letter.
type Pipeline struct {
	deps Deps
	cfg  Config
	now  func() time.Time
}

func New(deps Deps, cfg Config) (*Pipeline, error) {
	if deps.Extractor == nil {
		return nil, errors.New("an extractor is required")
	}
	if deps.Discoverer == nil {
		return nil, errors.New("a discoverer is required")
	}
	if deps.Letters == nil {
		return nil, errors.New("a letter writer is required")
	}
	if deps.Scorer == nil {
		deps.Scorer = match.NewScorer(match.DefaultConfig())
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if cfg.ConfidenceFloor <= 0 {
		cfg.ConfidenceFloor = defaultConfidenceFloor
	}

	return &Pipeline{deps: deps, cfg: cfg, now: time.Now}, nil
}

// Run executes one discovery run end to end. Per-source failures and
// degraded letters are recorded in the report, never returned as errors;
// only an unusable profile or an invalid setup aborts the run.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Report, error) {
	started := p.now()

	prof, err := p.deps.Extractor.Extract(req.CVText)
	if err != nil {
		return nil, fmt.Errorf("analyze cv: %w", err)
	}
	if prof.Confidence < p.cfg.ConfidenceFloor {
		return nil, &LowConfidenceError{Confidence: prof.Confidence, Floor: p.cfg.ConfidenceFloor}
	}

	runID := uuid.NewString()
	log := logger.WithRunID(p.deps.Logger, runID)

	log.Info("cv profile ready",
		zap.Float64("confidence", prof.Confidence),
		zap.String("industry", prof.Industry),
		zap.String("seniority", string(prof.Seniority)),
		zap.Int("skills", len(prof.Skills)),
	)

	report := &Report{
		RunID:     runID,
		Profile:   prof,
		StartedAt: started,
	}

	discovery, err := p.deps.Discoverer.Discover(ctx, prof, req.Discovery)
	if err != nil {
		return nil, fmt.Errorf("discover postings: %w", err)
	}

	report.SourceStatus = discovery.Status
	report.Duplicates = discovery.Duplicates

	if discovery.AllFailed() {
		report.AllSourcesFailed = true
		report.FinishedAt = p.now()
		log.Warn("run finished with no usable sources")
		return report, nil
	}

	scoredAt := p.now().UTC()
	results := make([]*match.Result, 0, discovery.Postings.Len())
	for _, posting := range discovery.Postings.Items {
		results = append(results, p.deps.Scorer.Score(prof, posting, scoredAt))
	}
	report.Scored = len(results)

	match.Rank(results, sourcePriority(discovery.Status))

	selected, steps, err := match.RunFilters(log, p.filters(), results)
	if err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}
	report.Steps = steps

	log.Info("matches selected",
		zap.Int("scored", report.Scored),
		zap.Int("selected", len(selected)),
	)

	for _, res := range selected {
		report.Matches = append(report.Matches, &Match{
			Result: res,
			Letter: p.deps.Letters.Generate(ctx, prof, res.Posting),
		})
	}

	report.FinishedAt = p.now()

	api, template := report.LetterCounts()
	log.Info("pipeline finished",
		zap.Int("matches", len(report.Matches)),
		zap.Int("letters_api", api),
		zap.Int("letters_template", template),
		zap.Duration("took", report.Duration()),
	)

	return report, nil
}

// sourcePriority maps source names to their selection rank so scoring ties
// break toward earlier-selected sources.
func sourcePriority(statuses []scrape.SourceStatus) map[string]int {
	priority := make(map[string]int, len(statuses))
	for i, s := range statuses {
		priority[s.Source] = i
	}
	return priority
}

func (p *Pipeline) filters() []match.Filter {
	var filters []match.Filter
	if p.cfg.MinScore > 0 {
		filters = append(filters, match.NewMinScore(p.cfg.MinScore))
	}
	if len(p.cfg.ExcludeCompanies) > 0 {
		filters = append(filters, match.NewExcludeCompanies(p.cfg.ExcludeCompanies))
	}
	if p.cfg.TopN > 0 {
		filters = append(filters, match.NewTopN(p.cfg.TopN))
	}
	return filters
}
