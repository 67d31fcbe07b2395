package match

import (
	"fmt"

	"github.com/lucaslondon8/jobhunterGPT/internal/nlp"

	"go.uber.org/zap"
)

// Filter is a single selection step applied to the ranked results.
type Filter interface {
	Name() string
	Apply(results []*Result) ([]*Result, Step, error)
}

// Step describes the result of executing one selection step.
type Step struct {
	Name    string
	Initial int
	Dropped int
	Left    int
}

// RunFilters executes the selection steps sequentially and renumbers the
// surviving ranks 1-based. The input order is assumed already ranked.
func RunFilters(log *zap.Logger, filters []Filter, results []*Result) ([]*Result, []Step, error) {
	if log == nil {
		log = zap.NewNop()
	}

	steps := make([]Step, 0, len(filters))
	for _, f := range filters {
		next, step, err := f.Apply(results)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", f.Name(), err)
		}

		step.Name = f.Name()
		log.Info("selection step",
			zap.String("name", step.Name),
			zap.Int("initial", step.Initial),
			zap.Int("dropped", step.Dropped),
			zap.Int("left", step.Left),
		)

		steps = append(steps, step)
		results = next
	}

	for i, r := range results {
		r.Rank = i + 1
	}

	return results, steps, nil
}

type minScoreFilter struct {
	floor float64
}

// NewMinScore creates a step that drops results below the combined-score
// floor.
func NewMinScore(floor float64) Filter {
	return &minScoreFilter{floor: floor}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Apply(results []*Result) ([]*Result, Step, error) {
	initial := len(results)

	kept := make([]*Result, 0, initial)
	for _, r := range results {
		if r.CombinedScore >= f.floor {
			kept = append(kept, r)
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

type excludeCompaniesFilter struct {
	companies map[string]struct{}
}

// NewExcludeCompanies creates a step that drops postings from the listed
// companies, compared case-insensitively.
func NewExcludeCompanies(companies []string) Filter {
	set := make(map[string]struct{}, len(companies))
	for _, c := range companies {
		if norm := nlp.Normalize(c); norm != "" {
			set[norm] = struct{}{}
		}
	}
	return &excludeCompaniesFilter{companies: set}
}

func (f *excludeCompaniesFilter) Name() string { return "exclude_companies" }

func (f *excludeCompaniesFilter) Apply(results []*Result) ([]*Result, Step, error) {
	initial := len(results)
	if len(f.companies) == 0 {
		return results, Step{Initial: initial, Left: initial}, nil
	}

	kept := make([]*Result, 0, initial)
	for _, r := range results {
		if _, excluded := f.companies[nlp.Normalize(r.Posting.Company)]; excluded {
			continue
		}
		kept = append(kept, r)
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

type topNFilter struct {
	n int
}

// NewTopN creates a step that keeps the first n ranked results, bounding
// how many matches reach the generation stage.
func NewTopN(n int) Filter {
	return &topNFilter{n: n}
}

func (f *topNFilter) Name() string { return "top_n" }

func (f *topNFilter) Apply(results []*Result) ([]*Result, Step, error) {
	initial := len(results)
	if f.n <= 0 || initial <= f.n {
		return results, Step{Initial: initial, Left: initial}, nil
	}

	kept := results[:f.n]
	return kept, Step{Initial: initial, Dropped: initial - f.n, Left: f.n}, nil
}
