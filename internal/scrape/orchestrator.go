package scrape

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lucaslondon8/jobhunterGPT/internal/jobs"
	"github.com/lucaslondon8/jobhunterGPT/internal/logger"
	"github.com/lucaslondon8/jobhunterGPT/internal/profile"
	"github.com/lucaslondon8/jobhunterGPT/internal/source"

	"go.uber.org/zap"
)

const (
	defaultMaxJobs  = 50
	defaultMaxPages = 3
	defaultWorkers  = 3
)

// Request bounds one discovery run. Zero values fall back to the package
// defaults.
type Request struct {
	Query             source.Query
	MaxJobs           int
	MaxPagesPerSource int
	Workers           int
}

// SourceStatus is the per-source outcome of a run: how many postings the
// source contributed after dedup, how many pages were fetched, and the
// failure if there was one. A failed source never aborts the run.
type SourceStatus struct {
	Source string
	Count  int
	Pages  int
	Err    error
}

// Result is the merged outcome of one discovery run. Postings are in
// first-seen order; Status follows the source selection order.
type Result struct {
	Postings   *jobs.Postings
	Status     []SourceStatus
	Duplicates int
}

// AllFailed reports whether every selected source failed. The caller
// decides what to do with an empty run; the orchestrator never fabricates
// postings.
func (r *Result) AllFailed() bool {
	if len(r.Status) == 0 {
		return true
	}
	for _, s := range r.Status {
		if s.Err == nil {
			return false
		}
	}
	return true
}

// Orchestrator runs the selected source adapters under a bounded worker
// pool and merges their pages into one deduplicated posting set.
type Orchestrator struct {
	registry *source.Registry
	logger   *zap.Logger
	now      func() time.Time
}

func New(registry *source.Registry, log *zap.Logger) (*Orchestrator, error) {
	if registry == nil || registry.Len() == 0 {
		return nil, errors.New("no sources registered")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		registry: registry,
		logger:   log,
		now:      time.Now,
	}, nil
}

type task struct {
	idx     int
	adapter source.Adapter
}

// Discover fans the selected adapters out over the worker pool. Sources
// are selected deterministically from the profile industry; each worker
// drains one source sequentially page by page. The global job cap is
// checked cooperatively between pages, so a slight overshoot is possible
// and trimmed by insertion order after the merge.
func (o *Orchestrator) Discover(ctx context.Context, prof *profile.Profile, req Request) (*Result, error) {
	if prof == nil {
		return nil, errors.New("discovery requires a profile")
	}

	maxJobs := req.MaxJobs
	if maxJobs <= 0 {
		maxJobs = defaultMaxJobs
	}
	maxPages := req.MaxPagesPerSource
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	workers := req.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	adapters := o.registry.Select(prof.Industry)
	statuses := make([]SourceStatus, len(adapters))

	o.logger.Info("starting discovery",
		zap.String("query", req.Query.Text),
		zap.String("industry", prof.Industry),
		zap.Int("sources", len(adapters)),
		zap.Int("max_jobs", maxJobs),
		zap.Int("max_pages_per_source", maxPages),
		zap.Int("workers", workers),
	)

	coll := &collector{
		seen: make(map[string]struct{}),
		max:  maxJobs,
	}

	tasks := make(chan task)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				statuses[t.idx] = o.drainSource(ctx, t.adapter, req.Query, coll, maxPages)
			}
		}()
	}

	for i, a := range adapters {
		tasks <- task{idx: i, adapter: a}
	}
	close(tasks)
	wg.Wait()

	postings := coll.postings
	if len(postings) > maxJobs {
		postings = postings[:maxJobs]
	}

	result := &Result{
		Postings:   &jobs.Postings{Items: postings},
		Status:     statuses,
		Duplicates: coll.duplicates,
	}

	if result.AllFailed() {
		o.logger.Warn("no sources available", zap.Int("sources", len(adapters)))
	} else {
		o.logger.Info("discovery finished",
			zap.Int("postings", len(postings)),
			zap.Int("duplicates", coll.duplicates),
		)
	}

	return result, nil
}

// drainSource pages through one adapter until the listing ends, the page
// budget runs out or the run is already full. A page failure stops this
// source only; postings from its earlier pages stay in the result.
func (o *Orchestrator) drainSource(ctx context.Context, adapter source.Adapter, query source.Query, coll *collector, maxPages int) SourceStatus {
	status := SourceStatus{Source: adapter.Name()}
	log := o.logger.With(zap.String(logger.FieldSource, adapter.Name()))

	var token source.PageToken
	for page := 0; page < maxPages; page++ {
		if coll.full() {
			log.Debug("job cap reached, stopping source", zap.Int("pages", status.Pages))
			break
		}

		result, err := adapter.FetchPage(ctx, query, token)
		if err != nil {
			status.Err = err
			log.Warn("source failed", zap.Int("pages", status.Pages), zap.Error(err))
			break
		}

		status.Pages++
		status.Count += coll.add(result.Postings, o.now().UTC())

		if !result.HasMore() {
			break
		}
		token = result.Next
	}

	log.Debug("source drained", zap.Int("count", status.Count), zap.Int("pages", status.Pages))
	return status
}

// collector is the only state shared across workers: the dedup set and
// the merged posting list, both guarded by one mutex.
type collector struct {
	mu         sync.Mutex
	seen       map[string]struct{}
	postings   []*jobs.Posting
	max        int
	duplicates int
}

// add merges a page into the collector, dropping postings whose identity
// key was already seen. First seen wins. Returns the number accepted.
func (c *collector) add(batch []*jobs.Posting, scrapedAt time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	added := 0
	for _, p := range batch {
		key := p.Key()
		if _, dup := c.seen[key]; dup {
			c.duplicates++
			continue
		}
		c.seen[key] = struct{}{}
		p.ScrapedAt = scrapedAt
		c.postings = append(c.postings, p)
		added++
	}
	return added
}

func (c *collector) full() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.postings) >= c.max
}
