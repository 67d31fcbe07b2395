package letter

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"github.com/lucaslondon8/jobhunterGPT/internal/ai"
	"github.com/lucaslondon8/jobhunterGPT/internal/jobs"
	"github.com/lucaslondon8/jobhunterGPT/internal/logger"
	"github.com/lucaslondon8/jobhunterGPT/internal/profile"
	"github.com/lucaslondon8/jobhunterGPT/internal/utils"
	"go.uber.org/zap"
)

// State is one step in the lifecycle of a generation request.
type State string

const (
	StatePending          State = "PENDING"
	StateRateLimited      State = "RATE_LIMITED"
	StateRequested        State = "REQUESTED"
	StateSucceeded        State = "SUCCEEDED"
	StateFailed           State = "FAILED"
	StateTemplateFallback State = "TEMPLATE_FALLBACK"
	StateDone             State = "DONE"
)

// Generation methods recorded on the result.
const (
	MethodAPI      = "api"
	MethodTemplate = "template"
)

//go:embed system.md
var systemPrompt string

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxWait    = 30 * time.Second
	defaultBackoff    = 2 * time.Second
	defaultMaxRetries = 1
	defaultMaxLogLen  = 200

	maxPromptDescription = 1500
)

var errNoTextGenerator = errors.New("no text generator configured")

// Result is the outcome of one generation request. Trace records every
// state the request passed through, ending in StateDone.
type Result struct {
	Text   string
	Method string
	Trace  []State
}

// Config tunes the generation path. Zero values fall back to defaults.
type Config struct {
	// MaxWait caps how long a request may block on the rate limiter
	// before degrading to the template.
	MaxWait time.Duration
	// Backoff is the delay before the first retry; it doubles per retry.
	Backoff time.Duration
	// MaxRetries is the number of extra attempts after a failed call.
	MaxRetries int
	MaxLogLen  int
}

// Generator writes cover letters, preferring the external text service and
// degrading to a fixed template. Generate never returns an error.
type Generator struct {
	gen    ai.TextGenerator
	bucket *TokenBucket
	cfg    Config
	logger *zap.Logger
}

// New creates a Generator. A nil text generator means every letter comes
// from the template; the bucket is shared with any other Generator holding
// it.
func New(gen ai.TextGenerator, bucket *TokenBucket, log *zap.Logger, cfg Config) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = defaultMaxWait
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = defaultBackoff
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.MaxLogLen <= 0 {
		cfg.MaxLogLen = defaultMaxLogLen
	}

	return &Generator{
		gen:    gen,
		bucket: bucket,
		cfg:    cfg,
		logger: log,
	}
}

// Generate writes a cover letter for the posting. Any failure on the
// external path degrades to the template, so the result always carries
// usable text and the method that produced it.
func (g *Generator) Generate(ctx context.Context, prof *profile.Profile, posting *jobs.Posting) *Result {
	if prof == nil {
		prof = &profile.Profile{}
	}
	if posting == nil {
		posting = &jobs.Posting{}
	}

	res := &Result{Trace: []State{StatePending}}

	text, err := g.fromAPI(ctx, res, prof, posting)
	if err == nil {
		res.Text = text
		res.Method = MethodAPI
		res.Trace = append(res.Trace, StateDone)
		return res
	}

	if !errors.Is(err, errNoTextGenerator) {
		g.logger.Debug("cover letter falls back to template",
			zap.String("job", posting.Title),
			zap.String("company", posting.Company),
			zap.Error(err),
		)
	}

	res.Trace = append(res.Trace, StateTemplateFallback)
	res.Text = renderTemplate(prof, posting)
	res.Method = MethodTemplate
	res.Trace = append(res.Trace, StateDone)

	return res
}

// fromAPI runs the rate-limited external call with bounded retries,
// appending each state transition to the result trace.
func (g *Generator) fromAPI(ctx context.Context, res *Result, prof *profile.Profile, posting *jobs.Posting) (string, error) {
	if g.gen == nil {
		return "", errNoTextGenerator
	}

	if !g.bucket.TryTake() {
		res.Trace = append(res.Trace, StateRateLimited)

		waitCtx, cancel := context.WithTimeout(ctx, g.cfg.MaxWait)
		err := g.bucket.Take(waitCtx)
		cancel()
		if err != nil {
			return "", err
		}
	}

	message := buildPrompt(prof, posting)

	g.logger.Debug("cover letter request",
		zap.String("job", posting.Title),
		zap.String("company", posting.Company),
		zap.String(logger.FieldSource, posting.Source),
		zap.Int("prompt_length", utf8.RuneCountInString(message)),
		zap.String("prompt_preview", utils.TruncateForLog(message, g.cfg.MaxLogLen)),
	)

	var lastErr error
	for attempt := 0; attempt <= g.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := g.cfg.Backoff << (attempt - 1)
			if err := utils.WaitFor(ctx, delay); err != nil {
				return "", err
			}
		}

		res.Trace = append(res.Trace, StateRequested)

		text, err := g.gen.GenerateContent(ctx, systemPrompt, message)
		if err == nil {
			if out := strings.TrimSpace(text); out != "" {
				res.Trace = append(res.Trace, StateSucceeded)
				g.logger.Debug("cover letter response",
					zap.String("job", posting.Title),
					zap.Int("response_length", utf8.RuneCountInString(out)),
					zap.String("response_preview", utils.TruncateForLog(out, g.cfg.MaxLogLen)),
				)
				return out, nil
			}
			err = errors.New("generator returned empty text")
		}

		res.Trace = append(res.Trace, StateFailed)
		lastErr = err
		g.logger.Warn("cover letter generation failed",
			zap.String("job", posting.Title),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}

	return "", lastErr
}

// buildPrompt fills the embedded prompt template with posting and profile
// fields. Long descriptions are cut so a single posting cannot blow up the
// request size.
func buildPrompt(prof *profile.Profile, posting *jobs.Posting) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Job: {{TITLE}} at {{COMPANY}}\n\nSkills: {{SKILLS}}\n\nCover letter:"
	}

	prompt := strings.ReplaceAll(template, "{{TITLE}}", posting.Title)
	prompt = strings.ReplaceAll(prompt, "{{COMPANY}}", posting.Company)
	prompt = strings.ReplaceAll(prompt, "{{LOCATION}}", posting.Location)
	prompt = strings.ReplaceAll(prompt, "{{DESCRIPTION}}", utils.TruncateForLog(posting.Description, maxPromptDescription))
	prompt = strings.ReplaceAll(prompt, "{{SENIORITY}}", string(prof.Seniority))
	prompt = strings.ReplaceAll(prompt, "{{SKILLS}}", strings.Join(prof.Skills, ", "))

	return prompt
}
