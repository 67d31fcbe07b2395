package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/lucaslondon8/jobhunterGPT/internal/ai"
	"github.com/lucaslondon8/jobhunterGPT/internal/ai/gemini"
	"github.com/lucaslondon8/jobhunterGPT/internal/export"
	"github.com/lucaslondon8/jobhunterGPT/internal/jobs"
	"github.com/lucaslondon8/jobhunterGPT/internal/letter"
	"github.com/lucaslondon8/jobhunterGPT/internal/logger"
	"github.com/lucaslondon8/jobhunterGPT/internal/match"
	"github.com/lucaslondon8/jobhunterGPT/internal/pipeline"
	"github.com/lucaslondon8/jobhunterGPT/internal/profile"
	"github.com/lucaslondon8/jobhunterGPT/internal/scrape"
	"github.com/lucaslondon8/jobhunterGPT/internal/secrets"
	"github.com/lucaslondon8/jobhunterGPT/internal/source"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptExport         = "Export to CSV"
	PromptNo             = "No"
	PromptReportBySource = "Report by source"
	PromptPostingsToFile = "Dump postings to file"

	defaultOutput         = "output/applications.csv"
	defaultTopN           = 20
	defaultMinScore       = 0.1
	defaultRateCapacity   = 10
	defaultRefillInterval = 6 * time.Second
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptExport, PromptNo, PromptReportBySource, PromptPostingsToFile},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the jobhunter main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "export matches to csv without asking for confirmation")
	runCmd.Flags().Bool("demo", false, "use the built-in demo source instead of live job boards")
	runCmd.Flags().StringP("cv", "c", "", "path to the cv file to match against")
	runCmd.Flags().StringP("output", "o", "", "path for the exported csv. Default is output/applications.csv.")

	viper.BindPFlag("sources.demo", runCmd.Flags().Lookup("demo"))
	viper.BindPFlag("cv-file", runCmd.Flags().Lookup("cv"))
	viper.BindPFlag("output", runCmd.Flags().Lookup("output"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the jobhunter", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		config = &Config{}
	}

	if config.CVFile == "" {
		logger.Fatal("a cv file is required to build a profile",
			zap.String("hint", "pass --cv or set the 'cv-file' key in the configuration file"),
		)
	}

	cv, err := os.ReadFile(config.CVFile)
	if err != nil {
		logger.Fatal("reading the cv file", zap.Error(err))
	}

	orchestrator, err := scrape.New(buildRegistry(config, logger), logger)
	if err != nil {
		logger.Fatal("building the scrape orchestrator", zap.Error(err))
	}

	textGen, err := buildTextGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("cover letters will use the built-in template", zap.Error(err))
		textGen = nil
	} else if textGen == nil {
		logger.Info("ai generation is disabled, cover letters use the built-in template")
	}

	letters := letter.New(textGen, newTokenBucket(config.Letters), logger, letterConfig(config.Letters))

	pipe, err := pipeline.New(pipeline.Deps{
		Extractor:  profile.New(logger),
		Discoverer: orchestrator,
		Letters:    letters,
		Logger:     logger,
	}, pipelineConfig(config.Matching))
	if err != nil {
		logger.Fatal("building the pipeline", zap.Error(err))
	}

	discovery := discoveryRequest(config.Search)

	logger.Info("starting the search", zap.String("search", discovery.Query.Text))

	report, err := pipe.Run(ctx, pipeline.Request{
		CVText:    string(cv),
		Discovery: discovery,
	})
	if err != nil {
		var low *pipeline.LowConfidenceError
		if errors.As(err, &low) {
			logger.Fatal("cv profile confidence is too low",
				zap.Float64("confidence", low.Confidence),
				zap.Float64("floor", low.Floor),
				zap.String("hint", "add more detail to the cv or lower 'matching.confidence-floor'"),
			)
		}

		logger.Fatal("running the pipeline", zap.Error(err))
	}

	if report.AllSourcesFailed {
		logger.Info("exiting", zap.String("reason", "all job sources failed"))
		return
	}

	if len(report.Matches) == 0 {
		logger.Info("exiting", zap.String("reason", "no matches left after selection"))
		return
	}

	for _, m := range report.Matches {
		logger.Debug("match",
			zap.Int("rank", m.Rank),
			zap.String("title", m.Posting.Title),
			zap.String("company", m.Posting.Company),
			zap.Float64("combined_score", m.CombinedScore),
			zap.String("strength", match.Strength(m.CombinedScore)),
		)
	}

	auto := cmd.Flag("auto-approve").Value.String() == "true"

	action := PromptExport
	for {
		var err error
		if !auto {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		logger.Info("current list of matches", zap.Int("count", len(report.Matches)))

		if err := handleAction(action, report, config, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}

		if auto {
			return
		}
	}
}

func handleAction(action string, report *pipeline.Report, config *Config, logger *zap.Logger) error {
	switch action {
	case PromptExport:
		output := config.Output
		if output == "" {
			output = defaultOutput
		}

		if err := export.WriteFile(output, report.Matches); err != nil {
			return fmt.Errorf("export matches: %w", err)
		}

		logger.Info("exported matches", zap.String("filename", output), zap.Int("count", len(report.Matches)))
		return nil
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptReportBySource:
		pretty, _ := json.MarshalIndent(matchPostings(report).ReportBySource(), "", "  ")
		logger.Info(string(pretty), zap.Int("matches count", len(report.Matches)))
		return nil
	case PromptPostingsToFile:
		filename, err := matchPostings(report).DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump matches to file: %w", err)
		}

		logger.Info("dumping matches to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func matchPostings(report *pipeline.Report) *jobs.Postings {
	items := make([]*jobs.Posting, 0, len(report.Matches))
	for _, m := range report.Matches {
		items = append(items, m.Posting)
	}

	return &jobs.Postings{Items: items}
}

// buildRegistry assembles the job sources. The demo source replaces every
// live board so the whole pipeline can run offline.
func buildRegistry(config *Config, logger *zap.Logger) *source.Registry {
	if config.Sources != nil && config.Sources.Demo {
		logger.Info("using the demo source", zap.String("hint", "drop --demo to scrape live job boards"))
		return source.NewRegistry(source.NewDemo())
	}

	adapters := []source.Adapter{
		source.NewRemoteOK(logger),
		source.NewArbeitnow(logger),
	}

	if adzuna := adzunaAdapter(config, logger); adzuna != nil {
		adapters = append(adapters, adzuna)
	}

	adapters = append(adapters, source.NewHeadHunter(logger, headhunterToken(config, logger)))

	return source.NewRegistry(adapters...)
}

func adzunaAdapter(config *Config, logger *zap.Logger) *source.Adzuna {
	if config.Sources == nil || config.Sources.Adzuna == nil || config.Sources.Adzuna.AppID == "" {
		return nil
	}

	cfg := config.Sources.Adzuna

	appKey, err := secrets.Load(secrets.Source{
		Name: "adzuna app key",
		Env:  "ADZUNA_APP_KEY",
		File: cfg.AppKeyFile,
	})
	if err != nil {
		logger.Warn("skipping the adzuna source", zap.Error(err))
		return nil
	}

	adapter := source.NewAdzuna(logger, cfg.AppID, appKey)
	if cfg.Country != "" {
		adapter.Country = cfg.Country
	}

	return adapter
}

// headhunterToken resolves the optional api token. The headhunter search
// api works anonymously, so a missing token only lowers rate limits.
func headhunterToken(config *Config, logger *zap.Logger) string {
	tokenFile := ""
	if config.Sources != nil && config.Sources.HeadHunter != nil {
		tokenFile = strings.TrimSpace(config.Sources.HeadHunter.TokenFile)
	}

	if tokenFile == "" {
		tokenFile = strings.TrimSpace(viper.GetString("sources.headhunter.token-file"))
	}

	token, err := secrets.Load(secrets.Source{
		Name: "headhunter token",
		Env:  "HH_TOKEN",
		File: tokenFile,
	})
	if err != nil {
		logger.Debug("using the headhunter api anonymously", zap.Error(err))
		return ""
	}

	return token
}

func buildTextGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.TextGenerator, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	gemCfg := cfg.Gemini
	if gemCfg == nil {
		gemCfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		Env:  "GEMINI_API_KEY",
		File: gemCfg.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, logger, apiKey, gemCfg.Model, gemCfg.MaxRetries)
	if err != nil {
		return nil, err
	}

	return generator, nil
}

func newTokenBucket(cfg *LettersConfig) *letter.TokenBucket {
	capacity := defaultRateCapacity
	interval := defaultRefillInterval

	if cfg != nil {
		if cfg.RateCapacity > 0 {
			capacity = cfg.RateCapacity
		}
		if cfg.RefillInterval > 0 {
			interval = cfg.RefillInterval
		}
	}

	return letter.NewTokenBucket(capacity, interval)
}

func letterConfig(cfg *LettersConfig) letter.Config {
	if cfg == nil {
		return letter.Config{}
	}

	return letter.Config{
		MaxWait:    cfg.MaxWait,
		Backoff:    cfg.Backoff,
		MaxRetries: cfg.MaxRetries,
		MaxLogLen:  cfg.MaxLogLength,
	}
}

func pipelineConfig(cfg *MatchingConfig) pipeline.Config {
	out := pipeline.Config{
		TopN:     defaultTopN,
		MinScore: defaultMinScore,
	}

	if cfg == nil {
		return out
	}

	if cfg.ConfidenceFloor > 0 {
		out.ConfidenceFloor = cfg.ConfidenceFloor
	}
	if cfg.TopN > 0 {
		out.TopN = cfg.TopN
	}
	if cfg.MinScore > 0 {
		out.MinScore = cfg.MinScore
	}
	out.ExcludeCompanies = cfg.ExcludeCompanies

	return out
}

func discoveryRequest(cfg *SearchConfig) scrape.Request {
	if cfg == nil {
		return scrape.Request{}
	}

	return scrape.Request{
		Query:             source.Query{Text: cfg.Text, Location: cfg.Location},
		MaxJobs:           cfg.MaxJobs,
		MaxPagesPerSource: cfg.MaxPagesPerSource,
		Workers:           cfg.Workers,
	}
}
