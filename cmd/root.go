package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "jobhunter"
)

type Config struct {
	CVFile   string          `mapstructure:"cv-file"`
	Output   string          `mapstructure:"output"`
	Search   *SearchConfig   `mapstructure:"search"`
	Sources  *SourcesConfig  `mapstructure:"sources"`
	Matching *MatchingConfig `mapstructure:"matching"`
	Letters  *LettersConfig  `mapstructure:"letters"`
	AI       *AIConfig       `mapstructure:"ai"`
}

type SearchConfig struct {
	Text              string `mapstructure:"text"`
	Location          string `mapstructure:"location"`
	MaxJobs           int    `mapstructure:"max-jobs"`
	MaxPagesPerSource int    `mapstructure:"max-pages-per-source"`
	Workers           int    `mapstructure:"workers"`
}

type SourcesConfig struct {
	Demo       bool              `mapstructure:"demo"`
	HeadHunter *HeadHunterConfig `mapstructure:"headhunter"`
	Adzuna     *AdzunaConfig     `mapstructure:"adzuna"`
}

type HeadHunterConfig struct {
	TokenFile string `mapstructure:"token-file"`
}

type AdzunaConfig struct {
	AppID      string `mapstructure:"app-id"`
	AppKeyFile string `mapstructure:"app-key-file"`
	Country    string `mapstructure:"country"`
}

type MatchingConfig struct {
	ConfidenceFloor  float64  `mapstructure:"confidence-floor"`
	MinScore         float64  `mapstructure:"min-score"`
	TopN             int      `mapstructure:"top-n"`
	ExcludeCompanies []string `mapstructure:"exclude-companies"`
}

type LettersConfig struct {
	RateCapacity   int           `mapstructure:"rate-capacity"`
	RefillInterval time.Duration `mapstructure:"refill-interval"`
	MaxWait        time.Duration `mapstructure:"max-wait"`
	Backoff        time.Duration `mapstructure:"backoff"`
	MaxRetries     int           `mapstructure:"max-retries"`
	MaxLogLength   int           `mapstructure:"max-log-length"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobhunter is a cli that matches job postings against a cv and drafts cover letters",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("sources.headhunter.token-file", "HH_TOKEN_FILE"); err != nil {
		log.Fatalf("binding HH_TOKEN_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobhunter.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// A missing default config is fine since flags and env cover everything.
	// We can't proceed if an explicit config file is unreadable or invalid.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}

		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
