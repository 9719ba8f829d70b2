package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/credlens/credlens/internal/fetch"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "credlens"
)

type Config struct {
	// TokenFile points to a file with the code-host API token. Optional:
	// the public API works unauthenticated with tighter rate limits.
	TokenFile string `mapstructure:"token-file"`
	UserAgent string `mapstructure:"user-agent"`

	// Timeout bounds one fetch attempt, RunTimeout the whole verification
	// run. Zero RunTimeout means no global deadline.
	Timeout    time.Duration `mapstructure:"timeout"`
	RunTimeout time.Duration `mapstructure:"run-timeout"`

	Retry *fetch.RetryConfig `mapstructure:"retry"`

	// Providers overrides the built-in certificate issuer registry.
	Providers map[string]any `mapstructure:"providers"`
	// Weights overrides the credibility-mode source weights.
	Weights map[string]float64 `mapstructure:"weights"`

	AI *AIConfig `mapstructure:"ai"`
}

type AIConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Gemini  *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "credlens verifies candidate credentials across platforms and computes a trust-adjusted score",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("token-file", "CREDLENS_TOKEN_FILE"); err != nil {
		log.Fatalf("binding CREDLENS_TOKEN_FILE environment variable: %v", err)
	}

	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is credlens.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for the verify command. If there is no config, we can skip initialization.
	if verifyCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The config file is optional since defaults cover every setting, but
	// one that exists and fails to parse is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
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

	if config == nil {
		config = &Config{}
	}

	return config, nil
}
