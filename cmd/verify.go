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

	"github.com/credlens/credlens/internal/ai"
	"github.com/credlens/credlens/internal/ai/gemini"
	"github.com/credlens/credlens/internal/candidate"
	"github.com/credlens/credlens/internal/fetch"
	loggerpkg "github.com/credlens/credlens/internal/logger"
	"github.com/credlens/credlens/internal/score"
	"github.com/credlens/credlens/internal/secrets"
	"github.com/credlens/credlens/internal/verify"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptShowBreakdown = "Show score breakdown"
	PromptDumpReport    = "Dump full report to file"
	PromptExplain       = "Explain results with AI"
	PromptExit          = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowBreakdown, PromptDumpReport, PromptExplain, PromptExit},
}

// analysis bundles everything one run produces, in a flat serializable shape.
type analysis struct {
	Candidate   string                  `json:"candidate,omitempty"`
	Report      *verify.Report          `json:"verification_report"`
	Credibility *score.CredibilityResult `json:"credibility_score"`
	Composite   *score.CompositeResult   `json:"composite_score,omitempty"`
	Explanation string                  `json:"explanation,omitempty"`
}

var verifyCmd = &cobra.Command{
	Use:   "verify <candidate.json>",
	Short: "Verify a candidate's credentials and compute the aggregate score",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runVerify(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().BoolP("no-prompt", "y", false, "print the report and exit without the interactive menu")
}

// runVerify is the main command for the cli.
func runVerify(cmd *cobra.Command, candidatePath string) {
	ctx := context.Background()

	logger, err := loggerpkg.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting credlens", zap.String("version", version))

	cand, err := candidate.FromFile(candidatePath)
	if err != nil {
		logger.Fatal("loading candidate record", zap.Error(err))
	}

	registry, err := verify.RegistryFromConfig(config.Providers)
	if err != nil {
		logger.Fatal("building certificate provider registry", zap.Error(err))
	}

	weights, err := credibilityWeights(config)
	if err != nil {
		logger.Fatal("building component weights", zap.Error(err))
	}

	orchestrator := buildOrchestrator(config, registry, logger)

	logger.Info("starting verification run",
		zap.Bool("github", cand.HasSource(candidate.SourceGitHub)),
		zap.Bool("linkedin", cand.HasSource(candidate.SourceLinkedIn)),
		zap.Bool("leetcode", cand.HasSource(candidate.SourceLeetCode)),
		zap.Int("certificates", len(cand.Certificates)),
	)

	report := orchestrator.VerifyAll(ctx, cand)

	result := &analysis{
		Candidate:   cand.Name,
		Report:      report,
		Credibility: score.Credibility(report, weights),
	}

	if len(cand.ComponentScores) > 0 {
		result.Composite = score.Composite(cand.ComponentScores, score.CompositeWeights())
	}

	logger.Info("verification run finished",
		zap.Float64("credibility_score", result.Credibility.FinalScore),
		zap.Int("sources_used", len(result.Credibility.WeightsUsed)),
	)

	pretty, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(pretty))

	if cmd.Flag("no-prompt").Value.String() == "true" {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(ctx, action, config, result, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(ctx context.Context, action string, config *Config, result *analysis, logger *zap.Logger) error {
	switch action {
	case PromptShowBreakdown:
		breakdown := map[string]any{
			"credibility": result.Credibility,
		}
		if result.Composite != nil {
			breakdown["composite"] = result.Composite
		}
		pretty, _ := json.MarshalIndent(breakdown, "", "  ")
		fmt.Println(string(pretty))
		return nil
	case PromptDumpReport:
		filename, err := dumpToTmpFile(result)
		if err != nil {
			return fmt.Errorf("dump report to file: %w", err)
		}
		logger.Info("dumping report to file", zap.String("filename", filename))
		return nil
	case PromptExplain:
		explanation, err := explain(ctx, config, result, logger)
		if err != nil {
			logger.Warn("skipping AI explanation", zap.Error(err))
			return nil
		}
		result.Explanation = explanation.Summary
		fmt.Println(explanation.Summary)
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// buildOrchestrator wires the fetch clients, retry policy and the four
// platform verifiers.
func buildOrchestrator(config *Config, registry *verify.Registry, logger *zap.Logger) *verify.Orchestrator {
	retry := fetch.RetryConfig{}
	if config.Retry != nil {
		retry = *config.Retry
	}

	// The API client authenticates against the code-host API when a token
	// is configured; the probe client stays anonymous for plain page loads.
	apiClient := fetch.New(logger, config.Timeout)
	probeClient := fetch.New(logger, config.Timeout)

	if config.UserAgent != "" {
		apiClient.UserAgent = config.UserAgent
		probeClient.UserAgent = config.UserAgent
	}

	if token, err := resolveToken(config); err == nil {
		apiClient.Token = token
	} else {
		logger.Debug("running without code-host API token", zap.Error(err))
	}

	return verify.NewOrchestrator(logger, config.RunTimeout,
		verify.NewGithubVerifier(apiClient, retry, logger),
		verify.NewLinkedinVerifier(probeClient, retry, logger),
		verify.NewLeetcodeVerifier(probeClient, retry, logger),
		verify.NewCertificateVerifier(registry, probeClient, retry, logger),
	)
}

// credibilityWeights merges configured weight overrides onto the defaults and
// validates the result. Broken weights are a startup error, never a per-run
// one.
func credibilityWeights(config *Config) (map[candidate.Source]score.ComponentWeight, error) {
	weights := score.CredibilityWeights()

	for name, value := range config.Weights {
		source := candidate.Source(strings.ToLower(strings.TrimSpace(name)))
		current, ok := weights[source]
		if !ok {
			return nil, fmt.Errorf("unknown source %q in weights configuration", name)
		}
		current.Weight = value
		weights[source] = current
	}

	if err := score.ValidateWeights(weights); err != nil {
		return nil, err
	}

	return weights, nil
}

func resolveToken(config *Config) (string, error) {
	tokenFile := strings.TrimSpace(config.TokenFile)
	if tokenFile == "" {
		tokenFile = strings.TrimSpace(viper.GetString("token-file"))
	}

	if tokenFile == "" {
		return "", errors.New("code-host token file is not configured")
	}

	return secrets.Load(secrets.Source{
		Name: "code-host token",
		File: tokenFile,
		Env:  "CREDLENS_TOKEN",
	})
}

func explain(ctx context.Context, config *Config, result *analysis, logger *zap.Logger) (*ai.Explanation, error) {
	if config.AI == nil || !config.AI.Enabled {
		return nil, errors.New("ai explanations are disabled in the configuration")
	}

	if config.AI.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.AI.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := loggerpkg.WithCommonFields(logger, "gemini", config.AI.Gemini.Model)

	generator, err := gemini.NewGenerator(ctx, apiKey, config.AI.Gemini.Model, config.AI.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	explainer := gemini.NewExplainer(generator, genLogger, config.AI.Gemini.MaxLogLength)

	return explainer.Explain(ctx, result.Report, result.Credibility, result.Composite)
}

func dumpToTmpFile(result *analysis) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}

	file, err := os.CreateTemp("", fmt.Sprintf("%s-report-%s-*.json", app, time.Now().Format("20060102")))
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		return "", err
	}

	return file.Name(), nil
}
