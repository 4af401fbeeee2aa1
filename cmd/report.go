package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/spigell/interview-reporter/internal/ai"
	"github.com/spigell/interview-reporter/internal/ai/gemini"
	"github.com/spigell/interview-reporter/internal/ai/openai"
	"github.com/spigell/interview-reporter/internal/evaluation"
	"github.com/spigell/interview-reporter/internal/logger"
	"github.com/spigell/interview-reporter/internal/report"
	"github.com/spigell/interview-reporter/internal/report/render"
	"github.com/spigell/interview-reporter/internal/secrets"
	"github.com/spigell/interview-reporter/internal/transcript"
)

const stdinInput = "-"

var errOverwriteDeclined = errors.New("output file exists and overwrite was declined")

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Evaluate a transcript and write the interview report",
	Long: `Reads a JSON array of {"role", "content"} turns from --input or stdin,
asks the configured LLM providers for an evaluation and writes the report.
Without input on an interactive terminal a built-in sample transcript is used.`,
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringP("input", "i", "", "transcript file, '-' for stdin")
	reportCmd.Flags().StringP("output", "o", "interview_report.pdf", "report file")
	reportCmd.Flags().StringP("format", "f", "", "report format: pdf, markdown or html (default from output extension)")
	reportCmd.Flags().BoolP("yes", "y", false, "overwrite the output file without asking")
	reportCmd.Flags().StringSlice("provider", []string{"gemini", "openai"}, "generation providers in priority order")
	reportCmd.Flags().String("title", "", "report title")

	viper.BindPFlag("input", reportCmd.Flags().Lookup("input"))
	viper.BindPFlag("output", reportCmd.Flags().Lookup("output"))
	viper.BindPFlag("format", reportCmd.Flags().Lookup("format"))
	viper.BindPFlag("yes", reportCmd.Flags().Lookup("yes"))
	viper.BindPFlag("ai.providers", reportCmd.Flags().Lookup("provider"))
	viper.BindPFlag("report.title", reportCmd.Flags().Lookup("title"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	base, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer base.Sync()

	runID := uuid.NewString()
	logger := logger.WithRunID(base, runID)

	config, err := getConfig(viper.GetViper())
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the interview-report", zap.String("version", version))

	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	t, source, err := readTranscript(config.Input, os.Stdin, interactive)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Invalid transcript: %s\n", err)
		logger.Fatal("reading transcript", zap.Error(err), zap.String("source", source))
	}
	logger.Info("transcript loaded", zap.String("source", source), zap.Int("turns", t.Len()))

	renderer, err := render.New(config.Format, config.Output, config.Report.WrapWidth)
	if err != nil {
		logger.Fatal("choosing a renderer", zap.Error(err))
	}

	if err := confirmOverwrite(config.Output, config.Yes, interactive); err != nil {
		logger.Fatal("exiting", zap.Error(err),
			zap.String("hint", "pass --yes to overwrite the existing report"),
		)
	}

	factories, err := providerFactories(config.AI, logger)
	if err != nil {
		logger.Fatal("configuring generation providers", zap.Error(err))
	}

	chain := ai.NewChain(logger, factories...)
	logger.Info("generation providers", zap.Strings("order", chain.Names()))
	if !hasCredentials(config.AI) {
		logger.Warn("no provider credentials configured, the report will use default values",
			zap.String("hint", "set GEMINI_API_KEY_FILE or OPENAI_API_KEY_FILE"),
		)
	}
	evaluator := evaluation.NewEvaluator(chain, config.AI.MaxTokens, config.AI.MaxLogLength, logger)

	outcome, err := evaluator.Evaluate(ctx, t)
	if err != nil {
		logger.Fatal("evaluating transcript", zap.Error(err))
	}

	if outcome.Mode == evaluation.ModeFallback {
		fmt.Fprintln(cmd.ErrOrStderr(), "Evaluation failed, the report contains default values.")
	}

	doc := report.Assemble(t, outcome.Schema, report.Options{
		Title:           config.Report.Title,
		Recommendations: config.Report.Recommendations,
		RunID:           runID,
	})

	if err := report.NewStore(renderer, logger).Write(ctx, config.Output, doc); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Failed to write the report: %s\n", err)
		logger.Fatal("writing report", zap.Error(err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s (rating %s, %s mode)\n",
		config.Output, report.FormatRating(outcome.Schema.Rating), outcome.Mode)
}

// readTranscript resolves the input source. It returns the source name for logging.
func readTranscript(input string, stdin io.Reader, interactive bool) (*transcript.Transcript, string, error) {
	input = strings.TrimSpace(input)

	switch {
	case input == "" && interactive:
		return transcript.Sample(), "sample", nil
	case input == "" || input == stdinInput:
		t, err := transcript.Decode(stdin)
		return t, "stdin", err
	default:
		f, err := os.Open(input)
		if err != nil {
			return nil, input, fmt.Errorf("opening transcript: %w", err)
		}
		defer f.Close()

		t, err := transcript.Decode(f)
		return t, input, err
	}
}

// confirmOverwrite asks before replacing an existing report.
func confirmOverwrite(path string, yes, interactive bool) error {
	if yes {
		return nil
	}

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking output file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("output path %q is a directory", path)
	}

	if !interactive {
		return fmt.Errorf("%w: %s", errOverwriteDeclined, path)
	}

	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("Overwrite %s", path),
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		return fmt.Errorf("%w: %s", errOverwriteDeclined, path)
	}

	return nil
}

// providerFactories builds the generation chain in configured order.
// Credentials are resolved lazily so a provider without a key only fails its own turn.
func providerFactories(cfg AIConfig, log *zap.Logger) ([]ai.Factory, error) {
	factories := make([]ai.Factory, 0, len(cfg.Providers))

	for _, name := range cfg.Providers {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case gemini.ProviderName:
			factories = append(factories, ai.Factory{
				Name: gemini.ProviderName,
				New: func(ctx context.Context) (ai.Generator, error) {
					apiKey, err := secrets.Load(providerSecret(gemini.ProviderName, cfg))
					if err != nil {
						return nil, fmt.Errorf("%w (set GEMINI_API_KEY_FILE or ai.gemini.api-key-file)", err)
					}

					genLogger := logger.WithProvider(log, gemini.ProviderName, cfg.Gemini.Model).
						With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

					generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
					if err != nil {
						return nil, err
					}
					return generator, nil
				},
			})
		case openai.ProviderName:
			factories = append(factories, ai.Factory{
				Name: openai.ProviderName,
				New: func(_ context.Context) (ai.Generator, error) {
					apiKey, err := secrets.Load(providerSecret(openai.ProviderName, cfg))
					if err != nil {
						return nil, fmt.Errorf("%w (set OPENAI_API_KEY_FILE or ai.openai.api-key-file)", err)
					}

					generator, err := openai.NewGenerator(apiKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL)
					if err != nil {
						return nil, err
					}
					return generator, nil
				},
			})
		case "":
			continue
		default:
			return nil, fmt.Errorf("unsupported ai provider: %s", name)
		}
	}

	return factories, nil
}

func providerSecret(provider string, cfg AIConfig) secrets.Source {
	switch provider {
	case gemini.ProviderName:
		return secrets.Source{Name: "gemini api key", Value: cfg.Gemini.APIKey, File: cfg.Gemini.APIKeyFile}
	case openai.ProviderName:
		return secrets.Source{Name: "openai api key", Value: cfg.OpenAI.APIKey, File: cfg.OpenAI.APIKeyFile}
	default:
		return secrets.Source{Name: provider + " api key"}
	}
}

// hasCredentials reports whether any configured provider has a key to try.
func hasCredentials(cfg AIConfig) bool {
	for _, name := range cfg.Providers {
		if providerSecret(strings.ToLower(strings.TrimSpace(name)), cfg).Configured() {
			return true
		}
	}
	return false
}
