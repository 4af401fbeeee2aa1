package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "interview-report"
)

type Config struct {
	Input  string       `mapstructure:"input"`
	Output string       `mapstructure:"output"`
	Format string       `mapstructure:"format"`
	Yes    bool         `mapstructure:"yes"`
	AI     AIConfig     `mapstructure:"ai"`
	Report ReportConfig `mapstructure:"report"`
}

type AIConfig struct {
	Providers    []string     `mapstructure:"providers"`
	MaxTokens    int          `mapstructure:"max-tokens"`
	MaxLogLength int          `mapstructure:"max-log-length"`
	Gemini       GeminiConfig `mapstructure:"gemini"`
	OpenAI       OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type OpenAIConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	BaseURL    string `mapstructure:"base-url"`
}

type ReportConfig struct {
	Title           string `mapstructure:"title"`
	Recommendations string `mapstructure:"recommendations"`
	WrapWidth       int    `mapstructure:"wrap-width"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "interview-report evaluates an interview transcript with an LLM and writes a candidate report",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	setDefaults(viper.GetViper())

	envs := map[string]string{
		"ai.gemini.api-key":      "GEMINI_API_KEY",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"ai.openai.api-key":      "OPENAI_API_KEY",
		"ai.openai.api-key-file": "OPENAI_API_KEY_FILE",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is interview-report.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output", "interview_report.pdf")
	v.SetDefault("ai.providers", []string{"gemini", "openai"})
	v.SetDefault("ai.max-tokens", 512)
	v.SetDefault("ai.max-log-length", 200)
	v.SetDefault("ai.gemini.max-retries", 2)
	v.SetDefault("report.wrap-width", 100)
}

func initConfig() {
	// Only the report command reads configuration.
	if reportCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	// The default config file is optional, an explicit one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
