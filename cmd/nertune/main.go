package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/halvard/nertune/internal/config"
	"github.com/halvard/nertune/pkg/logging"
)

var (
	cfg     *config.Config
	verbose bool
)

const version = "0.3.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "nertune",
		Short: "nertune - prompt-optimized person-name extraction",
		Long: `nertune loads a named-entity corpus, derives person-extraction examples,
evaluates a prompt-based extractor against gold labels, and tunes the
extraction prompt with an automatic optimizer.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(logging.NewPrettyHandler(os.Stderr, level)))

			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		datasetCmd(),
		evalCmd(),
		optimizeCmd(),
		extractCmd(),
		configCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configCmd shows current configuration
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Current configuration:")
			fmt.Println()

			fmt.Println("LLM:")
			fmt.Printf("  URL:         %s\n", cfg.LLM.URL)
			fmt.Printf("  Model:       %s\n", cfg.LLM.Model)
			fmt.Printf("  Max Tokens:  %d\n", cfg.LLM.MaxTokens)
			fmt.Printf("  Temperature: %.2f\n", cfg.LLM.Temperature)
			fmt.Printf("  API Key:     %s\n", maskSecret(cfg.LLM.APIKey))
			fmt.Println()

			if cfg.HasReflectionLM() {
				fmt.Println("Reflection LLM:")
				fmt.Printf("  URL:     %s\n", cfg.Reflection.URL)
				fmt.Printf("  Model:   %s\n", cfg.Reflection.Model)
				fmt.Printf("  API Key: %s\n", maskSecret(cfg.Reflection.APIKey))
				fmt.Println()
			}

			fmt.Println("Corpus:")
			fmt.Printf("  Dataset:      %s\n", cfg.Corpus.Dataset)
			fmt.Printf("  Config:       %s\n", cfg.Corpus.Config)
			fmt.Printf("  Cache Dir:    %s\n", cfg.Corpus.CacheDir)
			fmt.Printf("  Person Codes: %v\n", cfg.Corpus.PersonCodes)
			fmt.Println()

			fmt.Println("Eval:")
			fmt.Printf("  Concurrency: %d\n", cfg.Eval.Concurrency)
			fmt.Println()

			fmt.Println("Optimize:")
			fmt.Printf("  Effort:       %s\n", cfg.Optimize.Effort)
			fmt.Printf("  Max Demos:    %d\n", cfg.Optimize.MaxDemos)
			fmt.Printf("  Auto Accept:  %t\n", cfg.Optimize.AutoAccept)
			fmt.Printf("  No Minibatch: %t\n", cfg.Optimize.DisableMinibatch)

			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("nertune %s\n", version)
		},
	}
}

func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
