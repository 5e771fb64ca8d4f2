package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/halvard/nertune/internal/config"
	"github.com/halvard/nertune/internal/corpus"
	"github.com/halvard/nertune/internal/optimize"
	"github.com/halvard/nertune/internal/prompt"
)

// optimizeCmd tunes the extraction prompt over a training slice
func optimizeCmd() *cobra.Command {
	var splitName string
	var file string
	var start, count int
	var effort string
	var maxDemos int
	var yes bool
	var noMinibatch bool
	var artifactPath string

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Tune the extraction prompt on training examples",
		Long: `Search for a better extraction prompt over a slice of the training split.
The winning instruction and its few-shot demonstrations are written to an
artifact that eval and extract can reuse.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			knobs, err := resolveKnobs(
				cmd.Flags().Changed("effort"), effort,
				cmd.Flags().Changed("max-demos"), maxDemos,
				noMinibatch, cfg.Optimize,
			)
			if err != nil {
				return err
			}

			split, err := loadSplit(ctx, splitName, file)
			if err != nil {
				return fmt.Errorf("failed to load split: %w", err)
			}

			end := start + count
			trainset, err := prompt.BuildExamples(split, start, end, personCodes())
			if err != nil {
				return err
			}

			if !yes && !cfg.Optimize.AutoAccept {
				question := fmt.Sprintf("Run %s optimization over %d training examples", knobs.Effort, len(trainset))
				if !confirm(question) {
					fmt.Println("Aborted.")
					return nil
				}
			}

			taskAdapter, err := newTaskAdapter()
			if err != nil {
				return err
			}

			opts := []optimize.Option{optimize.WithKnobs(knobs)}
			reflectionAdapter, err := newReflectionAdapter()
			if err != nil {
				return err
			}
			if reflectionAdapter != nil {
				opts = append(opts, optimize.WithReflectionLM(reflectionAdapter))
			}

			optimizer := optimize.New(taskAdapter, opts...)
			result, err := optimizer.Run(ctx, prompt.ExtractPeople(), trainset, &prompt.TokenMatchMetric{})
			if err != nil {
				return err
			}

			fmt.Printf("Run %s finished: best score %.4f in %s\n",
				result.ID, result.BestScore, result.Duration.Round(1e6))
			fmt.Println()
			fmt.Println("Best instruction:")
			fmt.Println(result.BestInstruction)

			if len(result.Archive) > 0 {
				fmt.Println()
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "GEN\tFITNESS\tINSTRUCTION")
				fmt.Fprintln(w, "---\t-------\t-----------")
				for _, c := range result.Archive {
					fmt.Fprintf(w, "%d\t%.4f\t%s\n", c.Generation, c.Fitness, truncate(c.Instruction, 60))
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}

			art := optimize.NewArtifact(result, cfg.Corpus.Dataset)
			if err := art.Save(artifactPath); err != nil {
				return err
			}
			fmt.Printf("\nArtifact %s written to %s\n", art.ID, artifactPath)

			return nil
		},
	}

	cmd.Flags().StringVarP(&splitName, "split", "s", corpus.SplitTrain, "Split to train on")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Load from a local CoNLL file instead of the hosted dataset")
	cmd.Flags().IntVar(&start, "start", 0, "First record index of the trainset")
	cmd.Flags().IntVarP(&count, "count", "n", 20, "Trainset size")
	cmd.Flags().StringVarP(&effort, "effort", "e", "light", "Search effort (light, medium, heavy)")
	cmd.Flags().IntVar(&maxDemos, "max-demos", 4, "Maximum few-shot demonstrations in the tuned prompt")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&noMinibatch, "no-minibatch", false, "Evaluate candidates on the full trainset")
	cmd.Flags().StringVarP(&artifactPath, "out", "o", "nertune-artifact.json", "Artifact output path")

	return cmd
}

// resolveKnobs merges optimizer flag values with the configured ones. A flag
// given on the command line wins; otherwise the config file and environment
// supply the value.
func resolveKnobs(effortSet bool, effortFlag string, demosSet bool, demosFlag int, noMinibatch bool, opt config.OptimizeConfig) (optimize.Knobs, error) {
	name := effortFlag
	if !effortSet && opt.Effort != "" {
		name = opt.Effort
	}
	effort, err := optimize.ParseEffort(name)
	if err != nil {
		return optimize.Knobs{}, err
	}

	demos := demosFlag
	if !demosSet && opt.MaxDemos > 0 {
		demos = opt.MaxDemos
	}

	return optimize.Knobs{
		Effort:           effort,
		MaxDemos:         demos,
		DisableMinibatch: noMinibatch || opt.DisableMinibatch,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
