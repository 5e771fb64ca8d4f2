package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/XiaoConstantine/dspy-go/pkg/core"
	"github.com/spf13/cobra"

	"github.com/halvard/nertune/internal/corpus"
	"github.com/halvard/nertune/internal/eval"
	"github.com/halvard/nertune/internal/prompt"
)

// evalCmd measures extraction accuracy on a held-out devset
func evalCmd() *cobra.Command {
	var splitName string
	var file string
	var start, count int
	var artifactPath string
	var reportPath string
	var showTable bool

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate extraction accuracy on a held-out devset",
		Long: `Run the person extractor over a devset slice and score each prediction
against the gold person tokens with exact-match accuracy. With --artifact,
the tuned prompt from a previous optimization run is used instead of the
baseline instruction.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			split, err := loadSplit(ctx, splitName, file)
			if err != nil {
				return fmt.Errorf("failed to load split: %w", err)
			}

			end := start + count
			devset, err := prompt.BuildExamples(split, start, end, personCodes())
			if err != nil {
				return err
			}

			sig, err := taskSignature(artifactPath)
			if err != nil {
				return err
			}

			adapter, err := newTaskAdapter()
			if err != nil {
				return err
			}
			core.SetDefaultLLM(adapter)

			extractor := prompt.NewExtractor(sig)
			report, err := eval.Evaluate(ctx, extractor, devset, &prompt.TokenMatchMetric{}, eval.Options{
				Concurrency: cfg.Eval.Concurrency,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Report %s: accuracy %.4f (%d/%d correct) in %s\n",
				report.ID, report.Accuracy, report.Correct, report.Total, report.Duration.Round(1e6))

			if showTable {
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "IDX\tSCORE\tGOLD\tPREDICTED\tERROR")
				fmt.Fprintln(w, "---\t-----\t----\t---------\t-----")
				for _, row := range report.Rows {
					fmt.Fprintf(w, "%d\t%.0f\t%s\t%s\t%s\n",
						row.Index, row.Score, joinTokens(row.Gold), joinTokens(row.Predicted), row.Err)
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}

			if reportPath != "" {
				data, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal report: %w", err)
				}
				if err := os.WriteFile(reportPath, data, 0o644); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				fmt.Printf("Report written to %s\n", reportPath)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&splitName, "split", "s", corpus.SplitTest, "Split to evaluate on")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Load from a local CoNLL file instead of the hosted dataset")
	cmd.Flags().IntVar(&start, "start", 0, "First record index of the devset")
	cmd.Flags().IntVarP(&count, "count", "n", 50, "Devset size")
	cmd.Flags().StringVarP(&artifactPath, "artifact", "a", "", "Use the tuned prompt from an optimization artifact")
	cmd.Flags().StringVarP(&reportPath, "out", "o", "", "Write the full report as JSON")
	cmd.Flags().BoolVarP(&showTable, "table", "t", false, "Print the per-example table")

	return cmd
}
