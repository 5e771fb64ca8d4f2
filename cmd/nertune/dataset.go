package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/halvard/nertune/internal/corpus"
	"github.com/halvard/nertune/internal/prompt"
)

// datasetCmd provides subcommands for corpus inspection
func datasetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Inspect the labeled corpus",
		Long: `Load the configured corpus and inspect its splits.

Subcommands:
  info   Show split sizes
  show   Show labeled records and their gold person tokens`,
	}

	cmd.AddCommand(
		datasetInfoCmd(),
		datasetShowCmd(),
	)

	return cmd
}

func datasetInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show split sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			ds, err := newLoader().Load(ctx)
			if err != nil {
				return fmt.Errorf("failed to load corpus: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SPLIT\tRECORDS")
			fmt.Fprintln(w, "-----\t-------")
			for _, name := range []string{corpus.SplitTrain, corpus.SplitValidation, corpus.SplitTest} {
				split, err := ds.Split(name)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "%s\t%d\n", name, split.Len())
			}
			return w.Flush()
		},
	}
}

func datasetShowCmd() *cobra.Command {
	var splitName string
	var file string
	var start, count int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show labeled records and their gold person tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			split, err := loadSplit(ctx, splitName, file)
			if err != nil {
				return fmt.Errorf("failed to load split: %w", err)
			}

			end := start + count
			if end > split.Len() {
				end = split.Len()
			}
			examples, err := prompt.BuildExamples(split, start, end, personCodes())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "IDX\tTOKENS\tGOLD PEOPLE")
			fmt.Fprintln(w, "---\t------\t-----------")
			for i, ex := range examples {
				fmt.Fprintf(w, "%d\t%s\t%s\n", start+i, joinTokens(ex.InputTokens()), joinTokens(ex.GoldPeople()))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&splitName, "split", "s", corpus.SplitTrain, "Split to show (train, validation, test)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Load from a local CoNLL file instead of the hosted dataset")
	cmd.Flags().IntVar(&start, "start", 0, "First record index")
	cmd.Flags().IntVarP(&count, "count", "n", 10, "Number of records to show")

	return cmd
}
