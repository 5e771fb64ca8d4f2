package main

import (
	"context"
	"fmt"

	"github.com/XiaoConstantine/dspy-go/pkg/core"
	"github.com/spf13/cobra"

	"github.com/halvard/nertune/internal/prompt"
)

// extractCmd runs a single extraction over tokens given on the command line.
func extractCmd() *cobra.Command {
	var artifactPath string

	cmd := &cobra.Command{
		Use:   "extract TOKEN...",
		Short: "Extract person names from a tokenized sentence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

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
			people, err := extractor.Extract(ctx, args)
			if err != nil {
				return err
			}

			if len(people) == 0 {
				fmt.Println("No person names found.")
				return nil
			}
			for _, p := range people {
				fmt.Println(p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&artifactPath, "artifact", "a", "", "Use the tuned prompt from an artifact file")

	return cmd
}
