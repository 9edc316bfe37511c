// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/coggraph/internal/annotate"
	"github.com/pdiddy/coggraph/internal/index"
	"github.com/pdiddy/coggraph/internal/pipeline"
	"github.com/pdiddy/coggraph/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract FILE",
	Short: "Print the annotations of a file as YAML or JSON",
	Long: `Extract parses the ⟨Category#track: text⟩ annotations of FILE, or of
one section with --section, and prints them. --category and --track keep only
exact matches.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	sectionID, _ := cmd.Flags().GetString("section")
	category, _ := cmd.Flags().GetString("category")
	track, _ := cmd.Flags().GetString("track")
	format, _ := cmd.Flags().GetString("format")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading source %s: %w", args[0], err)
	}

	scope, err := pipeline.Select(string(data), sectionID, "")
	if err != nil {
		return err
	}

	anns := annotate.Extract(scope.Text)
	if category != "" {
		anns = annotate.ByCategory(anns, category)
	}
	if track != "" {
		anns = annotate.ByTrack(anns, track)
	}
	if anns == nil {
		anns = []types.Annotation{}
	}

	out, err := index.Encode(anns, index.Format(format))
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func init() {
	extractCmd.Flags().StringP("section", "s", "", "only annotations of this section (e.g. 486a.1)")
	extractCmd.Flags().String("category", "", "keep annotations with this category (e.g. Cog2p)")
	extractCmd.Flags().String("track", "", "keep annotations with this track ID")
	extractCmd.Flags().String("format", "yaml", "output format: yaml or json")

	rootCmd.AddCommand(extractCmd)
}
