// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/coggraph/internal/logger"
	"github.com/pdiddy/coggraph/internal/pipeline"
)

var generateCmd = &cobra.Command{
	Use:   "generate FILE",
	Short: "Generate a knowledge graph for a document or one of its sections",
	Long: `Generate extracts the annotations of FILE (or of the section named by
--section) and writes a GraphViz DOT file to the output directory:
graph_<section>.dot for a section, graph_<file name>.dot otherwise.

An unknown section is reported together with the sections the file contains;
no file is written in that case. --list prints the sections instead of
generating a graph.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	source := args[0]
	out := cmd.OutOrStdout()

	if list, _ := cmd.Flags().GetBool("list"); list {
		return listSections(cmd, source)
	}

	sectionID, _ := cmd.Flags().GetString("section")
	cfg := graphConfig(cmd)

	res, err := pipeline.Generate(cfg, source, sectionID)
	if err != nil {
		var notFound *pipeline.SectionNotFoundError
		if errors.As(err, &notFound) {
			fmt.Fprintf(out, "Section '%s' not found!\n", notFound.ID)
			fmt.Fprintln(out, "\nAvailable sections:")
			for _, id := range notFound.Available {
				fmt.Fprintf(out, "  - %s\n", id)
			}
		}
		return err
	}

	logger.Info("graph generated", "nodes", res.Nodes, "edges", res.Edges)
	fmt.Fprintf(out, "Graph saved to: %s\n", res.OutputPath)
	if res.Section != "" {
		fmt.Fprintf(out, "\nFound %d annotations in section %s\n", res.Annotations, res.Section)
	} else {
		fmt.Fprintf(out, "\nFound %d annotations in full document\n", res.Annotations)
	}
	if res.Dropped > 0 {
		logger.Warn("annotations skipped: their tracks have no Cog1 object", "count", res.Dropped)
	}

	fmt.Fprintln(out, "\nTo visualize: install GraphViz and run:")
	fmt.Fprintf(out, "  dot -Tpng %s -o graph.png\n", res.OutputPath)
	return nil
}

func init() {
	generateCmd.Flags().StringP("section", "s", "", "section ID (Bekker number, e.g. 486a.1)")
	generateCmd.Flags().StringP("output", "o", "graphs", "output directory for graph files")
	generateCmd.Flags().BoolP("list", "l", false, "list all sections in the file instead of generating")

	rootCmd.AddCommand(generateCmd)
}
