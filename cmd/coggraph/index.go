// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/coggraph/internal/index"
	"github.com/pdiddy/coggraph/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the annotation index (add, query, export)",
	Long: `Index keeps a local SQLite database of the annotations found in any
number of annotated texts. Use subcommands to add files, query them, or
export the index.`,
}

// --- add subcommand ---

var indexAddCmd = &cobra.Command{
	Use:   "add FILE...",
	Short: "Add annotated files to the index",
	Long: `Add extracts the annotations of each FILE and stores them with their
section. Files unchanged since the last run are skipped; changed files are
re-indexed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndexAdd,
}

func runIndexAdd(cmd *cobra.Command, args []string) error {
	store, err := index.NewStore(indexConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), args, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d file(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- query subcommand ---

var indexQueryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Search indexed annotations by text and filters",
	Long: `Query searches annotation content with full-text search and/or
filters by category, track, document, or section.

Use --trace with an annotation ID to print the section it came from.`,
	RunE: runIndexQuery,
}

func runIndexQuery(cmd *cobra.Command, args []string) error {
	store, err := index.NewStore(indexConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()

	if traceID, _ := cmd.Flags().GetInt64("trace"); traceID > 0 {
		text, err := store.Trace(context.Background(), traceID)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
		return nil
	}

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search text, --category, --track, --doc, or --section")
	}

	results, err := store.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(out, results, jsonOutput)
}

func formatQueryOutput(w io.Writer, results []index.Result, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-6s  %-10s  %-8s  %-40s  %-16s  %s\n",
		"ID", "Category", "Track", "Text", "Document", "Section")
	fmt.Fprintln(w, strings.Repeat("-", 96))

	for _, r := range results {
		fmt.Fprintf(w, "%-6d  %-10s  %-8s  %-40s  %-16s  %s\n",
			r.ID, truncate(r.Category, 10), truncate(r.Track, 8), truncate(r.Text, 40),
			truncate(r.DocID, 16), r.Section)
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// --- export subcommand ---

var indexExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the index to YAML or JSON",
	Long: `Export writes the indexed annotations (or a filtered subset) to
export.yaml or export.json in the index directory.`,
	RunE: runIndexExport,
}

func runIndexExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := index.NewStore(indexConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	path, err := store.Export(context.Background(), queryOptsFromFlags(cmd, args), index.Format(format))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

func indexConfig(cmd *cobra.Command) types.IndexConfig {
	maxResults := viper.GetInt("index.max_results")
	if f := cmd.Flags().Lookup("max-results"); f != nil && f.Changed {
		maxResults, _ = cmd.Flags().GetInt("max-results")
	}
	return types.IndexConfig{
		Dir:        stringSetting(cmd, "index-dir", "index.dir"),
		MaxResults: maxResults,
	}
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) index.QueryOptions {
	query, _ := cmd.Flags().GetString("query")
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}
	category, _ := cmd.Flags().GetString("category")
	track, _ := cmd.Flags().GetString("track")
	doc, _ := cmd.Flags().GetString("doc")
	sec, _ := cmd.Flags().GetString("section")
	limit, _ := cmd.Flags().GetInt("limit")

	return index.QueryOptions{
		Query:      query,
		Category:   category,
		Track:      track,
		DocID:      doc,
		Section:    sec,
		MaxResults: limit,
	}
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("query", "", "full-text search over annotation text")
	cmd.Flags().String("category", "", "filter by category (e.g. Cog2p)")
	cmd.Flags().String("track", "", "filter by track ID")
	cmd.Flags().String("doc", "", "filter by document ID (file name without extension)")
	cmd.Flags().String("section", "", "filter by section ID (e.g. 486a.1)")
	cmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
}

func init() {
	indexCmd.PersistentFlags().String("index-dir", "index", "directory holding the annotation database and exports")
	indexCmd.PersistentFlags().Int("max-results", 20, "default maximum number of query results")

	addFilterFlags(indexQueryCmd)
	indexQueryCmd.Flags().Int64("trace", 0, "print the source section of an annotation ID")
	indexQueryCmd.Flags().Bool("json", false, "output results as JSON")

	addFilterFlags(indexExportCmd)
	indexExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	indexCmd.AddCommand(indexAddCmd)
	indexCmd.AddCommand(indexQueryCmd)
	indexCmd.AddCommand(indexExportCmd)

	rootCmd.AddCommand(indexCmd)
}
