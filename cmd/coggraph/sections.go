// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pdiddy/coggraph/internal/pipeline"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var sectionsCmd = &cobra.Command{
	Use:   "sections FILE",
	Short: "List the Bekker-numbered sections of a file",
	Long: `Sections prints every section found in FILE with its annotation count
and a short preview of its text.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return listSections(cmd, args[0])
	},
}

func listSections(cmd *cobra.Command, source string) error {
	sums, err := pipeline.ListSections(source)
	if err != nil {
		return err
	}
	renderSections(cmd.OutOrStdout(), source, sums)
	return nil
}

func renderSections(w io.Writer, source string, sums []pipeline.SectionSummary) {
	fmt.Fprintf(w, "\nFound %d sections in %s:\n\n", len(sums), source)
	if len(sums) == 0 {
		return
	}

	rows := make([][]string, len(sums))
	for i, s := range sums {
		rows[i] = []string{
			s.ID,
			strconv.Itoa(s.Annotations),
			strings.Join(strings.Fields(s.Preview), " "),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("Section", "Annotations", "Preview").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 1 {
				return cellStyle.Align(lipgloss.Right)
			}
			return cellStyle
		})

	fmt.Fprintln(w, t.Render())
}

func init() {
	rootCmd.AddCommand(sectionsCmd)
}
