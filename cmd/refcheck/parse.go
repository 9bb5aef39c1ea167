package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/refcheck/internal/citation"
	"github.com/matsen/refcheck/internal/docext"
	"github.com/matsen/refcheck/internal/reference"
	"github.com/matsen/refcheck/internal/refparse"
)

func init() {
	parseCmd.Flags().StringVar(&parseEntry, "entry", "", "Parse a single raw reference string instead of a document")
	rootCmd.AddCommand(parseCmd)
}

var parseEntry string

var parseCmd = &cobra.Command{
	Use:   "parse [document]",
	Short: "Show parsed references and citations without any lookups",
	Long: `Parse extracts and parses a document's reference list and in-text
citations, printing the structured form of each. No database is
queried; use it to debug extraction before a verification run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

// ParseResponse is the response for the parse command.
type ParseResponse struct {
	References []reference.Parsed `json:"references"`
	Citations  []citation.InText  `json:"citations,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	if parseEntry != "" {
		parsed := refparse.Parse(reference.RawEntry{Text: parseEntry})
		if humanOutput {
			printParsedHuman(parsed)
			return nil
		}
		return outputJSON(parsed)
	}
	if len(args) == 0 {
		exitWithError(ExitError, "provide a document or --entry")
	}

	extractor, err := docext.ForFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	content, err := extractor.Extract(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	resp := ParseResponse{
		References: make([]reference.Parsed, len(content.References)),
		Citations:  citation.Extract(content.Paragraphs),
	}
	for i, raw := range content.References {
		resp.References[i] = refparse.Parse(raw)
	}

	if humanOutput {
		for _, p := range resp.References {
			printParsedHuman(p)
		}
		for _, c := range resp.Citations {
			fmt.Printf("cite %s\n", c.Raw)
		}
		return nil
	}
	return outputJSON(resp)
}

func printParsedHuman(p reference.Parsed) {
	fmt.Printf("#%d [%s] %s (%d)\n", p.Raw.Index+1, p.Type, truncateString(p.Title, summaryTitleMaxLen), p.Year)
	if len(p.Authors) > 0 {
		fmt.Printf("   authors: %v", p.Authors)
		if p.EtAl {
			fmt.Printf(" et al.")
		}
		fmt.Println()
	}
	if p.Container != "" {
		fmt.Printf("   in: %s\n", p.Container)
	}
	if p.DOI != "" {
		fmt.Printf("   doi: %s\n", p.DOI)
	}
	if p.Anomaly != "" {
		fmt.Printf("   anomaly: %s\n", p.Anomaly)
	}
}
