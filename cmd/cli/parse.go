package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/catalogiq/catalog-service/internal/types"
	"github.com/catalogiq/catalog-service/internal/writer"
)

var (
	parseOutput string
	parseOut    string
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a supplier catalog file into the standardized schema",
	Long: `Parse a single supplier catalog file. The file format is detected from
the extension and content, columns are mapped to the standardized schema
automatically, and rows are cleaned and normalized.

Output formats: table (default, summary to stdout), json (full result),
csv (standardized records with UTF-8 BOM).`,
	Example: `  catalog-service parse ./catalogs/acme_pricelist.xlsx
  catalog-service parse ./catalogs/supplier.csv --output json
  catalog-service parse ./catalogs/supplier.csv --output csv --out normalized.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&parseOutput, "output", "table", "Output format: table, json, or csv")
	parseCmd.Flags().StringVar(&parseOut, "out", "", "Write output to file instead of stdout")
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	p := newPipeline()
	result, err := p.ParseFile(context.Background(), filePath, content)
	if err != nil {
		return err
	}

	out := os.Stdout
	if parseOut != "" {
		f, err := os.Create(parseOut)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch parseOutput {
	case "json":
		return writer.WriteJSON(out, result)
	case "csv":
		if !result.Success {
			return fmt.Errorf("parse failed: %s", result.Error)
		}
		return writer.WriteCSV(out, result.Records)
	default:
		printSummary(result)
		if !result.Success {
			return fmt.Errorf("parse failed: %s", result.Error)
		}
		return nil
	}
}

func printSummary(result *types.ParseResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Success:\t%v\n", result.Success)
	fmt.Fprintf(w, "File kind:\t%s\n", result.FileKind)
	fmt.Fprintf(w, "Total rows:\t%d\n", result.TotalRows)
	fmt.Fprintf(w, "Valid rows:\t%d\n", result.ValidRows)
	fmt.Fprintf(w, "Row errors:\t%d\n", len(result.RowErrors))
	if result.Manufacturer != "" {
		fmt.Fprintf(w, "Manufacturer:\t%s\n", result.Manufacturer)
	}
	if result.Error != "" {
		fmt.Fprintf(w, "Error:\t%s\n", result.Error)
	}

	if len(result.Mapping) > 0 {
		fmt.Fprintln(w, "\nColumn mapping:")
		for field, header := range result.Mapping {
			fmt.Fprintf(w, "  %s\t<- %s\n", field, header)
		}
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "Warning:\t%s\n", warning.Message)
	}
}
