package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/catalogiq/catalog-service/internal/schema"
)

// mapCmd represents the map command
var mapCmd = &cobra.Command{
	Use:   "map <file>",
	Short: "Show the detected column mapping without transforming rows",
	Long: `Detect how source columns map to the standardized schema and print
each mapping with its confidence and the detection pass that produced
it. Useful for checking how a new supplier layout will be interpreted
before running a full parse.`,
	Example: `  catalog-service map ./catalogs/new_supplier.xlsx`,
	Args:    cobra.ExactArgs(1),
	RunE:    runMap,
}

func init() {
	rootCmd.AddCommand(mapCmd)
}

func runMap(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	result, err := newPipeline().MapFile(context.Background(), filePath, content)
	if err != nil {
		return err
	}
	if len(result) == 0 {
		fmt.Println("No columns could be mapped.")
		return nil
	}

	fields := make([]schema.Field, 0, len(result))
	for field := range result {
		fields = append(fields, field)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tSOURCE COLUMN\tCONFIDENCE\tPASS")
	for _, field := range fields {
		candidate := result[field]
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", field, candidate.Header, candidate.Confidence, candidate.Pass)
	}
	return w.Flush()
}
