package assesscmd

import (
	"fmt"
	"os"

	"github.com/imagequality/nima/internal/assessment"
	"github.com/imagequality/nima/internal/config"
	"github.com/imagequality/nima/internal/report"
	"github.com/spf13/cobra"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	var resultsDir string
	var format string
	var modelType string
	var output string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize assessment results",
		Long: `Loads every result file in the results directory and prints a
report. Standard deviations are derived from each score distribution;
an overall score is computed for images scored by both models.

The parquet format writes to a file (--output) instead of stdout, for
loading into analysis tooling.`,
		Example: `  # Human-readable report
  nima report

  # CSV for spreadsheets
  nima report --format csv > scores.csv

  # Only technical results, as parquet
  nima report --model-type technical --format parquet --output scores.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := resultsDir
			if dir == "" {
				dir = config.C().ResultsDir
			}
			return executeReport(dir, format, modelType, output)
		},
	}

	cmd.Flags().StringVar(&resultsDir, "results", "", "Results directory (defaults to the configured one)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json, csv, yaml, or parquet")
	cmd.Flags().StringVar(&modelType, "model-type", "both", "Filter results: aesthetic, technical, or both")
	cmd.Flags().StringVar(&output, "output", "", "Output file (required for parquet)")

	return cmd
}

func executeReport(resultsDir, format, modelType, output string) error {
	switch modelType {
	case "aesthetic", "technical", "both":
	default:
		return fmt.Errorf("unsupported model type filter: %s", modelType)
	}

	results, err := assessment.LoadResultsDir(resultsDir)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no result files found in %s, run `nima assess` first", resultsDir)
	}

	// "both" is not a valid ModelType, which BuildRows treats as no filter.
	rows := report.BuildRows(results, assessment.ModelType(modelType))
	if len(rows) == 0 {
		return fmt.Errorf("no %s results found in %s", modelType, resultsDir)
	}

	switch format {
	case "text":
		return report.WriteText(os.Stdout, report.GroupByImage(rows))
	case "json":
		return report.WriteJSON(os.Stdout, rows)
	case "csv":
		return report.WriteCSV(os.Stdout, rows)
	case "yaml":
		return report.WriteYAML(os.Stdout, rows)
	case "parquet":
		if output == "" {
			return fmt.Errorf("--output is required with --format parquet")
		}
		if err := report.WriteParquet(output, rows); err != nil {
			return err
		}
		fmt.Printf("Wrote %d rows to %s\n", len(rows), output)
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
