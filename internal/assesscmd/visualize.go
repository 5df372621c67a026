package assesscmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/imagequality/nima/internal/assessment"
	"github.com/imagequality/nima/internal/config"
	"github.com/imagequality/nima/internal/visualize"
	"github.com/spf13/cobra"
)

// NewVisualizeCmd creates the visualize command.
func NewVisualizeCmd() *cobra.Command {
	var resultsDir string
	var imageDir string
	var custom bool

	cmd := &cobra.Command{
		Use:   "visualize",
		Short: "Render score distribution charts as PNG files",
		Long: `For each image with assessment results, renders a PNG combining a
thumbnail of the image with bar charts of its score distributions. The
charts mark the weighted mean with a vertical line. Output files are
written next to the results as <image>_scores.png.`,
		Example: `  # Visualize results for the sample images
  nima visualize

  # Visualize results for your own images
  nima visualize --custom`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.C()

			rDir := resultsDir
			if rDir == "" {
				rDir = cfg.ResultsDir
			}

			iDir := imageDir
			if iDir == "" {
				iDir = cfg.SampleDir
				if custom {
					iDir = cfg.CustomDir
				}
			}

			return executeVisualize(rDir, iDir)
		},
	}

	cmd.Flags().StringVar(&resultsDir, "results", "", "Results directory (defaults to the configured one)")
	cmd.Flags().StringVar(&imageDir, "image-dir", "", "Directory containing the source images")
	cmd.Flags().BoolVar(&custom, "custom", false, "Look for source images in my_images/ instead of sample_images/")

	return cmd
}

func executeVisualize(resultsDir, imageDir string) error {
	results, err := assessment.LoadResultsDir(resultsDir)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no result files found in %s, run `nima assess` first", resultsDir)
	}

	type imageScores struct {
		aesthetic []float64
		technical []float64
	}
	byImage := make(map[string]*imageScores)
	var order []string
	for _, result := range results {
		scores, ok := byImage[result.Image]
		if !ok {
			scores = &imageScores{}
			byImage[result.Image] = scores
			order = append(order, result.Image)
		}
		switch result.ModelType {
		case assessment.ModelAesthetic:
			scores.aesthetic = result.Scores
		case assessment.ModelTechnical:
			scores.technical = result.Scores
		}
	}

	rendered := 0
	for _, name := range order {
		imagePath := filepath.Join(imageDir, name)
		if _, err := os.Stat(imagePath); err != nil {
			slog.Warn("Source image not found, skipping visualization", "image", name, "dir", imageDir)
			continue
		}

		slog.Info("Rendering visualization", "image", name)
		scores := byImage[name]
		page, err := visualize.RenderImageScores(imagePath, scores.aesthetic, scores.technical)
		if err != nil {
			slog.Warn("Failed to render visualization", "image", name, "error", err)
			continue
		}

		base := strings.TrimSuffix(name, filepath.Ext(name))
		outputPath := filepath.Join(resultsDir, base+"_scores.png")
		if err := visualize.Save(page, outputPath); err != nil {
			slog.Warn("Failed to save visualization", "image", name, "error", err)
			continue
		}
		rendered++
	}

	if rendered == 0 {
		return fmt.Errorf("no visualizations rendered; are the source images still in %s?", imageDir)
	}

	fmt.Printf("\nRendered %d visualization(s) in %s\n", rendered, resultsDir)
	return nil
}
