package assesscmd

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/imagequality/nima/internal/assessment"
	"github.com/imagequality/nima/internal/config"
	"github.com/imagequality/nima/internal/docker"
	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command, a one-shot driver over setup,
// assess and visualize.
func NewRunCmd() *cobra.Command {
	var setup bool
	var skipVisualization bool
	var aesthetic bool
	var technical bool
	var custom bool
	var imageDir string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the whole pipeline: setup, assess, visualize",
		Long: `Drives the whole assessment pipeline in one invocation: optionally
runs setup first, then scores the images, then renders visualizations
unless --skip-visualization is given.`,
		Example: `  # First run: download everything, then assess and visualize
  nima run --setup

  # Assess your own images with the technical model, no charts
  nima run --technical --custom --skip-visualization`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := docker.Available(); err != nil {
				return err
			}

			cfg := config.C()

			if setup {
				if err := executeSetup(cfg); err != nil {
					return err
				}
			}

			dir := sourceDir(cfg, custom, imageDir)

			return executePipeline(cmd.Context(), cfg, dir, assessOptions{
				ImageDir:    dir,
				ModelTypes:  assessment.ModelTypes(aesthetic, technical),
				Concurrency: concurrency,
			}, skipVisualization)
		},
	}

	cmd.Flags().BoolVar(&setup, "setup", false, "Run setup first (download weights and sample images)")
	cmd.Flags().BoolVar(&skipVisualization, "skip-visualization", false, "Skip rendering score charts")
	cmd.Flags().BoolVar(&aesthetic, "aesthetic", false, "Use the aesthetic model only")
	cmd.Flags().BoolVar(&technical, "technical", false, "Use the technical model only")
	cmd.Flags().BoolVar(&custom, "custom", false, "Assess images in my_images/ instead of sample_images/")
	cmd.Flags().StringVar(&imageDir, "image-dir", "", "Explicit image directory (overrides --custom)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "Number of containers to run at once")

	return cmd
}

func executePipeline(ctx context.Context, cfg config.Config, imageDir string, opts assessOptions, skipVisualization bool) error {
	summary, err := executeAssess(ctx, cfg, docker.NewRunner(), opts)
	if err != nil {
		return err
	}

	if resultFiles, _ := filepath.Glob(filepath.Join(cfg.ResultsDir, "*_results.json")); len(resultFiles) == 0 {
		slog.Warn("No result files were generated, the assessment may have failed")
	}

	if skipVisualization {
		return nil
	}
	if summary.Succeeded == 0 {
		slog.Warn("Skipping visualization, no successful assessments")
		return nil
	}

	return executeVisualize(cfg.ResultsDir, imageDir)
}
