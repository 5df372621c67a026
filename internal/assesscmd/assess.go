package assesscmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/imagequality/nima/internal/assessment"
	"github.com/imagequality/nima/internal/config"
	"github.com/imagequality/nima/internal/docker"
	"github.com/imagequality/nima/internal/images"
	"github.com/imagequality/nima/internal/predict"
	"github.com/imagequality/nima/internal/report"
	"github.com/spf13/cobra"
)

// NewAssessCmd creates the assess command.
func NewAssessCmd() *cobra.Command {
	var aesthetic bool
	var technical bool
	var custom bool
	var imageDir string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Score images with the NIMA models in a Docker container",
		Long: `Scores every supported image (.jpg, .jpeg, .png) in the source
directory with the selected NIMA models. Each (image, model) pair runs
in its own disposable container; the container writes one JSON result
file into the results directory.

With no model flag both models are used. The source directory defaults
to sample_images/; --custom switches it to my_images/.`,
		Example: `  # Score the bundled sample images with both models
  nima assess

  # Aesthetic model only, against your own images
  nima assess --aesthetic --custom

  # Explicit directory, four containers at a time
  nima assess --image-dir ./shoot --concurrency 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := docker.Available(); err != nil {
				return err
			}

			cfg := config.C()
			dir := sourceDir(cfg, custom, imageDir)

			opts := assessOptions{
				ImageDir:    dir,
				ModelTypes:  assessment.ModelTypes(aesthetic, technical),
				Concurrency: concurrency,
			}

			_, err := executeAssess(cmd.Context(), cfg, docker.NewRunner(), opts)
			return err
		},
	}

	cmd.Flags().BoolVar(&aesthetic, "aesthetic", false, "Use the aesthetic model only")
	cmd.Flags().BoolVar(&technical, "technical", false, "Use the technical model only")
	cmd.Flags().BoolVar(&custom, "custom", false, "Assess images in my_images/ instead of sample_images/")
	cmd.Flags().StringVar(&imageDir, "image-dir", "", "Explicit image directory (overrides --custom)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "Number of containers to run at once")

	return cmd
}

// sourceDir resolves the image source directory from the flags:
// an explicit --image-dir wins, then --custom, then the sample dir.
func sourceDir(cfg config.Config, custom bool, override string) string {
	if override != "" {
		return override
	}
	if custom {
		return cfg.CustomDir
	}
	return cfg.SampleDir
}

type assessOptions struct {
	ImageDir    string
	ModelTypes  []assessment.ModelType
	Concurrency int
}

type assessJob struct {
	Image     string
	ModelType assessment.ModelType
}

type assessOutcome struct {
	Job    assessJob
	Result *assessment.Result
	Err    error
}

func executeAssess(ctx context.Context, cfg config.Config, runner docker.Runner, opts assessOptions) (*assessment.RunSummary, error) {
	slog.Info("Starting assessment run", "image_dir", opts.ImageDir, "models", opts.ModelTypes, "docker_image", cfg.DockerImage)

	names, err := images.Discover(opts.ImageDir)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no supported images (.jpg, .jpeg, .png) found in %s", opts.ImageDir)
	}
	slog.Info("Discovered images", "count", len(names))

	for _, mt := range opts.ModelTypes {
		weights := filepath.Join(cfg.ModelsDir, cfg.WeightsFile(string(mt)))
		if _, err := os.Stat(weights); err != nil {
			return nil, fmt.Errorf("weights file %s not found, run `nima setup` first", weights)
		}
	}

	if err := os.MkdirAll(cfg.ResultsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}

	// The container runs the script from the mounted models directory;
	// reinstall it so stale copies never linger.
	if err := predict.WriteFiles(cfg.ModelsDir); err != nil {
		return nil, err
	}

	imageDirAbs, err := filepath.Abs(opts.ImageDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve image directory: %w", err)
	}
	modelsDirAbs, err := filepath.Abs(cfg.ModelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve models directory: %w", err)
	}
	resultsDirAbs, err := filepath.Abs(cfg.ResultsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve results directory: %w", err)
	}

	var jobs []assessJob
	for _, name := range names {
		for _, mt := range opts.ModelTypes {
			jobs = append(jobs, assessJob{Image: name, ModelType: mt})
		}
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	slog.Info("Processing images", "invocations", len(jobs), "concurrency", concurrency)

	started := time.Now()

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)
	outcomes := make(chan assessOutcome, len(jobs))

	for i, job := range jobs {
		wg.Add(1)
		go func(idx int, job assessJob) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			slog.Info("Assessing image", "image", job.Image, "model", job.ModelType, "progress", fmt.Sprintf("%d/%d", idx+1, len(jobs)))
			outcomes <- runAssessment(ctx, cfg, runner, job, imageDirAbs, modelsDirAbs, resultsDirAbs)
		}(i, job)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var results []assessment.Result
	var failures []report.RunFailure
	for outcome := range outcomes {
		if outcome.Err != nil {
			slog.Warn("Assessment failed", "image", outcome.Job.Image, "model", outcome.Job.ModelType, "error", outcome.Err)
			failures = append(failures, report.RunFailure{
				Image:     outcome.Job.Image,
				ModelType: string(outcome.Job.ModelType),
				Error:     outcome.Err.Error(),
			})
			continue
		}
		results = append(results, *outcome.Result)
	}

	sort.Slice(failures, func(i, j int) bool {
		if failures[i].Image != failures[j].Image {
			return failures[i].Image < failures[j].Image
		}
		return failures[i].ModelType < failures[j].ModelType
	})

	summary := assessment.Summarize(results, len(failures))

	record := report.RunRecord{
		Config: report.RunConfig{
			DockerImage: cfg.DockerImage,
			ImageDir:    opts.ImageDir,
			ResultsDir:  cfg.ResultsDir,
			ModelTypes:  modelTypeNames(opts.ModelTypes),
			Concurrency: concurrency,
		},
		Summary:  summary,
		Failures: failures,
	}
	recordPath, err := report.SaveRunRecord(record, cfg.ResultsDir)
	if err != nil {
		slog.Warn("Failed to save run record", "error", err)
	} else {
		slog.Info("Saved run record", "path", recordPath)
	}

	printRunSummary(summary, time.Since(started))

	if summary.Succeeded == 0 {
		return summary, fmt.Errorf("all %d assessments failed", summary.Failed)
	}

	fmt.Printf("\nResults saved to: %s\n", cfg.ResultsDir)
	fmt.Printf("\nGenerate a detailed report with:\n")
	fmt.Printf("  nima report\n")

	return summary, nil
}

func runAssessment(ctx context.Context, cfg config.Config, runner docker.Runner, job assessJob, imageDir, modelsDir, resultsDir string) assessOutcome {
	inv := docker.Invocation{
		Image: cfg.DockerImage,
		Mounts: []docker.Mount{
			{Host: imageDir, Container: "/images"},
			{Host: modelsDir, Container: "/models"},
			{Host: resultsDir, Container: "/results"},
		},
		Cmd: []string{
			"python", "/models/" + predict.ScriptName,
			"--image-path", "/images/" + job.Image,
			"--weights-file", "/models/" + cfg.WeightsFile(string(job.ModelType)),
			"--model-type", string(job.ModelType),
		},
	}

	if _, err := runner.Run(ctx, inv.Args()); err != nil {
		return assessOutcome{Job: job, Err: fmt.Errorf("container run failed: %w", err)}
	}

	resultPath := filepath.Join(resultsDir, assessment.ResultFilename(job.Image, job.ModelType))
	result, err := assessment.LoadResult(resultPath)
	if err != nil {
		return assessOutcome{Job: job, Err: fmt.Errorf("container produced no usable result: %w", err)}
	}

	return assessOutcome{Job: job, Result: result}
}

func modelTypeNames(types []assessment.ModelType) []string {
	names := make([]string, len(types))
	for i, mt := range types {
		names[i] = string(mt)
	}
	return names
}

func printRunSummary(summary *assessment.RunSummary, elapsed time.Duration) {
	fmt.Println("\n========================================")
	fmt.Println("Assessment Summary")
	fmt.Println("========================================")
	fmt.Printf("Invocations:  %d\n", summary.TotalInvocations)
	fmt.Printf("Succeeded:    %d\n", summary.Succeeded)
	fmt.Printf("Failed:       %d\n", summary.Failed)
	fmt.Printf("Elapsed:      %s\n", elapsed.Round(time.Second))

	for _, mt := range []assessment.ModelType{assessment.ModelAesthetic, assessment.ModelTechnical} {
		ms, ok := summary.ByModel[mt]
		if !ok {
			continue
		}
		fmt.Println()
		fmt.Printf("%s model:\n", mt)
		fmt.Printf("  Assessed:   %d\n", ms.Assessed)
		fmt.Printf("  Average:    %.2f/10\n", ms.AverageScore)
		fmt.Printf("  Median:     %.2f/10\n", ms.MedianScore)
		fmt.Printf("  Min:        %.2f/10\n", ms.MinScore)
		fmt.Printf("  Max:        %.2f/10\n", ms.MaxScore)
	}
	fmt.Println("========================================")
}
