package assesscmd

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/imagequality/nima/internal/config"
	"github.com/imagequality/nima/internal/images"
	"github.com/imagequality/nima/internal/predict"
	"github.com/spf13/cobra"
)

// NewSetupCmd creates the setup command.
func NewSetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Download model weights and sample images",
		Long: `Prepares the working directory for assessment runs: creates the
image, model and results directories, downloads the pretrained NIMA
MobileNet weight files, downloads a handful of sample images, and
installs the container-side prediction script.

Already-downloaded files are left alone, so setup is safe to re-run.`,
		Example: `  nima setup`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeSetup(config.C())
		},
	}

	return cmd
}

func executeSetup(cfg config.Config) error {
	slog.Info("Setting up working directory")

	for _, dir := range []string{cfg.SampleDir, cfg.CustomDir, cfg.ModelsDir, cfg.ResultsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fetcher := images.NewFetcher(time.Duration(cfg.HTTPTimeoutSeconds) * time.Second)

	weights := map[string]string{
		cfg.AestheticWeights: cfg.AestheticWeightsURL,
		cfg.TechnicalWeights: cfg.TechnicalWeightsURL,
	}
	for name, weightsURL := range weights {
		dest := filepath.Join(cfg.ModelsDir, name)
		slog.Info("Fetching model weights", "file", name)
		downloaded, err := fetcher.DownloadIfMissing(weightsURL, dest)
		if err != nil {
			return fmt.Errorf("failed to download weights %s: %w", name, err)
		}
		if !downloaded {
			slog.Info("Weights already present", "file", name)
		}
	}

	for i, imageURL := range cfg.SampleImageURLs {
		name := sampleImageName(imageURL, i)
		dest := filepath.Join(cfg.SampleDir, name)
		slog.Info("Fetching sample image", "file", name)
		if _, err := fetcher.DownloadIfMissing(imageURL, dest); err != nil {
			// Sample images are a convenience, not a requirement.
			slog.Warn("Failed to download sample image", "url", imageURL, "error", err)
		}
	}

	if err := predict.WriteFiles(cfg.ModelsDir); err != nil {
		return err
	}

	fmt.Println("\nSetup complete!")
	fmt.Printf("  Sample images: %s\n", cfg.SampleDir)
	fmt.Printf("  Model weights: %s\n", cfg.ModelsDir)
	fmt.Printf("\nScore the samples with:\n")
	fmt.Printf("  nima assess\n")

	return nil
}

// sampleImageName derives a numbered local file name for a sample
// image URL, keeping the URL's extension when it is a supported image
// format. Numbered names avoid collisions between URLs whose paths end
// in the same segment.
func sampleImageName(rawURL string, index int) string {
	ext := ".jpg"
	if u, err := url.Parse(rawURL); err == nil {
		if e := strings.ToLower(path.Ext(u.Path)); e != "" && images.Supported("x"+e) {
			ext = e
		}
	}
	return fmt.Sprintf("sample_%d%s", index+1, ext)
}
