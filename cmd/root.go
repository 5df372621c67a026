package cmd

import (
	"github.com/imagequality/nima/internal/assesscmd"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nima",
		Short: "Image quality assessment with NIMA models running in Docker",
		Long: `nima scores the aesthetic and technical quality of images using the
pretrained NIMA MobileNet models, executed inside a pinned TensorFlow
Docker container.

Each image receives a 1-10 score distribution over ten quality buckets;
the weighted mean of that distribution is the image's quality score.
Results are written as one JSON file per image and model type.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(assesscmd.NewSetupCmd())
	cmd.AddCommand(assesscmd.NewAssessCmd())
	cmd.AddCommand(assesscmd.NewReportCmd())
	cmd.AddCommand(assesscmd.NewVisualizeCmd())
	cmd.AddCommand(assesscmd.NewRunCmd())

	return cmd
}
