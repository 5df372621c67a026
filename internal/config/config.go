// Package config holds the runtime configuration for the assessment
// pipeline. Defaults are compiled in; an optional config.toml in the
// working directory overrides them, and a couple of env vars override
// both.
package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	DockerImage string `toml:"docker_image"`

	SampleDir  string `toml:"sample_dir"`
	CustomDir  string `toml:"custom_dir"`
	ModelsDir  string `toml:"models_dir"`
	ResultsDir string `toml:"results_dir"`

	AestheticWeights    string `toml:"aesthetic_weights"`
	TechnicalWeights    string `toml:"technical_weights"`
	AestheticWeightsURL string `toml:"aesthetic_weights_url"`
	TechnicalWeightsURL string `toml:"technical_weights_url"`

	SampleImageURLs []string `toml:"sample_image_urls"`

	HTTPTimeoutSeconds int `toml:"http_timeout_seconds"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		DockerImage: "tensorflow/tensorflow:2.9.1",

		SampleDir:  "sample_images",
		CustomDir:  "my_images",
		ModelsDir:  "models",
		ResultsDir: "results",

		AestheticWeights:    "weights_mobilenet_aesthetic_0.07.hdf5",
		TechnicalWeights:    "weights_mobilenet_technical_0.11.hdf5",
		AestheticWeightsURL: "https://github.com/idealo/image-quality-assessment/raw/master/models/MobileNet/weights_mobilenet_aesthetic_0.07.hdf5",
		TechnicalWeightsURL: "https://github.com/idealo/image-quality-assessment/raw/master/models/MobileNet/weights_mobilenet_technical_0.11.hdf5",

		SampleImageURLs: []string{
			"https://picsum.photos/id/1011/1280/853.jpg",
			"https://picsum.photos/id/1015/1280/853.jpg",
			"https://picsum.photos/id/1025/1280/853.jpg",
			"https://picsum.photos/id/1039/1280/853.jpg",
			"https://picsum.photos/id/1043/1280/853.jpg",
		},

		HTTPTimeoutSeconds: 120,
	}
}

// Load builds a Config from defaults, an optional TOML file, and env
// overrides, in that precedence order.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if v := os.Getenv("NIMA_DOCKER_IMAGE"); v != "" {
		cfg.DockerImage = v
	}
	if v := os.Getenv("NIMA_RESULTS_DIR"); v != "" {
		cfg.ResultsDir = v
	}

	return cfg, nil
}

var (
	cfg      Config
	loadOnce sync.Once
)

// C returns the process-wide configuration, loading config.toml from
// the working directory on first use.
func C() Config {
	loadOnce.Do(func() {
		var err error
		cfg, err = Load("config.toml")
		if err != nil {
			panic(err)
		}
	})
	return cfg
}

// WeightsFile returns the weight file name for a model type name
// ("aesthetic" or "technical").
func (c Config) WeightsFile(modelType string) string {
	if modelType == "technical" {
		return c.TechnicalWeights
	}
	return c.AestheticWeights
}
