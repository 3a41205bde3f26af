package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable holding an optional YAML config path.
const EnvConfigPath = "HEARTVIZ_CONFIG"

// HeartDiseaseFeatures is the column layout of UCI dataset 45.
var HeartDiseaseFeatures = []string{
	"age", "sex", "cp", "trestbps", "chol", "fbs", "restecg",
	"thalach", "exang", "oldpeak", "slope", "ca", "thal",
}

type Config struct {
	LogLevel string        `yaml:"log_level"`
	Dataset  DatasetConfig `yaml:"dataset"`
	Plot     PlotConfig    `yaml:"plot"`
	Window   WindowConfig  `yaml:"window"`
}

type DatasetConfig struct {
	ID       int           `yaml:"id"`
	APIURL   string        `yaml:"api_url"`
	File     string        `yaml:"file"`
	Timeout  time.Duration `yaml:"timeout"`
	Features []string      `yaml:"features"`
	Targets  []string      `yaml:"targets"`
}

type PlotConfig struct {
	Renderer string `yaml:"renderer"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
}

type WindowConfig struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

func Default() Config {
	return Config{
		LogLevel: "info",
		Dataset: DatasetConfig{
			ID:       45,
			APIURL:   "https://archive.ics.uci.edu/api/dataset",
			Timeout:  30 * time.Second,
			Features: append([]string(nil), HeartDiseaseFeatures...),
			Targets:  []string{"num"},
		},
		Plot: PlotConfig{
			Renderer: "gonum",
			Width:    750,
			Height:   500,
		},
		Window: WindowConfig{
			Width:  820,
			Height: 520,
		},
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// FromEnv loads the file named by HEARTVIZ_CONFIG, if any.
func FromEnv() (Config, error) {
	return Load(os.Getenv(EnvConfigPath))
}

func (c Config) Validate() error {
	if c.Dataset.File == "" && c.Dataset.APIURL == "" {
		return fmt.Errorf("dataset: either file or api_url is required")
	}
	if c.Dataset.File == "" && c.Dataset.ID <= 0 {
		return fmt.Errorf("dataset: invalid id %d", c.Dataset.ID)
	}
	if len(c.Dataset.Targets) == 0 {
		return fmt.Errorf("dataset: at least one target column is required")
	}
	if c.Dataset.Timeout <= 0 {
		return fmt.Errorf("dataset: timeout must be positive")
	}
	switch c.Plot.Renderer {
	case "gonum", "gochart":
	default:
		return fmt.Errorf("plot: unknown renderer %q", c.Plot.Renderer)
	}
	if c.Plot.Width <= 0 || c.Plot.Height <= 0 {
		return fmt.Errorf("plot: invalid size %dx%d", c.Plot.Width, c.Plot.Height)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window: invalid size %.0fx%.0f", c.Window.Width, c.Window.Height)
	}
	return nil
}
