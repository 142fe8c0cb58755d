package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	DefaultOutputFolder      = "cypress/cucumber-json"
	DefaultFileSuffix        = ".cucumber"
	DefaultScreenshotsFolder = "cypress/screenshots"
	DefaultVideosFolder      = "cypress/videos"
	DefaultIntegrationFolder = "cypress/integration"
)

// Config controls report generation and evidence embedding
type Config struct {
	// OutputFolder is where cucumber json files are written
	OutputFolder string `yaml:"outputFolder" json:"outputFolder"`

	// FilePrefix and FileSuffix wrap the feature base name of the output file
	FilePrefix string `yaml:"filePrefix" json:"filePrefix"`
	FileSuffix string `yaml:"fileSuffix" json:"fileSuffix"`

	// Generate enables writing the report after the suite
	Generate bool `yaml:"generate" json:"generate"`

	ScreenshotsFolder string `yaml:"screenshotsFolder" json:"screenshotsFolder"`
	VideosFolder      string `yaml:"videosFolder" json:"videosFolder"`

	// IntegrationFolder is the part of a feature uri that precedes the feature folder
	IntegrationFolder string `yaml:"integrationFolder" json:"integrationFolder"`

	EmbedEvidence bool `yaml:"embedEvidence" json:"embedEvidence"`

	// Tags is a cucumber tag expression selecting the scenarios to run
	Tags string `yaml:"tags" json:"tags"`
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		OutputFolder:      DefaultOutputFolder,
		FileSuffix:        DefaultFileSuffix,
		ScreenshotsFolder: DefaultScreenshotsFolder,
		VideosFolder:      DefaultVideosFolder,
		IntegrationFolder: DefaultIntegrationFolder,
		EmbedEvidence:     true,
	}
}

// Parse decodes YAML on top of the defaults
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if len(data) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal cucumber json config: %w", err)
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// withDefaults puts the default back into every folder or suffix set to an
// empty string
func (c Config) withDefaults() Config {
	d := Default()
	for _, f := range []struct {
		value    *string
		fallback string
	}{
		{&c.OutputFolder, d.OutputFolder},
		{&c.FileSuffix, d.FileSuffix},
		{&c.ScreenshotsFolder, d.ScreenshotsFolder},
		{&c.VideosFolder, d.VideosFolder},
		{&c.IntegrationFolder, d.IntegrationFolder},
	} {
		if *f.value == "" {
			*f.value = f.fallback
		}
	}
	return c
}

// Load reads a YAML config file. A missing file yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// FromEnv applies environment overrides
func (c Config) FromEnv() (Config, error) {
	if v := os.Getenv("CUCUMBER_JSON_OUTPUT_FOLDER"); v != "" {
		c.OutputFolder = v
	}
	if v := os.Getenv("CUCUMBER_JSON_GENERATE"); v != "" {
		generate, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CUCUMBER_JSON_GENERATE %q: %w", v, err)
		}
		c.Generate = generate
	}
	if v, ok := os.LookupEnv("CUCUMBER_TAGS"); ok {
		c.Tags = v
	}
	return c, c.Validate()
}

// Validate checks that required folders are set
func (c Config) Validate() error {
	if c.OutputFolder == "" {
		return fmt.Errorf("outputFolder must not be empty")
	}
	if c.EmbedEvidence && (c.ScreenshotsFolder == "" || c.VideosFolder == "") {
		return fmt.Errorf("screenshotsFolder and videosFolder are required when embedEvidence is set")
	}
	return nil
}
