package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "cypress/cucumber-json", cfg.OutputFolder)
	assert.Equal(t, "", cfg.FilePrefix)
	assert.Equal(t, ".cucumber", cfg.FileSuffix)
	assert.False(t, cfg.Generate)
	assert.True(t, cfg.EmbedEvidence)
	require.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
outputFolder: reports/json
filePrefix: run-
generate: true
tags: "@smoke and not @wip"
`))
	require.NoError(t, err)
	assert.Equal(t, "reports/json", cfg.OutputFolder)
	assert.Equal(t, "run-", cfg.FilePrefix)
	assert.Equal(t, ".cucumber", cfg.FileSuffix, "unset keys keep defaults")
	assert.True(t, cfg.Generate)
	assert.Equal(t, "@smoke and not @wip", cfg.Tags)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("outputFolder: [unterminated"))
	assert.Error(t, err)
}

func TestParseEmptyValuesFallBackToDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
outputFolder: ""
fileSuffix: ""
screenshotsFolder: ""
filePrefix: ""
`))
	require.NoError(t, err)
	assert.Equal(t, DefaultOutputFolder, cfg.OutputFolder)
	assert.Equal(t, DefaultFileSuffix, cfg.FileSuffix)
	assert.Equal(t, DefaultScreenshotsFolder, cfg.ScreenshotsFolder)
	assert.Equal(t, "", cfg.FilePrefix)
}

func TestValidateRequiresOutputFolder(t *testing.T) {
	cfg := Default()
	cfg.OutputFolder = ""
	assert.ErrorContains(t, cfg.Validate(), "outputFolder")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(dir, "cucumber.yml")
	require.NoError(t, os.WriteFile(path, []byte("fileSuffix: .json-report\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, ".json-report", cfg.FileSuffix)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CUCUMBER_JSON_OUTPUT_FOLDER", "out")
	t.Setenv("CUCUMBER_JSON_GENERATE", "true")
	t.Setenv("CUCUMBER_TAGS", "@focus")

	cfg, err := Default().FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.OutputFolder)
	assert.True(t, cfg.Generate)
	assert.Equal(t, "@focus", cfg.Tags)

	t.Setenv("CUCUMBER_JSON_GENERATE", "sometimes")
	_, err = Default().FromEnv()
	assert.ErrorContains(t, err, "CUCUMBER_JSON_GENERATE")
}
