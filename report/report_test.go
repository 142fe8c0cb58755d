package report

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thelinuxer/cypress-cucumber-preprocessor/config"
	"github.com/thelinuxer/cypress-cucumber-preprocessor/shared"
)

type staticSource struct {
	feature *shared.Feature
	runs    []shared.ScenarioRun
}

func (s staticSource) Feature() *shared.Feature    { return s.feature }
func (s staticSource) Runs() []shared.ScenarioRun { return s.runs }

func sampleSource() staticSource {
	section := &shared.Section{Keyword: "Scenario Outline", Name: "Valid login", Location: &shared.Location{Line: 7}}
	steps := []shared.IndexedStep{
		{Step: shared.Step{Keyword: "Given ", Text: "I am on the login page", Location: shared.Location{Line: 4}}, Index: 0},
		{Step: shared.Step{
			Keyword:   "When ",
			Text:      "I login as alice",
			Location:  shared.Location{Line: 8},
			DocString: &shared.DocString{Content: "hello", Location: shared.Location{Line: 9}},
			DataTable: [][]string{{"a", "b"}},
		}, Index: 1},
		{Step: shared.Step{Keyword: "Then ", Text: "I see the dashboard", Location: shared.Location{Line: 12}}, Index: 2},
	}
	return staticSource{
		feature: &shared.Feature{URI: "cypress/integration/auth/Login.feature", Keyword: "Feature", Name: "Login Page", Tags: []string{"@auth"}, Location: shared.Location{Line: 2}},
		runs: []shared.ScenarioRun{{
			Scenario: shared.ConcreteScenario{
				Name:    "Valid login (example #1)",
				Section: section,
				Tags:    []string{"@auth"},
				Steps:   steps,
				Example: &shared.Location{Line: 15},
			},
			Steps: steps,
			Results: []shared.StepResult{
				{Status: shared.StatusPassed, Duration: 5 * time.Millisecond},
				{Status: shared.StatusFailed, Duration: time.Millisecond, Error: errors.New("element not found")},
				{Status: shared.StatusSkipped},
			},
			Status: shared.StatusFailed,
		}},
	}
}

func TestGenerate(t *testing.T) {
	tree := Generate(sampleSource())

	require.Len(t, tree, 1)
	f := tree[0]
	assert.Equal(t, "login-page", f.ID)
	assert.Equal(t, "Feature", f.Keyword)
	assert.Equal(t, 2, f.Line)
	assert.Equal(t, []Tag{{Name: "@auth"}}, f.Tags)

	require.Len(t, f.Elements, 1)
	el := f.Elements[0]
	assert.Equal(t, "login-page;valid-login-(example-#1)", el.ID)
	assert.Equal(t, "Scenario Outline", el.Keyword)
	assert.Equal(t, 15, el.Line, "example rows report their own line")
	assert.Equal(t, "scenario", el.Type)

	require.Len(t, el.Steps, 3)
	assert.Equal(t, "passed", el.Steps[0].Result.Status)
	require.NotNil(t, el.Steps[0].Result.Duration)
	assert.Equal(t, int64(5*time.Millisecond), *el.Steps[0].Result.Duration)
	assert.Equal(t, "failed", el.Steps[1].Result.Status)
	assert.Equal(t, "element not found", el.Steps[1].Result.Error)
	assert.Equal(t, &DocString{Value: "hello", Line: 9}, el.Steps[1].DocString)
	assert.Equal(t, []Row{{Cells: []string{"a", "b"}}}, el.Steps[1].Rows)
	assert.Equal(t, "skipped", el.Steps[2].Result.Status)
	assert.Nil(t, el.Steps[2].Result.Duration)
}

func TestGenerateWithoutFeature(t *testing.T) {
	assert.Empty(t, Generate(staticSource{}))
}

func TestParseScreenshotName(t *testing.T) {
	tests := []struct {
		file string
		want ScreenshotName
	}{
		{"Login -- Valid login (failed).png", ScreenshotName{Describe: "Login", Scenario: "Valid login", Failed: true}},
		{"Login -- Valid login (example #2) (failed).png", ScreenshotName{Describe: "Login", Scenario: "Valid login (example #2)", Failed: true}},
		{"Login -- Valid login (failed) (attempt 2).png", ScreenshotName{Describe: "Login", Scenario: "Valid login", Failed: true, Attempt: 2}},
		{"dir/Login -- manual shot.png", ScreenshotName{Describe: "Login", Scenario: "manual shot"}},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, err := ParseScreenshotName(tt.file)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"screenshot.png", "Login -- .png"} {
		_, err := ParseScreenshotName(bad)
		assert.ErrorIs(t, err, ErrNoMatch, bad)
	}
}

func TestFeatureFolderAndOutputPath(t *testing.T) {
	tree := Generate(sampleSource())
	assert.Equal(t, "/auth/", FeatureFolder(tree, "cypress/integration"))
	assert.Equal(t, "", FeatureFolder(tree, "elsewhere"))
	assert.Equal(t, "", FeatureFolder(nil, "cypress/integration"))

	cfg := config.Default()
	assert.Equal(t, filepath.Join("cypress/cucumber-json/auth", "Login.cucumber.json"), OutputPath(cfg, tree))

	cfg.FilePrefix = "ci-"
	cfg.FileSuffix = ""
	assert.Equal(t, filepath.Join("cypress/cucumber-json/auth", "ci-Login.json"), OutputPath(cfg, tree))

	assert.Equal(t, filepath.Join("cypress/cucumber-json", "ci-empty.json"), OutputPath(cfg, nil))
}

func TestWriteAndReadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "out.json")
	tree := Generate(sampleSource())

	require.NoError(t, WriteFile(file, tree))
	got, err := ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, tree[0].Elements[0].Steps[1].Result, got[0].Elements[0].Steps[1].Result)

	require.NoError(t, WriteFile(file, nil))
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

type evidenceFixture struct {
	cfg  config.Config
	tree []Feature
}

func newEvidenceFixture(t *testing.T) evidenceFixture {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.ScreenshotsFolder = filepath.Join(dir, "screenshots")
	cfg.VideosFolder = filepath.Join(dir, "videos")
	for _, d := range []string{cfg.ScreenshotsFolder, cfg.VideosFolder} {
		require.NoError(t, os.MkdirAll(filepath.Join(d, "auth"), 0o755))
	}
	return evidenceFixture{cfg: cfg, tree: Generate(sampleSource())}
}

func (f evidenceFixture) write(t *testing.T, folder, name, content string) {
	require.NoError(t, os.WriteFile(filepath.Join(folder, "auth", name), []byte(content), 0o644))
}

func TestEmbedScreenshotAndVideo(t *testing.T) {
	f := newEvidenceFixture(t)
	f.write(t, f.cfg.ScreenshotsFolder, "Login Page -- Valid login (example #1) (failed).png", "image-bytes")
	f.write(t, f.cfg.VideosFolder, "Login.feature.mp4", "video-bytes")

	res, err := NewEmbedder(f.cfg, nil).Embed(f.tree, "/auth/")
	require.NoError(t, err)
	assert.Equal(t, EmbedResult{Screenshots: 1, Videos: 1}, res)

	step := f.tree[0].Elements[0].Steps[1]
	require.Len(t, step.Embeddings, 2)
	assert.Equal(t, Embedding{Data: base64.StdEncoding.EncodeToString([]byte("image-bytes")), MimeType: MimePNG}, step.Embeddings[0])
	assert.Equal(t, MimeHTML, step.Embeddings[1].MimeType)

	html, err := base64.StdEncoding.DecodeString(step.Embeddings[1].Data)
	require.NoError(t, err)
	assert.Contains(t, string(html), "data:video/mp4;base64,"+base64.StdEncoding.EncodeToString([]byte("video-bytes")))
	assert.Empty(t, f.tree[0].Elements[0].Steps[0].Embeddings, "passed steps get nothing")
}

func TestEmbedTwiceAddsNothing(t *testing.T) {
	f := newEvidenceFixture(t)
	f.write(t, f.cfg.ScreenshotsFolder, "Login Page -- Valid login (example #1) (failed).png", "image-bytes")
	f.write(t, f.cfg.VideosFolder, "Login.feature.mp4", "video-bytes")
	e := NewEmbedder(f.cfg, nil)

	_, err := e.Embed(f.tree, "/auth/")
	require.NoError(t, err)
	res, err := e.Embed(f.tree, "/auth/")
	require.NoError(t, err)

	assert.Equal(t, 0, res.Screenshots)
	assert.Equal(t, 0, res.Videos)
	assert.Len(t, f.tree[0].Elements[0].Steps[1].Embeddings, 2)
}

func TestEmbedUnmatchedScreenshots(t *testing.T) {
	f := newEvidenceFixture(t)
	f.write(t, f.cfg.ScreenshotsFolder, "random.png", "x")
	f.write(t, f.cfg.ScreenshotsFolder, "Login Page -- Unknown scenario (failed).png", "x")
	f.write(t, f.cfg.VideosFolder, "Login.feature.mp4", "video-bytes")

	res, err := NewEmbedder(f.cfg, nil).Embed(f.tree, "/auth/")
	require.NoError(t, err)
	assert.Len(t, res.Unmatched, 2)
	assert.Equal(t, 0, res.Videos, "videos need a matched step")
	for _, step := range f.tree[0].Elements[0].Steps {
		assert.Empty(t, step.Embeddings)
	}
}

func TestEmbedMissingFolders(t *testing.T) {
	cfg := config.Default()
	cfg.ScreenshotsFolder = filepath.Join(t.TempDir(), "none")
	res, err := NewEmbedder(cfg, nil).Embed(Generate(sampleSource()), "/auth/")
	require.NoError(t, err)
	assert.Equal(t, EmbedResult{}, res)
}
