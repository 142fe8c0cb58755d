package report

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/thelinuxer/cypress-cucumber-preprocessor/config"
	"go.uber.org/zap"
)

const (
	MimePNG  = "image/png"
	MimeHTML = "text/html"
)

// EmbedResult summarizes an Embed pass
type EmbedResult struct {
	Screenshots int
	Videos      int
	// Unmatched lists screenshot files that did not decode to a known step
	Unmatched []string
}

// Embedder attaches failure screenshots and videos to report steps
type Embedder struct {
	screenshots string
	videos      string
	logger      *zap.Logger
}

// NewEmbedder reads evidence from the folders in cfg
func NewEmbedder(cfg config.Config, logger *zap.Logger) *Embedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Embedder{
		screenshots: cfg.ScreenshotsFolder,
		videos:      cfg.VideosFolder,
		logger:      logger,
	}
}

// Embed attaches every screenshot under featureFolder as a PNG to the first
// non-passed step of the scenario it names, then attaches every video under
// featureFolder once to each of those steps as an HTML video tag. Attaching
// identical data to the same step twice is a no-op, so Embed may be repeated.
func (e *Embedder) Embed(tree []Feature, featureFolder string) (EmbedResult, error) {
	var res EmbedResult

	shots, err := listFiles(filepath.Join(e.screenshots, featureFolder))
	if err != nil {
		return res, err
	}

	var targets []*Step
	for _, shot := range shots {
		e.logger.Debug("Screenshot found", zap.String("file", shot))
		step, err := e.match(tree, filepath.Base(shot))
		if errors.Is(err, ErrNoMatch) {
			res.Unmatched = append(res.Unmatched, shot)
			e.logger.Warn("Screenshot does not match a failed step", zap.String("file", shot), zap.Error(err))
			continue
		}
		if err != nil {
			return res, err
		}

		data, err := os.ReadFile(shot)
		if err != nil {
			return res, fmt.Errorf("failed to read screenshot: %w", err)
		}
		if addEmbedding(step, Embedding{Data: base64.StdEncoding.EncodeToString(data), MimeType: MimePNG}) {
			res.Screenshots++
		}
		targets = appendUnique(targets, step)
	}

	if len(targets) == 0 {
		return res, nil
	}

	videos, err := listFiles(filepath.Join(e.videos, featureFolder))
	if err != nil {
		return res, err
	}
	for _, video := range videos {
		data, err := os.ReadFile(video)
		if err != nil {
			return res, fmt.Errorf("failed to read video: %w", err)
		}
		embedding := Embedding{Data: videoHTML(data), MimeType: MimeHTML}
		for _, step := range targets {
			if addEmbedding(step, embedding) {
				res.Videos++
			}
		}
	}

	e.logger.Info("Evidence embedded",
		zap.String("featureFolder", featureFolder),
		zap.Int("screenshots", res.Screenshots),
		zap.Int("videos", res.Videos),
		zap.Int("unmatched", len(res.Unmatched)))
	return res, nil
}

// match finds the first non-passed step of the scenario named in file
func (e *Embedder) match(tree []Feature, file string) (*Step, error) {
	name, err := ParseScreenshotName(file)
	if err != nil {
		return nil, err
	}
	for f := range tree {
		for el := range tree[f].Elements {
			element := &tree[f].Elements[el]
			if element.Name != name.Scenario {
				continue
			}
			for s := range element.Steps {
				if element.Steps[s].Result.Status != "passed" {
					return &element.Steps[s], nil
				}
			}
			return nil, fmt.Errorf("%w: scenario %q has no failed step", ErrNoMatch, name.Scenario)
		}
	}
	return nil, fmt.Errorf("%w: no scenario named %q", ErrNoMatch, name.Scenario)
}

func videoHTML(data []byte) string {
	html := fmt.Sprintf(`<video controls width="500"><source type="video/mp4" src="data:video/mp4;base64,%s"> </video>`,
		base64.StdEncoding.EncodeToString(data))
	return base64.StdEncoding.EncodeToString([]byte(html))
}

func addEmbedding(step *Step, embedding Embedding) bool {
	for _, existing := range step.Embeddings {
		if existing == embedding {
			return false
		}
	}
	step.Embeddings = append(step.Embeddings, embedding)
	return true
}

func appendUnique(steps []*Step, step *Step) []*Step {
	for _, s := range steps {
		if s == step {
			return steps
		}
	}
	return append(steps, step)
}

// listFiles returns the regular files in dir sorted by name. A missing dir
// has no files.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}
