package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/thelinuxer/cypress-cucumber-preprocessor/config"
)

// FeatureFolder is the part of the first feature's uri between the
// integration folder and the file name, e.g. "/login/" for
// "cypress/integration/login/Login.feature".
func FeatureFolder(tree []Feature, integrationFolder string) string {
	if len(tree) == 0 {
		return ""
	}
	uri := filepath.ToSlash(tree[0].URI)
	idx := strings.Index(uri, integrationFolder)
	if integrationFolder == "" || idx < 0 {
		return ""
	}
	rest := uri[idx+len(integrationFolder):]
	return strings.TrimSuffix(rest, path.Base(uri))
}

// OutputPath is <outputFolder><featureFolder>/<prefix><name><suffix>.json,
// where name is the feature file name up to its first dot, or "empty".
func OutputPath(cfg config.Config, tree []Feature) string {
	name := "empty"
	if len(tree) > 0 {
		name, _, _ = strings.Cut(path.Base(filepath.ToSlash(tree[0].URI)), ".")
	}
	folder := cfg.OutputFolder + FeatureFolder(tree, cfg.IntegrationFolder)
	return filepath.Join(folder, cfg.FilePrefix+name+cfg.FileSuffix+".json")
}

// WriteFile writes tree as indented json, creating parent folders
func WriteFile(file string, tree []Feature) error {
	if tree == nil {
		tree = []Feature{}
	}
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cucumber json: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return fmt.Errorf("failed to create report folder: %w", err)
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", file, err)
	}
	return nil
}

// ReadFile loads a cucumber json report
func ReadFile(file string) ([]Feature, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	var tree []Feature
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cucumber json %s: %w", file, err)
	}
	return tree, nil
}
