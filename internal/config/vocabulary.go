package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/variant-studio/internal/catalog"
	"github.com/jonathan/variant-studio/internal/schemas"
	"github.com/jonathan/variant-studio/internal/types"
)

// Vocabulary is the channel and goal set loaded from a JSON file.
type Vocabulary struct {
	Channels    []types.ChannelRule `json:"channels"`
	Goals       []types.GoalRule    `json:"goals"`
	DefaultGoal string              `json:"default_goal,omitempty"`
}

// LoadVocabulary loads a vocabulary from a JSON file and checks it against the vocabulary schema.
func LoadVocabulary(path string) (*Vocabulary, error) {
	if path == "" {
		return nil, fmt.Errorf("vocabulary path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file %s: %w", path, err)
	}

	if err := schemas.ValidateVocabulary(string(data)); err != nil {
		return nil, fmt.Errorf("vocabulary file %s: %w", path, err)
	}

	var vocab Vocabulary
	if err := json.Unmarshal(data, &vocab); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary JSON: %w", err)
	}

	return &vocab, nil
}

// Catalog validates the vocabulary and builds a catalog from it.
func (v *Vocabulary) Catalog() (*catalog.Catalog, error) {
	return catalog.New(v.Channels, v.Goals, v.DefaultGoal)
}
