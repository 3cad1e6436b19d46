package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists prompt history as a JSON array, newest first.
type Store struct {
	path    string
	limit   int
	prompts []string
}

// NewStore creates a store backed by the given file, keeping at most
// limit entries.
func NewStore(path string, limit int) *Store {
	return &Store{
		path:  path,
		limit: limit,
	}
}

// DefaultPath returns the history file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "imagegen", "prompt_history.json"), nil
}

// Load reads the history file. A missing file yields an empty history.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	var prompts []string
	if err := json.Unmarshal(data, &prompts); err != nil {
		return fmt.Errorf("failed to parse history: %w", err)
	}

	if len(prompts) > s.limit {
		prompts = prompts[:s.limit]
	}
	s.prompts = prompts
	return nil
}

// Add inserts the prompt at the front, removing any earlier occurrence and
// trimming to the limit, then writes the file.
func (s *Store) Add(prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil
	}

	updated := make([]string, 0, len(s.prompts)+1)
	updated = append(updated, prompt)
	for _, p := range s.prompts {
		if p != prompt {
			updated = append(updated, p)
		}
	}
	if len(updated) > s.limit {
		updated = updated[:s.limit]
	}
	s.prompts = updated

	return s.save()
}

// Prompts returns the stored prompts, newest first.
func (s *Store) Prompts() []string {
	out := make([]string, len(s.prompts))
	copy(out, s.prompts)
	return out
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create history dir: %w", err)
	}

	data, err := json.MarshalIndent(s.prompts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}
