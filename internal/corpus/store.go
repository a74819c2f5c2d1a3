package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"horse.fit/lexwatch/internal/globaltime"
)

// Store persists the document corpus and the crawl state as JSON files
// under a data directory. The corpus is partitioned per calendar year
// (results-<year>.json) and always written in full; state.json holds the
// watermark. Writes go through a temp file plus rename so a crash never
// leaves a half-written file behind.
type Store struct {
	dir  string
	year int
}

func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %q: %w", dir, err)
	}
	return &Store{dir: dir, year: globaltime.UTC().Year()}, nil
}

func (s *Store) Year() int { return s.year }

func (s *Store) ResultsPath() string {
	return filepath.Join(s.dir, fmt.Sprintf("results-%d.json", s.year))
}

func (s *Store) StatePath() string {
	return filepath.Join(s.dir, "state.json")
}

// LoadCorpus reads the current year's partition. A missing file is an
// empty corpus, not an error.
func (s *Store) LoadCorpus() ([]Document, error) {
	payload, err := os.ReadFile(s.ResultsPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Document{}, nil
		}
		return nil, fmt.Errorf("read corpus %q: %w", s.ResultsPath(), err)
	}

	var docs []Document
	if err := json.Unmarshal(payload, &docs); err != nil {
		return nil, fmt.Errorf("decode corpus %q: %w", s.ResultsPath(), err)
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}

// SaveCorpus replaces the current year's partition in full.
func (s *Store) SaveCorpus(docs []Document) error {
	if docs == nil {
		docs = []Document{}
	}
	return s.writeJSON(s.ResultsPath(), docs)
}

// LoadState reads the watermark. A missing file yields the zero State.
func (s *Store) LoadState() (State, error) {
	payload, err := os.ReadFile(s.StatePath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("read state %q: %w", s.StatePath(), err)
	}

	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return State{}, fmt.Errorf("decode state %q: %w", s.StatePath(), err)
	}
	return state, nil
}

func (s *Store) SaveState(state State) error {
	return s.writeJSON(s.StatePath(), state)
}

func (s *Store) writeJSON(path string, value any) error {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %q: %w", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %q: %w", path, err)
	}
	return nil
}
