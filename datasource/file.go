package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Jayrodri088/offchain-resolution-gateway/interfaces"
)

// FileSource serves domain mappings from a local JSON file containing a
// single object of label -> value. The file is re-read on every lookup so
// edits take effect without a restart.
type FileSource struct {
	path        string
	log         *slog.Logger
	locationURI string
}

// NewFileSource creates a file-backed data source.
func NewFileSource(path string, log *slog.Logger) (*FileSource, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cannot access mapping file: %w", err)
	}

	return &FileSource{
		path:        path,
		log:         log,
		locationURI: fmt.Sprintf("file://%s", path),
	}, nil
}

// Lookup reads the mapping file and returns the value for the label.
func (s *FileSource) Lookup(ctx context.Context, label string) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", interfaces.ErrUpstreamUnavailable, err)
	}

	mappings := map[string]string{}
	if err := json.Unmarshal(data, &mappings); err != nil {
		return "", fmt.Errorf("%w: invalid mapping file: %v", interfaces.ErrUpstreamUnavailable, err)
	}

	value, ok := mappings[label]
	if !ok {
		return "", interfaces.ErrDomainNotFound
	}
	if value == "" {
		return "", fmt.Errorf("%w: empty value for %q", interfaces.ErrCorruptMapping, label)
	}
	return value, nil
}

// Available checks that the mapping file still exists.
func (s *FileSource) Available(ctx context.Context) bool {
	_, err := os.Stat(s.path)
	if err != nil {
		s.log.Debug("File data source unavailable", "err", err)
		return false
	}
	return true
}

// Name returns a unique identifier for this data source.
func (s *FileSource) Name() string {
	return fmt.Sprintf("file-%s", filepath.Base(s.path))
}

// LocationURI returns the URI this data source was created from.
func (s *FileSource) LocationURI() string {
	return s.locationURI
}
