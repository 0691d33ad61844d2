package datasource

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jayrodri088/offchain-resolution-gateway/interfaces"
)

var testLog = slog.New(slog.NewTextHandler(io.Discard, nil))

func writeMappingFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "domains.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileSourceLookup(t *testing.T) {
	path := writeMappingFile(t, `{"iris": "0xabc", "empty": ""}`)
	source, err := NewFileSource(path, testLog)
	require.NoError(t, err)

	value, err := source.Lookup(context.Background(), "iris")
	require.NoError(t, err)
	assert.Equal(t, "0xabc", value)

	_, err = source.Lookup(context.Background(), "ghost")
	assert.ErrorIs(t, err, interfaces.ErrDomainNotFound)

	_, err = source.Lookup(context.Background(), "empty")
	assert.ErrorIs(t, err, interfaces.ErrCorruptMapping)
}

func TestFileSourcePicksUpEdits(t *testing.T) {
	path := writeMappingFile(t, `{}`)
	source, err := NewFileSource(path, testLog)
	require.NoError(t, err)

	_, err = source.Lookup(context.Background(), "iris")
	assert.ErrorIs(t, err, interfaces.ErrDomainNotFound)

	require.NoError(t, os.WriteFile(path, []byte(`{"iris": "0xabc"}`), 0o644))
	value, err := source.Lookup(context.Background(), "iris")
	require.NoError(t, err)
	assert.Equal(t, "0xabc", value)
}

func TestFileSourceUnavailable(t *testing.T) {
	path := writeMappingFile(t, `{"iris": "0xabc"}`)
	source, err := NewFileSource(path, testLog)
	require.NoError(t, err)
	assert.True(t, source.Available(context.Background()))

	require.NoError(t, os.Remove(path))
	assert.False(t, source.Available(context.Background()))

	_, err = source.Lookup(context.Background(), "iris")
	assert.ErrorIs(t, err, interfaces.ErrUpstreamUnavailable)
}

func TestFileSourceInvalidJSON(t *testing.T) {
	path := writeMappingFile(t, `not json`)
	source, err := NewFileSource(path, testLog)
	require.NoError(t, err)

	_, err = source.Lookup(context.Background(), "iris")
	assert.ErrorIs(t, err, interfaces.ErrUpstreamUnavailable)
}

func TestNewFileSourceMissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.json"), testLog)
	assert.Error(t, err)
}

func TestMemorySource(t *testing.T) {
	source := NewMemorySource(map[string]string{"iris": "0xabc"})

	value, err := source.Lookup(context.Background(), "iris")
	require.NoError(t, err)
	assert.Equal(t, "0xabc", value)

	source.Set("bob", "0xdef")
	value, err = source.Lookup(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, "0xdef", value)

	source.Delete("iris")
	_, err = source.Lookup(context.Background(), "iris")
	assert.ErrorIs(t, err, interfaces.ErrDomainNotFound)
}
