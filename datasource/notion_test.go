package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jayrodri088/offchain-resolution-gateway/interfaces"
)

// fakeNotionRow builds a query result row with the value split across title
// fragments, the way the API returns long rich text.
func fakeNotionRow(property string, fragments ...string) map[string]any {
	title := make([]map[string]any, 0, len(fragments))
	for _, f := range fragments {
		title = append(title, map[string]any{"plain_text": f})
	}
	return map[string]any{
		"properties": map[string]any{
			property: map[string]any{"title": title},
		},
	}
}

func startFakeNotion(t *testing.T, handler http.HandlerFunc) *NotionSource {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	source, err := NewNotionSource(NotionConfig{
		Token:      "secret-token",
		DatabaseID: "db-1",
		Endpoint:   srv.URL,
	}, testLog)
	require.NoError(t, err)
	return source
}

func writeRows(w http.ResponseWriter, rows ...map[string]any) {
	json.NewEncoder(w).Encode(map[string]any{"results": rows})
}

func TestNotionLookup(t *testing.T) {
	source := startFakeNotion(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/databases/db-1/query", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("Notion-Version"))

		var query struct {
			Filter struct {
				Property string `json:"property"`
				RichText struct {
					Equals string `json:"equals"`
				} `json:"rich_text"`
			} `json:"filter"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&query))
		assert.Equal(t, "domain", query.Filter.Property)
		assert.Equal(t, "iris", query.Filter.RichText.Equals)

		writeRows(w, fakeNotionRow("address", "0xab", "c123"))
	})

	value, err := source.Lookup(context.Background(), "iris")
	require.NoError(t, err)
	assert.Equal(t, "0xabc123", value, "fragments concatenate in order")
}

func TestNotionLookupNotFound(t *testing.T) {
	source := startFakeNotion(t, func(w http.ResponseWriter, r *http.Request) {
		writeRows(w)
	})

	_, err := source.Lookup(context.Background(), "ghost")
	assert.ErrorIs(t, err, interfaces.ErrDomainNotFound)
}

func TestNotionLookupAmbiguous(t *testing.T) {
	source := startFakeNotion(t, func(w http.ResponseWriter, r *http.Request) {
		writeRows(w, fakeNotionRow("address", "0xabc"), fakeNotionRow("address", "0xdef"))
	})

	_, err := source.Lookup(context.Background(), "iris")
	assert.ErrorIs(t, err, interfaces.ErrAmbiguousMapping)
}

func TestNotionLookupCorruptRow(t *testing.T) {
	missingProperty := startFakeNotion(t, func(w http.ResponseWriter, r *http.Request) {
		writeRows(w, fakeNotionRow("unrelated", "0xabc"))
	})
	_, err := missingProperty.Lookup(context.Background(), "iris")
	assert.ErrorIs(t, err, interfaces.ErrCorruptMapping)

	emptyValue := startFakeNotion(t, func(w http.ResponseWriter, r *http.Request) {
		writeRows(w, fakeNotionRow("address"))
	})
	_, err = emptyValue.Lookup(context.Background(), "iris")
	assert.ErrorIs(t, err, interfaces.ErrCorruptMapping)
}

func TestNotionLookupRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	source := startFakeNotion(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeRows(w, fakeNotionRow("address", "0xabc"))
	})

	value, err := source.Lookup(context.Background(), "iris")
	require.NoError(t, err)
	assert.Equal(t, "0xabc", value)
	assert.Equal(t, int32(3), calls.Load())
}

func TestNotionLookupDoesNotRetryRejections(t *testing.T) {
	var calls atomic.Int32
	source := startFakeNotion(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message": "invalid token"}`)
	})

	_, err := source.Lookup(context.Background(), "iris")
	assert.ErrorIs(t, err, interfaces.ErrUpstreamUnavailable)
	assert.Equal(t, int32(1), calls.Load())
}

func TestNotionAvailable(t *testing.T) {
	source := startFakeNotion(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/databases/db-1", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})
	assert.True(t, source.Available(context.Background()))

	down := startFakeNotion(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	assert.False(t, down.Available(context.Background()))
}

func TestNewNotionSourceValidation(t *testing.T) {
	_, err := NewNotionSource(NotionConfig{DatabaseID: "db-1"}, testLog)
	assert.Error(t, err)

	_, err = NewNotionSource(NotionConfig{Token: "secret"}, testLog)
	assert.Error(t, err)
}

func TestNotionLocationURIRedactsToken(t *testing.T) {
	source, err := NewNotionSource(NotionConfig{Token: "secret-token", DatabaseID: "db-1"}, testLog)
	require.NoError(t, err)
	assert.NotContains(t, source.LocationURI(), "secret-token")
}
