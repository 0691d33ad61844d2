package httpserver

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jayrodri088/offchain-resolution-gateway/api"
	"github.com/Jayrodri088/offchain-resolution-gateway/api/resolverhandler"
	"github.com/Jayrodri088/offchain-resolution-gateway/attester"
	"github.com/Jayrodri088/offchain-resolution-gateway/datasource"
)

var testLog = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestServer(t *testing.T) *Server {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	source := datasource.NewMemorySource(map[string]string{"iris": "0xabc"})
	a, err := attester.New(key, source, attester.Config{
		ParentDomain:   "notion.stark",
		ValidityWindow: time.Hour,
	}, testLog)
	require.NoError(t, err)

	srv, err := New(&HTTPServerConfig{
		Log:           testLog,
		DrainDuration: time.Millisecond,
	}, resolverhandler.NewHandler(a, testLog))
	require.NoError(t, err)
	return srv
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestLiveness(t *testing.T) {
	router := newTestServer(t).getRouter()
	assert.Equal(t, http.StatusOK, get(router, "/livez").Code)
}

func TestDrainLifecycle(t *testing.T) {
	router := newTestServer(t).getRouter()

	assert.Equal(t, http.StatusOK, get(router, "/readyz").Code)

	assert.Equal(t, http.StatusOK, get(router, "/drain").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(router, "/readyz").Code)

	// Draining twice is reported, not an error.
	assert.Equal(t, http.StatusOK, get(router, "/drain").Code)

	assert.Equal(t, http.StatusOK, get(router, "/undrain").Code)
	assert.Equal(t, http.StatusOK, get(router, "/readyz").Code)
}

func TestResolveRouted(t *testing.T) {
	router := newTestServer(t).getRouter()

	rec := get(router, "/resolve?domain=iris.notion.stark")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.ResolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "0xabc", resp.Address)
}

func TestPprofDisabledByDefault(t *testing.T) {
	router := newTestServer(t).getRouter()
	assert.Equal(t, http.StatusNotFound, get(router, "/debug/pprof").Code)
}
