package interfaces

import "context"

// DataSourceLocation is a URI describing a data source backend, e.g.
// "notion://TOKEN@DATABASE_ID" or "file:///var/lib/gateway/domains.json".
type DataSourceLocation string

// DataSource is an opaque key-value lookup service mapping a domain label to
// its resolved value. Implementations must distinguish a missing mapping
// (ErrDomainNotFound), an ambiguous one (ErrAmbiguousMapping) and backend
// failure (ErrUpstreamUnavailable).
type DataSource interface {
	// Lookup returns the value mapped to the given label.
	Lookup(ctx context.Context, label string) (string, error)

	// Available checks whether the backend is reachable.
	Available(ctx context.Context) bool

	// Name returns a unique identifier for this data source.
	Name() string

	// LocationURI returns the URI this data source was created from, with
	// credentials redacted.
	LocationURI() string
}

// DataSourceFactory creates data sources from location URIs.
type DataSourceFactory interface {
	DataSourceFor(location DataSourceLocation) (DataSource, error)
}
