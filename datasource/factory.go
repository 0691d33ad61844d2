// Package datasource provides the external key-value lookup backends the
// gateway resolves domain mappings from. Backends are created from location
// URIs by the Factory and all implement interfaces.DataSource.
package datasource

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/Jayrodri088/offchain-resolution-gateway/interfaces"
)

// Factory creates data source backends from location URIs.
type Factory struct {
	log *slog.Logger
}

// NewFactory creates a new data source factory.
func NewFactory(log *slog.Logger) *Factory {
	return &Factory{log: log}
}

// DataSourceFor creates a data source from a location URI.
//
// Supported schemes:
//   - notion://TOKEN@DATABASE_ID?key_property=domain&value_property=address - Notion-style database API
//   - file:///path/to/domains.json - JSON object of label -> value
//   - s3://[ACCESS_KEY:SECRET_KEY@]bucket/prefix?region=us-east-1&endpoint=custom.s3.com - one object per label
//   - vault://TOKEN@host:8200/mount/path?field=address - Vault KV v2 secret per label
//   - dns://resolver:53/zone - TXT record per label.zone
//   - mem:// - empty in-process map, for tests
//
// Returns an error if the URI is invalid or the scheme is unsupported.
func (f *Factory) DataSourceFor(location interfaces.DataSourceLocation) (interfaces.DataSource, error) {
	u, err := url.Parse(string(location))
	if err != nil {
		return nil, fmt.Errorf("invalid data source uri: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "notion":
		return f.createNotionSource(u)
	case "file":
		return f.createFileSource(u)
	case "s3":
		return f.createS3Source(u)
	case "vault":
		return f.createVaultSource(u)
	case "dns":
		return f.createDNSSource(u)
	case "mem":
		return NewMemorySource(nil), nil
	default:
		return nil, fmt.Errorf("unsupported data source scheme: %s", u.Scheme)
	}
}

// createNotionSource creates a Notion-style database backend.
// URI format: notion://TOKEN@DATABASE_ID?key_property=domain&value_property=address&endpoint=https://api.notion.com
func (f *Factory) createNotionSource(u *url.URL) (interfaces.DataSource, error) {
	f.log.Debug("Creating notion data source", slog.String("database", u.Host))

	if u.User == nil || u.User.Username() == "" {
		return nil, fmt.Errorf("notion uri must carry an integration token: notion://TOKEN@DATABASE_ID")
	}
	if u.Host == "" {
		return nil, fmt.Errorf("notion uri must name a database id")
	}

	query := u.Query()
	cfg := NotionConfig{
		Token:         u.User.Username(),
		DatabaseID:    u.Host,
		KeyProperty:   query.Get("key_property"),
		ValueProperty: query.Get("value_property"),
		Endpoint:      query.Get("endpoint"),
	}
	return NewNotionSource(cfg, f.log)
}

// createFileSource creates a local JSON file backend.
// URI format: file:///absolute/path.json or file://./relative/path.json
func (f *Factory) createFileSource(u *url.URL) (interfaces.DataSource, error) {
	f.log.Debug("Creating file data source", slog.String("uri", u.String()))

	path := u.Path
	if u.Host != "" {
		path = u.Host + "/" + strings.TrimPrefix(path, "/")
	}
	if path == "" {
		return nil, fmt.Errorf("empty path in file URI: %s", u.String())
	}
	return NewFileSource(path, f.log)
}

// createS3Source creates an S3 or S3-compatible backend.
// URI format: s3://[ACCESS_KEY:SECRET_KEY@]bucket/prefix?region=us-west-2&endpoint=custom.s3.com
func (f *Factory) createS3Source(u *url.URL) (interfaces.DataSource, error) {
	f.log.Debug("Creating S3 data source", slog.String("bucket", u.Host))

	query := u.Query()
	region := query.Get("region")
	if region == "" {
		region = "us-east-1"
	}

	var accessKey, secretKey string
	if u.User != nil {
		accessKey = u.User.Username()
		secretKey, _ = u.User.Password()
	}

	return NewS3Source(u.Host, strings.TrimPrefix(u.Path, "/"), region, query.Get("endpoint"), accessKey, secretKey, f.log)
}

// createVaultSource creates a HashiCorp Vault KV v2 backend.
// URI format: vault://TOKEN@host:8200/mount/path?field=address&tls=false
func (f *Factory) createVaultSource(u *url.URL) (interfaces.DataSource, error) {
	f.log.Debug("Creating vault data source", slog.String("host", u.Host))

	if u.User == nil || u.User.Username() == "" {
		return nil, fmt.Errorf("vault uri must carry a token: vault://TOKEN@host:port/mount/path")
	}

	parts := strings.SplitN(strings.Trim(u.Path, "/"), "/", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("vault uri must include mount and path: vault://TOKEN@host:port/mount/path")
	}

	query := u.Query()
	scheme := "https"
	if query.Get("tls") == "false" {
		scheme = "http"
	}

	cfg := VaultConfig{
		Address:   fmt.Sprintf("%s://%s", scheme, u.Host),
		Token:     u.User.Username(),
		MountPath: parts[0],
		DataPath:  parts[1],
		Field:     query.Get("field"),
	}
	return NewVaultSource(cfg, f.log)
}

// createDNSSource creates a DNS TXT record backend.
// URI format: dns://resolver-host:53/zone
func (f *Factory) createDNSSource(u *url.URL) (interfaces.DataSource, error) {
	f.log.Debug("Creating DNS data source", slog.String("resolver", u.Host))

	zone := strings.Trim(u.Path, "/")
	if zone == "" {
		return nil, fmt.Errorf("dns uri must name a zone: dns://resolver:53/zone")
	}

	resolver := u.Host
	if u.Port() == "" {
		resolver += ":53"
	}
	return NewDNSSource(resolver, zone, f.log), nil
}
