package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Jayrodri088/offchain-resolution-gateway/interfaces"
)

const (
	defaultNotionEndpoint = "https://api.notion.com"
	notionAPIVersion      = "2022-06-28"

	defaultKeyProperty   = "domain"
	defaultValueProperty = "address"

	notionMaxRetries = 3
)

// NotionConfig configures a Notion-style database backend.
type NotionConfig struct {
	// Token is the integration token sent as a bearer credential.
	Token string

	// DatabaseID identifies the database holding the domain mappings.
	DatabaseID string

	// KeyProperty is the database property holding the domain label.
	// Defaults to "domain".
	KeyProperty string

	// ValueProperty is the database property holding the resolved value.
	// Defaults to "address".
	ValueProperty string

	// Endpoint overrides the API base URL. Used by tests.
	Endpoint string
}

// NotionSource looks up domain mappings in a Notion-style database via its
// HTTP query API. Transient upstream failures are retried with exponential
// backoff before being surfaced as interfaces.ErrUpstreamUnavailable.
type NotionSource struct {
	cfg         NotionConfig
	client      *http.Client
	log         *slog.Logger
	locationURI string
}

// NewNotionSource creates a Notion database backend.
func NewNotionSource(cfg NotionConfig, log *slog.Logger) (*NotionSource, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("notion integration token is required")
	}
	if cfg.DatabaseID == "" {
		return nil, fmt.Errorf("notion database id is required")
	}
	if cfg.KeyProperty == "" {
		cfg.KeyProperty = defaultKeyProperty
	}
	if cfg.ValueProperty == "" {
		cfg.ValueProperty = defaultValueProperty
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultNotionEndpoint
	}

	return &NotionSource{
		cfg:         cfg,
		client:      &http.Client{Timeout: 15 * time.Second},
		log:         log,
		locationURI: fmt.Sprintf("notion://***@%s", cfg.DatabaseID),
	}, nil
}

// notionQuery is the database query request body, filtering rows whose key
// property equals the requested label.
type notionQuery struct {
	Filter notionFilter `json:"filter"`
}

type notionFilter struct {
	Property string           `json:"property"`
	RichText notionTextEquals `json:"rich_text"`
}

type notionTextEquals struct {
	Equals string `json:"equals"`
}

type notionQueryResponse struct {
	Results []struct {
		Properties map[string]struct {
			Title    []notionRichText `json:"title"`
			RichText []notionRichText `json:"rich_text"`
		} `json:"properties"`
	} `json:"results"`
}

type notionRichText struct {
	PlainText string `json:"plain_text"`
}

// Lookup queries the database for rows whose key property equals the label.
// Zero rows fail with ErrDomainNotFound; more than one row is a
// data-integrity fault and fails with ErrAmbiguousMapping.
func (s *NotionSource) Lookup(ctx context.Context, label string) (string, error) {
	body, err := json.Marshal(notionQuery{
		Filter: notionFilter{
			Property: s.cfg.KeyProperty,
			RichText: notionTextEquals{Equals: label},
		},
	})
	if err != nil {
		return "", fmt.Errorf("could not encode query: %w", err)
	}

	var response notionQueryResponse

	query := func() error {
		req, err := http.NewRequestWithContext(
			ctx,
			http.MethodPost,
			fmt.Sprintf("%s/v1/databases/%s/query", s.cfg.Endpoint, s.cfg.DatabaseID),
			bytes.NewReader(body),
		)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
		req.Header.Set("Notion-Version", notionAPIVersion)
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			// fallthrough to decode
		case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("upstream returned status %d", resp.StatusCode)
		default:
			// 4xx other than 429 will not get better on retry.
			return backoff.Permanent(fmt.Errorf("upstream rejected query with status %d: %s", resp.StatusCode, respBody))
		}

		if err := json.Unmarshal(respBody, &response); err != nil {
			return backoff.Permanent(fmt.Errorf("could not parse upstream response: %w", err))
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), notionMaxRetries), ctx)
	if err := backoff.Retry(query, policy); err != nil {
		s.log.Warn("Notion query failed", "label", label, "err", err)
		return "", fmt.Errorf("%w: %v", interfaces.ErrUpstreamUnavailable, err)
	}

	switch len(response.Results) {
	case 0:
		return "", interfaces.ErrDomainNotFound
	case 1:
		// fallthrough to extract
	default:
		s.log.Error("Multiple rows match the same domain",
			slog.String("label", label),
			slog.Int("rows", len(response.Results)))
		return "", fmt.Errorf("%w: %d rows for %q", interfaces.ErrAmbiguousMapping, len(response.Results), label)
	}

	property, ok := response.Results[0].Properties[s.cfg.ValueProperty]
	if !ok {
		return "", fmt.Errorf("%w: row for %q lacks property %q", interfaces.ErrCorruptMapping, label, s.cfg.ValueProperty)
	}

	value := ""
	for _, t := range property.Title {
		value += t.PlainText
	}
	for _, t := range property.RichText {
		value += t.PlainText
	}
	if value == "" {
		return "", fmt.Errorf("%w: empty value for %q", interfaces.ErrCorruptMapping, label)
	}
	return value, nil
}

// Available checks reachability of the database endpoint.
func (s *NotionSource) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("%s/v1/databases/%s", s.cfg.Endpoint, s.cfg.DatabaseID),
		nil,
	)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	req.Header.Set("Notion-Version", notionAPIVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Debug("Notion data source unavailable", "err", err)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

// Name returns a unique identifier for this data source.
func (s *NotionSource) Name() string {
	return fmt.Sprintf("notion-%s", s.cfg.DatabaseID)
}

// LocationURI returns the URI this data source was created from, with the
// token redacted.
func (s *NotionSource) LocationURI() string {
	return s.locationURI
}
