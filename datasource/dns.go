package datasource

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/miekg/dns"

	"github.com/Jayrodri088/offchain-resolution-gateway/interfaces"
)

// DNSSource serves domain mappings from DNS, one TXT record per
// <label>.<zone>. Useful when the mapping authority already publishes a
// zone, e.g. for bridging an existing DNS namespace.
type DNSSource struct {
	resolver    string
	zone        string
	client      *dns.Client
	log         *slog.Logger
	locationURI string
}

// NewDNSSource creates a DNS TXT data source querying the given resolver
// address ("host:port") for records under zone.
func NewDNSSource(resolver, zone string, log *slog.Logger) *DNSSource {
	return &DNSSource{
		resolver:    resolver,
		zone:        strings.Trim(zone, "."),
		client:      new(dns.Client),
		log:         log,
		locationURI: fmt.Sprintf("dns://%s/%s", resolver, zone),
	}
}

// Lookup queries the TXT record of <label>.<zone>.
func (s *DNSSource) Lookup(ctx context.Context, label string) (string, error) {
	fqdn := dns.Fqdn(fmt.Sprintf("%s.%s", label, s.zone))

	msg := new(dns.Msg)
	msg.Id = dns.Id()
	msg.RecursionDesired = true
	msg.Question = []dns.Question{{Name: fqdn, Qtype: dns.TypeTXT, Qclass: dns.ClassINET}}

	in, _, err := s.client.ExchangeContext(ctx, msg, s.resolver)
	if err != nil {
		s.log.Warn("DNS query failed", slog.String("fqdn", fqdn), "err", err)
		return "", fmt.Errorf("%w: %v", interfaces.ErrUpstreamUnavailable, err)
	}

	if in.Rcode == dns.RcodeNameError {
		return "", interfaces.ErrDomainNotFound
	}
	if in.Rcode != dns.RcodeSuccess {
		return "", fmt.Errorf("%w: dns rcode %s", interfaces.ErrUpstreamUnavailable, dns.RcodeToString[in.Rcode])
	}

	values := make([]string, 0, 1)
	for _, answer := range in.Answer {
		if txt, ok := answer.(*dns.TXT); ok {
			values = append(values, strings.Join(txt.Txt, ""))
		}
	}

	switch len(values) {
	case 0:
		return "", interfaces.ErrDomainNotFound
	case 1:
		return values[0], nil
	default:
		return "", fmt.Errorf("%w: %d TXT records for %q", interfaces.ErrAmbiguousMapping, len(values), fqdn)
	}
}

// Available probes the resolver with an SOA query for the zone.
func (s *DNSSource) Available(ctx context.Context) bool {
	msg := new(dns.Msg)
	msg.Id = dns.Id()
	msg.RecursionDesired = true
	msg.Question = []dns.Question{{Name: dns.Fqdn(s.zone), Qtype: dns.TypeSOA, Qclass: dns.ClassINET}}

	in, _, err := s.client.ExchangeContext(ctx, msg, s.resolver)
	if err != nil {
		s.log.Debug("DNS data source unavailable", "err", err)
		return false
	}
	return in.Rcode == dns.RcodeSuccess
}

// Name returns a unique identifier for this data source.
func (s *DNSSource) Name() string {
	return fmt.Sprintf("dns-%s", s.zone)
}

// LocationURI returns the URI this data source was created from.
func (s *DNSSource) LocationURI() string {
	return s.locationURI
}
