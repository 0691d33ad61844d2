package datasource

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	vault "github.com/hashicorp/vault/api"

	"github.com/Jayrodri088/offchain-resolution-gateway/interfaces"
)

// VaultConfig configures a HashiCorp Vault KV v2 backend.
type VaultConfig struct {
	// Address is the Vault server address, e.g. https://vault.example.com:8200.
	Address string

	// Token authenticates against Vault.
	Token string

	// MountPath is the KV v2 mount, e.g. "secret".
	MountPath string

	// DataPath is the path within the mount holding one secret per label.
	DataPath string

	// Field is the secret field holding the resolved value. Defaults to
	// "address".
	Field string
}

// VaultSource serves domain mappings from HashiCorp Vault, one KV v2 secret
// per label.
type VaultSource struct {
	client      *vault.Client
	cfg         VaultConfig
	log         *slog.Logger
	locationURI string
}

// NewVaultSource creates a Vault data source.
func NewVaultSource(cfg VaultConfig, log *slog.Logger) (*VaultSource, error) {
	if cfg.Field == "" {
		cfg.Field = defaultValueProperty
	}
	cfg.MountPath = strings.Trim(cfg.MountPath, "/")
	cfg.DataPath = strings.Trim(cfg.DataPath, "/")

	vaultCfg := vault.DefaultConfig()
	vaultCfg.Address = cfg.Address

	client, err := vault.NewClient(vaultCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	client.SetToken(cfg.Token)

	return &VaultSource{
		client:      client,
		cfg:         cfg,
		log:         log,
		locationURI: fmt.Sprintf("vault://%s/%s/%s", cfg.Address, cfg.MountPath, cfg.DataPath),
	}, nil
}

// Lookup reads the KV v2 secret for the label and extracts the configured
// field.
func (s *VaultSource) Lookup(ctx context.Context, label string) (string, error) {
	// KV v2 read path structure.
	secretPath := fmt.Sprintf("%s/data/%s/%s", s.cfg.MountPath, s.cfg.DataPath, label)

	secret, err := s.client.Logical().ReadWithContext(ctx, secretPath)
	if err != nil {
		s.log.Warn("Vault read failed", slog.String("path", secretPath), "err", err)
		return "", fmt.Errorf("%w: %v", interfaces.ErrUpstreamUnavailable, err)
	}
	if secret == nil || secret.Data == nil {
		return "", interfaces.ErrDomainNotFound
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("%w: unexpected Vault response shape for %q", interfaces.ErrCorruptMapping, label)
	}

	value, ok := data[s.cfg.Field].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("%w: secret for %q lacks field %q", interfaces.ErrCorruptMapping, label, s.cfg.Field)
	}
	return value, nil
}

// Available checks Vault reachability via the health endpoint.
func (s *VaultSource) Available(ctx context.Context) bool {
	health, err := s.client.Sys().HealthWithContext(ctx)
	if err != nil {
		s.log.Debug("Vault data source unavailable", "err", err)
		return false
	}
	return health.Initialized && !health.Sealed
}

// Name returns a unique identifier for this data source.
func (s *VaultSource) Name() string {
	return fmt.Sprintf("vault-%s-%s", s.cfg.MountPath, s.cfg.DataPath)
}

// LocationURI returns the URI this data source was created from, without the
// token.
func (s *VaultSource) LocationURI() string {
	return s.locationURI
}
