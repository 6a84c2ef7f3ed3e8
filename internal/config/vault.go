package config

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"hrpilot/internal/errors"

	"github.com/hashicorp/vault/api"
)

// DefaultVaultKeyField is the secret field read when vault.secrets.field is unset.
const DefaultVaultKeyField = "api_key"

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`

	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets locates model API keys in a KVv2 engine. Paths are written as
// "<mount>/<path>", for example "secret/hrpilot"; a "data/" segment after the
// mount is accepted and ignored.
type VaultSecrets struct {
	// GeminiKey is shared by every model role that has no key of its own.
	GeminiKey string `mapstructure:"geminiKey"`
	// Roles maps a model role ("video", "speech", ...) to a path whose key
	// replaces that role's key.
	Roles map[string]string `mapstructure:"roles"`
	Field string            `mapstructure:"field"`
}

func (s VaultSecrets) field() string {
	if s.Field == "" {
		return DefaultVaultKeyField
	}
	return s.Field
}

// kvPath splits "<mount>/<path>" for the KVv2 helper.
func kvPath(ref string) (mount, path string, err error) {
	mount, path, _ = strings.Cut(strings.Trim(ref, "/"), "/")
	path = strings.TrimPrefix(path, "data/")
	if mount == "" || path == "" {
		return "", "", fmt.Errorf("vault path %q must look like <mount>/<path>", ref)
	}
	return mount, path, nil
}

// ApplyVaultSecrets reads model API keys from Vault into cfg. The shared key
// fills the global config and every role without a key; role paths then
// override individual roles.
func ApplyVaultSecrets(ctx context.Context, cfg *Config, logger *errors.Logger) error {
	if logger == nil {
		logger = errors.Discard()
	}
	vc := cfg.Vault
	if !vc.Enabled {
		logger.Debug("Vault integration disabled, skipping secret loading")
		return nil
	}

	roles, err := vaultRoles(vc.Secrets.Roles)
	if err != nil {
		return err
	}

	client, err := newVaultClient(vc)
	if err != nil {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to initialize vault client", err).
			WithContext("address", vc.Address)
	}
	logger.Info("Loading model keys from Vault",
		"address", vc.Address,
		"shared_path", vc.Secrets.GeminiKey,
		"role_paths", len(roles))

	field := vc.Secrets.field()
	if ref := vc.Secrets.GeminiKey; ref != "" {
		key, err := readVaultKey(ctx, client, ref, field)
		if err != nil {
			return err
		}
		cfg.AI.APIKey = key
		for _, role := range AllRoles() {
			if rc := cfg.roleConfig(role); rc.APIKey == "" {
				rc.APIKey = key
			}
		}
		logger.Debug("Shared model key loaded from Vault", "path", ref, "key", maskKey(key))
	}

	for _, role := range roles {
		ref := vc.Secrets.Roles[string(role)]
		key, err := readVaultKey(ctx, client, ref, field)
		if err != nil {
			return err
		}
		cfg.roleConfig(role).APIKey = key
		logger.Debug("Role model key loaded from Vault", "role", role, "path", ref, "key", maskKey(key))
	}
	return nil
}

// vaultRoles validates the role names of a role-to-path map and returns them
// in a stable order.
func vaultRoles(paths map[string]string) ([]ModelRole, error) {
	known := make(map[string]bool)
	for _, r := range AllRoles() {
		known[string(r)] = true
	}

	names := make([]string, 0, len(paths))
	for name := range paths {
		if !known[name] {
			return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("vault.secrets.roles: unknown model role %q", name), nil)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	roles := make([]ModelRole, len(names))
	for i, name := range names {
		roles[i] = ModelRole(name)
	}
	return roles, nil
}

func newVaultClient(vc VaultConfig) (*api.Client, error) {
	apiCfg := api.DefaultConfig()
	if vc.Address != "" {
		apiCfg.Address = vc.Address
	}
	client, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, err
	}
	if vc.Namespace != "" {
		client.SetNamespace(vc.Namespace)
	}

	token, err := vaultToken(vc)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)
	return client, nil
}

func vaultToken(vc VaultConfig) (string, error) {
	if vc.Token != "" {
		return vc.Token, nil
	}
	if vc.TokenFile != "" {
		data, err := os.ReadFile(vc.TokenFile)
		if err != nil {
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		if token := strings.TrimSpace(string(data)); token != "" {
			return token, nil
		}
	}
	return "", fmt.Errorf("vault token is required when vault is enabled")
}

func readVaultKey(ctx context.Context, client *api.Client, ref, field string) (string, error) {
	mount, path, err := kvPath(ref)
	if err != nil {
		return "", errors.NewConfigError(errors.ErrCodeInvalidConfig, err.Error(), nil)
	}

	secret, err := client.KVv2(mount).Get(ctx, path)
	if err != nil {
		return "", errors.NewNetworkError(errors.ErrCodeSecretRead, "failed to read model key from vault", err).
			WithContext("path", ref)
	}

	key, _ := secret.Data[field].(string)
	if strings.TrimSpace(key) == "" {
		return "", errors.NewConfigError(errors.ErrCodeMissingAPIKey,
			fmt.Sprintf("secret %s has no string field %q", ref, field), nil)
	}
	return key, nil
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
