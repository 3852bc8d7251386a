// internal/config/loader.go
//
// Configuration loader and hot-reloader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file — first `<root>/conf/.env`, then jail-wide fallback.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `VITRINE_`, where `__` maps to “.”
     (e.g., `VITRINE_HTTP__LISTEN_ADDR → http.listen_addr`).

After merging, the tree is unmarshalled into strongly-typed structs,
`vault:` references are resolved through the optional secrets client,
validated, enriched with the runtime root path, and cached in an
`atomic.Pointer` for lock-free reads.  `Reload()` simply calls `Load()`
again and swaps the pointer.

Instrumentation
---------------
  • DEBUG spans — root discovery, YAML read, env overlay.
  • ERROR spans — YAML parse, env overlay, unmarshal, validation failures.
  • INFO  span  — final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed (bootstrap console).

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`;
    this lets `go run ./cmd/web` work from any sub-directory.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

var current atomic.Pointer[Config]

// vaultPrefix marks values that live in Vault: "vault:<path>#<key>".
const vaultPrefix = "vault:"

// SecretResolver is satisfied by *vault.Client.  nil disables resolution,
// which is fine for development setups with plain-text config.
type SecretResolver interface {
	GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error)
}

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves VITRINE_ROOT or climbs directories until conf/global.yaml
// is found.  Falls back to executable heuristic for production layout.
func rootDir() string {
	if r := os.Getenv("VITRINE_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, resolves Vault references,
// validates, and caches Config.
func Load(ctx context.Context, secrets SecretResolver) (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	// Env overrides: VITRINE_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider("VITRINE_", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	if err := resolveSecrets(ctx, &cfg, secrets); err != nil {
		zap.S().Errorw("config secret resolution failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"force_https", cfg.HTTP.ForceHTTPS,
		"root_domain", cfg.Site.RootDomain,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

/*──────────────────────────── vault indirection ───────────────────────────*/

// resolveSecrets replaces every `vault:<path>#<key>` value in the fields
// that may carry one.  A reference with a nil resolver is a hard error:
// silently keeping the URI would hand the literal string to a driver.
func resolveSecrets(ctx context.Context, cfg *Config, secrets SecretResolver) error {
	targets := []*string{
		&cfg.Database.AnonDSN,
		&cfg.Database.ServiceDSN,
		&cfg.Storage.SecretKey,
		&cfg.Auth.JWTSecret,
	}
	for _, t := range targets {
		v, err := resolveValue(ctx, *t, secrets)
		if err != nil {
			return err
		}
		*t = v
	}
	return nil
}

func resolveValue(ctx context.Context, raw string, secrets SecretResolver) (string, error) {
	if !strings.HasPrefix(raw, vaultPrefix) {
		return raw, nil
	}
	if secrets == nil {
		return "", errVaultUnavailable(raw)
	}
	ref := strings.TrimPrefix(raw, vaultPrefix)
	path, key, ok := strings.Cut(ref, "#")
	if !ok {
		return "", errVaultRef(raw)
	}
	return secrets.GetKV(ctx, path, key, 5*time.Minute)
}

func errVaultUnavailable(raw string) error {
	return fmt.Errorf("config: %q needs Vault, but no secrets client is configured", raw)
}

func errVaultRef(raw string) error {
	return fmt.Errorf("config: malformed Vault reference %q, want vault:<path>#<key>", raw)
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// Get returns the cached Config; nil before the first successful Load.
func Get() *Config { return current.Load() }

// Reload re-runs Load with the same resolver semantics disabled; intended
// for SIGHUP handlers in setups without Vault references.
func Reload() error { _, err := Load(context.Background(), nil); return err }
