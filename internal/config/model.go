// internal/config/model.go
//
// Typed configuration model for Vitrine.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                           – dotenv values,
//   • `conf/global.yaml`                        – primary static file,
//   • `VITRINE_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *after* unmarshalling, so the rest of the app
// never stores Vault URIs—only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.
package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Database section
//

// Database holds the two pool DSNs.  The anon DSN connects as the role
// whose row-level-security policy exposes only published tenants; the
// service DSN bypasses the policy and is typically stored in Vault.
type Database struct {
	AnonDSN    string `koanf:"anon_dsn"    validate:"required"`
	ServiceDSN string `koanf:"service_dsn" validate:"required"`
}

//
// Storage section
//

// Storage configures the snapshot object store.  SecretKey usually comes
// from Vault via the `vault:` prefix.
type Storage struct {
	Endpoint      string `koanf:"endpoint"        validate:"required"`
	AccessKey     string `koanf:"access_key"      validate:"required"`
	SecretKey     string `koanf:"secret_key"      validate:"required"`
	Bucket        string `koanf:"bucket"          validate:"required"`
	UseSSL        bool   `koanf:"use_ssl"`
	PublicBaseURL string `koanf:"public_base_url"`
}

//
// Site section
//

// Site holds the platform-wide rendering constants.
type Site struct {
	RootDomain     string   `koanf:"root_domain" validate:"required,fqdn"`
	PlatformName   string   `koanf:"platform_name"`
	DefaultOGImage string   `koanf:"default_og_image" validate:"required,url"`
	AssetPath      string   `koanf:"asset_path"`
	ShellPaths     []string `koanf:"shell_paths"`
}

//
// Auth section
//

// Auth carries the shared secret for verifying the auth collaborator's
// access tokens.
type Auth struct {
	JWTSecret string `koanf:"jwt_secret" validate:"required"`
}

//
// Cache section
//

// Cache tunes the tenant record cache.  Zero values fall back to the
// package defaults in internal/tenant.
type Cache struct {
	RecordTTL  time.Duration `koanf:"record_ttl"`
	IdleTTL    time.Duration `koanf:"idle_ttl"`
	MaxEntries int           `koanf:"max_entries"`
}

//
// GeoIP section
//

// GeoIP points at the optional GeoLite2-City database for request
// enrichment.  Empty path disables geo lookup.
type GeoIP struct {
	DBPath string `koanf:"db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or VITRINE_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // VITRINE_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Storage  Storage  `koanf:"storage"`
	Site     Site     `koanf:"site"`
	Auth     Auth     `koanf:"auth"`
	Cache    Cache    `koanf:"cache"`
	GeoIP    GeoIP    `koanf:"geoip"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
