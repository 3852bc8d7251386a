// cmd/web/main.go
//
// Vitrine – HTTP entry point.
//
// Startup sequence
// ----------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Connect Vault when VAULT_ADDR is set; stays optional on dev.
//
//  4. Load and validate the typed configuration tree.
//
//  5. Open the anonymous and service database pools.
//
//  6. Build the tenant record cache, snapshot store, publisher, access
//     checker, and the request dispatcher.
//
//  7. Expose Prometheus /metrics, wrap the dispatcher in the middleware
//     chain (request enrichment → security headers → optional HTTPS
//     redirect), and serve.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vitrinemed/vitrine/internal/access"
	"github.com/vitrinemed/vitrine/internal/config"
	"github.com/vitrinemed/vitrine/internal/database"
	"github.com/vitrinemed/vitrine/internal/dispatch"
	"github.com/vitrinemed/vitrine/internal/logger"
	"github.com/vitrinemed/vitrine/internal/middleware"
	"github.com/vitrinemed/vitrine/internal/render"
	"github.com/vitrinemed/vitrine/internal/requestinfo"
	"github.com/vitrinemed/vitrine/internal/server"
	"github.com/vitrinemed/vitrine/internal/snapshot"
	"github.com/vitrinemed/vitrine/internal/tenant"
	"github.com/vitrinemed/vitrine/internal/vault"
)

const serverEnvPath = "/usr/local/etc/vitrine/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	ctx := context.Background()

	//
	// ── 1.  Vault (optional) and configuration ─────────────────────────
	//
	var secrets config.SecretResolver
	if os.Getenv("VAULT_ADDR") != "" {
		vc, err := vault.New(ctx)
		if err != nil {
			logOut.Fatalw("connect vault", "error", err)
		}
		secrets = vc
		logOut.Infow("vault online")
	}

	cfg, err := config.Load(ctx, secrets)
	if err != nil {
		logOut.Fatalw("load config", "error", err)
	}

	//
	// ── 2.  Database pools ─────────────────────────────────────────────
	//
	anonDB, err := database.Open(cfg.Database.AnonDSN)
	if err != nil {
		logOut.Fatalw("connect anon pool", "error", err)
	}
	defer anonDB.Close()

	serviceDB, err := database.Open(cfg.Database.ServiceDSN)
	if err != nil {
		logOut.Fatalw("connect service pool", "error", err)
	}
	defer serviceDB.Close()
	logOut.Infow("database online")

	repo := tenant.NewRepository(anonDB, serviceDB)

	//
	// ── 3.  Record cache, snapshot store, publisher ────────────────────
	//
	recordTTL := cfg.Cache.RecordTTL
	if recordTTL == 0 {
		recordTTL = tenant.RecordTTL
	}
	idleTTL := cfg.Cache.IdleTTL
	if idleTTL == 0 {
		idleTTL = tenant.IdleTTL
	}
	maxEntries := cfg.Cache.MaxEntries
	if maxEntries == 0 {
		maxEntries = tenant.MaxEntries
	}
	cache := tenant.NewCache(repo, recordTTL, idleTTL, maxEntries)

	store, err := snapshot.New(snapshot.Config{
		Endpoint:      cfg.Storage.Endpoint,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		Bucket:        cfg.Storage.Bucket,
		UseSSL:        cfg.Storage.UseSSL,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		logOut.Fatalw("open snapshot store", "error", err)
	}

	renderCtx := render.Context{
		RootDomain:     cfg.Site.RootDomain,
		PlatformName:   cfg.Site.PlatformName,
		DefaultOGImage: cfg.Site.DefaultOGImage,
		AssetPath:      cfg.Site.AssetPath,
		RecheckURL:     "/api/access/check",
		Year:           time.Now().UTC().Year(),
	}

	publisher := snapshot.NewPublisher(repo, store, cache, renderCtx)

	//
	// ── 4.  Request enrichment (UA + optional GeoIP) ───────────────────
	//
	if cfg.GeoIP.DBPath != "" {
		if err := requestinfo.InitGeo(cfg.GeoIP.DBPath); err != nil {
			logOut.Warnw("geoip disabled", "error", err)
		}
	}

	//
	// ── 5.  Dispatcher and middleware chain ────────────────────────────
	//
	checker := access.NewJWTChecker(cfg.Auth.JWTSecret)
	shell := dispatch.NewShell(cfg.Paths.Root, cfg.Site.ShellPaths)

	d := dispatch.New(cfg.Site.RootDomain, cache, repo, store, checker, renderCtx, shell)
	d.Pinger = repo
	d.Publisher = publisher

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", d)

	var handler http.Handler = mux
	handler = middleware.Security(handler)
	handler = middleware.AccessLog(handler)
	handler = requestinfo.Enrich(handler)
	if cfg.HTTP.ForceHTTPS {
		handler = middleware.ForceHTTPS(cfg.Site.RootDomain, handler)
	}

	//
	// ── 6.  Serve ──────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, handler)
	zap.S().Infow("listening", "addr", cfg.HTTP.ListenAddr, "root_domain", cfg.Site.RootDomain)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logOut.Fatalw("serve", "error", err)
	}
}
