// internal/snapshot/store.go
//
// Object-store-backed cache of published tenant documents.
//
// Context
// -------
// One snapshot may exist per subdomain, at bucket path
// `html/{subdomain}.html`.  Writes are upserts with the store's native
// last-writer-wins semantics; there is no versioning and no TTL expiry.
// Reads probe with a HEAD-equivalent StatObject first so a miss never pays
// for a full GET.
//
// The only freshness rule is the bundle marker: a snapshot whose body
// still references the pre-build dev entry script was rendered before a
// deployment changed the client bundle layout and must not be served.
// Callers treat such a snapshot exactly like a miss.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// staleAssetMarker identifies documents rendered against the unbundled dev
// entry point instead of the built asset path.
const staleAssetMarker = "/src/main."

// snapshotContentType is set on every upload.
const snapshotContentType = "text/html; charset=utf-8"

// Config carries the object-store connection settings.
type Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string // CDN or bucket website base, no trailing slash
}

// Store wraps the object-store client for snapshot access.
type Store struct {
	cli        *minio.Client
	bucket     string
	publicBase string
}

// New connects the snapshot store.  The bucket must already exist; bucket
// provisioning belongs to infrastructure, not request serving.
func New(cfg Config) (*Store, error) {
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot: connect object store: %w", err)
	}
	return &Store{
		cli:        cli,
		bucket:     cfg.Bucket,
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// objectKey maps a subdomain to its single snapshot path.
func objectKey(subdomain string) string {
	return "html/" + subdomain + ".html"
}

// Get returns the snapshot body for subdomain.  ok is false on miss; an
// error means the store misbehaved and the caller should fall back to a
// dynamic render.
func (s *Store) Get(ctx context.Context, subdomain string) (html string, ok bool, err error) {
	key := objectKey(subdomain)

	// Existence probe first to bound miss latency.
	if _, err := s.cli.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("snapshot: stat %s: %w", key, err)
	}

	obj, err := s.cli.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return "", false, fmt.Errorf("snapshot: get %s: %w", key, err)
	}
	defer obj.Close()

	body, err := io.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			// Deleted between probe and fetch.
			return "", false, nil
		}
		return "", false, fmt.Errorf("snapshot: read %s: %w", key, err)
	}
	return string(body), true, nil
}

// Put upserts the snapshot for subdomain.
func (s *Store) Put(ctx context.Context, subdomain, html string) error {
	key := objectKey(subdomain)
	body := []byte(html)
	_, err := s.cli.PutObject(ctx, s.bucket, key,
		bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: snapshotContentType})
	if err != nil {
		return fmt.Errorf("snapshot: put %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the externally reachable URL of a snapshot.
func (s *Store) PublicURL(subdomain string) string {
	if s.publicBase != "" {
		return s.publicBase + "/" + objectKey(subdomain)
	}
	u := *s.cli.EndpointURL()
	u.Path = "/" + s.bucket + "/" + objectKey(subdomain)
	return u.String()
}

// IsStale reports whether a snapshot body predates the current bundle
// layout and must fall through to a dynamic render.
func IsStale(html string) bool {
	return strings.Contains(html, staleAssetMarker)
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == 404
}
