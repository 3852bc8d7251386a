// internal/tenant/repository_test.go
//
// Unit-tests for the tenant repository using sqlmock.
//
// Context
// -------
// The repository's contract has two load-bearing properties:
//
//   • the anon path carries an explicit status = 'published' filter, so a
//     broken RLS policy cannot leak draft rows, and
//   • the privileged path carries no status filter at all.
//
// Both are asserted against the literal SQL.  JSONB payload columns are fed
// as raw bytes to exercise the Scan wrappers.
//
// Run: go test ./internal/tenant -v

package tenant

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

var recordCols = []string{
	"id", "subdomain", "custom_domain", "owner_id", "status",
	"briefing_data", "content_data", "design_settings", "section_visibility",
	"layout_variant", "photo_url", "about_photo_url",
	"meta_title", "meta_description", "meta_keywords", "og_image_url",
	"view_count", "last_viewed_at", "created_at", "updated_at",
}

func sampleRow() *sqlmock.Rows {
	now := time.Date(2026, 7, 12, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(recordCols).AddRow(
		"9f1c7a52-0000-4000-8000-000000000001", "drsilva", nil,
		"9f1c7a52-0000-4000-8000-0000000000aa", "published",
		[]byte(`{"name":"Dra. Ana Silva","licenseNumber":"12345","licenseRegion":"SP","specialty":"Dermatologia"}`),
		[]byte(`{"headline":"Pele saudável","about":"Atendimento humanizado"}`),
		[]byte(`{"palette":"sand"}`),
		[]byte(`{"testimonials":false}`),
		2, nil, nil,
		nil, nil, []byte(`["dermatologista","sp"]`), nil,
		int64(7), nil, now, now,
	)
}

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	x := sqlx.NewDb(db, "sqlmock")
	return NewRepository(x, x), mock
}

func TestBySubdomain_FiltersToPublished(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`status    = 'published'`)).
		WithArgs("drsilva").
		WillReturnRows(sampleRow())

	rec, err := repo.BySubdomain(context.Background(), "drsilva")
	if err != nil {
		t.Fatalf("BySubdomain error: %v", err)
	}
	if rec.Subdomain != "drsilva" || !rec.Published() {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Briefing.Name != "Dra. Ana Silva" || rec.Briefing.LicenseRegion != "SP" {
		t.Fatalf("briefing JSONB not scanned: %+v", rec.Briefing)
	}
	if len(rec.MetaKeywords) != 2 || rec.MetaKeywords[0] != "dermatologista" {
		t.Fatalf("keywords JSONB not scanned: %+v", rec.MetaKeywords)
	}
	if rec.Visibility.Visible("testimonials") {
		t.Fatalf("visibility JSONB not scanned: %+v", rec.Visibility)
	}
	if !rec.Visibility.Visible("services") {
		t.Fatalf("unknown sections must default to visible")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestBySubdomain_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT").
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(recordCols))

	_, err := repo.BySubdomain(context.Background(), "nobody")
	if err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestBySubdomainPrivileged_NoStatusFilter(t *testing.T) {
	repo, mock := newMockRepo(t)

	row := sampleRow()
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE  subdomain = $1
        LIMIT  1`)).
		WithArgs("drsilva").
		WillReturnRows(row)

	rec, err := repo.BySubdomainPrivileged(context.Background(), "drsilva")
	if err != nil {
		t.Fatalf("BySubdomainPrivileged error: %v", err)
	}
	if rec.OwnerID == "" {
		t.Fatalf("owner not scanned: %+v", rec)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestByIDPrivileged(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE  id = $1`)).
		WithArgs("9f1c7a52-0000-4000-8000-000000000001").
		WillReturnRows(sampleRow())

	rec, err := repo.ByIDPrivileged(context.Background(),
		"9f1c7a52-0000-4000-8000-000000000001")
	if err != nil {
		t.Fatalf("ByIDPrivileged error: %v", err)
	}
	if rec.Subdomain != "drsilva" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}
