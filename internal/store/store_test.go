package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nigaran-engine/internal/domain"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	d, err := Open(Options{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "test.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	require.NoError(t, d.Migrate(context.Background()))
	return d
}

func ptr[T any](v T) *T { return &v }

func TestMigrate_Idempotent(t *testing.T) {
	d := openTest(t)
	ctx := context.Background()

	require.NoError(t, d.Migrate(ctx))
	v, err := d.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), v)
}

func TestOpen_SecondOpenIsLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locked.db")
	d, err := Open(Options{Driver: "sqlite", Path: path}, nil)
	require.NoError(t, err)
	defer d.Close()

	_, err = Open(Options{Driver: "sqlite", Path: path}, nil)
	assert.ErrorIs(t, err, ErrLocked)
}

func TestRebind(t *testing.T) {
	pg := &DB{Dialect: Postgres}
	lite := &DB{Dialect: SQLite}
	q := `UPDATE t SET a = ?, b = ? WHERE id = ?;`

	assert.Equal(t, `UPDATE t SET a = $1, b = $2 WHERE id = $3;`, pg.Rebind(q))
	assert.Equal(t, q, lite.Rebind(q))
}

func TestLeads_RoundTripAndOrder(t *testing.T) {
	d := openTest(t)
	ctx := context.Background()
	leads := d.Leads()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	second := domain.Lead{ID: "b", Name: "Second", ContactNumber: "9123456780", ElectricityBill: 1500, City: "Madurai", Category: domain.LeadResidential, CreatedAt: base.Add(time.Minute)}
	first := domain.Lead{ID: "a", Name: "First", ContactNumber: "9876543210", ElectricityBill: 3000, City: "Chennai", CompanyName: ptr("Acme Co"), Category: domain.LeadCommercial, CreatedAt: base}
	require.NoError(t, leads.Insert(ctx, second))
	require.NoError(t, leads.Insert(ctx, first))

	got, err := leads.Get(ctx, "a")
	require.NoError(t, err)
	if diff := cmp.Diff(first, got); diff != "" {
		t.Fatalf("lead mismatch (-want +got):\n%s", diff)
	}

	all, err := leads.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)

	_, err = leads.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTestimonials_InsertionOrder(t *testing.T) {
	d := openTest(t)
	ctx := context.Background()
	s := d.Testimonials()

	for _, id := range []string{"z", "a", "m"} {
		require.NoError(t, s.Insert(ctx, domain.Testimonial{ID: id, Name: "N " + id, Role: "Owner", Content: "Great service overall", ImageURL: "https://x.io/i.png"}))
	}
	all, err := s.List(ctx)
	require.NoError(t, err)
	var ids []string
	for _, tm := range all {
		ids = append(ids, tm.ID)
	}
	assert.Equal(t, []string{"z", "a", "m"}, ids)
}

func TestBlogs_ReplaceMissing(t *testing.T) {
	d := openTest(t)
	err := d.Blogs().Replace(context.Background(), domain.Blog{ID: "nope", Title: "T"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplications_ListViewsJoinsCareerTitle(t *testing.T) {
	d := openTest(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, d.Careers().Insert(ctx, domain.Career{ID: "c1", Title: "Site Engineer", Type: domain.FullTime, Location: "Chennai", Description: "Lead installs", Requirements: "B.E. Electrical", CreatedAt: now}))
	require.NoError(t, d.Applications().Insert(ctx, domain.JobApplication{ID: "a1", Name: "Meena", Email: "m@example.com", Phone: "9876543210", ResumeURL: "https://x.io/r.pdf", CareerID: "c1", CreatedAt: now}))

	views, err := d.Applications().ListViews(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Site Engineer", views[0].CareerTitle)

	ok, err := d.Careers().Exists(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestApplications_ForeignKeyEnforced(t *testing.T) {
	d := openTest(t)
	err := d.Applications().Insert(context.Background(), domain.JobApplication{ID: "a1", Name: "X", Email: "x@example.com", Phone: "9876543210", ResumeURL: "https://x.io/r.pdf", CareerID: "ghost", CreatedAt: time.Now()})
	assert.Error(t, err)
}

func TestResumeFiles_PutGet(t *testing.T) {
	d := openTest(t)
	ctx := context.Background()
	f := ResumeFile{Key: "1700000000000_cv.pdf", FileName: "cv.pdf", ContentType: "application/pdf", Bytes: []byte("%PDF-1.4"), UploadedAt: time.Now().UTC()}

	require.NoError(t, d.ResumeFiles().Put(ctx, f))
	got, err := d.ResumeFiles().Get(ctx, f.Key)
	require.NoError(t, err)
	assert.Equal(t, f.Bytes, got.Bytes)
	assert.Equal(t, "application/pdf", got.ContentType)

	_, err = d.ResumeFiles().Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResumeFiles_PutReplacesSameKey(t *testing.T) {
	d := openTest(t)
	ctx := context.Background()
	f := ResumeFile{Key: "1700000000000_cv.pdf", FileName: "cv.pdf", ContentType: "application/pdf", Bytes: []byte("%PDF-1.4 a"), UploadedAt: time.Now().UTC()}
	require.NoError(t, d.ResumeFiles().Put(ctx, f))

	f.Bytes = []byte("%PDF-1.4 b")
	require.NoError(t, d.ResumeFiles().Put(ctx, f))

	got, err := d.ResumeFiles().Get(ctx, f.Key)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 b"), got.Bytes)
}

func TestPingAndCheckpoint(t *testing.T) {
	d := openTest(t)
	ctx := context.Background()
	assert.NoError(t, d.Ping(ctx))
	assert.NoError(t, d.Checkpoint(ctx))
}

func TestLeads_ListOrdersMixedPrecisionTimestamps(t *testing.T) {
	d := openTest(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// inserted out of order; ids chosen so id order disagrees with time order
	for _, l := range []struct {
		id string
		at time.Time
	}{
		{"d-fourth", base.Add(500 * time.Millisecond)},
		{"c-third", base.Add(123 * time.Millisecond)},
		{"z-first", base},
		{"b-second", base.Add(120 * time.Millisecond)},
	} {
		require.NoError(t, d.Leads().Insert(ctx, domain.Lead{ID: l.id, Name: "N", ContactNumber: "9876543210", ElectricityBill: 1, City: "Chennai", Category: domain.LeadResidential, CreatedAt: l.at}))
	}

	all, err := d.Leads().List(ctx)
	require.NoError(t, err)
	var ids []string
	for _, l := range all {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"z-first", "b-second", "c-third", "d-fourth"}, ids)
	assert.True(t, all[2].CreatedAt.Equal(base.Add(123*time.Millisecond)))
}

func TestParseTime_AcceptsLegacyLayout(t *testing.T) {
	want := time.Date(2026, 3, 1, 10, 0, 0, 500_000_000, time.UTC)
	assert.True(t, parseTime("2026-03-01T10:00:00.5Z").Equal(want))
	assert.True(t, parseTime(formatTime(want)).Equal(want))
	assert.Len(t, formatTime(want), len(formatTime(want.Truncate(time.Second))))
}

func TestCareers_DeleteWithApplicationsIsRefused(t *testing.T) {
	d := openTest(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, d.Careers().Insert(ctx, domain.Career{ID: "c1", Title: "Site Engineer", Type: domain.FullTime, Location: "Chennai", Description: "Lead installs", Requirements: "B.E. Electrical", CreatedAt: now}))
	require.NoError(t, d.Applications().Insert(ctx, domain.JobApplication{ID: "a1", Name: "Meena", Email: "m@example.com", Phone: "9876543210", ResumeURL: "https://x.io/r.pdf", CareerID: "c1", CreatedAt: now}))

	removed, err := d.Careers().Delete(ctx, "c1")
	assert.ErrorIs(t, err, ErrInUse)
	assert.False(t, removed)

	n, err := d.Applications().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	ok, err := d.Careers().Exists(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, ok)

	removed, err = d.Applications().Delete(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = d.Careers().Delete(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestDelete_ReportsMissingRow(t *testing.T) {
	d := openTest(t)
	removed, err := d.Blogs().Delete(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, removed)
}
