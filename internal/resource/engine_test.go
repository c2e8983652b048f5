package resource

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nigaran-engine/internal/apperr"
	"nigaran-engine/internal/domain"
	"nigaran-engine/internal/schema"
	"nigaran-engine/internal/store"
)

type sent struct {
	kind, to, name, position string
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []sent
	err   error
}

func (f *fakeNotifier) SendThankYou(_ context.Context, to, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sent{kind: "thank_you", to: to, name: name})
	return f.err
}

func (f *fakeNotifier) SendApplicationReceived(_ context.Context, to, name, position string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sent{kind: "application", to: to, name: name, position: position})
	return f.err
}

type recorder struct {
	mu    sync.Mutex
	types []string
}

func (r *recorder) Publish(_ context.Context, typ string, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, typ)
}

type fixture struct {
	db     *store.DB
	engine *Engine
	notes  *fakeNotifier
	events *recorder
	clock  time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := store.Open(store.Options{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "engine.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(context.Background()))

	f := &fixture{
		db:     db,
		notes:  &fakeNotifier{},
		events: &recorder{},
		clock:  time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
	}
	tick := 0
	f.engine = NewEngine(Deps{
		DB:       db,
		Schema:   schema.New(),
		Notifier: f.notes,
		Events:   f.events,
		Options: []Option{WithClock(func() time.Time {
			tick++
			return f.clock.Add(time.Duration(tick) * time.Minute)
		})},
	})
	return f
}

func ptr[T any](v T) *T { return &v }

func acmeLead() domain.LeadInput {
	return domain.LeadInput{
		Name:            "Karthik",
		ContactNumber:   "9876543210",
		ElectricityBill: ptr(3000),
		City:            "Chennai",
		CompanyName:     ptr("Acme Co"),
		Category:        "commercial",
	}
}

func career() domain.CareerInput {
	return domain.CareerInput{
		Title:        "Installation Engineer",
		Type:         "Full-Time",
		Location:     "Coimbatore",
		Description:  "Lead rooftop installation crews",
		Requirements: "Diploma in electrical engineering",
		Salary:       ptr("4-6 LPA"),
	}
}

func TestLeadCreate_CommercialScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lead, err := f.engine.Leads.Create(ctx, acmeLead())
	require.NoError(t, err)
	assert.Equal(t, domain.LeadCommercial, lead.Category)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, 3000, lead.ElectricityBill)

	require.Len(t, f.notes.calls, 1)
	assert.Equal(t, sent{kind: "thank_you", to: "9876543210@whatsapp.com", name: "Karthik"}, f.notes.calls[0])
	assert.Equal(t, []string{"lead_created"}, f.events.types)
}

func TestLeadCreate_NotificationFailureKeepsRecord(t *testing.T) {
	f := newFixture(t)
	f.notes.err = errors.New("mail api down")
	ctx := context.Background()

	lead, err := f.engine.Leads.Create(ctx, acmeLead())
	require.NoError(t, err)

	got, err := f.engine.Leads.Read(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, lead.ID, got.ID)
	assert.Len(t, f.notes.calls, 1)
}

func TestLeadCreate_FreshIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		in := acmeLead()
		in.Name = fmt.Sprintf("Lead %d", i)
		lead, err := f.engine.Leads.Create(ctx, in)
		require.NoError(t, err)
		assert.False(t, seen[lead.ID], "duplicate id %s", lead.ID)
		seen[lead.ID] = true
	}
}

func TestLeadCreate_BadContactNumberPersistsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, num := range []string{"12345", "0123456789", "98765 43210"} {
		in := acmeLead()
		in.ContactNumber = num
		_, err := f.engine.Leads.Create(ctx, in)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	}
	n, err := f.engine.Leads.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, f.notes.calls)
}

func TestCreateThenRead_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.engine.Blogs.Create(ctx, domain.BlogInput{
		Title:    "  Net metering explained ",
		Excerpt:  "What net metering means for your bill",
		Content:  strings.Repeat("Solar panels export surplus power. ", 5),
		ImageURL: "https://cdn.example.com/net.jpg",
		Category: "Guides",
	})
	require.NoError(t, err)
	assert.Equal(t, "Net metering explained", created.Title)

	got, err := f.engine.Blogs.Read(ctx, created.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(created, got); diff != "" {
		t.Fatalf("read mismatch (-created +read):\n%s", diff)
	}
}

func TestList_StableOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"Anu", "Bala", "Chitra"} {
		_, err := f.engine.Testimonials.Create(ctx, domain.TestimonialInput{
			Name:     name,
			Role:     "Homeowner",
			Content:  "Installation was quick and tidy.",
			ImageURL: "https://cdn.example.com/" + strings.ToLower(name) + ".jpg",
		})
		require.NoError(t, err)
	}

	first, err := f.engine.Testimonials.List(ctx)
	require.NoError(t, err)
	second, err := f.engine.Testimonials.List(ctx)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(first, second))
	require.Len(t, first, 3)
	assert.Equal(t, "Anu", first[0].Name)
	assert.Equal(t, "Chitra", first[2].Name)
}

func TestBlogUpdate_MissingIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Blogs.Update(ctx, "no-such-blog", domain.BlogInput{
		Title:    "Ghost post",
		Excerpt:  "This should never be stored",
		Content:  strings.Repeat("x", 60),
		ImageURL: "https://cdn.example.com/ghost.jpg",
		Category: "News",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	n, err := f.engine.Blogs.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NotContains(t, f.events.types, "blog_updated")
}

func TestBlogUpdate_ReplacesAndKeepsIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := domain.BlogInput{
		Title:    "Subsidy guide",
		Excerpt:  "How to claim the rooftop subsidy",
		Content:  strings.Repeat("Apply on the national portal. ", 4),
		ImageURL: "https://cdn.example.com/subsidy.jpg",
		Category: "Guides",
	}
	created, err := f.engine.Blogs.Create(ctx, in)
	require.NoError(t, err)

	in.Title = "Subsidy guide 2026"
	updated, err := f.engine.Blogs.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	assert.Equal(t, "Subsidy guide 2026", updated.Title)
}

func TestCareerPatch_KeepsUnspecifiedFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.engine.Careers.Create(ctx, career())
	require.NoError(t, err)

	patched, err := f.engine.PatchCareer(ctx, c.ID, domain.CareerPatch{Location: ptr("Madurai")})
	require.NoError(t, err)

	want := c
	want.Location = "Madurai"
	if diff := cmp.Diff(want, patched); diff != "" {
		t.Fatalf("patch changed more than location (-want +got):\n%s", diff)
	}

	stored, err := f.engine.Careers.Read(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(want, stored))
}

func TestCareerPatch_InvalidMergedValue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.engine.Careers.Create(ctx, career())
	require.NoError(t, err)

	_, err = f.engine.PatchCareer(ctx, c.ID, domain.CareerPatch{Type: ptr("Contract")})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.engine.PatchCareer(ctx, "missing", domain.CareerPatch{Title: ptr("x")})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDelete_MissingIsNoop(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.engine.Leads.Delete(context.Background(), "never-existed"))
	assert.Empty(t, f.events.types, "no event for a row that never existed")
}

func TestDelete_PublishesOnlyWhenRemoved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lead, err := f.engine.Leads.Create(ctx, acmeLead())
	require.NoError(t, err)
	require.NoError(t, f.engine.Leads.Delete(ctx, lead.ID))
	require.NoError(t, f.engine.Leads.Delete(ctx, lead.ID))

	assert.Equal(t, []string{"lead_created", "lead_deleted"}, f.events.types)
}

func TestCareerDelete_RefusedWhileApplicationsExist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.engine.Careers.Create(ctx, career())
	require.NoError(t, err)
	app, err := f.engine.Applications.Create(ctx, domain.ApplicationInput{
		Name:      "Meena",
		Email:     "meena@example.com",
		Phone:     "9876543210",
		ResumeURL: "https://files.example.com/resume.pdf",
		CareerID:  c.ID,
	})
	require.NoError(t, err)

	err = f.engine.Careers.Delete(ctx, c.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.NotContains(t, f.events.types, "career_deleted")

	views, err := f.engine.ApplicationViews(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Installation Engineer", views[0].CareerTitle)

	require.NoError(t, f.engine.Applications.Delete(ctx, app.ID))
	assert.NoError(t, f.engine.Careers.Delete(ctx, c.ID))
}

func TestApplicationCreate_UnknownCareer(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Applications.Create(context.Background(), domain.ApplicationInput{
		Name:      "Meena",
		Email:     "meena@example.com",
		Phone:     "9876543210",
		ResumeURL: "https://files.example.com/resume.pdf",
		CareerID:  "ghost",
	})
	require.Error(t, err)
	fields := apperr.FieldsOf(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "careerId", fields[0].Field)
	assert.Empty(t, f.notes.calls)
}

func TestApplicationCreate_ConfirmsAndJoinsTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.engine.Careers.Create(ctx, career())
	require.NoError(t, err)

	app, err := f.engine.Applications.Create(ctx, domain.ApplicationInput{
		Name:      "Meena",
		Email:     "meena@example.com",
		Phone:     "9876543210",
		ResumeURL: "https://files.example.com/resume.pdf",
		CareerID:  c.ID,
	})
	require.NoError(t, err)

	require.Len(t, f.notes.calls, 1)
	assert.Equal(t, sent{kind: "application", to: "meena@example.com", name: "Meena", position: "Installation Engineer"}, f.notes.calls[0])

	views, err := f.engine.ApplicationViews(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, app.ID, views[0].ID)
	assert.Equal(t, "Installation Engineer", views[0].CareerTitle)
}

func TestBlogView_ReadMinutes(t *testing.T) {
	v := BlogView(domain.Blog{Content: "<p>" + strings.Repeat("word ", 401) + "</p>"})
	assert.Equal(t, 3, v.ReadMinutes)
}
