package resource

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"nigaran-engine/internal/apperr"
	"nigaran-engine/internal/content"
	"nigaran-engine/internal/domain"
	"nigaran-engine/internal/events"
	"nigaran-engine/internal/notify"
	"nigaran-engine/internal/schema"
	"nigaran-engine/internal/store"
)

type (
	LeadService        = Service[domain.LeadInput, domain.Lead]
	TestimonialService = Service[domain.TestimonialInput, domain.Testimonial]
	BlogService        = Service[domain.BlogInput, domain.Blog]
	CareerService      = Service[domain.CareerInput, domain.Career]
	ApplicationService = Service[domain.ApplicationInput, domain.JobApplication]
)

// Engine holds one service per managed resource.
type Engine struct {
	Leads        *LeadService
	Testimonials *TestimonialService
	Blogs        *BlogService
	Careers      *CareerService
	Applications *ApplicationService

	applications *store.Applications
}

type Deps struct {
	DB       *store.DB
	Schema   *schema.Validator
	Notifier notify.Notifier
	Events   events.Publisher
	Logger   *zap.Logger
	Options  []Option
}

func NewEngine(d Deps) *Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	log := d.Logger.Named("resource")
	careers := d.DB.Careers()
	applications := d.DB.Applications()

	e := &Engine{applications: applications}

	e.Leads = NewService(Spec[domain.LeadInput, domain.Lead]{
		Name:   "lead",
		Repo:   d.DB.Leads(),
		Schema: d.Schema.Lead,
		Stamp: func(l *domain.Lead, id string, now time.Time) {
			l.ID, l.CreatedAt = id, now
		},
		Carry: func(prev domain.Lead, next *domain.Lead) {
			next.ID, next.CreatedAt = prev.ID, prev.CreatedAt
		},
		AfterCreate: []Hook[domain.Lead]{
			thankLead(d.Notifier),
		},
	}, d.Events, log, d.Options...)

	e.Testimonials = NewService(Spec[domain.TestimonialInput, domain.Testimonial]{
		Name:   "testimonial",
		Repo:   d.DB.Testimonials(),
		Schema: d.Schema.Testimonial,
		Stamp: func(t *domain.Testimonial, id string, _ time.Time) {
			t.ID = id
		},
		Carry: func(prev domain.Testimonial, next *domain.Testimonial) {
			next.ID = prev.ID
		},
	}, d.Events, log, d.Options...)

	e.Blogs = NewService(Spec[domain.BlogInput, domain.Blog]{
		Name:   "blog",
		Repo:   d.DB.Blogs(),
		Schema: d.Schema.Blog,
		Stamp: func(b *domain.Blog, id string, now time.Time) {
			b.ID, b.CreatedAt = id, now
		},
		Carry: func(prev domain.Blog, next *domain.Blog) {
			next.ID, next.CreatedAt = prev.ID, prev.CreatedAt
		},
	}, d.Events, log, d.Options...)

	e.Careers = NewService(Spec[domain.CareerInput, domain.Career]{
		Name:   "career",
		Repo:   careers,
		Schema: d.Schema.Career,
		Stamp: func(c *domain.Career, id string, now time.Time) {
			c.ID, c.CreatedAt = id, now
		},
		Carry: func(prev domain.Career, next *domain.Career) {
			next.ID, next.CreatedAt = prev.ID, prev.CreatedAt
		},
	}, d.Events, log, d.Options...)

	e.Applications = NewService(Spec[domain.ApplicationInput, domain.JobApplication]{
		Name:   "job_application",
		Repo:   applications,
		Schema: d.Schema.Application,
		Stamp: func(a *domain.JobApplication, id string, now time.Time) {
			a.ID, a.CreatedAt = id, now
		},
		Carry: func(prev domain.JobApplication, next *domain.JobApplication) {
			next.ID, next.CreatedAt = prev.ID, prev.CreatedAt
		},
		Check: func(ctx context.Context, a domain.JobApplication) error {
			ok, err := careers.Exists(ctx, a.CareerID)
			if err != nil {
				return apperr.Persistence("look up career", err)
			}
			if !ok {
				return apperr.Validation(apperr.Field("careerId", "This position is no longer open"))
			}
			return nil
		},
		AfterCreate: []Hook[domain.JobApplication]{
			confirmApplication(d.Notifier, careers),
		},
	}, d.Events, log, d.Options...)

	return e
}

func thankLead(n notify.Notifier) Hook[domain.Lead] {
	return func(ctx context.Context, l domain.Lead) error {
		if n == nil {
			return nil
		}
		if err := n.SendThankYou(ctx, notify.LeadAddress(l.ContactNumber), l.Name); err != nil {
			return apperr.Collaborator("send thank-you", err)
		}
		return nil
	}
}

func confirmApplication(n notify.Notifier, careers *store.Careers) Hook[domain.JobApplication] {
	return func(ctx context.Context, a domain.JobApplication) error {
		if n == nil {
			return nil
		}
		position := "the advertised"
		if c, err := careers.Get(ctx, a.CareerID); err == nil {
			position = c.Title
		} else if !errors.Is(err, store.ErrNotFound) {
			return apperr.Persistence("look up career", err)
		}
		if err := n.SendApplicationReceived(ctx, a.Email, a.Name, position); err != nil {
			return apperr.Collaborator("send application confirmation", err)
		}
		return nil
	}
}

// PatchCareer merges the present fields of p onto the stored career and
// validates the result with the full career schema.
func (e *Engine) PatchCareer(ctx context.Context, id string, p domain.CareerPatch) (domain.Career, error) {
	return e.Careers.Patch(ctx, id, p.Apply)
}

// ApplicationViews lists applications joined with their career title.
func (e *Engine) ApplicationViews(ctx context.Context) ([]domain.ApplicationView, error) {
	ctx, span := tracer.Start(ctx, "resource.job_application.list_views")
	defer span.End()

	views, err := e.applications.ListViews(ctx)
	if err != nil {
		return nil, apperr.Persistence("list job_application", err)
	}
	return views, nil
}

func BlogView(b domain.Blog) domain.BlogView {
	return domain.BlogView{Blog: b, ReadMinutes: content.ReadMinutes(b.Content)}
}

func BlogViews(bs []domain.Blog) []domain.BlogView {
	out := make([]domain.BlogView, 0, len(bs))
	for _, b := range bs {
		out = append(out, BlogView(b))
	}
	return out
}
