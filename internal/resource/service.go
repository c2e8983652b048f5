// Package resource is the CRUD engine shared by every managed entity.
//
// A Service pairs a repository with a schema function and applies the same
// create/read/list/update/delete contract to each record type: validation
// errors come back as apperr validation errors, missing ids as not-found,
// and every store failure as a generic persistence error.
package resource

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"nigaran-engine/internal/apperr"
	"nigaran-engine/internal/events"
	"nigaran-engine/internal/store"
	"nigaran-engine/internal/telemetry"
)

var tracer = telemetry.Tracer("nigaran-engine/resource")

type Repository[R any] interface {
	Insert(ctx context.Context, r R) error
	Get(ctx context.Context, id string) (R, error)
	List(ctx context.Context) ([]R, error)
	Replace(ctx context.Context, r R) error
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// Hook runs after a successful create. Hooks are best-effort: their errors
// are logged and never undo the create.
type Hook[R any] func(ctx context.Context, r R) error

type Spec[I, R any] struct {
	// Name is the singular resource name used in events, logs and messages.
	Name string
	Repo Repository[R]

	// Schema validates raw input into a record without id or timestamp.
	Schema func(in I) (R, error)

	// Stamp assigns a fresh id and creation time.
	Stamp func(r *R, id string, now time.Time)

	// Carry copies identity fields (id, creation time) from the stored
	// record onto a replacement.
	Carry func(prev R, next *R)

	// Check runs cross-record validation after Schema, before persisting.
	Check func(ctx context.Context, r R) error

	AfterCreate []Hook[R]
}

type Service[I, R any] struct {
	spec   Spec[I, R]
	events events.Publisher
	logger *zap.Logger

	newID func() string
	now   func() time.Time
}

type Option func(*options)

type options struct {
	newID func() string
	now   func() time.Time
}

func WithIDs(f func() string) Option { return func(o *options) { o.newID = f } }

func WithClock(f func() time.Time) Option { return func(o *options) { o.now = f } }

func NewService[I, R any](spec Spec[I, R], pub events.Publisher, logger *zap.Logger, opts ...Option) *Service[I, R] {
	o := options{
		newID: func() string { return uuid.NewString() },
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, fn := range opts {
		fn(&o)
	}
	if pub == nil {
		pub = events.Discard{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service[I, R]{
		spec:   spec,
		events: pub,
		logger: logger.Named(spec.Name),
		newID:  o.newID,
		now:    o.now,
	}
}

func (s *Service[I, R]) Name() string { return s.spec.Name }

func (s *Service[I, R]) Create(ctx context.Context, in I) (R, error) {
	ctx, span := tracer.Start(ctx, "resource."+s.spec.Name+".create")
	defer span.End()

	var zero R
	rec, err := s.spec.Schema(in)
	if err != nil {
		return zero, err
	}
	if s.spec.Check != nil {
		if err := s.spec.Check(ctx, rec); err != nil {
			return zero, err
		}
	}

	id := s.newID()
	s.spec.Stamp(&rec, id, s.now())
	span.SetAttributes(telemetry.String("resource.id", id))

	if err := s.spec.Repo.Insert(ctx, rec); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		s.logger.Error("create failed", zap.Error(err))
		return zero, apperr.Persistence("create "+s.spec.Name, err)
	}

	for _, hook := range s.spec.AfterCreate {
		if err := hook(ctx, rec); err != nil {
			s.logger.Warn("after-create hook failed", zap.String("id", id), zap.Error(err))
		}
	}
	s.events.Publish(ctx, s.spec.Name+"_created", map[string]any{"id": id})
	s.logger.Info("created", zap.String("id", id))
	return rec, nil
}

func (s *Service[I, R]) Read(ctx context.Context, id string) (R, error) {
	ctx, span := tracer.Start(ctx, "resource."+s.spec.Name+".read")
	defer span.End()
	return s.get(ctx, id)
}

func (s *Service[I, R]) get(ctx context.Context, id string) (R, error) {
	var zero R
	rec, err := s.spec.Repo.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return zero, apperr.NotFound(s.spec.Name + " not found")
	}
	if err != nil {
		s.logger.Error("read failed", zap.String("id", id), zap.Error(err))
		return zero, apperr.Persistence("read "+s.spec.Name, err)
	}
	return rec, nil
}

// List returns every record in creation order (insertion order for
// resources without a timestamp). Paging happens in the listing package.
func (s *Service[I, R]) List(ctx context.Context) ([]R, error) {
	ctx, span := tracer.Start(ctx, "resource."+s.spec.Name+".list")
	defer span.End()

	recs, err := s.spec.Repo.List(ctx)
	if err != nil {
		s.logger.Error("list failed", zap.Error(err))
		return nil, apperr.Persistence("list "+s.spec.Name, err)
	}
	span.SetAttributes(telemetry.Int("resource.count", len(recs)))
	return recs, nil
}

// Update replaces the whole record with validated input.
func (s *Service[I, R]) Update(ctx context.Context, id string, in I) (R, error) {
	ctx, span := tracer.Start(ctx, "resource."+s.spec.Name+".update")
	defer span.End()
	return s.replace(ctx, id, func(R) I { return in })
}

// Patch builds the input from the stored record before validating, so
// fields missing from the request keep their prior values.
func (s *Service[I, R]) Patch(ctx context.Context, id string, merge func(prev R) I) (R, error) {
	ctx, span := tracer.Start(ctx, "resource."+s.spec.Name+".patch")
	defer span.End()
	return s.replace(ctx, id, merge)
}

func (s *Service[I, R]) replace(ctx context.Context, id string, input func(prev R) I) (R, error) {
	var zero R
	prev, err := s.get(ctx, id)
	if err != nil {
		return zero, err
	}

	next, err := s.spec.Schema(input(prev))
	if err != nil {
		return zero, err
	}
	if s.spec.Check != nil {
		if err := s.spec.Check(ctx, next); err != nil {
			return zero, err
		}
	}
	s.spec.Carry(prev, &next)

	if err := s.spec.Repo.Replace(ctx, next); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return zero, apperr.NotFound(s.spec.Name + " not found")
		}
		s.logger.Error("update failed", zap.String("id", id), zap.Error(err))
		return zero, apperr.Persistence("update "+s.spec.Name, err)
	}
	s.events.Publish(ctx, s.spec.Name+"_updated", map[string]any{"id": id})
	s.logger.Info("updated", zap.String("id", id))
	return next, nil
}

// Delete removes the record. Deleting an unknown id succeeds.
func (s *Service[I, R]) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "resource."+s.spec.Name+".delete")
	defer span.End()

	removed, err := s.spec.Repo.Delete(ctx, id)
	if errors.Is(err, store.ErrInUse) {
		return apperr.Conflict("This "+s.spec.Name+" still has related records and cannot be deleted", err)
	}
	if err != nil {
		s.logger.Error("delete failed", zap.String("id", id), zap.Error(err))
		return apperr.Persistence("delete "+s.spec.Name, err)
	}
	if !removed {
		return nil
	}
	s.events.Publish(ctx, s.spec.Name+"_deleted", map[string]any{"id": id})
	s.logger.Info("deleted", zap.String("id", id))
	return nil
}

func (s *Service[I, R]) Count(ctx context.Context) (int, error) {
	n, err := s.spec.Repo.Count(ctx)
	if err != nil {
		return 0, apperr.Persistence("count "+s.spec.Name, err)
	}
	return n, nil
}
