// Package relay turns posted form submissions into rows of per-form sheets.
package relay

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/poku-e/a1scrap/internal/forms"
	"github.com/poku-e/a1scrap/internal/sheets"
)

// Service validates submissions and appends them to the sheet store.
// It holds no per-request state; the store serializes sheet creation.
type Service struct {
	store  sheets.Store
	now    func() time.Time
	loc    *time.Location
	logger *zap.Logger
}

type Option func(*Service)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithLocation sets the zone row timestamps are written in. Default UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(store sheets.Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now, loc: time.UTC, logger: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Receipt describes an accepted submission.
type Receipt struct {
	ID      string
	Type    forms.Type
	Sheet   string
	Created bool // the sheet was created by this submission
}

// Submit runs the relay steps in order: honeypot, type, sheet, row, append.
func (s *Service) Submit(ctx context.Context, sub forms.Submission) (Receipt, error) {
	if sub.Honeypot() {
		return Receipt{}, ErrSpam
	}

	name := sub.TypeName()
	schema, ok := forms.Lookup(name)
	if !ok {
		return Receipt{}, &invalidTypeError{name: name}
	}

	created, err := s.store.Ensure(ctx, schema.Sheet, schema.Header())
	if err != nil {
		return Receipt{}, storeErr("open sheet "+schema.Sheet, err)
	}
	if created {
		s.logger.Info("sheet created", zap.String("sheet", schema.Sheet), zap.String("form", name))
	}

	row := schema.Row(sub, s.now().In(s.loc))
	if err := s.store.Append(ctx, schema.Sheet, row); err != nil {
		return Receipt{}, storeErr("append to "+schema.Sheet, err)
	}

	r := Receipt{ID: uuid.NewString(), Type: schema.Type, Sheet: schema.Sheet, Created: created}
	s.logger.Debug("submission stored",
		zap.String("id", r.ID),
		zap.String("form", name),
		zap.String("sheet", r.Sheet))
	return r, nil
}

// SheetStatus is one line of the status page.
type SheetStatus struct {
	Type        forms.Type
	Name        string
	Exists      bool
	Submissions int
}

// Status reports every known sheet, whether it exists, and its data row count.
func (s *Service) Status(ctx context.Context) ([]SheetStatus, error) {
	var out []SheetStatus
	for _, schema := range forms.Schemas() {
		n, exists, err := s.store.RowCount(ctx, schema.Sheet)
		if err != nil {
			return nil, storeErr("count "+schema.Sheet, err)
		}
		if n < 0 {
			n = 0
		}
		out = append(out, SheetStatus{Type: schema.Type, Name: schema.Sheet, Exists: exists, Submissions: n})
	}
	return out, nil
}

// Existing filters st down to sheets that have been created.
func Existing(st []SheetStatus) []SheetStatus {
	var out []SheetStatus
	for _, s := range st {
		if s.Exists {
			out = append(out, s)
		}
	}
	return out
}
