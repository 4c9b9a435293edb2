// Package dashboard holds the application state: the four persisted lists
// (modules, to-do tasks, credits, assignments), the module popup and the
// calendar clock.
package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/gmllt/organizeu/internal/calendar"
	"github.com/gmllt/organizeu/internal/store"
	"go.uber.org/zap"
)

type App struct {
	Modules     *Modules
	Todos       *Todos
	Credits     *Credits
	Assignments *Assignments
	Popup       *Popup

	log *zap.Logger
	now func() time.Time
}

type Option func(*App)

func WithLogger(log *zap.Logger) Option {
	return func(a *App) { a.log = log }
}

// WithClock overrides the time source used by the calendar.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

func New(s store.Store, opts ...Option) *App {
	a := &App{log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	a.Modules = NewModules(s, a.log)
	a.Todos = NewTodos(s, a.log)
	a.Credits = NewCredits(s, a.log)
	a.Assignments = NewAssignments(s, a.log)
	a.Popup = NewPopup(a.Modules)
	return a
}

type loader interface {
	Key() string
	Load(ctx context.Context) error
}

// Load reads every list from the store. A list that cannot be read starts
// empty; the others still load. The joined errors are returned for logging.
func (a *App) Load(ctx context.Context) error {
	var errs []error
	for _, l := range []loader{a.Modules, a.Todos, a.Credits, a.Assignments} {
		if err := l.Load(ctx); err != nil {
			a.log.Warn("List unavailable, starting empty", zap.String("list", l.Key()), zap.Error(err))
			errs = append(errs, err)
		}
	}
	a.log.Info("Dashboard loaded",
		zap.Int("modules", a.Modules.Len()),
		zap.Int("todos", a.Todos.Len()),
		zap.Int("credits", a.Credits.Len()),
		zap.Int("assignments", a.Assignments.Len()))
	return errors.Join(errs...)
}

func (a *App) Calendar() calendar.Month {
	return calendar.For(a.now())
}

type Snapshot struct {
	Modules      []Row          `json:"modules"`
	Todos        []Row          `json:"todos"`
	Credits      []Row          `json:"credits"`
	TotalCredits int            `json:"totalCredits"`
	TotalLabel   string         `json:"totalLabel"`
	Assignments  []Row          `json:"assignments"`
	Calendar     calendar.Month `json:"calendar"`
}

func (a *App) Snapshot() Snapshot {
	return Snapshot{
		Modules:      a.Modules.Rows(),
		Todos:        a.Todos.Rows(),
		Credits:      a.Credits.Rows(),
		TotalCredits: a.Credits.Total(),
		TotalLabel:   a.Credits.TotalLabel(),
		Assignments:  a.Assignments.Rows(),
		Calendar:     a.Calendar(),
	}
}
