package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gmllt/organizeu/internal/store"
	"go.uber.org/zap"
)

// ErrNoSuchRow is returned when a positional operation targets a row that is not there.
var ErrNoSuchRow = errors.New("no such row")

// List is one persisted, ordered collection. The in-memory sequence is
// authoritative; rows are a projection of it and every structural change
// is written to the store before it becomes visible.
type List[T any] struct {
	key    string
	store  store.Store
	log    *zap.Logger
	render func(T) Row
	items  []T
}

func newList[T any](key string, s store.Store, log *zap.Logger, render func(T) Row) *List[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &List[T]{
		key:    key,
		store:  s,
		log:    log.With(zap.String("list", key)),
		render: render,
		items:  []T{},
	}
}

func (l *List[T]) Key() string { return l.key }

func (l *List[T]) Len() int { return len(l.items) }

// Items returns a copy of the entries in display order.
func (l *List[T]) Items() []T {
	return append([]T{}, l.items...)
}

func (l *List[T]) At(index int) (T, error) {
	var zero T
	if index < 0 || index >= len(l.items) {
		return zero, fmt.Errorf("%s row %d: %w", l.key, index, ErrNoSuchRow)
	}
	return l.items[index], nil
}

func (l *List[T]) Rows() []Row {
	rows := make([]Row, len(l.items))
	for i, item := range l.items {
		rows[i] = l.render(item)
		rows[i].Index = i
	}
	return rows
}

// Load replaces the list with the stored value. A missing or malformed
// value yields an empty list. A backend failure also leaves the list
// empty and is returned for the caller to report.
func (l *List[T]) Load(ctx context.Context) error {
	l.items = []T{}
	data, err := l.store.Get(ctx, l.key)
	if errors.Is(err, store.ErrNotFound) {
		l.log.Debug("Nothing stored, starting empty")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading %s: %w", l.key, err)
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		l.log.Warn("Ignoring malformed stored value", zap.Error(err))
		return nil
	}
	if items != nil {
		l.items = items
	}
	l.log.Debug("Loaded", zap.Int("entries", len(l.items)))
	return nil
}

// Save writes the whole sequence under the list's key.
func (l *List[T]) Save(ctx context.Context) error {
	return l.commit(ctx, l.items)
}

func (l *List[T]) Append(ctx context.Context, item T) (Row, error) {
	next := make([]T, len(l.items), len(l.items)+1)
	copy(next, l.items)
	next = append(next, item)
	if err := l.commit(ctx, next); err != nil {
		return Row{}, err
	}
	row := l.render(item)
	row.Index = len(next) - 1
	return row, nil
}

func (l *List[T]) Remove(ctx context.Context, index int) (T, error) {
	removed, err := l.At(index)
	if err != nil {
		return removed, err
	}
	next := make([]T, 0, len(l.items)-1)
	next = append(next, l.items[:index]...)
	next = append(next, l.items[index+1:]...)
	if err := l.commit(ctx, next); err != nil {
		var zero T
		return zero, err
	}
	return removed, nil
}

// Update applies fn to a copy of the entry at index and saves the result.
func (l *List[T]) Update(ctx context.Context, index int, fn func(*T)) (T, error) {
	item, err := l.At(index)
	if err != nil {
		return item, err
	}
	fn(&item)
	next := append([]T{}, l.items...)
	next[index] = item
	if err := l.commit(ctx, next); err != nil {
		var zero T
		return zero, err
	}
	return item, nil
}

// commit persists next and only then makes it the current sequence.
func (l *List[T]) commit(ctx context.Context, next []T) error {
	data, err := encode(next)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", l.key, err)
	}
	if err := l.store.Set(ctx, l.key, data); err != nil {
		l.log.Error("Save failed", zap.Error(err))
		return fmt.Errorf("saving %s: %w", l.key, err)
	}
	l.items = next
	l.log.Debug("Saved", zap.Int("entries", len(next)))
	return nil
}

// encode produces compact JSON without HTML escaping.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
