package workbook

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/specialistvlad/gridcalc/internal/cellname"
	"github.com/specialistvlad/gridcalc/internal/ctxlog"
	"github.com/specialistvlad/gridcalc/internal/formula"
	"github.com/specialistvlad/gridcalc/internal/notify"
	"github.com/specialistvlad/gridcalc/internal/sheet"
)

// ErrNotNumber is returned by formula lookups of cells without a numeric value.
var ErrNotNumber = errors.New("workbook: cell has no numeric value")

// Workbook is a sheet together with the computed value of every cell.
type Workbook struct {
	// mu serializes edits so that values always match the sheet.
	mu       sync.RWMutex
	sheet    *sheet.Sheet
	validate func(string) bool
	notifier notify.Notifier
	values   map[string]Value
	changed  bool
}

// Option configures a Workbook.
type Option func(*Workbook)

// WithValidator replaces the cell-name predicate for both the sheet and the
// formulas parsed from raw input. The default is cellname.IsValid.
func WithValidator(fn func(string) bool) Option {
	return func(w *Workbook) {
		w.validate = fn
	}
}

// WithNotifier sets the notifier that receives an event after every edit.
func WithNotifier(n notify.Notifier) Option {
	return func(w *Workbook) {
		w.notifier = n
	}
}

// SetNotifier replaces the notifier. A nil notifier disables notifications.
func (w *Workbook) SetNotifier(n notify.Notifier) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.notifier = n
}

// New creates an empty workbook.
func New(opts ...Option) *Workbook {
	w := &Workbook{
		validate: cellname.IsValid,
		values:   make(map[string]Value),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.sheet = sheet.New(sheet.WithValidator(w.validate))
	return w
}

// Parse turns raw user input into cell contents. A leading '=' makes a
// formula, a finite number makes a Number, "" makes Empty and anything else
// is Text.
func (w *Workbook) Parse(raw string) (sheet.Contents, error) {
	if strings.HasPrefix(raw, "=") {
		f, err := formula.Parse(raw, formula.WithValidator(w.validate))
		if err != nil {
			return nil, err
		}
		return sheet.Formula{Formula: f}, nil
	}
	if raw == "" {
		return sheet.Empty{}, nil
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && !math.IsInf(v, 0) && !math.IsNaN(v) {
		return sheet.Number(v), nil
	}
	return sheet.Text(raw), nil
}

// SetContents parses raw and stores it in the cell. See Set.
func (w *Workbook) SetContents(ctx context.Context, name, raw string) ([]string, error) {
	if err := w.checkName(name); err != nil {
		return nil, err
	}
	c, err := w.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("cell %s: %w", name, err)
	}
	return w.Set(ctx, name, c)
}

// Set stores c in the cell, re-evaluates every affected cell and returns the
// order they were evaluated in. On error nothing changes.
func (w *Workbook) Set(ctx context.Context, name string, c sheet.Contents) ([]string, error) {
	w.mu.Lock()
	order, err := w.sheet.SetContents(name, c)
	if err != nil {
		w.mu.Unlock()
		return nil, err
	}
	w.recalculate(order)
	w.changed = true
	ev := w.event(name, order)
	notifier := w.notifier
	w.mu.Unlock()

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Cell updated", "cell", name, "contents", c.String(), "order", order)
	if notifier != nil {
		if err := notifier.Notify(ctx, ev); err != nil {
			logger.Warn("Failed to publish recalculation", "cell", name, "error", err)
		}
	}
	return order, nil
}

// recalculate evaluates the cells in order. Caller must hold the write lock.
func (w *Workbook) recalculate(order []string) {
	for _, name := range order {
		c, err := w.sheet.Contents(name)
		if err != nil {
			w.values[name] = Value{Kind: KindError, Err: err}
			continue
		}
		switch v := c.(type) {
		case sheet.Number:
			w.values[name] = Value{Kind: KindNumber, Number: float64(v)}
		case sheet.Text:
			w.values[name] = Value{Kind: KindText, Text: string(v)}
		case sheet.Formula:
			n, err := v.Evaluate(w.lookup)
			if err != nil {
				w.values[name] = Value{Kind: KindError, Err: err}
			} else {
				w.values[name] = Value{Kind: KindNumber, Number: n}
			}
		default:
			delete(w.values, name)
		}
	}
}

// lookup resolves a formula reference against the cached values. Caller must
// hold the lock.
func (w *Workbook) lookup(name string) (float64, error) {
	v, ok := w.values[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s is empty", ErrNotNumber, name)
	}
	if v.Kind != KindNumber {
		return 0, fmt.Errorf("%w: %s is %s", ErrNotNumber, name, v.Kind)
	}
	return v.Number, nil
}

// event builds the notification for an edit. Caller must hold the lock.
func (w *Workbook) event(name string, order []string) notify.Event {
	values := make(map[string]any, len(order))
	for _, n := range order {
		values[n] = w.values[n].Interface()
	}
	return notify.Event{Cell: name, Order: order, Values: values}
}

func (w *Workbook) checkName(name string) error {
	if name == "" || !w.validate(name) {
		return &sheet.NameError{Name: name}
	}
	return nil
}

// Value returns the computed value of the cell.
func (w *Workbook) Value(name string) (Value, error) {
	if err := w.checkName(name); err != nil {
		return Value{}, err
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	if v, ok := w.values[name]; ok {
		return v, nil
	}
	return Value{Kind: KindEmpty}, nil
}

// Values returns a copy of the computed values of all non-empty cells.
func (w *Workbook) Values() map[string]Value {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make(map[string]Value, len(w.values))
	for k, v := range w.values {
		out[k] = v
	}
	return out
}

// Contents returns what the cell holds.
func (w *Workbook) Contents(name string) (sheet.Contents, error) {
	return w.sheet.Contents(name)
}

// NonEmptyCellNames yields the names of all non-empty cells.
func (w *Workbook) NonEmptyCellNames() iter.Seq[string] {
	return w.sheet.NonEmptyCellNames()
}

// DirectDependents returns the cells whose formulas reference name.
func (w *Workbook) DirectDependents(name string) ([]string, error) {
	return w.sheet.DirectDependents(name)
}

// Changed reports whether the workbook was edited since it was created or
// last marked saved.
func (w *Workbook) Changed() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.changed
}

// MarkSaved clears the changed flag.
func (w *Workbook) MarkSaved() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.changed = false
}

// Sheet returns the underlying sheet. Edits made directly on it bypass
// evaluation.
func (w *Workbook) Sheet() *sheet.Sheet {
	return w.sheet
}
