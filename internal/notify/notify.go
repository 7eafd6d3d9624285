package notify

import (
	"context"
	"errors"

	"github.com/specialistvlad/gridcalc/internal/ctxlog"
)

// Event describes one recalculation.
type Event struct {
	// Cell is the cell that was edited.
	Cell string `json:"cell"`
	// Order lists the cells that were re-evaluated, starting with Cell.
	Order []string `json:"order"`
	// Values maps every cell in Order to its new value: nil for an empty
	// cell, float64, string, or an {"error": message} map.
	Values map[string]any `json:"values"`
}

// Payload converts the event into the plain map sent over the wire.
func (e Event) Payload() map[string]any {
	order := make([]any, len(e.Order))
	for i, name := range e.Order {
		order[i] = name
	}
	values := make(map[string]any, len(e.Values))
	for k, v := range e.Values {
		values[k] = v
	}
	return map[string]any{
		"cell":   e.Cell,
		"order":  order,
		"values": values,
	}
}

// Notifier receives recalculation events.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// LogNotifier writes each event to the logger carried by the context.
type LogNotifier struct{}

// Notify implements Notifier.
func (LogNotifier) Notify(ctx context.Context, ev Event) error {
	ctxlog.FromContext(ctx).Debug("Recalculated", "cell", ev.Cell, "order", ev.Order, "values", ev.Values)
	return nil
}

// Multi delivers every event to each of its notifiers in turn. A failing
// notifier does not stop the others; all failures are joined.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(ctx context.Context, ev Event) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
