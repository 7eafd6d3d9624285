package app

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/specialistvlad/gridcalc/internal/cellname"
	"github.com/specialistvlad/gridcalc/internal/ctxlog"
	"github.com/specialistvlad/gridcalc/internal/notify"
	"github.com/specialistvlad/gridcalc/internal/workbook"
)

// Run executes the main application logic based on the provided configuration.
// When a serve port is configured Run blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")

	if len(a.config.SheetPaths) > 0 {
		model, err := a.loader.Load(ctx, a.config.SheetPaths...)
		if err != nil {
			return fmt.Errorf("failed to load sheet: %w", err)
		}
		if err := a.book.Apply(ctx, model); err != nil {
			return fmt.Errorf("failed to apply sheet: %w", err)
		}
		a.book.MarkSaved()
		refCells, refs := a.book.Sheet().Dependencies()
		a.logger.Info("Sheet loaded.", "cells", len(model.Cells), "referenced_cells", refCells, "references", refs)
	}

	notifier, closeNotifier, err := a.buildNotifier(ctx)
	if err != nil {
		return err
	}
	defer closeNotifier()
	a.book.SetNotifier(notifier)

	for _, edit := range a.config.Edits {
		order, err := a.book.SetContents(ctx, edit.Name, edit.Raw)
		if err != nil {
			return fmt.Errorf("failed to set %s: %w", edit.Name, err)
		}
		a.logger.Info("Recalculated.", "cell", edit.Name, "order", order)
	}

	a.printValues()

	if err := a.save(true); err != nil {
		return err
	}

	if a.config.ServePort > 0 {
		a.startServer()
		<-ctx.Done()
		if err := a.closeServer(); err != nil {
			return err
		}
		if err := a.save(false); err != nil {
			return err
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// buildNotifier assembles the notifiers the configuration asks for. The
// returned close function is always safe to call.
func (a *App) buildNotifier(ctx context.Context) (notify.Notifier, func(), error) {
	notifiers := notify.Multi{notify.LogNotifier{}}
	closeFn := func() {}

	if a.config.NotifyURL != "" {
		pub, err := notify.DialSocketIO(ctx, notify.SocketIOConfig{
			URL:                a.config.NotifyURL,
			Namespace:          a.config.NotifyNamespace,
			Event:              a.config.NotifyEvent,
			InsecureSkipVerify: a.config.NotifyInsecure,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect notifier: %w", err)
		}
		notifiers = append(notifiers, pub)
		closeFn = func() {
			if err := pub.Close(); err != nil {
				a.logger.Warn("Failed to close notifier", "error", err)
			}
		}
	}
	return notifiers, closeFn, nil
}

// printValues writes "NAME = value" for every non-empty cell, column by
// column and then by row.
func (a *App) printValues() {
	for _, name := range slices.SortedFunc(a.book.NonEmptyCellNames(), cellname.Compare) {
		v, err := a.book.Value(name)
		if err != nil {
			continue
		}
		if v.Kind == workbook.KindError {
			fmt.Fprintf(a.outW, "%s = %s: %v\n", name, v, v.Err)
			continue
		}
		fmt.Fprintf(a.outW, "%s = %s\n", name, v)
	}
}

// save writes the workbook to the configured output path. Unless force is
// set, a workbook without unsaved changes is not written.
func (a *App) save(force bool) error {
	if a.config.OutPath == "" {
		return nil
	}
	if !force && !a.book.Changed() {
		a.logger.Debug("No unsaved changes.", "path", a.config.OutPath)
		return nil
	}

	f, err := os.Create(a.config.OutPath)
	if err != nil {
		return fmt.Errorf("failed to save sheet: %w", err)
	}
	if err := a.writer.Write(f, a.book.Model()); err != nil {
		f.Close()
		return fmt.Errorf("failed to save sheet: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to save sheet: %w", err)
	}

	a.book.MarkSaved()
	a.logger.Info("Sheet saved.", "path", a.config.OutPath)
	return nil
}
