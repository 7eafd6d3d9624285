package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/gridcalc/internal/config"
	"github.com/specialistvlad/gridcalc/internal/workbook"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	loader     config.Loader
	writer     config.Writer
	book       *workbook.Workbook
	httpServer *http.Server
}

// Option configures an App.
type Option func(*appOptions)

type appOptions struct {
	logW io.Writer
}

// WithLogOutput sends log records to w instead of the output writer.
func WithLogOutput(w io.Writer) Option {
	return func(o *appOptions) {
		o.logW = w
	}
}

// NewApp is the constructor for the main application. Cell values are printed
// to outW; log records go there too unless WithLogOutput says otherwise.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, writer config.Writer, opts ...Option) *App {
	o := appOptions{logW: outW}
	for _, opt := range opts {
		opt(&o)
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, o.logW)
	logger.Debug("Logger configured successfully.")

	return &App{
		ctx:    context.Background(),
		outW:   outW,
		logger: logger,
		config: cfg,
		loader: loader,
		writer: writer,
		book:   workbook.New(),
	}
}

// Workbook returns the application's workbook. This is primarily for testing.
func (a *App) Workbook() *workbook.Workbook {
	return a.book
}
