package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/specialistvlad/gridcalc/internal/ctxlog"
	"github.com/specialistvlad/gridcalc/internal/formula"
	"github.com/specialistvlad/gridcalc/internal/sheet"
	"github.com/specialistvlad/gridcalc/internal/workbook"
)

// maxEditBytes bounds the body of a PUT /cells/{name} request.
const maxEditBytes = 64 << 10

// routes builds the HTTP handler served on -serve-port.
func (a *App) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.healthHandler)
	mux.HandleFunc("GET /cells", a.cellsHandler)
	mux.HandleFunc("GET /cells/{name}", a.cellHandler)
	mux.HandleFunc("PUT /cells/{name}", a.setCellHandler)
	return mux
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(a.ctx)
	logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// cellsHandler returns the value of every non-empty cell.
func (a *App) cellsHandler(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.book.Values())
}

type cellResponse struct {
	Name       string         `json:"name"`
	Contents   string         `json:"contents"`
	Value      workbook.Value `json:"value"`
	Dependents []string       `json:"dependents"`
	References []string       `json:"references,omitempty"`
	Functions  []string       `json:"functions,omitempty"`
}

func (a *App) cellHandler(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	c, err := a.book.Contents(name)
	if err != nil {
		a.writeError(w, err)
		return
	}
	v, err := a.book.Value(name)
	if err != nil {
		a.writeError(w, err)
		return
	}
	deps, err := a.book.DirectDependents(name)
	if err != nil {
		a.writeError(w, err)
		return
	}
	resp := cellResponse{Name: name, Contents: c.String(), Value: v, Dependents: deps}
	if f, ok := c.(sheet.Formula); ok && f.Formula != nil {
		resp.References = f.Variables()
		resp.Functions = f.Functions()
	}
	a.writeJSON(w, http.StatusOK, resp)
}

type setCellResponse struct {
	Order  []string                  `json:"order"`
	Values map[string]workbook.Value `json:"values"`
}

// setCellHandler stores the raw request body in the cell.
func (a *App) setCellHandler(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxEditBytes))
	if err != nil {
		a.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	order, err := a.book.SetContents(a.ctx, name, string(raw))
	if err != nil {
		a.writeError(w, err)
		return
	}
	ctxlog.FromContext(a.ctx).Info("Recalculated.", "cell", name, "order", order, "remote_addr", r.RemoteAddr)

	values := make(map[string]workbook.Value, len(order))
	for _, n := range order {
		if v, err := a.book.Value(n); err == nil {
			values[n] = v
		}
	}
	a.writeJSON(w, http.StatusOK, setCellResponse{Order: order, Values: values})
}

// writeError maps domain errors to HTTP status codes.
func (a *App) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, sheet.ErrInvalidName):
		status = http.StatusBadRequest
	case errors.Is(err, formula.ErrFormulaFormat):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, sheet.ErrCircularDependency):
		status = http.StatusConflict
	}
	a.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeJSON encodes body before touching the response, so an encoding
// failure still produces a well-formed 500.
func (a *App) writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		ctxlog.FromContext(a.ctx).Error("Failed to encode response", "status", status, "error", err)
		status = http.StatusInternalServerError
		data, _ = json.Marshal(map[string]string{"error": "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		ctxlog.FromContext(a.ctx).Debug("Failed to write response", "error", err)
	}
}

// startServer initializes and runs the HTTP server in the background.
func (a *App) startServer() {
	logger := ctxlog.FromContext(a.ctx)
	addr := fmt.Sprintf(":%d", a.config.ServePort)

	a.httpServer = &http.Server{
		Addr:              addr,
		Handler:           a.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "address", fmt.Sprintf("http://localhost%s", addr))
		// ListenAndServe will return an error on graceful shutdown.
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed unexpectedly", "error", err)
		}
	}()
}

func (a *App) closeServer() error {
	logger := ctxlog.FromContext(a.ctx)

	if a.httpServer == nil {
		logger.Debug("Server was not running.")
		return nil
	}

	// a.ctx is already cancelled at this point.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(a.ctx), 5*time.Second)
	defer cancel()

	logger.Info("Shutting down server...")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
		return err
	}

	logger.Debug("Server shut down gracefully.")
	return nil
}
