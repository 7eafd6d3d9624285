package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/gridcalc/internal/app"
	"github.com/specialistvlad/gridcalc/internal/formula"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// editList collects repeated -set flags.
type editList []app.Edit

func (l *editList) String() string {
	parts := make([]string, len(*l))
	for i, e := range *l {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

func (l *editList) Set(s string) error {
	e, err := app.ParseEdit(s)
	if err != nil {
		return err
	}
	*l = append(*l, e)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("gridcalc", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
gridcalc - A spreadsheet recalculation engine for HCL sheet files.

Usage:
  gridcalc [options] [SHEET_PATH...]

Arguments:
  SHEET_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Examples:
  gridcalc budget.hcl
  gridcalc -set A1=10 -set 'B1==A1*2' -out budget.hcl budget.hcl
  gridcalc -serve-port 8080 -notify-url http://localhost:3000/socket.io/ budget.hcl

Formula functions:
  `+strings.Join(formula.Builtins(), ", ")+`

Options:
`)
		flagSet.PrintDefaults()
	}

	var edits editList
	sheetFlag := flagSet.String("sheet", "", "Path to the sheet file or directory.")
	sFlag := flagSet.String("s", "", "Path to the sheet file or directory (shorthand).")
	flagSet.Var(&edits, "set", "Set a cell, as NAME=VALUE. A value starting with '=' is a formula. Repeatable.")
	outFlag := flagSet.String("out", "", "Save the sheet to this file after applying edits.")
	servePortFlag := flagSet.Int("serve-port", 0, "Port for the HTTP server (/health, /cells). 0 is disabled.")
	notifyURLFlag := flagSet.String("notify-url", "", "socket.io server that receives recalculation events.")
	notifyNSFlag := flagSet.String("notify-namespace", "", "socket.io namespace for recalculation events.")
	notifyEventFlag := flagSet.String("notify-event", "", "Event name for recalculation events (default \"recalculated\").")
	notifyInsecureFlag := flagSet.Bool("notify-insecure", false, "Skip TLS certificate verification for the notify URL.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	var paths []string
	for _, p := range []string{*sheetFlag, *sFlag} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	paths = append(paths, flagSet.Args()...)
	slog.Debug("Sheet paths determined.", "paths", paths)

	if len(paths) == 0 && len(edits) == 0 {
		slog.Debug("No sheet path or edit provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		SheetPaths:      paths,
		Edits:           edits,
		OutPath:         *outFlag,
		ServePort:       *servePortFlag,
		NotifyURL:       *notifyURLFlag,
		NotifyNamespace: *notifyNSFlag,
		NotifyEvent:     *notifyEventFlag,
		NotifyInsecure:  *notifyInsecureFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
