package app

import (
	"errors"
	"fmt"
	"strings"
)

// Edit is a single NAME=RAW assignment given on the command line.
type Edit struct {
	Name string
	Raw  string
}

func (e Edit) String() string {
	return e.Name + "=" + e.Raw
}

// ParseEdit splits s at the first '='. The raw part may itself start with
// '=' to denote a formula, as in "B1==A1*2".
func ParseEdit(s string) (Edit, error) {
	name, raw, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Edit{}, fmt.Errorf("invalid edit %q: expected NAME=VALUE", s)
	}
	return Edit{Name: name, Raw: raw}, nil
}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SheetPaths []string // hcl files or directories
	Edits      []Edit   // applied in order after loading
	OutPath    string   // where to save the sheet; empty means don't save

	ServePort int

	NotifyURL       string
	NotifyNamespace string
	NotifyEvent     string
	NotifyInsecure  bool

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.SheetPaths) == 0 && len(cfg.Edits) == 0 {
		return nil, errors.New("at least one sheet path or edit is required")
	}
	if cfg.ServePort < 0 || cfg.ServePort > 65535 {
		return nil, fmt.Errorf("serve port %d is out of range", cfg.ServePort)
	}
	if cfg.NotifyURL == "" && (cfg.NotifyNamespace != "" || cfg.NotifyEvent != "" || cfg.NotifyInsecure) {
		return nil, errors.New("notify options require a notify URL")
	}
	for _, e := range cfg.Edits {
		if e.Name == "" {
			return nil, fmt.Errorf("invalid edit %q: empty cell name", e.String())
		}
	}
	return &cfg, nil
}
