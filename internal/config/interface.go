package config

import (
	"context"
	"io"
)

// Loader is the interface for a format-specific sheet loader.
type Loader interface {
	// Load reads sheet files from the given paths, which may be files or
	// directories, and translates them into the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// Writer is the interface for a format-specific sheet writer.
type Writer interface {
	// Write serializes the model to w. Cells are written sorted by name so
	// that saving the same sheet twice produces identical output.
	Write(w io.Writer, model *Model) error
}
