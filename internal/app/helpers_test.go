package app

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/gridcalc/internal/hcl"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// setupAppTest creates an app wired to the HCL loader and writer. Values go
// to the first buffer and logs to the second.
func setupAppTest(t *testing.T, cfg Config) (*App, *SafeBuffer, *SafeBuffer) {
	t.Helper()

	out, logs := &SafeBuffer{}, &SafeBuffer{}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	testApp := NewApp(out, &cfg, hcl.NewLoader(), hcl.NewWriter(), WithLogOutput(logs))

	t.Cleanup(func() {
		if os.Getenv("GRIDCALC_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	return testApp, out, logs
}

func writeSheet(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sheet.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const chainSheet = `
cell "A1" {
  number = 3
}

cell "B1" {
  formula = "A1 * 2"
}

cell "C1" {
  formula = "B1 + A1"
}

cell "D1" {
  text = "total"
}
`
