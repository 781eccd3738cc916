package app

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/vk/patchbaygo/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
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

// SetupAppTest creates a new app instance for system testing. The usage
// tracker is pointed at a temp file so tests never touch the user's data.
func SetupAppTest(t *testing.T, config Config, modules ...registry.Module) (*App, *SafeBuffer) {
	t.Helper()

	logBuffer := &SafeBuffer{}
	config.LogLevel = "debug"
	if config.UsagePath == "" {
		config.UsagePath = filepath.Join(t.TempDir(), "module_usage.json")
	}

	validated, err := NewConfig(config)
	if err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	testApp := NewApp(logBuffer, validated, modules...)

	t.Cleanup(func() {
		if os.Getenv("PATCHBAY_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
