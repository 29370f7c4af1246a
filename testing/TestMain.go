// Package testing is blank-imported by tests that build the full router or a
// binary's wiring, so they run without real services.
package testing

import (
	"os"
	stdtesting "testing"
)

// testEnv holds the variables a test process needs before any config is loaded.
// Values already present in the environment win.
var testEnv = map[string]string{
	"HALOCARE_TEST_MODE": "1",
	"BACKEND_URL":        "http://127.0.0.1:0",
	"LOG_FORMAT":         "json",
}

func init() {
	for key, value := range testEnv {
		if key != "HALOCARE_TEST_MODE" && os.Getenv(key) != "" {
			continue
		}
		_ = os.Setenv(key, value)
	}
}

// TestMain is for packages that want an explicit entry point; init has already
// prepared the environment.
func TestMain(m *stdtesting.M) {
	os.Exit(m.Run())
}
