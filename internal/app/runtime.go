package app

import (
	"os"
	"sync"
)

// TestModeEnv set to "1" makes the binaries return before dialing postgres or redis.
const TestModeEnv = "HALOCARE_TEST_MODE"

var testMode = sync.OnceValue(func() bool {
	return os.Getenv(TestModeEnv) == "1"
})

// InTestMode reports whether the process runs under go test. The environment is
// read once.
func InTestMode() bool { return testMode() }
