// Package guard marks the process as running under tests. Importing it for
// side effects keeps binaries from touching real infrastructure.
package guard

import (
	"os"
	"sync"
)

// TestModeEnv is the variable checked by app.InTestMode.
const TestModeEnv = "STOCKROOM_TEST_MODE"

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv(TestModeEnv) == "" {
			_ = os.Setenv(TestModeEnv, "1")
		}
	})
}
