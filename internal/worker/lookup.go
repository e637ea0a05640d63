package worker

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// executablePath is injectable for tests.
var executablePath = os.Executable

// Locate resolves a worker executable name to a path. A binary
// co-located with the running distribution takes precedence over the
// search path, guarding against a stale or incompatible executable
// installed elsewhere.
func Locate(name string) (string, error) {
	if self, err := executablePath(); err == nil {
		candidate := filepath.Join(filepath.Dir(self), name)
		if runtime.GOOS == "windows" {
			candidate += ".exe"
		}

		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return exec.LookPath(name)
}
