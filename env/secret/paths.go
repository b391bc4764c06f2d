package secret

import (
	"os"
	"runtime"
)

// PathVariable overrides the location of the native library.
const PathVariable = "SECRET_ENV_PATH"

// DefaultPath is the library location for the running platform, unless
// PathVariable is set.
func DefaultPath() string {
	if path := os.Getenv(PathVariable); path != "" {
		return path
	}
	switch {
	case runtime.GOOS == "darwin" && runtime.GOARCH == "amd64":
		return "./libs/libsecret_envs_intel_macos.dylib"
	case runtime.GOOS == "darwin":
		return "./libs/libsecret_envs.dylib"
	case runtime.GOOS == "windows":
		return "./libs/secret_envs.dll"
	}
	return "./libs/libsecret_envs.so"
}
