//go:build !(darwin || linux)

package secret

import (
	"errors"
	"fmt"
	"runtime"
)

var ErrClosed = errors.New("secret environment library is closed")

// Registry is unavailable on this platform.
type Registry struct{}

func Open(path string) (*Registry, error) {
	return nil, fmt.Errorf("failed to load secret environment library %s: unsupported platform %s", path, runtime.GOOS)
}

func (r *Registry) Env(id int) (*Env, error) {
	return nil, ErrClosed
}

func (r *Registry) Close() error {
	return nil
}
