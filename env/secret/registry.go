//go:build darwin || linux

package secret

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ebitengine/purego"
	"github.com/rs/zerolog/log"
)

var ErrClosed = errors.New("secret environment library is closed")

// Registry owns the handle of the loaded library and the function tables
// resolved from it. It is opened once before first use and closed once.
type Registry struct {
	mu     sync.Mutex
	path   string
	handle uintptr
	envs   map[int]*Env
	closed bool
}

func Open(path string) (*Registry, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("failed to load secret environment library %s: %w", path, err)
	}
	log.Debug().Str("path", path).Msg("secret environment library loaded")
	return &Registry{
		path:   path,
		handle: handle,
		envs:   make(map[int]*Env),
	}, nil
}

// Env resolves every symbol of environment id. A missing symbol is an error
// naming it; resolved tables are cached for the registry's lifetime.
func (r *Registry) Env(id int) (*Env, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	if e, ok := r.envs[id]; ok {
		return e, nil
	}

	fns := &symbols{}
	for _, b := range fns.bindings() {
		name := symbolName(id, b.name)
		sym, err := purego.Dlsym(r.handle, name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s in %s: %w", name, r.path, err)
		}
		purego.RegisterFunc(b.fn, sym)
	}

	e := &Env{id: id, fns: fns}
	r.envs[id] = e
	return e, nil
}

// Close releases every instance still open, then unloads the library. Later
// calls are no-ops.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	for id, e := range r.envs {
		if n := e.release(); n > 0 {
			log.Warn().Int("id", id).Int("instances", n).Msg("released secret environment instances left open")
		}
	}
	r.envs = nil
	if err := purego.Dlclose(r.handle); err != nil {
		return fmt.Errorf("failed to unload secret environment library %s: %w", r.path, err)
	}
	return nil
}
