//go:build darwin || linux

package secret

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// systemLibrary is a library present on every supported platform that
// exports no secret environment.
func systemLibrary() string {
	if runtime.GOOS == "darwin" {
		return "/usr/lib/libSystem.B.dylib"
	}
	return "libc.so.6"
}

func TestRegistry(t *testing.T) {
	t.Run("missing library", func(t *testing.T) {
		_, err := Open("./libs/does_not_exist.so")
		require.ErrorContains(t, err, "failed to load secret environment library")
	})

	t.Run("missing symbols are named", func(t *testing.T) {
		r, err := Open(systemLibrary())
		require.NoError(t, err)
		defer r.Close()

		_, err = r.Env(2)
		require.ErrorContains(t, err, "secret_env_2_num_states")
	})

	t.Run("closes once", func(t *testing.T) {
		r, err := Open(systemLibrary())
		require.NoError(t, err)

		require.NoError(t, r.Close())
		require.NoError(t, r.Close())
		_, err = r.Env(0)
		require.ErrorIs(t, err, ErrClosed)
	})

	t.Run("close releases instances before unloading", func(t *testing.T) {
		r, err := Open(systemLibrary())
		require.NoError(t, err)

		fake, fns := newFakeLine()
		r.envs[1] = &Env{id: 1, fns: fns}
		e, err := r.Env(1)
		require.NoError(t, err)
		e.New()
		e.FromRandomState(nil)

		require.NoError(t, r.Close())
		require.Equal(t, 2, fake.deleted, "Every open handle should be deleted while the library is loaded")
		require.Empty(t, fake.instances)
	})
}

func TestDefaultPath(t *testing.T) {
	t.Setenv(PathVariable, "/opt/envs/libsecret.so")
	require.Equal(t, "/opt/envs/libsecret.so", DefaultPath())

	t.Setenv(PathVariable, "")
	require.NotEmpty(t, DefaultPath())
}
