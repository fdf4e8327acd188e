package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func tempPath(t *testing.T) {
	t.Helper()
	orig := Path
	Path = filepath.Join(t.TempDir(), "state.json")
	t.Cleanup(func() { Path = orig })
}

func TestProgressRoundTrip(t *testing.T) {
	tempPath(t)

	require.Equal(t, int64(0), LoadProgress(), "missing file means no watermark")

	SaveProgress(1718190000)
	require.Equal(t, int64(1718190000), LoadProgress())

	SaveProgress(1718200000)
	require.Equal(t, int64(1718200000), LoadProgress())
}

func TestLoadProgressCorruptFile(t *testing.T) {
	tempPath(t)

	require.NoError(t, os.WriteFile(Path, []byte("not json"), 0o644))
	require.Equal(t, int64(0), LoadProgress())
}
