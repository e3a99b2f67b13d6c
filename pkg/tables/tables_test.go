package tables_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Itshalffull/propbind/pkg/tables"
)

const sample = `
targets:
  Compose:
    events:
      swipe: Modifier.swipeable
    layouts:
      pager: HorizontalPager
  watchos:
    unsupported: [pinch, rotate]
`

func TestParse(t *testing.T) {
	f, err := tables.Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version)
	assert.Equal(t, []string{"compose", "watchos"}, f.Names())
	assert.Equal(t, "Modifier.swipeable", f.Targets["compose"].Events["swipe"])
	assert.Equal(t, "HorizontalPager", f.Targets["compose"].Layouts["pager"])
	assert.Equal(t, []string{"pinch", "rotate"}, f.Targets["watchos"].Unsupported)
}

func TestParse_Invalid(t *testing.T) {
	_, err := tables.Parse([]byte("targets: [oops"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	f, err := tables.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, f.Targets, 2)

	data, err := tables.Marshal(f)
	require.NoError(t, err)
	again, err := tables.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, f, again)

	_, err = tables.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
