package platform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Itshalffull/propbind/internal/platform"
	"github.com/Itshalffull/propbind/pkg/adapter"
	"github.com/Itshalffull/propbind/pkg/adapters/fs"
	"github.com/Itshalffull/propbind/pkg/adapters/memory"
	"github.com/Itshalffull/propbind/pkg/core"
)

func TestNew_Backends(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		uri  func(t *testing.T) string
		opts []platform.Option
	}{
		{"FS", func(t *testing.T) string { return t.TempDir() }, nil},
		{"FSYAML", func(t *testing.T) string { return t.TempDir() }, []platform.Option{platform.WithFormat("yaml")}},
		{"Memory", func(t *testing.T) string { return "" }, []platform.Option{platform.WithBackend(platform.BackendMemory)}},
		{"SQLite", func(t *testing.T) string { return filepath.Join(t.TempDir(), "store.db") }, []platform.Option{platform.WithBackend(platform.BackendSQLite)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, err := platform.New(tc.uri(t), tc.opts...)
			require.NoError(t, err)
			assert.Equal(t, []string{"compose", "gtk", "reactnative", "svelte", "swiftui", "watchos"}, svc.Targets())

			res, err := svc.Normalize(ctx, "jetpack", "card", `{"onClick":"open","layout":"row"}`)
			require.NoError(t, err)
			require.True(t, res.IsOK(), res.Message)
			assert.Equal(t, `{"Modifier.clickable":"open","__container:Row":"row"}`, res.Normalized)

			rec, err := svc.Record(ctx, "compose", "card")
			require.NoError(t, err)
			assert.Equal(t, res.Normalized, rec.Normalized)
			assert.Equal(t, "compose", rec.Target)
		})
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := platform.New(t.TempDir(), platform.WithBackend("etcd"))
	assert.ErrorContains(t, err, "unknown backend")
}

func TestNew_SQLiteRequiresPath(t *testing.T) {
	_, err := platform.New("", platform.WithBackend(platform.BackendSQLite))
	assert.Error(t, err)
}

func TestNew_WithStorage(t *testing.T) {
	store := memory.New()
	svc, err := platform.New("ignored", platform.WithStorage(store), platform.WithBackend("etcd"))
	require.NoError(t, err)
	assert.Same(t, store, svc.Storage())

	_, err = svc.Normalize(context.Background(), "svelte", "x", `{"title":"t"}`)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len("output.svelte"))
}

func TestNew_Tables(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
targets:
  compose:
    events:
      swipe: Modifier.swipeable
  rn:
    unsupported: [hover]
`), 0644))

	svc, err := platform.New("", platform.WithBackend(platform.BackendMemory),
		platform.WithTablesFile(path),
		platform.WithTables(map[string]adapter.Overrides{
			"compose": {Events: map[string]string{"swipe": "Modifier.pointerInput"}},
		}),
	)
	require.NoError(t, err)

	res, err := svc.Normalize(ctx, "compose", "a", `{"onSwipe":"h"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"Modifier.pointerInput":"h"}`, res.Normalized, "code overrides win over the file")

	res, err = svc.Normalize(ctx, "reactnative", "a", `{"onHover":"h"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"__unsupported:onHover":"h"}`, res.Normalized)

	t.Run("UnknownTarget", func(t *testing.T) {
		_, err := platform.New("", platform.WithBackend(platform.BackendMemory),
			platform.WithTables(map[string]adapter.Overrides{"qt": {}}))
		assert.ErrorIs(t, err, core.ErrUnknownTarget)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := platform.New("", platform.WithBackend(platform.BackendMemory),
			platform.WithTablesFile(filepath.Join(t.TempDir(), "nope.yaml")))
		assert.Error(t, err)
	})
}

func TestNew_TablesAliasPrecedence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
targets:
  compose:
    events:
      swipe: Modifier.fromFile
      pinch: Modifier.pinchFromFile
`), 0644))

	// Map iteration order varies between constructions; the outcome must not.
	for range 20 {
		svc, err := platform.New("", platform.WithBackend(platform.BackendMemory),
			platform.WithTablesFile(path),
			platform.WithTables(map[string]adapter.Overrides{
				"jetpack": {Events: map[string]string{"Swipe": "Modifier.fromCode"}},
				"compose": {Layouts: map[string]string{"ring": "CircleLayout"}},
			}),
		)
		require.NoError(t, err)

		res, err := svc.Normalize(ctx, "compose", "a", `{"onSwipe":"s","onPinch":"p","layout":"ring"}`)
		require.NoError(t, err)
		require.Equal(t,
			`{"Modifier.fromCode":"s","Modifier.pinchFromFile":"p","__container:CircleLayout":"ring"}`,
			res.Normalized, "code wins per key, file entries for other keys survive")
	}
}

func TestNew_ReadOnly(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	svc, err := platform.New(dir, platform.WithReadOnly(true))
	require.NoError(t, err)

	_, err = svc.Normalize(ctx, "gtk", "card", `{"title":"t"}`)
	assert.ErrorIs(t, err, core.ErrReadOnly)
	assert.ErrorIs(t, err, core.ErrBackend)

	_, err = platform.New(filepath.Join(dir, "missing"), platform.WithMustExist(true))
	assert.Error(t, err)
}

func TestInit_SystemDir(t *testing.T) {
	dir := t.TempDir()
	store, err := platform.Init(dir, platform.WithSystemDir(".cache"))
	require.NoError(t, err)

	repo, ok := store.(*fs.Repository)
	require.True(t, ok)
	assert.Equal(t, ".cache", repo.State().(fs.RepositoryState).SystemDir)
	assert.DirExists(t, filepath.Join(dir, ".cache"))
}
