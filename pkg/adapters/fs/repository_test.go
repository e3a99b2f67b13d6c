package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Itshalffull/propbind/pkg/adapters/fs"
	"github.com/Itshalffull/propbind/pkg/core"
)

// setupRepo creates an initialized repository under a temp dir.
func setupRepo(t *testing.T, opts ...func(*fs.Config)) (*fs.Repository, string) {
	t.Helper()

	root := filepath.Join(t.TempDir(), "store")
	cfg := fs.Config{Path: root}
	for _, opt := range opts {
		opt(&cfg)
	}

	repo := fs.NewRepository(cfg)
	require.NoError(t, repo.Initialize(context.Background()))
	return repo, root
}

func TestInitialize(t *testing.T) {
	t.Run("Creates Directory if Missing", func(t *testing.T) {
		_, root := setupRepo(t)
		assert.DirExists(t, filepath.Join(root, fs.DefaultSystemDir))
	})

	t.Run("Fails if MustExist and Missing", func(t *testing.T) {
		repo := fs.NewRepository(fs.Config{Path: filepath.Join(t.TempDir(), "absent"), MustExist: true})
		assert.Error(t, repo.Initialize(context.Background()))
	})

	t.Run("Fails if Path Is a File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		repo := fs.NewRepository(fs.Config{Path: path, MustExist: true})
		assert.Error(t, repo.Initialize(context.Background()))
	})
}

func TestCRUD(t *testing.T) {
	ctx := context.Background()
	repo, root := setupRepo(t)

	rec := core.Record{"adapter": "card/1", "target": "gtk", "normalized": `{"a":1}`}
	require.NoError(t, repo.Put(ctx, "output.gtk", "card/1", rec))
	assert.FileExists(t, filepath.Join(root, "output.gtk", "card%2F1.json"))

	got, err := repo.Get(ctx, "output.gtk", "card/1")
	require.NoError(t, err)
	assert.Equal(t, "card/1", got["adapter"])
	assert.Equal(t, `{"a":1}`, got["normalized"])

	require.NoError(t, repo.Put(ctx, "output.gtk", "card/1", core.Record{"adapter": "card/1", "target": "gtk"}))
	got, err = repo.Get(ctx, "output.gtk", "card/1")
	require.NoError(t, err)
	assert.NotContains(t, got, "normalized", "put replaces the whole record")

	_, err = repo.Get(ctx, "output.compose", "card/1")
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "output.gtk", "card/1"))
	require.NoError(t, repo.Delete(ctx, "output.gtk", "card/1"), "delete is idempotent")
	_, err = repo.Get(ctx, "output.gtk", "card/1")
	assert.ErrorIs(t, err, core.ErrNotFound)

	err = repo.Put(ctx, "", "x", core.Record{})
	assert.ErrorIs(t, err, core.ErrBackend)
	err = repo.Put(ctx, ".propbind", "x", core.Record{})
	assert.ErrorIs(t, err, core.ErrBackend, "kinds cannot shadow the system directory")
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	repo, root := setupRepo(t)

	for id, target := range map[string]string{"card-1": "svelte", "card-2": "svelte", "btn-1": "gtk"} {
		require.NoError(t, repo.Put(ctx, "out", id, core.Record{"adapter": id, "target": target}))
	}

	all, err := repo.Find(ctx, "out", nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "btn-1", all[0]["adapter"])

	cards, err := repo.Find(ctx, "out", core.Record{"adapter": "card-*"})
	require.NoError(t, err)
	assert.Len(t, cards, 2)

	empty, err := repo.Find(ctx, "never-written", nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	assert.FileExists(t, filepath.Join(root, fs.DefaultSystemDir, "index.json"))

	t.Run("Sees External Edits", func(t *testing.T) {
		path := filepath.Join(root, "out", "manual.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"adapter":"manual","target":"gtk"}`), 0644))

		gtk, err := repo.Find(ctx, "out", core.Record{"target": "gtk"})
		require.NoError(t, err)
		assert.Len(t, gtk, 2)
	})

	t.Run("Skips Unparseable Files", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "out", "broken.json"), []byte("{"), 0644))
		all, err := repo.Find(ctx, "out", nil)
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})

	kinds, err := repo.Kinds()
	require.NoError(t, err)
	assert.Equal(t, []string{"out"}, kinds)
}

func TestFormat_YAML(t *testing.T) {
	ctx := context.Background()
	jsonRepo, root := setupRepo(t)
	require.NoError(t, jsonRepo.Put(ctx, "out", "a", core.Record{"adapter": "a", "v": "json"}))

	yamlRepo := fs.NewRepository(fs.Config{Path: root, Format: "yaml"})
	require.NoError(t, yamlRepo.Put(ctx, "out", "a", core.Record{"adapter": "a", "v": "yaml"}))

	assert.FileExists(t, filepath.Join(root, "out", "a.yaml"))
	assert.NoFileExists(t, filepath.Join(root, "out", "a.json"), "other formats of the same record are removed")

	got, err := jsonRepo.Get(ctx, "out", "a")
	require.NoError(t, err)
	assert.Equal(t, "yaml", got["v"])
}

func TestReadOnly(t *testing.T) {
	ctx := context.Background()
	writable, root := setupRepo(t)
	require.NoError(t, writable.Put(ctx, "out", "a", core.Record{"adapter": "a"}))

	repo := fs.NewRepository(fs.Config{Path: root, ReadOnly: true})
	require.NoError(t, repo.Initialize(ctx))
	assert.True(t, repo.IsReadOnly())

	assert.ErrorIs(t, repo.Put(ctx, "out", "b", core.Record{}), core.ErrReadOnly)
	assert.ErrorIs(t, repo.Delete(ctx, "out", "a"), core.ErrReadOnly)

	got, err := repo.Get(ctx, "out", "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got["adapter"])
}

func TestState(t *testing.T) {
	ctx := context.Background()
	repo, root := setupRepo(t)
	require.NoError(t, repo.Put(ctx, "out", "a", core.Record{"adapter": "a"}))

	state, ok := repo.State().(fs.RepositoryState)
	require.True(t, ok)
	assert.Equal(t, root, state.Path)
	assert.Equal(t, ".json", state.Format)
	assert.Equal(t, []string{".json", ".yaml", ".yml"}, state.Serializers)
	assert.Equal(t, 1, state.CacheSize)
	assert.False(t, state.WatcherActive)
	assert.Equal(t, "fs", repo.ComponentType())
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()
	repo, root := setupRepo(t)

	require.NoError(t, repo.Put(ctx, "out", "keep", core.Record{"adapter": "keep"}))
	require.NoError(t, repo.Put(ctx, "out", "gone", core.Record{"adapter": "gone"}))
	_, err := repo.Find(ctx, "out", nil)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, "out", "gone.json")))
	require.NoError(t, os.WriteFile(filepath.Join(root, "out", "new.json"), []byte(`{"adapter":"new"}`), 0644))

	events, err := repo.Reconcile(ctx)
	require.NoError(t, err)

	got := map[string]core.EventType{}
	for _, e := range events {
		got[e.ID] = e.Type
	}
	assert.Equal(t, map[string]core.EventType{"gone": core.EventDelete, "new": core.EventCreate}, got)

	state := repo.State().(fs.RepositoryState)
	assert.NotNil(t, state.LastReconcile)
}
