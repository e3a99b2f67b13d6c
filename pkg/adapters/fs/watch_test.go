package fs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Itshalffull/propbind/pkg/core"
)

func TestWatch(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create the kind directory up front so the watcher registers it.
	require.NoError(t, repo.Put(ctx, "output.gtk", "seed", core.Record{"adapter": "seed"}))

	events, err := repo.Watch(ctx, "output.gtk/card-*")
	require.NoError(t, err)

	require.NoError(t, repo.Put(ctx, "output.gtk", "other", core.Record{"adapter": "other"}))
	require.NoError(t, repo.Put(ctx, "output.gtk", "card-1", core.Record{"adapter": "card-1"}))

	select {
	case e := <-events:
		assert.Equal(t, "output.gtk", e.Kind)
		assert.Equal(t, "card-1", e.ID)
		assert.Contains(t, []core.EventType{core.EventCreate, core.EventModify}, e.Type)
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for watch event")
	}

	cancel()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("events channel was not closed after cancel")
		}
	}
}

func TestWatch_InvalidPattern(t *testing.T) {
	repo, _ := setupRepo(t)
	_, err := repo.Watch(context.Background(), "[")
	assert.Error(t, err)
}
