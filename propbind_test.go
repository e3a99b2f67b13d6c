package propbind_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Itshalffull/propbind"
	"github.com/Itshalffull/propbind/pkg/core"
)

func TestOpenRecords_ResolvesAliases(t *testing.T) {
	ctx := context.Background()
	svc, err := propbind.New("", propbind.WithBackend(propbind.BackendMemory))
	require.NoError(t, err)

	_, err = svc.Normalize(ctx, "compose", "card", `{"onClick":"open"}`)
	require.NoError(t, err)

	records, err := propbind.OpenRecords(svc.Storage(), "Jetpack")
	require.NoError(t, err)
	assert.Equal(t, "output.compose", records.Kind())

	rec, err := records.Get(ctx, "card")
	require.NoError(t, err)
	assert.Equal(t, "compose", rec.Target)

	_, err = propbind.OpenRecords(svc.Storage(), "qt")
	assert.ErrorIs(t, err, core.ErrUnknownTarget)
}
