package core_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Itshalffull/propbind/pkg/adapters/memory"
	"github.com/Itshalffull/propbind/pkg/core"
)

// echoAdapter upper-cases props and stores them, enough to observe routing.
type echoAdapter struct {
	target string
	store  core.Storage
	fail   error

	mu    sync.Mutex
	calls int
}

func (e *echoAdapter) Target() string { return e.target }
func (e *echoAdapter) Kind() string   { return "output." + e.target }

func (e *echoAdapter) Normalize(ctx context.Context, id, props string) (core.Result, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()

	if props == "" {
		return core.Failure(core.ErrEmptyInput, "Props cannot be empty"), nil
	}
	if e.fail != nil {
		return core.Result{}, e.fail
	}
	out := strings.ToUpper(props)
	if err := e.store.Put(ctx, e.Kind(), id, core.Record{"adapter": id, "target": e.target, "normalized": out}); err != nil {
		return core.Result{}, err
	}
	return core.OK(id, out), nil
}

func (e *echoAdapter) Record(ctx context.Context, id string) (core.AdapterRecord, error) {
	rec, err := e.store.Get(ctx, e.Kind(), id)
	if err != nil {
		return core.AdapterRecord{}, err
	}
	return core.AdapterRecord{Adapter: rec["adapter"].(string), Target: rec["target"].(string), Normalized: rec["normalized"].(string)}, nil
}

func (e *echoAdapter) Records(ctx context.Context, filter core.Record) ([]core.AdapterRecord, error) {
	recs, err := e.store.Find(ctx, e.Kind(), filter)
	if err != nil {
		return nil, err
	}
	out := make([]core.AdapterRecord, 0, len(recs))
	for _, rec := range recs {
		out = append(out, core.AdapterRecord{Adapter: rec["adapter"].(string), Target: e.target, Normalized: rec["normalized"].(string)})
	}
	return out, nil
}

func newService(t *testing.T, cfg core.ServiceConfig) (*core.Service, *echoAdapter, *echoAdapter) {
	t.Helper()
	store := memory.New()
	a := &echoAdapter{target: "alpha", store: store}
	b := &echoAdapter{target: "beta", store: store}
	return core.NewService(store, []core.Normalizer{b, a}, cfg), a, b
}

func TestService_Routing(t *testing.T) {
	ctx := context.Background()
	svc, a, b := newService(t, core.ServiceConfig{})

	assert.Equal(t, []string{"alpha", "beta"}, svc.Targets())

	res, err := svc.Normalize(ctx, "alpha", "x", `{"k":"v"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"K":"V"}`, res.Normalized)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 0, b.calls)

	_, err = svc.Normalize(ctx, "gamma", "x", `{}`)
	assert.ErrorIs(t, err, core.ErrUnknownTarget)

	rec, err := svc.Record(ctx, "alpha", "x")
	require.NoError(t, err)
	assert.Equal(t, `{"K":"V"}`, rec.Normalized)

	_, err = svc.Record(ctx, "alpha", "")
	assert.ErrorIs(t, err, core.ErrEmptyAdapterID)

	_, err = svc.Record(ctx, "beta", "x")
	assert.ErrorIs(t, err, core.ErrNotFound, "targets do not share records")
}

func TestService_Resolver(t *testing.T) {
	svc, _, _ := newService(t, core.ServiceConfig{
		Resolve: func(hint string) (string, bool) {
			if strings.EqualFold(hint, "A") {
				return "alpha", true
			}
			return "", false
		},
	})

	a, err := svc.Adapter("a")
	require.NoError(t, err)
	assert.Equal(t, "alpha", a.Target())

	_, err = svc.Adapter("z")
	assert.ErrorIs(t, err, core.ErrUnknownTarget)
}

func TestService_NormalizeAll(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t, core.ServiceConfig{Concurrency: 3})

	var reqs []core.Request
	for i := range 20 {
		target := "alpha"
		if i%2 == 1 {
			target = "beta"
		}
		reqs = append(reqs, core.Request{Target: target, Adapter: fmt.Sprintf("a%d", i), Props: fmt.Sprintf(`{"n":"v%d"}`, i)})
	}
	reqs = append(reqs,
		core.Request{Target: "nope", Adapter: "u", Props: `{}`},
		core.Request{Target: "alpha", Adapter: "e", Props: ``},
	)

	results, err := svc.NormalizeAll(ctx, reqs)
	require.NoError(t, err)
	require.Len(t, results, len(reqs))

	for i := range 20 {
		assert.True(t, results[i].IsOK())
		assert.Equal(t, fmt.Sprintf("a%d", i), results[i].Adapter, "results keep request order")
		assert.Equal(t, fmt.Sprintf(`{"N":"V%d"}`, i), results[i].Normalized)
	}

	unknown := results[20]
	assert.Equal(t, core.VariantError, unknown.Variant)
	assert.ErrorIs(t, unknown.Err(), core.ErrUnknownTarget)

	empty := results[21]
	assert.ErrorIs(t, empty.Err(), core.ErrEmptyInput)

	recs, err := svc.Records(ctx, "beta", nil)
	require.NoError(t, err)
	assert.Len(t, recs, 10)
}

func TestService_NormalizeAll_BackendFailure(t *testing.T) {
	store := memory.New()
	broken := &echoAdapter{target: "alpha", store: store, fail: &core.BackendError{Op: "put", Kind: "output.alpha", ID: "x", Err: errors.New("disk full")}}
	svc := core.NewService(store, []core.Normalizer{broken}, core.ServiceConfig{})

	_, err := svc.NormalizeAll(context.Background(), []core.Request{{Target: "alpha", Adapter: "x", Props: `{}`}})
	assert.ErrorIs(t, err, core.ErrBackend)
}

func TestService_Watch_Unsupported(t *testing.T) {
	svc, _, _ := newService(t, core.ServiceConfig{})
	_, err := svc.Watch(context.Background(), "**")
	assert.Error(t, err)
}

func TestService_State(t *testing.T) {
	svc, _, _ := newService(t, core.ServiceConfig{})
	st, ok := svc.State().(core.ServiceState)
	require.True(t, ok)
	assert.Equal(t, []string{"alpha", "beta"}, st.Targets)
	assert.Equal(t, 4, st.Concurrency)
	assert.Equal(t, "memory", st.StorageType)
	assert.Equal(t, "service", svc.ComponentType())
}
