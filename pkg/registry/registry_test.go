package registry

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdziat/apigen/pkg/core"
	"github.com/jdziat/apigen/pkg/loader"
)

type usersV1 struct{}

func (usersV1) Index() map[string]string { return map[string]string{"status": "ok"} }

func (usersV1) List() []map[string]int { return []map[string]int{{"id": 1}} }

type usersV2 struct{}

func (usersV2) List() []map[string]int { return []map[string]int{{"id": 1}, {"id": 2}} }

func deploy(t *testing.T, root string, version int, module string) {
	t.Helper()
	dir := filepath.Join(root, core.VersionDir(version))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, module+NativeExt), nil, 0o644))
}

func TestRegister(t *testing.T) {
	r := New()

	require.NoError(t, r.Register(1, "users", Struct(func() any { return usersV1{} })))
	require.NoError(t, r.Register(2, "users", Struct(func() any { return usersV2{} })))

	_, ok := r.Lookup(1, "Api_users")
	assert.True(t, ok)
	_, ok = r.Lookup(3, "Api_users")
	assert.False(t, ok)
	assert.Equal(t, []string{"Api_users"}, r.Modules(2))
	assert.Empty(t, r.Modules(7))
}

func TestRegister_Rejects(t *testing.T) {
	r := New()
	f := Static(core.Methods{"ping": core.Value("pong")})

	require.NoError(t, r.Register(1, "ping", f))

	err := r.Register(1, "ping", f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	assert.ErrorIs(t, r.Register(0, "ping", f), core.ErrInvalidVersion)
	assert.ErrorIs(t, r.Register(1, "../x", f), core.ErrInvalidModule)
	assert.Error(t, r.Register(1, "nilfactory", nil))
}

func TestMustRegister_Panics(t *testing.T) {
	r := New()
	assert.Panics(t, func() { r.MustRegister(1, "bad name", Static(nil)) })
}

func TestRuntime_WithLoader(t *testing.T) {
	root := t.TempDir()
	deploy(t, root, 1, "users")
	deploy(t, root, 2, "users")
	deploy(t, root, 2, "orphan")

	r := New()
	r.MustRegister(1, "users", Struct(func() any { return usersV1{} }))
	r.MustRegister(2, "users", Struct(func() any { return usersV2{} }))

	l := loader.New(root, loader.WithRuntime(r.Runtime()))
	ctx := context.Background()

	v, err := l.Call(ctx, 1, "users", "")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"status": "ok"}, v)

	v, err = l.Call(ctx, 2, "users", "list")
	require.NoError(t, err)
	assert.Len(t, v, 2)

	// v2 has no default entry
	_, err = l.Call(ctx, 2, "users", "")
	assert.ErrorIs(t, err, core.ErrInvalidMethod)

	// marker present, nothing registered
	_, err = l.Call(ctx, 2, "orphan", "list")
	assert.ErrorIs(t, err, core.ErrInvalidModuleOrVersion)

	// registered, marker absent
	_, err = l.Call(ctx, 2, "ghost", "list")
	assert.ErrorIs(t, err, core.ErrInvalidModule)
}

func TestRuntime_NilMethodSetIsUndefinedModule(t *testing.T) {
	root := t.TempDir()
	deploy(t, root, 1, "empty")
	deploy(t, root, 1, "hollow")

	r := New()
	r.MustRegister(1, "empty", Static(nil))
	r.MustRegister(1, "hollow", Struct(func() any { return core.Methods(nil) }))

	l := loader.New(root, loader.WithRuntime(r.Runtime()))

	for _, module := range []string{"empty", "hollow"} {
		_, err := l.Call(context.Background(), 1, module, "list")
		assert.ErrorIs(t, err, core.ErrInvalidModuleOrVersion, "module %s", module)
		assert.NotErrorIs(t, err, core.ErrInvalidMethod, "module %s", module)
	}

	h, err := Static(nil)()
	require.NoError(t, err)
	assert.Nil(t, h)
}

func TestStruct_FactoryErrors(t *testing.T) {
	f := Struct(func() any { return struct{}{} })
	_, err := f()
	assert.Error(t, err)
}

func TestStruct_PassesThroughHandlers(t *testing.T) {
	m := core.Methods{"ping": core.Value("pong")}
	h, err := Struct(func() any { return m })()
	require.NoError(t, err)

	fn, ok := h.Lookup("ping")
	require.True(t, ok)
	v, _ := fn(context.Background())
	assert.Equal(t, "pong", v)
}

func TestStruct_FreshInstancePerCall(t *testing.T) {
	var mu sync.Mutex
	created := 0
	f := Struct(func() any {
		mu.Lock()
		defer mu.Unlock()
		created++
		return &usersV1{}
	})

	for i := 0; i < 3; i++ {
		_, err := f()
		require.NoError(t, err)
	}
	assert.Equal(t, 3, created)
}
