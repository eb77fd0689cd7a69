package apigen_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdziat/apigen"
	"github.com/jdziat/apigen/pkg/core"
	"github.com/jdziat/apigen/pkg/doc"
)

const usersLua = `
Api_users = {}
Api_users.__index = Api_users

function Api_users.new()
    return setmetatable({}, Api_users)
end

function Api_users:_index()
    return { status = "ok" }
end

function Api_users:list()
    return { { id = 1 } }
end
`

// orders is a compiled-in module.
type orders struct {
	calls *atomic.Int64
}

func (o *orders) Index() map[string]string {
	o.calls.Add(1)
	return map[string]string{"module": "orders"}
}

func (o *orders) Recent(ctx context.Context) ([]int, error) {
	o.calls.Add(1)
	return []int{3, 2, 1}, nil
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// setupApp builds an app over a temp api root holding v1/users.lua and
// v1/orders.native.
func setupApp(t *testing.T, opts ...apigen.Option) (*apigen.App, *atomic.Int64) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "v1", "users.lua"), usersLua)
	writeFile(t, filepath.Join(root, "v1", "orders.native"), "")

	cfg := apigen.DefaultConfig()
	cfg.APIRoot = root

	app, err := apigen.New(cfg, append([]apigen.Option{apigen.WithLogger(quietLogger())}, opts...)...)
	require.NoError(t, err)

	calls := &atomic.Int64{}
	require.NoError(t, app.RegisterStruct(1, "orders", func() any { return &orders{calls: calls} }))
	return app, calls
}

// ---------------------------------------------------------------------------
// Dispatch scenarios
// ---------------------------------------------------------------------------

func TestDispatch_NamedMethod(t *testing.T) {
	app, _ := setupApp(t)

	resp, err := app.Dispatch(context.Background(), "json", 1, "users", "list")
	require.NoError(t, err)
	assert.Equal(t, "application/json", resp.ContentType)
	assert.Equal(t, `[{"id":1}]`, string(resp.Body))
}

func TestDispatch_DefaultMethod(t *testing.T) {
	app, _ := setupApp(t)

	resp, err := app.Dispatch(context.Background(), "json", 1, "users", "")
	require.NoError(t, err)
	assert.Equal(t, `{"status":"ok"}`, string(resp.Body))
}

func TestDispatch_MissingVersion(t *testing.T) {
	app, _ := setupApp(t)

	for _, module := range []string{"users", "anything", ""} {
		resp, err := app.Dispatch(context.Background(), "json", 2, module, "list")
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, apigen.ErrInvalidVersion, module)
	}
}

func TestDispatch_MissingModule(t *testing.T) {
	app, _ := setupApp(t)

	_, err := app.Dispatch(context.Background(), "json", 1, "payments", "")
	assert.ErrorIs(t, err, apigen.ErrInvalidModule)
	assert.Equal(t, "invalid_module", apigen.ErrorCode(err))
}

func TestDispatch_UnknownFormatLoadsNothing(t *testing.T) {
	app, calls := setupApp(t)

	_, err := app.Dispatch(context.Background(), "xml", 1, "orders", "recent")
	assert.ErrorIs(t, err, apigen.ErrInvalidFormat)
	assert.Zero(t, calls.Load())
}

func TestDispatch_DocSkipsLoading(t *testing.T) {
	var got []any
	docs := doc.Func(func(_ context.Context, version int, module, method string) (*core.Response, error) {
		got = []any{version, module, method}
		return &core.Response{ContentType: doc.ContentType, Body: []byte("orders v1")}, nil
	})
	app, calls := setupApp(t, apigen.WithDocumenter(docs))

	resp, err := app.Dispatch(context.Background(), apigen.FormatDoc, 1, "orders", "")
	require.NoError(t, err)
	assert.Equal(t, "orders v1", string(resp.Body))
	assert.Equal(t, []any{1, "orders", ""}, got)
	assert.Zero(t, calls.Load())
}

func TestDispatch_NativeModule(t *testing.T) {
	app, calls := setupApp(t)

	resp, err := app.Dispatch(context.Background(), "json", 1, "orders", "recent")
	require.NoError(t, err)
	assert.Equal(t, `[3,2,1]`, string(resp.Body))
	assert.Equal(t, int64(1), calls.Load())

	resp, err = app.Dispatch(context.Background(), "php", 1, "orders", "")
	require.NoError(t, err)
	assert.Equal(t, `a:1:{s:6:"module";s:6:"orders";}`, string(resp.Body))
	assert.Equal(t, int64(2), calls.Load())
}

func TestDispatch_NativeMarkerWithoutRegistration(t *testing.T) {
	app, _ := setupApp(t)
	writeFile(t, filepath.Join(app.Config().APIRoot, "v1", "ghost.native"), "")

	_, err := app.Dispatch(context.Background(), "json", 1, "ghost", "")
	assert.ErrorIs(t, err, apigen.ErrInvalidModuleOrVersion)
}

func TestDispatch_InvalidMethod(t *testing.T) {
	app, calls := setupApp(t)

	_, err := app.Dispatch(context.Background(), "json", 1, "orders", "cancel")
	assert.ErrorIs(t, err, apigen.ErrInvalidMethod)
	assert.Zero(t, calls.Load())
}

func TestDispatch_JSONRoundTrip(t *testing.T) {
	app, _ := setupApp(t)

	resp, err := app.Dispatch(context.Background(), "json", 1, "users", "list")
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(resp.Body, &decoded))
	assert.Equal(t, []map[string]any{{"id": float64(1)}}, decoded)
}

func TestNew_MissingAPIRoot(t *testing.T) {
	app, err := apigen.New(nil, apigen.WithLogger(quietLogger()))
	require.NoError(t, err)

	_, err = app.Dispatch(context.Background(), "json", 1, "users", "")
	assert.ErrorIs(t, err, apigen.ErrMissingConfig)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := apigen.DefaultConfig()
	cfg.Log.Format = "xml"

	_, err := apigen.New(cfg, apigen.WithLogger(quietLogger()))
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// Serve, HTTP and stats
// ---------------------------------------------------------------------------

type recorder struct {
	contentType string
	body        bytes.Buffer
}

func (r *recorder) SetContentType(ct string) { r.contentType = ct }

func (r *recorder) Write(p []byte) (int, error) { return r.body.Write(p) }

func TestServe(t *testing.T) {
	app, _ := setupApp(t)
	out := &recorder{}

	err := app.Serve(context.Background(), out, apigen.Request{Format: "yaml", Version: 1, Module: "users"})
	require.NoError(t, err)
	assert.Equal(t, "application/yaml", out.contentType)
	assert.Contains(t, out.body.String(), "status: ok")

	out = &recorder{}
	err = app.Serve(context.Background(), out, apigen.Request{Format: "json", Version: 9, Module: "users"})
	require.Error(t, err)
	assert.Empty(t, out.contentType)
	assert.Zero(t, out.body.Len())
}

func TestHandler(t *testing.T) {
	app, _ := setupApp(t)
	h := app.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/json/v1/users/list", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `[{"id":1}]`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/xml/v1/users/list", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var snap apigen.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, int64(2), snap.Total)
	assert.Equal(t, int64(1), snap.Faults)
}

func TestStats(t *testing.T) {
	app, _ := setupApp(t)

	_, _ = app.Dispatch(context.Background(), "json", 1, "orders", "recent")
	_, _ = app.Dispatch(context.Background(), "json", 1, "orders", "nope")

	snap := app.Stats().Snapshot()
	assert.Equal(t, int64(2), snap.Total)
	assert.Equal(t, int64(1), snap.Faults)
}

func TestIsClientError(t *testing.T) {
	app, _ := setupApp(t)

	_, err := app.Dispatch(context.Background(), "json", 1, "users", "nope")
	assert.True(t, apigen.IsClientError(err))

	_, err = apigen.New(nil, apigen.WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.False(t, apigen.IsClientError(apigen.ErrMissingConfig))
	assert.False(t, apigen.IsClientError(nil))
}
