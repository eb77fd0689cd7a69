package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdziat/apigen"
	"github.com/jdziat/apigen/pkg/config"
)

const pingLua = `
Api_ping = {}
function Api_ping:_index() return { pong = true } end
function Api_ping:echo() return "hello" end
`

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func apiRoot(t *testing.T) string {
	t.Helper()
	t.Setenv(config.EnvAPIRoot, "")
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "v1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "v1", "ping.lua"), []byte(pingLua), 0o644))
	return root
}

func TestCall(t *testing.T) {
	root := apiRoot(t)

	out, _, err := run(t, "call", "--api-root", root, "json", "v1", "ping")
	require.NoError(t, err)
	assert.Equal(t, `{"pong":true}`, out)

	out, _, err = run(t, "call", "--api-root", root, "php", "1", "ping", "echo")
	require.NoError(t, err)
	assert.Equal(t, `s:5:"hello";`, out)
}

func TestCall_Faults(t *testing.T) {
	root := apiRoot(t)

	_, _, err := run(t, "call", "--api-root", root, "xml", "1", "ping")
	require.ErrorIs(t, err, apigen.ErrInvalidFormat)
	assert.Contains(t, err.Error(), "invalid_format")

	_, _, err = run(t, "call", "--api-root", root, "json", "v7", "ping")
	assert.ErrorIs(t, err, apigen.ErrInvalidVersion)

	_, _, err = run(t, "call", "--api-root", root, "json", "latest", "ping")
	assert.ErrorIs(t, err, apigen.ErrInvalidVersion)

	_, _, err = run(t, "call", "--api-root", root, "json")
	assert.Error(t, err)
}

func TestCall_ConfigFile(t *testing.T) {
	root := apiRoot(t)
	cfgPath := filepath.Join(t.TempDir(), "apigen.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("api_root: "+root+"\n"), 0o644))

	out, _, err := run(t, "call", "--config", cfgPath, "json", "1", "ping", "echo")
	require.NoError(t, err)
	assert.Equal(t, `"hello"`, out)
}

func TestCall_MissingAPIRoot(t *testing.T) {
	t.Setenv(config.EnvAPIRoot, "")

	_, stderr, err := run(t, "call", "json", "1", "ping")
	assert.ErrorIs(t, err, apigen.ErrMissingConfig)
	assert.Contains(t, stderr, "api_root is not configured")
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "apigend dev\n", out)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	root := apiRoot(t)
	cfg := apigen.DefaultConfig()
	cfg.APIRoot = root
	cfg.Listen = "127.0.0.1:0"

	app, err := apigen.New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, serve(ctx, app))
}
