package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"nigaran-engine/internal/config"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute(), out.String())
	return out.String()
}

func TestMigrateThenExport(t *testing.T) {
	dir := t.TempDir()

	out := run(t, "--data-dir", dir, "migrate")
	assert.Contains(t, out, "schema at version")
	assert.FileExists(t, filepath.Join(dir, config.FileName))

	out = run(t, "--data-dir", dir, "export", "leads", "--category", "residential")
	assert.Equal(t, "\"Name\",\"WhatsApp Number\",\"Electricity Bill\",\"City\",\"Company\",\"Type\",\"Date\"\n", out)
}

func TestExport_UnknownResource(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--data-dir", t.TempDir(), "export", "invoices"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown resource")
}

func TestConfigShow_MasksCredentials(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Admin.Password = "hunter2"
	require.NoError(t, config.SaveAtomic(filepath.Join(dir, config.FileName), cfg))

	out := run(t, "--data-dir", dir, "config", "show")
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "driver: sqlite")
}

func TestServeModule_GraphResolves(t *testing.T) {
	p := paths{DataDir: t.TempDir()}
	p.CfgPath = filepath.Join(p.DataDir, config.FileName)
	err := fx.ValidateApp(serveModule(p, config.Default(), zap.NewNop()))
	assert.NoError(t, err)
}
