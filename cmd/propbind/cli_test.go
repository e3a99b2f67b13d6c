package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, _, err := execute(stdin, args...)
	require.NoError(t, err)
	return out
}

func execute(stdin string, args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestParseRequest(t *testing.T) {
	req, err := parseRequest(`{"target":"gtk","adapter":"a","props":"{\"title\":\"x\"}"}`)
	require.NoError(t, err)
	assert.Equal(t, "gtk", req.Target)
	assert.Equal(t, `{"title":"x"}`, req.Props)

	req, err = parseRequest(`{"target":"gtk","adapter":"a","props":{"title":"x"}}`)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"x"}`, req.Props)

	req, err = parseRequest(`{"target":"gtk"}`)
	require.NoError(t, err)
	assert.NotEmpty(t, req.Adapter, "missing ids are generated")
	assert.Empty(t, req.Props)

	_, err = parseRequest(`{`)
	assert.Error(t, err)
}

func TestCLI_NormalizeShowList(t *testing.T) {
	dir := t.TempDir()

	out := run(t, "", "normalize", "--path", dir, "--target", "svelte", "--id", "card", `{"onClick":"go"}`)
	assert.Equal(t, "card\t{\"on:click\":\"go\"}\n", out)

	out = run(t, "", "show", "--path", dir, "svelte", "card")
	assert.Equal(t, "{\"on:click\":\"go\"}\n", out)

	out = run(t, "", "list", "--path", dir)
	assert.Equal(t, "svelte\tcard\n", out)
}

func TestCLI_NormalizeRejected(t *testing.T) {
	dir := t.TempDir()

	out, errOut, err := execute("", "normalize", "--path", dir, "--target", "gtk", "--id", "bad", "[1]")
	assert.ErrorIs(t, err, errRejected)
	assert.Equal(t, 2, exitCode(err))
	assert.Empty(t, out)
	assert.Equal(t, "Props must be a JSON object\n", errOut)

	require.NoError(t, normalizeCmd.Flags().Set("json", "true"))
	t.Cleanup(func() { _ = normalizeCmd.Flags().Set("json", "false") })

	out, _, err = execute("", "normalize", "--path", dir, "--target", "gtk", "--id", "bad", "--json", "{")
	assert.ErrorIs(t, err, errRejected, "the JSON output mode reports rejection the same way")
	assert.Equal(t, 2, exitCode(err))
	assert.Contains(t, out, `"variant":"error"`)

	_, _, err = execute("", "show", "--path", dir, "gtk", "bad")
	assert.Error(t, err, "rejected props are never stored")
	assert.Equal(t, 1, exitCode(err))
	assert.Equal(t, 0, exitCode(nil))
}

func TestCLI_Batch(t *testing.T) {
	dir := t.TempDir()
	lines := `{"target":"rn","adapter":"a","props":{"onClick":"x"}}
{"target":"nope","adapter":"b","props":"{}"}
`
	out := run(t, lines, "batch", "--path", dir)
	got := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, got, 2)
	assert.Contains(t, got[0], `"variant":"ok"`)
	assert.Contains(t, got[1], `"variant":"error"`)
}

func TestCLI_TargetsShowsOverrides(t *testing.T) {
	dir := t.TempDir()
	tables := filepath.Join(dir, "tables.yaml")
	require.NoError(t, os.WriteFile(tables, []byte(`
targets:
  jetpack:
    events:
      swipe: Modifier.swipeable
`), 0644))
	t.Cleanup(func() { _ = rootCmd.PersistentFlags().Set("tables", "") })

	out := run(t, "", "targets", "--path", dir, "--tables", tables, "compose")
	assert.Contains(t, out, "compose: Jetpack Compose")
	assert.Regexp(t, `event\s+swipe\s+Modifier\.swipeable`, out)
	assert.Regexp(t, `event\s+click\s+Modifier\.clickable`, out)
	_, err := os.Stat(filepath.Join(dir, ".propbind"))
	assert.True(t, os.IsNotExist(err), "listing tables does not touch the store")
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "propbind.toml"), []byte(`
backend = "sqlite"
database = "records.db"
concurrency = 8
`), 0644))

	require.NoError(t, rootCmd.PersistentFlags().Set("path", dir))
	t.Cleanup(func() { _ = rootCmd.PersistentFlags().Set("path", "") })

	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, dir, cfg.Path)
	assert.Equal(t, filepath.Join(dir, "records.db"), cfg.uri())
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("PROPBIND_BACKEND", "memory")
	require.NoError(t, rootCmd.PersistentFlags().Set("path", t.TempDir()))
	t.Cleanup(func() { _ = rootCmd.PersistentFlags().Set("path", "") })

	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Backend)
	assert.Equal(t, "json", cfg.Format)
}
