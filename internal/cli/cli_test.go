package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	cleanPage  = `<html lang="en"><body><h1>Portfolio</h1><p>Hello</p></body></html>`
	brokenPage = `<html><body><h1>Hi</h1><img src="x.png"></body></html>`
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// run executes the command tree with a config rooted in dir.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cfgPath := writeFile(t, dir, "config.yaml", "storage_root: "+filepath.Join(dir, "store")+"\n")
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand(&stdout, &stderr)
	cmd.SetArgs(append([]string{"--config", cfgPath, "--log-level", "error"}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func TestAudit_CleanFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	page := writeFile(t, dir, "index.html", cleanPage)

	out, err := run(t, dir, "audit", "--no-color", page)
	require.NoError(t, err)
	assert.Contains(t, out, "score 100/100")
	assert.Contains(t, out, "No issues found.")
}

func TestAudit_FailOnError(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	page := writeFile(t, dir, "broken.html", brokenPage)

	out, err := run(t, dir, "audit", "--no-color", page)
	require.ErrorIs(t, err, ErrThresholdExceeded)
	assert.Equal(t, ExitThreshold, exitCode(err))
	assert.Contains(t, out, "ERRORS (1)")
	assert.Contains(t, out, "Image is missing alternative text")

	_, err = run(t, dir, "audit", "--fail-on", "none", page)
	assert.NoError(t, err)
}

func TestAudit_JSONMultipleTargets(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	clean := writeFile(t, dir, "a.html", cleanPage)
	broken := writeFile(t, dir, "b.html", brokenPage)

	out, err := run(t, dir, "audit", "--format", "json", "--fail-on", "none", clean, broken)
	require.NoError(t, err)

	var items []struct {
		Target string `json:"target"`
		Result struct {
			Score   int `json:"score"`
			Summary struct {
				Errors int `json:"errors"`
			} `json:"summary"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 2)
	assert.Equal(t, clean, items[0].Target)
	assert.Equal(t, 100, items[0].Result.Score)
	assert.Equal(t, broken, items[1].Target)
	assert.Equal(t, 1, items[1].Result.Summary.Errors)
}

func TestAudit_HTML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	page := writeFile(t, dir, "broken.html", brokenPage)

	out, err := run(t, dir, "audit", "--format", "html", "--fail-on", "none", page)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<!doctype html>"), out)

	_, err = run(t, dir, "audit", "--format", "html", page, page)
	assert.Error(t, err)
}

func TestAudit_BadFlags(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	page := writeFile(t, dir, "index.html", cleanPage)

	for _, args := range [][]string{
		{"audit", "--format", "pdf", page},
		{"audit", "--fail-on", "info", page},
		{"audit"},
	} {
		_, err := run(t, dir, args...)
		assert.Error(t, err, args)
		assert.Equal(t, ExitError, exitCode(err), args)
	}
}

func TestAudit_MissingFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	out, err := run(t, dir, "audit", filepath.Join(dir, "nope.html"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrThresholdExceeded))
	assert.Contains(t, out, "error:")
}

func TestPages_Lifecycle(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	out, err := run(t, dir, "pages", "add", "home", "http://localhost:9999/", "--description", "Landing page")
	require.NoError(t, err)
	assert.Contains(t, out, "added home -> http://localhost:9999/")

	out, err = run(t, dir, "pages", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "SLUG")
	assert.Contains(t, out, "Landing page")

	_, err = run(t, dir, "pages", "add", "home", "http://localhost:9999/")
	assert.Error(t, err)

	out, err = run(t, dir, "pages", "rm", "home")
	require.NoError(t, err)
	assert.Contains(t, out, "removed home")

	_, err = run(t, dir, "pages", "remove", "home")
	assert.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand(&stdout, &stderr)
	cmd.SetArgs([]string{"--log-level", "loud", "pages", "list"})
	assert.Error(t, cmd.Execute())
}
