package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel><title>Ward</title>` +
			`<item><title>Ward 1.2</title><enclosure url="` + srv.URL + `/1-2.mp3?dl=1" type="audio/mpeg" length="3"/></item>` +
			`<item><title>Ward 1.1</title><enclosure url="` + srv.URL + `/1-1.mp3" type="audio/mpeg" length="3"/></item>` +
			`</channel></rss>`))
	})
	mux.HandleFunc("/missing", http.NotFound)
	mux.HandleFunc("/1-1.mp3", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("one")) })
	mux.HandleFunc("/1-2.mp3", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("two")) })

	return srv
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	// keep a stray gocast.yaml in the package dir from leaking in
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestDownloadCommand(t *testing.T) {
	srv := feedServer(t)
	dir := t.TempDir()

	out, _, err := execute(t, "download", srv.URL+"/feed", "--out-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "2 downloaded, 0 skipped, 0 failed")
	assert.FileExists(t, filepath.Join(dir, "001 Ward 1.1.mp3"))
	assert.FileExists(t, filepath.Join(dir, "002 Ward 1.2.mp3"))

	out, logs, err := execute(t, "download", srv.URL+"/feed", "--out-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "0 downloaded, 2 skipped, 0 failed")
	assert.Contains(t, logs, `"001 Ward 1.1.mp3" exists`)
}

func TestDownloadCommand_FeedNotFound(t *testing.T) {
	srv := feedServer(t)
	dir := t.TempDir()

	_, _, err := execute(t, "download", srv.URL+"/missing", "--out-dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDownloadCommand_ArgValidation(t *testing.T) {
	_, _, err := execute(t, "download")
	assert.ErrorContains(t, err, "requires a feed url")

	_, _, err = execute(t, "download", "http://x/feed", "--items", "items.json")
	assert.ErrorContains(t, err, "mutually exclusive")
}

func TestListThenDownloadFromManifest(t *testing.T) {
	srv := feedServer(t)

	out, _, err := execute(t, "list", srv.URL+"/feed")
	require.NoError(t, err)
	assert.Equal(t, "001 Ward 1.1.mp3\n002 Ward 1.2.mp3\n", out)

	manifest, _, err := execute(t, "list", srv.URL+"/feed", "--json")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))

	dir := t.TempDir()
	out, _, err = execute(t, "download", "--items", path, "--out-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "2 downloaded")
	assert.FileExists(t, filepath.Join(dir, "002 Ward 1.2.mp3"))
}

func TestDownloadCommand_DryRun(t *testing.T) {
	srv := feedServer(t)
	dir := filepath.Join(t.TempDir(), "out")

	_, logs, err := execute(t, "download", srv.URL+"/feed", "--out-dir", dir, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, logs, "Would download")
	assert.NoDirExists(t, dir)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gocast dev")
}
