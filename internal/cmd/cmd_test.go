package cmd

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/gerby-reader/internal/config"
)

const chapterJSON = `{"type":"chapter","chapter":{"tag":"t1","ref":"r1"},"sections":[{"tag":"t2","ref":"r2","name":"Intro"}]}`

// isolate points HOME and the working directory at temp dirs so no real
// config or .env leaks into the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvAPIURL, "")
	t.Setenv(config.EnvListen, "")
	t.Chdir(t.TempDir())
}

func apiServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"no such tag"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testRoot(build ...func(*Globals) *cobra.Command) *cobra.Command {
	root := &cobra.Command{Use: "gerby", SilenceUsage: true, SilenceErrors: true}
	g := &Globals{}
	g.Bind(root)
	for _, b := range build {
		root.AddCommand(b(g))
	}
	return root
}

func execute(t *testing.T, root *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append(args, "--log-file", filepath.Join(t.TempDir(), "gerby.log")))
	err := root.Execute()
	return out.String(), err
}

func TestRenderCmdWritesDocument(t *testing.T) {
	isolate(t)
	srv := apiServer(t, map[string]string{"/api/tag/t1": chapterJSON})

	out, err := execute(t, testRoot(RenderCmd), "render", "--api", srv.URL, "http://localhost:3000/?tag/t1")
	require.NoError(t, err)
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "Chapter r1")
	assert.Contains(t, out, "Section r2: Intro")
	assert.Contains(t, out, `MathJax.Hub.Queue(["Typeset",MathJax.Hub,"content"]);`)
}

func TestRenderCmdFragment(t *testing.T) {
	isolate(t)
	srv := apiServer(t, map[string]string{"/api/tag/t1": chapterJSON})

	out, err := execute(t, testRoot(RenderCmd), "render", "--fragment", "--api", srv.URL, "/tag/t1")
	require.NoError(t, err)
	assert.NotContains(t, out, "<html")
	assert.Contains(t, out, `href="/tag/t2"`)
}

func TestRenderCmdFailedFetchWritesPlaceholder(t *testing.T) {
	isolate(t)
	srv := apiServer(t, nil)

	out, err := execute(t, testRoot(RenderCmd), "render", "--api", srv.URL, "/tag/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch /tag/missing")
	assert.Contains(t, err.Error(), "no such tag")
	assert.Contains(t, out, "Waiting for stuff.")
	assert.NotContains(t, out, "MathJax.Hub.Queue")
}

func TestRenderCmdOutFile(t *testing.T) {
	isolate(t)
	srv := apiServer(t, map[string]string{"/api/tag/t1": chapterJSON})
	path := filepath.Join(t.TempDir(), "page.html")

	out, err := execute(t, testRoot(RenderCmd), "render", "--api", srv.URL, "-o", path, "/tag/t1")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Section r2: Intro")
}

func TestRenderCmdUsesConfigAPIURL(t *testing.T) {
	isolate(t)
	srv := apiServer(t, map[string]string{"/api/tag/t1": chapterJSON})
	t.Setenv(config.EnvAPIURL, srv.URL)

	out, err := execute(t, testRoot(RenderCmd), "render", "--fragment", "/tag/t1")
	require.NoError(t, err)
	assert.Contains(t, out, "Intro")
}

func TestBrowseCmdPrintsChapters(t *testing.T) {
	isolate(t)
	srv := apiServer(t, map[string]string{
		"/api/browse": `{"chapters":[{"tag":"0001","ref":"1","name":"Introduction","type":"chapter"}]}`,
	})

	out, err := execute(t, testRoot(BrowseCmd), "browse", "--api", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "  0001  Chapter 1  Introduction\n", out)
}

func TestSearchCmdJoinsArgs(t *testing.T) {
	isolate(t)
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("q")
		w.Write([]byte(`{"results":[]}`))
	}))
	t.Cleanup(srv.Close)

	out, err := execute(t, testRoot(SearchCmd), "search", "--api", srv.URL, "prime", "ideal")
	require.NoError(t, err)
	assert.Equal(t, "prime ideal", query)
	assert.Equal(t, "no results\n", out)
}

func TestSearchCmdRequiresQuery(t *testing.T) {
	isolate(t)
	_, err := execute(t, testRoot(SearchCmd), "search")
	assert.Error(t, err)
}

func TestIndexCmdUpstreamError(t *testing.T) {
	isolate(t)
	srv := apiServer(t, nil)

	_, err := execute(t, testRoot(IndexCmd), "index", "--api", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index:")
}

func TestConfigInitWritesFileOnce(t *testing.T) {
	isolate(t)

	out, err := execute(t, testRoot(ConfigCmd), "config", "init", "--api", "http://example.test")
	require.NoError(t, err)
	assert.Contains(t, out, config.Path())

	info, err := os.Stat(config.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "http://example.test", cfg.APIURL)

	_, err = execute(t, testRoot(ConfigCmd), "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestConfigShowPrintsEffectiveValues(t *testing.T) {
	isolate(t)
	t.Setenv(config.EnvListen, "0.0.0.0:9000")

	out, err := execute(t, testRoot(ConfigCmd), "config", "show", "--jsonp")
	require.NoError(t, err)
	assert.Contains(t, out, "listen: 0.0.0.0:9000")
	assert.Contains(t, out, "jsonp: true")
}

func TestPrintSummariesSkipsEmptyFields(t *testing.T) {
	var buf bytes.Buffer
	printSummaries(&buf, nil, "nothing")
	assert.Equal(t, "nothing\n", buf.String())
}
