package generation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStdout(t *testing.T) {
	stdout := "loading data\n" +
		`{"output":"/tmp/a.html","title":"First","slide_count":3}` + "\n" +
		"Reveal.js 已保存: /out/presentation_x.html\n" +
		`{"output":"/tmp/b.html","title":"Second","slide_count":9}` + "\n" +
		"\n"

	report, candidates := parseStdout(stdout)
	require.Equal(t, "Second", report.Title)
	require.Equal(t, 9, report.SlideCount)
	require.Equal(t, []string{"/out/presentation_x.html"}, candidates)
}

func TestResolveArtifactPrefersReportedPath(t *testing.T) {
	dir := t.TempDir()
	reported := writeFile(t, dir, "presentation_abc-final.html")
	writeFile(t, dir, "presentation_abc.html")

	path, _, ok := resolveArtifact(dir, "presentation_abc", ".html", filepath.Join(dir, "presentation_abc.html"),
		"PPTX saved: "+reported+"\n")
	require.True(t, ok)
	require.Equal(t, reported, path)
}

func TestResolveArtifactRejectsPathsOutsideOutputDir(t *testing.T) {
	dir := t.TempDir()
	outside := writeFile(t, t.TempDir(), "presentation_abc.html")

	_, _, ok := resolveArtifact(dir, "presentation_abc", ".html", filepath.Join(dir, "presentation_abc.html"),
		`{"output":"`+outside+`"}`)
	require.False(t, ok)

	// a nested file cannot be reached through /output/<basename>
	decks := filepath.Join(dir, "decks")
	require.NoError(t, os.MkdirAll(decks, 0o755))
	nested := writeFile(t, decks, "presentation_abc.html")
	for _, stdout := range []string{
		"Reveal.js 已保存: " + nested + "\n",
		`{"output":"` + nested + `"}`,
	} {
		_, _, ok = resolveArtifact(dir, "presentation_abc", ".html", filepath.Join(dir, "presentation_abc.html"), stdout)
		require.False(t, ok, stdout)
	}
}

func TestResolveArtifactFallsBackToRequestedThenOwnPrefix(t *testing.T) {
	dir := t.TempDir()
	requested := writeFile(t, dir, "presentation_abc.html")
	path, _, ok := resolveArtifact(dir, "presentation_abc", ".html", requested, "")
	require.True(t, ok)
	require.Equal(t, requested, path)

	dir = t.TempDir()
	writeFile(t, dir, "presentation_abc_1.html")
	suffixed := writeFile(t, dir, "presentation_abc_2.html")
	writeFile(t, dir, "presentation_abd_9.html")
	writeFile(t, dir, "presentation_abc_3.json")
	path, _, ok = resolveArtifact(dir, "presentation_abc", ".html", filepath.Join(dir, "presentation_abc.html"), "")
	require.True(t, ok)
	require.Equal(t, suffixed, path)
}

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	return abs
}
