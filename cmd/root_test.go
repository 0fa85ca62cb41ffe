package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/exprsense/internal/completion"
	"github.com/oakwood-commons/exprsense/internal/config"
	"github.com/oakwood-commons/exprsense/internal/ui"
)

var (
	imaging     = filepath.Join("..", "testdata", "imaging.yaml")
	collections = filepath.Join("..", "testdata", "collections.json")
	geometry    = filepath.Join("..", "testdata", "geometry.toml")
	userConfig  = filepath.Join("..", "testdata", "config.yaml")
)

// run executes the CLI with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func decodeRecords(t *testing.T, s string) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &out), s)
	return out
}

func column(records []map[string]any, key string) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i], _ = r[key].(string)
	}
	return out
}

func TestCompleteDot(t *testing.T) {
	out, _, err := run(t, "complete", "--catalog", imaging, "--local", "img=Emgu.CV.Image", "-o", "json", "img")
	require.NoError(t, err)
	recs := decodeRecords(t, out)
	assert.Equal(t, []string{"Changed", "Dilate", "Erode", "Height", "Save", "ThresholdBinary", "Width"}, column(recs, "name"))
	assert.Equal(t, "img.Height", recs[3]["path"])
	assert.Equal(t, "ReadOnly Property Height As Int32", recs[3]["description"])
	assert.Equal(t, "Event", recs[0]["kind"])
}

func TestCompleteCtrlSpaceAcrossCatalogs(t *testing.T) {
	out, _, err := run(t, "complete", "-c", collections, "-c", geometry, "--trigger", "ctrl-space", "-o", "json", "System.Drawing.Po")
	require.NoError(t, err)
	recs := decodeRecords(t, out)
	assert.Equal(t, []string{"System.Drawing.Point"}, column(recs, "path"))

	out, _, err = run(t, "complete", "-c", collections, "--import", "System.Collections.Generic", "--trigger", "ctrl-space", "-o", "json", "new Dictio")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dictionary(TKey, TValue)"}, column(decodeRecords(t, out), "name"))
}

func TestCompleteLimitAndTable(t *testing.T) {
	out, errOut, err := run(t, "complete", "--catalog", imaging, "--local", "img=Emgu.CV.Image", "--limit", "2", "img")
	require.NoError(t, err)
	assert.Contains(t, errOut, "showing 1-2 of 7")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4, out)
	assert.True(t, strings.HasPrefix(lines[0], "name"))
	assert.Contains(t, lines[2], "Changed")
	assert.Contains(t, lines[3], "Dilate")

	_, errOut, err = run(t, "complete", "--catalog", imaging, "--quiet", "--local", "img=Emgu.CV.Image", "--tail", "1", "img")
	require.NoError(t, err)
	assert.Empty(t, errOut)
}

func TestCompleteErrors(t *testing.T) {
	_, _, err := run(t, "complete", "img")
	require.ErrorIs(t, err, errNoCatalog)

	_, _, err = run(t, "complete", "--sample", "--limit", "1", "--tail", "1", "x")
	require.ErrorContains(t, err, "mutually exclusive")

	_, _, err = run(t, "complete", "--sample", "--trigger", "tab", "x")
	require.ErrorContains(t, err, "unknown trigger")

	_, _, err = run(t, "complete", "--sample", "--local", "img", "x")
	require.Error(t, err)

	out, errOut, err := run(t, "complete", "--sample", "Nothing")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, `no completions for "Nothing"`)
}

func TestDescribe(t *testing.T) {
	out, _, err := run(t, "describe", "--sample", "-o", "json", "system.string.substring")
	require.NoError(t, err)
	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "System.String.Substring", res["path"])
	assert.Equal(t, "Method", res["kind"])
	assert.Equal(t, "Public Function Substring(ByVal startIndex As Int32) As String", res["description"])
	assert.Equal(t, false, res["partial"])

	out, _, err = run(t, "describe", "--sample", "System.String.Nope")
	require.NoError(t, err)
	assert.Contains(t, out, "path: System.String")
	assert.Contains(t, out, "partial: true")

	out, _, err = run(t, "describe", "--sample", "--local", "img=Emgu.CV.Image", "img.Save")
	require.NoError(t, err)
	assert.Contains(t, out, "kind: Method")

	_, _, err = run(t, "describe", "--sample", "Nope")
	require.ErrorContains(t, err, "no symbol matches")
}

func TestSymbols(t *testing.T) {
	out, _, err := run(t, "symbols", "--sample", "--where", `kind == "Enum"`, "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, []string{"System.DayOfWeek"}, column(decodeRecords(t, out), "path"))

	out, _, err = run(t, "symbols", "--sample", "--from", "System.Collections.Generic", "--depth", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "List(T) [Class]")
	assert.NotContains(t, out, "Add")

	out, _, err = run(t, "symbols", "--sample", "--where", `name == "Count"`)
	require.NoError(t, err)
	assert.Contains(t, out, "Count [Property]")
	assert.NotContains(t, out, "DayOfWeek")

	out, _, err = run(t, "symbols", "--sample", "--from", "System.Drawing", "-o", "mermaid")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph TD"))

	out, _, err = run(t, "symbols", "--functions")
	require.NoError(t, err)
	assert.Contains(t, out, "startsWith()")
}

func TestSymbolsErrors(t *testing.T) {
	_, _, err := run(t, "symbols", "--sample", "--where", `kind == "Enum"`, "-o", "mermaid")
	require.Error(t, err)

	_, _, err = run(t, "symbols", "--sample", "--where", `name`)
	require.Error(t, err)

	_, _, err = run(t, "symbols", "--sample", "--from", "System.Nope")
	require.ErrorContains(t, err, "does not resolve")

	_, _, err = run(t, "symbols", "--sample", "-o", "csv")
	require.Error(t, err)
}

func TestDocs(t *testing.T) {
	out, errOut, err := run(t, "docs", "--catalog", imaging)
	require.NoError(t, err)
	assert.Contains(t, out, "## Namespace Emgu.CV\n")
	assert.Contains(t, out, "### Image\n")
	assert.NotContains(t, out, "Hidden")
	assert.Contains(t, errOut, "1 filtered")

	path := filepath.Join(t.TempDir(), "api.html")
	_, _, err = run(t, "docs", "--sample", "--format", "html", "--where", `name == "String"`, "--out", path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, _, err = run(t, "docs", "--sample", "--format", "pdf")
	require.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	out, errOut, err := run(t, "config", "--config-file", userConfig, "-o", "json")
	require.NoError(t, err)
	var cfg map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.EqualValues(t, 5, cfg["ui"]["popupHeight"])
	assert.EqualValues(t, 60, cfg["ui"]["popupWidth"])
	assert.Contains(t, errOut, "config.yaml")

	out, _, err = run(t, "config", "--defaults")
	require.NoError(t, err)
	assert.Contains(t, out, "ignoreNamespaces")

	_, _, err = run(t, "config", "--config-file", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "exprsense "))

	out, _, err = run(t, "version", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "name: exprsense")
}

func stubEditor(t *testing.T, res ui.Result) *ui.Options {
	t.Helper()
	var got ui.Options
	prev := runEditor
	runEditor = func(ctx context.Context, svc *completion.Service, scfg completion.SessionConfig, opts ui.Options, _ ...tea.ProgramOption) (ui.Result, error) {
		got = opts
		return res, nil
	}
	t.Cleanup(func() { runEditor = prev })
	return &got
}

func TestEdit(t *testing.T) {
	got := stubEditor(t, ui.Result{Text: "img.Width", Accepted: true})
	out, _, err := run(t, "edit", "--sample", "--config-file", userConfig, "--text", "img")
	require.NoError(t, err)
	assert.Equal(t, "img.Width\n", out)
	assert.Equal(t, "img", got.Initial)
	assert.Equal(t, 5, got.PopupHeight)
	assert.True(t, got.NoColor)

	stubEditor(t, ui.Result{Text: "abc"})
	out, _, err = run(t, "-i", "--sample")
	require.NoError(t, err)
	assert.Empty(t, out, "a cancelled edit prints nothing")
}

func TestRootWithoutArgsShowsHelp(t *testing.T) {
	out, _, err := run(t)
	require.NoError(t, err)
	assert.Contains(t, out, "complete")
	assert.Contains(t, out, "--catalog")
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]int8{"": 0, "info": 0, "DEBUG": -1, "trace": -2, "warn": 1, "error": 2, "-3": -3} {
		got, err := parseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseLogLevel("loud")
	assert.Error(t, err)
}

func TestSessionConfigOrder(t *testing.T) {
	o := &rootOptions{imports: []string{"A"}, locals: []string{"img=X.Image"}}
	o.cfg.Session.Imports = []string{"B"}
	o.cfg.Session.Locals = append(o.cfg.Session.Locals, config.LocalSpec{Name: "img", Type: "Y.Image"})
	scfg, err := o.sessionConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, scfg.Imports)
	require.Len(t, scfg.Locals, 2)
	assert.Equal(t, "X.Image", scfg.Locals[0].Type.FullName())
}

func TestFlagsDocumented(t *testing.T) {
	var check func(c *cobra.Command)
	check = func(c *cobra.Command) {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			assert.NotEmpty(t, f.Usage, "%s --%s", c.CommandPath(), f.Name)
		})
		for _, sub := range c.Commands() {
			check(sub)
		}
	}
	check(newRootCmd())
}
