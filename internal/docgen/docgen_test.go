package docgen

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/exprsense/internal/fixture"
	"github.com/oakwood-commons/exprsense/internal/symbol"
)

func TestMarkdown(t *testing.T) {
	tree := fixture.Tree()
	md := string(Markdown(tree, Options{Title: "Sample"}))

	assert.True(t, strings.HasPrefix(md, "# Sample\n"))
	assert.Contains(t, md, "\n## Namespace Emgu.CV\n")
	assert.Contains(t, md, "\n## Namespace System\n")
	assert.Contains(t, md, "\n### Image\n\n`Class Image`\n")
	assert.Contains(t, md, "| Width | Property |")
	assert.Contains(t, md, "\n### Dictionary(TKey, TValue).KeyCollection\n")
	assert.NotContains(t, md, "## Namespace Emgu\n", "namespaces without types have no section")
	assert.Less(t, strings.Index(md, "Namespace Emgu.CV"), strings.Index(md, "Namespace System\n"))
}

func TestMarkdownKeep(t *testing.T) {
	tree := fixture.Tree()
	md := string(Markdown(tree, Options{Keep: func(id symbol.ID) bool {
		return tree.Get(id).Name == "Point"
	}}))
	assert.True(t, strings.HasPrefix(md, "# API reference\n"))
	assert.Contains(t, md, "### Point")
	assert.NotContains(t, md, "### Image")
	assert.NotContains(t, md, "Namespace Emgu")
}

func TestCellEscapesPipes(t *testing.T) {
	assert.Equal(t, `a \| b`, cell("a | b"))
}

func TestHTML(t *testing.T) {
	tree := fixture.Tree()
	page := string(HTML(tree, Options{Title: "A <b> title"}))
	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "<title>A &lt;b&gt; title</title>")
	assert.Contains(t, page, "<h2")
	assert.Contains(t, page, "<table>")
	assert.True(t, strings.HasSuffix(page, "</html>\n"))
}

func TestWrite(t *testing.T) {
	tree := fixture.Tree()

	var md bytes.Buffer
	require.NoError(t, Write(&md, tree, FormatMarkdown, Options{}))
	assert.Contains(t, md.String(), "# API reference")

	var page bytes.Buffer
	require.NoError(t, Write(&page, tree, FormatHTML, Options{}))
	assert.Contains(t, page.String(), "<body>")

	err := Write(&bytes.Buffer{}, tree, "pdf", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "md, html")
}
