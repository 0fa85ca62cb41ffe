package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/exprsense/internal/symbol"
)

// sampleTree builds:
//
//	System
//	  String   (Class)
//	    Length (Property)
//	    Empty  (Field)
//	  Int32    (Primitive)
func sampleTree() *symbol.Tree {
	t := symbol.New()
	sys := t.Add(t.Root(), symbol.Symbol{Kind: symbol.Namespace, Name: "System", SimpleName: "System", Description: "Namespace System"})
	str := t.Add(sys, symbol.Symbol{Kind: symbol.Class, Name: "String", SimpleName: "String", Description: "Class String"})
	t.Add(str, symbol.Symbol{Kind: symbol.Property, Name: "Length", SimpleName: "Length", Description: "Public ReadOnly Property Length As Int32"})
	t.Add(str, symbol.Symbol{Kind: symbol.Field, Name: "Empty", SimpleName: "Empty", Description: `Public Shared Empty() As "String"`})
	t.Add(sys, symbol.Symbol{Kind: symbol.Primitive, Name: "Int32", SimpleName: "Int32", Description: "Int32"})
	t.Sort()
	t.Freeze()
	return t
}

func sampleTable() Table {
	tbl := Table{Columns: []string{"name", "kind", "description"}}
	tbl.AddRow("Height", "Property", "Public ReadOnly Property Height As Int32")
	tbl.AddRow("Width", "Property")
	return tbl
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("", FormatTable, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, FormatTable, f)

	f, err = ParseFormat(" JSON ", FormatTable, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("tree", FormatTable, FormatJSON)
	require.ErrorIs(t, err, ErrUnknownFormat)
	assert.Contains(t, err.Error(), "table, json")

	_, err = ParseFormat("table")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestTableAddRowAndRecords(t *testing.T) {
	tbl := sampleTable()
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"Width", "Property", ""}, tbl.Rows[1])

	recs := tbl.Records()
	assert.Equal(t, "Height", recs[0]["name"])
	assert.Equal(t, "", recs[1]["description"])
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(sampleTable(), TableOptions{NoColor: true})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "name    kind      description", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "─"))
	assert.Equal(t, "Height  Property  Public ReadOnly Property Height As Int32", lines[2])
	assert.Equal(t, "Width   Property  ", lines[3])
}

func TestRenderTableRowNumbersAndWidth(t *testing.T) {
	out := RenderTable(sampleTable(), TableOptions{NoColor: true, RowNumbers: true, MaxWidth: 40})
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 40, line)
	}
	assert.Contains(t, out, "1  Height")
	assert.Contains(t, out, "…")
}

func TestRenderTableEmpty(t *testing.T) {
	assert.Empty(t, RenderTable(Table{}, TableOptions{}))
}

func TestRenderList(t *testing.T) {
	out := RenderList(sampleTable(), ListOptions{NoColor: true})
	want := "1\n" +
		"  name: Height\n" +
		"  kind: Property\n" +
		"  description: Public ReadOnly Property Height As Int32\n" +
		"\n" +
		"2\n" +
		"  name: Width\n" +
		"  kind: Property\n"
	assert.Equal(t, want, out)
}

func TestFormatSymbolTree(t *testing.T) {
	tree := sampleTree()
	out := FormatSymbolTree(tree, tree.Root(), TreeOptions{})
	assert.Contains(t, out, "System [Namespace]")
	assert.Contains(t, out, "String [Class]")
	assert.Contains(t, out, "Empty [Field]")
	assert.Less(t, strings.Index(out, "Int32"), strings.Index(out, "String [Class]"))
	assert.Less(t, strings.Index(out, "Empty"), strings.Index(out, "Length"))
}

func TestFormatSymbolTreeOptions(t *testing.T) {
	tree := sampleTree()
	sys, _ := tree.Child(tree.Root(), "System")

	out := FormatSymbolTree(tree, sys, TreeOptions{MaxDepth: 1})
	assert.True(t, strings.HasPrefix(out, "System [Namespace]"))
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, "Length")

	out = FormatSymbolTree(tree, tree.Root(), TreeOptions{Descriptions: true})
	assert.Contains(t, out, "Length [Property]: Public ReadOnly Property Length As Int32")
	assert.NotContains(t, out, "Namespace System")

	out = FormatSymbolTree(tree, tree.Root(), TreeOptions{Keep: func(id symbol.ID) bool {
		return tree.Get(id).Name == "Length"
	}})
	assert.Contains(t, out, "Length")
	assert.Contains(t, out, "String")
	assert.NotContains(t, out, "Int32")
	assert.NotContains(t, out, "Empty")
}

func TestFormatSymbolMermaid(t *testing.T) {
	tree := sampleTree()
	out := FormatSymbolMermaid(tree, tree.Root(), MermaidOptions{})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "graph TD", lines[0])
	assert.Equal(t, `    n0["(global)"]`, lines[1])
	assert.Equal(t, `    n1["System"]`, lines[2])
	assert.Equal(t, "    n0 --> n1", lines[3])

	out = FormatSymbolMermaid(tree, tree.Root(), MermaidOptions{Direction: "LR", TypesOnly: true})
	assert.True(t, strings.HasPrefix(out, "graph LR\n"))
	assert.NotContains(t, out, "Length")
	assert.Contains(t, out, "String")

	out = FormatSymbolMermaid(tree, tree.Root(), MermaidOptions{MaxDepth: 1})
	assert.NotContains(t, out, "String")
}

func TestEscapeMermaid(t *testing.T) {
	assert.Equal(t, "List(Of #lt;T#gt;) #quot;x#quot;", escapeMermaid(`List(Of <T>) "x"`))
}

func TestEncodeYAMLAndJSON(t *testing.T) {
	v := []map[string]string{{"name": "Substring", "detail": "line1\nline2"}}

	y, err := EncodeYAML(v, YAMLFormatOptions{LiteralBlockStrings: true})
	require.NoError(t, err)
	assert.Contains(t, y, "detail: |-\n")
	assert.Contains(t, y, "name: Substring")

	j, err := EncodeJSON(v)
	require.NoError(t, err)
	assert.Contains(t, j, `"name": "Substring"`)
	assert.True(t, strings.HasSuffix(j, "\n"))

	j, err = EncodeJSON(map[string]string{"t": "List(Of <T>) & more"})
	require.NoError(t, err)
	assert.Contains(t, j, "<T>) & more")
}
