package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listYAML = `
types:
  - namespace: System.Collections.Generic
    name: List` + "`" + `1
    kind: class
    genericParams: [T]
    methods:
      - name: Add
        params:
          - name: item
            type: T
      - name: get_Count
        specialName: true
        returns: System.Int32
    properties:
      - name: Count
        type: System.Int32
        canWrite: false
`

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Format
	}{
		{name: "json object", input: `{"types": []}`, want: FormatJSON},
		{name: "json array", input: `[{"name": "A"}]`, want: FormatJSON},
		{name: "toml array of tables", input: "[[types]]\nname = \"A\"\n", want: FormatTOML},
		{name: "yaml mapping", input: "types:\n  - name: A\n", want: FormatYAML},
		{name: "yaml multi doc", input: "---\nname: A\n---\nname: B\n", want: FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect([]byte(tt.input)))
		})
	}
}

func TestParseYAML(t *testing.T) {
	c, err := Parse([]byte(listYAML), FormatAuto)
	require.NoError(t, err)
	require.Len(t, c.Types, 1)

	list := c.Types[0]
	assert.Equal(t, "System.Collections.Generic.List`1", list.FullName())
	assert.Equal(t, "List", list.SimpleName())
	assert.True(t, list.IsGeneric())
	assert.True(t, list.IsPublic())
	require.NoError(t, list.Validate())

	require.Len(t, list.Methods, 2)
	assert.Equal(t, TypeRef{Name: "T"}, list.Methods[0].Params[0].Type)
	assert.True(t, list.Methods[0].Returns.IsVoid())
	assert.Equal(t, TypeRef{Name: "Int32", Namespace: "System"}, *list.Methods[1].Returns)

	require.Len(t, list.Properties, 1)
	assert.True(t, list.Properties[0].Readable())
	assert.False(t, list.Properties[0].Writable())
}

func TestParseYAMLShapes(t *testing.T) {
	t.Run("multi document single types", func(t *testing.T) {
		c, err := Parse([]byte("---\nname: A\nnamespace: X\n---\nname: B\nnamespace: X\n"), FormatYAML)
		require.NoError(t, err)
		require.Len(t, c.Types, 2)
		assert.Equal(t, "X.B", c.Types[1].FullName())
	})

	t.Run("bare list", func(t *testing.T) {
		c, err := Parse([]byte("- name: A\n  namespace: X\n- name: B\n  namespace: Y\n"), FormatYAML)
		require.NoError(t, err)
		require.Len(t, c.Types, 2)
	})

	t.Run("scalar document is rejected", func(t *testing.T) {
		_, err := Parse([]byte("just a string"), FormatYAML)
		require.Error(t, err)
	})
}

func TestParseDefaults(t *testing.T) {
	input := `
name: Math
namespace: Demo
methods:
  - name: Foo
    static: true
    params:
      - name: x
        type: System.Int32
        optional: true
        hasDefault: true
        default: 0
      - name: y
        type: System.Object
        optional: true
        hasDefault: true
`
	c, err := Parse([]byte(input), FormatYAML)
	require.NoError(t, err)
	params := c.Types[0].Methods[0].Params
	require.Len(t, params, 2)
	assert.True(t, params[0].HasDefault)
	assert.Equal(t, 0, params[0].Default)
	assert.True(t, params[1].HasDefault)
	assert.Nil(t, params[1].Default)
}

func TestParseJSON(t *testing.T) {
	t.Run("wrapped", func(t *testing.T) {
		c, err := Parse([]byte(`{"types":[{"namespace":"A","name":"B","methods":[{"name":"M","returns":"System.String"}]}]}`), FormatAuto)
		require.NoError(t, err)
		require.Len(t, c.Types, 1)
		assert.Equal(t, "String", c.Types[0].Methods[0].Returns.Name)
	})

	t.Run("array", func(t *testing.T) {
		c, err := Parse([]byte(`[{"namespace":"A","name":"B"},{"namespace":"A","name":"C"}]`), FormatJSON)
		require.NoError(t, err)
		assert.Len(t, c.Types, 2)
	})

	t.Run("single", func(t *testing.T) {
		c, err := Parse([]byte(`{"namespace":"A","name":"B","returns":{"name":"X"}}`), FormatJSON)
		require.NoError(t, err)
		assert.Equal(t, "A.B", c.Types[0].FullName())
	})

	t.Run("object type ref", func(t *testing.T) {
		c, err := Parse([]byte(`[{"namespace":"A","name":"B","fields":[{"name":"f","type":{"name":"List`+"`"+`1","namespace":"S","args":["System.Int32"]}}]}]`), FormatJSON)
		require.NoError(t, err)
		ref := c.Types[0].Fields[0].Type
		assert.Equal(t, "List", ref.DisplayName())
		require.Len(t, ref.Args, 1)
		assert.Equal(t, "Int32", ref.Args[0].Name)
	})
}

func TestParseTOML(t *testing.T) {
	input := `
[[types]]
namespace = "Demo"
name = "Widget"
kind = "class"

[[types.methods]]
name = "Spin"
static = true
`
	c, err := Parse([]byte(input), FormatAuto)
	require.NoError(t, err)
	require.Len(t, c.Types, 1)
	assert.Equal(t, "Demo.Widget", c.Types[0].FullName())
	require.Len(t, c.Types[0].Methods, 1)
	assert.True(t, c.Types[0].Methods[0].Static)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("   \n"), FormatAuto)
	require.ErrorIs(t, err, ErrEmptyInput)

	_, err = Parse([]byte("name: A"), Format("xml"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Parse([]byte(`{"types": [`), FormatJSON)
	require.Error(t, err)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.yaml")
	second := filepath.Join(dir, "b.json")
	require.NoError(t, os.WriteFile(first, []byte(listYAML), 0o600))
	require.NoError(t, os.WriteFile(second, []byte(`[{"namespace":"Demo","name":"Widget"}]`), 0o600))

	c, err := LoadFiles(context.Background(), first, second)
	require.NoError(t, err)
	require.Len(t, c.Types, 2)
	assert.Equal(t, "List`1", c.Types[0].Name)
	assert.Equal(t, "Widget", c.Types[1].Name)

	_, err = LoadFiles(context.Background(), first, filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
