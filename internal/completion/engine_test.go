package completion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/exprsense/internal/completion"
	"github.com/oakwood-commons/exprsense/internal/fixture"
	"github.com/oakwood-commons/exprsense/internal/symbol"
)

func lookup(t *testing.T, tr *symbol.Tree, names ...string) symbol.ID {
	t.Helper()
	id := tr.Root()
	for _, n := range names {
		var ok bool
		id, ok = tr.Child(id, n)
		require.True(t, ok, n)
	}
	return id
}

func TestFromSymbols(t *testing.T) {
	tr := fixture.Tree()
	sub := lookup(t, tr, "System", "String", "Substring")
	list := lookup(t, tr, "System", "Collections", "Generic", "List(T)")

	rows := completion.FromSymbols(tr, []symbol.ID{list, sub})
	require.Len(t, rows, 2)

	assert.Equal(t, completion.Completion{
		ID:      list,
		Text:    "List",
		Display: "List(T)",
		Path:    "System.Collections.Generic.List(T)",
		Kind:    symbol.Class,
		Detail:  tr.Get(list).Description,
	}, rows[0])
	assert.Equal(t, "Substring", rows[1].Text)
	assert.Equal(t, symbol.Method, rows[1].Kind)
	assert.Equal(t, "Public Function Substring(ByVal startIndex As Int32) As String", rows[1].Detail)

	assert.Nil(t, completion.FromSymbols(tr, nil))
}
