package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable_Copies(t *testing.T) {
	header := []string{"a", "b"}
	rows := [][]string{{"1", "2"}}

	tbl := NewTable(header, rows)
	header[0] = "changed"
	rows[0][0] = "changed"

	assert.Equal(t, []string{"a", "b"}, tbl.Header)
	assert.Equal(t, "1", tbl.Rows[0][0])
}

func TestTable_Column(t *testing.T) {
	tbl := NewTable([]string{"a", "b"}, [][]string{{"1", "2"}, {"3"}})

	idx, err := tbl.ColumnIndex("b")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	values, err := tbl.Column("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", ""}, values)

	_, err = tbl.Column("c")
	require.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), `"c"`)

	assert.True(t, tbl.HasColumn("a"))
	assert.False(t, tbl.HasColumn("c"))
}
