package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable_AlignsColumns(t *testing.T) {
	cols := []Column{{Title: "NAME"}, {Title: "MIN", Right: true}}
	out := stripANSI(RenderTable(cols, [][]string{
		{"alpha", "5"},
		{"b", "120"},
	}))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "NAME   MIN", lines[0])
	assert.Equal(t, "─────  ───", lines[1])
	assert.Equal(t, "alpha    5", lines[2])
	assert.Equal(t, "b      120", lines[3])
}

func TestRenderTable_ShortRowsArePadded(t *testing.T) {
	out := stripANSI(RenderTable(Cols("A", "B", "C"), [][]string{{"x"}}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[2], "x"))
}

func TestRenderTable_NoColumns(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"x"}}))
}
