package main

import (
	"strings"
	"testing"

	"github.com/ByLCY/tategaki/linebreak"
	"github.com/ByLCY/tategaki/squash"
	"github.com/ByLCY/tategaki/vertical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	rows := analyze("AB 漢字。")
	require.Len(t, rows, 6)

	assert.Equal(t, linebreak.AL, rows[0].Class)
	assert.False(t, rows[0].BreakBefore)
	assert.False(t, rows[1].BreakBefore, "no break inside a word")
	assert.True(t, rows[0].RotateGroup)
	assert.Equal(t, vertical.Rotated, rows[0].Orientation)

	assert.Equal(t, linebreak.SP, rows[2].Class)
	assert.True(t, rows[3].BreakBefore, "break after a space")
	assert.True(t, rows[4].BreakBefore, "break between ideographs")
	assert.Equal(t, vertical.Upright, rows[3].Orientation)

	assert.False(t, rows[5].BreakBefore, "。 may not start a line")
	assert.Equal(t, vertical.TransformOffset, rows[5].Transform)
	assert.Equal(t, squash.Closing, rows[5].Squash)
}

func TestDescribePair(t *testing.T) {
	s := describePair('」', '「')
	assert.True(t, strings.Contains(s, "可断行=true"), s)
	assert.True(t, strings.Contains(s, "0.50/0.50"), s)
}

func TestExecuteQuit(t *testing.T) {
	assert.True(t, execute(":q"))
	assert.False(t, execute(":pair A"))
}
