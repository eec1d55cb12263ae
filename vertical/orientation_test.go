package vertical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUprightSpansSorted(t *testing.T) {
	for i := 1; i < len(uprightSpans); i++ {
		require.Less(t, uprightSpans[i-1].end, uprightSpans[i].start, "uprightSpans[%d]", i)
	}
}

func TestOrientationOf(t *testing.T) {
	upright := []rune{'中', 'あ', 'ア', '한', '、', '。', '，', '．', '々', '？', 0x3000, '©'}
	for _, r := range upright {
		assert.Equal(t, Upright, OrientationOf(r), "%U", r)
	}
	rotated := []rune{'A', '1', '.', '-', '(', '「', '」', '【', 'ー', '〜', '：', '（', '）', 0x30A0}
	for _, r := range rotated {
		assert.Equal(t, Rotated, OrientationOf(r), "%U", r)
	}
}

func TestPunctuationTransform(t *testing.T) {
	assert.Equal(t, TransformOffset, PunctuationTransform('、'))
	assert.Equal(t, TransformOffset, PunctuationTransform('。'))
	assert.Equal(t, TransformOffset, PunctuationTransform('，'))
	assert.Equal(t, TransformOffset, PunctuationTransform('．'))
	assert.Equal(t, TransformRotate90, PunctuationTransform('「'))
	assert.Equal(t, TransformRotate90, PunctuationTransform('A'))
	assert.Equal(t, TransformNone, PunctuationTransform('中'))
	assert.Equal(t, "Offset", TransformOffset.String())
}

func TestPunctuationOffset(t *testing.T) {
	dx, dy := PunctuationOffset(20)
	assert.Equal(t, 10.0, dx)
	assert.Equal(t, -10.0, dy)
	dx, dy = PunctuationOffset(0)
	assert.Zero(t, dx)
	assert.Zero(t, dy)
}

func TestIsRotatedGroupChar(t *testing.T) {
	for _, r := range "AZaz09.-" {
		assert.True(t, IsRotatedGroupChar(r), "%q", r)
	}
	for _, r := range "中 ,(/" {
		assert.False(t, IsRotatedGroupChar(r), "%q", r)
	}
	assert.False(t, IsRotatedGroupChar('１'))
}
