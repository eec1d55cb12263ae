package binding

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData(t *testing.T) any {
	var data any
	raw := `{"user":{"name":"鈴木","age":42},"items":[{"title":"春"},{"title":"夏"}],"ratio":0.5}`
	require.NoError(t, json.Unmarshal([]byte(raw), &data))
	return data
}

func TestInterpolate(t *testing.T) {
	data := testData(t)
	cases := []struct {
		in, want string
	}{
		{"こんにちは、${user.name}さん", "こんにちは、鈴木さん"},
		{"${user.age}歳", "42歳"},
		{"${ratio}", "0.5"},
		{"${items[1].title}", "夏"},
		{"${items[5].title|冬}", "冬"},
		{"${missing}", "${missing}"},
		{"${missing|}", ""},
		{"${ user.name }", "鈴木"},
		{"no placeholders", "no placeholders"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Interpolate(c.in, data), c.in)
	}
}

func TestInterpolateWithoutData(t *testing.T) {
	assert.Equal(t, "${a}", Interpolate("${a}", nil))
	assert.Equal(t, "既定", Interpolate("${a|既定}", nil))
}

func TestLookup(t *testing.T) {
	data := testData(t)
	v, ok := Lookup(data, "items[0].title")
	require.True(t, ok)
	assert.Equal(t, "春", v)
	_, ok = Lookup(data, "items[x]")
	assert.False(t, ok)
	_, ok = Lookup(data, "user.name.first")
	assert.False(t, ok)
}

func TestCompilePath(t *testing.T) {
	steps, ok := compilePath("grid[1][0].v")
	require.True(t, ok)
	assert.Equal(t, []step{{key: "grid"}, {index: 1}, {index: 0}, {key: "v"}}, steps)

	for _, bad := range []string{"", "a[", "a[1]x", "a[-]"} {
		_, ok := compilePath(bad)
		assert.False(t, ok, bad)
	}
}
