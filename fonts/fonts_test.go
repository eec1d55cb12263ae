package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/tategaki/layout"
	"github.com/ByLCY/tategaki/shaping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"
)

func TestLoadBuiltin(t *testing.T) {
	data, err := Load("builtin:GoRegular", "")
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	_, err = Load("builtin:inter", "")
	assert.Error(t, err)
	assert.Contains(t, Builtins(), "gomono")
}

func TestLoadRelativeFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mono.ttf"), gomono.TTF, 0o644))
	data, err := Load("mono.ttf", dir)
	require.NoError(t, err)
	assert.Equal(t, gomono.TTF, data)

	_, err = Load("missing.ttf", dir)
	assert.Error(t, err)
}

func TestInstall(t *testing.T) {
	res := layout.ResourceSet{
		Fonts: map[string]layout.FontResource{
			"Body": {Name: "Body", Src: "builtin:goregular", Family: "Body", Style: "Regular"},
			"Code": {Name: "Code", Src: "builtin:gomono", Family: "Code", Style: "Regular", Fallback: true},
		},
		Order: []string{"Body", "Code"},
	}
	reg := shaping.NewRegistry()
	require.NoError(t, Install(reg, res, ""))

	tf, ok := reg.Lookup("Body", "")
	require.True(t, ok)
	assert.Equal(t, "Body", tf.Family())
	require.Len(t, reg.Fallbacks(), 1)
	assert.Equal(t, "Code", reg.Fallbacks()[0].Family())

	res.Fonts["Body"] = layout.FontResource{Name: "Body", Src: "builtin:nope"}
	assert.Error(t, Install(shaping.NewRegistry(), res, ""))
}
