// Package fonts 解析场景中的字体来源：builtin:<name> 指向内置的 Go 字体，其余按文件路径读取。
package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ByLCY/tategaki/layout"
	"github.com/ByLCY/tategaki/shaping"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

const builtinPrefix = "builtin:"

var builtins = map[string][]byte{
	"goregular":    goregular.TTF,
	"gobold":       gobold.TTF,
	"goitalic":     goitalic.TTF,
	"gobolditalic": gobolditalic.TTF,
	"gomedium":     gomedium.TTF,
	"gomono":       gomono.TTF,
}

// Builtins 返回可用的内置字体名（不含 builtin: 前缀）。
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load 返回字体数据。src 可写为 "builtin:goregular"，或相对 baseDir 的文件路径。
func Load(src, baseDir string) ([]byte, error) {
	if name, ok := strings.CutPrefix(src, builtinPrefix); ok {
		data, ok := builtins[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("未知的内置字体 %s", name)
		}
		return data, nil
	}
	path := src
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", path, err)
	}
	return data, nil
}

// Install 按声明顺序把场景中的字体登记到 reg。
func Install(reg *shaping.Registry, res layout.ResourceSet, baseDir string) error {
	for _, name := range res.Order {
		font := res.Fonts[name]
		data, err := Load(font.Src, baseDir)
		if err != nil {
			return fmt.Errorf("字体 %s: %w", name, err)
		}
		if _, err := reg.Register(font.Family, font.Style, data, font.Fallback); err != nil {
			return fmt.Errorf("字体 %s: %w", name, err)
		}
	}
	return nil
}
