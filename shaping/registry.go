// Package shaping 把 TextRun 整形为排版引擎使用的字形序列。
//
// 字体在 Registry 中按 (family, style) 登记；登记为 fallback 的字体参与缺字回退。
// 整形后端有两种：逐字符查 cmap 的 sfnt 后端，以及基于 go-text/typesetting 的 HarfBuzz 后端。
package shaping

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ByLCY/tategaki/layout"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
)

func tracer() tracing.Trace {
	return tracing.Select("tategaki.shaping")
}

const defaultStyle = "Regular"

// Typeface 是一份已解析的字体文件。
type Typeface struct {
	font     *layout.Font
	sfnt     *sfnt.Font
	fallback bool

	once   sync.Once
	hbFont hbFace // HarfBuzz 后端按需解析
	hbErr  error
}

// Font 返回排版层使用的字体身份。
func (tf *Typeface) Font() *layout.Font { return tf.font }

// Family 返回登记时的字体族名。
func (tf *Typeface) Family() string { return tf.font.Family }

// Style 返回登记时的字重/样式名。
func (tf *Typeface) Style() string { return tf.font.Style }

// Covers 报告字体 cmap 中是否有 r 的字形。
func (tf *Typeface) Covers(r rune) bool {
	var buf sfnt.Buffer
	gid, err := tf.sfnt.GlyphIndex(&buf, r)
	return err == nil && gid != 0
}

type faceKey struct {
	family string
	style  string
}

// Registry 保存已登记的字体，可并发读取。
type Registry struct {
	mu        sync.RWMutex
	faces     map[faceKey]*Typeface
	fallbacks []*Typeface
}

// NewRegistry 创建空的字体表。
func NewRegistry() *Registry {
	return &Registry{faces: map[faceKey]*Typeface{}}
}

// Register 解析字体数据并登记。family 为空时取字体 name 表中的族名，style 为空视为 Regular。
// 同一 (family, style) 重复登记时后者覆盖前者。
func (reg *Registry) Register(family, style string, data []byte, fallback bool) (*Typeface, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("解析字体失败: %w", err)
	}
	if family == "" {
		if name, err := f.Name(nil, sfnt.NameIDFamily); err == nil {
			family = name
		}
	}
	if family == "" {
		return nil, fmt.Errorf("字体缺少族名")
	}
	if style == "" {
		style = defaultStyle
	}
	tf := &Typeface{
		font:     &layout.Font{Family: family, Style: style, Data: data},
		sfnt:     f,
		fallback: fallback,
	}
	tf.font.Handle = tf

	reg.mu.Lock()
	defer reg.mu.Unlock()
	key := faceKey{family, style}
	if old, ok := reg.faces[key]; ok && old.fallback {
		reg.removeFallback(old)
	}
	reg.faces[key] = tf
	if fallback {
		reg.fallbacks = append(reg.fallbacks, tf)
	}
	tracer().Debugf("shaping: 登记字体 %s（fallback=%v）", tf.font, fallback)
	return tf, nil
}

func (reg *Registry) removeFallback(tf *Typeface) {
	for i, f := range reg.fallbacks {
		if f == tf {
			reg.fallbacks = append(reg.fallbacks[:i], reg.fallbacks[i+1:]...)
			return
		}
	}
}

// stylePriority 决定同族内找不到指定样式时的替补顺序。
func stylePriority(style string) int {
	switch strings.ToLower(style) {
	case "regular":
		return 0
	case "medium":
		return 1
	case "normal":
		return 2
	}
	return 3
}

// Lookup 按以下顺序查找字体：精确匹配；同族中优先级最高的样式；
// 同族（忽略大小写）的回退字体；第一个回退字体。
func (reg *Registry) Lookup(family, style string) (*Typeface, bool) {
	if style == "" {
		style = defaultStyle
	}
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	if tf, ok := reg.faces[faceKey{family, style}]; ok {
		return tf, true
	}
	var sameFamily []*Typeface
	for key, tf := range reg.faces {
		if key.family == family {
			sameFamily = append(sameFamily, tf)
		}
	}
	if len(sameFamily) > 0 {
		sort.Slice(sameFamily, func(i, j int) bool {
			a, b := sameFamily[i].font, sameFamily[j].font
			pa, pb := stylePriority(a.Style), stylePriority(b.Style)
			if pa != pb {
				return pa < pb
			}
			if a.Style != b.Style {
				return a.Style < b.Style
			}
			return a.Family < b.Family
		})
		return sameFamily[0], true
	}
	for _, tf := range reg.fallbacks {
		if strings.EqualFold(tf.font.Family, family) {
			return tf, true
		}
	}
	if len(reg.fallbacks) > 0 {
		tracer().Infof("shaping: 找不到字体 %s %s，改用 %s", family, style, reg.fallbacks[0].font)
		return reg.fallbacks[0], true
	}
	return nil, false
}

// Fallbacks 返回回退字体的快照，按登记顺序排列。
func (reg *Registry) Fallbacks() []*Typeface {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return append([]*Typeface(nil), reg.fallbacks...)
}

// typefaceOf 取回 layout.Font 背后的 Typeface。
func typefaceOf(f *layout.Font) (*Typeface, bool) {
	if f == nil {
		return nil, false
	}
	tf, ok := f.Handle.(*Typeface)
	return tf, ok
}

// faceFor 为 r 选择字体：主字体优先，其次按顺序查回退字体。都没有时返回 nil。
func faceFor(primary *Typeface, fallbacks []*Typeface, r rune) *Typeface {
	if primary.Covers(r) {
		return primary
	}
	for _, tf := range fallbacks {
		if tf != primary && tf.Covers(r) {
			return tf
		}
	}
	return nil
}
