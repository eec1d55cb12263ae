// Package binding 把 JSON 数据插入到场景文本中。
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}|]*)(?:\|([^}]*))?\}`)

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// ${path|默认值} 在路径不存在时使用默认值；没有默认值时保留原占位符。
func Interpolate(text string, data any) string {
	if !strings.Contains(text, "${") {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		path := strings.TrimSpace(groups[1])
		hasDefault := strings.Contains(match, "|")
		if path != "" {
			if val, ok := Lookup(data, path); ok && val != nil {
				return format(val)
			}
		}
		if hasDefault {
			return groups[2]
		}
		return match
	})
}

// Lookup 按点号路径（支持 items[0].name 下标）在 JSON 解码后的数据里取值。
func Lookup(data any, path string) (any, bool) {
	steps, ok := compilePath(path)
	if !ok || data == nil {
		return nil, false
	}
	current := data
	for _, st := range steps {
		if current, ok = st.apply(current); !ok {
			return nil, false
		}
	}
	return current, true
}

// format 让 JSON 数字中的整数不带小数点输出。
func format(val any) string {
	if f, ok := val.(float64); ok && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return fmt.Sprint(val)
}

// step 是路径中的一级：对象键或数组下标。
type step struct {
	key   string
	index int // key 为空时有效
}

func (st step) apply(current any) (any, bool) {
	if st.key == "" {
		arr, ok := current.([]any)
		if !ok || st.index < 0 || st.index >= len(arr) {
			return nil, false
		}
		return arr[st.index], true
	}
	switch m := current.(type) {
	case map[string]any:
		v, ok := m[st.key]
		return v, ok
	case map[string]string:
		v, ok := m[st.key]
		return v, ok
	}
	return nil, false
}

// compilePath 把 `a.b[1][2].c` 拆成逐级访问步骤，下标不是整数或括号不闭合时返回 false。
func compilePath(path string) ([]step, bool) {
	var steps []step
	for _, segment := range strings.Split(path, ".") {
		name, rest, _ := strings.Cut(segment, "[")
		if name != "" {
			steps = append(steps, step{key: name})
		}
		if rest == "" && !strings.Contains(segment, "[") {
			continue
		}
		for _, part := range strings.Split("["+rest, "[")[1:] {
			idx, tail, closed := strings.Cut(part, "]")
			if !closed || tail != "" {
				return nil, false
			}
			n, err := strconv.Atoi(idx)
			if err != nil {
				return nil, false
			}
			steps = append(steps, step{index: n})
		}
	}
	return steps, len(steps) > 0
}
