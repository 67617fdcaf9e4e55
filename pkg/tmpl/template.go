package tmpl

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lwmacct/251207-go-pkg-layerm/pkg/layer"
)

// placeholderRe 匹配 {a.b.c}，每段为字母、数字或下划线
var placeholderRe = regexp.MustCompile(`\{([A-Za-z0-9_]+(?:\.[A-Za-z0-9_]+)*)\}`)

// ═══════════════════════════════════════════════════════════════════════════
// 展开入口
// ═══════════════════════════════════════════════════════════════════════════

// Expand 展开配置树中所有字符串叶子里的 {path} 占位符。
//
// 占位符总是从 tree 的根开始解析，与字符串所在的嵌套位置无关。
// 被引用的字符串会先被完整展开再代入 (支持任意深度的传递引用)。
//
// 返回与输入结构一致的全新配置树，不修改 tree。出错时返回以下错误之一：
//   - [*PlaceholderMissingError] 引用的路径不存在
//   - [*CyclicPlaceholderError] 引用链成环
//   - [*InvalidPlaceholderTypeError] 引用的值不是 string / integer / float
func Expand(tree *layer.Map) (*layer.Map, error) {
	return newExpander(tree).expandMap(tree, layer.Path{})
}

// ExpandString 以 tree 为根展开单个字符串。
//
// 错误中的 Context 为空路径。
func ExpandString(tree *layer.Map, text string) (string, error) {
	return newExpander(tree).expandText(text, layer.Path{})
}

// ═══════════════════════════════════════════════════════════════════════════
// 展开器 (状态仅在一次调用内有效)
// ═══════════════════════════════════════════════════════════════════════════

type expander struct {
	root     *layer.Map
	resolved map[string]string // 已完整解析的占位符 → 最终文本
	active   []layer.Path      // 正在解析的占位符，按依赖顺序
}

func newExpander(root *layer.Map) *expander {
	return &expander{
		root:     root,
		resolved: make(map[string]string),
	}
}

func (e *expander) expandMap(m *layer.Map, path layer.Path) (*layer.Map, error) {
	out := layer.NewMap()
	for key, v := range m.All() {
		expanded, err := e.expandElement(v, path.Child(key))
		if err != nil {
			return nil, err
		}
		out.Set(key, expanded)
	}

	return out, nil
}

// expandElement 列表元素不可寻址，沿用列表所在键的路径作为上下文
func (e *expander) expandElement(v layer.Element, path layer.Path) (layer.Element, error) {
	switch v.Kind() {
	case layer.KindString:
		s, _ := v.AsString()
		text, err := e.expandText(s, path)
		if err != nil {
			return layer.Element{}, err
		}

		return layer.String(text), nil
	case layer.KindList:
		items, _ := v.AsList()
		out := make([]layer.Element, len(items))
		for i, item := range items {
			expanded, err := e.expandElement(item, path)
			if err != nil {
				return layer.Element{}, err
			}
			out[i] = expanded
		}

		return layer.List(out...), nil
	case layer.KindMap:
		m, _ := v.AsMap()
		expanded, err := e.expandMap(m, path)
		if err != nil {
			return layer.Element{}, err
		}

		return layer.FromMap(expanded), nil
	default:
		return v, nil
	}
}

// expandText 从左到右替换 text 中的所有占位符，其余文本原样保留
func (e *expander) expandText(text string, context layer.Path) (string, error) {
	matches := placeholderRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	var buf strings.Builder
	last := 0
	for _, loc := range matches {
		buf.WriteString(text[last:loc[0]])

		value, err := e.resolve(layer.ParsePath(text[loc[2]:loc[3]]), context)
		if err != nil {
			return "", err
		}
		buf.WriteString(value)
		last = loc[1]
	}
	buf.WriteString(text[last:])

	return buf.String(), nil
}

// resolve 返回占位符 path 的最终文本
func (e *expander) resolve(path layer.Path, context layer.Path) (string, error) {
	key := path.String()
	if text, ok := e.resolved[key]; ok {
		return text, nil
	}

	for i, p := range e.active {
		if p.Equal(path) {
			cycle := make([]layer.Path, len(e.active)-i)
			copy(cycle, e.active[i:])

			return "", &CyclicPlaceholderError{Placeholders: cycle}
		}
	}

	value, depth := e.root.Lookup(path)
	if depth < len(path) {
		return "", &PlaceholderMissingError{
			Placeholder: path,
			Progress:    append(layer.Path{}, path[:depth]...),
			Context:     context,
		}
	}

	var text string
	switch value.Kind() {
	case layer.KindString:
		s, _ := value.AsString()
		e.active = append(e.active, path)
		expanded, err := e.expandText(s, path)
		e.active = e.active[:len(e.active)-1]
		if err != nil {
			return "", err
		}
		text = expanded
	case layer.KindInt:
		i, _ := value.AsInt()
		text = strconv.FormatInt(i, 10)
	case layer.KindFloat:
		f, _ := value.AsFloat()
		text = formatFloat(f)
	default:
		return "", &InvalidPlaceholderTypeError{Placeholder: path, Kind: value.Kind()}
	}

	e.resolved[key] = text

	return text, nil
}

// formatFloat 输出最短的十进制文本，整数值保留 ".0" 以区别于整数
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if strings.ContainsAny(s, ".NI") {
		return s
	}

	return s + ".0"
}
