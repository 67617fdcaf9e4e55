// Package dumper 将配置树序列化为文本。
//
// 内置的 [JSON] 与 [YAML] 输出都按键排序，保证相同的树得到相同的文本。
package dumper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	yamlv3 "go.yaml.in/yaml/v3"

	"github.com/lwmacct/251207-go-pkg-layerm/pkg/layer"
)

// Dumper 将最终的配置树序列化为文本
type Dumper func(tree *layer.Map) ([]byte, error)

// DefaultIndent JSON 默认缩进宽度
const DefaultIndent = 4

// JSON 按键排序、4 空格缩进输出 JSON
func JSON(tree *layer.Map) ([]byte, error) {
	return JSONIndent(DefaultIndent)(tree)
}

// JSONIndent 返回指定缩进宽度的 JSON Dumper，indent <= 0 时输出紧凑格式
func JSONIndent(indent int) Dumper {
	return func(tree *layer.Map) ([]byte, error) {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if indent > 0 {
			enc.SetIndent("", strings.Repeat(" ", indent))
		}
		// encoding/json 对 map 键排序
		if err := enc.Encode(tree.ToAny()); err != nil {
			return nil, fmt.Errorf("failed to encode json: %w", err)
		}

		return buf.Bytes(), nil
	}
}

// YAML 按键排序、2 空格缩进输出 YAML
func YAML(tree *layer.Map) ([]byte, error) {
	var buf bytes.Buffer
	enc := yamlv3.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(mapToNode(tree)); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}

	return buf.Bytes(), nil
}

// mapToNode 将 Map 转换为键已排序的 yamlv3.Node
func mapToNode(m *layer.Map) *yamlv3.Node {
	node := &yamlv3.Node{Kind: yamlv3.MappingNode}
	if m.Len() == 0 {
		node.Style = yamlv3.FlowStyle // {} 形式
		return node
	}

	keys := m.Keys()
	slices.Sort(keys)
	for _, k := range keys {
		v, _ := m.Get(k)
		node.Content = append(node.Content,
			&yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!str", Value: k},
			elementToNode(v),
		)
	}

	return node
}

// elementToNode 将元素转换为 yamlv3.Node
func elementToNode(e layer.Element) *yamlv3.Node {
	switch e.Kind() {
	case layer.KindBool:
		b, _ := e.AsBool()
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}
	case layer.KindInt:
		i, _ := e.AsInt()
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(i, 10)}
	case layer.KindFloat:
		f, _ := e.AsFloat()
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!float", Value: yamlFloat(f)}
	case layer.KindString:
		s, _ := e.AsString()
		// Tag 为 !!str 时编码器会为 "1"、"true" 之类的值加引号
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!str", Value: s}
	case layer.KindList:
		items, _ := e.AsList()
		node := &yamlv3.Node{Kind: yamlv3.SequenceNode}
		if len(items) == 0 {
			node.Style = yamlv3.FlowStyle // [] 形式
		}
		for _, item := range items {
			node.Content = append(node.Content, elementToNode(item))
		}
		return node
	case layer.KindMap:
		m, _ := e.AsMap()
		return mapToNode(m)
	default:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// yamlFloat 浮点数文本，整数值保留 ".0" 以免被解析为 integer
func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s
}

// ═══════════════════════════════════════════════════════════════════════════
// Dumper 注册表
// ═══════════════════════════════════════════════════════════════════════════

var dumpers = map[string]Dumper{
	"json": JSON,
	"yaml": YAML,
	"yml":  YAML,
}

// Names 返回所有内置 Dumper 名称 (已排序)
func Names() []string {
	names := make([]string, 0, len(dumpers))
	for name := range dumpers {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// Lookup 按名称查找 Dumper。json 使用 indent 作为缩进宽度，indent <= 0 时输出紧凑格式。
func Lookup(name string, indent int) (Dumper, error) {
	key := strings.ToLower(name)
	if key == "json" {
		return JSONIndent(indent), nil
	}
	if d, ok := dumpers[key]; ok {
		return d, nil
	}

	return nil, fmt.Errorf("unknown dumper %q (available: %s)", name, strings.Join(Names(), ", "))
}
