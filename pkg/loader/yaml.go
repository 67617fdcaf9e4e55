package loader

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	yamlv3 "go.yaml.in/yaml/v3"

	"github.com/lwmacct/251207-go-pkg-layerm/pkg/layer"
)

// YAML 解析 YAML 文档 (JSON 为其子集)，保留映射键的原始顺序。
//
// 支持锚点/别名与 << 合并键；空文档解析为 null。
func YAML(r io.Reader) (layer.Element, error) {
	var doc yamlv3.Node
	if err := yamlv3.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return layer.Null(), nil
		}
		return layer.Element{}, err
	}

	return nodeToElement(&doc)
}

func nodeToElement(n *yamlv3.Node) (layer.Element, error) {
	switch n.Kind {
	case yamlv3.DocumentNode:
		if len(n.Content) == 0 {
			return layer.Null(), nil
		}
		return nodeToElement(n.Content[0])
	case yamlv3.AliasNode:
		return nodeToElement(n.Alias)
	case yamlv3.SequenceNode:
		items := make([]layer.Element, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeToElement(c)
			if err != nil {
				return layer.Element{}, err
			}
			items = append(items, v)
		}

		return layer.List(items...), nil
	case yamlv3.MappingNode:
		m, err := mappingToMap(n)
		if err != nil {
			return layer.Element{}, err
		}

		return layer.FromMap(m), nil
	case yamlv3.ScalarNode:
		return scalarToElement(n)
	}

	return layer.Element{}, fmt.Errorf("yaml: line %d: unsupported node kind %d", n.Line, n.Kind)
}

// mappingToMap 显式键优先，<< 合并进来的键只补充缺失项
func mappingToMap(n *yamlv3.Node) (*layer.Map, error) {
	m := layer.NewMap()
	var merges []*yamlv3.Node

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if key.Tag == "!!merge" {
			merges = append(merges, val)
			continue
		}
		v, err := nodeToElement(val)
		if err != nil {
			return nil, err
		}
		m.Set(key.Value, v)
	}

	for _, src := range merges {
		if src.Kind == yamlv3.AliasNode {
			src = src.Alias
		}
		sources := []*yamlv3.Node{src}
		if src.Kind == yamlv3.SequenceNode {
			sources = src.Content
		}
		for _, s := range sources {
			v, err := nodeToElement(s)
			if err != nil {
				return nil, err
			}
			sm, ok := v.AsMap()
			if !ok {
				return nil, fmt.Errorf("yaml: line %d: merge key requires a mapping, got %s", s.Line, v.Kind())
			}
			for k, sv := range sm.All() {
				if !m.Has(k) {
					m.Set(k, sv)
				}
			}
		}
	}

	return m, nil
}

func scalarToElement(n *yamlv3.Node) (layer.Element, error) {
	switch n.ShortTag() {
	case "!!null":
		return layer.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return layer.Element{}, err
		}
		return layer.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			// 超出 int64 范围时退化为 float
			f, ferr := strconv.ParseFloat(strings.ReplaceAll(n.Value, "_", ""), 64)
			if ferr != nil {
				return layer.Element{}, err
			}
			return layer.Float(f), nil
		}
		return layer.Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return layer.Element{}, err
		}
		return layer.Float(f), nil
	default:
		// !!str、!!timestamp、!!binary 及自定义标签按原文保留
		return layer.String(n.Value), nil
	}
}
