// Author: lwmacct (https://github.com/lwmacct)
package layer

import (
	"fmt"
	"iter"
	"maps"
	"math"
	"reflect"
	"slices"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// 元素类型
// ═══════════════════════════════════════════════════════════════════════════

// Kind 配置树元素的类型标签
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindInt:    "integer",
	KindFloat:  "float",
	KindString: "string",
	KindList:   "list",
	KindMap:    "map",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Element 配置树中的一个值 (tagged union)。
//
// 零值为 Null。标量按值保存，可自由共享；List 与 Map 为容器，
// 通过 [Element.Clone] 获得独立副本。
type Element struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	list []Element
	m    *Map
}

// Null 返回显式的 null 值 (合并时作为墓碑)
func Null() Element { return Element{} }

// Bool 构造布尔值
func Bool(v bool) Element { return Element{kind: KindBool, b: v} }

// Int 构造整数值
func Int(v int64) Element { return Element{kind: KindInt, i: v} }

// Float 构造浮点值
func Float(v float64) Element { return Element{kind: KindFloat, f: v} }

// String 构造字符串值
func String(v string) Element { return Element{kind: KindString, s: v} }

// List 构造列表，items 会被复制一份
func List(items ...Element) Element {
	return Element{kind: KindList, list: slices.Clone(items)}
}

// FromMap 将 Map 包装为元素，nil 视为空 Map
func FromMap(m *Map) Element {
	if m == nil {
		m = NewMap()
	}

	return Element{kind: KindMap, m: m}
}

func (e Element) Kind() Kind { return e.kind }
func (e Element) IsNull() bool { return e.kind == KindNull }

func (e Element) AsBool() (bool, bool) { return e.b, e.kind == KindBool }
func (e Element) AsInt() (int64, bool) { return e.i, e.kind == KindInt }
func (e Element) AsFloat() (float64, bool) { return e.f, e.kind == KindFloat }
func (e Element) AsString() (string, bool) { return e.s, e.kind == KindString }
func (e Element) AsList() ([]Element, bool) { return e.list, e.kind == KindList }
func (e Element) AsMap() (*Map, bool) { return e.m, e.kind == KindMap }

// Clone 深拷贝元素，结果与原值不共享任何容器
func (e Element) Clone() Element {
	switch e.kind {
	case KindList:
		items := make([]Element, len(e.list))
		for i, item := range e.list {
			items[i] = item.Clone()
		}

		return Element{kind: KindList, list: items}
	case KindMap:
		return Element{kind: KindMap, m: e.m.Clone()}
	default:
		return e
	}
}

// Equal 结构化比较，Map 的键顺序不参与比较
func (e Element) Equal(o Element) bool {
	if e.kind != o.kind {
		return false
	}

	switch e.kind {
	case KindNull:
		return true
	case KindBool:
		return e.b == o.b
	case KindInt:
		return e.i == o.i
	case KindFloat:
		return e.f == o.f || (math.IsNaN(e.f) && math.IsNaN(o.f))
	case KindString:
		return e.s == o.s
	case KindList:
		return slices.EqualFunc(e.list, o.list, Element.Equal)
	case KindMap:
		return e.m.Equal(o.m)
	default:
		return false
	}
}

// ToAny 转换为普通 Go 值：nil, bool, int64, float64, string, []any, map[string]any
func (e Element) ToAny() any {
	switch e.kind {
	case KindBool:
		return e.b
	case KindInt:
		return e.i
	case KindFloat:
		return e.f
	case KindString:
		return e.s
	case KindList:
		out := make([]any, len(e.list))
		for i, item := range e.list {
			out[i] = item.ToAny()
		}

		return out
	case KindMap:
		return e.m.ToAny()
	default:
		return nil
	}
}

// FromAny 将普通 Go 值转换为元素。
//
// Go map 无序，转换时按键排序以保证结果确定；需要保留顺序时请直接构造 [Map]。
func FromAny(v any) (Element, error) {
	switch val := v.(type) {
	case nil:
		return Null(), nil
	case Element:
		return val.Clone(), nil
	case *Map:
		return FromMap(val.Clone()), nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case int:
		return Int(int64(val)), nil
	case int8:
		return Int(int64(val)), nil
	case int16:
		return Int(int64(val)), nil
	case int32:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint8:
		return Int(int64(val)), nil
	case uint16:
		return Int(int64(val)), nil
	case uint32:
		return Int(int64(val)), nil
	case uint:
		return fromUint(uint64(val))
	case uint64:
		return fromUint(val)
	case uintptr:
		return fromUint(uint64(val))
	case float32:
		return Float(float64(val)), nil
	case float64:
		return Float(val), nil
	case []any:
		items := make([]Element, len(val))
		for i, item := range val {
			el, err := FromAny(item)
			if err != nil {
				return Element{}, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = el
		}

		return Element{kind: KindList, list: items}, nil
	case map[string]any:
		m := NewMap()
		for _, k := range slices.Sorted(maps.Keys(val)) {
			el, err := FromAny(val[k])
			if err != nil {
				return Element{}, fmt.Errorf("key %q: %w", k, err)
			}
			m.Set(k, el)
		}

		return FromMap(m), nil
	}

	// 其余切片与 map 类型通过反射处理，如 []string、map[string]int
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range rv.Len() {
			items[i] = rv.Index(i).Interface()
		}

		return FromAny(items)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Element{}, fmt.Errorf("unsupported map key type %s", rv.Type().Key())
		}
		plain := make(map[string]any, rv.Len())
		it := rv.MapRange()
		for it.Next() {
			plain[it.Key().String()] = it.Value().Interface()
		}

		return FromAny(plain)
	}

	return Element{}, fmt.Errorf("unsupported value type %T", v)
}

// fromUint 超出 int64 范围的无符号整数返回错误而不是回绕
func fromUint(u uint64) (Element, error) {
	if u > math.MaxInt64 {
		return Element{}, fmt.Errorf("integer %d overflows int64", u)
	}

	return Int(int64(u)), nil
}

// ═══════════════════════════════════════════════════════════════════════════
// 有序 Map
// ═══════════════════════════════════════════════════════════════════════════

// Map 按插入顺序迭代的字符串键映射，即一个 Layer 的根及其嵌套节点。
//
// 迭代顺序有语义：它决定合并时类型冲突的发现顺序与占位符循环的报告顺序。
type Map struct {
	keys   []string
	values map[string]Element
}

// NewMap 创建空 Map
func NewMap() *Map {
	return &Map{values: make(map[string]Element)}
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}

	return len(m.keys)
}

// Get 返回 key 对应的值及其是否存在
func (m *Map) Get(key string) (Element, bool) {
	if m == nil {
		return Element{}, false
	}
	v, ok := m.values[key]

	return v, ok
}

// Has 判断 key 是否存在 (区分不存在与显式 null)
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set 设置 key 的值；新 key 追加到末尾，已有 key 保持原位置
func (m *Map) Set(key string, v Element) *Map {
	if m.values == nil {
		m.values = make(map[string]Element)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v

	return m
}

// Delete 删除 key，不存在时无操作
func (m *Map) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
}

// Keys 按插入顺序返回所有键的副本
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}

	return slices.Clone(m.keys)
}

// All 按插入顺序迭代键值对
func (m *Map) All() iter.Seq2[string, Element] {
	return func(yield func(string, Element) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Clone 深拷贝，返回的 Map 与原 Map 不共享任何容器节点
func (m *Map) Clone() *Map {
	out := &Map{
		keys:   make([]string, 0, m.Len()),
		values: make(map[string]Element, m.Len()),
	}
	for k, v := range m.All() {
		out.Set(k, v.Clone())
	}

	return out
}

// Equal 结构化比较，忽略键顺序
func (m *Map) Equal(o *Map) bool {
	if m.Len() != o.Len() {
		return false
	}
	for k, v := range m.All() {
		ov, ok := o.Get(k)
		if !ok || !v.Equal(ov) {
			return false
		}
	}

	return true
}

// ToAny 转换为 map[string]any
func (m *Map) ToAny() map[string]any {
	out := make(map[string]any, m.Len())
	for k, v := range m.All() {
		out[k] = v.ToAny()
	}

	return out
}

// Lookup 从 m 开始按 path 逐段下降，返回找到的值。
//
// 第二个返回值为成功下降的段数；等于 len(path) 时表示找到。
func (m *Map) Lookup(path Path) (Element, int) {
	cur := FromMap(m)
	for i, seg := range path {
		node, ok := cur.AsMap()
		if !ok {
			return Element{}, i
		}
		next, ok := node.Get(seg)
		if !ok {
			return Element{}, i
		}
		cur = next
	}

	return cur, len(path)
}

// ═══════════════════════════════════════════════════════════════════════════
// 路径
// ═══════════════════════════════════════════════════════════════════════════

// Path 通过逐级 Map 键下降定位树中的位置 (列表不可寻址)
type Path []string

// ParsePath 解析点号分隔的路径，空字符串返回空路径
func ParsePath(s string) Path {
	if s == "" {
		return Path{}
	}

	return Path(strings.Split(s, "."))
}

// Child 返回追加一段后的新路径，不修改原路径的底层数组
func (p Path) Child(seg string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)

	return append(out, seg)
}

func (p Path) Equal(o Path) bool { return slices.Equal(p, o) }

func (p Path) String() string { return strings.Join(p, ".") }
