package layer

import "fmt"

// TypeMismatchError 合并时同一路径上两层的值类型不一致
type TypeMismatchError struct {
	Path  Path
	Upper Kind // 高优先级层的类型
	Lower Kind // 低优先级层的类型
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("entry type mismatch at %q, got types %s and %s", e.Path.String(), e.Upper, e.Lower)
}

// Merge 按优先级合并多个层，layers[0] 优先级最高。
//
// 规则：
//   - 第一个在某路径上定义值的层决定该路径的值
//   - 胜出的值为 null 时作为墓碑，低层在该路径及其下方的值全部忽略
//   - 低层在某路径上为 null 而高层已有非 null 值时不算冲突，但会封住该路径，
//     更低的层在该路径及其下方不再生效
//   - 两层同为 Map 时递归合并，缺失的键按低层顺序追加
//   - 其余类型不一致时返回 [*TypeMismatchError]
//   - List 与标量不做元素级合并
//
// 返回的 Map 由全新节点构成，与任何输入层不共享容器。
func Merge(layers ...*Map) (*Map, error) {
	result := NewMap()
	seals := &tombstones{}

	for _, l := range layers {
		if err := mergeInto(result, l, Path{}, seals); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// mergeInto 将低优先级的 lower 折叠进已合并的 upper
func mergeInto(upper, lower *Map, path Path, seals *tombstones) error {
	for key, lv := range lower.All() {
		sealed := seals.child(key)
		if sealed.closed {
			continue
		}

		uv, ok := upper.Get(key)
		if !ok {
			upper.Set(key, lv.Clone())
			continue
		}

		switch {
		case uv.IsNull():
			// 高层墓碑
			continue
		case lv.IsNull():
			sealed.closed = true
			continue
		case uv.Kind() != lv.Kind():
			return &TypeMismatchError{Path: path.Child(key), Upper: uv.Kind(), Lower: lv.Kind()}
		case uv.Kind() == KindMap:
			um, _ := uv.AsMap()
			lm, _ := lv.AsMap()
			if err := mergeInto(um, lm, path.Child(key), sealed); err != nil {
				return err
			}
		}
	}

	return nil
}

// tombstones 记录被低层 null 封住的路径，与合并结果的结构平行
type tombstones struct {
	closed   bool
	children map[string]*tombstones
}

func (t *tombstones) child(key string) *tombstones {
	if t.children == nil {
		t.children = make(map[string]*tombstones)
	}
	c, ok := t.children[key]
	if !ok {
		c = &tombstones{}
		t.children[key] = c
	}

	return c
}
