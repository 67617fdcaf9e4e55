// Author: lwmacct (https://github.com/lwmacct)
package loader

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/lwmacct/251207-go-pkg-layerm/pkg/layer"
)

// Loader 将一个输入源解析为配置树
type Loader func(r io.Reader) (layer.Element, error)

// InvalidLayerError 某个层的根不是 Map
type InvalidLayerError struct {
	Source string // 文件名，或 "<类型> at layer N"
	Kind   layer.Kind
}

func (e *InvalidLayerError) Error() string {
	return fmt.Sprintf("invalid layer %s: root must be a map, got %s", e.Source, e.Kind)
}

// ═══════════════════════════════════════════════════════════════════════════
// 输入源
// ═══════════════════════════════════════════════════════════════════════════

// Source 一个待加载的输入源：文件路径或已打开的 Reader
type Source struct {
	path   string
	name   string
	reader io.Reader
}

// File 按路径加载的输入源，加载时打开并在读取后关闭
func File(path string) Source {
	return Source{path: path, name: path}
}

// Reader 从已打开的 Reader 加载，不负责关闭。
//
// 若 r 实现了 Name() string (如 *os.File)，使用其返回值作为名称。
func Reader(r io.Reader) Source {
	src := Source{reader: r}
	if named, ok := r.(interface{ Name() string }); ok {
		src.name = named.Name()
	}

	return src
}

// Stdin 标准输入
func Stdin() Source {
	return Reader(os.Stdin)
}

// Name 返回输入源的描述；无名称的 Reader 使用其类型与层序号
func (s Source) Name(index int) string {
	if s.name != "" {
		return s.name
	}

	return fmt.Sprintf("%T at layer %d", s.reader, index)
}

func (s Source) load(load Loader) (layer.Element, error) {
	if s.reader != nil {
		return load(s.reader)
	}

	f, err := os.Open(s.path)
	if err != nil {
		return layer.Element{}, fmt.Errorf("failed to open layer: %w", err)
	}
	defer func() { _ = f.Close() }()

	return load(f)
}

// ═══════════════════════════════════════════════════════════════════════════
// 加载与合并
// ═══════════════════════════════════════════════════════════════════════════

// LoadFiles 依次加载 sources 并按优先级合并，sources[0] 优先级最高。
//
// 每个层的根必须是 Map，否则返回 [*InvalidLayerError]。
// 加载器返回的解析错误原样返回，不做包装。
// 返回合并后的配置树，不做占位符展开。
func LoadFiles(sources []Source, load Loader) (*layer.Map, error) {
	layers := make([]*layer.Map, 0, len(sources))
	for i, src := range sources {
		root, err := src.load(load)
		if err != nil {
			return nil, err
		}

		m, ok := root.AsMap()
		if !ok {
			return nil, &InvalidLayerError{Source: src.Name(i), Kind: root.Kind()}
		}
		slog.Debug("Loaded layer", "source", src.Name(i), "keys", m.Len())
		layers = append(layers, m)
	}

	return layer.Merge(layers...)
}

// ═══════════════════════════════════════════════════════════════════════════
// 加载器注册表
// ═══════════════════════════════════════════════════════════════════════════

var loaders = map[string]Loader{
	"json":  JSON,
	"jsonc": JSONC,
	"yaml":  YAML,
	"yml":   YAML,
}

// Names 返回所有内置加载器名称 (已排序)
func Names() []string {
	names := make([]string, 0, len(loaders))
	for name := range loaders {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// Lookup 按名称查找内置加载器，名称不区分大小写
func Lookup(name string) (Loader, error) {
	if l, ok := loaders[strings.ToLower(name)]; ok {
		return l, nil
	}

	return nil, fmt.Errorf("unknown loader %q (available: %s)", name, strings.Join(Names(), ", "))
}
