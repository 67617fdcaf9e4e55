package tmpl

import (
	"fmt"
	"strings"

	"github.com/lwmacct/251207-go-pkg-layerm/pkg/layer"
)

// PlaceholderMissingError 占位符引用的路径不存在
type PlaceholderMissingError struct {
	Placeholder layer.Path // 占位符路径
	Progress    layer.Path // 成功下降的前缀
	Context     layer.Path // 正在展开的字符串所在路径
}

func (e *PlaceholderMissingError) Error() string {
	return fmt.Sprintf("placeholder {%s} not found (resolved %q) while expanding %q",
		e.Placeholder, e.Progress.String(), e.Context.String())
}

// CyclicPlaceholderError 占位符引用链成环。
//
// Placeholders 按依赖顺序排列，每一项依赖下一项，最后一项依赖第一项。
type CyclicPlaceholderError struct {
	Placeholders []layer.Path
}

func (e *CyclicPlaceholderError) Error() string {
	parts := make([]string, 0, len(e.Placeholders)+1)
	for _, p := range e.Placeholders {
		parts = append(parts, "{"+p.String()+"}")
	}
	if len(e.Placeholders) > 0 {
		parts = append(parts, "{"+e.Placeholders[0].String()+"}")
	}

	return "cyclic placeholders: " + strings.Join(parts, " -> ")
}

// InvalidPlaceholderTypeError 占位符解析到不可代入的值 (null、bool、list、map)
type InvalidPlaceholderTypeError struct {
	Placeholder layer.Path
	Kind        layer.Kind
}

func (e *InvalidPlaceholderTypeError) Error() string {
	return fmt.Sprintf("placeholder {%s} resolves to %s, want string, integer or float", e.Placeholder, e.Kind)
}
