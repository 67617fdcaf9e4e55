package tmpl_test

import (
	"errors"
	"fmt"

	"github.com/lwmacct/251207-go-pkg-layerm/pkg/layer"
	"github.com/lwmacct/251207-go-pkg-layerm/pkg/tmpl"
)

// ExampleExpand 演示从配置树根解析占位符，包括列表中的字符串。
func ExampleExpand() {
	tree := layer.NewMap().
		Set("url", layer.String("http://localhost:8000")).
		Set("endpoints", layer.List(
			layer.String("{url}/abc"),
			layer.String("{url}/def"),
		))

	expanded, err := tmpl.Expand(tree)
	if err != nil {
		fmt.Println(err)
		return
	}

	endpoints, _ := expanded.Get("endpoints")
	items, _ := endpoints.AsList()
	for _, item := range items {
		s, _ := item.AsString()
		fmt.Println(s)
	}

	// Output:
	// http://localhost:8000/abc
	// http://localhost:8000/def
}

// ExampleExpand_cycle 演示引用链成环时的错误。
func ExampleExpand_cycle() {
	tree := layer.NewMap().
		Set("a", layer.String("{b}")).
		Set("b", layer.String("{a}"))

	_, err := tmpl.Expand(tree)

	var cyclic *tmpl.CyclicPlaceholderError
	fmt.Println(errors.As(err, &cyclic))
	fmt.Println(err)

	// Output:
	// true
	// cyclic placeholders: {b} -> {a} -> {b}
}
