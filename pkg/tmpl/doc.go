// Package tmpl 提供配置树的占位符展开功能。
//
// 字符串值中的 {a.b.c} 会被替换为配置树根下 a → b → c 处的值，
// 与字符串所在的嵌套位置无关。
//
// # 规则
//
//  1. 路径每段由字母、数字、下划线组成，其余花括号文本原样保留
//  2. 被引用的字符串先完整展开再代入，支持任意深度的传递引用
//  3. 只有 string、integer、float 可以代入，bool 也不行
//  4. 引用链成环时报告环上的所有占位符 (依赖顺序)
//  5. 同一次展开中每个占位符只解析一次
//
// 示例：
//
//	# config.yaml
//	url: "http://localhost:8000"
//	endpoints:
//	  - "{url}/abc"
//	  - "{url}/def"
//
// 详见 [Expand] 文档。
package tmpl
