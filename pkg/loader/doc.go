// Package loader 将输入源解析为配置层并按优先级合并。
//
// 内置加载器：
//   - [JSON]: 保留对象键顺序，区分 integer 与 float
//   - [JSONC]: 允许注释与尾逗号的 JSON
//   - [YAML]: 保留映射键顺序，支持锚点与 << 合并键
//
// 使用 [LoadFiles] 加载并合并多个文件，第一个文件优先级最高：
//
//	tree, err := loader.LoadFiles([]loader.Source{
//	    loader.File("overlay.yaml"),
//	    loader.File("base.yaml"),
//	}, loader.YAML)
//
// 每个层的根必须是 Map，否则返回 [*InvalidLayerError]。
package loader
