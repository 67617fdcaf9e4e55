// Package layer 定义分层配置树的数据模型并提供合并引擎。
//
// # 数据模型
//
//   - [Element]: null / bool / integer / float / string / list / map 的标签联合
//   - [Map]: 保留插入顺序的字符串键映射，一个 Layer 的根总是 Map
//   - [Path]: 逐级 Map 键组成的路径，列表不可寻址
//
// # 合并
//
// [Merge] 按优先级 (从高到低) 合并多个层：
//
//	merged, err := layer.Merge(overlay, base)
//
// 高层的值覆盖低层；显式 null 作为墓碑删除低层在该路径及其下方的值；
// 两层同为 Map 时递归合并；类型不一致时返回 [*TypeMismatchError]。
//
// 合并结果由全新节点构成，修改结果不会影响任何输入层。
package layer
